package extraction

import (
	"encoding/json"
	"time"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

// ExtractTasksResponse is returned by POST /v1/extract-tasks
type ExtractTasksResponse struct {
	RunID    *string                 `json:"run_id,omitempty"`
	Provider string                  `json:"provedor"`
	Cached   bool                    `json:"cached"`
	Pessoas  []entities.PersonRecord `json:"pessoas"`
}

// ExtractionRunResponse describes one stored run
type ExtractionRunResponse struct {
	ID             string          `json:"id"`
	Provider       string          `json:"provedor"`
	TranscriptHash string          `json:"transcript_hash"`
	ObjectKey      *string         `json:"object_key,omitempty"`
	PersonCount    int             `json:"person_count"`
	DoneCount      int             `json:"done_count"`
	PendingCount   int             `json:"pending_count"`
	DurationMs     int64           `json:"duration_ms"`
	CreatedAt      time.Time       `json:"created_at"`
	Result         json.RawMessage `json:"result,omitempty"`
}

// NewExtractionRunResponse maps a run; the result body is included when withResult is set
func NewExtractionRunResponse(run *entities.ExtractionRun, withResult bool) ExtractionRunResponse {
	resp := ExtractionRunResponse{
		ID:             run.ID.String(),
		Provider:       string(run.Provider),
		TranscriptHash: run.TranscriptHash,
		ObjectKey:      run.ObjectKey,
		PersonCount:    run.PersonCount,
		DoneCount:      run.DoneCount,
		PendingCount:   run.PendingCount,
		DurationMs:     run.DurationMs,
		CreatedAt:      run.CreatedAt,
	}
	if withResult && len(run.Result) > 0 {
		resp.Result = json.RawMessage(run.Result)
	}
	return resp
}
