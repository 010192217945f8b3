package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

// ParseResponse decodes the model answer into person records.
// Markdown fences are stripped; when the cleaned text is not a JSON array
// the outermost [...] block is tried instead.
func ParseResponse(content string) ([]entities.PersonRecord, error) {
	cleaned := extractJSON(content)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty answer", entities.ErrLLMResponseInvalid)
	}

	records, err := decodeRecords(cleaned)
	if err != nil {
		start := strings.Index(cleaned, "[")
		end := strings.LastIndex(cleaned, "]")
		if start == -1 || end <= start {
			return nil, fmt.Errorf("%w: %v", entities.ErrLLMResponseInvalid, err)
		}
		records, err = decodeRecords(cleaned[start : end+1])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entities.ErrLLMResponseInvalid, err)
		}
	}
	return sanitize(records), nil
}

func decodeRecords(s string) ([]entities.PersonRecord, error) {
	var records []entities.PersonRecord
	if err := json.Unmarshal([]byte(s), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// sanitize trims names, fills empty ones and replaces null lists
func sanitize(records []entities.PersonRecord) []entities.PersonRecord {
	out := make([]entities.PersonRecord, 0, len(records))
	for _, rec := range records {
		rec.Responsible = strings.TrimSpace(rec.Responsible)
		if rec.Responsible == "" {
			rec.Responsible = entities.UnknownSpeaker
		}
		if rec.Done == nil {
			rec.Done = []string{}
		}
		if rec.Pending == nil {
			rec.Pending = []entities.PendingItem{}
		}
		out = append(out, rec)
	}
	return out
}

// extractJSON strips a surrounding markdown code block
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
