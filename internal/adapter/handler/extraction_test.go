package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/internal/usecase/extraction"
	"github.com/GustavoCremonez/backend/pkg/config"
	pkgvalidator "github.com/GustavoCremonez/backend/pkg/validator"
)

type fakeService struct {
	lastReq extraction.Request
	result  *extraction.Result
	err     error
	runs    []entities.ExtractionRun
	limit   int
}

func (f *fakeService) Extract(_ context.Context, req extraction.Request) (*extraction.Result, error) {
	f.lastReq = req
	return f.result, f.err
}

func (f *fakeService) GetRun(_ context.Context, id uuid.UUID) (*entities.ExtractionRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, entities.ErrRunNotFound
}

func (f *fakeService) ListRuns(_ context.Context, limit int) ([]entities.ExtractionRun, error) {
	f.limit = limit
	return f.runs, f.err
}

func (f *fakeService) Providers() []entities.ExtractionProvider {
	return []entities.ExtractionProvider{entities.ProviderHeuristic}
}

func (f *fakeService) HistoryEnabled() bool { return true }

type envelope struct {
	Code    interface{}     `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Info    string          `json:"info"`
}

func newTestServer(svc *fakeService) *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	cfg := &config.Config{Server: config.ServerConfig{Environment: "test"}}
	NewRouter(cfg, NewExtractionHandler(svc, nil), svc).Setup(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get(echo.HeaderContentType) != "" && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestExtractTasks_Success(t *testing.T) {
	runID := uuid.New()
	svc := &fakeService{result: &extraction.Result{
		RunID:    &runID,
		Provider: entities.ProviderHeuristic,
		Records: []entities.PersonRecord{{
			Responsible: "Lucas",
			Done:        []string{"corrigi o bug"},
			Pending:     []entities.PendingItem{{Task: "vou subir a build amanhã", DeadlineExpr: "amanhã", DeadlineDate: "2025-03-13"}},
		}},
	}}
	e := newTestServer(svc)

	rec, env := do(t, e, http.MethodPost, "/v1/extract-tasks",
		`{"texto":"Lucas: corrigi o bug e vou subir a build amanhã","provedor":"spacy"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, env.Code)
	assert.Equal(t, "success", env.Message)

	assert.Equal(t, entities.ProviderSpacy, svc.lastReq.Provider)
	assert.Equal(t, "Lucas: corrigi o bug e vou subir a build amanhã", svc.lastReq.Transcript)
	assert.True(t, svc.lastReq.BaseDate.IsZero())
	assert.Empty(t, svc.lastReq.BaseDay)

	assert.JSONEq(t, fmt.Sprintf(`{
		"run_id": %q,
		"provedor": "heuristic",
		"cached": false,
		"pessoas": [{
			"responsavel": "Lucas",
			"feitas": ["corrigi o bug"],
			"a_fazer": [{"task": "vou subir a build amanhã", "prazo": "amanhã", "data_prazo": "2025-03-13", "descricao": ""}]
		}]
	}`, runID.String()), string(env.Data))
}

func TestExtractTasks_BaseDate(t *testing.T) {
	svc := &fakeService{result: &extraction.Result{Provider: entities.ProviderHeuristic, Records: []entities.PersonRecord{}}}
	e := newTestServer(svc)

	rec, env := do(t, e, http.MethodPost, "/v1/extract-tasks", `{"texto":"Ana: vou revisar","data_base":"2025-03-12"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-03-12", svc.lastReq.BaseDay)
	assert.JSONEq(t, `{"provedor":"heuristic","cached":false,"pessoas":[]}`, string(env.Data))
}

type baseRecorder struct {
	base time.Time
}

func (b *baseRecorder) ExtractAt(_ context.Context, _ string, base time.Time) ([]entities.PersonRecord, error) {
	b.base = base
	return []entities.PersonRecord{}, nil
}

func TestExtractTasks_BaseDateKeepsDayInFarEastZones(t *testing.T) {
	for _, zone := range []string{"Pacific/Kiritimati", "Pacific/Auckland", "America/Sao_Paulo", "Pacific/Pago_Pago"} {
		t.Run(zone, func(t *testing.T) {
			loc, err := time.LoadLocation(zone)
			require.NoError(t, err)

			strategy := &baseRecorder{}
			svc := extraction.NewService(extraction.Dependencies{
				Strategies: map[entities.ExtractionProvider]extraction.Strategy{entities.ProviderHeuristic: strategy},
				Location:   loc,
			}, nil)

			e := echo.New()
			e.Validator = pkgvalidator.New()
			cfg := &config.Config{Server: config.ServerConfig{Environment: "test"}}
			NewRouter(cfg, NewExtractionHandler(svc, nil), svc).Setup(e)

			// 2025-01-15 is summer time in Auckland (UTC+13)
			rec, _ := do(t, e, http.MethodPost, "/v1/extract-tasks", `{"texto":"Ana: vou revisar","data_base":"2025-01-15"}`)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "2025-01-15", strategy.base.Format("2006-01-02"))
			assert.Equal(t, loc, strategy.base.Location())
		})
	}
}

func TestExtractTasks_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"texto":`, "INVALID_PAYLOAD"},
		{"missing transcript", `{}`, "INVALID_ARGUMENT"},
		{"unknown provider", `{"texto":"oi","provedor":"bert"}`, "INVALID_ARGUMENT"},
		{"bad base date", `{"texto":"oi","data_base":"12/03/2025"}`, "INVALID_ARGUMENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(&fakeService{})
			rec, env := do(t, e, http.MethodPost, "/v1/extract-tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}

func TestExtractTasks_ServiceErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: annotator down", entities.ErrAnalysisUnavailable), http.StatusServiceUnavailable, "ANALYSIS_UNAVAILABLE"},
		{fmt.Errorf("%w: gemini", entities.ErrProviderUnavailable), http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE"},
		{fmt.Errorf("%w: 503", entities.ErrLLMUnavailable), http.StatusServiceUnavailable, "AI_SERVICE_UNAVAILABLE"},
		{fmt.Errorf("%w: 429", entities.ErrLLMQuotaExceeded), http.StatusTooManyRequests, "AI_QUOTA_EXCEEDED"},
		{fmt.Errorf("%w: not json", entities.ErrLLMResponseInvalid), http.StatusBadGateway, "AI_ANALYSIS_FAILED"},
		{fmt.Errorf("%w: daily.txt", entities.ErrTranscriptMissing), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: timeout", entities.ErrStorageFailure), http.StatusBadGateway, "INTEGRATION_STORAGE_FAILED"},
		{entities.ErrStorageDisabled, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{fmt.Errorf("%w: \"2025-13-01\"", entities.ErrInvalidBaseDate), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			e := newTestServer(&fakeService{err: tt.err})
			rec, env := do(t, e, http.MethodPost, "/v1/extract-tasks", `{"texto":"Ana: vou revisar"}`)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}

func TestGetExtraction(t *testing.T) {
	run := entities.ExtractionRun{
		ID:             uuid.New(),
		Provider:       entities.ProviderHeuristic,
		TranscriptHash: strings.Repeat("a", 64),
		Result:         datatypes.JSON(`[{"responsavel":"Ana","feitas":[],"a_fazer":[]}]`),
		PersonCount:    1,
		CreatedAt:      time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC),
	}
	e := newTestServer(&fakeService{runs: []entities.ExtractionRun{run}})

	rec, env := do(t, e, http.MethodGet, "/v1/extractions/"+run.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, run.ID.String(), got["id"])
	assert.Equal(t, "heuristic", got["provedor"])
	assert.NotNil(t, got["result"])

	rec, env = do(t, e, http.MethodGet, "/v1/extractions/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Code)

	rec, _ = do(t, e, http.MethodGet, "/v1/extractions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetExtraction_DatabaseFailure(t *testing.T) {
	e := newTestServer(&fakeService{err: errors.New("connection refused")})

	rec, env := do(t, e, http.MethodGet, "/v1/extractions/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "DB_QUERY_FAILED", env.Code)
}

func TestListExtractions(t *testing.T) {
	svc := &fakeService{runs: []entities.ExtractionRun{
		{ID: uuid.New(), Provider: entities.ProviderGemini, Result: datatypes.JSON(`[]`)},
	}}
	e := newTestServer(svc)

	rec, env := do(t, e, http.MethodGet, "/v1/extractions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultListLimit, svc.limit)

	var got struct {
		Items []map[string]interface{} `json:"items"`
		Count int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 1, got.Count)
	assert.NotContains(t, got.Items[0], "result")

	rec, _ = do(t, e, http.MethodGet, "/v1/extractions?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.limit)

	for _, q := range []string{"abc", "0", "500"} {
		rec, _ = do(t, e, http.MethodGet, "/v1/extractions?limit="+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestListExtractions_HistoryDisabled(t *testing.T) {
	e := newTestServer(&fakeService{err: entities.ErrHistoryDisabled})

	rec, env := do(t, e, http.MethodGet, "/v1/extractions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	e := newTestServer(&fakeService{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","environment":"test","providers":["heuristic"],"history":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
