package handler

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/GustavoCremonez/backend/errors"
	"github.com/GustavoCremonez/backend/internal/adapter/dto/common"
	dto "github.com/GustavoCremonez/backend/internal/adapter/dto/extraction"
	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/internal/usecase/extraction"
)

const defaultListLimit = 20

// ExtractionService is the use case behind the extraction endpoints
type ExtractionService interface {
	Extract(ctx context.Context, req extraction.Request) (*extraction.Result, error)
	GetRun(ctx context.Context, id uuid.UUID) (*entities.ExtractionRun, error)
	ListRuns(ctx context.Context, limit int) ([]entities.ExtractionRun, error)
}

// Extraction handles task extraction HTTP requests
type Extraction struct {
	service ExtractionService
	logger  *zap.Logger
}

// NewExtractionHandler creates a new extraction handler
func NewExtractionHandler(service ExtractionService, logger *zap.Logger) *Extraction {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extraction{service: service, logger: logger}
}

// ExtractTasks handles POST /v1/extract-tasks
// @Summary      Extract tasks from a meeting transcript
// @Description  Groups completed and pending work by person
// @Tags         Extraction
// @Accept       json
// @Produce      json
// @Param        request  body      extraction.ExtractTasksRequest  true  "Transcript and provider"
// @Success      200      {object}  extraction.ExtractTasksResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Failure      503      {object}  map[string]interface{}  "Analysis or provider unavailable"
// @Router       /extract-tasks [post]
func (h *Extraction) ExtractTasks(c echo.Context) error {
	var req dto.ExtractTasksRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	in := extraction.Request{
		Transcript: req.Texto,
		ObjectKey:  req.ObjectKey,
		Provider:   entities.ExtractionProvider(req.Provedor),
		BaseDay:    req.BaseDate,
	}

	res, err := h.service.Extract(c.Request().Context(), in)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := dto.ExtractTasksResponse{
		Provider: string(res.Provider),
		Cached:   res.Cached,
		Pessoas:  res.Records,
	}
	if res.RunID != nil {
		id := res.RunID.String()
		resp.RunID = &id
	}
	return HandleSuccess(h.logger, c, resp)
}

// GetExtraction handles GET /v1/extractions/:id
// @Summary      Get a stored extraction run
// @Tags         Extraction
// @Produce      json
// @Param        id   path      string  true  "Run ID"
// @Success      200  {object}  extraction.ExtractionRunResponse
// @Failure      404  {object}  map[string]interface{}  "Run not found"
// @Router       /extractions/{id} [get]
func (h *Extraction) GetExtraction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("id must be a UUID"))
	}

	run, err := h.service.GetRun(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, dbError("get extraction run", err))
	}
	return HandleSuccess(h.logger, c, dto.NewExtractionRunResponse(run, true))
}

// ListExtractions handles GET /v1/extractions
// @Summary      List recent extraction runs
// @Tags         Extraction
// @Produce      json
// @Param        limit  query     int  false  "Max items (1-100)"
// @Success      200    {object}  common.ListResponse
// @Router       /extractions [get]
func (h *Extraction) ListExtractions(c echo.Context) error {
	req := dto.ListExtractionsRequest{Limit: defaultListLimit}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("limit must be a number"))
		}
		req.Limit = limit
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	runs, err := h.service.ListRuns(c.Request().Context(), req.Limit)
	if err != nil {
		return HandleError(h.logger, c, dbError("list extraction runs", err))
	}

	items := make([]dto.ExtractionRunResponse, 0, len(runs))
	for i := range runs {
		items = append(items, dto.NewExtractionRunResponse(&runs[i], false))
	}
	return HandleSuccess(h.logger, c, common.ListResponse{Items: items, Count: len(items)})
}

// dbError keeps domain errors and tags the rest as query failures
func dbError(query string, err error) error {
	if toAppError(err).Code != errors.ErrorCode_INTERNAL {
		return err
	}
	return errors.ErrDBQueryFailed(query, err)
}
