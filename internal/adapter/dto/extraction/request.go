package extraction

// ExtractTasksRequest is the body of POST /v1/extract-tasks.
// Either Texto or ObjectKey must be present.
type ExtractTasksRequest struct {
	Texto     string `json:"texto" validate:"required_without=ObjectKey,max=200000"`
	ObjectKey string `json:"object_key,omitempty" validate:"omitempty,max=1024"`
	Provedor  string `json:"provedor,omitempty" validate:"omitempty,oneof=heuristic spacy gemini"`
	// BaseDate pins deadline resolution (YYYY-MM-DD)
	BaseDate string `json:"data_base,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ListExtractionsRequest holds query parameters for GET /v1/extractions
type ListExtractionsRequest struct {
	Limit int `query:"limit" validate:"min=1,max=100"`
}
