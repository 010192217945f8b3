package common

// ListResponse represents a list response with its size
type ListResponse struct {
	Items interface{} `json:"items"`
	Count int         `json:"count"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status      string   `json:"status"`
	Environment string   `json:"environment"`
	Providers   []string `json:"providers"`
	History     bool     `json:"history"`
}
