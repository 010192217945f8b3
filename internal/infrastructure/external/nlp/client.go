package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/internal/domain/services"
	"github.com/GustavoCremonez/backend/pkg/config"
)

var _ services.Annotator = (*Client)(nil)

// AnnotateRequest is the body sent to the annotation sidecar
type AnnotateRequest struct {
	Text  string                `json:"text"`
	Rules []entities.EntityRule `json:"rules,omitempty"`
}

// Client annotates text through a remote NLP sidecar (POST /annotate).
// The sidecar is expected to apply Rules ahead of its own recognizers.
type Client struct {
	baseURL string
	rules   []entities.EntityRule
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a sidecar client. rules are forwarded with every request.
func NewClient(cfg *config.NLPConfig, rules []entities.EntityRule, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := 10 * time.Second
	base := ""
	if cfg != nil {
		base = cfg.RemoteURL
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		rules:   append([]entities.EntityRule(nil), rules...),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Annotate implements services.Annotator
func (c *Client) Annotate(ctx context.Context, text string) (*entities.Document, error) {
	payload, err := json.Marshal(AnnotateRequest{Text: text, Rules: c.rules})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", entities.ErrAnalysisUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/annotate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", entities.ErrAnalysisUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		c.logger.Warn("nlp.remote.request_failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", entities.ErrAnalysisUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("nlp.remote.bad_status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", strings.TrimSpace(string(body))),
		)
		return nil, fmt.Errorf("%w: sidecar returned status %d", entities.ErrAnalysisUnavailable, resp.StatusCode)
	}

	var doc entities.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", entities.ErrAnalysisUnavailable, err)
	}
	if doc.Text == "" {
		doc.Text = text
	}
	if doc.Sentences == nil {
		doc.Sentences = []entities.Span{}
	}
	if doc.Tokens == nil {
		doc.Tokens = []entities.Token{}
	}
	if doc.Entities == nil {
		doc.Entities = []entities.NamedEntity{}
	}
	return &doc, nil
}
