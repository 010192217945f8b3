package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GustavoCremonez/backend/pkg/config"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-2.0-flash"
)

var (
	// ErrUnavailable is returned when the API cannot be reached or keeps failing
	ErrUnavailable = errors.New("gemini unavailable")
	// ErrQuotaExceeded is returned when the API keeps answering 429
	ErrQuotaExceeded = errors.New("gemini quota exceeded")
	// ErrEmptyResponse is returned when no candidate text comes back
	ErrEmptyResponse = errors.New("empty response from gemini")
)

// GeminiClient is a minimal client for the Gemini generateContent API
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxRetries uint64
	client     *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger

	// backoff tuning, shortened in tests
	initialInterval time.Duration
	maxElapsed      time.Duration
}

// NewGeminiClient creates a Gemini client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewGeminiClient(cfg *config.GeminiConfig, logger *zap.Logger) *GeminiClient {
	var apiKey, base, model string
	timeout := 30 * time.Second
	perMinute := 0
	var retries uint64 = 3
	if cfg != nil {
		apiKey, base, model = cfg.APIKey, cfg.BaseURL, cfg.Model
		perMinute = cfg.RatePerMinute
		retries = cfg.MaxRetries
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if base == "" {
		base = defaultGeminiBaseURL
	}
	if model == "" {
		model = defaultGeminiModel
	}

	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}

	return &GeminiClient{
		apiKey:          apiKey,
		baseURL:         strings.TrimRight(base, "/"),
		model:           model,
		maxRetries:      retries,
		client:          &http.Client{Timeout: timeout},
		limiter:         rate.NewLimiter(limit, 1),
		logger:          logger,
		initialInterval: time.Second,
		maxElapsed:      45 * time.Second,
	}
}

// Configured reports whether an API key is available
func (g *GeminiClient) Configured() bool {
	return g != nil && g.apiKey != ""
}

// GenerateRequest is the shape for generateContent requests
type GenerateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is one turn of the conversation
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a piece of content
type Part struct {
	Text string `json:"text"`
}

// GenerationConfig tunes sampling
type GenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

// GenerateResponse is a minimal response shape
type GenerateResponse struct {
	Candidates []struct {
		Content Content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// statusError carries a non-2xx answer through the retry loop
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("gemini returned status %d: %s", e.status, e.message)
}

// GenerateContent sends prompt to the model and returns the text of the first candidate
func (g *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
		GenerationConfig: &GenerationConfig{
			Temperature: 0.2,
		},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	var text string
	attempt := 0
	callFn := func() error {
		attempt++
		if err := g.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		out, err := g.call(ctx, b)
		if err == nil {
			text = out
			return nil
		}

		var se *statusError
		if errors.As(err, &se) && se.status != http.StatusTooManyRequests && se.status < 500 {
			return backoff.Permanent(err)
		}
		if errors.Is(err, ErrEmptyResponse) {
			return backoff.Permanent(err)
		}
		if g.logger != nil {
			g.logger.Warn("gemini.request.retry",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		return err
	}

	// Retry logic with exponential backoff
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.initialInterval
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = g.maxElapsed

	if err := backoff.Retry(callFn, backoff.WithContext(backoff.WithMaxRetries(bo, g.maxRetries), ctx)); err != nil {
		if g.logger != nil {
			g.logger.Error("❌ Gemini request failed",
				zap.String("model", g.model),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
		}
		return "", classify(err)
	}
	return text, nil
}

func (g *GeminiClient) call(ctx context.Context, body []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var ae apiError
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &ae) == nil && ae.Error.Message != "" {
			msg = ae.Error.Message
		}
		return "", &statusError{status: resp.StatusCode, message: msg}
	}

	var gr GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// classify maps a final error onto the package sentinels
func classify(err error) error {
	var se *statusError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, ErrEmptyResponse):
		return err
	case errors.As(err, &se) && se.status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
