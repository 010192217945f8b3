package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/internal/usecase/deadline"
	"github.com/GustavoCremonez/backend/pkg/ai"
	"github.com/GustavoCremonez/backend/pkg/dateresolver"
)

type fakeLLM struct {
	answer string
	err    error
	prompt string
	calls  int
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.answer, f.err
}

// Wednesday
func fixedNow() time.Time {
	return time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)
}

func newExtractor(client *fakeLLM) *Extractor {
	normalizer := deadline.NewNormalizer(dateresolver.New(dateresolver.Options{}), fixedNow)
	return NewExtractor(client, normalizer, nil)
}

func TestExtract_RecomputesDeadlines(t *testing.T) {
	client := &fakeLLM{answer: "```json\n" + `[
		{"responsavel":"Lucas","feitas":["corrigi o bug"],"a_fazer":[
			{"task":"subir a build","prazo":"amanhã","data_prazo":"1999-01-01","descricao":""},
			{"task":"documentar","prazo":"","data_prazo":"2025-05-05"}
		]}
	]` + "\n```"}

	records, err := newExtractor(client).Extract(context.Background(), "Lucas: corrigi o bug e vou subir a build amanhã")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "Lucas", records[0].Responsible)
	assert.Equal(t, []string{"corrigi o bug"}, records[0].Done)
	require.Len(t, records[0].Pending, 2)
	assert.Equal(t, "2025-03-13", records[0].Pending[0].DeadlineDate)
	assert.Equal(t, "", records[0].Pending[1].DeadlineDate)
	assert.Contains(t, client.prompt, "Texto: Lucas: corrigi o bug")
}

func TestExtract_EmptyTranscriptSkipsModel(t *testing.T) {
	client := &fakeLLM{}
	records, err := newExtractor(client).Extract(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, client.calls)
}

func TestExtract_ClientErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"quota", fmt.Errorf("%w: 429", ai.ErrQuotaExceeded), entities.ErrLLMQuotaExceeded},
		{"unavailable", fmt.Errorf("%w: 503", ai.ErrUnavailable), entities.ErrLLMUnavailable},
		{"transport", errors.New("connection refused"), entities.ErrLLMUnavailable},
		{"empty", ai.ErrEmptyResponse, entities.ErrLLMResponseInvalid},
		{"cancelled", context.Canceled, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newExtractor(&fakeLLM{err: tt.err}).Extract(context.Background(), "Ana: vou revisar")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtract_MalformedAnswer(t *testing.T) {
	_, err := newExtractor(&fakeLLM{answer: "desculpe, não entendi"}).Extract(context.Background(), "Ana: vou revisar")
	assert.ErrorIs(t, err, entities.ErrLLMResponseInvalid)
}
