package nlp

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

func newAnnotator(t *testing.T, opts LocalOptions) *LocalAnnotator {
	t.Helper()
	a, err := NewLocalAnnotator(opts)
	require.NoError(t, err)
	return a
}

func tokenByText(t *testing.T, doc *entities.Document, text string) entities.Token {
	t.Helper()
	for _, tok := range doc.Tokens {
		if tok.Text == text {
			return tok
		}
	}
	t.Fatalf("token %q not found", text)
	return entities.Token{}
}

func TestAnnotate_Sentences(t *testing.T) {
	a := newAnnotator(t, LocalOptions{})

	doc, err := a.Annotate(context.Background(), "Ontem finalizei o login. Vou revisar amanhã!\nDepois vejo o resto")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Ontem finalizei o login.",
		"Vou revisar amanhã!",
		"Depois vejo o resto",
	}, doc.SentenceTexts())
}

func TestAnnotate_SentencesKeepAbbreviations(t *testing.T) {
	a := newAnnotator(t, LocalOptions{})

	doc, err := a.Annotate(context.Background(), "Falei com o Sr. Paulo sobre o deploy. Amanhã vou revisar o PR.")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Falei com o Sr. Paulo sobre o deploy.",
		"Amanhã vou revisar o PR.",
	}, doc.SentenceTexts())
}

func TestAnnotate_SentencesAcrossLines(t *testing.T) {
	a := newAnnotator(t, LocalOptions{})

	doc, err := a.Annotate(context.Background(), "  subi a build\n\n   corrigi o teste  ")
	require.NoError(t, err)

	assert.Equal(t, []string{"subi a build", "corrigi o teste"}, doc.SentenceTexts())
	for _, s := range doc.Sentences {
		assert.Equal(t, strings.TrimSpace(doc.Text[s.Start:s.End]), doc.Text[s.Start:s.End])
	}
}

func TestAnnotate_EmptyText(t *testing.T) {
	a := newAnnotator(t, LocalOptions{})

	doc, err := a.Annotate(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, doc.Sentences)
	assert.Empty(t, doc.Tokens)
	assert.Empty(t, doc.Entities)
}

func TestAnnotate_Morphology(t *testing.T) {
	a := newAnnotator(t, LocalOptions{Verbs: []string{"corrigir", "marcar", "entregar", "revisar"}})

	doc, err := a.Annotate(context.Background(),
		"corrigi marquei começou entregará corrijo fez vai preciso revisando")
	require.NoError(t, err)

	tests := []struct {
		text  string
		lemma string
		tense string
	}{
		{"corrigi", "corrigir", entities.TensePast},
		{"marquei", "marcar", entities.TensePast},
		{"começou", "começar", entities.TensePast},
		{"entregará", "entregar", entities.TenseFuture},
		{"corrijo", "corrigir", entities.TensePresent},
		{"fez", "fazer", entities.TensePast},
		{"vai", "ir", entities.TensePresent},
		{"preciso", "precisar", entities.TensePresent},
	}
	for _, tt := range tests {
		tok := tokenByText(t, doc, tt.text)
		assert.Equal(t, tt.lemma, tok.Lemma, tt.text)
		assert.True(t, tok.HasTense(tt.tense), tt.text)
	}

	assert.Equal(t, "AUX", tokenByText(t, doc, "vai").POS)
	ger := tokenByText(t, doc, "revisando")
	assert.Equal(t, "revisar", ger.Lemma)
	assert.Equal(t, "Ger", ger.Morph[entities.MorphVerb])
}

func TestAnnotate_FirstPluralCarriesNoTense(t *testing.T) {
	a := newAnnotator(t, LocalOptions{Verbs: []string{"testar"}})

	doc, err := a.Annotate(context.Background(), "amanhã testamos a integração")
	require.NoError(t, err)

	tok := tokenByText(t, doc, "testamos")
	assert.Equal(t, "testar", tok.Lemma)
	assert.Equal(t, "Fin", tok.Morph[entities.MorphVerb])
	assert.Empty(t, tok.Morph[entities.MorphTense])
}

func TestAnnotate_POSAndDependencies(t *testing.T) {
	a := newAnnotator(t, LocalOptions{People: []string{"Ana"}, Verbs: []string{"revisar"}})

	doc, err := a.Annotate(context.Background(), "Ana revisou o PR.")
	require.NoError(t, err)

	ana := tokenByText(t, doc, "Ana")
	assert.Equal(t, "PROPN", ana.POS)
	assert.Equal(t, "nsubj", ana.Dep)

	verb := tokenByText(t, doc, "revisou")
	assert.Equal(t, "VERB", verb.POS)
	assert.Equal(t, "ROOT", verb.Dep)

	assert.Equal(t, "det", tokenByText(t, doc, "o").Dep)
	assert.Equal(t, "punct", tokenByText(t, doc, ".").Dep)
}

func TestAnnotate_PassiveParticiple(t *testing.T) {
	a := newAnnotator(t, LocalOptions{Verbs: []string{"revisar"}})

	doc, err := a.Annotate(context.Background(), "O PR foi revisado, o outro está revisado")
	require.NoError(t, err)

	var participles []entities.Token
	for _, tok := range doc.Tokens {
		if tok.Text == "revisado" {
			participles = append(participles, tok)
		}
	}
	require.Len(t, participles, 2)
	assert.True(t, participles[0].HasTense(entities.TensePast))
	assert.False(t, participles[1].HasTense(entities.TensePast))
}

func TestAnnotate_EntityRules(t *testing.T) {
	a := newAnnotator(t, LocalOptions{
		Rules: []entities.EntityRule{
			{Label: entities.LabelDeadline, Regex: `sexta(?:-feira)?`},
			{Label: entities.LabelDeadline, Regex: `at[eé] sexta`},
			{Label: entities.LabelTaskVerb, Lemma: "entregar"},
			{Label: "TEAM", Phrase: "time da Ana"},
		},
		People: []string{"Ana"},
	})

	doc, err := a.Annotate(context.Background(), "Entregou o sextavado, entrego até sexta pro time da Ana e pra Ana")
	require.NoError(t, err)

	type span struct{ text, label string }
	var got []span
	for _, e := range doc.Entities {
		got = append(got, span{e.Text, e.Label})
	}
	assert.Equal(t, []span{
		{"Entregou", entities.LabelTaskVerb},
		{"entrego", entities.LabelTaskVerb},
		{"até sexta", entities.LabelDeadline},
		{"time da Ana", "TEAM"},
		{"Ana", entities.LabelPerson},
	}, got)

	first, ok := doc.FirstEntity(entities.LabelDeadline)
	require.True(t, ok)
	assert.Equal(t, "até sexta", first.Text)
	assert.Equal(t, first.Text, doc.Text[first.Start:first.End])
}

func TestNewLocalAnnotator_InvalidRules(t *testing.T) {
	_, err := NewLocalAnnotator(LocalOptions{Rules: []entities.EntityRule{{Regex: "x"}}})
	assert.ErrorIs(t, err, entities.ErrAnalysisUnavailable)

	_, err = NewLocalAnnotator(LocalOptions{Rules: []entities.EntityRule{{Label: "X", Regex: "(open"}}})
	assert.ErrorIs(t, err, entities.ErrAnalysisUnavailable)

	_, err = NewLocalAnnotator(LocalOptions{Rules: []entities.EntityRule{{Label: "X"}}})
	assert.ErrorIs(t, err, entities.ErrAnalysisUnavailable)
}

func TestAnnotate_Cancelled(t *testing.T) {
	a := newAnnotator(t, LocalOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Annotate(ctx, "texto")
	assert.ErrorIs(t, err, context.Canceled)
}
