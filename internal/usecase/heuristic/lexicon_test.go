package heuristic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

func TestNormalizeName(t *testing.T) {
	lex := DefaultLexicon()

	tests := []struct {
		raw  string
		want string
	}{
		{"Alê", "Alessandra"},
		{"alê", "Alessandra"},
		{"ALE", "Alessandra"},
		{"Vini", "Vinícius"},
		{"Leozão", "Leonardo"},
		{"Isa", "Isabela"},
		{"joao", "João"},
		{"Caio", "Caio"},
		{"maria  clara", "Maria Clara"},
		{"LUCAS", "Lucas"},
		{"", entities.UnknownSpeaker},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lex.NormalizeName(tt.raw), tt.raw)
	}
}

func TestLexicon_Matchers(t *testing.T) {
	lex := DefaultLexicon()

	assert.True(t, lex.MatchesPreterite("Ele finalizou o deploy"))
	assert.True(t, lex.MatchesPreterite("a Ana FEZ a revisão"))
	assert.True(t, lex.MatchesPreterite("subiu pra produção"))
	assert.False(t, lex.MatchesPreterite("vou finalizar o deploy"))
	assert.False(t, lex.MatchesPreterite("refinalizou"))

	assert.True(t, lex.MatchesFutureMarker("Vai entregar"))
	assert.True(t, lex.MatchesFutureMarker("ficou de mandar o link"))
	assert.True(t, lex.MatchesFutureMarker("item a fazer"))
	assert.False(t, lex.MatchesFutureMarker("vaidade"))
	assert.True(t, lex.MatchesFutureMarker("Amanhã testamos a integração"))
	assert.True(t, lex.MatchesFutureMarker("fechamos na semana que vem"))
	assert.True(t, lex.MatchesPastMarker("Ontem testamos a integração"))
	assert.True(t, lex.MatchesPastMarker("fechamos na semana passada"))
	assert.False(t, lex.MatchesPastMarker("Amanhã testamos a integração"))

	assert.True(t, lex.HasNegative("Não consegui entregar"))
	assert.False(t, lex.HasNegative("consegui entregar"))

	assert.True(t, lex.IsPronoun("Ele"))
	assert.False(t, lex.IsPronoun("elemento"))

	assert.True(t, lex.IsSplitter("mas"))
	assert.False(t, lex.IsSplitter("Mas"))
	assert.True(t, lex.IsCompletedVerb("Revisar"))
	assert.True(t, lex.IsIntentVerb("precisar"))
	assert.False(t, lex.IsCompletedVerb("precisar"))
}

func TestLexicon_FindDeadline(t *testing.T) {
	lex := DefaultLexicon()

	tests := []struct {
		text string
		want string
	}{
		{"vou entregar depois de amanhã", "depois de amanhã"},
		{"Hoje vou revisar o PR", "Hoje"},
		{"subir até sexta-feira sem falta", "até sexta-feira"},
		{"publicar na próxima semana", "próxima semana"},
		{"fechar a sprint 15/3", "15/3"},
		{"entregar em 2 dias", "em 2 dias"},
		{"apresentar dia 20 de abril", "20 de abril"},
		{"fazer no próximo mês", "no próximo mês"},
		{"revisar os sextavados", ""},
		{"sem prazo", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lex.FindDeadline(tt.text), tt.text)
	}
}

func TestLexicon_Categories(t *testing.T) {
	cats := DefaultLexicon().Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, entities.NotePairing, cats[0].Note)
	assert.Equal(t, entities.NoteMeeting, cats[1].Note)
	assert.Equal(t, entities.NoteBlocked, cats[2].Note)
	assert.Equal(t, entities.NoteImpediment, cats[3].Note)
}

func TestLexicon_EntityRules(t *testing.T) {
	rules := DefaultLexicon().EntityRules()

	var deadlines, verbs int
	for _, r := range rules {
		switch r.Label {
		case entities.LabelDeadline:
			deadlines++
			assert.NotEmpty(t, r.Regex)
		case entities.LabelTaskVerb:
			verbs++
			assert.NotEmpty(t, r.Lemma)
		}
	}
	assert.Equal(t, len(DefaultLexiconConfig().DeadlinePattern), deadlines)
	assert.Equal(t, len(DefaultLexiconConfig().CompletedVerbs), verbs)
}

func TestLoadLexicon_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := `
team: [Gabriela]
aliases:
  Gabi: Gabriela
  Vini: Vinicius Souza
pairing:
  - mob com
negatives:
  - ficou travado
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	lex, err := LoadLexicon(path)
	require.NoError(t, err)

	assert.Equal(t, "Gabriela", lex.NormalizeName("gabi"))
	assert.Equal(t, "Vinicius Souza", lex.NormalizeName("Vini"))
	assert.Equal(t, "Alessandra", lex.NormalizeName("Alê"))
	assert.Contains(t, lex.TeamNames(), "Gabriela")
	assert.True(t, lex.HasNegative("o build ficou travado"))

	outcome, ok := NewPatternClassifier(lex).Classify(entities.Clause{Text: "vou fazer mob com o time"})
	require.True(t, ok)
	assert.Equal(t, entities.NotePairing, outcome.Item.Description)
}

func TestLoadLexicon_Errors(t *testing.T) {
	_, err := LoadLexicon(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("deadline_patterns:\n  - \"(unclosed\"\n"), 0o600))
	_, err = LoadLexicon(path)
	assert.Error(t, err)

	lex, err := LoadLexicon("")
	require.NoError(t, err)
	assert.NotNil(t, lex)
}
