package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

func verb(text, lemma, tense string) entities.Token {
	return entities.Token{
		Text:  text,
		Lemma: lemma,
		POS:   "VERB",
		Morph: map[string]string{entities.MorphTense: tense},
	}
}

func docOf(tokens ...entities.Token) *entities.Document {
	return &entities.Document{Tokens: tokens}
}

func TestTenseClassifier_IsPast(t *testing.T) {
	tc := NewTenseClassifier(DefaultLexicon())

	assert.True(t, tc.IsPast("finalizei o login", docOf(verb("finalizei", "finalizar", entities.TensePast))))
	// preterite fallback without morphology
	assert.True(t, tc.IsPast("ele revisou o PR", docOf()))
	assert.True(t, tc.IsPast("ele revisou o PR", nil))
	// lemma outside the completed list
	assert.False(t, tc.IsPast("fui ao médico", docOf(verb("fui", "ser", entities.TensePast))))
	// wrong tense
	assert.False(t, tc.IsPast("finalizo hoje", docOf(verb("finalizo", "finalizar", entities.TensePresent))))
	// negation wins over a past verb
	assert.False(t, tc.IsPast("não consegui finalizar, corrigiu só metade", docOf(verb("corrigiu", "corrigir", entities.TensePast))))
}

func TestTenseClassifier_FirstPluralNeedsPastMarker(t *testing.T) {
	tc := NewTenseClassifier(DefaultLexicon())
	testamos := entities.Token{
		Text:  "testamos",
		Lemma: "testar",
		POS:   "VERB",
		Morph: map[string]string{"Number": "Plur", "Person": "1", entities.MorphVerb: "Fin"},
	}

	assert.True(t, tc.IsPast("ontem testamos a integração", docOf(testamos)))
	assert.True(t, tc.IsPast("já testamos a integração", docOf(testamos)))
	assert.False(t, tc.IsPast("amanhã testamos a integração", docOf(testamos)))
	assert.True(t, tc.IsFuture("amanhã testamos a integração", docOf(testamos)))
}

func TestTenseClassifier_IsFuture(t *testing.T) {
	tc := NewTenseClassifier(DefaultLexicon())

	assert.True(t, tc.IsFuture("entregarei o módulo", docOf(verb("entregarei", "entregar", entities.TenseFuture))))
	assert.True(t, tc.IsFuture("precisarei de ajuda", docOf(verb("precisarei", "precisar", entities.TenseFuture))))
	assert.True(t, tc.IsFuture("vou revisar", docOf()))
	assert.True(t, tc.IsFuture("ainda preciso revisar", nil))
	assert.True(t, tc.IsFuture("item pendente", nil))
	assert.True(t, tc.IsFuture("não terminei o relatório", nil))
	assert.False(t, tc.IsFuture("o tempo está bom", docOf(verb("está", "estar", entities.TensePresent))))
}

func TestResolveResponsible(t *testing.T) {
	lex := DefaultLexicon()

	assert.Equal(t, "Ana", ResolveResponsible(lex, "Ela vai subir o hotfix", "Caio", "Ana"))
	assert.Equal(t, "Ana", ResolveResponsible(lex, "dele falta o teste", "Caio", "Ana"))
	assert.Equal(t, "Caio", ResolveResponsible(lex, "Ela vai subir o hotfix", "Caio", ""))
	assert.Equal(t, "Caio", ResolveResponsible(lex, "elemento novo no layout", "Caio", "Ana"))
	assert.Equal(t, "Caio", ResolveResponsible(lex, "vou ver com ela", "Caio", "Ana"))
}
