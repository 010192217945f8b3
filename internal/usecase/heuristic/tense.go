package heuristic

import (
	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

// TenseClassifier decides whether a clause reports finished or planned work
type TenseClassifier struct {
	lex *Lexicon
}

// NewTenseClassifier creates a classifier over the lexicon's verb lists
func NewTenseClassifier(lex *Lexicon) *TenseClassifier {
	return &TenseClassifier{lex: lex}
}

// IsPast reports completed work. An explicit negative phrase always wins.
func (t *TenseClassifier) IsPast(text string, doc *entities.Document) bool {
	if t.lex.HasNegative(text) {
		return false
	}
	if doc != nil {
		for _, tok := range doc.Tokens {
			if !t.lex.IsCompletedVerb(tok.Lemma) {
				continue
			}
			if tok.HasTense(entities.TensePast) {
				return true
			}
			// 1pl forms like "testamos" carry no tense; a past time word decides
			if untensedFinite(tok) && t.lex.MatchesPastMarker(text) {
				return true
			}
		}
	}
	return t.lex.MatchesPreterite(text)
}

// IsFuture reports planned or pending work. An explicit negative phrase
// always counts as pending.
func (t *TenseClassifier) IsFuture(text string, doc *entities.Document) bool {
	if t.lex.HasNegative(text) {
		return true
	}
	if doc != nil {
		for _, tok := range doc.Tokens {
			if t.lex.IsIntentVerb(tok.Lemma) && tok.HasTense(entities.TenseFuture) {
				return true
			}
		}
	}
	return t.lex.MatchesFutureMarker(text)
}

func untensedFinite(tok entities.Token) bool {
	return tok.Morph != nil && tok.Morph[entities.MorphVerb] == "Fin" && tok.Morph[entities.MorphTense] == ""
}
