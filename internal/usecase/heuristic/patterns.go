package heuristic

import (
	"strings"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

// PatternClassifier detects pairing, meeting, blocker and negative clauses
type PatternClassifier struct {
	categories []Category
}

// NewPatternClassifier creates a classifier over the lexicon's categories
func NewPatternClassifier(lex *Lexicon) *PatternClassifier {
	return &PatternClassifier{categories: lex.Categories()}
}

// Classify returns a pending outcome tagged with the first matching category.
// ok is false when no category applies.
func (p *PatternClassifier) Classify(clause entities.Clause) (outcome entities.ClauseOutcome, ok bool) {
	text := strings.ToLower(clause.Text)
	for _, cat := range p.categories {
		if containsAny(text, cat.Phrases) {
			return entities.PendingOutcome(entities.PendingItem{
				Task:        clause.Text,
				Description: cat.Note,
			}), true
		}
	}
	return entities.NoOutcome(), false
}
