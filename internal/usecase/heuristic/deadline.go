package heuristic

import (
	"strings"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

// ExtractDeadline returns the clause's deadline expression: the first DEADLINE
// entity, else the leftmost lexicon pattern match, else ""
func ExtractDeadline(lex *Lexicon, text string, doc *entities.Document) string {
	if ent, ok := doc.FirstEntity(entities.LabelDeadline); ok {
		if expr := strings.TrimSpace(ent.Text); expr != "" {
			return expr
		}
	}
	return lex.FindDeadline(text)
}
