package deadline

import (
	"fmt"
	"strings"
	"time"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

// Resolver converts a deadline expression into a YYYY-MM-DD date relative to base.
// An unresolvable expression yields "" and no error.
type Resolver interface {
	Resolve(expr string, base time.Time) (string, error)
}

// Normalizer derives deadline dates from deadline expressions.
// It is shared by the heuristic and LLM extraction strategies.
type Normalizer struct {
	resolver Resolver
	now      func() time.Time
}

// NewNormalizer creates a normalizer. A nil clock defaults to time.Now.
func NewNormalizer(resolver Resolver, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{resolver: resolver, now: now}
}

// Now returns the current time of the normalizer's clock
func (n *Normalizer) Now() time.Time {
	return n.now()
}

// Normalize resolves expr against the current time
func (n *Normalizer) Normalize(expr string) (string, error) {
	return n.NormalizeAt(expr, n.now())
}

// NormalizeAt resolves expr against base. Empty input yields empty output.
func (n *Normalizer) NormalizeAt(expr string, base time.Time) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", nil
	}
	date, err := n.resolver.Resolve(expr, base)
	if err != nil {
		return "", fmt.Errorf("%w: resolve deadline %q: %v", entities.ErrAnalysisUnavailable, expr, err)
	}
	return date, nil
}

// NormalizeDeadlines recomputes every pending item's deadline date from its
// expression, overwriting whatever date was there
func (n *Normalizer) NormalizeDeadlines(records []entities.PersonRecord) ([]entities.PersonRecord, error) {
	return n.NormalizeDeadlinesAt(records, n.now())
}

// NormalizeDeadlinesAt is NormalizeDeadlines with an explicit base date.
// The input slice is not modified.
func (n *Normalizer) NormalizeDeadlinesAt(records []entities.PersonRecord, base time.Time) ([]entities.PersonRecord, error) {
	out := make([]entities.PersonRecord, len(records))
	for i, rec := range records {
		pending := make([]entities.PendingItem, len(rec.Pending))
		for j, item := range rec.Pending {
			date, err := n.NormalizeAt(item.DeadlineExpr, base)
			if err != nil {
				return nil, err
			}
			item.DeadlineDate = date
			pending[j] = item
		}
		done := make([]string, len(rec.Done))
		copy(done, rec.Done)
		out[i] = entities.PersonRecord{
			Responsible: rec.Responsible,
			Done:        done,
			Pending:     pending,
		}
	}
	return out, nil
}
