package nlp

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

type compiledRule struct {
	label string
	re    *regexp.Regexp
	lemma string
}

// entityRuler applies declarative phrase, regex and lemma rules
type entityRuler struct {
	rules []compiledRule
}

func newEntityRuler(rules []entities.EntityRule) (*entityRuler, error) {
	r := &entityRuler{rules: make([]compiledRule, 0, len(rules))}
	for i, rule := range rules {
		if rule.Label == "" {
			return nil, fmt.Errorf("entity rule %d: missing label", i)
		}
		switch {
		case rule.Phrase != "":
			re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(rule.Phrase))
			if err != nil {
				return nil, fmt.Errorf("entity rule %d: %w", i, err)
			}
			r.rules = append(r.rules, compiledRule{label: rule.Label, re: re})
		case rule.Regex != "":
			re, err := regexp.Compile(`(?i)(?:` + rule.Regex + `)`)
			if err != nil {
				return nil, fmt.Errorf("entity rule %d: %w", i, err)
			}
			r.rules = append(r.rules, compiledRule{label: rule.Label, re: re})
		case rule.Lemma != "":
			r.rules = append(r.rules, compiledRule{label: rule.Label, lemma: strings.ToLower(rule.Lemma)})
		default:
			return nil, fmt.Errorf("entity rule %d: no pattern", i)
		}
	}
	return r, nil
}

// match returns non-overlapping rule entities, longest span first on conflict
func (r *entityRuler) match(text string, tokens []entities.Token) []entities.NamedEntity {
	var candidates []entities.NamedEntity
	for _, rule := range r.rules {
		if rule.re != nil {
			for _, loc := range findBounded(rule.re, text) {
				candidates = append(candidates, newEntity(text, loc[0], loc[1], rule.label))
			}
			continue
		}
		for _, tok := range tokens {
			if tok.Lemma == rule.lemma {
				candidates = append(candidates, newEntity(text, tok.Start, tok.End, rule.label))
			}
		}
	}
	return filterSpans(candidates)
}

// findBounded finds matches of re that start and end on word boundaries.
// Go's \b only understands ASCII letters.
func findBounded(re *regexp.Regexp, text string) [][2]int {
	var out [][2]int
	pos := 0
	for pos < len(text) {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end > start && wordBoundaryBefore(text, start) && wordBoundaryAfter(text, end) {
			out = append(out, [2]int{start, end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		if size == 0 {
			size = 1
		}
		pos = start + size
	}
	return out
}

// filterSpans keeps the longest spans, dropping any that overlap a kept one
func filterSpans(spans []entities.NamedEntity) []entities.NamedEntity {
	sorted := append([]entities.NamedEntity(nil), spans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		li, lj := sorted[i].End-sorted[i].Start, sorted[j].End-sorted[j].Start
		if li != lj {
			return li > lj
		}
		return sorted[i].Start < sorted[j].Start
	})

	var kept []entities.NamedEntity
	for _, s := range sorted {
		if !overlapsAny(s, kept) {
			kept = append(kept, s)
		}
	}
	sortByStart(kept)
	return kept
}

func overlapsAny(s entities.NamedEntity, others []entities.NamedEntity) bool {
	for _, o := range others {
		if s.Start < o.End && o.Start < s.End {
			return true
		}
	}
	return false
}

func sortByStart(spans []entities.NamedEntity) {
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
}

func newEntity(text string, start, end int, label string) entities.NamedEntity {
	return entities.NamedEntity{
		Text:  text[start:end],
		Label: label,
		Span:  entities.Span{Start: start, End: end},
	}
}

func wordBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func wordBoundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
