package heuristic

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var clauseTokenRe = regexp.MustCompile(`[;,.]|[\p{L}\p{N}]+`)

// ClauseSplitter cuts sentences into coordination-level clauses
type ClauseSplitter struct {
	lex *Lexicon
}

// NewClauseSplitter creates a splitter using the lexicon's conjunctions and time markers
func NewClauseSplitter(lex *Lexicon) *ClauseSplitter {
	return &ClauseSplitter{lex: lex}
}

// Split returns the non-empty clauses of sentence, left to right.
// Splitter tokens are discarded.
func (c *ClauseSplitter) Split(sentence string) []string {
	var clauses []string
	start := 0
	for _, loc := range clauseTokenRe.FindAllStringIndex(sentence, -1) {
		if !c.isSplitAt(sentence, loc[0], loc[1]) {
			continue
		}
		clauses = appendClause(clauses, sentence[start:loc[0]])
		start = loc[1]
	}
	return appendClause(clauses, sentence[start:])
}

func (c *ClauseSplitter) isSplitAt(sentence string, from, to int) bool {
	tok := sentence[from:to]
	switch tok {
	case ";":
		return true
	case ",", ".":
		// 1,5 and v1.2 stay intact
		return !(isAlnumBefore(sentence, from) && isAlnumAfter(sentence, to))
	}
	if !c.lex.IsSplitter(tok) {
		return false
	}
	if c.lex.IsTimeMarker(tok) && strings.HasSuffix(strings.ToLower(sentence[:from]), "depois de ") {
		return false
	}
	return true
}

func appendClause(clauses []string, fragment string) []string {
	fragment = strings.TrimSpace(fragment)
	if !strings.ContainsFunc(fragment, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) {
		return clauses
	}
	return append(clauses, fragment)
}

func isAlnumBefore(s string, i int) bool {
	r, size := utf8.DecodeLastRuneInString(s[:i])
	return size > 0 && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func isAlnumAfter(s string, i int) bool {
	r, size := utf8.DecodeRuneInString(s[i:])
	return size > 0 && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
