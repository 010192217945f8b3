package heuristic

import (
	"strings"
	"unicode"
)

// ResolveResponsible returns lastSpeaker when the clause opens with a bare
// pronoun and a previous speaker exists, otherwise speaker
func ResolveResponsible(lex *Lexicon, clause, speaker, lastSpeaker string) string {
	if lastSpeaker == "" {
		return speaker
	}
	if lex.IsPronoun(firstWord(clause)) {
		return lastSpeaker
	}
	return speaker
}

func firstWord(text string) string {
	text = strings.TrimLeftFunc(text, func(r rune) bool { return !unicode.IsLetter(r) })
	end := strings.IndexFunc(text, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		return text
	}
	return text[:end]
}
