package nlp

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/data"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/internal/domain/services"
)

var _ services.Annotator = (*LocalAnnotator)(nil)

var (
	tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:[-/'][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]`)
)

// LocalOptions configures the in-process annotator
type LocalOptions struct {
	// Rules are custom entity patterns (DEADLINE, TASK-VERB, ...)
	Rules []entities.EntityRule
	// People feeds the built-in PER recognizer
	People []string
	// Verbs are conjugated on top of the built-in verb list
	Verbs []string
}

// LocalAnnotator is a rule-based Portuguese annotator.
// It is immutable after construction and safe for concurrent use.
type LocalAnnotator struct {
	sentences *sentences.DefaultSentenceTokenizer
	morph     *morphology
	ruler     *entityRuler
	people    map[string]struct{}
}

// NewLocalAnnotator builds the annotator tables
func NewLocalAnnotator(opts LocalOptions) (*LocalAnnotator, error) {
	verbs := append([]string(nil), opts.Verbs...)
	for _, r := range opts.Rules {
		if r.Lemma != "" {
			verbs = append(verbs, r.Lemma)
		}
	}

	ruler, err := newEntityRuler(opts.Rules)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrAnalysisUnavailable, err)
	}

	tokenizer, err := newSentenceTokenizer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrAnalysisUnavailable, err)
	}

	people := make(map[string]struct{}, len(opts.People))
	for _, p := range opts.People {
		if p = strings.TrimSpace(p); p != "" {
			people[p] = struct{}{}
		}
	}

	return &LocalAnnotator{
		sentences: tokenizer,
		morph:     newMorphology(verbs),
		ruler:     ruler,
		people:    people,
	}, nil
}

// newSentenceTokenizer loads the punkt model trained on Portuguese text
func newSentenceTokenizer() (*sentences.DefaultSentenceTokenizer, error) {
	raw, err := data.Asset("data/portuguese.json")
	if err != nil {
		return nil, fmt.Errorf("load portuguese sentence model: %w", err)
	}
	training, err := sentences.LoadTraining(raw)
	if err != nil {
		return nil, fmt.Errorf("parse portuguese sentence model: %w", err)
	}
	return sentences.NewSentenceTokenizer(training), nil
}

// Annotate splits text into sentences and tokens and tags entities
func (a *LocalAnnotator) Annotate(ctx context.Context, text string) (*entities.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &entities.Document{
		Text:      text,
		Sentences: a.splitSentences(text),
	}
	for _, sent := range doc.Sentences {
		doc.Tokens = append(doc.Tokens, a.tokenize(text, sent)...)
	}

	custom := a.ruler.match(text, doc.Tokens)
	people := a.recognizePeople(doc.Tokens)
	doc.Entities = mergeEntities(custom, people)
	if doc.Entities == nil {
		doc.Entities = []entities.NamedEntity{}
	}
	if doc.Tokens == nil {
		doc.Tokens = []entities.Token{}
	}
	return doc, nil
}

// splitSentences cuts on line breaks, then lets the punkt model find the
// sentence ends inside each line so abbreviations ("Sr.", "aprox.") hold
func (a *LocalAnnotator) splitSentences(text string) []entities.Span {
	spans := make([]entities.Span, 0)
	lineStart := 0
	for {
		lineEnd := len(text)
		if rel := strings.IndexByte(text[lineStart:], '\n'); rel >= 0 {
			lineEnd = lineStart + rel
		}
		spans = a.splitLine(spans, text, lineStart, lineEnd)
		if lineEnd == len(text) {
			return spans
		}
		lineStart = lineEnd + 1
	}
}

func (a *LocalAnnotator) splitLine(spans []entities.Span, text string, start, end int) []entities.Span {
	line := text[start:end]
	if strings.TrimSpace(line) == "" {
		return spans
	}
	cursor := 0
	for _, sent := range a.sentences.Tokenize(line) {
		piece := strings.TrimSpace(sent.Text)
		if piece == "" {
			continue
		}
		i := strings.Index(line[cursor:], piece)
		if i < 0 {
			continue
		}
		from := start + cursor + i
		spans = appendSentence(spans, text, from, from+len(piece))
		cursor += i + len(piece)
	}
	// anything the model left uncovered is still part of the transcript
	if strings.TrimSpace(line[cursor:]) != "" {
		spans = appendSentence(spans, text, start+cursor, end)
	}
	return spans
}

func appendSentence(spans []entities.Span, text string, start, end int) []entities.Span {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	if start >= end {
		return spans
	}
	return append(spans, entities.Span{Start: start, End: end})
}

// tokenize annotates the tokens of one sentence
func (a *LocalAnnotator) tokenize(text string, sent entities.Span) []entities.Token {
	locs := tokenRe.FindAllStringIndex(text[sent.Start:sent.End], -1)
	tokens := make([]entities.Token, 0, len(locs))
	for _, loc := range locs {
		start, end := sent.Start+loc[0], sent.Start+loc[1]
		tokens = append(tokens, a.analyze(text[start:end], start, end))
	}
	applyPassive(tokens)
	assignDependencies(tokens)
	return tokens
}

func (a *LocalAnnotator) analyze(surface string, start, end int) entities.Token {
	tok := entities.Token{
		Text: surface,
		Span: entities.Span{Start: start, End: end},
	}
	lower := strings.ToLower(surface)
	first, _ := utf8.DecodeRuneInString(surface)

	switch {
	case !isWordRune(first):
		tok.Lemma, tok.POS = surface, "PUNCT"
	case isNumber(surface):
		tok.Lemma, tok.POS = surface, "NUM"
	default:
		if _, ok := a.people[surface]; ok {
			tok.Lemma, tok.POS = surface, "PROPN"
			return tok
		}
		if an, ok := a.morph.lookup(lower); ok {
			tok.Lemma, tok.POS = an.lemma, an.pos
			tok.Morph = cloneMorph(an.morph)
			return tok
		}
		tok.Lemma = lower
		if unicode.IsUpper(first) && start > 0 {
			tok.POS = "PROPN"
		} else {
			tok.POS = "NOUN"
		}
	}
	return tok
}

// applyPassive marks "foi revisado" style participles as past
func applyPassive(tokens []entities.Token) {
	for i := 1; i < len(tokens); i++ {
		tok, prev := &tokens[i], tokens[i-1]
		if tok.Morph[entities.MorphVerb] != "Part" {
			continue
		}
		if (prev.Lemma == "ser" || prev.Lemma == "ficar" || prev.Lemma == "estar") && prev.HasTense(entities.TensePast) {
			tok.Morph[entities.MorphTense] = entities.TensePast
		}
	}
}

// assignDependencies attaches a coarse dependency label to every token
func assignDependencies(tokens []entities.Token) {
	root := -1
	for i, t := range tokens {
		if t.POS == "VERB" || t.POS == "AUX" {
			root = i
			break
		}
	}
	seenObj := false
	for i := range tokens {
		t := &tokens[i]
		switch {
		case i == root:
			t.Dep = "ROOT"
		case t.POS == "PUNCT":
			t.Dep = "punct"
		case t.POS == "DET":
			t.Dep = "det"
		case t.POS == "ADP":
			t.Dep = "case"
		case t.POS == "CCONJ":
			t.Dep = "cc"
		case t.POS == "SCONJ":
			t.Dep = "mark"
		case t.POS == "ADV":
			t.Dep = "advmod"
		case t.POS == "AUX":
			t.Dep = "aux"
		case t.POS == "VERB":
			t.Dep = "xcomp"
		case (t.POS == "PRON" || t.POS == "PROPN" || t.POS == "NOUN") && (root < 0 || i < root):
			t.Dep = "nsubj"
		case t.POS == "NOUN" && !seenObj:
			t.Dep = "obj"
			seenObj = true
		default:
			t.Dep = "nmod"
		}
	}
}

// recognizePeople tags roster names as PER
func (a *LocalAnnotator) recognizePeople(tokens []entities.Token) []entities.NamedEntity {
	var out []entities.NamedEntity
	for _, t := range tokens {
		if _, ok := a.people[t.Text]; ok {
			out = append(out, entities.NamedEntity{Text: t.Text, Label: entities.LabelPerson, Span: t.Span})
		}
	}
	return out
}

// mergeEntities adds built-in entities that do not overlap a custom one
func mergeEntities(custom, builtin []entities.NamedEntity) []entities.NamedEntity {
	out := append([]entities.NamedEntity(nil), custom...)
	for _, b := range builtin {
		if !overlapsAny(b, custom) {
			out = append(out, b)
		}
	}
	sortByStart(out)
	return out
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '/' && r != '-' {
			return false
		}
	}
	return true
}

func cloneMorph(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
