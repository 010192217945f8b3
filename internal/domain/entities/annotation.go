package entities

// Entity labels produced by the annotation pipeline
const (
	LabelDeadline = "DEADLINE"
	LabelTaskVerb = "TASK-VERB"
	LabelPerson   = "PER"
)

// Morphological feature keys and tense values
const (
	MorphTense   = "Tense"
	MorphVerb    = "VerbForm"
	TensePast    = "Past"
	TensePresent = "Pres"
	TenseFuture  = "Fut"
)

// Span is a byte range into the annotated text
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Token is a single annotated token
type Token struct {
	Text  string            `json:"text"`
	Lemma string            `json:"lemma"`
	POS   string            `json:"pos"`
	Dep   string            `json:"dep"`
	Morph map[string]string `json:"morph,omitempty"`
	Span
}

// HasTense reports whether the token carries the given Tense feature
func (t Token) HasTense(tense string) bool {
	return t.Morph != nil && t.Morph[MorphTense] == tense
}

// NamedEntity is a labelled span of the annotated text
type NamedEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Span
}

// Document is the full annotation of one piece of text
type Document struct {
	Text      string        `json:"text"`
	Sentences []Span        `json:"sentences"`
	Tokens    []Token       `json:"tokens"`
	Entities  []NamedEntity `json:"entities"`
}

// SentenceTexts returns the text of every sentence span
func (d *Document) SentenceTexts() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.Sentences))
	for _, s := range d.Sentences {
		if s.Start < 0 || s.End > len(d.Text) || s.Start >= s.End {
			continue
		}
		out = append(out, d.Text[s.Start:s.End])
	}
	return out
}

// FirstEntity returns the first entity with the given label
func (d *Document) FirstEntity(label string) (NamedEntity, bool) {
	if d == nil {
		return NamedEntity{}, false
	}
	for _, e := range d.Entities {
		if e.Label == label {
			return e, true
		}
	}
	return NamedEntity{}, false
}

// EntityRule is a declarative custom entity pattern. Exactly one of Phrase,
// Regex or Lemma is set. Rules take precedence over built-in recognizers.
type EntityRule struct {
	Label  string `json:"label"`
	Phrase string `json:"phrase,omitempty"`
	Regex  string `json:"regex,omitempty"`
	Lemma  string `json:"lemma,omitempty"`
}
