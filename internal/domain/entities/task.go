package entities

import "encoding/json"

// UnknownSpeaker is the responsible name used when a transcript carries no "Name:" labels
const UnknownSpeaker = "Desconhecido"

// PendingItem notes recorded for special clause categories
const (
	NotePairing    = "pairing"
	NoteMeeting    = "reunião"
	NoteBlocked    = "bloqueio"
	NoteImpediment = "pendente/impedimento"
)

// SpeakerTurn is one speaker's contiguous block of a transcript
type SpeakerTurn struct {
	RawSpeakerLabel string
	Utterance       string
}

// Clause is the smallest piece of text classified on its own
type Clause struct {
	Text    string
	Speaker string
}

// PendingItem is a task still to be done, with an optional deadline
type PendingItem struct {
	Task         string `json:"task"`
	DeadlineExpr string `json:"prazo"`
	DeadlineDate string `json:"data_prazo"`
	Description  string `json:"descricao"`
}

// PersonRecord groups done and pending work for one responsible person
type PersonRecord struct {
	Responsible string        `json:"responsavel"`
	Done        []string      `json:"feitas"`
	Pending     []PendingItem `json:"a_fazer"`
}

// NewPersonRecord creates an empty record for the given person
func NewPersonRecord(responsible string) *PersonRecord {
	return &PersonRecord{
		Responsible: responsible,
		Done:        make([]string, 0),
		Pending:     make([]PendingItem, 0),
	}
}

// IsEmpty reports whether the record holds no items
func (p PersonRecord) IsEmpty() bool {
	return len(p.Done) == 0 && len(p.Pending) == 0
}

// MarshalJSON keeps feitas / a_fazer as arrays even when nil
func (p PersonRecord) MarshalJSON() ([]byte, error) {
	type alias PersonRecord
	out := alias(p)
	if out.Done == nil {
		out.Done = make([]string, 0)
	}
	if out.Pending == nil {
		out.Pending = make([]PendingItem, 0)
	}
	return json.Marshal(out)
}

// CountItems returns the totals of done and pending items across records
func CountItems(records []PersonRecord) (done int, pending int) {
	for _, r := range records {
		done += len(r.Done)
		pending += len(r.Pending)
	}
	return done, pending
}

// OutcomeKind tags the variant held by a ClauseOutcome
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeDone
	OutcomePending
)

// String returns a short label for logs
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDone:
		return "done"
	case OutcomePending:
		return "pending"
	default:
		return "none"
	}
}

// ClauseOutcome is the result of classifying one clause.
// Text is set for OutcomeDone, Item for OutcomePending.
type ClauseOutcome struct {
	Kind OutcomeKind
	Text string
	Item PendingItem
}

// NoOutcome is returned for clauses that are neither done nor pending work
func NoOutcome() ClauseOutcome {
	return ClauseOutcome{Kind: OutcomeNone}
}

// DoneOutcome wraps a completed work description
func DoneOutcome(text string) ClauseOutcome {
	return ClauseOutcome{Kind: OutcomeDone, Text: text}
}

// PendingOutcome wraps a pending work item
func PendingOutcome(item PendingItem) ClauseOutcome {
	return ClauseOutcome{Kind: OutcomePending, Item: item}
}
