package heuristic

import "github.com/GustavoCremonez/backend/internal/domain/entities"

// aggregator folds clause outcomes into one record per person, in first-seen order
type aggregator struct {
	order   []string
	records map[string]*entities.PersonRecord
}

func newAggregator() *aggregator {
	return &aggregator{records: make(map[string]*entities.PersonRecord)}
}

func (a *aggregator) register(person string) *entities.PersonRecord {
	if rec, ok := a.records[person]; ok {
		return rec
	}
	rec := entities.NewPersonRecord(person)
	a.records[person] = rec
	a.order = append(a.order, person)
	return rec
}

func (a *aggregator) add(person string, outcome entities.ClauseOutcome) {
	rec := a.register(person)
	switch outcome.Kind {
	case entities.OutcomeDone:
		rec.Done = append(rec.Done, outcome.Text)
	case entities.OutcomePending:
		rec.Pending = append(rec.Pending, outcome.Item)
	}
}

func (a *aggregator) result() []entities.PersonRecord {
	out := make([]entities.PersonRecord, 0, len(a.order))
	for _, person := range a.order {
		out = append(out, *a.records[person])
	}
	return out
}
