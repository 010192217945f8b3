// Package dateresolver turns Portuguese relative and absolute date expressions
// ("amanhã", "sexta-feira", "até 15/3", "em 2 dias") into calendar dates.
//
// General parsing is done by go-dateparser. A small overlay of rules runs
// first for colloquial forms it does not know ("depois de amanhã",
// "fim do dia", "dia 20") and for the cases where stand-up semantics differ
// from a generic parser (a weekday naming today means today).
package dateresolver

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	dps "github.com/markusmobius/go-dateparser"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DateLayout is the output format of Resolve
const DateLayout = "2006-01-02"

// Preference decides which way ambiguous expressions resolve
type Preference int

const (
	PreferFuture Preference = iota
	PreferPast
)

// Order decides how ambiguous numeric dates are read
type Order int

const (
	OrderDMY Order = iota
	OrderMDY
)

// Options configures a Resolver
type Options struct {
	Preference Preference
	Order      Order
}

// Resolver is immutable and safe for concurrent use
type Resolver struct {
	opts   Options
	source dps.PreferredDateSource
	order  dps.DateOrder
}

// New creates a resolver with the given options
func New(opts Options) *Resolver {
	r := &Resolver{opts: opts, source: dps.Future, order: dps.DMY}
	if opts.Preference == PreferPast {
		r.source = dps.Past
	}
	if opts.Order == OrderMDY {
		r.order = dps.MDY
	}
	return r
}

var (
	numericDateRe = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})(?:[/\-.](\d{2}|\d{4}))?$`)
	isoDateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayOfMonthRe  = regexp.MustCompile(`^dia (\d{1,2})$`)
	countedRe     = regexp.MustCompile(`^(?:em|daqui a|daqui) ([a-z0-9]+) (dia|dias|semana|semanas)$`)
	weekdayRe     = regexp.MustCompile(`^(proxima |proximo )?(segunda|terca|quarta|quinta|sexta|sabado|domingo)(?:[\- ]feira)?( que vem)?$`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

var weekdays = map[string]time.Weekday{
	"domingo": time.Sunday,
	"segunda": time.Monday,
	"terca":   time.Tuesday,
	"quarta":  time.Wednesday,
	"quinta":  time.Thursday,
	"sexta":   time.Friday,
	"sabado":  time.Saturday,
}

var numberWords = map[string]int{
	"um": 1, "uma": 1, "dois": 2, "duas": 2, "tres": 3, "quatro": 4, "cinco": 5,
	"seis": 6, "sete": 7, "oito": 8, "nove": 9, "dez": 10, "quinze": 15, "trinta": 30,
}

// fixedOffsets maps whole expressions to a day offset from the base date.
// Keys are accent-folded so "amanha" typed without the tilde still resolves.
var fixedOffsets = map[string]int{
	"hoje":             0,
	"ainda hoje":       0,
	"hoje a noite":     0,
	"fim do dia":       0,
	"final do dia":     0,
	"amanha":           1,
	"depois de amanha": 2,
	"ontem":            -1,
	"anteontem":        -2,
	"proxima semana":   7,
	"semana que vem":   7,
}

// leading words that carry no date meaning ("até sexta", "na quinta")
var fillerPrefixes = [][]string{
	{"dia", "de"},
	{"ate"}, {"para"}, {"pra"}, {"na"}, {"no"}, {"nesta"}, {"neste"}, {"nessa"}, {"nesse"},
	{"esta"}, {"este"}, {"essa"}, {"esse"}, {"a"}, {"o"},
}

// phrase keeps the words as written next to their folded form, so the
// overlay matches accent-insensitively while the parser sees real Portuguese
type phrase struct {
	raw    []string
	folded []string
}

func (p phrase) rawText() string    { return strings.Join(p.raw, " ") }
func (p phrase) foldedText() string { return strings.Join(p.folded, " ") }

// Resolve converts expr into a YYYY-MM-DD date relative to base.
// Unrecognised expressions yield "" without error.
func (r *Resolver) Resolve(expr string, base time.Time) (string, error) {
	p := stripFillers(newPhrase(expr))
	if len(p.raw) == 0 {
		return "", nil
	}
	day := truncateDay(base)

	if t, ok, handled := r.overlay(p.foldedText(), day); handled {
		if !ok {
			return "", nil
		}
		return t.Format(DateLayout), nil
	}
	if t, ok := r.parse(p.rawText(), day); ok {
		return t.Format(DateLayout), nil
	}
	return "", nil
}

// parse hands the expression to go-dateparser. The clock is pinned to noon
// UTC on the base calendar day so no zone conversion can move the day.
func (r *Resolver) parse(text string, day time.Time) (time.Time, bool) {
	cfg := &dps.Configuration{
		Languages:           []string{"pt"},
		CurrentTime:         time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC),
		PreferredDateSource: r.source,
		DateOrder:           r.order,
	}
	dt, err := dps.Parse(cfg, text)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, false
	}
	y, m, d := dt.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()), true
}

// overlay resolves the forms the parser misses or reads differently.
// handled reports whether the expression belongs to the overlay at all;
// a handled expression with ok=false is a known-invalid date.
func (r *Resolver) overlay(text string, day time.Time) (t time.Time, ok, handled bool) {
	if offset, found := fixedOffsets[text]; found {
		return day.AddDate(0, 0, offset), true, true
	}

	switch text {
	case "proximo mes", "mes que vem":
		return addMonthsClamped(day, 1), true, true
	case "fim da semana", "final da semana", "fim de semana":
		return r.nextWeekday(day, time.Friday, false), true, true
	}

	if m := weekdayRe.FindStringSubmatch(text); m != nil {
		wd := weekdays[m[2]]
		explicitNext := m[1] != "" || m[3] != ""
		if explicitNext || wd == day.Weekday() {
			return r.nextWeekday(day, wd, explicitNext), true, true
		}
		return time.Time{}, false, false
	}

	if m := countedRe.FindStringSubmatch(text); m != nil {
		if _, err := strconv.Atoi(m[1]); err == nil && strings.HasPrefix(text, "em ") {
			// "em 3 dias" is plain parser input
			return time.Time{}, false, false
		}
		n, found := parseCount(m[1])
		if !found {
			return time.Time{}, false, true
		}
		if strings.HasPrefix(m[2], "semana") {
			n *= 7
		}
		return day.AddDate(0, 0, n), true, true
	}

	if isoDateRe.MatchString(text) {
		parsed, err := time.ParseInLocation(DateLayout, text, day.Location())
		return parsed, err == nil, true
	}

	if m := numericDateRe.FindStringSubmatch(text); m != nil {
		// impossible dates are rejected before the parser can try another reading
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		d, mo := a, b
		if r.opts.Order == OrderMDY {
			d, mo = b, a
		}
		if !possibleDate(d, time.Month(mo), m[3]) {
			return time.Time{}, false, true
		}
		return time.Time{}, false, false
	}

	if m := dayOfMonthRe.FindStringSubmatch(text); m != nil {
		d, _ := strconv.Atoi(m[1])
		t, ok := r.dayOfMonth(day, d)
		return t, ok, true
	}

	return time.Time{}, false, false
}

// dayOfMonth finds the nearest month holding day d in the preferred
// direction, skipping months that are too short ("dia 31" in April).
func (r *Resolver) dayOfMonth(day time.Time, d int) (time.Time, bool) {
	if d < 1 || d > 31 {
		return time.Time{}, false
	}
	step := 1
	if r.opts.Preference == PreferPast {
		step = -1
	}
	for i := 0; i <= 12; i++ {
		first := time.Date(day.Year(), day.Month()+time.Month(i*step), 1, 0, 0, 0, 0, day.Location())
		t, ok := validDate(first.Year(), first.Month(), d, day.Location())
		if !ok {
			continue
		}
		if step > 0 && t.Before(day) || step < 0 && t.After(day) {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

// nextWeekday finds the nearest occurrence of wd. The base day itself counts
// unless the expression explicitly asked for the next one.
func (r *Resolver) nextWeekday(day time.Time, wd time.Weekday, explicitNext bool) time.Time {
	if r.opts.Preference == PreferPast && !explicitNext {
		delta := (int(day.Weekday()) - int(wd) + 7) % 7
		return day.AddDate(0, 0, -delta)
	}
	delta := (int(wd) - int(day.Weekday()) + 7) % 7
	if delta == 0 && explicitNext {
		delta = 7
	}
	return day.AddDate(0, 0, delta)
}

// possibleDate reports whether d/mo exists in the given year, or in some
// year when the year is omitted (29/2)
func possibleDate(d int, mo time.Month, yearText string) bool {
	if yearText == "" {
		_, ok := validDate(2024, mo, d, time.UTC)
		return ok
	}
	year, _ := strconv.Atoi(yearText)
	if year < 100 {
		year += 2000
	}
	_, ok := validDate(year, mo, d, time.UTC)
	return ok
}

func validDate(year int, mo time.Month, d int, loc *time.Location) (time.Time, bool) {
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, mo, d, 0, 0, 0, 0, loc)
	if t.Day() != d || t.Month() != mo {
		return time.Time{}, false
	}
	return t, true
}

func addMonthsClamped(day time.Time, n int) time.Time {
	first := time.Date(day.Year(), day.Month()+time.Month(n), 1, 0, 0, 0, 0, day.Location())
	last := first.AddDate(0, 1, -1).Day()
	d := day.Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, day.Location())
}

func parseCount(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0
	}
	n, ok := numberWords[s]
	return n, ok
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// newPhrase lowercases, trims surrounding punctuation and splits into words
func newPhrase(expr string) phrase {
	text := strings.ToLower(expr)
	text = strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '/' && r != '-')
	})
	text = spaceRe.ReplaceAllString(text, " ")
	if text == "" {
		return phrase{}
	}
	raw := strings.Split(text, " ")
	folded := make([]string, len(raw))
	for i, w := range raw {
		folded[i] = fold(w)
	}
	return phrase{raw: raw, folded: folded}
}

// stripFillers drops leading filler words while something remains
func stripFillers(p phrase) phrase {
	for {
		stripped := false
		for _, prefix := range fillerPrefixes {
			if len(p.folded) <= len(prefix) || !hasPrefix(p.folded, prefix) {
				continue
			}
			p = phrase{raw: p.raw[len(prefix):], folded: p.folded[len(prefix):]}
			stripped = true
			break
		}
		if !stripped {
			return p
		}
	}
}

func hasPrefix(words, prefix []string) bool {
	for i, w := range prefix {
		if words[i] != w {
			return false
		}
	}
	return true
}

func fold(s string) string {
	folded, _, err := transform.String(accentFolder(), s)
	if err != nil {
		return s
	}
	return folded
}

func accentFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
