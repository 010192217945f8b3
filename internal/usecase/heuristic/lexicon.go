package heuristic

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

// LexiconConfig is the editable vocabulary of the rule engine.
// It is the shape of the optional YAML overlay file.
type LexiconConfig struct {
	Team            []string          `yaml:"team"`
	Aliases         map[string]string `yaml:"aliases"`
	Pronouns        []string          `yaml:"pronouns"`
	Pairing         []string          `yaml:"pairing"`
	Meeting         []string          `yaml:"meeting"`
	Blockers        []string          `yaml:"blockers"`
	Negatives       []string          `yaml:"negatives"`
	CompletedVerbs  []string          `yaml:"completed_verbs"`
	IntentVerbs     []string          `yaml:"intent_verbs"`
	FutureMarkers   []string          `yaml:"future_markers"`
	PastMarkers     []string          `yaml:"past_markers"`
	Conjunctions    []string          `yaml:"conjunctions"`
	TimeMarkers     []string          `yaml:"time_markers"`
	DeadlinePattern []string          `yaml:"deadline_patterns"`
}

// DefaultLexiconConfig returns the built-in Portuguese vocabulary
func DefaultLexiconConfig() LexiconConfig {
	return LexiconConfig{
		Team: []string{
			"Eduardo", "João", "Alessandra", "Alê", "Vinícius", "Vini", "Isabela", "Isa",
			"Caio", "Marcela", "Leonardo", "Leozão", "Ana", "Renata",
		},
		Aliases: map[string]string{
			"Alê":    "Alessandra",
			"Vini":   "Vinícius",
			"Isa":    "Isabela",
			"Leozão": "Leonardo",
		},
		Pronouns:  []string{"ele", "ela", "dele", "dela"},
		Pairing:   []string{"pairing com", "parear com", "fazer pairing com", "em dupla com"},
		Meeting:   []string{"reunião com", "call com", "encontro com"},
		Blockers:  []string{"bloqueado por", "impedido por", "dependendo de", "aguardando"},
		Negatives: []string{
			"não consegui", "não terminei", "não deu tempo", "não consegui finalizar",
			"não consegui entregar", "não consegui implementar", "não consegui corrigir",
		},
		CompletedVerbs: []string{
			"corrigir", "fazer", "concluir", "finalizar", "terminar", "realizar", "entregar",
			"implementar", "testar", "revisar", "desenvolver", "validar", "aprovar", "ajustar",
			"refatorar", "subir", "atualizar", "alinhar", "criar", "preparar", "marcar", "rever",
		},
		IntentVerbs: []string{"precisar", "dever", "planejar", "pretender"},
		FutureMarkers: []string{
			"vai", "vou", "vamos", "vão", "irá", "irei", "iremos", "deverá", "deve", "devo",
			"devemos", "deveriam", "precisa", "preciso", "precisamos", "precisam", "precisará",
			"fará", "farei", "fazer", "começar", "começará", "iniciar", "iniciará", "planeja",
			"planejo", "planejar", "pretende", "pretendo", "pretender", "tenho que", "temos que",
			"a fazer", "pendente", "ficou de", "vai entregar",
			"amanhã", "depois de amanhã", "próxima semana", "semana que vem",
		},
		PastMarkers:  []string{"ontem", "anteontem", "já", "semana passada", "mais cedo"},
		Conjunctions: []string{"e", "mas", "ou"},
		TimeMarkers:  []string{"hoje", "ontem", "amanhã"},
		DeadlinePattern: []string{
			`depois de amanhã`,
			`amanhã`,
			`hoje`,
			`fim do dia`,
			`próxima semana`,
			`semana que vem`,
			`(?:próxim[oa] )?(?:segunda|terça|quarta|quinta|sexta)(?:-feira)?`,
			`(?:próximo )?(?:sábado|domingo)`,
			`\d{1,2}/\d{1,2}(?:/\d{2,4})?`,
			`\d{1,2}-\d{1,2}`,
			`\d{1,2} de (?:janeiro|fevereiro|março|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)`,
			`at[eé] (?:[ao] )?(?:dia )?[\p{L}\p{N}/]+(?:-feira)?`,
			`em \d+ dias?`,
			`no pr[oó]ximo m[eê]s`,
			`m[eê]s que vem`,
		},
	}
}

// Category is a special clause class detected by phrase lookup
type Category struct {
	Note    string
	Phrases []string
}

// Lexicon is the compiled, read-only form of a LexiconConfig.
// Build it once at start-up and share it by pointer.
type Lexicon struct {
	aliases        map[string]string
	team           map[string]string
	teamNames      []string
	pronouns       map[string]struct{}
	categories     []Category
	negatives      []string
	completedVerbs map[string]struct{}
	intentVerbs    map[string]struct{}
	splitWords     map[string]struct{}
	timeMarkers    map[string]struct{}

	completedList    []string
	deadlinePatterns []string

	preteriteRe *regexp.Regexp
	futureRe    *regexp.Regexp
	pastRe      *regexp.Regexp
	deadlineRe  *regexp.Regexp
}

// NewLexicon compiles a lexicon from cfg
func NewLexicon(cfg LexiconConfig) (*Lexicon, error) {
	lex := &Lexicon{
		aliases:          make(map[string]string, len(cfg.Aliases)),
		team:             make(map[string]string, len(cfg.Team)),
		teamNames:        dedupe(cfg.Team),
		pronouns:         toSet(cfg.Pronouns, strings.ToLower),
		negatives:        lowerAll(cfg.Negatives),
		completedVerbs:   toSet(cfg.CompletedVerbs, strings.ToLower),
		intentVerbs:      toSet(append(append([]string{}, cfg.CompletedVerbs...), cfg.IntentVerbs...), strings.ToLower),
		splitWords:       toSet(append(append([]string{}, cfg.Conjunctions...), cfg.TimeMarkers...), nil),
		timeMarkers:      toSet(cfg.TimeMarkers, nil),
		completedList:    lowerAll(cfg.CompletedVerbs),
		deadlinePatterns: dedupe(cfg.DeadlinePattern),
	}

	for alias, canonical := range cfg.Aliases {
		lex.aliases[foldKey(alias)] = strings.TrimSpace(canonical)
	}
	for _, name := range cfg.Team {
		lex.team[foldKey(name)] = strings.TrimSpace(name)
	}

	// precedence: pairing, meeting, blocker, negative
	lex.categories = []Category{
		{Note: entities.NotePairing, Phrases: lowerAll(cfg.Pairing)},
		{Note: entities.NoteMeeting, Phrases: lowerAll(cfg.Meeting)},
		{Note: entities.NoteBlocked, Phrases: lowerAll(cfg.Blockers)},
		{Note: entities.NoteImpediment, Phrases: lex.negatives},
	}

	var err error
	if lex.preteriteRe, err = wordAlternation(preteriteForms(lex.completedList)); err != nil {
		return nil, fmt.Errorf("compile preterite pattern: %w", err)
	}
	if lex.futureRe, err = wordAlternation(quoteAll(lowerAll(cfg.FutureMarkers))); err != nil {
		return nil, fmt.Errorf("compile future markers: %w", err)
	}
	if lex.pastRe, err = wordAlternation(quoteAll(lowerAll(cfg.PastMarkers))); err != nil {
		return nil, fmt.Errorf("compile past markers: %w", err)
	}
	if lex.deadlineRe, err = wordAlternation(lex.deadlinePatterns); err != nil {
		return nil, fmt.Errorf("compile deadline patterns: %w", err)
	}
	return lex, nil
}

// DefaultLexicon returns the compiled built-in vocabulary
func DefaultLexicon() *Lexicon {
	lex, err := NewLexicon(DefaultLexiconConfig())
	if err != nil {
		panic(fmt.Sprintf("heuristic: invalid default lexicon: %v", err))
	}
	return lex
}

// LoadLexicon reads a YAML overlay and merges it onto the defaults.
// Lists are appended, aliases override. An empty path returns the defaults.
func LoadLexicon(path string) (*Lexicon, error) {
	cfg := DefaultLexiconConfig()
	if path == "" {
		return NewLexicon(cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}
	var overlay LexiconConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse lexicon file: %w", err)
	}
	return NewLexicon(cfg.Merge(overlay))
}

// Merge returns cfg extended with the entries of overlay
func (cfg LexiconConfig) Merge(overlay LexiconConfig) LexiconConfig {
	out := LexiconConfig{
		Team:            mergeList(cfg.Team, overlay.Team),
		Aliases:         make(map[string]string, len(cfg.Aliases)+len(overlay.Aliases)),
		Pronouns:        mergeList(cfg.Pronouns, overlay.Pronouns),
		Pairing:         mergeList(cfg.Pairing, overlay.Pairing),
		Meeting:         mergeList(cfg.Meeting, overlay.Meeting),
		Blockers:        mergeList(cfg.Blockers, overlay.Blockers),
		Negatives:       mergeList(cfg.Negatives, overlay.Negatives),
		CompletedVerbs:  mergeList(cfg.CompletedVerbs, overlay.CompletedVerbs),
		IntentVerbs:     mergeList(cfg.IntentVerbs, overlay.IntentVerbs),
		FutureMarkers:   mergeList(cfg.FutureMarkers, overlay.FutureMarkers),
		PastMarkers:     mergeList(cfg.PastMarkers, overlay.PastMarkers),
		Conjunctions:    mergeList(cfg.Conjunctions, overlay.Conjunctions),
		TimeMarkers:     mergeList(cfg.TimeMarkers, overlay.TimeMarkers),
		DeadlinePattern: mergeList(cfg.DeadlinePattern, overlay.DeadlinePattern),
	}
	for k, v := range cfg.Aliases {
		out.Aliases[k] = v
	}
	for k, v := range overlay.Aliases {
		out.Aliases[k] = v
	}
	return out
}

// NormalizeName maps a raw speaker label to its canonical person name.
// Aliases and roster names match ignoring case and accents; anything else
// is title-cased word by word.
func (l *Lexicon) NormalizeName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return entities.UnknownSpeaker
	}
	key := foldKey(name)
	if canonical, ok := l.aliases[key]; ok {
		return canonical
	}
	if canonical, ok := l.team[key]; ok {
		return canonical
	}
	// cases.Caser is stateful, so one per call
	return cases.Title(language.BrazilianPortuguese).String(name)
}

// TeamNames returns the roster used by person recognizers
func (l *Lexicon) TeamNames() []string {
	return append([]string(nil), l.teamNames...)
}

// Categories returns the special clause classes in precedence order
func (l *Lexicon) Categories() []Category {
	return append([]Category(nil), l.categories...)
}

// EntityRules returns the custom DEADLINE and TASK-VERB annotation rules
func (l *Lexicon) EntityRules() []entities.EntityRule {
	rules := make([]entities.EntityRule, 0, len(l.deadlinePatterns)+len(l.completedList))
	for _, p := range l.deadlinePatterns {
		rules = append(rules, entities.EntityRule{Label: entities.LabelDeadline, Regex: p})
	}
	for _, v := range l.completedList {
		rules = append(rules, entities.EntityRule{Label: entities.LabelTaskVerb, Lemma: v})
	}
	return rules
}

// IsPronoun reports whether word is one of the coreference pronouns
func (l *Lexicon) IsPronoun(word string) bool {
	_, ok := l.pronouns[strings.ToLower(word)]
	return ok
}

// IsSplitter reports whether word separates clauses. Matching is case-sensitive.
func (l *Lexicon) IsSplitter(word string) bool {
	_, ok := l.splitWords[word]
	return ok
}

// IsTimeMarker reports whether word is a bare temporal splitter
func (l *Lexicon) IsTimeMarker(word string) bool {
	_, ok := l.timeMarkers[word]
	return ok
}

// HasNegative reports whether text contains an explicit negative phrase
func (l *Lexicon) HasNegative(text string) bool {
	return containsAny(strings.ToLower(text), l.negatives)
}

// IsCompletedVerb reports whether lemma is a completed-action verb
func (l *Lexicon) IsCompletedVerb(lemma string) bool {
	_, ok := l.completedVerbs[strings.ToLower(lemma)]
	return ok
}

// IsIntentVerb reports whether lemma is a completed-action or intent verb
func (l *Lexicon) IsIntentVerb(lemma string) bool {
	_, ok := l.intentVerbs[strings.ToLower(lemma)]
	return ok
}

// MatchesPreterite reports whether text contains a third-person preterite
// form of a completed-action verb
func (l *Lexicon) MatchesPreterite(text string) bool {
	return l.preteriteRe.MatchString(text)
}

// MatchesFutureMarker reports whether text contains a future or intent marker
func (l *Lexicon) MatchesFutureMarker(text string) bool {
	return l.futureRe.MatchString(text)
}

// MatchesPastMarker reports whether text carries a time word that places
// the clause in the past
func (l *Lexicon) MatchesPastMarker(text string) bool {
	return l.pastRe.MatchString(text)
}

// FindDeadline returns the leftmost deadline expression in text, or ""
func (l *Lexicon) FindDeadline(text string) string {
	m := l.deadlineRe.FindStringSubmatchIndex(text)
	if m == nil {
		return ""
	}
	return text[m[2]:m[3]]
}

// preteriteForms builds third-person singular preterite forms:
// -ar → -ou, -er → -eu, -ir → -iu, plus a few irregulars
func preteriteForms(verbs []string) []string {
	irregular := map[string]string{"fazer": "fez", "rever": "reviu", "ver": "viu", "ir": "foi", "ter": "teve"}
	forms := make([]string, 0, len(verbs))
	for _, v := range verbs {
		if f, ok := irregular[v]; ok {
			forms = append(forms, regexp.QuoteMeta(f))
			continue
		}
		if len(v) < 3 {
			continue
		}
		stem, ending := v[:len(v)-2], v[len(v)-2:]
		switch ending {
		case "ar":
			forms = append(forms, regexp.QuoteMeta(stem+"ou"))
		case "er":
			forms = append(forms, regexp.QuoteMeta(stem+"eu"))
		case "ir":
			forms = append(forms, regexp.QuoteMeta(stem+"iu"))
		}
	}
	return forms
}

// wordAlternation compiles a case-insensitive alternation bounded by
// non-letters, with the match itself in group 1. Go's \b is ASCII-only.
func wordAlternation(alternatives []string) (*regexp.Regexp, error) {
	if len(alternatives) == 0 {
		return regexp.Compile(`[^\s\S]`)
	}
	pattern := `(?i)(?:^|[^\p{L}\p{N}])(` + strings.Join(alternatives, "|") + `)(?:[^\p{L}\p{N}]|$)`
	return regexp.Compile(pattern)
}

// foldKey lowercases and strips accents for case/accent-insensitive lookups
func foldKey(s string) string {
	s = strings.TrimSpace(s)
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func toSet(items []string, fn func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if fn != nil {
			it = fn(it)
		}
		if it != "" {
			set[it] = struct{}{}
		}
	}
	return set
}

func lowerAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range dedupe(items) {
		out = append(out, strings.ToLower(it))
	}
	return out
}

func quoteAll(items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = regexp.QuoteMeta(it)
	}
	return out
}

func mergeList(base, extra []string) []string {
	return dedupe(append(append([]string{}, base...), extra...))
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
