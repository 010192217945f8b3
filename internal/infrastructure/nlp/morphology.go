package nlp

import (
	"strings"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

// analysis is the lexical reading of one surface form
type analysis struct {
	lemma string
	pos   string
	morph map[string]string
}

// verbForms lists the forms of an irregular verb by tense
type verbForms struct {
	past []string
	pres []string
	fut  []string
	imp  []string
	part []string
}

// baseVerbs are always conjugated, on top of the verbs the caller supplies
var baseVerbs = []string{
	"precisar", "dever", "planejar", "pretender", "começar", "iniciar", "continuar",
	"conversar", "ajudar", "trabalhar", "olhar", "investigar", "escrever", "documentar",
	"resolver", "mexer", "estudar", "analisar", "configurar", "migrar", "integrar",
	"publicar", "verificar", "organizar", "apresentar", "discutir", "montar", "abrir",
	"fechar", "tentar", "mandar", "enviar", "pegar", "falar", "levantar", "acompanhar",
	"deployar", "mergear", "codar", "debugar", "esperar", "aguardar", "parear",
	"bloquear", "impedir", "depender", "terminar", "ficar", "deixar", "passar",
	"usar", "mudar", "limpar", "escalar", "sincronizar", "demonstrar", "priorizar",
	"gravar", "combinar", "agendar", "cobrir", "responder", "receber", "perder",
}

// auxiliaries are tagged AUX instead of VERB
var auxiliaries = map[string]struct{}{
	"ser": {}, "estar": {}, "ter": {}, "haver": {}, "ir": {},
}

var irregularVerbs = map[string]verbForms{
	"fazer": {
		past: []string{"fiz", "fez", "fizemos", "fizeram", "fizeste"},
		pres: []string{"faço", "faz", "fazes", "fazemos", "fazem"},
		fut:  []string{"farei", "fará", "faremos", "farão", "farás"},
		imp:  []string{"fazia", "faziam", "fazíamos"},
		part: []string{"feito", "feita", "feitos", "feitas"},
	},
	"ser": {
		past: []string{"fui", "foi", "fomos", "foram", "foste"},
		pres: []string{"sou", "é", "somos", "são", "és"},
		fut:  []string{"serei", "será", "seremos", "serão"},
		imp:  []string{"era", "eram", "éramos"},
		part: []string{"sido"},
	},
	"ir": {
		pres: []string{"vou", "vai", "vamos", "vão", "vais"},
		fut:  []string{"irei", "irá", "iremos", "irão"},
		imp:  []string{"ia", "iam", "íamos"},
		part: []string{"ido"},
	},
	"estar": {
		past: []string{"estive", "esteve", "estivemos", "estiveram"},
		pres: []string{"estou", "está", "estamos", "estão", "estás"},
		fut:  []string{"estarei", "estará", "estaremos", "estarão"},
		imp:  []string{"estava", "estavam", "estávamos"},
		part: []string{"estado"},
	},
	"ter": {
		past: []string{"tive", "teve", "tivemos", "tiveram"},
		pres: []string{"tenho", "tem", "temos", "têm", "tens"},
		fut:  []string{"terei", "terá", "teremos", "terão"},
		imp:  []string{"tinha", "tinham", "tínhamos"},
		part: []string{"tido"},
	},
	"haver": {
		past: []string{"houve"},
		pres: []string{"há", "hei", "hão"},
		fut:  []string{"haverá"},
		imp:  []string{"havia"},
		part: []string{"havido"},
	},
	"poder": {
		past: []string{"pude", "pôde", "pudemos", "puderam"},
		pres: []string{"posso", "pode", "podemos", "podem"},
		fut:  []string{"poderei", "poderá", "poderemos", "poderão"},
		imp:  []string{"podia", "podiam"},
		part: []string{"podido"},
	},
	"ver": {
		past: []string{"vi", "viu", "vimos", "viram"},
		pres: []string{"vejo", "vê", "veem", "vês"},
		fut:  []string{"verei", "verá", "veremos", "verão"},
		imp:  []string{"via", "viam"},
		part: []string{"visto", "vista", "vistos", "vistas"},
	},
	"rever": {
		past: []string{"revi", "reviu", "revimos", "reviram"},
		pres: []string{"revejo", "revê", "revemos", "reveem"},
		fut:  []string{"reverei", "reverá", "reveremos", "reverão"},
		imp:  []string{"revia", "reviam"},
		part: []string{"revisto", "revista", "revistos", "revistas"},
	},
	"conseguir": {
		past: []string{"consegui", "conseguiu", "conseguimos", "conseguiram"},
		pres: []string{"consigo", "consegue", "conseguem"},
		fut:  []string{"conseguirei", "conseguirá", "conseguiremos", "conseguirão"},
		imp:  []string{"conseguia", "conseguiam"},
		part: []string{"conseguido"},
	},
	"dar": {
		past: []string{"dei", "deu", "demos", "deram"},
		pres: []string{"dou", "dá", "damos", "dão"},
		fut:  []string{"darei", "dará", "daremos", "darão"},
		imp:  []string{"dava", "davam"},
		part: []string{"dado", "dada"},
	},
	"vir": {
		past: []string{"vim", "veio", "viemos", "vieram"},
		pres: []string{"venho", "vem", "vêm"},
		fut:  []string{"virei", "virá", "viremos", "virão"},
		imp:  []string{"vinha", "vinham"},
		part: []string{"vindo"},
	},
	"querer": {
		past: []string{"quis", "quisemos", "quiseram"},
		pres: []string{"quero", "quer", "queremos", "querem"},
		fut:  []string{"quererei", "quererá"},
		imp:  []string{"queria", "queriam"},
		part: []string{"querido"},
	},
	"saber": {
		past: []string{"soube", "soubemos", "souberam"},
		pres: []string{"sei", "sabe", "sabemos", "sabem"},
		fut:  []string{"saberei", "saberá"},
		imp:  []string{"sabia", "sabiam"},
		part: []string{"sabido"},
	},
	"subir": {
		past: []string{"subi", "subiu", "subimos", "subiram"},
		pres: []string{"subo", "sobe", "sobem"},
		fut:  []string{"subirei", "subirá", "subiremos", "subirão"},
		imp:  []string{"subia", "subiam"},
		part: []string{"subido", "subida", "subidos", "subidas"},
	},
	"pôr": {
		past: []string{"pus", "pôs", "pusemos", "puseram"},
		pres: []string{"ponho", "põe", "pomos", "põem"},
		fut:  []string{"porei", "porá"},
		imp:  []string{"punha", "punham"},
		part: []string{"posto", "posta"},
	},
	"abrir": {
		past: []string{"abri", "abriu", "abrimos", "abriram"},
		pres: []string{"abro", "abre", "abrem"},
		fut:  []string{"abrirei", "abrirá", "abriremos", "abrirão"},
		imp:  []string{"abria", "abriam"},
		part: []string{"aberto", "aberta", "abertos", "abertas"},
	},
	"escrever": {
		past: []string{"escrevi", "escreveu", "escrevemos", "escreveram"},
		pres: []string{"escrevo", "escreve", "escrevem"},
		fut:  []string{"escreverei", "escreverá", "escreveremos", "escreverão"},
		imp:  []string{"escrevia", "escreviam"},
		part: []string{"escrito", "escrita", "escritos", "escritas"},
	},
}

// morphology maps lowercase surface forms to their analysis
type morphology struct {
	forms map[string]analysis
}

func newMorphology(verbs []string) *morphology {
	m := &morphology{forms: make(map[string]analysis)}
	for word, pos := range functionWords {
		m.forms[word] = analysis{lemma: word, pos: pos}
	}
	for lemma, vf := range irregularVerbs {
		m.addIrregular(lemma, vf)
	}
	seen := make(map[string]struct{})
	for _, v := range append(append([]string{}, baseVerbs...), verbs...) {
		v = strings.ToLower(strings.TrimSpace(v))
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		if _, irregular := irregularVerbs[v]; irregular {
			continue
		}
		m.addRegular(v)
	}
	return m
}

func (m *morphology) lookup(lower string) (analysis, bool) {
	a, ok := m.forms[lower]
	return a, ok
}

// add keeps the first analysis registered for a form
func (m *morphology) add(form, lemma string, feats map[string]string) {
	if form == "" {
		return
	}
	if _, exists := m.forms[form]; exists {
		return
	}
	pos := "VERB"
	if _, ok := auxiliaries[lemma]; ok {
		pos = "AUX"
	}
	m.forms[form] = analysis{lemma: lemma, pos: pos, morph: feats}
}

func (m *morphology) addIrregular(lemma string, vf verbForms) {
	m.add(lemma, lemma, infinitive())
	for _, f := range vf.past {
		m.add(f, lemma, finite(entities.TensePast))
	}
	for _, f := range vf.fut {
		m.add(f, lemma, finite(entities.TenseFuture))
	}
	for _, f := range vf.pres {
		m.add(f, lemma, finite(entities.TensePresent))
	}
	for _, f := range vf.imp {
		m.add(f, lemma, finite("Imp"))
	}
	for _, f := range vf.part {
		m.add(f, lemma, participle())
	}
}

// addRegular conjugates a regular -ar, -er or -ir verb
func (m *morphology) addRegular(v string) {
	if len(v) < 3 {
		return
	}
	stem, ending := v[:len(v)-2], v[len(v)-2:]
	if ending != "ar" && ending != "er" && ending != "ir" {
		return
	}
	vowel := ending[:1]

	m.add(v, v, infinitive())

	// future and conditional are built on the infinitive
	for _, suffix := range []string{"ei", "ás", "á", "emos", "ão"} {
		m.add(v+suffix, v, finite(entities.TenseFuture))
	}
	for _, suffix := range []string{"ia", "iam", "íamos"} {
		m.add(v+suffix, v, conditional())
	}

	past := finite(entities.TensePast)
	pres := finite(entities.TensePresent)
	switch ending {
	case "ar":
		m.add(softStem(stem)+"ei", v, past)
		m.add(stem+"aste", v, past)
		m.add(stem+"ou", v, past)
		// 1pl is shared by preterite and present, so it carries no tense
		m.add(stem+"amos", v, plural1())
		m.add(stem+"aram", v, past)
		m.add(stem+"o", v, pres)
		m.add(stem+"as", v, pres)
		m.add(stem+"a", v, pres)
		m.add(stem+"am", v, pres)
		m.add(softStem(stem)+"e", v, subjunctive())
		m.add(stem+"ava", v, finite("Imp"))
		m.add(stem+"avam", v, finite("Imp"))
		m.add(stem+"ávamos", v, finite("Imp"))
	default:
		m.add(stem+"i", v, past)
		m.add(stem+vowel+"ste", v, past)
		m.add(stem+vowel+"mos", v, plural1())
		m.add(stem+vowel+"ram", v, past)
		if ending == "er" {
			m.add(stem+"eu", v, past)
		} else {
			m.add(stem+"iu", v, past)
		}
		m.add(hardStem(stem)+"o", v, pres)
		m.add(stem+"es", v, pres)
		m.add(stem+"e", v, pres)
		m.add(stem+"em", v, pres)
		m.add(hardStem(stem)+"a", v, subjunctive())
		m.add(stem+"ia", v, finite("Imp"))
		m.add(stem+"iam", v, finite("Imp"))
	}

	participleVowel := "a"
	if ending != "ar" {
		participleVowel = "i"
	}
	for _, suffix := range []string{"do", "da", "dos", "das"} {
		m.add(stem+participleVowel+suffix, v, participle())
	}
	m.add(stem+vowel+"ndo", v, gerund())
}

// softStem applies the spelling change before e: c → qu, g → gu, ç → c
func softStem(stem string) string {
	switch {
	case strings.HasSuffix(stem, "c"):
		return stem[:len(stem)-1] + "qu"
	case strings.HasSuffix(stem, "g"):
		return stem + "u"
	case strings.HasSuffix(stem, "ç"):
		return strings.TrimSuffix(stem, "ç") + "c"
	}
	return stem
}

// hardStem applies the spelling change before o and a: c → ç, g → j
func hardStem(stem string) string {
	switch {
	case strings.HasSuffix(stem, "gu"):
		return stem[:len(stem)-1]
	case strings.HasSuffix(stem, "c"):
		return stem[:len(stem)-1] + "ç"
	case strings.HasSuffix(stem, "g"):
		return stem[:len(stem)-1] + "j"
	}
	return stem
}

func finite(tense string) map[string]string {
	return map[string]string{"Mood": "Ind", entities.MorphTense: tense, entities.MorphVerb: "Fin"}
}

func plural1() map[string]string {
	return map[string]string{"Mood": "Ind", "Number": "Plur", "Person": "1", entities.MorphVerb: "Fin"}
}

func subjunctive() map[string]string {
	return map[string]string{"Mood": "Sub", entities.MorphTense: entities.TensePresent, entities.MorphVerb: "Fin"}
}

func conditional() map[string]string {
	return map[string]string{"Mood": "Cnd", entities.MorphVerb: "Fin"}
}

func infinitive() map[string]string {
	return map[string]string{entities.MorphVerb: "Inf"}
}

func participle() map[string]string {
	return map[string]string{entities.MorphVerb: "Part"}
}

func gerund() map[string]string {
	return map[string]string{entities.MorphVerb: "Ger"}
}

// functionWords are closed-class words with their POS tag
var functionWords = map[string]string{
	"o": "DET", "a": "DET", "os": "DET", "as": "DET", "um": "DET", "uma": "DET",
	"uns": "DET", "umas": "DET", "esse": "DET", "essa": "DET", "este": "DET",
	"esta": "DET", "isso": "PRON", "isto": "PRON", "aquele": "DET", "aquela": "DET",
	"meu": "DET", "minha": "DET", "nosso": "DET", "nossa": "DET", "seu": "DET", "sua": "DET",
	"de": "ADP", "da": "ADP", "do": "ADP", "das": "ADP", "dos": "ADP", "em": "ADP",
	"no": "ADP", "na": "ADP", "nos": "ADP", "nas": "ADP", "com": "ADP", "para": "ADP",
	"pra": "ADP", "pro": "ADP", "por": "ADP", "pelo": "ADP", "pela": "ADP", "até": "ADP",
	"sem": "ADP", "sobre": "ADP", "entre": "ADP", "ao": "ADP", "à": "ADP", "num": "ADP", "numa": "ADP",
	"e": "CCONJ", "mas": "CCONJ", "ou": "CCONJ", "porém": "CCONJ",
	"que": "SCONJ", "se": "SCONJ", "porque": "SCONJ", "quando": "SCONJ", "como": "SCONJ",
	"eu": "PRON", "ele": "PRON", "ela": "PRON", "nós": "PRON", "eles": "PRON", "elas": "PRON",
	"você": "PRON", "vocês": "PRON", "dele": "PRON", "dela": "PRON",
	"deles": "PRON", "delas": "PRON", "me": "PRON", "lhe": "PRON", "mim": "PRON",
	"comigo": "PRON", "alguém": "PRON", "ninguém": "PRON", "tudo": "PRON", "nada": "PRON",
	"não": "ADV", "ainda": "ADV", "já": "ADV", "hoje": "ADV", "ontem": "ADV", "amanhã": "ADV",
	"também": "ADV", "muito": "ADV", "pouco": "ADV", "depois": "ADV", "antes": "ADV",
	"agora": "ADV", "logo": "ADV", "aqui": "ADV", "ali": "ADV", "bem": "ADV", "mal": "ADV",
	"só": "ADV", "sempre": "ADV", "nunca": "ADV", "talvez": "ADV", "anteontem": "ADV",
}
