// Package policy shapes arbitrary model output into question-only,
// language-matched coaching responses and detects attempts to extract
// direct answers.
package policy

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Language identifies a response language the duck can speak.
type Language string

const (
	English Language = "en"
	French  Language = "fr"
)

// NormalizeLanguage coerces any value to a supported language, defaulting to English.
func NormalizeLanguage(value string) Language {
	if Language(value) == French {
		return French
	}
	return English
}

// IsKnownLanguage reports whether value is one of the supported language codes.
func IsKnownLanguage(value string) bool {
	return Language(value) == English || Language(value) == French
}

var solutionTriggers = []string{
	"give me the solution",
	"donne moi la solution",
	"write the code",
	"ecris le code",
	"solve it",
	"fix it for me",
	"do it for me",
	"donne la reponse",
	"fais le pour moi",
}

var fallbackOpeners = map[Language][]string{
	English: {
		"What outcome do you want first?",
		"What have you already tried?",
		"What constraint is blocking you right now?",
		"What is the smallest next step you can test?",
	},
	French: {
		"Quel resultat tu veux en premier ?",
		"Tu as deja essaye quoi exactement ?",
		"Quelle contrainte te bloque en ce moment ?",
		"Quel est le plus petit prochain test que tu peux faire ?",
	},
}

const frenchAccents = "àâçéèêëîïôùûüÿœ"

// Token hints are padded with spaces so they only match whole words.
var frenchHints = []string{
	" je ", " tu ", " il ", " elle ", " nous ", " vous ", " ils ", " elles ",
	" pourquoi ", " comment ", " quand ", " quoi ", " quel ", " quelle ",
	" avec ", " sans ", " pour ", " dans ", " est ", " sont ", " pas ",
	" deja ", " besoin ", " probleme ", " erreur ", " merci ", " bonjour ",
}

var englishHints = []string{
	" i ", " you ", " he ", " she ", " we ", " they ", " why ", " how ", " what ",
	" with ", " without ", " for ", " in ", " is ", " are ", " not ", " need ",
	" error ", " problem ", " thanks ", " hello ",
}

// Policy applies the duck's response rules. Every path terminates in a
// deterministic local fallback, so no method ever fails.
type Policy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a policy with a time-seeded random source.
func New() *Policy {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource creates a policy with an explicit random source so tests can
// pin fallback opener selection.
func NewWithSource(src rand.Source) *Policy {
	return &Policy{rng: rand.New(src)}
}

// DetectLanguage scores free text as French or English. French-specific
// accented characters weigh heavily; otherwise whole-word function-word hits
// are counted per language. Ties go to French.
func DetectLanguage(input string) Language {
	text := " " + strings.ToLower(input) + " "

	fr, en := 0, 0
	if strings.ContainsAny(text, frenchAccents) {
		fr += 3
	}

	for _, token := range frenchHints {
		if strings.Contains(text, token) {
			fr++
		}
	}
	for _, token := range englishHints {
		if strings.Contains(text, token) {
			en++
		}
	}

	if fr >= en {
		return French
	}
	return English
}

// LooksLikeSolutionRequest reports whether the user is asking for a direct
// answer instead of coaching, in either language.
func LooksLikeSolutionRequest(input string) bool {
	text := strings.ToLower(input)
	for _, needle := range solutionTriggers {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// RefusalQuestion is the canned reply for flagged solution requests. The
// provider is never consulted for these.
func RefusalQuestion(language Language) string {
	if NormalizeLanguage(string(language)) == French {
		return "Je suis un canard en plastique. Je ne donne pas la reponse. Tu as deja essaye quoi, exactement ?"
	}
	return "I am a plastic duck. I am not here to give the answer. What did you try already, exactly?"
}

// EnforceQuestionOnly trims the model text to at most two question sentences
// in the requested language. Anything that cannot be salvaged falls back to
// LocalDuckQuestion.
func (p *Policy) EnforceQuestionOnly(text, userInput string, language Language) string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return p.LocalDuckQuestion(userInput, language)
	}

	var questions []string
	for _, sentence := range splitSentences(clean) {
		sentence = strings.TrimSpace(sentence)
		if strings.HasSuffix(sentence, "?") {
			questions = append(questions, sentence)
		}
	}

	if len(questions) > 0 {
		if len(questions) > 2 {
			questions = questions[:2]
		}
		result := strings.Join(questions, " ")
		if language == French && DetectLanguage(result) != French {
			return p.LocalDuckQuestion(userInput, French)
		}
		return result
	}

	return p.LocalDuckQuestion(userInput, language)
}

// LocalDuckQuestion synthesizes a question without any provider: keyword
// triggers first, then a random per-language opener.
func (p *Policy) LocalDuckQuestion(userInput string, language Language) string {
	lang := NormalizeLanguage(string(language))
	text := strings.ToLower(userInput)

	if strings.Contains(text, "error") || strings.Contains(text, "bug") {
		if lang == French {
			return "Quel est le message d'erreur exact, et a quel moment il apparait ?"
		}
		return "What is the exact error message, and when does it appear?"
	}

	if strings.Contains(text, "architecture") || strings.Contains(text, "design") {
		if lang == French {
			return "Quel compromis compte le plus ici: vitesse, simplicite, ou flexibilite ?"
		}
		return "What tradeoff matters most for this decision: speed, simplicity, or flexibility?"
	}

	if strings.Contains(text, "performance") || strings.Contains(text, "slow") {
		if lang == French {
			return "Quel est le goulot actuel que tu peux mesurer maintenant ?"
		}
		return "What is the current bottleneck you can measure right now?"
	}

	openers := fallbackOpeners[lang]

	p.mu.Lock()
	pick := p.rng.Intn(len(openers))
	p.mu.Unlock()

	return openers[pick]
}

// splitSentences cuts text after a terminator (. ? !) followed by whitespace,
// keeping the terminator attached to its sentence. A terminator with no
// trailing whitespace does not split.
func splitSentences(text string) []string {
	var parts []string
	runes := []rune(text)

	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		if i+1 < len(runes) && isWhitespace(runes[i+1]) {
			parts = append(parts, string(runes[start:i+1]))
			j := i + 1
			for j < len(runes) && isWhitespace(runes[j]) {
				j++
			}
			start = j
			i = j - 1
		}
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

func isTerminator(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
