package policy

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frenchOpeners = []string{
	"Quel resultat tu veux en premier ?",
	"Tu as deja essaye quoi exactement ?",
	"Quelle contrainte te bloque en ce moment ?",
	"Quel est le plus petit prochain test que tu peux faire ?",
}

var englishOpeners = []string{
	"What outcome do you want first?",
	"What have you already tried?",
	"What constraint is blocking you right now?",
	"What is the smallest next step you can test?",
}

func TestLooksLikeSolutionRequestTriggers(t *testing.T) {
	triggers := []string{
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

	for _, trigger := range triggers {
		assert.True(t, LooksLikeSolutionRequest(trigger), "trigger %q", trigger)
		assert.True(t, LooksLikeSolutionRequest("Please "+strings.ToUpper(trigger)+" now"), "embedded %q", trigger)
	}

	assert.False(t, LooksLikeSolutionRequest("help me reason about this"))
	assert.False(t, LooksLikeSolutionRequest("what should I think about first?"))
}

func TestEnforceQuestionOnlyKeepsQuestions(t *testing.T) {
	p := New()

	result := p.EnforceQuestionOnly(
		"You should use Redis. What traffic do you expect? What latency target do you need?",
		"Need architecture help",
		English,
	)

	assert.Equal(t, "What traffic do you expect? What latency target do you need?", result)
}

func TestEnforceQuestionOnlyCapsAtTwoQuestions(t *testing.T) {
	p := New()

	result := p.EnforceQuestionOnly(
		"What is A? What is B? What is C?",
		"anything",
		English,
	)

	assert.Equal(t, "What is A? What is B?", result)
}

func TestEnforceQuestionOnlyEmptyInputFallsBack(t *testing.T) {
	p := New()

	result := p.EnforceQuestionOnly("", "no clue", English)

	require.NotEmpty(t, result)
	assert.True(t, strings.HasSuffix(result, "?"))
}

func TestEnforceQuestionOnlyStatementsOnlyFallsBack(t *testing.T) {
	p := New()

	result := p.EnforceQuestionOnly(
		"Use Redis. It is fast. Trust me on this one.",
		"something generic",
		English,
	)

	require.NotEmpty(t, result)
	assert.True(t, strings.HasSuffix(result, "?"))
	assert.Contains(t, englishOpeners, result)
}

func TestEnforceQuestionOnlyFrenchGuard(t *testing.T) {
	p := New()

	// The surviving questions are English but French was requested, so the
	// result is discarded for a French local question.
	result := p.EnforceQuestionOnly(
		"What traffic do you expect? What latency target do you need?",
		"something generic",
		French,
	)

	require.NotEmpty(t, result)
	assert.Contains(t, frenchOpeners, result)
	assert.Equal(t, French, DetectLanguage(result))
}

func TestEnforceQuestionOnlyNoWhitespaceAfterTerminator(t *testing.T) {
	p := New()

	// "Why?Because." never splits, so the single piece does not end in "?"
	// and the local fallback applies.
	result := p.EnforceQuestionOnly("Why?Because.", "something generic", English)

	assert.NotEqual(t, "Why?Because.", result)
	assert.Contains(t, englishOpeners, result)
}

func TestEnforceQuestionOnlyIdempotent(t *testing.T) {
	p := New()

	first := p.EnforceQuestionOnly(
		"Take a breath. What broke first? What changed since then?",
		"my service is down",
		English,
	)
	second := p.EnforceQuestionOnly(first, "my service is down", English)

	assert.Equal(t, first, second)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, French, DetectLanguage("Bonjour, j'ai un problème avec mon code"))
	assert.Equal(t, English, DetectLanguage("Hello, I have a bug in my code"))
	assert.Equal(t, French, DetectLanguage("pourquoi est-ce que tu fais ça"))
	assert.Equal(t, English, DetectLanguage("why is this not working for me"))
}

func TestDetectLanguageAccentsWeighHeavily(t *testing.T) {
	assert.Equal(t, French, DetectLanguage("réseau cassé"))
}

func TestRefusalQuestionPerLanguage(t *testing.T) {
	assert.Equal(t,
		"I am a plastic duck. I am not here to give the answer. What did you try already, exactly?",
		RefusalQuestion(English))
	assert.Equal(t,
		"Je suis un canard en plastique. Je ne donne pas la reponse. Tu as deja essaye quoi, exactement ?",
		RefusalQuestion(French))
	// Unknown languages fall back to English.
	assert.Equal(t, RefusalQuestion(English), RefusalQuestion(Language("de")))
}

func TestLocalDuckQuestionKeywordBranches(t *testing.T) {
	p := New()

	assert.Equal(t,
		"What is the exact error message, and when does it appear?",
		p.LocalDuckQuestion("I hit an error in prod", English))
	assert.Equal(t,
		"Quel est le message d'erreur exact, et a quel moment il apparait ?",
		p.LocalDuckQuestion("un bug bizarre", French))
	assert.Equal(t,
		"What tradeoff matters most for this decision: speed, simplicity, or flexibility?",
		p.LocalDuckQuestion("help with my architecture", English))
	assert.Equal(t,
		"What is the current bottleneck you can measure right now?",
		p.LocalDuckQuestion("everything is slow", English))
}

func TestLocalDuckQuestionAlwaysEndsWithQuestionMark(t *testing.T) {
	p := New()

	inputs := []string{"", "random text", "errors everywhere", "design question", "performance", "???", "aaaa"}
	for _, input := range inputs {
		for _, lang := range []Language{English, French, Language("xx")} {
			result := p.LocalDuckQuestion(input, lang)
			require.NotEmpty(t, result, "input %q lang %q", input, lang)
			assert.True(t, strings.HasSuffix(result, "?"), "input %q lang %q got %q", input, lang, result)
		}
	}
}

func TestLocalDuckQuestionSeededSelectionIsDeterministic(t *testing.T) {
	a := NewWithSource(rand.NewSource(42))
	b := NewWithSource(rand.NewSource(42))

	for i := 0; i < 10; i++ {
		assert.Equal(t,
			a.LocalDuckQuestion("something generic", English),
			b.LocalDuckQuestion("something generic", English))
	}
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, French, NormalizeLanguage("fr"))
	assert.Equal(t, English, NormalizeLanguage("en"))
	assert.Equal(t, English, NormalizeLanguage("es"))
	assert.Equal(t, English, NormalizeLanguage(""))

	assert.True(t, IsKnownLanguage("en"))
	assert.True(t, IsKnownLanguage("fr"))
	assert.False(t, IsKnownLanguage("EN"))
	assert.False(t, IsKnownLanguage(""))
}

func TestSplitSentencesKeepsTerminators(t *testing.T) {
	parts := splitSentences("First one. Second one? Third!")

	require.Len(t, parts, 3)
	assert.Equal(t, "First one.", parts[0])
	assert.Equal(t, "Second one?", parts[1])
	assert.Equal(t, "Third!", parts[2])
}
