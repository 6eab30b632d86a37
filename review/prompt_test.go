package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_TagsOnlyInUserContent(t *testing.T) {
	eff := EffectiveSelection{
		Good: []string{"料理がおいしい"},
		Bad:  []string{"待ち時間が長い"},
	}

	prompt, resolved := Compose(LanguageJapanese, StyleCasual, "ラーメン店", eff, Persona{})
	require.Equal(t, LanguageJapanese, resolved)

	// The system instructions constrain by group label only; tag display
	// strings never leak into them.
	assert.NotContains(t, prompt.SystemInstructions, "料理がおいしい")
	assert.NotContains(t, prompt.SystemInstructions, "待ち時間が長い")

	assert.Contains(t, prompt.UserContent, "料理がおいしい")
	assert.Contains(t, prompt.UserContent, "待ち時間が長い")
}

func TestCompose_UnsupportedLanguageFallsBack(t *testing.T) {
	eff := EffectiveSelection{Good: []string{"friendly staff"}}

	prompt, resolved := Compose(Language("fr"), StyleShort, "cafe", eff, Persona{})

	assert.Equal(t, BaseLanguage, resolved)
	// The base locale's rules header proves the Japanese instruction set
	// was used, not an empty cell.
	assert.Contains(t, prompt.SystemInstructions, locales[BaseLanguage].rulesHeader)
}

func TestCompose_EmptyGroupsOmitted(t *testing.T) {
	eff := EffectiveSelection{Neutral: []string{"average prices"}}

	prompt, _ := Compose(LanguageEnglish, StyleShort, "bakery", eff, Persona{})
	loc := locales[LanguageEnglish]

	assert.NotContains(t, prompt.UserContent, loc.groupLabels[SentimentGood])
	assert.Contains(t, prompt.UserContent, loc.groupLabels[SentimentNeutral])
	assert.NotContains(t, prompt.UserContent, loc.groupLabels[SentimentBad])
}

func TestCompose_GroupOrderGoodNeutralBad(t *testing.T) {
	eff := EffectiveSelection{
		Good:    []string{"great-coffee"},
		Neutral: []string{"plain-interior"},
		Bad:     []string{"cramped-seating"},
	}

	prompt, _ := Compose(LanguageEnglish, StyleCasual, "cafe", eff, Persona{})

	good := strings.Index(prompt.UserContent, "great-coffee")
	neutral := strings.Index(prompt.UserContent, "plain-interior")
	bad := strings.Index(prompt.UserContent, "cramped-seating")
	require.True(t, good >= 0 && neutral >= 0 && bad >= 0)
	assert.Less(t, good, neutral)
	assert.Less(t, neutral, bad)
}

func TestCompose_StoreCategoryInRole(t *testing.T) {
	eff := EffectiveSelection{Good: []string{"x"}}

	prompt, _ := Compose(LanguageJapanese, StyleShort, "イタリアンレストラン", eff, Persona{})
	assert.Contains(t, prompt.SystemInstructions, "イタリアンレストラン")
}

func TestCompose_PersonaAnnotation(t *testing.T) {
	eff := EffectiveSelection{Good: []string{"x"}}

	t.Run("zero persona omitted", func(t *testing.T) {
		prompt, _ := Compose(LanguageEnglish, StyleShort, "diner", eff, Persona{})
		assert.NotContains(t, prompt.SystemInstructions, locales[LanguageEnglish].personaHeader)
	})

	t.Run("age and gender stated plainly", func(t *testing.T) {
		prompt, _ := Compose(LanguageEnglish, StyleShort, "diner", eff, Persona{
			Gender:  GenderFemale,
			AgeBand: AgeBand30s,
		})
		assert.Contains(t, prompt.SystemInstructions, locales[LanguageEnglish].personaHeader)
		assert.Contains(t, prompt.SystemInstructions, "in their thirties")
		assert.Contains(t, prompt.SystemInstructions, "a woman")
	})

	t.Run("visit frequency carried as hint", func(t *testing.T) {
		prompt, _ := Compose(LanguageEnglish, StyleShort, "diner", eff, Persona{
			VisitFrequency: VisitRegular,
		})
		assert.Contains(t, prompt.SystemInstructions, locales[LanguageEnglish].frequencyHints[VisitRegular])
	})
}

func TestCompose_EveryCellRenders(t *testing.T) {
	// Every (language, style) cell must produce non-empty instructions
	// containing its own rendered budget line.
	eff := EffectiveSelection{Good: []string{"seed"}}

	for _, lang := range SupportedLanguages {
		for _, style := range Styles {
			prompt, resolved := Compose(lang, style, "restaurant", eff, Persona{})
			require.Equal(t, lang, resolved)
			assert.NotEmpty(t, prompt.SystemInstructions, "%s/%s", lang, style)
			assert.NotEmpty(t, prompt.UserContent, "%s/%s", lang, style)

			min, max := StyleBudget(lang, style)
			assert.Greater(t, min, 0, "%s/%s", lang, style)
			assert.Greater(t, max, min, "%s/%s", lang, style)
		}
	}
}

func TestStyleBudget_WidensWithStyle(t *testing.T) {
	for _, lang := range SupportedLanguages {
		shortMin, shortMax := StyleBudget(lang, StyleShort)
		casualMin, casualMax := StyleBudget(lang, StyleCasual)
		detailedMin, detailedMax := StyleBudget(lang, StyleDetailed)

		assert.LessOrEqual(t, shortMin, casualMin, "%s", lang)
		assert.LessOrEqual(t, shortMax, casualMax, "%s", lang)
		assert.LessOrEqual(t, casualMin, detailedMin, "%s", lang)
		assert.LessOrEqual(t, casualMax, detailedMax, "%s", lang)
	}
}
