package nlp

import "strings"

var englishSwitchPhrases = []string{
	"بالانجليزي", "بالإنجليزي", "in english", "speak english",
	"english please", "switch to english", "talk in english",
}

var arabicSwitchPhrases = []string{
	"بالعربي", "بالعربية", "in arabic", "speak arabic",
	"arabic please", "switch to arabic", "تكلم عربي", "كلمني عربي",
}

// ExplicitLanguageSwitch returns "ar" or "en" when the user explicitly asks
// for a language, otherwise "". An explicit request always wins.
func ExplicitLanguageSwitch(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, p := range englishSwitchPhrases {
		if strings.Contains(t, p) {
			return "en"
		}
	}
	for _, p := range arabicSwitchPhrases {
		if strings.Contains(t, p) {
			return "ar"
		}
	}
	return ""
}

// DetectLang picks the turn language without flapping: switch to English
// only on a clearly English message, keep Arabic while any Arabic script is
// present, otherwise hold the previous language. A single English model
// name inside an Arabic sentence must not flip the conversation.
func DetectLang(text, prev string) string {
	if sw := ExplicitLanguageSwitch(text); sw != "" {
		return sw
	}

	t := strings.TrimSpace(text)
	if t == "" {
		return fallbackLang(prev)
	}

	ar := CountArabic(t)
	en := CountLatin(t)

	if en >= 8 && en > ar*2 {
		return "en"
	}
	if ar > 0 {
		return "ar"
	}
	return fallbackLang(prev)
}

func fallbackLang(prev string) string {
	if prev == "en" {
		return "en"
	}
	return "ar"
}
