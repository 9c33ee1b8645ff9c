package nlp

import (
	"regexp"
	"strings"
)

var (
	arabicScriptRe = regexp.MustCompile(`[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}]`)
	arabicCharRe   = regexp.MustCompile(`[\x{0600}-\x{06FF}]`)
	latinCharRe    = regexp.MustCompile(`[A-Za-z]`)
	diacriticsRe   = regexp.MustCompile(`[\x{064B}-\x{065F}\x{0610}-\x{061A}\x{06D6}-\x{06ED}]`)
	punctRe        = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	spaceRe        = regexp.MustCompile(`\s+`)

	alefReplacer = strings.NewReplacer("أ", "ا", "إ", "ا", "آ", "ا", "ى", "ي")
)

const tatweel = "ـ"

// Normalize canonicalizes Arabic-friendly text: lower-case, strip tatweel
// and diacritics, unify alef variants, punctuation to spaces, collapse
// whitespace. Idempotent by construction.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, tatweel, "")
	s = diacriticsRe.ReplaceAllString(s, "")
	s = alefReplacer.Replace(s)
	s = punctRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeSearch additionally folds ta marbuta into ha, which helps catalog
// matching (شاشة vs شاشه) but is too aggressive for intent phrases.
func NormalizeSearch(text string) string {
	return strings.ReplaceAll(Normalize(text), "ة", "ه")
}

// HasArabic reports whether any Arabic-script code point is present.
func HasArabic(text string) bool {
	return arabicScriptRe.MatchString(text)
}

// CountArabic counts Arabic-range code points.
func CountArabic(text string) int {
	return len(arabicCharRe.FindAllString(text, -1))
}

// CountLatin counts Latin letters.
func CountLatin(text string) int {
	return len(latinCharRe.FindAllString(text, -1))
}

// Terms tokenizes a query into alphanumeric/Arabic search terms.
var termRe = regexp.MustCompile(`[a-zA-Z0-9\x{0600}-\x{06FF}]+`)

func Terms(query string) []string {
	return termRe.FindAllString(strings.ToLower(query), -1)
}
