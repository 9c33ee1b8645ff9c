package usecase

import (
	"regexp"
	"strings"

	"github.com/smart-sa/smorti/internal/domain/constants"
)

var (
	urlRe          = regexp.MustCompile(`https?://[^\s)\]}>,،؛!؟"']+`)
	multiSpaceRe   = regexp.MustCompile(`[ \t]{2,}`)
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)

	placeholderRe = regexp.MustCompile(`(?i)\[(رقم الهاتف|عنوان البريد الإلكتروني|عنوان الموقع الإلكتروني|اسم حسابنا.*?|phone.*?|email.*?|website.*?)\]`)
)

const urlTrailingPunct = `).,،؛;!؟?"'`

// linkAllowed checks a URL against the exact allow-list and then the
// trusted prefixes.
func linkAllowed(url string, allowedExact map[string]struct{}, prefixes []string) bool {
	if _, ok := allowedExact[url]; ok {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(url, p) {
			return true
		}
	}
	return false
}

// stripDisallowedLinks deletes every URL that is not allow-listed and tidies
// the whitespace the deletion leaves behind. Used on rewritten deterministic
// replies, where a bad link must vanish rather than be substituted.
func stripDisallowedLinks(text string, allowedExact map[string]struct{}, prefixes []string) string {
	out := urlRe.ReplaceAllStringFunc(text, func(raw string) string {
		url := strings.TrimRight(raw, urlTrailingPunct)
		if linkAllowed(url, allowedExact, prefixes) {
			return raw
		}
		return ""
	})
	out = multiSpaceRe.ReplaceAllString(out, " ")
	out = multiNewlineRe.ReplaceAllString(out, "\n\n")
	out = strings.TrimSpace(out)
	if strings.EqualFold(out, "none") {
		return ""
	}
	return out
}

// rewriteUnknownURLs substitutes unknown URLs with the topic fallback link.
// Used on free LLM output, where deleting the link would leave a reply that
// promises one. The store homepage is also rewritten so it never poses as a
// product page.
func rewriteUnknownURLs(text string, allowedExact map[string]struct{}, fallbackURL string) string {
	if fallbackURL == "" {
		fallbackURL = constants.TabletsURL
	}
	return urlRe.ReplaceAllStringFunc(text, func(raw string) string {
		url := strings.TrimRight(raw, urlTrailingPunct)
		tail := raw[len(url):]
		if url == constants.StoreURL {
			return fallbackURL + tail
		}
		if _, ok := allowedExact[url]; ok {
			return raw
		}
		return fallbackURL + tail
	})
}

var numberTokenRe = regexp.MustCompile(`\d+(?:[.,:]\d+)*%?`)

// factsPreserved reports whether every number and URL in the rewrite already
// appears in the original. A rewrite that alters a price, a percentage or a
// link is discarded in favor of the deterministic reply.
func factsPreserved(original, rewrite string) bool {
	allowed := make(map[string]struct{})
	for _, n := range numberTokenRe.FindAllString(original, -1) {
		allowed[n] = struct{}{}
	}
	for _, u := range urlRe.FindAllString(original, -1) {
		allowed[strings.TrimRight(u, urlTrailingPunct)] = struct{}{}
	}
	for _, n := range numberTokenRe.FindAllString(rewrite, -1) {
		if _, ok := allowed[n]; !ok {
			return false
		}
	}
	for _, u := range urlRe.FindAllString(rewrite, -1) {
		if _, ok := allowed[strings.TrimRight(u, urlTrailingPunct)]; !ok {
			return false
		}
	}
	return true
}

// scrubPlaceholders removes bracketed contact placeholders the model tends
// to emit instead of real values.
func scrubPlaceholders(text string) string {
	return placeholderRe.ReplaceAllString(text, "")
}

// hasHallucinationMarker reports whether the completion names a product the
// model is known to fabricate.
func hasHallucinationMarker(text string) bool {
	t := strings.ToLower(text)
	for _, m := range constants.HallucinationMarkers {
		if strings.Contains(t, m) {
			return true
		}
	}
	return false
}

// cleanOutput normalizes LLM output: drop markdown noise, cap the reply at
// six non-empty lines, treat a literal "none" as empty.
func cleanOutput(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "`", "")

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
		if len(lines) == 6 {
			break
		}
	}
	out := strings.Join(lines, "\n")
	if strings.EqualFold(strings.TrimSpace(out), "none") {
		return ""
	}
	return out
}
