package nlp

import (
	"regexp"
	"strings"
)

// Intent names, also stored on the session for anti-repeat heuristics.
const (
	IntentGreeting    = "greeting"
	IntentJoke        = "joke"
	IntentFacts       = "facts"
	IntentProducts    = "products"
	IntentMenu        = "menu"
	IntentLocation    = "location"
	IntentShipping    = "shipping"
	IntentWarranty    = "warranty"
	IntentReturn      = "return"
	IntentInstallment = "installment"
	IntentBattery     = "battery"
	IntentLifespan    = "lifespan"
	IntentContact     = "contact"
	IntentLLM         = "llm"
	IntentOther       = "other"
)

// classifier is one row of the canonical intent table: bilingual keyword
// sets matched against the normalized text (norm) and the lower-cased raw
// text (raw). A single table keeps the priority order in the turn handler
// explicit instead of scattering ad hoc predicates.
type classifier struct {
	norm []string
	raw  []string
}

var intentTable = map[string]classifier{
	IntentInstallment: {raw: []string{
		"كيف التقسيط", "وش التقسيط", "عندكم تقسيط", "تقسيط كيف",
		"عندكم تابي", "عندكم تمارا", "تقسيط",
		"how is installment", "do you have installment", "installment",
		"you have tabby", "you have tamara", "tabby", "tamara", "mispay",
	}},
	IntentBattery: {raw: []string{
		"بطارية", "battery", "تشحن", "شحن", "يدوم",
		"lasts", "مدة البطارية", "battery life", "charge",
		"charging", "كم يدوم", "how long",
	}},
	IntentLifespan: {raw: []string{
		"عمر", "يعيش", "كم سنة", "lifespan",
		"how long will it last", "يدوم كم", "كم يدوم",
		"durability", "متين", "يطول",
	}},
	IntentWarranty: {raw: []string{
		"ضمان", "warranty", "كفالة", "ضمانكم", "مدة الضمان", "كم الضمان",
	}},
	IntentReturn: {norm: []string{
		"استرجاع", "استبدال", "ارجاع", "سياسه الاسترجاع", "refund", "return",
	}},
	IntentShipping: {norm: []string{
		"شحن", "توصيل", "يوصل", "مده الشحن", "تشحنون", "تشحن",
		"ارسلوا", "ارسال", "delivery", "shipping",
	}},
	IntentLocation: {norm: []string{
		"وين موقعكم", "موقعكم", "لوكيشن", "عنوان", "فرع", "فروع",
		"location", "address", "زياره",
	}},
	IntentContact: {raw: []string{
		"تواصل", "اتواصل", "رقم", "واتساب", "whatsapp", "contact",
		"reach", "support", "اتصال", "تواصلوا",
	}},
	IntentMenu: {norm: []string{
		"القائمه", "القايمه", "الاقسام", "ايش عندكم", "وش عندكم",
		"وريني المنتجات", "ابي اشوف المنتجات", "ابي المنتجات",
		"menu", "categories", "what do you have", "show products",
	}},
}

// has reports whether any keyword of the table row occurs in the text.
func has(intent, text string) bool {
	c, ok := intentTable[intent]
	if !ok {
		return false
	}
	if len(c.raw) > 0 {
		t := strings.ToLower(text)
		for _, k := range c.raw {
			if strings.Contains(t, k) {
				return true
			}
		}
	}
	if len(c.norm) > 0 {
		t := Normalize(text)
		for _, k := range c.norm {
			if strings.Contains(t, k) {
				return true
			}
		}
	}
	return false
}

func IsInstallmentQuery(text string) bool { return has(IntentInstallment, text) }
func IsBatteryQuery(text string) bool     { return has(IntentBattery, text) }
func IsLifespanQuery(text string) bool    { return has(IntentLifespan, text) }
func IsWarrantyQuery(text string) bool    { return has(IntentWarranty, text) }
func IsReturnQuery(text string) bool      { return has(IntentReturn, text) }
func IsShippingQuery(text string) bool    { return has(IntentShipping, text) }
func IsLocationQuery(text string) bool    { return has(IntentLocation, text) }
func IsContactQuery(text string) bool     { return has(IntentContact, text) }
func WantsMenu(text string) bool          { return has(IntentMenu, text) }

// Category hints. These decide which catalog filter applies; they are not
// mutually exclusive and the turn handler owns the precedence.

func IsProgramsQuery(text string) bool {
	return hasAny(strings.ToLower(text), []string{
		"ترخيص", "رخصة", "license", "software", "برنامج", "برامج",
		"spss", "matlab", "solidworks", "arcgis", "autocad",
		"photoshop", "microsoft", "office",
	})
}

func IsMonitorOrScreenQuery(text string) bool {
	return hasAny(strings.ToLower(text), []string{
		"monitor", "monitors", "شاشة", "شاشه", "screen", "display",
		"gaming monitor", "gaming screen", "شاشة العاب", "شاشة للألعاب",
		"تفاعلية", "interactive", "sparq", "سبارك", "thinkvision", "lenovo",
	})
}

func IsGamingQuery(text string) bool {
	return hasAny(strings.ToLower(text), []string{
		"gaming", "قيمينق", "قيمينج", "ألعاب", "العاب",
		"fps", "هرتز", "hz", "refresh rate", "ps5", "xbox",
		"للألعاب", "للعب", "pc gaming", "game", "play",
	})
}

func IsBooxQuery(text string) bool {
	return hasAny(strings.ToLower(text), []string{
		"boox", "بوكس", "بووكس", "قارئ", "ebook", "e-book", "eink", "e-ink",
		"note air", "palma", "go 6", "go 7", "go color", "tab x",
		"tab ultra", "قراءة", "reading", "كتاب إلكتروني",
	})
}

func IsReadingDeviceIntent(text string) bool {
	return hasAny(strings.ToLower(text), []string{
		"جهاز قراءة", "للقراءة", "قراءة الكتب", "قراءة كتاب", "كتب",
		"قارئ إلكتروني", "قارئ الكتروني", "ebook reader", "e-reader",
		"read books", "reading device", "device for reading",
	})
}

func WantsBigScreen(text string) bool {
	t := Normalize(text)
	if strings.Contains(t, "شاشه كبيره") || strings.Contains(text, "شاشة كبيرة") {
		return true
	}
	return hasAny(strings.ToLower(text), []string{
		"large screen", "big screen", "اكبر شاشة", "أكبر شاشة",
	})
}

func IsNotesIntent(text string) bool {
	t := Normalize(text)
	for _, k := range []string{"ملاحظات", "تدوين", "كتابه", "اكتب", "رسم", "نوت", "نوتس"} {
		if strings.Contains(t, k) {
			return true
		}
	}
	raw := strings.ToLower(text)
	return hasAny(raw, []string{
		"notes", "note taking", "notetaking", "write", "writing", "draw", "sketch",
	})
}

// IsAccessoryQuery detects a request FOR an accessory (spare nibs, cases,
// lamps). Note-taking talk mentions pens too, so notes intent wins and the
// search stays on devices.
func IsAccessoryQuery(text string) bool {
	if IsNotesIntent(text) {
		return false
	}
	t := Normalize(text)
	raw := strings.ToLower(text)

	strongAR := []string{"سنون", "رؤوس", "بديل", "احتياطي", "قطع غيار"}
	strongEN := []string{"tips", "tip", "nibs", "nib", "replacement", "refill", "spare"}
	for _, k := range strongAR {
		if strings.Contains(t, k) {
			return true
		}
	}
	for _, k := range strongEN {
		if strings.Contains(raw, k) {
			return true
		}
	}

	other := []string{
		"case", "cover", "جراب", "حافظه", "كفر",
		"lamp", "light", "اضاءه", "لمبه", "مصباح",
		"holder", "stand", "حامل",
	}
	return hasAny(raw, other) || hasAny(t, other)
}

// Jokes

func IsJokeRequest(text string) bool {
	t := Normalize(text)
	for _, k := range []string{"نكته", "ضحكني", "اضحكني", "طرفه", "ابغا نكته", "ابغي نكته", "قول نكته"} {
		if strings.Contains(t, k) {
			return true
		}
	}
	raw := strings.ToLower(strings.TrimSpace(text))
	if jokeWordRe.MatchString(raw) {
		return true
	}
	return strings.Contains(raw, "tell me a jok") ||
		strings.Contains(raw, "make me laugh") ||
		strings.Contains(raw, "funny")
}

var jokeWordRe = regexp.MustCompile(`\bjoke?\b`)

// IsAnotherJokeRequest only counts when the previous intent was a joke;
// the caller checks that.
func IsAnotherJokeRequest(text string) bool {
	t := Normalize(text)
	for _, k := range []string{"وحده ثانيه", "واحده ثانيه", "نكته ثانيه", "ثانيه", "كمان", "زياده"} {
		if strings.Contains(t, k) {
			return true
		}
	}
	return hasAny(strings.ToLower(text), []string{"another", "one more", "more", "next"})
}

// Greetings

var enGreetingRe = regexp.MustCompile(`(?i)\b(hi|hello|hey|good\s*(morning|evening|afternoon)|howdy|greetings)\b`)

var arabicGreetingPhrases = map[string]struct{}{
	"سلام": {}, "سلام عليكم": {}, "السلام عليكم": {}, "عليكم السلام": {}, "وعليكم السلام": {},
	"مرحبا": {}, "هلا": {}, "هلا والله": {}, "اهلين": {}, "اهلا": {}, "يا هلا": {},
	"حياك": {}, "منور": {}, "منورنا": {},
}

// IsSalam is the strict full Islamic greeting. It mandates the literal
// reciprocal reply regardless of anything else in the message.
func IsSalam(text string) bool {
	t := Normalize(text)
	return strings.Contains(t, "السلام عليكم") || strings.Contains(t, "سلام عليكم")
}

// salamTokens make up the full Islamic greeting and its extension. They are
// discarded before the greeting-only token count so the long form ("السلام
// عليكم ورحمة الله وبركاته") still counts as a bare greeting.
var salamTokens = map[string]struct{}{
	"السلام": {}, "سلام": {}, "عليكم": {}, "وعليكم": {},
	"ورحمة": {}, "ورحمه": {}, "الله": {}, "وبركاته": {},
}

// IsArabicGreetingOnly holds when the whole (normalized) message is a
// greeting phrase with no other content.
func IsArabicGreetingOnly(text string) bool {
	s := Normalize(text)
	if s == "" {
		return true
	}
	tokens := strings.Fields(s)
	rest := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := salamTokens[tok]; !ok {
			rest = append(rest, tok)
		}
	}
	if len(rest) == 0 {
		return true
	}
	if len(rest) > 4 {
		return false
	}
	_, ok := arabicGreetingPhrases[strings.Join(rest, " ")]
	return ok
}

// IsGreetingOnly short-circuits to the greeting reply without the LLM.
func IsGreetingOnly(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return true
	}
	if HasArabic(t) && IsArabicGreetingOnly(t) && len(t) <= 80 {
		return true
	}
	return len(t) <= 80 && enGreetingRe.MatchString(t)
}

func IsSmalltalk(text string) bool {
	t := Normalize(text)
	return hasAny(t, []string{
		"كيف الحال", "كيفك", "اخبارك", "شلونك", "ايش الاخبار", "كيف حالك",
	})
}

// IsGreetingWord flags a query that is itself a greeting phrase, so catalog
// search does not match a product by incidental substring.
func IsGreetingWord(query string) bool {
	q := Normalize(query)
	_, ok := arabicGreetingPhrases[q]
	return ok || enGreetingRe.MatchString(q)
}

// Numeric menu choice: the whole trimmed message is 1-3 digits. Only valid
// while a menu is on screen; the caller checks the browse cursor.
var numberChoiceRe = regexp.MustCompile(`^\d{1,3}$`)

func IsNumberChoice(text string) bool {
	return numberChoiceRe.MatchString(strings.TrimSpace(text))
}

// Price question, Arabic-punctuation tolerant.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(^|[\s\W])سعر(ه)?([\s\W]|$)`),
	regexp.MustCompile(`(^|[\s\W])السعر([\s\W]|$)`),
	regexp.MustCompile(`(^|[\s\W])بكم([\s\W]|$)`),
	regexp.MustCompile(`(^|[\s\W])كم([\s\W]|$)`),
	regexp.MustCompile(`كم.*سعر`),
	regexp.MustCompile(`كم.*يكلف`),
	regexp.MustCompile(`كم.*ثمن`),
	regexp.MustCompile(`(?i)\bprice\b`),
	regexp.MustCompile(`(?i)\bcost\b`),
	regexp.MustCompile(`(?i)how\s*much`),
}

func IsPriceQuestion(text string) bool {
	t := Normalize(text)
	for _, re := range pricePatterns {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}

// WantsBrowse flags broad "show me the range" queries that should open the
// grouped catalog menu rather than a flat ranked list.
func WantsBrowse(text string) bool {
	t := Normalize(text)
	return hasAny(t, []string{
		"بووكس", "بوكس", "boox", "اجهزه", "devices", "products", "منتجات", "وريني", "ابي",
	})
}

// Shipping / location follow-up helpers

func CityFromText(text string) string {
	t := Normalize(text)
	if strings.Contains(t, "جده") || strings.Contains(t, "jeddah") {
		return "jeddah"
	}
	if strings.Contains(t, "الرياض") || strings.Contains(t, "رياض") || strings.Contains(t, "riyadh") {
		return "riyadh"
	}
	return ""
}

func OutsideKSAHint(text string) bool {
	t := Normalize(text)
	return hasAny(t, []string{
		"قطر", "الكويت", "الامارات", "البحرين", "عمان",
		"uae", "qatar", "kuwait", "bahrain", "oman", "الخليج", "الصين", "china",
	})
}

// Filler around a place name in a short shipping question, dropped before
// the place is echoed back ("تشحنون الي قطر" -> "قطر").
var placeFillerTokens = map[string]struct{}{
	"هل": {}, "الي": {}, "ل": {}, "في": {}, "تشحنون": {}, "توصلون": {}, "تشحن": {}, "يوصل": {},
	"do": {}, "you": {}, "ship": {}, "deliver": {}, "to": {},
}

// ExtractPlaceShort returns the normalized place name when the whole message
// is a bare place, possibly wrapped in shipping filler (up to 4 words).
// Longer sentences return "" and trigger the clarify step instead.
func ExtractPlaceShort(text string) string {
	tokens := strings.Fields(Normalize(text))
	if len(tokens) == 0 || len(tokens) > 4 {
		return ""
	}
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, filler := placeFillerTokens[tok]; !filler {
			kept = append(kept, tok)
		}
	}
	if n := len(kept); n >= 1 && n <= 3 {
		return strings.Join(kept, " ")
	}
	return ""
}

func hasAny(haystack string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}
