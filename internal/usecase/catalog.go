package usecase

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/smart-sa/smorti/internal/domain/constants"
	"github.com/smart-sa/smorti/internal/domain/entity"
	"github.com/smart-sa/smorti/internal/nlp"
)

// Catalog type filters per locked mode.
var (
	readingDeviceTerms = []string{
		"boox", "onyx", "eink", "e-ink", "قارئ", "ebook", "e-book",
		"note", "palma", "go", "tab",
	}
	notesSupportTerms = []string{
		"note", "notes", "notetaking", "stylus", "pen", "wacom",
		"قلم", "ستايلس", "تدوين", "ملاحظات",
	}
	displayTerms = []string{
		"monitor", "monitors", "screen", "display",
		"thinkvision", "lenovo", "gaming",
		"sparq", "interactive",
		"شاشة", "تفاعلية", "سبارك",
	}
	softwareTerms = []string{
		"license", "ترخيص", "software", "برنامج", "program", "office", "microsoft",
	}
)

// filterByType keeps products whose searchable text mentions any term.
func filterByType(products []entity.Product, includeAny []string) []entity.Product {
	var out []entity.Product
	for _, p := range products {
		blob := p.SearchBlob()
		for _, k := range includeAny {
			if strings.Contains(blob, strings.ToLower(k)) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// isAccessorySKU flags pen tips, cases, lamps and other spare-part rows.
func isAccessorySKU(p entity.Product) bool {
	if strings.EqualFold(strings.TrimSpace(p.ItemType), "accessory") {
		return true
	}
	blob := p.SearchBlob()
	for _, t := range constants.AccessoryTerms {
		if strings.Contains(blob, t) {
			return true
		}
	}
	return false
}

// excludeAccessories drops accessory SKUs, which must never answer a device
// question.
func excludeAccessories(products []entity.Product) []entity.Product {
	var out []entity.Product
	for _, p := range products {
		if !isAccessorySKU(p) {
			out = append(out, p)
		}
	}
	return out
}

// onlyAccessories keeps accessory SKUs, for turns that explicitly ask about
// spare parts.
func onlyAccessories(products []entity.Product) []entity.Product {
	var out []entity.Product
	for _, p := range products {
		if isAccessorySKU(p) {
			out = append(out, p)
		}
	}
	return out
}

var numberInTextRe = regexp.MustCompile(`\d+(\.\d+)?`)

// safeFloat extracts the first number from a free-text spec cell, -1 when
// there is none. Screen sizes arrive as "10.3" or "10.3 inch".
func safeFloat(s string) float64 {
	m := numberInTextRe.FindString(s)
	if m == "" {
		return -1
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return -1
	}
	return v
}

func sortByScreenDesc(products []entity.Product) []entity.Product {
	out := make([]entity.Product, len(products))
	copy(out, products)
	sort.SliceStable(out, func(a, b int) bool {
		return safeFloat(out[a].ScreenSizeIn) > safeFloat(out[b].ScreenSizeIn)
	})
	return out
}

// groupKey buckets a product into a browse series.
func groupKey(p entity.Product, lang string) string {
	name := strings.ToLower(p.DisplayName("en") + " " + p.Series)
	switch {
	case strings.Contains(name, "note air"):
		return "BOOX Note Air"
	case strings.Contains(name, "note max"):
		return "BOOX Note Max"
	case strings.Contains(name, "boox go") || strings.Contains(name, "go "):
		return "BOOX Go"
	case strings.Contains(name, "palma"):
		return "BOOX Palma"
	case strings.Contains(name, "page"):
		return "BOOX Page"
	case strings.Contains(name, "mira"):
		return "BOOX Mira"
	case strings.Contains(name, "poke") || strings.Contains(name, "pok "):
		return "BOOX Poke"
	case strings.Contains(name, "ideahub"):
		return "IdeaHub"
	case strings.Contains(name, "maxhub"):
		return "MAXHUB"
	}
	if s := strings.TrimSpace(p.Series); s != "" {
		return s
	}
	fields := strings.Fields(p.DisplayName(lang))
	if len(fields) > 0 {
		return strings.ToUpper(fields[0])
	}
	return "Other"
}

// groupProducts builds the series menu, biggest series first, capped at the
// menu limit.
func groupProducts(hits []entity.Product, lang string) []entity.ProductGroup {
	order := []string{}
	byKey := map[string][]string{}
	for _, p := range hits {
		k := groupKey(p, lang)
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], p.ID)
	}

	groups := make([]entity.ProductGroup, 0, len(order))
	for _, k := range order {
		groups = append(groups, entity.ProductGroup{Label: k, ProductIDs: byKey[k]})
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return len(groups[a].ProductIDs) > len(groups[b].ProductIDs)
	})
	if len(groups) > constants.GroupMenuLimit {
		groups = groups[:constants.GroupMenuLimit]
	}
	return groups
}

func renderGroups(groups []entity.ProductGroup, lang string) string {
	var b strings.Builder
	if lang == "en" {
		b.WriteString("Nice 👌 Pick a series (reply with a number):")
	} else {
		b.WriteString("تمام 👌 اختر سلسلة (اكتب رقم):")
	}
	for i, g := range groups {
		if lang == "en" {
			b.WriteString(fmt.Sprintf("\n%d) %s (%d options)", i+1, g.Label, len(g.ProductIDs)))
		} else {
			b.WriteString(fmt.Sprintf("\n%d) %s (%d خيارات)", i+1, g.Label, len(g.ProductIDs)))
		}
	}
	return b.String()
}

// renderItems shows the current page of an item list. Numbers restart at 1
// on each page; offset keeps the selection index honest.
func renderItems(items []entity.Product, offset int, lang string) string {
	var b strings.Builder
	if lang == "en" {
		b.WriteString("Here are options (reply with a number):")
	} else {
		b.WriteString("هذي الخيارات (اكتب رقم المنتج):")
	}

	end := offset + constants.PageSize
	if end > len(items) {
		end = len(items)
	}
	for i, p := range items[offset:end] {
		b.WriteString(fmt.Sprintf("\n%d) %s — %s", i+1, p.DisplayName(lang), p.PriceLabel(lang)))
	}
	if end < len(items) {
		if lang == "en" {
			b.WriteString("\nReply \"more\" for the rest, \"back\" to return.")
		} else {
			b.WriteString("\nاكتب \"المزيد\" لعرض الباقي أو \"رجوع\" للرجوع.")
		}
	}
	return b.String()
}

func renderDetail(p entity.Product, lang string) string {
	url := p.SafeURL(constants.StoreURL)
	if lang == "en" {
		return fmt.Sprintf("Here you go 😊\n%s\nPrice: %s\nLink: %s\nFor full specs/colors, please check the website.",
			p.DisplayName("en"), p.PriceLabel("en"), url)
	}
	return fmt.Sprintf("تفضل 😊\n%s\nالسعر: %s\nالرابط: %s\nللتفاصيل (مواصفات/ألوان) شوف الموقع.",
		p.DisplayName("ar"), p.PriceLabel("ar"), url)
}

func renderBestMatch(p entity.Product, lang string) string {
	url := p.SafeURL(constants.StoreURL)
	if lang == "en" {
		return fmt.Sprintf("Sure 😊 I found this:\n%s\nPrice: %s\nLink: %s\nFor full specs/colors, please check the website.",
			p.DisplayName("en"), p.PriceLabel("en"), url)
	}
	return fmt.Sprintf("أكيد 😊 لقيت لك هذا:\n%s\nالسعر: %s\nالرابط: %s\nللتفاصيل (مواصفات/ألوان) شوف الموقع.",
		p.DisplayName("ar"), p.PriceLabel("ar"), url)
}

func renderNotFound(lang string) string {
	if lang == "en" {
		return "I couldn't find that exact name 😅\n" +
			"Try a closer model name (Arabic or English) or tell me the category.\n" +
			"Store: " + constants.StoreURL
	}
	return "ما لقيت هذا الاسم بالضبط عندنا 😅\n" +
		"اكتب اسم الموديل بشكل أقرب (عربي أو إنجليزي) أو قل لي تبغى أي قسم.\n" +
		"المتجر: " + constants.StoreURL
}

// topPicks renders the CSV-only product cards for a locked mode. Spec lines
// appear only when the catalog actually lists the value.
func topPicks(products []entity.Product, lang, header, footer, fallbackURL string, withStorage bool) string {
	var b strings.Builder
	b.WriteString(header + "\n\n")
	for i, p := range products {
		url := p.SafeURL(fallbackURL)
		b.WriteString(fmt.Sprintf("**%d) %s**\n", i+1, p.DisplayName(lang)))
		if lang == "en" {
			b.WriteString("• 💰 Price: " + p.PriceLabel("en") + "\n")
			if p.ScreenSizeIn != "" {
				b.WriteString("• 📏 Screen: " + p.ScreenSizeIn + " inches\n")
			}
			if withStorage && p.StorageGB != "" {
				b.WriteString("• 💾 Storage: " + p.StorageGB + " GB\n")
			}
			b.WriteString("• 🔗 Link: " + url + "\n\n")
		} else {
			b.WriteString("• 💰 السعر: " + p.PriceLabel("ar") + "\n")
			if p.ScreenSizeIn != "" {
				b.WriteString("• 📏 الشاشة: " + p.ScreenSizeIn + " بوصة\n")
			}
			if withStorage && p.StorageGB != "" {
				b.WriteString("• 💾 التخزين: " + p.StorageGB + " GB\n")
			}
			b.WriteString("• 🔗 الرابط: " + url + "\n\n")
		}
	}
	b.WriteString(footer)
	return b.String()
}

// Pagination commands for the items view.

func isMoreCommand(text string) bool {
	t := nlp.Normalize(text)
	switch t {
	case "المزيد", "مزيد", "التالي", "more", "next":
		return true
	}
	return false
}

func isBackCommand(text string) bool {
	t := nlp.Normalize(text)
	switch t {
	case "رجوع", "ارجع", "back":
		return true
	}
	return false
}
