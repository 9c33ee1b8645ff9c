package usecase

import (
	"strings"

	"github.com/smart-sa/smorti/internal/domain/constants"
	"github.com/smart-sa/smorti/internal/domain/entity"
	"github.com/smart-sa/smorti/internal/nlp"
)

const brandSystem = "You are Smorti, a warm helpful store assistant for the SMART store. " +
	"Never invent products, prices, specs, or links. " +
	"Do not re-introduce yourself unless asked who you are."

// buildGrounding is the system message for every LLM call. The FACTS block
// is the only source the model may quote links or products from.
func buildGrounding(facts string) string {
	return brandSystem + "\n\n" +
		"STRICT RULES:\n" +
		"- You MUST NOT invent links. Only use links that appear in FACTS below.\n" +
		"- You MUST NOT invent products, prices, specs. Only use provided product facts.\n" +
		"- If user asks about shipping price/ETA: say it appears at checkout (do not invent).\n" +
		"- Be warm and natural, but concise. 1-4 short lines.\n" +
		"- Use 0-2 emojis max.\n" +
		"- Never flip roles (never ask: \"how can you help me\").\n" +
		"- Arabic user -> Arabic. English user clearly -> English.\n\n" +
		"FACTS:\n" + facts
}

// styleRules is appended to the user prompt on the free-chat path only.
const styleRules = "STYLE RULES:\n" +
	"- Do NOT re-introduce yourself (no 'I am Smorti' / 'أنا سمورتي') unless the user asks who you are.\n" +
	"- Do NOT greet repeatedly.\n" +
	"- Be warm, professional, lightly humorous.\n" +
	"- If info is missing: ask ONE short clarifying question.\n" +
	"- NEVER invent products, prices, specs, or links.\n" +
	"- NEVER use the store homepage as a product link.\n"

// factsBlock lists the ground-truth links and policies, plus up to ten
// catalog matches relevant to the current turn.
func factsBlock(lang string, matches []entity.Product) string {
	var b strings.Builder
	b.WriteString("Store: " + constants.StoreURL + "\n")
	b.WriteString("Return policy: " + constants.ReturnURL + "\n")
	b.WriteString("Warranty policy: " + constants.WarrantyURL + "\n")
	b.WriteString("Location Jeddah: " + constants.JeddahMapURL + "\n")
	b.WriteString("Location Riyadh: " + constants.RiyadhMapURL + "\n")
	b.WriteString("Shipping inside KSA: RedBox / SMSA / Aramex (all cities).\n")
	b.WriteString("Shipping outside KSA (including GCC): DHL. Price/ETA shown at checkout; do not invent.\n")

	if lang == "en" {
		b.WriteString("Categories:\n")
		b.WriteString("- Tablets & eReaders: " + constants.TabletsURL + "\n")
		b.WriteString("- Interactive Screens: " + constants.InteractiveURL + "\n")
		b.WriteString("- Computers & Accessories: " + constants.ComputerURL + "\n")
		b.WriteString("- Software: " + constants.SoftwareURL + "\n")
	} else {
		b.WriteString("الأقسام:\n")
		b.WriteString("- الأجهزة اللوحية وأجهزة القراءة: " + constants.TabletsURL + "\n")
		b.WriteString("- الشاشات التفاعلية: " + constants.InteractiveURL + "\n")
		b.WriteString("- الكمبيوتر وملحقاته: " + constants.ComputerURL + "\n")
		b.WriteString("- البرمجيات: " + constants.SoftwareURL + "\n")
	}

	if len(matches) > 0 {
		b.WriteString("Catalog matches:\n")
		n := len(matches)
		if n > 10 {
			n = 10
		}
		for _, p := range matches[:n] {
			b.WriteString("- " + p.DisplayName(lang) + " | " + p.PriceLabel(lang) + " | " + p.SafeURL(constants.StoreURL) + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// wrapFacts frames a canned fact block warmly without touching its content.
func wrapFacts(lang, title, facts string) string {
	if lang == "en" {
		return "Sure 🤍\n" + title + "\n\n" + facts
	}
	return "أكيد 🤍\n" + title + "\n\n" + facts
}

// Fallback topics route errors and scrubbing to the right category page.
const (
	topicReading  = "reading"
	topicDisplay  = "display"
	topicSoftware = "software"
)

func topicURL(topic string) string {
	switch topic {
	case topicReading:
		return constants.TabletsURL
	case topicDisplay:
		return constants.InteractiveURL
	case topicSoftware:
		return constants.SoftwareURL
	default:
		return constants.StoreURL
	}
}

// topicFromText infers the fallback topic by keyword scan, for turns where
// no mode is locked yet.
func topicFromText(text string) string {
	switch {
	case nlp.IsProgramsQuery(text):
		return topicSoftware
	case nlp.IsMonitorOrScreenQuery(text) || nlp.IsGamingQuery(text):
		return topicDisplay
	default:
		return topicReading
	}
}

// safeFallbackMessage is the accurate last-resort reply: a category link and
// nothing invented.
func safeFallbackMessage(lang, topic string) string {
	link := topicURL(topic)
	if lang == "en" {
		switch topic {
		case topicReading:
			return "Got it 🤍\nBrowse e-readers here:\n🔗 " + link
		case topicDisplay:
			return "Got it 🤍\nBrowse screens here:\n🔗 " + link
		case topicSoftware:
			return "Got it 🤍\nBrowse software/licenses here:\n🔗 " + link
		default:
			return "Got it 🤍\n🔗 " + link
		}
	}
	switch topic {
	case topicReading:
		return "تمام 🤍\nتقدر تتصفح أجهزة القراءة من هنا:\n🔗 " + link
	case topicDisplay:
		return "تمام 🤍\nتقدر تتصفح الشاشات من هنا:\n🔗 " + link
	case topicSoftware:
		return "تمام 🤍\nتقدر تتصفح التراخيص والبرامج من هنا:\n🔗 " + link
	default:
		return "تمام 🤍\n🔗 " + link
	}
}
