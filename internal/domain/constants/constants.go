package constants

import "time"

// Official links. These literal values are the ground truth every generated
// link is checked against; nothing else may appear in a reply.
const (
	StoreURL       = "https://shop.smart.sa/ar"
	TabletsURL     = "https://shop.smart.sa/ar/category/EdyrGY"
	InteractiveURL = "https://shop.smart.sa/ar/category/YYKKAR"
	ComputerURL    = "https://shop.smart.sa/ar/category/AxRPaD"
	SoftwareURL    = "https://shop.smart.sa/ar/category/QvKYzR"
	ReturnURL      = "https://shop.smart.sa/p/OYDNm"
	WarrantyURL    = "https://shop.smart.sa/ar/p/ErDop"
	WhatsAppURL    = "https://wa.me/966593440030"
	JeddahMapURL   = "https://maps.app.goo.gl/PhENEtgDbGsace158"
	RiyadhMapURL   = "https://maps.app.goo.gl/Hq7wrDydx3jQN2bE9n"
)

// OfficialLinks is the exact allow-list seed.
func OfficialLinks() []string {
	return []string{
		StoreURL, TabletsURL, InteractiveURL, ComputerURL, SoftwareURL,
		ReturnURL, WarrantyURL, WhatsAppURL, JeddahMapURL, RiyadhMapURL,
	}
}

// AllowedLinkPrefixes extend the exact allow-list: real product pages live
// under /ar/ and branch locations under the maps short domain.
func AllowedLinkPrefixes() []string {
	return []string{
		"https://shop.smart.sa/ar/category/",
		"https://shop.smart.sa/ar/",
		"https://maps.app.goo.gl/",
	}
}

// LLM call parameters
const (
	MaxRetries      = 3
	RetryDelay      = 2 * time.Second
	RetryBackoff    = 2
	RateLimitFactor = 3

	AnswerTemperature = 0.10
	AnswerMaxTokens   = 900
	ChatTemperature   = 0.55
	ChatMaxTokens     = 220
	RewriteTemp       = 0.75
	RewriteRetryTemp  = 0.95
	RewriteMaxTokens  = 160

	HistoryWindow  = 10
	RewriteHistory = 6
)

// Turn handling limits
const (
	MaxInputChars         = 5000
	DefaultMaxHistorySize = 40
	SearchLimit           = 24
	TopMatches            = 3
	GroupMenuLimit        = 12
	PageSize              = 20
)

// Canned facts. Compliance-sensitive text: never generated, never altered.

const InstallmentFactsAR = "💳 **التقسيط المتوفر:**\n" +
	"نوفر لك التقسيط عبر **Tabby** و **Tamara** و **MisPay**\n\n" +
	"📋 **التفاصيل:**\n" +
	"• خطة 4 أشهر: ادفع 25% الآن والباقي على 3 أشهر\n" +
	"• **بدون فوائد** - معدل فائدة 0%\n" +
	"• يمكنك تمديد المدة حسب مزود التقسيط المختار\n" +
	"• التفاصيل النهائية تظهر عند إتمام الطلب في صفحة الدفع 💰"

const InstallmentFactsEN = "💳 **Available Installment Plans:**\n" +
	"We offer installments through **Tabby**, **Tamara**, and **MisPay**\n\n" +
	"📋 **Details:**\n" +
	"• 4-month plan: Pay 25% now, the rest over 3 months\n" +
	"• **Zero interest** - 0% interest rate\n" +
	"• You can extend the period depending on your chosen provider\n" +
	"• Final details appear at checkout during payment 💰"

const BatteryFactsAR = "🔋 **عمر البطارية لأجهزة الحبر الإلكتروني:**\n" +
	"أجهزتنا (خاصة BOOX) تدوم **أيام طويلة** على شحنة واحدة!\n\n" +
	"⚡ **التفاصيل:**\n" +
	"• عادة تدوم **3-4 أيام بسهولة** حسب الاستخدام\n" +
	"• بعض الأجهزة قد تصل لـ **أسبوع كامل**\n" +
	"• الأجهزة أحادية اللون (أبيض وأسود) تدوم **أطول** من الملونة بسبب استهلاك أقل للطاقة\n" +
	"• المدة تعتمد على: الواي فاي، البلوتوث، استخدام القلم، والقراءة المكثفة 📚"

const BatteryFactsEN = "🔋 **E-ink Device Battery Life:**\n" +
	"Our devices (especially BOOX) last **days** on a single charge!\n\n" +
	"⚡ **Details:**\n" +
	"• Typically lasts **3-4 days easily** depending on usage\n" +
	"• Some devices can reach up to **a full week**\n" +
	"• Monochrome devices last **longer** than color due to lower power consumption\n" +
	"• Duration depends on: Wi-Fi, Bluetooth, pen usage, and intensive reading 📚"

const LifespanFactsAR = "⏳ **عمر الجهاز الافتراضي:**\n" +
	"يعتمد العمر على طريقة استخدامك للجهاز، لكن مع الاستخدام الطبيعي:\n\n" +
	"✅ **غالباً يدوم أكثر من 5 سنوات بسهولة**\n\n" +
	"📌 العوامل المؤثرة:\n" +
	"• دورات الشحن (كل ما قل الشحن المتكرر، كل ما طالت العمر)\n" +
	"• طريقة الاستخدام (قراءة خفيفة مقابل استخدام مكثف)\n" +
	"• العناية بالجهاز والحرارة المحيطة 🌡️"

const LifespanFactsEN = "⏳ **Virtual Device Lifespan:**\n" +
	"The lifespan depends on how you use the device, but with normal use:\n\n" +
	"✅ **It should easily last more than 5 years**\n\n" +
	"📌 Factors affecting lifespan:\n" +
	"• Charging cycles (less frequent charging = longer life)\n" +
	"• Usage pattern (light reading vs. intensive use)\n" +
	"• Device care and ambient temperature 🌡️"

const WarrantyFactsAR = "🛡️ **سياسة الضمان:**\n\n" +
	"**ضمان المنتجات الجديدة:**\n" +
	"• ضمان لمدة **سنتين** على جميع المنتجات التقنية\n" +
	"• يشمل **العيوب المصنعية**\n" +
	"• لا يشمل الأعطال بسبب **سوء الاستخدام** أو **الحوادث** أو **الصيانة غير المعتمدة**\n\n" +
	"**ضمان المنتجات المستعملة:**\n" +
	"• ضمان لمدة **30 يوم** على جميع المنتجات التقنية المستعملة\n" +
	"• يشمل **العيوب المصنعية**\n" +
	"• لا يشمل سوء الاستخدام/الحوادث/الصيانة غير المعتمدة أو الملاحظات المذكورة مسبقاً في الوصف ✅"

const WarrantyFactsEN = "🛡️ **Warranty Policy:**\n\n" +
	"**New products:**\n" +
	"• **2-year** warranty on all tech products\n" +
	"• Covers **manufacturing defects**\n" +
	"• Does NOT cover misuse, accidents, or unauthorized maintenance\n\n" +
	"**Used products:**\n" +
	"• **30-day** warranty on all used tech products\n" +
	"• Covers **manufacturing defects**\n" +
	"• Does NOT cover misuse/accidents/unauthorized maintenance or pre-mentioned notes in the description ✅"

const ShippingFactsAR = "🚚 **التوصيل والشحن:**\n\n" +
	"**داخل السعودية (المدن المحلية):**\n" +
	"• **سمسا (SMSA)**\n" +
	"• **رد بوكس (RedBox)**\n" +
	"• **أراميكس (Aramex)**\n\n" +
	"**خارج السعودية:**\n" +
	"• **DHL فقط** 🌍\n\n" +
	"📦 تكلفة ووقت التوصيل تظهر لك عند إتمام الطلب في صفحة الدفع."

const ShippingFactsEN = "🚚 **Delivery & Shipping:**\n\n" +
	"**Within Saudi Arabia (local cities):**\n" +
	"• **SMSA**\n" +
	"• **RedBox**\n" +
	"• **Aramex**\n\n" +
	"**Outside Saudi Arabia:**\n" +
	"• **DHL only** 🌍\n\n" +
	"📦 Delivery cost & ETA appear at checkout."

const ReturnFactsAR = "↩️ **سياسة الاسترجاع/الاستبدال باختصار:**\n" +
	"• خلال 7 أيام إذا المنتج غير مفتوح وبحالته الأصلية\n" +
	"• إذا مفتوح: يُعامل كمستعمل وقد ينقص السعر 20-30%\n" +
	"• المستعمل: يسمح بالاستبدال خلال 30 يوم"

const ReturnFactsEN = "↩️ **Return/Exchange summary:**\n" +
	"• 7 days if unopened in original condition\n" +
	"• Opened items may be treated as used (value may drop 20-30%)\n" +
	"• Used products: exchange allowed within 30 days"

// Jokes stay fixed lists so the joke path never touches the LLM.

var ArabicTechJokes = []string{
	"ليش الـWi-Fi زعلان؟\nلأن الكل *يتصل فيه*… وما أحد *يسأل عنه* 🤍📶😂",
	"قالوا للمبرمج: اكتب كود نظيف…\nراح غسل اللابتوب 🧼💻😂",
	"المبرمج إذا قال: 'بس أصلح شي بسيط'…\nاعرف إن اليوم راح يطول 😭⌨️",
	"قلت للكمبيوتر: لا تشيل هم…\nقال: طيب بس لا تفتح 50 تبويب كروم مرة وحدة 😅🧠",
	"ليش السيرفر متوتر؟\nلأنه عليه ضغط… حرفياً (Load) 😅🖥️",
	"أكثر جملة تخوف في التقنية؟\n'It works on my machine' 😭🧩😂",
	"سألته: ليه تحب البرمجة؟\nقال: لأنها العلاقة الوحيدة اللي إذا خربت… تقدر تصلحها بـ (Ctrl+Z) 😄⌨️",
}

var EnglishTechJokes = []string{
	"Why do programmers prefer dark mode?\nBecause light attracts bugs 🐛😄",
	"Debugging: where you remove one bug and add two new features 🐛✨",
	"'It works on my machine' — the most powerful spell in software engineering 😅🧩",
	"I told my computer I needed a break…\nIt said: 'No problem — I'll go to sleep.' 😴💻",
	"Why did the developer go broke?\nBecause he used up all his cache 💸😂",
}

// AccessoryTerms marks SKUs that must never surface in a device search
// (pen tips, cases, lamps, stands).
var AccessoryTerms = []string{
	"tip", "tips", "nib", "nibs", "replacement", "refill",
	"سنون", "رؤوس", "بديل", "تبديل", "قطع غيار",
	"cover", "case", "جراب", "حافظة", "كفر",
	"lamp", "light", "اضاءة", "إضاءة", "لمبة", "مصباح",
	"holder", "stand", "حامل",
}

// HallucinationMarkers are model names the LLM has fabricated before.
// Any of these in a completion discards the whole response.
var HallucinationMarkers = []string{
	"nova air", "poke 3", "max3", "note air 3", "tab ultra",
}
