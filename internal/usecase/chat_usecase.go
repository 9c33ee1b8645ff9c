package usecase

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smart-sa/smorti/internal/domain/constants"
	"github.com/smart-sa/smorti/internal/domain/entity"
	"github.com/smart-sa/smorti/internal/domain/repository"
	"github.com/smart-sa/smorti/internal/nlp"
	"github.com/smart-sa/smorti/pkg/logger"
)

// ChatUseCase is the conversation engine. One call handles one user turn
// and always returns something sendable; errors degrade into safe fallback
// replies rather than surfacing.
type ChatUseCase interface {
	HandleMessage(ctx context.Context, sessionID, text string) string
}

// Options tune turn handling without touching the grounding rules.
type Options struct {
	// ScreenDefault resolves a turn that asks for reading and display at
	// once: "display" or "reading".
	ScreenDefault string
	// RewriteTone passes deterministic replies through the LLM for warmth.
	// Canned fact blocks are never rewritten either way.
	RewriteTone bool
}

type smortiUseCase struct {
	ai         repository.AIRepository
	sessions   repository.ChatRepository
	catalog    repository.ProductRepository
	transcript repository.TranscriptRepository // optional

	screenDefault string
	rewriteTone   bool

	sleep   func(ctx context.Context, d time.Duration) error
	randInt func(n int) int
	now     func() time.Time
}

// NewChatUseCase wires the engine. transcript may be nil.
func NewChatUseCase(
	ai repository.AIRepository,
	sessions repository.ChatRepository,
	catalog repository.ProductRepository,
	transcript repository.TranscriptRepository,
	opts Options,
) ChatUseCase {
	screenDefault := opts.ScreenDefault
	if screenDefault != "reading" {
		screenDefault = "display"
	}
	return &smortiUseCase{
		ai:            ai,
		sessions:      sessions,
		catalog:       catalog,
		transcript:    transcript,
		screenDefault: screenDefault,
		rewriteTone:   opts.RewriteTone,
		sleep:         sleepCtx,
		randInt:       rand.Intn,
		now:           time.Now,
	}
}

// HandleMessage runs the whole pipeline for one turn. Panics are caught so a
// catalog or state bug can never kill the delivery loop.
func (u *smortiUseCase) HandleMessage(ctx context.Context, sessionID, text string) (reply string) {
	s, err := u.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		logger.Error().Err(err).Str("session", sessionID).Msg("session load failed")
		s = entity.NewSession(sessionID)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Str("session", sessionID).Msg("turn handler panicked")
			topic := s.Mode
			if topic == "" {
				topic = topicReading
			}
			if s.Lang == "en" {
				reply = "Something unexpected happened 😔🤍\n" + safeFallbackMessage("en", topic)
			} else {
				reply = "صار شي غير متوقع 😔🤍\n" + safeFallbackMessage("ar", topic)
			}
		}
	}()

	text = strings.TrimSpace(text)
	if text == "" {
		if s.Lang == "en" {
			return "Hey 🤍 Send me your question and I'll help 😊"
		}
		return "هلا 🤍 اكتب لي سؤالك وبساعدك 😊"
	}
	if len(text) > constants.MaxInputChars {
		// Cut on a rune boundary; a byte slice could split an Arabic letter.
		if r := []rune(text); len(r) > constants.MaxInputChars {
			text = string(r[:constants.MaxInputChars])
		}
	}

	if lt := strings.ToLower(text); lt == "/reset" || lt == "reset" {
		s.Reset()
		u.save(ctx, s)
		return "✅ تم تصفير الجلسة."
	}

	s.Lang = nlp.DetectLang(text, s.Lang)

	reply = u.route(ctx, s, text)

	// The reciprocal salam is mandatory and verbatim on any turn that carries
	// the greeting, even when a question follows it or a rewrite dropped it.
	if nlp.IsSalam(text) && !strings.Contains(reply, "وعليكم السلام") {
		reply = "وعليكم السلام ورحمة الله وبركاته 🤍\n\n" + reply
	}

	s.Push("user", text, constants.DefaultMaxHistorySize)
	s.Push("assistant", reply, constants.DefaultMaxHistorySize)
	s.LastBotReply = reply
	u.save(ctx, s)
	u.log(ctx, s, text, reply)
	return reply
}

// route picks exactly one handling path for the turn, in priority order.
func (u *smortiUseCase) route(ctx context.Context, s *entity.Session, text string) string {
	// Jokes first so "نكتة ثانية" never falls into product search.
	if nlp.IsJokeRequest(text) || (nlp.IsAnotherJokeRequest(text) && s.LastIntent == nlp.IntentJoke) {
		u.setIntent(s, nlp.IntentJoke)
		s.Introduced = true
		return u.tellJoke(s.Lang)
	}

	if nlp.IsGreetingOnly(text) || nlp.IsSmalltalk(text) {
		out := u.greetingReply(s, text)
		u.setIntent(s, nlp.IntentGreeting)
		s.Introduced = true
		s.CancelBrowse()
		return u.guardedRewrite(ctx, s, out)
	}

	if sw := nlp.ExplicitLanguageSwitch(text); sw != "" {
		u.setIntent(s, nlp.IntentOther)
		s.Introduced = true
		if sw == "ar" {
			return "تمام 🤍\nخلاص بكلمك عربي—وش تحتاج؟ 😊"
		}
		return "Done 🤍\nSwitched to English—what do you need? 😊"
	}

	if nlp.IsContactQuery(text) {
		u.setIntent(s, nlp.IntentContact)
		s.Introduced = true
		if s.Lang == "en" {
			return "Sure 🤍\n📱 WhatsApp: " + constants.WhatsAppURL
		}
		return "أكيد 🤍\n📱 واتساب: " + constants.WhatsAppURL
	}

	// Canned facts go out verbatim; only the framing differs by language.
	if out := u.factsReply(s, text); out != "" {
		return out
	}

	// Browse cursor: numeric picks and pagination commands.
	if out := u.catalogFlow(ctx, s, text); out != "" {
		return u.guardedRewrite(ctx, s, out)
	}

	if nlp.IsLocationQuery(text) || s.AwaitingLocationCity {
		out := u.locationReply(s, text)
		u.setIntent(s, nlp.IntentLocation)
		s.CancelBrowse()
		return u.guardedRewrite(ctx, s, out)
	}

	// Shipping carries canned carrier facts, so it skips the tone rewrite.
	if nlp.IsShippingQuery(text) || s.AwaitingShippingPlace {
		out := u.shippingReply(s, text)
		u.setIntent(s, nlp.IntentShipping)
		s.CancelBrowse()
		return out
	}

	if nlp.WantsMenu(text) {
		u.setIntent(s, nlp.IntentMenu)
		s.CancelBrowse()
		return u.guardedRewrite(ctx, s, menuReply(s.Lang))
	}

	u.updateMode(s, text)

	if out := u.productReply(ctx, s, text); out != "" {
		return out
	}

	return u.llmReply(ctx, s, text)
}

// setIntent records the intent and clears any pending clarification that the
// new intent does not continue.
func (u *smortiUseCase) setIntent(s *entity.Session, intent string) {
	s.LastIntent = intent
	if intent != nlp.IntentLocation {
		s.AwaitingLocationCity = false
	}
	if intent != nlp.IntentShipping {
		s.AwaitingShippingPlace = false
		s.ShippingScope = ""
	}
}

// ---- jokes and greetings ----

func (u *smortiUseCase) tellJoke(lang string) string {
	if lang == "en" {
		return "Sure 😄🤍\n\n" + constants.EnglishTechJokes[u.randInt(len(constants.EnglishTechJokes))]
	}
	return "أكيد 😄🤍\n\n" + constants.ArabicTechJokes[u.randInt(len(constants.ArabicTechJokes))]
}

func introMessage(lang string) string {
	if lang == "en" {
		return "Hey! 👋🤍\n" +
			"I'm **Smorti** — your AI assistant for SMART store 🛒\n" +
			"Quick note: I'm **still under development** 😅 but I'll do my best to help with what's available.\n\n" +
			"Tell me what you need (reading device / screen / software / price / comparison) and I'll help 😊"
	}
	return "هلا 👋🤍\n" +
		"أنا **سمورتي** — مساعد ذكي لمتجر سمارت 🛒\n" +
		"تنبيه صغير: أنا **لسّه تحت التطوير** 😅 بس بوعدك أحاول أخدمك قد ما أقدر وبأوضح لك الموجود المتاح.\n\n" +
		"قلّي وش تحتاج (جهاز قراءة / شاشة / برامج / سعر / مقارنة) وأنا أساعدك 😊"
}

func (u *smortiUseCase) greetingReply(s *entity.Session, text string) string {
	salam := s.Lang == "ar" && nlp.IsArabicGreetingOnly(text) && nlp.IsSalam(text)

	if !s.Introduced {
		if s.Lang == "ar" {
			if salam {
				return "وعليكم السلام ورحمة الله وبركاته 🤍\n\n" + introMessage("ar")
			}
			return introMessage("ar")
		}
		return introMessage("en")
	}

	if salam {
		return "وعليكم السلام ورحمة الله وبركاته 🤍\n\nنورت! كيف أقدر أساعدك؟ 😊"
	}
	if s.Lang == "ar" {
		return "يا هلا 🤍 كيف أقدر أساعدك؟ 😊"
	}
	return "Hey 🤍 How can I help you? 😊"
}

// ---- canned facts ----

// factsReply answers the compliance-sensitive questions from fixed text.
// Battery is gated behind a reading-device context so "كم يدوم" about a
// screen does not get e-ink battery claims.
func (u *smortiUseCase) factsReply(s *entity.Session, text string) string {
	type fact struct{ title, body string }
	var f *fact

	switch {
	case nlp.IsInstallmentQuery(text):
		if s.Lang == "en" {
			f = &fact{"Here are the installment details 👇", constants.InstallmentFactsEN}
		} else {
			f = &fact{"أكيد—هذي معلومات التقسيط 👇", constants.InstallmentFactsAR}
		}
	case nlp.IsWarrantyQuery(text):
		if s.Lang == "en" {
			f = &fact{"Here's our warranty policy 👇", constants.WarrantyFactsEN + "\nFull policy: " + constants.WarrantyURL}
		} else {
			f = &fact{"أكيد—هذي سياسة الضمان 👇", constants.WarrantyFactsAR + "\nالتفاصيل كاملة: " + constants.WarrantyURL}
		}
	case nlp.IsReturnQuery(text):
		if s.Lang == "en" {
			f = &fact{"Here's our return policy 👇", constants.ReturnFactsEN + "\nFull policy: " + constants.ReturnURL}
		} else {
			f = &fact{"أكيد—هذي سياسة الاسترجاع 👇", constants.ReturnFactsAR + "\nالتفاصيل كاملة: " + constants.ReturnURL}
		}
	case nlp.IsBatteryQuery(text) && (nlp.IsBooxQuery(text) || nlp.IsReadingDeviceIntent(text) || s.Mode == "reading"):
		if s.Lang == "en" {
			f = &fact{"Battery info 👇", constants.BatteryFactsEN}
		} else {
			f = &fact{"تمام—هذي معلومات البطارية 👇", constants.BatteryFactsAR}
		}
	case nlp.IsLifespanQuery(text):
		if s.Lang == "en" {
			f = &fact{"Lifespan info 👇", constants.LifespanFactsEN}
		} else {
			f = &fact{"أكيد—هذا عمر الجهاز الافتراضي 👇", constants.LifespanFactsAR}
		}
	default:
		return ""
	}

	u.setIntent(s, nlp.IntentFacts)
	s.Introduced = true
	s.CancelBrowse()
	return wrapFacts(s.Lang, f.title, f.body)
}

// ---- two-step clarifications ----

func (u *smortiUseCase) locationReply(s *entity.Session, text string) string {
	city := nlp.CityFromText(text)
	if city != "" {
		s.AwaitingLocationCity = false
	}

	switch city {
	case "jeddah":
		if s.Lang == "en" {
			return "Sure 🤍 Our Jeddah branch:\n" + constants.JeddahMapURL
		}
		return "أكيد 🤍 موقع فرع جدة:\n" + constants.JeddahMapURL
	case "riyadh":
		if s.Lang == "en" {
			return "Sure 🤍 Our Riyadh branch:\n" + constants.RiyadhMapURL
		}
		return "أكيد 🤍 موقع فرع الرياض:\n" + constants.RiyadhMapURL
	}

	s.AwaitingLocationCity = true
	if s.Lang == "en" {
		return "Sure 😊 Which branch do you mean, Jeddah or Riyadh?"
	}
	return "أكيد 😊 أي فرع تقصد؟ جدة ولا الرياض؟"
}

func (u *smortiUseCase) shippingReply(s *entity.Session, text string) string {
	var place string
	if s.AwaitingShippingPlace {
		place = nlp.Normalize(text)
		s.AwaitingShippingPlace = false
	} else {
		place = nlp.ExtractPlaceShort(text)
	}
	outside := nlp.OutsideKSAHint(text) || s.ShippingScope == "outside"

	if place != "" {
		s.ShippingScope = ""
		if outside {
			if s.Lang == "en" {
				return "Yes, we ship to " + place + ". Outside KSA shipping is via DHL. Price/ETA appear at checkout: " + constants.StoreURL
			}
			return "نعم، نوصل إلى " + place + ". خارج السعودية الشحن عبر DHL. السعر ومدة الشحن تظهر عند الدفع: " + constants.StoreURL
		}
		if s.Lang == "en" {
			return "Yes, we deliver to " + place + " inside KSA via RedBox / SMSA / Aramex. Price/ETA appear at checkout: " + constants.StoreURL
		}
		return "نعم، التوصيل إلى " + place + " داخل السعودية عبر RedBox / SMSA / Aramex. السعر ومدة الشحن تظهر عند الدفع: " + constants.StoreURL
	}

	s.AwaitingShippingPlace = true
	if outside {
		s.ShippingScope = "outside"
	} else {
		s.ShippingScope = "ksa"
	}
	if s.Lang == "en" {
		return "Sure 👍\n" + constants.ShippingFactsEN +
			"\n\nTell me the city (inside KSA) or the country (outside KSA) and I'll confirm."
	}
	return "أكيد 👍\n" + constants.ShippingFactsAR +
		"\n\nاكتب المدينة داخل السعودية أو الدولة خارج السعودية وبعطيك التفاصيل."
}

func menuReply(lang string) string {
	if lang == "en" {
		return "Sure 😊 Here are our categories:\n" +
			"1) Tablets & eReaders: " + constants.TabletsURL + "\n" +
			"2) Interactive Screens: " + constants.InteractiveURL + "\n" +
			"3) Computers & Accessories: " + constants.ComputerURL + "\n" +
			"4) Software: " + constants.SoftwareURL + "\n" +
			"Tell me the category name or number."
	}
	return "أكيد 😊 هذي الأقسام المتوفرة عندنا:\n" +
		"1) الأجهزة اللوحية وأجهزة القراءة: " + constants.TabletsURL + "\n" +
		"2) الشاشات التفاعلية: " + constants.InteractiveURL + "\n" +
		"3) الكمبيوتر وملحقاته: " + constants.ComputerURL + "\n" +
		"4) البرمجيات: " + constants.SoftwareURL + "\n" +
		"اكتب رقم القسم أو اسمه."
}

// ---- mode lock ----

// updateMode locks the session onto a catalog topic. Once locked to reading,
// "big screen" or "notes" requests stay in reading; those words describe the
// e-reader the user is already choosing.
func (u *smortiUseCase) updateMode(s *entity.Session, text string) {
	wantsReading := nlp.IsReadingDeviceIntent(text) || nlp.IsBooxQuery(text)
	wantsDisplay := nlp.IsMonitorOrScreenQuery(text) || nlp.IsGamingQuery(text)
	wantsSoftware := nlp.IsProgramsQuery(text)

	if s.Mode == "reading" && (nlp.WantsBigScreen(text) || nlp.IsNotesIntent(text)) {
		wantsDisplay = false
		wantsReading = true
	}
	if wantsReading && wantsDisplay {
		if u.screenDefault == "reading" {
			wantsDisplay = false
		} else {
			wantsReading = false
		}
	}

	switch {
	case wantsReading && !wantsDisplay && !wantsSoftware:
		s.Mode = "reading"
	case wantsDisplay:
		s.Mode = "display"
	case wantsSoftware:
		s.Mode = "software"
	}
}

// ---- catalog paths ----

// catalogFlow resolves numeric picks and pagination against the browse
// cursor. Empty string means the turn is not part of a browse flow.
func (u *smortiUseCase) catalogFlow(ctx context.Context, s *entity.Session, text string) string {
	if s.ViewMode == entity.ViewItems && isMoreCommand(text) {
		items := u.productsByID(ctx, s.LastItems)
		next := s.PageOffset + constants.PageSize
		if next < len(items) {
			s.PageOffset = next
		}
		return renderItems(items, s.PageOffset, s.Lang)
	}
	if s.ViewMode == entity.ViewItems && isBackCommand(text) {
		if s.PageOffset >= constants.PageSize {
			s.PageOffset -= constants.PageSize
			items := u.productsByID(ctx, s.LastItems)
			return renderItems(items, s.PageOffset, s.Lang)
		}
		if len(s.LastGroups) > 0 {
			s.ViewMode = entity.ViewGroups
			s.LastItems = nil
			s.PageOffset = 0
			return renderGroups(s.LastGroups, s.Lang)
		}
		return ""
	}

	if !nlp.IsNumberChoice(text) {
		return ""
	}
	n := 0
	for _, r := range strings.TrimSpace(text) {
		n = n*10 + int(r-'0')
	}

	switch s.ViewMode {
	case entity.ViewGroups:
		if n < 1 || n > len(s.LastGroups) {
			return ""
		}
		g := s.LastGroups[n-1]
		s.ViewMode = entity.ViewItems
		s.LastItems = g.ProductIDs
		s.PageOffset = 0
		u.setIntent(s, nlp.IntentProducts)
		return renderItems(u.productsByID(ctx, s.LastItems), 0, s.Lang)

	case entity.ViewItems:
		idx := s.PageOffset + n - 1
		if n < 1 || idx >= len(s.LastItems) {
			return ""
		}
		p, err := u.catalog.GetByID(ctx, s.LastItems[idx])
		if err != nil || p == nil {
			return ""
		}
		u.setIntent(s, nlp.IntentProducts)
		return renderDetail(*p, s.Lang)
	}
	return ""
}

func (u *smortiUseCase) productsByID(ctx context.Context, ids []string) []entity.Product {
	out := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, err := u.catalog.GetByID(ctx, id); err == nil && p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// productReply covers every path that answers from the catalog alone.
// Returns "" when the turn should go to the LLM instead.
func (u *smortiUseCase) productReply(ctx context.Context, s *entity.Session, text string) string {
	// Accessory intent wins over browse keywords; a spare-pen question that
	// mentions BOOX is still about the pen.
	if nlp.IsAccessoryQuery(text) {
		return u.accessoryReply(ctx, s, text)
	}
	if nlp.WantsBrowse(text) || nlp.IsPriceQuestion(text) {
		return u.browseReply(ctx, s, text)
	}

	switch s.Mode {
	case "reading":
		return u.readingReply(ctx, s, text)
	case "display":
		return u.displayReply(ctx, s, text)
	case "software":
		return u.softwareReply(ctx, s, text)
	}
	return ""
}

// browseReply opens the grouped catalog menu for broad "show me" queries.
func (u *smortiUseCase) browseReply(ctx context.Context, s *entity.Session, text string) string {
	hits, err := u.catalog.Search(ctx, text, constants.SearchLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("catalog search failed")
		return safeFallbackMessage(s.Lang, s.Mode)
	}
	hits = excludeAccessories(hits)
	u.setIntent(s, nlp.IntentProducts)
	s.Introduced = true

	if len(hits) == 0 {
		s.CancelBrowse()
		return u.guardedRewrite(ctx, s, renderNotFound(s.Lang))
	}
	if len(hits) == 1 {
		s.CancelBrowse()
		return u.guardedRewrite(ctx, s, renderBestMatch(hits[0], s.Lang))
	}

	groups := groupProducts(hits, s.Lang)
	if len(hits) > 10 && len(groups) > 1 {
		s.ViewMode = entity.ViewGroups
		s.LastGroups = groups
		s.LastItems = nil
		s.PageOffset = 0
		return u.guardedRewrite(ctx, s, renderGroups(groups, s.Lang))
	}

	s.ViewMode = entity.ViewItems
	s.LastGroups = nil
	s.PageOffset = 0
	ids := make([]string, len(hits))
	for i, p := range hits {
		ids[i] = p.ID
	}
	s.LastItems = ids
	return u.guardedRewrite(ctx, s, renderItems(hits, 0, s.Lang))
}

// accessoryReply answers spare-part questions from accessory SKUs only.
// These are exactly the rows every device path filters out.
func (u *smortiUseCase) accessoryReply(ctx context.Context, s *entity.Session, text string) string {
	u.setIntent(s, nlp.IntentProducts)
	s.Introduced = true
	s.CancelBrowse()

	hits, err := u.catalog.Search(ctx, text, constants.SearchLimit)
	if err != nil {
		hits = nil
	}
	acc := onlyAccessories(hits)
	if len(acc) == 0 {
		all, err := u.catalog.GetAll(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("catalog load failed")
			return safeFallbackMessage(s.Lang, s.Mode)
		}
		acc = onlyAccessories(all)
	}
	if len(acc) == 0 {
		return u.guardedRewrite(ctx, s, renderNotFound(s.Lang))
	}
	if len(acc) > constants.TopMatches {
		acc = acc[:constants.TopMatches]
	}
	if s.Lang == "en" {
		return topPicks(acc, "en", "Sure 🤍 Here are the accessories we carry:", "🔍 Store: "+constants.StoreURL, constants.StoreURL, false)
	}
	return topPicks(acc, "ar", "أكيد 🤍 هذي الملحقات المتوفرة عندنا:", "🔍 المتجر: "+constants.StoreURL, constants.StoreURL, false)
}

// readingReply is catalog-only: no LLM may describe an e-reader.
func (u *smortiUseCase) readingReply(ctx context.Context, s *entity.Session, text string) string {
	base, err := u.catalog.Search(ctx, "boox eink قارئ ebook e-ink onyx", 70)
	if err != nil {
		logger.Warn().Err(err).Msg("catalog search failed")
		return safeFallbackMessage(s.Lang, topicReading)
	}
	filtered := excludeAccessories(filterByType(base, readingDeviceTerms))

	if nlp.IsNotesIntent(text) {
		notes := excludeAccessories(filterByType(filtered, notesSupportTerms))
		if len(notes) == 0 {
			u.setIntent(s, nlp.IntentProducts)
			s.Introduced = true
			if s.Lang == "en" {
				return "Got it 🤍\n" +
					"I couldn't find clear catalog text confirming *notes/pen support* in the matches I pulled.\n\n" +
					"🔍 Browse all e-readers here:\n" + constants.TabletsURL + "\n\n" +
					"Should I sort options by **screen size** or by **budget**? 😊"
			}
			return "تمام 🤍\n" +
				"للأسف ما ظهر لي وصف واضح يدعم *الملاحظات/القلم* ضمن النتائج اللي طلعت لي.\n\n" +
				"🔍 تقدر تتصفح كل أجهزة القراءة هنا:\n" + constants.TabletsURL + "\n\n" +
				"تبيني أرتّب لك الخيارات حسب **المقاس** ولا حسب **الميزانية**؟ 😊"
		}
		filtered = notes
	}

	if nlp.WantsBigScreen(text) {
		filtered = sortByScreenDesc(filtered)
	}

	u.setIntent(s, nlp.IntentProducts)
	s.Introduced = true
	if len(filtered) == 0 {
		return safeFallbackMessage(s.Lang, topicReading)
	}
	top := filtered
	if len(top) > constants.TopMatches {
		top = top[:constants.TopMatches]
	}
	if s.Lang == "en" {
		return topPicks(top, "en", "Sure 🤍 I found great options:", "🔍 More devices: "+constants.TabletsURL, constants.TabletsURL, true)
	}
	return topPicks(top, "ar", "أكيد 🤍 لقيت لك خيارات ممتازة:", "🔍 باقي الأجهزة هنا: "+constants.TabletsURL, constants.TabletsURL, true)
}

func (u *smortiUseCase) displayReply(ctx context.Context, s *entity.Session, text string) string {
	base, err := u.catalog.Search(ctx, text, 60)
	if err != nil {
		logger.Warn().Err(err).Msg("catalog search failed")
		return safeFallbackMessage(s.Lang, topicDisplay)
	}
	filtered := excludeAccessories(filterByType(base, displayTerms))

	u.setIntent(s, nlp.IntentProducts)
	s.Introduced = true
	if len(filtered) == 0 {
		return safeFallbackMessage(s.Lang, topicDisplay)
	}
	top := filtered
	if len(top) > constants.TopMatches {
		top = top[:constants.TopMatches]
	}
	if s.Lang == "en" {
		return topPicks(top, "en", "Sure 🤍 Here are screen options that can work for gaming:", "🔍 More screens: "+constants.InteractiveURL, constants.InteractiveURL, false)
	}
	return topPicks(top, "ar", "أكيد 🤍 هذي خيارات شاشات ممكن تناسب الألعاب:", "🔍 باقي الشاشات هنا: "+constants.InteractiveURL, constants.InteractiveURL, false)
}

func (u *smortiUseCase) softwareReply(ctx context.Context, s *entity.Session, text string) string {
	base, err := u.catalog.Search(ctx, text, 40)
	if err != nil {
		logger.Warn().Err(err).Msg("catalog search failed")
		return safeFallbackMessage(s.Lang, topicSoftware)
	}
	filtered := excludeAccessories(filterByType(base, softwareTerms))

	u.setIntent(s, nlp.IntentProducts)
	s.Introduced = true
	if len(filtered) == 0 {
		return safeFallbackMessage(s.Lang, topicSoftware)
	}
	top := filtered
	if len(top) > constants.TopMatches {
		top = top[:constants.TopMatches]
	}
	if s.Lang == "en" {
		return topPicks(top, "en", "Sure 🤍 Here are software/license options:", "🔍 More licenses: "+constants.SoftwareURL, constants.SoftwareURL, false)
	}
	return topPicks(top, "ar", "أكيد 🤍 هذي خيارات تراخيص/برامج:", "🔍 باقي التراخيص هنا: "+constants.SoftwareURL, constants.SoftwareURL, false)
}

// ---- free chat ----

// llmReply is the only path where the model speaks freely, and its output
// still passes URL scrubbing, placeholder removal and the hallucination
// marker check before anyone sees it.
func (u *smortiUseCase) llmReply(ctx context.Context, s *entity.Session, text string) string {
	u.setIntent(s, nlp.IntentLLM)
	s.Introduced = true

	topic := topicFromText(text)
	fallbackURL := topicURL(topic)

	matches, _ := u.catalog.Search(ctx, text, 10)
	grounding := buildGrounding(factsBlock(s.Lang, matches))

	// With no catalog rows at stake the casual chat register applies.
	temperature := float32(constants.AnswerTemperature)
	maxTokens := int32(constants.AnswerMaxTokens)
	if len(matches) == 0 {
		temperature = constants.ChatTemperature
		maxTokens = constants.ChatMaxTokens
	}

	out, err := u.completeWithRetry(ctx, repository.CompletionRequest{
		System:      grounding,
		History:     tailTurns(s.History, constants.HistoryWindow),
		Prompt:      text + "\n\n" + styleRules,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		logger.Error().Err(err).Msg("llm answer failed")
		fallbackTopic := s.Mode
		if fallbackTopic == "" {
			fallbackTopic = topic
		}
		return safeFallbackMessage(s.Lang, fallbackTopic)
	}

	out = rewriteUnknownURLs(out, u.allowedLinks(ctx), fallbackURL)
	out = scrubPlaceholders(out)
	if hasHallucinationMarker(out) {
		logger.Error().Msg("hallucination marker in llm response, using safe fallback")
		return safeFallbackMessage(s.Lang, topic)
	}
	return strings.TrimSpace(out)
}

// guardedRewrite tone-rewrites a deterministic reply, strips any link the
// rewrite invented and rejects a rewrite whose numbers or URLs differ from
// the original. A gutted rewrite falls back to the original.
func (u *smortiUseCase) guardedRewrite(ctx context.Context, s *entity.Session, deterministic string) string {
	out := u.toneRewrite(ctx, s, deterministic)
	if out == deterministic {
		return deterministic
	}
	out = stripDisallowedLinks(out, u.allowedLinks(ctx), constants.AllowedLinkPrefixes())
	if out == "" || !factsPreserved(deterministic, out) {
		return deterministic
	}
	return out
}

// allowedLinks is the official links plus every URL the catalog itself
// carries.
func (u *smortiUseCase) allowedLinks(ctx context.Context) map[string]struct{} {
	allowed := make(map[string]struct{})
	for _, l := range constants.OfficialLinks() {
		allowed[l] = struct{}{}
	}
	products, err := u.catalog.GetAll(ctx)
	if err != nil {
		return allowed
	}
	for _, p := range products {
		if link := strings.TrimSpace(p.ProductURL); strings.HasPrefix(link, "http") {
			allowed[link] = struct{}{}
		}
		if link := strings.TrimSpace(p.CategoryLink); strings.HasPrefix(link, "http") {
			allowed[link] = struct{}{}
		}
	}
	return allowed
}

// ---- persistence ----

func (u *smortiUseCase) save(ctx context.Context, s *entity.Session) {
	if err := u.sessions.Save(ctx, s); err != nil {
		logger.Warn().Err(err).Str("session", s.ID).Msg("session save failed")
	}
}

func (u *smortiUseCase) log(ctx context.Context, s *entity.Session, userText, reply string) {
	if u.transcript == nil {
		return
	}
	msg := entity.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: s.ID,
		UserText:  userText,
		Reply:     reply,
		Intent:    s.LastIntent,
		Lang:      s.Lang,
		Timestamp: u.now(),
	}
	if err := u.transcript.Append(ctx, msg); err != nil {
		logger.Warn().Err(err).Str("session", s.ID).Msg("transcript append failed")
	}
}
