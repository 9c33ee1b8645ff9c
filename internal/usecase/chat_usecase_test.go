package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/smart-sa/smorti/internal/domain/constants"
	"github.com/smart-sa/smorti/internal/domain/entity"
	"github.com/smart-sa/smorti/internal/domain/repository"
	"github.com/smart-sa/smorti/internal/infrastructure/storage"
)

type stubAIRepo struct {
	resp       string
	err        error
	calls      int
	lastPrompt string
	lastSystem string
}

func (s *stubAIRepo) Complete(ctx context.Context, req repository.CompletionRequest) (string, error) {
	s.calls++
	s.lastPrompt = req.Prompt
	s.lastSystem = req.System
	if s.err != nil {
		return "", s.err
	}
	return s.resp, nil
}

func catalogProducts() []entity.Product {
	products := []entity.Product{
		{ID: "go7", NameEN: "BOOX Go 7", NameAR: "بوكس جو 7", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook قارئ", Price: 1099, ScreenSizeIn: "7", StorageGB: "64", ProductURL: "https://shop.smart.sa/ar/go7"},
		{ID: "go6", NameEN: "BOOX Go 6", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook قارئ", Price: 899, ScreenSizeIn: "6", StorageGB: "32", ProductURL: "https://shop.smart.sa/ar/go6"},
		{ID: "gocolor", NameEN: "BOOX Go Color 7", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook قارئ", Price: 1399, ScreenSizeIn: "7", StorageGB: "64"},
		{ID: "palma", NameEN: "BOOX Palma 2", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook قارئ", Price: 1299, ScreenSizeIn: "6.13", StorageGB: "128"},
		{ID: "palma1", NameEN: "BOOX Palma", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook قارئ", Price: 999, ScreenSizeIn: "6.13", StorageGB: "128"},
		{ID: "air4c", NameEN: "BOOX Note Air 4C", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook stylus notes قارئ تدوين", Price: 2399, ScreenSizeIn: "10.3", StorageGB: "64"},
		{ID: "air3", NameEN: "BOOX Note Air3", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook stylus notes قارئ تدوين", Price: 2099, ScreenSizeIn: "10.3", StorageGB: "64"},
		{ID: "max", NameEN: "BOOX Note Max", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook stylus notes قارئ", Price: 3299, ScreenSizeIn: "13.3", StorageGB: "128"},
		{ID: "page", NameEN: "BOOX Page", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook قارئ", Price: 1199, ScreenSizeIn: "7", StorageGB: "32"},
		{ID: "mira", NameEN: "BOOX Mira", Brand: "boox", ItemType: "ereader", Keywords: "eink monitor قارئ", Price: 3999, ScreenSizeIn: "13.3", StorageGB: ""},
		{ID: "poke5", NameEN: "BOOX Poke 5", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook قارئ", Price: 799, ScreenSizeIn: "6", StorageGB: "32"},
		{ID: "poke4", NameEN: "BOOX Poke 4 Lite", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook قارئ", Price: 699, ScreenSizeIn: "6", StorageGB: "16"},
		{ID: "tips", NameEN: "BOOX Pen Tips Pack", Brand: "boox", ItemType: "accessory", Keywords: "nibs tips replacement"},
		{ID: "sparq", NameEN: "SPARQ Interactive Screen 65", NameAR: "شاشة سبارك التفاعلية", ItemType: "screen", Keywords: "interactive display شاشة", Price: 8999, ScreenSizeIn: "65"},
	}
	return products
}

// newTestEngine builds the engine on in-memory stores with tone rewriting
// off, so deterministic text can be asserted literally.
func newTestEngine(t *testing.T, ai *stubAIRepo) (ChatUseCase, *stubAIRepo) {
	t.Helper()
	if ai == nil {
		ai = &stubAIRepo{resp: "ok"}
	}
	ctx := context.Background()

	products := storage.NewMemoryProductRepository()
	if err := products.ReplaceAll(ctx, catalogProducts()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	uc := NewChatUseCase(ai, storage.NewMemoryChatRepository(), products, nil, Options{
		ScreenDefault: "display",
		RewriteTone:   false,
	})
	uc.(*smortiUseCase).sleep = func(ctx context.Context, d time.Duration) error { return nil }
	uc.(*smortiUseCase).randInt = func(n int) int { return 0 }
	return uc, ai
}

func TestInstallmentAnswersWithoutLLM(t *testing.T) {
	uc, ai := newTestEngine(t, nil)
	out := uc.HandleMessage(context.Background(), "s1", "عندكم تقسيط؟")

	for _, must := range []string{"Tabby", "Tamara", "MisPay", "25%", "0%"} {
		if !strings.Contains(out, must) {
			t.Fatalf("installment reply missing %q: %q", must, out)
		}
	}
	if ai.calls != 0 {
		t.Fatalf("installment must not touch the model, got %d calls", ai.calls)
	}
}

func TestWarrantyIncludesPolicyLink(t *testing.T) {
	uc, ai := newTestEngine(t, nil)
	out := uc.HandleMessage(context.Background(), "s1", "كم الضمان عندكم؟")

	if !strings.Contains(out, constants.WarrantyURL) {
		t.Fatalf("warranty reply missing policy link: %q", out)
	}
	if !strings.Contains(out, "سنتين") {
		t.Fatalf("warranty reply missing the two-year term: %q", out)
	}
	if ai.calls != 0 {
		t.Fatalf("warranty must not touch the model")
	}
}

func TestGreetingIntroducesOnce(t *testing.T) {
	uc, _ := newTestEngine(t, nil)
	ctx := context.Background()

	first := uc.HandleMessage(ctx, "s1", "السلام عليكم")
	if !strings.Contains(first, "وعليكم السلام") || !strings.Contains(first, "سمورتي") {
		t.Fatalf("first salam should return the salam and the intro: %q", first)
	}

	second := uc.HandleMessage(ctx, "s1", "السلام عليكم")
	if strings.Contains(second, "تحت التطوير") {
		t.Fatalf("repeat greeting must not re-introduce: %q", second)
	}
	if !strings.Contains(second, "وعليكم السلام") {
		t.Fatalf("repeat salam still gets the reciprocal reply: %q", second)
	}
}

func TestJokesNeverTouchTheModel(t *testing.T) {
	uc, ai := newTestEngine(t, nil)
	ctx := context.Background()

	first := uc.HandleMessage(ctx, "s1", "قول نكتة")
	if first == "" || ai.calls != 0 {
		t.Fatalf("joke should come from the fixed list, calls=%d", ai.calls)
	}

	second := uc.HandleMessage(ctx, "s1", "وحدة ثانية")
	if second == "" || ai.calls != 0 {
		t.Fatalf("another-joke should come from the fixed list, calls=%d", ai.calls)
	}
}

func TestAnotherJokeRequiresJokeContext(t *testing.T) {
	uc, _ := newTestEngine(t, &stubAIRepo{resp: "تمام"})
	ctx := context.Background()

	uc.HandleMessage(ctx, "s1", "كم الضمان؟")
	out := uc.HandleMessage(ctx, "s1", "كمان")
	for _, joke := range constants.ArabicTechJokes {
		if strings.Contains(out, joke) {
			t.Fatalf("'كمان' outside joke context must not tell a joke: %q", out)
		}
	}
}

func TestCatalogBrowseFlow(t *testing.T) {
	uc, _ := newTestEngine(t, nil)
	ctx := context.Background()

	menu := uc.HandleMessage(ctx, "s1", "وريني اجهزه boox")
	if !strings.Contains(menu, "اختر سلسلة") {
		t.Fatalf("broad boox query should open the series menu: %q", menu)
	}
	if !strings.Contains(menu, "BOOX Go") {
		t.Fatalf("series menu missing the Go group: %q", menu)
	}
	if strings.Contains(menu, "Pen Tips") {
		t.Fatalf("accessories leaked into the browse menu: %q", menu)
	}

	items := uc.HandleMessage(ctx, "s1", "1")
	if !strings.Contains(items, "اكتب رقم المنتج") {
		t.Fatalf("group pick should list items: %q", items)
	}

	detail := uc.HandleMessage(ctx, "s1", "1")
	if !strings.Contains(detail, "تفضل 😊") || !strings.Contains(detail, "السعر") {
		t.Fatalf("item pick should show the detail card: %q", detail)
	}
}

func TestUnknownProductIsHonest(t *testing.T) {
	uc, _ := newTestEngine(t, nil)
	out := uc.HandleMessage(context.Background(), "s1", "ابي جهاز XYZ-9000")

	if !strings.Contains(out, "ما لقيت") {
		t.Fatalf("unknown product should be admitted: %q", out)
	}
	if !strings.Contains(out, constants.StoreURL) {
		t.Fatalf("unknown product reply should point at the store: %q", out)
	}
}

func TestReadingModeNeverTouchesTheModel(t *testing.T) {
	uc, ai := newTestEngine(t, nil)
	out := uc.HandleMessage(context.Background(), "s1", "ابغى جهاز قراءة")

	if ai.calls != 0 {
		t.Fatalf("reading mode is catalog-only, got %d model calls", ai.calls)
	}
	if !strings.Contains(out, constants.TabletsURL) {
		t.Fatalf("reading reply missing the category footer: %q", out)
	}
	if strings.Contains(out, "Pen Tips") {
		t.Fatalf("accessory leaked into device picks: %q", out)
	}
}

func TestBigScreenStaysInReadingMode(t *testing.T) {
	uc, _ := newTestEngine(t, nil)
	ctx := context.Background()

	uc.HandleMessage(ctx, "s1", "ابغى جهاز قراءة")
	out := uc.HandleMessage(ctx, "s1", "ابغى شاشه كبيره")

	// Reading lock holds: the answer is the biggest e-readers, not SPARQ.
	if !strings.Contains(out, "Note Max") && !strings.Contains(out, "Mira") {
		t.Fatalf("big-screen in reading mode should surface the largest e-readers: %q", out)
	}
	if strings.Contains(out, "سبارك") || strings.Contains(out, "SPARQ") {
		t.Fatalf("interactive screen leaked into reading mode: %q", out)
	}
}

func TestNotesWithoutCatalogSupportIsHonest(t *testing.T) {
	ctx := context.Background()
	ai := &stubAIRepo{resp: "ok"}
	products := storage.NewMemoryProductRepository()
	// Catalog with no notes-capable device at all.
	seed := []entity.Product{
		{ID: "poke5", NameEN: "BOOX Poke 5", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook قارئ", Price: 799},
	}
	if err := products.ReplaceAll(ctx, seed); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	uc := NewChatUseCase(ai, storage.NewMemoryChatRepository(), products, nil, Options{ScreenDefault: "display"})

	out := uc.HandleMessage(ctx, "s1", "ابغى قارئ للملاحظات والتدوين")
	if !strings.Contains(out, "ما ظهر لي وصف واضح") {
		t.Fatalf("missing honest no-notes-support reply: %q", out)
	}
	if !strings.Contains(out, constants.TabletsURL) {
		t.Fatalf("no-notes reply should still link the category: %q", out)
	}
}

func TestRetryBudgetOnRateLimit(t *testing.T) {
	ai := &stubAIRepo{err: fmt.Errorf("%w: 429", repository.ErrRateLimited)}
	uc, _ := newTestEngine(t, ai)

	out := uc.HandleMessage(context.Background(), "s1", "وش رايك بالطقس اليوم؟")
	if ai.calls != constants.MaxRetries {
		t.Fatalf("expected %d attempts, got %d", constants.MaxRetries, ai.calls)
	}
	if !strings.Contains(out, "🔗") {
		t.Fatalf("exhausted retries should end in a safe fallback link: %q", out)
	}
}

func TestAuthErrorDoesNotRetry(t *testing.T) {
	ai := &stubAIRepo{err: fmt.Errorf("%w: bad key", repository.ErrAuth)}
	uc, _ := newTestEngine(t, ai)

	uc.HandleMessage(context.Background(), "s1", "وش رايك بالطقس اليوم؟")
	if ai.calls != 1 {
		t.Fatalf("auth errors must fail fast, got %d attempts", ai.calls)
	}
}

func TestLLMLinksAreScrubbed(t *testing.T) {
	ai := &stubAIRepo{resp: "شوف هذا المنتج: https://totally-fake.example/item"}
	uc, _ := newTestEngine(t, ai)

	out := uc.HandleMessage(context.Background(), "s1", "وش تنصحني اقرأ؟")
	if strings.Contains(out, "totally-fake.example") {
		t.Fatalf("invented link survived scrubbing: %q", out)
	}
	if !strings.Contains(out, constants.TabletsURL) {
		t.Fatalf("scrubbed link should become the topic category: %q", out)
	}
}

func TestHallucinatedModelDiscardsResponse(t *testing.T) {
	ai := &stubAIRepo{resp: "أنصحك بجهاز BOOX Nova Air"}
	uc, _ := newTestEngine(t, ai)

	out := uc.HandleMessage(context.Background(), "s1", "وش تنصحني اقرأ؟")
	if strings.Contains(out, "Nova Air") {
		t.Fatalf("hallucinated model survived: %q", out)
	}
	if !strings.Contains(out, constants.TabletsURL) {
		t.Fatalf("discarded response should become the safe fallback: %q", out)
	}
}

func TestShippingTwoStep(t *testing.T) {
	uc, _ := newTestEngine(t, nil)
	ctx := context.Background()

	ask := uc.HandleMessage(ctx, "s1", "هل توصلون المدن كلها والتوصيل كم ياخذ وقت عندكم بالعادة")
	if !strings.Contains(ask, "اكتب المدينة") {
		t.Fatalf("shipping without a place should ask for one: %q", ask)
	}
	if !strings.Contains(ask, "SMSA") || !strings.Contains(ask, "DHL") {
		t.Fatalf("shipping ask should carry the carrier facts: %q", ask)
	}

	answer := uc.HandleMessage(ctx, "s1", "جده")
	if !strings.Contains(answer, "RedBox") || !strings.Contains(answer, "جده") {
		t.Fatalf("shipping follow-up should name the carriers and the city: %q", answer)
	}
}

func TestShippingOutsideKSA(t *testing.T) {
	uc, _ := newTestEngine(t, nil)
	out := uc.HandleMessage(context.Background(), "s1", "تشحنون الى قطر؟")

	if !strings.Contains(out, "DHL") {
		t.Fatalf("GCC shipping should name DHL: %q", out)
	}
	if strings.Contains(out, "RedBox") {
		t.Fatalf("domestic carriers must not answer an outside-KSA question: %q", out)
	}
}

func TestLocationTwoStep(t *testing.T) {
	uc, _ := newTestEngine(t, nil)
	ctx := context.Background()

	ask := uc.HandleMessage(ctx, "s1", "وين موقعكم؟")
	if !strings.Contains(ask, "جدة ولا الرياض") {
		t.Fatalf("location without a city should ask which branch: %q", ask)
	}

	answer := uc.HandleMessage(ctx, "s1", "الرياض")
	if !strings.Contains(answer, constants.RiyadhMapURL) {
		t.Fatalf("location follow-up should return the Riyadh map: %q", answer)
	}
}

func TestResetClearsSession(t *testing.T) {
	uc, _ := newTestEngine(t, nil)
	ctx := context.Background()

	uc.HandleMessage(ctx, "s1", "السلام عليكم")
	out := uc.HandleMessage(ctx, "s1", "/reset")
	if !strings.Contains(out, "تصفير") {
		t.Fatalf("reset should confirm: %q", out)
	}

	again := uc.HandleMessage(ctx, "s1", "السلام عليكم")
	if !strings.Contains(again, "سمورتي") {
		t.Fatalf("after reset the intro should come back: %q", again)
	}
}

func TestEnglishTurnsGetEnglishReplies(t *testing.T) {
	uc, _ := newTestEngine(t, nil)
	out := uc.HandleMessage(context.Background(), "s1", "what is your warranty policy please")

	if !strings.Contains(out, "2-year") {
		t.Fatalf("english warranty question should get the english facts: %q", out)
	}
}

func TestEmptyInput(t *testing.T) {
	uc, _ := newTestEngine(t, nil)
	out := uc.HandleMessage(context.Background(), "s1", "   ")
	if !strings.Contains(out, "اكتب لي سؤالك") {
		t.Fatalf("empty input should prompt for a question: %q", out)
	}
}

func TestLanguageSwitchAck(t *testing.T) {
	uc, _ := newTestEngine(t, nil)
	out := uc.HandleMessage(context.Background(), "s1", "switch to english")
	if !strings.Contains(out, "Switched to English") {
		t.Fatalf("explicit switch should be acknowledged: %q", out)
	}
}

func TestUnknownPriceQuestionNeverInventsAPrice(t *testing.T) {
	ctx := context.Background()
	ai := &stubAIRepo{resp: "سعر الجهاز هو 4999 ريال"}
	products := storage.NewMemoryProductRepository()
	seed := []entity.Product{
		{ID: "poke5", NameEN: "BOOX Poke 5", Brand: "boox", ItemType: "ereader", Keywords: "eink ebook قارئ", Price: 799},
	}
	if err := products.ReplaceAll(ctx, seed); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	uc := NewChatUseCase(ai, storage.NewMemoryChatRepository(), products, nil, Options{ScreenDefault: "display"})

	out := uc.HandleMessage(ctx, "s1", "كم سعر جهاز iPhone 99 برو؟")
	if ai.calls != 0 {
		t.Fatalf("price questions are catalog-only, got %d model calls", ai.calls)
	}
	if strings.Contains(out, "4999") {
		t.Fatalf("invented price surfaced: %q", out)
	}
	if !strings.Contains(out, "ما لقيت") {
		t.Fatalf("unknown product should be admitted: %q", out)
	}
}

func TestPriceQuestionAnswersFromCatalog(t *testing.T) {
	uc, ai := newTestEngine(t, nil)
	out := uc.HandleMessage(context.Background(), "s1", "كم سعر سبارك؟")

	if ai.calls != 0 {
		t.Fatalf("price questions are catalog-only, got %d model calls", ai.calls)
	}
	if !strings.Contains(out, "لقيت لك هذا") || !strings.Contains(out, "8999") {
		t.Fatalf("price question should return the catalog card: %q", out)
	}
}

func TestSparePenRequestSurfacesAccessory(t *testing.T) {
	uc, ai := newTestEngine(t, nil)
	out := uc.HandleMessage(context.Background(), "s1", "ابغى قلم احتياطي لاجهزة البووكس")

	if ai.calls != 0 {
		t.Fatalf("accessory questions are catalog-only, got %d model calls", ai.calls)
	}
	if !strings.Contains(out, "Pen Tips") {
		t.Fatalf("spare pen request should surface the accessory SKU: %q", out)
	}
	if strings.Contains(out, "ما لقيت") {
		t.Fatalf("accessory exists but was reported missing: %q", out)
	}
}

func TestFullSalamGetsReciprocalGreeting(t *testing.T) {
	uc, ai := newTestEngine(t, nil)
	out := uc.HandleMessage(context.Background(), "s1", "السلام عليكم ورحمة الله وبركاته")

	if !strings.Contains(out, "وعليكم السلام ورحمة الله وبركاته") {
		t.Fatalf("full salam must get the literal reciprocal: %q", out)
	}
	if !strings.Contains(out, "سمورتي") {
		t.Fatalf("first salam should still introduce the bot: %q", out)
	}
	if ai.calls != 0 {
		t.Fatalf("greetings must not touch the model, got %d calls", ai.calls)
	}
}

func TestSalamWithQuestionKeepsBoth(t *testing.T) {
	uc, ai := newTestEngine(t, nil)
	out := uc.HandleMessage(context.Background(), "s1", "السلام عليكم ابغى جهاز قراءة للدراسة")

	if !strings.HasPrefix(out, "وعليكم السلام ورحمة الله وبركاته") {
		t.Fatalf("salam before a question still gets the reciprocal first: %q", out)
	}
	if !strings.Contains(out, constants.TabletsURL) {
		t.Fatalf("the question part should still be answered: %q", out)
	}
	if ai.calls != 0 {
		t.Fatalf("reading picks are catalog-only, got %d model calls", ai.calls)
	}
}

func TestRewriteCannotAlterFigures(t *testing.T) {
	ctx := context.Background()
	ai := &stubAIRepo{resp: "خصم 50% على كل شي اليوم"}
	products := storage.NewMemoryProductRepository()
	if err := products.ReplaceAll(ctx, catalogProducts()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	uc := NewChatUseCase(ai, storage.NewMemoryChatRepository(), products, nil, Options{
		ScreenDefault: "display",
		RewriteTone:   true,
	})
	uc.(*smortiUseCase).randInt = func(n int) int { return 0 }

	out := uc.HandleMessage(ctx, "s1", "هلا")
	if ai.calls == 0 {
		t.Fatalf("tone rewrite should have been attempted")
	}
	if strings.Contains(out, "50%") {
		t.Fatalf("rewrite with an invented figure shipped: %q", out)
	}
	if !strings.Contains(out, "سمورتي") {
		t.Fatalf("mangled rewrite should fall back to the deterministic intro: %q", out)
	}
}

func TestLongInputTruncatedOnRuneBoundary(t *testing.T) {
	ctx := context.Background()
	ai := &stubAIRepo{resp: "ok"}
	products := storage.NewMemoryProductRepository()
	if err := products.ReplaceAll(ctx, catalogProducts()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	sessions := storage.NewMemoryChatRepository()
	uc := NewChatUseCase(ai, sessions, products, nil, Options{ScreenDefault: "display"})
	uc.(*smortiUseCase).sleep = func(ctx context.Context, d time.Duration) error { return nil }

	uc.HandleMessage(ctx, "s1", strings.Repeat("ب", constants.MaxInputChars+500))

	s, err := sessions.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if len(s.History) == 0 {
		t.Fatalf("expected the user turn in history")
	}
	got := s.History[0].Content
	if !utf8.ValidString(got) {
		t.Fatalf("truncated input is not valid utf-8")
	}
	if n := len([]rune(got)); n != constants.MaxInputChars {
		t.Fatalf("expected %d runes after truncation, got %d", constants.MaxInputChars, n)
	}
}
