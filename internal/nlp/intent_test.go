package nlp

import "testing"

func TestInstallmentQuery(t *testing.T) {
	for _, q := range []string{"عندكم تقسيط؟", "كيف التقسيط", "do you have installment plans", "عندكم تابي"} {
		if !IsInstallmentQuery(q) {
			t.Fatalf("expected installment intent for %q", q)
		}
	}
	if IsInstallmentQuery("ابغى جهاز قراءة") {
		t.Fatalf("reading device question must not be installment")
	}
}

func TestAccessoryGatedByNotes(t *testing.T) {
	if !IsAccessoryQuery("ابغى سنون بديلة للقلم") {
		t.Fatalf("nib replacement should be accessory")
	}
	if !IsAccessoryQuery("do you have pen tips") {
		t.Fatalf("pen tips should be accessory")
	}
	// Note-taking mentions pens but asks for a device.
	if IsAccessoryQuery("ابغى جهاز للملاحظات والكتابة بالقلم") {
		t.Fatalf("notes intent must suppress accessory detection")
	}
	if IsAccessoryQuery("a device for writing notes with a stylus pen") {
		t.Fatalf("english notes intent must suppress accessory detection")
	}
}

func TestSparePenIsAccessory(t *testing.T) {
	if !IsAccessoryQuery("ابغى قلم احتياطي لاجهزة البووكس") {
		t.Fatalf("spare pen request should be accessory")
	}
	if !IsAccessoryQuery("i need a spare pen for my boox") {
		t.Fatalf("english spare pen request should be accessory")
	}
}

func TestGreetingDetection(t *testing.T) {
	greetings := []string{"السلام عليكم", "سلام", "هلا والله", "مرحبا", "hi", "Hello!", "good morning"}
	for _, g := range greetings {
		if !IsGreetingOnly(g) {
			t.Fatalf("expected greeting-only for %q", g)
		}
	}
	notGreetings := []string{
		"السلام عليكم ابغى اسأل عن الضمان وسياسة الاسترجاع للجهاز اللي اشتريته الاسبوع الماضي منكم بالضبط",
		"hello I want to ask about the warranty policy for the device I bought from you last week exactly ok",
		"ابغى جهاز قراءة",
	}
	for _, g := range notGreetings {
		if IsGreetingOnly(g) {
			t.Fatalf("did not expect greeting-only for %q", g)
		}
	}
}

func TestFullSalamIsGreetingOnly(t *testing.T) {
	if !IsArabicGreetingOnly("السلام عليكم ورحمة الله وبركاته") {
		t.Fatalf("the full salam is still a bare greeting")
	}
	if IsArabicGreetingOnly("السلام عليكم ابغى جهاز قراءة") {
		t.Fatalf("salam plus a question is not greeting-only")
	}
}

func TestSalam(t *testing.T) {
	if !IsSalam("السَّلامُ عليكم ورحمة الله") {
		t.Fatalf("diacritics must not hide the salam")
	}
	if IsSalam("هلا والله") {
		t.Fatalf("hala is not the full salam")
	}
}

func TestNumberChoice(t *testing.T) {
	for _, s := range []string{"1", " 12 ", "999"} {
		if !IsNumberChoice(s) {
			t.Fatalf("expected number choice for %q", s)
		}
	}
	for _, s := range []string{"1000", "1a", "ابغى 2", ""} {
		if IsNumberChoice(s) {
			t.Fatalf("did not expect number choice for %q", s)
		}
	}
}

func TestJokeRequests(t *testing.T) {
	for _, q := range []string{"قول نكتة", "اضحكني", "tell me a joke", "make me laugh", "something funny"} {
		if !IsJokeRequest(q) {
			t.Fatalf("expected joke request for %q", q)
		}
	}
	if IsJokeRequest("ابغى شاشة") {
		t.Fatalf("screen question is not a joke request")
	}
	for _, q := range []string{"وحدة ثانية", "one more", "كمان"} {
		if !IsAnotherJokeRequest(q) {
			t.Fatalf("expected another-joke request for %q", q)
		}
	}
}

func TestModeHints(t *testing.T) {
	if !IsBooxQuery("ابغى بوكس") || !IsBooxQuery("boox go 7") {
		t.Fatalf("boox hints failed")
	}
	if !IsMonitorOrScreenQuery("ابغى شاشة العاب") {
		t.Fatalf("gaming screen should be a display hint")
	}
	if !IsProgramsQuery("عندكم رخصة matlab؟") {
		t.Fatalf("matlab license should be a software hint")
	}
	if !WantsBigScreen("ابغى شاشه كبيره") || !WantsBigScreen("largest? I want a big screen") {
		t.Fatalf("big screen hints failed")
	}
}

func TestShippingHelpers(t *testing.T) {
	if got := CityFromText("وين فرعكم في جده؟"); got != "jeddah" {
		t.Fatalf("CityFromText = %q, want jeddah", got)
	}
	if got := CityFromText("i am in Riyadh"); got != "riyadh" {
		t.Fatalf("CityFromText = %q, want riyadh", got)
	}
	if got := CityFromText("الدمام"); got != "" {
		t.Fatalf("CityFromText = %q, want empty", got)
	}

	if !OutsideKSAHint("تشحنون الى قطر؟") || !OutsideKSAHint("do you ship to Kuwait") {
		t.Fatalf("outside-KSA hints failed")
	}
	if OutsideKSAHint("توصلون الرياض؟") {
		t.Fatalf("riyadh is not outside KSA")
	}

	if got := ExtractPlaceShort("جده!"); got != "جده" {
		t.Fatalf("ExtractPlaceShort = %q, want normalized جده", got)
	}
	if got := ExtractPlaceShort("ابغى اعرف هل توصلون الى مدينة جدة او لا"); got != "" {
		t.Fatalf("long sentence must not be a place, got %q", got)
	}
}

func TestBrowseAndMenu(t *testing.T) {
	for _, q := range []string{"وريني المنتجات", "ابي اشوف المنتجات", "what do you have"} {
		if !WantsMenu(q) {
			t.Fatalf("expected menu intent for %q", q)
		}
	}
	for _, q := range []string{"بووكس", "ابي جهاز", "show me your devices"} {
		if !WantsBrowse(q) {
			t.Fatalf("expected browse intent for %q", q)
		}
	}
}
