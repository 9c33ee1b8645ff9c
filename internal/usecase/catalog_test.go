package usecase

import (
	"strings"
	"testing"

	"github.com/smart-sa/smorti/internal/domain/entity"
)

func TestExcludeAccessories(t *testing.T) {
	products := []entity.Product{
		{ID: "1", NameEN: "BOOX Note Air 2", ItemType: "ereader"},
		{ID: "2", NameEN: "Pen Tips Replacement Pack", ItemType: "accessory"},
		{ID: "3", NameEN: "BOOX Palma Cover Case"},
		{ID: "4", NameEN: "BOOX Go 7"},
	}
	out := excludeAccessories(products)
	if len(out) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(out))
	}
	for _, p := range out {
		if p.ID == "2" || p.ID == "3" {
			t.Fatalf("accessory %s survived the filter", p.ID)
		}
	}
}

func TestOnlyAccessories(t *testing.T) {
	products := []entity.Product{
		{ID: "1", NameEN: "BOOX Note Air 2", ItemType: "ereader"},
		{ID: "2", NameEN: "Pen Tips Replacement Pack", ItemType: "accessory"},
		{ID: "3", NameEN: "BOOX Palma Cover Case"},
	}
	out := onlyAccessories(products)
	if len(out) != 2 {
		t.Fatalf("expected 2 accessories, got %d", len(out))
	}
	for _, p := range out {
		if p.ID == "1" {
			t.Fatalf("device %s slipped into the accessory list", p.ID)
		}
	}
}

func TestFilterByType(t *testing.T) {
	products := []entity.Product{
		{ID: "1", NameEN: "Lenovo ThinkVision Monitor"},
		{ID: "2", NameEN: "BOOX Note Air 2", Keywords: "eink reader"},
		{ID: "3", NameAR: "شاشة تفاعلية سبارك"},
	}
	out := filterByType(products, displayTerms)
	if len(out) != 2 {
		t.Fatalf("expected 2 displays, got %d", len(out))
	}
}

func TestSafeFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"10.3", 10.3},
		{"13.3 inch", 13.3},
		{"", -1},
		{"n/a", -1},
	}
	for _, c := range cases {
		if got := safeFloat(c.in); got != c.want {
			t.Fatalf("safeFloat(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSortByScreenDesc(t *testing.T) {
	products := []entity.Product{
		{ID: "small", ScreenSizeIn: "6"},
		{ID: "big", ScreenSizeIn: "13.3"},
		{ID: "mid", ScreenSizeIn: "10.3 inch"},
		{ID: "none", ScreenSizeIn: ""},
	}
	out := sortByScreenDesc(products)
	want := []string{"big", "mid", "small", "none"}
	for i, id := range want {
		if out[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, out[i].ID, id)
		}
	}
}

func TestGroupProducts(t *testing.T) {
	products := []entity.Product{
		{ID: "1", NameEN: "BOOX Go 7"},
		{ID: "2", NameEN: "BOOX Go Color 7"},
		{ID: "3", NameEN: "BOOX Go 6"},
		{ID: "4", NameEN: "BOOX Palma 2"},
		{ID: "5", NameEN: "BOOX Note Air 4C"},
	}
	groups := groupProducts(products, "en")
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d: %+v", len(groups), groups)
	}
	// Largest series first.
	if groups[0].Label != "BOOX Go" || len(groups[0].ProductIDs) != 3 {
		t.Fatalf("expected BOOX Go with 3 items first, got %+v", groups[0])
	}
}

func TestRenderItemsPagination(t *testing.T) {
	var items []entity.Product
	for i := 0; i < 25; i++ {
		items = append(items, entity.Product{ID: string(rune('a' + i)), NameEN: "Item", Price: 100})
	}
	first := renderItems(items, 0, "en")
	if !strings.Contains(first, "1)") || !strings.Contains(first, "20)") {
		t.Fatalf("first page should show 20 entries: %q", first)
	}
	if strings.Contains(first, "21)") {
		t.Fatalf("first page leaked past the page size: %q", first)
	}
	if !strings.Contains(first, "more") {
		t.Fatalf("first page should hint at more results: %q", first)
	}

	second := renderItems(items, 20, "en")
	if !strings.Contains(second, "5)") || strings.Contains(second, "6)") {
		t.Fatalf("second page should show the remaining 5 entries: %q", second)
	}
}

func TestPaginationCommands(t *testing.T) {
	for _, s := range []string{"المزيد", "التالي", "more", "Next"} {
		if !isMoreCommand(s) {
			t.Fatalf("expected more-command for %q", s)
		}
	}
	for _, s := range []string{"رجوع", "back"} {
		if !isBackCommand(s) {
			t.Fatalf("expected back-command for %q", s)
		}
	}
	if isMoreCommand("ابغى المزيد من التفاصيل عن الجهاز") {
		t.Fatalf("long sentence is not a pagination command")
	}
}
