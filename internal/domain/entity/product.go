package entity

import (
	"fmt"
	"strings"
)

// Product is one catalog row, immutable after load.
type Product struct {
	ID           string
	NameAR       string
	NameEN       string
	Brand        string
	Category     string
	Series       string
	ItemType     string
	Keywords     string
	ShortDesc    string
	Price        float64
	OldPrice     float64
	Availability string
	ProductURL   string
	CategoryLink string

	// Optional spec columns. Empty means "not listed in catalog",
	// rendering decides how to say that; never invent a value.
	ScreenSizeIn string
	DisplayType  string
	RAMGB        string
	StorageGB    string
	Connectivity string
	ResolutionPX string
	BatteryMAh   string
}

// DisplayName prefers the name in the requested language, falling back to the other.
func (p Product) DisplayName(lang string) string {
	if lang == "ar" && p.NameAR != "" {
		return p.NameAR
	}
	if p.NameEN != "" {
		return p.NameEN
	}
	return p.NameAR
}

// PriceLabel renders the price, or an explicit "not available" marker.
func (p Product) PriceLabel(lang string) string {
	if p.Price <= 0 {
		if lang == "ar" {
			return "السعر غير متوفر"
		}
		return "Price N/A"
	}
	if lang == "ar" {
		return fmt.Sprintf("%.2f ر.س", p.Price)
	}
	return fmt.Sprintf("%.2f SAR", p.Price)
}

// SafeURL returns the product link, then the category link, then the fallback.
// A link is only trusted when it carries an http(s) scheme.
func (p Product) SafeURL(fallback string) string {
	if u := strings.TrimSpace(p.ProductURL); strings.HasPrefix(u, "http") {
		return u
	}
	if u := strings.TrimSpace(p.CategoryLink); strings.HasPrefix(u, "http") {
		return u
	}
	return fallback
}

// SearchBlob joins every searchable text field, lower-cased.
func (p Product) SearchBlob() string {
	return strings.ToLower(strings.Join([]string{
		p.ItemType, p.Category, p.NameEN, p.NameAR, p.ShortDesc, p.Keywords,
	}, " "))
}
