package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Product is a catalog record. Products are immutable once listed; the
// catalog store only ever inserts.
type Product struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
	Category  string `json:"category"`
	Price     int64  `json:"price"`
	Brand     string `json:"brand"`
}

// Product categories.
const (
	CategoryPhone         = "Phone"
	CategoryComputer      = "Computer"
	CategoryCosmetics     = "Cosmetics"
	CategoryHomeAppliance = "HomeAppliance"
	CategoryClothing      = "Clothing"
	CategoryAccessory     = "Accessory"
	CategoryTech          = "Tech"
)

// Categories lists all known product categories in display order.
var Categories = []string{
	CategoryPhone,
	CategoryComputer,
	CategoryCosmetics,
	CategoryHomeAppliance,
	CategoryClothing,
	CategoryAccessory,
	CategoryTech,
}

// IsValidCategory reports whether c is a known product category.
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

var pricePrinter = message.NewPrinter(language.Turkish)

// FormatPrice renders an integer price with the locale's grouping separator.
// Display helper only; the wire always carries the raw integer.
func FormatPrice(price int64) string {
	return pricePrinter.Sprintf("%d", price)
}
