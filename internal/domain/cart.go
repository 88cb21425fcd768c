package domain

import "sort"

// CartEntry is a single row in the cart ledger. Each add-to-cart inserts a
// fresh row with its own CartID; rows for the same product are never merged
// at write time. Product attributes are a denormalized snapshot taken at add
// time, not a reference into the catalog.
type CartEntry struct {
	CartID    int64  `json:"cart_id"`
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
	Category  string `json:"category"`
	Price     int64  `json:"price"`
	Brand     string `json:"brand"`
	Count     int    `json:"count"`
	Owner     string `json:"owner"`
}

// ConsolidatedLine is a read-time aggregate of ledger rows sharing a product
// name. It is derived on every read and never persisted.
type ConsolidatedLine struct {
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
	Category  string `json:"category"`
	Price     int64  `json:"price"`
	Brand     string `json:"brand"`
	Count     int    `json:"count"`
}

// Consolidate groups ledger rows by product name and sums their counts.
func Consolidate(entries []CartEntry) map[string]int {
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		out[e.Name] += e.Count
	}
	return out
}

// ConsolidatedLines returns one line per product name with the summed count,
// sorted by name so the output is stable across reads. Attributes are taken
// from the first row seen for each name.
func ConsolidatedLines(entries []CartEntry) []ConsolidatedLine {
	byName := make(map[string]*ConsolidatedLine, len(entries))
	for _, e := range entries {
		if line, ok := byName[e.Name]; ok {
			line.Count += e.Count
			continue
		}
		byName[e.Name] = &ConsolidatedLine{
			Name:      e.Name,
			ImagePath: e.ImagePath,
			Category:  e.Category,
			Price:     e.Price,
			Brand:     e.Brand,
			Count:     e.Count,
		}
	}

	lines := make([]ConsolidatedLine, 0, len(byName))
	for _, line := range byName {
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines
}

// BadgeCount returns the total item count across all ledger rows.
func BadgeCount(entries []CartEntry) int {
	var total int
	for _, e := range entries {
		total += e.Count
	}
	return total
}

// TotalAmount returns the summed price of all ledger rows (price * count).
func TotalAmount(entries []CartEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Price * int64(e.Count)
	}
	return total
}
