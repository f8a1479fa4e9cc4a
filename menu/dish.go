package menu

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// priceLineRe matches the three-tier price line of the menu table:
// student | staff | guest, each a comma-decimal amount with a euro marker.
// Only the first amount is the canonical dish price.
var priceLineRe = regexp.MustCompile(`(\d{1,2},\d{2})\s*€\s*\|\s*(\d{1,2},\d{2})\s*€\s*\|\s*(\d{1,2},\d{2})\s*€`)

// allergenTailRe splits a trailing parenthetical of comma-separated allergen
// codes off the end of a joined dish title.
var allergenTailRe = regexp.MustCompile(`^(.*?)\s*\(([0-9,\s.a-z]+)\)\s*$`)

// hyphenBreakRe matches a hyphenation break: a trailing hyphen followed by
// the whitespace a line join introduced. Collapsing it restores the unbroken
// word ("Linsen- suppe" → "Linsensuppe").
var hyphenBreakRe = regexp.MustCompile(`-\s+`)

var whitespaceRe = regexp.MustCompile(`\s+`)

// FilterSet holds the user's exclusion criteria: lowercase substrings matched
// against dish titles, and allergen codes resolved from the legend.
type FilterSet struct {
	Words []string
	Codes map[string]bool
}

// extractDish parses one merged cell text into a Dish. The bool result is
// false when the cell is rejected: no price line, a too-short title, or a
// filter match. Rejection is normal filtering, not an error.
func extractDish(cell string, filters FilterSet) (Dish, bool) {
	var lines []string
	for _, line := range strings.Split(cell, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return Dish{}, false
	}

	// The price line closest to the bottom wins; lines above it are title.
	priceIdx := -1
	var price float64
	for i := len(lines) - 1; i >= 0; i-- {
		m := priceLineRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		p, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			continue
		}
		price, priceIdx = p, i
		break
	}

	titleLines := lines
	if priceIdx >= 0 {
		titleLines = lines[:priceIdx]
	}
	title := strings.Join(titleLines, " ")
	title = hyphenBreakRe.ReplaceAllString(title, "")
	title = strings.TrimSpace(whitespaceRe.ReplaceAllString(title, " "))

	var allergens []string
	if m := allergenTailRe.FindStringSubmatch(title); m != nil {
		title = strings.TrimSpace(m[1])
		for _, code := range strings.Split(m[2], ",") {
			if code = strings.TrimSpace(code); code != "" {
				allergens = append(allergens, code)
			}
		}
	}

	if priceIdx < 0 || utf8.RuneCountInString(title) < 5 {
		return Dish{}, false
	}
	lower := strings.ToLower(title)
	for _, word := range filters.Words {
		if word != "" && strings.Contains(lower, word) {
			return Dish{}, false
		}
	}
	for _, code := range allergens {
		if filters.Codes[code] {
			return Dish{}, false
		}
	}

	category := CategoryMain
	if price <= 1.00 {
		category = CategorySide
	}
	return Dish{Title: title, Price: price, Category: category, Allergens: allergens}, true
}
