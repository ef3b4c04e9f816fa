package services

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sanjux-xx/pricescout/internal/core/domain"
)

// FilterByWeight keeps the listings whose title mentions the weight token in
// any spacing or hyphenation variant: "5kg" also matches "5 kg" and "5-kg",
// case-insensitive. An empty token keeps everything.
func FilterByWeight(listings []domain.Listing, weight string) []domain.Listing {
	weight = strings.TrimSpace(weight)
	if weight == "" {
		return listings
	}

	pattern, err := weightPattern(weight)
	if err != nil {
		return listings
	}

	filtered := make([]domain.Listing, 0, len(listings))
	for _, listing := range listings {
		if pattern.MatchString(strings.ToLower(listing.Title)) {
			filtered = append(filtered, listing)
		}
	}
	return filtered
}

func weightPattern(weight string) (*regexp.Regexp, error) {
	// Collapse the token first so "5 kg" and "5-kg" build the same pattern
	// as "5kg".
	compact := strings.NewReplacer(" ", "", "-", "").Replace(strings.ToLower(weight))
	escaped := regexp.QuoteMeta(compact)
	return regexp.Compile(strings.Replace(escaped, "kg", `\s*-?\s*kg`, 1))
}

// SortByPrice orders listings ascending by the numeric value derived from
// their display price. Unparsable prices sort last. Stable for equal prices.
func SortByPrice(listings []domain.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return numericPrice(listings[i].Price) < numericPrice(listings[j].Price)
	})
}

// numericPrice strips the currency symbol and thousands separators from a
// display price. Anything that still fails to parse maps to +Inf.
func numericPrice(display string) float64 {
	cleaned := strings.ReplaceAll(display, "₹", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.Inf(1)
	}
	return value
}
