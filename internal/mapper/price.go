// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import (
	"math"
	"strconv"
	"strings"
)

// priceNoise is removed from a price cell before parsing: thousands
// separators and currency symbols.
var priceNoise = strings.NewReplacer(",", "", "₹", "", "$", "")

// NormalizePrice parses a price cell such as "₹1,234.50" or "$99". It
// reports false for text that is not a finite number after cleanup
// ("N/A", "On request").
func NormalizePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(priceNoise.Replace(raw))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
