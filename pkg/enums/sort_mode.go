package enums

import (
	"fmt"
	"strings"
)

// SortMode orders catalog query results.
type SortMode string

const (
	SortRelevance    SortMode = "relevance"
	SortPriceLowHigh SortMode = "price_low_high"
	SortPriceHighLow SortMode = "price_high_low"
	SortName         SortMode = "name"
)

var validSortModes = []SortMode{
	SortRelevance,
	SortPriceLowHigh,
	SortPriceHighLow,
	SortName,
}

func (s SortMode) IsValid() bool {
	for _, candidate := range validSortModes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortMode accepts an empty value as relevance.
func ParseSortMode(value string) (SortMode, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return SortRelevance, nil
	}
	for _, candidate := range validSortModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort mode %q", value)
}
