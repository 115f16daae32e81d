// Package query turns raw request parameters into typed, optional values
// and assembles store-agnostic filter specifications from them.
//
// Malformed input is a normal case here, never an error: every parser
// reports absence instead, and an absent criterion simply contributes no
// predicate to the resulting filter.
package query

import (
	"strconv"
	"strings"

	"budgetbook/internal/core"
)

// ParseOptionalInt returns the integer value of s, or ok=false when s is
// empty or not a base-10 integer.
func ParseOptionalInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParsePositiveCents parses a decimal amount string into integer cents.
// Values that are not strictly positive are treated as absent.
func ParsePositiveCents(s string) (int64, bool) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil || cents <= 0 {
		return 0, false
	}
	return cents, true
}

// ParseID validates a store identifier. SQLite row ids are positive
// integers; anything else is absent.
func ParseID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseYearMonth decomposes a combined year-month token ("2025-06") into
// the same year and month predicates the separate parameters would
// produce.
func ParseYearMonth(s string) (year, month int, ok bool) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, yok := ParseOptionalInt(parts[0])
	month, mok := ParseOptionalInt(parts[1])
	if !yok || !mok || year <= 0 || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
