// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"errors"
	"strconv"
	"strings"
)

// AtoiBounded converts s to an int after trimming surrounding whitespace and
// clamps the result to [lo, hi]. Empty or non-numeric input returns def;
// integers too large for int saturate to the matching bound.
//
// Example:
//
//	n := utils.AtoiBounded("42", 20, 1, 100)    // returns 42
//	n = utils.AtoiBounded("", 20, 1, 100)       // returns 20
//	n = utils.AtoiBounded("1e99", 20, 1, 100)   // returns 20
//	n = utils.AtoiBounded("99999999999999999999", 20, 1, 100) // returns 100
func AtoiBounded(s string, def, lo, hi int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(s, "-") {
				return lo
			}
			return hi
		}
		return def
	}
	return ClampInt(n, lo, hi)
}

// ClampInt bounds n to [lo, hi].
func ClampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
