// Package validate holds input validation helpers shared by handlers.
// Each helper trims its input and returns the normalized value together
// with a validity flag.
package validate

import (
	"regexp"
	"strings"
)

var reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Email normalizes (trim + lowercase) and validates an email address.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || len(s) > 255 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Name validates a first or last name: non-empty after trimming, at most 30 chars.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 30
}

// Password enforces the minimum password length. No upper bound beyond
// what bcrypt accepts (72 bytes).
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 72
}

// Price checks a product price: non-negative, sane upper bound for a
// DECIMAL(10,2) column.
func Price(v float64) bool {
	return v >= 0 && v < 1e8
}

// Stock checks a product stock count: non-negative.
func Stock(v int64) bool {
	return v >= 0
}
