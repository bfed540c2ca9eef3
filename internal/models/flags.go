package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// truthyTokens are the upper-cased source values read as true.
var truthyTokens = map[string]struct{}{
	"Y":    {},
	"YES":  {},
	"TRUE": {},
	"T":    {},
	"1":    {},
}

// notFreeTokens are the upper-cased free_parking values meaning no free parking.
var notFreeTokens = map[string]struct{}{
	"NO":    {},
	"FALSE": {},
}

// ParseFlag reads a source text value as a boolean. Surrounding whitespace is
// ignored and matching is case-insensitive; anything outside Y/YES/TRUE/T/1,
// including the empty string, is false.
func ParseFlag(raw string) bool {
	_, ok := truthyTokens[upper(strings.TrimSpace(raw))]
	return ok
}

// IsFreeParking reports whether a free_parking value offers free parking.
// Only NO and FALSE (any case, surrounding spaces ignored) mean it does not.
func IsFreeParking(freeParking string) bool {
	_, notFree := notFreeTokens[upper(strings.TrimSpace(freeParking))]
	return !notFree
}

// NotFreeParkingValues returns the upper-cased values excluded from the free
// parking view, for use in store queries.
func NotFreeParkingValues() []string {
	return []string{"NO", "FALSE"}
}

func upper(s string) string {
	// Casers hold state and are not safe for concurrent use.
	return cases.Upper(language.Und).String(s)
}
