// Package models defines the persistent entities of the visitor management
// store: flats, residents and visitor requests.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Wings of the society buildings. The flat directory is seeded from this
// set and is read-only afterwards.
var Wings = []string{"A", "B", "C", "D"}

// Flat is a single residential unit. Immutable after seed.
type Flat struct {
	ID     string
	Wing   string
	Number int
}

// Code returns the human-entered flat code, e.g. "B203".
func (f Flat) Code() string {
	return fmt.Sprintf("%s%d", f.Wing, f.Number)
}

// ParseFlatCode splits a code like "b203" into wing and unit number.
// The wing letter is case-insensitive; the number must be three digits.
// Only the shape is checked here; existence is decided by the directory
// lookup.
func ParseFlatCode(code string) (wing string, number int, err error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 4 {
		return "", 0, fmt.Errorf("invalid flat code %q", code)
	}

	wing = code[:1]
	if wing[0] < 'A' || wing[0] > 'Z' {
		return "", 0, fmt.Errorf("invalid flat code %q", code)
	}

	number, err = strconv.Atoi(code[1:])
	if err != nil || number < 100 {
		return "", 0, fmt.Errorf("invalid flat code %q", code)
	}

	return wing, number, nil
}
