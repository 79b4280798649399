package types

import (
	"fmt"
	"strings"
)

// Dialect identifies which output-format variant a test runner emits.
type Dialect string

const (
	// DialectReference is the trusted implementation's format: the failures section runs
	// to the end of the output and build tool chatter may be interleaved.
	DialectReference Dialect = "reference"
	// DialectPorted is the ported implementation's format: the failures section ends at
	// the first blank line.
	DialectPorted Dialect = "ported"
)

// IsValid checks if the dialect is a known value
func (d Dialect) IsValid() bool {
	switch d {
	case DialectReference, DialectPorted:
		return true
	default:
		return false
	}
}

func (d Dialect) String() string {
	return string(d)
}

// ParseDialect converts a case-insensitive name into a Dialect
func ParseDialect(s string) (Dialect, error) {
	d := Dialect(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("invalid dialect %q. Must be one of: %s, %s", s, DialectReference, DialectPorted)
	}
	return d, nil
}
