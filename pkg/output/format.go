package output

import (
	"strings"

	"github.com/packlist/packlist/pkg/errors"
)

// Format represents the output format type
type Format int

const (
	// FormatText renders human-readable output, styled when the target is
	// a terminal
	FormatText Format = iota
	// FormatJSON renders machine-readable JSON output
	FormatJSON
	// FormatYAML renders machine-readable YAML output
	FormatYAML
	// FormatJUnit renders a JUnit XML test suite; only check reports
	// support it
	FormatJUnit
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatJUnit:
		return "junit"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "plain", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "junit", "junit-xml":
		return FormatJUnit, nil
	default:
		return FormatText, errors.Newf(errors.ErrInvalidInput, "unknown output format: %s", s)
	}
}
