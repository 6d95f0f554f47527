package output

import (
	"io"

	"github.com/packlist/packlist/pkg/errors"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders a command result
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// TextRenderable is implemented by results that produce their own
// human-readable output. The text renderer falls back to a generic dump
// for anything else.
type TextRenderable interface {
	RenderText(w io.Writer) error
}

// JUnitReportable is implemented by results that can serialize as a JUnit
// test suite. Only such results support FormatJUnit.
type JUnitReportable interface {
	JUnitSuite() TestSuite
}

// NewRenderer creates a renderer for the given format writing to w.
func NewRenderer(format Format, w io.Writer) (Renderer, error) {
	switch format {
	case FormatText:
		return &textRenderer{w: w}, nil
	case FormatJSON:
		return newJSONRenderer(w), nil
	case FormatYAML:
		return &yamlRenderer{w: w}, nil
	case FormatJUnit:
		return &junitRenderer{w: w}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown output format: %v", format)
	}
}
