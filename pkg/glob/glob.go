package glob

import (
	"strings"

	"github.com/packlist/packlist/pkg/errors"
)

// Mode selects how a floating pattern without a path separator is applied.
type Mode string

const (
	// ModeBasenameOnly matches separator-free patterns against the file's
	// basename. A bare directory name matches only files literally named
	// that; "*.png" matches PNG files at any depth.
	ModeBasenameOnly Mode = "basename-only"

	// ModePathComponent matches separator-free patterns against every
	// path component, so a bare directory name selects everything below
	// directories of that name.
	ModePathComponent Mode = "path-component"
)

// DefaultMode is used when no mode is configured.
const DefaultMode = ModeBasenameOnly

// ParseMode validates a mode string from configuration or flags.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBasenameOnly:
		return ModeBasenameOnly, nil
	case ModePathComponent:
		return ModePathComponent, nil
	case "":
		return DefaultMode, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown match mode %q", s)
}

// Options configure pattern compilation.
type Options struct {
	// Mode governs separator-free floating patterns. Zero value means
	// DefaultMode.
	Mode Mode

	// CaseInsensitive folds ASCII case on both patterns and paths.
	CaseInsensitive bool
}

func (o Options) mode() Mode {
	if o.Mode == "" {
		return DefaultMode
	}
	return o.Mode
}

// Pattern is one compiled manifest glob.
type Pattern struct {
	source   string
	segments []segment
	hasSlash bool
	opts     Options
}

// Compile compiles a manifest glob pattern. The same compiled pattern
// serves anchored and floating application; the directive using it
// chooses the scope.
func Compile(source string, opts Options) (*Pattern, error) {
	norm := normalizePattern(source)
	if opts.CaseInsensitive {
		norm = asciiLower(norm)
	}
	if norm == "" {
		return nil, errors.Newf(errors.ErrPatternInvalid, "empty pattern %q", source)
	}

	segments, err := compileSegments(norm)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPatternInvalid, "cannot compile pattern %q", source)
	}

	return &Pattern{
		source:   source,
		segments: segments,
		hasSlash: strings.Contains(norm, "/"),
		opts:     opts,
	}, nil
}

// Source returns the pattern as written in the manifest.
func (p *Pattern) Source() string {
	return p.source
}

// HasSlash reports whether the pattern constrains more than one component.
func (p *Pattern) HasSlash() bool {
	return p.hasSlash
}

// MatchPath matches the pattern anchored at the root against a full
// relative path. Because wildcards never cross "/", a separator-free
// pattern can only match files directly in the root.
func (p *Pattern) MatchPath(path string) bool {
	path = p.fold(path)
	if path == "" {
		return false
	}
	end, ok := matchSegmentsAt(p.segments, path, 0)
	return ok && end == len(path)
}

// MatchBasename matches the pattern against the final path component.
// Patterns with separators never match a basename.
func (p *Pattern) MatchBasename(path string) bool {
	if p.hasSlash {
		return false
	}
	path = p.fold(path)
	if path == "" {
		return false
	}
	return p.segments[0].match(pathBase(path))
}

// MatchFloating matches the pattern at any depth. Patterns with
// separators match a suffix of the path starting at a component
// boundary; separator-free patterns follow the configured Mode.
func (p *Pattern) MatchFloating(path string) bool {
	folded := p.fold(path)
	if folded == "" {
		return false
	}

	if p.hasSlash {
		return matchSuffix(p.segments, folded)
	}

	switch p.opts.mode() {
	case ModePathComponent:
		return matchAnyComponent(p.segments[0], folded)
	default:
		return p.segments[0].match(pathBase(folded))
	}
}

// MatchTail matches the pattern against the end of a path, with
// separator-free patterns applied to the basename. This is the scope
// recursive directives use below their directory.
func (p *Pattern) MatchTail(path string) bool {
	folded := p.fold(path)
	if folded == "" {
		return false
	}
	if p.hasSlash {
		return matchSuffix(p.segments, folded)
	}
	return p.segments[0].match(pathBase(folded))
}

func (p *Pattern) fold(path string) string {
	if p.opts.CaseInsensitive {
		return asciiLower(path)
	}
	return path
}

// compileSegments splits a normalized pattern on "/" and compiles each
// component.
func compileSegments(pattern string) ([]segment, error) {
	parts := strings.Split(pattern, "/")
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, errors.New(errors.ErrPatternInvalid, "empty path component")
		}
		seg, err := compileSegment(part)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// matchSegmentsAt matches compiled segments starting at a component
// boundary, returning the index just past the last matched component.
func matchSegmentsAt(segments []segment, path string, start int) (int, bool) {
	if start < 0 || start >= len(path) {
		return 0, false
	}

	index := start
	for i := range segments {
		end := index
		for end < len(path) && path[end] != '/' {
			end++
		}

		if end == index {
			return 0, false
		}

		if !segments[i].match(path[index:end]) {
			return 0, false
		}

		index = end
		if i == len(segments)-1 {
			return index, true
		}

		if index >= len(path) || path[index] != '/' {
			return 0, false
		}

		index++
	}

	return index, true
}

// matchSuffix matches segments against a path suffix starting at any
// component boundary and consuming the path to its end.
func matchSuffix(segments []segment, path string) bool {
	for start := 0; ; {
		end, ok := matchSegmentsAt(segments, path, start)
		if ok && end == len(path) {
			return true
		}

		nextSlash := strings.IndexByte(path[start:], '/')
		if nextSlash < 0 {
			return false
		}

		start += nextSlash + 1
	}
}

// matchAnyComponent matches a single segment against every path component.
func matchAnyComponent(seg segment, path string) bool {
	start := 0
	for i := 0; i <= len(path); i++ {
		if i != len(path) && path[i] != '/' {
			continue
		}

		if i > start && seg.match(path[start:i]) {
			return true
		}

		start = i + 1
	}
	return false
}
