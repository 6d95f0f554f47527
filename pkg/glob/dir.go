package glob

import (
	"strings"

	"github.com/packlist/packlist/pkg/errors"
)

// DirPattern is a compiled directory pattern anchored at the root. The
// directory components may themselves contain wildcards.
type DirPattern struct {
	source   string
	segments []segment
	opts     Options
}

// CompileDir compiles a directory pattern for subtree directives.
func CompileDir(source string, opts Options) (*DirPattern, error) {
	norm := normalizePattern(source)
	norm = strings.TrimSuffix(norm, "/")
	if opts.CaseInsensitive {
		norm = asciiLower(norm)
	}
	if norm == "" {
		return nil, errors.Newf(errors.ErrPatternInvalid, "empty directory pattern %q", source)
	}

	segments, err := compileSegments(norm)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPatternInvalid, "cannot compile directory pattern %q", source)
	}

	return &DirPattern{
		source:   source,
		segments: segments,
		opts:     opts,
	}, nil
}

// Source returns the directory pattern as written in the manifest.
func (d *DirPattern) Source() string {
	return d.source
}

// Literal returns the directory path and true when the pattern contains
// no wildcards, so callers can check its existence directly.
func (d *DirPattern) Literal() (string, bool) {
	parts := make([]string, 0, len(d.segments))
	for _, seg := range d.segments {
		if !seg.literal() {
			return "", false
		}
		parts = append(parts, seg.text)
	}
	return strings.Join(parts, "/"), true
}

// Rest returns the remainder of a path strictly below the directory,
// and whether the path is below it at all. The directory itself does
// not count.
func (d *DirPattern) Rest(path string) (string, bool) {
	if d.opts.CaseInsensitive {
		path = asciiLower(path)
	}
	if path == "" {
		return "", false
	}

	end, ok := matchSegmentsAt(d.segments, path, 0)
	if !ok || end >= len(path) || path[end] != '/' {
		return "", false
	}
	return path[end+1:], true
}

// Contains reports whether a path lies strictly below the directory.
func (d *DirPattern) Contains(path string) bool {
	_, ok := d.Rest(path)
	return ok
}
