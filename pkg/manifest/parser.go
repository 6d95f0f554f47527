package manifest

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/logging"
	"github.com/packlist/packlist/pkg/types"
)

// Parse reads manifest text and returns the ordered rule set. The
// source name is used in diagnostics only. The first malformed
// directive aborts parsing; a partial rule set is never returned.
func Parse(r io.Reader, source string) (*RuleSet, error) {
	logger := logging.GetLogger("manifest")

	rs := &RuleSet{Source: source}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		startLine := lineNo
		line := scanner.Text()

		// A trailing backslash joins the next line.
		for strings.HasSuffix(line, `\`) && scanner.Scan() {
			lineNo++
			line = line[:len(line)-1] + " " + strings.TrimSpace(scanner.Text())
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		rule, err := parseDirective(trimmed, startLine)
		if err != nil {
			return nil, err
		}
		rs.Rules = append(rs.Rules, rule)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestRead,
			"failed to read manifest %s", source)
	}

	logger.Debug().
		Str("source", source).
		Int("rules", len(rs.Rules)).
		Msg("Parsed manifest")

	return rs, nil
}

// ParseBytes parses manifest text held in memory.
func ParseBytes(data []byte, source string) (*RuleSet, error) {
	return Parse(bytes.NewReader(data), source)
}

// ParseFile reads and parses a manifest file through the filesystem
// abstraction.
func ParseFile(fs types.FS, path string) (*RuleSet, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestRead,
			"cannot read manifest file %s", path).
			WithDetail("path", path)
	}
	return ParseBytes(data, path)
}

// parseDirective parses one logical manifest line.
func parseDirective(line string, lineNo int) (Rule, error) {
	fields := strings.Fields(line)
	keyword := fields[0]

	rule := Rule{
		Kind: Kind(keyword),
		Line: lineNo,
		Raw:  line,
	}

	args := fields[1:]

	switch rule.Kind {
	case KindInclude, KindExclude, KindGlobalInclude, KindGlobalExclude:
		if len(args) == 0 {
			return Rule{}, parseError(lineNo, "%q needs at least one pattern", keyword)
		}
		rule.Patterns = args

	case KindRecursiveInclude, KindRecursiveExclude:
		if len(args) < 2 {
			return Rule{}, parseError(lineNo, "%q needs a directory and at least one pattern", keyword)
		}
		rule.Dir = args[0]
		rule.Patterns = args[1:]

	case KindGraft, KindPrune:
		if len(args) != 1 {
			return Rule{}, parseError(lineNo, "%q needs exactly one directory", keyword)
		}
		rule.Dir = args[0]

	default:
		return Rule{}, parseError(lineNo, "unknown directive %q", keyword)
	}

	return rule, nil
}

// parseError builds the fatal parse error with its line number attached.
func parseError(lineNo int, format string, args ...interface{}) *errors.PacklistError {
	return errors.Newf(errors.ErrManifestParse, "line %d: "+format,
		append([]interface{}{lineNo}, args...)...).
		WithDetail("line", lineNo)
}
