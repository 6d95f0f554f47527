package glob

import (
	"regexp"
	"strings"
)

// segment is one precompiled path component of a pattern.
type segment struct {
	// text is the raw component source.
	text string
	// wildcard reports whether text contains "*" or "?".
	wildcard bool
	// re is set when the component contains a character class.
	re *regexp.Regexp
}

// compileSegment compiles one slash-free pattern component into the
// cheapest matching strategy: literal, simple wildcard, or regexp.
func compileSegment(text string) (segment, error) {
	if hasCharClass(text) {
		re, err := regexp.Compile("^" + componentToRegex(text) + "$")
		if err != nil {
			return segment{}, err
		}
		return segment{text: text, re: re}, nil
	}
	return segment{
		text:     text,
		wildcard: strings.ContainsAny(text, "*?"),
	}, nil
}

// match reports whether the segment matches one path component.
func (s segment) match(component string) bool {
	if s.re != nil {
		return s.re.MatchString(component)
	}
	if s.wildcard {
		return matchWildcard(s.text, component)
	}
	return component == s.text
}

// literal reports whether the segment matches exactly one string.
func (s segment) literal() bool {
	return s.re == nil && !s.wildcard
}

// matchWildcard matches a "*" and "?" pattern against one component,
// backtracking on stars without regexp.
func matchWildcard(pattern, input string) bool {
	pIdx := 0
	sIdx := 0
	starPattern := -1
	starInput := 0

	for sIdx < len(input) {
		if pIdx < len(pattern) && (pattern[pIdx] == '?' || pattern[pIdx] == input[sIdx]) {
			pIdx++
			sIdx++
			continue
		}

		if pIdx < len(pattern) && pattern[pIdx] == '*' {
			// Remember star position and continue greedily from here.
			starPattern = pIdx
			pIdx++
			starInput = sIdx
			continue
		}

		if starPattern >= 0 {
			// Mismatch after a star: backtrack to the token after it
			// and let the star consume one more input byte.
			pIdx = starPattern + 1
			starInput++
			sIdx = starInput
			continue
		}

		return false
	}

	for pIdx < len(pattern) && pattern[pIdx] == '*' {
		pIdx++
	}

	return pIdx == len(pattern)
}

// hasCharClass reports whether text contains at least one valid "[...]" class.
func hasCharClass(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] != '[' {
			continue
		}
		if charClassEnd(text, i) >= 0 {
			return true
		}
	}
	return false
}

// charClassEnd locates the closing bracket of a character class, or -1.
func charClassEnd(text string, start int) int {
	if start < 0 || start >= len(text) || text[start] != '[' {
		return -1
	}

	idx := start + 1
	if idx < len(text) && pattern0IsNegation(text[idx]) {
		idx++
	}

	// A class cannot be empty; a leading "]" is literal.
	if idx < len(text) && text[idx] == ']' {
		idx++
	}

	for ; idx < len(text); idx++ {
		if text[idx] == ']' {
			return idx
		}
	}

	return -1
}

// pattern0IsNegation reports whether b negates a character class.
func pattern0IsNegation(b byte) bool {
	return b == '!' || b == '^'
}

// componentToRegex converts one pattern component to a regexp body.
// Wildcards stay within the component, so "*" maps to "[^/]*".
func componentToRegex(text string) string {
	var b strings.Builder

	for i := 0; i < len(text); i++ {
		if next, ok := appendCharClass(text, i, &b); ok {
			i = next
			continue
		}

		c := text[i]
		switch c {
		case '*':
			// A doubled star has no extra meaning in this dialect.
			for i+1 < len(text) && text[i+1] == '*' {
				i++
			}
			b.WriteString(`[^/]*`)
		case '?':
			b.WriteString(`[^/]`)
		default:
			b.WriteString(escapeRegexByte(c))
		}
	}

	return b.String()
}

// appendCharClass appends a parsed "[...]" class as a regexp class.
func appendCharClass(text string, start int, b *strings.Builder) (int, bool) {
	end := charClassEnd(text, start)
	if end < 0 {
		return start, false
	}

	b.WriteByte('[')

	idx := start + 1
	if idx < end && text[idx] == '!' {
		// Glob negation "[!x]" maps to regexp "[^x]".
		b.WriteByte('^')
		idx++
	} else if idx < end && text[idx] == '^' {
		// Only "!" negates in this dialect; a leading "^" is literal.
		b.WriteString(`\^`)
		idx++
	}

	if idx < end && text[idx] == ']' {
		// A leading "]" is literal in both dialects.
		b.WriteString(`\]`)
		idx++
	}

	for ; idx < end; idx++ {
		if text[idx] == '\\' {
			b.WriteString(`\\`)
			continue
		}
		b.WriteByte(text[idx])
	}

	b.WriteByte(']')
	return end, true
}

// escapeRegexByte escapes one byte for regexp source.
func escapeRegexByte(c byte) string {
	switch c {
	case '.', '+', '(', ')', '|', '{', '}', '[', ']', '^', '$', '\\':
		return `\` + string(c)
	default:
		return string(c)
	}
}
