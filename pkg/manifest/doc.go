// Package manifest parses packaging manifest files into ordered rule
// sets. The format is line-oriented: one directive per line, fields
// separated by whitespace, full-line "#" comments, blank lines ignored,
// and a trailing backslash joining the next line. A malformed directive
// is a fatal parse error carrying its line number.
package manifest
