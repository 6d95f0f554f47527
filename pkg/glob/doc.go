// Package glob compiles manifest glob patterns into matchers.
//
// The dialect is the classic packaging one: "*" and "?" match within a
// single path component, "[seq]" and "[!seq]" are character classes, and
// no wildcard ever crosses a "/". There is no "**"; a doubled star
// behaves like a single one.
//
// A Pattern can be applied in three scopes: anchored against the full
// root-relative path, against the basename, or floating at any depth.
// How a floating pattern without a separator is interpreted is governed
// by Mode.
package glob
