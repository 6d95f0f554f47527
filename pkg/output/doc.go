// Package output renders command results in different formats.
// It supports text (styled for terminals), JSON, YAML and, for check
// reports, JUnit XML.
package output
