package output

import (
	"io"
	"strconv"

	"github.com/beevik/etree"

	"github.com/packlist/packlist/pkg/errors"
)

// TestCase is one evaluated item in a JUnit report, typically a single
// manifest rule.
type TestCase struct {
	Name      string
	ClassName string
	// Failure is the failure message; empty means the case passed
	Failure string
	// Skipped is the skip reason; empty means the case ran
	Skipped string
}

// TestSuite is a JUnit test suite assembled from a check report.
type TestSuite struct {
	Name  string
	Cases []TestCase
}

func (s TestSuite) failures() int {
	n := 0
	for _, c := range s.Cases {
		if c.Failure != "" {
			n++
		}
	}
	return n
}

func (s TestSuite) skips() int {
	n := 0
	for _, c := range s.Cases {
		if c.Skipped != "" {
			n++
		}
	}
	return n
}

// WriteJUnit serializes suite as JUnit XML, the dialect most CI systems
// ingest for test result panels.
func WriteJUnit(w io.Writer, suite TestSuite) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("testsuite")
	root.CreateAttr("name", suite.Name)
	root.CreateAttr("tests", strconv.Itoa(len(suite.Cases)))
	root.CreateAttr("failures", strconv.Itoa(suite.failures()))
	root.CreateAttr("skipped", strconv.Itoa(suite.skips()))

	for _, c := range suite.Cases {
		tc := root.CreateElement("testcase")
		tc.CreateAttr("name", c.Name)
		if c.ClassName != "" {
			tc.CreateAttr("classname", c.ClassName)
		}
		if c.Failure != "" {
			failure := tc.CreateElement("failure")
			failure.CreateAttr("message", c.Failure)
		}
		if c.Skipped != "" {
			skipped := tc.CreateElement("skipped")
			skipped.CreateAttr("message", c.Skipped)
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

// junitRenderer emits JUnit XML for results that support it
type junitRenderer struct {
	w io.Writer
}

func (r *junitRenderer) RenderResult(result interface{}) error {
	reportable, ok := result.(JUnitReportable)
	if !ok {
		return errors.New(errors.ErrInvalidInput,
			"junit output is only available for check reports")
	}
	return WriteJUnit(r.w, reportable.JUnitSuite())
}

// RenderError emits a one-case suite so a fatal error still produces
// valid XML for CI ingestion.
func (r *junitRenderer) RenderError(err error) error {
	return WriteJUnit(r.w, TestSuite{
		Name: "packlist",
		Cases: []TestCase{
			{Name: "packlist", Failure: err.Error()},
		},
	})
}

func (r *junitRenderer) RenderMessage(msg string) error {
	// Messages have no place in a JUnit document
	return nil
}
