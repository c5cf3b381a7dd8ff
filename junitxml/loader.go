package junitxml

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
)

// Document is the raw parse tree of one report file. Elements and
// attributes outside the recognized schema are ignored by the decoder, so
// reports from newer runners still load.
type Document struct {
	Path   string
	Suites []Suite
}

// Suite mirrors a <testsuite> element. Suites may nest.
type Suite struct {
	Name      string  `xml:"name,attr"`
	Timestamp string  `xml:"timestamp,attr"`
	Suites    []Suite `xml:"testsuite"`
	Cases     []Case  `xml:"testcase"`
}

// Case mirrors a <testcase> element. The outcome is encoded either in the
// status attribute or via the presence of failure/skipped/error children;
// the builder normalizes both encodings.
type Case struct {
	Name      string   `xml:"name,attr"`
	Classname string   `xml:"classname,attr"`
	Status    string   `xml:"status,attr"`
	Time      string   `xml:"time,attr"`
	Failure   *Outcome `xml:"failure"`
	Skipped   *Outcome `xml:"skipped"`
	Error     *Outcome `xml:"error"`
	SystemOut string   `xml:"system-out"`
	Timestamp string   `xml:"timestamp"`
}

// Outcome mirrors a failure/skipped/error child element.
type Outcome struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

type suitesRoot struct {
	Suites []Suite `xml:"testsuite"`
}

// Load reads and parses one report file. It returns NotFoundError when the
// file does not exist and ParseError when the content is not a well-formed
// report document.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, &ParseError{Path: path, Reason: err}
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse parses report XML from a reader. The root element may be either
// <testsuites> or a bare <testsuite>.
func Parse(r io.Reader, path string) (*Document, error) {
	dec := xml.NewDecoder(r)

	var start xml.StartElement
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, &ParseError{Path: path, Reason: err}
		}
		if se, ok := tok.(xml.StartElement); ok {
			start = se
			break
		}
	}

	switch start.Name.Local {
	case "testsuites":
		var root suitesRoot
		if err := dec.DecodeElement(&root, &start); err != nil {
			return nil, &ParseError{Path: path, Reason: err}
		}
		return &Document{Path: path, Suites: root.Suites}, nil
	case "testsuite":
		var suite Suite
		if err := dec.DecodeElement(&suite, &start); err != nil {
			return nil, &ParseError{Path: path, Reason: err}
		}
		return &Document{Path: path, Suites: []Suite{suite}}, nil
	default:
		return nil, &ParseError{
			Path:   path,
			Reason: errors.New("unrecognized root element <" + start.Name.Local + ">"),
		}
	}
}
