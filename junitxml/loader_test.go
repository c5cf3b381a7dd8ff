package junitxml

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_TestsuitesRoot(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<testsuites>
  <testsuite name="auth" tests="2" failures="1" time="3.5">
    <testcase name="TestLogin" classname="auth.Session" time="1.5"/>
    <testcase name="TestLogout" classname="auth.Session" time="2.0">
      <failure message="assertion failed: got 401">stack trace here</failure>
    </testcase>
  </testsuite>
</testsuites>`

	doc, err := Parse(strings.NewReader(input), "report.xml")
	require.NoError(t, err)
	require.Equal(t, "report.xml", doc.Path)
	require.Len(t, doc.Suites, 1)

	suite := doc.Suites[0]
	require.Equal(t, "auth", suite.Name)
	require.Len(t, suite.Cases, 2)
	require.Equal(t, "TestLogin", suite.Cases[0].Name)
	require.Equal(t, "auth.Session", suite.Cases[0].Classname)
	require.Nil(t, suite.Cases[0].Failure)
	require.NotNil(t, suite.Cases[1].Failure)
	require.Equal(t, "assertion failed: got 401", suite.Cases[1].Failure.Message)
}

func TestParse_BareTestsuiteRoot(t *testing.T) {
	input := `<testsuite name="solo">
  <testcase name="TestOne" time="0.1"/>
</testsuite>`

	doc, err := Parse(strings.NewReader(input), "solo.xml")
	require.NoError(t, err)
	require.Len(t, doc.Suites, 1)
	require.Equal(t, "solo", doc.Suites[0].Name)
	require.Len(t, doc.Suites[0].Cases, 1)
}

func TestParse_NestedSuites(t *testing.T) {
	input := `<testsuites>
  <testsuite name="outer">
    <testsuite name="inner">
      <testcase name="TestDeep" time="0.2"/>
    </testsuite>
  </testsuite>
</testsuites>`

	doc, err := Parse(strings.NewReader(input), "nested.xml")
	require.NoError(t, err)
	require.Len(t, doc.Suites, 1)
	require.Len(t, doc.Suites[0].Suites, 1)
	require.Equal(t, "inner", doc.Suites[0].Suites[0].Name)
	require.Len(t, doc.Suites[0].Suites[0].Cases, 1)
}

func TestParse_UnknownElementsIgnored(t *testing.T) {
	input := `<testsuites vendor="futurerunner" schema-version="99">
  <properties><property name="os" value="linux"/></properties>
  <testsuite name="s" shard="3">
    <testcase name="TestA" time="0.1" retries="2">
      <custom-extension foo="bar"/>
    </testcase>
  </testsuite>
</testsuites>`

	doc, err := Parse(strings.NewReader(input), "future.xml")
	require.NoError(t, err)
	require.Len(t, doc.Suites, 1)
	require.Len(t, doc.Suites[0].Cases, 1)
	require.Equal(t, "TestA", doc.Suites[0].Cases[0].Name)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "truncated", input: `<testsuites><testsuite name="x">`},
		{name: "not xml", input: `{"this": "is json"}`},
		{name: "empty", input: ``},
		{name: "wrong root", input: `<html><body>nope</body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), "bad.xml")
			var parseErr *ParseError
			require.Error(t, err)
			require.True(t, errors.As(err, &parseErr))
			require.Equal(t, "bad.xml", parseErr.Path)
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.xml"))
	var notFound *NotFoundError
	require.Error(t, err)
	require.True(t, errors.As(err, &notFound))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.xml")
	content := `<testsuite name="disk"><testcase name="TestRead" time="0.4"/></testsuite>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, doc.Path)
	require.Len(t, doc.Suites, 1)
}
