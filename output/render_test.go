package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/negspace/mapper"
)

func sampleResult() *mapper.MappingResult {
	return &mapper.MappingResult{
		Statement: "We are building an API.",
		Absences: []mapper.Absence{
			{Name: "error_handling", Type: mapper.Overlooked, Context: `expected for software_delivery statements (signals: "api")`, Confidence: 0.7, Domain: "software_delivery"},
			{Name: "rollback", Type: mapper.Deliberate, Context: `expected for software_delivery statements (signals: "api"); scoped out by "Phase 2 is intentionally omitted"`, Confidence: 0.5, Domain: "software_delivery"},
		},
		KernelCompliant: true,
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("text")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	absences := sampleResult().Absences

	assert.Len(t, Filter(absences, 0), 2)
	assert.Len(t, Filter(absences, 0.5), 2, "threshold is inclusive")
	got := Filter(absences, 0.6)
	require.Len(t, got, 1)
	assert.Equal(t, "error_handling", got[0].Name)
	assert.Empty(t, Filter(absences, 0.95))
	assert.NotNil(t, Filter(nil, 0))
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), Options{Format: FormatText}))

	want := "\nSTATEMENT:\nWe are building an API.\n\nNAMED VOIDS:\n" +
		"  • error_handling\n" +
		"  • rollback\n" +
		"\n✓ Kernel compliant\n"
	assert.Equal(t, want, buf.String())
}

func TestRender_TextVerbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), Options{Format: FormatText, Verbose: true}))

	out := buf.String()
	assert.Contains(t, out, `    type: overlooked | context: expected for software_delivery statements (signals: "api") | confidence: 70%`)
	assert.Contains(t, out, "    type: deliberate | ")
	assert.Contains(t, out, "confidence: 50%")
}

func TestRender_TextEmptyAndViolation(t *testing.T) {
	result := &mapper.MappingResult{
		Statement:       "Simple statement.",
		Absences:        []mapper.Absence{},
		KernelCompliant: false,
		Violation:       `absence "x" context contains prescriptive phrasing "should add"`,
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, result, Options{}))

	out := buf.String()
	assert.Contains(t, out, "  (none detected)\n")
	assert.True(t, strings.HasSuffix(out, "\n⚠️  KERNEL VIOLATION: absence \"x\" context contains prescriptive phrasing \"should add\"\n"))
	assert.NotContains(t, out, "Kernel compliant")
}

func TestRender_TextMinConfidence(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), Options{Format: FormatText, MinConfidence: 0.6}))

	assert.Contains(t, buf.String(), "error_handling")
	assert.NotContains(t, buf.String(), "rollback")
}

func TestRender_JSONRoundTrip(t *testing.T) {
	result := sampleResult()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, result, Options{Format: FormatJSON}))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, result.Statement, doc.Statement)
	assert.True(t, doc.KernelCompliant)
	assert.Nil(t, doc.Violation)
	require.Len(t, doc.Absences, len(result.Absences))
	for i, a := range result.Absences {
		got := doc.Absences[i]
		assert.Equal(t, a.Name, got.Name)
		assert.Equal(t, a.Type, got.Type)
		assert.Equal(t, a.Context, got.Context)
		assert.Equal(t, a.Confidence, got.Confidence)
	}

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Contains(t, raw, "violation")
	assert.Nil(t, raw["violation"])
	assert.NotContains(t, raw["absences"].([]any)[0], "Domain")
}

func TestRender_JSONViolation(t *testing.T) {
	result := &mapper.MappingResult{
		Statement:       "x",
		Absences:        []mapper.Absence{},
		KernelCompliant: false,
		Violation:       "bad",
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, result, Options{Format: FormatJSON}))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.False(t, doc.KernelCompliant)
	require.NotNil(t, doc.Violation)
	assert.Equal(t, "bad", *doc.Violation)
	assert.NotNil(t, doc.Absences)
}

func TestRender_EngineResultRoundTrip(t *testing.T) {
	result := mapper.Map("We are building a system that processes user data and deploys to production.")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, result, Options{Format: FormatJSON}))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Absences, len(result.Absences))
	for i, a := range result.Absences {
		a.Domain = ""
		assert.Equal(t, a, doc.Absences[i])
	}
	assert.Equal(t, result.KernelCompliant, doc.Violation == nil)
}

func TestRenderBatch(t *testing.T) {
	items := []Item{
		{Source: "a.md", Result: sampleResult()},
		{Source: "b.md", Result: &mapper.MappingResult{Statement: "nothing", Absences: []mapper.Absence{}, KernelCompliant: true}},
	}

	var text bytes.Buffer
	require.NoError(t, RenderBatch(&text, items, Options{Format: FormatText}))
	assert.Contains(t, text.String(), "=== a.md ===\n")
	assert.Contains(t, text.String(), "=== b.md ===\n")
	assert.Less(t, strings.Index(text.String(), "a.md"), strings.Index(text.String(), "b.md"))

	var js bytes.Buffer
	require.NoError(t, RenderBatch(&js, items, Options{Format: FormatJSON, MinConfidence: 0.6}))

	var docs []BatchDocument
	require.NoError(t, json.Unmarshal(js.Bytes(), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "a.md", docs[0].Source)
	assert.Len(t, docs[0].Absences, 1)
	assert.Equal(t, "nothing", docs[1].Statement)
}
