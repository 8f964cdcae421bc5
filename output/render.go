// Package output renders mapping results for people and machines.
//
// Confidence filtering happens here, after the engine has produced its full
// result. The engine itself never drops an absence.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/negspace/mapper"
)

// Format selects a renderer.
type Format string

const (
	// FormatText is the human-readable report.
	FormatText Format = "text"
	// FormatJSON is the machine-readable document.
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text or json)", s)
	}
}

// Options controls rendering.
type Options struct {
	Format        Format
	Verbose       bool
	MinConfidence float64
}

// Filter returns the absences whose confidence is at least min, in order.
func Filter(absences []mapper.Absence, min float64) []mapper.Absence {
	out := make([]mapper.Absence, 0, len(absences))
	for _, a := range absences {
		if a.Confidence >= min {
			out = append(out, a)
		}
	}
	return out
}

// Document is the JSON shape of a result.
type Document struct {
	Statement       string           `json:"statement"`
	Absences        []mapper.Absence `json:"absences"`
	KernelCompliant bool             `json:"kernel_compliant"`
	// Violation is null when the result is kernel compliant.
	Violation *string `json:"violation"`
}

// NewDocument builds the JSON document for result, keeping absences with
// confidence >= min.
func NewDocument(result *mapper.MappingResult, min float64) Document {
	doc := Document{
		Statement:       result.Statement,
		Absences:        Filter(result.Absences, min),
		KernelCompliant: result.KernelCompliant,
	}
	if !result.KernelCompliant {
		v := result.Violation
		doc.Violation = &v
	}
	return doc
}

// Render writes result to w in the selected format.
func Render(w io.Writer, result *mapper.MappingResult, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, NewDocument(result, opts.MinConfidence))
	case FormatText, "":
		return renderText(w, result, opts)
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
}

// Item is one result of a batch run.
type Item struct {
	Source string
	Result *mapper.MappingResult
}

// BatchDocument is the JSON shape of one batch item.
type BatchDocument struct {
	Source string `json:"source"`
	Document
}

// RenderBatch writes several results. JSON output is a single array; text
// output separates the reports with a header per source.
func RenderBatch(w io.Writer, items []Item, opts Options) error {
	if opts.Format == FormatJSON {
		docs := make([]BatchDocument, len(items))
		for i, it := range items {
			docs[i] = BatchDocument{Source: it.Source, Document: NewDocument(it.Result, opts.MinConfidence)}
		}
		return writeJSON(w, docs)
	}

	for i, it := range items {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "=== %s ===\n", it.Source); err != nil {
			return err
		}
		if err := Render(w, it.Result, opts); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func renderText(w io.Writer, result *mapper.MappingResult, opts Options) error {
	var sb strings.Builder

	sb.WriteString("\nSTATEMENT:\n")
	sb.WriteString(result.Statement)
	sb.WriteString("\n\nNAMED VOIDS:\n")

	absences := Filter(result.Absences, opts.MinConfidence)
	if len(absences) == 0 {
		sb.WriteString("  (none detected)\n")
	}
	for _, a := range absences {
		fmt.Fprintf(&sb, "  • %s\n", a.Name)
		if opts.Verbose {
			fmt.Fprintf(&sb, "    type: %s | context: %s | confidence: %.0f%%\n",
				a.Type, a.Context, a.Confidence*100)
		}
	}

	if result.KernelCompliant {
		sb.WriteString("\n✓ Kernel compliant\n")
	} else {
		fmt.Fprintf(&sb, "\n⚠️  KERNEL VIOLATION: %s\n", result.Violation)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
