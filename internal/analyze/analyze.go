// Package analyze infers project attributes from an unstructured
// requirements document using fixed regular expressions and weighted
// keyword heuristics.
package analyze

import (
	"fmt"
	"strings"

	"github.com/dshills/steelquote/internal/project"
)

// Method records how a field's value was obtained.
type Method string

const (
	MethodDetected  Method = "detected"
	MethodEstimated Method = "estimated"
	MethodDefaulted Method = "defaulted"
)

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	switch m {
	case MethodDetected, MethodEstimated, MethodDefaulted:
		return true
	}
	return false
}

// Field names a finding's subject.
type Field string

const (
	FieldDrawingCount Field = "drawing_count"
	FieldTimeline     Field = "timeline"
	FieldComplexity   Field = "complexity"
	FieldRevisionRisk Field = "revision_risk"
	FieldProjectType  Field = "project_type"
	FieldClientName   Field = "client_name"
)

// FieldOrder is the fixed order findings are reported in.
var FieldOrder = []Field{
	FieldDrawingCount, FieldTimeline, FieldComplexity,
	FieldRevisionRisk, FieldProjectType, FieldClientName,
}

// Finding is one line of the analysis audit trail.
type Finding struct {
	Field  Field  `json:"field"`
	Method Method `json:"method"`
	Text   string `json:"text"`
}

// Result is the outcome of analysing one document. It is built fresh for
// each document and replaces, rather than merges with, earlier results.
type Result struct {
	// Attributes holds every inferred field, defaulted where nothing was found.
	Attributes project.Attributes `json:"attributes"`
	// Methods records how each field was obtained.
	Methods map[Field]Method `json:"methods"`
	// InferredServices lists optional services the text asks for.
	InferredServices []project.Service `json:"inferred_services"`
	Findings         []Finding         `json:"findings"`
}

// ClientDetected reports whether a client name was found.
func (r *Result) ClientDetected() bool {
	return r.Methods[FieldClientName] == MethodDetected
}

// Lines returns the finding texts in order.
func (r *Result) Lines() []string {
	lines := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		lines[i] = f.Text
	}
	return lines
}

// Analyze converts raw requirements text into best-effort attributes and
// findings. It never fails: every field has a fallback, so empty text
// yields the defaults (commercial, 8 weeks, 15 drawings, complexity 2,
// revision risk 2).
func Analyze(raw string) *Result {
	r := &Result{
		Attributes: project.Attributes{Requirements: strings.TrimSpace(raw)},
		Methods:    make(map[Field]Method, len(FieldOrder)),
	}
	a := &r.Attributes

	if n, ok := ExplicitDrawingCount(raw); ok {
		a.DrawingCount = n
		r.add(FieldDrawingCount, MethodDetected, fmt.Sprintf("Drawing count detected in document: %d %s.", n, plural(n, "drawing", "drawings")))
	} else {
		a.DrawingCount = EstimateDrawingCount(raw)
		r.add(FieldDrawingCount, MethodEstimated, fmt.Sprintf("Drawing count estimated from scope keywords: %d drawings.", a.DrawingCount))
	}

	if weeks, ok := InferTimeline(raw); ok {
		a.TimelineWeeks = weeks
		r.add(FieldTimeline, MethodDetected, fmt.Sprintf("Timeline detected: %d %s.", weeks, plural(weeks, "week", "weeks")))
	} else {
		a.TimelineWeeks = weeks
		r.add(FieldTimeline, MethodDefaulted, fmt.Sprintf("Timeline not stated; defaulted to %d weeks.", weeks))
	}

	var labeled bool
	a.Complexity, labeled = InferComplexity(raw)
	if labeled {
		r.add(FieldComplexity, MethodDetected, fmt.Sprintf("Complexity detected from label: %d/5.", a.Complexity))
	} else {
		r.add(FieldComplexity, MethodEstimated, fmt.Sprintf("Complexity inferred from scope keywords: %d/5.", a.Complexity))
	}

	a.RevisionRisk, labeled = InferRevisionRisk(raw)
	if labeled {
		r.add(FieldRevisionRisk, MethodDetected, fmt.Sprintf("Revision risk detected from label: %d/5.", a.RevisionRisk))
	} else {
		r.add(FieldRevisionRisk, MethodEstimated, fmt.Sprintf("Revision risk inferred from scope keywords: %d/5.", a.RevisionRisk))
	}

	var matched bool
	a.Type, matched = InferType(raw)
	if matched {
		r.add(FieldProjectType, MethodEstimated, fmt.Sprintf("Project type inferred: %s.", a.Type))
	} else {
		r.add(FieldProjectType, MethodDefaulted, fmt.Sprintf("Project type not detected; defaulted to %s.", a.Type))
	}

	if name, ok := InferClientName(raw); ok {
		a.ClientName = name
		r.add(FieldClientName, MethodDetected, fmt.Sprintf("Client name detected: %s.", name))
	} else {
		r.add(FieldClientName, MethodDefaulted, "Client name not detected.")
	}

	r.InferredServices = InferServices(raw)
	a.Services = append([]project.Service(nil), r.InferredServices...)

	return r
}

func (r *Result) add(field Field, method Method, text string) {
	r.Methods[field] = method
	r.Findings = append(r.Findings, Finding{Field: field, Method: method, Text: text})
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
