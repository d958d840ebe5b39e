// Package report defines the quotation envelope emitted by every surface.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/steelquote/internal/analyze"
	"github.com/dshills/steelquote/internal/intake"
	"github.com/dshills/steelquote/internal/project"
	"github.com/dshills/steelquote/internal/quote"
	"github.com/dshills/steelquote/internal/rates"
	"github.com/dshills/steelquote/internal/redact"
)

// Tool is the producer name written into every report.
const Tool = "steelquote"

// Report is the top-level output object. Quote is nil for analysis-only
// reports.
type Report struct {
	ID          string             `json:"id"`
	Tool        string             `json:"tool"`
	Version     string             `json:"version"`
	GeneratedAt time.Time          `json:"generated_at"`
	Input       Input              `json:"input"`
	Findings    []analyze.Finding  `json:"findings,omitempty"`
	Attributes  project.Attributes `json:"attributes"`
	Quote       *quote.Result      `json:"quote,omitempty"`
}

// Input describes what the report was computed from.
type Input struct {
	Document     string   `json:"document,omitempty"`
	DocumentHash string   `json:"document_hash,omitempty"`
	Pages        int      `json:"pages,omitempty"`
	RateCard     string   `json:"rate_card,omitempty"`
	ManualFields []string `json:"manual_fields,omitempty"`
	Redacted     bool     `json:"redacted,omitempty"`
}

// Request bundles everything a quotation is computed from. Analysis is nil
// when no document was supplied.
type Request struct {
	Input    Input
	Analysis *analyze.Result
	Options  intake.Options
	Card     *rates.Card
}

// New returns an empty envelope with a fresh ID.
func New(version string, in Input) *Report {
	return &Report{
		ID:          uuid.NewString(),
		Tool:        Tool,
		Version:     version,
		GeneratedAt: time.Now().UTC(),
		Input:       in,
	}
}

// Analysis builds an analysis-only report.
func Analysis(version string, in Input, a *analyze.Result) *Report {
	r := New(version, in)
	r.Findings = a.Findings
	r.Attributes = a.Attributes
	return r
}

// Build resolves the request's attributes and prices them. Options must
// already have passed intake.Validate.
func Build(version string, req Request) *Report {
	card := req.Card
	if card == nil {
		card = rates.Standard()
	}

	in := req.Input
	in.RateCard = card.Name
	in.ManualFields = ManualFields(req.Options)

	r := New(version, in)
	if req.Analysis != nil {
		r.Findings = req.Analysis.Findings
	}
	r.Attributes = intake.Resolve(req.Analysis, req.Options)
	res := quote.Generate(r.Attributes, card)
	r.Quote = &res
	return r
}

// ManualFields lists the option keys that were supplied, in form order.
func ManualFields(o intake.Options) []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(o.ClientName != nil, "client_name")
	add(o.ProjectType != nil, "project_type")
	add(o.TimelineWeeks != nil, "timeline_weeks")
	add(o.DrawingCount != nil, "drawing_count")
	add(o.Complexity != nil, "complexity")
	add(o.RevisionRisk != nil, "revision_risk")
	add(o.Requirements != nil, "requirements")
	add(len(o.Services) > 0, "services")
	return out
}

// Redact masks contact details and credentials wherever document text is
// echoed: the requirements, the client name and the finding texts, which
// quote labeled values. Pricing has already run on the original text.
func (r *Report) Redact() {
	r.Attributes.Requirements = redact.Redact(r.Attributes.Requirements)
	r.Attributes.ClientName = redact.Redact(r.Attributes.ClientName)
	// Findings may share a backing array with the analysis result.
	findings := make([]analyze.Finding, len(r.Findings))
	for i, f := range r.Findings {
		f.Text = redact.Redact(f.Text)
		findings[i] = f
	}
	if r.Findings != nil {
		r.Findings = findings
	}
	r.Input.Redacted = true
}
