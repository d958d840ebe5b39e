package report

import (
	"fmt"
	"math"

	"github.com/dshills/steelquote/internal/project"
	"github.com/dshills/steelquote/internal/quote"
)

// ValidationError describes a single inconsistency in a report.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a report for structural validity and for agreement
// between the quote figures and the attributes they were priced from.
func Validate(r *Report) []ValidationError {
	var errs []ValidationError

	if r.ID == "" {
		errs = append(errs, ValidationError{"id", "required"})
	}
	if r.Tool == "" {
		errs = append(errs, ValidationError{"tool", "required"})
	}
	if r.Version == "" {
		errs = append(errs, ValidationError{"version", "required"})
	}

	a := r.Attributes
	if !a.Type.Valid() {
		errs = append(errs, ValidationError{"attributes.project_type", fmt.Sprintf("invalid: %q", a.Type)})
	}
	if a.TimelineWeeks < 1 {
		errs = append(errs, ValidationError{"attributes.timeline_weeks", fmt.Sprintf("must be at least 1, got %d", a.TimelineWeeks)})
	}
	if a.DrawingCount < 1 {
		errs = append(errs, ValidationError{"attributes.drawing_count", fmt.Sprintf("must be at least 1, got %d", a.DrawingCount)})
	}
	if a.Complexity != project.ClampScore(a.Complexity) {
		errs = append(errs, ValidationError{"attributes.complexity", fmt.Sprintf("out of range: %d", a.Complexity)})
	}
	if a.RevisionRisk != project.ClampScore(a.RevisionRisk) {
		errs = append(errs, ValidationError{"attributes.revision_risk", fmt.Sprintf("out of range: %d", a.RevisionRisk)})
	}
	for i, s := range a.Services {
		if !s.Valid() {
			errs = append(errs, ValidationError{fmt.Sprintf("attributes.services[%d]", i), fmt.Sprintf("unknown service: %q", s)})
		}
	}

	for i, f := range r.Findings {
		if !f.Method.Valid() {
			errs = append(errs, ValidationError{fmt.Sprintf("findings[%d].method", i), fmt.Sprintf("invalid: %q", f.Method)})
		}
		if f.Text == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("findings[%d].text", i), "required"})
		}
	}

	if r.Quote != nil {
		errs = append(errs, validateQuote(r.Quote, a)...)
	}

	return errs
}

func validateQuote(q *quote.Result, a project.Attributes) []ValidationError {
	var errs []ValidationError

	if q.EstimatedCost < 0 {
		errs = append(errs, ValidationError{"quote.estimated_cost", fmt.Sprintf("negative: %d", q.EstimatedCost)})
	}
	if want := int(math.Round(float64(q.EstimatedCost) * q.Breakdown.ContingencyRate)); q.Contingency != want {
		errs = append(errs, ValidationError{"quote.contingency", fmt.Sprintf("expected %d, got %d", want, q.Contingency)})
	}
	if want := q.EstimatedCost + q.Contingency; q.RecommendedQuote != want {
		errs = append(errs, ValidationError{"quote.recommended_quote", fmt.Sprintf("expected %d, got %d", want, q.RecommendedQuote)})
	}
	if !q.RiskLevel.Valid() {
		errs = append(errs, ValidationError{"quote.risk_level", fmt.Sprintf("invalid: %q", q.RiskLevel)})
	} else if want := quote.ClassifyRisk(a.Complexity, a.RevisionRisk); q.RiskLevel != want {
		errs = append(errs, ValidationError{"quote.risk_level", fmt.Sprintf("expected %s for complexity %d and revision risk %d, got %s", want, a.Complexity, a.RevisionRisk, q.RiskLevel)})
	}
	if len(q.Recommendations) == 0 {
		errs = append(errs, ValidationError{"quote.recommendations", "at least one recommendation required"})
	}

	return errs
}
