// Package render produces human-readable quotation summaries from a report.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dshills/steelquote/internal/project"
	"github.com/dshills/steelquote/internal/report"
)

// Assumption lines printed under every quote.
const (
	AssumptionHeuristic   = "Pricing model is heuristic: figures come from fixed rules, not from a learned model."
	AssumptionHumanReview = "Human review is required before client submission."
)

// Markdown renders a report as a Markdown quotation summary.
func Markdown(r *report.Report) string {
	var b strings.Builder

	if r.Quote == nil {
		b.WriteString("# Requirements Analysis\n\n")
	} else {
		b.WriteString("# Quotation Result\n\n")
	}
	fmt.Fprintf(&b, "**Client:** %s\n", clientName(r.Attributes.ClientName))
	if r.Input.Document != "" {
		fmt.Fprintf(&b, "**Document:** %s\n", r.Input.Document)
	}
	if r.Input.RateCard != "" {
		fmt.Fprintf(&b, "**Rate card:** %s\n", r.Input.RateCard)
	}
	b.WriteString("\n")

	if q := r.Quote; q != nil {
		b.WriteString("| Metric | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Estimated Cost | %s |\n", Currency(q.EstimatedCost))
		fmt.Fprintf(&b, "| Contingency (%s) | %s |\n", Percent(q.Breakdown.ContingencyRate), Currency(q.Contingency))
		fmt.Fprintf(&b, "| Recommended Quote | %s |\n", Currency(q.RecommendedQuote))
		fmt.Fprintf(&b, "| Risk Level | %s |\n\n", q.RiskLevel)

		b.WriteString("## Scope Recommendations\n\n")
		for i, n := range q.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, n)
		}
		b.WriteString("\n")

		b.WriteString("## Assumptions\n\n")
		for _, a := range assumptions(q.Breakdown.PerDrawing) {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		b.WriteString("\n")

		bd := q.Breakdown
		b.WriteString("## Pricing Breakdown\n\n")
		b.WriteString("| Term | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Base cost (%d drawings x %s) | %s |\n", r.Attributes.DrawingCount, Currency(roundInt(bd.PerDrawing)), Currency(roundInt(bd.BaseCost)))
		fmt.Fprintf(&b, "| Timeline factor (%d weeks) | %s |\n", r.Attributes.TimelineWeeks, Factor(bd.TimelineFactor))
		fmt.Fprintf(&b, "| Complexity factor (%d/5) | %s |\n", r.Attributes.Complexity, Factor(bd.ComplexityFactor))
		fmt.Fprintf(&b, "| Revision factor (%d/5) | %s |\n", r.Attributes.RevisionRisk, Factor(bd.RevisionFactor))
		fmt.Fprintf(&b, "| Project type factor (%s) | %s |\n", r.Attributes.Type, Factor(bd.TypeFactor))
		fmt.Fprintf(&b, "| Adjusted subtotal | %s |\n", Currency(roundInt(bd.Subtotal)))
		for _, li := range bd.Options {
			fmt.Fprintf(&b, "| %s | %s |\n", project.Service(li.Service).Label(), Currency(roundInt(li.Price)))
		}
		b.WriteString("\n")
	} else {
		a := r.Attributes
		b.WriteString("## Inferred Attributes\n\n")
		b.WriteString("| Field | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Project type | %s |\n", a.Type)
		fmt.Fprintf(&b, "| Timeline | %d weeks |\n", a.TimelineWeeks)
		fmt.Fprintf(&b, "| Drawing count | %d |\n", a.DrawingCount)
		fmt.Fprintf(&b, "| Complexity | %d/5 |\n", a.Complexity)
		fmt.Fprintf(&b, "| Revision risk | %d/5 |\n", a.RevisionRisk)
		fmt.Fprintf(&b, "| Services | %s |\n\n", serviceList(a.Services))
	}

	if len(r.Findings) > 0 {
		b.WriteString("## Analyzer Findings\n\n")
		for _, f := range r.Findings {
			fmt.Fprintf(&b, "- %s\n", f.Text)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Text renders a report as plain text for terminals.
func Text(r *report.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Client: %s\n", clientName(r.Attributes.ClientName))
	if q := r.Quote; q != nil {
		fmt.Fprintf(&b, "Estimated Cost:      %s\n", Currency(q.EstimatedCost))
		fmt.Fprintf(&b, "Contingency (%s):   %s\n", Percent(q.Breakdown.ContingencyRate), Currency(q.Contingency))
		fmt.Fprintf(&b, "Recommended Quote:   %s\n", Currency(q.RecommendedQuote))
		fmt.Fprintf(&b, "Risk Level:          %s\n", q.RiskLevel)

		b.WriteString("\nScope Recommendations\n")
		for i, n := range q.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, n)
		}
		b.WriteString("\nAssumptions\n")
		for _, a := range assumptions(q.Breakdown.PerDrawing) {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	} else {
		a := r.Attributes
		fmt.Fprintf(&b, "Project type:  %s\n", a.Type)
		fmt.Fprintf(&b, "Timeline:      %d weeks\n", a.TimelineWeeks)
		fmt.Fprintf(&b, "Drawing count: %d\n", a.DrawingCount)
		fmt.Fprintf(&b, "Complexity:    %d/5\n", a.Complexity)
		fmt.Fprintf(&b, "Revision risk: %d/5\n", a.RevisionRisk)
		fmt.Fprintf(&b, "Services:      %s\n", serviceList(a.Services))
	}

	if len(r.Findings) > 0 {
		b.WriteString("\nFindings\n")
		for _, f := range r.Findings {
			fmt.Fprintf(&b, "- %s\n", f.Text)
		}
	}

	return b.String()
}

// Currency formats whole US dollars with thousands separators and no
// cents: 6896 becomes "$6,896".
func Currency(v int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := strconv.Itoa(v)
	var b strings.Builder
	b.WriteString(sign)
	b.WriteByte('$')
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Percent formats a rate such as 0.1 as "10%".
func Percent(rate float64) string {
	return strconv.FormatFloat(math.Round(rate*1000)/10, 'f', -1, 64) + "%"
}

// Factor formats a multiplier with two decimals.
func Factor(f float64) string {
	return fmt.Sprintf("x%.2f", f)
}

func assumptions(perDrawing float64) []string {
	return []string{
		AssumptionHeuristic,
		fmt.Sprintf("Base detailing rate used: %s per drawing before adjustment factors.", Currency(roundInt(perDrawing))),
		AssumptionHumanReview,
	}
}

func clientName(name string) string {
	if name == "" {
		return "(not specified)"
	}
	return name
}

func serviceList(services []project.Service) string {
	if len(services) == 0 {
		return "none"
	}
	labels := make([]string, len(services))
	for i, s := range services {
		labels[i] = s.Label()
	}
	return strings.Join(labels, ", ")
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
