package quote

import (
	"math"

	"github.com/dshills/steelquote/internal/project"
	"github.com/dshills/steelquote/internal/rates"
)

// Quote prices attrs with the standard rate card.
func Quote(attrs project.Attributes) Result {
	return Generate(attrs, rates.Standard())
}

// Generate prices attrs with the given rate card. Scores and counts outside
// their documented ranges are clamped first, so Generate never fails. An
// unknown project type prices at factor 1.0 and an unknown service at 0.
//
// Options are added after the scope and risk factors are applied; they are
// flat fees and are not scaled.
func Generate(attrs project.Attributes, card *rates.Card) Result {
	attrs.Clamp()

	b := Breakdown{
		RateCard:         card.Name,
		PerDrawing:       card.PerDrawing,
		TimelineFactor:   card.TimelineFactor(attrs.TimelineWeeks),
		ComplexityFactor: ComplexityFactor(attrs.Complexity),
		RevisionFactor:   RevisionFactor(attrs.RevisionRisk),
		TypeFactor:       card.TypeFactor(attrs.Type),
		ContingencyRate:  card.ContingencyRate,
	}
	b.BaseCost = float64(attrs.DrawingCount) * card.PerDrawing
	b.Subtotal = b.BaseCost * b.TimelineFactor * b.ComplexityFactor * b.RevisionFactor * b.TypeFactor

	for _, svc := range attrs.Services {
		price := card.ServicePrice(svc)
		b.OptionsCost += price
		b.Options = append(b.Options, LineItem{Service: string(svc), Price: price})
	}

	estimated := roundMoney(b.Subtotal + b.OptionsCost)
	contingency := roundMoney(float64(estimated) * card.ContingencyRate)

	return Result{
		EstimatedCost:    estimated,
		Contingency:      contingency,
		RecommendedQuote: estimated + contingency,
		RiskLevel:        ClassifyRisk(attrs.Complexity, attrs.RevisionRisk),
		Recommendations:  Recommendations(attrs),
		Breakdown:        b,
	}
}

// TimelineFactor is the standard card's fast-track surcharge: 1.25 up to
// four weeks, 1.10 up to eight, 1.00 beyond.
func TimelineFactor(weeks int) float64 {
	return rates.Standard().TimelineFactor(weeks)
}

// ComplexityFactor is 0.85 + 0.12 per complexity point.
func ComplexityFactor(complexity int) float64 {
	// explicit conversion keeps the product from being fused into an FMA
	return 0.85 + float64(float64(complexity)*0.12)
}

// RevisionFactor is 0.90 + 0.08 per revision-risk point.
func RevisionFactor(risk int) float64 {
	return 0.9 + float64(float64(risk)*0.08)
}

// ClassifyRisk grades the unweighted sum of the two 1-5 scores:
// 7 and above is High, 5 and 6 Medium, otherwise Low.
func ClassifyRisk(complexity, revisionRisk int) RiskLevel {
	sum := complexity + revisionRisk
	switch {
	case sum >= 7:
		return RiskHigh
	case sum >= 5:
		return RiskMedium
	default:
		return RiskLow
	}
}

// roundMoney rounds half up. Inputs are never negative.
func roundMoney(v float64) int {
	if v < 0 {
		return 0
	}
	return int(math.Round(v))
}
