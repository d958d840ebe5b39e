// Package quote prices a detailing project from its resolved attributes.
package quote

// RiskLevel classifies delivery risk from complexity and revision risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Valid reports whether r is a known risk level.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Result is the priced quote. Monetary values are whole currency units.
type Result struct {
	EstimatedCost    int       `json:"estimated_cost"`
	Contingency      int       `json:"contingency"`
	RecommendedQuote int       `json:"recommended_quote"`
	RiskLevel        RiskLevel `json:"risk_level"`
	Recommendations  []string  `json:"recommendations"`
	Breakdown        Breakdown `json:"breakdown"`
}

// Breakdown records the intermediate terms of the pricing formula.
type Breakdown struct {
	RateCard         string     `json:"rate_card"`
	PerDrawing       float64    `json:"per_drawing"`
	BaseCost         float64    `json:"base_cost"`
	TimelineFactor   float64    `json:"timeline_factor"`
	ComplexityFactor float64    `json:"complexity_factor"`
	RevisionFactor   float64    `json:"revision_factor"`
	TypeFactor       float64    `json:"type_factor"`
	Subtotal         float64    `json:"subtotal"`
	OptionsCost      float64    `json:"options_cost"`
	Options          []LineItem `json:"options,omitempty"`
	ContingencyRate  float64    `json:"contingency_rate"`
}

// LineItem is one priced optional service.
type LineItem struct {
	Service string  `json:"service"`
	Price   float64 `json:"price"`
}
