// Package project defines the resolved attributes of a detailing project.
package project

const (
	MinScore = 1
	MaxScore = 5

	DefaultTimelineWeeks = 8
	DefaultDrawingCount  = 30
	DefaultScore         = 2
)

// Attributes is the fully resolved input to pricing.
type Attributes struct {
	ClientName    string    `json:"client_name" yaml:"client_name"`
	Type          Type      `json:"project_type" yaml:"project_type"`
	TimelineWeeks int       `json:"timeline_weeks" yaml:"timeline_weeks"`
	DrawingCount  int       `json:"drawing_count" yaml:"drawing_count"`
	Complexity    int       `json:"complexity" yaml:"complexity"`
	RevisionRisk  int       `json:"revision_risk" yaml:"revision_risk"`
	Requirements  string    `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Services      []Service `json:"services" yaml:"services"`
}

// Default returns the values a blank form starts from.
func Default() Attributes {
	return Attributes{
		Type:          TypeCommercial,
		TimelineWeeks: DefaultTimelineWeeks,
		DrawingCount:  DefaultDrawingCount,
		Complexity:    DefaultScore,
		RevisionRisk:  DefaultScore,
	}
}

// Clamp enforces the numeric invariants in place: scores in [1,5],
// timeline and drawing count at least 1.
func (a *Attributes) Clamp() {
	a.TimelineWeeks = AtLeastOne(a.TimelineWeeks)
	a.DrawingCount = AtLeastOne(a.DrawingCount)
	a.Complexity = ClampScore(a.Complexity)
	a.RevisionRisk = ClampScore(a.RevisionRisk)
}

// Normalize applies Clamp, maps the project type onto the closed set and
// drops duplicate services. Unknown services are kept; they price at zero.
func (a *Attributes) Normalize() {
	a.Clamp()
	a.Type = ParseType(string(a.Type))
	a.Services = Dedupe(a.Services)
}

// HasService reports whether s is selected.
func (a Attributes) HasService(s Service) bool {
	for _, sel := range a.Services {
		if sel == s {
			return true
		}
	}
	return false
}

// ClampScore limits a 1-5 rating to its range.
func ClampScore(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// AtLeastOne floors a count at 1.
func AtLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// Dedupe drops repeated services, keeping first-seen order.
func Dedupe(services []Service) []Service {
	if len(services) == 0 {
		return nil
	}
	seen := make(map[Service]bool, len(services))
	out := make([]Service, 0, len(services))
	for _, s := range services {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
