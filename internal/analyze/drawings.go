package analyze

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	baselineDrawings = 30
	minDrawings      = 15
	maxDrawings      = 500
	maxSentenceBonus = 25
)

var (
	// "12 shop drawings", "20 GA drawings", "8 detailing drawings", "1 drawing"
	drawingPattern = regexp.MustCompile(`(?i)\b(\d+)[ \t]*(?:(?:shop|ga|detail(?:ing)?)[ \t]+)*drawings?\b`)
	// "40 sheets", "6 plans"
	sheetPattern = regexp.MustCompile(`(?i)\b(\d+)[ \t]*(?:sheets?|plans?)\b`)
)

// scopeWeight is one keyword's contribution to the drawing estimate.
type scopeWeight struct {
	keyword string
	weight  int
}

var scopeWeights = []scopeWeight{
	{"stair", 4},
	{"seismic", 6},
	{"connection", 5},
	{"clash", 4},
	{"ifc", 3},
	{"bim", 3},
	{"fabrication", 8},
	{"industrial", 10},
	{"commercial", 7},
	{"platform", 4},
	{"truss", 5},
}

// ExplicitDrawingCount collects every stated drawing or sheet count in the
// document and returns the largest, on the assumption that later mentions
// refine earlier rough counts. It reports false when nothing is stated.
func ExplicitDrawingCount(text string) (int, bool) {
	best, found := 0, false
	for _, re := range []*regexp.Regexp{drawingPattern, sheetPattern} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if !found || n > best {
				best, found = n, true
			}
		}
	}
	if found && best < 1 {
		best = 1
	}
	return best, found
}

// EstimateDrawingCount sizes the job from scope keywords when no count is
// stated: a baseline of 30, plus a fixed weight per keyword present, plus
// two per sentence capped at 25, clamped to [15, 500]. Empty text has
// nothing to size and yields the floor.
func EstimateDrawingCount(text string) int {
	normalized := strings.ToLower(Normalize(text))
	if normalized == "" {
		return minDrawings
	}

	total := baselineDrawings
	for _, sw := range scopeWeights {
		if strings.Contains(normalized, sw.keyword) {
			total += sw.weight
		}
	}
	total += min(SentenceCount(normalized)*2, maxSentenceBonus)

	return max(minDrawings, min(total, maxDrawings))
}
