package analyze

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	sentenceSplit     = regexp.MustCompile(`[.!?]`)
	leadingInt        = regexp.MustCompile(`^\d+`)
)

// A bare hyphen joins words ("Customer-furnished"), so '-' only separates
// when spaced on at least one side.
const labelSeparator = `(?:[ \t]*[:=][ \t]*|[ \t]+-[ \t]*|-[ \t]+)`

// Normalize collapses every whitespace run to a single space and trims.
// Label extraction works on the raw text instead, since it needs line breaks.
func Normalize(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// SentenceCount counts the non-empty segments between '.', '!' and '?'.
func SentenceCount(text string) int {
	n := 0
	for _, seg := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}

// Label matches "<label><sep><value>" for a set of label synonyms, where
// sep is ':', '=' or a spaced '-'. The value runs to the next line break,
// comma, period or semicolon. Labels match case-insensitively at the start
// of a line or right after a sentence break, which covers PDF text whose
// line breaks were lost. A label in the middle of a sentence is prose.
// At any position, synonyms are tried in the order given.
type Label struct {
	pattern *regexp.Regexp
}

// NewLabel compiles a label matcher. Whitespace inside a synonym matches
// any run of spaces or tabs.
func NewLabel(names ...string) Label {
	quoted := make([]string, len(names))
	for i, name := range names {
		parts := strings.Fields(name)
		for j, p := range parts {
			parts[j] = regexp.QuoteMeta(p)
		}
		quoted[i] = strings.Join(parts, `[ \t]+`)
	}
	return Label{
		pattern: regexp.MustCompile(`(?im)(?:^|[.;!?][ \t]+)[ \t]*(?:` + strings.Join(quoted, "|") + `)` + labelSeparator + `([^\r\n,.;]*)`),
	}
}

// Find returns the trimmed value of the first labeled line.
func (l Label) Find(text string) (string, bool) {
	m := l.pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return "", false
	}
	return v, true
}

// Score returns a labeled 1-5 rating such as "Complexity: 4" or "Risk = 3/5".
// Values outside the range are rejected so callers fall back to heuristics.
func (l Label) Score(text string) (int, bool) {
	v, ok := l.Find(text)
	if !ok {
		return 0, false
	}
	digits := leadingInt.FindString(v)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

// LabeledValue is a one-off Label lookup.
func LabeledValue(text string, labels ...string) (string, bool) {
	if len(labels) == 0 {
		return "", false
	}
	return NewLabel(labels...).Find(text)
}

var (
	clientLabel     = NewLabel("client name", "client", "customer")
	timelineLabel   = NewLabel("timeline", "delivery time", "duration")
	complexityLabel = NewLabel("complexity")
	riskLabel       = NewLabel("revision risk", "risk")
)
