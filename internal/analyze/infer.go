package analyze

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/steelquote/internal/project"
)

const defaultTimelineWeeks = project.DefaultTimelineWeeks

// typeRule pairs a project type with the terms that signal it.
type typeRule struct {
	projectType project.Type
	pattern     *regexp.Regexp
}

// Checked in order; the first match wins. Terms are whole words, plurals
// spelled out, so "handrail", "stair rails" and "shop processing" stay out.
// "manufactur" is a stem and takes any ending.
var typeRules = []typeRule{
	{project.TypeIndustrial, regexp.MustCompile(`(?i)\b(?:industrial|plants?|factory|factories|process|refinery|refineries|manufactur\w*|warehouses?)\b`)},
	{project.TypeResidential, regexp.MustCompile(`(?i)\b(?:residential|apartments?|housing|condos?|condominiums?|townhouses?|dwellings?)\b`)},
	{project.TypeInfrastructure, regexp.MustCompile(`(?i)\b(?:infrastructure|bridges?|metro|rail|railways?|railroads?|airports?|highways?|tunnels?|transit)\b`)},
}

// serviceRule pairs an optional service with the terms that request it.
type serviceRule struct {
	service project.Service
	pattern *regexp.Regexp
}

var serviceRules = []serviceRule{
	{project.ServiceConnectionDesign, regexp.MustCompile(`(?i)connection[ \t]+(?:design|calc)|seismic[ \t]+design|delegated[ \t]+design`)},
	{project.ServiceClashReview, regexp.MustCompile(`(?i)clash|interference|collision[ \t]+check`)},
	{project.ServiceBIMCoordination, regexp.MustCompile(`(?i)\bbim\b|model[ \t]+coordination|navisworks|federated[ \t]+model`)},
	{project.ServiceShopDrawingQC, regexp.MustCompile(`(?i)\bqa\b|\bqc\b|qa/qc|quality[ \t]+(?:assurance|control)|independent[ \t]+check`)},
}

// scoreRule is a keyword heuristic for a 1-5 rating: start at 2, add 2 when
// any high-severity term appears and 1 when any secondary term appears.
type scoreRule struct {
	high      *regexp.Regexp
	secondary *regexp.Regexp
}

var (
	complexityRule = scoreRule{
		high:      regexp.MustCompile(`(?i)seismic|complex|truss|heavy[ \t]+industrial|retrofit`),
		secondary: regexp.MustCompile(`(?i)ifc|clash|coordination`),
	}
	revisionRule = scoreRule{
		high:      regexp.MustCompile(`(?i)frequent[ \t]+(?:revision|change)|\btbd\b|client[ \t]+change`),
		secondary: regexp.MustCompile(`(?i)fast[- \t]?track|urgent|compressed`),
	}
)

func (r scoreRule) score(text string) int {
	s := project.DefaultScore
	if r.high.MatchString(text) {
		s += 2
	}
	if r.secondary.MatchString(text) {
		s++
	}
	return project.ClampScore(s)
}

var (
	weeksPattern     = regexp.MustCompile(`(?i)(\d+)[ \t]*-?[ \t]*(?:weeks?|wks?)\b`)
	daysPattern      = regexp.MustCompile(`(?i)(\d+)[ \t]*-?[ \t]*(?:(?:calendar|working|business)[ \t]+)?days?\b`)
	headerPattern    = regexp.MustCompile(`(?i)^[ \t]*(?:project|proposal)[ \t]*[:=\-][ \t]*(.+)$`)
	firstLineBreaker = regexp.MustCompile(`\r\n|\r|\n`)
)

// InferType returns the first project type whose terms appear, checking
// industrial, then residential, then infrastructure. The bool is false
// when nothing matched and the commercial default was used.
func InferType(text string) (project.Type, bool) {
	for _, rule := range typeRules {
		if rule.pattern.MatchString(text) {
			return rule.projectType, true
		}
	}
	return project.TypeCommercial, false
}

// InferServices tests each optional service independently.
func InferServices(text string) []project.Service {
	var out []project.Service
	for _, rule := range serviceRules {
		if rule.pattern.MatchString(text) {
			out = append(out, rule.service)
		}
	}
	return out
}

// InferComplexity prefers a labeled "complexity" rating and otherwise
// scores engineering difficulty from keywords. The bool reports a label.
func InferComplexity(text string) (int, bool) {
	if n, ok := complexityLabel.Score(text); ok {
		return n, true
	}
	return complexityRule.score(text), false
}

// InferRevisionRisk prefers a labeled "revision risk" or "risk" rating and
// otherwise scores expected scope churn from keywords.
func InferRevisionRisk(text string) (int, bool) {
	if n, ok := riskLabel.Score(text); ok {
		return n, true
	}
	return revisionRule.score(text), false
}

// InferTimeline looks for "<N> weeks", then "<N> days" (rounded up to whole
// weeks), first in a labeled timeline value and then in the whole text.
// Without a match it returns the 8-week default and false.
func InferTimeline(text string) (int, bool) {
	var sources []string
	if v, ok := timelineLabel.Find(text); ok {
		sources = append(sources, v)
	}
	sources = append(sources, text)

	for _, src := range sources {
		if weeks, ok := durationWeeks(src); ok {
			return weeks, true
		}
	}
	return defaultTimelineWeeks, false
}

func durationWeeks(s string) (int, bool) {
	if m := weeksPattern.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return project.AtLeastOne(n), true
		}
	}
	if m := daysPattern.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return project.AtLeastOne((n + 6) / 7), true
		}
	}
	return 0, false
}

// InferClientName prefers a labeled client, otherwise reads a
// "Project:" or "Proposal:" header on the first line only.
func InferClientName(text string) (string, bool) {
	if v, ok := clientLabel.Find(text); ok {
		return v, true
	}
	first := strings.TrimSpace(firstLineBreaker.Split(text, 2)[0])
	if m := headerPattern.FindStringSubmatch(first); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			return v, true
		}
	}
	return "", false
}
