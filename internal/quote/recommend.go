package quote

import (
	"regexp"

	"github.com/dshills/steelquote/internal/project"
)

var (
	coordinationScope = regexp.MustCompile(`(?i)ifc|coordination|clash|bim`)
	engineeringScope  = regexp.MustCompile(`(?i)connection|design|seismic`)
)

const (
	NoteCompressedTimeline = "Compressed timeline detected: include fast-track surcharge and staged deliverables."
	NoteHighComplexity     = "High complexity: allocate senior Tekla modeler hours for early model health checks."
	NoteHighRevisionRisk   = "High revision risk: add revision buffer in proposal terms and assumptions."
	NoteCoordinationScope  = "Coordination-related scope found: schedule recurring coordination checkpoints."
	NoteEngineeringScope   = "Engineering-sensitive scope found: validate design responsibility boundaries clearly."
	NoteStandardScope      = "Scope appears standard: proceed with baseline Tekla detailing package and one revision cycle."
)

// Recommendations builds the scope narrative. Every matching check
// contributes a line, in a fixed order; when none match a single
// standard-scope line is returned.
func Recommendations(attrs project.Attributes) []string {
	var notes []string

	if attrs.TimelineWeeks <= 4 {
		notes = append(notes, NoteCompressedTimeline)
	}
	if attrs.Complexity >= 4 {
		notes = append(notes, NoteHighComplexity)
	}
	if attrs.RevisionRisk >= 4 {
		notes = append(notes, NoteHighRevisionRisk)
	}
	if coordinationScope.MatchString(attrs.Requirements) {
		notes = append(notes, NoteCoordinationScope)
	}
	if engineeringScope.MatchString(attrs.Requirements) {
		notes = append(notes, NoteEngineeringScope)
	}

	if len(notes) == 0 {
		notes = append(notes, NoteStandardScope)
	}
	return notes
}
