package intake

import (
	"fmt"
	"strings"

	"github.com/dshills/steelquote/internal/project"
)

// ValidationError describes a single rejected option.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks manual values before they are resolved. Resolve clamps
// whatever it is given, so this is where out-of-range input is reported.
func Validate(opts Options) []ValidationError {
	var errs []ValidationError

	if opts.ProjectType != nil {
		t := project.Type(strings.ToLower(strings.TrimSpace(*opts.ProjectType)))
		if !t.Valid() {
			errs = append(errs, ValidationError{"project_type", fmt.Sprintf("invalid: %q", *opts.ProjectType)})
		}
	}
	if opts.TimelineWeeks != nil && *opts.TimelineWeeks < 1 {
		errs = append(errs, ValidationError{"timeline_weeks", fmt.Sprintf("must be at least 1, got %d", *opts.TimelineWeeks)})
	}
	if opts.DrawingCount != nil && *opts.DrawingCount < 1 {
		errs = append(errs, ValidationError{"drawing_count", fmt.Sprintf("must be at least 1, got %d", *opts.DrawingCount)})
	}
	errs = append(errs, validateScore("complexity", opts.Complexity)...)
	errs = append(errs, validateScore("revision_risk", opts.RevisionRisk)...)

	seen := make(map[project.Service]bool)
	for i, s := range opts.Services {
		path := fmt.Sprintf("services[%d]", i)
		svc, ok := project.ParseService(s)
		switch {
		case !ok:
			errs = append(errs, ValidationError{path, fmt.Sprintf("unknown service: %q", s)})
		case seen[svc]:
			errs = append(errs, ValidationError{path, fmt.Sprintf("duplicate service: %q", s)})
		default:
			seen[svc] = true
		}
	}

	return errs
}

func validateScore(path string, v *int) []ValidationError {
	if v == nil || (*v >= project.MinScore && *v <= project.MaxScore) {
		return nil
	}
	return []ValidationError{{path, fmt.Sprintf("must be between %d and %d, got %d", project.MinScore, project.MaxScore, *v)}}
}

// Join flattens validation errors into one message.
func Join(errs []ValidationError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
