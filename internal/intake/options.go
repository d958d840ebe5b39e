// Package intake merges the structured options payload with analyzer
// output into fully resolved project attributes.
package intake

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/steelquote/internal/analyze"
	"github.com/dshills/steelquote/internal/project"
)

// Options is the manual input a user supplies alongside, or instead of, a
// requirements document. A nil field was left blank.
type Options struct {
	ClientName    *string  `json:"client_name,omitempty" yaml:"client_name,omitempty"`
	ProjectType   *string  `json:"project_type,omitempty" yaml:"project_type,omitempty"`
	TimelineWeeks *int     `json:"timeline_weeks,omitempty" yaml:"timeline_weeks,omitempty"`
	DrawingCount  *int     `json:"drawing_count,omitempty" yaml:"drawing_count,omitempty"`
	Complexity    *int     `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	RevisionRisk  *int     `json:"revision_risk,omitempty" yaml:"revision_risk,omitempty"`
	Requirements  *string  `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Services      []string `json:"services,omitempty" yaml:"services,omitempty"`
}

// LoadOptions reads an options file. YAML and JSON are both accepted;
// unknown keys are rejected.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("intake.LoadOptions: %w", err)
	}
	opts, err := ParseOptions(data)
	if err != nil {
		return Options{}, fmt.Errorf("intake.LoadOptions: %s: %w", path, err)
	}
	return opts, nil
}

// ParseOptions decodes a YAML or JSON options payload. Empty input yields
// empty options.
func ParseOptions(data []byte) (Options, error) {
	var opts Options
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("parse options: %w", err)
	}
	return opts, nil
}

// Overlay returns o with every field set in top replacing its counterpart.
// Services are replaced, not merged, when top selects any.
func (o Options) Overlay(top Options) Options {
	out := o
	if top.ClientName != nil {
		out.ClientName = top.ClientName
	}
	if top.ProjectType != nil {
		out.ProjectType = top.ProjectType
	}
	if top.TimelineWeeks != nil {
		out.TimelineWeeks = top.TimelineWeeks
	}
	if top.DrawingCount != nil {
		out.DrawingCount = top.DrawingCount
	}
	if top.Complexity != nil {
		out.Complexity = top.Complexity
	}
	if top.RevisionRisk != nil {
		out.RevisionRisk = top.RevisionRisk
	}
	if top.Requirements != nil {
		out.Requirements = top.Requirements
	}
	if len(top.Services) > 0 {
		out.Services = top.Services
	}
	return out
}

// IsZero reports whether nothing was supplied.
func (o Options) IsZero() bool {
	return o.ClientName == nil && o.ProjectType == nil && o.TimelineWeeks == nil &&
		o.DrawingCount == nil && o.Complexity == nil && o.RevisionRisk == nil &&
		o.Requirements == nil && len(o.Services) == 0
}

// Resolve produces the attributes handed to the quote engine. Manual
// values override inferred ones and inferred values override the form
// defaults. Services are the union of selected and inferred ones. A nil
// analysis means no document was supplied.
func Resolve(analysis *analyze.Result, opts Options) project.Attributes {
	attrs := project.Default()

	var inferred []project.Service
	if analysis != nil {
		a := analysis.Attributes
		attrs.Type = a.Type
		attrs.TimelineWeeks = a.TimelineWeeks
		attrs.DrawingCount = a.DrawingCount
		attrs.Complexity = a.Complexity
		attrs.RevisionRisk = a.RevisionRisk
		attrs.Requirements = a.Requirements
		if analysis.ClientDetected() {
			attrs.ClientName = a.ClientName
		}
		inferred = analysis.InferredServices
	}

	if opts.ClientName != nil {
		attrs.ClientName = *opts.ClientName
	}
	if opts.ProjectType != nil {
		attrs.Type = project.ParseType(*opts.ProjectType)
	}
	if opts.TimelineWeeks != nil {
		attrs.TimelineWeeks = *opts.TimelineWeeks
	}
	if opts.DrawingCount != nil {
		attrs.DrawingCount = *opts.DrawingCount
	}
	if opts.Complexity != nil {
		attrs.Complexity = *opts.Complexity
	}
	if opts.RevisionRisk != nil {
		attrs.RevisionRisk = *opts.RevisionRisk
	}
	if opts.Requirements != nil {
		attrs.Requirements = *opts.Requirements
	}

	attrs.Services = unionServices(opts.Services, inferred)
	attrs.Normalize()
	return attrs
}

// unionServices returns the known services present in either list, in
// catalogue order.
func unionServices(selected []string, inferred []project.Service) []project.Service {
	want := make(map[project.Service]bool, len(project.Services))
	for _, s := range selected {
		if svc, ok := project.ParseService(s); ok {
			want[svc] = true
		}
	}
	for _, svc := range inferred {
		want[svc] = true
	}
	var out []project.Service
	for _, svc := range project.Services {
		if want[svc] {
			out = append(out, svc)
		}
	}
	return out
}
