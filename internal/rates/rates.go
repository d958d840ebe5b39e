// Package rates loads the pricing tables used by the quote engine.
package rates

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dshills/steelquote/internal/project"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// DefaultCard is the rate card used when none is named.
const DefaultCard = "standard"

// Card is a named set of pricing tables.
type Card struct {
	Name            string             `yaml:"name" json:"name"`
	Version         int                `yaml:"version" json:"version"`
	Description     string             `yaml:"description" json:"description,omitempty"`
	Currency        string             `yaml:"currency" json:"currency"`
	PerDrawing      float64            `yaml:"per_drawing" json:"per_drawing"`
	ContingencyRate float64            `yaml:"contingency_rate" json:"contingency_rate"`
	TimelineTiers   []TimelineTier     `yaml:"timeline_tiers" json:"timeline_tiers"`
	TypeFactors     map[string]float64 `yaml:"type_factors" json:"type_factors"`
	Services        map[string]float64 `yaml:"services" json:"services"`
}

// TimelineTier applies Factor to timelines of at most MaxWeeks.
// Tiers are checked in ascending MaxWeeks order; longer timelines get 1.0.
type TimelineTier struct {
	MaxWeeks int     `yaml:"max_weeks" json:"max_weeks"`
	Factor   float64 `yaml:"factor" json:"factor"`
}

// TimelineFactor returns the surcharge tier for a timeline.
func (c *Card) TimelineFactor(weeks int) float64 {
	for _, tier := range c.TimelineTiers {
		if weeks <= tier.MaxWeeks {
			return tier.Factor
		}
	}
	return 1.0
}

// TypeFactor returns the multiplier for a project type, 1.0 when unknown.
func (c *Card) TypeFactor(t project.Type) float64 {
	if f, ok := c.TypeFactors[string(t)]; ok {
		return f
	}
	return 1.0
}

// ServicePrice returns the flat price of an optional service, 0 when unknown.
func (c *Card) ServicePrice(s project.Service) float64 {
	return c.Services[string(s)]
}

// Validate reports structural problems with a card.
func (c *Card) Validate() []error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, fmt.Errorf("name: required"))
	}
	if c.PerDrawing <= 0 {
		errs = append(errs, fmt.Errorf("per_drawing: must be > 0, got %v", c.PerDrawing))
	}
	if c.ContingencyRate < 0 || c.ContingencyRate > 1 {
		errs = append(errs, fmt.Errorf("contingency_rate: must be within [0,1], got %v", c.ContingencyRate))
	}
	for i, tier := range c.TimelineTiers {
		if tier.Factor <= 0 {
			errs = append(errs, fmt.Errorf("timeline_tiers[%d].factor: must be > 0", i))
		}
		if i > 0 && tier.MaxWeeks <= c.TimelineTiers[i-1].MaxWeeks {
			errs = append(errs, fmt.Errorf("timeline_tiers[%d].max_weeks: duplicate tier", i))
		}
	}
	for key, f := range c.TypeFactors {
		if !project.Type(key).Valid() {
			errs = append(errs, fmt.Errorf("type_factors.%s: unknown project type", key))
		}
		if f <= 0 {
			errs = append(errs, fmt.Errorf("type_factors.%s: must be > 0", key))
		}
	}
	for key, price := range c.Services {
		if !project.Service(key).Valid() {
			errs = append(errs, fmt.Errorf("services.%s: unknown service", key))
		}
		if price < 0 {
			errs = append(errs, fmt.Errorf("services.%s: must be >= 0", key))
		}
	}
	return errs
}

// LoadBuiltin loads a built-in rate card by name.
func LoadBuiltin(name string) (*Card, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("rates.LoadBuiltin: unknown rate card %q: %w", name, err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("rates.LoadBuiltin: parse %q: %w", name, err)
	}
	return c, nil
}

// LoadFile loads and validates a rate card from disk.
func LoadFile(path string) (*Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rates.LoadFile: %w", err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("rates.LoadFile: parse %s: %w", path, err)
	}
	if errs := c.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("rates.LoadFile: %s: %v", path, errs[0])
	}
	return c, nil
}

// Resolve loads a card by builtin name or, when ref looks like a path, from disk.
func Resolve(ref string) (*Card, error) {
	if ref == "" {
		ref = DefaultCard
	}
	if strings.HasSuffix(ref, ".yaml") || strings.HasSuffix(ref, ".yml") || strings.ContainsRune(ref, os.PathSeparator) {
		return LoadFile(ref)
	}
	return LoadBuiltin(ref)
}

var standard = sync.OnceValues(func() (*Card, error) {
	return LoadBuiltin(DefaultCard)
})

// Standard returns the shared baseline card. Callers must not modify it.
// It panics if the embedded card is broken.
func Standard() *Card {
	c, err := standard()
	if err != nil {
		panic(err)
	}
	return c
}

// List returns the names of all built-in rate cards.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") {
			names = append(names, strings.TrimSuffix(n, ".yaml"))
		}
	}
	sort.Strings(names)
	return names, nil
}

func parse(data []byte) (*Card, error) {
	var c Card
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	sort.SliceStable(c.TimelineTiers, func(i, j int) bool {
		return c.TimelineTiers[i].MaxWeeks < c.TimelineTiers[j].MaxWeeks
	})
	return &c, nil
}
