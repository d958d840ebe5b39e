package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/steelquote/internal/analyze"
	"github.com/dshills/steelquote/internal/document"
	"github.com/dshills/steelquote/internal/intake"
	"github.com/dshills/steelquote/internal/quote"
	"github.com/dshills/steelquote/internal/rates"
	"github.com/dshills/steelquote/internal/report"
)

type quoteFlags struct {
	outputFlags
	options  string
	rateCard string
	failOn   string

	client     string
	typ        string
	timeline   int
	drawings   int
	complexity int
	risk       int
	services   []string
}

func newQuoteCmd() *cobra.Command {
	f := &quoteFlags{}

	cmd := &cobra.Command{
		Use:   "quote [requirements-file]",
		Short: "Price a detailing project from a document and/or manual options",
		Long: `Analyzes an optional requirements document, overlays manual options from
--options and the attribute flags (flags win), and prints a quotation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runQuote(cmd, path, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "text", "Output format: json, md or text")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.BoolVar(&f.verbose, "verbose", false, "Print processing steps to stderr")
	flags.BoolVar(&f.redact, "redact", true, "Mask contact details and credentials in echoed requirements text")
	flags.StringVar(&f.options, "options", "", "YAML or JSON file of manual options")
	flags.StringVar(&f.rateCard, "rates", rates.DefaultCard, "Built-in rate card name or path to a rate card YAML file")
	flags.StringVar(&f.failOn, "fail-on", "", "Exit 2 when the risk level is at or above: low, medium, high")

	flags.StringVar(&f.client, "client", "", "Client name")
	flags.StringVar(&f.typ, "type", "", "Project type: commercial, industrial, residential, infrastructure")
	flags.IntVar(&f.timeline, "timeline", 0, "Timeline in weeks")
	flags.IntVar(&f.drawings, "drawings", 0, "Number of drawings")
	flags.IntVar(&f.complexity, "complexity", 0, "Complexity score 1-5")
	flags.IntVar(&f.risk, "risk", 0, "Revision risk score 1-5")
	flags.StringSliceVar(&f.services, "services", nil, "Optional services (comma-separated)")

	return cmd
}

func runQuote(cmd *cobra.Command, path string, f *quoteFlags) error {
	verbose := verboseLogger(f.verbose)
	if err := checkFormat(f.format); err != nil {
		return err
	}
	if f.failOn != "" && riskOrder(f.failOn) < 0 {
		return exitError(exitInput, "invalid --fail-on value: %s (valid: low, medium, high)", f.failOn)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Options file first, then flags on top.
	var opts intake.Options
	if f.options != "" {
		verbose("Loading options: %s", f.options)
		loaded, err := intake.LoadOptions(f.options)
		if err != nil {
			return exitError(exitInput, "failed to load options: %v", err)
		}
		opts = loaded
	}
	opts = opts.Overlay(flagOptions(cmd, f))

	if errs := intake.Validate(opts); len(errs) > 0 {
		return exitError(exitInvalidOption, "invalid options: %s", intake.Join(errs))
	}

	verbose("Loading rate card: %s", f.rateCard)
	card, err := rates.Resolve(f.rateCard)
	if err != nil {
		return exitError(exitInput, "failed to load rate card: %v", err)
	}

	req := report.Request{Options: opts, Card: card}
	if path != "" {
		verbose("Loading document: %s", path)
		doc, err := loadDocument(ctx, path, cmd.InOrStdin())
		if err != nil {
			return err
		}
		req.Input = inputFor(doc)
		req.Analysis = analyze.Analyze(doc.Raw)
	} else if opts.Requirements != nil {
		doc := document.FromText("options", *opts.Requirements)
		req.Input = inputFor(doc)
		req.Analysis = analyze.Analyze(doc.Raw)
	}
	if req.Analysis != nil {
		for _, line := range req.Analysis.Lines() {
			verbose("  %s", line)
		}
	}

	rep := report.Build(version, req)
	if errs := report.Validate(rep); len(errs) > 0 {
		return exitError(1, "internal error: quote failed validation: %v", errs[0])
	}
	verbose("Quote: %d (%s risk)", rep.Quote.RecommendedQuote, rep.Quote.RiskLevel)

	if err := writeReport(rep, &f.outputFlags, cmd.OutOrStdout(), verbose); err != nil {
		return err
	}

	if f.failOn != "" && riskMeetsThreshold(rep.Quote.RiskLevel, f.failOn) {
		return exitError(exitFailOn, "risk level %s meets fail threshold %s", rep.Quote.RiskLevel, f.failOn)
	}
	return nil
}

// flagOptions collects the attribute flags the user explicitly set.
func flagOptions(cmd *cobra.Command, f *quoteFlags) intake.Options {
	var o intake.Options
	flags := cmd.Flags()
	if flags.Changed("client") {
		o.ClientName = &f.client
	}
	if flags.Changed("type") {
		o.ProjectType = &f.typ
	}
	if flags.Changed("timeline") {
		o.TimelineWeeks = &f.timeline
	}
	if flags.Changed("drawings") {
		o.DrawingCount = &f.drawings
	}
	if flags.Changed("complexity") {
		o.Complexity = &f.complexity
	}
	if flags.Changed("risk") {
		o.RevisionRisk = &f.risk
	}
	if flags.Changed("services") {
		o.Services = f.services
	}
	return o
}

func riskOrder(level string) int {
	switch strings.ToLower(level) {
	case "low":
		return 0
	case "medium":
		return 1
	case "high":
		return 2
	}
	return -1
}

func riskMeetsThreshold(level quote.RiskLevel, failOn string) bool {
	threshold := riskOrder(failOn)
	if threshold < 0 {
		return false
	}
	return riskOrder(string(level)) >= threshold
}
