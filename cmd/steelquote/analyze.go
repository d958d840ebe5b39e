package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dshills/steelquote/internal/analyze"
	"github.com/dshills/steelquote/internal/report"
)

func newAnalyzeCmd() *cobra.Command {
	f := &outputFlags{}

	cmd := &cobra.Command{
		Use:   "analyze <requirements-file>",
		Short: "Infer project attributes from a requirements document",
		Long: `Reads a .txt, .md or .pdf requirements document (or "-" for stdin) and
reports the drawing count, timeline, complexity, revision risk, project type
and client name it could detect or estimate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "text", "Output format: json, md or text")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.BoolVar(&f.verbose, "verbose", false, "Print processing steps to stderr")
	flags.BoolVar(&f.redact, "redact", true, "Mask contact details and credentials in echoed requirements text")

	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, f *outputFlags) error {
	verbose := verboseLogger(f.verbose)
	if err := checkFormat(f.format); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	verbose("Loading document: %s", path)
	doc, err := loadDocument(ctx, path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	verbose("Loaded %s (%d page(s), %s)", doc.Name, doc.Pages, doc.Hash)

	result := analyze.Analyze(doc.Raw)
	for _, line := range result.Lines() {
		verbose("  %s", line)
	}

	rep := report.Analysis(version, inputFor(doc), result)
	return writeReport(rep, f, cmd.OutOrStdout(), verbose)
}
