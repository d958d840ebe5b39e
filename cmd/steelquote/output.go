package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dshills/steelquote/internal/document"
	"github.com/dshills/steelquote/internal/render"
	"github.com/dshills/steelquote/internal/report"
)

// outputFlags are shared by the analyze and quote commands.
type outputFlags struct {
	format  string
	out     string
	verbose bool
	redact  bool
}

func verboseLogger(enabled bool) func(msg string, args ...any) {
	logger := log.New(os.Stderr, "", 0)
	return func(msg string, args ...any) {
		if enabled {
			logger.Printf(msg, args...)
		}
	}
}

// loadDocument reads a requirements file, or stdin when path is "-".
func loadDocument(ctx context.Context, path string, stdin io.Reader) (*document.Document, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, exitError(exitInput, "failed to read stdin: %v", err)
		}
		return document.FromText("stdin", string(data)), nil
	}

	doc, err := document.Load(ctx, path)
	if err != nil {
		if errors.Is(err, document.ErrTextUnavailable) {
			return nil, exitError(exitUnavailable, "could not analyze document: %v", err)
		}
		return nil, exitError(exitInput, "failed to load document: %v", err)
	}
	return doc, nil
}

func checkFormat(format string) error {
	switch format {
	case "json", "md", "text":
		return nil
	}
	return exitError(exitInput, "unknown format: %s", format)
}

// writeReport renders rep in the requested format to --out or w.
func writeReport(rep *report.Report, f *outputFlags, w io.Writer, verbose func(string, ...any)) error {
	if f.redact {
		rep.Redact()
	}

	var output string
	switch f.format {
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		output = string(data) + "\n"
	case "md":
		output = render.Markdown(rep)
	case "text":
		output = render.Text(rep)
	default:
		return exitError(exitInput, "unknown format: %s", f.format)
	}

	if f.out != "" {
		verbose("Writing output to %s", f.out)
		if err := os.WriteFile(f.out, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err := io.WriteString(w, output)
	return err
}

func inputFor(doc *document.Document) report.Input {
	if doc == nil {
		return report.Input{}
	}
	return report.Input{Document: doc.Name, DocumentHash: doc.Hash, Pages: doc.Pages}
}
