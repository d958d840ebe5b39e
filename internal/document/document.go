// Package document acquires requirements text from files: plain text and
// Markdown are read as-is, PDFs are extracted page by page. Analysis only
// ever sees the complete string produced here.
package document

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrTextUnavailable reports that no text could be obtained from a source:
// the file is unreadable, its format is unsupported, or a PDF has no
// extractable text layer.
var ErrTextUnavailable = errors.New("text unavailable")

// Format is the detected source format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

var extensions = map[string]Format{
	".txt":      FormatText,
	".text":     FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".pdf":      FormatPDF,
}

// Document holds acquired requirements text with its metadata.
type Document struct {
	Path   string
	Name   string
	Format Format
	Raw    string
	Pages  int
	Hash   string
}

// FormatOf maps a file name to its format by extension.
func FormatOf(path string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Load reads a requirements file. PDF extraction checks ctx between pages.
func Load(ctx context.Context, path string) (*Document, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("document.Load: unsupported format %q: %w", filepath.Ext(path), ErrTextUnavailable)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document.Load: %w: %w", ErrTextUnavailable, err)
	}
	return Parse(ctx, filepath.Base(path), format, data, path)
}

// Parse builds a Document from bytes already in memory, such as an upload.
// path may be empty.
func Parse(ctx context.Context, name string, format Format, data []byte, path string) (*Document, error) {
	doc := &Document{
		Path:   path,
		Name:   name,
		Format: format,
		Pages:  1,
		Hash:   Hash(data),
	}
	switch format {
	case FormatText, FormatMarkdown:
		doc.Raw = string(data)
	case FormatPDF:
		text, pages, err := extractPDF(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("document.Parse: %s: %w", name, err)
		}
		doc.Raw, doc.Pages = text, pages
	default:
		return nil, fmt.Errorf("document.Parse: unsupported format %q: %w", format, ErrTextUnavailable)
	}
	return doc, nil
}

// FromText wraps pasted text.
func FromText(name, text string) *Document {
	return &Document{
		Name:   name,
		Format: FormatText,
		Raw:    text,
		Pages:  1,
		Hash:   Hash([]byte(text)),
	}
}

// Hash returns the "sha256:<hex>" digest of data.
func Hash(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

func extractPDF(ctx context.Context, data []byte) (text string, pages int, err error) {
	// The reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
			err = fmt.Errorf("%w: malformed pdf: %v", ErrTextUnavailable, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrTextUnavailable, err)
	}

	var b strings.Builder
	pages = r.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		s, err := p.GetPlainText(nil)
		if err != nil {
			return "", 0, fmt.Errorf("%w: page %d: %w", ErrTextUnavailable, i, err)
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}

	text = b.String()
	if strings.TrimSpace(text) == "" {
		return "", 0, fmt.Errorf("%w: no extractable text layer", ErrTextUnavailable)
	}
	return text, pages, nil
}
