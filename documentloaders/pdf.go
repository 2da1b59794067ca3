package documentloaders

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/sevigo/docpipe/schema"
)

// PDFLoader extracts plain text from a PDF file, one document per page.
// Pages without extractable text are skipped.
type PDFLoader struct {
	path   string
	logger *slog.Logger
}

// PDFLoaderOption configures a PDFLoader.
type PDFLoaderOption func(*PDFLoader)

// WithPDFLogger sets a custom logger for the loader.
func WithPDFLogger(logger *slog.Logger) PDFLoaderOption {
	return func(l *PDFLoader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewPDF creates a loader for a single PDF file.
func NewPDF(path string, opts ...PDFLoaderOption) *PDFLoader {
	loader := &PDFLoader{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Load extracts text page by page. Each document carries "source",
// "page" and "total_pages" metadata.
func (l *PDFLoader) Load(ctx context.Context) ([]schema.Document, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", l.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat PDF %s: %w", l.path, err)
	}

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", l.path, err)
	}

	numPages := reader.NumPage()
	documents := make([]schema.Document, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			l.logger.Warn("Skipping null PDF page", "page", i, "path", l.path)
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			l.logger.Warn("Failed to extract page text, skipping",
				"page", i, "path", l.path, "error", err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		documents = append(documents, schema.NewDocument(text, map[string]any{
			schema.MetaSource: l.path,
			"page":            i,
			"total_pages":     numPages,
		}))
	}

	l.logger.Debug("PDF loaded", "path", l.path, "pages", numPages, "documents", len(documents))
	return documents, nil
}
