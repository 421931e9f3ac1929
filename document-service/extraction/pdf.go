package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor pulls the text layer out of PDF files page by page. It never
// rasterizes pages; image-only PDFs yield empty text and are left to the
// fallback chain.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) ValidForContentType(contentType string) bool {
	return contentType == "application/pdf"
}

func (e *PDFExtractor) UsesOCR() bool { return false }

func (e *PDFExtractor) UsesAudioTranscription() bool { return false }

// ExtractText parses the document on its own goroutine so a large file
// cannot block the caller past context cancellation.
func (e *PDFExtractor) ExtractText(ctx context.Context, r io.Reader, filename, contentType string) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{ContentType: contentType}, fmt.Errorf("failed to read stream for %s: %v", filename, err)
	}

	type parseResult struct {
		text string
		err  error
	}

	resultCh := make(chan parseResult, 1)

	go func() {
		// The pdf package panics on malformed files
		defer func() {
			if rec := recover(); rec != nil {
				resultCh <- parseResult{err: fmt.Errorf("pdf parse failed for %s: %v", filename, rec)}
			}
		}()

		reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			resultCh <- parseResult{err: fmt.Errorf("failed to open pdf %s: %v", filename, err)}
			return
		}

		var sb strings.Builder
		for i := 1; i <= reader.NumPage(); i++ {
			page := reader.Page(i)
			if page.V.IsNull() {
				continue
			}

			pageText, err := page.GetPlainText(nil)
			if err != nil {
				// A broken page does not abort the rest of the document
				continue
			}

			sb.WriteString(pageText)
			sb.WriteString("\n")
		}

		resultCh <- parseResult{text: sb.String()}
	}()

	select {
	case <-ctx.Done():
		return Result{ContentType: contentType}, ctx.Err()
	case parsed := <-resultCh:
		if parsed.err != nil {
			return Result{ContentType: contentType}, parsed.err
		}
		text := parsed.text
		return Result{Text: &text, ContentType: contentType}, nil
	}
}
