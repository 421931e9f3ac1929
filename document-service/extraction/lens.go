package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"cloudlens-backend/shared/utils/contenttype"
)

// Options carries the extraction configuration injected at construction
type Options struct {
	// MaxTextLength caps extracted text; zero or negative means unlimited
	MaxTextLength int

	// EnableOCR gates extractors that depend on an OCR engine
	EnableOCR bool

	// EnableAudioTranscription gates extractors that depend on a
	// transcription service
	EnableAudioTranscription bool
}

// Lens sequences extractors in registration order and falls back to the next
// candidate whenever one fails or produces blank text. Registration order is
// a correctness concern: cheap exact extraction must come before expensive
// approximate extraction, and several extractors can claim the same type.
type Lens struct {
	opts       Options
	extractors []Extractor
}

// NewLens creates a Lens over the given extractors. The order of the slice
// is the priority order.
func NewLens(opts Options, extractors ...Extractor) *Lens {
	return &Lens{opts: opts, extractors: extractors}
}

// ExtractText resolves the content type when absent, buffers the stream so
// each candidate extractor reads from the start, and returns the first
// non-blank result truncated to MaxTextLength. When every candidate fails
// the result carries a nil Text and the resolved content type.
func (l *Lens) ExtractText(ctx context.Context, r io.Reader, filename, contentType string) Result {
	if contentType == "" {
		contentType = contenttype.DetermineContentType(filename)
	}

	if r == nil {
		return Result{ContentType: contentType}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		log.Printf("❌ Failed to read content stream for %s: %v", filename, err)
		return Result{ContentType: contentType}
	}

	if len(data) == 0 {
		return Result{ContentType: contentType}
	}

	for _, extractor := range l.extractors {
		if !extractor.ValidForContentType(contentType) {
			continue
		}
		if extractor.UsesOCR() && !l.opts.EnableOCR {
			continue
		}
		if extractor.UsesAudioTranscription() && !l.opts.EnableAudioTranscription {
			continue
		}

		result, err := l.tryExtract(ctx, extractor, bytes.NewReader(data), filename, contentType)
		if err != nil {
			log.Printf("Warning: extractor %T failed for %s: %v", extractor, filename, err)
			continue
		}

		text := result.TextOrEmpty()
		if strings.TrimSpace(text) == "" {
			// Blank output is a soft failure; a later extractor may do better
			continue
		}

		truncated := truncate(text, l.opts.MaxTextLength)
		result.Text = &truncated
		result.ContentType = contentType
		return result
	}

	return Result{ContentType: contentType}
}

// tryExtract shields the chain from a panicking extractor
func (l *Lens) tryExtract(ctx context.Context, extractor Extractor, r io.Reader, filename, contentType string) (result Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("extractor panic: %v", rec)
		}
	}()

	return extractor.ExtractText(ctx, r, filename, contentType)
}

func truncate(text string, max int) string {
	if max <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
