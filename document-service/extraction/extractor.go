package extraction

import (
	"context"
	"io"
)

// Result is the outcome of a text extraction attempt. A nil Text signals
// failure so the caller can fall back to another extractor.
type Result struct {
	Text        *string `json:"text"`
	ContentType string  `json:"content_type"`
	Description string  `json:"description,omitempty"`
}

// TextOrEmpty returns the extracted text or an empty string
func (r Result) TextOrEmpty() string {
	if r.Text == nil {
		return ""
	}
	return *r.Text
}

// Extractor converts a byte stream of a known content type into plain text.
// Implementations catch their own internal failures and report them through
// the returned error or a nil-text Result rather than panicking.
type Extractor interface {
	// ValidForContentType reports whether the extractor can handle the type
	ValidForContentType(contentType string) bool

	// UsesOCR reports whether the extractor requires an OCR engine
	UsesOCR() bool

	// UsesAudioTranscription reports whether the extractor requires a
	// transcription service
	UsesAudioTranscription() bool

	// ExtractText extracts plain text from the stream
	ExtractText(ctx context.Context, r io.Reader, filename, contentType string) (Result, error)
}

// OCREngine recognizes text in images. Implementations must be safe for
// concurrent use; the engine instance is shared across extraction calls.
type OCREngine interface {
	ExtractText(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
}

// Transcriber converts speech in audio or video streams to text
type Transcriber interface {
	Transcribe(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
}
