package extraction

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// PlainTextExtractor reads textual content types verbatim
type PlainTextExtractor struct{}

func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

func (e *PlainTextExtractor) ValidForContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "text/") ||
		strings.HasPrefix(contentType, "message/") ||
		contentType == "application/json"
}

func (e *PlainTextExtractor) UsesOCR() bool { return false }

func (e *PlainTextExtractor) UsesAudioTranscription() bool { return false }

func (e *PlainTextExtractor) ExtractText(ctx context.Context, r io.Reader, filename, contentType string) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{ContentType: contentType}, fmt.Errorf("failed to read stream for %s: %v", filename, err)
	}

	text := string(data)
	return Result{Text: &text, ContentType: contentType}, nil
}
