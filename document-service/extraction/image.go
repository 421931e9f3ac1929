package extraction

import (
	"context"
	"io"
	"strings"
)

// ImageExtractor recognizes text in images through an injected OCR engine
type ImageExtractor struct {
	engine OCREngine
}

func NewImageExtractor(engine OCREngine) *ImageExtractor {
	return &ImageExtractor{engine: engine}
}

func (e *ImageExtractor) ValidForContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

func (e *ImageExtractor) UsesOCR() bool { return true }

func (e *ImageExtractor) UsesAudioTranscription() bool { return false }

func (e *ImageExtractor) ExtractText(ctx context.Context, r io.Reader, filename, contentType string) (Result, error) {
	raw, err := e.engine.ExtractText(ctx, r, filename, contentType)
	if err != nil {
		return Result{ContentType: contentType}, err
	}

	text := removeBlankLines(raw)
	return Result{Text: &text, ContentType: contentType}, nil
}

// removeBlankLines drops the empty lines OCR engines emit between detected
// text regions
func removeBlankLines(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
