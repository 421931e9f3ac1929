package extraction

import (
	"context"
	"io"
	"strings"
)

// AudioExtractor transcribes audio and video streams through an injected
// transcription service
type AudioExtractor struct {
	transcriber Transcriber
}

func NewAudioExtractor(transcriber Transcriber) *AudioExtractor {
	return &AudioExtractor{transcriber: transcriber}
}

func (e *AudioExtractor) ValidForContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "audio/") ||
		strings.HasPrefix(contentType, "video/")
}

func (e *AudioExtractor) UsesOCR() bool { return false }

func (e *AudioExtractor) UsesAudioTranscription() bool { return true }

func (e *AudioExtractor) ExtractText(ctx context.Context, r io.Reader, filename, contentType string) (Result, error) {
	text, err := e.transcriber.Transcribe(ctx, r, filename, contentType)
	if err != nil {
		return Result{ContentType: contentType}, err
	}

	return Result{Text: &text, ContentType: contentType}, nil
}
