package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TranscriptionService converts speech in audio and video streams to text
// through an external transcription engine over HTTP
type TranscriptionService struct {
	baseURL    string
	httpClient *http.Client
}

func NewTranscriptionService(baseURL string) *TranscriptionService {
	return &TranscriptionService{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Transcription of long recordings is slow
			Timeout: 10 * time.Minute,
		},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe sends the audio stream to the transcription service and returns
// the transcript
func (s *TranscriptionService) Transcribe(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/transcribe", r)
	if err != nil {
		return "", fmt.Errorf("failed to build transcription request: %v", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Filename", filename)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("transcription service returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %v", err)
	}

	return parsed.Text, nil
}
