package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OCRService recognizes text in images through an external OCR engine over
// HTTP. The single client instance is shared across extraction calls;
// http.Client is safe for concurrent use.
type OCRService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewOCRService(baseURL, apiKey string) *OCRService {
	return &OCRService{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

type ocrResponse struct {
	Text string `json:"text"`
}

// ExtractText sends the image stream to the OCR engine and returns the
// recognized text
func (s *OCRService) ExtractText(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/ocr", r)
	if err != nil {
		return "", fmt.Errorf("failed to build OCR request: %v", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Filename", filename)
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCR request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("OCR engine returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode OCR response: %v", err)
	}

	return parsed.Text, nil
}
