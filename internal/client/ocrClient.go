package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"slip-payment-backend/internal/config"
)

// Recognizer is the text-recognition capability: image bytes in, extracted
// text out. The engine itself (a Tesseract HTTP sidecar) is a black box.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, filename, languages string) (string, error)
}

type ocrClientImpl struct {
	httpClient *http.Client
	baseURL    string
}

func NewOCRClient(cfg *config.OCR) Recognizer {
	return &ocrClientImpl{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (c *ocrClientImpl) Recognize(ctx context.Context, image []byte, filename, languages string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("write image bytes: %w", err)
	}
	if err := w.WriteField("languages", languages); err != nil {
		return "", fmt.Errorf("write languages field: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ocr", &buf)
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ocr failed: status=%d body=%s", resp.StatusCode, string(b))
	}

	var result struct {
		Status string `json:"status"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}
	if result.Status != "ok" {
		return "", fmt.Errorf("ocr returned status %q", result.Status)
	}
	return result.Text, nil
}
