package client

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultPaddleURL = "http://paddleocr:8866/predict/ocr_system"

// PaddleClient sends page images to a PaddleOCR hub serving the Korean model.
type PaddleClient struct {
	apiURL     string
	httpClient *http.Client
}

// NewPaddleClient creates a client for apiURL; an empty URL uses the hub's
// default ocr_system endpoint.
func NewPaddleClient(apiURL string, timeout time.Duration) *PaddleClient {
	if apiURL == "" {
		apiURL = defaultPaddleURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PaddleClient{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type paddleRequest struct {
	Images []string `json:"images"`
}

type paddleResponse struct {
	Results [][]struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"results"`
}

// RecognizeImage returns the recognised lines of img and their mean
// confidence scaled to 0-100, matching TesseractClient.
func (p *PaddleClient) RecognizeImage(img image.Image) (string, float64, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", 0, fmt.Errorf("failed to encode image to PNG: %w", err)
	}

	payload, err := json.Marshal(paddleRequest{
		Images: []string{base64.StdEncoding.EncodeToString(buf.Bytes())},
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := p.httpClient.Post(p.apiURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", 0, fmt.Errorf("failed to call PaddleOCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", 0, fmt.Errorf("PaddleOCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result paddleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", 0, fmt.Errorf("failed to decode PaddleOCR response: %w", err)
	}
	if len(result.Results) == 0 {
		return "", 0, nil
	}

	var (
		sb        strings.Builder
		totalConf float64
	)
	lines := result.Results[0]
	for _, line := range lines {
		sb.WriteString(line.Text)
		sb.WriteString("\n")
		totalConf += line.Confidence
	}

	avgConf := 0.0
	if len(lines) > 0 {
		avgConf = totalConf / float64(len(lines)) * 100
	}
	slog.Debug("ocr.paddle.page", "lines", len(lines), "confidence", avgConf)
	return sb.String(), avgConf, nil
}
