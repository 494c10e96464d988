package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ImagenService generates diagram images through the Generative Language
// predict endpoint. The Go genai SDK does not expose image generation, so
// this is a minimal REST adapter. Failures are expected to be tolerated by
// the caller: diagram generation is an optional enrichment step.
type ImagenService struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewImagenService(apiKey, model string) *ImagenService {
	return &ImagenService{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

// GenerateDiagram returns the generated image as an embedded data URL, so
// the diagram survives after the provider-hosted artifact expires.
func (s *ImagenService) GenerateDiagram(ctx context.Context, topic string) (string, error) {
	body, err := json.Marshal(imagenRequest{
		Instances:  []imagenInstance{{Prompt: topic}},
		Parameters: imagenParameters{SampleCount: 1, AspectRatio: "1:1"},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:predict?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("image generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("image generation returned %d: %s", resp.StatusCode, snippet)
	}

	var parsed imagenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode image response: %w", err)
	}

	if len(parsed.Predictions) == 0 || parsed.Predictions[0].BytesBase64Encoded == "" {
		return "", fmt.Errorf("image generation returned no predictions")
	}

	mime := parsed.Predictions[0].MimeType
	if mime == "" {
		mime = "image/png"
	}

	return "data:" + mime + ";base64," + parsed.Predictions[0].BytesBase64Encoded, nil
}
