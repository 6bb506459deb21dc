package mockup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/c360studio/moot/config"
)

// defaultReplicateEndpoint is the hosted API base URL.
const defaultReplicateEndpoint = "https://api.replicate.com"

// replicateGenerator is the primary provider: a hosted SDXL prediction,
// run synchronously via the Prefer: wait header.
type replicateGenerator struct {
	cfg        config.ReplicateConfig
	httpClient *http.Client
}

func newReplicateGenerator(cfg config.ReplicateConfig, httpClient *http.Client) *replicateGenerator {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultReplicateEndpoint
	}
	return &replicateGenerator{cfg: cfg, httpClient: httpClient}
}

func (g *replicateGenerator) name() string { return "replicate" }

func (g *replicateGenerator) configured() bool {
	return g.cfg.Token != "" && g.cfg.Version != ""
}

type replicatePredictionRequest struct {
	Version string         `json:"version"`
	Input   replicateInput `json:"input"`
}

type replicateInput struct {
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
}

type replicatePredictionResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

func (g *replicateGenerator) generate(ctx context.Context, prompt string, width, height int) (string, error) {
	body, err := json.Marshal(replicatePredictionRequest{
		Version: g.cfg.Version,
		Input: replicateInput{
			Prompt:            prompt,
			NegativePrompt:    negativePrompt,
			Width:             width,
			Height:            height,
			NumInferenceSteps: 20,
			GuidanceScale:     7.5,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.cfg.Endpoint+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create prediction request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	// Hold the connection until the prediction finishes instead of polling.
	req.Header.Set("Prefer", "wait")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read prediction response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("replicate API status %d: %s", resp.StatusCode, truncate(respBody))
	}

	var prediction replicatePredictionResponse
	if err := json.Unmarshal(respBody, &prediction); err != nil {
		return "", fmt.Errorf("parse prediction response: %w", err)
	}
	if prediction.Status != "succeeded" {
		return "", fmt.Errorf("prediction status %q: %s", prediction.Status, prediction.Error)
	}

	return firstOutputURL(prediction.Output)
}

// firstOutputURL handles both output shapes the API returns: a bare URL
// string, or a list of URLs.
func firstOutputURL(output json.RawMessage) (string, error) {
	var single string
	if err := json.Unmarshal(output, &single); err == nil && single != "" {
		return single, nil
	}
	var list []string
	if err := json.Unmarshal(output, &list); err == nil && len(list) > 0 {
		return list[0], nil
	}
	return "", fmt.Errorf("prediction output has no URL")
}

func truncate(b []byte) string {
	s := string(b)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
