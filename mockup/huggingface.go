package mockup

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/c360studio/moot/config"
)

// defaultHuggingFaceEndpoint is the hosted inference API base URL.
const defaultHuggingFaceEndpoint = "https://api-inference.huggingface.co"

// maxImageBytes bounds the inline image we are willing to hold in memory.
const maxImageBytes = 8 << 20 // 8MB

// huggingFaceGenerator is the secondary provider. The inference API returns
// raw image bytes, which are delivered inline as a data URL.
type huggingFaceGenerator struct {
	cfg        config.HuggingFaceConfig
	httpClient *http.Client
}

func newHuggingFaceGenerator(cfg config.HuggingFaceConfig, httpClient *http.Client) *huggingFaceGenerator {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultHuggingFaceEndpoint
	}
	return &huggingFaceGenerator{cfg: cfg, httpClient: httpClient}
}

func (g *huggingFaceGenerator) name() string { return "huggingface" }

func (g *huggingFaceGenerator) configured() bool {
	return g.cfg.Token != "" && g.cfg.Model != ""
}

type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
}

type huggingFaceParameters struct {
	NegativePrompt string `json:"negative_prompt"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

func (g *huggingFaceGenerator) generate(ctx context.Context, prompt string, width, height int) (string, error) {
	body, err := json.Marshal(huggingFaceRequest{
		Inputs: prompt,
		Parameters: huggingFaceParameters{
			NegativePrompt: negativePrompt,
			Width:          width,
			Height:         height,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.cfg.Endpoint+"/models/"+g.cfg.Model, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("huggingface API failed: %s", resp.Status)
	}

	imageBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("read image bytes: %w", err)
	}
	if len(imageBytes) == 0 {
		return "", fmt.Errorf("empty image response")
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageBytes), nil
}
