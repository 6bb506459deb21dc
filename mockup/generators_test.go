package mockup

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/moot/config"
)

func TestReplicateGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/predictions", r.URL.Path)
		assert.Equal(t, "Bearer r8_test", r.Header.Get("Authorization"))
		assert.Equal(t, "wait", r.Header.Get("Prefer"))

		var req replicatePredictionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sdxl-version", req.Version)
		assert.Equal(t, negativePrompt, req.Input.NegativePrompt)
		assert.Equal(t, 400, req.Input.Width)
		assert.Equal(t, 600, req.Input.Height)
		assert.Equal(t, 20, req.Input.NumInferenceSteps)

		json.NewEncoder(w).Encode(map[string]any{
			"id":     "pred-1",
			"status": "succeeded",
			"output": []string{"https://replicate.delivery/out.png"},
		})
	}))
	defer server.Close()

	gen := newReplicateGenerator(config.ReplicateConfig{
		Token:    "r8_test",
		Version:  "sdxl-version",
		Endpoint: server.URL,
	}, server.Client())

	url, err := gen.generate(context.Background(), "a prompt", 400, 600)
	require.NoError(t, err)
	assert.Equal(t, "https://replicate.delivery/out.png", url)
}

func TestReplicateGenerateFailedPrediction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "pred-2",
			"status": "failed",
			"error":  "NSFW content detected",
		})
	}))
	defer server.Close()

	gen := newReplicateGenerator(config.ReplicateConfig{
		Token:    "r8_test",
		Version:  "sdxl-version",
		Endpoint: server.URL,
	}, server.Client())

	_, err := gen.generate(context.Background(), "a prompt", 600, 400)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
}

func TestReplicateGenerateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "payment required", http.StatusPaymentRequired)
	}))
	defer server.Close()

	gen := newReplicateGenerator(config.ReplicateConfig{
		Token:    "r8_test",
		Version:  "sdxl-version",
		Endpoint: server.URL,
	}, server.Client())

	_, err := gen.generate(context.Background(), "a prompt", 600, 400)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}

func TestReplicateConfigured(t *testing.T) {
	client := &http.Client{Timeout: time.Second}
	assert.False(t, newReplicateGenerator(config.ReplicateConfig{}, client).configured())
	assert.False(t, newReplicateGenerator(config.ReplicateConfig{Token: "t"}, client).configured())
	assert.True(t, newReplicateGenerator(config.ReplicateConfig{Token: "t", Version: "v"}, client).configured())
}

func TestFirstOutputURL(t *testing.T) {
	url, err := firstOutputURL(json.RawMessage(`"https://x/1.png"`))
	require.NoError(t, err)
	assert.Equal(t, "https://x/1.png", url)

	url, err = firstOutputURL(json.RawMessage(`["https://x/2.png","https://x/3.png"]`))
	require.NoError(t, err)
	assert.Equal(t, "https://x/2.png", url)

	_, err = firstOutputURL(json.RawMessage(`[]`))
	assert.Error(t, err)

	_, err = firstOutputURL(json.RawMessage(`null`))
	assert.Error(t, err)
}

func TestHuggingFaceGenerate(t *testing.T) {
	imageBytes := []byte{0x89, 'P', 'N', 'G'}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/stabilityai/stable-diffusion-xl-base-1.0", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))

		var req huggingFaceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a prompt", req.Inputs)
		assert.Equal(t, negativePrompt, req.Parameters.NegativePrompt)
		assert.Equal(t, 600, req.Parameters.Width)
		assert.Equal(t, 400, req.Parameters.Height)

		w.Write(imageBytes)
	}))
	defer server.Close()

	gen := newHuggingFaceGenerator(config.HuggingFaceConfig{
		Token:    "hf_test",
		Model:    "stabilityai/stable-diffusion-xl-base-1.0",
		Endpoint: server.URL,
	}, server.Client())

	url, err := gen.generate(context.Background(), "a prompt", 600, 400)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(imageBytes), url)
}

func TestHuggingFaceGenerateModelLoading(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Model is currently loading"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	gen := newHuggingFaceGenerator(config.HuggingFaceConfig{
		Token:    "hf_test",
		Model:    "stabilityai/stable-diffusion-xl-base-1.0",
		Endpoint: server.URL,
	}, server.Client())

	_, err := gen.generate(context.Background(), "a prompt", 600, 400)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "huggingface API failed")
}

func TestHuggingFaceConfigured(t *testing.T) {
	client := &http.Client{Timeout: time.Second}
	assert.False(t, newHuggingFaceGenerator(config.HuggingFaceConfig{}, client).configured())
	assert.False(t, newHuggingFaceGenerator(config.HuggingFaceConfig{Token: "t"}, client).configured())
	assert.True(t, newHuggingFaceGenerator(config.HuggingFaceConfig{Token: "t", Model: "m"}, client).configured())
}
