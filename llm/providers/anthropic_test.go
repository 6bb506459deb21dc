package providers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/c360studio/moot/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicProvider_Name(t *testing.T) {
	p := &AnthropicProvider{}
	assert.Equal(t, "anthropic", p.Name())
}

func TestAnthropicProvider_BuildURL(t *testing.T) {
	p := &AnthropicProvider{}

	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{
			name:    "empty uses default",
			baseURL: "",
			want:    "https://api.anthropic.com/v1/messages",
		},
		{
			name:    "custom base URL",
			baseURL: "https://proxy.example.com",
			want:    "https://proxy.example.com/v1/messages",
		},
		{
			name:    "trailing slash handled",
			baseURL: "https://api.anthropic.com/",
			want:    "https://api.anthropic.com/v1/messages",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.BuildURL(tt.baseURL))
		})
	}
}

func TestAnthropicProvider_SetHeaders(t *testing.T) {
	p := &AnthropicProvider{}

	req, _ := http.NewRequest("POST", "https://api.anthropic.com/v1/messages", nil)
	p.SetHeaders(req, "test-key")

	assert.Equal(t, "test-key", req.Header.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, req.Header.Get("anthropic-version"))
}

func TestAnthropicProvider_BuildRequestBody(t *testing.T) {
	p := &AnthropicProvider{}

	t.Run("system message lifted to system field", func(t *testing.T) {
		body, err := p.BuildRequestBody("claude-3-5-haiku", []llm.Message{
			{Role: "system", Content: "You are a moderator."},
			{Role: "user", Content: "Synthesize the debate."},
		}, nil, 1000)
		require.NoError(t, err)

		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))

		assert.Equal(t, "You are a moderator.", req["system"])
		assert.Equal(t, float64(1000), req["max_tokens"])
		assert.Len(t, req["messages"], 1)
		_, hasTemp := req["temperature"]
		assert.False(t, hasTemp, "nil temperature should be omitted")
	})

	t.Run("default max tokens applied", func(t *testing.T) {
		body, err := p.BuildRequestBody("claude-3-5-haiku", []llm.Message{
			{Role: "user", Content: "hi"},
		}, nil, 0)
		require.NoError(t, err)

		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, float64(4096), req["max_tokens"])
	})
}

func TestAnthropicProvider_ParseResponse(t *testing.T) {
	p := &AnthropicProvider{}

	body := `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"content": [{"type": "text", "text": "Ship the MVP "}, {"type": "text", "text": "in six weeks."}],
		"model": "claude-3-5-haiku",
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 100, "output_tokens": 25}
	}`

	resp, err := p.ParseResponse([]byte(body), "claude-3-5-haiku")
	require.NoError(t, err)

	assert.Equal(t, "Ship the MVP in six weeks.", resp.Content)
	assert.Equal(t, 125, resp.Usage.TotalTokens)
	assert.Equal(t, "end_turn", resp.FinishReason)
}
