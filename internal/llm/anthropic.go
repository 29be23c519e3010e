package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/atcvirtual/atcvirtual/pkg/util"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
	anthropicModel   = "claude-sonnet-4-20250514"
	anthropicTokens  = 1024
)

// AnthropicProvider calls the Anthropic messages API with the pilot's own
// key. The assembled system prompt goes in the dedicated system field.
type AnthropicProvider struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewAnthropicProvider returns a provider with production defaults.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{
		APIKey:  apiKey,
		BaseURL: anthropicBaseURL,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type anthropicRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (string, error) {
	payload := anthropicRequest{
		Model:     anthropicModel,
		MaxTokens: anthropicTokens,
		System:    req.System,
		Messages:  req.Messages,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		util.LogWithLabel("LLM", "anthropic error %d: %s", resp.StatusCode, detail)
		return "", categorize(resp.StatusCode)
	}

	var decoded anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding anthropic response: %w", err)
	}
	if len(decoded.Content) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	return decoded.Content[0].Text, nil
}
