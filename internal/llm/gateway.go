package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/atcvirtual/atcvirtual/pkg/util"
)

const gatewayBaseURL = "https://ai.gateway.lovable.dev"

// DefaultModel is used when the pilot picked nothing or an unknown model.
const DefaultModel = "google/gemini-3-flash-preview"

// validModels is the gateway catalog the panel offers.
var validModels = map[string]bool{
	"google/gemini-3-flash-preview": true,
	"google/gemini-2.5-flash":       true,
	"google/gemini-2.5-flash-lite":  true,
	"google/gemini-2.5-pro":         true,
	"google/gemini-3-pro-preview":   true,
	"openai/gpt-5":                  true,
	"openai/gpt-5-mini":             true,
	"openai/gpt-5-nano":             true,
	"openai/gpt-5.2":                true,
}

// NormalizeModel maps any input to a model the gateway accepts, falling
// back to the default instead of erroring.
func NormalizeModel(raw string) string {
	if validModels[raw] {
		return raw
	}
	return DefaultModel
}

// ValidModel reports whether the gateway knows the model.
func ValidModel(raw string) bool { return validModels[raw] }

// Models returns the catalog in stable order for the settings UI.
func Models() []string {
	out := make([]string, 0, len(validModels))
	for m := range validModels {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// GatewayProvider speaks the OpenAI chat-completions dialect. The system
// prompt travels as the first message.
type GatewayProvider struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewGatewayProvider returns a provider with production defaults.
func NewGatewayProvider(apiKey string) *GatewayProvider {
	return &GatewayProvider{
		APIKey:  apiKey,
		BaseURL: gatewayBaseURL,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type gatewayRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type gatewayResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *GatewayProvider) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, Message{Role: "system", Content: req.System})
	}
	messages = append(messages, req.Messages...)

	payload := gatewayRequest{
		Model:    NormalizeModel(req.Model),
		Messages: messages,
		Stream:   false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding gateway request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		util.LogWithLabel("LLM", "gateway error %d: %s", resp.StatusCode, detail)
		return "", categorize(resp.StatusCode)
	}

	var decoded gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding gateway response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	return decoded.Choices[0].Message.Content, nil
}
