// Package llm abstracts the chat-completion backends. Two providers exist:
// the Anthropic messages API, used when the pilot supplies their own key,
// and an OpenAI-compatible gateway used otherwise.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Message is one turn of conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a provider-independent completion request. System carries the
// assembled system prompt; Messages is the prior history plus the pilot's
// current transmission as the final user turn.
type Request struct {
	System   string
	Messages []Message
	Model    string
}

// Provider produces a completion for a request. Implementations must honor
// context cancellation and deadlines.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Sentinel errors categorize backend failures so the transport layer can
// map them to stable status codes without leaking backend details.
var (
	ErrAuth        = errors.New("falha na autenticação")
	ErrRateLimited = errors.New("limite de requisições excedido")
	ErrQuota       = errors.New("créditos insuficientes")
	ErrUnavailable = errors.New("erro no serviço de IA")
)

// categorize maps an HTTP status from a backend to a sentinel error.
func categorize(status int) error {
	switch status {
	case 401, 403:
		return ErrAuth
	case 429:
		return ErrRateLimited
	case 402:
		return ErrQuota
	}
	return fmt.Errorf("%w (status %d)", ErrUnavailable, status)
}
