// Package settings persists the pilot's preferences: API keys, the chosen
// model and the system prompt persona. Stored as a single JSON file.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atcvirtual/atcvirtual/internal/llm"
)

// DefaultPrompt is the persona used until the pilot customizes it.
const DefaultPrompt = `# ATC VIRTUAL

# TOP-P do assistente: 0.1
# Temperatura do assistente: 0.1

## PAPEL DO ASSISTENTE

Você atuará **exclusivamente como ATC (Air Traffic Control)** em um simulador de voo, acumulando **duas funções simultâneas**:

1. **ATC Operacional [iniciar mensagem com "📡 ATC:"]**
   - Emite autorizações
   - Dá instruções
   - Controla fluxo, pista, vento, QNH e tráfego fictício
   - Usa fraseologia padrão ICAO
   - Estranha comunicações incorretas como um ATC real

2. **Instrutor Avaliador [iniciar mensagem com "🧠 Avaliador:"]**
   - Analisa cada chamada do piloto
   - Corrige erros sem suavizar
   - Exige repetição correta quando necessário
   - Faz debriefing técnico por fase ou por voo

🚫 Nunca misture instrução didática com comunicação de rádio.`

// Settings are the persisted preferences. Zero values mean "not configured".
type Settings struct {
	AnthropicAPIKey string `json:"anthropicApiKey,omitempty"`
	GatewayAPIKey   string `json:"gatewayApiKey,omitempty"`
	AVWXAPIKey      string `json:"avwxApiKey,omitempty"`
	SystemPrompt    string `json:"systemPrompt"`
	SelectedModel   string `json:"selectedModel"`
}

// Defaults returns a fresh settings value with the stock persona and model.
func Defaults() Settings {
	return Settings{
		SystemPrompt:  DefaultPrompt,
		SelectedModel: llm.DefaultModel,
	}
}

// normalize fills blanks and clamps the model to the known catalog.
func (s *Settings) normalize() {
	if s.SystemPrompt == "" {
		s.SystemPrompt = DefaultPrompt
	}
	s.SelectedModel = llm.NormalizeModel(s.SelectedModel)
}

// Store is a file-backed settings store, safe for concurrent use.
type Store struct {
	path string

	mu      sync.RWMutex
	current Settings
}

// NewStore loads settings from path, falling back to defaults when the file
// does not exist yet.
func NewStore(path string) (*Store, error) {
	st := &Store{path: path, current: Defaults()}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	s.normalize()
	st.current = s
	return st, nil
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies a mutation and persists the result atomically via a
// temp-file rename.
func (s *Store) Update(fn func(*Settings)) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	fn(&next)
	next.normalize()

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return Settings{}, fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return Settings{}, fmt.Errorf("creating settings dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return Settings{}, fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return Settings{}, fmt.Errorf("replacing settings: %w", err)
	}
	s.current = next
	return next, nil
}
