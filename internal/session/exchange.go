package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mohae/deepcopy"

	"github.com/atcvirtual/atcvirtual/internal/atis"
	"github.com/atcvirtual/atcvirtual/internal/freq"
	"github.com/atcvirtual/atcvirtual/internal/llm"
	"github.com/atcvirtual/atcvirtual/internal/phase"
	"github.com/atcvirtual/atcvirtual/internal/prompt"
	"github.com/atcvirtual/atcvirtual/internal/reply"
	"github.com/atcvirtual/atcvirtual/internal/wx"
)

// ExchangeRequest is one pilot transmission.
type ExchangeRequest struct {
	SessionID string        `json:"sessionId"`
	Channel   reply.Channel `json:"talkingTo"`
	Message   string        `json:"message"`
}

// ExchangeResponse is what the radio panel renders. Warning carries the
// phase validator's verdict as metadata; the reply itself always comes
// from the model.
type ExchangeResponse struct {
	ATC       string `json:"atcResponse,omitempty"`
	Evaluator string `json:"evaluatorResponse,omitempty"`
	IsWaiting bool   `json:"isWaiting"`
	Warning   string `json:"warning,omitempty"`
}

// Exchange runs the full pipeline: boundary limits, phase validation, the
// ATIS short circuit, prompt assembly, the model call and response
// parsing. The session accepts one exchange at a time.
func (m *Manager) Exchange(ctx context.Context, req ExchangeRequest) (*ExchangeResponse, error) {
	s, err := m.get(req.SessionID)
	if err != nil {
		return nil, err
	}

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, errors.New("mensagem não fornecida")
	}
	if len(msg) > MaxMessageLen {
		return nil, fmt.Errorf("mensagem muito longa (máximo %d caracteres)", MaxMessageLen)
	}
	ch := req.Channel
	if ch != reply.ChannelATC && ch != reply.ChannelEvaluator {
		ch = reply.ChannelATC
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.pending = true
	m.appendLocked(s, "user", msg)

	// Snapshot under the lock; prompt assembly and the model call run
	// without it so a slow backend never blocks tuning or phase changes.
	flight := s.Flight
	current := s.Phase
	tuned := s.Tuned
	depFreqs := s.DepartureFreqs
	arrFreqs := s.ArrivalFreqs
	metarCtx := s.METARContext
	history := deepcopy.Copy(s.History).([]ChatMessage)
	depMETAR := s.DepartureMETAR
	arrMETAR := s.ArrivalMETAR
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pending = false
		s.mu.Unlock()
	}()

	// ATIS is a recorded broadcast, answered locally.
	if ch == reply.ChannelATC && tuned != nil && tuned.Type == freq.ATIS {
		resp := m.atisBroadcast(flight, tuned, depMETAR, arrMETAR)
		m.record(s, resp)
		return resp, nil
	}

	// The phase validator runs on the radio channel only; the evaluator
	// lesson channel is always open. Its verdict is woven into the prompt
	// and carried back as metadata, never used to refuse the call: the
	// model hears about a wrong frequency or a silence phase and
	// challenges the pilot in character.
	var warning string
	if ch == reply.ChannelATC && current != "" {
		res := phase.Validate(current, tuned, flight.Rules)
		warning = res.Warning
		if !res.IsValid {
			warning = res.Error
		}
	}

	cfg := m.settings.Get()
	in := prompt.Input{
		Persona:        clip(cfg.SystemPrompt, MaxSystemPromptLen),
		Aircraft:       flight.Aircraft,
		DepartureICAO:  flight.DepartureICAO,
		ArrivalICAO:    flight.ArrivalICAO,
		Rules:          flight.Rules,
		Mode:           flight.Mode,
		METARContext:   metarCtx,
		DepartureFreqs: depFreqs,
		ArrivalFreqs:   arrFreqs,
		Tuned:          tuned,
		Phase:          current,
		Channel:        ch,
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	provider := m.providerFor(cfg)
	completion, err := provider.Complete(callCtx, llm.Request{
		System:   prompt.Build(in),
		Messages: llmHistory(history, msg),
		Model:    cfg.SelectedModel,
	})
	if err != nil {
		return nil, err
	}

	parsed := reply.Parse(completion, ch)
	resp := &ExchangeResponse{
		ATC:       parsed.ATC,
		Evaluator: parsed.Evaluator,
		IsWaiting: parsed.IsWaiting,
		Warning:   warning,
	}
	m.record(s, resp)
	return resp, nil
}

// llmHistory maps the log onto chat turns, markers restored, capped to the
// most recent window. The pending user message is already in the log, so
// it is excluded here and appended as the final turn.
func llmHistory(history []ChatMessage, current string) []llm.Message {
	if n := len(history); n > 0 && history[n-1].Role == "user" && history[n-1].Content == current {
		history = history[:n-1]
	}
	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}

	out := make([]llm.Message, 0, len(history)+1)
	for _, h := range history {
		if len(h.Content) > MaxMessageLen {
			continue
		}
		switch h.Role {
		case "user":
			out = append(out, llm.Message{Role: "user", Content: h.Content})
		case "atc":
			out = append(out, llm.Message{Role: "assistant", Content: "📡 ATC: " + h.Content})
		case "evaluator":
			out = append(out, llm.Message{Role: "assistant", Content: "🧠 Avaliador: " + h.Content})
		}
	}
	return append(out, llm.Message{Role: "user", Content: current})
}

var atisNameRe = regexp.MustCompile(`(?i)^ATIS\s*`)

// atisBroadcast answers an ATIS-tuned transmission locally from the stored
// METAR. A missing METAR still yields a broadcast, fully defaulted.
func (m *Manager) atisBroadcast(flight FlightData, tuned *freq.Selected, dep, arr *wx.METAR) *ExchangeResponse {
	icao := flight.DepartureICAO
	metar := dep
	if tuned.Airport == freq.Arrival {
		icao = flight.ArrivalICAO
		metar = arr
	}
	raw := ""
	if metar != nil {
		raw = metar.Raw
	}
	station := strings.TrimSpace(atisNameRe.ReplaceAllString(tuned.Name, ""))
	return &ExchangeResponse{
		ATC: atis.Synthesize(icao, station, raw, m.ATISOpts),
	}
}

// appendLocked adds a message to the log; callers hold s.mu.
func (m *Manager) appendLocked(s *Session, role, content string) {
	s.nextMsg++
	msg := ChatMessage{
		ID:        fmt.Sprintf("%s-%d", s.ID, s.nextMsg),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	s.History = append(s.History, msg)
	if len(s.History) > maxStoredHistory {
		s.History = s.History[len(s.History)-maxStoredHistory:]
	}
	m.publish(Event{Type: "message", SessionID: s.ID, Message: &msg, Time: msg.Timestamp})
}

// record logs the non-empty halves of a response.
func (m *Manager) record(s *Session, resp *ExchangeResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if resp.ATC != "" {
		m.appendLocked(s, "atc", resp.ATC)
	}
	if resp.Evaluator != "" {
		m.appendLocked(s, "evaluator", resp.Evaluator)
	}
}

// maxStoredHistory bounds the in-memory log; the model window is the
// tighter MaxHistory.
const maxStoredHistory = 200
