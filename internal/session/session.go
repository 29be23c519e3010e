// Package session owns the live training flights: flight setup, phase and
// frequency state, the conversation log and the exchange pipeline that
// turns a pilot transmission into controller and evaluator replies.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/atcvirtual/atcvirtual/internal/atis"
	"github.com/atcvirtual/atcvirtual/internal/freq"
	"github.com/atcvirtual/atcvirtual/internal/llm"
	"github.com/atcvirtual/atcvirtual/internal/phase"
	"github.com/atcvirtual/atcvirtual/internal/prompt"
	"github.com/atcvirtual/atcvirtual/internal/settings"
	"github.com/atcvirtual/atcvirtual/internal/wx"
	"github.com/atcvirtual/atcvirtual/pkg/util"
)

// Input limits enforced at the session boundary.
const (
	MaxMessageLen      = 5000
	MaxHistory         = 50
	MaxSystemPromptLen = 10000
	MaxMETARContextLen = 5000
	MaxAPIKeyLen       = 200
	MaxAircraftLen     = 100
)

var (
	ErrNotFound = errors.New("voo não encontrado")
	ErrBusy     = errors.New("aguarde a resposta anterior")
)

// FlightData is the plan the pilot files at setup.
type FlightData struct {
	Aircraft      string            `json:"aircraft"`
	DepartureICAO string            `json:"departureIcao"`
	ArrivalICAO   string            `json:"arrivalIcao"`
	Rules         phase.FlightRules `json:"flightType"`
	Mode          prompt.Mode       `json:"mode"`
}

// Validate enforces the setup limits.
func (f *FlightData) Validate() error {
	f.Aircraft = strings.TrimSpace(f.Aircraft)
	f.DepartureICAO = strings.ToUpper(strings.TrimSpace(f.DepartureICAO))
	f.ArrivalICAO = strings.ToUpper(strings.TrimSpace(f.ArrivalICAO))

	if f.Aircraft == "" || len(f.Aircraft) > MaxAircraftLen {
		return errors.New("aeronave inválida")
	}
	if !wx.ValidFormat(f.DepartureICAO) {
		return fmt.Errorf("ICAO de saída inválido (4 letras): %q", f.DepartureICAO)
	}
	if !wx.ValidFormat(f.ArrivalICAO) {
		return fmt.Errorf("ICAO de destino inválido (4 letras): %q", f.ArrivalICAO)
	}
	if f.Rules != phase.VFR && f.Rules != phase.IFR {
		return fmt.Errorf("tipo de voo inválido: %q", f.Rules)
	}
	if f.Mode != prompt.ModeTraining && f.Mode != prompt.ModeLive {
		return fmt.Errorf("modo inválido: %q", f.Mode)
	}
	return nil
}

// ChatMessage is one logged turn. Role is "user", "atc" or "evaluator".
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Event is pushed to feed subscribers whenever session state changes.
type Event struct {
	Type      string       `json:"type"`
	SessionID string       `json:"sessionId"`
	Message   *ChatMessage `json:"message,omitempty"`
	Phase     string       `json:"phase,omitempty"`
	Time      time.Time    `json:"time"`
}

// Session is one active flight. All access goes through the Manager.
type Session struct {
	ID     string
	Flight FlightData

	Phase phase.FlightPhase
	Tuned *freq.Selected

	DepartureFreqs []freq.Frequency
	ArrivalFreqs   []freq.Frequency

	DepartureMETAR *wx.METAR
	ArrivalMETAR   *wx.METAR
	ArrivalTAF     *wx.TAF
	METARContext   string

	History []ChatMessage

	mu      sync.Mutex
	pending bool
	nextMsg int
}

// Manager tracks the active flights and fans events out to subscribers.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	settings    *settings.Store
	weather     *wx.Client
	providerFor func(settings.Settings) llm.Provider
	timeout     time.Duration

	// ATISOpts injects the ATIS clock and letter picker. The zero value
	// uses real time and random letters.
	ATISOpts atis.Options

	subMu  sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// NewManager builds a manager. providerFor may be nil to use the default
// backend selection.
func NewManager(store *settings.Store, weather *wx.Client, providerFor func(settings.Settings) llm.Provider, timeout time.Duration) *Manager {
	if providerFor == nil {
		providerFor = defaultProviderFor
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		settings:    store,
		weather:     weather,
		providerFor: providerFor,
		timeout:     timeout,
		subs:        make(map[int]chan Event),
	}
}

func defaultProviderFor(s settings.Settings) llm.Provider {
	if key := strings.TrimSpace(s.AnthropicAPIKey); key != "" && len(key) <= MaxAPIKeyLen {
		return llm.NewAnthropicProvider(key)
	}
	return llm.NewGatewayProvider(s.GatewayAPIKey)
}

// lookupFrequencies asks the station API first; the static table covers
// airports the API has no radio data for.
func (m *Manager) lookupFrequencies(ctx context.Context, icao string) []freq.Frequency {
	if m.weather != nil {
		list, err := m.weather.StationFrequencies(ctx, icao)
		if err == nil && len(list) > 0 {
			return list
		}
		if err != nil && !errors.Is(err, wx.ErrNoKey) {
			util.LogWithLabel("WX", "station %s: %v", icao, err)
		}
	}
	return freq.Lookup(icao)
}

func newID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("flt-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

// StartFlight validates the plan, fetches weather best-effort and creates
// the session at the cold-and-dark phase.
func (m *Manager) StartFlight(ctx context.Context, fd FlightData) (*Session, error) {
	if err := fd.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		ID:             newID(),
		Flight:         fd,
		Phase:          phase.ParkingCold,
		DepartureFreqs: m.lookupFrequencies(ctx, fd.DepartureICAO),
		ArrivalFreqs:   m.lookupFrequencies(ctx, fd.ArrivalICAO),
	}

	if m.weather != nil {
		if dep, err := m.weather.METAR(ctx, fd.DepartureICAO); err == nil {
			s.DepartureMETAR = dep
		} else if !errors.Is(err, wx.ErrNoKey) {
			util.LogWithLabel("WX", "metar %s: %v", fd.DepartureICAO, err)
		}
		if arr, err := m.weather.METAR(ctx, fd.ArrivalICAO); err == nil {
			s.ArrivalMETAR = arr
		} else if !errors.Is(err, wx.ErrNoKey) {
			util.LogWithLabel("WX", "metar %s: %v", fd.ArrivalICAO, err)
		}
		if taf, err := m.weather.TAF(ctx, fd.ArrivalICAO); err == nil {
			s.ArrivalTAF = taf
		}
	}
	s.METARContext = clip(wx.METARContext(s.DepartureMETAR, s.ArrivalMETAR), MaxMETARContextLen)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	util.LogWithLabel("FLIGHT", "started %s: %s %s->%s %s/%s",
		s.ID, fd.Aircraft, fd.DepartureICAO, fd.ArrivalICAO, fd.Rules, fd.Mode)
	m.publish(Event{Type: "flight_started", SessionID: s.ID, Phase: string(s.Phase), Time: time.Now()})
	return s, nil
}

// EndFlight drops a session.
func (m *Manager) EndFlight(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	m.publish(Event{Type: "flight_ended", SessionID: id, Time: time.Now()})
	return nil
}

func (m *Manager) get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// SetPhase moves the flight to a new phase.
func (m *Manager) SetPhase(id string, p phase.FlightPhase) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.Phase = p
	s.mu.Unlock()
	m.publish(Event{Type: "phase_changed", SessionID: id, Phase: string(p), Time: time.Now()})
	return nil
}

// Tune sets or clears the pilot's frequency. A non-nil selection must match
// a published frequency of the corresponding airport.
func (m *Manager) Tune(id string, sel *freq.Selected) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	if sel != nil {
		list := s.DepartureFreqs
		if sel.Airport == freq.Arrival {
			list = s.ArrivalFreqs
		}
		f, ok := freq.Find(list, sel.Type)
		if !ok {
			return fmt.Errorf("frequência %s indisponível neste aeroporto", sel.Type)
		}
		sel.Frequency = f.Frequency
		if sel.Name == "" {
			sel.Name = f.Name
		}
	}
	s.mu.Lock()
	s.Tuned = sel
	s.mu.Unlock()
	m.publish(Event{Type: "frequency_changed", SessionID: id, Time: time.Now()})
	return nil
}

// Get returns the live session. Callers must treat it as read-only outside
// the manager.
func (m *Manager) Get(id string) (*Session, error) {
	return m.get(id)
}

// Subscribe registers an event feed. The returned cancel func must be
// called to release it. Slow consumers lose events rather than block the
// pipeline.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextID
	m.nextID++
	ch := make(chan Event, 32)
	m.subs[id] = ch
	return ch, func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
}

func (m *Manager) publish(ev Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// clip truncates to at most max bytes without splitting a rune.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
