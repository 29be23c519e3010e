package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atcvirtual/atcvirtual/internal/llm"
	"github.com/atcvirtual/atcvirtual/internal/session"
	"github.com/atcvirtual/atcvirtual/internal/settings"
)

type stubProvider struct {
	reply string
	err   error
}

func (s *stubProvider) Complete(ctx context.Context, req llm.Request) (string, error) {
	return s.reply, s.err
}

func newTestServer(t *testing.T, p llm.Provider) *Server {
	t.Helper()
	store, err := settings.NewStore(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	mgr := session.NewManager(store, nil, func(settings.Settings) llm.Provider { return p }, 5*time.Second)
	return New("127.0.0.1:0", mgr, store, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func startTestFlight(t *testing.T, s *Server) string {
	t.Helper()
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/flights", map[string]string{
		"aircraft":      "PT-ABC",
		"departureIcao": "SBGR",
		"arrivalIcao":   "SBSP",
		"flightType":    "IFR",
		"mode":          "TREINO",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

func TestListPhases(t *testing.T) {
	s := newTestServer(t, &stubProvider{})
	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/phases", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var phases []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &phases))
	assert.Len(t, phases, 17)
	assert.Equal(t, "PARKING_COLD", phases[0]["id"])
	assert.Equal(t, "PARKING_ARRIVED", phases[16]["id"])
}

func TestAirportFrequencies(t *testing.T) {
	s := newTestServer(t, &stubProvider{})

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/airports/SBGR/frequencies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Torre Guarulhos")

	rec = doJSON(t, s.Handler(), http.MethodGet, "/api/airports/nope1/frequencies", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFlightLifecycle(t *testing.T) {
	s := newTestServer(t, &stubProvider{})
	id := startTestFlight(t, s)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/flights/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"currentPhase":"PARKING_COLD"`)

	rec = doJSON(t, s.Handler(), http.MethodPut, "/api/flights/"+id+"/phase", map[string]string{"phase": "TAXI_OUT"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s.Handler(), http.MethodPut, "/api/flights/"+id+"/frequency", map[string]any{
		"selectedFrequency": map[string]string{"airport": "departure", "frequencyType": "GND", "name": "Solo Guarulhos"},
	})
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = doJSON(t, s.Handler(), http.MethodDelete, "/api/flights/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s.Handler(), http.MethodGet, "/api/flights/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartFlightRejectsBadPlan(t *testing.T) {
	s := newTestServer(t, &stubProvider{})
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/flights", map[string]string{
		"aircraft":      "PT-ABC",
		"departureIcao": "X",
		"arrivalIcao":   "SBSP",
		"flightType":    "IFR",
		"mode":          "TREINO",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat(t *testing.T) {
	s := newTestServer(t, &stubProvider{reply: "📡 ATC: PT-ABC, táxi aprovado.\n\n🧠 Avaliador: Correto."})
	id := startTestFlight(t, s)
	doJSON(t, s.Handler(), http.MethodPut, "/api/flights/"+id+"/phase", map[string]string{"phase": "TAXI_OUT"})
	doJSON(t, s.Handler(), http.MethodPut, "/api/flights/"+id+"/frequency", map[string]any{
		"selectedFrequency": map[string]string{"airport": "departure", "frequencyType": "GND", "name": "Solo Guarulhos"},
	})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/flights/"+id+"/chat", map[string]string{
		"message":   "Solo Guarulhos, PT-ABC, solicito táxi",
		"talkingTo": "atc",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out session.ExchangeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "PT-ABC, táxi aprovado.", out.ATC)
	assert.Equal(t, "Correto.", out.Evaluator)
}

func TestChatErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "auth", err: llm.ErrAuth, status: http.StatusUnauthorized},
		{name: "rate limit", err: llm.ErrRateLimited, status: http.StatusTooManyRequests},
		{name: "quota", err: llm.ErrQuota, status: http.StatusPaymentRequired},
		{name: "unavailable", err: llm.ErrUnavailable, status: http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, &stubProvider{err: tc.err})
			id := startTestFlight(t, s)
			doJSON(t, s.Handler(), http.MethodPut, "/api/flights/"+id+"/phase", map[string]string{"phase": "CRUISE"})

			rec := doJSON(t, s.Handler(), http.MethodPost, "/api/flights/"+id+"/chat", map[string]string{
				"message": "Centro, PT-ABC", "talkingTo": "atc",
			})
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestChatUnknownFlight(t *testing.T) {
	s := newTestServer(t, &stubProvider{})
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/flights/missing/chat", map[string]string{
		"message": "oi", "talkingTo": "atc",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestServer(t, &stubProvider{})

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ATC VIRTUAL")

	rec = doJSON(t, s.Handler(), http.MethodPut, "/api/settings", map[string]string{
		"avwxApiKey":    "wx-key",
		"systemPrompt":  "persona",
		"selectedModel": "openai/gpt-5-mini",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"selectedModel":"openai/gpt-5-mini"`)

	rec = doJSON(t, s.Handler(), http.MethodPut, "/api/settings", map[string]string{
		"avwxApiKey": strings.Repeat("k", session.MaxAPIKeyLen+1),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListModels(t *testing.T) {
	s := newTestServer(t, &stubProvider{})
	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/models", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), llm.DefaultModel)
}

func TestMETARWithoutWeatherClient(t *testing.T) {
	s := newTestServer(t, &stubProvider{})
	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/metar/SBGR", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEventFeed(t *testing.T) {
	s := newTestServer(t, &stubProvider{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	startTestFlight(t, s)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev session.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "flight_started", ev.Type)
	assert.NotEmpty(t, ev.SessionID)
}
