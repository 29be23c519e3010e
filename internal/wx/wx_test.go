package wx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atcvirtual/atcvirtual/internal/freq"
)

const metarJSON = `{
  "raw": "SBGR 121400Z 08012KT 9999 SCT020 24/18 Q1016",
  "temperature": {"value": 24},
  "dewpoint": {"value": 18},
  "wind_direction": {"value": 80},
  "wind_speed": {"value": 12},
  "visibility": {"value": 9999},
  "altimeter": {"value": 1016},
  "flight_rules": "VFR",
  "clouds": [{"type": "SCT", "altitude": 20}],
  "time": {"repr": "121400Z"}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New("test-key")
	c.BaseURL = srv.URL
	return c
}

func TestMETAR(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/metar/SBGR", r.URL.Path)
		assert.Equal(t, "BEARER test-key", r.Header.Get("Authorization"))
		w.Write([]byte(metarJSON))
	})

	m, err := c.METAR(context.Background(), " sbgr ")
	require.NoError(t, err)
	assert.Equal(t, "SBGR", m.ICAO)
	assert.Equal(t, "SBGR 121400Z 08012KT 9999 SCT020 24/18 Q1016", m.Raw)
	require.NotNil(t, m.TemperatureC)
	assert.Equal(t, 24.0, *m.TemperatureC)
	assert.Nil(t, m.WindGust)
	assert.Equal(t, "VFR", m.FlightRules)
	require.Len(t, m.Clouds, 1)
	assert.Equal(t, "SCT", m.Clouds[0].Type)
	assert.Equal(t, "121400Z", m.Time)
}

func TestMETARWithoutKey(t *testing.T) {
	c := New("")
	_, err := c.METAR(context.Background(), "SBGR")
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestMETARBadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	})
	_, err := c.METAR(context.Background(), "XXXX")
	assert.Error(t, err)
}

func TestTAF(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/taf/SBSP", r.URL.Path)
		w.Write([]byte(`{"raw": "TAF SBSP 121100Z 1212/1312 09008KT 9999 SCT025", "time": {"repr": "121100Z"}}`))
	})

	taf, err := c.TAF(context.Background(), "sbsp")
	require.NoError(t, err)
	assert.Equal(t, "SBSP", taf.ICAO)
	assert.Contains(t, taf.Raw, "TAF SBSP")
}

func TestValidStation(t *testing.T) {
	t.Run("known station", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/station/SBGR", r.URL.Path)
			w.Write([]byte(`{"icao": "SBGR"}`))
		})
		assert.True(t, c.ValidStation(context.Background(), "SBGR"))
	})

	t.Run("unknown station", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})
		assert.False(t, c.ValidStation(context.Background(), "ZZZZ"))
	})

	t.Run("no key falls back to format check", func(t *testing.T) {
		c := New("")
		assert.True(t, c.ValidStation(context.Background(), "SBGR"))
		assert.False(t, c.ValidStation(context.Background(), "SB1"))
	})
}

func TestStationFrequencies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/station/SBGR", r.URL.Path)
		w.Write([]byte(`{
		  "icao": "SBGR",
		  "frequencies": [
		    {"type": "Ground", "frequency": "121.900", "name": "Solo Guarulhos"},
		    {"type": "Tower", "frequency": "118.100", "name": "Torre Guarulhos"},
		    {"type": "Ground Metering", "frequency": "121.650", "name": "Solo Guarulhos 2"},
		    {"type": "Emergency", "frequency": "121.500", "name": "Emergência"}
		  ]
		}`))
	})

	list, err := c.StationFrequencies(context.Background(), " sbgr ")
	require.NoError(t, err)
	require.Len(t, list, 2, "unknown sectors dropped, duplicates keep the first")
	assert.Equal(t, freq.Frequency{Type: freq.GND, Frequency: "121.900", Name: "Solo Guarulhos"}, list[0])
	assert.Equal(t, freq.Frequency{Type: freq.TWR, Frequency: "118.100", Name: "Torre Guarulhos"}, list[1])
}

func TestStationFrequenciesWithoutKey(t *testing.T) {
	c := New("")
	_, err := c.StationFrequencies(context.Background(), "SBGR")
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestMETARContext(t *testing.T) {
	dep := &METAR{ICAO: "SBGR", Raw: "SBGR 121400Z 08012KT 9999 24/18 Q1016"}
	arr := &METAR{ICAO: "SBSP", Raw: "SBSP 121400Z 10008KT 8000 23/17 Q1015"}

	assert.Equal(t,
		"METAR SBGR: SBGR 121400Z 08012KT 9999 24/18 Q1016\nMETAR SBSP: SBSP 121400Z 10008KT 8000 23/17 Q1015",
		METARContext(dep, arr))
	assert.Equal(t, "METAR SBGR: SBGR 121400Z 08012KT 9999 24/18 Q1016", METARContext(dep, nil))
	assert.Equal(t, "", METARContext(nil, nil))
}
