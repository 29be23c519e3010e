// Package wx fetches live weather from the AVWX REST API: station
// existence checks, METAR and TAF. All lookups are best effort; the trainer
// keeps working without a key, just without real weather.
package wx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/atcvirtual/atcvirtual/internal/freq"
)

const defaultBaseURL = "https://avwx.rest"

// ErrNoKey is returned when the client has no API key configured.
var ErrNoKey = errors.New("avwx: no api key configured")

var icaoRe = regexp.MustCompile(`^[A-Za-z]{4}$`)

// ValidFormat reports whether a string looks like an ICAO code. Used as the
// fallback when the station API is unreachable.
func ValidFormat(icao string) bool {
	return icaoRe.MatchString(strings.TrimSpace(icao))
}

// Cloud is one reported layer, altitude in hundreds of feet.
type Cloud struct {
	Type     string `json:"type"`
	Altitude int    `json:"altitude"`
}

// METAR is the decoded observation for one station.
type METAR struct {
	ICAO          string
	Raw           string
	TemperatureC  *float64
	DewpointC     *float64
	WindDirection *float64
	WindSpeed     *float64
	WindGust      *float64
	VisibilityM   *float64
	Altimeter     *float64
	FlightRules   string
	Clouds        []Cloud
	Time          string
}

// TAF is the raw forecast for one station.
type TAF struct {
	ICAO string
	Raw  string
	Time string
}

// Client talks to AVWX. The zero value is not usable; construct with New.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// New returns a client with production defaults. An empty key is allowed;
// lookups then fail with ErrNoKey.
func New(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	if c.APIKey == "" {
		return nil, ErrNoKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "BEARER "+c.APIKey)
	return c.HTTP.Do(req)
}

// ValidStation checks that AVWX knows the station. When the client has no
// key or the API cannot be reached, it falls back to a format check.
func (c *Client) ValidStation(ctx context.Context, icao string) bool {
	resp, err := c.get(ctx, "/api/station/"+strings.ToUpper(strings.TrimSpace(icao)))
	if err != nil {
		return ValidFormat(icao)
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// StationFrequencies fetches the radio frequencies the station endpoint
// publishes, mapped onto the sector catalog. Unknown sector names are
// dropped; an empty list is not an error. Callers fall back to the static
// table when nothing usable comes back.
func (c *Client) StationFrequencies(ctx context.Context, icao string) ([]freq.Frequency, error) {
	icao = strings.ToUpper(strings.TrimSpace(icao))
	resp, err := c.get(ctx, "/api/station/"+icao)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avwx: station %s: status %d", icao, resp.StatusCode)
	}

	var data struct {
		Frequencies []struct {
			Type      string `json:"type"`
			Frequency string `json:"frequency"`
			Name      string `json:"name"`
		} `json:"frequencies"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("avwx: decoding station %s: %w", icao, err)
	}
	raw := make([]freq.Frequency, 0, len(data.Frequencies))
	for _, f := range data.Frequencies {
		raw = append(raw, freq.Frequency{Type: freq.ServiceType(f.Type), Frequency: f.Frequency, Name: f.Name})
	}
	return freq.Normalize(raw), nil
}

type avwxValue struct {
	Value *float64 `json:"value"`
}

type avwxMETAR struct {
	Raw           string    `json:"raw"`
	Temperature   avwxValue `json:"temperature"`
	Dewpoint      avwxValue `json:"dewpoint"`
	WindDirection avwxValue `json:"wind_direction"`
	WindSpeed     avwxValue `json:"wind_speed"`
	WindGust      avwxValue `json:"wind_gust"`
	Visibility    avwxValue `json:"visibility"`
	Altimeter     avwxValue `json:"altimeter"`
	FlightRules   string    `json:"flight_rules"`
	Clouds        []Cloud   `json:"clouds"`
	Time          struct {
		Repr string `json:"repr"`
	} `json:"time"`
}

// METAR fetches the current observation for a station.
func (c *Client) METAR(ctx context.Context, icao string) (*METAR, error) {
	icao = strings.ToUpper(strings.TrimSpace(icao))
	resp, err := c.get(ctx, "/api/metar/"+icao)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avwx: metar %s: status %d", icao, resp.StatusCode)
	}

	var data avwxMETAR
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("avwx: decoding metar %s: %w", icao, err)
	}
	return &METAR{
		ICAO:          icao,
		Raw:           data.Raw,
		TemperatureC:  data.Temperature.Value,
		DewpointC:     data.Dewpoint.Value,
		WindDirection: data.WindDirection.Value,
		WindSpeed:     data.WindSpeed.Value,
		WindGust:      data.WindGust.Value,
		VisibilityM:   data.Visibility.Value,
		Altimeter:     data.Altimeter.Value,
		FlightRules:   data.FlightRules,
		Clouds:        data.Clouds,
		Time:          data.Time.Repr,
	}, nil
}

// TAF fetches the current forecast for a station.
func (c *Client) TAF(ctx context.Context, icao string) (*TAF, error) {
	icao = strings.ToUpper(strings.TrimSpace(icao))
	resp, err := c.get(ctx, "/api/taf/"+icao)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avwx: taf %s: status %d", icao, resp.StatusCode)
	}

	var data struct {
		Raw  string `json:"raw"`
		Time struct {
			Repr string `json:"repr"`
		} `json:"time"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("avwx: decoding taf %s: %w", icao, err)
	}
	return &TAF{ICAO: icao, Raw: data.Raw, Time: data.Time.Repr}, nil
}

// METARContext flattens the observations into the weather block fed to the
// model. Stations without data are simply omitted.
func METARContext(reports ...*METAR) string {
	var lines []string
	for _, m := range reports {
		if m == nil || m.Raw == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("METAR %s: %s", m.ICAO, m.Raw))
	}
	return strings.Join(lines, "\n")
}
