package freq

import "strings"

// ServiceType identifies an ATC functional position, not a literal radio
// channel. NONE is the sentinel for "no service expected".
type ServiceType string

const (
	ATIS ServiceType = "ATIS"
	CLR  ServiceType = "CLR"
	GND  ServiceType = "GND"
	TWR  ServiceType = "TWR"
	DEP  ServiceType = "DEP"
	APP  ServiceType = "APP"
	CTR  ServiceType = "CTR"
	NONE ServiceType = "NONE"
)

// AirportLeg says which end of the flight a frequency belongs to.
type AirportLeg string

const (
	Departure AirportLeg = "departure"
	Arrival   AirportLeg = "arrival"
)

// DepartureOrder is the canonical sector sequence presented for the
// departure airport. ArrivalOrder is the sequence for the destination.
var (
	DepartureOrder = []ServiceType{ATIS, CLR, GND, TWR, DEP, APP, CTR}
	ArrivalOrder   = []ServiceType{CTR, APP, TWR, GND}
)

// Frequency is one published radio frequency at an airport.
type Frequency struct {
	Type      ServiceType `json:"type"`
	Frequency string      `json:"frequency"`
	Name      string      `json:"name,omitempty"`
}

// Selected is what the pilot currently has tuned. Nil means no frequency
// selected.
type Selected struct {
	Airport   AirportLeg  `json:"airport"`
	Type      ServiceType `json:"frequencyType"`
	Frequency string      `json:"frequency"`
	Name      string      `json:"name"`
}

// sectorLabels are the Brazilian radiotelephony names for each sector,
// surfaced in prompts so the model uses the phraseology the pilot hears.
var sectorLabels = map[ServiceType]string{
	ATIS: "ATIS",
	CLR:  "CLR (Tráfego/Delivery)",
	GND:  "GND (Solo)",
	TWR:  "TWR (Torre)",
	DEP:  "DEP (Controle de Saída)",
	APP:  "APP (Controle/Aproximação)",
	CTR:  "CTR (Centro)",
}

// Label returns the display label for a service type.
func (s ServiceType) Label() string {
	if l, ok := sectorLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is one of the known service types (NONE included).
func (s ServiceType) Valid() bool {
	switch s {
	case ATIS, CLR, GND, TWR, DEP, APP, CTR, NONE:
		return true
	}
	return false
}

// ParseServiceType maps the loosely named frequency types that station APIs
// return (e.g. "Ground", "Torre", "Clearance Delivery") onto the fixed
// catalog. Unrecognized types return NONE, false.
func ParseServiceType(raw string) (ServiceType, bool) {
	u := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.Contains(u, "ATIS"):
		return ATIS, true
	case strings.Contains(u, "CLR"), strings.Contains(u, "CLEARANCE"), strings.Contains(u, "DELIVERY"):
		return CLR, true
	case strings.Contains(u, "GND"), strings.Contains(u, "GROUND"), strings.Contains(u, "SOLO"):
		return GND, true
	case strings.Contains(u, "TWR"), strings.Contains(u, "TOWER"), strings.Contains(u, "TORRE"):
		return TWR, true
	case strings.Contains(u, "DEP"):
		return DEP, true
	case strings.Contains(u, "APP"), strings.Contains(u, "APROX"):
		return APP, true
	case strings.Contains(u, "CTR"), strings.Contains(u, "CENTER"), strings.Contains(u, "CENTRO"):
		return CTR, true
	}
	return NONE, false
}

// Normalize maps raw frequencies from a station API onto the typed catalog,
// keeping the first frequency seen for each service type.
func Normalize(raw []Frequency) []Frequency {
	seen := make(map[ServiceType]bool, len(raw))
	out := make([]Frequency, 0, len(raw))
	for _, f := range raw {
		st, ok := ParseServiceType(string(f.Type))
		if !ok || seen[st] {
			continue
		}
		seen[st] = true
		out = append(out, Frequency{Type: st, Frequency: f.Frequency, Name: f.Name})
	}
	return out
}

// Find returns the frequency for a service type in a list, if present.
func Find(freqs []Frequency, st ServiceType) (Frequency, bool) {
	for _, f := range freqs {
		if f.Type == st {
			return f, true
		}
	}
	return Frequency{}, false
}
