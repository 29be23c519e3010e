// Package atis turns a raw METAR into a spoken-style ATIS broadcast in
// Portuguese. Each weather field has its own tolerant extractor; a field
// that cannot be read falls back to a safe default and is recorded as
// such, so callers can tell a fully parsed report from a padded one.
package atis

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	windRe    = regexp.MustCompile(`\b(VRB|\d{3})(\d{2,3})(?:G(\d{2,3}))?KT\b`)
	visRe     = regexp.MustCompile(`\s(\d{4})\s`)
	cloudRe   = regexp.MustCompile(`\b(FEW|SCT|BKN|OVC)(\d{3})\b`)
	tempRe    = regexp.MustCompile(`\b(M?\d{2})/(M?\d{2})\b`)
	qnhRe     = regexp.MustCompile(`\bQ(\d{4})\b`)
	altimRe   = regexp.MustCompile(`\bA(\d{4})\b`)
	wxRe      = regexp.MustCompile(`(?:^|\s)([+-]?)(TSRA|TS|SHRA|RA|DZ|SN|GR|FG|BR|HZ|FU)(?:\s|$)`)
	natoAlpha = []string{
		"ALFA", "BRAVO", "CHARLIE", "DELTA", "ECHO", "FOXTROT", "GOLF",
		"HOTEL", "INDIA", "JULIET", "KILO", "LIMA", "MIKE", "NOVEMBER",
		"OSCAR", "PAPA", "QUEBEC", "ROMEO", "SIERRA", "TANGO", "UNIFORM",
		"VICTOR", "WHISKEY", "XRAY", "YANKEE", "ZULU",
	}
)

const inHgToHPa = 33.8639

// Wind is the decoded surface wind. Variable winds carry no direction.
type Wind struct {
	DirectionDeg int
	SpeedKt      int
	GustKt       int
	Variable     bool
	Calm         bool
}

// CloudLayer is one cloud group, base in feet AGL.
type CloudLayer struct {
	Coverage string
	BaseFt   int
}

// Report is the structured weather read out of a METAR. Defaulted lists the
// fields the extractors could not parse and filled with defaults instead.
type Report struct {
	Station      string
	Letter       string
	Time         string
	Wind         Wind
	WindOK       bool
	VisibilityM  int
	CAVOK        bool
	Phenomena    []string
	Clouds       []CloudLayer
	TemperatureC int
	DewpointC    int
	QNH          int
	Defaulted    []string
}

// Parsed reports whether every field came from the METAR itself.
func (r *Report) Parsed() bool { return len(r.Defaulted) == 0 }

// Options inject the clock and the information-letter picker so broadcasts
// are reproducible in tests.
type Options struct {
	Now    func() time.Time
	Letter func() string
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Letter == nil {
		o.Letter = func() string { return natoAlpha[rand.Intn(len(natoAlpha))] }
	}
	return o
}

// Decode extracts the structured report from a raw METAR string.
func Decode(icao, raw string, opts Options) *Report {
	opts = opts.withDefaults()
	r := &Report{
		Station: strings.ToUpper(strings.TrimSpace(icao)),
		Letter:  opts.Letter(),
		Time:    opts.Now().UTC().Format("1504") + "Z",
	}

	if w, ok := parseWind(raw); ok {
		r.Wind, r.WindOK = w, true
	} else {
		r.Defaulted = append(r.Defaulted, "wind")
	}

	r.CAVOK = strings.Contains(raw, "CAVOK")
	if vis, ok := parseVisibility(raw); ok {
		r.VisibilityM = vis
	} else if r.CAVOK {
		r.VisibilityM = 9999
	} else {
		r.VisibilityM = 9999
		r.Defaulted = append(r.Defaulted, "visibility")
	}

	r.Phenomena = parsePhenomena(raw)
	r.Clouds = parseClouds(raw)

	if t, d, ok := parseTempDew(raw); ok {
		r.TemperatureC, r.DewpointC = t, d
	} else {
		r.TemperatureC, r.DewpointC = 15, 10
		r.Defaulted = append(r.Defaulted, "temperature")
	}

	if q, ok := parseQNH(raw); ok {
		r.QNH = q
	} else {
		r.QNH = 1013
		r.Defaulted = append(r.Defaulted, "qnh")
	}
	return r
}

func parseWind(raw string) (Wind, bool) {
	m := windRe.FindStringSubmatch(raw)
	if m == nil {
		return Wind{}, false
	}
	var w Wind
	w.SpeedKt, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		w.GustKt, _ = strconv.Atoi(m[3])
	}
	if m[1] == "VRB" {
		w.Variable = true
		return w, true
	}
	w.DirectionDeg, _ = strconv.Atoi(m[1])
	w.Calm = w.DirectionDeg == 0 && w.SpeedKt == 0
	return w, true
}

func parseVisibility(raw string) (int, bool) {
	m := visRe.FindStringSubmatch(" " + raw + " ")
	if m == nil {
		return 0, false
	}
	v, _ := strconv.Atoi(m[1])
	return v, true
}

var phenomenaNames = map[string]string{
	"RA":   "chuva",
	"SHRA": "pancadas de chuva",
	"TSRA": "trovoada com chuva",
	"TS":   "trovoada",
	"DZ":   "garoa",
	"SN":   "neve",
	"GR":   "granizo",
	"FG":   "nevoeiro",
	"BR":   "névoa úmida",
	"HZ":   "névoa seca",
	"FU":   "fumaça",
}

func parsePhenomena(raw string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range wxRe.FindAllStringSubmatch(raw, -1) {
		name := phenomenaNames[m[2]]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		switch m[1] {
		case "+":
			name = name + " forte"
		case "-":
			name = name + " leve"
		}
		out = append(out, name)
	}
	return out
}

var coverageRank = map[string]int{"OVC": 4, "BKN": 3, "SCT": 2, "FEW": 1}

// parseClouds keeps one layer per altitude, lowest first, at most three.
// When two coverages share a base the denser one wins.
func parseClouds(raw string) []CloudLayer {
	byBase := map[int]string{}
	for _, m := range cloudRe.FindAllStringSubmatch(raw, -1) {
		base, _ := strconv.Atoi(m[2])
		ft := base * 100
		if cur, ok := byBase[ft]; !ok || coverageRank[m[1]] > coverageRank[cur] {
			byBase[ft] = m[1]
		}
	}
	layers := make([]CloudLayer, 0, len(byBase))
	for ft, cov := range byBase {
		layers = append(layers, CloudLayer{Coverage: cov, BaseFt: ft})
	}
	sort.Slice(layers, func(i, j int) bool {
		return layers[i].BaseFt < layers[j].BaseFt
	})
	if len(layers) > 3 {
		layers = layers[:3]
	}
	return layers
}

func parseTempDew(raw string) (int, int, bool) {
	m := tempRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false
	}
	return decodeTemp(m[1]), decodeTemp(m[2]), true
}

func decodeTemp(s string) int {
	neg := strings.HasPrefix(s, "M")
	v, _ := strconv.Atoi(strings.TrimPrefix(s, "M"))
	if neg {
		return -v
	}
	return v
}

func parseQNH(raw string) (int, bool) {
	if m := qnhRe.FindStringSubmatch(raw); m != nil {
		v, _ := strconv.Atoi(m[1])
		return v, true
	}
	if m := altimRe.FindStringSubmatch(raw); m != nil {
		inHg, _ := strconv.Atoi(m[1])
		return int(math.Round(float64(inHg) / 100 * inHgToHPa)), true
	}
	return 0, false
}

// Runway derives the runway in use from the wind direction. Returns false
// when the wind gives no usable direction.
func (r *Report) Runway() (string, bool) {
	if !r.WindOK || r.Wind.Variable || r.Wind.Calm {
		return "", false
	}
	rw := int(math.Round(float64(r.Wind.DirectionDeg) / 10))
	if rw == 0 {
		rw = 36
	}
	return fmt.Sprintf("%02d", rw), true
}

// Synthesize renders the broadcast text the radio panel shows, marker
// included. stationName comes from the tuned frequency; empty falls back
// to the ICAO.
func Synthesize(icao, stationName, raw string, opts Options) string {
	r := Decode(icao, raw, opts)
	return fmt.Sprintf("📡 ATIS %s:\n\n\"%s\"", r.Station, r.Body(stationName))
}

// Body builds the broadcast lines in the operational ICAO order: station
// and letter, time, wind, visibility block, temperatures, QNH, runway,
// closing instruction.
func (r *Report) Body(stationName string) string {
	stationName = strings.TrimSpace(stationName)
	if stationName == "" {
		stationName = r.Station
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("%s informação %s, hora %s Zulu.", stationName, r.Letter, strings.TrimSuffix(r.Time, "Z")))
	lines = append(lines, windSentence(r.Wind, r.WindOK))

	if r.CAVOK {
		lines = append(lines, "CAVOK.")
	} else {
		if r.VisibilityM >= 9999 {
			lines = append(lines, "Visibilidade mais de 10 quilômetros.")
		} else {
			lines = append(lines, fmt.Sprintf("Visibilidade %s.", visibilityLabel(r.VisibilityM)))
		}
		if len(r.Phenomena) > 0 {
			lines = append(lines, capitalize(strings.Join(r.Phenomena, " e "))+".")
		}
		if len(r.Clouds) > 0 {
			var cl []string
			for _, c := range r.Clouds {
				cl = append(cl, fmt.Sprintf("%s %d ft", c.Coverage, c.BaseFt))
			}
			lines = append(lines, "Nuvens: "+strings.Join(cl, ", ")+".")
		}
	}

	lines = append(lines, fmt.Sprintf("Temperatura %d°C, ponto de orvalho %d°C.", r.TemperatureC, r.DewpointC))
	lines = append(lines, fmt.Sprintf("QNH %d hPa.", r.QNH))
	if rw, ok := r.Runway(); ok {
		lines = append(lines, fmt.Sprintf("Pista em uso %s.", rw))
	} else {
		lines = append(lines, "Pista principal em uso.")
	}
	lines = append(lines, fmt.Sprintf("Ao contato inicial, informe que possui a informação %s.", r.Letter))
	return strings.Join(lines, "\n")
}

func windSentence(w Wind, ok bool) string {
	switch {
	case !ok:
		return "Vento não informado."
	case w.Calm:
		return "Vento calmo."
	case w.Variable:
		return fmt.Sprintf("Vento variável, %d nós.", w.SpeedKt)
	case w.GustKt > 0:
		return fmt.Sprintf("Vento %03d graus, %d nós, rajadas de %d nós.", w.DirectionDeg, w.SpeedKt, w.GustKt)
	default:
		return fmt.Sprintf("Vento %03d graus, %d nós.", w.DirectionDeg, w.SpeedKt)
	}
}

func visibilityLabel(m int) string {
	if m >= 1000 {
		km := float64(m) / 1000
		if km == math.Trunc(km) {
			return fmt.Sprintf("%d quilômetros", int(km))
		}
		return fmt.Sprintf("%.1f quilômetros", km)
	}
	return fmt.Sprintf("%d metros", m)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
