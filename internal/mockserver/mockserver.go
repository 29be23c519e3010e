// Package mockserver runs a local stand-in for the two external services
// the trainer depends on: the AI gateway and the AVWX weather API. It lets
// the full stack run offline during development.
package mockserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	mu sync.Mutex
	// canned responses rotate so repeated calls look like a live controller
	replyIdx int
)

var cannedReplies = []string{
	"📡 ATC: PT-ABC, Solo, táxi aprovado via Alfa, Bravo, ponto de espera pista 09R.\n\n🧠 Avaliador: Chamada correta. Aguardo o readback completo: pista, taxiways e ponto de espera.",
	"📡 ATC: PT-ABC, mantenha posição, tráfego na final.\n\n🧠 Avaliador: Instrução de espera emitida. Cotejamento esperado: \"mantendo posição, PT-ABC\".",
	"📡 ATC: PT-ABC, vento 090 graus, 8 nós, pista 09R, autorizado decolagem.\n\n🧠 Avaliador: Autorização de decolagem na fase correta. Coteje pista e autorização.",
}

// Start runs the mock server on the given port and returns it for
// shutdown. Chat completions and AVWX lookups are both served.
func Start(port string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", completionsHandler)
	mux.HandleFunc("/api/metar/", metarHandler)
	mux.HandleFunc("/api/taf/", tafHandler)
	mux.HandleFunc("/api/station/", stationHandler)

	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		log.Printf("mockserver: listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("mockserver: ListenAndServe error: %v", err)
		}
	}()
	return srv
}

func completionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	mu.Lock()
	reply := cannedReplies[replyIdx%len(cannedReplies)]
	replyIdx++
	mu.Unlock()

	writeJSON(w, map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": reply}},
		},
	})
}

func metarHandler(w http.ResponseWriter, r *http.Request) {
	icao := stationFromPath(r.URL.Path, "/api/metar/")
	if icao == "" {
		http.NotFound(w, r)
		return
	}
	now := time.Now().UTC()
	raw := fmt.Sprintf("%s %02d%02d%02dZ 08010KT 9999 SCT020 24/18 Q1016", icao, now.Day(), now.Hour(), now.Minute())
	writeJSON(w, map[string]any{
		"raw":            raw,
		"temperature":    map[string]any{"value": 24},
		"dewpoint":       map[string]any{"value": 18},
		"wind_direction": map[string]any{"value": 80},
		"wind_speed":     map[string]any{"value": 10},
		"visibility":     map[string]any{"value": 9999},
		"altimeter":      map[string]any{"value": 1016},
		"flight_rules":   "VFR",
		"clouds":         []map[string]any{{"type": "SCT", "altitude": 20}},
		"time":           map[string]string{"repr": now.Format("021504Z")},
	})
}

func tafHandler(w http.ResponseWriter, r *http.Request) {
	icao := stationFromPath(r.URL.Path, "/api/taf/")
	if icao == "" {
		http.NotFound(w, r)
		return
	}
	now := time.Now().UTC()
	writeJSON(w, map[string]any{
		"raw":  fmt.Sprintf("TAF %s %02d%02d00Z 08008KT 9999 SCT025", icao, now.Day(), now.Hour()),
		"time": map[string]string{"repr": now.Format("021504Z")},
	})
}

func stationHandler(w http.ResponseWriter, r *http.Request) {
	icao := stationFromPath(r.URL.Path, "/api/station/")
	if icao == "" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]any{
		"icao": icao,
		"frequencies": []map[string]string{
			{"type": "ATIS", "frequency": "127.750", "name": "ATIS " + icao},
			{"type": "Ground", "frequency": "121.900", "name": "Solo " + icao},
			{"type": "Tower", "frequency": "118.100", "name": "Torre " + icao},
			{"type": "Approach", "frequency": "119.700", "name": "Controle " + icao},
		},
	})
}

func stationFromPath(path, prefix string) string {
	icao := strings.ToUpper(strings.TrimPrefix(path, prefix))
	if len(icao) != 4 {
		return ""
	}
	return icao
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("mockserver: encode error: %v", err)
	}
}
