// Package phase holds the flight phase catalog and the phase/frequency
// validation rules used to judge whether a pilot transmission is
// procedurally legal.
package phase

import (
	"fmt"
	"strings"

	"github.com/atcvirtual/atcvirtual/internal/freq"
)

// FlightPhase identifies one of the 17 discrete stages of a flight.
type FlightPhase string

const (
	ParkingCold    FlightPhase = "PARKING_COLD"
	ParkingHot     FlightPhase = "PARKING_HOT"
	TaxiOut        FlightPhase = "TAXI_OUT"
	HoldingPoint   FlightPhase = "HOLDING_POINT"
	LinedUp        FlightPhase = "LINED_UP"
	TakeoffRoll    FlightPhase = "TAKEOFF_ROLL"
	InitialClimb   FlightPhase = "INITIAL_CLIMB"
	LeavingTMA     FlightPhase = "LEAVING_TMA"
	Cruise         FlightPhase = "CRUISE"
	Descent        FlightPhase = "DESCENT"
	EnteringTMA    FlightPhase = "ENTERING_TMA"
	Approach       FlightPhase = "APPROACH"
	Final          FlightPhase = "FINAL"
	Landing        FlightPhase = "LANDING"
	Rollout        FlightPhase = "ROLLOUT"
	TaxiIn         FlightPhase = "TAXI_IN"
	ParkingArrived FlightPhase = "PARKING_ARRIVED"
)

// FlightRules is the flight rule type the pilot filed.
type FlightRules string

const (
	VFR FlightRules = "VFR"
	IFR FlightRules = "IFR"
)

// Region says which airport a phase is flown relative to.
type Region string

const (
	AtDeparture Region = "departure"
	AtArrival   Region = "arrival"
	Enroute     Region = "enroute"
)

// Info is the static per-phase record. The table is loaded once and never
// mutated. Position is only used for UI placement along the timeline.
type Info struct {
	ID                   FlightPhase
	Label                string
	ShortLabel           string
	Position             int
	ExpectedService      map[FlightRules][]freq.ServiceType
	CommunicationAllowed bool
	SilenceRequired      bool
	Airport              Region
	ATCInitiatesContact  bool
	SilenceMessage       string
	ExpectedServiceHint  string
}

// phases is ordered by flight progression. Invariant: silenceRequired
// implies communicationAllowed == false and expected service NONE for both
// flight rules.
var phases = []Info{
	{
		ID: ParkingCold, Label: "Pátio - Motor Desligado", ShortLabel: "Pátio (frio)", Position: 0,
		ExpectedService:      expect(none, none),
		CommunicationAllowed: false, SilenceRequired: true, Airport: AtDeparture,
		SilenceMessage: "Motor desligado. Nenhuma comunicação deve ser iniciada.",
	},
	{
		ID: ParkingHot, Label: "Pátio - Motor Ligado", ShortLabel: "Pátio (quente)", Position: 6,
		ExpectedService:      expect(svc(freq.ATIS, freq.GND), svc(freq.ATIS, freq.CLR, freq.GND)),
		CommunicationAllowed: true, Airport: AtDeparture,
		ExpectedServiceHint: "VFR: ATIS → SOLO | IFR: ATIS → CLR → SOLO",
	},
	{
		ID: TaxiOut, Label: "Táxi para Pista", ShortLabel: "Táxi", Position: 12,
		ExpectedService:      expect(svc(freq.GND), svc(freq.GND)),
		CommunicationAllowed: true, Airport: AtDeparture,
		ExpectedServiceHint: "Em comunicação com SOLO (Ground)",
	},
	{
		ID: HoldingPoint, Label: "Ponto de Espera", ShortLabel: "Ponto de espera", Position: 18,
		ExpectedService:      expect(svc(freq.TWR), svc(freq.TWR)),
		CommunicationAllowed: true, Airport: AtDeparture,
		ExpectedServiceHint: "Contatar TORRE para autorização",
	},
	{
		ID: LinedUp, Label: "Alinhado na Pista", ShortLabel: "Alinhado", Position: 24,
		ExpectedService:      expect(svc(freq.TWR), svc(freq.TWR)),
		CommunicationAllowed: true, Airport: AtDeparture,
	},
	{
		ID: TakeoffRoll, Label: "Corrida de Decolagem", ShortLabel: "Decolagem", Position: 30,
		ExpectedService:      expect(none, none),
		CommunicationAllowed: false, SilenceRequired: true, Airport: AtDeparture,
		SilenceMessage: "Corrida de decolagem. Silêncio absoluto.",
	},
	{
		ID: InitialClimb, Label: "Subida Inicial", ShortLabel: "Subida", Position: 36,
		ExpectedService:      expect(svc(freq.TWR, freq.DEP), svc(freq.TWR, freq.DEP)),
		CommunicationAllowed: true, Airport: AtDeparture,
	},
	{
		ID: LeavingTMA, Label: "Saindo da TMA", ShortLabel: "Saída TMA", Position: 43,
		ExpectedService:      expect(svc(freq.DEP, freq.CTR), svc(freq.DEP, freq.CTR)),
		CommunicationAllowed: true, Airport: Enroute,
	},
	{
		ID: Cruise, Label: "Cruzeiro", ShortLabel: "Cruzeiro", Position: 50,
		ExpectedService:      expect(svc(freq.CTR, freq.NONE), svc(freq.CTR)),
		CommunicationAllowed: true, Airport: Enroute,
	},
	{
		ID: Descent, Label: "Descida", ShortLabel: "Descida", Position: 57,
		ExpectedService:      expect(svc(freq.CTR, freq.APP), svc(freq.CTR, freq.APP)),
		CommunicationAllowed: true, Airport: Enroute,
	},
	{
		ID: EnteringTMA, Label: "Entrando na TMA", ShortLabel: "Entrada TMA", Position: 64,
		ExpectedService:      expect(svc(freq.APP), svc(freq.APP)),
		CommunicationAllowed: true, Airport: AtArrival,
	},
	{
		ID: Approach, Label: "Aproximação", ShortLabel: "Aproximação", Position: 70,
		ExpectedService:      expect(svc(freq.APP), svc(freq.APP)),
		CommunicationAllowed: true, Airport: AtArrival,
	},
	{
		ID: Final, Label: "Final", ShortLabel: "Final", Position: 76,
		ExpectedService:      expect(svc(freq.TWR), svc(freq.TWR)),
		CommunicationAllowed: true, Airport: AtArrival,
	},
	{
		ID: Landing, Label: "Pouso / Flare", ShortLabel: "Pouso", Position: 82,
		ExpectedService:      expect(none, none),
		CommunicationAllowed: false, SilenceRequired: true, Airport: AtArrival,
		SilenceMessage: "Pouso em andamento. Silêncio.",
	},
	{
		ID: Rollout, Label: "Rollout", ShortLabel: "Rollout", Position: 88,
		ExpectedService:      expect(none, none),
		CommunicationAllowed: false, SilenceRequired: true, Airport: AtArrival,
		ATCInitiatesContact:  true,
		SilenceMessage:       "Rollout. Aguardar instruções da TORRE.",
	},
	{
		ID: TaxiIn, Label: "Táxi para Pátio", ShortLabel: "Táxi (chegada)", Position: 94,
		ExpectedService:      expect(svc(freq.GND), svc(freq.GND)),
		CommunicationAllowed: true, Airport: AtArrival,
	},
	{
		ID: ParkingArrived, Label: "Pátio - Estacionado", ShortLabel: "Estacionado", Position: 100,
		ExpectedService:      expect(none, none),
		CommunicationAllowed: false, Airport: AtArrival,
		ExpectedServiceHint: "Fim das comunicações",
	},
}

var byID = func() map[FlightPhase]Info {
	m := make(map[FlightPhase]Info, len(phases))
	for _, p := range phases {
		m[p.ID] = p
	}
	return m
}()

var none = svc(freq.NONE)

func svc(types ...freq.ServiceType) []freq.ServiceType { return types }

func expect(vfr, ifr []freq.ServiceType) map[FlightRules][]freq.ServiceType {
	return map[FlightRules][]freq.ServiceType{VFR: vfr, IFR: ifr}
}

// All returns the phase records in flight order.
func All() []Info {
	out := make([]Info, len(phases))
	copy(out, phases)
	return out
}

// Get returns the record for a phase. It is total over the 17 known phases;
// unknown identifiers must be rejected upstream with Parse.
func Get(p FlightPhase) Info {
	return byID[p]
}

// Parse validates a phase identifier coming from the API boundary.
func Parse(raw string) (FlightPhase, error) {
	p := FlightPhase(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := byID[p]; !ok {
		return "", fmt.Errorf("unknown flight phase %q", raw)
	}
	return p, nil
}

// ParseRules validates a flight rules identifier.
func ParseRules(raw string) (FlightRules, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "VFR":
		return VFR, nil
	case "IFR":
		return IFR, nil
	}
	return "", fmt.Errorf("unknown flight rules %q", raw)
}
