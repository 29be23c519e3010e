package freq

import "testing"

func TestParseServiceType(t *testing.T) {
	cases := []struct {
		raw  string
		want ServiceType
		ok   bool
	}{
		{raw: "ATIS", want: ATIS, ok: true},
		{raw: "Ground", want: GND, ok: true},
		{raw: "solo", want: GND, ok: true},
		{raw: "Torre", want: TWR, ok: true},
		{raw: "tower", want: TWR, ok: true},
		{raw: "Clearance Delivery", want: CLR, ok: true},
		{raw: "Aproximação", want: APP, ok: true},
		{raw: "Centro", want: CTR, ok: true},
		{raw: "departure control", want: DEP, ok: true},
		{raw: "unicom", want: NONE},
		{raw: "", want: NONE},
	}
	for _, tc := range cases {
		got, ok := ParseServiceType(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseServiceType(%q) = %v, %v; want %v, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalize(t *testing.T) {
	raw := []Frequency{
		{Type: "Ground", Frequency: "121.650", Name: "Solo Guarulhos"},
		{Type: "GND", Frequency: "121.700", Name: "duplicate ground"},
		{Type: "Torre", Frequency: "132.100", Name: "Torre Guarulhos"},
		{Type: "unicom", Frequency: "122.800"},
	}
	out := Normalize(raw)

	if len(out) != 2 {
		t.Fatalf("expected 2 normalized frequencies, got %d: %v", len(out), out)
	}
	if out[0].Type != GND || out[0].Frequency != "121.650" {
		t.Errorf("first seen per type must win: %+v", out[0])
	}
	if out[1].Type != TWR {
		t.Errorf("expected TWR second, got %+v", out[1])
	}
}

func TestFind(t *testing.T) {
	freqs := []Frequency{
		{Type: GND, Frequency: "121.650"},
		{Type: TWR, Frequency: "132.100"},
	}
	if f, ok := Find(freqs, TWR); !ok || f.Frequency != "132.100" {
		t.Errorf("Find(TWR) = %+v, %v", f, ok)
	}
	if _, ok := Find(freqs, CTR); ok {
		t.Error("Find(CTR) should miss")
	}
}

func TestLookup(t *testing.T) {
	if !HasAirport("SBGR") || !HasAirport(" sbgr ") {
		t.Error("SBGR must be in the static table, case and space insensitive")
	}
	if HasAirport("KJFK") {
		t.Error("KJFK is not a Brazilian table entry")
	}

	freqs := Lookup("SBGR")
	if len(freqs) == 0 {
		t.Fatal("SBGR lookup returned nothing")
	}
	if _, ok := Find(freqs, TWR); !ok {
		t.Error("SBGR must publish a tower frequency")
	}
	if got := Lookup("KJFK"); got != nil {
		t.Errorf("unknown airport must return nil, got %v", got)
	}
}

func TestLabels(t *testing.T) {
	if GND.Label() != "GND (Solo)" {
		t.Errorf("GND label = %q", GND.Label())
	}
	if NONE.Label() != "NONE" {
		t.Errorf("NONE label = %q", NONE.Label())
	}
}
