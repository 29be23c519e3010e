package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atcvirtual/atcvirtual/internal/freq"
	"github.com/atcvirtual/atcvirtual/internal/phase"
	"github.com/atcvirtual/atcvirtual/internal/reply"
)

func baseInput() Input {
	return Input{
		Persona:       "# ATC VIRTUAL\nVocê é um controlador de tráfego aéreo.",
		Aircraft:      "PT-ABC",
		DepartureICAO: "SBGR",
		ArrivalICAO:   "SBSP",
		Rules:         phase.IFR,
		Mode:          ModeTraining,
		METARContext:  "METAR SBGR: SBGR 121400Z 08012KT 9999 SCT020 24/18 Q1016",
		DepartureFreqs: []freq.Frequency{
			{Type: freq.ATIS, Frequency: "127.750", Name: "ATIS Guarulhos"},
			{Type: freq.GND, Frequency: "121.710", Name: "Solo Guarulhos"},
			{Type: freq.TWR, Frequency: "118.400", Name: "Torre Guarulhos"},
		},
		ArrivalFreqs: []freq.Frequency{
			{Type: freq.TWR, Frequency: "127.150", Name: "Torre Congonhas"},
		},
		Phase:   phase.TaxiOut,
		Channel: reply.ChannelATC,
	}
}

func TestBuildDeterministic(t *testing.T) {
	in := baseInput()
	assert.Equal(t, Build(in), Build(in))
}

func TestBuildLayersInOrder(t *testing.T) {
	out := Build(baseInput())

	markers := []string{
		"# ATC VIRTUAL",
		"## CONTEXTO DO VOO ATUAL",
		"## FREQUÊNCIAS DISPONÍVEIS",
		"FASE ATUAL DO VOO",
		"## INSTRUÇÃO DE RESPOSTA",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(out, m)
		if idx < 0 {
			t.Fatalf("missing section %q", m)
		}
		if idx < last {
			t.Errorf("section %q out of order", m)
		}
		last = idx
	}
}

func TestBuildMarksMissingSectors(t *testing.T) {
	out := Build(baseInput())

	assert.Contains(t, out, "GND (Solo): 121.710")
	assert.Contains(t, out, "CTR (Centro): INDISPONÍVEL")
	assert.Contains(t, out, "DEP (Controle de Saída): INDISPONÍVEL")
	assert.NotContains(t, out, "Nenhuma frequência disponível para SBGR")
}

func TestBuildArrivalSectorOrder(t *testing.T) {
	out := Build(baseInput())

	start := strings.Index(out, "**Aeroporto de Destino (SBSP):**")
	end := strings.Index(out, "⚠️ REGRAS CRÍTICAS")
	if start < 0 || end <= start {
		t.Fatalf("destination block not found")
	}
	section := out[start:end]

	assert.NotContains(t, section, "ATIS")
	assert.NotContains(t, section, "CLR")
	assert.NotContains(t, section, "DEP (Controle de Saída)")

	idxCTR := strings.Index(section, "CTR (Centro)")
	idxAPP := strings.Index(section, "APP (Controle/Aproximação)")
	idxTWR := strings.Index(section, "TWR (Torre): 127.150")
	idxGND := strings.Index(section, "GND (Solo)")
	if idxCTR < 0 || idxAPP < 0 || idxTWR < 0 || idxGND < 0 {
		t.Fatalf("destination block missing sectors: %q", section)
	}
	assert.True(t, idxCTR < idxAPP && idxAPP < idxTWR && idxTWR < idxGND,
		"destination sectors follow the arrival sequence")
}

func TestBuildExpectedServiceNone(t *testing.T) {
	in := baseInput()
	in.Rules = phase.VFR
	in.Phase = phase.Cruise
	out := Build(in)

	assert.Contains(t, out, "Serviço esperado (VFR): Nenhum")
	assert.NotContains(t, out, "Serviço esperado (VFR): CTR ou NONE")
}

func TestBuildEmptyFrequencyList(t *testing.T) {
	in := baseInput()
	in.ArrivalFreqs = nil
	out := Build(in)

	assert.Contains(t, out, "(Nenhuma frequência disponível para SBSP)")
}

func TestBuildTunedCrossChecks(t *testing.T) {
	in := baseInput()
	in.Tuned = &freq.Selected{
		Airport: freq.Departure, Type: freq.GND, Frequency: "121.710", Name: "Solo Guarulhos",
	}
	out := Build(in)

	assert.Contains(t, out, "Frequência Sintonizada pelo Piloto")
	assert.Contains(t, out, "Aeroporto: SBGR (Guarulhos) - SAÍDA")
	assert.Contains(t, out, "você está na frequência do Solo")
	assert.Contains(t, out, "seu plano de voo indica SBSP")
}

func TestBuildFlagsSectorMismatch(t *testing.T) {
	in := baseInput()
	in.Phase = phase.Cruise
	in.Tuned = &freq.Selected{
		Airport: freq.Departure, Type: freq.GND, Frequency: "121.710", Name: "Solo Guarulhos",
	}
	out := Build(in)

	assert.Contains(t, out, "INCONSISTÊNCIA: Piloto sintonizado em GND, mas deveria estar em CTR")
}

func TestBuildNoMismatchWhenTunedMatches(t *testing.T) {
	in := baseInput()
	in.Tuned = &freq.Selected{
		Airport: freq.Departure, Type: freq.GND, Frequency: "121.710", Name: "Solo Guarulhos",
	}
	out := Build(in)

	assert.NotContains(t, out, "INCONSISTÊNCIA")
}

func TestBuildOmitsBannerWithoutPhase(t *testing.T) {
	in := baseInput()
	in.Phase = ""
	out := Build(in)

	assert.NotContains(t, out, "FASE ATUAL DO VOO")
	assert.Contains(t, out, "## INSTRUÇÃO DE RESPOSTA")
}

func TestInstructionVariants(t *testing.T) {
	t.Run("training mode asks for both voices", func(t *testing.T) {
		out := Build(baseInput())
		assert.Contains(t, out, "📡 ATC: [sua resposta como controlador]")
		assert.Contains(t, out, "🧠 Avaliador: [sua análise técnica")
	})

	t.Run("live mode is controller only", func(t *testing.T) {
		in := baseInput()
		in.Mode = ModeLive
		out := Build(in)
		assert.Contains(t, out, "APENAS como ATC")
		assert.NotContains(t, out, "🧠 Avaliador: [sua análise técnica")
	})

	t.Run("evaluator channel is a private lesson", func(t *testing.T) {
		in := baseInput()
		in.Channel = reply.ChannelEvaluator
		out := Build(in)
		assert.Contains(t, out, "conversa privada")
		assert.Contains(t, out, "🧠 Avaliador: [sua resposta como instrutor]")
		assert.NotContains(t, out, "📡 ATC: [sua resposta como controlador]")
	})
}

func TestBuildMissingMETAR(t *testing.T) {
	in := baseInput()
	in.METARContext = ""
	out := Build(in)

	assert.Contains(t, out, "**Dados Meteorológicos:**\nNão disponível")
}
