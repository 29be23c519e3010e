package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBothVoices(t *testing.T) {
	content := "📡 ATC: PT-ABC, taxi via Alpha, hold short runway 09R.\n\n" +
		"🧠 Avaliador: Fraseologia correta. Aguardo o readback do ponto de espera."
	p := Parse(content, ChannelATC)

	assert.Equal(t, "PT-ABC, taxi via Alpha, hold short runway 09R.", p.ATC)
	assert.Equal(t, "Fraseologia correta. Aguardo o readback do ponto de espera.", p.Evaluator)
	assert.True(t, p.IsWaiting)
}

func TestParseBareControllerText(t *testing.T) {
	p := Parse("PT-ABC, cleared for takeoff runway 27.", ChannelATC)

	assert.Equal(t, "PT-ABC, cleared for takeoff runway 27.", p.ATC)
	assert.Empty(t, p.Evaluator)
	assert.False(t, p.IsWaiting)
}

func TestParseEvaluatorOnlyMarkerOnATCChannel(t *testing.T) {
	content := "🧠 Avaliador: Transmissão fora de fase. Nenhuma resposta do controle."
	p := Parse(content, ChannelATC)

	// No ATC marker and the brain marker is present, so nothing goes to
	// the controller voice.
	assert.Empty(t, p.ATC)
	assert.Equal(t, "Transmissão fora de fase. Nenhuma resposta do controle.", p.Evaluator)
}

func TestParseEvaluatorChannel(t *testing.T) {
	p := Parse("🧠 Avaliador: Revise a ordem do readback.", ChannelEvaluator)
	assert.Equal(t, "Revise a ordem do readback.", p.Evaluator)
	assert.Empty(t, p.ATC)

	p = Parse("Revise a ordem do readback.", ChannelEvaluator)
	assert.Equal(t, "Revise a ordem do readback.", p.Evaluator)
}

func TestIsHolding(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "hold short", content: "PT-ABC, hold short runway 09R", want: true},
		{name: "hold position", content: "PT-ABC, hold position, traffic crossing", want: true},
		{name: "stand by", content: "PT-ABC, stand by for clearance", want: true},
		{name: "accented portuguese instruction", content: "PT-ABC, mantenha posição", want: true},
		{name: "unaccented portuguese instruction", content: "PT-ABC, mantenha posicao", want: true},
		{name: "aguarde autorizacao", content: "PT-ABC, aguarde autorização de rolagem", want: true},
		{name: "sequencing", content: "PT-ABC, número 2 para pouso", want: true},
		{name: "callsign mention is not holding", content: "Tráfego Guarulhos, PT-ABC taxiando", want: false},
		{name: "traffic advisory is not holding", content: "PT-ABC, informo tráfego na final", want: false},
		{name: "greeting is not holding", content: "Bom dia, PT-ABC, aguarde na posição", want: false},
		{name: "plain clearance", content: "PT-ABC, cleared to land runway 09R", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsHolding(tc.content))
		})
	}
}
