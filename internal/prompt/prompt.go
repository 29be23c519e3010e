// Package prompt assembles the system prompt sent to the language model.
// The prompt is layered: persona, flight context, frequency table, tuned
// frequency cross-checks, phase banner and the output-format instruction.
// Assembly is deterministic; identical input yields an identical prompt.
package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atcvirtual/atcvirtual/internal/freq"
	"github.com/atcvirtual/atcvirtual/internal/phase"
	"github.com/atcvirtual/atcvirtual/internal/reply"
)

// Mode selects between guided training and a bare controller.
type Mode string

const (
	ModeTraining Mode = "TREINO"
	ModeLive     Mode = "VIVO"
)

// ParseMode validates a mode identifier from the API boundary.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(raw))) {
	case ModeTraining:
		return ModeTraining, nil
	case ModeLive:
		return ModeLive, nil
	}
	return "", fmt.Errorf("unknown mode %q", raw)
}

// Input carries everything the assembler needs. Phase may be empty when the
// client did not report one; the phase banner is then omitted.
type Input struct {
	Persona        string
	Aircraft       string
	DepartureICAO  string
	ArrivalICAO    string
	Rules          phase.FlightRules
	Mode           Mode
	METARContext   string
	DepartureFreqs []freq.Frequency
	ArrivalFreqs   []freq.Frequency
	Tuned          *freq.Selected
	Phase          phase.FlightPhase
	Channel        reply.Channel
}

// Build renders the full system prompt.
func Build(in Input) string {
	var b strings.Builder

	b.WriteString(in.Persona)
	b.WriteString("\n\n## CONTEXTO DO VOO ATUAL\n\n")
	fmt.Fprintf(&b, "**Aeronave:** %s\n", in.Aircraft)
	fmt.Fprintf(&b, "**Saída:** %s\n", in.DepartureICAO)
	fmt.Fprintf(&b, "**Chegada:** %s\n", in.ArrivalICAO)
	fmt.Fprintf(&b, "**Tipo de Voo:** %s\n", in.Rules)
	fmt.Fprintf(&b, "**Modo:** %s\n\n", in.Mode)

	b.WriteString("**Dados Meteorológicos:**\n")
	if in.METARContext != "" {
		b.WriteString(in.METARContext)
	} else {
		b.WriteString("Não disponível")
	}
	b.WriteString("\n")

	b.WriteString(frequencySection(in))
	b.WriteString(phaseSection(in))
	b.WriteString(instructionSection(in.Channel, in.Mode))
	return b.String()
}

// frequencySection lists every sector of both airports, marking absent ones
// as unavailable so the model never invents a frequency.
func frequencySection(in Input) string {
	var b strings.Builder

	b.WriteString("\n## FREQUÊNCIAS DISPONÍVEIS (DADOS REAIS - USE APENAS ESTAS)\n\n")
	fmt.Fprintf(&b, "**Aeroporto de Saída (%s):**\n%s\n\n", in.DepartureICAO, frequencyList(in.DepartureFreqs, in.DepartureICAO, freq.DepartureOrder))
	fmt.Fprintf(&b, "**Aeroporto de Destino (%s):**\n%s\n\n", in.ArrivalICAO, frequencyList(in.ArrivalFreqs, in.ArrivalICAO, freq.ArrivalOrder))

	b.WriteString(`⚠️ REGRAS CRÍTICAS DE FREQUÊNCIA:
- NUNCA invente frequências. Use APENAS as listadas acima.
- Se uma frequência está "INDISPONÍVEL", NÃO mande o piloto contatar esse setor.
- Ao transferir o piloto, use a frequência EXATA da lista.
- Se CTR está INDISPONÍVEL, mantenha em APP/Controle ou informe "mantemos em frequência".
- Se DEL/Tráfego não existe, o Solo acumula a função de aprovação do plano de voo.

## TERMINOLOGIA OBRIGATÓRIA (ICAO Brasil)
- DEL = "Tráfego" (Delivery) - aprovação de planos de voo
- GND = "Solo" (Ground) - pushback, acionamento, táxi
- TWR = "Torre" (Tower) - decolagens, pousos, cruzamento de pista
- DEP/APP = "Controle [cidade]" ou "Controle de Saída" (NUNCA use "Decolagem")
- CTR = "Centro" (Center) - gerenciamento em rota
- AFIS = "Rádio" - informações de aeródromo (não controla)
`)

	if in.Tuned != nil {
		b.WriteString(tunedSection(in))
	}
	return b.String()
}

func frequencyList(freqs []freq.Frequency, icao string, order []freq.ServiceType) string {
	if len(freqs) == 0 {
		return fmt.Sprintf("  (Nenhuma frequência disponível para %s)", icao)
	}
	var lines []string
	for _, st := range order {
		if f, ok := freq.Find(freqs, st); ok {
			lines = append(lines, fmt.Sprintf("  - %s: %s", st.Label(), f.Frequency))
		} else {
			lines = append(lines, fmt.Sprintf("  - %s: INDISPONÍVEL", st.Label()))
		}
	}
	return strings.Join(lines, "\n")
}

var stationPrefixRe = regexp.MustCompile(`(?i)^(ATIS|Solo|Torre|Aproximação|Decolagem|Controle|APP|GND|TWR|DEP|CLR|CTR)\s*`)

// tunedSection tells the model what the pilot actually has dialed in and
// the three cross-checks it must enforce against the pilot's calls.
func tunedSection(in Input) string {
	tuned := in.Tuned
	icao := in.DepartureICAO
	legLabel := "SAÍDA"
	if tuned.Airport == freq.Arrival {
		icao = in.ArrivalICAO
		legLabel = "DESTINO"
	}
	station := strings.TrimSpace(stationPrefixRe.ReplaceAllString(tuned.Name, ""))
	if station == "" {
		station = icao
	}

	sector := "de " + string(tuned.Type)
	switch tuned.Type {
	case freq.GND:
		sector = "do Solo"
	case freq.TWR:
		sector = "da Torre"
	}

	var b strings.Builder
	b.WriteString("\n**Frequência Sintonizada pelo Piloto:**\n")
	fmt.Fprintf(&b, "Aeroporto: %s (%s) - %s\n", icao, station, legLabel)
	fmt.Fprintf(&b, "Setor: %s (%s)\n", tuned.Type, tuned.Frequency)
	fmt.Fprintf(&b, "Nome Completo: %s\n\n", tuned.Name)
	b.WriteString("VALIDAÇÃO CRÍTICA - VOCÊ DEVE VERIFICAR:\n\n")
	fmt.Fprintf(&b, "1. **AEROPORTO CORRETO**: O piloto DEVE chamar o aeroporto onde está sintonizado (%s/%s).\n", station, icao)
	fmt.Fprintf(&b, "   - Se ele chamar OUTRO aeroporto, responda: \"Estação chamando [aeroporto errado], você está na frequência de %s, verifique sua frequência.\"\n\n", station)
	fmt.Fprintf(&b, "2. **SETOR CORRETO**: O piloto DEVE chamar o setor sintonizado (%s).\n", tuned.Type)
	fmt.Fprintf(&b, "   - Se ele chamar outro setor, responda: \"Estação chamando [setor errado], você está na frequência %s.\"\n\n", sector)
	fmt.Fprintf(&b, "3. **DESTINO DECLARADO**: O destino no plano de voo é %s.\n", in.ArrivalICAO)
	fmt.Fprintf(&b, "   - Se o piloto mencionar OUTRO destino, você DEVE questionar: \"Confirme destino: seu plano de voo indica %s.\"\n", in.ArrivalICAO)
	b.WriteString("   - NÃO aceite mudança de destino silenciosamente.\n")
	return b.String()
}

// phaseSection banners the current flight state with maximum priority so a
// stale conversation history never wins over the reported phase.
func phaseSection(in Input) string {
	if in.Phase == "" {
		return ""
	}
	info := phase.Get(in.Phase)
	if info.ID == "" {
		return ""
	}
	expected := info.ExpectedService[in.Rules]

	region := "ROTA"
	switch info.Airport {
	case phase.AtDeparture:
		region = "SAÍDA"
	case phase.AtArrival:
		region = "DESTINO"
	}

	var b strings.Builder
	b.WriteString(`
╔══════════════════════════════════════════════════════════════════════════════╗
║ ⚠️  ATENÇÃO CRÍTICA - PRIORIDADE MÁXIMA                                      ║
║                                                                              ║
║ O ESTADO ABAIXO reflete a situação ATUAL do piloto.                          ║
║ Se houver CONFLITO com o histórico de mensagens, o estado abaixo é CORRETO.  ║
║ O histórico pode estar DESATUALIZADO (piloto mudou de fase).                 ║
║                                                                              ║
║ VOCÊ DEVE responder como o setor apropriado para a FASE ATUAL,               ║
║ NÃO para a fase que aparece no histórico de mensagens.                       ║
╚══════════════════════════════════════════════════════════════════════════════╝

`)
	fmt.Fprintf(&b, "📍 **FASE ATUAL DO VOO: %s**\n", info.Label)
	fmt.Fprintf(&b, "- Aeroporto de referência: %s\n", region)
	fmt.Fprintf(&b, "- Serviço esperado (%s): %s\n", in.Rules, expectedNames(expected))
	if info.SilenceRequired {
		b.WriteString("- Silêncio obrigatório: SIM ⚠️\n")
		if info.SilenceMessage != "" {
			fmt.Fprintf(&b, "- ⚠️ %s\n", info.SilenceMessage)
		}
	} else {
		b.WriteString("- Silêncio obrigatório: Não\n")
	}
	if info.ExpectedServiceHint != "" {
		fmt.Fprintf(&b, "- Dica: %s\n", info.ExpectedServiceHint)
	}

	b.WriteString("\n**REGRAS DE COMUNICAÇÃO PARA ESTA FASE:**\n")
	if info.SilenceRequired {
		b.WriteString("- ⚠️ SILÊNCIO OBRIGATÓRIO - mínimo de comunicação\n")
	} else {
		b.WriteString("- Comunicação normal permitida\n")
	}
	b.WriteString(`- Após readback correto: SILÊNCIO (não confirme "correto", "afirmativo")
- QNH: Informar apenas SE ainda não foi dado neste setor

**REGRA DE OURO**: Quando o piloto muda de fase, você DEVE responder como o
setor apropriado para a NOVA fase, não como o setor do histórico.

**VALIDAÇÃO DE FASE - REGRAS PARA O ATC/AVALIADOR:**

`)
	silence := "esta fase não exige"
	if info.SilenceRequired {
		silence = "ESTA FASE EXIGE"
	}
	fmt.Fprintf(&b, "1. Se a fase exige SILÊNCIO (%s):\n", silence)
	b.WriteString("   - O ATC deve estranhar a comunicação\n")
	fmt.Fprintf(&b, "   - O Avaliador deve corrigir: \"Nesta fase (%s), o piloto não deveria estar transmitindo.\"\n\n", info.Label)
	b.WriteString("2. Se o piloto está no SERVIÇO ERRADO para a fase:\n")
	fmt.Fprintf(&b, "   - Fase atual: %s\n", info.Label)
	fmt.Fprintf(&b, "   - Serviços esperados: %s\n", joinServices(expected, ", "))
	if in.Tuned != nil {
		fmt.Fprintf(&b, "   - Frequência sintonizada: %s\n", in.Tuned.Type)
		if res := phase.Validate(in.Phase, in.Tuned, in.Rules); !res.IsValid && !info.SilenceRequired && info.CommunicationAllowed {
			fmt.Fprintf(&b, "   - ⚠️ INCONSISTÊNCIA: Piloto sintonizado em %s, mas deveria estar em %s\n",
				in.Tuned.Type, joinServices(expected, " ou "))
		}
	} else {
		b.WriteString("   - Nenhuma frequência selecionada\n")
	}
	b.WriteString(`
3. PROGRESSÃO ESPERADA:
   - Antes de taxiar: SOLO (Ground)
   - No ponto de espera: TORRE
   - Após decolagem: TORRE → DEP
   - Em rota: CTR
   - Na chegada: APP → TORRE → SOLO
`)
	return b.String()
}

// expectedNames renders the expected sectors for the pilot. Any list that
// includes NONE means monitoring is optional, shown as "Nenhum".
func expectedNames(expected []freq.ServiceType) string {
	for _, e := range expected {
		if e == freq.NONE {
			return "Nenhum"
		}
	}
	return joinServices(expected, " ou ")
}

func joinServices(expected []freq.ServiceType, sep string) string {
	parts := make([]string, 0, len(expected))
	for _, e := range expected {
		parts = append(parts, string(e))
	}
	return strings.Join(parts, sep)
}

// instructionSection sets the output contract the response parser relies on.
func instructionSection(ch reply.Channel, mode Mode) string {
	header := "\n## INSTRUÇÃO DE RESPOSTA\n\n"

	if ch == reply.ChannelEvaluator {
		return header + `O piloto está falando diretamente com você, o Avaliador/Instrutor, em uma conversa privada.
O ATC NÃO está ouvindo esta conversa.
Responda como instrutor, dando orientações, explicações e tirando dúvidas.
Formate assim:
🧠 Avaliador: [sua resposta como instrutor]
`
	}

	if mode == ModeTraining {
		return header + `Você está respondendo como ATC. O piloto está falando com você pelo rádio.

IMPORTANTE: Após sua resposta como ATC, adicione uma avaliação como instrutor.
O Avaliador DEVE verificar se a comunicação é apropriada para a FASE DO VOO atual.
Formate assim:
📡 ATC: [sua resposta como controlador]

🧠 Avaliador: [sua análise técnica - incluindo verificação de fase do voo]
`
	}
	return header + `Você está respondendo como ATC. O piloto está falando com você pelo rádio.

Responda APENAS como ATC, sem avaliação.
Formate assim:
📡 ATC: [sua resposta como controlador]
`
}
