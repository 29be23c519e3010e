// Package reply splits a raw model completion into the two voices the
// trainer presents, the controller and the evaluator, and classifies
// whether the controller put the pilot in a holding state.
package reply

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Channel says which voice the pilot addressed.
type Channel string

const (
	ChannelATC       Channel = "atc"
	ChannelEvaluator Channel = "evaluator"
)

// Parsed is the split completion. Either part may be empty; IsWaiting is
// set when the controller issued a genuine hold instruction.
type Parsed struct {
	ATC       string
	Evaluator string
	IsWaiting bool
}

var (
	atcMarkerRe       = regexp.MustCompile(`(?is)📡\s*ATC:\s*([\s\S]*?)(?:🧠\s*Avaliador:|$)`)
	evaluatorMarkerRe = regexp.MustCompile(`(?is)🧠\s*Avaliador:\s*([\s\S]*)$`)
	evaluatorPrefixRe = regexp.MustCompile(`(?i)^🧠\s*Avaliador:\s*`)
)

// Holding patterns match real hold instructions, not casual mentions of the
// same words. Portuguese entries are written without diacritics and matched
// against accent-folded text.
var waitingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`hold (position|short)`),
	regexp.MustCompile(`hold at`),
	regexp.MustCompile(`traffic (on final|on approach|landing)`),
	regexp.MustCompile(`stand by`),
	regexp.MustCompile(`expect (delay|holding|further)`),
	regexp.MustCompile(`behind (the |a )?\w+`),
	regexp.MustCompile(`number \d+ (to land|for|in sequence)`),
	regexp.MustCompile(`mantenha posicao`),
	regexp.MustCompile(`mantenha curta`),
	regexp.MustCompile(`aguarde (na|em|o |a |autorizacao)`),
	regexp.MustCompile(`espere (na|em|o |a )`),
	regexp.MustCompile(`pista em uso`),
	regexp.MustCompile(`sequencia para`),
	regexp.MustCompile(`numero \d+ para`),
	regexp.MustCompile(`apos (o |a )?(trafego|pouso|decolagem|aeronave)`),
	regexp.MustCompile(`autorizacao pendente`),
	regexp.MustCompile(`aguardando (slot|autorizacao|liberacao)`),
	regexp.MustCompile(`livre para (esperar|manter)`),
	regexp.MustCompile(`reporte pronto`),
}

// falsePositivePatterns veto matches that only mention the vocabulary:
// traffic advisories, sighting reports and greetings.
var falsePositivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`trafego [a-z]{4}`),
	regexp.MustCompile(`informo trafego`),
	regexp.MustCompile(`trafego (visual|a vista)`),
	regexp.MustCompile(`bom dia|boa tarde|boa noite`),
}

// Parse splits the completion according to the channel the pilot used.
// Evaluator-channel completions are taken whole after stripping the marker.
// ATC-channel completions are split on the two markers; a completion with
// no markers at all is treated as pure controller speech.
func Parse(content string, ch Channel) Parsed {
	p := Parsed{IsWaiting: IsHolding(content)}

	if ch == ChannelEvaluator {
		p.Evaluator = strings.TrimSpace(evaluatorPrefixRe.ReplaceAllString(content, ""))
		return p
	}

	if m := atcMarkerRe.FindStringSubmatch(content); m != nil {
		p.ATC = strings.TrimSpace(m[1])
	} else if !strings.Contains(content, "🧠") {
		p.ATC = strings.TrimSpace(content)
	}
	if m := evaluatorMarkerRe.FindStringSubmatch(content); m != nil {
		p.Evaluator = strings.TrimSpace(m[1])
	}
	return p
}

// IsHolding reports whether the text contains a genuine hold instruction.
func IsHolding(content string) bool {
	folded := foldAccents(content)
	waiting := false
	for _, re := range waitingPatterns {
		if re.MatchString(folded) {
			waiting = true
			break
		}
	}
	if !waiting {
		return false
	}
	for _, re := range falsePositivePatterns {
		if re.MatchString(folded) {
			return false
		}
	}
	return true
}

// foldAccents lowercases and strips combining marks, so "posição" and
// "posicao" compare equal.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
