package phase

import (
	"fmt"
	"strings"

	"github.com/atcvirtual/atcvirtual/internal/freq"
)

// Result is the outcome of validating a transmission attempt. A Warning may
// be set on a valid result when the pilot should normally have a frequency
// tuned but none is selected.
type Result struct {
	IsValid bool
	Error   string
	Warning string
}

// Validate decides whether a pilot transmission is procedurally legal for
// the current phase, tuned frequency and flight rules. Checks run in strict
// priority order: silence phases win over everything, then general
// communication blocks, then expected-service matching. The function is
// pure; it never inspects session state.
func Validate(p FlightPhase, tuned *freq.Selected, rules FlightRules) Result {
	info := Get(p)

	if info.SilenceRequired {
		return Result{Error: info.SilenceMessage}
	}
	if !info.CommunicationAllowed {
		return Result{Error: fmt.Sprintf("Nenhuma comunicação é esperada na fase %s.", info.Label)}
	}

	expected := info.ExpectedService[rules]
	optional := false
	for _, e := range expected {
		if e == freq.NONE {
			optional = true
		}
	}

	if tuned == nil {
		if optional {
			return Result{IsValid: true}
		}
		return Result{
			IsValid: true,
			Warning: fmt.Sprintf("Nenhuma frequência sintonizada. Esperado: %s.", expectedLabel(expected)),
		}
	}

	if matches(expected, tuned.Type) || optional {
		return Result{IsValid: true}
	}
	return Result{
		Error: fmt.Sprintf("Frequência %s sintonizada, mas a fase %s espera %s.",
			tuned.Type, info.Label, expectedLabel(expected)),
	}
}

func matches(expected []freq.ServiceType, tuned freq.ServiceType) bool {
	for _, e := range expected {
		if e == tuned {
			return true
		}
	}
	return false
}

func expectedLabel(expected []freq.ServiceType) string {
	var parts []string
	for _, e := range expected {
		if e == freq.NONE {
			continue
		}
		parts = append(parts, string(e))
	}
	if len(parts) == 0 {
		return "nenhuma"
	}
	return strings.Join(parts, " ou ")
}
