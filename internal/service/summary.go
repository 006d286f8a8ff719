package service

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/injury-triage-server/internal/domain"
)

// DeriveTriageCategory maps severity onto the colour band. The comparisons
// are unbounded, so out-of-range severities still land in a band.
func DeriveTriageCategory(severity domain.Severity) domain.TriageCategory {
	switch {
	case severity >= 4:
		return domain.TriageRed
	case severity >= 2:
		return domain.TriageYellow
	default:
		return domain.TriageGreen
	}
}

// HumanizeInjuryType turns "leg_fracture" into "Leg Fracture".
func HumanizeInjuryType(injuryType domain.InjuryType) string {
	// Casers keep state, so one is built per call.
	caser := cases.Title(language.Und)
	return caser.String(strings.ReplaceAll(string(injuryType), "_", " "))
}

// RenderSummary produces the one-line description shown to paramedics.
func RenderSummary(result *domain.TriageResult) string {
	injury := HumanizeInjuryType(result.InjuryType)
	if result.Bleeding {
		return fmt.Sprintf("⚠️ Bleeding detected — %s (%s). Routing to nearest %s unit.",
			injury, result.InjuryLocation, result.RequiresSpecialty)
	}
	return fmt.Sprintf("🔵 No active bleeding — %s (%s). Routing to nearest capable hospital by distance.",
		injury, result.InjuryLocation)
}
