package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/injury-triage-server/internal/domain"
)

func TestDeriveTriageCategory(t *testing.T) {
	tests := []struct {
		severity domain.Severity
		expected domain.TriageCategory
	}{
		{5, domain.TriageRed},
		{4, domain.TriageRed},
		{3, domain.TriageYellow},
		{2, domain.TriageYellow},
		{1, domain.TriageGreen},
		// out of range
		{0, domain.TriageGreen},
		{6, domain.TriageRed},
		{-3, domain.TriageGreen},
		{100, domain.TriageRed},
		// non-integral
		{3.9, domain.TriageYellow},
		{1.99, domain.TriageGreen},
		{4.0, domain.TriageRed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DeriveTriageCategory(tt.severity), "severity %v", tt.severity)
	}
}

func TestHumanizeInjuryType(t *testing.T) {
	tests := map[domain.InjuryType]string{
		domain.InjuryLegFracture:       "Leg Fracture",
		domain.InjuryAbdominalBleeding: "Abdominal Bleeding",
		domain.InjuryCardiac:           "Cardiac",
		"HEAD_FRACTURE":                "Head Fracture",
		"":                             "",

		// Apostrophes and leading digits stay inside the word.
		"xyz's":      "Xyz's",
		"3rd_degree": "3rd Degree",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, HumanizeInjuryType(input), "input %q", input)
	}
}

func TestRenderSummary(t *testing.T) {
	t.Run("bleeding", func(t *testing.T) {
		result := &domain.TriageResult{
			InjuryClassification: domain.InjuryClassification{
				Bleeding:       true,
				InjuryType:     domain.InjuryLegFracture,
				InjuryLocation: domain.LocationLeg,
			},
			RequiresSpecialty: domain.SpecialtyOrthopedics,
		}

		assert.Equal(t,
			"⚠️ Bleeding detected — Leg Fracture (leg). Routing to nearest Orthopedics unit.",
			RenderSummary(result))
	})

	t.Run("no bleeding", func(t *testing.T) {
		result := &domain.TriageResult{
			InjuryClassification: domain.InjuryClassification{
				Bleeding:       false,
				InjuryType:     domain.InjuryCardiac,
				InjuryLocation: domain.LocationChest,
			},
			RequiresSpecialty: domain.SpecialtyCardiology,
		}

		summary := RenderSummary(result)
		assert.Equal(t,
			"🔵 No active bleeding — Cardiac (chest). Routing to nearest capable hospital by distance.",
			summary)
		assert.NotContains(t, summary, "Cardiology")
	})
}
