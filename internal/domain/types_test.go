package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjuryTypeVocabulary(t *testing.T) {
	assert.Len(t, BleedingInjuryTypes, 8)
	assert.Len(t, NonBleedingInjuryTypes, 5)

	all := append(append([]InjuryType{}, BleedingInjuryTypes...), NonBleedingInjuryTypes...)
	seen := make(map[InjuryType]bool)
	for _, it := range all {
		assert.True(t, it.IsValid(), "expected %s to be valid", it)
		assert.False(t, seen[it], "duplicate injury type %s", it)
		seen[it] = true
	}

	for _, bad := range []InjuryType{"", "xyz", "Head_Fracture", "fracture"} {
		assert.False(t, bad.IsValid(), "expected %q to be invalid", bad)
	}
}

func TestInjuryLocationIsValid(t *testing.T) {
	tests := []struct {
		value    InjuryLocation
		expected bool
	}{
		{LocationHead, true},
		{LocationNeck, true},
		{LocationChest, true},
		{LocationAbdomen, true},
		{LocationArm, true},
		{LocationLeg, true},
		{LocationBack, true},
		{LocationMultiple, true},
		{LocationUnknown, true},
		{"foot", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.IsValid())
		})
	}
}

func TestEnumerationConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"Red", TriageRed.String(), "Red"},
		{"Yellow", TriageYellow.String(), "Yellow"},
		{"Green", TriageGreen.String(), "Green"},
		{"Specialty priority", PrioritySpecialty.String(), "specialty"},
		{"ICU priority", PriorityICU.String(), "icu"},
		{"Distance priority", PriorityDistance.String(), "distance"},
		{"High confidence", ConfidenceHigh.String(), "high"},
		{"Medium confidence", ConfidenceMedium.String(), "medium"},
		{"Low confidence", ConfidenceLow.String(), "low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value)
		})
	}

	assert.False(t, TriageCategory("Blue").IsValid())
	assert.False(t, RankingPriority("speed").IsValid())
	assert.False(t, Confidence("certain").IsValid())
}

func TestTriageResultJSONShape(t *testing.T) {
	result := TriageResult{
		InjuryClassification: InjuryClassification{
			Bleeding:       true,
			InjuryType:     InjuryLegFracture,
			InjuryLocation: LocationLeg,
			SeverityLevel:  4,
			RequiresICU:    true,
			Confidence:     ConfidenceHigh,
		},
		TriageCategory:    TriageRed,
		RequiresSpecialty: SpecialtyOrthopedics,
		RankingStrategy: RankingStrategy{
			Priority:        PrioritySpecialty,
			WeightDistance:  0.30,
			WeightSpecialty: 0.40,
			WeightCapacity:  0.30,
		},
		RankingPriority: PrioritySpecialty,
		Summary:         "summary",
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{
		"bleeding", "injury_type", "injury_location", "severity_level", "requires_icu",
		"confidence", "triage_category", "requires_specialty", "ranking_strategy",
		"ranking_priority", "summary",
	} {
		assert.Contains(t, decoded, key)
	}
	assert.Len(t, decoded, 11)
	assert.Equal(t, float64(4), decoded["severity_level"])
}

func TestInjuryClassificationRaw(t *testing.T) {
	c := InjuryClassification{
		Bleeding:       true,
		InjuryType:     InjuryBurns,
		InjuryLocation: LocationArm,
		SeverityLevel:  5,
		RequiresICU:    true,
		Confidence:     ConfidenceMedium,
	}

	raw := c.Raw()
	require.NotNil(t, raw.Bleeding)
	require.NotNil(t, raw.InjuryType)
	require.NotNil(t, raw.InjuryLocation)
	require.NotNil(t, raw.SeverityLevel)
	require.NotNil(t, raw.RequiresICU)
	require.NotNil(t, raw.Confidence)
	assert.Equal(t, InjuryBurns, *raw.InjuryType)
	assert.Equal(t, Severity(5), *raw.SeverityLevel)
}
