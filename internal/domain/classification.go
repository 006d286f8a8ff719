package domain

// RawClassification is the classifier's answer as decoded from its JSON
// document. Any subset of fields may be missing; a JSON null is treated the
// same as an absent key. Extra keys are ignored.
type RawClassification struct {
	Bleeding       *bool           `json:"bleeding,omitempty"`
	InjuryType     *InjuryType     `json:"injury_type,omitempty"`
	InjuryLocation *InjuryLocation `json:"injury_location,omitempty"`
	SeverityLevel  *Severity       `json:"severity_level,omitempty"`
	RequiresICU    *bool           `json:"requires_icu,omitempty"`
	Confidence     *Confidence     `json:"confidence,omitempty"`
}

// InjuryClassification is the complete classification record. Every field is
// populated once a RawClassification has been normalized.
type InjuryClassification struct {
	Bleeding       bool           `json:"bleeding"`
	InjuryType     InjuryType     `json:"injury_type"`
	InjuryLocation InjuryLocation `json:"injury_location"`
	SeverityLevel  Severity       `json:"severity_level"`
	RequiresICU    bool           `json:"requires_icu"`
	Confidence     Confidence     `json:"confidence"`
}

// Raw returns the fully populated partial form of the record.
func (c InjuryClassification) Raw() *RawClassification {
	return &RawClassification{
		Bleeding:       &c.Bleeding,
		InjuryType:     &c.InjuryType,
		InjuryLocation: &c.InjuryLocation,
		SeverityLevel:  &c.SeverityLevel,
		RequiresICU:    &c.RequiresICU,
		Confidence:     &c.Confidence,
	}
}

// RankingStrategy carries the weights a downstream hospital ranker applies.
// The three weights of every table entry sum to 1.0.
type RankingStrategy struct {
	Priority        RankingPriority `json:"priority"`
	WeightDistance  float64         `json:"weight_distance"`
	WeightSpecialty float64         `json:"weight_specialty"`
	WeightCapacity  float64         `json:"weight_capacity"`
}

// WeightSum returns the sum of the three weights.
func (s RankingStrategy) WeightSum() float64 {
	return s.WeightDistance + s.WeightSpecialty + s.WeightCapacity
}

// TriageResult is the classification enriched with routing information.
type TriageResult struct {
	InjuryClassification

	TriageCategory    TriageCategory  `json:"triage_category"`
	RequiresSpecialty Specialty       `json:"requires_specialty"`
	RankingStrategy   RankingStrategy `json:"ranking_strategy"`
	RankingPriority   RankingPriority `json:"ranking_priority"`
	Summary           string          `json:"summary"`
}

// LogFields returns structured logging fields for the result.
func (r *TriageResult) LogFields() map[string]any {
	return map[string]any{
		"bleeding":           r.Bleeding,
		"injury_type":        string(r.InjuryType),
		"injury_location":    string(r.InjuryLocation),
		"severity_level":     float64(r.SeverityLevel),
		"requires_icu":       r.RequiresICU,
		"confidence":         string(r.Confidence),
		"triage_category":    string(r.TriageCategory),
		"requires_specialty": string(r.RequiresSpecialty),
		"ranking_priority":   string(r.RankingPriority),
	}
}

// StrategyOverview is the introspective view of both decision tables.
type StrategyOverview struct {
	Strategies   map[StrategyKey]RankingStrategy `json:"strategies"`
	SpecialtyMap map[InjuryType]Specialty        `json:"specialty_map"`
	Logic        map[string]string               `json:"logic"`
}

// ImageInput is a single uploaded scene photograph.
type ImageInput struct {
	Data     []byte
	MIMEType string
	// Digest is the hex SHA-256 of Data.
	Digest   string
	Filename string
}
