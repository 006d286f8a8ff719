// Package domain contains the core entities of the injury triage service:
// the closed vocabularies the image classifier answers in, the canonical
// classification record and the routing result derived from it.
package domain

// InjuryType is the injury category reported by the image classifier.
// The vocabulary is closed, but values outside it are carried verbatim so
// that every resolver can apply its documented fallback.
type InjuryType string

// Bleeding categories.
const (
	InjuryHeadFracture      InjuryType = "head_fracture"
	InjuryLegFracture       InjuryType = "leg_fracture"
	InjuryArmFracture       InjuryType = "arm_fracture"
	InjurySpineFracture     InjuryType = "spine_fracture"
	InjuryChestBleeding     InjuryType = "chest_bleeding"
	InjuryAbdominalBleeding InjuryType = "abdominal_bleeding"
	InjuryExternalBleeding  InjuryType = "external_bleeding"
	InjuryBurns             InjuryType = "burns"
)

// Non-bleeding categories.
const (
	InjuryCardiac     InjuryType = "cardiac"
	InjuryRespiratory InjuryType = "respiratory"
	InjuryUnconscious InjuryType = "unconscious"
	InjuryMinor       InjuryType = "minor"
	InjuryUnknown     InjuryType = "unknown"
)

// BleedingInjuryTypes lists the categories the classifier reports with bleeding=true.
var BleedingInjuryTypes = []InjuryType{
	InjuryHeadFracture,
	InjuryLegFracture,
	InjuryArmFracture,
	InjurySpineFracture,
	InjuryChestBleeding,
	InjuryAbdominalBleeding,
	InjuryExternalBleeding,
	InjuryBurns,
}

// NonBleedingInjuryTypes lists the categories the classifier reports with bleeding=false.
var NonBleedingInjuryTypes = []InjuryType{
	InjuryCardiac,
	InjuryRespiratory,
	InjuryUnconscious,
	InjuryMinor,
	InjuryUnknown,
}

// IsValid reports whether the injury type belongs to the closed vocabulary.
func (t InjuryType) IsValid() bool {
	switch t {
	case InjuryHeadFracture, InjuryLegFracture, InjuryArmFracture, InjurySpineFracture,
		InjuryChestBleeding, InjuryAbdominalBleeding, InjuryExternalBleeding, InjuryBurns,
		InjuryCardiac, InjuryRespiratory, InjuryUnconscious, InjuryMinor, InjuryUnknown:
		return true
	default:
		return false
	}
}

func (t InjuryType) String() string {
	return string(t)
}

// InjuryLocation is the body region the injury was observed on.
type InjuryLocation string

const (
	LocationHead     InjuryLocation = "head"
	LocationNeck     InjuryLocation = "neck"
	LocationChest    InjuryLocation = "chest"
	LocationAbdomen  InjuryLocation = "abdomen"
	LocationArm      InjuryLocation = "arm"
	LocationLeg      InjuryLocation = "leg"
	LocationBack     InjuryLocation = "back"
	LocationMultiple InjuryLocation = "multiple"
	LocationUnknown  InjuryLocation = "unknown"
)

// IsValid reports whether the location belongs to the closed vocabulary.
func (l InjuryLocation) IsValid() bool {
	switch l {
	case LocationHead, LocationNeck, LocationChest, LocationAbdomen, LocationArm,
		LocationLeg, LocationBack, LocationMultiple, LocationUnknown:
		return true
	default:
		return false
	}
}

func (l InjuryLocation) String() string {
	return string(l)
}

// Confidence is the classifier's self-reported certainty.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// IsValid reports whether the confidence belongs to the closed vocabulary.
func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	default:
		return false
	}
}

func (c Confidence) String() string {
	return string(c)
}

// Severity is the 1 (minor) to 5 (life-threatening) scale reported by the
// classifier. Values are integral in practice; anything else the model
// returns is kept as-is and still maps to a triage category.
type Severity float64

// TriageCategory is the colour-coded urgency band derived from severity.
type TriageCategory string

const (
	TriageRed    TriageCategory = "Red"
	TriageYellow TriageCategory = "Yellow"
	TriageGreen  TriageCategory = "Green"
)

// IsValid reports whether the category is one of Red, Yellow or Green.
func (c TriageCategory) IsValid() bool {
	switch c {
	case TriageRed, TriageYellow, TriageGreen:
		return true
	default:
		return false
	}
}

func (c TriageCategory) String() string {
	return string(c)
}

// RankingPriority names the factor that dominates downstream hospital ranking.
type RankingPriority string

const (
	PrioritySpecialty RankingPriority = "specialty"
	PriorityICU       RankingPriority = "icu"
	PriorityDistance  RankingPriority = "distance"
)

// IsValid reports whether the priority is one of specialty, icu or distance.
func (p RankingPriority) IsValid() bool {
	switch p {
	case PrioritySpecialty, PriorityICU, PriorityDistance:
		return true
	default:
		return false
	}
}

func (p RankingPriority) String() string {
	return string(p)
}

// StrategyKey indexes the ranking strategy table. It is a smaller vocabulary
// than InjuryType: fine-grained types such as head_fracture are not keys.
type StrategyKey string

const (
	StrategyBleeding    StrategyKey = "bleeding"
	StrategyFracture    StrategyKey = "fracture"
	StrategyCardiac     StrategyKey = "cardiac"
	StrategyBurns       StrategyKey = "burns"
	StrategyUnconscious StrategyKey = "unconscious"
	StrategyRespiratory StrategyKey = "respiratory"
	StrategyUnknown     StrategyKey = "unknown"
	StrategyMinor       StrategyKey = "minor"
)

// Specialty is the hospital department an injury should be routed to.
type Specialty string

const (
	SpecialtyNeurosurgery          Specialty = "Neurosurgery"
	SpecialtyOrthopedics           Specialty = "Orthopedics"
	SpecialtyCardiothoracicSurgery Specialty = "Cardiothoracic Surgery"
	SpecialtyGeneralSurgery        Specialty = "General Surgery"
	SpecialtyTrauma                Specialty = "Trauma"
	SpecialtyBurnsUnit             Specialty = "Burns Unit"
	SpecialtyCardiology            Specialty = "Cardiology"
	SpecialtyPulmonology           Specialty = "Pulmonology"
	SpecialtyEmergencyMedicine     Specialty = "Emergency Medicine"
	SpecialtyGeneralMedicine       Specialty = "General Medicine"
)

func (s Specialty) String() string {
	return string(s)
}
