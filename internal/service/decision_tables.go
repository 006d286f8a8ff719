package service

import (
	"maps"

	"github.com/injury-triage-server/internal/domain"
)

// specialtyMap routes each injury type to the department that should
// receive the patient. Types outside the table go to General Medicine.
var specialtyMap = map[domain.InjuryType]domain.Specialty{
	domain.InjuryHeadFracture:      domain.SpecialtyNeurosurgery,
	domain.InjuryLegFracture:       domain.SpecialtyOrthopedics,
	domain.InjuryArmFracture:       domain.SpecialtyOrthopedics,
	domain.InjurySpineFracture:     domain.SpecialtyNeurosurgery,
	domain.InjuryChestBleeding:     domain.SpecialtyCardiothoracicSurgery,
	domain.InjuryAbdominalBleeding: domain.SpecialtyGeneralSurgery,
	domain.InjuryExternalBleeding:  domain.SpecialtyTrauma,
	domain.InjuryBurns:             domain.SpecialtyBurnsUnit,
	domain.InjuryCardiac:           domain.SpecialtyCardiology,
	domain.InjuryRespiratory:       domain.SpecialtyPulmonology,
	domain.InjuryUnconscious:       domain.SpecialtyEmergencyMedicine,
	domain.InjuryUnknown:           domain.SpecialtyGeneralMedicine,
	domain.InjuryMinor:             domain.SpecialtyGeneralMedicine,
}

// DefaultSpecialty is returned for injury types missing from the specialty map.
const DefaultSpecialty = domain.SpecialtyGeneralMedicine

// rankingStrategies holds the hospital ranking weights. Bleeding-type keys
// favour specialty and capacity; unknown and minor favour distance.
var rankingStrategies = map[domain.StrategyKey]domain.RankingStrategy{
	domain.StrategyBleeding:    {Priority: domain.PrioritySpecialty, WeightDistance: 0.25, WeightSpecialty: 0.45, WeightCapacity: 0.30},
	domain.StrategyFracture:    {Priority: domain.PrioritySpecialty, WeightDistance: 0.30, WeightSpecialty: 0.40, WeightCapacity: 0.30},
	domain.StrategyCardiac:     {Priority: domain.PrioritySpecialty, WeightDistance: 0.20, WeightSpecialty: 0.50, WeightCapacity: 0.30},
	domain.StrategyBurns:       {Priority: domain.PrioritySpecialty, WeightDistance: 0.25, WeightSpecialty: 0.45, WeightCapacity: 0.30},
	domain.StrategyUnconscious: {Priority: domain.PriorityICU, WeightDistance: 0.25, WeightSpecialty: 0.35, WeightCapacity: 0.40},
	domain.StrategyRespiratory: {Priority: domain.PriorityICU, WeightDistance: 0.20, WeightSpecialty: 0.40, WeightCapacity: 0.40},
	domain.StrategyUnknown:     {Priority: domain.PriorityDistance, WeightDistance: 0.60, WeightSpecialty: 0.10, WeightCapacity: 0.30},
	domain.StrategyMinor:       {Priority: domain.PriorityDistance, WeightDistance: 0.70, WeightSpecialty: 0.10, WeightCapacity: 0.20},
}

// Routing rule descriptions exposed by the strategy overview.
const (
	bleedingLogic    = "Prioritize specialty match + ICU availability over distance"
	nonBleedingLogic = "Prioritize nearest hospital — distance is primary factor"
)

// ResolveSpecialty returns the specialty required for an injury type.
func ResolveSpecialty(injuryType domain.InjuryType) domain.Specialty {
	if specialty, ok := specialtyMap[injuryType]; ok {
		return specialty
	}
	return DefaultSpecialty
}

// ResolveRankingStrategy picks the ranking strategy for a classification.
// An injury type that is itself a strategy key wins regardless of bleeding;
// otherwise bleeding selects the "bleeding" entry and everything else the
// "unknown" entry. Types like head_fracture or chest_bleeding are not keys
// and always take one of the fallbacks.
func ResolveRankingStrategy(injuryType domain.InjuryType, bleeding bool) (domain.StrategyKey, domain.RankingStrategy) {
	key := domain.StrategyKey(injuryType)
	if strategy, ok := rankingStrategies[key]; ok {
		return key, strategy
	}
	if bleeding {
		return domain.StrategyBleeding, rankingStrategies[domain.StrategyBleeding]
	}
	return domain.StrategyUnknown, rankingStrategies[domain.StrategyUnknown]
}

// RankingStrategies returns a copy of the strategy table.
func RankingStrategies() map[domain.StrategyKey]domain.RankingStrategy {
	return maps.Clone(rankingStrategies)
}

// SpecialtyMap returns a copy of the specialty table.
func SpecialtyMap() map[domain.InjuryType]domain.Specialty {
	return maps.Clone(specialtyMap)
}
