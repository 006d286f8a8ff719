package service

import (
	"github.com/injury-triage-server/internal/domain"
)

// TriagePipeline derives a routing decision from a classifier answer.
// It holds no state and is safe for concurrent use.
type TriagePipeline struct{}

// NewTriagePipeline creates a new triage pipeline
func NewTriagePipeline() *TriagePipeline {
	return &TriagePipeline{}
}

// Run normalizes the raw classification and enriches it with the triage
// category, required specialty, ranking strategy and summary.
func (p *TriagePipeline) Run(raw *domain.RawClassification) *domain.TriageResult {
	classification := NormalizeClassification(raw)

	result := &domain.TriageResult{
		InjuryClassification: classification,
		TriageCategory:       DeriveTriageCategory(classification.SeverityLevel),
		RequiresSpecialty:    ResolveSpecialty(classification.InjuryType),
	}

	_, strategy := ResolveRankingStrategy(classification.InjuryType, classification.Bleeding)
	result.RankingStrategy = strategy
	result.RankingPriority = strategy.Priority
	result.Summary = RenderSummary(result)

	return result
}

// StrategyOverview returns both decision tables and the routing rule text.
func (p *TriagePipeline) StrategyOverview() *domain.StrategyOverview {
	return &domain.StrategyOverview{
		Strategies:   RankingStrategies(),
		SpecialtyMap: SpecialtyMap(),
		Logic: map[string]string{
			"bleeding=true":  bleedingLogic,
			"bleeding=false": nonBleedingLogic,
		},
	}
}
