package strategy

import (
	"time"

	"MacroSentinel/internal/model"
)

// LevelTier maps a minimum critical count to a dashboard level.
type LevelTier struct {
	MinCritical    int
	Level          model.Level
	Title          string
	Message        string
	Recommendation model.Recommendation
}

// Levels is evaluated top to bottom; the first tier whose MinCritical is met wins.
var Levels = []LevelTier{
	{7, model.LevelDefensive, "CRITICAL – DEFENSIVE MODE", "Systemic risk elevated. Reduce equity exposure immediately.",
		model.Recommendation{Text: "Reduce equity exposure immediately", GrowthPct: 30, DefensivePct: 70}},
	{5, model.LevelWarning, "WARNING – REDUCE EXPOSURE", "Market stress rising. Consider lowering risk.",
		model.Recommendation{Text: "Reduce exposure", GrowthPct: 50, DefensivePct: 50}},
	{3, model.LevelCaution, "CAUTION – BE VIGILANT", "Volatility risk increasing.",
		model.Recommendation{Text: "Be vigilant, hold a cash reserve", GrowthPct: 70, DefensivePct: 30}},
}

// StableTier applies when fewer than three indicators are critical.
var StableTier = LevelTier{0, model.LevelStable, "STABLE – NORMAL CONDITIONS", "Market conditions remain stable.",
	model.Recommendation{Text: "Stay invested", GrowthPct: 80, DefensivePct: 20}}

func mapLevel(criticalCount int) LevelTier {
	for _, t := range Levels {
		if criticalCount >= t.MinCritical {
			return t
		}
	}
	return StableTier
}

// Aggregate counts critical indicators and derives the dashboard level.
// Caution never contributes to the count. Stale values count like live ones.
func Aggregate(indicators []model.ClassifiedIndicator) *model.DashboardState {
	state := &model.DashboardState{
		Indicators:  indicators,
		GeneratedAt: time.Now(),
	}
	for _, ind := range indicators {
		if ind.Severity == model.SeverityCritical {
			state.CriticalCount++
		}
		if ind.Stale {
			state.StaleCount++
		}
	}

	tier := mapLevel(state.CriticalCount)
	state.Level = tier.Level
	state.Title = tier.Title
	state.Message = tier.Message
	state.Recommendation = tier.Recommendation
	return state
}

// Evaluate classifies resolved values and aggregates them in one step.
func Evaluate(defs []model.IndicatorDefinition, values []model.ResolvedValue) *model.DashboardState {
	return Aggregate(ClassifyAll(defs, values))
}
