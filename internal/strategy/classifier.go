package strategy

import (
	"MacroSentinel/internal/calculator"
	"MacroSentinel/internal/model"
)

// Percent-drop tiers, in percent below baseline.
const (
	DropCautionPct  = 20.0
	DropCriticalPct = 30.0
)

// Classify maps a value to a severity using the definition's rule.
// Only Caution and Fear drive the decision; Crisis is display only.
func Classify(value float64, def *model.IndicatorDefinition) model.Severity {
	th := def.Thresholds
	switch def.Kind {
	case model.KindAscending:
		switch {
		case value >= th.Fear:
			return model.SeverityCritical
		case value >= th.Caution:
			return model.SeverityCaution
		}
	case model.KindInverted:
		switch {
		case value < th.Fear:
			return model.SeverityCritical
		case value < th.Caution:
			return model.SeverityCaution
		}
	case model.KindPercentDrop:
		// zero baselines are rejected by the registry
		drop, err := calculator.PercentDrop(def.Baseline, value)
		if err != nil {
			return model.SeverityNormal
		}
		switch {
		case drop >= DropCriticalPct:
			return model.SeverityCritical
		case drop >= DropCautionPct:
			return model.SeverityCaution
		}
	}
	return model.SeverityNormal
}

// ClassifyAll attaches a severity to each resolved value. defs and values
// must be index-aligned.
func ClassifyAll(defs []model.IndicatorDefinition, values []model.ResolvedValue) []model.ClassifiedIndicator {
	out := make([]model.ClassifiedIndicator, len(values))
	for i, rv := range values {
		def := &defs[i]
		out[i] = model.ClassifiedIndicator{
			ResolvedValue: rv,
			Definition:    def,
			Name:          def.Name,
			Severity:      Classify(rv.Value, def),
		}
	}
	return out
}
