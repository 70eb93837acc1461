package registry

import (
	"fmt"
	"math"

	"MacroSentinel/internal/model"
)

// ConfigurationError reports an invalid catalogue entry. It is fatal at start.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("indicator %q: %s", e.Key, e.Reason)
}

// Registry is the validated, immutable indicator catalogue.
type Registry struct {
	defs     []model.IndicatorDefinition
	index    map[string]int
	warnings []string
}

// Load validates defs and builds a Registry. Order is preserved.
func Load(defs []model.IndicatorDefinition) (*Registry, error) {
	r := &Registry{
		defs:  make([]model.IndicatorDefinition, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	copy(r.defs, defs)
	for i, d := range r.defs {
		if err := validate(d); err != nil {
			return nil, err
		}
		if w := thresholdOrder(d); w != "" {
			r.warnings = append(r.warnings, w)
		}
		if _, dup := r.index[d.Key]; dup {
			return nil, &ConfigurationError{Key: d.Key, Reason: "duplicate key"}
		}
		r.index[d.Key] = i
	}
	return r, nil
}

// MustDefault loads the compiled-in catalogue and panics if it is invalid.
func MustDefault() *Registry {
	r, err := Load(Default())
	if err != nil {
		panic(err)
	}
	return r
}

// All returns a copy of every definition in catalogue order.
func (r *Registry) All() []model.IndicatorDefinition {
	out := make([]model.IndicatorDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Get looks up a definition by key.
func (r *Registry) Get(key string) (model.IndicatorDefinition, bool) {
	i, ok := r.index[key]
	if !ok {
		return model.IndicatorDefinition{}, false
	}
	return r.defs[i], true
}

func (r *Registry) Len() int { return len(r.defs) }

func validate(d model.IndicatorDefinition) error {
	if d.Key == "" {
		return &ConfigurationError{Key: d.Key, Reason: "empty key"}
	}
	if !finite(d.Fallback) {
		return &ConfigurationError{Key: d.Key, Reason: "fallback must be finite"}
	}

	switch d.Kind {
	case model.KindAscending, model.KindInverted:
		t := d.Thresholds
		if !finite(t.Caution) || !finite(t.Fear) || !finite(t.Crisis) {
			return &ConfigurationError{Key: d.Key, Reason: "thresholds must be finite"}
		}
	case model.KindPercentDrop:
		if d.Baseline <= 0 || !finite(d.Baseline) {
			return &ConfigurationError{Key: d.Key, Reason: "percent-drop baseline must be positive"}
		}
	default:
		return &ConfigurationError{Key: d.Key, Reason: fmt.Sprintf("unknown kind %q", d.Kind)}
	}

	src := d.Source
	switch src.Provider {
	case model.ProviderFRED:
		if src.Series == "" {
			return &ConfigurationError{Key: d.Key, Reason: "fred source needs a series"}
		}
	case model.ProviderFXDaily:
		if src.Symbol == "" || src.Quote == "" {
			return &ConfigurationError{Key: d.Key, Reason: "fx source needs symbol and quote"}
		}
	case model.ProviderGlobalQuote:
		if src.Symbol == "" {
			return &ConfigurationError{Key: d.Key, Reason: "quote source needs a symbol"}
		}
	case model.ProviderRatio:
		if src.Series == "" || src.Divisor == "" {
			return &ConfigurationError{Key: d.Key, Reason: "ratio source needs series and divisor"}
		}
		if src.NumScale < 0 || !finite(src.NumScale) {
			return &ConfigurationError{Key: d.Key, Reason: "ratio scale must be non-negative"}
		}
	default:
		return &ConfigurationError{Key: d.Key, Reason: fmt.Sprintf("unknown provider %q", src.Provider)}
	}
	return nil
}

// thresholdOrder reports thresholds that run against their kind. Such an
// entry still loads; the caution band is then unreachable.
func thresholdOrder(d model.IndicatorDefinition) string {
	t := d.Thresholds
	switch {
	case d.Kind == model.KindAscending && t.Caution > t.Fear:
		return fmt.Sprintf("%s: ascending thresholds descend (caution %g > fear %g)", d.Key, t.Caution, t.Fear)
	case d.Kind == model.KindInverted && t.Caution < t.Fear:
		return fmt.Sprintf("%s: inverted thresholds ascend (caution %g < fear %g)", d.Key, t.Caution, t.Fear)
	}
	return ""
}

// Warnings lists non-fatal catalogue inconsistencies found by Load.
func (r *Registry) Warnings() []string {
	return append([]string(nil), r.warnings...)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
