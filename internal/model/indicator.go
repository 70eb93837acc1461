package model

// Kind selects the classification rule applied to an indicator.
type Kind string

const (
	KindAscending   Kind = "ASCENDING"    // higher value is worse
	KindInverted    Kind = "INVERTED"     // lower value is worse
	KindPercentDrop Kind = "PERCENT_DROP" // drop from Baseline is worse
)

// Provider names the upstream call used to resolve an indicator.
type Provider string

const (
	ProviderFRED        Provider = "fred"
	ProviderFXDaily     Provider = "fx_daily"
	ProviderGlobalQuote Provider = "global_quote"
	ProviderRatio       Provider = "ratio"
)

// Thresholds holds the severity boundaries of an indicator.
// Crisis is carried for display only.
type Thresholds struct {
	Caution float64 `json:"caution"`
	Fear    float64 `json:"fear"`
	Crisis  float64 `json:"crisis"`
}

// Source describes which provider call resolves an indicator.
type Source struct {
	Provider Provider `json:"provider"`
	Series   string   `json:"series,omitempty"`    // FRED series, or ratio numerator
	Symbol   string   `json:"symbol,omitempty"`    // quote symbol, or FX base currency
	Quote    string   `json:"quote,omitempty"`     // FX quote currency
	Divisor  string   `json:"divisor,omitempty"`   // ratio denominator series
	NumScale float64  `json:"num_scale,omitempty"` // ratio numerator unit scale, 0 means 1
}

// IndicatorDefinition is one static catalogue entry.
type IndicatorDefinition struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Frequency   string     `json:"frequency"`
	Fallback    float64    `json:"fallback"`
	Kind        Kind       `json:"kind"`
	Thresholds  Thresholds `json:"thresholds"`
	Baseline    float64    `json:"baseline,omitempty"`
	Source      Source     `json:"source"`
}
