package model

import "time"

// Severity is the classification tier of one indicator.
type Severity string

const (
	SeverityNormal   Severity = "NORMAL"
	SeverityCaution  Severity = "CAUTION"
	SeverityCritical Severity = "CRITICAL"
)

// Level is the aggregate risk tier of the dashboard.
type Level string

const (
	LevelStable    Level = "STABLE"
	LevelCaution   Level = "CAUTION"
	LevelWarning   Level = "WARNING"
	LevelDefensive Level = "DEFENSIVE"
)

// ResolvedValue is the value an indicator resolved to in one render.
type ResolvedValue struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Stale bool    `json:"stale"`
	Err   string  `json:"error,omitempty"`
}

// ClassifiedIndicator is a resolved value with its severity.
type ClassifiedIndicator struct {
	ResolvedValue
	Definition *IndicatorDefinition `json:"-"`
	Name       string               `json:"name"`
	Severity   Severity             `json:"severity"`
}

// Recommendation is the allocation advice attached to a level.
type Recommendation struct {
	Text         string  `json:"text"`
	GrowthPct    float64 `json:"growth_pct"`
	DefensivePct float64 `json:"defensive_pct"`
}

// DashboardState is the output of one render cycle.
type DashboardState struct {
	Indicators     []ClassifiedIndicator `json:"indicators"`
	CriticalCount  int                   `json:"critical_count"`
	StaleCount     int                   `json:"stale_count"`
	Level          Level                 `json:"level"`
	Title          string                `json:"title"`
	Message        string                `json:"message"`
	Recommendation Recommendation        `json:"recommendation"`
	GeneratedAt    time.Time             `json:"generated_at"`
}
