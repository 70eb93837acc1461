package dashboard

import (
	"context"
	"time"

	"MacroSentinel/internal/collector"
	"MacroSentinel/internal/model"
	"MacroSentinel/internal/registry"
	"MacroSentinel/internal/strategy"

	"github.com/rs/zerolog"
)

// DefaultDeadline bounds one full render.
const DefaultDeadline = 10 * time.Second

// Resolver turns definitions into values. *collector.Collector satisfies it.
type Resolver interface {
	ResolveAll(ctx context.Context, defs []model.IndicatorDefinition) []model.ResolvedValue
}

// RenderObserver receives the outcome of every render.
type RenderObserver interface {
	ObserveRender(state *model.DashboardState, elapsed time.Duration)
}

// Options tune a single render.
type Options struct {
	Debug bool
}

// Service runs the whole pipeline once per call.
type Service struct {
	Registry *registry.Registry
	Resolver Resolver
	Observer RenderObserver
	Deadline time.Duration
	lg       zerolog.Logger
}

func NewService(reg *registry.Registry, resolver Resolver, observer RenderObserver, deadline time.Duration, lg zerolog.Logger) *Service {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &Service{
		Registry: reg,
		Resolver: resolver,
		Observer: observer,
		Deadline: deadline,
		lg:       lg.With().Str("module", "dashboard").Logger(),
	}
}

// Render resolves, classifies and aggregates every registered indicator.
// It always returns a complete state; the trace is nil unless opts.Debug.
func (s *Service) Render(ctx context.Context, opts Options) (*model.DashboardState, *model.Trace) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.Deadline)
	defer cancel()

	var trace *model.Trace
	if opts.Debug {
		trace = model.NewTrace()
		ctx = collector.WithTrace(ctx, trace)
	}

	defs := s.Registry.All()
	values := s.Resolver.ResolveAll(ctx, defs)
	state := strategy.Evaluate(defs, values)

	elapsed := time.Since(start)
	if s.Observer != nil {
		s.Observer.ObserveRender(state, elapsed)
	}
	s.lg.Info().
		Str("risk_level", string(state.Level)).
		Int("critical", state.CriticalCount).
		Int("stale", state.StaleCount).
		Dur("elapsed", elapsed).
		Msg("dashboard rendered")
	return state, trace
}
