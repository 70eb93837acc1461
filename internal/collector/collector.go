package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"MacroSentinel/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MockFetcher returns fixed values per source for development and testing.
// Sources missing from Values fail with Err (or a transport error).
type MockFetcher struct {
	Values map[model.Source]float64
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(ctx context.Context, src model.Source) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if v, ok := m.Values[src]; ok {
		return v, nil
	}
	if m.Err != nil {
		return 0, m.Err
	}
	return 0, transportError("MOCK_"+string(src.Provider), fmt.Errorf("no value for %+v", src))
}

// Collector resolves indicator definitions into values, falling back to the
// static value of a definition whenever the live fetch fails.
type Collector struct {
	Fetcher     Fetcher
	Timeout     time.Duration // per indicator
	Concurrency int           // 0 means unbounded
	lg          zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, timeout time.Duration, concurrency int, lg zerolog.Logger) *Collector {
	if timeout <= 0 {
		timeout = DefaultTimeout + time.Second
	}
	return &Collector{
		Fetcher:     fetcher,
		Timeout:     timeout,
		Concurrency: concurrency,
		lg:          lg.With().Str("module", "resolver").Logger(),
	}
}

type fetchResult struct {
	value float64
	err   error
}

// Resolve never fails: a fetch error, timeout, panic or non-finite value
// yields the fallback marked stale. It returns at the deadline even if the
// fetcher ignores ctx.
func (c *Collector) Resolve(ctx context.Context, def *model.IndicatorDefinition) model.ResolvedValue {
	callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		var res fetchResult
		err := recovered(func() error {
			v, err := c.Fetcher.Fetch(callCtx, def.Source)
			res.value = v
			return err
		})()
		res.err = err
		done <- res
	}()

	var res fetchResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		res.err = callCtx.Err()
	}
	if res.err != nil {
		return c.fallback(def, res.err)
	}
	if !finite(res.value) {
		return c.fallback(def, shapeError(def.Key, "non-finite value %v", res.value))
	}
	return model.ResolvedValue{Key: def.Key, Value: res.value}
}

func (c *Collector) fallback(def *model.IndicatorDefinition, err error) model.ResolvedValue {
	c.lg.Warn().Str("indicator", def.Key).Str("code", errCode(err)).Err(err).
		Float64("fallback", def.Fallback).Msg("live fetch failed, using fallback")
	return model.ResolvedValue{
		Key:   def.Key,
		Value: def.Fallback,
		Stale: true,
		Err:   err.Error(),
	}
}

// ResolveAll resolves all definitions concurrently and returns once every
// indicator has a value. Result order matches defs.
func (c *Collector) ResolveAll(ctx context.Context, defs []model.IndicatorDefinition) []model.ResolvedValue {
	out := make([]model.ResolvedValue, len(defs))
	var g errgroup.Group
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for i := range defs {
		i := i
		g.Go(func() error {
			out[i] = c.Resolve(ctx, &defs[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
