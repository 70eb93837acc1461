package collector

import (
	"context"
	"fmt"

	"MacroSentinel/internal/calculator"
	"MacroSentinel/internal/model"

	"golang.org/x/sync/errgroup"
)

// Fetcher resolves the live value of an indicator source. Implementations
// should return promptly once ctx is done; Collector stops waiting at the
// deadline either way.
type Fetcher interface {
	Fetch(ctx context.Context, src model.Source) (float64, error)
	Name() string
}

// Sources dispatches a model.Source to the matching provider call.
type Sources struct {
	FRED         *FRED
	AlphaVantage *AlphaVantage
}

func NewSources(fred *FRED, av *AlphaVantage) *Sources {
	return &Sources{FRED: fred, AlphaVantage: av}
}

func (s *Sources) Name() string { return "fred+alphavantage" }

func (s *Sources) Fetch(ctx context.Context, src model.Source) (float64, error) {
	switch src.Provider {
	case model.ProviderFRED:
		return s.FRED.Latest(ctx, src.Series)
	case model.ProviderFXDaily:
		return s.AlphaVantage.FXDailyClose(ctx, src.Symbol, src.Quote)
	case model.ProviderGlobalQuote:
		return s.AlphaVantage.GlobalQuotePrice(ctx, src.Symbol)
	case model.ProviderRatio:
		return s.Ratio(ctx, src)
	}
	return 0, fmt.Errorf("unknown provider %q", src.Provider)
}

// Ratio fetches numerator and denominator series concurrently and returns
// numerator*scale / denominator * 100 rounded to one decimal. If either
// side fails the whole value fails; no partial ratio is produced.
func (s *Sources) Ratio(ctx context.Context, src model.Source) (float64, error) {
	var num, den float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(recovered(func() error {
		v, err := s.FRED.Latest(gctx, src.Series)
		num = v
		return err
	}))
	g.Go(recovered(func() error {
		v, err := s.FRED.Latest(gctx, src.Divisor)
		den = v
		return err
	}))
	if err := g.Wait(); err != nil {
		return 0, err
	}

	scale := src.NumScale
	if scale == 0 {
		scale = 1
	}
	ratio, err := calculator.PercentRatio(num*scale, den, 1)
	if err != nil {
		return 0, shapeError("RATIO_"+src.Series+"_"+src.Divisor, "%v", err)
	}
	return ratio, nil
}

// recovered turns a panic in fn into an error so it cannot take down the
// process from a goroutine.
func recovered(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn()
	}
}
