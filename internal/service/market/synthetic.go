package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

const expirationLayout = "2006-01-02"

var _ Service = (*SyntheticService)(nil)

// SyntheticService serves spot prices from an upstream source and derives a
// placeholder option chain from them: weekly expirations out to maxTenorDays
// and strikes at fixed multiples of spot. It stands in until a real chain
// feed is wired in.
type SyntheticService struct {
	spots         SpotSource
	fallbackSpots map[string]decimal.Decimal
	maxTenorDays  int
	loc           *time.Location
	now           func() time.Time
}

type SyntheticOption func(s *SyntheticService)

// WithFallbackSpots enables simulated quotes for assets whose live price
// cannot be fetched.
func WithFallbackSpots(spots map[string]decimal.Decimal) SyntheticOption {
	return func(s *SyntheticService) {
		s.fallbackSpots = spots
	}
}

func WithClock(now func() time.Time) SyntheticOption {
	return func(s *SyntheticService) {
		s.now = now
	}
}

func NewSyntheticService(spots SpotSource, maxTenorDays int, loc *time.Location, opts ...SyntheticOption) *SyntheticService {
	svc := &SyntheticService{
		spots:        spots,
		maxTenorDays: maxTenorDays,
		loc:          loc,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *SyntheticService) SpotPrice(ctx context.Context, asset string) (Quote, error) {
	quote, err := s.spots.SpotPrice(ctx, asset)
	if err == nil {
		return quote, nil
	}

	fallback, ok := s.fallbackSpots[asset]
	if !ok {
		return Quote{}, fmt.Errorf("spot price for %s: %w", asset, ErrPriceUnavailable)
	}
	slog.Warn("live spot price unavailable, using fallback", "asset", asset, "spot", fallback, "error", err)
	return Quote{
		Asset:     asset,
		Spot:      fallback,
		Timestamp: s.now().In(s.loc),
	}, nil
}

func (s *SyntheticService) OptionChain(ctx context.Context, asset string) (Chain, error) {
	quote, err := s.SpotPrice(ctx, asset)
	if err != nil {
		return Chain{}, err
	}
	spot := quote.Spot.InexactFloat64()

	now := s.now().In(s.loc)
	var expirations []string
	for current := now.AddDate(0, 0, 7); !current.After(now.AddDate(0, 0, s.maxTenorDays)); current = current.AddDate(0, 0, 7) {
		expirations = append(expirations, current.Format(expirationLayout))
	}

	return Chain{
		Expirations: expirations,
		Calls: []OptionQuote{
			{Strike: 1.10 * spot, IV: 0.60, Symbol: fmt.Sprintf("%s_CALL_OTM1", asset)},
			{Strike: 1.15 * spot, IV: 0.55, Symbol: fmt.Sprintf("%s_CALL_OTM2", asset)},
		},
		Puts: []OptionQuote{
			{Strike: 0.90 * spot, IV: 0.65, Symbol: fmt.Sprintf("%s_PUT_OTM1", asset)},
			{Strike: 0.85 * spot, IV: 0.70, Symbol: fmt.Sprintf("%s_PUT_OTM2", asset)},
		},
	}, nil
}
