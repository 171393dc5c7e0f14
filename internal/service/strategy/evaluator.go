package strategy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/KNICEX/option-sentinel/internal/service/market"
	"github.com/KNICEX/option-sentinel/internal/service/pricing"
	"github.com/samber/lo"
)

const expirationLayout = "2006-01-02"

// Evaluator prices candidate option structures for an asset and emits one
// evaluation per valid expiration. An asset whose spot price is unavailable
// is skipped (empty result), not an error.
type Evaluator struct {
	marketSvc market.Service
	cfg       Config
	loc       *time.Location
	now       func() time.Time
}

type Option func(e *Evaluator)

func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		e.now = now
	}
}

func NewEvaluator(marketSvc market.Service, cfg Config, loc *time.Location, opts ...Option) *Evaluator {
	e := &Evaluator{
		marketSvc: marketSvc,
		cfg:       cfg,
		loc:       loc,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateAll runs every strategy family against the asset.
func (e *Evaluator) EvaluateAll(ctx context.Context, asset string) ([]Evaluation, error) {
	families := []struct {
		name Name
		eval func(context.Context, string) ([]Evaluation, error)
	}{
		{ShortStrangle, e.ShortStrangle},
		{BullCallSpread, e.BullCallSpread},
		{BearPutSpread, e.BearPutSpread},
		{FixedDeltaStrangle, e.FixedDeltaStrangle},
	}

	var all []Evaluation
	for _, family := range families {
		evals, err := family.eval(ctx, asset)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s for %s: %w", family.name, asset, err)
		}
		all = append(all, evals...)
	}
	return all, nil
}

// ShortStrangle sells the lowest OTM call and the highest OTM put for every
// valid expiration.
func (e *Evaluator) ShortStrangle(ctx context.Context, asset string) ([]Evaluation, error) {
	spot, chain, ok, err := e.snapshot(ctx, asset)
	if err != nil || !ok {
		return nil, err
	}

	var evals []Evaluation
	for _, expiration := range e.validExpirations(chain.Expirations) {
		tYears := e.timeToExpiration(expiration)

		otmCalls := lo.Filter(chain.Calls, func(q market.OptionQuote, _ int) bool { return q.Strike > spot })
		otmPuts := lo.Filter(chain.Puts, func(q market.OptionQuote, _ int) bool { return q.Strike < spot })
		if len(otmCalls) == 0 || len(otmPuts) == 0 {
			evals = append(evals, noTrade(asset, ShortStrangle, expiration, 0, "OTM options not available."))
			continue
		}

		callQuote := lo.MinBy(otmCalls, func(a, b market.OptionQuote) bool { return a.Strike < b.Strike })
		putQuote := lo.MaxBy(otmPuts, func(a, b market.OptionQuote) bool { return a.Strike > b.Strike })

		callPremium, err := pricing.Price(spot, callQuote.Strike, tYears, e.cfg.RiskFreeRate, callQuote.IV, pricing.Call)
		if err != nil {
			return nil, err
		}
		putPremium, err := pricing.Price(spot, putQuote.Strike, tYears, e.cfg.RiskFreeRate, putQuote.IV, pricing.Put)
		if err != nil {
			return nil, err
		}
		total := callPremium + putPremium

		if reason, gated := e.ivGate(callQuote.IV, putQuote.IV); gated {
			evals = append(evals, noTrade(asset, ShortStrangle, expiration, total, reason))
			continue
		}

		risk := math.Max(callQuote.Strike-spot, spot-putQuote.Strike)
		if feasible, reason := e.cfg.Margin.Check(asset, spot, risk, total); !feasible {
			evals = append(evals, noTrade(asset, ShortStrangle, expiration, total, reason))
			continue
		}

		callQty, putQty := e.cfg.strangleQuantities(asset, callPremium, putPremium)
		evals = append(evals, Evaluation{
			Signal: Signal{
				Asset:      asset,
				Strategy:   ShortStrangle,
				Expiration: expiration,
				Premium:    total,
				Legs: StrangleLegs{
					SellCall: leg(callQuote, callPremium, callQty),
					SellPut:  leg(putQuote, putPremium, putQty),
				},
				Rationale: fmt.Sprintf("Premiums: call=%.4f, put=%.4f.", callPremium, putPremium),
			},
			RollInstruction: "Close positions and open a new short strangle at the next expiration.",
		})
	}
	return evals, nil
}

// BullCallSpread sells the lowest OTM call and buys the next higher strike
// as protection.
func (e *Evaluator) BullCallSpread(ctx context.Context, asset string) ([]Evaluation, error) {
	spot, chain, ok, err := e.snapshot(ctx, asset)
	if err != nil || !ok {
		return nil, err
	}

	var evals []Evaluation
	for _, expiration := range e.validExpirations(chain.Expirations) {
		if len(chain.Calls) < 2 {
			evals = append(evals, noTrade(asset, BullCallSpread, expiration, 0, "Insufficient options data."))
			continue
		}

		sorted := sortedByStrike(chain.Calls, false)
		soldIdx := -1
		for i, q := range sorted {
			if q.Strike > spot {
				soldIdx = i
				break
			}
		}
		if soldIdx < 0 {
			evals = append(evals, noTrade(asset, BullCallSpread, expiration, 0, "No OTM call available."))
			continue
		}
		if soldIdx+1 >= len(sorted) {
			evals = append(evals, noTrade(asset, BullCallSpread, expiration, 0, "No call available for protection."))
			continue
		}
		sold, bought := sorted[soldIdx], sorted[soldIdx+1]

		eval, err := e.verticalSpread(asset, BullCallSpread, expiration, spot, sold, bought, pricing.Call)
		if err != nil {
			return nil, err
		}
		evals = append(evals, eval)
	}
	return evals, nil
}

// BearPutSpread sells the highest OTM put and buys the next lower strike as
// protection.
func (e *Evaluator) BearPutSpread(ctx context.Context, asset string) ([]Evaluation, error) {
	spot, chain, ok, err := e.snapshot(ctx, asset)
	if err != nil || !ok {
		return nil, err
	}

	var evals []Evaluation
	for _, expiration := range e.validExpirations(chain.Expirations) {
		if len(chain.Puts) < 2 {
			evals = append(evals, noTrade(asset, BearPutSpread, expiration, 0, "Insufficient options data."))
			continue
		}

		sorted := sortedByStrike(chain.Puts, true)
		soldIdx := -1
		for i, q := range sorted {
			if q.Strike < spot {
				soldIdx = i
				break
			}
		}
		if soldIdx < 0 {
			evals = append(evals, noTrade(asset, BearPutSpread, expiration, 0, "No OTM put available."))
			continue
		}
		if soldIdx+1 >= len(sorted) {
			evals = append(evals, noTrade(asset, BearPutSpread, expiration, 0, "No put available for protection."))
			continue
		}
		sold, bought := sorted[soldIdx], sorted[soldIdx+1]

		eval, err := e.verticalSpread(asset, BearPutSpread, expiration, spot, sold, bought, pricing.Put)
		if err != nil {
			return nil, err
		}
		evals = append(evals, eval)
	}
	return evals, nil
}

// FixedDeltaStrangle sells an approximately 16-delta call and put at a small
// set of fixed tenors for temporal diversification. Strikes are placed as
// fixed multiples of spot with an assumed volatility until live greeks are
// available.
func (e *Evaluator) FixedDeltaStrangle(ctx context.Context, asset string) ([]Evaluation, error) {
	quote, err := e.marketSvc.SpotPrice(ctx, asset)
	if err != nil {
		if errors.Is(err, market.ErrPriceUnavailable) {
			slog.Warn("skipping asset, spot price unavailable", "asset", asset)
			return nil, nil
		}
		return nil, err
	}
	spot := quote.Spot.InexactFloat64()

	callStrike := spot * e.cfg.FixedDeltaCallMult
	putStrike := spot * e.cfg.FixedDeltaPutMult
	iv := e.cfg.FixedDeltaIV
	defaultQty := e.cfg.MinQtyFor(asset)

	now := e.now().In(e.loc)
	var evals []Evaluation
	for _, days := range e.cfg.FixedTenorDays {
		expiration := now.AddDate(0, 0, days).Format(expirationLayout)
		tYears := e.timeToExpiration(expiration)

		callPremium, err := pricing.Price(spot, callStrike, tYears, e.cfg.RiskFreeRate, iv, pricing.Call)
		if err != nil {
			return nil, err
		}
		putPremium, err := pricing.Price(spot, putStrike, tYears, e.cfg.RiskFreeRate, iv, pricing.Put)
		if err != nil {
			return nil, err
		}
		total := callPremium + putPremium

		risk := math.Max(callStrike-spot, spot-putStrike)
		if feasible, reason := e.cfg.Margin.Check(asset, spot, risk, total); !feasible {
			evals = append(evals, noTrade(asset, FixedDeltaStrangle, expiration, total, reason))
			continue
		}

		evals = append(evals, Evaluation{
			Signal: Signal{
				Asset:      asset,
				Strategy:   FixedDeltaStrangle,
				Expiration: expiration,
				Premium:    total,
				Legs: StrangleLegs{
					SellCall: Leg{Strike: callStrike, IV: iv, Symbol: fmt.Sprintf("%s_CALL_16D", asset), Premium: callPremium, Quantity: defaultQty},
					SellPut:  Leg{Strike: putStrike, IV: iv, Symbol: fmt.Sprintf("%s_PUT_16D", asset), Premium: putPremium, Quantity: defaultQty},
				},
				Rationale: fmt.Sprintf(
					"16 delta short strangle across %v day tenors, premiums call=%.4f put=%.4f.",
					e.cfg.FixedTenorDays, callPremium, putPremium),
			},
			RollInstruction: fmt.Sprintf("Rolling window: start rolling %d days before expiration.", e.cfg.RollBeforeDays),
		})
	}
	return evals, nil
}

func (e *Evaluator) verticalSpread(asset string, name Name, expiration string, spot float64, sold, bought market.OptionQuote, kind pricing.OptionKind) (Evaluation, error) {
	tYears := e.timeToExpiration(expiration)

	soldPremium, err := pricing.Price(spot, sold.Strike, tYears, e.cfg.RiskFreeRate, sold.IV, kind)
	if err != nil {
		return Evaluation{}, err
	}
	boughtCost, err := pricing.Price(spot, bought.Strike, tYears, e.cfg.RiskFreeRate, bought.IV, kind)
	if err != nil {
		return Evaluation{}, err
	}
	netCredit := soldPremium - boughtCost

	width := bought.Strike - sold.Strike
	multiplier := e.cfg.BullSpreadMultiplier
	rollInstruction := "Close the call spread and open a new spread at the next expiration."
	if kind == pricing.Put {
		width = sold.Strike - bought.Strike
		multiplier = e.cfg.BearSpreadMultiplier
		rollInstruction = "Close the put spread and open a new spread at the next expiration."
	}

	if feasible, reason := e.cfg.Margin.Check(asset, spot, width, netCredit); !feasible {
		return noTrade(asset, name, expiration, netCredit, reason), nil
	}

	qty := e.cfg.spreadQuantity(asset, netCredit, spot, multiplier)
	var legs LegSet
	if kind == pricing.Call {
		legs = CallSpreadLegs{
			SoldCall:   leg(sold, soldPremium, qty),
			BoughtCall: leg(bought, boughtCost, qty),
		}
	} else {
		legs = PutSpreadLegs{
			SoldPut:   leg(sold, soldPremium, qty),
			BoughtPut: leg(bought, boughtCost, qty),
		}
	}

	return Evaluation{
		Signal: Signal{
			Asset:      asset,
			Strategy:   name,
			Expiration: expiration,
			Premium:    netCredit,
			Legs:       legs,
			Rationale:  fmt.Sprintf("Net credit: %.4f.", netCredit),
		},
		RollInstruction: rollInstruction,
	}, nil
}

// snapshot fetches spot and chain; ok is false when the asset should be
// skipped this cycle.
func (e *Evaluator) snapshot(ctx context.Context, asset string) (spot float64, chain market.Chain, ok bool, err error) {
	quote, err := e.marketSvc.SpotPrice(ctx, asset)
	if err != nil {
		if errors.Is(err, market.ErrPriceUnavailable) {
			slog.Warn("skipping asset, spot price unavailable", "asset", asset)
			return 0, market.Chain{}, false, nil
		}
		return 0, market.Chain{}, false, err
	}
	chain, err = e.marketSvc.OptionChain(ctx, asset)
	if err != nil {
		if errors.Is(err, market.ErrPriceUnavailable) {
			slog.Warn("skipping asset, option chain unavailable", "asset", asset)
			return 0, market.Chain{}, false, nil
		}
		return 0, market.Chain{}, false, err
	}
	return quote.Spot.InexactFloat64(), chain, true, nil
}

// validExpirations keeps expirations falling within [0, MaxTenorDays] days
// from now. Unparseable dates are dropped.
func (e *Evaluator) validExpirations(expirations []string) []string {
	now := e.now().In(e.loc)
	return lo.Filter(expirations, func(expiration string, _ int) bool {
		expDate, err := time.ParseInLocation(expirationLayout, expiration, e.loc)
		if err != nil {
			slog.Warn("dropping malformed expiration", "expiration", expiration, "error", err)
			return false
		}
		until := expDate.Sub(now)
		if until < 0 {
			return false
		}
		return int(until.Hours()/24) <= e.cfg.MaxTenorDays
	})
}

// timeToExpiration converts an expiration date to years from now, clamped
// to zero for dates in the past.
func (e *Evaluator) timeToExpiration(expiration string) float64 {
	expDate, err := time.ParseInLocation(expirationLayout, expiration, e.loc)
	if err != nil {
		slog.Error("failed to parse expiration", "expiration", expiration, "error", err)
		return 0
	}
	tYears := expDate.Sub(e.now().In(e.loc)).Hours() / 24 / 365
	return math.Max(tYears, 0)
}

func (e *Evaluator) ivGate(ivs ...float64) (reason string, gated bool) {
	if e.cfg.IVThreshold <= 0 || len(ivs) == 0 {
		return "", false
	}
	avg := lo.Sum(ivs) / float64(len(ivs))
	if avg < e.cfg.IVThreshold {
		return fmt.Sprintf("Average IV %.2f below threshold %.2f.", avg, e.cfg.IVThreshold), true
	}
	return "", false
}

func noTrade(asset string, name Name, expiration string, premium float64, rationale string) Evaluation {
	return Evaluation{
		Signal: Signal{
			Asset:      asset,
			Strategy:   name.NoTrade(),
			Expiration: expiration,
			Premium:    premium,
			Rationale:  rationale,
		},
	}
}

func leg(q market.OptionQuote, premium, quantity float64) Leg {
	return Leg{
		Strike:   q.Strike,
		IV:       q.IV,
		Symbol:   q.Symbol,
		Premium:  premium,
		Quantity: quantity,
	}
}

func sortedByStrike(quotes []market.OptionQuote, descending bool) []market.OptionQuote {
	sorted := make([]market.OptionQuote, len(quotes))
	copy(sorted, quotes)
	sort.Slice(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].Strike > sorted[j].Strike
		}
		return sorted[i].Strike < sorted[j].Strike
	})
	return sorted
}
