package pricing

import (
	"fmt"
	"math"
)

type OptionKind string

const (
	Call OptionKind = "call"
	Put  OptionKind = "put"
)

// normCDF is the cumulative distribution function of the standard
// normal distribution, computed via the error function.
func normCDF(x float64) float64 {
	return (1.0 + math.Erf(x/math.Sqrt2)) / 2.0
}

// Price returns the Black-Scholes fair value of a single option leg.
// spot and strike are in quote currency, tYears is the time to expiration
// in years, r the annual risk-free rate and sigma the implied volatility,
// both as decimals. An expired option (tYears <= 0) is worth its
// intrinsic value.
func Price(spot, strike, tYears, r, sigma float64, kind OptionKind) (float64, error) {
	if tYears <= 0 {
		switch kind {
		case Call:
			return math.Max(spot-strike, 0), nil
		case Put:
			return math.Max(strike-spot, 0), nil
		default:
			return 0, fmt.Errorf("pricing: unknown option kind %q", kind)
		}
	}

	d1 := (math.Log(spot/strike) + (r+0.5*sigma*sigma)*tYears) / (sigma * math.Sqrt(tYears))
	d2 := d1 - sigma*math.Sqrt(tYears)

	switch kind {
	case Call:
		return spot*normCDF(d1) - strike*math.Exp(-r*tYears)*normCDF(d2), nil
	case Put:
		return strike*math.Exp(-r*tYears)*normCDF(-d2) - spot*normCDF(-d1), nil
	default:
		return 0, fmt.Errorf("pricing: unknown option kind %q", kind)
	}
}
