package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceExpiredIsIntrinsic(t *testing.T) {
	tests := []struct {
		name   string
		spot   float64
		strike float64
		kind   OptionKind
		want   float64
	}{
		{name: "itm call", spot: 110, strike: 100, kind: Call, want: 10},
		{name: "otm call", spot: 90, strike: 100, kind: Call, want: 0},
		{name: "itm put", spot: 90, strike: 100, kind: Put, want: 10},
		{name: "otm put", spot: 110, strike: 100, kind: Put, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Price(tt.spot, tt.strike, 0, 0.01, 0.5, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceUnknownKind(t *testing.T) {
	_, err := Price(100, 100, 0.1, 0.01, 0.5, OptionKind("straddle"))
	assert.Error(t, err)

	_, err = Price(100, 100, 0, 0.01, 0.5, OptionKind(""))
	assert.Error(t, err)
}

func TestPriceNonNegative(t *testing.T) {
	for _, kind := range []OptionKind{Call, Put} {
		for _, strike := range []float64{50, 100, 150} {
			got, err := Price(100, strike, 0.1, 0.01, 0.5, kind)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, 0.0, "kind=%s strike=%v", kind, strike)
		}
	}
}

// Vega is non-negative: holding everything else fixed, a higher implied
// volatility never makes an option cheaper.
func TestPriceMonotonicInVolatility(t *testing.T) {
	for _, kind := range []OptionKind{Call, Put} {
		prev := -1.0
		for _, sigma := range []float64{0.1, 0.3, 0.5, 0.8, 1.2} {
			got, err := Price(100, 110, 0.25, 0.01, sigma, kind)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, prev, "kind=%s sigma=%v", kind, sigma)
			prev = got
		}
	}
}

func TestPricePutCallParity(t *testing.T) {
	// call - put = spot - strike*exp(-rT)
	spot, strike, tYears, r, sigma := 100.0, 95.0, 0.5, 0.01, 0.6

	call, err := Price(spot, strike, tYears, r, sigma, Call)
	require.NoError(t, err)
	put, err := Price(spot, strike, tYears, r, sigma, Put)
	require.NoError(t, err)

	assert.InDelta(t, spot-strike*math.Exp(-r*tYears), call-put, 1e-9)
}
