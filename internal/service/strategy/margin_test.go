package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarginContextFunded(t *testing.T) {
	m := MarginContext{Funded: true, CeilingPercent: 55}

	ok, rationale := m.Check("BTC", 100, 40, 5)
	assert.True(t, ok, "35 percent of spot is under the ceiling")
	assert.Empty(t, rationale)

	ok, rationale = m.Check("BTC", 100, 90, 5)
	assert.False(t, ok)
	assert.Contains(t, rationale, "REQUIRED MM 85.0%")
	assert.Contains(t, rationale, "exceeds 55.0%")
}

func TestMarginContextUnfunded(t *testing.T) {
	m := MarginContext{
		FallbackMajor: 70,
		FallbackMinor: 130,
		MajorAssets:   []string{"BTC", "ETH"},
	}

	tests := []struct {
		name    string
		asset   string
		risk    float64
		premium float64
		wantOK  bool
	}{
		{name: "btc within major budget", asset: "BTC", risk: 60, premium: 5, wantOK: true},
		{name: "btc over major budget", asset: "BTC", risk: 90, premium: 5, wantOK: false},
		{name: "sol gets the larger minor budget", asset: "SOL", risk: 90, premium: 5, wantOK: true},
		{name: "sol over minor budget", asset: "SOL", risk: 150, premium: 5, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, rationale := m.Check(tt.asset, 100, tt.risk, tt.premium)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Contains(t, rationale, "REQUIRED MARGIN")
			}
		})
	}
}
