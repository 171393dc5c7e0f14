package strategy

// Config carries the tunable business constants of the evaluators. None of
// these values are hardcoded law; the historical variants of this system
// disagreed on several of them, so they are all exposed here.
type Config struct {
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`

	// IVThreshold gates entries on the average implied volatility of the
	// sold legs. Zero disables the gate.
	IVThreshold float64 `mapstructure:"iv_threshold"`

	// MaxTenorDays bounds generic-strategy expirations, counted from now.
	MaxTenorDays int `mapstructure:"max_tenor_days"`

	// FixedTenorDays are the target tenors of the fixed-delta strangle.
	FixedTenorDays []int `mapstructure:"fixed_tenor_days"`
	// FixedDeltaCallMult and FixedDeltaPutMult place the ~16 delta strikes
	// as multiples of spot. FixedDeltaIV is the assumed volatility.
	FixedDeltaCallMult float64 `mapstructure:"fixed_delta_call_mult"`
	FixedDeltaPutMult  float64 `mapstructure:"fixed_delta_put_mult"`
	FixedDeltaIV       float64 `mapstructure:"fixed_delta_iv"`
	// RollBeforeDays is referenced by the fixed-delta roll instruction.
	RollBeforeDays int `mapstructure:"roll_before_days"`

	// MinQty is the per-asset minimum lot size; DefaultMinQty applies to
	// assets not listed.
	MinQty        map[string]float64 `mapstructure:"min_qty"`
	DefaultMinQty float64            `mapstructure:"default_min_qty"`

	// SkewThreshold and SkewMultiplier implement asymmetric risk balancing
	// for strangles: the richer leg is scaled up when its premium exceeds
	// the other leg's by more than the threshold fraction.
	SkewThreshold  float64 `mapstructure:"skew_threshold"`
	SkewMultiplier float64 `mapstructure:"skew_multiplier"`

	// CreditThreshold (fraction of spot) and the per-strategy multipliers
	// scale vertical-spread quantities when the net credit is attractive.
	CreditThreshold      float64 `mapstructure:"credit_threshold"`
	BullSpreadMultiplier float64 `mapstructure:"bull_spread_multiplier"`
	BearSpreadMultiplier float64 `mapstructure:"bear_spread_multiplier"`

	Margin MarginContext `mapstructure:"-"`
}

func DefaultConfig() Config {
	return Config{
		RiskFreeRate:         0.01,
		IVThreshold:          0,
		MaxTenorDays:         180,
		FixedTenorDays:       []int{45, 40, 50},
		FixedDeltaCallMult:   1.15,
		FixedDeltaPutMult:    0.85,
		FixedDeltaIV:         0.50,
		RollBeforeDays:       21,
		MinQty:               map[string]float64{"BTC": 0.01, "ETH": 0.01, "SOL": 1.0},
		DefaultMinQty:        0.01,
		SkewThreshold:        0.10,
		SkewMultiplier:       2.0,
		CreditThreshold:      0.001,
		BullSpreadMultiplier: 2.0,
		BearSpreadMultiplier: 1.5,
		Margin: MarginContext{
			Funded:         false,
			CeilingPercent: 55,
			FallbackMajor:  70,
			FallbackMinor:  130,
			MajorAssets:    []string{"BTC", "ETH"},
		},
	}
}

func (c Config) MinQtyFor(asset string) float64 {
	if qty, ok := c.MinQty[asset]; ok {
		return qty
	}
	return c.DefaultMinQty
}

// strangleQuantities starts both legs at the asset's minimum lot and scales
// up whichever leg collects more than the other by the skew threshold.
func (c Config) strangleQuantities(asset string, callPremium, putPremium float64) (callQty, putQty float64) {
	callQty = c.MinQtyFor(asset)
	putQty = c.MinQtyFor(asset)
	if callPremium > putPremium*(1+c.SkewThreshold) {
		callQty *= c.SkewMultiplier
	} else if putPremium > callPremium*(1+c.SkewThreshold) {
		putQty *= c.SkewMultiplier
	}
	return callQty, putQty
}

// spreadQuantity sizes both legs of a vertical spread uniformly, scaling up
// when the net credit exceeds the configured fraction of spot.
func (c Config) spreadQuantity(asset string, netCredit, spot, multiplier float64) float64 {
	qty := c.MinQtyFor(asset)
	if netCredit > spot*c.CreditThreshold {
		qty *= multiplier
	}
	return qty
}
