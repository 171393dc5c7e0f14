package ioc

import (
	"time"

	"github.com/KNICEX/option-sentinel/internal/service/strategy"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// InitStrategyConfig overlays configured values onto the strategy defaults.
// Thresholds and multipliers are deliberately configuration, not code: the
// historical variants of this system did not agree on them.
func InitStrategyConfig() strategy.Config {
	cfg := strategy.DefaultConfig()
	if err := viper.UnmarshalKey("strategy", &cfg); err != nil {
		panic(err)
	}
	if err := viper.UnmarshalKey("margin", &cfg.Margin); err != nil {
		panic(err)
	}
	return cfg
}

// MonitorConfig drives the scan/roll cycle.
type MonitorConfig struct {
	Assets            []string      `mapstructure:"assets"`
	Interval          time.Duration `mapstructure:"interval"`
	RollThresholdDays int           `mapstructure:"roll_threshold_days"`
	ProfitThreshold   float64       `mapstructure:"profit_threshold"`
	Timezone          string        `mapstructure:"timezone"`
}

func InitMonitorConfig() MonitorConfig {
	cfg := MonitorConfig{
		Assets:            []string{"BTC", "ETH", "SOL"},
		Interval:          5 * time.Minute,
		RollThresholdDays: 2,
		ProfitThreshold:   0.75,
		Timezone:          "America/Recife",
	}
	if err := viper.UnmarshalKey("monitor", &cfg); err != nil {
		panic(err)
	}
	return cfg
}

// InitLocation loads the single authoritative time zone for all date
// arithmetic.
func InitLocation(cfg MonitorConfig) *time.Location {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		panic(err)
	}
	return loc
}

// InitFallbackSpots reads simulated spot prices used when the exchange is
// unreachable.
func InitFallbackSpots() map[string]decimal.Decimal {
	raw := map[string]float64{"BTC": 20000, "ETH": 1500, "SOL": 40}
	if err := viper.UnmarshalKey("market.fallback_spots", &raw); err != nil {
		panic(err)
	}

	spots := make(map[string]decimal.Decimal, len(raw))
	for asset, price := range raw {
		spots[asset] = decimal.NewFromFloat(price)
	}
	return spots
}
