package market

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrPriceUnavailable marks an asset whose spot price could not be
// obtained this cycle. Callers skip the asset instead of failing.
var ErrPriceUnavailable = errors.New("market: price unavailable")

// Quote 现货报价
type Quote struct {
	Asset     string
	Spot      decimal.Decimal
	Timestamp time.Time
}

// OptionQuote is a single quoted option contract.
type OptionQuote struct {
	Strike float64
	IV     float64
	Symbol string
}

// Chain holds the quoted option chain for one underlying asset.
// Expiration dates use the YYYY-MM-DD format.
type Chain struct {
	Expirations []string
	Calls       []OptionQuote
	Puts        []OptionQuote
}

type SpotSource interface {
	SpotPrice(ctx context.Context, asset string) (Quote, error)
}

type Service interface {
	SpotSource
	OptionChain(ctx context.Context, asset string) (Chain, error)
}
