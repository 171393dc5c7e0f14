package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/KNICEX/option-sentinel/internal/service/market"
	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
)

var _ market.SpotSource = (*SpotSource)(nil)

type SpotSource struct {
	cli           *binance.Client
	quoteCurrency string
}

// NewSpotSource 创建现货价格服务
func NewSpotSource(cli *binance.Client, quoteCurrency string) *SpotSource {
	return &SpotSource{
		cli:           cli,
		quoteCurrency: quoteCurrency,
	}
}

func (s *SpotSource) SpotPrice(ctx context.Context, asset string) (market.Quote, error) {
	// 币安现货API使用 BTCUSDT 格式
	symbol := fmt.Sprintf("%s%s", asset, s.quoteCurrency)
	prices, err := s.cli.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return market.Quote{}, fmt.Errorf("fetch ticker for %s: %w", symbol, err)
	}
	if len(prices) == 0 {
		return market.Quote{}, fmt.Errorf("no ticker for %s: %w", symbol, market.ErrPriceUnavailable)
	}

	spot, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return market.Quote{}, fmt.Errorf("parse ticker price %q: %w", prices[0].Price, err)
	}
	return market.Quote{
		Asset:     asset,
		Spot:      spot,
		Timestamp: time.Now(),
	}, nil
}
