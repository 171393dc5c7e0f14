package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KNICEX/option-sentinel/internal/repo"
)

const expirationLayout = "2006-01-02"

// RollMonitor scans active signals and decides which ones should be rolled
// (expiration approaching) or closed (holding-period profit proxy reached).
// A signal transitions active -> rolled exactly once; rolled signals are
// never reconsidered.
type RollMonitor struct {
	repo repo.SignalRepo
	loc  *time.Location
	now  func() time.Time
}

type RollOption func(m *RollMonitor)

func WithClock(now func() time.Time) RollOption {
	return func(m *RollMonitor) {
		m.now = now
	}
}

func NewRollMonitor(signalRepo repo.SignalRepo, loc *time.Location, opts ...RollOption) *RollMonitor {
	m := &RollMonitor{
		repo: signalRepo,
		loc:  loc,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CheckRollSignals returns the notification messages produced during the
// scan, in signal order. Signals whose stored expiration fails to parse are
// skipped and left active.
func (m *RollMonitor) CheckRollSignals(ctx context.Context, rollThresholdDays int, profitThreshold float64) ([]string, error) {
	signals, err := m.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("find active signals: %w", err)
	}

	now := m.now().In(m.loc)
	var notifications []string
	for _, sig := range signals {
		expDate, err := time.ParseInLocation(expirationLayout, sig.Expiration, m.loc)
		if err != nil {
			slog.Warn("skipping signal with malformed expiration", "id", sig.Id, "expiration", sig.Expiration, "error", err)
			continue
		}
		created := sig.CreatedAt.In(m.loc)

		notifyExpiry := expDate.Sub(now) <= time.Duration(rollThresholdDays)*24*time.Hour

		var elapsedFraction float64
		if total := expDate.Sub(created); total > 0 {
			elapsedFraction = now.Sub(created).Seconds() / total.Seconds()
		}
		notifyProfit := elapsedFraction >= profitThreshold

		if !notifyExpiry && !notifyProfit {
			continue
		}

		if err := m.repo.MarkRolled(ctx, sig.Id); err != nil {
			slog.Error("failed to mark signal rolled", "id", sig.Id, "error", err)
			continue
		}

		var message string
		switch {
		case notifyExpiry && notifyProfit:
			message = fmt.Sprintf(
				"Signal ID %d (%s - %s) is close to expiration (%s) and has reached %.1f%% of elapsed time. Roll instruction: %s",
				sig.Id, sig.Asset, sig.Strategy, sig.Expiration, elapsedFraction*100, sig.RollInstruction)
		case notifyExpiry:
			message = fmt.Sprintf(
				"Signal ID %d (%s - %s) is close to expiration (%s). Roll instruction: %s",
				sig.Id, sig.Asset, sig.Strategy, sig.Expiration, sig.RollInstruction)
		default:
			message = fmt.Sprintf(
				"Signal ID %d (%s - %s) has reached %.1f%% of elapsed time (max profit indication). Roll instruction: %s",
				sig.Id, sig.Asset, sig.Strategy, elapsedFraction*100, sig.RollInstruction)
		}
		notifications = append(notifications, message)
	}
	return notifications, nil
}
