package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/KNICEX/option-sentinel/internal/entity"
	"github.com/KNICEX/option-sentinel/internal/repo"
	"github.com/KNICEX/option-sentinel/internal/schedule"
	"github.com/KNICEX/option-sentinel/internal/service/notification"
	"github.com/KNICEX/option-sentinel/internal/service/strategy"
)

// Advisor produces an optional short commentary for an accepted signal.
type Advisor interface {
	Review(ctx context.Context, sig strategy.Signal) (string, error)
}

// SignalScanTask runs one full cycle: evaluate every configured asset,
// persist accepted signals, then check active signals for rollover.
type SignalScanTask struct {
	evaluator         *strategy.Evaluator
	signalRepo        repo.SignalRepo
	rollMonitor       *RollMonitor
	notifier          notification.Notifier
	advisor           Advisor
	cfg               strategy.Config
	assets            []string
	rollThresholdDays int
	profitThreshold   float64
}

type TaskOption func(t *SignalScanTask)

func WithNotifier(notifier notification.Notifier) TaskOption {
	return func(t *SignalScanTask) {
		t.notifier = notifier
	}
}

func WithAdvisor(advisor Advisor) TaskOption {
	return func(t *SignalScanTask) {
		t.advisor = advisor
	}
}

func NewSignalScanTask(evaluator *strategy.Evaluator, signalRepo repo.SignalRepo, rollMonitor *RollMonitor,
	cfg strategy.Config, assets []string, rollThresholdDays int, profitThreshold float64, opts ...TaskOption) schedule.Task {
	task := &SignalScanTask{
		evaluator:         evaluator,
		signalRepo:        signalRepo,
		rollMonitor:       rollMonitor,
		notifier:          notification.NewConsole(),
		cfg:               cfg,
		assets:            assets,
		rollThresholdDays: rollThresholdDays,
		profitThreshold:   profitThreshold,
	}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

func (t *SignalScanTask) Run(ctx context.Context) error {
	for _, asset := range t.assets {
		evals, err := t.evaluator.EvaluateAll(ctx, asset)
		if err != nil {
			slog.Error("failed to evaluate asset", "asset", asset, "error", err)
			continue
		}
		for _, eval := range evals {
			if eval.Signal.NoTrade() {
				slog.Info("no trade",
					"asset", eval.Signal.Asset,
					"strategy", eval.Signal.Strategy,
					"expiration", eval.Signal.Expiration,
					"rationale", eval.Signal.Rationale)
				continue
			}
			if err := t.persist(ctx, eval); err != nil {
				slog.Error("failed to persist signal",
					"asset", eval.Signal.Asset,
					"strategy", eval.Signal.Strategy,
					"expiration", eval.Signal.Expiration,
					"error", err)
			}
		}
	}

	notifications, err := t.rollMonitor.CheckRollSignals(ctx, t.rollThresholdDays, t.profitThreshold)
	if err != nil {
		return fmt.Errorf("check roll signals: %w", err)
	}
	for _, message := range notifications {
		if err := t.notifier.Notify(ctx, message); err != nil {
			slog.Error("failed to notify roll", "message", message, "error", err)
		}
	}
	return nil
}

func (t *SignalScanTask) persist(ctx context.Context, eval strategy.Evaluation) error {
	sig := eval.Signal

	details, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("serialize signal details: %w", err)
	}

	id, err := t.signalRepo.Create(ctx, entity.Signal{
		Asset:           sig.Asset,
		Strategy:        string(sig.Strategy),
		Expiration:      sig.Expiration,
		Premium:         sig.Premium,
		Details:         string(details),
		RollInstruction: eval.RollInstruction,
		Status:          entity.SignalStatusActive,
	})
	if errors.Is(err, repo.ErrDuplicateSignal) {
		slog.Info("signal already active",
			"asset", sig.Asset, "strategy", sig.Strategy, "expiration", sig.Expiration)
		return nil
	}
	if err != nil {
		return err
	}

	if err := t.signalRepo.CreateLegs(ctx, id, legRows(sig, t.cfg.MinQtyFor(sig.Asset))); err != nil {
		return fmt.Errorf("persist signal legs: %w", err)
	}

	message := fmt.Sprintf("New signal #%d: %s %s exp %s, premium %.4f. %s",
		id, sig.Asset, sig.Strategy, sig.Expiration, sig.Premium, sig.Rationale)
	if t.advisor != nil {
		commentary, err := t.advisor.Review(ctx, sig)
		if err != nil {
			slog.Warn("advisor review failed", "asset", sig.Asset, "error", err)
		} else if commentary != "" {
			message += " Advisor: " + commentary
		}
	}
	if err := t.notifier.Notify(ctx, message); err != nil {
		slog.Error("failed to notify signal", "message", message, "error", err)
	}
	return nil
}

// legRows flattens the signal's leg set into persistable rows, falling back
// to the default quantity when a leg was not explicitly sized.
func legRows(sig strategy.Signal, defaultQty float64) []entity.SignalLeg {
	premiums := sig.LegPremiums()
	roles := make([]strategy.LegRole, 0, len(premiums))
	for role := range premiums {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })

	legs := sig.Legs.Roles()
	rows := make([]entity.SignalLeg, 0, len(roles))
	for _, role := range roles {
		quantity := legs[role].Quantity
		if quantity == 0 {
			quantity = defaultQty
		}
		rows = append(rows, entity.SignalLeg{
			Leg:      string(role),
			Premium:  premiums[role],
			Quantity: quantity,
		})
	}
	return rows
}

func (t *SignalScanTask) Name() string {
	return "option signal scan task"
}
