package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/KNICEX/option-sentinel/internal/entity"
	"github.com/KNICEX/option-sentinel/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSignalRepo struct {
	signals []entity.Signal
	nextId  int64
}

var _ repo.SignalRepo = (*memSignalRepo)(nil)

func (m *memSignalRepo) Exists(ctx context.Context, asset, strategy, expiration string) (bool, error) {
	for _, sig := range m.signals {
		if sig.Asset == asset && sig.Strategy == strategy && sig.Expiration == expiration &&
			sig.Status == entity.SignalStatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSignalRepo) Create(ctx context.Context, signal entity.Signal) (int64, error) {
	if exists, _ := m.Exists(ctx, signal.Asset, signal.Strategy, signal.Expiration); exists {
		return 0, repo.ErrDuplicateSignal
	}
	m.nextId++
	signal.Id = m.nextId
	m.signals = append(m.signals, signal)
	return signal.Id, nil
}

func (m *memSignalRepo) CreateLegs(ctx context.Context, signalId int64, legs []entity.SignalLeg) error {
	return nil
}

func (m *memSignalRepo) FindActive(ctx context.Context) ([]entity.Signal, error) {
	var active []entity.Signal
	for _, sig := range m.signals {
		if sig.Status == entity.SignalStatusActive {
			active = append(active, sig)
		}
	}
	return active, nil
}

func (m *memSignalRepo) MarkRolled(ctx context.Context, id int64) error {
	for i := range m.signals {
		if m.signals[i].Id == id && m.signals[i].Status == entity.SignalStatusActive {
			m.signals[i].Status = entity.SignalStatusRolled
		}
	}
	return nil
}

func newTestMonitor(signalRepo repo.SignalRepo, now time.Time) *RollMonitor {
	return NewRollMonitor(signalRepo, time.UTC, WithClock(func() time.Time { return now }))
}

func activeSignal(id int64, created time.Time, expiration string) entity.Signal {
	return entity.Signal{
		Id:              id,
		Asset:           "BTC",
		Strategy:        "Short Strangle",
		Expiration:      expiration,
		Premium:         2.5,
		RollInstruction: "Close positions and open a new short strangle at the next expiration.",
		Status:          entity.SignalStatusActive,
		CreatedAt:       created,
	}
}

func TestCheckRollSignalsExpiryIdempotent(t *testing.T) {
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	// half a day left to expiration
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &memSignalRepo{signals: []entity.Signal{activeSignal(1, created, "2025-03-11")}}

	m := newTestMonitor(store, now)

	first, err := m.CheckRollSignals(context.Background(), 2, 2.0)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Contains(t, first[0], "Signal ID 1")
	assert.Contains(t, first[0], "close to expiration (2025-03-11)")
	assert.Contains(t, first[0], "Roll instruction:")

	// the signal is now rolled; a second scan finds nothing to do
	second, err := m.CheckRollSignals(context.Background(), 2, 2.0)
	require.NoError(t, err)
	assert.Empty(t, second)

	active, err := store.FindActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCheckRollSignalsProfitBoundary(t *testing.T) {
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	expiration := "2025-03-11" // ten days after creation

	tests := []struct {
		name       string
		elapsed    time.Duration
		wantNotify bool
	}{
		{name: "exactly at the threshold", elapsed: time.Duration(7.5 * 24 * float64(time.Hour)), wantNotify: true},
		{name: "just under the threshold", elapsed: time.Duration(7.49 * 24 * float64(time.Hour)), wantNotify: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memSignalRepo{signals: []entity.Signal{activeSignal(1, created, expiration)}}
			m := newTestMonitor(store, created.Add(tt.elapsed))

			notes, err := m.CheckRollSignals(context.Background(), 2, 0.75)
			require.NoError(t, err)
			if tt.wantNotify {
				require.Len(t, notes, 1)
				assert.Contains(t, notes[0], "elapsed time")
			} else {
				assert.Empty(t, notes)
			}
		})
	}
}

func TestCheckRollSignalsBothFlagsSingleMessage(t *testing.T) {
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	store := &memSignalRepo{signals: []entity.Signal{activeSignal(1, created, "2025-03-11")}}

	m := newTestMonitor(store, now)

	notes, err := m.CheckRollSignals(context.Background(), 2, 0.75)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "close to expiration")
	assert.Contains(t, notes[0], "elapsed time")
}

func TestCheckRollSignalsSkipsMalformedExpiration(t *testing.T) {
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &memSignalRepo{signals: []entity.Signal{
		activeSignal(1, created, "11-03-2025"),
		activeSignal(2, created, "2025-03-11"),
	}}

	m := newTestMonitor(store, now)

	notes, err := m.CheckRollSignals(context.Background(), 2, 2.0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "Signal ID 2")

	// the malformed signal stays active rather than being dropped
	active, err := store.FindActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(1), active[0].Id)
}

func TestCheckRollSignalsClampsNonPositiveTotal(t *testing.T) {
	// creation after expiration must not divide by a non-positive window
	created := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
	store := &memSignalRepo{signals: []entity.Signal{activeSignal(1, created, "2025-03-11")}}

	m := newTestMonitor(store, now)

	notes, err := m.CheckRollSignals(context.Background(), 2, 0.75)
	require.NoError(t, err)
	// elapsed fraction clamps to zero, only the expiry rule can fire
	require.Len(t, notes, 1)
	assert.NotContains(t, notes[0], "elapsed time")
}
