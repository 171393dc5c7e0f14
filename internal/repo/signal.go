package repo

import (
	"context"
	"errors"

	"github.com/KNICEX/option-sentinel/internal/entity"
	"gorm.io/gorm"
)

// ErrDuplicateSignal reports that an active signal already exists for the
// same (asset, strategy, expiration). This is an expected business outcome,
// not a failure.
var ErrDuplicateSignal = errors.New("repo: active signal already exists")

type SignalRepo interface {
	Exists(ctx context.Context, asset, strategy, expiration string) (bool, error)
	Create(ctx context.Context, signal entity.Signal) (int64, error)
	CreateLegs(ctx context.Context, signalId int64, legs []entity.SignalLeg) error
	FindActive(ctx context.Context) ([]entity.Signal, error)
	MarkRolled(ctx context.Context, id int64) error
}

type signalRepo struct {
	db *gorm.DB
}

func NewSignalRepo(db *gorm.DB) SignalRepo {
	return &signalRepo{
		db: db,
	}
}

func (r *signalRepo) Exists(ctx context.Context, asset, strategy, expiration string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Signal{}).
		Where("asset = ? AND strategy = ? AND expiration = ? AND status = ?",
			asset, strategy, expiration, entity.SignalStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the signal header unless an active signal with the same
// key exists. The existence check and insert run in one transaction so a
// concurrent check-then-insert cannot slip past the uniqueness rule.
func (r *signalRepo) Create(ctx context.Context, signal entity.Signal) (int64, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Signal{}).
			Where("asset = ? AND strategy = ? AND expiration = ? AND status = ?",
				signal.Asset, signal.Strategy, signal.Expiration, entity.SignalStatusActive).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateSignal
		}
		return tx.Create(&signal).Error
	})
	if err != nil {
		return 0, err
	}
	return signal.Id, nil
}

func (r *signalRepo) CreateLegs(ctx context.Context, signalId int64, legs []entity.SignalLeg) error {
	if len(legs) == 0 {
		return nil
	}
	for i := range legs {
		legs[i].SignalId = signalId
	}
	return r.db.WithContext(ctx).Create(&legs).Error
}

func (r *signalRepo) FindActive(ctx context.Context) ([]entity.Signal, error) {
	var signals []entity.Signal
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.SignalStatusActive).
		Order("id").
		Find(&signals).Error
	if err != nil {
		return nil, err
	}
	return signals, nil
}

// MarkRolled transitions a signal from active to rolled. The transition is
// one-way: a signal that is already rolled is left untouched.
func (r *signalRepo) MarkRolled(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&entity.Signal{}).
		Where("id = ? AND status = ?", id, entity.SignalStatusActive).
		Update("status", entity.SignalStatusRolled).Error
}
