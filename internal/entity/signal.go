package entity

import (
	"time"
)

// Signal 期权卖方信号
// Details holds the full serialized signal payload for audit only; all
// queries go through the structured columns.
type Signal struct {
	Id              int64  `gorm:"primaryKey;autoIncrement"`
	Asset           string `gorm:"index:signal_key_idx"`
	Strategy        string `gorm:"index:signal_key_idx"`
	Expiration      string `gorm:"index:signal_key_idx"` // YYYY-MM-DD
	Premium         float64
	Details         string
	RollInstruction string
	Status          string    `gorm:"index;default:active"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}

const (
	SignalStatusActive = "active"
	SignalStatusRolled = "rolled"
)

type SignalLeg struct {
	Id       int64 `gorm:"primaryKey;autoIncrement"`
	SignalId int64 `gorm:"index"`
	Leg      string
	Premium  float64
	Quantity float64
}
