package repo

import (
	"github.com/KNICEX/option-sentinel/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&entity.Signal{}, &entity.SignalLeg{})
}
