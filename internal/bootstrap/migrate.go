package bootstrap

import (
	"anoa.com/newsaddiction/internal/entity"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(entity.Models()...)
}
