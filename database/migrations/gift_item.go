package migrations

import (
	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateGiftItemsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating gift_items table...")
	err := db.AutoMigrate(&models.GiftItem{})
	if err != nil {
		configslog.Log.Error("Failed to migrate gift_items table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Gift_items table migrated successfully")
	return nil
}
