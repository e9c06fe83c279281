package migrations

import (
	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateWebhookEventsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating payment_webhook_events table...")
	err := db.AutoMigrate(&models.PaymentWebhookEvent{})
	if err != nil {
		configslog.Log.Error("Failed to migrate payment_webhook_events table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Payment_webhook_events table migrated successfully")
	return nil
}
