package migrations

import (
	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateRegistriesTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating registries & registry_collaborators tables...")
	err := db.AutoMigrate(&models.Registry{}, &models.RegistryCollaborator{})
	if err != nil {
		configslog.Log.Error("Failed to migrate registries & registry_collaborators tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Registries & registry_collaborators tables migrated successfully")
	return nil
}
