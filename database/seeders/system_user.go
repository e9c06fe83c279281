package seeders

import (
	"errors"
	"os"

	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSystemUser sistem kullanıcısını kontrol eder, yoksa oluşturur.
// E-posta ve şifre SYSTEM_USER_EMAIL / SYSTEM_USER_PASSWORD ortam
// değişkenlerinden gelir; şifre değişmişse hash güncellenir.
func SeedSystemUser(db *gorm.DB) error {
	email := os.Getenv("SYSTEM_USER_EMAIL")
	password := os.Getenv("SYSTEM_USER_PASSWORD")
	if email == "" || password == "" {
		configslog.SLog.Warn("SYSTEM_USER_EMAIL/SYSTEM_USER_PASSWORD tanımlı değil, sistem kullanıcısı seed edilmeyecek.")
		return nil
	}

	var existing models.User
	result := db.Where("email = ?", email).First(&existing)

	if result.Error == nil {
		if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)) == nil {
			configslog.SLog.Debug("Sistem kullanıcısı zaten mevcut, güncelleme gerekmedi.")
			return nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			configslog.Log.Error("Sistem kullanıcısı şifresi hash'lenemedi", zap.Error(err))
			return err
		}
		if err := db.Model(&existing).Updates(map[string]interface{}{
			"password_hash": string(hash),
			"is_system":     true,
		}).Error; err != nil {
			configslog.Log.Error("Sistem kullanıcısı güncellenemedi", zap.Error(err))
			return err
		}
		configslog.SLog.Info("Sistem kullanıcısı şifresi güncellendi.")
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Sistem kullanıcısı kontrol edilirken veritabanı hatası", zap.Error(result.Error))
		return result.Error
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Sistem kullanıcısı şifresi hash'lenemedi", zap.Error(err))
		return err
	}

	systemUser := models.User{
		FullName:             "Sistem",
		Email:                email,
		PasswordHash:         string(hash),
		IsSystem:             true,
		NotificationsEnabled: false,
		EmailNotifications:   false,
	}
	if err := db.Create(&systemUser).Error; err != nil {
		configslog.Log.Error("Sistem kullanıcısı oluşturulamadı", zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Sistem kullanıcısı başarıyla oluşturuldu (ID: %d).", systemUser.ID)
	return nil
}
