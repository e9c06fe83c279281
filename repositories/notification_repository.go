package repositories

import (
	"context"
	"errors"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// INotificationRepository bildirim veritabanı işlemleri için arayüz.
type INotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByUserIDPaginated(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, id uint, userID uint) error
	CountUnread(ctx context.Context, userID uint) (int64, error)
}

// NotificationRepository INotificationRepository arayüzünü uygular.
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository yeni bir NotificationRepository örneği oluşturur.
func NewNotificationRepository(db *gorm.DB) INotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Create yeni bildirim kaydı oluşturur.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification == nil || notification.UserID == 0 {
		return errors.New("geçersiz bildirim kaydı")
	}
	return r.getDB(ctx).Create(notification).Error
}

// FindByUserIDPaginated kullanıcının bildirimlerini en yeniden eskiye getirir.
func (r *NotificationRepository) FindByUserIDPaginated(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.Notification, int64, error) {
	if userID == 0 {
		return nil, 0, errors.New("geçersiz kullanıcı ID")
	}
	db := r.getDB(ctx)

	var total int64
	if err := db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		configslog.Log.Error("NotificationRepository.FindByUserIDPaginated: count error", zap.Uint("userID", userID), zap.Error(err))
		return nil, 0, err
	}

	var notifications []models.Notification
	err := db.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&notifications).Error
	if err != nil {
		configslog.Log.Error("NotificationRepository.FindByUserIDPaginated: DB error", zap.Uint("userID", userID), zap.Error(err))
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkRead bildirimi okundu olarak işaretler; yalnızca sahibi işaretleyebilir.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uint, userID uint) error {
	if id == 0 || userID == 0 {
		return errors.New("geçersiz ID")
	}
	result := r.getDB(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		configslog.Log.Error("NotificationRepository.MarkRead: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUnread okunmamış bildirim sayısı.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	if err != nil {
		configslog.Log.Error("NotificationRepository.CountUnread: DB error", zap.Uint("userID", userID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

var _ INotificationRepository = (*NotificationRepository)(nil)
