package repositories

import (
	"context"
	"errors"
	"time"

	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IWebhookEventRepository webhook olay kayıtları için arayüz.
type IWebhookEventRepository interface {
	Create(ctx context.Context, event *models.PaymentWebhookEvent) error
	FindByProviderEventID(ctx context.Context, provider, eventID string) (*models.PaymentWebhookEvent, error)
	MarkProcessed(ctx context.Context, id uint) error
	MarkFailed(ctx context.Context, id uint, processingError string) error
}

// WebhookEventRepository IWebhookEventRepository arayüzünü uygular.
type WebhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository yeni bir WebhookEventRepository örneği oluşturur.
func NewWebhookEventRepository(db *gorm.DB) IWebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Create yeni olay kaydı ekler. Provider + EventID unique index'i aynı
// olayın ikinci kez kaydedilmesini veritabanı düzeyinde engeller.
func (r *WebhookEventRepository) Create(ctx context.Context, event *models.PaymentWebhookEvent) error {
	if event == nil || event.Provider == "" || event.EventID == "" {
		return errors.New("geçersiz webhook olay kaydı")
	}
	return r.getDB(ctx).Create(event).Error
}

// FindByProviderEventID sağlayıcı + olay ID'si ile kaydı bulur.
func (r *WebhookEventRepository) FindByProviderEventID(ctx context.Context, provider, eventID string) (*models.PaymentWebhookEvent, error) {
	if provider == "" || eventID == "" {
		return nil, errors.New("geçersiz sağlayıcı/olay ID")
	}
	var event models.PaymentWebhookEvent
	err := r.getDB(ctx).Where("provider = ? AND event_id = ?", provider, eventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("WebhookEventRepository.FindByProviderEventID: DB error", zap.String("eventID", eventID), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

// MarkProcessed olayı başarıyla işlenmiş olarak işaretler.
func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("geçersiz olay ID")
	}
	now := time.Now().UTC()
	return r.getDB(ctx).Model(&models.PaymentWebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"processed_at": now, "processing_error": ""}).Error
}

// MarkFailed olayı hata mesajıyla işaretler; ProcessedAt boş kalır ki
// sağlayıcı yeniden teslim ettiğinde tekrar denensin.
func (r *WebhookEventRepository) MarkFailed(ctx context.Context, id uint, processingError string) error {
	if id == 0 {
		return errors.New("geçersiz olay ID")
	}
	return r.getDB(ctx).Model(&models.PaymentWebhookEvent{}).
		Where("id = ?", id).
		Update("processing_error", processingError).Error
}

var _ IWebhookEventRepository = (*WebhookEventRepository)(nil)
