package models

import "time"

// PaymentWebhookEvent ödeme sağlayıcısından gelen webhook olaylarını
// tekilleştirme metadatasıyla birlikte saklar. Provider + EventID üzerindeki
// unique index aynı olayın ikinci kez işlenmesini engeller; ProcessedAt boş
// kalan (işlenememiş) olaylar yeniden teslimde tekrar denenir.
type PaymentWebhookEvent struct {
	BaseModel
	Provider        string     `gorm:"type:varchar(20);not null;index:ux_webhook_provider_event,unique,priority:1" json:"provider"`
	EventID         string     `gorm:"type:varchar(128);not null;index:ux_webhook_provider_event,unique,priority:2" json:"event_id"`
	EventType       string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	Payload         string     `gorm:"type:text;not null" json:"-"`
	SignatureValid  bool       `gorm:"default:false" json:"signature_valid"`
	ProcessedAt     *time.Time `gorm:"type:timestamptz" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error,omitempty"`
}
