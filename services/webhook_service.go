package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/metrics"
	"hediye.link/pkg/payment"
	"hediye.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WebhookServiceError özel servis hataları.
type WebhookServiceError string

func (e WebhookServiceError) Error() string { return string(e) }

const (
	ErrWebhookUnauthorized     WebhookServiceError = "webhook imzası doğrulanamadı"
	ErrWebhookBadPayload       WebhookServiceError = "webhook gövdesi çözümlenemedi"
	ErrWebhookProcessingFailed WebhookServiceError = "webhook olayı işlenemedi"
)

// WebhookOutcome bir olayın işlenme sonucu (metrik etiketiyle aynı).
type WebhookOutcome string

const (
	WebhookOutcomeProcessed WebhookOutcome = "processed"
	WebhookOutcomeDuplicate WebhookOutcome = "duplicate"
	WebhookOutcomeIgnored   WebhookOutcome = "ignored"
)

// IWebhookService ödeme webhook olaylarını işler.
type IWebhookService interface {
	ProcessEvent(ctx context.Context, body []byte, signatureHeader string) (WebhookOutcome, error)
}

// WebhookService IWebhookService arayüzünü uygular.
// Sağlayıcı olayları en az bir kez ve sırasız teslim edebilir; aynı olayın
// tekrarları payment_webhook_events üzerindeki unique index ve katkının
// PaymentRef unique index'i ile tek katkıya indirgenir.
type WebhookService struct {
	eventRepo        repositories.IWebhookEventRepository
	contributionRepo repositories.IContributionRepository
	contributions    IContributionService
	notifications    INotificationService
	webhookSecret    string
	tolerance        time.Duration
}

// NewWebhookService yeni bir WebhookService örneği oluşturur.
func NewWebhookService(db *gorm.DB, contributions IContributionService, notifications INotificationService, webhookSecret string) IWebhookService {
	return &WebhookService{
		eventRepo:        repositories.NewWebhookEventRepository(db),
		contributionRepo: repositories.NewContributionRepository(db),
		contributions:    contributions,
		notifications:    notifications,
		webhookSecret:    webhookSecret,
		tolerance:        payment.DefaultTolerance,
	}
}

// ProcessEvent imzalı olay gövdesini işler.
// Akış: imza doğrula -> çözümle -> tip filtrele -> tekilleştir -> katkıyı
// kaydet -> bildirimi best-effort tetikle.
// İmza hatası hiçbir yan etki üretmez. Katkı kaydı başarısız olursa hata
// döner ki sağlayıcı yeniden denesin; bildirim hatası yalnızca loglanır.
func (s *WebhookService) ProcessEvent(ctx context.Context, body []byte, signatureHeader string) (WebhookOutcome, error) {
	if err := payment.VerifySignature(body, signatureHeader, s.webhookSecret, s.tolerance, time.Now()); err != nil {
		metrics.WebhookEvents.WithLabelValues("invalid_signature").Inc()
		configslog.Log.Warn("Webhook imza doğrulaması başarısız", zap.Error(err))
		return "", ErrWebhookUnauthorized
	}

	var event payment.Event
	if err := json.Unmarshal(body, &event); err != nil || event.ID == "" {
		metrics.WebhookEvents.WithLabelValues("bad_payload").Inc()
		return "", ErrWebhookBadPayload
	}

	// Yalnızca başarılı ödeme olayları katkı üretir; diğer tipler onaylanıp
	// yok sayılır (satır yazılmaz).
	if event.Type != payment.EventPaymentSucceeded {
		metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		configslog.SLog.Infof("Webhook olayı yok sayıldı: %s (%s)", event.ID, event.Type)
		return WebhookOutcomeIgnored, nil
	}

	// Tekilleştirme: olay kaydı varsa ve işlenmişse ikinci kez işlenmez.
	// İşlenememiş (hatalı kalmış) kayıt yeniden teslimde tekrar denenir.
	record, err := s.eventRepo.FindByProviderEventID(ctx, payment.ProviderName, event.ID)
	switch {
	case err == nil:
		if record.ProcessedAt != nil {
			metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
			configslog.SLog.Infof("Webhook olayı zaten işlenmiş: %s", event.ID)
			return WebhookOutcomeDuplicate, nil
		}
	case errors.Is(err, repositories.ErrNotFound):
		record = &models.PaymentWebhookEvent{
			Provider:       payment.ProviderName,
			EventID:        event.ID,
			EventType:      event.Type,
			Payload:        string(body),
			SignatureValid: true,
		}
		if err := s.eventRepo.Create(ctx, record); err != nil {
			// Unique index'e takılmak eşzamanlı teslim demektir; olayı
			// diğer isteğe bırakmak güvenlidir. Diğer her hata geçicidir
			// ve sağlayıcının yeniden teslim etmesi gerekir.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
				configslog.Log.Warn("Webhook olayı eşzamanlı teslim edildi", zap.String("eventID", event.ID))
				return WebhookOutcomeDuplicate, nil
			}
			metrics.WebhookEvents.WithLabelValues("failed").Inc()
			configslog.Log.Error("Webhook olay kaydı eklenemedi", zap.String("eventID", event.ID), zap.Error(err))
			return "", ErrWebhookProcessingFailed
		}
	default:
		metrics.WebhookEvents.WithLabelValues("failed").Inc()
		return "", ErrWebhookProcessingFailed
	}

	input, err := contributionInputFromIntent(event.Data.Object)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("bad_payload").Inc()
		_ = s.eventRepo.MarkFailed(ctx, record.ID, err.Error())
		return "", ErrWebhookBadPayload
	}

	// İkinci güvence: aynı ödeme referansı daha önce katkıya dönüşmüşse
	// (farklı olay ID'siyle gelse bile) tekrar yazılmaz.
	if exists, err := s.contributionRepo.ExistsByPaymentRef(ctx, *input.PaymentRef); err == nil && exists {
		_ = s.eventRepo.MarkProcessed(ctx, record.ID)
		metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
		return WebhookOutcomeDuplicate, nil
	}

	contribution, err := s.contributions.RecordPaidContribution(ctx, input)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("failed").Inc()
		_ = s.eventRepo.MarkFailed(ctx, record.ID, err.Error())
		configslog.Log.Error("Webhook katkısı kaydedilemedi", zap.String("eventID", event.ID), zap.Error(err))
		return "", ErrWebhookProcessingFailed
	}

	if err := s.eventRepo.MarkProcessed(ctx, record.ID); err != nil {
		configslog.Log.Error("Webhook olayı işlendi olarak işaretlenemedi", zap.String("eventID", event.ID), zap.Error(err))
	}
	metrics.WebhookEvents.WithLabelValues("processed").Inc()

	// Bildirim best-effort: hatası katkıyı geri aldırmaz, yalnızca loglanır.
	if err := s.notifications.NotifyContribution(ctx, contribution); err != nil {
		configslog.Log.Error("Katkı bildirimi gönderilemedi", zap.Uint("contributionID", contribution.ID), zap.Error(err))
	}

	configslog.SLog.Infof("Webhook olayı işlendi: %s -> Katkı %d", event.ID, contribution.ID)
	return WebhookOutcomeProcessed, nil
}

// contributionInputFromIntent webhook metadata'sından katkı girdisini üretir.
func contributionInputFromIntent(intent payment.Intent) (ContributionInput, error) {
	registryID, err := parseMetaUint(intent.Metadata, payment.MetaRegistryID)
	if err != nil {
		return ContributionInput{}, err
	}
	giftItemID, err := parseMetaUint(intent.Metadata, payment.MetaGiftItemID)
	if err != nil {
		return ContributionInput{}, err
	}

	input := ContributionInput{
		GiftItemID:      giftItemID,
		RegistryID:      registryID,
		Amount:          intent.Amount,
		Message:         intent.Metadata[payment.MetaMessage],
		ContributorName: intent.Metadata[payment.MetaContributorName],
		IsAnonymous:     intent.Metadata[payment.MetaIsAnonymous] == "true",
	}
	paymentRef := intent.ID
	input.PaymentRef = &paymentRef

	if raw := intent.Metadata[payment.MetaContributorUserID]; raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err == nil && parsed != 0 {
			userID := uint(parsed)
			input.ContributorUserID = &userID
		}
	}
	return input, nil
}

func parseMetaUint(metadata map[string]string, key string) (uint, error) {
	raw := strings.TrimSpace(metadata[key])
	if raw == "" {
		return 0, errors.New("webhook metadata eksik: " + key)
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("webhook metadata geçersiz: " + key)
	}
	return uint(parsed), nil
}

var _ IWebhookService = (*WebhookService)(nil)
