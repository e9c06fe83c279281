package services

import (
	"context"
	"errors"
	"fmt"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/funding"
	"hediye.link/pkg/mailer"
	"hediye.link/pkg/metrics"
	"hediye.link/pkg/queryparams"
	"hediye.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationServiceError özel servis hataları.
type NotificationServiceError string

func (e NotificationServiceError) Error() string { return string(e) }

const (
	ErrNotificationNotFound     NotificationServiceError = "bildirim bulunamadı"
	ErrNotificationInvalidInput NotificationServiceError = "geçersiz bildirim verisi"
)

// NotificationInput genel amaçlı bildirim isteği (/api/notify).
type NotificationInput struct {
	UserID         uint                    `json:"user_id"`
	Type           models.NotificationType `json:"type"`
	Title          string                  `json:"title"`
	Body           string                  `json:"body"`
	ContributionID *uint                   `json:"contribution_id,omitempty"`
}

// INotificationService bildirim işlemleri için arayüz.
// Emit yollarının sözleşmesi: hata döndürebilir ama asla panic ile çağıranın
// sınırını aşmaz; çağıranlar hatayı loglayıp ana işleme devam eder.
type INotificationService interface {
	Notify(ctx context.Context, input NotificationInput) error
	NotifyContribution(ctx context.Context, contribution *models.Contribution) error
	GetNotificationsForUser(ctx context.Context, userID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	MarkRead(ctx context.Context, id uint, userID uint) error
	UnreadCount(ctx context.Context, userID uint) (int64, error)
}

// NotificationService INotificationService arayüzünü uygular.
type NotificationService struct {
	repo             repositories.INotificationRepository
	userRepo         repositories.IUserRepository
	registryRepo     repositories.IRegistryRepository
	giftItemRepo     repositories.IGiftItemRepository
	contributionRepo repositories.IContributionRepository
	mail             mailer.Mailer
	baseURL          string
}

// NewNotificationService yeni bir NotificationService örneği oluşturur.
// mail nil olabilir; o durumda e-posta kanalı devre dışıdır.
func NewNotificationService(db *gorm.DB, mail mailer.Mailer, baseURL string) INotificationService {
	return &NotificationService{
		repo:             repositories.NewNotificationRepository(db),
		userRepo:         repositories.NewUserRepository(db),
		registryRepo:     repositories.NewRegistryRepository(db),
		giftItemRepo:     repositories.NewGiftItemRepository(db),
		contributionRepo: repositories.NewContributionRepository(db),
		mail:             mail,
		baseURL:          baseURL,
	}
}

// Notify tercih bayraklarına göre uygulama içi bildirim kaydeder.
// notifications_enabled kapalıysa sessizce başarı döner.
func (s *NotificationService) Notify(ctx context.Context, input NotificationInput) error {
	if input.UserID == 0 || input.Title == "" {
		return ErrNotificationInvalidInput
	}
	if input.Type == "" {
		input.Type = models.NotificationTypeGeneric
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if !user.NotificationsEnabled {
		metrics.NotificationsSent.WithLabelValues("inapp", "skipped").Inc()
		return nil
	}

	notification := models.Notification{
		UserID:         input.UserID,
		Type:           input.Type,
		Title:          input.Title,
		Body:           input.Body,
		ContributionID: input.ContributionID,
	}
	if err := s.repo.Create(ctx, &notification); err != nil {
		metrics.NotificationsSent.WithLabelValues("inapp", "error").Inc()
		configslog.Log.Error("Bildirim kaydedilemedi", zap.Uint("userID", input.UserID), zap.Error(err))
		return err
	}
	metrics.NotificationsSent.WithLabelValues("inapp", "ok").Inc()
	return nil
}

// NotifyContribution yeni katkı için liste sahibine bildirim üretir:
// uygulama içi kayıt + (tercihe bağlı) e-posta. Katkı zaten kaydedilmiş
// durumdadır; buradaki hiçbir hata katkıyı geri aldırmaz.
func (s *NotificationService) NotifyContribution(ctx context.Context, contribution *models.Contribution) error {
	if contribution == nil || contribution.ID == 0 {
		return ErrNotificationInvalidInput
	}

	// Profilli katkıların adı profilden çözümlenir; Contributor yüklenmemiş
	// bir satır yanlışlıkla "Anonymous" üretir. Satır profil ile tazelenir.
	if contribution.ContributorUserID != nil && contribution.Contributor == nil {
		if fresh, err := s.contributionRepo.FindByID(ctx, contribution.ID); err == nil {
			contribution = fresh
		}
	}

	registry, err := s.registryRepo.FindByID(ctx, contribution.RegistryID)
	if err != nil {
		return err
	}
	item, err := s.giftItemRepo.FindByID(ctx, contribution.GiftItemID)
	if err != nil {
		return err
	}
	owner, err := s.userRepo.FindByID(ctx, registry.OwnerUserID)
	if err != nil {
		return err
	}

	displayName := contribution.DisplayName()
	title := "Yeni katkı geldi"
	body := fmt.Sprintf("%s, \"%s\" hediyesine %.2f %s katkıda bulundu.",
		displayName, item.Name, contribution.Amount, registry.Currency)

	contributionID := contribution.ID
	notifyErr := s.Notify(ctx, NotificationInput{
		UserID:         owner.ID,
		Type:           models.NotificationTypeContribution,
		Title:          title,
		Body:           body,
		ContributionID: &contributionID,
	})

	// Hediye bu katkıyla hedefine ulaştıysa sahibine ayrıca haber verilir.
	// Eşik kontrolü katkı öncesi toplamla yapılır ki her sonraki katkıda
	// aynı bildirim tekrarlanmasın.
	if itemContributions, listErr := s.contributionRepo.FindByGiftItemID(ctx, item.ID); listErr == nil {
		summary := funding.SummarizeItem(*item, itemContributions)
		if summary.Target > 0 && summary.Contributed >= summary.Target &&
			summary.Contributed-contribution.Amount < summary.Target {
			if err := s.Notify(ctx, NotificationInput{
				UserID: owner.ID,
				Type:   models.NotificationTypeItemFunded,
				Title:  "Hediye tamamen fonlandı",
				Body:   fmt.Sprintf("\"%s\" hedefine ulaştı.", item.Name),
			}); err != nil {
				configslog.Log.Warn("Fonlama bildirimi kaydedilemedi", zap.Uint("giftItemID", item.ID), zap.Error(err))
			}
		}
	}

	// E-posta kanalı: tercih kapalıysa veya mailer yoksa atlanır.
	if s.mail == nil || !owner.EmailNotifications {
		metrics.NotificationsSent.WithLabelValues("email", "skipped").Inc()
		return notifyErr
	}

	html, err := mailer.RenderContributionMail(mailer.ContributionMailData{
		ContributorName: displayName,
		ItemName:        item.Name,
		Amount:          contribution.Amount,
		Currency:        registry.Currency,
		Message:         contribution.Message,
		RegistryURL:     s.baseURL + "/r/" + registry.ShareKey,
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("email", "error").Inc()
		configslog.Log.Error("Katkı maili oluşturulamadı", zap.Uint("contributionID", contribution.ID), zap.Error(err))
		return notifyErr
	}

	if err := s.mail.Send(ctx, mailer.Message{
		To:       owner.Email,
		ToName:   owner.DisplayName(),
		Subject:  title + ": " + item.Name,
		HTMLBody: html,
	}); err != nil {
		metrics.NotificationsSent.WithLabelValues("email", "error").Inc()
		configslog.Log.Error("Katkı maili gönderilemedi", zap.Uint("contributionID", contribution.ID), zap.Error(err))
		return notifyErr
	}
	metrics.NotificationsSent.WithLabelValues("email", "ok").Inc()
	return notifyErr
}

// GetNotificationsForUser kullanıcının bildirimlerini sayfalayarak getirir.
func (s *NotificationService) GetNotificationsForUser(ctx context.Context, userID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if userID == 0 {
		return nil, ErrNotificationInvalidInput
	}
	params.Validate()

	notifications, totalCount, err := s.repo.FindByUserIDPaginated(ctx, userID, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: notifications,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page, PerPage: params.PerPage,
			TotalItems: totalCount, TotalPages: queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	}, nil
}

// MarkRead bildirimi okundu işaretler.
func (s *NotificationService) MarkRead(ctx context.Context, id uint, userID uint) error {
	if id == 0 || userID == 0 {
		return ErrNotificationInvalidInput
	}
	err := s.repo.MarkRead(ctx, id, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

// UnreadCount okunmamış bildirim sayısı.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, ErrNotificationInvalidInput
	}
	return s.repo.CountUnread(ctx, userID)
}

var _ INotificationService = (*NotificationService)(nil)
