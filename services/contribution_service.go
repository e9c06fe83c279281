package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/funding"
	"hediye.link/pkg/metrics"
	"hediye.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContributionServiceError özel servis hataları.
type ContributionServiceError string

func (e ContributionServiceError) Error() string { return string(e) }

const (
	ErrContributionNotFound       ContributionServiceError = "katkı bulunamadı"
	ErrContribItemNotFound        ContributionServiceError = "hediye veya liste bulunamadı"
	ErrContributionMismatch       ContributionServiceError = "hediye belirtilen listeye ait değil"
	ErrContribInvalidInput        ContributionServiceError = "geçersiz girdi verisi"
	ErrContribAmountInvalid       ContributionServiceError = "katkı tutarı pozitif olmalı"
	ErrContribAnonymousForbidden  ContributionServiceError = "bu liste isimsiz katkı kabul etmiyor"
	ErrContributionCreationFailed ContributionServiceError = "katkı kaydedilemedi"
)

// ContributionInput katkı kaydetme isteği.
// ContributorUserID oturumdan gelir; PaymentRef yalnızca webhook yolunda dolu.
type ContributionInput struct {
	GiftItemID        uint
	RegistryID        uint
	Amount            float64
	Message           string
	ContributorName   string
	IsAnonymous       bool
	ContributorUserID *uint
	PaymentRef        *string
}

// ContributionView katkının dışarıya dönen hali. DisplayName tek çözümleme
// noktasından (models.Contribution.DisplayName) gelir; isim gizleme kuralı
// uygulanmışsa "Anonymous" yazılır.
type ContributionView struct {
	ID          uint                      `json:"id"`
	GiftItemID  uint                      `json:"gift_item_id"`
	RegistryID  uint                      `json:"registry_id"`
	Amount      float64                   `json:"amount"`
	Message     string                    `json:"message"`
	DisplayName string                    `json:"display_name"`
	Status      models.ContributionStatus `json:"status"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// RegistryAnalytics tek listenin analitik satırı.
type RegistryAnalytics struct {
	RegistryID uint                    `json:"registry_id"`
	Title      string                  `json:"title"`
	Summary    funding.RegistrySummary `json:"summary"`
}

// UserAnalytics kullanıcının tüm listeleri üzerinden toplam görünüm.
type UserAnalytics struct {
	Registries      []RegistryAnalytics     `json:"registries"`
	OwnedRegistries int64                   `json:"owned_registries"`
	Overall         funding.RegistrySummary `json:"overall"`
}

// IContributionService katkı işlemleri için arayüz.
type IContributionService interface {
	RecordContribution(ctx context.Context, input ContributionInput) (*models.Contribution, error)
	RecordPaidContribution(ctx context.Context, input ContributionInput) (*models.Contribution, error)
	GetContributionsForRegistry(ctx context.Context, registryID uint, requestingUserID uint) ([]ContributionView, error)
	GetContributionsForGiftItem(ctx context.Context, giftItemID uint, requestingUserID uint) ([]ContributionView, error)
	GetAnalyticsForUser(ctx context.Context, userID uint) (*UserAnalytics, error)
}

// ContributionService IContributionService arayüzünü uygular.
type ContributionService struct {
	repo            repositories.IContributionRepository
	giftItemRepo    repositories.IGiftItemRepository
	registryRepo    repositories.IRegistryRepository
	userRepo        repositories.IUserRepository
	registryService IRegistryService
	db              *gorm.DB
}

// NewContributionService yeni bir ContributionService örneği oluşturur.
func NewContributionService(db *gorm.DB) IContributionService {
	return &ContributionService{
		repo:            repositories.NewContributionRepository(db),
		giftItemRepo:    repositories.NewGiftItemRepository(db),
		registryRepo:    repositories.NewRegistryRepository(db),
		userRepo:        repositories.NewUserRepository(db),
		registryService: NewRegistryService(db),
		db:              db,
	}
}

// resolveContributor yazma anındaki isim çözümlemesi:
// oturumlu ve açıkça isimsiz değilse profil referansı saklanır, serbest metin
// isim boşaltılır; isimsiz veya oturumsuzsa verilen isim (boşsa "Anonymous")
// saklanır ve profil referansı yazılmaz.
func resolveContributor(c *models.Contribution, input ContributionInput) {
	if input.ContributorUserID != nil && *input.ContributorUserID != 0 && !input.IsAnonymous {
		c.ContributorUserID = input.ContributorUserID
		c.ContributorName = ""
		c.IsAnonymous = false
		return
	}
	c.ContributorUserID = nil
	c.IsAnonymous = true
	name := strings.TrimSpace(input.ContributorName)
	if name == "" {
		name = models.AnonymousDisplayName
	}
	c.ContributorName = name
}

// validate girişi doğrular ve hediye/liste eşleşmesini kontrol eder.
// Hediyenin belirtilen listeye ait olmaması NotFound sınıfı hatadır.
func (s *ContributionService) validate(ctx context.Context, input ContributionInput) (*models.GiftItem, *models.Registry, error) {
	if input.GiftItemID == 0 || input.RegistryID == 0 {
		return nil, nil, fmt.Errorf("%w: hediye ve liste ID zorunlu", ErrContribInvalidInput)
	}
	if input.Amount <= 0 {
		return nil, nil, ErrContribAmountInvalid
	}

	item, err := s.giftItemRepo.FindByID(ctx, input.GiftItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrContribItemNotFound
		}
		return nil, nil, err
	}
	if item.RegistryID != input.RegistryID {
		return nil, nil, ErrContributionMismatch
	}

	registry, err := s.registryRepo.FindByID(ctx, input.RegistryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrContribItemNotFound
		}
		return nil, nil, err
	}
	return item, registry, nil
}

func (s *ContributionService) record(ctx context.Context, input ContributionInput, status models.ContributionStatus, source string) (*models.Contribution, error) {
	item, registry, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}

	contribution := models.Contribution{
		GiftItemID: item.ID,
		RegistryID: registry.ID,
		Amount:     input.Amount,
		Message:    strings.TrimSpace(input.Message),
		PaymentRef: input.PaymentRef,
		Status:     status,
	}
	resolveContributor(&contribution, input)

	// İsimsiz katkı kapalıysa profil referansı olmayan katkılar reddedilir.
	if contribution.ContributorUserID == nil && !registry.AllowAnonymous {
		return nil, ErrContribAnonymousForbidden
	}

	writeCtx := ctx
	if input.ContributorUserID != nil {
		writeCtx = models.ContextWithUserID(ctx, *input.ContributorUserID)
	}
	if err := s.repo.Create(writeCtx, &contribution); err != nil {
		configslog.Log.Error("Katkı kaydedilemedi",
			zap.Uint("giftItemID", input.GiftItemID),
			zap.Uint("registryID", input.RegistryID),
			zap.Error(err))
		return nil, ErrContributionCreationFailed
	}

	// Profilli katkının görünen adı profilden gelir; döndürülen satır
	// (201 cevabı, bildirim metni) liste görünümleriyle aynı adı üretmeli.
	if contribution.ContributorUserID != nil {
		if user, err := s.userRepo.FindByID(ctx, *contribution.ContributorUserID); err == nil {
			contribution.Contributor = user
		}
	}

	metrics.ContributionsCreated.WithLabelValues(source).Inc()
	configslog.SLog.Infof("Katkı kaydedildi: ID %d, Hediye %d, Tutar %.2f (%s)",
		contribution.ID, contribution.GiftItemID, contribution.Amount, source)
	return &contribution, nil
}

// RecordContribution doğrudan form yolundan gelen (ödemesiz) katkıyı kaydeder.
// Bildirim tetiklemek çağıranın sorumluluğudur.
func (s *ContributionService) RecordContribution(ctx context.Context, input ContributionInput) (*models.Contribution, error) {
	input.PaymentRef = nil
	return s.record(ctx, input, models.ContributionStatusCompleted, "form")
}

// RecordPaidContribution webhook onayından gelen ödemeli katkıyı kaydeder.
// PaymentRef zorunludur; unique index aynı ödeme için ikinci kaydı engeller.
func (s *ContributionService) RecordPaidContribution(ctx context.Context, input ContributionInput) (*models.Contribution, error) {
	if input.PaymentRef == nil || strings.TrimSpace(*input.PaymentRef) == "" {
		return nil, fmt.Errorf("%w: ödeme referansı zorunlu", ErrContribInvalidInput)
	}
	return s.record(ctx, input, models.ContributionStatusCompleted, "webhook")
}

// viewsFor katkıları görünüme çevirir. Liste "katkıcı adlarını göster"
// kapalıysa ve istek sahibi düzenleme yetkisine sahip değilse adlar gizlenir.
func (s *ContributionService) viewsFor(ctx context.Context, registry *models.Registry, contributions []models.Contribution, requestingUserID uint) []ContributionView {
	hideNames := !registry.ShowContributorNames && !s.registryService.CanEdit(ctx, registry, requestingUserID)

	views := make([]ContributionView, 0, len(contributions))
	for i := range contributions {
		c := &contributions[i]
		name := c.DisplayName()
		if hideNames {
			name = models.AnonymousDisplayName
		}
		views = append(views, ContributionView{
			ID:          c.ID,
			GiftItemID:  c.GiftItemID,
			RegistryID:  c.RegistryID,
			Amount:      c.Amount,
			Message:     c.Message,
			DisplayName: name,
			Status:      c.Status,
			CreatedAt:   c.CreatedAt,
		})
	}
	return views
}

// GetContributionsForRegistry listenin katkılarını en yeniden eskiye getirir.
func (s *ContributionService) GetContributionsForRegistry(ctx context.Context, registryID uint, requestingUserID uint) ([]ContributionView, error) {
	registry, err := s.registryService.GetRegistryByID(ctx, registryID, requestingUserID)
	if err != nil {
		if errors.Is(err, ErrRegistryNotFound) {
			return nil, ErrContribItemNotFound
		}
		return nil, err
	}
	contributions, err := s.repo.FindByRegistryID(ctx, registryID)
	if err != nil {
		return nil, err
	}
	return s.viewsFor(ctx, registry, funding.Recent(contributions, 0), requestingUserID), nil
}

// GetContributionsForGiftItem hediyenin katkılarını en yeniden eskiye getirir.
func (s *ContributionService) GetContributionsForGiftItem(ctx context.Context, giftItemID uint, requestingUserID uint) ([]ContributionView, error) {
	item, err := s.giftItemRepo.FindByID(ctx, giftItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContribItemNotFound
		}
		return nil, err
	}
	registry, err := s.registryService.GetRegistryByID(ctx, item.RegistryID, requestingUserID)
	if err != nil {
		return nil, ErrContribItemNotFound
	}
	contributions, err := s.repo.FindByGiftItemID(ctx, giftItemID)
	if err != nil {
		return nil, err
	}
	return s.viewsFor(ctx, registry, funding.Recent(contributions, 0), requestingUserID), nil
}

// GetAnalyticsForUser kullanıcının tüm listeleri üzerinden fonlama analitiği
// üretir. Hesap tamamen pkg/funding'e delege edilir.
func (s *ContributionService) GetAnalyticsForUser(ctx context.Context, userID uint) (*UserAnalytics, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: geçersiz kullanıcı ID", ErrContribInvalidInput)
	}

	registries, err := s.registryRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	registryIDs := make([]uint, 0, len(registries))
	for _, r := range registries {
		registryIDs = append(registryIDs, r.ID)
	}
	contributions, err := s.repo.FindByRegistryIDs(ctx, registryIDs)
	if err != nil {
		return nil, err
	}

	ownedCount, err := s.registryRepo.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	analytics := &UserAnalytics{
		Registries:      make([]RegistryAnalytics, 0, len(registries)),
		OwnedRegistries: ownedCount,
	}
	var allItems []models.GiftItem
	for _, r := range registries {
		analytics.Registries = append(analytics.Registries, RegistryAnalytics{
			RegistryID: r.ID,
			Title:      r.Title,
			Summary:    funding.SummarizeRegistry(r.GiftItems, contributions),
		})
		allItems = append(allItems, r.GiftItems...)
	}
	analytics.Overall = funding.SummarizeRegistry(allItems, contributions)
	return analytics, nil
}

var _ IContributionService = (*ContributionService)(nil)
