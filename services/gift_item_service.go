package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/funding"
	"hediye.link/repositories"

	"github.com/dyatlov/go-opengraph/opengraph"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GiftItemServiceError özel servis hataları.
type GiftItemServiceError string

func (e GiftItemServiceError) Error() string { return string(e) }

const (
	ErrGiftItemNotFound       GiftItemServiceError = "hediye bulunamadı"
	ErrGiftItemForbidden      GiftItemServiceError = "bu işlem için yetkiniz yok"
	ErrGiftItemInvalidInput   GiftItemServiceError = "geçersiz girdi verisi"
	ErrGiftItemNameRequired   GiftItemServiceError = "hediye adı zorunludur"
	ErrGiftItemCreationFailed GiftItemServiceError = "hediye oluşturulamadı"
	ErrGiftItemUpdateFailed   GiftItemServiceError = "hediye güncellenemedi"
	ErrGiftItemDeletionFailed GiftItemServiceError = "hediye silinemedi"
	ErrGiftItemImportFailed   GiftItemServiceError = "ürün sayfası okunamadı"
)

// GiftItemWithSummary hediye + fonlama özeti cevabı.
type GiftItemWithSummary struct {
	Item    *models.GiftItem    `json:"item"`
	Summary funding.ItemSummary `json:"summary"`
}

// IGiftItemService hediye işlemleri için arayüz.
type IGiftItemService interface {
	CreateGiftItem(ctx context.Context, creatorUserID uint, item *models.GiftItem) error
	GetGiftItemByID(ctx context.Context, id uint, requestingUserID uint) (*GiftItemWithSummary, error)
	GetGiftItemsForRegistry(ctx context.Context, registryID uint, requestingUserID uint) ([]GiftItemWithSummary, error)
	UpdateGiftItem(ctx context.Context, id uint, updatingUserID uint, apply func(*models.GiftItem) error) error
	DeleteGiftItem(ctx context.Context, id uint, deletingUserID uint) error
	ImportFromURL(ctx context.Context, productURL string) (*models.GiftItem, error)
}

// GiftItemService IGiftItemService arayüzünü uygular.
type GiftItemService struct {
	repo             repositories.IGiftItemRepository
	contributionRepo repositories.IContributionRepository
	registryService  IRegistryService
	db               *gorm.DB
	httpClient       *http.Client // ürün sayfası import'u için
}

// NewGiftItemService yeni bir GiftItemService örneği oluşturur.
func NewGiftItemService(db *gorm.DB) IGiftItemService {
	return &GiftItemService{
		repo:             repositories.NewGiftItemRepository(db),
		contributionRepo: repositories.NewContributionRepository(db),
		registryService:  NewRegistryService(db),
		db:               db,
		httpClient:       &http.Client{Timeout: 10 * time.Second},
	}
}

// ValidateGiftItem temel validasyonları yapar.
func ValidateGiftItem(item *models.GiftItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return ErrGiftItemNameRequired
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: fiyat negatif olamaz", ErrGiftItemInvalidInput)
	}
	if item.Quantity < 1 {
		return fmt.Errorf("%w: adet en az 1 olmalı", ErrGiftItemInvalidInput)
	}
	return nil
}

// CreateGiftItem listeye yeni hediye ekler (sahibi veya CanEdit ortağı).
func (s *GiftItemService) CreateGiftItem(ctx context.Context, creatorUserID uint, item *models.GiftItem) error {
	if creatorUserID == 0 || item == nil || item.RegistryID == 0 {
		return fmt.Errorf("%w: geçersiz liste veya kullanıcı ID", ErrGiftItemInvalidInput)
	}
	if err := ValidateGiftItem(item); err != nil {
		return err
	}

	registry, err := s.registryService.GetRegistryByID(ctx, item.RegistryID, creatorUserID)
	if err != nil {
		if errors.Is(err, ErrRegistryNotFound) {
			return ErrGiftItemNotFound
		}
		return err
	}
	if !s.registryService.CanEdit(ctx, registry, creatorUserID) {
		return ErrGiftItemForbidden
	}

	if err := s.repo.Create(models.ContextWithUserID(ctx, creatorUserID), item); err != nil {
		configslog.Log.Error("Hediye oluşturulamadı", zap.Uint("registryID", item.RegistryID), zap.Error(err))
		return ErrGiftItemCreationFailed
	}
	configslog.SLog.Infof("Hediye eklendi: ID %d, Liste %d, Ad: %s", item.ID, item.RegistryID, item.Name)
	return nil
}

// GetGiftItemByID hediyeyi fonlama özetiyle getirir.
func (s *GiftItemService) GetGiftItemByID(ctx context.Context, id uint, requestingUserID uint) (*GiftItemWithSummary, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGiftItemNotFound
		}
		return nil, err
	}
	// Liste görünürlüğü hediye görünürlüğünü belirler.
	if _, err := s.registryService.GetRegistryByID(ctx, item.RegistryID, requestingUserID); err != nil {
		return nil, ErrGiftItemNotFound
	}
	return &GiftItemWithSummary{
		Item:    item,
		Summary: funding.SummarizeItem(*item, item.Contributions),
	}, nil
}

// GetGiftItemsForRegistry listenin hediyelerini özetleriyle getirir.
func (s *GiftItemService) GetGiftItemsForRegistry(ctx context.Context, registryID uint, requestingUserID uint) ([]GiftItemWithSummary, error) {
	if registryID == 0 {
		return nil, fmt.Errorf("%w: geçersiz liste ID", ErrGiftItemInvalidInput)
	}
	if _, err := s.registryService.GetRegistryByID(ctx, registryID, requestingUserID); err != nil {
		if errors.Is(err, ErrRegistryNotFound) {
			return nil, ErrGiftItemNotFound
		}
		return nil, err
	}

	items, err := s.repo.FindByRegistryID(ctx, registryID)
	if err != nil {
		return nil, err
	}
	contributions, err := s.contributionRepo.FindByRegistryID(ctx, registryID)
	if err != nil {
		return nil, err
	}

	result := make([]GiftItemWithSummary, 0, len(items))
	for i := range items {
		result = append(result, GiftItemWithSummary{
			Item:    &items[i],
			Summary: funding.SummarizeItem(items[i], contributions),
		})
	}
	return result, nil
}

// UpdateGiftItem hediyeyi kilitli alır, yetkiyi doğrular ve apply ile gelen
// değişiklikleri kaydeder.
func (s *GiftItemService) UpdateGiftItem(ctx context.Context, id uint, updatingUserID uint, apply func(*models.GiftItem) error) error {
	if id == 0 || updatingUserID == 0 {
		return fmt.Errorf("%w: geçersiz ID", ErrGiftItemInvalidInput)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(models.ContextWithUserID(ctx, updatingUserID), "tx", tx)

		var existing models.GiftItem
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGiftItemNotFound
			}
			return err
		}

		registry, err := s.registryService.GetRegistryByID(txCtx, existing.RegistryID, updatingUserID)
		if err != nil {
			return ErrGiftItemNotFound
		}
		if !s.registryService.CanEdit(txCtx, registry, updatingUserID) {
			return ErrGiftItemForbidden
		}

		if err := apply(&existing); err != nil {
			return err
		}
		if err := ValidateGiftItem(&existing); err != nil {
			return err
		}

		repoTx := repositories.NewGiftItemRepository(tx)
		if err := repoTx.Update(txCtx, &existing); err != nil {
			return ErrGiftItemUpdateFailed
		}
		return nil
	})

	if txErr != nil {
		var svcErr GiftItemServiceError
		if !errors.As(txErr, &svcErr) {
			configslog.Log.Error("UpdateGiftItem transaction failed", zap.Uint("id", id), zap.Error(txErr))
		}
		return txErr
	}
	configslog.SLog.Infof("Hediye güncellendi: ID %d (Güncelleyen: %d)", id, updatingUserID)
	return nil
}

// DeleteGiftItem hediyeyi ve katkılarını tek transaction içinde siler.
func (s *GiftItemService) DeleteGiftItem(ctx context.Context, id uint, deletingUserID uint) error {
	if id == 0 || deletingUserID == 0 {
		return fmt.Errorf("%w: geçersiz ID", ErrGiftItemInvalidInput)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(models.ContextWithUserID(ctx, deletingUserID), "tx", tx)

		var item models.GiftItem
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGiftItemNotFound
			}
			return err
		}

		registry, err := s.registryService.GetRegistryByID(txCtx, item.RegistryID, deletingUserID)
		if err != nil {
			return ErrGiftItemNotFound
		}
		if !s.registryService.CanEdit(txCtx, registry, deletingUserID) {
			return ErrGiftItemForbidden
		}

		contributionRepoTx := repositories.NewContributionRepository(tx)
		if err := contributionRepoTx.DeleteByGiftItemID(txCtx, id, deletingUserID); err != nil {
			return ErrGiftItemDeletionFailed
		}

		repoTx := repositories.NewGiftItemRepository(tx)
		if err := repoTx.Delete(txCtx, &item, deletingUserID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrGiftItemNotFound
			}
			return ErrGiftItemDeletionFailed
		}
		return nil
	})

	if txErr != nil {
		var svcErr GiftItemServiceError
		if !errors.As(txErr, &svcErr) {
			configslog.Log.Error("DeleteGiftItem transaction failed", zap.Uint("id", id), zap.Error(txErr))
		}
		return txErr
	}
	configslog.SLog.Infof("Hediye ve katkıları silindi: ID %d (Silen: %d)", id, deletingUserID)
	return nil
}

// ImportFromURL ürün sayfasının OpenGraph etiketlerinden hediye taslağı
// oluşturur (ad, açıklama, görsel). Fiyat/adet kullanıcıya bırakılır.
func (s *GiftItemService) ImportFromURL(ctx context.Context, productURL string) (*models.GiftItem, error) {
	parsed, err := url.Parse(strings.TrimSpace(productURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: geçerli bir ürün adresi gerekli", ErrGiftItemInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, ErrGiftItemImportFailed
	}
	res, err := s.httpClient.Do(req)
	if err != nil {
		configslog.Log.Warn("Ürün sayfası alınamadı", zap.String("url", parsed.String()), zap.Error(err))
		return nil, ErrGiftItemImportFailed
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, ErrGiftItemImportFailed
	}

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(res.Body); err != nil {
		configslog.Log.Warn("OpenGraph etiketleri okunamadı", zap.String("url", parsed.String()), zap.Error(err))
		return nil, ErrGiftItemImportFailed
	}

	item := &models.GiftItem{
		Name:        strings.TrimSpace(og.Title),
		Description: strings.TrimSpace(og.Description),
		ProductURL:  parsed.String(),
		Quantity:    1,
	}
	if len(og.Images) > 0 && og.Images[0] != nil {
		item.ImageURL = og.Images[0].URL
	}
	if item.Name == "" {
		// OG başlığı yoksa host adı en azından bir taslak verir.
		item.Name = parsed.Host
	}
	return item, nil
}

var _ IGiftItemService = (*GiftItemService)(nil)
