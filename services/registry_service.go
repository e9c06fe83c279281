package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/funding"
	"hediye.link/pkg/queryparams"
	"hediye.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegistryServiceError özel servis hataları.
type RegistryServiceError string

func (e RegistryServiceError) Error() string { return string(e) }

const (
	ErrRegistryNotFound       RegistryServiceError = "hediye listesi bulunamadı"
	ErrRegistryForbidden      RegistryServiceError = "bu işlem için yetkiniz yok"
	ErrRegistryInvalidInput   RegistryServiceError = "geçersiz girdi verisi"
	ErrRegistryTitleRequired  RegistryServiceError = "liste başlığı zorunludur"
	ErrRegistryCreationFailed RegistryServiceError = "liste oluşturulamadı"
	ErrRegistryUpdateFailed   RegistryServiceError = "liste güncellenemedi"
	ErrRegistryDeletionFailed RegistryServiceError = "liste silinemedi"
	ErrCollaboratorExists     RegistryServiceError = "kullanıcı zaten listeye ortak"
)

// RegistryWithSummary liste + fonlama özeti cevabı.
type RegistryWithSummary struct {
	Registry *models.Registry        `json:"registry"`
	Summary  funding.RegistrySummary `json:"summary"`
	Items    []funding.ItemSummary   `json:"item_summaries"`
}

// IRegistryService hediye listesi işlemleri için arayüz.
type IRegistryService interface {
	CreateRegistry(ctx context.Context, ownerUserID uint, registry *models.Registry) error
	GetRegistryByID(ctx context.Context, id uint, requestingUserID uint) (*models.Registry, error)
	GetRegistryWithSummary(ctx context.Context, id uint, requestingUserID uint) (*RegistryWithSummary, error)
	GetRegistryByShareKey(ctx context.Context, key string) (*RegistryWithSummary, error)
	GetRegistriesForUser(ctx context.Context, userID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateRegistry(ctx context.Context, id uint, updatingUserID uint, apply func(*models.Registry) error) error
	DeleteRegistry(ctx context.Context, id uint, deletingUserID uint) error
	AddCollaborator(ctx context.Context, registryID, ownerUserID, collaboratorUserID uint, canEdit bool) error
	CanEdit(ctx context.Context, registry *models.Registry, userID uint) bool
}

// RegistryService IRegistryService arayüzünü uygular.
type RegistryService struct {
	repo             repositories.IRegistryRepository
	contributionRepo repositories.IContributionRepository
	giftItemRepo     repositories.IGiftItemRepository
	userRepo         repositories.IUserRepository
	db               *gorm.DB
}

// NewRegistryService yeni bir RegistryService örneği oluşturur.
func NewRegistryService(db *gorm.DB) IRegistryService {
	return &RegistryService{
		repo:             repositories.NewRegistryRepository(db),
		contributionRepo: repositories.NewContributionRepository(db),
		giftItemRepo:     repositories.NewGiftItemRepository(db),
		userRepo:         repositories.NewUserRepository(db),
		db:               db,
	}
}

// ValidateRegistry temel validasyonları yapar.
func ValidateRegistry(registry *models.Registry) error {
	if strings.TrimSpace(registry.Title) == "" {
		return ErrRegistryTitleRequired
	}
	registry.Currency = strings.ToUpper(strings.TrimSpace(registry.Currency))
	if registry.Currency == "" {
		registry.Currency = "TRY"
	}
	if len(registry.Currency) != 3 {
		return fmt.Errorf("%w: para birimi 3 harfli olmalı", ErrRegistryInvalidInput)
	}
	return nil
}

// CreateRegistry yeni liste oluşturur. ShareKey model hook'unda üretilir.
func (s *RegistryService) CreateRegistry(ctx context.Context, ownerUserID uint, registry *models.Registry) error {
	if ownerUserID == 0 {
		return fmt.Errorf("%w: geçersiz kullanıcı ID", ErrRegistryInvalidInput)
	}
	if err := ValidateRegistry(registry); err != nil {
		return err
	}
	registry.OwnerUserID = ownerUserID
	if registry.Status == "" {
		registry.Status = models.RegistryStatusActive
	}

	if err := s.repo.Create(models.ContextWithUserID(ctx, ownerUserID), registry); err != nil {
		configslog.Log.Error("Liste oluşturulamadı", zap.Uint("ownerUserID", ownerUserID), zap.Error(err))
		return ErrRegistryCreationFailed
	}
	configslog.SLog.Infof("Liste oluşturuldu: ID %d, Başlık: %s, Key: %s", registry.ID, registry.Title, registry.ShareKey)
	return nil
}

// canView listeyi kimin görebileceğini belirler: sahibi, ortakları ve
// (liste gizli değilse) herkes.
func (s *RegistryService) canView(ctx context.Context, registry *models.Registry, userID uint) bool {
	if !registry.IsPrivate {
		return true
	}
	return s.hasRole(ctx, registry, userID, false)
}

// CanEdit düzenleme yetkisi: sahibi, CanEdit ortağı veya sistem kullanıcısı.
func (s *RegistryService) CanEdit(ctx context.Context, registry *models.Registry, userID uint) bool {
	return s.hasRole(ctx, registry, userID, true)
}

func (s *RegistryService) hasRole(ctx context.Context, registry *models.Registry, userID uint, requireEdit bool) bool {
	if userID == 0 {
		return false
	}
	if registry.OwnerUserID == userID {
		return true
	}
	if user, err := s.userRepo.FindByID(ctx, userID); err == nil && user.IsSystem {
		return true
	}
	collab, err := s.repo.FindCollaborator(ctx, registry.ID, userID)
	if err != nil {
		return false
	}
	if requireEdit {
		return collab.CanEdit
	}
	return true
}

// GetRegistryByID listeyi erişim kontrolüyle getirir.
func (s *RegistryService) GetRegistryByID(ctx context.Context, id uint, requestingUserID uint) (*models.Registry, error) {
	registry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRegistryNotFound
		}
		return nil, err
	}
	if !s.canView(ctx, registry, requestingUserID) {
		// Gizli listeyi dışarıya "yok" olarak göster.
		return nil, ErrRegistryNotFound
	}
	return registry, nil
}

// GetRegistryWithSummary listeyi fonlama özetiyle birlikte getirir.
// Özet her çağrıda katkılardan yeniden hesaplanır (pkg/funding, saf).
func (s *RegistryService) GetRegistryWithSummary(ctx context.Context, id uint, requestingUserID uint) (*RegistryWithSummary, error) {
	registry, err := s.GetRegistryByID(ctx, id, requestingUserID)
	if err != nil {
		return nil, err
	}
	return s.buildSummary(ctx, registry)
}

// GetRegistryByShareKey public paylaşım anahtarıyla listeyi getirir.
// Gizli veya arşivlenmiş listeler public yüzeyde görünmez.
func (s *RegistryService) GetRegistryByShareKey(ctx context.Context, key string) (*RegistryWithSummary, error) {
	if key == "" {
		return nil, ErrRegistryNotFound
	}
	registry, err := s.repo.FindByShareKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRegistryNotFound
		}
		return nil, err
	}
	if registry.IsPrivate || registry.Status != models.RegistryStatusActive {
		return nil, ErrRegistryNotFound
	}
	return s.buildSummary(ctx, registry)
}

func (s *RegistryService) buildSummary(ctx context.Context, registry *models.Registry) (*RegistryWithSummary, error) {
	contributions, err := s.contributionRepo.FindByRegistryID(ctx, registry.ID)
	if err != nil {
		return nil, err
	}
	itemSummaries := make([]funding.ItemSummary, 0, len(registry.GiftItems))
	for _, item := range registry.GiftItems {
		itemSummaries = append(itemSummaries, funding.SummarizeItem(item, contributions))
	}
	return &RegistryWithSummary{
		Registry: registry,
		Summary:  funding.SummarizeRegistry(registry.GiftItems, contributions),
		Items:    itemSummaries,
	}, nil
}

// GetRegistriesForUser kullanıcının listelerini sayfalayarak getirir.
func (s *RegistryService) GetRegistriesForUser(ctx context.Context, userID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: geçersiz kullanıcı ID", ErrRegistryInvalidInput)
	}
	params.Validate()

	registries, totalCount, err := s.repo.FindAllForUserPaginated(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	return &queryparams.PaginatedResult{
		Data: registries,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page, PerPage: params.PerPage,
			TotalItems: totalCount, TotalPages: queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	}, nil
}

// UpdateRegistry listeyi kilitli alır, yetkiyi doğrular, apply ile değişiklikleri
// uygular ve kaydeder.
func (s *RegistryService) UpdateRegistry(ctx context.Context, id uint, updatingUserID uint, apply func(*models.Registry) error) error {
	if id == 0 || updatingUserID == 0 {
		return fmt.Errorf("%w: geçersiz ID", ErrRegistryInvalidInput)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(models.ContextWithUserID(ctx, updatingUserID), "tx", tx)

		var existing models.Registry
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistryNotFound
			}
			return err
		}
		if !s.CanEdit(txCtx, &existing, updatingUserID) {
			return ErrRegistryForbidden
		}
		if err := apply(&existing); err != nil {
			return err
		}
		if err := ValidateRegistry(&existing); err != nil {
			return err
		}
		repoTx := repositories.NewRegistryRepository(tx)
		if err := repoTx.Update(txCtx, &existing); err != nil {
			return ErrRegistryUpdateFailed
		}
		return nil
	})

	if txErr != nil {
		if !isKnownRegistryError(txErr) {
			configslog.Log.Error("UpdateRegistry transaction failed", zap.Uint("id", id), zap.Error(txErr))
		}
		return txErr
	}
	configslog.SLog.Infof("Liste güncellendi: ID %d (Güncelleyen: %d)", id, updatingUserID)
	return nil
}

// DeleteRegistry listeyi ve bağımlı hediye/katkı kayıtlarını tek transaction
// içinde soft delete eder. Yalnızca sahibi silebilir.
func (s *RegistryService) DeleteRegistry(ctx context.Context, id uint, deletingUserID uint) error {
	if id == 0 || deletingUserID == 0 {
		return fmt.Errorf("%w: geçersiz ID", ErrRegistryInvalidInput)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(models.ContextWithUserID(ctx, deletingUserID), "tx", tx)

		var registry models.Registry
		if err := tx.First(&registry, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistryNotFound
			}
			return err
		}
		if registry.OwnerUserID != deletingUserID {
			if user, err := s.userRepo.FindByID(txCtx, deletingUserID); err != nil || !user.IsSystem {
				return ErrRegistryForbidden
			}
		}

		contributionRepoTx := repositories.NewContributionRepository(tx)
		if err := contributionRepoTx.DeleteByRegistryID(txCtx, id, deletingUserID); err != nil {
			return ErrRegistryDeletionFailed
		}

		giftItemRepoTx := repositories.NewGiftItemRepository(tx)
		items, err := giftItemRepoTx.FindByRegistryID(txCtx, id)
		if err != nil {
			return ErrRegistryDeletionFailed
		}
		for i := range items {
			if err := giftItemRepoTx.Delete(txCtx, &items[i], deletingUserID); err != nil {
				return ErrRegistryDeletionFailed
			}
		}

		registryRepoTx := repositories.NewRegistryRepository(tx)
		if err := registryRepoTx.Delete(txCtx, &registry, deletingUserID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrRegistryNotFound
			}
			return ErrRegistryDeletionFailed
		}
		return nil
	})

	if txErr != nil {
		if !isKnownRegistryError(txErr) {
			configslog.Log.Error("DeleteRegistry transaction failed", zap.Uint("id", id), zap.Error(txErr))
		}
		return txErr
	}
	configslog.SLog.Infof("Liste ve bağımlı kayıtları silindi: ID %d (Silen: %d)", id, deletingUserID)
	return nil
}

// AddCollaborator listeye ortak ekler. Yalnızca sahibi ekleyebilir.
func (s *RegistryService) AddCollaborator(ctx context.Context, registryID, ownerUserID, collaboratorUserID uint, canEdit bool) error {
	if registryID == 0 || ownerUserID == 0 || collaboratorUserID == 0 {
		return fmt.Errorf("%w: geçersiz ID", ErrRegistryInvalidInput)
	}
	if ownerUserID == collaboratorUserID {
		return fmt.Errorf("%w: sahibi zaten listeye erişebiliyor", ErrRegistryInvalidInput)
	}

	registry, err := s.repo.FindByID(ctx, registryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRegistryNotFound
		}
		return err
	}
	if registry.OwnerUserID != ownerUserID {
		return ErrRegistryForbidden
	}
	if _, err := s.userRepo.FindByID(ctx, collaboratorUserID); err != nil {
		return ErrUserNotFound
	}
	if _, err := s.repo.FindCollaborator(ctx, registryID, collaboratorUserID); err == nil {
		return ErrCollaboratorExists
	}

	collab := models.RegistryCollaborator{RegistryID: registryID, UserID: collaboratorUserID, CanEdit: canEdit}
	if err := s.repo.AddCollaborator(models.ContextWithUserID(ctx, ownerUserID), &collab); err != nil {
		configslog.Log.Error("Ortak eklenemedi", zap.Uint("registryID", registryID), zap.Error(err))
		return ErrRegistryUpdateFailed
	}
	return nil
}

func isKnownRegistryError(err error) bool {
	var svcErr RegistryServiceError
	return errors.As(err, &svcErr)
}

var _ IRegistryService = (*RegistryService)(nil)
