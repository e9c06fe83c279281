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

// IContributionRepository katkı veritabanı işlemleri için arayüz.
type IContributionRepository interface {
	Create(ctx context.Context, contribution *models.Contribution) error
	FindByID(ctx context.Context, id uint) (*models.Contribution, error)
	FindByRegistryID(ctx context.Context, registryID uint) ([]models.Contribution, error)
	FindByGiftItemID(ctx context.Context, giftItemID uint) ([]models.Contribution, error)
	FindByRegistryIDs(ctx context.Context, registryIDs []uint) ([]models.Contribution, error)
	ExistsByPaymentRef(ctx context.Context, paymentRef string) (bool, error)
	DeleteByRegistryID(ctx context.Context, registryID uint, deletedByUserID uint) error
	DeleteByGiftItemID(ctx context.Context, giftItemID uint, deletedByUserID uint) error
}

// ContributionRepository IContributionRepository arayüzünü uygular.
type ContributionRepository struct {
	db *gorm.DB
}

// NewContributionRepository yeni bir ContributionRepository örneği oluşturur.
func NewContributionRepository(db *gorm.DB) IContributionRepository {
	return &ContributionRepository{db: db}
}

func (r *ContributionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Create yeni katkı kaydı oluşturur.
// PaymentRef doluysa unique index aynı ödeme için ikinci kaydı engeller.
func (r *ContributionRepository) Create(ctx context.Context, contribution *models.Contribution) error {
	if contribution == nil {
		return errors.New("oluşturulacak katkı nil olamaz")
	}
	return r.getDB(ctx).Create(contribution).Error
}

// FindByID katkıyı katkıcı profiliyle birlikte getirir.
func (r *ContributionRepository) FindByID(ctx context.Context, id uint) (*models.Contribution, error) {
	if id == 0 {
		return nil, errors.New("geçersiz katkı ID")
	}
	var contribution models.Contribution
	err := r.getDB(ctx).Preload("Contributor").First(&contribution, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ContributionRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &contribution, nil
}

// FindByRegistryID bir listenin tüm katkılarını en yeniden eskiye getirir.
func (r *ContributionRepository) FindByRegistryID(ctx context.Context, registryID uint) ([]models.Contribution, error) {
	if registryID == 0 {
		return nil, errors.New("geçersiz liste ID")
	}
	var contributions []models.Contribution
	err := r.getDB(ctx).
		Preload("Contributor").
		Where("registry_id = ?", registryID).
		Order("created_at desc").
		Find(&contributions).Error
	if err != nil {
		configslog.Log.Error("ContributionRepository.FindByRegistryID: DB error", zap.Uint("registryID", registryID), zap.Error(err))
		return nil, err
	}
	return contributions, nil
}

// FindByGiftItemID bir hediyenin tüm katkılarını en yeniden eskiye getirir.
func (r *ContributionRepository) FindByGiftItemID(ctx context.Context, giftItemID uint) ([]models.Contribution, error) {
	if giftItemID == 0 {
		return nil, errors.New("geçersiz hediye ID")
	}
	var contributions []models.Contribution
	err := r.getDB(ctx).
		Preload("Contributor").
		Where("gift_item_id = ?", giftItemID).
		Order("created_at desc").
		Find(&contributions).Error
	if err != nil {
		configslog.Log.Error("ContributionRepository.FindByGiftItemID: DB error", zap.Uint("giftItemID", giftItemID), zap.Error(err))
		return nil, err
	}
	return contributions, nil
}

// FindByRegistryIDs birden çok listenin katkılarını tek sorguda getirir
// (kullanıcı geneli analitik için).
func (r *ContributionRepository) FindByRegistryIDs(ctx context.Context, registryIDs []uint) ([]models.Contribution, error) {
	if len(registryIDs) == 0 {
		return nil, nil
	}
	var contributions []models.Contribution
	err := r.getDB(ctx).
		Preload("Contributor").
		Where("registry_id IN ?", registryIDs).
		Order("created_at desc").
		Find(&contributions).Error
	if err != nil {
		configslog.Log.Error("ContributionRepository.FindByRegistryIDs: DB error", zap.Error(err))
		return nil, err
	}
	return contributions, nil
}

// ExistsByPaymentRef aynı ödeme referanslı katkı var mı kontrol eder
// (webhook tekrarları için ön kontrol).
func (r *ContributionRepository) ExistsByPaymentRef(ctx context.Context, paymentRef string) (bool, error) {
	if paymentRef == "" {
		return false, errors.New("kontrol edilecek ödeme referansı boş olamaz")
	}
	var count int64
	err := r.getDB(ctx).Model(&models.Contribution{}).Where("payment_ref = ?", paymentRef).Count(&count).Error
	if err != nil {
		configslog.Log.Error("ContributionRepository.ExistsByPaymentRef: DB error", zap.Error(err))
		return false, err
	}
	return count > 0, nil
}

// DeleteByRegistryID listenin tüm katkılarını soft delete eder
// (liste silme transaction'ı içinden çağrılır).
func (r *ContributionRepository) DeleteByRegistryID(ctx context.Context, registryID uint, deletedByUserID uint) error {
	if registryID == 0 {
		return errors.New("geçersiz liste ID")
	}
	now := time.Now().UTC()
	return r.getDB(ctx).Model(&models.Contribution{}).
		Where("registry_id = ? AND deleted_at IS NULL", registryID).
		Updates(map[string]interface{}{"deleted_at": now, "deleted_by": &deletedByUserID}).Error
}

// DeleteByGiftItemID hediyenin tüm katkılarını soft delete eder.
func (r *ContributionRepository) DeleteByGiftItemID(ctx context.Context, giftItemID uint, deletedByUserID uint) error {
	if giftItemID == 0 {
		return errors.New("geçersiz hediye ID")
	}
	now := time.Now().UTC()
	return r.getDB(ctx).Model(&models.Contribution{}).
		Where("gift_item_id = ? AND deleted_at IS NULL", giftItemID).
		Updates(map[string]interface{}{"deleted_at": now, "deleted_by": &deletedByUserID}).Error
}

var _ IContributionRepository = (*ContributionRepository)(nil)
