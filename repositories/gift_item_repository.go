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

// IGiftItemRepository hediye veritabanı işlemleri için arayüz.
type IGiftItemRepository interface {
	Create(ctx context.Context, item *models.GiftItem) error
	FindByID(ctx context.Context, id uint) (*models.GiftItem, error)
	FindByRegistryID(ctx context.Context, registryID uint) ([]models.GiftItem, error)
	Update(ctx context.Context, item *models.GiftItem) error
	Delete(ctx context.Context, item *models.GiftItem, deletedByUserID uint) error
}

// GiftItemRepository IGiftItemRepository arayüzünü uygular.
type GiftItemRepository struct {
	db *gorm.DB
}

// NewGiftItemRepository yeni bir GiftItemRepository örneği oluşturur.
func NewGiftItemRepository(db *gorm.DB) IGiftItemRepository {
	return &GiftItemRepository{db: db}
}

func (r *GiftItemRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Create yeni hediye kaydı oluşturur.
func (r *GiftItemRepository) Create(ctx context.Context, item *models.GiftItem) error {
	if item == nil {
		return errors.New("oluşturulacak hediye nil olamaz")
	}
	return r.getDB(ctx).Create(item).Error
}

// FindByID hediyeyi katkılarıyla birlikte getirir.
func (r *GiftItemRepository) FindByID(ctx context.Context, id uint) (*models.GiftItem, error) {
	if id == 0 {
		return nil, errors.New("geçersiz hediye ID")
	}
	var item models.GiftItem
	err := r.getDB(ctx).
		Preload("Contributions").
		Preload("Contributions.Contributor").
		First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("GiftItemRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &item, nil
}

// FindByRegistryID bir listenin tüm hediyelerini getirir.
func (r *GiftItemRepository) FindByRegistryID(ctx context.Context, registryID uint) ([]models.GiftItem, error) {
	if registryID == 0 {
		return nil, errors.New("geçersiz liste ID")
	}
	var items []models.GiftItem
	err := r.getDB(ctx).
		Where("registry_id = ?", registryID).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		configslog.Log.Error("GiftItemRepository.FindByRegistryID: DB error", zap.Uint("registryID", registryID), zap.Error(err))
		return nil, err
	}
	return items, nil
}

// Update hediye kaydını kaydeder.
func (r *GiftItemRepository) Update(ctx context.Context, item *models.GiftItem) error {
	if item == nil || item.ID == 0 {
		return errors.New("güncellenecek hediye geçersiz")
	}
	return r.getDB(ctx).Save(item).Error
}

// Delete hediyeyi soft delete eder (DeletedBy işlenir).
func (r *GiftItemRepository) Delete(ctx context.Context, item *models.GiftItem, deletedByUserID uint) error {
	if item == nil || item.ID == 0 {
		return errors.New("silinecek hediye geçersiz")
	}
	now := time.Now().UTC()
	result := r.getDB(ctx).Model(&models.GiftItem{}).
		Where("id = ? AND deleted_at IS NULL", item.ID).
		Updates(map[string]interface{}{"deleted_at": now, "deleted_by": &deletedByUserID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IGiftItemRepository = (*GiftItemRepository)(nil)
