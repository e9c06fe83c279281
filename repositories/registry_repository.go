package repositories

import (
	"context"
	"errors"
	"time"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IRegistryRepository hediye listesi veritabanı işlemleri için arayüz.
type IRegistryRepository interface {
	Create(ctx context.Context, registry *models.Registry) error
	FindByID(ctx context.Context, id uint) (*models.Registry, error)
	FindByShareKey(ctx context.Context, key string) (*models.Registry, error)
	FindAllForUserPaginated(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.Registry, int64, error)
	FindAllForUser(ctx context.Context, userID uint) ([]models.Registry, error)
	Update(ctx context.Context, registry *models.Registry) error
	Delete(ctx context.Context, registry *models.Registry, deletedByUserID uint) error
	CountByOwner(ctx context.Context, ownerUserID uint) (int64, error)

	AddCollaborator(ctx context.Context, collab *models.RegistryCollaborator) error
	FindCollaborator(ctx context.Context, registryID, userID uint) (*models.RegistryCollaborator, error)
}

// RegistryRepository IRegistryRepository arayüzünü uygular.
type RegistryRepository struct {
	db *gorm.DB
}

// NewRegistryRepository yeni bir RegistryRepository örneği oluşturur.
func NewRegistryRepository(db *gorm.DB) IRegistryRepository {
	return &RegistryRepository{db: db}
}

func (r *RegistryRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Create yeni liste kaydı oluşturur. ShareKey model hook'unda üretilir.
func (r *RegistryRepository) Create(ctx context.Context, registry *models.Registry) error {
	if registry == nil {
		return errors.New("oluşturulacak liste nil olamaz")
	}
	return r.getDB(ctx).Create(registry).Error
}

// FindByID listeyi hediyeleri ve ortaklarıyla birlikte getirir.
func (r *RegistryRepository) FindByID(ctx context.Context, id uint) (*models.Registry, error) {
	if id == 0 {
		return nil, errors.New("geçersiz liste ID")
	}
	var registry models.Registry
	err := r.getDB(ctx).
		Preload("GiftItems").
		Preload("Collaborators").
		Preload("Collaborators.User").
		First(&registry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("RegistryRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &registry, nil
}

// FindByShareKey public paylaşım anahtarı ile listeyi getirir.
func (r *RegistryRepository) FindByShareKey(ctx context.Context, key string) (*models.Registry, error) {
	if key == "" {
		return nil, errors.New("aranacak paylaşım anahtarı boş olamaz")
	}
	var registry models.Registry
	err := r.getDB(ctx).
		Preload("GiftItems").
		Where("share_key = ?", key).
		First(&registry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("RegistryRepository.FindByShareKey: DB error", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return &registry, nil
}

// FindAllForUserPaginated kullanıcının sahibi veya ortağı olduğu listeleri
// sayfalayarak getirir.
func (r *RegistryRepository) FindAllForUserPaginated(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.Registry, int64, error) {
	if userID == 0 {
		return nil, 0, errors.New("geçersiz kullanıcı ID")
	}
	db := r.getDB(ctx)

	base := db.Model(&models.Registry{}).
		Where("owner_user_id = ? OR id IN (?)", userID,
			db.Model(&models.RegistryCollaborator{}).Select("registry_id").Where("user_id = ? AND deleted_at IS NULL", userID))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		configslog.Log.Error("RegistryRepository.FindAllForUserPaginated: count error", zap.Uint("userID", userID), zap.Error(err))
		return nil, 0, err
	}

	var registries []models.Registry
	err := base.
		Preload("GiftItems").
		Order(sortClause(params, map[string]bool{"created_at": true, "title": true, "event_date": true})).
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&registries).Error
	if err != nil {
		configslog.Log.Error("RegistryRepository.FindAllForUserPaginated: DB error", zap.Uint("userID", userID), zap.Error(err))
		return nil, 0, err
	}
	return registries, total, nil
}

// FindAllForUser kullanıcının tüm listelerini (sahip + ortak) sayfalama
// olmadan getirir. Kullanıcı geneli analitik bunun üzerinden hesaplanır.
func (r *RegistryRepository) FindAllForUser(ctx context.Context, userID uint) ([]models.Registry, error) {
	if userID == 0 {
		return nil, errors.New("geçersiz kullanıcı ID")
	}
	db := r.getDB(ctx)

	var registries []models.Registry
	err := db.Model(&models.Registry{}).
		Where("owner_user_id = ? OR id IN (?)", userID,
			db.Model(&models.RegistryCollaborator{}).Select("registry_id").Where("user_id = ? AND deleted_at IS NULL", userID)).
		Preload("GiftItems").
		Order("created_at desc").
		Find(&registries).Error
	if err != nil {
		configslog.Log.Error("RegistryRepository.FindAllForUser: DB error", zap.Uint("userID", userID), zap.Error(err))
		return nil, err
	}
	return registries, nil
}

// Update liste kaydını kaydeder.
func (r *RegistryRepository) Update(ctx context.Context, registry *models.Registry) error {
	if registry == nil || registry.ID == 0 {
		return errors.New("güncellenecek liste geçersiz")
	}
	return r.getDB(ctx).Save(registry).Error
}

// Delete listeyi soft delete eder ve DeletedBy alanını işler.
// Bağımlı hediye/katkı kayıtları servis katmanındaki transaction içinde
// ayrıca silinir.
func (r *RegistryRepository) Delete(ctx context.Context, registry *models.Registry, deletedByUserID uint) error {
	if registry == nil || registry.ID == 0 {
		return errors.New("silinecek liste geçersiz")
	}
	db := r.getDB(ctx)
	now := time.Now().UTC()
	result := db.Model(&models.Registry{}).
		Where("id = ? AND deleted_at IS NULL", registry.ID).
		Updates(map[string]interface{}{"deleted_at": now, "deleted_by": &deletedByUserID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByOwner kullanıcının sahibi olduğu liste sayısı.
func (r *RegistryRepository) CountByOwner(ctx context.Context, ownerUserID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Registry{}).Where("owner_user_id = ?", ownerUserID).Count(&count).Error
	if err != nil {
		configslog.Log.Error("RegistryRepository.CountByOwner: DB error", zap.Uint("ownerUserID", ownerUserID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

// AddCollaborator listeye ortak ekler.
func (r *RegistryRepository) AddCollaborator(ctx context.Context, collab *models.RegistryCollaborator) error {
	if collab == nil || collab.RegistryID == 0 || collab.UserID == 0 {
		return errors.New("geçersiz ortak kaydı")
	}
	return r.getDB(ctx).Create(collab).Error
}

// FindCollaborator liste + kullanıcı ikilisi için ortak kaydını bulur.
func (r *RegistryRepository) FindCollaborator(ctx context.Context, registryID, userID uint) (*models.RegistryCollaborator, error) {
	if registryID == 0 || userID == 0 {
		return nil, errors.New("geçersiz ID")
	}
	var collab models.RegistryCollaborator
	err := r.getDB(ctx).Where("registry_id = ? AND user_id = ?", registryID, userID).First(&collab).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("RegistryRepository.FindCollaborator: DB error", zap.Error(err))
		return nil, err
	}
	return &collab, nil
}

var _ IRegistryRepository = (*RegistryRepository)(nil)

// sortClause izin verilen sütunlar dışındaki sıralama isteklerini
// created_at'e düşürür (SQL injection koruması).
func sortClause(params queryparams.ListParams, allowed map[string]bool) string {
	col := params.SortBy
	if !allowed[col] {
		col = "created_at"
	}
	dir := params.OrderBy
	if dir != "asc" {
		dir = "desc"
	}
	return col + " " + dir
}
