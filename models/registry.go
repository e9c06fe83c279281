package models

import (
	"time"

	"gorm.io/gorm"

	"hediye.link/utils"
)

// RegistryStatus liste durumları.
type RegistryStatus string

const (
	RegistryStatusActive   RegistryStatus = "active"
	RegistryStatusArchived RegistryStatus = "archived"
)

// Registry bir kullanıcının belirli bir etkinlik için hediye listesi.
// ShareKey public paylaşım linkinin anahtarıdır (/r/:key).
type Registry struct {
	BaseModel
	OwnerUserID uint   `gorm:"index;not null" json:"owner_user_id"`
	Owner       User   `gorm:"foreignKey:OwnerUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	ShareKey    string `gorm:"type:varchar(11);uniqueIndex;not null" json:"share_key"`

	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Occasion    string         `gorm:"type:varchar(50);index" json:"occasion"`
	EventDate   *time.Time     `gorm:"index;type:timestamptz" json:"event_date"`
	Currency    string         `gorm:"type:varchar(3);not null;default:'TRY'" json:"currency"`
	Status      RegistryStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	// Gizlilik / paylaşım ayarları
	IsPrivate            bool `gorm:"default:false" json:"is_private"`
	ShowContributorNames bool `gorm:"default:true" json:"show_contributor_names"`
	AllowAnonymous       bool `gorm:"default:true" json:"allow_anonymous"`

	// İlişkiler
	GiftItems     []GiftItem             `gorm:"foreignKey:RegistryID" json:"gift_items,omitempty"`
	Contributions []Contribution         `gorm:"foreignKey:RegistryID" json:"-"`
	Collaborators []RegistryCollaborator `gorm:"foreignKey:RegistryID" json:"collaborators,omitempty"`
}

// BeforeCreate boşsa benzersiz ShareKey üretir.
// Çakışma kontrolü repository'de yapılır; key alanı unique index ile korunur.
func (r *Registry) BeforeCreate(tx *gorm.DB) error {
	if err := r.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if r.ShareKey == "" {
		r.ShareKey = utils.GenerateKey(11)
	}
	return nil
}

// RegistryCollaborator listeye ortak (co-owner) olarak eklenen kullanıcı.
type RegistryCollaborator struct {
	BaseModel
	RegistryID uint `gorm:"not null;index:idx_collab_registry_user,unique" json:"registry_id"`
	UserID     uint `gorm:"not null;index:idx_collab_registry_user,unique" json:"user_id"`
	User       User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	CanEdit    bool `gorm:"default:false" json:"can_edit"`
}
