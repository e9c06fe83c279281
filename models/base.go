package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type contextKey string

// CtxUserIDKey işlemi yapan kullanıcının ID'sini context üzerinden
// BaseModel hook'larına taşır (CreatedBy/UpdatedBy için).
const CtxUserIDKey contextKey = "ctx_user_id"

// ContextWithUserID hook'ların okuyacağı kullanıcı ID'sini context'e ekler.
func ContextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, CtxUserIDKey, userID)
}

// UserIDFromContext context'teki kullanıcı ID'sini döndürür (yoksa 0).
func UserIDFromContext(ctx context.Context) uint {
	if id, ok := ctx.Value(CtxUserIDKey).(uint); ok {
		return id
	}
	return 0
}

// BaseModel tüm tablolara gömülen ortak alanlar:
// ID, zaman damgaları, soft delete ve audit (kim oluşturdu/güncelledi/sildi).
type BaseModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedBy *uint          `gorm:"index" json:"-"`
	UpdatedBy *uint          `json:"-"`
	DeletedBy *uint          `json:"-"`
}

// BeforeCreate context'teki kullanıcı ID'sini CreatedBy alanına yazar.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if userID := UserIDFromContext(tx.Statement.Context); userID != 0 {
		b.CreatedBy = &userID
	}
	return nil
}

// BeforeUpdate context'teki kullanıcı ID'sini UpdatedBy alanına yazar.
func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if userID := UserIDFromContext(tx.Statement.Context); userID != 0 {
		b.UpdatedBy = &userID
	}
	return nil
}
