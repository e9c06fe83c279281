package models

import "strings"

// User kayıtlı kullanıcı (profil) kaydı.
// Bildirim tercihleri iki düz boolean olarak tutulur:
// NotificationsEnabled uygulama içi bildirim, EmailNotifications e-posta kanalı.
type User struct {
	BaseModel
	FirstName    string `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string `gorm:"type:varchar(100)" json:"last_name"`
	FullName     string `gorm:"type:varchar(200)" json:"full_name"`
	Email        string `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	AvatarURL    string `gorm:"type:varchar(500)" json:"avatar_url"`
	IsSystem     bool   `gorm:"default:false;index" json:"-"`

	NotificationsEnabled bool `gorm:"default:true" json:"notifications_enabled"`
	EmailNotifications   bool `gorm:"default:true" json:"email_notifications"`
}

// DisplayName kullanıcının görünen adını üretir: FullName -> Ad Soyad -> Email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if s := strings.TrimSpace(u.FullName); s != "" {
		return s
	}
	if s := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName)); s != "" {
		return s
	}
	return strings.TrimSpace(u.Email)
}
