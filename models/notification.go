package models

// NotificationType bildirim olay türleri.
type NotificationType string

const (
	NotificationTypeContribution NotificationType = "contribution_received"
	NotificationTypeItemFunded   NotificationType = "item_fully_funded"
	NotificationTypeGeneric      NotificationType = "generic"
)

// Notification bir kullanıcıya adreslenmiş uygulama içi bildirim kaydı.
type Notification struct {
	BaseModel
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Type  NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`
	Title string           `gorm:"type:varchar(255);not null" json:"title"`
	Body  string           `gorm:"type:text" json:"body"`

	ContributionID *uint `gorm:"index" json:"contribution_id,omitempty"`
	IsRead         bool  `gorm:"default:false;index" json:"is_read"`
}
