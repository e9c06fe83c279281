package models

// GiftItem bir listedeki tek bir hediye.
// Hedef tutar = Price * Quantity.
type GiftItem struct {
	BaseModel
	RegistryID uint     `gorm:"index;not null" json:"registry_id"`
	Registry   Registry `gorm:"foreignKey:RegistryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	ProductURL  string  `gorm:"type:varchar(500)" json:"product_url"`
	ImageURL    string  `gorm:"type:varchar(500)" json:"image_url"`
	IsPurchased bool    `gorm:"default:false" json:"is_purchased"`
	IsFavorite  bool    `gorm:"default:false" json:"is_favorite"`

	Contributions []Contribution `gorm:"foreignKey:GiftItemID" json:"-"`
}

// TargetAmount hediyenin hedef tutarı.
func (g *GiftItem) TargetAmount() float64 {
	return g.Price * float64(g.Quantity)
}
