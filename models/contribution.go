package models

import (
	"strconv"
	"strings"
)

// ContributionStatus katkı durumları.
type ContributionStatus string

const (
	ContributionStatusPending   ContributionStatus = "pending"
	ContributionStatusCompleted ContributionStatus = "completed"
)

// AnonymousDisplayName isim çözümlemesinin son basamağı.
const AnonymousDisplayName = "Anonymous"

// AnonymousContributorKey tekil katkıcı sayımında isimsiz katkıların
// toplandığı sentinel anahtar.
const AnonymousContributorKey = "anonymous"

// Contribution bir hediyeye yapılan parasal katkı.
// RegistryID denormalize edilmiştir; katkının hediyesi mutlaka aynı listeye
// ait olmalıdır (servis katmanı bunu doğrular).
// PaymentRef ödeme sağlayıcısının transaction ID'sidir ve unique index ile
// webhook tekrarlarına karşı ikinci bir güvence sağlar.
type Contribution struct {
	BaseModel
	GiftItemID uint     `gorm:"index;not null" json:"gift_item_id"`
	GiftItem   GiftItem `gorm:"foreignKey:GiftItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	RegistryID uint     `gorm:"index;not null" json:"registry_id"`

	Amount  float64 `gorm:"type:numeric(12,2);not null" json:"amount"`
	Message string  `gorm:"type:text" json:"message"`

	// Katkıcı kimliği: ya profil referansı ya da serbest metin isim.
	ContributorUserID *uint  `gorm:"index" json:"contributor_user_id"`
	Contributor       *User  `gorm:"foreignKey:ContributorUserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	ContributorName   string `gorm:"type:varchar(150)" json:"contributor_name"`
	IsAnonymous       bool   `gorm:"default:false" json:"is_anonymous"`

	PaymentRef *string            `gorm:"type:varchar(128);uniqueIndex" json:"payment_ref,omitempty"`
	Status     ContributionStatus `gorm:"type:varchar(20);not null;default:'completed';index" json:"status"`
}

// DisplayName katkı için tek bir görünen ad üretir.
// Sıra sabittir ve TÜM yüzeylerde (pano, liste sayfası, public sayfa, API)
// aynı fonksiyon kullanılır:
//  1. Katkıda saklanan serbest metin isim
//  2. Profilin FullName alanı
//  3. Profilin Ad + Soyad birleşimi
//  4. Profilin e-postası
//  5. "Anonymous"
// Sonuç hiçbir durumda boş olamaz.
func (c *Contribution) DisplayName() string {
	if name := strings.TrimSpace(c.ContributorName); name != "" {
		return name
	}
	if c.Contributor != nil {
		if name := c.Contributor.DisplayName(); name != "" {
			return name
		}
	}
	return AnonymousDisplayName
}

// ContributorKey tekil katkıcı sayımı için normalize edilmiş anahtar üretir.
// Profilli katkılar profil ID'sine, isimli katkılar küçük harfe indirgenmiş
// isme, tamamen isimsiz katkılar ortak "anonymous" anahtarına düşer.
func (c *Contribution) ContributorKey() string {
	if c.ContributorUserID != nil && *c.ContributorUserID != 0 {
		return "user:" + strconv.FormatUint(uint64(*c.ContributorUserID), 10)
	}
	if name := strings.ToLower(strings.TrimSpace(c.ContributorName)); name != "" {
		return "name:" + name
	}
	return AnonymousContributorKey
}
