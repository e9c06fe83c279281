package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContributionDisplayName(t *testing.T) {
	userID := uint(5)

	tests := []struct {
		name         string
		contribution Contribution
		want         string
	}{
		{
			name:         "serbest metin isim öncelikli",
			contribution: Contribution{ContributorName: "Ayşe Yılmaz"},
			want:         "Ayşe Yılmaz",
		},
		{
			name: "isim profili ezer",
			contribution: Contribution{
				ContributorName:   "Takma Ad",
				ContributorUserID: &userID,
				Contributor:       &User{FullName: "Gerçek İsim"},
			},
			want: "Takma Ad",
		},
		{
			name: "profil FullName",
			contribution: Contribution{
				ContributorUserID: &userID,
				Contributor:       &User{FullName: "Mehmet Demir", FirstName: "Başka"},
			},
			want: "Mehmet Demir",
		},
		{
			name: "ad soyad birleşimi",
			contribution: Contribution{
				ContributorUserID: &userID,
				Contributor:       &User{FirstName: "Zeynep", LastName: "Kaya"},
			},
			want: "Zeynep Kaya",
		},
		{
			name: "yalnızca ad",
			contribution: Contribution{
				ContributorUserID: &userID,
				Contributor:       &User{FirstName: "Zeynep"},
			},
			want: "Zeynep",
		},
		{
			name: "e-posta son profil basamağı",
			contribution: Contribution{
				ContributorUserID: &userID,
				Contributor:       &User{Email: "kisi@example.com"},
			},
			want: "kisi@example.com",
		},
		{
			name: "tüm profil alanları boşsa Anonymous",
			contribution: Contribution{
				ContributorUserID: &userID,
				Contributor:       &User{},
			},
			want: AnonymousDisplayName,
		},
		{
			name:         "boşluklardan ibaret isim yok sayılır",
			contribution: Contribution{ContributorName: "   "},
			want:         AnonymousDisplayName,
		},
		{
			name:         "hiçbir kimlik yoksa Anonymous",
			contribution: Contribution{},
			want:         AnonymousDisplayName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.contribution.DisplayName()
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestContributionContributorKey(t *testing.T) {
	userID := uint(42)

	tests := []struct {
		name         string
		contribution Contribution
		want         string
	}{
		{
			name:         "profilli katkı kullanıcı anahtarı üretir",
			contribution: Contribution{ContributorUserID: &userID, ContributorName: "İsim"},
			want:         "user:42",
		},
		{
			name:         "isimli katkı normalize edilir",
			contribution: Contribution{ContributorName: "  Ayşe  "},
			want:         "name:ayşe",
		},
		{
			name:         "büyük küçük harf aynı anahtara düşer",
			contribution: Contribution{ContributorName: "MEHMET"},
			want:         "name:mehmet",
		},
		{
			name:         "isimsiz katkı sentinel anahtara düşer",
			contribution: Contribution{},
			want:         AnonymousContributorKey,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.contribution.ContributorKey())
		})
	}
}
