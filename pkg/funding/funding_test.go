package funding

import (
	"testing"
	"time"

	"hediye.link/models"

	"github.com/stretchr/testify/assert"
)

func userIDPtr(id uint) *uint { return &id }

func TestPercent(t *testing.T) {
	tests := []struct {
		name        string
		contributed float64
		target      float64
		want        float64
	}{
		{"hedef sıfırsa yüzde sıfır", 50, 0, 0},
		{"hedef negatifse yüzde sıfır", 50, -10, 0},
		{"katkı yokken sıfır", 0, 200, 0},
		{"çeyrek fonlama", 25, 100, 25},
		{"iki ondalığa yuvarlama", 250, 300, 83.33},
		{"fazla fonlama yüze kıstırılır", 150, 100, 100},
		{"negatif katkı sıfıra kıstırılır", -5, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percent(tt.contributed, tt.target), 1e-9)
		})
	}
}

func TestSummarizeItem(t *testing.T) {
	item := models.GiftItem{
		BaseModel: models.BaseModel{ID: 7},
		Name:      "Kahve Makinesi",
		Price:     100,
		Quantity:  2,
	}
	contributions := []models.Contribution{
		{GiftItemID: 7, Amount: 30},
		{GiftItemID: 7, Amount: 20},
		{GiftItemID: 99, Amount: 500}, // başka hediyeye ait, sayılmamalı
	}

	got := SummarizeItem(item, contributions)

	assert.Equal(t, uint(7), got.GiftItemID)
	assert.InDelta(t, 50.0, got.Contributed, 1e-9)
	assert.InDelta(t, 200.0, got.Target, 1e-9)
	assert.InDelta(t, 25.0, got.PercentFunded, 1e-9)
}

func TestSummarizeItemZeroTarget(t *testing.T) {
	item := models.GiftItem{BaseModel: models.BaseModel{ID: 1}, Price: 0, Quantity: 1}
	got := SummarizeItem(item, []models.Contribution{{GiftItemID: 1, Amount: 10}})

	assert.InDelta(t, 10.0, got.Contributed, 1e-9)
	assert.Zero(t, got.PercentFunded)
}

func TestSummarizeRegistry(t *testing.T) {
	items := []models.GiftItem{
		{BaseModel: models.BaseModel{ID: 1}, Price: 100, Quantity: 1},
		{BaseModel: models.BaseModel{ID: 2}, Price: 50, Quantity: 2},
	}
	contributions := []models.Contribution{
		{GiftItemID: 1, Amount: 40, ContributorUserID: userIDPtr(10)},
		{GiftItemID: 2, Amount: 30, ContributorUserID: userIDPtr(10)}, // aynı kullanıcı
		{GiftItemID: 1, Amount: 10, ContributorName: "Ayşe"},
		{GiftItemID: 1, Amount: 5, IsAnonymous: true},
		{GiftItemID: 2, Amount: 5, IsAnonymous: true}, // anonimler tek anahtarda birleşir
		{GiftItemID: 77, Amount: 999},                 // listeye ait olmayan hediye
	}

	got := SummarizeRegistry(items, contributions)

	assert.InDelta(t, 90.0, got.TotalAmount, 1e-9)
	assert.InDelta(t, 200.0, got.TotalTarget, 1e-9)
	assert.InDelta(t, 45.0, got.PercentFunded, 1e-9)
	assert.Equal(t, 5, got.ContributionCount)
	assert.Equal(t, 3, got.UniqueContributors)
}

func TestSummarizeRegistryTwoItemScenario(t *testing.T) {
	// Hedefler 1000 ve 500; toplam 1250 katkı -> %83.33.
	items := []models.GiftItem{
		{BaseModel: models.BaseModel{ID: 1}, Price: 1000, Quantity: 1},
		{BaseModel: models.BaseModel{ID: 2}, Price: 500, Quantity: 1},
	}
	contributions := []models.Contribution{
		{GiftItemID: 1, Amount: 750, ContributorName: "Ayşe"},
		{GiftItemID: 2, Amount: 500, ContributorName: "Mehmet"},
	}

	got := SummarizeRegistry(items, contributions)

	assert.InDelta(t, 1250.0, got.TotalAmount, 1e-9)
	assert.InDelta(t, 1500.0, got.TotalTarget, 1e-9)
	assert.InDelta(t, 83.33, got.PercentFunded, 1e-9)
}

func TestSummarizeRegistryEmpty(t *testing.T) {
	got := SummarizeRegistry(nil, nil)

	assert.Zero(t, got.TotalAmount)
	assert.Zero(t, got.TotalTarget)
	assert.Zero(t, got.PercentFunded)
	assert.Zero(t, got.ContributionCount)
	assert.Zero(t, got.UniqueContributors)
}

func TestRecent(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	contributions := []models.Contribution{
		{BaseModel: models.BaseModel{ID: 1, CreatedAt: base}},
		{BaseModel: models.BaseModel{ID: 2, CreatedAt: base.Add(2 * time.Hour)}},
		{BaseModel: models.BaseModel{ID: 3, CreatedAt: base.Add(time.Hour)}},
		{BaseModel: models.BaseModel{ID: 4, CreatedAt: base.Add(time.Hour)}}, // 3 ile aynı an
	}

	got := Recent(contributions, 3)

	assert.Len(t, got, 3)
	assert.Equal(t, uint(2), got[0].ID)
	// Eşit zaman damgasında kayıt sırası korunur.
	assert.Equal(t, uint(3), got[1].ID)
	assert.Equal(t, uint(4), got[2].ID)

	// Girdi dilimi değişmemeli.
	assert.Equal(t, uint(1), contributions[0].ID)
}

func TestRecentNoLimit(t *testing.T) {
	contributions := []models.Contribution{
		{BaseModel: models.BaseModel{ID: 1}},
		{BaseModel: models.BaseModel{ID: 2}},
	}
	assert.Len(t, Recent(contributions, 0), 2)
	assert.Len(t, Recent(contributions, 10), 2)
}
