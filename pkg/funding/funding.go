// Package funding hediye ve liste bazında fonlama metriklerini hesaplar.
// Tüm fonksiyonlar saftır: yan etkisi yoktur, aynı girdiye her zaman aynı
// sonucu üretir ve her sayfa yüklemesinde güvenle yeniden çalıştırılabilir.
// Katkı toplama / isim çözümleme mantığı yalnızca burada ve
// models.Contribution üzerinde yaşar; handler'lar kendi kopyasını yazmaz.
package funding

import (
	"math"
	"sort"

	"hediye.link/models"
)

// ItemSummary tek bir hediyenin fonlama özeti.
type ItemSummary struct {
	GiftItemID    uint    `json:"gift_item_id"`
	Contributed   float64 `json:"contributed"`
	Target        float64 `json:"target"`
	PercentFunded float64 `json:"percent_funded"`
}

// RegistrySummary bir listenin (veya kullanıcının tüm listelerinin) özeti.
type RegistrySummary struct {
	TotalAmount        float64 `json:"total_amount"`
	TotalTarget        float64 `json:"total_target"`
	PercentFunded      float64 `json:"percent_funded"`
	ContributionCount  int     `json:"contribution_count"`
	UniqueContributors int     `json:"unique_contributors"`
}

// Percent katkı/hedef oranını yüzde olarak döndürür.
// Hedef 0 veya negatifse 0 döner (NaN/Inf asla üretmez), sonuç [0,100]
// aralığına kıstırılır ve iki ondalığa yuvarlanır.
func Percent(contributed, target float64) float64 {
	if target <= 0 {
		return 0
	}
	pct := contributed / target * 100
	if pct < 0 {
		return 0
	}
	pct = math.Min(pct, 100)
	return math.Round(pct*100) / 100
}

// SummarizeItem bir hediyenin katkı toplamını ve fonlanma yüzdesini hesaplar.
// contributions içinden yalnızca bu hediyeye ait olanlar sayılır.
func SummarizeItem(item models.GiftItem, contributions []models.Contribution) ItemSummary {
	var contributed float64
	for _, c := range contributions {
		if c.GiftItemID == item.ID {
			contributed += c.Amount
		}
	}
	target := item.TargetAmount()
	return ItemSummary{
		GiftItemID:    item.ID,
		Contributed:   contributed,
		Target:        target,
		PercentFunded: Percent(contributed, target),
	}
}

// SummarizeRegistry hediye kümesi ve katkıları üzerinden liste düzeyinde
// toplam tutar, toplam hedef, fonlanma yüzdesi ve tekil katkıcı sayısını
// hesaplar. Tekil katkıcı anahtarı Contribution.ContributorKey'den gelir;
// tamamen isimsiz katkıların hepsi tek "anonymous" anahtarında birleşir.
func SummarizeRegistry(items []models.GiftItem, contributions []models.Contribution) RegistrySummary {
	itemIDs := make(map[uint]struct{}, len(items))
	var totalTarget float64
	for _, it := range items {
		itemIDs[it.ID] = struct{}{}
		totalTarget += it.TargetAmount()
	}

	var totalAmount float64
	count := 0
	uniq := make(map[string]struct{})
	for _, c := range contributions {
		if _, ok := itemIDs[c.GiftItemID]; !ok {
			continue
		}
		totalAmount += c.Amount
		count++
		uniq[c.ContributorKey()] = struct{}{}
	}

	return RegistrySummary{
		TotalAmount:        totalAmount,
		TotalTarget:        totalTarget,
		PercentFunded:      Percent(totalAmount, totalTarget),
		ContributionCount:  count,
		UniqueContributors: len(uniq),
	}
}

// Recent katkıları en yeniden eskiye sıralayıp ilk n tanesini döndürür.
// Sıralama kararlıdır: eşit zaman damgalarında girdi (kayıt) sırası korunur.
// Girdi dilimi değiştirilmez. n <= 0 ise tüm liste döner.
func Recent(contributions []models.Contribution, n int) []models.Contribution {
	sorted := make([]models.Contribution, len(contributions))
	copy(sorted, contributions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
