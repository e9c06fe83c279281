package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hediye.link/configs/configslog"
	"hediye.link/pkg/payment"
	"hediye.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentServiceError özel servis hataları.
type PaymentServiceError string

func (e PaymentServiceError) Error() string { return string(e) }

const (
	ErrPaymentInvalidInput PaymentServiceError = "geçersiz ödeme isteği"
	ErrPaymentItemNotFound PaymentServiceError = "hediye veya liste bulunamadı"
	ErrPaymentMismatch     PaymentServiceError = "hediye belirtilen listeye ait değil"
	ErrPaymentFailed       PaymentServiceError = "ödeme niyeti oluşturulamadı"
)

// PaymentIntentInput ödeme niyeti isteği. Katkı alanları metadata olarak
// sağlayıcıya taşınır ve webhook onayında katkı kaydına dönüşür.
type PaymentIntentInput struct {
	GiftItemID        uint    `json:"gift_item_id"`
	RegistryID        uint    `json:"registry_id"`
	Amount            float64 `json:"amount"`
	Message           string  `json:"message"`
	ContributorName   string  `json:"contributor_name"`
	IsAnonymous       bool    `json:"is_anonymous"`
	ContributorUserID *uint   `json:"-"`
}

// IPaymentService ödeme niyeti işlemleri için arayüz.
type IPaymentService interface {
	CreateIntent(ctx context.Context, input PaymentIntentInput) (*payment.Intent, error)
}

// PaymentService IPaymentService arayüzünü uygular.
type PaymentService struct {
	client       *payment.Client
	giftItemRepo repositories.IGiftItemRepository
	registryRepo repositories.IRegistryRepository
}

// NewPaymentService yeni bir PaymentService örneği oluşturur.
func NewPaymentService(db *gorm.DB, client *payment.Client) IPaymentService {
	return &PaymentService{
		client:       client,
		giftItemRepo: repositories.NewGiftItemRepository(db),
		registryRepo: repositories.NewRegistryRepository(db),
	}
}

// CreateIntent hediye/liste eşleşmesini doğrulayıp sağlayıcıda ödeme niyeti
// oluşturur. Para birimi listenin para birimidir; istemcinin gönderdiği
// tutar dışında hiçbir alana güvenilmez.
func (s *PaymentService) CreateIntent(ctx context.Context, input PaymentIntentInput) (*payment.Intent, error) {
	if input.GiftItemID == 0 || input.RegistryID == 0 {
		return nil, fmt.Errorf("%w: hediye ve liste ID zorunlu", ErrPaymentInvalidInput)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: tutar pozitif olmalı", ErrPaymentInvalidInput)
	}

	item, err := s.giftItemRepo.FindByID(ctx, input.GiftItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentItemNotFound
		}
		return nil, err
	}
	if item.RegistryID != input.RegistryID {
		return nil, ErrPaymentMismatch
	}
	registry, err := s.registryRepo.FindByID(ctx, input.RegistryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentItemNotFound
		}
		return nil, err
	}

	metadata := map[string]string{
		payment.MetaRegistryID: strconv.FormatUint(uint64(registry.ID), 10),
		payment.MetaGiftItemID: strconv.FormatUint(uint64(item.ID), 10),
	}
	if name := strings.TrimSpace(input.ContributorName); name != "" {
		metadata[payment.MetaContributorName] = name
	}
	if input.IsAnonymous {
		metadata[payment.MetaIsAnonymous] = "true"
	}
	if input.ContributorUserID != nil && *input.ContributorUserID != 0 {
		metadata[payment.MetaContributorUserID] = strconv.FormatUint(uint64(*input.ContributorUserID), 10)
	}
	if msg := strings.TrimSpace(input.Message); msg != "" {
		metadata[payment.MetaMessage] = msg
	}

	intent, err := s.client.CreateIntent(ctx, payment.CreateIntentParams{
		Amount:   input.Amount,
		Currency: registry.Currency,
		Metadata: metadata,
	})
	if err != nil {
		configslog.Log.Error("Ödeme niyeti oluşturulamadı",
			zap.Uint("giftItemID", input.GiftItemID), zap.Error(err))
		return nil, ErrPaymentFailed
	}

	configslog.SLog.Infof("Ödeme niyeti oluşturuldu: %s (Hediye %d, %.2f %s)",
		intent.ID, item.ID, input.Amount, registry.Currency)
	return intent, nil
}

var _ IPaymentService = (*PaymentService)(nil)
