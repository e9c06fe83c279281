package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hediye.link/models"
	"hediye.link/pkg/payment"
	"hediye.link/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test"

// fakeWebhookEventRepo bellek içi olay kaydı.
type fakeWebhookEventRepo struct {
	events    map[string]*models.PaymentWebhookEvent // provider/eventID -> kayıt
	nextID    uint
	failed    map[uint]string
	createErr error
}

func newFakeWebhookEventRepo() *fakeWebhookEventRepo {
	return &fakeWebhookEventRepo{
		events: make(map[string]*models.PaymentWebhookEvent),
		failed: make(map[uint]string),
		nextID: 1,
	}
}

func (f *fakeWebhookEventRepo) key(provider, eventID string) string { return provider + "/" + eventID }

func (f *fakeWebhookEventRepo) Create(_ context.Context, event *models.PaymentWebhookEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	k := f.key(event.Provider, event.EventID)
	if _, ok := f.events[k]; ok {
		return gorm.ErrDuplicatedKey
	}
	event.ID = f.nextID
	f.nextID++
	f.events[k] = event
	return nil
}

func (f *fakeWebhookEventRepo) FindByProviderEventID(_ context.Context, provider, eventID string) (*models.PaymentWebhookEvent, error) {
	if ev, ok := f.events[f.key(provider, eventID)]; ok {
		return ev, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeWebhookEventRepo) MarkProcessed(_ context.Context, id uint) error {
	for _, ev := range f.events {
		if ev.ID == id {
			now := time.Now()
			ev.ProcessedAt = &now
			ev.ProcessingError = ""
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeWebhookEventRepo) MarkFailed(_ context.Context, id uint, processingError string) error {
	f.failed[id] = processingError
	return nil
}

// fakeContributionRepo yalnızca ExistsByPaymentRef için kullanılır.
type fakeContributionRepo struct {
	repositories.IContributionRepository
	existingRefs map[string]bool
}

func (f *fakeContributionRepo) ExistsByPaymentRef(_ context.Context, ref string) (bool, error) {
	return f.existingRefs[ref], nil
}

// fakeContributionService kayıt çağrılarını sayar.
type fakeContributionService struct {
	IContributionService
	recorded  []ContributionInput
	recordErr error
}

func (f *fakeContributionService) RecordPaidContribution(_ context.Context, input ContributionInput) (*models.Contribution, error) {
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	f.recorded = append(f.recorded, input)
	return &models.Contribution{
		BaseModel:  models.BaseModel{ID: uint(len(f.recorded))},
		GiftItemID: input.GiftItemID,
		RegistryID: input.RegistryID,
		Amount:     input.Amount,
		PaymentRef: input.PaymentRef,
	}, nil
}

// fakeNotificationService bildirim çağrılarını sayar.
type fakeNotificationService struct {
	INotificationService
	notified  int
	notifyErr error
}

func (f *fakeNotificationService) NotifyContribution(_ context.Context, _ *models.Contribution) error {
	f.notified++
	return f.notifyErr
}

type webhookFixture struct {
	service       *WebhookService
	eventRepo     *fakeWebhookEventRepo
	contribRepo   *fakeContributionRepo
	contributions *fakeContributionService
	notifications *fakeNotificationService
}

func newWebhookFixture() *webhookFixture {
	f := &webhookFixture{
		eventRepo:     newFakeWebhookEventRepo(),
		contribRepo:   &fakeContributionRepo{existingRefs: make(map[string]bool)},
		contributions: &fakeContributionService{},
		notifications: &fakeNotificationService{},
	}
	f.service = &WebhookService{
		eventRepo:        f.eventRepo,
		contributionRepo: f.contribRepo,
		contributions:    f.contributions,
		notifications:    f.notifications,
		webhookSecret:    testWebhookSecret,
		tolerance:        payment.DefaultTolerance,
	}
	return f
}

func signedEvent(t *testing.T, eventID, eventType string, intent payment.Intent) (body []byte, header string) {
	t.Helper()
	event := payment.Event{ID: eventID, Type: eventType}
	event.Data.Object = intent
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body, payment.SignPayload(time.Now().Unix(), body, testWebhookSecret)
}

func succeededIntent(paymentRef string) payment.Intent {
	return payment.Intent{
		ID:       paymentRef,
		Amount:   150,
		Currency: "TRY",
		Status:   "succeeded",
		Metadata: map[string]string{
			payment.MetaRegistryID:      "3",
			payment.MetaGiftItemID:      "9",
			payment.MetaContributorName: "Ayşe",
			payment.MetaMessage:         "Mutlu yıllar",
		},
	}
}

func TestProcessEventRecordsContribution(t *testing.T) {
	f := newWebhookFixture()
	body, header := signedEvent(t, "evt_1", payment.EventPaymentSucceeded, succeededIntent("pi_1"))

	outcome, err := f.service.ProcessEvent(context.Background(), body, header)

	require.NoError(t, err)
	assert.Equal(t, WebhookOutcomeProcessed, outcome)
	require.Len(t, f.contributions.recorded, 1)

	input := f.contributions.recorded[0]
	assert.Equal(t, uint(3), input.RegistryID)
	assert.Equal(t, uint(9), input.GiftItemID)
	assert.InDelta(t, 150.0, input.Amount, 1e-9)
	assert.Equal(t, "Ayşe", input.ContributorName)
	require.NotNil(t, input.PaymentRef)
	assert.Equal(t, "pi_1", *input.PaymentRef)

	// Olay işlendi olarak işaretlenmeli ve bildirim tetiklenmeli.
	record, err := f.eventRepo.FindByProviderEventID(context.Background(), payment.ProviderName, "evt_1")
	require.NoError(t, err)
	assert.NotNil(t, record.ProcessedAt)
	assert.Equal(t, 1, f.notifications.notified)
}

func TestProcessEventDuplicateDelivery(t *testing.T) {
	f := newWebhookFixture()
	body, header := signedEvent(t, "evt_1", payment.EventPaymentSucceeded, succeededIntent("pi_1"))

	outcome, err := f.service.ProcessEvent(context.Background(), body, header)
	require.NoError(t, err)
	require.Equal(t, WebhookOutcomeProcessed, outcome)

	// Aynı olay ikinci kez teslim edilir: yeni katkı yazılmaz.
	outcome, err = f.service.ProcessEvent(context.Background(), body, header)
	require.NoError(t, err)
	assert.Equal(t, WebhookOutcomeDuplicate, outcome)
	assert.Len(t, f.contributions.recorded, 1)
	assert.Equal(t, 1, f.notifications.notified)
}

func TestProcessEventSamePaymentRefDifferentEventID(t *testing.T) {
	f := newWebhookFixture()
	f.contribRepo.existingRefs["pi_1"] = true

	body, header := signedEvent(t, "evt_2", payment.EventPaymentSucceeded, succeededIntent("pi_1"))
	outcome, err := f.service.ProcessEvent(context.Background(), body, header)

	require.NoError(t, err)
	assert.Equal(t, WebhookOutcomeDuplicate, outcome)
	assert.Empty(t, f.contributions.recorded)
}

func TestProcessEventInvalidSignature(t *testing.T) {
	f := newWebhookFixture()
	body, _ := signedEvent(t, "evt_1", payment.EventPaymentSucceeded, succeededIntent("pi_1"))
	badHeader := payment.SignPayload(time.Now().Unix(), body, "yanlis-secret")

	_, err := f.service.ProcessEvent(context.Background(), body, badHeader)

	assert.ErrorIs(t, err, ErrWebhookUnauthorized)
	// İmza hatası hiçbir yan etki bırakmaz.
	assert.Empty(t, f.eventRepo.events)
	assert.Empty(t, f.contributions.recorded)
	assert.Zero(t, f.notifications.notified)
}

func TestProcessEventIgnoredType(t *testing.T) {
	f := newWebhookFixture()
	body, header := signedEvent(t, "evt_1", payment.EventPaymentFailed, succeededIntent("pi_1"))

	outcome, err := f.service.ProcessEvent(context.Background(), body, header)

	require.NoError(t, err)
	assert.Equal(t, WebhookOutcomeIgnored, outcome)
	// Yok sayılan olay için satır yazılmaz.
	assert.Empty(t, f.eventRepo.events)
	assert.Empty(t, f.contributions.recorded)
}

func TestProcessEventBadPayload(t *testing.T) {
	f := newWebhookFixture()
	body := []byte(`{"type":"payment_intent.succeeded"}`) // ID eksik
	header := payment.SignPayload(time.Now().Unix(), body, testWebhookSecret)

	_, err := f.service.ProcessEvent(context.Background(), body, header)
	assert.ErrorIs(t, err, ErrWebhookBadPayload)
}

func TestProcessEventMissingMetadata(t *testing.T) {
	f := newWebhookFixture()
	intent := succeededIntent("pi_1")
	delete(intent.Metadata, payment.MetaRegistryID)
	body, header := signedEvent(t, "evt_1", payment.EventPaymentSucceeded, intent)

	_, err := f.service.ProcessEvent(context.Background(), body, header)

	assert.ErrorIs(t, err, ErrWebhookBadPayload)
	// Olay kaydı hata mesajıyla işaretlenmiş olmalı.
	record, findErr := f.eventRepo.FindByProviderEventID(context.Background(), payment.ProviderName, "evt_1")
	require.NoError(t, findErr)
	assert.Nil(t, record.ProcessedAt)
	assert.NotEmpty(t, f.eventRepo.failed[record.ID])
}

func TestProcessEventContributionFailureRetriable(t *testing.T) {
	f := newWebhookFixture()
	f.contributions.recordErr = errors.New("db down")
	body, header := signedEvent(t, "evt_1", payment.EventPaymentSucceeded, succeededIntent("pi_1"))

	_, err := f.service.ProcessEvent(context.Background(), body, header)
	assert.ErrorIs(t, err, ErrWebhookProcessingFailed)

	// Olay işlenmemiş kalır; yeniden teslimde tekrar denenir.
	record, findErr := f.eventRepo.FindByProviderEventID(context.Background(), payment.ProviderName, "evt_1")
	require.NoError(t, findErr)
	assert.Nil(t, record.ProcessedAt)

	f.contributions.recordErr = nil
	outcome, err := f.service.ProcessEvent(context.Background(), body, header)
	require.NoError(t, err)
	assert.Equal(t, WebhookOutcomeProcessed, outcome)
	assert.Len(t, f.contributions.recorded, 1)
}

func TestProcessEventNotificationFailureNonFatal(t *testing.T) {
	f := newWebhookFixture()
	f.notifications.notifyErr = errors.New("mail sağlayıcısı kapalı")
	body, header := signedEvent(t, "evt_1", payment.EventPaymentSucceeded, succeededIntent("pi_1"))

	outcome, err := f.service.ProcessEvent(context.Background(), body, header)

	require.NoError(t, err)
	assert.Equal(t, WebhookOutcomeProcessed, outcome)
	assert.Len(t, f.contributions.recorded, 1)
}

func TestProcessEventConcurrentCreateTreatedAsDuplicate(t *testing.T) {
	f := newWebhookFixture()
	f.eventRepo.createErr = gorm.ErrDuplicatedKey
	body, header := signedEvent(t, "evt_1", payment.EventPaymentSucceeded, succeededIntent("pi_1"))

	outcome, err := f.service.ProcessEvent(context.Background(), body, header)

	require.NoError(t, err)
	assert.Equal(t, WebhookOutcomeDuplicate, outcome)
	assert.Empty(t, f.contributions.recorded)
}

func TestProcessEventTransientCreateFailureReturnsError(t *testing.T) {
	f := newWebhookFixture()
	f.eventRepo.createErr = errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
	body, header := signedEvent(t, "evt_1", payment.EventPaymentSucceeded, succeededIntent("pi_1"))

	_, err := f.service.ProcessEvent(context.Background(), body, header)

	// Geçici hata onaylanmamalı ki sağlayıcı olayı yeniden teslim etsin.
	require.ErrorIs(t, err, ErrWebhookProcessingFailed)
	assert.Empty(t, f.contributions.recorded)

	f.eventRepo.createErr = nil
	outcome, err := f.service.ProcessEvent(context.Background(), body, header)
	require.NoError(t, err)
	assert.Equal(t, WebhookOutcomeProcessed, outcome)
	assert.Len(t, f.contributions.recorded, 1)
}
