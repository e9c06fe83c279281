package services

import (
	"context"
	"fmt"
	"testing"

	"hediye.link/models"
	"hediye.link/pkg/queryparams"
	"hediye.link/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGiftItemRepo bellek içi hediye deposu.
type fakeGiftItemRepo struct {
	repositories.IGiftItemRepository
	items map[uint]*models.GiftItem
}

func (f *fakeGiftItemRepo) FindByID(_ context.Context, id uint) (*models.GiftItem, error) {
	if item, ok := f.items[id]; ok {
		return item, nil
	}
	return nil, repositories.ErrNotFound
}

// fakeRegistryRepo bellek içi liste deposu.
type fakeRegistryRepo struct {
	repositories.IRegistryRepository
	registries map[uint]*models.Registry
}

func (f *fakeRegistryRepo) FindByID(_ context.Context, id uint) (*models.Registry, error) {
	if registry, ok := f.registries[id]; ok {
		return registry, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeRegistryRepo) FindAllForUser(_ context.Context, userID uint) ([]models.Registry, error) {
	var out []models.Registry
	for _, registry := range f.registries {
		if registry.OwnerUserID == userID {
			out = append(out, *registry)
		}
	}
	return out, nil
}

func (f *fakeRegistryRepo) CountByOwner(_ context.Context, ownerUserID uint) (int64, error) {
	var n int64
	for _, registry := range f.registries {
		if registry.OwnerUserID == ownerUserID {
			n++
		}
	}
	return n, nil
}

// fakeContributionWriteRepo Create çağrılarını toplar.
type fakeContributionWriteRepo struct {
	repositories.IContributionRepository
	created []models.Contribution
}

func (f *fakeContributionWriteRepo) Create(_ context.Context, c *models.Contribution) error {
	c.ID = uint(len(f.created) + 1)
	f.created = append(f.created, *c)
	return nil
}

func (f *fakeContributionWriteRepo) FindByRegistryIDs(_ context.Context, registryIDs []uint) ([]models.Contribution, error) {
	ids := make(map[uint]struct{}, len(registryIDs))
	for _, id := range registryIDs {
		ids[id] = struct{}{}
	}
	var out []models.Contribution
	for _, c := range f.created {
		if _, ok := ids[c.RegistryID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeUserRepo bellek içi kullanıcı deposu.
type fakeUserRepo struct {
	repositories.IUserRepository
	users map[uint]*models.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, repositories.ErrNotFound
}

// fakeRegistryAccess CanEdit/GetRegistryByID için asgari servis.
type fakeRegistryAccess struct {
	IRegistryService
	registries map[uint]*models.Registry
	editors    map[uint]bool
}

func (f *fakeRegistryAccess) GetRegistryByID(_ context.Context, id uint, _ uint) (*models.Registry, error) {
	if registry, ok := f.registries[id]; ok {
		return registry, nil
	}
	return nil, ErrRegistryNotFound
}

func (f *fakeRegistryAccess) CanEdit(_ context.Context, _ *models.Registry, userID uint) bool {
	return f.editors[userID]
}

type contributionFixture struct {
	service      *ContributionService
	contribRepo  *fakeContributionWriteRepo
	giftItemRepo *fakeGiftItemRepo
	registryRepo *fakeRegistryRepo
	userRepo     *fakeUserRepo
	access       *fakeRegistryAccess
}

func newContributionFixture() *contributionFixture {
	registry := &models.Registry{
		BaseModel:            models.BaseModel{ID: 3},
		OwnerUserID:          1,
		Title:                "Düğün Listesi",
		Currency:             "TRY",
		AllowAnonymous:       true,
		ShowContributorNames: true,
	}
	item := &models.GiftItem{
		BaseModel:  models.BaseModel{ID: 9},
		RegistryID: 3,
		Name:       "Kahve Makinesi",
		Price:      500,
		Quantity:   1,
	}

	f := &contributionFixture{
		contribRepo:  &fakeContributionWriteRepo{},
		giftItemRepo: &fakeGiftItemRepo{items: map[uint]*models.GiftItem{9: item}},
		registryRepo: &fakeRegistryRepo{registries: map[uint]*models.Registry{3: registry}},
		userRepo: &fakeUserRepo{users: map[uint]*models.User{
			5: {BaseModel: models.BaseModel{ID: 5}, FullName: "Mehmet Yılmaz", Email: "mehmet@example.com"},
		}},
		access: &fakeRegistryAccess{
			registries: map[uint]*models.Registry{3: registry},
			editors:    map[uint]bool{1: true},
		},
	}
	f.service = &ContributionService{
		repo:            f.contribRepo,
		giftItemRepo:    f.giftItemRepo,
		registryRepo:    f.registryRepo,
		userRepo:        f.userRepo,
		registryService: f.access,
	}
	return f
}

func (f *contributionFixture) registry() *models.Registry { return f.registryRepo.registries[3] }

func TestRecordContribution(t *testing.T) {
	f := newContributionFixture()

	got, err := f.service.RecordContribution(context.Background(), ContributionInput{
		GiftItemID:      9,
		RegistryID:      3,
		Amount:          150,
		Message:         "  Mutlu yıllar  ",
		ContributorName: "Ayşe",
	})

	require.NoError(t, err)
	assert.Equal(t, models.ContributionStatusCompleted, got.Status)
	assert.Equal(t, "Mutlu yıllar", got.Message)
	assert.Equal(t, "Ayşe", got.ContributorName)
	assert.Nil(t, got.PaymentRef)
	require.Len(t, f.contribRepo.created, 1)
}

func TestRecordContributionReturnsContributorProfile(t *testing.T) {
	f := newContributionFixture()
	userID := uint(5)

	got, err := f.service.RecordContribution(context.Background(), ContributionInput{
		GiftItemID:        9,
		RegistryID:        3,
		Amount:            200,
		ContributorUserID: &userID,
	})

	require.NoError(t, err)
	// Yazma anında serbest metin isim boşaltılır; görünen ad profilden
	// gelmeli, liste görünümleriyle aynı olmalı.
	assert.Empty(t, got.ContributorName)
	require.NotNil(t, got.Contributor)
	assert.Equal(t, "Mehmet Yılmaz", got.DisplayName())
}

func TestRecordContributionValidation(t *testing.T) {
	f := newContributionFixture()

	tests := []struct {
		name    string
		input   ContributionInput
		wantErr error
	}{
		{
			name:    "hediye ID eksik",
			input:   ContributionInput{RegistryID: 3, Amount: 10},
			wantErr: ErrContribInvalidInput,
		},
		{
			name:    "liste ID eksik",
			input:   ContributionInput{GiftItemID: 9, Amount: 10},
			wantErr: ErrContribInvalidInput,
		},
		{
			name:    "sıfır tutar",
			input:   ContributionInput{GiftItemID: 9, RegistryID: 3, Amount: 0},
			wantErr: ErrContribAmountInvalid,
		},
		{
			name:    "negatif tutar",
			input:   ContributionInput{GiftItemID: 9, RegistryID: 3, Amount: -5},
			wantErr: ErrContribAmountInvalid,
		},
		{
			name:    "hediye yok",
			input:   ContributionInput{GiftItemID: 77, RegistryID: 3, Amount: 10},
			wantErr: ErrContribItemNotFound,
		},
		{
			name:    "hediye başka listeye ait",
			input:   ContributionInput{GiftItemID: 9, RegistryID: 4, Amount: 10},
			wantErr: ErrContributionMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.RecordContribution(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.contribRepo.created)
}

func TestRecordContributionResolvesContributor(t *testing.T) {
	userID := uint(5)

	t.Run("oturumlu katkı profile bağlanır ve isim boşaltılır", func(t *testing.T) {
		f := newContributionFixture()
		got, err := f.service.RecordContribution(context.Background(), ContributionInput{
			GiftItemID:        9,
			RegistryID:        3,
			Amount:            50,
			ContributorName:   "Elle Yazılmış İsim",
			ContributorUserID: &userID,
		})

		require.NoError(t, err)
		require.NotNil(t, got.ContributorUserID)
		assert.Equal(t, userID, *got.ContributorUserID)
		assert.Empty(t, got.ContributorName)
		assert.False(t, got.IsAnonymous)
	})

	t.Run("oturumlu ama isimsiz katkı profil referansı taşımaz", func(t *testing.T) {
		f := newContributionFixture()
		got, err := f.service.RecordContribution(context.Background(), ContributionInput{
			GiftItemID:        9,
			RegistryID:        3,
			Amount:            50,
			IsAnonymous:       true,
			ContributorUserID: &userID,
		})

		require.NoError(t, err)
		assert.Nil(t, got.ContributorUserID)
		assert.True(t, got.IsAnonymous)
		assert.Equal(t, models.AnonymousDisplayName, got.ContributorName)
	})

	t.Run("oturumsuz isimsiz katkıya Anonymous yazılır", func(t *testing.T) {
		f := newContributionFixture()
		got, err := f.service.RecordContribution(context.Background(), ContributionInput{
			GiftItemID: 9,
			RegistryID: 3,
			Amount:     50,
		})

		require.NoError(t, err)
		assert.Equal(t, models.AnonymousDisplayName, got.ContributorName)
		assert.Equal(t, models.AnonymousDisplayName, got.DisplayName())
	})
}

func TestRecordContributionAnonymousForbidden(t *testing.T) {
	f := newContributionFixture()
	f.registry().AllowAnonymous = false

	_, err := f.service.RecordContribution(context.Background(), ContributionInput{
		GiftItemID:      9,
		RegistryID:      3,
		Amount:          50,
		ContributorName: "Ayşe",
	})
	assert.ErrorIs(t, err, ErrContribAnonymousForbidden)

	// Profilli katkı kabul edilir.
	userID := uint(5)
	_, err = f.service.RecordContribution(context.Background(), ContributionInput{
		GiftItemID:        9,
		RegistryID:        3,
		Amount:            50,
		ContributorUserID: &userID,
	})
	assert.NoError(t, err)
}

func TestRecordPaidContributionRequiresPaymentRef(t *testing.T) {
	f := newContributionFixture()

	_, err := f.service.RecordPaidContribution(context.Background(), ContributionInput{
		GiftItemID: 9,
		RegistryID: 3,
		Amount:     50,
	})
	assert.ErrorIs(t, err, ErrContribInvalidInput)

	ref := "pi_1"
	got, err := f.service.RecordPaidContribution(context.Background(), ContributionInput{
		GiftItemID: 9,
		RegistryID: 3,
		Amount:     50,
		PaymentRef: &ref,
	})
	require.NoError(t, err)
	require.NotNil(t, got.PaymentRef)
	assert.Equal(t, "pi_1", *got.PaymentRef)
}

func TestGetContributionsHidesNames(t *testing.T) {
	f := newContributionFixture()
	f.registry().ShowContributorNames = false

	contributions := []models.Contribution{
		{BaseModel: models.BaseModel{ID: 1}, GiftItemID: 9, RegistryID: 3, Amount: 50, ContributorName: "Ayşe"},
		{BaseModel: models.BaseModel{ID: 2}, GiftItemID: 9, RegistryID: 3, Amount: 25, ContributorName: "Mehmet"},
	}

	// Düzenleme yetkisi olmayan kullanıcı adları göremez.
	views := f.service.viewsFor(context.Background(), f.registry(), contributions, 99)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.Equal(t, models.AnonymousDisplayName, v.DisplayName)
	}

	// Liste sahibi adları görür.
	views = f.service.viewsFor(context.Background(), f.registry(), contributions, 1)
	assert.Equal(t, "Ayşe", views[0].DisplayName)
	assert.Equal(t, "Mehmet", views[1].DisplayName)
}

func TestGetAnalyticsForUserCoversAllRegistries(t *testing.T) {
	registryRepo := &fakeRegistryRepo{registries: map[uint]*models.Registry{}}
	contribRepo := &fakeContributionWriteRepo{}

	// En büyük sayfa boyutundan fazla liste; analitik hiçbirini düşürmemeli.
	count := queryparams.MaxPerPage + 20
	for i := 1; i <= count; i++ {
		id := uint(i)
		registryRepo.registries[id] = &models.Registry{
			BaseModel:   models.BaseModel{ID: id},
			OwnerUserID: 7,
			Title:       fmt.Sprintf("Liste %d", i),
			Currency:    "TRY",
			GiftItems: []models.GiftItem{
				{BaseModel: models.BaseModel{ID: id}, RegistryID: id, Price: 100, Quantity: 1},
			},
		}
		contribRepo.created = append(contribRepo.created, models.Contribution{
			BaseModel: models.BaseModel{ID: id}, GiftItemID: id, RegistryID: id, Amount: 50,
		})
	}
	svc := &ContributionService{repo: contribRepo, registryRepo: registryRepo}

	analytics, err := svc.GetAnalyticsForUser(context.Background(), 7)

	require.NoError(t, err)
	assert.Len(t, analytics.Registries, count)
	assert.Equal(t, int64(count), analytics.OwnedRegistries)
	assert.InDelta(t, float64(count)*50, analytics.Overall.TotalAmount, 0.001)
	assert.InDelta(t, float64(count)*100, analytics.Overall.TotalTarget, 0.001)
}
