package request

import (
	"testing"
	"time"

	"elanis/database/repository/memory"
	"elanis/models"
	"elanis/services/availability"
	"elanis/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc       *DefaultRequestService
	requests  *memory.RequestRepo
	providers *memory.ProviderRepo
	users     *memory.UserRepo
	avail     *memory.AvailabilityRepo

	categoryID     string
	providerID     string
	providerUserID string
	clientID       string
	date           string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	requests := memory.NewRequestRepo()
	providers := memory.NewProviderRepo()
	users := memory.NewUserRepo()
	availRepo := memory.NewAvailabilityRepo()
	categories := memory.NewCategoryRepo()
	pricing := memory.NewPricingRepo()

	f := &fixture{
		requests:       requests,
		providers:      providers,
		users:          users,
		avail:          availRepo,
		categoryID:     uuid.New().String(),
		providerID:     uuid.New().String(),
		providerUserID: uuid.New().String(),
		clientID:       uuid.New().String(),
		date:           time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
	}

	categories.Seed(models.Category{ID: f.categoryID, Name: "Cleaning", IsActive: true})
	require.NoError(t, pricing.Create(&models.ServicePricing{
		ID:            uuid.New().String(),
		CategoryID:    f.categoryID,
		ShiftType:     models.ShiftThreeHours,
		PricePerShift: 250,
		IsActive:      true,
	}))
	require.NoError(t, users.Create(&models.User{
		ID:        f.providerUserID,
		Email:     "provider@example.com",
		FirstName: "Mona",
		LastName:  "Hassan",
		Role:      models.RoleProvider,
	}))
	require.NoError(t, providers.Create(&models.ServiceProviderProfile{
		ID:          f.providerID,
		UserID:      f.providerUserID,
		Status:      models.ProviderApproved,
		IsAvailable: true,
	}))
	require.NoError(t, availRepo.Create(&models.ProviderAvailability{
		ID:          uuid.New().String(),
		ProviderID:  f.providerID,
		Date:        f.date,
		IsAvailable: true,
	}))

	logger := zap.NewNop()
	availSvc := &availability.DefaultAvailabilityService{
		AvailRepo:    availRepo,
		ProviderRepo: providers,
		RequestRepo:  requests,
		Logger:       logger,
	}
	f.svc = &DefaultRequestService{
		RequestRepo:  requests,
		PricingRepo:  pricing,
		CategoryRepo: categories,
		ProviderRepo: providers,
		UserRepo:     users,
		Availability: availSvc,
		Logger:       logger,
	}
	return f
}

func (f *fixture) create(t *testing.T) *models.ServiceRequestView {
	t.Helper()
	view, err := f.svc.Create(f.clientID, models.CreateRequestInput{
		ProviderID:    f.providerID,
		CategoryID:    f.categoryID,
		ShiftType:     models.ShiftThreeHours,
		PreferredDate: f.date,
		Address:       "12 Tahrir St",
	})
	require.NoError(t, err)
	return view
}

func (f *fixture) accept(t *testing.T, id string) {
	t.Helper()
	_, err := f.svc.Respond(f.providerUserID, id, models.ProviderResponseInput{Accept: true})
	require.NoError(t, err)
}

func TestCreateSnapshotsActivePrice(t *testing.T) {
	f := newFixture(t)
	view := f.create(t)

	assert.Equal(t, models.RequestPending, view.Status)
	assert.Equal(t, 250.0, view.TotalPrice)
	assert.Equal(t, "Cleaning", view.CategoryName)
	assert.Equal(t, "Mona Hassan", view.ProviderName)
	assert.False(t, view.CanPay)
}

func TestCreateRejectsMissingPrice(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(f.clientID, models.CreateRequestInput{
		ProviderID:    f.providerID,
		CategoryID:    f.categoryID,
		ShiftType:     models.ShiftTwelveHours,
		PreferredDate: f.date,
		Address:       "12 Tahrir St",
	})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
}

func TestCreateRejectsDuplicatePendingRequest(t *testing.T) {
	f := newFixture(t)
	f.create(t)

	_, err := f.svc.Create(f.clientID, models.CreateRequestInput{
		ProviderID:    f.providerID,
		CategoryID:    f.categoryID,
		ShiftType:     models.ShiftThreeHours,
		PreferredDate: f.date,
		Address:       "12 Tahrir St",
	})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
}

func TestAcceptMarksDateBooked(t *testing.T) {
	f := newFixture(t)
	view := f.create(t)
	f.accept(t, view.ID)

	got, err := f.requests.GetByID(view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, got.Status)
	require.NotNil(t, got.AcceptedAt)

	// A second client now finds the date taken.
	_, err = f.svc.Create(uuid.New().String(), models.CreateRequestInput{
		ProviderID:    f.providerID,
		CategoryID:    f.categoryID,
		ShiftType:     models.ShiftThreeHours,
		PreferredDate: f.date,
		Address:       "90 Nile Corniche",
	})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
}

func TestRejectRecordsReason(t *testing.T) {
	f := newFixture(t)
	view, err := f.svc.Create(f.clientID, models.CreateRequestInput{
		ProviderID:    f.providerID,
		CategoryID:    f.categoryID,
		ShiftType:     models.ShiftThreeHours,
		PreferredDate: f.date,
		Address:       "12 Tahrir St",
		Description:   "deep clean, two bedrooms",
	})
	require.NoError(t, err)

	_, err = f.svc.Respond(f.providerUserID, view.ID, models.ProviderResponseInput{
		Accept: false,
		Reason: "fully booked that week",
	})
	require.NoError(t, err)

	got, err := f.requests.GetByID(view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, got.Status)
	// The note lands on its own line under the original description.
	assert.Equal(t, "deep clean, two bedrooms\nRejection reason: fully booked that week", got.Description)
}

func TestRequestNeedsOpenCalendarDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.clientID, models.CreateRequestInput{
		ProviderID:    f.providerID,
		CategoryID:    f.categoryID,
		ShiftType:     models.ShiftThreeHours,
		PreferredDate: time.Now().AddDate(0, 0, 8).Format("2006-01-02"),
		Address:       "12 Tahrir St",
	})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
	assert.Equal(t, "provider has not opened this date", svcErr.Message)
}

func TestRespondOnlyOnce(t *testing.T) {
	f := newFixture(t)
	view := f.create(t)
	f.accept(t, view.ID)

	_, err := f.svc.Respond(f.providerUserID, view.ID, models.ProviderResponseInput{Accept: false})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
}

func TestRespondRequiresAddressedProvider(t *testing.T) {
	f := newFixture(t)
	view := f.create(t)

	otherUser := uuid.New().String()
	require.NoError(t, f.users.Create(&models.User{ID: otherUser, Email: "other@example.com", Role: models.RoleProvider}))
	require.NoError(t, f.providers.Create(&models.ServiceProviderProfile{
		ID:          uuid.New().String(),
		UserID:      otherUser,
		Status:      models.ProviderApproved,
		IsAvailable: true,
	}))

	_, err := f.svc.Respond(otherUser, view.ID, models.ProviderResponseInput{Accept: true})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindForbidden, svcErr.Kind)
}

func TestCompleteCreditsProviderAggregates(t *testing.T) {
	f := newFixture(t)
	view := f.create(t)
	f.accept(t, view.ID)

	// Walk through payment out of band.
	require.NoError(t, f.requests.UpdateStatusIfCurrent(view.ID, models.RequestAccepted, models.RequestPaymentPending, time.Now()))
	require.NoError(t, f.requests.UpdateStatusIfCurrent(view.ID, models.RequestPaymentPending, models.RequestPaid, time.Now()))

	_, err := f.svc.Start(f.providerUserID, view.ID)
	require.NoError(t, err)
	done, err := f.svc.Complete(f.providerUserID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	profile, err := f.providers.GetByID(f.providerID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.CompletedJobs)
	assert.Equal(t, 250.0, profile.TotalEarnings)
}

func TestCancelAuthority(t *testing.T) {
	f := newFixture(t)
	view := f.create(t)

	stranger := &utils.TokenClaims{UserID: uuid.New().String(), Role: models.RoleUser}
	_, err := f.svc.Cancel(stranger, view.ID)
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindForbidden, svcErr.Kind)

	owner := &utils.TokenClaims{UserID: f.clientID, Role: models.RoleUser}
	cancelled, err := f.svc.Cancel(owner, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestCancelled, cancelled.Status)

	// Terminal now; even an admin cannot cancel again.
	admin := &utils.TokenClaims{UserID: uuid.New().String(), Role: models.RoleAdmin}
	_, err = f.svc.Cancel(admin, view.ID)
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
}

func TestCapabilityFlagsFollowStatus(t *testing.T) {
	f := newFixture(t)
	view := f.create(t)
	f.accept(t, view.ID)

	views, err := f.svc.ListForUser(f.clientID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].CanPay)
	assert.False(t, views[0].CanStart)

	require.NoError(t, f.requests.UpdateStatusIfCurrent(view.ID, models.RequestAccepted, models.RequestPaymentPending, time.Now()))
	require.NoError(t, f.requests.UpdateStatusIfCurrent(view.ID, models.RequestPaymentPending, models.RequestPaid, time.Now()))

	views, err = f.svc.ListForProvider(f.providerUserID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].CanPay)
	assert.True(t, views[0].CanStart)
}
