package admin

import (
	"errors"
	"testing"
	"time"

	"elanis/database/repository/memory"
	"elanis/models"
	"elanis/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMailer struct {
	sent []models.ApplicationStatus
	fail bool
}

func (m *fakeMailer) SendApplicationDecision(to, firstName string, decision models.ApplicationStatus, reason string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, decision)
	return nil
}

type fixture struct {
	svc        *DefaultAdminService
	users      *memory.UserRepo
	providers  *memory.ProviderRepo
	categories *memory.CategoryRepo
	mailer     *fakeMailer

	adminID    string
	applicant  string
	categoryID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:      memory.NewUserRepo(),
		providers:  memory.NewProviderRepo(),
		categories: memory.NewCategoryRepo(),
		mailer:     &fakeMailer{},
		adminID:    uuid.New().String(),
		applicant:  uuid.New().String(),
		categoryID: uuid.New().String(),
	}
	require.NoError(t, f.users.Create(&models.User{
		ID:        f.applicant,
		Email:     "applicant@example.com",
		FirstName: "Omar",
		LastName:  "Said",
		Role:      models.RoleUser,
	}))
	f.categories.Seed(models.Category{ID: f.categoryID, Name: "Plumbing", IsActive: true})

	f.svc = &DefaultAdminService{
		ApplicationRepo: memory.NewApplicationRepo(),
		ProviderRepo:    f.providers,
		UserRepo:        f.users,
		CategoryRepo:    f.categories,
		RequestRepo:     memory.NewRequestRepo(),
		ReviewRepo:      memory.NewReviewRepo(),
		Mailer:          f.mailer,
		Logger:          zap.NewNop(),
	}
	return f
}

func (f *fixture) seedApplication(t *testing.T) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, f.svc.ApplicationRepo.Create(&models.ServiceProviderApplication{
		ID:          id,
		UserID:      f.applicant,
		FirstName:   "Omar",
		LastName:    "Said",
		PhoneNumber: "01000000000",
		NationalID:  "29801010100123",
		HourlyRate:  80,
		CategoryIDs: []string{f.categoryID, "missing-category"},
		Status:      models.ApplicationPending,
		CreatedAt:   time.Now(),
	}))
	return id
}

func TestApproveCreatesProfileAndUpgradesRole(t *testing.T) {
	f := newFixture(t)
	appID := f.seedApplication(t)

	result, err := f.svc.Approve(f.adminID, appID)
	require.NoError(t, err)
	require.NotNil(t, result.Profile)
	assert.Equal(t, models.ProviderApproved, result.Profile.Status)
	assert.True(t, result.Profile.IsAvailable)
	assert.True(t, result.CategoriesLinked)
	assert.True(t, result.EmailSent)

	// Only the existing active category is linked.
	profile, err := f.providers.GetByUserID(f.applicant)
	require.NoError(t, err)
	assert.Equal(t, []string{f.categoryID}, profile.CategoryIDs)

	user, err := f.users.GetByID(f.applicant)
	require.NoError(t, err)
	assert.Equal(t, models.RoleProvider, user.Role)

	app, err := f.svc.GetApplication(appID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApproved, app.Status)
	assert.Equal(t, f.adminID, app.ReviewedByID)
}

func TestDoubleReviewConflicts(t *testing.T) {
	f := newFixture(t)
	appID := f.seedApplication(t)

	_, err := f.svc.Approve(f.adminID, appID)
	require.NoError(t, err)

	_, err = f.svc.Approve(uuid.New().String(), appID)
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)

	_, err = f.svc.Reject(uuid.New().String(), appID, "late")
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)

	// Exactly one profile exists.
	count, err := f.providers.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestApproveSucceedsWhenEmailFails(t *testing.T) {
	f := newFixture(t)
	f.mailer.fail = true
	appID := f.seedApplication(t)

	result, err := f.svc.Approve(f.adminID, appID)
	require.NoError(t, err)
	assert.False(t, result.EmailSent)

	app, err := f.svc.GetApplication(appID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApproved, app.Status)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	appID := f.seedApplication(t)

	_, err := f.svc.Reject(f.adminID, appID, "")
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)

	result, err := f.svc.Reject(f.adminID, appID, "incomplete documents")
	require.NoError(t, err)
	assert.Nil(t, result.Profile)

	app, err := f.svc.GetApplication(appID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, app.Status)
	assert.Equal(t, "incomplete documents", app.RejectionReason)

	// No profile and no role change on rejection.
	_, err = f.providers.GetByUserID(f.applicant)
	require.Error(t, err)
	user, err := f.users.GetByID(f.applicant)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestSuspendAndActivate(t *testing.T) {
	f := newFixture(t)
	appID := f.seedApplication(t)
	result, err := f.svc.Approve(f.adminID, appID)
	require.NoError(t, err)
	providerID := result.Profile.ID

	require.NoError(t, f.svc.Suspend(providerID, "repeated no-shows"))
	profile, err := f.providers.GetByID(providerID)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderSuspended, profile.Status)
	assert.False(t, profile.IsAvailable)
	assert.Equal(t, "repeated no-shows", profile.SuspendReason)

	require.NoError(t, f.svc.Activate(providerID))
	profile, err = f.providers.GetByID(providerID)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderApproved, profile.Status)
	assert.True(t, profile.IsAvailable)
	assert.Empty(t, profile.SuspendReason)
}

func TestDashboardCounters(t *testing.T) {
	f := newFixture(t)
	appID := f.seedApplication(t)
	_, err := f.svc.Approve(f.adminID, appID)
	require.NoError(t, err)

	stats, err := f.svc.Dashboard()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.TotalProviders)
	assert.EqualValues(t, 0, stats.PendingApplications)
}
