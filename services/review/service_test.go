package review

import (
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

type fixture struct {
	svc        *DefaultReviewService
	requests   *memory.RequestRepo
	providers  *memory.ProviderRepo
	providerID string
	clientID   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		requests:   memory.NewRequestRepo(),
		providers:  memory.NewProviderRepo(),
		providerID: uuid.New().String(),
		clientID:   uuid.New().String(),
	}
	users := memory.NewUserRepo()
	providerUserID := uuid.New().String()
	require.NoError(t, users.Create(&models.User{
		ID:        providerUserID,
		Email:     "provider@example.com",
		FirstName: "Mona",
		LastName:  "Hassan",
		Role:      models.RoleProvider,
	}))
	require.NoError(t, f.providers.Create(&models.ServiceProviderProfile{
		ID:          f.providerID,
		UserID:      providerUserID,
		Status:      models.ProviderApproved,
		IsAvailable: true,
	}))
	f.svc = &DefaultReviewService{
		ReviewRepo:   memory.NewReviewRepo(),
		RequestRepo:  f.requests,
		ProviderRepo: f.providers,
		UserRepo:     users,
		Logger:       zap.NewNop(),
	}
	return f
}

func (f *fixture) seedRequest(t *testing.T, status models.RequestStatus) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, f.requests.Create(&models.ServiceRequest{
		ID:            id,
		UserID:        f.clientID,
		ProviderID:    f.providerID,
		PreferredDate: "2026-09-10",
		Status:        status,
		CreatedAt:     time.Now(),
	}))
	return id
}

func TestReviewOnlyCompletedRequests(t *testing.T) {
	f := newFixture(t)
	for _, status := range []models.RequestStatus{
		models.RequestPending, models.RequestAccepted, models.RequestPaid,
		models.RequestInProgress, models.RequestCancelled,
	} {
		id := f.seedRequest(t, status)
		_, err := f.svc.Create(f.clientID, models.CreateReviewInput{ServiceRequestID: id, Rating: 5})
		var svcErr *utils.Error
		require.ErrorAs(t, err, &svcErr, "status %s", status)
		assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
	}
}

func TestReviewOnlyByRequester(t *testing.T) {
	f := newFixture(t)
	id := f.seedRequest(t, models.RequestCompleted)

	_, err := f.svc.Create(uuid.New().String(), models.CreateReviewInput{ServiceRequestID: id, Rating: 4})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindForbidden, svcErr.Kind)
}

func TestOneReviewPerRequest(t *testing.T) {
	f := newFixture(t)
	id := f.seedRequest(t, models.RequestCompleted)

	_, err := f.svc.Create(f.clientID, models.CreateReviewInput{ServiceRequestID: id, Rating: 5})
	require.NoError(t, err)

	_, err = f.svc.Create(f.clientID, models.CreateReviewInput{ServiceRequestID: id, Rating: 1})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
}

func TestReviewUpdatesAggregates(t *testing.T) {
	f := newFixture(t)

	first := f.seedRequest(t, models.RequestCompleted)
	_, err := f.svc.Create(f.clientID, models.CreateReviewInput{ServiceRequestID: first, Rating: 5, Comment: "spotless"})
	require.NoError(t, err)

	second := f.seedRequest(t, models.RequestCompleted)
	_, err = f.svc.Create(f.clientID, models.CreateReviewInput{ServiceRequestID: second, Rating: 2})
	require.NoError(t, err)

	profile, err := f.providers.GetByID(f.providerID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, profile.TotalReviews)
	assert.InDelta(t, 3.5, profile.AverageRating, 0.001)

	out, err := f.svc.GetForProvider(f.providerID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, out.TotalReviews)
	assert.InDelta(t, 3.5, out.AverageRating, 0.001)
	assert.Len(t, out.Reviews, 2)
	assert.Equal(t, "Mona Hassan", out.ProviderName)
}

func TestRatingBounds(t *testing.T) {
	f := newFixture(t)
	id := f.seedRequest(t, models.RequestCompleted)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.Create(f.clientID, models.CreateReviewInput{ServiceRequestID: id, Rating: rating})
		var svcErr *utils.Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
	}
}
