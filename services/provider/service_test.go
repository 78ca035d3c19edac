package provider

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

func newService() (*DefaultProviderService, *memory.ApplicationRepo) {
	apps := memory.NewApplicationRepo()
	svc := &DefaultProviderService{
		ApplicationRepo: apps,
		ProviderRepo:    memory.NewProviderRepo(),
		Logger:          zap.NewNop(),
	}
	return svc, apps
}

func validInput() models.ApplyInput {
	return models.ApplyInput{
		FirstName:   "Omar",
		LastName:    "Said",
		PhoneNumber: "01000000000",
		NationalID:  "29801010100123",
		HourlyRate:  80,
		CategoryIDs: []string{uuid.New().String()},
	}
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	svc, _ := newService()
	userID := uuid.New().String()

	app, err := svc.Apply(userID, validInput())
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, userID, app.UserID)

	got, err := svc.MyApplication(userID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)
}

func TestApplyBlockedWhilePendingOrApproved(t *testing.T) {
	svc, apps := newService()
	userID := uuid.New().String()

	_, err := svc.Apply(userID, validInput())
	require.NoError(t, err)

	_, err = svc.Apply(userID, validInput())
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)

	latest, err := apps.GetLatestByUser(userID)
	require.NoError(t, err)
	require.NoError(t, apps.MarkReviewed(latest.ID, models.ApplicationApproved, uuid.New().String(), "", time.Now()))

	_, err = svc.Apply(userID, validInput())
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
}

func TestReapplyAfterRejection(t *testing.T) {
	svc, apps := newService()
	userID := uuid.New().String()

	first, err := svc.Apply(userID, validInput())
	require.NoError(t, err)
	require.NoError(t, apps.MarkReviewed(first.ID, models.ApplicationRejected, uuid.New().String(), "incomplete", time.Now()))

	second, err := svc.Apply(userID, validInput())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.ApplicationPending, second.Status)
}

func TestApplyValidation(t *testing.T) {
	svc, _ := newService()
	userID := uuid.New().String()

	in := validInput()
	in.CategoryIDs = nil
	_, err := svc.Apply(userID, in)
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)

	in = validInput()
	in.HourlyRate = 0
	_, err = svc.Apply(userID, in)
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
}
