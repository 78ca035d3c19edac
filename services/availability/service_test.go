package availability

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

func newService(t *testing.T) (*DefaultAvailabilityService, *memory.ProviderRepo, *memory.RequestRepo, string) {
	t.Helper()
	providers := memory.NewProviderRepo()
	requests := memory.NewRequestRepo()
	svc := &DefaultAvailabilityService{
		AvailRepo:    memory.NewAvailabilityRepo(),
		ProviderRepo: providers,
		RequestRepo:  requests,
		Logger:       zap.NewNop(),
	}
	providerID := uuid.New().String()
	require.NoError(t, providers.Create(&models.ServiceProviderProfile{
		ID:          providerID,
		UserID:      uuid.New().String(),
		Status:      models.ProviderApproved,
		IsAvailable: true,
	}))
	return svc, providers, requests, providerID
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestUndeclaredDateIsUnavailable(t *testing.T) {
	svc, _, _, providerID := newService(t)

	// No calendar entry for the date: the provider never opened it.
	ok, reason, err := svc.IsAvailable(providerID, futureDate(3), models.ShiftThreeHours)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "provider has not opened this date", reason)
}

func TestDeclaredOpenDateIsAvailable(t *testing.T) {
	svc, _, _, providerID := newService(t)
	date := futureDate(3)
	_, err := svc.AddEntry(providerID, models.AddAvailabilityInput{Date: date, IsAvailable: true})
	require.NoError(t, err)

	ok, reason, err := svc.IsAvailable(providerID, date, models.ShiftThreeHours)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestSuspendedProviderIsUnavailable(t *testing.T) {
	svc, providers, _, providerID := newService(t)
	require.NoError(t, providers.SetStatus(providerID, models.ProviderSuspended, "docs expired", false))

	ok, reason, err := svc.IsAvailable(providerID, futureDate(3), models.ShiftThreeHours)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "provider is not active", reason)
}

func TestCalendarEntryBlocksDate(t *testing.T) {
	svc, _, _, providerID := newService(t)
	date := futureDate(3)
	_, err := svc.AddEntry(providerID, models.AddAvailabilityInput{Date: date, IsAvailable: false})
	require.NoError(t, err)

	ok, reason, err := svc.IsAvailable(providerID, date, models.ShiftThreeHours)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "provider is unavailable on this date", reason)
}

func TestShiftRestrictionApplies(t *testing.T) {
	svc, _, _, providerID := newService(t)
	date := futureDate(3)
	shift := models.ShiftThreeHours
	_, err := svc.AddEntry(providerID, models.AddAvailabilityInput{
		Date:           date,
		IsAvailable:    true,
		AvailableShift: &shift,
	})
	require.NoError(t, err)

	ok, _, err := svc.IsAvailable(providerID, date, models.ShiftThreeHours)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, reason, err := svc.IsAvailable(providerID, date, models.ShiftTwelveHours)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "provider is unavailable for this shift", reason)
}

func TestActiveBookingBlocksDate(t *testing.T) {
	svc, _, requests, providerID := newService(t)
	date := futureDate(3)
	_, err := svc.AddEntry(providerID, models.AddAvailabilityInput{Date: date, IsAvailable: true})
	require.NoError(t, err)
	require.NoError(t, requests.Create(&models.ServiceRequest{
		ID:            uuid.New().String(),
		UserID:        uuid.New().String(),
		ProviderID:    providerID,
		PreferredDate: date,
		Status:        models.RequestPaid,
		CreatedAt:     time.Now(),
	}))

	ok, reason, err := svc.IsAvailable(providerID, date, models.ShiftThreeHours)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "provider is already booked on this date", reason)

	// The block covers the whole day, not just the booked shift.
	ok, reason, err = svc.IsAvailable(providerID, date, models.ShiftTwelveHours)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "provider is already booked on this date", reason)
}

func TestTerminalBookingDoesNotBlock(t *testing.T) {
	svc, _, requests, providerID := newService(t)
	date := futureDate(3)
	_, err := svc.AddEntry(providerID, models.AddAvailabilityInput{Date: date, IsAvailable: true})
	require.NoError(t, err)
	require.NoError(t, requests.Create(&models.ServiceRequest{
		ID:            uuid.New().String(),
		UserID:        uuid.New().String(),
		ProviderID:    providerID,
		PreferredDate: date,
		Status:        models.RequestCancelled,
		CreatedAt:     time.Now(),
	}))

	ok, _, err := svc.IsAvailable(providerID, date, models.ShiftThreeHours)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDuplicateEntryRejected(t *testing.T) {
	svc, _, _, providerID := newService(t)
	date := futureDate(3)
	_, err := svc.AddEntry(providerID, models.AddAvailabilityInput{Date: date, IsAvailable: true})
	require.NoError(t, err)

	_, err = svc.AddEntry(providerID, models.AddAvailabilityInput{Date: date, IsAvailable: false})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
}

func TestCalendarMergesBookings(t *testing.T) {
	svc, _, requests, providerID := newService(t)
	declared := futureDate(2)
	booked := futureDate(4)

	_, err := svc.AddEntry(providerID, models.AddAvailabilityInput{Date: declared, IsAvailable: true})
	require.NoError(t, err)
	require.NoError(t, requests.Create(&models.ServiceRequest{
		ID:            uuid.New().String(),
		UserID:        uuid.New().String(),
		ProviderID:    providerID,
		PreferredDate: booked,
		Status:        models.RequestAccepted,
		CreatedAt:     time.Now(),
	}))

	days, err := svc.GetCalendar(providerID, futureDate(1), futureDate(7))
	require.NoError(t, err)
	require.Len(t, days, 2)

	byDate := map[string]CalendarDay{}
	for _, d := range days {
		byDate[d.Date] = d
	}
	assert.True(t, byDate[declared].IsAvailable)
	assert.False(t, byDate[declared].IsBooked)
	assert.True(t, byDate[booked].IsBooked)
}
