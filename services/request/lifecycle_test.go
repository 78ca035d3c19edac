package request

import (
	"testing"

	"elanis/models"
	"elanis/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextAllowedTransitions(t *testing.T) {
	cases := []struct {
		from  models.RequestStatus
		event Event
		to    models.RequestStatus
	}{
		{models.RequestPending, EventAccept, models.RequestAccepted},
		{models.RequestPending, EventReject, models.RequestRejected},
		{models.RequestPending, EventCancel, models.RequestCancelled},
		{models.RequestAccepted, EventCheckoutStarted, models.RequestPaymentPending},
		{models.RequestAccepted, EventCancel, models.RequestCancelled},
		{models.RequestPaymentPending, EventPaymentSuccess, models.RequestPaid},
		{models.RequestPaymentPending, EventCheckoutExpired, models.RequestAccepted},
		{models.RequestPaid, EventStart, models.RequestInProgress},
		{models.RequestInProgress, EventComplete, models.RequestCompleted},
	}
	for _, tc := range cases {
		next, err := Next(tc.from, tc.event)
		require.NoError(t, err, "%s + %s", tc.from, tc.event)
		assert.Equal(t, tc.to, next)
	}
}

func TestNextRejectsDisallowedPairs(t *testing.T) {
	cases := []struct {
		from  models.RequestStatus
		event Event
	}{
		{models.RequestPending, EventStart},
		{models.RequestPending, EventComplete},
		{models.RequestPending, EventPaymentSuccess},
		{models.RequestAccepted, EventAccept},
		{models.RequestAccepted, EventStart},
		{models.RequestPaymentPending, EventCancel},
		{models.RequestPaid, EventCancel},
		{models.RequestPaid, EventComplete},
		{models.RequestInProgress, EventCancel},
	}
	for _, tc := range cases {
		_, err := Next(tc.from, tc.event)
		require.Error(t, err, "%s + %s should be rejected", tc.from, tc.event)
		var svcErr *utils.Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	terminals := []models.RequestStatus{
		models.RequestRejected,
		models.RequestCompleted,
		models.RequestCancelled,
	}
	events := []Event{
		EventAccept, EventReject, EventCheckoutStarted, EventPaymentSuccess,
		EventCheckoutExpired, EventStart, EventComplete, EventCancel,
	}
	for _, status := range terminals {
		require.True(t, status.IsTerminal())
		for _, event := range events {
			_, err := Next(status, event)
			assert.Error(t, err, "%s must not leave %s", event, status)
		}
	}
}
