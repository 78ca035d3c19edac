package request

import (
	"fmt"

	"elanis/models"
	"elanis/utils"
)

// Event is something that happens to a service request. Every status change
// in the system goes through the transition table below; no handler flips a
// status on its own.
type Event string

const (
	EventAccept          Event = "Accept"          // provider accepts
	EventReject          Event = "Reject"          // provider rejects
	EventCheckoutStarted Event = "CheckoutStarted" // requester opens hosted checkout
	EventPaymentSuccess  Event = "PaymentSuccess"  // gateway confirms payment
	EventCheckoutExpired Event = "CheckoutExpired" // checkout session abandoned
	EventStart           Event = "Start"           // provider starts the job
	EventComplete        Event = "Complete"        // provider finishes the job
	EventCancel          Event = "Cancel"          // requester or admin cancels
)

// transitions is the whole lifecycle in one place. Absence of an entry means
// the event is not allowed in that status.
var transitions = map[models.RequestStatus]map[Event]models.RequestStatus{
	models.RequestPending: {
		EventAccept: models.RequestAccepted,
		EventReject: models.RequestRejected,
		EventCancel: models.RequestCancelled,
	},
	models.RequestAccepted: {
		EventCheckoutStarted: models.RequestPaymentPending,
		EventCancel:          models.RequestCancelled,
	},
	models.RequestPaymentPending: {
		EventPaymentSuccess:  models.RequestPaid,
		EventCheckoutExpired: models.RequestAccepted,
	},
	models.RequestPaid: {
		EventStart: models.RequestInProgress,
	},
	models.RequestInProgress: {
		EventComplete: models.RequestCompleted,
	},
}

// Next resolves the status an event leads to from the current one. A
// disallowed pair yields a BadRequest naming both, which handlers pass
// through to the client unchanged.
func Next(current models.RequestStatus, event Event) (models.RequestStatus, error) {
	if next, ok := transitions[current][event]; ok {
		return next, nil
	}
	return "", utils.BadRequest(fmt.Sprintf("cannot apply %s to a request in status %s", event, current))
}

// Allowed reports whether the event may fire from the current status, used
// to compute the capability flags on request views.
func Allowed(current models.RequestStatus, event Event) bool {
	_, ok := transitions[current][event]
	return ok
}
