package models

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

const (
	RequestPending        RequestStatus = "Pending"
	RequestAccepted       RequestStatus = "Accepted"
	RequestRejected       RequestStatus = "Rejected"
	RequestPaymentPending RequestStatus = "PaymentPending"
	RequestPaid           RequestStatus = "Paid"
	RequestInProgress     RequestStatus = "InProgress"
	RequestCompleted      RequestStatus = "Completed"
	RequestCancelled      RequestStatus = "Cancelled"
)

// IsTerminal reports whether no further transition may leave the status.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestRejected, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

// ShiftType is one of the three fixed booking durations a category is priced by.
type ShiftType string

const (
	ShiftThreeHours      ShiftType = "ThreeHours"
	ShiftTwelveHours     ShiftType = "TwelveHours"
	ShiftTwentyFourHours ShiftType = "TwentyFourHours"
)

// Valid reports whether the shift is one of the three known durations.
func (s ShiftType) Valid() bool {
	switch s {
	case ShiftThreeHours, ShiftTwelveHours, ShiftTwentyFourHours:
		return true
	}
	return false
}

// DisplayName returns the human-readable shift label.
func (s ShiftType) DisplayName() string {
	switch s {
	case ShiftThreeHours:
		return "3 Hours"
	case ShiftTwelveHours:
		return "12 Hours"
	case ShiftTwentyFourHours:
		return "24 Hours"
	default:
		return "Unknown"
	}
}

// PaymentStatus is the state of a payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

// PaymentMethod is how a payment was captured.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCash PaymentMethod = "cash"
)

// ApplicationStatus is the review state of a provider application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationApproved ApplicationStatus = "Approved"
	ApplicationRejected ApplicationStatus = "Rejected"
)

// ProviderStatus is the operational state of an approved provider profile.
type ProviderStatus string

const (
	ProviderApproved  ProviderStatus = "Approved"
	ProviderSuspended ProviderStatus = "Suspended"
)

// Role is the access role carried in auth tokens.
type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)
