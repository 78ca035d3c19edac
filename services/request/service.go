package request

import (
	"errors"
	"time"

	"elanis/database/repository"
	categoryRepo "elanis/database/repository/category"
	pricingRepo "elanis/database/repository/pricing"
	providerRepo "elanis/database/repository/provider"
	requestRepo "elanis/database/repository/request"
	userRepo "elanis/database/repository/user"
	"elanis/models"
	"elanis/services/availability"
	"elanis/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Service runs the service-request lifecycle. All status changes go through
// the transition table in lifecycle.go and land as guarded updates, so a
// request can never skip a state or take two exits from one.
type Service interface {
	Create(userID string, in models.CreateRequestInput) (*models.ServiceRequestView, error)
	GetByID(claims *utils.TokenClaims, id string) (*models.ServiceRequestView, error)
	ListForUser(userID string) ([]models.ServiceRequestView, error)
	ListForProvider(providerUserID string) ([]models.ServiceRequestView, error)

	// Respond records the provider's accept or reject decision on a Pending
	// request addressed to them.
	Respond(providerUserID, requestID string, in models.ProviderResponseInput) (*models.ServiceRequestView, error)

	// Start moves a Paid request to InProgress.
	Start(providerUserID, requestID string) (*models.ServiceRequestView, error)

	// Complete finishes an InProgress request and credits the provider's job
	// and earnings aggregates.
	Complete(providerUserID, requestID string) (*models.ServiceRequestView, error)

	// Cancel cancels a request on behalf of its requester or an admin.
	Cancel(claims *utils.TokenClaims, requestID string) (*models.ServiceRequestView, error)
}

// DefaultRequestService implements Service.
type DefaultRequestService struct {
	RequestRepo  requestRepo.ServiceRequestRepository
	PricingRepo  pricingRepo.PricingRepository
	CategoryRepo categoryRepo.CategoryRepository
	ProviderRepo providerRepo.ProviderProfileRepository
	UserRepo     userRepo.UserRepository
	Availability availability.Service
	Logger       *zap.Logger
}

// Create validates the booking, snapshots the active price and inserts the
// request in Pending.
func (s *DefaultRequestService) Create(userID string, in models.CreateRequestInput) (*models.ServiceRequestView, error) {
	if !in.ShiftType.Valid() {
		return nil, utils.BadRequest("unknown shift type")
	}
	day, err := time.Parse(dateLayout, in.PreferredDate)
	if err != nil {
		return nil, utils.BadRequest("preferredDate must be in YYYY-MM-DD format")
	}
	if day.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, utils.BadRequest("preferredDate must not be in the past")
	}

	category, err := s.CategoryRepo.GetByID(in.CategoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("category not found")
	}
	if err != nil {
		s.Logger.Error("failed to load category", zap.Error(err))
		return nil, utils.ServerError("could not create request")
	}
	if !category.IsActive {
		return nil, utils.BadRequest("category is not active")
	}

	price, err := s.PricingRepo.GetActive(in.CategoryID, in.ShiftType)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.BadRequest("no active price for this category and shift")
	}
	if err != nil {
		s.Logger.Error("failed to load pricing", zap.Error(err))
		return nil, utils.ServerError("could not create request")
	}

	if in.ProviderID != "" {
		ok, reason, err := s.Availability.IsAvailable(in.ProviderID, in.PreferredDate, in.ShiftType)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, utils.BadRequest(reason)
		}
		exists, err := s.RequestRepo.HasPendingRequest(userID, in.ProviderID, in.PreferredDate)
		if err != nil {
			s.Logger.Error("failed to check pending requests", zap.Error(err))
			return nil, utils.ServerError("could not create request")
		}
		if exists {
			return nil, utils.BadRequest("you already have a pending request with this provider on this date")
		}
	}

	req := &models.ServiceRequest{
		ID:            uuid.New().String(),
		UserID:        userID,
		ProviderID:    in.ProviderID,
		CategoryID:    in.CategoryID,
		ShiftType:     in.ShiftType,
		TotalPrice:    price.PricePerShift,
		PreferredDate: in.PreferredDate,
		Address:       in.Address,
		Governorate:   in.Governorate,
		Description:   in.Description,
		Status:        models.RequestPending,
		CreatedAt:     time.Now(),
	}
	if err := s.RequestRepo.Create(req); err != nil {
		// The partial unique index closes the race the HasPendingRequest check
		// leaves open.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.BadRequest("you already have a pending request with this provider on this date")
		}
		s.Logger.Error("failed to create request", zap.Error(err))
		return nil, utils.ServerError("could not create request")
	}

	s.Logger.Info("service request created",
		zap.String("requestId", req.ID),
		zap.String("userId", userID),
		zap.String("categoryId", req.CategoryID))
	return s.toView(req), nil
}

// GetByID returns one request, visible only to its requester, its provider
// and admins.
func (s *DefaultRequestService) GetByID(claims *utils.TokenClaims, id string) (*models.ServiceRequestView, error) {
	req, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleAdmin && req.UserID != claims.UserID {
		profile, err := s.ProviderRepo.GetByUserID(claims.UserID)
		if err != nil || req.ProviderID != profile.ID {
			return nil, utils.Forbidden("you do not have access to this request")
		}
	}
	return s.toView(req), nil
}

// ListForUser returns the requester's requests, newest first.
func (s *DefaultRequestService) ListForUser(userID string) ([]models.ServiceRequestView, error) {
	reqs, err := s.RequestRepo.GetByUser(userID)
	if err != nil {
		s.Logger.Error("failed to list requests", zap.Error(err))
		return nil, utils.ServerError("could not list requests")
	}
	return s.toViews(reqs), nil
}

// ListForProvider returns the requests addressed to the caller's provider
// profile, newest first.
func (s *DefaultRequestService) ListForProvider(providerUserID string) ([]models.ServiceRequestView, error) {
	profile, err := s.profileFor(providerUserID)
	if err != nil {
		return nil, err
	}
	reqs, err := s.RequestRepo.GetByProvider(profile.ID)
	if err != nil {
		s.Logger.Error("failed to list provider requests", zap.Error(err))
		return nil, utils.ServerError("could not list requests")
	}
	return s.toViews(reqs), nil
}

// Respond applies the provider's decision. Acceptance re-checks availability
// and then races through the Pending guard; when two accept paths collide the
// second one fails instead of producing a second acceptance.
func (s *DefaultRequestService) Respond(providerUserID, requestID string, in models.ProviderResponseInput) (*models.ServiceRequestView, error) {
	profile, err := s.profileFor(providerUserID)
	if err != nil {
		return nil, err
	}
	req, err := s.load(requestID)
	if err != nil {
		return nil, err
	}
	if req.ProviderID != profile.ID {
		return nil, utils.Forbidden("this request is not addressed to you")
	}

	event := EventReject
	if in.Accept {
		event = EventAccept
	}
	next, err := Next(req.Status, event)
	if err != nil {
		return nil, err
	}

	if in.Accept {
		ok, reason, err := s.Availability.IsAvailable(profile.ID, req.PreferredDate, req.ShiftType)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, utils.BadRequest(reason)
		}
	}

	if err := s.transition(req.ID, req.Status, next); err != nil {
		return nil, err
	}
	if !in.Accept && in.Reason != "" {
		if err := s.RequestRepo.AppendDescription(req.ID, "Rejection reason: "+in.Reason); err != nil {
			s.Logger.Warn("failed to record rejection reason", zap.Error(err))
		}
	}

	s.Logger.Info("provider responded to request",
		zap.String("requestId", req.ID),
		zap.String("providerId", profile.ID),
		zap.Bool("accepted", in.Accept))
	return s.reload(req.ID)
}

// Start moves a Paid request to InProgress.
func (s *DefaultRequestService) Start(providerUserID, requestID string) (*models.ServiceRequestView, error) {
	return s.providerTransition(providerUserID, requestID, EventStart)
}

// Complete finishes an InProgress request. The provider's CompletedJobs and
// TotalEarnings counters are incremented right after the transition commits;
// a failure there is logged and retried by no one, the transition stands.
func (s *DefaultRequestService) Complete(providerUserID, requestID string) (*models.ServiceRequestView, error) {
	profile, err := s.profileFor(providerUserID)
	if err != nil {
		return nil, err
	}
	req, err := s.load(requestID)
	if err != nil {
		return nil, err
	}
	if req.ProviderID != profile.ID {
		return nil, utils.Forbidden("this request is not addressed to you")
	}
	next, err := Next(req.Status, EventComplete)
	if err != nil {
		return nil, err
	}
	if err := s.transition(req.ID, req.Status, next); err != nil {
		return nil, err
	}

	if err := s.ProviderRepo.RecordCompletedJob(profile.ID, req.TotalPrice); err != nil {
		s.Logger.Error("failed to credit completed job",
			zap.String("requestId", req.ID),
			zap.String("providerId", profile.ID),
			zap.Error(err))
	}

	s.Logger.Info("request completed",
		zap.String("requestId", req.ID),
		zap.String("providerId", profile.ID),
		zap.Float64("earnings", req.TotalPrice))
	return s.reload(req.ID)
}

// Cancel cancels a request. Requesters may cancel their own requests, admins
// anyone's; either way the transition table decides from which statuses.
func (s *DefaultRequestService) Cancel(claims *utils.TokenClaims, requestID string) (*models.ServiceRequestView, error) {
	req, err := s.load(requestID)
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleAdmin && req.UserID != claims.UserID {
		return nil, utils.Forbidden("you do not have access to this request")
	}
	next, err := Next(req.Status, EventCancel)
	if err != nil {
		return nil, err
	}
	if err := s.transition(req.ID, req.Status, next); err != nil {
		return nil, err
	}
	s.Logger.Info("request cancelled",
		zap.String("requestId", req.ID),
		zap.String("cancelledBy", claims.UserID))
	return s.reload(req.ID)
}

func (s *DefaultRequestService) providerTransition(providerUserID, requestID string, event Event) (*models.ServiceRequestView, error) {
	profile, err := s.profileFor(providerUserID)
	if err != nil {
		return nil, err
	}
	req, err := s.load(requestID)
	if err != nil {
		return nil, err
	}
	if req.ProviderID != profile.ID {
		return nil, utils.Forbidden("this request is not addressed to you")
	}
	next, err := Next(req.Status, event)
	if err != nil {
		return nil, err
	}
	if err := s.transition(req.ID, req.Status, next); err != nil {
		return nil, err
	}
	return s.reload(req.ID)
}

// transition commits a status change guarded on the status it was decided
// from, so a concurrent change makes the loser fail instead of overwriting.
func (s *DefaultRequestService) transition(id string, from, to models.RequestStatus) error {
	err := s.RequestRepo.UpdateStatusIfCurrent(id, from, to, time.Now())
	if errors.Is(err, repository.ErrStatusConflict) {
		return utils.BadRequest("the request changed while processing, please retry")
	}
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound("request not found")
	}
	if err != nil {
		s.Logger.Error("failed to transition request",
			zap.String("requestId", id),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(err))
		return utils.ServerError("could not update request")
	}
	return nil
}

func (s *DefaultRequestService) load(id string) (*models.ServiceRequest, error) {
	req, err := s.RequestRepo.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("request not found")
	}
	if err != nil {
		s.Logger.Error("failed to load request", zap.Error(err))
		return nil, utils.ServerError("could not load request")
	}
	return req, nil
}

func (s *DefaultRequestService) reload(id string) (*models.ServiceRequestView, error) {
	req, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return s.toView(req), nil
}

func (s *DefaultRequestService) profileFor(userID string) (*models.ServiceProviderProfile, error) {
	profile, err := s.ProviderRepo.GetByUserID(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.Forbidden("no provider profile for this account")
	}
	if err != nil {
		s.Logger.Error("failed to load provider profile", zap.Error(err))
		return nil, utils.ServerError("could not load provider profile")
	}
	if profile.Status != models.ProviderApproved {
		return nil, utils.Forbidden("provider account is suspended")
	}
	return profile, nil
}

func (s *DefaultRequestService) toView(req *models.ServiceRequest) *models.ServiceRequestView {
	view := &models.ServiceRequestView{
		ServiceRequest: *req,
		ShiftTypeName:  req.ShiftType.DisplayName(),
		CanPay:         Allowed(req.Status, EventCheckoutStarted),
		CanStart:       Allowed(req.Status, EventStart),
		CanComplete:    Allowed(req.Status, EventComplete),
	}
	if category, err := s.CategoryRepo.GetByID(req.CategoryID); err == nil {
		view.CategoryName = category.Name
	}
	if req.ProviderID != "" {
		if profile, err := s.ProviderRepo.GetByID(req.ProviderID); err == nil {
			if user, err := s.UserRepo.GetByID(profile.UserID); err == nil {
				view.ProviderName = user.FullName()
			}
		}
	}
	return view
}

func (s *DefaultRequestService) toViews(reqs []models.ServiceRequest) []models.ServiceRequestView {
	views := make([]models.ServiceRequestView, 0, len(reqs))
	for i := range reqs {
		views = append(views, *s.toView(&reqs[i]))
	}
	return views
}
