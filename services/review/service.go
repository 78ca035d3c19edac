package review

import (
	"errors"
	"time"

	"elanis/database/repository"
	providerRepo "elanis/database/repository/provider"
	requestRepo "elanis/database/repository/request"
	reviewRepo "elanis/database/repository/review"
	userRepo "elanis/database/repository/user"
	"elanis/models"
	"elanis/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service records reviews and folds them into provider aggregates.
type Service interface {
	// Create stores the single review a requester may leave on their own
	// Completed request and updates the provider's rating aggregates in one
	// atomic storage round trip.
	Create(userID string, in models.CreateReviewInput) (*models.Review, error)

	GetForProvider(providerID string) (*models.ProviderReviews, error)
	GetForRequest(requestID string) (*models.Review, error)
	GetMine(userID string) ([]models.Review, error)
}

// DefaultReviewService implements Service.
type DefaultReviewService struct {
	ReviewRepo   reviewRepo.ReviewRepository
	RequestRepo  requestRepo.ServiceRequestRepository
	ProviderRepo providerRepo.ProviderProfileRepository
	UserRepo     userRepo.UserRepository
	Logger       *zap.Logger
}

// Create validates eligibility and inserts the review. The unique index on
// serviceRequestId makes the one-review rule hold even when two submissions
// race past the existence check.
func (s *DefaultReviewService) Create(userID string, in models.CreateReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, utils.BadRequest("rating must be between 1 and 5")
	}

	req, err := s.RequestRepo.GetByID(in.ServiceRequestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("request not found")
	}
	if err != nil {
		s.Logger.Error("failed to load request", zap.Error(err))
		return nil, utils.ServerError("could not submit review")
	}
	if req.UserID != userID {
		return nil, utils.Forbidden("you can only review your own requests")
	}
	if req.Status != models.RequestCompleted {
		return nil, utils.BadRequest("only completed requests can be reviewed")
	}

	rev := &models.Review{
		ID:               uuid.New().String(),
		ServiceRequestID: req.ID,
		ClientUserID:     userID,
		ProviderID:       req.ProviderID,
		Rating:           in.Rating,
		Comment:          in.Comment,
		CreatedAt:        time.Now(),
	}
	if err := s.ReviewRepo.Create(rev); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.BadRequest("this request has already been reviewed")
		}
		s.Logger.Error("failed to create review", zap.Error(err))
		return nil, utils.ServerError("could not submit review")
	}

	if err := s.ProviderRepo.ApplyReview(req.ProviderID, in.Rating); err != nil {
		// The review row exists; a lost aggregate update is logged loudly
		// rather than rolled back.
		s.Logger.Error("failed to apply review to provider aggregates",
			zap.String("reviewId", rev.ID),
			zap.String("providerId", req.ProviderID),
			zap.Error(err))
	}

	s.Logger.Info("review submitted",
		zap.String("reviewId", rev.ID),
		zap.String("requestId", req.ID),
		zap.Int("rating", in.Rating))
	return rev, nil
}

// GetForProvider returns a provider's reviews with their running aggregates.
// The aggregates come from the profile counters, not from summing rows.
func (s *DefaultReviewService) GetForProvider(providerID string) (*models.ProviderReviews, error) {
	profile, err := s.ProviderRepo.GetByID(providerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("provider not found")
	}
	if err != nil {
		s.Logger.Error("failed to load provider profile", zap.Error(err))
		return nil, utils.ServerError("could not load reviews")
	}

	reviews, err := s.ReviewRepo.GetByProvider(providerID)
	if err != nil {
		s.Logger.Error("failed to list reviews", zap.Error(err))
		return nil, utils.ServerError("could not load reviews")
	}

	out := &models.ProviderReviews{
		ProviderID:    providerID,
		AverageRating: profile.AverageRating,
		TotalReviews:  profile.TotalReviews,
		Reviews:       reviews,
	}
	if user, err := s.UserRepo.GetByID(profile.UserID); err == nil {
		out.ProviderName = user.FullName()
	}
	return out, nil
}

// GetForRequest returns the review left on one request, if any.
func (s *DefaultReviewService) GetForRequest(requestID string) (*models.Review, error) {
	rev, err := s.ReviewRepo.GetByRequestID(requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("no review for this request")
	}
	if err != nil {
		s.Logger.Error("failed to load review", zap.Error(err))
		return nil, utils.ServerError("could not load review")
	}
	return rev, nil
}

// GetMine returns the reviews the user has written.
func (s *DefaultReviewService) GetMine(userID string) ([]models.Review, error) {
	reviews, err := s.ReviewRepo.GetByClient(userID)
	if err != nil {
		s.Logger.Error("failed to list reviews", zap.Error(err))
		return nil, utils.ServerError("could not load reviews")
	}
	return reviews, nil
}
