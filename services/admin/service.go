package admin

import (
	"errors"
	"time"

	"elanis/database/repository"
	applicationRepo "elanis/database/repository/application"
	categoryRepo "elanis/database/repository/category"
	providerRepo "elanis/database/repository/provider"
	requestRepo "elanis/database/repository/request"
	reviewRepo "elanis/database/repository/review"
	userRepo "elanis/database/repository/user"
	"elanis/models"
	"elanis/services/notify"
	"elanis/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApprovalResult reports what the approval managed to do beyond the decision
// itself. The decision and the profile are required; category linking and the
// notification email are best effort and flagged here instead of failing the
// call.
type ApprovalResult struct {
	Application      *models.ServiceProviderApplication `json:"application"`
	Profile          *models.ServiceProviderProfile     `json:"profile,omitempty"`
	CategoriesLinked bool                               `json:"categoriesLinked"`
	EmailSent        bool                               `json:"emailSent"`
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalUsers          int64   `json:"totalUsers"`
	TotalProviders      int64   `json:"totalProviders"`
	PendingApplications int64   `json:"pendingApplications"`
	TotalRequests       int64   `json:"totalRequests"`
	CompletedRequests   int64   `json:"completedRequests"`
	PendingRequests     int64   `json:"pendingRequests"`
	TotalReviews        int64   `json:"totalReviews"`
	TotalEarnings       float64 `json:"totalEarnings"`
	AverageRating       float64 `json:"averageRating"`
}

// Service is the moderation surface: application review, provider
// suspension and the dashboard.
type Service interface {
	ListApplications(page, pageSize int) ([]models.ServiceProviderApplication, int64, error)
	GetApplication(id string) (*models.ServiceProviderApplication, error)

	// Approve reviews an application favourably: the decision is recorded with
	// a Pending guard, the provider profile is created and the user's role
	// upgraded. A second review attempt is rejected by the guard.
	Approve(adminID, applicationID string) (*ApprovalResult, error)

	// Reject reviews an application unfavourably with a required reason.
	Reject(adminID, applicationID, reason string) (*ApprovalResult, error)

	Suspend(providerID, reason string) error
	Activate(providerID string) error
	Dashboard() (*DashboardStats, error)
}

// DefaultAdminService implements Service.
type DefaultAdminService struct {
	ApplicationRepo applicationRepo.ApplicationRepository
	ProviderRepo    providerRepo.ProviderProfileRepository
	UserRepo        userRepo.UserRepository
	CategoryRepo    categoryRepo.CategoryRepository
	RequestRepo     requestRepo.ServiceRequestRepository
	ReviewRepo      reviewRepo.ReviewRepository
	Mailer          notify.Mailer
	Logger          *zap.Logger
}

// ListApplications returns one page of applications, newest first.
func (s *DefaultAdminService) ListApplications(page, pageSize int) ([]models.ServiceProviderApplication, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	apps, total, err := s.ApplicationRepo.List(page, pageSize)
	if err != nil {
		s.Logger.Error("failed to list applications", zap.Error(err))
		return nil, 0, utils.ServerError("could not list applications")
	}
	return apps, total, nil
}

// GetApplication returns one application.
func (s *DefaultAdminService) GetApplication(id string) (*models.ServiceProviderApplication, error) {
	app, err := s.ApplicationRepo.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("application not found")
	}
	if err != nil {
		s.Logger.Error("failed to load application", zap.Error(err))
		return nil, utils.ServerError("could not load application")
	}
	return app, nil
}

// Approve records the decision, creates the provider profile and upgrades
// the user's role. Category linking and the decision email are best effort.
func (s *DefaultAdminService) Approve(adminID, applicationID string) (*ApprovalResult, error) {
	app, err := s.GetApplication(applicationID)
	if err != nil {
		return nil, err
	}

	if err := s.markReviewed(applicationID, models.ApplicationApproved, adminID, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	profile := &models.ServiceProviderProfile{
		ID:             uuid.New().String(),
		UserID:         app.UserID,
		Bio:            app.Bio,
		NationalID:     app.NationalID,
		Experience:     app.Experience,
		HourlyRate:     app.HourlyRate,
		IDDocumentURL:  app.IDDocumentURL,
		CertificateURL: app.CertificateURL,
		Status:         models.ProviderApproved,
		IsAvailable:    true,
		ApprovedAt:     now,
		CreatedAt:      now,
	}
	if err := s.ProviderRepo.Create(profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A profile from an earlier approval already exists; keep it.
			existing, getErr := s.ProviderRepo.GetByUserID(app.UserID)
			if getErr != nil {
				s.Logger.Error("failed to load existing profile", zap.Error(getErr))
				return nil, utils.ServerError("could not approve application")
			}
			profile = existing
		} else {
			s.Logger.Error("failed to create provider profile", zap.Error(err))
			return nil, utils.ServerError("could not approve application")
		}
	}

	if err := s.UserRepo.SetRole(app.UserID, models.RoleProvider); err != nil {
		s.Logger.Error("failed to upgrade user role",
			zap.String("userId", app.UserID),
			zap.Error(err))
		return nil, utils.ServerError("could not approve application")
	}

	result := &ApprovalResult{Application: app, Profile: profile}

	active, err := s.CategoryRepo.FilterActive(app.CategoryIDs)
	if err == nil && len(active) > 0 {
		err = s.ProviderRepo.AddCategories(profile.ID, active)
	}
	if err != nil {
		s.Logger.Error("failed to link categories to provider",
			zap.String("providerId", profile.ID),
			zap.Error(err))
	} else {
		result.CategoriesLinked = true
		profile.CategoryIDs = active
	}

	result.EmailSent = s.sendDecision(app, models.ApplicationApproved, "")

	s.Logger.Info("provider application approved",
		zap.String("applicationId", app.ID),
		zap.String("providerId", profile.ID),
		zap.Bool("categoriesLinked", result.CategoriesLinked),
		zap.Bool("emailSent", result.EmailSent))
	return result, nil
}

// Reject records an unfavourable decision.
func (s *DefaultAdminService) Reject(adminID, applicationID, reason string) (*ApprovalResult, error) {
	if reason == "" {
		return nil, utils.BadRequest("a rejection reason is required")
	}
	app, err := s.GetApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.markReviewed(applicationID, models.ApplicationRejected, adminID, reason); err != nil {
		return nil, err
	}

	result := &ApprovalResult{Application: app}
	result.EmailSent = s.sendDecision(app, models.ApplicationRejected, reason)

	s.Logger.Info("provider application rejected",
		zap.String("applicationId", app.ID),
		zap.Bool("emailSent", result.EmailSent))
	return result, nil
}

func (s *DefaultAdminService) markReviewed(id string, decision models.ApplicationStatus, adminID, reason string) error {
	err := s.ApplicationRepo.MarkReviewed(id, decision, adminID, reason, time.Now())
	if errors.Is(err, repository.ErrStatusConflict) {
		return utils.BadRequest("this application has already been reviewed")
	}
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound("application not found")
	}
	if err != nil {
		s.Logger.Error("failed to record review decision", zap.Error(err))
		return utils.ServerError("could not review application")
	}
	return nil
}

func (s *DefaultAdminService) sendDecision(app *models.ServiceProviderApplication, decision models.ApplicationStatus, reason string) bool {
	user, err := s.UserRepo.GetByID(app.UserID)
	if err != nil {
		s.Logger.Warn("could not load applicant for decision email", zap.Error(err))
		return false
	}
	if err := s.Mailer.SendApplicationDecision(user.Email, user.FirstName, decision, reason); err != nil {
		s.Logger.Warn("decision email failed",
			zap.String("applicationId", app.ID),
			zap.Error(err))
		return false
	}
	return true
}

// Suspend takes a provider out of circulation with a reason.
func (s *DefaultAdminService) Suspend(providerID, reason string) error {
	if reason == "" {
		return utils.BadRequest("a suspension reason is required")
	}
	return s.setStatus(providerID, models.ProviderSuspended, reason, false)
}

// Activate lifts a suspension.
func (s *DefaultAdminService) Activate(providerID string) error {
	return s.setStatus(providerID, models.ProviderApproved, "", true)
}

func (s *DefaultAdminService) setStatus(providerID string, status models.ProviderStatus, reason string, available bool) error {
	err := s.ProviderRepo.SetStatus(providerID, status, reason, available)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound("provider not found")
	}
	if err != nil {
		s.Logger.Error("failed to set provider status", zap.Error(err))
		return utils.ServerError("could not update provider status")
	}
	return nil
}

// Dashboard gathers the overview counters. The earnings and rating figures
// come from the maintained profile aggregates.
func (s *DefaultAdminService) Dashboard() (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalUsers, err = s.UserRepo.CountActive(); err != nil {
		return nil, s.statsErr(err)
	}
	if stats.TotalProviders, err = s.ProviderRepo.Count(); err != nil {
		return nil, s.statsErr(err)
	}
	if stats.PendingApplications, err = s.ApplicationRepo.CountPending(); err != nil {
		return nil, s.statsErr(err)
	}
	if stats.TotalRequests, err = s.RequestRepo.CountAll(); err != nil {
		return nil, s.statsErr(err)
	}
	if stats.CompletedRequests, err = s.RequestRepo.CountByStatus(models.RequestCompleted); err != nil {
		return nil, s.statsErr(err)
	}
	if stats.PendingRequests, err = s.RequestRepo.CountByStatus(models.RequestPending); err != nil {
		return nil, s.statsErr(err)
	}
	if stats.TotalReviews, err = s.ReviewRepo.Count(); err != nil {
		return nil, s.statsErr(err)
	}
	if stats.TotalEarnings, stats.AverageRating, err = s.ProviderRepo.Stats(); err != nil {
		return nil, s.statsErr(err)
	}
	return stats, nil
}

func (s *DefaultAdminService) statsErr(err error) error {
	s.Logger.Error("failed to gather dashboard stats", zap.Error(err))
	return utils.ServerError("could not load dashboard")
}
