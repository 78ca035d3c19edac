package provider

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"elanis/database/repository"
	applicationRepo "elanis/database/repository/application"
	providerRepo "elanis/database/repository/provider"
	"elanis/models"
	"elanis/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileView is the public representation of a provider.
type ProfileView struct {
	models.ServiceProviderProfile
	Name string `json:"name,omitempty"`
}

// Service covers the provider side outside the request lifecycle: applying
// to become one, checking the application, and public profile reads.
type Service interface {
	// Apply submits a provider application. A user with a Pending or Approved
	// application cannot submit another.
	Apply(userID string, in models.ApplyInput) (*models.ServiceProviderApplication, error)

	MyApplication(userID string) (*models.ServiceProviderApplication, error)
	GetProfile(providerID string) (*models.ServiceProviderProfile, error)
	List(page, pageSize int) ([]models.ServiceProviderProfile, int64, error)

	// UploadDocument stores an identity or certificate document and returns
	// its URL for inclusion in an application.
	UploadDocument(ctx context.Context, userID string, file multipart.File, kind string) (string, error)

	// SetAccepting flips whether the provider is accepting new requests.
	SetAccepting(userID string, accepting bool) error
}

// DefaultProviderService implements Service.
type DefaultProviderService struct {
	ApplicationRepo applicationRepo.ApplicationRepository
	ProviderRepo    providerRepo.ProviderProfileRepository
	Uploader        utils.DocumentUploader
	Logger          *zap.Logger
}

// Apply submits a provider application in Pending.
func (s *DefaultProviderService) Apply(userID string, in models.ApplyInput) (*models.ServiceProviderApplication, error) {
	if len(in.CategoryIDs) == 0 {
		return nil, utils.BadRequest("at least one category is required")
	}
	if in.HourlyRate <= 0 {
		return nil, utils.BadRequest("hourly rate must be positive")
	}

	latest, err := s.ApplicationRepo.GetLatestByUser(userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.Logger.Error("failed to load application", zap.Error(err))
		return nil, utils.ServerError("could not submit application")
	}
	if latest != nil {
		switch latest.Status {
		case models.ApplicationPending:
			return nil, utils.BadRequest("you already have an application under review")
		case models.ApplicationApproved:
			return nil, utils.BadRequest("you are already an approved provider")
		}
	}

	app := &models.ServiceProviderApplication{
		ID:             uuid.New().String(),
		UserID:         userID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		PhoneNumber:    in.PhoneNumber,
		Address:        in.Address,
		DateOfBirth:    in.DateOfBirth,
		Bio:            in.Bio,
		NationalID:     in.NationalID,
		Experience:     in.Experience,
		HourlyRate:     in.HourlyRate,
		IDDocumentURL:  in.IDDocumentURL,
		CertificateURL: in.CertificateURL,
		CategoryIDs:    in.CategoryIDs,
		Status:         models.ApplicationPending,
		CreatedAt:      time.Now(),
	}
	if err := s.ApplicationRepo.Create(app); err != nil {
		s.Logger.Error("failed to create application", zap.Error(err))
		return nil, utils.ServerError("could not submit application")
	}

	s.Logger.Info("provider application submitted",
		zap.String("applicationId", app.ID),
		zap.String("userId", userID))
	return app, nil
}

// MyApplication returns the user's most recent application.
func (s *DefaultProviderService) MyApplication(userID string) (*models.ServiceProviderApplication, error) {
	app, err := s.ApplicationRepo.GetLatestByUser(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("no application found")
	}
	if err != nil {
		s.Logger.Error("failed to load application", zap.Error(err))
		return nil, utils.ServerError("could not load application")
	}
	return app, nil
}

// GetProfile returns one provider profile.
func (s *DefaultProviderService) GetProfile(providerID string) (*models.ServiceProviderProfile, error) {
	profile, err := s.ProviderRepo.GetByID(providerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("provider not found")
	}
	if err != nil {
		s.Logger.Error("failed to load provider profile", zap.Error(err))
		return nil, utils.ServerError("could not load provider")
	}
	return profile, nil
}

// List returns a page of provider profiles with the total count.
func (s *DefaultProviderService) List(page, pageSize int) ([]models.ServiceProviderProfile, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	profiles, total, err := s.ProviderRepo.List(page, pageSize)
	if err != nil {
		s.Logger.Error("failed to list providers", zap.Error(err))
		return nil, 0, utils.ServerError("could not list providers")
	}
	return profiles, total, nil
}

// UploadDocument stores a document under the applicant's folder.
func (s *DefaultProviderService) UploadDocument(ctx context.Context, userID string, file multipart.File, kind string) (string, error) {
	if kind != "id" && kind != "certificate" {
		return "", utils.BadRequest("kind must be id or certificate")
	}
	url, err := s.Uploader.Upload(ctx, file, "provider_documents/"+userID, kind+"-"+uuid.New().String())
	if err != nil {
		s.Logger.Error("document upload failed", zap.Error(err))
		return "", utils.ServerError("could not upload document")
	}
	return url, nil
}

// SetAccepting flips the provider's accepting-new-requests flag.
func (s *DefaultProviderService) SetAccepting(userID string, accepting bool) error {
	profile, err := s.ProviderRepo.GetByUserID(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.Forbidden("no provider profile for this account")
	}
	if err != nil {
		s.Logger.Error("failed to load provider profile", zap.Error(err))
		return utils.ServerError("could not update availability")
	}
	if profile.Status != models.ProviderApproved {
		return utils.Forbidden("provider account is suspended")
	}
	if err := s.ProviderRepo.SetStatus(profile.ID, profile.Status, "", accepting); err != nil {
		s.Logger.Error("failed to update provider flag", zap.Error(err))
		return utils.ServerError("could not update availability")
	}
	return nil
}
