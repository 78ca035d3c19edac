package providerRepo

import "elanis/models"

// ProviderProfileRepository persists provider profiles and maintains their
// running aggregates with atomic storage-side updates.
type ProviderProfileRepository interface {
	Create(profile *models.ServiceProviderProfile) error
	GetByID(id string) (*models.ServiceProviderProfile, error)
	GetByUserID(userID string) (*models.ServiceProviderProfile, error)
	List(page, pageSize int) ([]models.ServiceProviderProfile, int64, error)

	// SetStatus flips the provider's operational status. Suspension stores the
	// reason and marks the provider unavailable; activation clears both.
	SetStatus(id string, status models.ProviderStatus, reason string, available bool) error

	// AddCategories links categories to the profile, ignoring ones already
	// linked.
	AddCategories(id string, categoryIDs []string) error

	// RecordCompletedJob increments CompletedJobs and TotalEarnings in one
	// atomic update, fired by the Completed transition.
	RecordCompletedJob(id string, earnings float64) error

	// ApplyReview folds one new rating into the profile's aggregates in a
	// single atomic update: TotalReviews and RatingSum are incremented and
	// AverageRating recomputed in the same storage round trip, so interleaved
	// reviews cannot lose an update.
	ApplyReview(id string, rating int) error

	Count() (int64, error)
	// Stats returns the sum of all providers' earnings and the mean of the
	// average ratings of providers that have at least one review.
	Stats() (totalEarnings, averageRating float64, err error)
}
