package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"elanis/database/repository"
	availabilityRepo "elanis/database/repository/availability"
	providerRepo "elanis/database/repository/provider"
	requestRepo "elanis/database/repository/request"
	"elanis/models"
	"elanis/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dateLayout     = "2006-01-02"
	bookedCacheTTL = 60 * time.Second
)

// CalendarDay is one date on a provider's public calendar: the declaration,
// if any, overlaid with whether a booking already occupies the date.
type CalendarDay struct {
	Date           string            `json:"date"`
	IsAvailable    bool              `json:"isAvailable"`
	AvailableShift *models.ShiftType `json:"availableShift,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	IsBooked       bool              `json:"isBooked"`
}

// Service manages provider calendars and answers the availability question
// the request lifecycle asks before a provider may accept.
type Service interface {
	AddEntry(providerID string, in models.AddAvailabilityInput) (*models.ProviderAvailability, error)
	AddBulk(providerID string, in models.BulkAvailabilityInput) ([]models.ProviderAvailability, error)
	UpdateEntry(providerID, date string, in models.AddAvailabilityInput) error
	DeleteEntry(providerID, date string) error
	GetCalendar(providerID, fromDate, toDate string) ([]CalendarDay, error)

	// IsAvailable evaluates the full availability predicate for one
	// (provider, date, shift) combination: the provider must be approved and
	// accepting work, must have declared the date open for the shift, and no
	// active booking may already occupy the date. The returned reason is empty
	// when available.
	IsAvailable(providerID, date string, shift models.ShiftType) (bool, string, error)
}

// DefaultAvailabilityService implements Service.
type DefaultAvailabilityService struct {
	AvailRepo    availabilityRepo.AvailabilityRepository
	ProviderRepo providerRepo.ProviderProfileRepository
	RequestRepo  requestRepo.ServiceRequestRepository
	Cache        *redis.Client // nil disables booked-date caching
	Logger       *zap.Logger
}

func validDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

// AddEntry declares one date on the provider's calendar.
func (s *DefaultAvailabilityService) AddEntry(providerID string, in models.AddAvailabilityInput) (*models.ProviderAvailability, error) {
	if !validDate(in.Date) {
		return nil, utils.BadRequest("date must be in YYYY-MM-DD format")
	}
	if in.AvailableShift != nil && !in.AvailableShift.Valid() {
		return nil, utils.BadRequest("unknown shift type")
	}

	now := time.Now()
	entry := &models.ProviderAvailability{
		ID:             uuid.New().String(),
		ProviderID:     providerID,
		Date:           in.Date,
		IsAvailable:    in.IsAvailable,
		AvailableShift: in.AvailableShift,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.AvailRepo.Create(entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.BadRequest("an availability entry already exists for this date")
		}
		s.Logger.Error("failed to create availability entry", zap.Error(err))
		return nil, utils.ServerError("could not save availability")
	}
	return entry, nil
}

// AddBulk declares several dates at once. Entries are inserted one by one;
// the first failure aborts and reports which date it was.
func (s *DefaultAvailabilityService) AddBulk(providerID string, in models.BulkAvailabilityInput) ([]models.ProviderAvailability, error) {
	if len(in.Entries) == 0 {
		return nil, utils.BadRequest("no availability entries provided")
	}
	created := make([]models.ProviderAvailability, 0, len(in.Entries))
	for _, e := range in.Entries {
		entry, err := s.AddEntry(providerID, e)
		if err != nil {
			var svcErr *utils.Error
			if errors.As(err, &svcErr) && svcErr.Kind != utils.KindInternal {
				return created, &utils.Error{Kind: svcErr.Kind, Message: fmt.Sprintf("%s: %s", e.Date, svcErr.Message)}
			}
			return created, err
		}
		created = append(created, *entry)
	}
	return created, nil
}

// UpdateEntry rewrites the declaration for one date.
func (s *DefaultAvailabilityService) UpdateEntry(providerID, date string, in models.AddAvailabilityInput) error {
	if in.AvailableShift != nil && !in.AvailableShift.Valid() {
		return utils.BadRequest("unknown shift type")
	}
	err := s.AvailRepo.Update(providerID, date, in, time.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound("no availability entry for this date")
	}
	if err != nil {
		s.Logger.Error("failed to update availability entry", zap.Error(err))
		return utils.ServerError("could not update availability")
	}
	return nil
}

// DeleteEntry removes the declaration for one date.
func (s *DefaultAvailabilityService) DeleteEntry(providerID, date string) error {
	err := s.AvailRepo.Delete(providerID, date)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound("no availability entry for this date")
	}
	if err != nil {
		s.Logger.Error("failed to delete availability entry", zap.Error(err))
		return utils.ServerError("could not delete availability")
	}
	return nil
}

// GetCalendar merges the provider's declarations in [fromDate, toDate] with
// the dates already occupied by active bookings.
func (s *DefaultAvailabilityService) GetCalendar(providerID, fromDate, toDate string) ([]CalendarDay, error) {
	if !validDate(fromDate) || !validDate(toDate) {
		return nil, utils.BadRequest("dates must be in YYYY-MM-DD format")
	}
	if fromDate > toDate {
		return nil, utils.BadRequest("fromDate must not be after toDate")
	}

	entries, err := s.AvailRepo.GetRange(providerID, fromDate, toDate)
	if err != nil {
		s.Logger.Error("failed to load availability range", zap.Error(err))
		return nil, utils.ServerError("could not load calendar")
	}
	booked, err := s.bookedDates(providerID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	bookedSet := make(map[string]bool, len(booked))
	for _, d := range booked {
		bookedSet[d] = true
	}

	days := make([]CalendarDay, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		days = append(days, CalendarDay{
			Date:           e.Date,
			IsAvailable:    e.IsAvailable,
			AvailableShift: e.AvailableShift,
			Notes:          e.Notes,
			IsBooked:       bookedSet[e.Date],
		})
		seen[e.Date] = true
	}
	// Booked dates without a declaration still show up on the calendar.
	for _, d := range booked {
		if !seen[d] {
			days = append(days, CalendarDay{Date: d, IsBooked: true})
		}
	}
	return days, nil
}

// IsAvailable evaluates the availability predicate. Its answer is advisory;
// the unique indexes and guarded transitions on the request collection are
// what actually prevent double booking under races.
func (s *DefaultAvailabilityService) IsAvailable(providerID, date string, shift models.ShiftType) (bool, string, error) {
	if !validDate(date) {
		return false, "", utils.BadRequest("date must be in YYYY-MM-DD format")
	}

	profile, err := s.ProviderRepo.GetByID(providerID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, "", utils.NotFound("provider not found")
	}
	if err != nil {
		s.Logger.Error("failed to load provider profile", zap.Error(err))
		return false, "", utils.ServerError("could not check availability")
	}
	if profile.Status != models.ProviderApproved {
		return false, "provider is not active", nil
	}
	if !profile.IsAvailable {
		return false, "provider is not accepting new requests", nil
	}

	entry, err := s.AvailRepo.GetByDate(providerID, date)
	if errors.Is(err, repository.ErrNotFound) {
		// Providers are bookable only on dates they declared open.
		return false, "provider has not opened this date", nil
	}
	if err != nil {
		s.Logger.Error("failed to load availability entry", zap.Error(err))
		return false, "", utils.ServerError("could not check availability")
	}
	if !entry.IsAvailable {
		return false, "provider is unavailable on this date", nil
	}
	if entry.AvailableShift != nil && *entry.AvailableShift != shift {
		return false, "provider is unavailable for this shift", nil
	}

	booked, err := s.bookedDates(providerID, date, date)
	if err != nil {
		return false, "", err
	}
	for _, d := range booked {
		if d == date {
			return false, "provider is already booked on this date", nil
		}
	}
	return true, "", nil
}

// bookedDates returns the provider's occupied dates in [fromDate, toDate],
// caching the answer briefly since calendar views hammer it.
func (s *DefaultAvailabilityService) bookedDates(providerID, fromDate, toDate string) ([]string, error) {
	key := fmt.Sprintf("booked:%s:%s:%s", providerID, fromDate, toDate)
	if s.Cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		raw, err := s.Cache.Get(ctx, key).Result()
		cancel()
		if err == nil {
			var dates []string
			if json.Unmarshal([]byte(raw), &dates) == nil {
				return dates, nil
			}
		}
	}

	dates, err := s.RequestRepo.BookedDates(providerID, fromDate, toDate)
	if err != nil {
		s.Logger.Error("failed to load booked dates", zap.Error(err))
		return nil, utils.ServerError("could not check availability")
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(dates); err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := s.Cache.Set(ctx, key, raw, bookedCacheTTL).Err(); err != nil {
				s.Logger.Warn("failed to cache booked dates", zap.Error(err))
			}
			cancel()
		}
	}
	return dates, nil
}
