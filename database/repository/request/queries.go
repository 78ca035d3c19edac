package requestRepo

import (
	"fmt"
	"sort"
	"time"

	"elanis/database/repository"
	"elanis/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func optionsFindNewestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

// HasPendingRequest reports whether the user already has a Pending request
// with the provider on the date.
func (r *MongoServiceRequestRepo) HasPendingRequest(userID, providerID, date string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{
		"userId":        userID,
		"providerId":    providerID,
		"preferredDate": date,
		"status":        models.RequestPending,
	})
	if err != nil {
		return false, fmt.Errorf("failed to count pending requests: %w", err)
	}
	return count > 0, nil
}

// transitionStamp maps a transition to the timestamp field it sets. Each
// timestamp is written at most once: a payment-expiry revert re-enters
// Accepted from PaymentPending and must not move the original acceptance
// time, so acceptedAt is stamped only on the Pending edge.
func transitionStamp(from, to models.RequestStatus) string {
	switch to {
	case models.RequestAccepted:
		if from != models.RequestPending {
			return ""
		}
		return "acceptedAt"
	case models.RequestInProgress:
		return "startedAt"
	case models.RequestCompleted:
		return "completedAt"
	case models.RequestCancelled:
		return "cancelledAt"
	default:
		return ""
	}
}

// UpdateStatusIfCurrent performs the transition as one compare-and-swap:
// the filter carries the expected source status, so two racing callers cannot
// both pass the guard.
func (r *MongoServiceRequestRepo) UpdateStatusIfCurrent(id string, from, to models.RequestStatus, at time.Time) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{"status": to}
	if stamp := transitionStamp(from, to); stamp != "" {
		set[stamp] = at
	}

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to transition request %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		// Distinguish a vanished document from a lost transition race.
		count, countErr := r.coll.CountDocuments(ctx, bson.M{"id": id})
		if countErr == nil && count == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrStatusConflict
	}
	return nil
}

// AppendDescription appends a note to the request's description field, on a
// new line when a description already exists.
func (r *MongoServiceRequestRepo) AppendDescription(id, note string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.A{bson.M{"$set": bson.M{
			"description": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$description", ""}}, ""}},
				note,
				bson.M{"$concat": bson.A{"$description", "\n", note}},
			}},
		}}},
	)
	if err != nil {
		return fmt.Errorf("failed to append description on request %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// BookedDates lists distinct dates in [fromDate, toDate] on which the
// provider has a request in Accepted, Paid or InProgress status. The
// availability predicate treats any such date as occupied, whole-day, since
// shifts overlap within a day.
func (r *MongoServiceRequestRepo) BookedDates(providerID, fromDate, toDate string) ([]string, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	raw, err := r.coll.Distinct(ctx, "preferredDate", bson.M{
		"providerId":    providerID,
		"preferredDate": bson.M{"$gte": fromDate, "$lte": toDate},
		"status": bson.M{"$in": bson.A{
			models.RequestAccepted,
			models.RequestPaid,
			models.RequestInProgress,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list booked dates: %w", err)
	}

	dates := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			dates = append(dates, s)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// CountAll returns the total number of requests.
func (r *MongoServiceRequestRepo) CountAll() (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}

// CountByStatus returns the number of requests in the given status.
func (r *MongoServiceRequestRepo) CountByStatus(status models.RequestStatus) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{"status": status})
}
