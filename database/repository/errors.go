package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors shared by all repository packages. Services translate these
// into caller-visible rejections; they never leak raw driver errors.
var (
	// ErrNotFound is returned when no document matches the lookup.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate is returned when a unique index rejects an insert. The
	// at-most-one-row invariants live in the indexes, not in lookup-before-
	// insert checks, so concurrent writers get this instead of a second row.
	ErrDuplicate = errors.New("repository: duplicate key")
	// ErrStatusConflict is returned when a guarded status transition finds the
	// document no longer in the expected source status.
	ErrStatusConflict = errors.New("repository: status conflict")
)

// AsDuplicate maps mongo duplicate-key write errors onto ErrDuplicate and
// passes everything else through.
func AsDuplicate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
