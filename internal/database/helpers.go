package database

import (
	"errors"
	"fmt"

	"mineaction/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ObjectID parses a hex id. A malformed id cannot name a stored document,
// so it is reported as not found.
func ObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", models.ErrNotFound, id)
	}
	return oid, nil
}

// ReadError maps driver errors on reads.
func ReadError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return err
}

// WriteError wraps a failed write so callers can match ErrWriteFailed while
// the driver cause stays inspectable.
func WriteError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", models.ErrConflict, err)
	}
	return fmt.Errorf("%w: %w", models.ErrWriteFailed, err)
}
