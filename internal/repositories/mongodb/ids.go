package mongodb

import (
	"errors"

	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// objectID parses a hex id. Malformed ids cannot match any document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repositories.ErrNotFound
	}
	return oid, nil
}

// translate maps driver errors onto repository errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repositories.ErrDuplicate
	default:
		return err
	}
}
