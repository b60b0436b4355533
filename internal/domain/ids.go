package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// ParseID parses a hex ObjectID taken from a URL path. A malformed id can
// never match a stored document, so it is reported as notFound.
func ParseID(hex string, notFound *Error) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, notFound.WithCause(err)
	}
	return id, nil
}

// ParseFilterID parses an id used as a query filter; malformed input is a
// validation failure.
func ParseFilterID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID.WithCause(err)
	}
	return id, nil
}
