package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moodline/backend/internal/apperrors"
)

// httpError converts a classified error into an HTTP response. Validation,
// not-found, forbidden and invalid-action failures carry their message to
// the client; store failures are logged and answered with a generic message.
func httpError(err error) *echo.HTTPError {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("server error: %v", err)
		return echo.NewHTTPError(status, "Server error")
	}
	return echo.NewHTTPError(status, err.Error())
}

// primitiveIDFromHex parses an id, classifying a structurally invalid one
// as not-found (the record it names cannot exist)
func primitiveIDFromHex(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", apperrors.ErrNotFound, hex)
	}
	return id, nil
}

// validationIDFromHex parses an id supplied as part of a request body,
// classifying a structurally invalid one as a validation failure
func validationIDFromHex(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", apperrors.ErrValidation, hex)
	}
	return id, nil
}
