package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	assert.True(t, errors.Is(ErrBookNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrBookNotFound, ErrAlreadyReviewed))

	wrapped := fmt.Errorf("loading book: %w", ErrBookNotFound.WithCause(errors.New("mongo: no documents")))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "Book not found", AsError(wrapped).Message)

	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "Server error", AsError(errors.New("boom")).Message)

	statuses := map[*Error]int{
		ErrNotFound:          http.StatusNotFound,
		ErrAlreadyReviewed:   http.StatusBadRequest,
		ErrNotAuthorized:     http.StatusForbidden,
		ErrTokenRequired:     http.StatusUnauthorized,
		ErrInvalidCredential: http.StatusUnauthorized,
		ErrInvalidID:         http.StatusBadRequest,
		ErrEmailTaken:        http.StatusBadRequest,
		ErrInternal:          http.StatusInternalServerError,
	}
	for e, status := range statuses {
		assert.Equal(t, status, e.Kind.HTTPStatus(), e.Message)
	}
}
