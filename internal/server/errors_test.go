package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestErrEmailAlreadyExists(t *testing.T) {
	err := &ErrEmailAlreadyExists{Email: "test@example.com"}
	assert.Equal(t, "email already registered: test@example.com", err.Error())
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestErrAccountLinkRefused(t *testing.T) {
	err := &ErrAccountLinkRefused{Email: "jane@example.com"}
	assert.Contains(t, err.Error(), "jane@example.com")
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestErrInvalidCredentials(t *testing.T) {
	err := &ErrInvalidCredentials{}
	assert.Equal(t, "invalid email or password", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestErrUserNotFound(t *testing.T) {
	userID := uuid.New()
	err := &ErrUserNotFound{UserID: userID}
	assert.Equal(t, "user not found: "+userID.String(), err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrPasswordMismatch(t *testing.T) {
	err := &ErrPasswordMismatch{}
	assert.Equal(t, "current password is incorrect", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "email", Message: "invalid format"}
	assert.Equal(t, "validation error: email - invalid format", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrLoginRequired(t *testing.T) {
	err := &ErrLoginRequired{}
	assert.Equal(t, "login required", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestErrUnavailable(t *testing.T) {
	err := &ErrUnavailable{Feature: "embedding model"}
	assert.Equal(t, "embedding model is not configured", err.Error())
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(err))
}

func TestHTTPStatus_WrappedAndUnknown(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", &ErrEmailAlreadyExists{Email: "a@b.c"})
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
