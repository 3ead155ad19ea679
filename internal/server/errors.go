// Package server provides the HTTP API for the resume screener.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrAccountLinkRefused indicates a Google sign-in matched an account protected by a password.
type ErrAccountLinkRefused struct {
	Email string
}

func (e *ErrAccountLinkRefused) Error() string {
	return fmt.Sprintf("an account with a password already uses %s; sign in with the password", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrLoginRequired indicates a guest has used up the free analyses.
type ErrLoginRequired struct{}

func (e *ErrLoginRequired) Error() string {
	return "login required"
}

// ErrUnavailable indicates an optional collaborator (store, model, browser) is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists   *ErrEmailAlreadyExists
		linkRefused   *ErrAccountLinkRefused
		invalidCreds  *ErrInvalidCredentials
		mismatch      *ErrPasswordMismatch
		loginRequired *ErrLoginRequired
		notFound      *ErrUserNotFound
		validation    *ErrValidation
		unavailable   *ErrUnavailable
	)
	switch {
	case errors.As(err, &emailExists), errors.As(err, &linkRefused):
		return http.StatusConflict
	case errors.As(err, &invalidCreds), errors.As(err, &mismatch), errors.As(err, &loginRequired):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
