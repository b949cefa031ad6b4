package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNoSession        = errors.New("no stored session")
	ErrNoSnapshot       = errors.New("no feed snapshot")
	ErrMutationInFlight = errors.New("mutation already in flight for target")
	ErrAuthRequired     = errors.New("session expired, login required")
)

// ErrorClass buckets request failures so callers branch on a stable
// taxonomy instead of raw transport details.
type ErrorClass string

const (
	ClassNetwork    ErrorClass = "network"
	ClassAuth       ErrorClass = "auth"
	ClassForbidden  ErrorClass = "forbidden"
	ClassNotFound   ErrorClass = "not_found"
	ClassValidation ErrorClass = "validation"
	ClassUnknown    ErrorClass = "unknown"
)

// RequestError is the normalized form every network-call wrapper
// re-throws. Status is zero when no response was reached.
type RequestError struct {
	Class          ErrorClass
	Status         int
	Message        string
	RequiresReauth bool
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed (%s)", e.Class)
	}
	return e.Message
}

// ClassForStatus maps an HTTP status to its error class.
func ClassForStatus(status int) ErrorClass {
	switch status {
	case 0:
		return ClassNetwork
	case http.StatusUnauthorized:
		return ClassAuth
	case http.StatusForbidden:
		return ClassForbidden
	case http.StatusNotFound:
		return ClassNotFound
	case http.StatusBadRequest:
		return ClassValidation
	default:
		return ClassUnknown
	}
}

// ClassOf extracts the error class from err, ClassUnknown when err is
// not a RequestError.
func ClassOf(err error) ErrorClass {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Class
	}
	return ClassUnknown
}

// NeedsReauth reports whether err demands a forced logout and a return
// to the login entry point.
func NeedsReauth(err error) bool {
	if errors.Is(err, ErrAuthRequired) {
		return true
	}
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.RequiresReauth
}
