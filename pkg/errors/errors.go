package errors

import (
	"errors"
	"fmt"
)

// Domain error types for the assistant service

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")

	// ErrExternal indicates an upstream API failure
	ErrExternal = errors.New("external service error")
)

// Perception-specific errors
//
// These carry the human-readable messages surfaced to clients when a
// monitoring cycle cannot produce detections.

var (
	// ErrCameraUnavailable indicates no capture backend could be opened
	ErrCameraUnavailable = errors.New("camera not accessible")

	// ErrFrameCapture indicates a frame read failed after the camera opened
	ErrFrameCapture = errors.New("failed to capture frame")

	// ErrDetectorUnavailable indicates the detection model is not loaded
	ErrDetectorUnavailable = errors.New("detector not initialized")

	// ErrNoDetectionResult indicates the detector returned no result object
	ErrNoDetectionResult = errors.New("detector returned no result")
)

// Session-specific errors

var (
	// ErrSessionNotFound indicates an unknown session identifier
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionStopped indicates the session was already stopped
	ErrSessionStopped = errors.New("session stopped")
)

// DomainError wraps an error with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
