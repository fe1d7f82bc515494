package entities

import (
	"errors"
	"fmt"
)

// ErrDuplicate is returned by stores when a write violates a uniqueness key
var ErrDuplicate = errors.New("duplicate entry")

// ErrWebhookGone is wrapped by platforms when a webhook was deleted or its
// token revoked
var ErrWebhookGone = errors.New("webhook no longer exists")

// PersistenceError wraps a storage read or write failure
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError reports malformed admin input or a uniqueness conflict
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NewValidationError creates a ValidationError
func NewValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// DeliveryError reports a destination that rejected a relay copy
type DeliveryError struct {
	ChannelID int64
	WebhookID string
	Err       error
}

func (e *DeliveryError) Error() string {
	if e.WebhookID != "" {
		return fmt.Sprintf("delivery to channel %d via webhook %s failed: %v", e.ChannelID, e.WebhookID, e.Err)
	}
	return fmt.Sprintf("delivery to channel %d failed: %v", e.ChannelID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsPersistenceError reports whether err is or wraps a PersistenceError
func IsPersistenceError(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}
