package service

import (
	"errors"
	"fmt"
)

// NotFoundError signals that an entity id does not exist. For get-by-id the
// services return absent (nil) instead; update and delete on a missing id
// fail hard with this error so the HTTP layer can map it to 404.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Resource, e.ID)
}

// NewNotFound creates a NotFoundError for the given resource and id
func NewNotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
