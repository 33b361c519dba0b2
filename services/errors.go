package services

import (
	"errors"
	"fmt"
)

var (
	// ErrService matches every failure of the data service: transport
	// errors, non-2xx statuses and unparseable bodies.
	ErrService = errors.New("data service error")
	// ErrNotFound is returned when a single record lookup finds nothing.
	ErrNotFound = errors.New("record not found")
	// ErrEmptyFileID rejects saving a file row without a Telegram file id.
	ErrEmptyFileID = errors.New("empty file id")
)

type ServiceError struct {
	Op     string // "categories", "dishes", "sheet", "save_file", ...
	Status int    // HTTP status, 0 when no response was received
	Err    error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": " + ErrService.Error()
}

func (e *ServiceError) Unwrap() error { return e.Err }

func (e *ServiceError) Is(target error) bool { return target == ErrService }
