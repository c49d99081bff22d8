package eventform

import (
	"errors"
	"fmt"
)

var (
	ErrNotSignedIn      = errors.New("no signed-in user")
	ErrNoChurchSelected = errors.New("no church selected")
	ErrFormClosed       = errors.New("no event form is open")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrDeleteDeclined   = errors.New("delete was not confirmed")
)

// ValidationError names the first staged field that blocks submission
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Severity() string { return "warn" }

// PermissionDenied blocks an action the caller's role does not allow
type PermissionDenied struct {
	Action string
}

func (e *PermissionDenied) Error() string {
	return "permission denied: " + e.Action
}

func (e *PermissionDenied) Severity() string { return "warn" }

// PersistenceError wraps a store failure. Its message is the store's message, unchanged.
type PersistenceError struct {
	Operation string
	Err       error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Severity() string { return "error" }

// UploadDegraded reports that an image could not be uploaded and the local URI was kept
type UploadDegraded struct {
	Warning string
	Err     error
}

func (e *UploadDegraded) Error() string {
	if e.Err == nil {
		return e.Warning
	}
	return e.Warning + ": " + e.Err.Error()
}

func (e *UploadDegraded) Unwrap() error { return e.Err }

func (e *UploadDegraded) Severity() string { return "warn" }
