package models

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrWriteFailed      = errors.New("write failed")
	ErrUploadFailed     = errors.New("upload failed")
	ErrAuthFailure      = errors.New("authentication failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	// ErrPartialFailure means the primary write committed but a follow-up
	// step (usually the audit entry) did not.
	ErrPartialFailure = errors.New("partial failure")
)
