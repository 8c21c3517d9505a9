// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Forum-specific errors.
	ErrorThreadLocked   = errors.New("thread is locked")
	ErrorThreadArchived = errors.New("thread is archived")
	ErrorNotAuthor      = errors.New("not the author")

	// Q&A and chat errors.
	ErrorNotOnFloor = errors.New("question is not on the floor")
	ErrorNotMember  = errors.New("not a chat member")
)
