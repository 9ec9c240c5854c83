package services

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors returned by the service layer. Handlers translate these
// into HTTP statuses; anything else is treated as an internal error.
var (
	ErrEmailTaken           = errors.New("user already exists")
	ErrInvalidInviteToken   = errors.New("invalid invite token")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrOldPasswordRequired  = errors.New("old password is required to change password")
	ErrOldPasswordIncorrect = errors.New("old password is incorrect")

	ErrUserNotFound    = errors.New("user not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrCommentNotFound = errors.New("comment not found")

	ErrCommentTaskMismatch = errors.New("comment does not belong to this task")
	ErrNotAuthorized       = errors.New("not authorized")
)

// lookupErr translates a FindOne decode error: a missing document becomes the
// given sentinel, anything else (network failure, server selection timeout)
// stays a store error so handlers report it as internal.
func lookupErr(err, sentinel error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return sentinel
	}
	return fmt.Errorf("failed to query store: %v", err)
}
