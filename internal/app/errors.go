package app

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMessageEmpty      = errors.New("message content is empty")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUpstreamService   = errors.New("completion service unavailable")
	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
)

// DuplicateError rejects ingestion of a document whose storage path or title
// already exists, carrying the existing record so the caller can decide what
// to do. The existing record is never overwritten.
type DuplicateError struct {
	ExistingID    uint
	ExistingTitle string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("document already exists: %q (id %d)", e.ExistingTitle, e.ExistingID)
}

// QuotaError rejects a conversational turn once the daily limit is spent. It
// carries the usage snapshot so the client can show a precise message.
type QuotaError struct {
	Usage Usage
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily message limit reached (%d/%d)", e.Usage.Used, e.Usage.Limit)
}
