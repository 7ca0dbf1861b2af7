package service

import "errors"

// Recoverable domain errors. Callers branch on these with errors.Is;
// handlers map them to HTTP status codes. Preconditions that the original
// contract treated as hard aborts (empty log list, caller/owner mismatch)
// are deliberately surfaced as tagged errors instead, with transactional
// storage preserving the no-partial-effect guarantee.
var (
	ErrCarNotFound          = errors.New("car not found")
	ErrCarAlreadyRegistered = errors.New("car already registered")
	ErrOwnerNotFound        = errors.New("owner not found")
	ErrNoInsurance          = errors.New("no insurance")
	ErrAlreadyHasInsurance  = errors.New("already has insurance")
	ErrNoPremiumProvided    = errors.New("no premium provided")
	ErrNoLogsProvided       = errors.New("at least one diagnostic log entry is required")
	ErrUnknownCommand       = errors.New("unknown diagnostic command")
	ErrNotOwner             = errors.New("caller is not the record owner")
)
