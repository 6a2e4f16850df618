package survey

import "errors"

// Precondition failures surfaced by the engine. Every mutating operation is
// all-or-nothing: a failing call leaves tallies, ledger and registry exactly
// as before.
var (
	// ErrAlreadyResponded means the caller already holds a recorded response
	// and must withdraw before submitting again.
	ErrAlreadyResponded = errors.New("participant has already responded")
	// ErrInvalidOption means an option index is out of range.
	ErrInvalidOption = errors.New("invalid option index")
	// ErrInvalidViewer means the principal cannot be used as a viewer, for
	// example the zero address or the admin on revocation.
	ErrInvalidViewer = errors.New("invalid viewer principal")
	// ErrNotAdmin means the caller is not the survey administrator.
	ErrNotAdmin = errors.New("caller is not the survey admin")
	// ErrSurveyNotActive means the survey flag is off.
	ErrSurveyNotActive = errors.New("survey is not active")
	// ErrSurveyExpired means the survey deadline has passed.
	ErrSurveyExpired = errors.New("survey deadline has passed")
	// ErrDeadlineNotLater means the new deadline does not extend the current one.
	ErrDeadlineNotLater = errors.New("new deadline must be later than the current one")
	// ErrDeadlinePassedForReopen means the survey cannot be reopened after its
	// deadline.
	ErrDeadlinePassedForReopen = errors.New("cannot reopen after the deadline")
	// ErrArityMismatch means the batch sequences differ in length.
	ErrArityMismatch = errors.New("batch sequences differ in length")
	// ErrEmptyBatch means the batch contains no elements.
	ErrEmptyBatch = errors.New("empty batch")
	// ErrViewerNotAuthorized means the principal is not in the authorized set.
	ErrViewerNotAuthorized = errors.New("viewer is not authorized")
	// ErrNoPriorResponse means the caller has no response to withdraw.
	ErrNoPriorResponse = errors.New("no prior response to withdraw")
	// ErrTooLateToWithdraw means the withdrawal buffer before the deadline has
	// been entered.
	ErrTooLateToWithdraw = errors.New("too late to withdraw")
	// ErrInvalidCount means a requested result count is not positive.
	ErrInvalidCount = errors.New("count must be positive")
	// ErrEncryptionKeyMismatch means the configured encryption service does
	// not hold the key the survey was created with. Accepting it would make
	// every new submission fail proof verification and orphan the accumulated
	// tallies, so Load refuses to bind.
	ErrEncryptionKeyMismatch = errors.New("encryption service key does not match the survey key")
)
