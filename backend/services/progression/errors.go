package progression

import "errors"

var (
	// ErrNotFound reports a missing user, level, course or chapter.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState reports a submission that cannot be graded, such as
	// a chapter with no questions.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict reports a concurrent ledger write. The operation is safe
	// to retry.
	ErrConflict = errors.New("concurrent update")

	// ErrStorage reports an underlying store failure.
	ErrStorage = errors.New("storage error")
)
