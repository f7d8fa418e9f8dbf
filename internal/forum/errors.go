package forum

import "errors"

// Sentinel errors for the forum domain. Every operation recovers from
// these at its boundary; none are fatal to the process.
var (
	// ErrNotFound indicates an absent post, user or comment.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied indicates a failed role or ownership check.
	// The guarded action is a no-op.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDuplicateVote indicates the voter is already in the
	// direction's voter set. The vote is a no-op.
	ErrDuplicateVote = errors.New("already voted")

	// ErrEmailTaken indicates a signup with an email that is already
	// registered. No account is created.
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidParent indicates a reply whose parent comment does not
	// exist or belongs to a different post.
	ErrInvalidParent = errors.New("invalid parent comment")
)
