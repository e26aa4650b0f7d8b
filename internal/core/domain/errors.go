package domain

import "errors"

var (
	ErrValidation         = errors.New("invalid request")
	ErrContestantNotFound = errors.New("contestant not found or inactive")
	ErrQuotaExceeded      = errors.New("daily vote limit reached (3 votes per day)")
	ErrAlreadyVoted       = errors.New("you have already voted for this contestant today")
	ErrStoreUnavailable   = errors.New("database temporarily unavailable")
	ErrInternal           = errors.New("internal server error")

	ErrPostNotFound    = errors.New("blog post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrSlugTaken       = errors.New("a post with this slug already exists")
	ErrUnauthorized    = errors.New("unauthorized")
)

// ValidationError carries a user-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(message string) error {
	return &ValidationError{Message: message}
}

// Reason returns the stable machine-readable code for err.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrContestantNotFound),
		errors.Is(err, ErrPostNotFound),
		errors.Is(err, ErrCommentNotFound):
		return "not_found"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrAlreadyVoted):
		return "duplicate_vote"
	case errors.Is(err, ErrSlugTaken):
		return "conflict"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "internal_error"
	}
}
