package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vncsmyrnk/fanvote/internal/core/domain"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func fail(w http.ResponseWriter, status int, message, reason string) {
	writeJSON(w, status, envelope{Success: false, Message: message, Reason: reason})
}

// respondError maps err onto a status code and a user-facing message.
// Unexpected errors are logged and replaced with fallback.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	reason := domain.Reason(err)

	var message string
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		message = validation.Message
	case status == http.StatusInternalServerError:
		logEntry(r).WithError(err).Error(fallback)
		message = fallback
	case status == http.StatusServiceUnavailable:
		logEntry(r).WithError(err).Warn("store unavailable")
		message = capitalize(domain.ErrStoreUnavailable.Error())
	default:
		message = capitalize(rootMessage(err))
	}

	fail(w, status, message, reason)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrQuotaExceeded),
		errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrSlugTaken):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrContestantNotFound),
		errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrCommentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// rootMessage returns the text of the domain sentinel err wraps, so wrapping
// context from lower layers never reaches the client.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrQuotaExceeded,
		domain.ErrAlreadyVoted,
		domain.ErrContestantNotFound,
		domain.ErrPostNotFound,
		domain.ErrCommentNotFound,
		domain.ErrSlugTaken,
		domain.ErrUnauthorized,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Invalid("Invalid request body")
	}
	return nil
}
