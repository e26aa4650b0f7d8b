package http

import (
	"net/http"

	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Session godoc
// @Summary      Returns the authenticated admin
// @Tags         admin
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /admin/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	admin, ok := r.Context().Value(AdminKey).(*domain.Admin)
	if !ok {
		fail(w, http.StatusUnauthorized, "Unauthorized: missing admin context", domain.Reason(domain.ErrUnauthorized))
		return
	}
	respond(w, http.StatusOK, "", admin)
}

// Refresh godoc
// @Summary      Issues a fresh admin token
// @Description  Exchanges a valid admin bearer token for a new one with a renewed expiry.
// @Tags         admin
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /admin/session/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	admin, ok := r.Context().Value(AdminKey).(*domain.Admin)
	if !ok {
		fail(w, http.StatusUnauthorized, "Unauthorized: missing admin context", domain.Reason(domain.ErrUnauthorized))
		return
	}

	token, err := h.authService.IssueAdminToken(admin.Subject)
	if err != nil {
		respondError(w, r, err, "Failed to refresh token")
		return
	}
	respond(w, http.StatusOK, "", map[string]string{"token": token})
}
