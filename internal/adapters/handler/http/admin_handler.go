package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

type AdminHandler struct {
	contestants ports.ContestantService
	blog        ports.BlogService
}

func NewAdminHandler(contestants ports.ContestantService, blog ports.BlogService) *AdminHandler {
	return &AdminHandler{
		contestants: contestants,
		blog:        blog,
	}
}

func (h *AdminHandler) ListContestants(w http.ResponseWriter, r *http.Request) {
	contestants, err := h.contestants.List(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch contestants")
		return
	}
	respond(w, http.StatusOK, "", contestants)
}

func (h *AdminHandler) CreateContestant(w http.ResponseWriter, r *http.Request) {
	var input ports.ContestantInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, err, "Failed to create contestant")
		return
	}

	contestant, err := h.contestants.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, err, "Failed to create contestant")
		return
	}
	respond(w, http.StatusCreated, "Contestant created successfully", contestant)
}

func (h *AdminHandler) UpdateContestant(w http.ResponseWriter, r *http.Request) {
	var input ports.ContestantInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, err, "Failed to update contestant")
		return
	}

	contestant, err := h.contestants.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondError(w, r, err, "Failed to update contestant")
		return
	}
	respond(w, http.StatusOK, "Contestant updated successfully", contestant)
}

func (h *AdminHandler) DeleteContestant(w http.ResponseWriter, r *http.Request) {
	if err := h.contestants.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err, "Failed to delete contestant")
		return
	}
	respond(w, http.StatusOK, "Contestant deleted successfully", nil)
}

func (h *AdminHandler) DecrementVotes(w http.ResponseWriter, r *http.Request) {
	contestant, err := h.contestants.DecrementVotes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, "Failed to decrement votes")
		return
	}
	respond(w, http.StatusOK, "Vote removed successfully", contestant)
}

func (h *AdminHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListAll(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch blog posts")
		return
	}
	respond(w, http.StatusOK, "", posts)
}

func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var input ports.PostInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, err, "Failed to create blog post")
		return
	}

	post, err := h.blog.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, err, "Failed to create blog post")
		return
	}
	respond(w, http.StatusCreated, "Blog post created successfully", post)
}

func (h *AdminHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var input ports.PostInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, err, "Failed to update blog post")
		return
	}

	post, err := h.blog.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondError(w, r, err, "Failed to update blog post")
		return
	}
	respond(w, http.StatusOK, "Blog post updated successfully", post)
}

func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.blog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err, "Failed to delete blog post")
		return
	}
	respond(w, http.StatusOK, "Blog post deleted successfully", nil)
}

func (h *AdminHandler) ApproveComment(w http.ResponseWriter, r *http.Request) {
	if err := h.blog.ModerateComment(r.Context(), chi.URLParam(r, "id"), true, false); err != nil {
		respondError(w, r, err, "Failed to approve comment")
		return
	}
	respond(w, http.StatusOK, "Comment approved", nil)
}

func (h *AdminHandler) MarkSpam(w http.ResponseWriter, r *http.Request) {
	if err := h.blog.ModerateComment(r.Context(), chi.URLParam(r, "id"), false, true); err != nil {
		respondError(w, r, err, "Failed to mark comment as spam")
		return
	}
	respond(w, http.StatusOK, "Comment marked as spam", nil)
}
