package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

type BlogHandler struct {
	service ports.BlogService
}

func NewBlogHandler(service ports.BlogService) *BlogHandler {
	return &BlogHandler{
		service: service,
	}
}

type shareRequest struct {
	Platform string `json:"platform"`
}

type commentRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Content         string `json:"content"`
	ParentCommentID string `json:"parentCommentId"`
}

func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.service.ListPosts(r.Context(), ports.ListPostsInput{
		Page:     page,
		Limit:    limit,
		Category: q.Get("category"),
	})
	if err != nil {
		respondError(w, r, err, "Failed to fetch blog posts")
		return
	}
	respond(w, http.StatusOK, "", result)
}

func (h *BlogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	posts, err := h.service.Featured(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, "Failed to fetch featured posts")
		return
	}
	respond(w, http.StatusOK, "", posts)
}

func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err, "Failed to fetch blog post")
		return
	}
	respond(w, http.StatusOK, "", post)
}

func (h *BlogHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, "Failed to record share")
		return
	}

	shares, err := h.service.Share(r.Context(), chi.URLParam(r, "slug"), req.Platform)
	if err != nil {
		respondError(w, r, err, "Failed to record share")
		return
	}
	respond(w, http.StatusOK, "Share recorded successfully", map[string]int64{"shareCount": shares})
}

func (h *BlogHandler) Comment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, "Failed to submit comment")
		return
	}

	comment, err := h.service.Comment(r.Context(), ports.CommentInput{
		Slug:            chi.URLParam(r, "slug"),
		Name:            req.Name,
		Email:           req.Email,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
		IPAddress:       Fingerprint(r),
		UserAgent:       r.UserAgent(),
	})
	if err != nil {
		respondError(w, r, err, "Failed to submit comment")
		return
	}
	respond(w, http.StatusOK, "Comment submitted successfully. It will be reviewed before publishing.", comment)
}
