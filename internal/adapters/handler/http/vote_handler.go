package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

type VoteHandler struct {
	service        ports.VoteService
	summaryService ports.SummaryService
}

func NewVoteHandler(service ports.VoteService, summaryService ports.SummaryService) *VoteHandler {
	return &VoteHandler{
		service:        service,
		summaryService: summaryService,
	}
}

type voteRequest struct {
	ContestantID string `json:"contestantId"`
	Platform     string `json:"platform"`
}

// GetContestants godoc
// @Summary      Lists active contestants
// @Description  Active contestants ordered by votes with their share of the total
// @Tags         voting
// @Produce      json
// @Success      200
// @Router       /voting/contestants [get]
func (h *VoteHandler) GetContestants(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Contestants(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch contestants")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*ports.ContestantList
	}{true, list})
}

// SubmitVote godoc
// @Summary      Casts a vote
// @Tags         voting
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      404
// @Failure      503
// @Router       /voting/submit [post]
func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, "Failed to submit vote")
		return
	}

	input := ports.VoteInput{
		ContestantID: req.ContestantID,
		Platform:     req.Platform,
		Fingerprint:  Fingerprint(r),
		UserAgent:    r.UserAgent(),
	}

	result, err := h.service.Vote(r.Context(), input)
	if err != nil {
		logEntry(r).WithError(err).WithField("contestant_id", req.ContestantID).Info("vote rejected")
		respondError(w, r, err, "Failed to submit vote")
		return
	}

	logEntry(r).WithFields(logrus.Fields{
		"contestant_id": result.Contestant.ID,
		"votes":         result.Contestant.Votes,
	}).Info("vote accepted")
	respond(w, http.StatusOK, "Vote submitted successfully", result)
}

func (h *VoteHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context(), Fingerprint(r))
	if err != nil {
		respondError(w, r, err, "Failed to check voting status")
		return
	}

	message := ""
	if !status.Tracked {
		message = "voting status is not tracked server-side"
	}
	respond(w, http.StatusOK, message, status)
}

func (h *VoteHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch voting statistics")
		return
	}
	respond(w, http.StatusOK, "", stats)
}

// GetHistory returns the daily vote counts produced by the summarizing job.
func (h *VoteHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	history, err := h.summaryService.History(r.Context(), chi.URLParam(r, "id"), days)
	if err != nil {
		respondError(w, r, err, "Failed to fetch vote history")
		return
	}
	respond(w, http.StatusOK, "", history)
}
