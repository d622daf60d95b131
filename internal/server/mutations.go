package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ragequitlabs/ragewatch/internal/mutate"
	"github.com/ragequitlabs/ragewatch/internal/profile"
)

// coordinator builds a per-request mutation coordinator bound to the
// request's session.
func (h *httpHandler) coordinator(c *gin.Context) (*mutate.Coordinator, error) {
	return mutate.NewCoordinator(mutate.CoordinatorConfig{
		Sessions: requestSession(c),
		Accounts: h.accounts,
		Logger:   h.logger,
	})
}

func (h *httpHandler) mutationError(c *gin.Context, mutation string, err error) {
	switch {
	case errors.Is(err, mutate.ErrAuthenticationRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication_required"})
	case errors.Is(err, mutate.ErrInvalidIntensity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_intensity"})
	case errors.Is(err, mutate.ErrMissingClipURL):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "missing_clip_url"})
	default:
		h.metrics.ObserveMutationFailure(mutation)
		h.logger.Error("mutation failed",
			zap.String("mutation", mutation),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": mutation + "_failed"})
	}
}

type toggleFavoriteRequest struct {
	GameID int64 `json:"game_id"`
}

func (h *httpHandler) handleToggleFavorite(c *gin.Context) {
	var request toggleFavoriteRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.GameID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	coordinator, err := h.coordinator(c)
	if err != nil {
		h.mutationError(c, "favorite_toggle", err)
		return
	}

	snapshot := requestSession(c).Current()
	state := mutate.FavoriteState{}
	if snapshot.Authenticated() {
		flagged, err := h.accounts.IsFavorite(c.Request.Context(), snapshot.Visitor.ID, request.GameID)
		if err != nil {
			h.mutationError(c, "favorite_toggle", err)
			return
		}
		state.Flagged = flagged
	}

	if err := coordinator.ToggleFavorite(c.Request.Context(), &state, request.GameID); err != nil {
		h.mutationError(c, "favorite_toggle", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": state.Flagged})
}

type submitRageEventRequest struct {
	GameID    int64  `json:"game_id"`
	Intensity int    `json:"intensity"`
	Note      string `json:"note"`
}

func (h *httpHandler) handleSubmitRageEvent(c *gin.Context) {
	var request submitRageEventRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.GameID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	coordinator, err := h.coordinator(c)
	if err != nil {
		h.mutationError(c, "rage_event", err)
		return
	}

	form := mutate.RageEventForm{Intensity: request.Intensity, Note: request.Note}
	record, err := coordinator.SubmitRageEvent(c.Request.Context(), &form, request.GameID)
	if err != nil {
		h.mutationError(c, "rage_event", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"event_id":   record.EventID,
		"game_id":    record.GameID,
		"intensity":  record.Intensity,
		"note":       record.Note,
		"created_at": record.CreatedAt.UTC().Format(time.RFC3339),
		"message":    "Rage logged. Breathe.",
	})
}

type submitClipRequest struct {
	GameID int64  `json:"game_id"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

func (h *httpHandler) handleSubmitClip(c *gin.Context) {
	var request submitClipRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.GameID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	coordinator, err := h.coordinator(c)
	if err != nil {
		h.mutationError(c, "clip", err)
		return
	}

	list := mutate.ClipList{}
	form := mutate.ClipForm{URL: request.URL, Title: request.Title}
	record, err := coordinator.SubmitClip(c.Request.Context(), &list, &form, request.GameID)
	if err != nil {
		h.mutationError(c, "clip", err)
		return
	}

	rows := clipPayloads(profile.FromPersonal(list.Records))
	c.JSON(http.StatusCreated, gin.H{
		"clip": gin.H{
			"id":         record.ClipID,
			"game_id":    record.GameID,
			"url":        record.URL,
			"title":      record.Title,
			"created_at": record.CreatedAt.UTC().Format(time.RFC3339),
		},
		"clips": rows,
	})
}
