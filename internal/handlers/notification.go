package handlers

import (
	"net/http"

	"github.com/dimitrije/pickup-api/internal/middleware"
	"github.com/dimitrije/pickup-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type NotificationHandler struct {
	notificationService NotificationServiceInterface
}

func NewNotificationHandler(notificationService NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Feed returns notifications grouped by game and friend scope.
func (h *NotificationHandler) Feed(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	feed, err := h.notificationService.Fetch(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err, "failed to get notifications")
		return
	}

	_ = c.JSON(http.StatusOK, feed)
}

func (h *NotificationHandler) List(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	list, err := h.notificationService.List(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err, "failed to get notifications")
		return
	}

	_ = c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) ClearAll(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.notificationService.ClearAll(c.Request.Context(), memberID); err != nil {
		respondError(c, err, "failed to clear notifications")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "notifications cleared"})
}

func (h *NotificationHandler) ClearGame(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.ClearGame(c.Request.Context(), memberID, gameID); err != nil {
		respondError(c, err, "failed to clear notifications")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "game notifications cleared"})
}

func (h *NotificationHandler) ClearFriends(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.notificationService.ClearFriends(c.Request.Context(), memberID); err != nil {
		respondError(c, err, "failed to clear notifications")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "friend notifications cleared"})
}
