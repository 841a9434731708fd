package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-hall-booking/internal/repository"
)

// NotificationHandler serves the polled notification feed.  Creation
// happens server-side through the notifier; clients only list and mark
// read.
type NotificationHandler struct {
	Repo *repository.NotificationRepo
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(repo *repository.NotificationRepo) *NotificationHandler {
	if repo == nil {
		panic("nil repo passed to NewNotificationHandler")
	}
	return &NotificationHandler{Repo: repo}
}

// List handles GET /notifications.  Notifications are returned newest
// first along with an unread count for badge rendering.
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	notifs, err := h.Repo.ListByRecipient(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	unread := 0
	for i := range notifs {
		if !notifs[i].IsRead {
			unread++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"notifications": notifs,
		"count":         len(notifs),
		"unreadCount":   unread,
	})
}

// MarkRead handles PATCH /notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	switch err := h.Repo.MarkRead(c.Request().Context(), id, userID); {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "notification marked as read"})
	case errors.Is(err, repository.ErrNotificationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to access this notification"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// MarkAllRead handles PATCH /notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	n, err := h.Repo.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "all notifications marked as read", "updated": n})
}
