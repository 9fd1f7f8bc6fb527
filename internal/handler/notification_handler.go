package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/service"
)

// NotificationHandler serves the per-member notification feed
type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	_, profileID, ok := identityOr401(w, r)
	if !ok {
		return
	}

	notifications, err := h.notificationService.GetNotifications(r.Context(), profileID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	_, profileID, ok := identityOr401(w, r)
	if !ok {
		return
	}

	count, err := h.notificationService.GetUnreadCount(r.Context(), profileID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	_, profileID, ok := identityOr401(w, r)
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkAsRead(r.Context(), profileID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, notification)
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	_, profileID, ok := identityOr401(w, r)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllAsRead(r.Context(), profileID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "all notifications marked as read"})
}
