package api

import (
	"net/http"

	"food_app/internal/service"

	"github.com/gin-gonic/gin"
)

// ListNotificationsHandler returns a user's notifications, newest first
func ListNotificationsHandler(notifications *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "id")
		if !ok || !selfOrAdmin(c, userID) {
			return
		}
		list, err := notifications.ListByUser(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		unread := 0
		for _, n := range list {
			if !n.IsRead {
				unread++
			}
		}
		respond(c, http.StatusOK, gin.H{"notifications": list, "unread": unread})
	}
}

// MarkNotificationReadHandler flags one notification as read; only its owner or an admin may
func MarkNotificationReadHandler(notifications *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		n, err := notifications.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		if !selfOrAdmin(c, n.UserID) {
			return
		}
		if err := notifications.MarkRead(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"message": "Notification marked as read"})
	}
}

// MarkAllNotificationsReadHandler flags every unread notification of a user
func MarkAllNotificationsReadHandler(notifications *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathID(c, "id")
		if !ok || !selfOrAdmin(c, userID) {
			return
		}
		n, err := notifications.MarkAllRead(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": n})
	}
}
