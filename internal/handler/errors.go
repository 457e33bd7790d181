package handler

import (
	"errors"
	"net/http"

	"gruas-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// statusForError maps service sentinel errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, service.ErrImmutableState):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// currentUserID extracts the authenticated user's ID set by the auth middleware
func currentUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	idStr, _ := userID.(string)
	return idStr
}
