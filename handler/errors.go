package handler

import (
	"errors"
	"log"

	"notetasks/repository"
	"notetasks/usecase"
	"notetasks/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the error envelope. Unexpected
// failures are logged and reported without detail.
func respondError(c *gin.Context, err error) {
	var vErr *usecase.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.BadRequest(c, vErr.Message)
	case errors.Is(err, repository.ErrNoteNotFound):
		utils.NotFound(c, "Note not found")
	case errors.Is(err, repository.ErrTaskNotFound):
		utils.NotFound(c, "Task not found")
	case errors.Is(err, repository.ErrNotFound):
		utils.NotFound(c, "Resource not found")
	default:
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.TrackError("server", "internal_error")
		utils.InternalError(c, "Server error")
	}
}
