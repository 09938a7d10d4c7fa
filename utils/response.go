package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope used by every endpoint. Errors carry the HTTP
// status and a message; successful calls carry data.
type Response struct {
	Status  int         `json:"status,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success responses
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Data: data,
	})
}

func SuccessMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, &Response{
		Message: "Resource created successfully",
		Data:    data,
	})
}

// Error responses
func BadRequest(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	errorResponse(c, http.StatusInternalServerError, message)
}

func RequestTooLarge(c *gin.Context, message string) {
	errorResponse(c, http.StatusRequestEntityTooLarge, message)
}

func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, &Response{
		Status:  status,
		Message: message,
	})
}
