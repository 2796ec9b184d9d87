package handlers

import "github.com/gin-gonic/gin"

// ErrorBody is the `{error, message}` pair carried by every failure response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const (
	errValidation = "Validation error"
	errNotFound   = "Not found"
	errDatabase   = "Database error"
)

func respondError(c *gin.Context, status int, name, message string) {
	c.JSON(status, ErrorBody{Error: name, Message: message})
}
