package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError sends the flat error payload {"error": message} used by the
// auth and CRUD endpoints.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondViolations sends the structured validation payload
// {"status", "error", "messages", "path"} with one entry per field violation.
func respondViolations(c *gin.Context, messages []string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":   http.StatusBadRequest,
		"error":    "Validation Failed",
		"messages": messages,
		"path":     c.Request.URL.Path,
	})
}

// respondNotFound sends the structured not-found payload matching the
// validation envelope shape.
func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{
		"status":   http.StatusNotFound,
		"error":    "Not Found",
		"messages": []string{message},
		"path":     c.Request.URL.Path,
	})
}
