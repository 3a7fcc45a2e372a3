package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"anoa.com/peerreview/pkg/apperror"
)

// GetAccountID retrieves the authenticated account id from the context
func GetAccountID(c *gin.Context) (string, error) {
	accountID, exists := c.Get("account_id")
	if !exists {
		return "", apperror.ErrUnauthorized
	}

	id, ok := accountID.(string)
	if !ok || id == "" {
		return "", apperror.ErrUnauthorized
	}
	return id, nil
}

// ResponseError standardized error response. The error is also attached to
// the gin context so the transaction middleware rolls the request back.
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	_ = c.Error(err)
	c.JSON(code, gin.H{"error": err.Error()})
}
