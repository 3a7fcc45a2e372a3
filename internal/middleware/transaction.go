package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"anoa.com/peerreview/internal/uow"
)

// Transaction opens one unit of work per request and binds it to the
// request context. The transaction commits only when the handler chain
// finishes without errors and with a non-failure status; any handler error,
// 4xx/5xx response, or panic rolls it back.
func Transaction(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, unit, err := uow.Begin(c.Request.Context(), db)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
			return
		}
		c.Request = c.Request.WithContext(ctx)

		defer func() {
			if r := recover(); r != nil {
				if err := unit.Rollback(); err != nil {
					log.Printf("rollback after panic failed: %v", err)
				}
				panic(r)
			}
		}()

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			if err := unit.Rollback(); err != nil {
				log.Printf("rollback failed: %v", err)
			}
			return
		}
		if err := unit.Commit(); err != nil {
			log.Printf("commit failed: %v", err)
		}
	}
}
