package middleware

import (
	"errors"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/models"
	"inventory-manager/internal/policy"

	"github.com/gin-gonic/gin"
)

// RequireAuth stops requests without a resolved identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			abortWithError(c, apperr.Unauthenticated(policy.ReasonUnauthenticated))
			return
		}
		c.Next()
	}
}

// RequireRole lets the request through when the caller holds one of roles.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := policy.RequireRole(policy.SubjectOf(CurrentUser(c)), roles...)
		if err := decision.Err(); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	msg := err.Error()
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Message != "" {
		msg = ae.Message
	}
	c.AbortWithStatusJSON(apperr.Status(err), gin.H{"error": msg})
}
