package middleware

import (
	"log"

	"inventory-manager/internal/auth"
	"inventory-manager/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	currentUserKey = "CurrentUser"
	authMethodKey  = "AuthMethod"
)

// InjectUser resolves the caller from the session cookie or a bearer token
// and stores it on the context. Anonymous requests pass through.
func InjectUser(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		sessionValue := sess.Get(auth.SessionUserKey)

		user, method, err := resolver.Resolve(c.Request.Context(), sessionValue, c.GetHeader("Authorization"))
		if err != nil {
			log.Printf("[%s] identity resolution failed: %v", RequestIDFrom(c), err)
		}
		if err == nil && sessionValue != nil && method != auth.MethodSession {
			// the session points at a user that no longer exists
			sess.Delete(auth.SessionUserKey)
			_ = sess.Save()
		}
		if user != nil {
			c.Set(currentUserKey, user)
			c.Set(authMethodKey, method)
		}
		c.Next()
	}
}

// CurrentUser returns the caller set by InjectUser, nil when anonymous.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func AuthMethodFrom(c *gin.Context) auth.Method {
	m, _ := c.Get(authMethodKey)
	method, ok := m.(auth.Method)
	if !ok {
		return auth.MethodNone
	}
	return method
}
