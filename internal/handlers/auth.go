package handlers

import (
	"errors"
	"log"
	"net/http"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/auth"
	"inventory-manager/internal/middleware"
	"inventory-manager/internal/models"
	"inventory-manager/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users  *services.UserService
	authn  *auth.Authenticator
	tokens auth.TokenStore
}

func NewAuthHandler(users *services.UserService, authn *auth.Authenticator, tokens auth.TokenStore) *AuthHandler {
	return &AuthHandler{users: users, authn: authn, tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	user, err := h.users.Register(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user": gin.H{
			"id":              user.ID,
			"username":        user.Username,
			"email":           user.Email,
			"role":            user.Role,
			"assigned_stores": storeRefsJSON(user.AssignedStores),
		},
	})
}

// Login starts a session and issues a bearer token for clients that
// cannot keep cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.authn.Authenticate(ctx, req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(c, apperr.Unauthenticated("Invalid credentials"))
		return
	}
	if err != nil {
		writeError(c, apperr.Internal("authentication failed", err))
		return
	}

	token, err := auth.NewToken()
	if err != nil {
		writeError(c, apperr.Internal("failed to issue token", err))
		return
	}
	if err := h.tokens.Put(ctx, token, user.ID); err != nil {
		writeError(c, apperr.Internal("failed to store token", err))
		return
	}

	sess := sessions.Default(c)
	sess.Set(auth.SessionUserKey, user.ID)
	if err := sess.Save(); err != nil {
		log.Printf("[%s] failed to save session: %v", middleware.RequestIDFrom(c), err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Logout revokes the presented bearer token and clears the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, ok := auth.BearerToken(c.GetHeader("Authorization")); ok {
		if err := h.tokens.Delete(c.Request.Context(), token); err != nil {
			log.Printf("[%s] failed to revoke token: %v", middleware.RequestIDFrom(c), err)
		}
	}

	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		writeError(c, apperr.Unauthenticated("Not authenticated"))
		return
	}

	out := profileJSON(user)
	if user.Role == models.RoleManager {
		stores, err := h.users.ManagedStores(c.Request.Context(), user.ID)
		if err != nil {
			writeError(c, apperr.Internal("failed to load managed stores", err))
			return
		}
		out["managed_stores"] = storeRefsJSON(stores)
	}
	c.JSON(http.StatusOK, gin.H{"user": out})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var in services.ProfileInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    profileJSON(user),
	})
}
