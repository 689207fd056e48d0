package handlers

import (
	"fmt"
	"net/http"

	"inventory-manager/internal/middleware"
	"inventory-manager/internal/models"
	"inventory-manager/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		u := userJSON(&users[i])
		delete(u, "assigned_stores")
		out = append(out, u)
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *UserHandler) Managers(c *gin.Context) { h.listRole(c, models.RoleManager) }

func (h *UserHandler) Staff(c *gin.Context) { h.listRole(c, models.RoleStaff) }

func (h *UserHandler) listRole(c *gin.Context, role models.UserRole) {
	users, err := h.users.ListByRole(c.Request.Context(), middleware.CurrentUser(c), role)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userRefJSON(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	user, err := h.users.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var in services.RoleInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	user, err := h.users.ChangeRole(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated successfully",
		"user":    userJSON(user),
	})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	user, err := h.users.Delete(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User %q deleted successfully", user.Username)})
}
