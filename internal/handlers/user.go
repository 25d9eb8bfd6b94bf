package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"textbook-market/internal/models"
	"textbook-market/internal/repositories"
)

// UserHandler manages user account endpoints.
type UserHandler struct {
	userRepo repositories.UserRepository
	seedPath string
}

// NewUserHandler builds a UserHandler. seedPath points at the JSON file
// used by the bulk-load endpoint.
func NewUserHandler(userRepo repositories.UserRepository, seedPath string) *UserHandler {
	return &UserHandler{userRepo: userRepo, seedPath: seedPath}
}

// ListUsers returns all registered users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser registers a single user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		ID    int     `json:"id"`
		Name  string  `json:"name" binding:"required"`
		Email string  `json:"email" binding:"required"`
		Age   *int    `json:"age"`
		City  *string `json:"city"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.CreateUser(c.Request.Context(), models.User{
		ID:    req.ID,
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
		City:  req.City,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": "user with this id or email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// LoadUsers bulk-loads seed users from the configured JSON file.
func (h *UserHandler) LoadUsers(c *gin.Context) {
	data, err := os.ReadFile(h.seedPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read seed file"})
		return
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "malformed seed file"})
		return
	}

	if err := h.userRepo.UpsertUsers(c.Request.Context(), users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"loaded": len(users)})
}

// Login resolves a user by email. No password for now; the marketplace is
// campus-internal.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ClearUsers removes every user.
func (h *UserHandler) ClearUsers(c *gin.Context) {
	if err := h.userRepo.ClearUsers(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear users"})
		return
	}
	c.Status(http.StatusNoContent)
}
