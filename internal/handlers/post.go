package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"textbook-market/internal/repositories"
)

// PostHandler manages community board endpoints.
type PostHandler struct {
	postRepo repositories.PostRepository
}

// NewPostHandler builds a PostHandler.
func NewPostHandler(postRepo repositories.PostRepository) *PostHandler {
	return &PostHandler{postRepo: postRepo}
}

// ListPosts returns all posts, newest first.
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.postRepo.ListPosts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// CreatePost stores a post. Missing author and category fall back to the
// board defaults.
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req struct {
		Content    string `json:"content" binding:"required"`
		AuthorName string `json:"author_name"`
		Category   string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AuthorName == "" {
		req.AuthorName = "Anonymous"
	}
	if req.Category == "" {
		req.Category = "General"
	}

	post, err := h.postRepo.CreatePost(c.Request.Context(), req.Content, req.AuthorName, req.Category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}
