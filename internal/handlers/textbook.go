package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"textbook-market/internal/models"
	"textbook-market/internal/repositories"
	"textbook-market/internal/telemetry"
)

// TextbookHandler manages listing endpoints.
type TextbookHandler struct {
	textbookRepo repositories.TextbookRepository
	emitter      *telemetry.EventEmitter
}

// NewTextbookHandler builds a TextbookHandler.
func NewTextbookHandler(textbookRepo repositories.TextbookRepository, emitter *telemetry.EventEmitter) *TextbookHandler {
	return &TextbookHandler{textbookRepo: textbookRepo, emitter: emitter}
}

// ListTextbooks returns all listings, newest first.
func (h *TextbookHandler) ListTextbooks(c *gin.Context) {
	books, err := h.textbookRepo.ListTextbooks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load textbooks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"textbooks": books})
}

// GetTextbook returns one listing with the seller account resolved from the
// contact email. Buyers use the seller id to start a chat from the listing
// page.
func (h *TextbookHandler) GetTextbook(c *gin.Context) {
	textbookID, err := strconv.Atoi(c.Param("textbook_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid textbook id"})
		return
	}

	detail, err := h.textbookRepo.GetTextbook(c.Request.Context(), textbookID)
	if err != nil {
		if errors.Is(err, repositories.ErrTextbookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "textbook not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load textbook"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// CreateTextbook stores a new listing.
func (h *TextbookHandler) CreateTextbook(c *gin.Context) {
	var req struct {
		Title           string  `json:"title" binding:"required"`
		Subject         *string `json:"subject"`
		CourseNumber    *string `json:"course_number"`
		ConditionStatus *string `json:"condition_status"`
		Price           float64 `json:"price" binding:"required"`
		SellerContact   string  `json:"seller_contact" binding:"required"`
		Description     *string `json:"description"`
		ImageURL        *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.textbookRepo.CreateTextbook(c.Request.Context(), models.Textbook{
		Title:           req.Title,
		Subject:         req.Subject,
		CourseNumber:    req.CourseNumber,
		ConditionStatus: req.ConditionStatus,
		Price:           req.Price,
		SellerContact:   req.SellerContact,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create textbook"})
		return
	}

	h.emitter.Emit(c.Request.Context(), "textbook.created", requestIDFromContext(c), gin.H{
		"textbook_id":    book.ID,
		"title":          book.Title,
		"price":          book.Price,
		"seller_contact": book.SellerContact,
	})

	c.JSON(http.StatusCreated, book)
}
