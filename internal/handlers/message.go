package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"textbook-market/internal/conversations"
	"textbook-market/internal/observability"
	"textbook-market/internal/repositories"
	"textbook-market/internal/telemetry"
)

// MessageHandler manages the direct-messaging endpoints.
type MessageHandler struct {
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	emitter     *telemetry.EventEmitter
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, emitter *telemetry.EventEmitter) *MessageHandler {
	return &MessageHandler{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		emitter:     emitter,
	}
}

// SendMessage validates and stores a new message. Validation rejects the
// request before any storage interaction, so a failed send never leaves a
// partial write behind.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req struct {
		SenderID   int    `json:"sender_id" binding:"required"`
		ReceiverID int    `json:"receiver_id" binding:"required"`
		TextbookID *int   `json:"textbook_id"`
		Content    string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SenderID == req.ReceiverID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot message yourself"})
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), req.SenderID, req.ReceiverID, req.TextbookID, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	observability.IncMessagesSent()
	h.emitter.Emit(c.Request.Context(), "message.sent", requestIDFromContext(c), gin.H{
		"message_id":  msg.ID,
		"sender_id":   msg.SenderID,
		"receiver_id": msg.ReceiverID,
		"textbook_id": msg.TextbookID,
		"client_ip":   observability.IPFromRequest(c.Request),
	})

	c.JSON(http.StatusCreated, msg)
}

// ListConversations returns one record per counterpart the user has
// exchanged messages with, most recently active first.
func (h *MessageHandler) ListConversations(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	msgs, err := h.messageRepo.MessagesInvolving(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
		return
	}

	summaries := conversations.Aggregate(userID, msgs)

	users, err := h.userRepo.UsersByIDs(c.Request.Context(), conversations.CounterpartIDs(summaries))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user info"})
		return
	}
	nameByID := map[int]string{}
	for _, u := range users {
		nameByID[u.ID] = u.Name
	}

	type conversationResponse struct {
		CounterpartID   int       `json:"other_user_id"`
		CounterpartName string    `json:"other_user_name,omitempty"`
		LastMessage     string    `json:"last_message"`
		LastSenderID    int       `json:"sender_id"`
		IsRead          bool      `json:"is_read"`
		CreatedAt       time.Time `json:"created_at"`
	}

	responses := make([]conversationResponse, 0, len(summaries))
	for _, s := range summaries {
		// Name stays absent for unregistered counterparts; clients render
		// their own placeholder.
		responses = append(responses, conversationResponse{
			CounterpartID:   s.CounterpartID,
			CounterpartName: nameByID[s.CounterpartID],
			LastMessage:     s.Last.Content,
			LastSenderID:    s.Last.SenderID,
			IsRead:          s.Last.IsRead,
			CreatedAt:       s.Last.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": responses})
}

// OpenThread marks all unread inbound messages from the counterpart as read
// and then returns the full thread, oldest first. The mark-read update is
// idempotent, so overlapping polls of the same thread are harmless. A
// message sent mid-call may miss this pass; it stays unread until the next
// open.
func (h *MessageHandler) OpenThread(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	otherUserID, err := strconv.Atoi(c.Param("other_user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	marked, err := h.messageRepo.MarkThreadRead(c.Request.Context(), userID, otherUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark messages read"})
		return
	}
	observability.AddMessagesMarkedRead(marked)

	msgs, err := h.messageRepo.Thread(c.Request.Context(), userID, otherUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// UnreadCount returns the user's total unread message count for badge
// display.
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	count, err := h.messageRepo.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load unread count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
