package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"textbook-market/internal/mocks"
	"textbook-market/internal/models"
	"textbook-market/internal/repositories"
)

func setupMessageRouter(handler *MessageHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/messages", handler.SendMessage)
	r.GET("/messages/conversations/:user_id", handler.ListConversations)
	r.GET("/messages/unread/:user_id", handler.UnreadCount)
	r.GET("/messages/:user_id/:other_user_id", handler.OpenThread)
	return r
}

func TestSendMessageSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMessageRouter(handler)

	messageRepo.On("CreateMessage", mock.Anything, 1, 2, (*int)(nil), "hi").
		Return(models.Message{ID: 7, SenderID: 1, ReceiverID: 2, Content: "hi"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(`{"sender_id":1,"receiver_id":2,"content":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var msg models.Message
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
	assert.Equal(t, 7, msg.ID)
	assert.False(t, msg.IsRead)
	messageRepo.AssertExpectations(t)
}

func TestSendMessageWithTextbookRef(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMessageRouter(handler)

	textbookID := 42
	messageRepo.On("CreateMessage", mock.Anything, 1, 2, &textbookID, "still available?").
		Return(models.Message{ID: 8, SenderID: 1, ReceiverID: 2, TextbookID: &textbookID, Content: "still available?"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(`{"sender_id":1,"receiver_id":2,"textbook_id":42,"content":"still available?"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestSendMessageValidation(t *testing.T) {
	cases := map[string]string{
		"missing sender":   `{"receiver_id":2,"content":"hi"}`,
		"missing receiver": `{"sender_id":1,"content":"hi"}`,
		"empty content":    `{"sender_id":1,"receiver_id":2,"content":""}`,
		"to self":          `{"sender_id":1,"receiver_id":1,"content":"hi"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			messageRepo := new(mocks.MessageRepositoryMock)
			handler := NewMessageHandler(messageRepo, new(mocks.UserRepositoryMock), nil)
			router := setupMessageRouter(handler)

			req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			messageRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSendMessageRepoError(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMessageRouter(handler)

	messageRepo.On("CreateMessage", mock.Anything, 1, 2, (*int)(nil), "hi").
		Return(models.Message{}, assert.AnError).Once()

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(`{"sender_id":1,"receiver_id":2,"content":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestListConversationsSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMessageHandler(messageRepo, userRepo, nil)
	router := setupMessageRouter(handler)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	messageRepo.On("MessagesInvolving", mock.Anything, 1).Return([]models.Message{
		{ID: 1, SenderID: 1, ReceiverID: 2, Content: "hi", CreatedAt: base},
		{ID: 2, SenderID: 2, ReceiverID: 1, Content: "hello", CreatedAt: base.Add(time.Minute)},
		{ID: 3, SenderID: 3, ReceiverID: 1, Content: "book?", CreatedAt: base.Add(2 * time.Minute)},
	}, nil).Once()
	userRepo.On("UsersByIDs", mock.Anything, []int{3, 2}).Return([]models.User{
		{ID: 2, Name: "Bob", Email: "bob@campus.edu"},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/messages/conversations/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Conversations []struct {
			OtherUserID   int    `json:"other_user_id"`
			OtherUserName string `json:"other_user_name"`
			LastMessage   string `json:"last_message"`
			SenderID      int    `json:"sender_id"`
		} `json:"conversations"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Conversations, 2)

	// user 3 has the newer last message but no account name to show
	assert.Equal(t, 3, resp.Conversations[0].OtherUserID)
	assert.Empty(t, resp.Conversations[0].OtherUserName)
	assert.Equal(t, "book?", resp.Conversations[0].LastMessage)

	assert.Equal(t, 2, resp.Conversations[1].OtherUserID)
	assert.Equal(t, "Bob", resp.Conversations[1].OtherUserName)
	assert.Equal(t, "hello", resp.Conversations[1].LastMessage)
	assert.Equal(t, 2, resp.Conversations[1].SenderID)

	messageRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestListConversationsEmpty(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewMessageHandler(messageRepo, userRepo, nil)
	router := setupMessageRouter(handler)

	messageRepo.On("MessagesInvolving", mock.Anything, 9).Return([]models.Message{}, nil).Once()
	userRepo.On("UsersByIDs", mock.Anything, []int{}).Return([]models.User{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/messages/conversations/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"conversations":[]}`, rec.Body.String())
}

func TestListConversationsRepoError(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMessageRouter(handler)

	messageRepo.On("MessagesInvolving", mock.Anything, 1).Return(([]models.Message)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/messages/conversations/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestListConversationsInvalidID(t *testing.T) {
	handler := NewMessageHandler(new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock), nil)
	router := setupMessageRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/messages/conversations/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpenThreadMarksReadBeforeLoading(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMessageRouter(handler)

	marked := false
	messageRepo.On("MarkThreadRead", mock.Anything, 1, 2).Run(func(mock.Arguments) {
		marked = true
	}).Return(int64(2), nil).Once()
	messageRepo.On("Thread", mock.Anything, 1, 2).Run(func(mock.Arguments) {
		assert.True(t, marked, "thread loaded before mark-read completed")
	}).Return([]models.Message{
		{ID: 1, SenderID: 2, ReceiverID: 1, Content: "hi", IsRead: true},
		{ID: 2, SenderID: 1, ReceiverID: 2, Content: "hello"},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/messages/1/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestOpenThreadMarkReadError(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMessageRouter(handler)

	messageRepo.On("MarkThreadRead", mock.Anything, 1, 2).Return(int64(0), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/messages/1/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	messageRepo.AssertNotCalled(t, "Thread", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenThreadRepeatedCallsReturnSameThread(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMessageRouter(handler)

	thread := []models.Message{
		{ID: 1, SenderID: 2, ReceiverID: 1, Content: "hi", IsRead: true},
	}
	messageRepo.On("MarkThreadRead", mock.Anything, 1, 2).Return(int64(1), nil).Once()
	messageRepo.On("MarkThreadRead", mock.Anything, 1, 2).Return(int64(0), nil).Once()
	messageRepo.On("Thread", mock.Anything, 1, 2).Return(thread, nil).Twice()

	var bodies []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/messages/1/2", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}

	assert.Equal(t, bodies[0], bodies[1])
	messageRepo.AssertExpectations(t)
}

func TestUnreadCount(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo, new(mocks.UserRepositoryMock), nil)
	router := setupMessageRouter(handler)

	messageRepo.On("UnreadCount", mock.Anything, 2).Return(2, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/messages/unread/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())
	messageRepo.AssertExpectations(t)
}

func TestUnreadCountInvalidID(t *testing.T) {
	handler := NewMessageHandler(new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock), nil)
	router := setupMessageRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/messages/unread/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// memoryMessageRepo is an in-memory MessageRepository used to exercise the
// full send / list / open / count flow through real handler and store
// semantics.
type memoryMessageRepo struct {
	mu     sync.Mutex
	msgs   []models.Message
	nextID int
	now    time.Time
}

func newMemoryMessageRepo() *memoryMessageRepo {
	return &memoryMessageRepo{nextID: 1, now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (r *memoryMessageRepo) CreateMessage(_ context.Context, senderID int, receiverID int, textbookID *int, content string) (models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := models.Message{
		ID:         r.nextID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		TextbookID: textbookID,
		Content:    content,
		CreatedAt:  r.now,
	}
	r.nextID++
	r.now = r.now.Add(time.Second)
	r.msgs = append(r.msgs, msg)
	return msg, nil
}

func (r *memoryMessageRepo) Thread(_ context.Context, userA int, userB int) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.msgs {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memoryMessageRepo) MessagesInvolving(_ context.Context, userID int) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.msgs {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryMessageRepo) MarkThreadRead(_ context.Context, readerID int, senderID int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for i := range r.msgs {
		if r.msgs[i].ReceiverID == readerID && r.msgs[i].SenderID == senderID && !r.msgs[i].IsRead {
			r.msgs[i].IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *memoryMessageRepo) UnreadCount(_ context.Context, userID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, m := range r.msgs {
		if m.ReceiverID == userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

var _ repositories.MessageRepository = (*memoryMessageRepo)(nil)

func TestMessagingEndToEnd(t *testing.T) {
	repo := newMemoryMessageRepo()
	userRepo := new(mocks.UserRepositoryMock)
	userRepo.On("UsersByIDs", mock.Anything, mock.Anything).Return([]models.User{
		{ID: 1, Name: "Alice", Email: "alice@campus.edu"},
		{ID: 2, Name: "Bob", Email: "bob@campus.edu"},
	}, nil)

	handler := NewMessageHandler(repo, userRepo, nil)
	router := setupMessageRouter(handler)

	send := func(sender, receiver int, content string) {
		body := fmt.Sprintf(`{"sender_id":%d,"receiver_id":%d,"content":%q}`, sender, receiver, content)
		req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	unread := func(userID int) int {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/messages/unread/%d", userID), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		return resp.Count
	}

	send(1, 2, "hi")
	send(2, 1, "hello")
	send(1, 2, "how are you")

	// Alice sees one conversation with Bob, showing her latest message.
	req := httptest.NewRequest(http.MethodGet, "/messages/conversations/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var convResp struct {
		Conversations []struct {
			OtherUserID int    `json:"other_user_id"`
			LastMessage string `json:"last_message"`
			SenderID    int    `json:"sender_id"`
		} `json:"conversations"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&convResp))
	require.Len(t, convResp.Conversations, 1)
	assert.Equal(t, 2, convResp.Conversations[0].OtherUserID)
	assert.Equal(t, "how are you", convResp.Conversations[0].LastMessage)
	assert.Equal(t, 1, convResp.Conversations[0].SenderID)

	// Bob has two unread messages until he opens the thread.
	assert.Equal(t, 2, unread(2))

	openReq := httptest.NewRequest(http.MethodGet, "/messages/2/1", nil)
	openRec := httptest.NewRecorder()
	router.ServeHTTP(openRec, openReq)
	require.Equal(t, http.StatusOK, openRec.Code)
	var threadResp struct {
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(openRec.Body).Decode(&threadResp))
	require.Len(t, threadResp.Messages, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{threadResp.Messages[0].ID, threadResp.Messages[1].ID, threadResp.Messages[2].ID})
	assert.True(t, threadResp.Messages[0].IsRead)
	assert.True(t, threadResp.Messages[2].IsRead)

	assert.Equal(t, 0, unread(2))
	// Alice's outbound read flags do not affect her own unread count.
	assert.Equal(t, 1, unread(1))

	// Re-opening is idempotent.
	reopenRec := httptest.NewRecorder()
	router.ServeHTTP(reopenRec, httptest.NewRequest(http.MethodGet, "/messages/2/1", nil))
	require.Equal(t, http.StatusOK, reopenRec.Code)
	assert.Equal(t, 0, unread(2))
}
