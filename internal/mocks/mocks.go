package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"textbook-market/internal/models"
	"textbook-market/internal/repositories"
)

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, senderID int, receiverID int, textbookID *int, content string) (models.Message, error) {
	args := m.Called(ctx, senderID, receiverID, textbookID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) Thread(ctx context.Context, userA int, userB int) ([]models.Message, error) {
	args := m.Called(ctx, userA, userB)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) MessagesInvolving(ctx context.Context, userID int) ([]models.Message, error) {
	args := m.Called(ctx, userID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) MarkThreadRead(ctx context.Context, readerID int, senderID int) (int64, error) {
	args := m.Called(ctx, readerID, senderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepositoryMock) UnreadCount(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) UsersByIDs(ctx context.Context, ids []int) ([]models.User, error) {
	args := m.Called(ctx, ids)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	var created models.User
	if val := args.Get(0); val != nil {
		created = val.(models.User)
	}
	return created, args.Error(1)
}

func (m *UserRepositoryMock) UpsertUsers(ctx context.Context, users []models.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) ClearUsers(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type TextbookRepositoryMock struct {
	mock.Mock
}

func (m *TextbookRepositoryMock) ListTextbooks(ctx context.Context) ([]models.Textbook, error) {
	args := m.Called(ctx)
	var books []models.Textbook
	if val := args.Get(0); val != nil {
		books = val.([]models.Textbook)
	}
	return books, args.Error(1)
}

func (m *TextbookRepositoryMock) GetTextbook(ctx context.Context, textbookID int) (models.TextbookDetail, error) {
	args := m.Called(ctx, textbookID)
	var detail models.TextbookDetail
	if val := args.Get(0); val != nil {
		detail = val.(models.TextbookDetail)
	}
	return detail, args.Error(1)
}

func (m *TextbookRepositoryMock) CreateTextbook(ctx context.Context, book models.Textbook) (models.Textbook, error) {
	args := m.Called(ctx, book)
	var created models.Textbook
	if val := args.Get(0); val != nil {
		created = val.(models.Textbook)
	}
	return created, args.Error(1)
}

type PostRepositoryMock struct {
	mock.Mock
}

func (m *PostRepositoryMock) ListPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) CreatePost(ctx context.Context, content string, authorName string, category string) (models.Post, error) {
	args := m.Called(ctx, content, authorName, category)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.TextbookRepository = (*TextbookRepositoryMock)(nil)
var _ repositories.PostRepository = (*PostRepositoryMock)(nil)
