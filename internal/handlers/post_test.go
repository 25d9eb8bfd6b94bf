package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"textbook-market/internal/mocks"
	"textbook-market/internal/models"
)

func setupPostRouter(handler *PostHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/posts", handler.ListPosts)
	r.POST("/posts", handler.CreatePost)
	return r
}

func TestCreatePostDefaults(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	postRepo.On("CreatePost", mock.Anything, "selling notes too", "Anonymous", "General").
		Return(models.Post{ID: 1, Content: "selling notes too", AuthorName: "Anonymous", Category: "General"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewBufferString(`{"content":"selling notes too"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	postRepo.AssertExpectations(t)
}

func TestCreatePostMissingContent(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewBufferString(`{"author_name":"Sam"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	postRepo.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListPostsSuccess(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo)
	router := setupPostRouter(handler)

	postRepo.On("ListPosts", mock.Anything).Return([]models.Post{{ID: 1, Content: "hello campus"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	postRepo.AssertExpectations(t)
}
