package post

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biqiaoran629/developerconnector/config"
	"github.com/biqiaoran629/developerconnector/internal/errors"
	"github.com/biqiaoran629/developerconnector/internal/model"
	"github.com/biqiaoran629/developerconnector/internal/service"
	"github.com/biqiaoran629/developerconnector/internal/util"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.MaxPostLength = 300
	util.InitLogger("error")
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("postlength", util.ValidatePostLength)
	}
}

// MockPostService 是 PostServiceInterface 的模拟实现
type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, authorID primitive.ObjectID, name, avatar, text string) (*model.Post, error) {
	args := m.Called(ctx, authorID, name, avatar, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) ListPosts(ctx context.Context) ([]*model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostService) GetPostByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, id, requesterID primitive.ObjectID) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

func (m *MockPostService) LikePost(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) UnlikePost(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) AddComment(ctx context.Context, postID, authorID primitive.ObjectID, name, avatar, text string) (*model.Post, error) {
	args := m.Called(ctx, postID, authorID, name, avatar, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) RemoveComment(ctx context.Context, postID, commentID, requesterID primitive.ObjectID) (*model.Post, error) {
	args := m.Called(ctx, postID, commentID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

// 确保 MockPostService 实现了 PostServiceInterface
var _ service.PostServiceInterface = (*MockPostService)(nil)

// authAs 模拟认证中间件写入的用户身份
func authAs(userID primitive.ObjectID, name, avatar string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_name", name)
		c.Set("user_avatar", avatar)
		c.Next()
	}
}

func newTestRouter(handler *PostHandler, userID primitive.ObjectID) *gin.Engine {
	router := gin.New()
	router.GET("/api/posts", handler.GetPosts)
	router.GET("/api/posts/:id", handler.GetPost)

	authed := router.Group("/", authAs(userID, "Alice", "/a.png"))
	authed.POST("/api/posts", handler.CreatePost)
	authed.DELETE("/api/posts/:id", handler.DeletePost)
	authed.POST("/api/posts/:id/like", handler.LikePost)
	authed.POST("/api/posts/:id/unlike", handler.UnlikePost)
	authed.POST("/api/posts/:id/comments", handler.AddComment)
	authed.DELETE("/api/posts/:id/comments/:comment_id", handler.DeleteComment)
	return router
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// TestGetPosts 测试帖子列表返回数组
func TestGetPosts(t *testing.T) {
	mockService := new(MockPostService)
	handler := NewPostHandler(mockService)
	router := newTestRouter(handler, primitive.NewObjectID())

	posts := []*model.Post{{ID: primitive.NewObjectID(), Text: "hello"}}
	mockService.On("ListPosts", mock.Anything).Return(posts, nil)

	req, _ := http.NewRequest("GET", "/api/posts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	mockService.AssertExpectations(t)
}

// TestGetPostNotFound 测试不存在的帖子返回 404 和 postnotfound 字段
func TestGetPostNotFound(t *testing.T) {
	mockService := new(MockPostService)
	handler := NewPostHandler(mockService)
	router := newTestRouter(handler, primitive.NewObjectID())

	id := primitive.NewObjectID()
	mockService.On("GetPostByID", mock.Anything, id).
		Return(nil, errors.New(errors.ErrPostNotFound, "No post found with that ID"))

	req, _ := http.NewRequest("GET", "/api/posts/"+id.Hex(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeBody(t, w), "postnotfound")

	// 非法的ID格式同样按不存在处理
	req, _ = http.NewRequest("GET", "/api/posts/not-an-id", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeBody(t, w), "postnotfound")
}

// TestCreatePost 测试创建帖子及校验失败的响应
func TestCreatePost(t *testing.T) {
	mockService := new(MockPostService)
	handler := NewPostHandler(mockService)
	userID := primitive.NewObjectID()
	router := newTestRouter(handler, userID)

	created := &model.Post{ID: primitive.NewObjectID(), User: userID, Text: "hello"}
	mockService.On("CreatePost", mock.Anything, userID, "Alice", "/a.png", "hello").Return(created, nil)

	req, _ := http.NewRequest("POST", "/api/posts", bytes.NewBufferString(`{"text": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", decodeBody(t, w)["text"])
	mockService.AssertExpectations(t)

	// 空文本由服务层拒绝，返回 400 和 text 字段
	mockService.On("CreatePost", mock.Anything, userID, "Alice", "/a.png", "").
		Return(nil, errors.NewField(errors.ErrValidation, "text", "Text field is required"))

	req, _ = http.NewRequest("POST", "/api/posts", bytes.NewBufferString(`{"text": ""}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w), "text")
}

// TestDeletePost 测试删除帖子的状态码映射
func TestDeletePost(t *testing.T) {
	mockService := new(MockPostService)
	handler := NewPostHandler(mockService)
	userID := primitive.NewObjectID()
	router := newTestRouter(handler, userID)

	// 所有者删除成功
	id := primitive.NewObjectID()
	mockService.On("DeletePost", mock.Anything, id, userID).Return(nil)

	req, _ := http.NewRequest("DELETE", "/api/posts/"+id.Hex(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])

	// 非所有者删除返回 401 和 notauthorized 字段
	other := primitive.NewObjectID()
	mockService.On("DeletePost", mock.Anything, other, userID).
		Return(errors.New(errors.ErrNotPostOwner, "User not authorized"))

	req, _ = http.NewRequest("DELETE", "/api/posts/"+other.Hex(), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, decodeBody(t, w), "notauthorized")
	mockService.AssertExpectations(t)
}

// TestLikePost 测试点赞及重复点赞的响应
func TestLikePost(t *testing.T) {
	mockService := new(MockPostService)
	handler := NewPostHandler(mockService)
	userID := primitive.NewObjectID()
	router := newTestRouter(handler, userID)

	id := primitive.NewObjectID()
	liked := &model.Post{ID: id, Text: "hello", Likes: []model.Like{{User: userID}}}
	mockService.On("LikePost", mock.Anything, id, userID).Return(liked, nil).Once()

	req, _ := http.NewRequest("POST", "/api/posts/"+id.Hex()+"/like", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// 重复点赞返回 400 和 alreadyliked 字段
	mockService.On("LikePost", mock.Anything, id, userID).
		Return(nil, errors.New(errors.ErrAlreadyLiked, "User already liked this post")).Once()

	req, _ = http.NewRequest("POST", "/api/posts/"+id.Hex()+"/like", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w), "alreadyliked")
	mockService.AssertExpectations(t)
}

// TestUnlikePost 测试取消未点赞帖子的响应
func TestUnlikePost(t *testing.T) {
	mockService := new(MockPostService)
	handler := NewPostHandler(mockService)
	userID := primitive.NewObjectID()
	router := newTestRouter(handler, userID)

	id := primitive.NewObjectID()
	mockService.On("UnlikePost", mock.Anything, id, userID).
		Return(nil, errors.New(errors.ErrNotLiked, "You have not yet liked this post"))

	req, _ := http.NewRequest("POST", "/api/posts/"+id.Hex()+"/unlike", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w), "notliked")
}

// TestDeleteComment 测试删除不存在评论的响应
func TestDeleteComment(t *testing.T) {
	mockService := new(MockPostService)
	handler := NewPostHandler(mockService)
	userID := primitive.NewObjectID()
	router := newTestRouter(handler, userID)

	postID := primitive.NewObjectID()
	commentID := primitive.NewObjectID()
	mockService.On("RemoveComment", mock.Anything, postID, commentID, userID).
		Return(nil, errors.New(errors.ErrCommentNotFound, "Comment does not exist"))

	req, _ := http.NewRequest("DELETE", "/api/posts/"+postID.Hex()+"/comments/"+commentID.Hex(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeBody(t, w), "commentnotexists")
}

// TestAddComment 测试添加评论返回更新后的帖子
func TestAddComment(t *testing.T) {
	mockService := new(MockPostService)
	handler := NewPostHandler(mockService)
	userID := primitive.NewObjectID()
	router := newTestRouter(handler, userID)

	postID := primitive.NewObjectID()
	updated := &model.Post{
		ID:   postID,
		Text: "hello",
		Comments: []model.Comment{
			{ID: primitive.NewObjectID(), User: userID, Text: "hi", Name: "Alice", Avatar: "/a.png"},
		},
	}
	mockService.On("AddComment", mock.Anything, postID, userID, "Alice", "/a.png", "hi").Return(updated, nil)

	req, _ := http.NewRequest("POST", "/api/posts/"+postID.Hex()+"/comments", bytes.NewBufferString(`{"text": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	comments := body["comments"].([]interface{})
	assert.Len(t, comments, 1)
	mockService.AssertExpectations(t)
}
