package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biqiaoran629/developerconnector/config"
	"github.com/biqiaoran629/developerconnector/internal/model"
	"github.com/biqiaoran629/developerconnector/internal/util"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "test-secret"
	util.InitLogger("error")
}

type stubUserService struct {
	mock.Mock
}

func (s *stubUserService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	return nil, nil
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	return nil, nil
}

func (s *stubUserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return nil, nil
}

func (s *stubUserService) DeleteAccount(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

func (s *stubUserService) Logout(token string) {}

func (s *stubUserService) IsTokenBlacklisted(token string) bool {
	args := s.Called(token)
	return args.Bool(0)
}

func newAuthRouter(userService *stubUserService) *gin.Engine {
	router := gin.New()
	router.GET("/protected", AuthMiddleware(userService), func(c *gin.Context) {
		uid, _ := c.Get("user_id")
		id := uid.(primitive.ObjectID)
		c.JSON(http.StatusOK, gin.H{"user_id": id.Hex(), "name": c.GetString("user_name")})
	})
	return router
}

// TestAuthMiddlewareMissingToken 测试缺失令牌时在处理器执行前返回 401
func TestAuthMiddlewareMissingToken(t *testing.T) {
	userService := new(stubUserService)
	router := newAuthRouter(userService)

	req, _ := http.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestAuthMiddlewareInvalidToken 测试无效令牌返回 401
func TestAuthMiddlewareInvalidToken(t *testing.T) {
	userService := new(stubUserService)
	userService.On("IsTokenBlacklisted", "garbage").Return(false)
	router := newAuthRouter(userService)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestAuthMiddlewareValidToken 测试有效令牌放行并写入用户身份
func TestAuthMiddlewareValidToken(t *testing.T) {
	userID := primitive.NewObjectID()
	token, err := util.GenerateToken(userID, "Alice", "/a.png")
	assert.NoError(t, err)

	userService := new(stubUserService)
	userService.On("IsTokenBlacklisted", token).Return(false)
	router := newAuthRouter(userService)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.Hex())
}

// TestAuthMiddlewareBlacklistedToken 测试已撤销的令牌被拒绝
func TestAuthMiddlewareBlacklistedToken(t *testing.T) {
	userID := primitive.NewObjectID()
	token, err := util.GenerateToken(userID, "Alice", "/a.png")
	assert.NoError(t, err)

	userService := new(stubUserService)
	userService.On("IsTokenBlacklisted", token).Return(true)
	router := newAuthRouter(userService)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
