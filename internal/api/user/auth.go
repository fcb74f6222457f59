package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/biqiaoran629/developerconnector/internal/errors"
	"github.com/biqiaoran629/developerconnector/internal/service"
	"github.com/biqiaoran629/developerconnector/internal/util"
)

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var registerData struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&registerData); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid registration data", err))
		return
	}

	user, err := h.userService.Register(c.Request.Context(), registerData.Name, registerData.Email, registerData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Login 处理用户登录请求，成功时签发 Bearer 令牌
func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid login data", err))
		return
	}

	user, err := h.userService.Login(c.Request.Context(), loginData.Email, loginData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	token, err := util.GenerateToken(user.ID, user.Name, user.Avatar)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   "Bearer " + token,
	})
}

// Current 返回当前认证用户的信息
func (h *AuthHandler) Current(c *gin.Context) {
	uid, _ := c.Get("user_id")
	userID, _ := uid.(primitive.ObjectID)

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"avatar": user.Avatar,
	})
}

// Logout 撤销当前令牌
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString("token")
	h.userService.Logout(token)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RefreshToken 用当前令牌换发新令牌
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token := c.GetString("token")
	newToken, err := util.RefreshToken(token)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "Token is not valid", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   "Bearer " + newToken,
	})
}
