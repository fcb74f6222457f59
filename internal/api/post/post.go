package post

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/biqiaoran629/developerconnector/internal/errors"
	"github.com/biqiaoran629/developerconnector/internal/service"
	"github.com/biqiaoran629/developerconnector/internal/util"
)

// PostHandler 处理帖子相关的HTTP请求
type PostHandler struct {
	postService service.PostServiceInterface
}

// NewPostHandler 创建一个新的 PostHandler 实例
func NewPostHandler(postService service.PostServiceInterface) *PostHandler {
	return &PostHandler{postService}
}

// postRequest 帖子和评论共用的请求体
type postRequest struct {
	Text string `json:"text" binding:"postlength"`
}

// currentUser 从认证中间件写入的上下文中取出请求者身份
func currentUser(c *gin.Context) (primitive.ObjectID, string, string) {
	uid, _ := c.Get("user_id")
	id, _ := uid.(primitive.ObjectID)
	return id, c.GetString("user_name"), c.GetString("user_avatar")
}

// parsePostID 解析路径中的帖子ID，格式非法视同帖子不存在
func parsePostID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrPostNotFound, "No post found with that ID"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// GetPosts 返回全部帖子，按创建时间倒序
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.postService.ListPosts(c.Request.Context())
	if err != nil {
		util.Logger.Error("获取帖子列表失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost 返回单个帖子
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.postService.GetPostByID(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost 创建新帖子，作者身份取自认证令牌中的快照
func (h *PostHandler) CreatePost(c *gin.Context) {
	var body postRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		errors.HandleError(c, errors.NewField(errors.ErrValidation, "text", "Text field is invalid"))
		return
	}

	userID, name, avatar := currentUser(c)
	post, err := h.postService.CreatePost(c.Request.Context(), userID, name, avatar, body.Text)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost 删除帖子，只有所有者可以删除
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	userID, _, _ := currentUser(c)
	if err := h.postService.DeletePost(c.Request.Context(), id, userID); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// LikePost 点赞
func (h *PostHandler) LikePost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	userID, _, _ := currentUser(c)
	post, err := h.postService.LikePost(c.Request.Context(), id, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// UnlikePost 取消点赞
func (h *PostHandler) UnlikePost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	userID, _, _ := currentUser(c)
	post, err := h.postService.UnlikePost(c.Request.Context(), id, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// AddComment 给帖子添加评论
func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	var body postRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		errors.HandleError(c, errors.NewField(errors.ErrValidation, "text", "Text field is invalid"))
		return
	}

	userID, name, avatar := currentUser(c)
	post, err := h.postService.AddComment(c.Request.Context(), id, userID, name, avatar, body.Text)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeleteComment 从帖子中删除评论
func (h *PostHandler) DeleteComment(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("comment_id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrCommentNotFound, "Comment does not exist"))
		return
	}

	userID, _, _ := currentUser(c)
	post, err := h.postService.RemoveComment(c.Request.Context(), id, commentID, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}
