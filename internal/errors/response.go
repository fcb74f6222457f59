package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码与HTTP状态码映射
var errorStatusMap = map[ErrorCode]int{
	// 系统错误 (1000-1999)
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,
	ErrTimeout:  http.StatusRequestTimeout,

	// 认证错误 (2000-2999)
	ErrUnauthorized:       http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrInvalidToken:       http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusBadRequest,

	// 请求错误 (3000-3999)
	ErrBadRequest: http.StatusBadRequest,
	ErrValidation: http.StatusBadRequest,

	// 业务错误 (4000-4999)
	ErrUserNotFound:    http.StatusNotFound,
	ErrUserExists:      http.StatusBadRequest,
	ErrProfileNotFound: http.StatusNotFound,
	ErrHandleExists:    http.StatusBadRequest,
	ErrPostNotFound:    http.StatusNotFound,
	ErrCommentNotFound: http.StatusNotFound,
	ErrAlreadyLiked:    http.StatusBadRequest,
	ErrNotLiked:        http.StatusBadRequest,
	ErrNotPostOwner:    http.StatusUnauthorized,
	ErrNotCommentOwner: http.StatusUnauthorized,
}

// 错误码与响应体字段名映射。响应体形如 {"postnotfound": "..."}，
// 字段名标识具体的失败条件，客户端按字段名展示错误
var errorFieldMap = map[ErrorCode]string{
	ErrUnauthorized:    "notauthorized",
	ErrForbidden:       "notauthorized",
	ErrInvalidToken:    "notauthorized",
	ErrPostNotFound:    "postnotfound",
	ErrCommentNotFound: "commentnotexists",
	ErrAlreadyLiked:    "alreadyliked",
	ErrNotLiked:        "notliked",
	ErrNotPostOwner:    "notauthorized",
	ErrNotCommentOwner: "notauthorized",
	ErrProfileNotFound: "noprofile",
	ErrHandleExists:    "handle",
	ErrUserExists:      "email",
}

// HandleError 统一处理错误响应，并把错误挂到上下文供错误监控统计
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)

	if appErr, ok := err.(*AppError); ok {
		status := errorStatusMap[appErr.Code]
		if status == 0 {
			status = http.StatusInternalServerError
		}

		field := appErr.Field
		if field == "" {
			field = errorFieldMap[appErr.Code]
		}
		if field == "" {
			field = "error"
		}

		c.JSON(status, gin.H{field: appErr.Message})
		return
	}

	// 处理非 AppError 类型的错误
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
