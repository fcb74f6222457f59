package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biqiaoran629/developerconnector/internal/model"
)

// PostRepository 接口定义了帖子仓库应该实现的方法。
// 查找方法在文档不存在时返回 (nil, nil)，由服务层负责转换为业务错误
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	FindAll(ctx context.Context) ([]*model.Post, error)
	UpdateLikes(ctx context.Context, id primitive.ObjectID, likes []model.Like) error
	UpdateComments(ctx context.Context, id primitive.ObjectID, comments []model.Comment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
