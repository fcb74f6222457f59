package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biqiaoran629/developerconnector/internal/model"
)

// ProfileRepository 接口定义了用户资料仓库应该实现的方法
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*model.Profile, error)
	FindByHandle(ctx context.Context, handle string) (*model.Profile, error)
	FindAll(ctx context.Context) ([]*model.Profile, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}
