package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/biqiaoran629/developerconnector/internal/model"
	"github.com/biqiaoran629/developerconnector/internal/util"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *mongo.Database) *userRepository {
	return &userRepository{collection: db.Collection("users")}
}

// Create 创建一个新用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		util.Logger.Error("创建用户失败", zap.Error(err))
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	util.Logger.Info("用户创建成功", zap.String("user_id", user.ID.Hex()))
	return nil
}

// FindByID 通过ID查找用户，不存在时返回 (nil, nil)
func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		util.Logger.Error("查找用户失败", zap.Error(err), zap.String("user_id", id.Hex()))
		return nil, err
	}
	return &user, nil
}

// FindByEmail 通过邮箱查找用户，不存在时返回 (nil, nil)
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		util.Logger.Error("查找用户失败", zap.Error(err), zap.String("email", email))
		return nil, err
	}
	return &user, nil
}

// Delete 删除用户
func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		util.Logger.Error("删除用户失败", zap.Error(err), zap.String("user_id", id.Hex()))
	}
	return err
}
