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

// profileRepository 实现了 ProfileRepository 接口
type profileRepository struct {
	collection *mongo.Collection
}

// NewProfileRepository 创建一个新的 profileRepository 实例
func NewProfileRepository(db *mongo.Database) *profileRepository {
	return &profileRepository{collection: db.Collection("profiles")}
}

// Create 创建一份新的用户资料
func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		util.Logger.Error("创建资料失败", zap.Error(err))
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		profile.ID = id
	}
	return nil
}

// Update 整体替换已有资料
func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": profile.ID}, profile)
	if err != nil {
		util.Logger.Error("更新资料失败", zap.Error(err), zap.String("profile_id", profile.ID.Hex()))
	}
	return err
}

// FindByUser 通过用户ID查找资料，不存在时返回 (nil, nil)
func (r *profileRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*model.Profile, error) {
	var profile model.Profile
	err := r.collection.FindOne(ctx, bson.M{"user._id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		util.Logger.Error("查找资料失败", zap.Error(err), zap.String("user_id", userID.Hex()))
		return nil, err
	}
	return &profile, nil
}

// FindByHandle 通过 handle 查找资料，不存在时返回 (nil, nil)
func (r *profileRepository) FindByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	var profile model.Profile
	err := r.collection.FindOne(ctx, bson.M{"handle": handle}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		util.Logger.Error("查找资料失败", zap.Error(err), zap.String("handle", handle))
		return nil, err
	}
	return &profile, nil
}

// FindAll 返回全部资料，供客户端按作者名查找资料主页
func (r *profileRepository) FindAll(ctx context.Context) ([]*model.Profile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		util.Logger.Error("查询资料列表失败", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	profiles := make([]*model.Profile, 0)
	if err := cursor.All(ctx, &profiles); err != nil {
		util.Logger.Error("解码资料列表失败", zap.Error(err))
		return nil, err
	}
	return profiles, nil
}

// DeleteByUser 删除用户的资料
func (r *profileRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user._id": userID})
	if err != nil {
		util.Logger.Error("删除资料失败", zap.Error(err), zap.String("user_id", userID.Hex()))
	}
	return err
}
