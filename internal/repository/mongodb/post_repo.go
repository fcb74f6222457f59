package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/biqiaoran629/developerconnector/internal/model"
	"github.com/biqiaoran629/developerconnector/internal/util"
)

// postRepository 实现了 PostRepository 接口
type postRepository struct {
	collection *mongo.Collection
}

// NewPostRepository 创建一个新的 postRepository 实例
func NewPostRepository(db *mongo.Database) *postRepository {
	return &postRepository{collection: db.Collection("posts")}
}

// Create 创建一个新帖子
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	result, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		post.ID = id
	}
	util.Logger.Info("帖子创建成功", zap.String("post_id", post.ID.Hex()))
	return nil
}

// FindByID 通过ID查找帖子，不存在时返回 (nil, nil)
func (r *postRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		util.Logger.Error("查找帖子失败", zap.Error(err), zap.String("post_id", id.Hex()))
		return nil, err
	}
	return &post, nil
}

// FindAll 返回所有帖子，按创建时间倒序
func (r *postRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		util.Logger.Error("查询帖子列表失败", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := make([]*model.Post, 0)
	if err := cursor.All(ctx, &posts); err != nil {
		util.Logger.Error("解码帖子列表失败", zap.Error(err))
		return nil, err
	}
	return posts, nil
}

// UpdateLikes 原地替换帖子的点赞数组。单次 $set 在文档级别是原子的，
// 但并发写之间是最后写入者胜出，没有版本检查
func (r *postRepository) UpdateLikes(ctx context.Context, id primitive.ObjectID, likes []model.Like) error {
	if likes == nil {
		likes = []model.Like{}
	}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"likes": likes}})
	if err != nil {
		util.Logger.Error("更新点赞失败", zap.Error(err), zap.String("post_id", id.Hex()))
	}
	return err
}

// UpdateComments 原地替换帖子的评论数组，写入语义同 UpdateLikes
func (r *postRepository) UpdateComments(ctx context.Context, id primitive.ObjectID, comments []model.Comment) error {
	if comments == nil {
		comments = []model.Comment{}
	}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"comments": comments}})
	if err != nil {
		util.Logger.Error("更新评论失败", zap.Error(err), zap.String("post_id", id.Hex()))
	}
	return err
}

// Delete 删除帖子，内嵌的评论随文档一并删除
func (r *postRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		util.Logger.Error("删除帖子失败", zap.Error(err), zap.String("post_id", id.Hex()))
		return err
	}
	util.Logger.Info("帖子删除成功", zap.String("post_id", id.Hex()))
	return nil
}
