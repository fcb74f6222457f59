package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/biqiaoran629/developerconnector/internal/errors"
	"github.com/biqiaoran629/developerconnector/internal/model"
	"github.com/biqiaoran629/developerconnector/internal/repository/interfaces"
	"github.com/biqiaoran629/developerconnector/internal/util"
)

// PostServiceInterface 定义帖子服务对外暴露的方法
type PostServiceInterface interface {
	CreatePost(ctx context.Context, authorID primitive.ObjectID, name, avatar, text string) (*model.Post, error)
	ListPosts(ctx context.Context) ([]*model.Post, error)
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	DeletePost(ctx context.Context, id, requesterID primitive.ObjectID) error
	LikePost(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error)
	UnlikePost(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error)
	AddComment(ctx context.Context, postID, authorID primitive.ObjectID, name, avatar, text string) (*model.Post, error)
	RemoveComment(ctx context.Context, postID, commentID, requesterID primitive.ObjectID) (*model.Post, error)
}

// PostService 处理帖子相关的全部业务规则，是唯一允许修改帖子的组件。
// 所有修改操作都是对单个帖子文档的读-改-写，最后写入者胜出，
// 没有版本检查
type PostService struct {
	postRepo interfaces.PostRepository

	maxTextLength int
	// commentOwnerOnly 控制删除评论时是否校验评论作者。
	// 原始行为不校验，这里默认开启校验并保留配置开关
	commentOwnerOnly bool
}

// NewPostService 创建一个新的 PostService 实例
func NewPostService(postRepo interfaces.PostRepository, maxTextLength int, commentOwnerOnly bool) *PostService {
	return &PostService{
		postRepo:         postRepo,
		maxTextLength:    maxTextLength,
		commentOwnerOnly: commentOwnerOnly,
	}
}

// validateText 校验帖子或评论文本：非空且不超过配置的长度上限
func (s *PostService) validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.NewField(errors.ErrValidation, "text", "Text field is required")
	}
	if utf8.RuneCountInString(text) > s.maxTextLength {
		return errors.NewField(errors.ErrValidation, "text",
			fmt.Sprintf("Text must not exceed %d characters", s.maxTextLength))
	}
	return nil
}

// findPost 查找帖子并把缺失转换为业务错误
func (s *PostService) findPost(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查找帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "No post found with that ID")
	}
	return post, nil
}

// CreatePost 创建新帖子，likes 和 comments 初始为空
func (s *PostService) CreatePost(ctx context.Context, authorID primitive.ObjectID, name, avatar, text string) (*model.Post, error) {
	if err := s.validateText(text); err != nil {
		return nil, err
	}

	post := &model.Post{
		User:     authorID,
		Text:     text,
		Name:     name,
		Avatar:   avatar,
		Likes:    []model.Like{},
		Comments: []model.Comment{},
		Date:     time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建帖子失败", err)
	}
	return post, nil
}

// ListPosts 返回所有帖子，按创建时间倒序
func (s *PostService) ListPosts(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.postRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子列表失败", err)
	}
	return posts, nil
}

// GetPostByID 通过ID获取帖子
func (s *PostService) GetPostByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	return s.findPost(ctx, id)
}

// DeletePost 删除帖子，只有帖子所有者可以删除，评论随文档级联删除
func (s *PostService) DeletePost(ctx context.Context, id, requesterID primitive.ObjectID) error {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return err
	}

	if post.User != requesterID {
		util.Logger.Warn("非所有者尝试删除帖子",
			zap.String("post_id", id.Hex()),
			zap.String("requester_id", requesterID.Hex()))
		return errors.New(errors.ErrNotPostOwner, "User not authorized")
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除帖子失败", err)
	}
	return nil
}

// LikePost 点赞。操作有意设计为非幂等：重复点赞被拒绝而不是静默接受
func (s *PostService) LikePost(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error) {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.HasLike(userID) {
		return nil, errors.New(errors.ErrAlreadyLiked, "User already liked this post")
	}

	post.Likes = append([]model.Like{{User: userID}}, post.Likes...)
	if err := s.postRepo.UpdateLikes(ctx, id, post.Likes); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "更新点赞失败", err)
	}
	return post, nil
}

// UnlikePost 取消点赞，未点赞时拒绝
func (s *PostService) UnlikePost(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error) {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, like := range post.Likes {
		if like.User == userID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, errors.New(errors.ErrNotLiked, "You have not yet liked this post")
	}

	post.Likes = append(post.Likes[:index], post.Likes[index+1:]...)
	if err := s.postRepo.UpdateLikes(ctx, id, post.Likes); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "更新点赞失败", err)
	}
	return post, nil
}

// AddComment 在帖子的评论数组头部插入新评论
func (s *PostService) AddComment(ctx context.Context, postID, authorID primitive.ObjectID, name, avatar, text string) (*model.Post, error) {
	if err := s.validateText(text); err != nil {
		return nil, err
	}

	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := model.Comment{
		ID:     primitive.NewObjectID(),
		User:   authorID,
		Text:   text,
		Name:   name,
		Avatar: avatar,
		Date:   time.Now(),
	}

	post.Comments = append([]model.Comment{comment}, post.Comments...)
	if err := s.postRepo.UpdateComments(ctx, postID, post.Comments); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "更新评论失败", err)
	}
	return post, nil
}

// RemoveComment 从帖子的评论数组中移除指定评论。
// commentOwnerOnly 开启时只有评论作者本人可以删除
func (s *PostService) RemoveComment(ctx context.Context, postID, commentID, requesterID primitive.ObjectID) (*model.Post, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	index := post.FindComment(commentID)
	if index == -1 {
		return nil, errors.New(errors.ErrCommentNotFound, "Comment does not exist")
	}

	if s.commentOwnerOnly && post.Comments[index].User != requesterID {
		util.Logger.Warn("非评论作者尝试删除评论",
			zap.String("post_id", postID.Hex()),
			zap.String("comment_id", commentID.Hex()),
			zap.String("requester_id", requesterID.Hex()))
		return nil, errors.New(errors.ErrNotCommentOwner, "User not authorized")
	}

	post.Comments = append(post.Comments[:index], post.Comments[index+1:]...)
	if err := s.postRepo.UpdateComments(ctx, postID, post.Comments); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "更新评论失败", err)
	}
	return post, nil
}
