package client

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biqiaoran629/developerconnector/internal/model"
)

// PostView 是帖子的可渲染视图：当前状态和当前用户的纯函数
type PostView struct {
	PostID        string
	Text          string
	Name          string
	Avatar        string
	ProfileHandle string // 为空表示未解析到作者资料，头像不带链接
	LikeCount     int
	LikedByViewer bool
	CanDelete     bool // 仅帖子所有者可删除
	Comments      []CommentView
}

// CommentView 是评论的可渲染视图
type CommentView struct {
	CommentID     string
	PostID        string
	Text          string
	Name          string
	Avatar        string
	ProfileHandle string
	CanDelete     bool // 仅评论作者可删除
}

// lookupHandle 按作者展示名查找资料主页，未找到时返回空串
func lookupHandle(name string, profiles []*model.Profile) string {
	for _, p := range profiles {
		if p.User.Name == name {
			return p.Handle
		}
	}
	return ""
}

// BuildPostView 根据帖子、当前用户和资料列表构建视图
func BuildPostView(post *model.Post, currentUserID primitive.ObjectID, profiles []*model.Profile) PostView {
	view := PostView{
		PostID:        post.ID.Hex(),
		Text:          post.Text,
		Name:          post.Name,
		Avatar:        post.Avatar,
		ProfileHandle: lookupHandle(post.Name, profiles),
		LikeCount:     len(post.Likes),
		LikedByViewer: post.HasLike(currentUserID),
		CanDelete:     post.User == currentUserID,
	}

	for _, comment := range post.Comments {
		view.Comments = append(view.Comments, BuildCommentView(post.ID.Hex(), comment, currentUserID, profiles))
	}
	return view
}

// BuildCommentView 根据评论和当前用户构建视图
func BuildCommentView(postID string, comment model.Comment, currentUserID primitive.ObjectID, profiles []*model.Profile) CommentView {
	return CommentView{
		CommentID:     comment.ID.Hex(),
		PostID:        postID,
		Text:          comment.Text,
		Name:          comment.Name,
		Avatar:        comment.Avatar,
		ProfileHandle: lookupHandle(comment.Name, profiles),
		CanDelete:     comment.User == currentUserID,
	}
}
