package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post 帖子文档。点赞和评论作为数组内嵌在帖子文档中，
// 随帖子一起读写，随帖子删除而级联删除
type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User     primitive.ObjectID `bson:"user" json:"user"` // 帖子所有者，创建后不可变
	Text     string             `bson:"text" json:"text"`
	Name     string             `bson:"name" json:"name"`     // 作者创建时的展示名快照
	Avatar   string             `bson:"avatar" json:"avatar"` // 作者创建时的头像快照
	Likes    []Like             `bson:"likes" json:"likes"`
	Comments []Comment          `bson:"comments" json:"comments"`
	Date     time.Time          `bson:"date" json:"date"`
}

// Like 点赞记录，likes 数组中每个用户至多出现一次（由服务层保证）
type Like struct {
	User primitive.ObjectID `bson:"user" json:"user"`
}

// Comment 评论，只存在于所属帖子的 comments 数组中，没有独立的生命周期
type Comment struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	User   primitive.ObjectID `bson:"user" json:"user"`
	Text   string             `bson:"text" json:"text"`
	Name   string             `bson:"name" json:"name"`
	Avatar string             `bson:"avatar" json:"avatar"`
	Date   time.Time          `bson:"date" json:"date"`
}

// HasLike 判断用户是否已点赞
func (p *Post) HasLike(userID primitive.ObjectID) bool {
	for _, like := range p.Likes {
		if like.User == userID {
			return true
		}
	}
	return false
}

// FindComment 返回指定评论的下标，不存在时返回 -1
func (p *Post) FindComment(commentID primitive.ObjectID) int {
	for i, comment := range p.Comments {
		if comment.ID == commentID {
			return i
		}
	}
	return -1
}
