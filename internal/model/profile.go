package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileUser 是资料中内嵌的用户展示身份快照，
// 客户端按 user.name 查找作者的资料主页
type ProfileUser struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	Name   string             `bson:"name" json:"name"`
	Avatar string             `bson:"avatar" json:"avatar"`
}

// Profile 用户资料文档
type Profile struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User     ProfileUser        `bson:"user" json:"user"`
	Handle   string             `bson:"handle" json:"handle"` // 资料主页的唯一标识
	Company  string             `bson:"company,omitempty" json:"company,omitempty"`
	Website  string             `bson:"website,omitempty" json:"website,omitempty"`
	Location string             `bson:"location,omitempty" json:"location,omitempty"`
	Status   string             `bson:"status" json:"status"`
	Skills   []string           `bson:"skills" json:"skills"`
	Bio      string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Date     time.Time          `bson:"date" json:"date"`
}
