package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User 结构体表示用户模型
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"` // 密码哈希不应在JSON中暴露
	Avatar       string             `bson:"avatar" json:"avatar"`
	Date         time.Time          `bson:"date" json:"date"`
}
