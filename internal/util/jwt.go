package util

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biqiaoran629/developerconnector/config"
)

// TokenClaims 是从访问令牌中解析出的用户身份信息
type TokenClaims struct {
	UserID primitive.ObjectID
	Name   string
	Avatar string
}

// GenerateToken 为用户签发访问令牌，载荷中携带用户的展示身份快照
func GenerateToken(userID primitive.ObjectID, name, avatar string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":     userID.Hex(),
		"name":   name,
		"avatar": avatar,
		"exp":    time.Now().Add(time.Hour * 24).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateToken 校验访问令牌并返回其中的用户身份
func ValidateToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, errors.New("令牌为空")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的令牌")
	}

	idHex, ok := claims["id"].(string)
	if !ok {
		return nil, errors.New("无效的用户ID")
	}
	userID, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, errors.New("无效的用户ID")
	}

	name, _ := claims["name"].(string)
	avatar, _ := claims["avatar"].(string)

	return &TokenClaims{
		UserID: userID,
		Name:   name,
		Avatar: avatar,
	}, nil
}

// RefreshToken 用旧令牌换发新令牌
func RefreshToken(tokenString string) (string, error) {
	claims, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	return GenerateToken(claims.UserID, claims.Name, claims.Avatar)
}
