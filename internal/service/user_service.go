package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/biqiaoran629/developerconnector/internal/errors"
	"github.com/biqiaoran629/developerconnector/internal/model"
	"github.com/biqiaoran629/developerconnector/internal/repository/interfaces"
	"github.com/biqiaoran629/developerconnector/internal/util"
)

// UserServiceInterface 定义用户服务对外暴露的方法
type UserServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	DeleteAccount(ctx context.Context, id primitive.ObjectID) error
	Logout(token string)
	IsTokenBlacklisted(token string) bool
}

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo       interfaces.UserRepository
	tokenBlacklist map[string]time.Time
	blacklistMutex sync.RWMutex
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository) *UserService {
	return &UserService{
		userRepo:       userRepo,
		tokenBlacklist: make(map[string]time.Time),
	}
}

// Register 注册新用户，头像使用邮箱对应的 Gravatar 快照
func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查找用户失败", err)
	}
	if existing != nil {
		return nil, errors.NewField(errors.ErrUserExists, "email", "Email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "生成密码哈希失败", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Avatar:       util.GravatarURL(email, 200),
		Date:         time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}

	util.Logger.Info("用户注册成功", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// Login 用户登录
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查找用户失败", err)
	}
	if user == nil {
		util.Logger.Warn("登录失败，用户不存在", zap.String("email", email))
		return nil, errors.NewField(errors.ErrUserNotFound, "email", "User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Warn("登录失败，密码不正确", zap.String("email", email))
		return nil, errors.NewField(errors.ErrInvalidCredentials, "password", "Password incorrect")
	}

	util.Logger.Info("用户登录成功", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查找用户失败", err)
	}
	if user == nil {
		return nil, errors.NewField(errors.ErrUserNotFound, "usernotfound", "User not found")
	}
	return user, nil
}

// DeleteAccount 注销账户
func (s *UserService) DeleteAccount(ctx context.Context, id primitive.ObjectID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "注销账户失败", err)
	}
	util.Logger.Info("账户已注销", zap.String("user_id", id.Hex()))
	return nil
}

// Logout 将令牌加入黑名单，有效期内拒绝复用
func (s *UserService) Logout(token string) {
	s.blacklistMutex.Lock()
	defer s.blacklistMutex.Unlock()
	s.tokenBlacklist[token] = time.Now().Add(time.Hour * 24)

	// 顺便清理已过期的条目
	now := time.Now()
	for t, expiry := range s.tokenBlacklist {
		if expiry.Before(now) {
			delete(s.tokenBlacklist, t)
		}
	}
}

// IsTokenBlacklisted 检查令牌是否已被撤销
func (s *UserService) IsTokenBlacklisted(token string) bool {
	s.blacklistMutex.RLock()
	defer s.blacklistMutex.RUnlock()
	expiry, ok := s.tokenBlacklist[token]
	return ok && expiry.After(time.Now())
}
