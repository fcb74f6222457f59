package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biqiaoran629/developerconnector/internal/errors"
	"github.com/biqiaoran629/developerconnector/internal/model"
	"github.com/biqiaoran629/developerconnector/internal/repository/interfaces"
)

// ProfileService 处理用户资料的业务逻辑
type ProfileService struct {
	profileRepo interfaces.ProfileRepository
}

// NewProfileService 创建一个新的 ProfileService 实例
func NewProfileService(profileRepo interfaces.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo}
}

// CreateOrUpdate 创建或更新当前用户的资料，handle 必须全局唯一
func (s *ProfileService) CreateOrUpdate(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	if profile.Handle == "" {
		return nil, errors.NewField(errors.ErrValidation, "handle", "Profile handle is required")
	}

	byHandle, err := s.profileRepo.FindByHandle(ctx, profile.Handle)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查找资料失败", err)
	}
	if byHandle != nil && byHandle.User.ID != profile.User.ID {
		return nil, errors.NewField(errors.ErrHandleExists, "handle", "That handle already exists")
	}

	existing, err := s.profileRepo.FindByUser(ctx, profile.User.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查找资料失败", err)
	}

	if existing != nil {
		profile.ID = existing.ID
		profile.Date = existing.Date
		if err := s.profileRepo.Update(ctx, profile); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "更新资料失败", err)
		}
		return profile, nil
	}

	profile.Date = time.Now()
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建资料失败", err)
	}
	return profile, nil
}

// GetByUser 获取指定用户的资料
func (s *ProfileService) GetByUser(ctx context.Context, userID primitive.ObjectID) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查找资料失败", err)
	}
	if profile == nil {
		return nil, errors.New(errors.ErrProfileNotFound, "There is no profile for this user")
	}
	return profile, nil
}

// GetByHandle 通过 handle 获取资料
func (s *ProfileService) GetByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByHandle(ctx, handle)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查找资料失败", err)
	}
	if profile == nil {
		return nil, errors.New(errors.ErrProfileNotFound, "There is no profile for this user")
	}
	return profile, nil
}

// ListAll 返回所有资料，客户端用它按作者名解析资料主页链接
func (s *ProfileService) ListAll(ctx context.Context) ([]*model.Profile, error) {
	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询资料列表失败", err)
	}
	return profiles, nil
}

// DeleteByUser 删除当前用户的资料
func (s *ProfileService) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.profileRepo.DeleteByUser(ctx, userID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除资料失败", err)
	}
	return nil
}
