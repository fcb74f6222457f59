package profile

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/biqiaoran629/developerconnector/config"
	"github.com/biqiaoran629/developerconnector/internal/errors"
	"github.com/biqiaoran629/developerconnector/internal/model"
	"github.com/biqiaoran629/developerconnector/internal/service"
	"github.com/biqiaoran629/developerconnector/internal/storage"
	"github.com/biqiaoran629/developerconnector/internal/util"
)

// ProfileHandler 处理用户资料相关的HTTP请求
type ProfileHandler struct {
	profileService *service.ProfileService
	userService    service.UserServiceInterface
	storage        *storage.LocalStorage
}

// NewProfileHandler 创建一个新的 ProfileHandler 实例
func NewProfileHandler(profileService *service.ProfileService, userService service.UserServiceInterface, storage *storage.LocalStorage) *ProfileHandler {
	return &ProfileHandler{profileService, userService, storage}
}

func currentUserID(c *gin.Context) primitive.ObjectID {
	uid, _ := c.Get("user_id")
	id, _ := uid.(primitive.ObjectID)
	return id
}

// GetCurrentProfile 返回当前用户的资料
func (h *ProfileHandler) GetCurrentProfile(c *gin.Context) {
	profile, err := h.profileService.GetByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// CreateOrUpdateProfile 创建或更新当前用户的资料
func (h *ProfileHandler) CreateOrUpdateProfile(c *gin.Context) {
	var profileData struct {
		Handle   string `json:"handle" binding:"required"`
		Status   string `json:"status" binding:"required"`
		Skills   string `json:"skills"` // 逗号分隔
		Company  string `json:"company"`
		Website  string `json:"website"`
		Location string `json:"location"`
		Bio      string `json:"bio"`
	}

	if err := c.ShouldBindJSON(&profileData); err != nil {
		util.Logger.Warn("资料更新失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid profile data", err))
		return
	}

	userID := currentUserID(c)
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	var skills []string
	for _, s := range strings.Split(profileData.Skills, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}

	profile := &model.Profile{
		User: model.ProfileUser{
			ID:     user.ID,
			Name:   user.Name,
			Avatar: user.Avatar,
		},
		Handle:   profileData.Handle,
		Status:   profileData.Status,
		Skills:   skills,
		Company:  profileData.Company,
		Website:  profileData.Website,
		Location: profileData.Location,
		Bio:      profileData.Bio,
	}

	saved, err := h.profileService.CreateOrUpdate(c.Request.Context(), profile)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// GetProfileByHandle 通过 handle 获取资料
func (h *ProfileHandler) GetProfileByHandle(c *gin.Context) {
	profile, err := h.profileService.GetByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetAllProfiles 返回全部资料
func (h *ProfileHandler) GetAllProfiles(c *gin.Context) {
	profiles, err := h.profileService.ListAll(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// DeleteProfile 删除当前用户的资料和账户
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	userID := currentUserID(c)

	if err := h.profileService.DeleteByUser(c.Request.Context(), userID); err != nil {
		errors.HandleError(c, err)
		return
	}
	if err := h.userService.DeleteAccount(c.Request.Context(), userID); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadAvatar 上传自定义头像并写入本地存储
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := currentUserID(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		util.Logger.Error("获取上传文件失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "无法获取上传文件", err))
		return
	}

	filename := util.GenerateUniqueFilename(file.Filename)
	path := fmt.Sprintf("avatars/%s/%s", userID.Hex(), filename)

	avatarPath, err := h.storage.UploadFile(file, path)
	if err != nil {
		util.Logger.Error("上传头像失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "上传头像失败", err))
		return
	}

	fullAvatarURL := fmt.Sprintf("%s/uploads/%s", config.AppConfig.BackendURL, avatarPath)
	c.JSON(http.StatusOK, gin.H{"avatar": fullAvatarURL})
}
