package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/biqiaoran629/developerconnector/config"
	"github.com/biqiaoran629/developerconnector/internal/api/post"
	"github.com/biqiaoran629/developerconnector/internal/api/profile"
	"github.com/biqiaoran629/developerconnector/internal/api/user"
	"github.com/biqiaoran629/developerconnector/internal/common"
	"github.com/biqiaoran629/developerconnector/internal/middleware"
	"github.com/biqiaoran629/developerconnector/internal/repository/mongodb"
	"github.com/biqiaoran629/developerconnector/internal/service"
	"github.com/biqiaoran629/developerconnector/internal/storage"
	"github.com/biqiaoran629/developerconnector/internal/util"
)

func main() {
	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 连接数据库
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.MongoURI))
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	// 测试数据库连接，临时网络故障时重试
	err = common.WithRetry(func() error {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pingCancel()
		return mongoClient.Ping(pingCtx, nil)
	}, 3)
	if err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db := mongoClient.Database(config.AppConfig.MongoDBName)

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("postlength", util.ValidatePostLength)
	}

	// 初始化本地存储
	localStorage, err := storage.NewLocalStorage(config.AppConfig.LocalStoragePath)
	if err != nil {
		util.Logger.Fatal("初始化本地存储失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	userRepo := mongodb.NewUserRepository(db)
	userService := service.NewUserService(userRepo)
	authHandler := user.NewAuthHandler(userService)

	profileRepo := mongodb.NewProfileRepository(db)
	profileService := service.NewProfileService(profileRepo)
	profileHandler := profile.NewProfileHandler(profileService, userService, localStorage)

	postRepo := mongodb.NewPostRepository(db)
	postService := service.NewPostService(postRepo,
		config.AppConfig.MaxPostLength,
		config.AppConfig.CommentOwnerOnly)
	postHandler := post.NewPostHandler(postService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 设置 Gin 路由
	r := gin.Default()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	r.Use(cors.New(corsConfig))

	// 配置静态文件服务
	r.Static("/uploads", config.AppConfig.LocalStoragePath)

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 用户相关路由
		api.POST("/users/register", authHandler.Register)
		api.POST("/users/login", authHandler.Login)
		api.GET("/users/current", middleware.AuthMiddleware(userService), authHandler.Current)
		api.POST("/users/logout", middleware.AuthMiddleware(userService), authHandler.Logout)
		api.POST("/users/refresh-token", middleware.AuthMiddleware(userService), authHandler.RefreshToken)

		// 帖子相关路由
		api.GET("/posts", postHandler.GetPosts)
		api.GET("/posts/:id", postHandler.GetPost)
		api.POST("/posts", middleware.AuthMiddleware(userService), postHandler.CreatePost)
		api.DELETE("/posts/:id", middleware.AuthMiddleware(userService), postHandler.DeletePost)
		api.POST("/posts/:id/like", middleware.AuthMiddleware(userService), postHandler.LikePost)
		api.POST("/posts/:id/unlike", middleware.AuthMiddleware(userService), postHandler.UnlikePost)
		api.POST("/posts/:id/comments", middleware.AuthMiddleware(userService), postHandler.AddComment)
		api.DELETE("/posts/:id/comments/:comment_id", middleware.AuthMiddleware(userService), postHandler.DeleteComment)

		// 资料相关路由
		api.GET("/profile", middleware.AuthMiddleware(userService), profileHandler.GetCurrentProfile)
		api.POST("/profile", middleware.AuthMiddleware(userService), profileHandler.CreateOrUpdateProfile)
		api.DELETE("/profile", middleware.AuthMiddleware(userService), profileHandler.DeleteProfile)
		api.POST("/profile/avatar", middleware.AuthMiddleware(userService), profileHandler.UploadAvatar)
		api.GET("/profile/all", profileHandler.GetAllProfiles)
		api.GET("/profile/handle/:handle", profileHandler.GetProfileByHandle)
	}

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":5000",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :5000")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}
