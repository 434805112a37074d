package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plumehq/plume/internal/cache"
	"github.com/plumehq/plume/internal/config"
	"github.com/plumehq/plume/internal/domain"
	"github.com/plumehq/plume/internal/handler"
	"github.com/plumehq/plume/internal/repository"
	"github.com/plumehq/plume/internal/service"
	"github.com/plumehq/plume/pkg/database"
	"github.com/plumehq/plume/pkg/jwt"
	pkglog "github.com/plumehq/plume/pkg/log"
	"github.com/plumehq/plume/pkg/middleware"
	"github.com/plumehq/plume/pkg/storage"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// 2. Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "plume",
	})
	logger := pkglog.L()

	if cfg.Auth.Secret == "" {
		logger.Fatal().Msg("AUTH_SECRET is required")
	}

	// 3. Init DB (GORM, auto-migrate all models)
	dbConfig := &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to get underlying sql.DB")
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.GroupModel{},
		&domain.PostModel{},
		&domain.CommentModel{},
		&domain.FollowModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	logger.Info().Msg("database migration completed")

	// 4. Init media storage
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	media, err := storage.New(ctx, cfg.Media)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init media storage")
	}
	logger.Info().Str("backend", cfg.Media.Backend).Msg("media storage ready")

	// 5. Init page cache
	pages := cache.NewMemoryPageCache(cfg.Cache.SweepInterval)
	defer pages.Stop()

	// 6. Create repos and services
	postRepo := repository.NewGormPostRepository(db)
	groupRepo := repository.NewGormGroupRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	followRepo := repository.NewGormFollowRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	timelineSvc := service.NewTimelineService(postRepo, groupRepo, userRepo, followRepo, media, cfg.Timeline.PageSize)
	postSvc := service.NewPostService(postRepo, groupRepo, commentRepo, media)
	followSvc := service.NewFollowService(followRepo, userRepo)

	// 7. Create auth middleware
	tokens := jwt.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	authMiddleware := middleware.NewAuthMiddleware(tokens)

	// 8. Setup Gin router + HTTP server
	httpHandler := handler.NewHandler(timelineSvc, postSvc, followSvc, pages, authMiddleware, cfg.Cache.TTL)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))
	httpHandler.RegisterRoutes(r)

	// 9. Start server goroutine
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info().Str("addr", addr).Msg("plume starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// 10. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("HTTP server forced to shutdown")
	}

	logger.Info().Msg("plume stopped")
}
