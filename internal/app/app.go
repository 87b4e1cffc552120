package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Navaneeth433/Murdermystery/internal/config"
	"github.com/Navaneeth433/Murdermystery/internal/controller"
	"github.com/Navaneeth433/Murdermystery/internal/repository"
	"github.com/Navaneeth433/Murdermystery/internal/service"
	"github.com/Navaneeth433/Murdermystery/internal/util"
	"github.com/Navaneeth433/Murdermystery/pkg/configwatcher"
	"github.com/Navaneeth433/Murdermystery/pkg/database"
	"github.com/Navaneeth433/Murdermystery/pkg/logger"
	"github.com/Navaneeth433/Murdermystery/pkg/monitoring"
	"github.com/Navaneeth433/Murdermystery/pkg/security"
	"github.com/Navaneeth433/Murdermystery/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user    *repository.UserRepository
	content *repository.ContentRepository
	attempt *repository.AttemptRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	storage     *service.StorageService
	access      *service.AccessService
	attempt     *service.AttemptService
	leaderboard *service.LeaderboardService
	content     *service.ContentService
}

type controllers struct {
	auth        *controller.AuthController
	chapter     *controller.ChapterController
	leaderboard *controller.LeaderboardController
	admin       *controller.AdminController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		content: repository.NewContentRepository(db),
		attempt: repository.NewAttemptRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	s := &services{}

	auth, err := service.NewAuthService(repos.user, cfg)
	if err != nil {
		return nil, err
	}
	s.auth = auth

	scorer, err := service.NewScoringPolicy(cfg.Scoring.Policy)
	if err != nil {
		return nil, err
	}

	// 有 redis 时使用分布式锁，支持多实例部署
	var locker service.ChapterLocker
	if rdb != nil {
		locker = service.NewRedisChapterLocker(rdb)
	} else {
		locker = service.NewLocalChapterLocker()
	}

	s.leaderboard = service.NewLeaderboardService(repos.attempt, rdb, time.Duration(cfg.Leaderboard.CacheSeconds)*time.Second)
	s.leaderboard.SetLimit(cfg.Leaderboard.Limit)
	s.user = service.NewUserService(repos.user, s.leaderboard)
	s.storage = service.NewStorageService(cfg)
	s.access = service.NewAccessService(repos.content, repos.attempt, service.RulesFromConfig(cfg.Chapters))
	s.attempt = service.NewAttemptService(s.access, repos.content, repos.attempt, db, locker, s.leaderboard, scorer, cfg.Scoring.FirstSolverBonus)
	s.content = service.NewContentService(repos.content, repos.attempt, s.access, s.attempt, s.storage, s.leaderboard)

	// 计分策略与排行榜条数支持热更新；章节规则需要重启
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		policy, err := service.NewScoringPolicy(newCfg.Scoring.Policy)
		if err != nil {
			logger.Log.Error("ignoring scoring policy from reloaded config", zap.Error(err))
			return
		}
		s.attempt.SetScoring(policy, newCfg.Scoring.FirstSolverBonus)
		s.leaderboard.SetLimit(newCfg.Leaderboard.Limit)
		logger.Log.Info("scoring updated",
			zap.String("policy", policy.Name()),
			zap.Bool("firstSolverBonus", newCfg.Scoring.FirstSolverBonus),
			zap.Int("leaderboardLimit", newCfg.Leaderboard.Limit),
		)
	})

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		chapter:     controller.NewChapterController(s.access, s.attempt, s.content),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		admin:       controller.NewAdminController(s.content, s.user),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 {
		window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 使用已建立的连接组装应用。rdb 可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, db, rdb)
	if err != nil {
		return nil, err
	}
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app, nil
}

// NewApp 打开数据库与 redis 并组装应用，失败直接退出
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// redis 只是缓存和锁，连接失败时退回进程内实现
		logger.Log.Warn("redis unavailable, using in-process locks", zap.Error(err))
		rdb = nil
	}

	app, err := New(cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to build application", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("chapter-gate", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// WatchConfig 配置文件变化时触发已注册的回调
func (a *App) WatchConfig(ctx context.Context, configDir string) {
	if err := configwatcher.Watch(ctx, configDir, a.applyConfig); err != nil {
		logger.Log.Warn("config hot reload disabled", zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
