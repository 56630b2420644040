package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bhaba/bhaba_market/internal/api"
	"github.com/bhaba/bhaba_market/internal/cache"
	"github.com/bhaba/bhaba_market/internal/config"
	"github.com/bhaba/bhaba_market/internal/database"
	"github.com/bhaba/bhaba_market/internal/limiter"
	"github.com/bhaba/bhaba_market/internal/logger"
	mw "github.com/bhaba/bhaba_market/internal/middleware"
	"github.com/bhaba/bhaba_market/internal/repo"
	"github.com/bhaba/bhaba_market/internal/resp"
	"github.com/bhaba/bhaba_market/internal/service"
)

// AppDependencies 包含应用的所有依赖
type AppDependencies struct {
	CatalogHandler *api.CatalogHandler
	ProductHandler *api.ProductHandler
	UserHandler    *api.UserHandler
	JWTService     service.JWTService
	RateLimiter    limiter.Limiter
}

// initConfigAndLogger 初始化配置和日志器
func initConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %v", err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %v", err)
	}

	return cfg, lg, nil
}

// initDatabase 初始化数据库连接并执行迁移
// 迁移在HTTP服务器启动前完成，保证处理请求时表结构已就绪
func initDatabase(cfg *config.Config, lg *zap.Logger) (*database.DB, error) {
	db, err := database.New(cfg, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	migrationsDir := cfg.Migrations.Dir
	lg.Sugar().Infow("using migrations directory", "path", migrationsDir)

	if err := db.RunMigrations(migrationsDir); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %v", err)
	}

	return db, nil
}

// initCache 初始化缓存实例
func initCache(cfg *config.Config, lg *zap.Logger) cache.Cache {
	var cacheInstance cache.Cache
	if cfg.Cache.Enabled {
		switch cfg.Cache.Type {
		case "redis":
			redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
			redisCache, err := cache.NewRedisCache(redisAddr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				lg.Sugar().Warnw("failed to connect to Redis, falling back to memory cache", "error", err)
				cacheInstance = cache.NewMemoryCache()
				lg.Sugar().Infow("cache enabled", "type", "memory (fallback)", "ttl", cfg.Cache.TTL)
			} else {
				cacheInstance = redisCache
				lg.Sugar().Infow("cache enabled", "type", "redis", "addr", redisAddr, "ttl", cfg.Cache.TTL)
			}
		case "memory":
			cacheInstance = cache.NewMemoryCache()
			lg.Sugar().Infow("cache enabled", "type", "memory", "ttl", cfg.Cache.TTL)
		default:
			lg.Sugar().Warnw("unknown cache type, using memory cache", "type", cfg.Cache.Type)
			cacheInstance = cache.NewMemoryCache()
		}
	} else {
		cacheInstance = cache.NewNullCache()
		lg.Sugar().Infow("cache disabled")
	}
	return cacheInstance
}

// initRateLimiter 初始化公开接口的令牌桶限流器
// 限流状态放在Redis里，多副本共享配额；未启用时返回nil
func initRateLimiter(cfg *config.Config, lg *zap.Logger) limiter.Limiter {
	if !cfg.RateLimit.Enabled {
		lg.Sugar().Infow("rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	rateLimiter, err := limiter.NewTokenBucketLimiter(client, &limiter.Config{
		Rate:      cfg.RateLimit.Rate,
		Burst:     cfg.RateLimit.Burst,
		Window:    cfg.RateLimit.Window,
		KeyPrefix: "limiter:catalog",
	})
	if err != nil {
		lg.Sugar().Warnw("failed to initialize rate limiter, requests will not be limited", "error", err)
		return nil
	}

	lg.Sugar().Infow("rate limiting enabled",
		"rate", cfg.RateLimit.Rate,
		"burst", cfg.RateLimit.Burst,
		"window", cfg.RateLimit.Window,
	)
	return rateLimiter
}

// initDependencies 初始化应用依赖（仓储、服务、处理器）
func initDependencies(cfg *config.Config, db *database.DB, cacheInstance cache.Cache, rateLimiter limiter.Limiter, lg *zap.Logger) *AppDependencies {
	// 依赖注入链：仓储 -> 服务 -> API处理器
	userRepo := repo.NewUserRepository(db.DB)
	userService := service.NewUserService(userRepo, lg)
	jwtService := service.NewJWTService(cfg, lg)
	userHandler := api.NewUserHandler(userService, jwtService, lg)

	baseProductRepo := repo.NewProductRepository(db.DB)

	// 可选缓存装饰器：缓存整份目录快照，写操作时失效
	var productRepo repo.ProductRepository
	if cfg.Cache.Enabled {
		productRepo = repo.NewCachedProductRepository(baseProductRepo, cacheInstance, cfg.Cache.TTL)
	} else {
		productRepo = baseProductRepo
	}

	catalogService := service.NewCatalogService(productRepo, cfg.Catalog.PageSize, lg)
	contactService := service.NewContactService(cfg.Catalog.CountryCode, lg)
	productService := service.NewProductService(productRepo, lg)

	catalogHandler := api.NewCatalogHandler(catalogService, contactService, lg)
	productHandler := api.NewProductHandler(productService, lg)

	return &AppDependencies{
		CatalogHandler: catalogHandler,
		ProductHandler: productHandler,
		UserHandler:    userHandler,
		JWTService:     jwtService,
		RateLimiter:    rateLimiter,
	}
}

// setupRoutes 设置路由和中间件
func setupRoutes(cfg *config.Config, deps *AppDependencies, lg *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// 健康检查端点
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		reqID := mw.RequestIDFromContext(r.Context())
		data := map[string]any{
			"status":  "ok",
			"version": cfg.App.Version,
		}
		resp.OK(w, &data, reqID, "")
	})

	// 公开的目录浏览路由，独立挂限流中间件
	rateLimit := func(h http.Handler) http.Handler { return h }
	if deps.RateLimiter != nil {
		rateLimit = limiter.RateLimitMiddleware(&limiter.MiddlewareConfig{
			Limiter:      deps.RateLimiter,
			KeyGenerator: limiter.DefaultKeyGenerator,
		})
	}

	mux.Handle("/api/v1/catalog/products", rateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			deps.CatalogHandler.SearchProducts(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/v1/catalog/products/", rateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/contact") {
			deps.CatalogHandler.GetContactLinks(w, r)
			return
		}
		deps.CatalogHandler.GetProduct(w, r)
	})))
	mux.Handle("/api/v1/catalog/facets", rateLimit(http.HandlerFunc(deps.CatalogHandler.GetFacets)))

	// 用户认证相关API路由（无需认证）
	mux.HandleFunc("/api/v1/auth/register", deps.UserHandler.Register)
	mux.HandleFunc("/api/v1/auth/login", deps.UserHandler.Login)
	mux.HandleFunc("/api/v1/auth/refresh", deps.UserHandler.RefreshToken)

	// 需要认证的API路由
	authMiddleware := mw.AuthMiddleware(deps.JWTService, lg)
	mux.Handle("/api/v1/users/profile", authMiddleware(http.HandlerFunc(deps.UserHandler.GetProfile)))

	// 目录维护路由（需要管理员权限）
	adminMiddleware := mw.RequireAdmin(lg)
	mux.Handle("/api/v1/admin/products", authMiddleware(adminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			deps.ProductHandler.CreateProduct(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))))
	mux.Handle("/api/v1/admin/products/", authMiddleware(adminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			deps.ProductHandler.UpdateProduct(w, r)
		case http.MethodDelete:
			deps.ProductHandler.DeleteProduct(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))))

	// 构建中间件链：请求进入时执行顺序为 access log → CORS → timeout → recovery → request ID
	handler := mw.RequestID(mux)
	handler = mw.Recovery(lg)(handler)
	handler = mw.Timeout(cfg.App.RequestTimeout)(handler)
	handler = mw.CORS(mw.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
	})(handler)
	handler = mw.AccessLog(lg)(handler)

	return handler
}

// startServer 启动服务器并处理优雅关闭
func startServer(cfg *config.Config, handler http.Handler, lg *zap.Logger) {
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	lg.Sugar().Infow("server starting", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	select {
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			lg.Sugar().Fatalw("server error", "err", err)
		}
	case <-quit:
		lg.Sugar().Infow("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Sugar().Errorw("server shutdown error", "err", err)
	}
	lg.Sugar().Infow("server exited")
}

// main 为应用入口，协调各个组件的初始化和启动
func main() {
	// 1) 加载配置和初始化日志
	cfg, lg, err := initConfigAndLogger()
	if err != nil {
		log.Fatalf("failed to initialize config and logger: %v", err)
	}

	// 2) 初始化数据库连接并执行迁移
	db, err := initDatabase(cfg, lg)
	if err != nil {
		lg.Sugar().Fatalw("failed to initialize database", "err", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			lg.Sugar().Errorw("failed to close database connection", "err", err)
		}
	}()

	// 3) 初始化缓存与限流器
	cacheInstance := initCache(cfg, lg)
	rateLimiter := initRateLimiter(cfg, lg)

	// 4) 初始化应用依赖（仓储、服务、处理器）
	deps := initDependencies(cfg, db, cacheInstance, rateLimiter, lg)

	// 5) 设置路由和中间件
	handler := setupRoutes(cfg, deps, lg)

	// 6) 启动 HTTP 服务器
	startServer(cfg, handler, lg)
}
