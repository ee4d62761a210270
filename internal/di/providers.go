package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"postboard-web/internal/api"
	"postboard-web/internal/articles"
	"postboard-web/internal/auth"
	"postboard-web/internal/config"
	"postboard-web/internal/logging"
	"postboard-web/internal/scheduler"
	"postboard-web/internal/session"
	"postboard-web/internal/web"
)

const redisConnectTimeout = 5 * time.Second

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, err := logging.New(cfg.Server.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideAuth(cfg *config.Config) (*auth.Service, error) {
	return auth.NewService(cfg.Auth.Email, cfg.Auth.Password, cfg.Auth.PasswordHash, cfg.JWT.Secret, cfg.JWT.Expiration)
}

func provideHTTPClient(cfg *config.Config) *http.Client {
	return articles.NewHTTPClient(cfg.Articles.Timeout)
}

func provideSource(cfg *config.Config, client *http.Client, logger *zap.Logger) articles.Source {
	if cfg.Articles.Source == config.SourceFeed {
		logger.Info("📡 Articles from feed", zap.String("url", cfg.Articles.FeedURL))
		return articles.NewFeedSource(cfg.Articles.FeedURL, client, logger)
	}
	logger.Info("📡 Articles from REST API", zap.String("base_url", cfg.Articles.BaseURL))
	return articles.NewClient(cfg.Articles.BaseURL, client, logger)
}

func provideCache(cfg *config.Config, source articles.Source, logger *zap.Logger) *articles.Cache {
	return articles.NewCache(source, cfg.Articles.CacheTTL, logger)
}

// provideSessions elige dónde vive la sesión. Con redis el cliente se cierra
// en el cleanup.
func provideSessions(cfg *config.Config, logger *zap.Logger) (web.StorageFactory, func(), error) {
	if cfg.Session.Backend != config.BackendRedis {
		store := session.NewCookieStore(cfg.Session.Secret, cfg.Session.MaxAge, cfg.Session.Secure)
		return web.CookieSessions(store), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	client, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
	}
	logger.Info("🗄️ Sessions stored in redis", zap.String("addr", cfg.Redis.Addr))

	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("⚠️ Error closing redis", zap.Error(err))
		}
	}
	return web.RedisSessions(client, cfg.Redis.Prefix, cfg.Session.MaxAge, cfg.Session.Secure), cleanup, nil
}

func provideRouter(cfg *config.Config, cache *articles.Cache, sessions web.StorageFactory, authService *auth.Service, logger *zap.Logger) (*gin.Engine, error) {
	switch cfg.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := web.NewRouter(web.Services{
		Articles:      cache,
		Sessions:      sessions,
		Verifier:      authService,
		Logger:        logger,
		SecureCookies: cfg.Session.Secure,
	})
	if err != nil {
		return nil, err
	}

	api.SetupRoutes(router, api.Services{
		Auth:     authService,
		Articles: cache,
		Logger:   logger,
		Origins:  cfg.Server.AllowedOrigins,
	})
	return router, nil
}

func provideScheduler(cfg *config.Config, cache *articles.Cache, logger *zap.Logger) *scheduler.Scheduler {
	var warmer scheduler.Warmer
	if cache.Enabled() {
		warmer = cache
	}
	return scheduler.New(warmer, cfg.Scheduler.WarmInterval, logger)
}
