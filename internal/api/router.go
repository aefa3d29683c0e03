package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pawnest/edge-gateway/internal/api/handler"
	"github.com/pawnest/edge-gateway/internal/api/middleware"
	"github.com/pawnest/edge-gateway/internal/core/service"
	"github.com/pawnest/edge-gateway/internal/infrastructure/backend"
	"github.com/pawnest/edge-gateway/internal/infrastructure/config"
	redisdb "github.com/pawnest/edge-gateway/internal/infrastructure/db/redis"
	"github.com/pawnest/edge-gateway/internal/proxy"
	"github.com/pawnest/edge-gateway/internal/session"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("edge"))

	// --- Session surface ---
	codec := session.NewCodec(cfg.SessionSecret, session.DefaultTTL)
	cookies := session.CookieOptions{
		Domain: cfg.Cookie.Domain,
		Secure: cfg.Cookie.Secure || cfg.IsProduction(),
	}

	// Decode the cookie once, then gate every page before rendering.
	e.Use(middleware.Session(codec))
	e.Use(middleware.Gate(middleware.GateConfig{}))

	// --- Dependencies ---
	gateway := backend.NewClient(cfg.Backend.BaseURL, log)
	throttle := redisdb.NewThrottle(rdb, cfg.OTP.ThrottleLimit, cfg.OTP.ThrottleWindow)
	authService := service.NewAuthService(gateway, throttle, log)
	authHandler := handler.NewAuthHandler(authService, codec, cookies)

	// --- Auth routes ---
	e.POST("/auth/otp/request", authHandler.RequestOTP)
	e.POST("/auth/otp/verify", authHandler.VerifyOTP)
	e.POST("/auth/google", authHandler.LoginGoogle)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)
	e.PUT("/lang", authHandler.SetLanguage)

	// --- Backend proxy surface ---
	proxy.Register(e, proxy.NewForwarder(cfg.Backend.BaseURL, log), proxy.DefaultRules())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(rdb, cfg.Backend.BaseURL)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
