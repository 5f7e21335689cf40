// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"fastmoni/donation-api/config"
	"fastmoni/donation-api/db"
	"fastmoni/donation-api/internal/service"
	"fastmoni/donation-api/pkg/middleware"
	"fastmoni/donation-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Argon  *security.ArgonHash
	Tokens *security.TokenService
	Mail   *service.MailQueue
}

func NewRouter() (*API, error) {
	a := &API{
		Argon:  security.New(),
		Tokens: security.NewTokenService(),
		Mail:   service.NewMailQueue(service.NewMailer()),
	}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}
	a.DB = db

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.CustomRecovery(recoveryHandler),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString(middleware.CtxUserID); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	authRequired := middleware.NewAuthMiddleware(db, a.Tokens)
	refresh := middleware.NewRefreshMiddleware(db, a.Tokens)
	bodyLimit := middleware.BodySizeLimiter(1 << 20)

	main := router.Group("/api/v1")
	{
		// GET /api/v1/health-check	-> Used to check if the server is alive
		main.GET("/health-check", cacheFor(30), a.HealthCheck)
	}

	auth := main.Group("/auth", bodyLimit, middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	}))
	{
		// POST /api/v1/auth/signup	-> Registers a new account and issues an OTP
		auth.POST("/signup", a.Signup)

		// POST /api/v1/auth/verify	-> Verifies the OTP and opens the wallet
		auth.POST("/verify", a.VerifyOtp)

		// POST /api/v1/auth/signin	-> Signs in a verified user and returns a token pair
		auth.POST("/signin", a.Signin)

		// POST /api/v1/auth/refresh	-> Rotates the token pair using a refresh token
		auth.POST("/refresh", refresh, a.Refresh)
	}

	user := main.Group("/user", bodyLimit, authRequired)
	{
		// POST /api/v1/user/:id/pin	-> Sets the account PIN
		user.POST("/:id/pin", a.CreatePin)

		// POST /api/v1/user/:id/donate	-> Transfers funds into a beneficiary wallet
		user.POST("/:id/donate", a.Donate)

		// GET /api/v1/user/donations	-> Lists the caller's donations, paginated
		user.GET("/donations", a.DonationList)

		// GET /api/v1/user/:id/donation -> Returns one donation owned by the caller
		user.GET("/:id/donation", a.DonationGet)

		// GET /api/v1/user/by-date	-> Lists donations in a date range, paginated
		user.GET("/by-date", a.DonationsByDate)
	}

	a.Mail.StartWorkerPool()

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}

func recoveryHandler(c *gin.Context, err any) {
	msg := "Internal server error"
	if !config.IsProduction() {
		msg = fmt.Sprintf("Internal server error: %v", err)
	}

	zap.L().Error("Recovered from panic", zap.Any("panic", err))

	respondErr(c, 500, msg)
}
