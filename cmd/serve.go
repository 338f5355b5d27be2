package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"
	"time"

	"todoapi/app/controller"
	"todoapi/app/mailer"
	"todoapi/app/middleware"
	"todoapi/app/repository"
	"todoapi/app/service"
	"todoapi/app/validation"
	"todoapi/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	revokedRepo := repository.NewRevokedTokenRepository(db)
	resetRepo := repository.NewPasswordResetTokenRepository(db)

	codec := service.NewTokenCodec(cfg)
	authService := service.NewAuthService(db, userRepo, revokedRepo, codec)
	resetService := service.NewPasswordResetService(db, userRepo, resetRepo, revokedRepo, codec, mailer.NewSMTPMailer(cfg), cfg)
	todoService := service.NewTodoService(todoRepo)
	userService := service.NewUserService(db, userRepo, todoRepo, resetRepo, revokedRepo, codec)

	go pruneRevokedTokens(revokedRepo, cfg.RevokedTokenPruneInterval)

	startHTTPServer(cfg, authService, resetService, todoService, userService)
}

func startHTTPServer(
	cfg *config.Config,
	authService *service.AuthService,
	resetService *service.PasswordResetService,
	todoService *service.TodoService,
	userService *service.UserService,
) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true
	e.Validator = validation.New()

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	authController := controller.NewAuthController(authService, resetService)
	todoController := controller.NewTodoController(todoService)
	userController := controller.NewUserController(userService)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.POST("/refresh-token", authController.RefreshToken)
	auth.POST("/forgot-password", authController.ForgotPassword)
	auth.GET("/verify-token/:token", authController.VerifyResetToken)
	auth.POST("/reset-password/:token", authController.ResetPassword)

	authProtected := auth.Group("")
	authProtected.Use(authMiddleware.RequireAuth)
	authProtected.POST("/logout", authController.Logout)

	todos := api.Group("/todos")
	todos.Use(authMiddleware.RequireAuth)
	todos.GET("", todoController.List)
	todos.POST("", todoController.Create)
	todos.GET("/:id", todoController.Get)
	todos.PUT("/:id", todoController.Update)
	todos.PATCH("/:id", todoController.UpdateStatus)
	todos.DELETE("/:id", todoController.Delete)

	users := api.Group("/users")
	users.Use(authMiddleware.RequireAuth)
	users.GET("/me", userController.Me)
	users.PUT("/:id", userController.Update)
	users.DELETE("/:id", userController.Delete)

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}

// pruneRevokedTokens periodically drops ledger entries whose token has
// outlived its own expiry.
func pruneRevokedTokens(repo *repository.RevokedTokenRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		pruned, err := repo.DeleteExpired(ctx)
		cancel()
		if err != nil {
			logrus.WithError(err).Error("Failed to prune revoked tokens")
			continue
		}
		if pruned > 0 {
			logrus.WithField("pruned", pruned).Info("Pruned expired revoked tokens")
		}
	}
}

func configureLogging(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	return nil
}
