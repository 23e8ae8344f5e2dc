package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	myPostgresRepo "github.com/Kavermo/StreamHive/core-service/internal/adapters/db/postgres"
	myRedisRepo "github.com/Kavermo/StreamHive/core-service/internal/adapters/db/redis"
	myHTTP "github.com/Kavermo/StreamHive/core-service/internal/adapters/transport/http"
	httpmw "github.com/Kavermo/StreamHive/core-service/internal/adapters/transport/http/middleware"
	appjwt "github.com/Kavermo/StreamHive/core-service/internal/app/auth/jwt"
	authsvc "github.com/Kavermo/StreamHive/core-service/internal/app/auth/service"
	contentsvc "github.com/Kavermo/StreamHive/core-service/internal/app/content/service"
	socialsvc "github.com/Kavermo/StreamHive/core-service/internal/app/social/service"
	"github.com/Kavermo/StreamHive/core-service/internal/infra/config"
	lg "github.com/Kavermo/StreamHive/core-service/internal/infra/log"
	"github.com/Kavermo/StreamHive/core-service/internal/infra/migrate"
	"golang.org/x/sync/errgroup"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	validate := validator.New()
	_ = validate.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		pwd := fl.Field().String()
		if utf8.RuneCountInString(pwd) < 8 {
			return false
		}
		var hasUpper, hasDigit bool
		for _, r := range pwd {
			if unicode.IsUpper(r) {
				hasUpper = true
			}
			if unicode.IsDigit(r) {
				hasDigit = true
			}
		}
		return hasUpper && hasDigit
	})

	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	edgeRepo := myPostgresRepo.NewPostgresEdgeRepo(db)
	videoRepo := myPostgresRepo.NewPostgresVideoRepo(db)
	tweetRepo := myPostgresRepo.NewPostgresTweetRepo(db)
	commentRepo := myPostgresRepo.NewPostgresCommentRepo(db)
	loginLimiter := myRedisRepo.NewRedisLoginLimiter(redisCli, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)

	tokenManager, err := appjwt.NewTokenManager(cfg)
	if err != nil {
		zapLog.Fatal("failed to init token manager", zap.Error(err))
	}

	auth := authsvc.New(userRepo, userRepo, tokenManager, loginLimiter, cfg, validate)
	social := socialsvc.New(edgeRepo, userRepo, videoRepo, tweetRepo, commentRepo, cfg)
	content := contentsvc.New(videoRepo, tweetRepo, commentRepo, edgeRepo, cfg, validate)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(zapLog))
	router.Use(httpmw.RateLimitPerIP(50, 100, 10_000, time.Hour))

	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	handler := myHTTP.NewHandler(auth, social, content, tokenManager, cfg, zapLog)
	handler.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	rootCtx, cancel := context.WithCancel(context.Background())
	g, _ := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
