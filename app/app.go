package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/goodjobguy1234/LendItApi/auth"
	"github.com/goodjobguy1234/LendItApi/config"
	"github.com/goodjobguy1234/LendItApi/db"
	"github.com/goodjobguy1234/LendItApi/session"
)

// Aliases so handlers read shorter.
type Ctx = gin.Context
type H = gin.H

// App aggregates the process-wide dependencies. Everything downstream gets
// them handed in; nothing reaches for globals.
type App struct {
	Router   *gin.Engine
	DB       *gorm.DB
	RDB      *redis.Client
	Config   config.Config
	Log      *logrus.Logger
	Sessions *session.AppSessionStore
	Tokens   *auth.TokenIssuer
}

func MustNew() *App {
	cfg := config.FromEnv()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	dbConn := db.ConnectDB(cfg.DB, log)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	r := gin.Default()
	useCORS(r, cfg.AllowOrigins)

	return &App{
		Router:   r,
		DB:       dbConn,
		RDB:      rdb,
		Config:   cfg,
		Log:      log,
		Sessions: session.NewAppSessionStore(rdb, cfg.SessionTTL),
		Tokens:   auth.NewTokenIssuer(cfg.TokenSecret, cfg.SessionTTL),
	}
}

func (a *App) Close() { _ = a.RDB.Close() }
