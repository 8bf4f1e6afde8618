package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	api "github.com/cleverbadge/cleverbadge/internal/api/http"
	"github.com/cleverbadge/cleverbadge/internal/auth"
	"github.com/cleverbadge/cleverbadge/internal/config"
	"github.com/cleverbadge/cleverbadge/internal/db"
	"github.com/cleverbadge/cleverbadge/internal/events"
	"github.com/cleverbadge/cleverbadge/internal/logging"
	"github.com/cleverbadge/cleverbadge/internal/quiz"
	"github.com/cleverbadge/cleverbadge/internal/session"
)

func main() {
	cfg := config.FromEnv()
	log := logging.New("cleverbadge")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("db open failed")
	}
	store := quiz.NewSQLStore(dbh, cfg.DBDriver, cfg.AssessmentTTL)
	ev := events.NewLog(dbh)

	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("redis ping failed")
		}
		sessions = session.NewRedisStore(client)
		log.WithField("addr", cfg.RedisAddr).Info("session store: redis")
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	r := api.NewRouter(api.RouterDeps{
		Store:       store,
		Sessions:    sessions,
		Guard:       session.NewGuard(cfg.AssessmentTTL),
		Events:      ev,
		Auth:        authSvc,
		Admin:       auth.AdminCredentials{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash},
		CORSOrigins: cfg.CORSOrigins,
	})

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go quiz.RunSweeper(sweepCtx, store, cfg.AssessmentTTL, cfg.SweepInterval, ev, log)

	log.WithFields(map[string]interface{}{
		"addr": cfg.HTTPAddr,
		"db":   cfg.DBDriver,
	}).Info("listening")
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
