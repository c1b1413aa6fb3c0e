// Command server runs the LinguaChat backend: a bilingual chat API with
// per-room change streams, presence tracking, and best-effort message
// translation.
//
// Startup order matters: configuration and logging first, then tracing, then
// storage (with migration and the guaranteed public room), then the feed
// broker and HTTP transport. Shutdown walks the same path in reverse.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/linguachat/go-lingua-backend/docs"
	"github.com/linguachat/go-lingua-backend/internal/config"
	"github.com/linguachat/go-lingua-backend/internal/feed"
	httpapi "github.com/linguachat/go-lingua-backend/internal/http"
	"github.com/linguachat/go-lingua-backend/internal/observability"
	"github.com/linguachat/go-lingua-backend/internal/repo"
	"github.com/linguachat/go-lingua-backend/internal/services"
	"github.com/linguachat/go-lingua-backend/internal/sysutil"
	"github.com/linguachat/go-lingua-backend/internal/translate"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// @title        LinguaChat Backend API
// @version      1.0
// @description  Bilingual chat backend: rooms, translated messages, presence, and a per-room change stream.
// @BasePath     /api/v1
func main() {
	// .env is optional; real deployments use the process environment.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("tracing setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	roomSvc := services.NewRoomService(db, cfg.PublicRoomName)
	if _, err := roomSvc.EnsureDefault(ctx); err != nil {
		log.Fatal().Err(err).Str("name", cfg.PublicRoomName).Msg("public room setup failed")
	}

	broker := feed.NewBroker(cfg.Realtime.BufferSize)
	defer broker.Close()

	translator := translate.NewClient(cfg.Translate)

	// Server-side presence janitor: clients trigger cleanup on their poll
	// cadence too, but an idle deployment still converges.
	presenceSvc := services.NewPresenceService(db, cfg.Presence.TTL, broker)
	go runPresenceJanitor(ctx, presenceSvc, cfg.Presence.PollInterval)

	docs.SwaggerInfo.BasePath = cfg.APIBasePath

	engine := gin.New()
	httpapi.RegisterRoutes(engine, db, broker, translator, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	broker.Close()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
}

// runPresenceJanitor prunes stale presence rows on a fixed cadence until ctx
// is cancelled.
func runPresenceJanitor(ctx context.Context, svc *services.PresenceService, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pruned, err := svc.CleanupStale(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("presence cleanup failed")
				continue
			}
			if pruned > 0 {
				log.Debug().Int64("pruned", pruned).Msg("presence rows pruned")
			}
		}
	}
}
