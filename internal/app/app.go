package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/syncbeats/server/internal/controller"
	"github.com/syncbeats/server/internal/repository/connection/inmemory"
	roomRedis "github.com/syncbeats/server/internal/repository/room/redis"
	"github.com/syncbeats/server/internal/service/room"
	"github.com/syncbeats/server/pkg/ctxlogger"
	"github.com/syncbeats/server/pkg/randstr"
	"github.com/syncbeats/server/pkg/redisclient"
)

// roomCodeAlphabet keeps codes short, human-typeable and unambiguous after
// uppercase canonicalization.
const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type AppConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	LogLevel       string `json:"log_level"`
	MembersLimit   int    `json:"members_limit"`
	QueueLimit     int    `json:"queue_limit"`
	RoomCodeLength int    `json:"room_code_length"`
	DefaultMediaID string `json:"default_media_id"`
	RedisPort      int    `json:"redis_port"`
	RedisHost      string `json:"redis_host"`
	RedisPassword  string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.MembersLimit < 1 {
		return fmt.Errorf("members limit must be greater than 0")
	}
	if cfg.QueueLimit < 1 {
		return fmt.Errorf("queue limit must be greater than 0")
	}
	if cfg.RoomCodeLength < 4 {
		return fmt.Errorf("room code length must be at least 4")
	}
	if cfg.DefaultMediaID == "" {
		return fmt.Errorf("default media id must not be empty")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}
	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	roomRepo := roomRedis.NewRepo(rc, 24*time.Hour)
	connectionRepo := inmemory.NewRepo()
	codeGenerator := randstr.New([]byte(roomCodeAlphabet))
	roomService := room.NewService(roomRepo, connectionRepo, codeGenerator, &room.Config{
		MembersLimit:   cfg.MembersLimit,
		QueueLimit:     cfg.QueueLimit,
		RoomCodeLength: cfg.RoomCodeLength,
		DefaultMediaID: cfg.DefaultMediaID,
	})
	controller := controller.NewController(roomService, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
