package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcoot/tictacgame-go/internal/api"
	"github.com/mcoot/tictacgame-go/internal/factory"
	"github.com/mcoot/tictacgame-go/internal/server"
	redisstorage "github.com/mcoot/tictacgame-go/internal/storage/redis"
)

const envPrefix = "TTTGAME"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "tttgame-server",
		Short: "Tic-tac-toe game server",
		Long: `tttgame-server runs the tic-tac-toe matchmaking server: a TCP
line-protocol endpoint for gameplay and an HTTP API for player
statistics and lobby state.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}

	flags := rootCmd.Flags()
	flags.String("host", "", "Host to bind both listeners to")
	flags.Int("port", 5050, "TCP game port")
	flags.Int("http-port", 8080, "HTTP API port")
	flags.String("storage", factory.StorageTypeMemory, "Storage backend: memory or redis")
	flags.String("redis-url", "", "Redis connection URL (required for redis storage)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")

	// Every flag is also settable via TTTGAME_<FLAG> in the environment
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	return rootCmd
}

func run(v *viper.Viper) error {
	logger := newLogger(v.GetString("log-level"))
	slog.SetDefault(logger)

	// Build factory config
	cfg := factory.Config{
		Logger:      logger,
		StorageType: v.GetString("storage"),
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := v.GetString("redis-url")
		if redisURL == "" {
			return fmt.Errorf("redis-url required when storage is redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Game server over TCP
	gameServer := server.NewServer(
		server.Config{Host: v.GetString("host"), Port: v.GetInt("port")},
		app.AuthService,
		app.SessionRegistry,
		app.LobbyRegistry,
		logger,
	)

	// Read-only HTTP API
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:  logger,
		Storage: app.Storage,
	})
	apiConfig := api.DefaultServerConfig()
	apiConfig.Host = v.GetString("host")
	apiConfig.Port = v.GetInt("http-port")
	apiServer := api.NewServer(apiRouter, apiConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start both servers
	errCh := make(chan error, 2)
	go func() {
		errCh <- gameServer.Start(ctx)
	}()
	go func() {
		errCh <- apiServer.Start()
	}()

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx := context.Background()
	if err := gameServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("game server shutdown error", slog.String("error", err.Error()))
	}
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))
}
