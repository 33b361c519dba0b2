package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"restaurant-menu/bot"
	"restaurant-menu/config"
	"restaurant-menu/db"
	"restaurant-menu/services"
	"restaurant-menu/web"
)

func main() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
	defer zap.L().Sync()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("config", zap.Error(err))
	}

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var src bot.Source
	if cfg.Source == config.SourcePostgres {
		if err := db.Init(ctx, cfg.DB); err != nil {
			zap.L().Fatal("db", zap.Error(err))
		}
		defer db.Close()
		if cfg.DB.AutoMigrate {
			if err := applyMigrations(ctx, false); err != nil {
				zap.L().Fatal("migrate", zap.Error(err))
			}
		} else if err := services.EnsureBoardTables(ctx); err != nil {
			zap.L().Fatal("db", zap.Error(err))
		}
		src = services.PgSource{}
	} else {
		src = services.NewSupabaseClient(cfg.Supabase)
	}
	zap.L().Info("menu source", zap.String("source", cfg.Source))

	var photos web.PhotoSource
	if cfg.Telegram.Token != "" {
		b, err := bot.New(cfg, src)
		if err != nil {
			zap.L().Fatal("bot", zap.Error(err))
		}
		photos = b
		go b.Start(ctx)
		zap.L().Info("bot started")
	}

	server := web.New(src, photos, cfg.Web)
	go func() {
		if err := server.Listen(":" + cfg.Web.Port); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()
	zap.L().Info("Server started on port", zap.String("port", cfg.Web.Port))

	gracefulShutdown(server, cancel)
}

func gracefulShutdown(server *web.Server, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")
	cancel()

	if err := server.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}
	zap.L().Info("Server gracefully stopped")
}

func runMigrate(cfg *config.Config) {
	ctx := context.Background()
	if err := db.Init(ctx, cfg.DB); err != nil {
		zap.L().Fatal("db", zap.Error(err))
	}
	defer db.Close()

	if err := applyMigrations(ctx, true); err != nil {
		zap.L().Fatal("migrate", zap.Error(err))
	}
}
