package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jengzang/trajectory-features/internal/config"
	"github.com/jengzang/trajectory-features/internal/database"
	"github.com/jengzang/trajectory-features/internal/repository"
	"github.com/jengzang/trajectory-features/internal/service"
	"github.com/jengzang/trajectory-features/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to create logger:", err)
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 特征库是可选的
	var runs *repository.RunRepository
	var features *repository.FeatureRepository
	if cfg.DBPath != "" {
		db, err := database.Open(database.Config{Path: cfg.DBPath})
		if err != nil {
			log.Error("Failed to open feature store", logger.Error(err))
			return err
		}
		defer db.Close()
		runs = repository.NewRunRepository(db)
		features = repository.NewFeatureRepository(db)
	}

	svc := service.NewPreprocessService(cfg, runs, features, log)
	if _, err := svc.Run(ctx); err != nil {
		log.Error("Preprocessing failed", logger.Error(err))
		return err
	}
	return nil
}
