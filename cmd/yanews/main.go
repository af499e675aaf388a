package main

import (
	"context"
	"flag"

	"ya_projects/internal/app"
	"ya_projects/internal/censor"
	"ya_projects/internal/config"
	"ya_projects/internal/feed"
	"ya_projects/internal/logger"
	"ya_projects/internal/news"
	"ya_projects/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/yanews.json", "path to the JSON config file")
	flag.Parse()

	cfg, err := app.Load(*configPath, config.AppNews)
	if err != nil {
		logger.Log.Fatalf("Config load error: %v", err)
	}
	logger.Init(cfg.Log.Level)
	defer logger.Log.Info("Application stopped")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище
	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("Storage error: %v", err)
	}
	defer stores.Close()

	// HTTP сервер
	srv, err := server.New(cfg, stores.Users, stores.Pinger)
	if err != nil {
		logger.Log.Fatalf("Server init error: %v", err)
	}
	news.NewHandler(srv, stores.News, stores.Comments, censor.New(cfg.News.BadWords...)).Register()

	// Запуск периодического импорта лент
	if len(cfg.Feeds.URLs) > 0 {
		importer := feed.NewImporter(stores.News, cfg.Feeds)
		go feed.StartPolling(ctx, importer, cfg.Feeds.URLs, cfg.Feeds.PollInterval)
	}

	if err := app.Serve(ctx, cfg.Server, srv.Handler()); err != nil {
		logger.Log.Errorf("HTTP server: %v", err)
	}
}
