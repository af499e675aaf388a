package main

import (
	"context"
	"flag"

	"ya_projects/internal/app"
	"ya_projects/internal/config"
	"ya_projects/internal/logger"
	"ya_projects/internal/notes"
	"ya_projects/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/yanote.json", "path to the JSON config file")
	flag.Parse()

	cfg, err := app.Load(*configPath, config.AppNotes)
	if err != nil {
		logger.Log.Fatalf("Config load error: %v", err)
	}
	logger.Init(cfg.Log.Level)
	defer logger.Log.Info("Application stopped")

	ctx := context.Background()

	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("Storage error: %v", err)
	}
	defer stores.Close()

	srv, err := server.New(cfg, stores.Users, stores.Pinger)
	if err != nil {
		logger.Log.Fatalf("Server init error: %v", err)
	}
	notes.NewHandler(srv, stores.Notes).Register()

	if err := app.Serve(ctx, cfg.Server, srv.Handler()); err != nil {
		logger.Log.Errorf("HTTP server: %v", err)
	}
}
