package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"eve-nexus/internal/api"
	"eve-nexus/internal/config"
	"eve-nexus/internal/db"
	"eve-nexus/internal/esi"
	"eve-nexus/internal/logger"
)

var version = "dev"

func main() {
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides NEXUS_ADDR)")
	flag.Parse()

	cfg := config.Load()
	if *addrFlag != "" {
		cfg.Addr = *addrFlag
	}
	logger.SetLevel(cfg.LogLevel)
	logger.Banner(version)

	database, err := db.Open(cfg.DatabaseDSN, cfg.HistoryCacheTTL)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	logger.Section("Configuration")
	logger.Stats("esi", cfg.ESIBaseURL)
	logger.Stats("request delay", cfg.RequestDelay)
	logger.Stats("history ttl", cfg.HistoryCacheTTL)

	client := esi.NewClient(cfg, database)
	srv := api.NewServer(cfg, client, version)

	if cfg.HistoryCacheTTL > 0 {
		go func() {
			ticker := time.NewTicker(cfg.HistoryCacheTTL)
			defer ticker.Stop()
			for range ticker.C {
				database.PurgeExpiredHistory()
			}
		}()
	}

	logger.Server(cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
}
