package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/omarshaarawi/fmvboard/internal/api/assets"
	"github.com/omarshaarawi/fmvboard/internal/api/espn"
	"github.com/omarshaarawi/fmvboard/internal/api/fantasypros"
	"github.com/omarshaarawi/fmvboard/internal/bot"
	"github.com/omarshaarawi/fmvboard/internal/config"
	"github.com/omarshaarawi/fmvboard/internal/creds"
	server "github.com/omarshaarawi/fmvboard/internal/http"
	"github.com/omarshaarawi/fmvboard/internal/mcpserver"
	"github.com/omarshaarawi/fmvboard/internal/metrics"
	"github.com/omarshaarawi/fmvboard/internal/repository/memory"
	"github.com/omarshaarawi/fmvboard/internal/scheduler"
	"github.com/omarshaarawi/fmvboard/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Error("error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	startTime := time.Now()

	// .env is a local development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return err
	}

	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	espnAPI := espn.NewAPI(espn.NewClient())
	siteClient := espn.NewSiteClient()
	assetsClient := assets.NewClient(cfg.Assets.Origin, cfg.Assets.FPBase)
	fpClient := fantasypros.NewClient(cfg.FantasyPros.APIKey)
	repo := memory.NewRepository()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	board := service.NewBoardService(espnAPI, assetsClient, repo, metricsSvc)
	depthCharts := service.NewDepthChartService(siteClient, repo)

	envCreds := creds.FromEnv(cfg.ESPN.SWID, cfg.ESPN.ESPNS2)
	mcpHandler := mcpserver.New(board, mcpserver.Defaults{
		LeagueID: cfg.ESPN.LeagueID,
		Season:   cfg.ESPN.Season,
		Creds:    envCreds,
	}).Handler()

	s := server.NewServer(board, depthCharts, fpClient, metricsSvc, metricsHandler, mcpHandler, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The Telegram surfaces are optional; the board works without them.
	if cfg.TelegramBot.Token != "" {
		handler := bot.NewHandler(board, digestConfig(cfg), envCreds)
		telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, handler)
		if err != nil {
			return err
		}
		go func() {
			if err := telegramBot.Start(ctx); err != nil {
				log.Error("error running telegram bot", "error", err)
			}
		}()

		if cfg.Digest.Enabled {
			sched, err := scheduler.New(board, telegramBot.SendMessage, metricsSvc, scheduler.Config{
				Cron:     cfg.Digest.Cron,
				Location: cfg.Digest.Location,
				Digest:   digestConfig(cfg),
				Creds:    envCreds,
			})
			if err != nil {
				return err
			}
			if err := sched.Start(); err != nil {
				return err
			}
			defer func() {
				if err := sched.Stop(); err != nil {
					log.Error("error stopping scheduler", "error", err)
				}
			}()
		}
	}

	metricsSvc.SetStartupTime(time.Since(startTime).Seconds())

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: s,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server started", "port", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		} else {
			log.Info("server gracefully stopped")
		}
	}

	return nil
}

// digestConfig folds the digest overrides back onto the base league settings.
func digestConfig(cfg *config.Config) service.DigestConfig {
	leagueID := cfg.Digest.LeagueID
	if leagueID == "" {
		leagueID = cfg.ESPN.LeagueID
	}
	season := cfg.Digest.Season
	if season == 0 {
		season = cfg.ESPN.Season
	}
	return service.DigestConfig{
		LeagueID: leagueID,
		Season:   season,
		TopN:     cfg.Digest.TopN,
		MinProj:  cfg.Digest.MinProj,
	}
}
