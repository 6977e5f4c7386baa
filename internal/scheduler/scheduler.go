// Package scheduler runs the weekly waiver digest job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/omarshaarawi/fmvboard/internal/creds"
	"github.com/omarshaarawi/fmvboard/internal/metrics"
	"github.com/omarshaarawi/fmvboard/internal/service"
	"github.com/robfig/cron/v3"
)

// Config controls when the digest fires and what it reports on.
type Config struct {
	Cron     string
	Location string
	Digest   service.DigestConfig
	Creds    creds.Credentials
}

type Scheduler struct {
	s           gocron.Scheduler
	board       *service.BoardService
	sendMessage func(string) error
	metrics     metrics.Metrics
	cfg         Config
}

// New validates the cron expression up front so a bad DIGEST_CRON fails at
// startup instead of never firing.
func New(board *service.BoardService, sendMessage func(string) error, m metrics.Metrics, cfg Config) (*Scheduler, error) {
	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		return nil, fmt.Errorf("invalid digest cron %q: %w", cfg.Cron, err)
	}

	location, err := time.LoadLocation(cfg.Location)
	if err != nil {
		log.Warn("failed to load digest location, falling back to UTC", "location", cfg.Location, "error", err)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		board:       board,
		sendMessage: sendMessage,
		metrics:     m,
		cfg:         cfg,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.CronJob(s.cfg.Cron, false),
		gocron.NewTask(s.sendDigest),
	)
	if err != nil {
		return fmt.Errorf("failed to create digest job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) sendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	text, err := s.board.DigestText(ctx, s.cfg.Digest, s.cfg.Creds)
	if err != nil {
		log.Error("failed to build waiver digest", "error", err)
		s.metrics.IncDigestsFailed()
		return
	}
	if err := s.sendMessage(text); err != nil {
		log.Error("failed to send waiver digest", "error", err)
		s.metrics.IncDigestsFailed()
		return
	}
	s.metrics.IncDigestsSent()
}
