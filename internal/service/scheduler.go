package service

import (
	"context"
	"fmt"
	"time"

	"github.com/6045054-web/CHENGHUI/internal/config"
	"github.com/6045054-web/CHENGHUI/internal/logger"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

// Scheduler runs the periodic workspace reload and, when configured, the risk briefing.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(cfg config.ScheduleConfig, ws *Workspace, admin *AdminService, loc *time.Location) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(loc))

	if cfg.Refresh != "" {
		if _, err := c.AddFunc(cfg.Refresh, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			ws.Refresh(ctx)
		}); err != nil {
			return nil, fmt.Errorf("schedule refresh %q: %w", cfg.Refresh, err)
		}
	}
	if cfg.Briefing != "" {
		if _, err := c.AddFunc(cfg.Briefing, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if _, err := admin.Briefing(ctx); err != nil {
				logger.Warn("schedule.briefing_failed", "err", err)
			}
		}); err != nil {
			return nil, fmt.Errorf("schedule briefing %q: %w", cfg.Briefing, err)
		}
	}
	return &Scheduler{cron: c}, nil
}

// Jobs is the number of registered jobs.
func (s *Scheduler) Jobs() int { return len(s.cron.Entries()) }

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler.started", "jobs", s.Jobs())
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
