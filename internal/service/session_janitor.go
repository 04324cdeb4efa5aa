package service

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/minhngocbui/ctfzone/config"
	"github.com/minhngocbui/ctfzone/internal/repository"
)

// SessionJanitor periodically deletes idle sessions. The admission path also
// sweeps on every login, so this is best-effort housekeeping for quiet
// periods, not a correctness mechanism.
type SessionJanitor struct {
	scheduler   gocron.Scheduler
	sessionRepo repository.SessionRepository
	idleTimeout time.Duration
	interval    time.Duration
}

func NewSessionJanitor(cfg *config.Config, sessionRepo repository.SessionRepository) (*SessionJanitor, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &SessionJanitor{
		scheduler:   scheduler,
		sessionRepo: sessionRepo,
		idleTimeout: cfg.Session.IdleTimeout,
		interval:    cfg.Session.SweepInterval,
	}, nil
}

func (j *SessionJanitor) Start() error {
	_, err := j.scheduler.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-j.idleTimeout)
			swept, err := j.sessionRepo.DeleteIdleBefore(cutoff)
			if err != nil {
				log.Warn().Err(err).Msg("Session janitor sweep failed")
				return
			}
			if swept > 0 {
				log.Info().Int64("count", swept).Msg("Session janitor swept idle sessions")
			}
		}),
	)
	if err != nil {
		return err
	}
	j.scheduler.Start()
	log.Info().Dur("interval", j.interval).Msg("Session janitor started")
	return nil
}

func (j *SessionJanitor) Stop() error {
	return j.scheduler.Shutdown()
}
