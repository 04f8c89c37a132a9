// File: internal/jobs/session_expiry.go
package jobs

import (
	"context"
	"time"

	"marvel_nexus_backend/internal/config"
	"marvel_nexus_backend/internal/session"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionExpiryJob periodically removes expired sessions.
type SessionExpiryJob struct {
	sessions *session.Service
	cfg      *config.Config
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewSessionExpiryJob(sessions *session.Service, cfg *config.Config, logger *zap.Logger) *SessionExpiryJob {
	return &SessionExpiryJob{
		sessions: sessions,
		cfg:      cfg,
		logger:   logger.Named("SessionExpiryJob"),
	}
}

// SetupAndStart schedules the job and starts the cron runner.
func (j *SessionExpiryJob) SetupAndStart() error {
	j.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.PrintfLogger(newCronLogger(j.logger))),
	))

	schedule := j.cfg.SessionExpiryJobSchedule
	if schedule == "" {
		schedule = "@hourly"
	}

	_, err := j.cron.AddFunc(schedule, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule session expiry job", zap.String("schedule", schedule), zap.Error(err))
		return err
	}

	j.cron.Start()
	j.logger.Info("Session expiry job scheduled", zap.String("schedule", schedule))
	return nil
}

func (j *SessionExpiryJob) runJob() {
	j.logger.Info("Running session expiry job...")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	removed, err := j.sessions.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error("Session expiry job failed", zap.Error(err))
		return
	}

	j.logger.Info("Session expiry job finished",
		zap.Int64("sessionsRemoved", removed),
		zap.Duration("duration", time.Since(startTime)),
	)
}

// Stop halts the cron scheduler, waiting for a running job to finish.
func (j *SessionExpiryJob) Stop() {
	if j.cron != nil {
		j.logger.Info("Stopping session expiry job scheduler...")
		stopCtx := j.cron.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Session expiry job scheduler stopped gracefully.")
		case <-time.After(30 * time.Second):
			j.logger.Warn("Timeout waiting for session expiry job scheduler to stop.")
		}
	}
}

// cronLogger adapts zap to the printf-style logger cron expects.
type cronLogger struct {
	logger *zap.Logger
}

func newCronLogger(logger *zap.Logger) *cronLogger {
	return &cronLogger{logger: logger}
}

func (c *cronLogger) Printf(format string, args ...interface{}) {
	c.logger.Sugar().Infof(format, args...)
}
