// Package jobs runs periodic maintenance next to the HTTP server.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	PurgeResetsSchedule = "@hourly"
	jobTimeout          = time.Minute
)

// ResetPurger deletes password reset tokens past their expiry.
type ResetPurger interface {
	PurgeExpiredResets(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron   *cron.Cron
	purger ResetPurger
	logger *zap.Logger
}

func NewScheduler(purger ResetPurger, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cronLogger{logger.Sugar()}))),
		purger: purger,
		logger: logger,
	}
	if _, err := s.cron.AddFunc(PurgeResetsSchedule, s.purgeExpiredResets); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) purgeExpiredResets() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.purger.PurgeExpiredResets(ctx)
	if err != nil {
		s.logger.Error("failed to purge expired password resets", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("purged expired password resets", zap.Int64("count", n))
	}
}

// cronLogger routes cron's own messages, including recovered panics, to zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
