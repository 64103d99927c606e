package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// PurgeFunc removes expired persisted entries and reports how many went.
type PurgeFunc func(ctx context.Context) (int64, error)

// CronService runs the periodic housekeeping: idle in-memory sessions are
// evicted and, when the store supports it, expired entries are purged.
type CronService struct {
	ticker   *time.Ticker
	stopChan chan bool
	interval time.Duration
	idleTTL  time.Duration
	sessions *SessionManager
	purge    PurgeFunc
	log      *logrus.Logger
}

func NewCronService(sessions *SessionManager, purge PurgeFunc, interval, idleTTL time.Duration, log *logrus.Logger) *CronService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CronService{
		stopChan: make(chan bool),
		interval: interval,
		idleTTL:  idleTTL,
		sessions: sessions,
		purge:    purge,
		log:      log,
	}
}

func (s *CronService) Start() error {
	s.ticker = time.NewTicker(s.interval)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.RunOnce(context.Background())
			case <-s.stopChan:
				return
			}
		}
	}()

	s.log.WithField("interval", s.interval.String()).Info("cron service started")
	return nil
}

func (s *CronService) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopChan)
	s.log.Info("cron service stopped")
}

// RunOnce performs a single housekeeping pass.
func (s *CronService) RunOnce(ctx context.Context) {
	if s.idleTTL > 0 {
		if n := s.sessions.EvictIdle(s.idleTTL); n > 0 {
			s.log.WithField("evicted", n).Info("idle cart sessions evicted")
		}
	}

	if s.purge == nil {
		return
	}
	n, err := s.purge(ctx)
	if err != nil {
		s.log.WithError(err).Warn("purging expired store entries failed")
		return
	}
	if n > 0 {
		s.log.WithField("purged", n).Info("expired store entries purged")
	}
}
