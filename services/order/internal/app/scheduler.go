package internal

import (
	"context"
	"time"

	"socialdesk/pkg/logger"
	"socialdesk/services/order/internal/usecase"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the subscription expiry job.
type Scheduler struct {
	cron         *cron.Cron
	orderUseCase usecase.OrderUseCase
	schedule     string
	log          *logger.Logger
}

type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Printf(format string, args ...interface{}) {
	l.log.Info("[CRON] "+format, args...)
}

func NewScheduler(orderUseCase usecase.OrderUseCase, schedule string, log *logger.Logger) *Scheduler {
	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(cronLogger{log: log}))))
	return &Scheduler{
		cron:         c,
		orderUseCase: orderUseCase,
		schedule:     schedule,
		log:          log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.expireSubscriptions); err != nil {
		s.log.Error("Failed to schedule subscription expiry job: %v", err)
		return err
	}
	s.log.Info("Scheduled subscription expiry job: %s", s.schedule)
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) expireSubscriptions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.orderUseCase.ExpireSubscriptions(ctx, time.Now()); err != nil {
		s.log.Error("Subscription expiry job failed: %v", err)
	}
}
