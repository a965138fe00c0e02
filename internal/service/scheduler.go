package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"price-sr-bot/config"
	"price-sr-bot/pkg/logger"
	"price-sr-bot/pkg/telegram"
	"price-sr-bot/pkg/utils"

	"github.com/robfig/cron/v3"
)

// Notifier is the delivery channel: send text to a chat.
type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string, opts ...interface{}) error
}

type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	RunBroadcast(ctx context.Context, broadcast config.Broadcast) error
	Execute(ctx context.Context) error
}

type schedulerService struct {
	cfg      *config.Config
	log      *logger.Logger
	cron     *cron.Cron
	market   MarketService
	notifier Notifier
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, market MarketService, notifier Notifier) SchedulerService {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &schedulerService{
		cfg:      cfg,
		log:      log,
		cron:     cron.New(cron.WithParser(parser), cron.WithLocation(time.UTC)),
		market:   market,
		notifier: notifier,
	}
}

// Start registers every configured broadcast and starts the cron runner.
// It returns without error when no broadcast is configured.
func (s *schedulerService) Start(ctx context.Context) error {
	if len(s.cfg.Scheduler.Broadcasts) == 0 {
		s.log.InfoContext(ctx, "No scheduled broadcasts configured")
		return nil
	}

	for _, b := range s.cfg.Scheduler.Broadcasts {
		broadcast := b
		_, err := s.cron.AddFunc(broadcast.Spec, func() {
			runCtx, cancel := context.WithTimeout(ctx, s.cfg.Bot.CommandTimeout)
			defer cancel()
			if err := s.RunBroadcast(runCtx, broadcast); err != nil {
				s.log.ErrorContextWithAlert(runCtx, "Scheduled broadcast failed",
					logger.StringField("spec", broadcast.Spec),
					logger.Int64Field("chat_id", broadcast.ChatID),
					logger.ErrorField(err))
			}
		})
		if err != nil {
			return fmt.Errorf("invalid broadcast schedule %q: %w", broadcast.Spec, err)
		}
	}

	s.log.InfoContext(ctx, "Starting scheduler", logger.IntField("broadcasts", len(s.cfg.Scheduler.Broadcasts)))
	s.cron.Start()
	return nil
}

func (s *schedulerService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

// RunBroadcast sends one snapshot message per coin. A failing coin does not
// stop the others; all failures are returned together.
func (s *schedulerService) RunBroadcast(ctx context.Context, broadcast config.Broadcast) error {
	var errs []error
	for _, coin := range broadcast.Coins {
		if !utils.ShouldContinue(ctx, s.log) {
			errs = append(errs, ctx.Err())
			break
		}
		snapshot, err := s.market.GetSnapshot(ctx, coin)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", coin, err))
			continue
		}

		text := telegram.FormatSnapshotMessage(snapshot.Symbol, snapshot.Price, snapshot.PercentChange, snapshot.FundingRatePercent)
		if err := s.notifier.SendText(ctx, broadcast.ChatID, text); err != nil {
			errs = append(errs, fmt.Errorf("%s: send: %w", coin, err))
		}
	}
	return errors.Join(errs...)
}

// Execute runs every configured broadcast once, outside the cron schedule.
func (s *schedulerService) Execute(ctx context.Context) error {
	var errs []error
	for _, broadcast := range s.cfg.Scheduler.Broadcasts {
		if err := s.RunBroadcast(ctx, broadcast); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", broadcast.ChatID, err))
		}
	}
	return errors.Join(errs...)
}
