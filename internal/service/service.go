package service

import (
	"price-sr-bot/config"
	"price-sr-bot/internal/repository"
	"price-sr-bot/pkg/cache"
	"price-sr-bot/pkg/logger"
)

type Service struct {
	MarketService    MarketService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	notifier Notifier,
) *Service {
	marketService := NewMarketService(cfg, log, repo.BybitRepo, inmemoryCache)
	return &Service{
		MarketService:    marketService,
		SchedulerService: NewSchedulerService(cfg, log, marketService, notifier),
	}
}
