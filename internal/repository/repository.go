package repository

import (
	"price-sr-bot/config"
	"price-sr-bot/pkg/logger"
)

type Repository struct {
	BybitRepo BybitRepository
}

func NewRepository(cfg *config.Config, log *logger.Logger) *Repository {
	return &Repository{
		BybitRepo: NewBybitRepository(cfg, log),
	}
}
