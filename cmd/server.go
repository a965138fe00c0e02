package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"price-sr-bot/internal/delivery/http"
	"price-sr-bot/internal/delivery/telegram"
	"price-sr-bot/internal/repository"
	"price-sr-bot/internal/service"
	"price-sr-bot/pkg/logger"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the Telegram bot, the HTTP API and the scheduled broadcasts",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo := repository.NewRepository(appDep.cfg, appDep.log)
	services := service.NewService(
		appDep.cfg,
		appDep.log,
		repo,
		appDep.cache,
		appDep.telegram,
	)

	httpHandler := http.NewHttpAPIHandler(ctx, appDep.echo, appDep.validator, services)
	telegramHandler := telegram.NewTelegramBotHandler(
		ctx,
		appDep.cfg,
		appDep.log,
		appDep.telegramBot,
		appDep.telegram,
		appDep.echo,
		services,
	)
	apiServer := NewHTTPServer(ctx, appDep, httpHandler)

	// handlers must be registered on echo before the server starts
	telegramHandler.RegisterHandlers()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(apiServer.Start)
	g.Go(func() error {
		telegramHandler.Start()
		return nil
	})
	g.Go(func() error {
		return services.SchedulerService.Start(gCtx)
	})
	appDep.telegram.StartCleanupExpired(gCtx)

	g.Go(func() error {
		<-gCtx.Done()
		appDep.log.Info("Shutting down gracefully...")

		telegramHandler.Stop()
		services.SchedulerService.Stop()
		appDep.telegram.StopCleanupExpired()
		return apiServer.Stop()
	})

	if err := g.Wait(); err != nil {
		appDep.log.Error("Application stopped with error", logger.ErrorField(err), logger.SendAlertField())
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}
