package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/config"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/db"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/fees"
	apihttp "github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/http"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/jobs"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/price"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/repository"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/server"
	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}

	client, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("db connect")
	}
	defer client.Disconnect(context.Background())

	store := repository.New(client, cfg.DatabaseName)
	if err := store.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("ensure indexes")
	}

	rates := fees.Rates{
		MinBrokerageInr: cfg.Fees.MinBrokerageInr,
		BrokerageRate:   cfg.Fees.BrokerageRate,
		STTRate:         cfg.Fees.STTRate,
		GSTRate:         cfg.Fees.GSTRate,
	}

	rewardSvc := service.NewRewardService(store, store, rates, cfg.Price.FallbackPriceInr)
	portfolioSvc := service.NewPortfolioService(store, store, cfg.Price.FallbackPriceInr)
	statsSvc := service.NewStatsService(store, portfolioSvc)
	historySvc := service.NewHistoryService(store, store)

	handler := apihttp.NewHandler(rewardSvc, statsSvc, portfolioSvc, historySvc, log)
	httpServer := server.New(cfg.HTTPPort, handler.Router())

	feed := price.NewFeed(store, cfg.Price.SeedSymbols, cfg.Price.RandomFloorPrice, cfg.Price.RandomCeilPrice)
	priceJob := jobs.NewPriceSyncJob(cfg.Price.JobInterval, feed, log)
	go priceJob.Start(ctx)

	go func() {
		log.WithField("addr", httpServer.Addr()).Info("http server listening")
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown")
	}
}
