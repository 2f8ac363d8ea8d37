package cmd

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"allogator/api"
	"allogator/internal/config"
	"allogator/internal/logger"
	"allogator/internal/repository"
	"allogator/internal/service"
	"allogator/pkg/finnhub"
)

func CloseDependencies(handler *api.ApiHandler) {
	err := handler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbConn, err := sql.Open("sqlite3", cfg.DbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}

	portfolioRepository, err := repository.NewPortfolioRepository(dbConn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize portfolio repository: %w", err)
	}

	// without finnhub keys the quote repository falls through to yahoo
	var finnhubClient *finnhub.Client
	if keys := cfg.FinnhubKeys(); len(keys) > 0 {
		finnhubClient, err = finnhub.NewClient(keys)
		if err != nil {
			return nil, nil, err
		}
	}
	quoteRepository := repository.NewQuoteRepository(finnhubClient)

	handler := &api.ApiHandler{
		PriceService:     service.NewPriceService(quoteRepository),
		PortfolioService: service.NewPortfolioService(portfolioRepository),
		Logger:           logger.New(),
		Db:               dbConn,
	}

	return handler, cfg, nil
}
