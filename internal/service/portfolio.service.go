package service

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"allogator/internal/domain"
	"allogator/internal/repository"
	"allogator/internal/symbols"
)

// MaxSavedPortfolios caps how many named snapshots a user can keep.
const MaxSavedPortfolios = 3

var ErrPortfolioLimit = fmt.Errorf("maximum of %d saved portfolios allowed", MaxSavedPortfolios)

type SavePortfolioInput struct {
	// Nil for a new portfolio, set when overwriting an existing one
	ID            *uuid.UUID
	Name          string
	Assets        []domain.Asset
	NewMoney      float64
	EnableSelling bool
}

// PortfolioService owns saved-portfolio lifecycle plus file import/export.
type PortfolioService interface {
	Save(input SavePortfolioInput) (*domain.SavedPortfolio, error)
	Get(id uuid.UUID) (*domain.SavedPortfolio, error)
	List() ([]domain.SavedPortfolio, error)
	Delete(id uuid.UUID) error
	ImportHoldingsCsv(r io.Reader) ([]domain.Asset, error)
	ExportHoldingsCsv(w io.Writer, assets []domain.Asset) error
}

type portfolioServiceHandler struct {
	PortfolioRepository repository.PortfolioRepository
	now                 func() time.Time
}

func NewPortfolioService(portfolioRepository repository.PortfolioRepository) PortfolioService {
	return portfolioServiceHandler{
		PortfolioRepository: portfolioRepository,
		now:                 time.Now,
	}
}

func (h portfolioServiceHandler) Save(input SavePortfolioInput) (*domain.SavedPortfolio, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("portfolio name is required")
	}

	now := h.now().UTC()

	if input.ID != nil {
		existing, err := h.PortfolioRepository.Get(*input.ID)
		if err != nil {
			return nil, err
		}
		updated := domain.SavedPortfolio{
			ID:            existing.ID,
			Name:          input.Name,
			Assets:        input.Assets,
			NewMoney:      input.NewMoney,
			EnableSelling: input.EnableSelling,
			CreatedAt:     existing.CreatedAt,
			UpdatedAt:     now,
		}
		if err := h.PortfolioRepository.Update(updated); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	count, err := h.PortfolioRepository.Count()
	if err != nil {
		return nil, err
	}
	if count >= MaxSavedPortfolios {
		return nil, ErrPortfolioLimit
	}

	portfolio := domain.SavedPortfolio{
		ID:            uuid.New(),
		Name:          input.Name,
		Assets:        input.Assets,
		NewMoney:      input.NewMoney,
		EnableSelling: input.EnableSelling,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.PortfolioRepository.Add(portfolio); err != nil {
		return nil, err
	}
	return &portfolio, nil
}

func (h portfolioServiceHandler) Get(id uuid.UUID) (*domain.SavedPortfolio, error) {
	return h.PortfolioRepository.Get(id)
}

func (h portfolioServiceHandler) List() ([]domain.SavedPortfolio, error) {
	return h.PortfolioRepository.List()
}

func (h portfolioServiceHandler) Delete(id uuid.UUID) error {
	return h.PortfolioRepository.Delete(id)
}

// holdingRow is the CSV shape for import/export. The target column is a
// human-friendly 0-100 percent; it becomes a 0-1 fraction on import.
type holdingRow struct {
	Symbol        string  `csv:"symbol"`
	CurrentValue  float64 `csv:"current_value"`
	TargetPercent float64 `csv:"target_percent"`
	NoSell        bool    `csv:"no_sell"`
}

func (h portfolioServiceHandler) ImportHoldingsCsv(r io.Reader) ([]domain.Asset, error) {
	rows := []holdingRow{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse holdings csv: %w", err)
	}

	assets := make([]domain.Asset, 0, len(rows))
	for i, row := range rows {
		symbol := symbols.Normalize(row.Symbol)
		if !symbols.Valid(symbol) {
			return nil, fmt.Errorf("row %d: invalid symbol %q", i+1, row.Symbol)
		}
		if row.TargetPercent < 0 || row.TargetPercent > 100 {
			return nil, fmt.Errorf("row %d: target percent must be between 0 and 100, got %v", i+1, row.TargetPercent)
		}
		assets = append(assets, domain.Asset{
			Symbol:           symbol,
			CurrentValue:     row.CurrentValue,
			TargetPercentage: row.TargetPercent / 100,
			NoSell:           row.NoSell,
		})
	}
	return assets, nil
}

func (h portfolioServiceHandler) ExportHoldingsCsv(w io.Writer, assets []domain.Asset) error {
	rows := make([]holdingRow, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, holdingRow{
			Symbol:        a.Symbol,
			CurrentValue:  a.CurrentValue,
			TargetPercent: a.TargetPercentage * 100,
			NoSell:        a.NoSell,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write holdings csv: %w", err)
	}
	return nil
}
