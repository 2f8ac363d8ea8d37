package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"allogator/internal/domain"
)

// PortfolioRepository persists saved portfolios in a local sqlite file.
type PortfolioRepository interface {
	Add(portfolio domain.SavedPortfolio) error
	Get(id uuid.UUID) (*domain.SavedPortfolio, error)
	List() ([]domain.SavedPortfolio, error)
	Update(portfolio domain.SavedPortfolio) error
	Delete(id uuid.UUID) error
	Count() (int, error)
}

type portfolioRepositoryHandler struct {
	Db *sql.DB
}

const portfolioSchema = `
CREATE TABLE IF NOT EXISTS saved_portfolio (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	assets         TEXT NOT NULL,
	new_money      REAL NOT NULL,
	enable_selling INTEGER NOT NULL DEFAULT 0,
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);`

func NewPortfolioRepository(db *sql.DB) (PortfolioRepository, error) {
	if _, err := db.Exec(portfolioSchema); err != nil {
		return nil, fmt.Errorf("failed to create saved_portfolio table: %w", err)
	}
	return portfolioRepositoryHandler{Db: db}, nil
}

func (h portfolioRepositoryHandler) Add(portfolio domain.SavedPortfolio) error {
	assets, err := json.Marshal(portfolio.Assets)
	if err != nil {
		return fmt.Errorf("failed to marshal assets: %w", err)
	}

	_, err = h.Db.Exec(
		`INSERT INTO saved_portfolio (id, name, assets, new_money, enable_selling, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		portfolio.ID.String(),
		portfolio.Name,
		string(assets),
		portfolio.NewMoney,
		portfolio.EnableSelling,
		portfolio.CreatedAt.UTC().Format(time.RFC3339Nano),
		portfolio.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert saved portfolio: %w", err)
	}
	return nil
}

func (h portfolioRepositoryHandler) Get(id uuid.UUID) (*domain.SavedPortfolio, error) {
	row := h.Db.QueryRow(
		`SELECT id, name, assets, new_money, enable_selling, created_at, updated_at
		 FROM saved_portfolio WHERE id = ?`,
		id.String(),
	)

	portfolio, err := scanPortfolio(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("portfolio %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio %s: %w", id, err)
	}
	return portfolio, nil
}

func (h portfolioRepositoryHandler) List() ([]domain.SavedPortfolio, error) {
	rows, err := h.Db.Query(
		`SELECT id, name, assets, new_money, enable_selling, created_at, updated_at
		 FROM saved_portfolio ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	portfolios := []domain.SavedPortfolio{}
	for rows.Next() {
		portfolio, err := scanPortfolio(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio row: %w", err)
		}
		portfolios = append(portfolios, *portfolio)
	}
	return portfolios, rows.Err()
}

func (h portfolioRepositoryHandler) Update(portfolio domain.SavedPortfolio) error {
	assets, err := json.Marshal(portfolio.Assets)
	if err != nil {
		return fmt.Errorf("failed to marshal assets: %w", err)
	}

	result, err := h.Db.Exec(
		`UPDATE saved_portfolio
		 SET name = ?, assets = ?, new_money = ?, enable_selling = ?, updated_at = ?
		 WHERE id = ?`,
		portfolio.Name,
		string(assets),
		portfolio.NewMoney,
		portfolio.EnableSelling,
		portfolio.UpdatedAt.UTC().Format(time.RFC3339Nano),
		portfolio.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio %s: %w", portfolio.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("portfolio %s not found", portfolio.ID)
	}
	return nil
}

func (h portfolioRepositoryHandler) Delete(id uuid.UUID) error {
	result, err := h.Db.Exec(`DELETE FROM saved_portfolio WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete portfolio %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("portfolio %s not found", id)
	}
	return nil
}

func (h portfolioRepositoryHandler) Count() (int, error) {
	var count int
	if err := h.Db.QueryRow(`SELECT COUNT(*) FROM saved_portfolio`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count portfolios: %w", err)
	}
	return count, nil
}

func scanPortfolio(scan func(dest ...interface{}) error) (*domain.SavedPortfolio, error) {
	var (
		idStr     string
		assetsRaw string
		createdAt string
		updatedAt string
		portfolio domain.SavedPortfolio
	)
	err := scan(&idStr, &portfolio.Name, &assetsRaw, &portfolio.NewMoney, &portfolio.EnableSelling, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	portfolio.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid portfolio id %q: %w", idStr, err)
	}
	if err := json.Unmarshal([]byte(assetsRaw), &portfolio.Assets); err != nil {
		return nil, fmt.Errorf("invalid assets payload: %w", err)
	}
	if portfolio.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if portfolio.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	return &portfolio, nil
}
