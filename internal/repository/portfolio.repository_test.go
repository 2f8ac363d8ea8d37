package repository

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"allogator/internal/domain"
)

func newTestRepository(t *testing.T) PortfolioRepository {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "allogator.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewPortfolioRepository(db)
	require.NoError(t, err)
	return repo
}

func testPortfolio(name string) domain.SavedPortfolio {
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	return domain.SavedPortfolio{
		ID:   uuid.New(),
		Name: name,
		Assets: []domain.Asset{
			{Symbol: "VOO", CurrentValue: 600, TargetPercentage: 0.5},
			{Symbol: "QQQ", CurrentValue: 300, TargetPercentage: 0.3},
			{Symbol: "NVDA", CurrentValue: 100, TargetPercentage: 0.2, NoSell: true},
		},
		NewMoney:  1000,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func Test_portfolioRepository(t *testing.T) {
	t.Run("add and get round trip", func(t *testing.T) {
		repo := newTestRepository(t)
		want := testPortfolio("core holdings")

		require.NoError(t, repo.Add(want))

		got, err := repo.Get(want.ID)
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff(want, *got))
	})

	t.Run("get unknown id", func(t *testing.T) {
		repo := newTestRepository(t)
		_, err := repo.Get(uuid.New())
		require.Error(t, err)
		require.Contains(t, err.Error(), "not found")
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		repo := newTestRepository(t)

		first := testPortfolio("first")
		second := testPortfolio("second")
		second.CreatedAt = first.CreatedAt.Add(time.Minute)

		require.NoError(t, repo.Add(first))
		require.NoError(t, repo.Add(second))

		got, err := repo.List()
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "first", got[0].Name)
		require.Equal(t, "second", got[1].Name)

		count, err := repo.Count()
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})

	t.Run("update", func(t *testing.T) {
		repo := newTestRepository(t)
		portfolio := testPortfolio("before")
		require.NoError(t, repo.Add(portfolio))

		portfolio.Name = "after"
		portfolio.NewMoney = 2500
		portfolio.UpdatedAt = portfolio.UpdatedAt.Add(time.Hour)
		require.NoError(t, repo.Update(portfolio))

		got, err := repo.Get(portfolio.ID)
		require.NoError(t, err)
		require.Equal(t, "after", got.Name)
		require.InDelta(t, 2500, got.NewMoney, 1e-9)
	})

	t.Run("update unknown id", func(t *testing.T) {
		repo := newTestRepository(t)
		err := repo.Update(testPortfolio("ghost"))
		require.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newTestRepository(t)
		portfolio := testPortfolio("doomed")
		require.NoError(t, repo.Add(portfolio))

		require.NoError(t, repo.Delete(portfolio.ID))

		_, err := repo.Get(portfolio.ID)
		require.Error(t, err)

		require.Error(t, repo.Delete(portfolio.ID))
	})
}
