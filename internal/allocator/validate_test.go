package allocator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"allogator/internal/domain"
)

func Test_Validate(t *testing.T) {
	t.Run("valid portfolio", func(t *testing.T) {
		out := Validate([]domain.Asset{
			{Symbol: "VOO", CurrentValue: 600, TargetPercentage: 0.5},
			{Symbol: "QQQ", CurrentValue: 300, TargetPercentage: 0.3},
			{Symbol: "NVDA", CurrentValue: 100, TargetPercentage: 0.2},
		}, false)

		require.True(t, out.IsValid)
		require.Empty(t, out.Errors)
	})

	t.Run("every violation is reported, not just the first", func(t *testing.T) {
		// one asset, at half the required allocation: count and sum both fail
		out := Validate([]domain.Asset{
			{Symbol: "VOO", CurrentValue: 100, TargetPercentage: 0.5},
		}, false)

		require.False(t, out.IsValid)
		require.Equal(
			t,
			"",
			cmp.Diff(
				[]string{
					"Portfolio must contain at least 2 assets",
					"Target percentages must sum to 100% (currently 50.0%)",
				},
				out.Errors,
			),
		)
	})

	t.Run("duplicates and bad sum stack up", func(t *testing.T) {
		out := Validate([]domain.Asset{
			{Symbol: "AAPL", CurrentValue: 100, TargetPercentage: 0.25},
			{Symbol: "AAPL", CurrentValue: 100, TargetPercentage: 0.25},
		}, false)

		require.False(t, out.IsValid)
		require.Equal(
			t,
			"",
			cmp.Diff(
				[]string{
					"Duplicate symbols are not allowed",
					"Target percentages must sum to 100% (currently 50.0%)",
				},
				out.Errors,
			),
		)
	})

	t.Run("empty symbol, negative value and zero target", func(t *testing.T) {
		out := Validate([]domain.Asset{
			{Symbol: "  ", CurrentValue: -5, TargetPercentage: 0},
			{Symbol: "QQQ", CurrentValue: 100, TargetPercentage: 1.0},
		}, false)

		require.False(t, out.IsValid)
		require.Equal(
			t,
			"",
			cmp.Diff(
				[]string{
					"All assets must have a symbol",
					"Current values cannot be negative",
					"Target percentages must be greater than 0 (enable selling to allow 0% targets)",
				},
				out.Errors,
			),
		)
	})

	t.Run("too many assets", func(t *testing.T) {
		assets := make([]domain.Asset, 21)
		for i := range assets {
			assets[i] = domain.Asset{
				Symbol:           string(rune('A'+i)) + "X",
				CurrentValue:     100,
				TargetPercentage: 1.0 / 21,
			}
		}

		out := Validate(assets, false)
		require.False(t, out.IsValid)
		require.Contains(t, out.Errors, "Portfolio cannot contain more than 20 assets")
	})

	t.Run("zero target is fine when selling is enabled", func(t *testing.T) {
		out := Validate([]domain.Asset{
			{Symbol: "VOO", CurrentValue: 600, TargetPercentage: 1.0},
			{Symbol: "ARKK", CurrentValue: 300, TargetPercentage: 0},
		}, true)

		require.True(t, out.IsValid)
	})

	t.Run("negative target is rejected in selling mode", func(t *testing.T) {
		out := Validate([]domain.Asset{
			{Symbol: "VOO", CurrentValue: 600, TargetPercentage: 1.1},
			{Symbol: "ARKK", CurrentValue: 300, TargetPercentage: -0.1},
		}, true)

		require.False(t, out.IsValid)
		require.Contains(t, out.Errors, "Target percentages cannot be negative")
	})

	t.Run("sum tolerance is a tenth of a percentage point", func(t *testing.T) {
		out := Validate([]domain.Asset{
			{Symbol: "VOO", CurrentValue: 600, TargetPercentage: 0.5004},
			{Symbol: "QQQ", CurrentValue: 300, TargetPercentage: 0.5},
		}, false)
		require.True(t, out.IsValid)

		out = Validate([]domain.Asset{
			{Symbol: "VOO", CurrentValue: 600, TargetPercentage: 0.502},
			{Symbol: "QQQ", CurrentValue: 300, TargetPercentage: 0.5},
		}, false)
		require.False(t, out.IsValid)
		require.Contains(t, out.Errors, "Target percentages must sum to 100% (currently 100.2%)")
	})
}

func Test_Summarize(t *testing.T) {
	t.Run("empty results", func(t *testing.T) {
		require.Equal(t, Summary{}, Summarize(nil))
	})

	t.Run("counts over and underweight positions", func(t *testing.T) {
		s := Summarize([]domain.AllocationResult{
			{Symbol: "A", Difference: 5},
			{Symbol: "B", Difference: -3},
			{Symbol: "C", Difference: 0},
			{Symbol: "D", Difference: -2},
		})

		require.Equal(t, 1, s.Overweight)
		require.Equal(t, 2, s.Underweight)
		require.InDelta(t, 5, s.MaxDrift, 1e-9)
		require.InDelta(t, 2.5, s.MeanAbsDrift, 1e-9)
		require.Greater(t, s.DriftStdev, 0.0)
	})
}
