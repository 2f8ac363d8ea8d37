package allocator

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"allogator/internal/domain"
)

// Allocate computes per-asset buy (and, in selling mode, sell) amounts for
// a validated portfolio. Input order is preserved in the output; only the
// processing order inside buy-only mode depends on deviation ranking.
//
// The engine assumes Validate has passed and, in buy-only mode, that
// NewMoney > 0. It never errors: numeric edge cases are handled by
// explicit branches.
func Allocate(req domain.AllocationRequest) []domain.AllocationResult {
	if req.EnableSelling {
		return allocateWithSells(req.Assets, req.NewMoney)
	}
	return allocateBuyOnly(req.Assets, req.NewMoney)
}

// allocateBuyOnly distributes exactly newMoney across the assets, closing
// the most underweight gaps first and never selling. All money math runs
// in integer cents so that per-asset rounding cannot drift the total.
func allocateBuyOnly(assets []domain.Asset, newMoney float64) []domain.AllocationResult {
	currentTotal := domain.CurrentTotal(assets)
	newTotal := currentTotal + newMoney

	type position struct {
		index      int
		target     float64
		valueCents int64
		deviation  float64
	}

	order := make([]position, len(assets))
	for i, a := range assets {
		currentPct := 0.0
		if currentTotal > 0 {
			currentPct = a.CurrentValue / currentTotal * 100
		}
		order[i] = position{
			index:      i,
			target:     a.TargetPercentage,
			valueCents: toCents(a.CurrentValue),
			deviation:  currentPct - a.TargetPercentage*100,
		}
	}

	// most underweight first; stable so equal deviations keep input order
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].deviation < order[j].deviation
	})

	addedCents := make([]int64, len(assets))
	remaining := toCents(newMoney)

	// first pass: close underweight gaps while money lasts
	for _, p := range order {
		targetCents := int64(math.Round(newTotal * p.target * 100))
		needed := targetCents - p.valueCents
		if needed < 0 {
			needed = 0
		}
		grant := needed
		if grant > remaining {
			grant = remaining
		}
		addedCents[p.index] += grant
		remaining -= grant
	}

	// second pass: every gap is closed, spread the leftover by target weight
	if remaining > 0 {
		pool := remaining
		for _, p := range order {
			grant := int64(math.Round(float64(pool) * p.target))
			if grant > remaining {
				grant = remaining
			}
			addedCents[p.index] += grant
			remaining -= grant
		}
	}

	// rounding residue (a few cents at most) lands on the most underweight
	if remaining > 0 && len(order) > 0 {
		addedCents[order[0].index] += remaining
	}

	results := make([]domain.AllocationResult, len(assets))
	for i, a := range assets {
		results[i] = buildResult(a, fromCents(addedCents[i]), newTotal)
	}
	return results
}

// allocateWithSells rebalances every unlocked asset exactly onto its target
// share of newTotal. Locked (NoSell) assets only ever receive buys; when
// aggregate buy demand exceeds new money plus sell proceeds, all buys are
// scaled down proportionally so the plan stays cash-feasible.
func allocateWithSells(assets []domain.Asset, newMoney float64) []domain.AllocationResult {
	currentTotal := decimal.NewFromFloat(domain.CurrentTotal(assets))
	newTotal := currentTotal.Add(decimal.NewFromFloat(newMoney))

	available := decimal.NewFromFloat(newMoney)
	totalBuyNeeded := decimal.Zero
	tentative := make([]decimal.Decimal, len(assets))

	for i, a := range assets {
		ideal := newTotal.
			Mul(decimal.NewFromFloat(a.TargetPercentage)).
			Sub(decimal.NewFromFloat(a.CurrentValue))

		switch {
		case a.NoSell && ideal.IsNegative():
			// overweight but locked: hold, contribute no cash
			tentative[i] = decimal.Zero
		case ideal.IsNegative():
			// sell proceeds fund the buy side
			tentative[i] = ideal
			available = available.Sub(ideal)
		default:
			tentative[i] = ideal
			totalBuyNeeded = totalBuyNeeded.Add(ideal)
		}
	}

	// nobody buying means nothing to scale
	scale := decimal.NewFromInt(1)
	if totalBuyNeeded.IsPositive() && available.LessThan(totalBuyNeeded) {
		scale = available.Div(totalBuyNeeded)
	}

	newTotalFloat, _ := newTotal.Float64()
	results := make([]domain.AllocationResult, len(assets))
	for i, a := range assets {
		amount := tentative[i]
		if amount.IsPositive() {
			amount = amount.Mul(scale)
		}
		amountFloat, _ := amount.Float64()
		results[i] = buildResult(a, amountFloat, newTotalFloat)
	}
	return results
}

func buildResult(a domain.Asset, amountToAdd, newTotal float64) domain.AllocationResult {
	newValue := a.CurrentValue + amountToAdd
	newPct := 0.0
	if newTotal > 0 {
		newPct = newValue / newTotal * 100
	}
	target := a.TargetPercentage * 100
	return domain.AllocationResult{
		Symbol:           a.Symbol,
		AmountToAdd:      amountToAdd,
		NewValue:         newValue,
		NewPercentage:    newPct,
		TargetPercentage: target,
		Difference:       newPct - target,
	}
}

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}
