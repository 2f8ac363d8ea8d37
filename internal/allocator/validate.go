package allocator

import (
	"fmt"
	"math"
	"strings"

	"allogator/internal/domain"
)

const (
	MinAssets = 2
	MaxAssets = 20

	// tolerance on the target sum, in percentage points
	percentageSumTolerance = 0.1
)

type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Validate checks the structural invariants the engine assumes. Every
// violated rule contributes its own message - nothing short-circuits, so
// the caller can surface all problems at once.
func Validate(assets []domain.Asset, enableSelling bool) ValidationResult {
	errs := []string{}

	if len(assets) < MinAssets {
		errs = append(errs, fmt.Sprintf("Portfolio must contain at least %d assets", MinAssets))
	}
	if len(assets) > MaxAssets {
		errs = append(errs, fmt.Sprintf("Portfolio cannot contain more than %d assets", MaxAssets))
	}

	seen := map[string]bool{}
	hasDuplicate := false
	for _, a := range assets {
		if seen[a.Symbol] {
			hasDuplicate = true
		}
		seen[a.Symbol] = true
	}
	if hasDuplicate {
		errs = append(errs, "Duplicate symbols are not allowed")
	}

	for _, a := range assets {
		if strings.TrimSpace(a.Symbol) == "" {
			errs = append(errs, "All assets must have a symbol")
			break
		}
	}

	for _, a := range assets {
		if a.CurrentValue < 0 {
			errs = append(errs, "Current values cannot be negative")
			break
		}
	}

	if enableSelling {
		for _, a := range assets {
			if a.TargetPercentage < 0 {
				errs = append(errs, "Target percentages cannot be negative")
				break
			}
		}
	} else {
		for _, a := range assets {
			if a.TargetPercentage <= 0 {
				errs = append(errs, "Target percentages must be greater than 0 (enable selling to allow 0% targets)")
				break
			}
		}
	}

	sum := 0.0
	for _, a := range assets {
		sum += a.TargetPercentage
	}
	percentageSum := sum * 100
	if math.Abs(percentageSum-100) > percentageSumTolerance {
		errs = append(errs, fmt.Sprintf("Target percentages must sum to 100%% (currently %.1f%%)", percentageSum))
	}

	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
