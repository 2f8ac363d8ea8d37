// Package share turns a portfolio into a compact URL-safe token and back.
// The payload is base64-encoded JSON with single-letter keys to keep
// shared links short.
package share

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"

	"allogator/internal/domain"
)

const (
	maxTokenAssets  = 20
	maxCurrentValue = 1_000_000_000
)

// token symbols are stricter than quote symbols: no exchange prefixes
var tokenSymbol = regexp.MustCompile(`^[A-Z0-9\-.]{1,12}$`)

type encodedAsset struct {
	Symbol string   `json:"s"`
	Value  float64  `json:"v"`
	Target float64  `json:"t"`
	Price  *float64 `json:"p,omitempty"`
	Shares *float64 `json:"sh,omitempty"`
	NoSell bool     `json:"ns,omitempty"`
}

type encodedPortfolio struct {
	Assets        []encodedAsset `json:"assets"`
	NewMoney      float64        `json:"m"`
	EnableSelling bool           `json:"sell,omitempty"`
}

// Encode packs the calculator inputs into a shareable token.
func Encode(assets []domain.Asset, newMoney float64, enableSelling bool) (string, error) {
	payload := encodedPortfolio{
		Assets:        make([]encodedAsset, 0, len(assets)),
		NewMoney:      newMoney,
		EnableSelling: enableSelling,
	}
	for _, a := range assets {
		payload.Assets = append(payload.Assets, encodedAsset{
			Symbol: a.Symbol,
			Value:  a.CurrentValue,
			Target: a.TargetPercentage,
			Price:  a.CurrentPrice,
			Shares: a.Shares,
			NoSell: a.NoSell,
		})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode portfolio: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode unpacks and validates a share token. A token that fails any
// check is rejected whole - no partially-trusted portfolios.
func Decode(token string) ([]domain.Asset, float64, bool, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, 0, false, fmt.Errorf("malformed share token: %w", err)
	}

	var payload encodedPortfolio
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, 0, false, fmt.Errorf("malformed share token: %w", err)
	}

	if len(payload.Assets) == 0 || len(payload.Assets) > maxTokenAssets {
		return nil, 0, false, fmt.Errorf("share token must carry between 1 and %d assets", maxTokenAssets)
	}
	if payload.NewMoney < 0 || payload.NewMoney > maxCurrentValue {
		return nil, 0, false, fmt.Errorf("share token has an out-of-range cash amount")
	}

	assets := make([]domain.Asset, 0, len(payload.Assets))
	for _, e := range payload.Assets {
		if err := validateAsset(e); err != nil {
			return nil, 0, false, err
		}
		assets = append(assets, domain.Asset{
			Symbol:           e.Symbol,
			CurrentValue:     e.Value,
			TargetPercentage: e.Target,
			CurrentPrice:     e.Price,
			Shares:           e.Shares,
			NoSell:           e.NoSell,
		})
	}

	return assets, payload.NewMoney, payload.EnableSelling, nil
}

func validateAsset(e encodedAsset) error {
	if !tokenSymbol.MatchString(e.Symbol) {
		return fmt.Errorf("share token has an invalid symbol %q", e.Symbol)
	}
	if e.Value < 0 || e.Value > maxCurrentValue {
		return fmt.Errorf("share token has an out-of-range value for %s", e.Symbol)
	}
	if e.Target < 0 || e.Target > 1 {
		return fmt.Errorf("share token has an out-of-range target for %s", e.Symbol)
	}
	if e.Price != nil && *e.Price < 0 {
		return fmt.Errorf("share token has a negative price for %s", e.Symbol)
	}
	if e.Shares != nil && *e.Shares < 0 {
		return fmt.Errorf("share token has negative shares for %s", e.Symbol)
	}
	return nil
}
