package domain

// AllocationRequest is the input contract of the allocation engine. The
// caller is expected to run the validator before building one of these.
type AllocationRequest struct {
	Assets        []Asset `json:"assets"`
	NewMoney      float64 `json:"newMoney"`
	EnableSelling bool    `json:"enableSelling"`
}

// AllocationResult is the per-asset output of the engine. AmountToAdd is
// signed: positive means buy, negative means sell (selling mode only).
// TargetPercentage and Difference are on the 0-100 scale, unlike the
// input's 0-1 fraction - consumers rely on that unit change.
type AllocationResult struct {
	Symbol           string  `json:"symbol"`
	AmountToAdd      float64 `json:"amountToAdd"`
	NewValue         float64 `json:"newValue"`
	NewPercentage    float64 `json:"newPercentage"`
	TargetPercentage float64 `json:"targetPercentage"`
	Difference       float64 `json:"difference"`
}
