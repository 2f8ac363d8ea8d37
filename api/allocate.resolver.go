package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"allogator/internal/allocator"
	"allogator/internal/domain"
	"allogator/internal/symbols"
)

// cash deposits above this are almost certainly a typo
const maxNewMoney = 1_000_000

type AllocateResponse struct {
	Results []domain.AllocationResult `json:"results"`
	Summary allocator.Summary         `json:"summary"`
}

func (m ApiHandler) allocate(c *gin.Context) {
	var req domain.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		m.returnErrorJsonCode(err, c, 400)
		return
	}

	for i := range req.Assets {
		req.Assets[i].Symbol = symbols.Normalize(req.Assets[i].Symbol)
	}

	validation := allocator.Validate(req.Assets, req.EnableSelling)
	if !validation.IsValid {
		c.AbortWithStatusJSON(422, validation)
		return
	}

	// selling mode is well-defined with zero cash (a pure sell-to-target
	// rebalance); buy-only mode needs money to distribute
	if !req.EnableSelling && req.NewMoney <= 0 {
		m.returnErrorJsonCode(fmt.Errorf("newMoney must be greater than 0"), c, 400)
		return
	}
	if req.NewMoney < 0 || req.NewMoney > maxNewMoney {
		m.returnErrorJsonCode(fmt.Errorf("newMoney must be between 0 and %d", maxNewMoney), c, 400)
		return
	}

	results := allocator.Allocate(req)
	c.JSON(200, AllocateResponse{
		Results: results,
		Summary: allocator.Summarize(results),
	})
}

func (m ApiHandler) validate(c *gin.Context) {
	var req struct {
		Assets        []domain.Asset `json:"assets"`
		EnableSelling bool           `json:"enableSelling"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		m.returnErrorJsonCode(err, c, 400)
		return
	}

	for i := range req.Assets {
		req.Assets[i].Symbol = symbols.Normalize(req.Assets[i].Symbol)
	}

	c.JSON(200, allocator.Validate(req.Assets, req.EnableSelling))
}
