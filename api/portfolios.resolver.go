package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"allogator/internal/domain"
	"allogator/internal/service"
	"allogator/internal/symbols"
)

type SavePortfolioRequest struct {
	Name          string         `json:"name"`
	Assets        []domain.Asset `json:"assets"`
	NewMoney      float64        `json:"newMoney"`
	EnableSelling bool           `json:"enableSelling"`
}

func (m ApiHandler) listPortfolios(c *gin.Context) {
	portfolios, err := m.PortfolioService.List()
	if err != nil {
		m.returnErrorJson(fmt.Errorf("failed to list portfolios: %w", err), c)
		return
	}
	c.JSON(200, gin.H{"portfolios": portfolios})
}

func (m ApiHandler) savePortfolio(c *gin.Context) {
	var req SavePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		m.returnErrorJsonCode(err, c, 400)
		return
	}

	saved, err := m.PortfolioService.Save(service.SavePortfolioInput{
		Name:          req.Name,
		Assets:        normalizeAssets(req.Assets),
		NewMoney:      req.NewMoney,
		EnableSelling: req.EnableSelling,
	})
	if errors.Is(err, service.ErrPortfolioLimit) {
		m.returnErrorJsonCode(err, c, 409)
		return
	}
	if err != nil {
		m.returnErrorJson(fmt.Errorf("failed to save portfolio: %w", err), c)
		return
	}
	c.JSON(200, saved)
}

func (m ApiHandler) getPortfolio(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		m.returnErrorJsonCode(fmt.Errorf("invalid portfolio id: %w", err), c, 400)
		return
	}

	portfolio, err := m.PortfolioService.Get(id)
	if err != nil {
		m.returnErrorJsonCode(err, c, notFoundOr500(err))
		return
	}
	c.JSON(200, portfolio)
}

func (m ApiHandler) updatePortfolio(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		m.returnErrorJsonCode(fmt.Errorf("invalid portfolio id: %w", err), c, 400)
		return
	}

	var req SavePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		m.returnErrorJsonCode(err, c, 400)
		return
	}

	saved, err := m.PortfolioService.Save(service.SavePortfolioInput{
		ID:            &id,
		Name:          req.Name,
		Assets:        normalizeAssets(req.Assets),
		NewMoney:      req.NewMoney,
		EnableSelling: req.EnableSelling,
	})
	if err != nil {
		m.returnErrorJsonCode(err, c, notFoundOr500(err))
		return
	}
	c.JSON(200, saved)
}

func (m ApiHandler) deletePortfolio(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		m.returnErrorJsonCode(fmt.Errorf("invalid portfolio id: %w", err), c, 400)
		return
	}

	if err := m.PortfolioService.Delete(id); err != nil {
		m.returnErrorJsonCode(err, c, notFoundOr500(err))
		return
	}
	c.JSON(200, gin.H{"success": "true"})
}

func normalizeAssets(assets []domain.Asset) []domain.Asset {
	for i := range assets {
		assets[i].Symbol = symbols.Normalize(assets[i].Symbol)
	}
	return assets
}

func notFoundOr500(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return 404
	}
	return 500
}
