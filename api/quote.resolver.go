package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"allogator/internal/symbols"
)

func (m ApiHandler) quote(c *gin.Context) {
	raw := c.Query("symbol")
	if raw == "" {
		m.returnErrorJsonCode(fmt.Errorf("symbol parameter is required"), c, 400)
		return
	}

	symbol := symbols.Resolve(raw)
	if !symbols.Valid(symbol) {
		m.returnErrorJsonCode(fmt.Errorf("invalid symbol format"), c, 400)
		return
	}

	price, err := m.PriceService.GetPrice(c.Request.Context(), symbol)
	if err != nil {
		m.returnErrorJsonCode(fmt.Errorf("failed to fetch price for %s: %w", symbol, err), c, 502)
		return
	}

	// edge caches may serve a slightly stale quote while revalidating
	c.Header("Cache-Control", "s-maxage=60, stale-while-revalidate")
	c.JSON(200, price)
}
