package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"allogator/internal/domain"
	"allogator/internal/share"
	"allogator/internal/symbols"
)

type CreateShareRequest struct {
	Assets        []domain.Asset `json:"assets"`
	NewMoney      float64        `json:"newMoney"`
	EnableSelling bool           `json:"enableSelling"`
}

func (m ApiHandler) createShareToken(c *gin.Context) {
	var req CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		m.returnErrorJsonCode(err, c, 400)
		return
	}

	for i := range req.Assets {
		req.Assets[i].Symbol = symbols.Normalize(req.Assets[i].Symbol)
	}

	token, err := share.Encode(req.Assets, req.NewMoney, req.EnableSelling)
	if err != nil {
		m.returnErrorJson(fmt.Errorf("failed to create share token: %w", err), c)
		return
	}
	c.JSON(200, gin.H{"token": token})
}

func (m ApiHandler) resolveShareToken(c *gin.Context) {
	assets, newMoney, enableSelling, err := share.Decode(c.Param("token"))
	if err != nil {
		m.returnErrorJsonCode(err, c, 400)
		return
	}

	c.JSON(200, gin.H{
		"assets":        assets,
		"newMoney":      newMoney,
		"enableSelling": enableSelling,
	})
}
