package api

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"allogator/internal/service"
)

type ApiHandler struct {
	PriceService     service.PriceService
	PortfolioService service.PortfolioService
	Logger           *zap.SugaredLogger
	Db               *sql.DB
}

func (m ApiHandler) StartApi(port int) error {
	return m.Router().Run(fmt.Sprintf(":%d", port))
}

func (m ApiHandler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to allogator"})
	})
	router.GET("/quote", m.quote)
	router.POST("/allocate", m.allocate)
	router.POST("/validate", m.validate)
	router.GET("/portfolios", m.listPortfolios)
	router.POST("/portfolios", m.savePortfolio)
	router.GET("/portfolios/:id", m.getPortfolio)
	router.PUT("/portfolios/:id", m.updatePortfolio)
	router.DELETE("/portfolios/:id", m.deletePortfolio)
	router.POST("/share", m.createShareToken)
	router.GET("/share/:token", m.resolveShareToken)

	return router
}

func (m ApiHandler) returnErrorJson(err error, c *gin.Context) {
	m.returnErrorJsonCode(err, c, 500)
}

func (m ApiHandler) returnErrorJsonCode(err error, c *gin.Context, code int) {
	m.Logger.Warnf("request failed: %v", err)
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	start := time.Now()
	ctx.Next()
	m.Logger.Infow("request",
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
		"status", ctx.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
		"clientIp", ctx.ClientIP(),
	)
}
