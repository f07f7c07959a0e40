package controllers

import (
	"update-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIController struct {
	svc *services.UpdateService
}

/**
 * Create new API controller instance
 * @param {*services.UpdateService} svc - Update service instance
 * @returns {*APIController} New API controller instance
 */
func NewAPIController(svc *services.UpdateService) *APIController {
	return &APIController{
		svc: svc,
	}
}

/**
 * Register health and observability routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", a.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// @Summary Liveness probe
// @Description Reports that the updater process is alive and serving
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":   "ok",
		"state":    a.svc.State(),
		"requests": services.GetTotalRequestCount(),
		"errors":   services.GetTotalErrorCount(),
	})
}
