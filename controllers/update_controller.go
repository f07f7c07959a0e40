package controllers

import (
	"update-keeper/services"

	"github.com/gin-gonic/gin"
)

type UpdateController struct {
	svc *services.UpdateService
}

/**
 * Create new Update controller instance
 * @param {*services.UpdateService} svc - Update service driving the pipeline
 * @returns {*UpdateController} New Update controller instance
 * @description
 * - Exposes the pipeline's two inputs (requestCheck,
 *   requestDownloadAndInstall) and a status snapshot to the presentation
 *   layer over HTTP
 */
func NewUpdateController(svc *services.UpdateService) *UpdateController {
	return &UpdateController{
		svc: svc,
	}
}

/**
 * Register all update API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 */
func (u *UpdateController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/updater/api/v1")
	api.GET("/status", u.GetStatus)
	api.POST("/check", u.RequestCheck)
	api.POST("/update", u.RequestUpdate)
}

// @Summary Get updater status
// @Description Returns the pipeline state, versions, progress and the last results
// @Tags Updater
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /updater/api/v1/status [get]
func (u *UpdateController) GetStatus(c *gin.Context) {
	c.JSON(200, u.svc.Status())
}

// @Summary Trigger an update check
// @Description Asks the pipeline to fetch the manifest and compare versions; the outcome is observable via /status
// @Tags Updater
// @Produce json
// @Success 202 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "{"code": "updater.busy", "message": "..."}"
// @Router /updater/api/v1/check [post]
func (u *UpdateController) RequestCheck(c *gin.Context) {
	if err := u.svc.RequestCheck(); err != nil {
		c.JSON(409, gin.H{
			"code":    "updater.busy",
			"message": err.Error(),
		})
		return
	}
	c.JSON(202, gin.H{"status": "accepted"})
}

// @Summary Trigger download and install
// @Description Starts download and install of the update found by the last check
// @Tags Updater
// @Produce json
// @Success 202 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "{"code": "updater.busy|updater.no_update", "message": "..."}"
// @Router /updater/api/v1/update [post]
func (u *UpdateController) RequestUpdate(c *gin.Context) {
	if err := u.svc.RequestDownloadAndInstall(); err != nil {
		code := "updater.busy"
		if err == services.ErrNoUpdate {
			code = "updater.no_update"
		}
		c.JSON(409, gin.H{
			"code":    code,
			"message": err.Error(),
		})
		return
	}
	c.JSON(202, gin.H{"status": "accepted"})
}
