package controllers

import (
	"net/http"

	"callbot-management/services"
	"callbot-management/utils"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{Dashboard: dashboard}
}

// Summary serves the aggregate counts and top-type tables for the main
// dashboard.
func (ctl *DashboardController) Summary(c *gin.Context) {
	summary, err := ctl.Dashboard.Summary()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute dashboard summary")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}
