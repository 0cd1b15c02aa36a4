package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"callbot-management/services"
	"callbot-management/utils"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	History *services.HistoryService
}

func NewHistoryController(history *services.HistoryService) *HistoryController {
	return &HistoryController{History: history}
}

func historyQueryFromRequest(c *gin.Context) services.HistoryQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	q := services.HistoryQuery{
		Page:       page,
		Size:       size,
		Sort:       c.Query("sort"),
		SearchTerm: c.Query("searchTerm"),
	}
	if raw := c.Query("sIndex"); raw != "" {
		if idx, err := strconv.Atoi(raw); err == nil {
			q.SessionIndex = &idx
		}
	}
	return q
}

// List serves the paginated call-history table.
func (ctl *HistoryController) List(c *gin.Context) {
	page, err := ctl.History.List(historyQueryFromRequest(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load call history")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, page)
}

// Detail serves the full consultation record.
func (ctl *HistoryController) Detail(c *gin.Context) {
	consultation, err := ctl.History.Detail(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrConsultationNotFound) {
			utils.JSONError(c, http.StatusNotFound, "consultation not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load consultation")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, consultation)
}

// Export streams the filtered history as an xlsx download.
func (ctl *HistoryController) Export(c *gin.Context) {
	f, err := ctl.History.Export(historyQueryFromRequest(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "export failed")
		return
	}

	filename := services.ExportFilename(time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		// headers are gone already; nothing useful left to send
		return
	}
}
