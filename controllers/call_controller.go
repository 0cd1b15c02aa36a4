package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"callbot-management/middleware"
	"callbot-management/services"
	"callbot-management/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CallController struct {
	Calls   *services.CallService
	Monitor *services.MonitoringService
}

func NewCallController(calls *services.CallService, monitor *services.MonitoringService) *CallController {
	return &CallController{Calls: calls, Monitor: monitor}
}

type startCallPayload struct {
	VulnerableIDs []string `json:"vulnerableIds" binding:"required,min=1"`
	QuestionSetID string   `json:"questionSetId" binding:"required"`
	AdminID       string   `json:"adminId"`
}

// Start queues one consultation per selected target.
func (ctl *CallController) Start(c *gin.Context) {
	var payload startCallPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "vulnerableIds and questionSetId required")
		return
	}

	adminID := payload.AdminID
	if adminID == "" {
		adminID = c.GetString(middleware.ContextUserID)
	}

	queueIDs, err := ctl.Calls.EnqueueBatch(c.Request.Context(), payload.VulnerableIDs, payload.QuestionSetID, adminID)
	if err != nil {
		if errors.Is(err, services.ErrQuestionSetNotFound) || errors.Is(err, services.ErrVulnerableNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to queue consultations")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"queueIds": queueIDs})
}

// QueueStatus returns the board snapshot plus derived progress, the same
// state the SSE stream patches incrementally.
func (ctl *CallController) QueueStatus(c *gin.Context) {
	items, progress := ctl.Calls.QueueStatus()
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"items":    items,
		"progress": progress,
	})
}

// StartNext manually triggers one pump tick.
func (ctl *CallController) StartNext(c *gin.Context) {
	if err := ctl.Calls.StartNext(c.Request.Context()); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to start next consultation")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "ok")
}

// Subscribe streams status updates as server-sent events. The connection
// stays open until the client disconnects; each applied board update is
// delivered as a named statusUpdate event.
func (ctl *CallController) Subscribe(c *gin.Context) {
	adminID := c.Param("adminId")

	updates, cancel := ctl.Monitor.Subscribe(adminID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("connect", "Connection successful")
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case update, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("statusUpdate", update)
			return true
		}
	})
}

// Result receives the orchestrator's consultation outcome.
func (ctl *CallController) Result(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unreadable body")
		return
	}

	var payload services.CallResultPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid result payload")
		return
	}
	if payload.VulnerableID == "" {
		utils.JSONError(c, http.StatusBadRequest, "v_id required")
		return
	}

	consultation, err := ctl.Calls.HandleResult(payload, raw)
	if err != nil {
		logrus.WithError(err).Error("failed to store consultation result")
		utils.JSONError(c, http.StatusInternalServerError, "failed to store result")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"consultationId": consultation.ID})
}
