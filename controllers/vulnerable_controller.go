package controllers

import (
	"errors"
	"net/http"
	"strings"

	"callbot-management/models"
	"callbot-management/services"
	"callbot-management/utils"

	"github.com/gin-gonic/gin"
)

type VulnerableController struct {
	Vulnerables *services.VulnerableService
}

func NewVulnerableController(vulnerables *services.VulnerableService) *VulnerableController {
	return &VulnerableController{Vulnerables: vulnerables}
}

type batchDeletePayload struct {
	UserIDs []string `json:"userIds" binding:"required,min=1"`
}

func (ctl *VulnerableController) Create(c *gin.Context) {
	var v models.Vulnerable
	if err := c.ShouldBindJSON(&v); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid vulnerable payload")
		return
	}
	if strings.TrimSpace(v.UserID) == "" || strings.TrimSpace(v.Name) == "" {
		utils.JSONError(c, http.StatusBadRequest, "userId and name required")
		return
	}

	if err := ctl.Vulnerables.Create(&v); err != nil {
		if errors.Is(err, services.ErrDuplicateVulnerable) {
			utils.JSONError(c, http.StatusBadRequest, "이미 등록된 ID입니다.")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to register vulnerable")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, v)
}

func (ctl *VulnerableController) List(c *gin.Context) {
	list, err := ctl.Vulnerables.GetAll()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load vulnerables")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctl *VulnerableController) GetByID(c *gin.Context) {
	v, err := ctl.Vulnerables.GetByID(c.Param("userId"))
	if err != nil {
		if errors.Is(err, services.ErrVulnerableNotFound) {
			utils.JSONError(c, http.StatusNotFound, "vulnerable not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load vulnerable")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, v)
}

func (ctl *VulnerableController) Update(c *gin.Context) {
	var in models.Vulnerable
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid vulnerable payload")
		return
	}

	updated, err := ctl.Vulnerables.Update(c.Param("userId"), &in)
	if err != nil {
		if errors.Is(err, services.ErrVulnerableNotFound) {
			utils.JSONError(c, http.StatusNotFound, "vulnerable not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update vulnerable")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

func (ctl *VulnerableController) Delete(c *gin.Context) {
	if err := ctl.Vulnerables.Delete(c.Param("userId")); err != nil {
		if errors.Is(err, services.ErrVulnerableNotFound) {
			utils.JSONError(c, http.StatusNotFound, "vulnerable not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete vulnerable")
		return
	}
	c.Status(http.StatusNoContent)
}

// BatchDelete deletes each selected id independently and reports per-id
// outcomes, so partial failures are visible instead of inferred from a
// re-fetch diff.
func (ctl *VulnerableController) BatchDelete(c *gin.Context) {
	var payload batchDeletePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "userIds required")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ctl.Vulnerables.BatchDelete(payload.UserIDs))
}

// Search backs the call screen's target picker with a case-insensitive
// name substring match.
func (ctl *VulnerableController) Search(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		utils.JSONError(c, http.StatusBadRequest, "name query required")
		return
	}

	summaries, err := ctl.Vulnerables.SearchByName(name)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "search failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summaries)
}
