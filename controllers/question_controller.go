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

type QuestionController struct {
	Questions *services.QuestionService
}

func NewQuestionController(questions *services.QuestionService) *QuestionController {
	return &QuestionController{Questions: questions}
}

func (ctl *QuestionController) Create(c *gin.Context) {
	var qs models.QuestionSet
	if err := c.ShouldBindJSON(&qs); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid question set payload")
		return
	}
	if strings.TrimSpace(qs.QuestionsID) == "" || strings.TrimSpace(qs.Title) == "" {
		utils.JSONError(c, http.StatusBadRequest, "questionsId and title required")
		return
	}

	if err := ctl.Questions.Create(&qs); err != nil {
		if errors.Is(err, services.ErrDuplicateQuestionSet) {
			utils.JSONError(c, http.StatusBadRequest, "이미 등록된 질문 세트 ID입니다.")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create question set")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, qs)
}

func (ctl *QuestionController) List(c *gin.Context) {
	items, err := ctl.Questions.GetAll()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load question sets")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}

func (ctl *QuestionController) GetByID(c *gin.Context) {
	qs, err := ctl.Questions.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrQuestionSetNotFound) {
			utils.JSONError(c, http.StatusNotFound, "question set not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load question set")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, qs)
}

func (ctl *QuestionController) Update(c *gin.Context) {
	var in models.QuestionSet
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid question set payload")
		return
	}

	updated, err := ctl.Questions.Update(c.Param("id"), &in)
	if err != nil {
		if errors.Is(err, services.ErrQuestionSetNotFound) {
			utils.JSONError(c, http.StatusNotFound, "question set not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update question set")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

func (ctl *QuestionController) Delete(c *gin.Context) {
	if err := ctl.Questions.Delete(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrQuestionSetNotFound) {
			utils.JSONError(c, http.StatusNotFound, "question set not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete question set")
		return
	}
	c.Status(http.StatusNoContent)
}

// Types serves the fixed classification catalogs used by the question
// editor's tag pickers.
func (ctl *QuestionController) Types(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"riskTypes":      models.RiskTypes,
		"desireTypes":    models.DesireTypes,
		"exceptionTypes": models.ExceptionTypes,
		"deepDiveTypes":  models.DeepDiveTypes,
	})
}
