package controllers

import (
	"errors"
	"net/http"
	"strings"

	"callbot-management/services"
	"callbot-management/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Accounts *services.AccountService
}

func NewAuthController(accounts *services.AccountService) *AuthController {
	return &AuthController{Accounts: accounts}
}

type loginPayload struct {
	UserID   string `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerPayload struct {
	UserID      string `json:"userId" binding:"required,min=5,max=20"`
	Password    string `json:"password" binding:"required,min=8"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// Login issues access and refresh tokens for an approved account.
func (ctl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "userId and password required")
		return
	}

	account, err := ctl.Accounts.Authenticate(strings.TrimSpace(payload.UserID), payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotApproved):
			utils.JSONError(c, http.StatusForbidden, "관리자 승인 대기 중입니다.")
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.JSONError(c, http.StatusUnauthorized, "아이디 또는 비밀번호가 일치하지 않습니다.")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "login failed")
		}
		return
	}

	accessToken, err := utils.GenerateAccessToken(account.UserID, account.IsRoot)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(account.UserID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"isRoot":       account.IsRoot,
		"account":      account,
	})
}

// Register creates a pending account; login stays blocked until approval.
func (ctl *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid registration payload")
		return
	}

	err := ctl.Accounts.Register(strings.TrimSpace(payload.UserID), payload.Password, payload.Email, payload.PhoneNumber)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateUserID) {
			utils.JSONError(c, http.StatusConflict, "이미 존재하는 아이디입니다.")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "registration failed")
		return
	}

	utils.JSONMessage(c, http.StatusCreated, "가입 요청이 완료되었습니다. 관리자 승인 후 로그인이 가능합니다.")
}
