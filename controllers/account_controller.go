package controllers

import (
	"errors"
	"net/http"
	"strings"

	"callbot-management/middleware"
	"callbot-management/services"
	"callbot-management/utils"

	"github.com/gin-gonic/gin"
)

type AccountController struct {
	Accounts *services.AccountService
}

func NewAccountController(accounts *services.AccountService) *AccountController {
	return &AccountController{Accounts: accounts}
}

type approvePayload struct {
	UserID  string `json:"userId" binding:"required"`
	Approve *bool  `json:"approve" binding:"required"`
}

type contactPayload struct {
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

type passwordPayload struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// Info returns the authenticated account.
func (ctl *AccountController) Info(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	account, err := ctl.Accounts.GetByUserID(userID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "account not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, account)
}

// UpdateContact changes email and phone of the authenticated account.
func (ctl *AccountController) UpdateContact(c *gin.Context) {
	var payload contactPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid contact payload")
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	account, err := ctl.Accounts.UpdateContact(userID, payload.Email, payload.PhoneNumber)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to update account")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, account)
}

// ChangePassword verifies the current password before replacing it.
func (ctl *AccountController) ChangePassword(c *gin.Context) {
	var payload passwordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid password payload")
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	err := ctl.Accounts.ChangePassword(userID, payload.CurrentPassword, payload.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			utils.JSONError(c, http.StatusBadRequest, "현재 비밀번호가 일치하지 않습니다.")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to change password")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "비밀번호가 변경되었습니다.")
}

// Logout blacklists the presented token until it would have expired.
func (ctl *AccountController) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing bearer token")
		return
	}
	if err := ctl.Accounts.Logout(c.Request.Context(), token); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "logout failed")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "logged out")
}

// Pending lists unapproved registrations. Root only.
func (ctl *AccountController) Pending(c *gin.Context) {
	pending, err := ctl.Accounts.PendingAccounts()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load pending accounts")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, pending)
}

// Approve resolves a pending registration. Root only. Rejection deletes
// the account.
func (ctl *AccountController) Approve(c *gin.Context) {
	var payload approvePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "userId and approve required")
		return
	}

	err := ctl.Accounts.ApproveOrReject(payload.UserID, *payload.Approve)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			utils.JSONError(c, http.StatusNotFound, "account not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "approval failed")
		return
	}

	if *payload.Approve {
		utils.JSONMessage(c, http.StatusOK, "계정이 승인되었습니다.")
	} else {
		utils.JSONMessage(c, http.StatusOK, "가입 요청이 거절되었습니다.")
	}
}
