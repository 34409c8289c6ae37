package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authUC "github.com/niyatisanja0206/resume-builder/internal/application/usecase/auth"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

type AuthHandler struct {
	loginUseCase         *authUC.LoginUseCase
	registerUseCase      *authUC.RegisterUseCase
	logoutUseCase        *authUC.LogoutUseCase
	deleteAccountUseCase *authUC.DeleteAccountUseCase
	logger               logger.Logger
}

func NewAuthHandler(
	login *authUC.LoginUseCase,
	register *authUC.RegisterUseCase,
	logout *authUC.LogoutUseCase,
	deleteAccount *authUC.DeleteAccountUseCase,
	log logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:         login,
		registerUseCase:      register,
		logoutUseCase:        logout,
		deleteAccountUseCase: deleteAccount,
		logger:               log,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for register", err))
		return
	}

	output, err := h.registerUseCase.Execute(c.Request.Context(), authUC.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token": output.AccessToken,
		"email":        output.User.Email,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for login", err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), authUC.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": output.AccessToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	email, ok := GetUserEmailFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("user email not found in context"))
		return
	}

	if err := h.logoutUseCase.Execute(c.Request.Context(), email); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	email, ok := GetUserEmailFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("user email not found in context"))
		return
	}

	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for account deletion", err))
		return
	}

	err := h.deleteAccountUseCase.Execute(c.Request.Context(), authUC.DeleteAccountInput{
		UserEmail: email,
		Confirm:   req.Confirm,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "account deleted"})
}
