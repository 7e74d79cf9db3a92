package controllers

import (
	"errors"
	"net/http"

	"breakfast-backend/middleware"
	"breakfast-backend/services"
	"breakfast-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	staff *services.StaffService
}

func NewAuthController(staff *services.StaffService) *AuthController {
	return &AuthController{staff: staff}
}

// POST /api/auth/register
func (ctl *AuthController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload", err.Error())
		return
	}

	staff, err := ctl.staff.Register(req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.JSONError(c, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register staff", err.Error())
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, staff)
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload", err.Error())
		return
	}

	token, staff, err := ctl.staff.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed", err.Error())
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"token": token, "staff": staff})
}

// GET /api/auth/me
func (ctl *AuthController) Me(c *gin.Context) {
	staffID, ok := middleware.StaffID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	staff, err := ctl.staff.GetByID(staffID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "NOT_FOUND", "Staff not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, staff)
}
