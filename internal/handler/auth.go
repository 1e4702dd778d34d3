package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusride/internal/domain"
	"campusride/internal/service"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	accountService *service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountService *service.AccountService) *AuthHandler {
	return &AuthHandler{accountService: accountService}
}

// RegisterPassengerRequest is the request body for passenger signup.
type RegisterPassengerRequest struct {
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone" binding:"required"`
	Gender             string `json:"gender"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	Password           string `json:"password" binding:"required,min=8"`
}

// RegisterRiderRequest is the request body for rider signup.
type RegisterRiderRequest struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"required"`
	LicensePlate  string `json:"license_plate" binding:"required"`
	Password      string `json:"password" binding:"required,min=8"`
}

// LoginEmailRequest is the request body for email-based login.
type LoginEmailRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginPhoneRequest is the request body for phone-based login.
type LoginPhoneRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the HTTP response for successful auth operations.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterPassenger handles POST /v1/auth/passenger/register
func (h *AuthHandler) RegisterPassenger(c *gin.Context) {
	var req RegisterPassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.accountService.RegisterPassenger(c.Request.Context(), service.RegisterPassengerRequest{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Gender:             req.Gender,
		RegistrationNumber: req.RegistrationNumber,
		Password:           req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toAuthResponse(result))
}

// RegisterRider handles POST /v1/auth/rider/register
func (h *AuthHandler) RegisterRider(c *gin.Context) {
	var req RegisterRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.accountService.RegisterRider(c.Request.Context(), service.RegisterRiderRequest{
		Name:          req.Name,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
		LicensePlate:  req.LicensePlate,
		Password:      req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toAuthResponse(result))
}

// LoginPassenger handles POST /v1/auth/passenger/login
func (h *AuthHandler) LoginPassenger(c *gin.Context) {
	h.loginByEmail(c, domain.RolePassenger)
}

// LoginAdmin handles POST /v1/auth/admin/login
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	h.loginByEmail(c, domain.RoleAdmin)
}

// LoginRider handles POST /v1/auth/rider/login
func (h *AuthHandler) LoginRider(c *gin.Context) {
	var req LoginPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.accountService.LoginByPhone(c.Request.Context(), req.Phone, req.Password, domain.RoleRider)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toAuthResponse(result))
}

func (h *AuthHandler) loginByEmail(c *gin.Context, role domain.Role) {
	var req LoginEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.accountService.LoginByEmail(c.Request.Context(), req.Email, req.Password, role)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toAuthResponse(result))
}

func toAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	}
}
