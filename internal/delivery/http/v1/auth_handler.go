package v1

import (
	"net/http"
	"time"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const refreshTokenCookie = "refresh_token"

type AuthHandler struct {
	authUC     domain.AuthUsecase
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthHandler(
	seekerAuth *gin.RouterGroup,
	companyAuth *gin.RouterGroup,
	seekerProtected *gin.RouterGroup,
	companyProtected *gin.RouterGroup,
	authUC domain.AuthUsecase,
	accessTTL, refreshTTL time.Duration,
) {
	handler := &AuthHandler{authUC: authUC, accessTTL: accessTTL, refreshTTL: refreshTTL}

	seekerAuth.POST("/login", handler.LoginSeeker)
	seekerAuth.POST("/forgot-password", handler.ForgotPassword)
	seekerAuth.POST("/verify-reset", handler.VerifyReset)
	seekerAuth.PUT("/password", handler.UpdatePassword)
	seekerProtected.POST("/auth/seeker/logout", handler.LogoutSeeker)

	companyAuth.POST("/login", handler.LoginCompany)
	companyProtected.POST("/auth/company/logout", handler.LogoutCompany)
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required,identifier"`
	Password   string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type UpdatePasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Code            string `json:"code" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginSeeker godoc
// @Summary      Log in a job seeker
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Email or phone, and password"
// @Success      200   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Router       /auth/seeker/login [post]
func (h *AuthHandler) LoginSeeker(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Identifier and password are required"))
		return
	}

	user, pair, err := h.authUC.LoginSeeker(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookies(c, pair)
	response.Success(c, http.StatusOK, "Logged in", gin.H{
		"user":   user,
		"tokens": pair,
	})
}

// LoginCompany godoc
// @Summary      Log in a company
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Email and password"
// @Success      200   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Router       /auth/company/login [post]
func (h *AuthHandler) LoginCompany(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Identifier and password are required"))
		return
	}

	company, pair, err := h.authUC.LoginCompany(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookies(c, pair)
	response.Success(c, http.StatusOK, "Logged in", gin.H{
		"company": company,
		"tokens":  pair,
	})
}

func (h *AuthHandler) LogoutSeeker(c *gin.Context) {
	accountID := c.GetString(string(domain.KeyAccountID))
	if err := h.authUC.LogoutSeeker(c.Request.Context(), accountID); err != nil {
		c.Error(err)
		return
	}
	h.clearAuthCookies(c)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

func (h *AuthHandler) LogoutCompany(c *gin.Context) {
	accountID := c.GetString(string(domain.KeyAccountID))
	if err := h.authUC.LogoutCompany(c.Request.Context(), accountID); err != nil {
		c.Error(err)
		return
	}
	h.clearAuthCookies(c)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// ForgotPassword godoc
// @Summary      Request a password reset code
// @Description  Sends a one-time code to the email when an account exists. Always returns 200.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ForgotPasswordRequest  true  "Email"
// @Success      200   {object}  response.Response
// @Router       /auth/seeker/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("A valid email is required"))
		return
	}

	if err := h.authUC.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "If the account exists, a reset code has been sent", nil)
}

func (h *AuthHandler) VerifyReset(c *gin.Context) {
	var req VerifyResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Email and code are required"))
		return
	}

	if err := h.authUC.VerifyPasswordReset(c.Request.Context(), req.Email, req.Code); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Code verified", nil)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Email, reset code, password and confirmation are required"))
		return
	}

	if err := h.authUC.UpdatePassword(c.Request.Context(), req.Email, req.Code, req.Password, req.ConfirmPassword); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Password updated", nil)
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, pair *domain.TokenPair) {
	secure := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, int(h.accessTTL.Seconds()), "/", "", secure, true)
	c.SetCookie(refreshTokenCookie, pair.RefreshToken, int(h.refreshTTL.Seconds()), "/", "", secure, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", false, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", false, true)
}
