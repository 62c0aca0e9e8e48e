package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// SessionCookie describes the cookie that carries the session token
type SessionCookie struct {
	Name      string
	Secure    bool
	Domain    string
	LoginPath string
}

// AuthController handles login, logout and the current session
type AuthController struct {
	authService *services.AuthService
	cookie      SessionCookie
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, cookie SessionCookie) *AuthController {
	return &AuthController{authService: authService, cookie: cookie}
}

func (c *AuthController) setCookie(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookie.Name, value, maxAge, "/", c.cookie.Domain, c.cookie.Secure, true)
}

// Login handles user login
// @Summary User login
// @Description Verifies credentials and sets the session cookie. When role is given it must match the account.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.Ctx(ctx.Request.Context()).Warn().Err(err).Msg("Invalid login request payload")
		middleware.HandleValidationError(ctx, err)
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		logger.Ctx(ctx.Request.Context()).Warn().Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.setCookie(ctx, result.Token, maxAge)

	logger.Ctx(ctx.Request.Context()).Info().Int64("userID", result.User.ID).Str("role", string(result.User.Role)).Msg("User logged in")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.LoginResponse{User: result.User}))
}

// Logout clears the session cookie
// @Summary Logout
// @Description Clears the session cookie and redirects to the login page
// @Tags auth
// @Success 302 "Redirect to the login page"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.setCookie(ctx, "", -1)
	ctx.Redirect(http.StatusFound, c.cookie.LoginPath)
}

// Me returns the current session
// @Summary Current session
// @Description Returns the authenticated account
// @Tags auth
// @Produce json
// @Security SessionCookie
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	id := identity(ctx)
	if id == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	user, err := c.authService.Me(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user))
}
