package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/domain"
	"github.com/FACorreiaa/masir/internal/app/middleware"
	"github.com/FACorreiaa/masir/internal/app/models"
)

type AuthHandlers struct {
	*domain.BaseHandler
	authService AuthService
}

func NewAuthHandlers(authService AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		BaseHandler: domain.NewBaseHandler(logger),
		authService: authService,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandlers) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetUserFromContext(c))
}
