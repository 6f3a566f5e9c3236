package location

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/domain"
	"github.com/FACorreiaa/masir/internal/app/middleware"
	"github.com/FACorreiaa/masir/internal/app/models"
)

type Handler struct {
	*domain.BaseHandler
	service Service
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{BaseHandler: domain.NewBaseHandler(logger), service: service}
}

// Create handles POST /api/locations/personal
func (h *Handler) Create(c *gin.Context) {
	var req models.CreatePersonalLocationRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.HandleError(c, err)
		return
	}
	user := middleware.GetUserFromContext(c)
	loc, err := h.service.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

// List handles GET /api/locations/personal
func (h *Handler) List(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	items, err := h.service.List(c.Request.Context(), user.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
