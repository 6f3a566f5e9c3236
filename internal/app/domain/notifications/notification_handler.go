package notifications

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

// List handles GET /api/notifications
func (h *Handler) List(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	items, err := h.service.List(c.Request.Context(), user.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// MarkRead handles PUT /api/notifications/:id/read
func (h *Handler) MarkRead(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	id, err := h.PathUUID(c, "id", "اعلان یافت نشد")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), id, user.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "اعلان خوانده شد"})
}

// Broadcast handles POST /api/admin/notifications/broadcast
func (h *Handler) Broadcast(c *gin.Context) {
	var req models.BroadcastRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.HandleError(c, err)
		return
	}
	res, err := h.service.Broadcast(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
