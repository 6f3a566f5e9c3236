package roads

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

// Submit handles POST /api/roads
func (h *Handler) Submit(c *gin.Context) {
	var req models.CreateRoadRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.HandleError(c, err)
		return
	}
	user := middleware.GetUserFromContext(c)
	road, err := h.service.Submit(c.Request.Context(), user.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, road)
}

// List handles GET /api/roads
func (h *Handler) List(c *gin.Context) {
	status, err := models.ParseStatusFilter(c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.PageParams(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	res, err := h.service.List(c.Request.Context(), status, page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListMine handles GET /api/roads/user
func (h *Handler) ListMine(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	items, err := h.service.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Approve handles PUT /api/admin/roads/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	h.review(c, models.DecisionApprove, "مسیر تایید شد و سکه اضافه شد")
}

// Reject handles PUT /api/admin/roads/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	h.review(c, models.DecisionReject, "مسیر رد شد")
}

func (h *Handler) review(c *gin.Context, decision models.ReviewDecision, message string) {
	id, err := h.PathUUID(c, "id", "مسیر یافت نشد")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if _, err := h.service.Review(c.Request.Context(), id, decision); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: message})
}
