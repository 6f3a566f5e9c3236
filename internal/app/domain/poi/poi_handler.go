package poi

import (
	"net/http"
	"strings"

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

// Submit handles POST /api/pois
func (h *Handler) Submit(c *gin.Context) {
	var req models.CreatePOIRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.HandleError(c, err)
		return
	}
	user := middleware.GetUserFromContext(c)
	p, err := h.service.Submit(c.Request.Context(), user.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// List handles GET /api/pois
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
	filter := models.SubmissionFilter{Status: status, Category: strings.TrimSpace(c.Query("category"))}
	res, err := h.service.List(c.Request.Context(), filter, page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Approve handles PUT /api/admin/pois/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	h.review(c, models.DecisionApprove, "مکان تایید شد")
}

// Reject handles PUT /api/admin/pois/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	h.review(c, models.DecisionReject, "مکان رد شد")
}

func (h *Handler) review(c *gin.Context, decision models.ReviewDecision, message string) {
	id, err := h.PathUUID(c, "id", "مکان یافت نشد")
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
