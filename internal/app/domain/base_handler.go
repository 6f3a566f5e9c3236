package domain

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/models"
	"github.com/FACorreiaa/masir/internal/app/validation"
)

const (
	MsgInternal     = "خطای سرور. لطفا دوباره تلاش کنید."
	msgBadRequest   = "درخواست نامعتبر است"
	msgUnauthorized = "احراز هویت لازم است"
	msgForbidden    = "دسترسی غیرمجاز"
	msgNotFound     = "یافت نشد"
	msgConflict     = "درخواست با وضعیت فعلی سازگار نیست"
	msgRateLimited  = "تعداد درخواست‌ها بیش از حد مجاز است. لطفا کمی صبر کنید."
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

// StatusFor maps a domain error onto its HTTP status and client-facing message.
func StatusFor(err error) (int, string) {
	if msg, ok := validation.Message(err); ok {
		return http.StatusUnprocessableEntity, msg
	}

	var status int
	var fallback string
	switch {
	case errors.Is(err, models.ErrValidation):
		status, fallback = http.StatusUnprocessableEntity, msgBadRequest
	case errors.Is(err, models.ErrBadRequest):
		status, fallback = http.StatusBadRequest, msgBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		status, fallback = http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status, fallback = http.StatusForbidden, msgForbidden
	case errors.Is(err, models.ErrNotFound):
		status, fallback = http.StatusNotFound, msgNotFound
	case errors.Is(err, models.ErrConflict):
		status, fallback = http.StatusConflict, msgConflict
	case errors.Is(err, models.ErrRateLimited):
		status, fallback = http.StatusTooManyRequests, msgRateLimited
	default:
		return http.StatusInternalServerError, MsgInternal
	}

	var de *models.DetailedError
	if errors.As(err, &de) && de.Detail != "" {
		return status, de.Detail
	}
	return status, fallback
}

// HandleError writes the {"detail": ...} reply for err and aborts the chain.
// Unclassified errors are logged and reported without internals.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	status, detail := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Error(err))
	} else {
		h.Logger.Debug("Request rejected",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

// BindJSON decodes the body into dst and validates it. A body that is not valid
// JSON for dst yields ErrBadRequest; a rule violation yields a validation error.
func (h *BaseHandler) BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return models.WithDetail(models.ErrBadRequest, "بدنه درخواست نامعتبر است")
	}
	if n, ok := dst.(interface{ Normalize() }); ok {
		n.Normalize()
	}
	return validation.Struct(dst)
}

// PageParams reads page and page_size from the query string, applying defaults.
func (h *BaseHandler) PageParams(c *gin.Context) (models.PageParams, error) {
	p := models.DefaultPageParams()
	var err error
	if p.Page, err = queryInt(c, "page", p.Page); err != nil {
		return p, err
	}
	if p.PageSize, err = queryInt(c, "page_size", p.PageSize); err != nil {
		return p, err
	}
	return p, validation.Struct(&p)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.WithDetail(models.ErrValidation, key+" باید عدد صحیح باشد")
	}
	return n, nil
}

// PathUUID parses a path parameter as a UUID. Malformed ids cannot match a row,
// so they are reported as not found.
func (h *BaseHandler) PathUUID(c *gin.Context, name, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, models.WithDetail(models.ErrNotFound, notFound)
	}
	return id, nil
}
