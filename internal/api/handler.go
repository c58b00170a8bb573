package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/username/schedule-engine/internal/schedule"
	apperrors "github.com/username/schedule-engine/pkg/errors"
)

// StatusFunc reports process status for the health endpoint.
type StatusFunc func() map[string]interface{}

// Handler exposes the schedule engine over HTTP.
type Handler struct {
	engine    *schedule.Engine
	validator *validator.Validate
	metrics   *Metrics
	status    StatusFunc
	logger    *zap.Logger
}

// NewHandler builds a handler. A nil validator gets a default one.
func NewHandler(engine *schedule.Engine, validate *validator.Validate, metrics *Metrics, logger *zap.Logger) *Handler {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{engine: engine, validator: validate, metrics: metrics, logger: logger}
}

// Compute computes a schedule from a configuration.
func (h *Handler) Compute(c *gin.Context) {
	var req ComputeRequest
	if !h.bind(c, &req) {
		return
	}

	cfg, err := req.Configuration()
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.engine.Compute(cfg)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.metrics.ObserveSchedule("compute", result)
	JSON(c, http.StatusOK, result)
}

// EditPhase changes one phase's duration and reflows it and every later phase.
func (h *Handler) EditPhase(c *gin.Context) {
	var req EditPhaseRequest
	if !h.bind(c, &req) {
		return
	}

	cfg, err := req.ConfigurationWithPhases()
	if err != nil {
		h.fail(c, err)
		return
	}

	current, err := h.engine.Compute(cfg)
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.engine.EditPhase(cfg, current, req.Index, req.Days)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.metrics.ObserveSchedule("edit_phase", result)
	JSON(c, http.StatusOK, result)
}

// Templates lists the work schedule presets.
func (h *Handler) Templates(c *gin.Context) {
	JSON(c, http.StatusOK, h.engine.Templates().List(), map[string]any{
		"policies":         schedule.Policies(),
		"month_conversion": h.engine.Conversion(),
	})
}

// Calendar returns the classified days of one month.
func (h *Handler) Calendar(c *gin.Context) {
	var query CalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.fail(c, apperrors.Wrap(err, apperrors.ErrInvalidConfiguration.Code, http.StatusBadRequest, "invalid calendar query"))
		return
	}
	if err := h.validator.Struct(query); err != nil {
		h.fail(c, apperrors.Wrap(err, apperrors.ErrInvalidConfiguration.Code, http.StatusBadRequest, "invalid calendar query"))
		return
	}

	JSON(c, http.StatusOK, h.engine.Classifier().MonthInfo(query.Year, time.Month(query.Month)))
}

// Holidays lists the holidays of one year.
func (h *Handler) Holidays(c *gin.Context) {
	var query HolidaysQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.fail(c, apperrors.Wrap(err, apperrors.ErrInvalidConfiguration.Code, http.StatusBadRequest, "invalid holidays query"))
		return
	}
	if err := h.validator.Struct(query); err != nil {
		h.fail(c, apperrors.Wrap(err, apperrors.ErrInvalidConfiguration.Code, http.StatusBadRequest, "invalid holidays query"))
		return
	}

	JSON(c, http.StatusOK, h.engine.Classifier().HolidaysInYear(query.Year))
}

// WithStatus makes Health include fn's report under "server". Set it before serving.
func (h *Handler) WithStatus(fn StatusFunc) *Handler {
	h.status = fn
	return h
}

// Health responds with a generic OK payload for readiness/liveness usage.
func (h *Handler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.status != nil {
		body["server"] = h.status()
	}
	c.JSON(http.StatusOK, body)
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *Handler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.fail(c, apperrors.Wrap(err, apperrors.ErrInvalidConfiguration.Code, http.StatusBadRequest, "invalid request body"))
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		h.fail(c, apperrors.Wrap(err, apperrors.ErrInvalidConfiguration.Code, http.StatusBadRequest, "invalid schedule configuration"))
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.metrics.ObserveFailure(err)
	if apperrors.FromError(err).Status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err), zap.String("request_id", RequestIDValue(c)))
	}
	Error(c, err)
}
