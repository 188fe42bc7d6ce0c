// Package handlers exposes a Dashboard over HTTP.
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	dashboard "github.com/respinosap/t2-repo"
	"github.com/respinosap/t2-repo/internal/metrics"
	"github.com/respinosap/t2-repo/window"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"

	paramDate    = "date"
	paramHour    = "hour"
	paramHorizon = "horizon"
)

var ErrInvalidParam = errors.New("invalid query parameter")

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Handler serves the windows of a single Dashboard.
type Handler struct {
	dash    *dashboard.Dashboard
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewHandler(dash *dashboard.Dashboard, log *slog.Logger, m *metrics.Metrics) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		dash:    dash,
		log:     log,
		metrics: m,
	}
}

// NewRouter returns the gin engine with every route and middleware registered.
func NewRouter(dash *dashboard.Dashboard, log *slog.Logger, m *metrics.Metrics) *gin.Engine {
	h := NewHandler(dash, log, m)

	r := gin.New()
	r.Use(RequestID())
	r.Use(AccessLog(h.log, m))
	r.Use(Recovery(h.log))
	r.Use(cors.Default())

	r.GET("/health", h.Health)
	r.GET("/", h.Index)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/bounds", h.Bounds)
		v1.GET("/window", h.Window)
	}
	return r
}

func (h *Handler) Health(c *gin.Context) {
	h.writeJSON(c, http.StatusOK, healthResponse{Status: "healthy"})
}

func (h *Handler) Bounds(c *gin.Context) {
	h.writeJSON(c, http.StatusOK, dashboard.NewBoundsResponse(h.dash.Bounds()))
}

// Window responds with the composed window as json. Selections that match no data still respond
// 200 with empty series and a message.
func (h *Handler) Window(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	h.writeJSON(c, http.StatusOK, dashboard.NewWindowResponse(v))
}

// Index responds with the html chart of the selected window.
func (h *Handler) Index(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := dashboard.RenderPage(&buf, v); err != nil {
		h.log.Error("unable to render page", "request_id", c.GetString(keyRequestID), "error", err.Error())
		h.writeJSON(c, http.StatusInternalServerError, errorResponse{Error: "unable to render page"})
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, buf.Bytes())
}

// view parses the selection and composes its View. On a malformed parameter it responds 400 and
// returns false.
func (h *Handler) view(c *gin.Context) (dashboard.View, bool) {
	bounds := h.dash.Bounds()

	date := c.DefaultQuery(paramDate, bounds.DefaultDate)
	if strings.TrimSpace(date) == "" {
		date = bounds.DefaultDate
	}
	hour, err := intQuery(c, paramHour, bounds.DefaultHour)
	if err != nil {
		h.metrics.ObserveWindow(metrics.OutcomeInvalidInput, 0)
		h.writeJSON(c, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return dashboard.View{}, false
	}
	horizon, err := intQuery(c, paramHorizon, bounds.DefaultHorizon)
	if err != nil {
		h.metrics.ObserveWindow(metrics.OutcomeInvalidInput, 0)
		h.writeJSON(c, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return dashboard.View{}, false
	}

	v, err := h.dash.Window(date, hour, horizon)
	outcome := Outcome(v, err)
	h.metrics.ObserveWindow(outcome, v.Result.Len())
	if err != nil {
		h.log.Warn("no window for selection",
			"date", date,
			"hour", hour,
			"horizon", horizon,
			"outcome", outcome,
			"request_id", c.GetString(keyRequestID),
			"error", err.Error(),
		)
	}
	return v, true
}

// Outcome classifies a composed window for metrics.
func Outcome(v dashboard.View, err error) string {
	switch {
	case errors.Is(err, window.ErrStartNotFound):
		return metrics.OutcomeStartNotFound
	case err != nil:
		return metrics.OutcomeInvalidInput
	case v.Result.IsEmpty():
		return metrics.OutcomeEmpty
	default:
		return metrics.OutcomeOK
	}
}

func intQuery(c *gin.Context, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not an integer, %w", key, value, ErrInvalidParam)
	}
	return i, nil
}

func (h *Handler) writeJSON(c *gin.Context, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Error("unable to encode response", "request_id", c.GetString(keyRequestID), "error", err.Error())
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, contentTypeJSON, b)
}
