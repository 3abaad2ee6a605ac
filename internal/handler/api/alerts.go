package api

import (
	models "github.com/battuto/EtfManager/internal/domain/models"
	"github.com/battuto/EtfManager/internal/usecase"
	xhttp "github.com/battuto/EtfManager/pkg/http"
	xlogger "github.com/battuto/EtfManager/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AlertsHandler exposes alert management and an on-demand check run.
type AlertsHandler struct {
	logger *xlogger.Logger
	alerts *usecase.Alerts
}

func NewAlertsHandler(logger *xlogger.Logger, alerts *usecase.Alerts) *AlertsHandler {
	return &AlertsHandler{logger: logger, alerts: alerts}
}

func (h *AlertsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/alerts")
	g.POST("", h.Create)
	g.GET("/active", h.ListActive)
	g.GET("/types", h.Types)
	g.POST("/check", h.Check)
	g.POST("/:alertId/disable", h.Disable)
	g.DELETE("/:alertId", h.Delete)

	e.GET("/api/portfolios/:portfolioId/alerts", h.List)
}

func (h *AlertsHandler) Create(c echo.Context) error {
	req := &models.CreateAlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.alerts.Create(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("alert create error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, res)
}

func (h *AlertsHandler) List(c echo.Context) error {
	req := &models.ListAlertsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.alerts.List(c.Request().Context(), req.PortfolioID)
	if err != nil {
		h.logger.Error("alert list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AlertsHandler) ListActive(c echo.Context) error {
	res, err := h.alerts.ListActive(c.Request().Context())
	if err != nil {
		h.logger.Error("active alert list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AlertsHandler) Types(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.alerts.Types())
}

// Check runs one evaluation pass over all active alerts and reports the
// triggered ones. The scheduler runs the same pass periodically.
func (h *AlertsHandler) Check(c echo.Context) error {
	triggered, checked, err := h.alerts.Check(c.Request().Context())
	if err != nil {
		h.logger.Error("alert check error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if triggered == nil {
		triggered = []models.TriggeredAlert{}
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"checked":   checked,
		"triggered": triggered,
	})
}

func (h *AlertsHandler) Disable(c echo.Context) error {
	req := &models.AlertIDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.alerts.Disable(c.Request().Context(), req.AlertID); err != nil {
		h.logger.Error("alert disable error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *AlertsHandler) Delete(c echo.Context) error {
	req := &models.AlertIDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.alerts.Delete(c.Request().Context(), req.AlertID); err != nil {
		h.logger.Error("alert delete error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}
