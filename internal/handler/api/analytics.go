package api

import (
	models "github.com/battuto/EtfManager/internal/domain/models"
	"github.com/battuto/EtfManager/internal/usecase"
	xhttp "github.com/battuto/EtfManager/pkg/http"
	xlogger "github.com/battuto/EtfManager/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyticsHandler exposes the portfolio analytics engine over HTTP.
type AnalyticsHandler struct {
	logger    *xlogger.Logger
	analytics *usecase.Analytics
}

func NewAnalyticsHandler(logger *xlogger.Logger, analytics *usecase.Analytics) *AnalyticsHandler {
	return &AnalyticsHandler{logger: logger, analytics: analytics}
}

func (h *AnalyticsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/portfolios/:portfolioId/analytics")
	g.GET("/metrics", h.Metrics)
	g.GET("/historical", h.Historical)
	g.GET("/volatility", h.Volatility)
	g.GET("/risk", h.Risk)
	g.GET("/correlation", h.Correlation)
	g.POST("/rebalance", h.Rebalance)
}

func (h *AnalyticsHandler) Metrics(c echo.Context) error {
	req := &models.ValuationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analytics.Valuation(c.Request().Context(), req.PortfolioID)
	if err != nil {
		h.logger.Error("valuation usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) Historical(c echo.Context) error {
	req := &models.HistoricalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analytics.Historical(c.Request().Context(), req.PortfolioID, req.Days)
	if err != nil {
		h.logger.Error("historical usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) Volatility(c echo.Context) error {
	req := &models.VolatilityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, insufficient, err := h.analytics.Volatility(c.Request().Context(), req.PortfolioID, req.Days)
	if err != nil {
		h.logger.Error("volatility usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if insufficient != nil {
		return xhttp.SuccessResponse(c, insufficient)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) Risk(c echo.Context) error {
	req := &models.RiskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, insufficient, err := h.analytics.Risk(c.Request().Context(), req.PortfolioID, req.Days, req.RiskFreeRate)
	if err != nil {
		h.logger.Error("risk usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if insufficient != nil {
		return xhttp.SuccessResponse(c, insufficient)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) Correlation(c echo.Context) error {
	req := &models.CorrelationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analytics.Correlation(c.Request().Context(), req.PortfolioID, req.Days)
	if err != nil {
		h.logger.Error("correlation usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) Rebalance(c echo.Context) error {
	req := &models.RebalanceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, insufficient, err := h.analytics.Rebalance(c.Request().Context(), req.PortfolioID, req.TargetAllocations)
	if err != nil {
		h.logger.Error("rebalance usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if insufficient != nil {
		return xhttp.SuccessResponse(c, insufficient)
	}
	return xhttp.SuccessResponse(c, res)
}
