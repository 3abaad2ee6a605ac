package api

import (
	"bytes"
	"fmt"
	"net/http"

	models "github.com/battuto/EtfManager/internal/domain/models"
	"github.com/battuto/EtfManager/internal/usecase"
	xhttp "github.com/battuto/EtfManager/pkg/http"
	xlogger "github.com/battuto/EtfManager/pkg/logger"

	"github.com/labstack/echo/v4"
)

// InvestmentsHandler exposes the transaction ledger over HTTP, including
// CSV export/import of a whole portfolio.
type InvestmentsHandler struct {
	logger      *xlogger.Logger
	investments *usecase.Investments
}

func NewInvestmentsHandler(logger *xlogger.Logger, investments *usecase.Investments) *InvestmentsHandler {
	return &InvestmentsHandler{logger: logger, investments: investments}
}

func (h *InvestmentsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/portfolios/:portfolioId")
	g.GET("/investments", h.List)
	g.GET("/investments/:ticker/history", h.History)
	g.GET("/export/csv", h.ExportCSV)
	g.POST("/import/csv", h.ImportCSV)

	inv := e.Group("/api/investments")
	inv.POST("", h.Create)
	inv.PUT("/:id", h.Update)
	inv.DELETE("/:id", h.Delete)
	inv.POST("/:id/move", h.Move)
}

func (h *InvestmentsHandler) List(c echo.Context) error {
	req := &models.ListInvestmentsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.investments.List(c.Request().Context(), req.PortfolioID)
	if err != nil {
		h.logger.Error("investments list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InvestmentsHandler) History(c echo.Context) error {
	req := &models.PurchaseHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.investments.History(c.Request().Context(), req.PortfolioID, req.Ticker)
	if err != nil {
		h.logger.Error("purchase history error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InvestmentsHandler) Create(c echo.Context) error {
	req := &models.CreateInvestmentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.investments.Add(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("investment create error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, res)
}

func (h *InvestmentsHandler) Update(c echo.Context) error {
	req := &models.UpdateInvestmentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.investments.Update(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("investment update error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InvestmentsHandler) Delete(c echo.Context) error {
	req := &models.DeleteInvestmentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.investments.Delete(c.Request().Context(), req.ID); err != nil {
		h.logger.Error("investment delete error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *InvestmentsHandler) Move(c echo.Context) error {
	req := &models.MoveInvestmentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.investments.Move(c.Request().Context(), req.ID, req.TargetPortfolioID); err != nil {
		h.logger.Error("investment move error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

// ExportCSV streams the portfolio as a CSV attachment. The body is
// written directly so the usecase controls the BOM and row layout.
func (h *InvestmentsHandler) ExportCSV(c echo.Context) error {
	req := &models.ExportCSVRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var buf bytes.Buffer
	filename, err := h.investments.ExportCSV(c.Request().Context(), req.PortfolioID, &buf)
	if err != nil {
		h.logger.Error("csv export error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *InvestmentsHandler) ImportCSV(c echo.Context) error {
	req := &models.ImportCSVRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return xhttp.BadRequestResponse(c, xhttp.BadRequestError("No CSV file provided"))
	}
	src, err := file.Open()
	if err != nil {
		h.logger.Error("csv file open error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	defer src.Close()

	res, err := h.investments.ImportCSV(c.Request().Context(), req.PortfolioID, src)
	if err != nil {
		h.logger.Error("csv import error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
