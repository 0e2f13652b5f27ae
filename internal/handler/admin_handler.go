package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/valenjeb/wp-cpt/internal/logger"
	"github.com/valenjeb/wp-cpt/internal/service"
	"github.com/valenjeb/wp-cpt/internal/service/serviceutils"
	"github.com/valenjeb/wp-cpt/pkg/cpt"
)

type AdminHandler struct {
	Service service.AdminService
}

func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

// ListScreensHandler returns every registered post type.
func (h *AdminHandler) ListScreensHandler(c echo.Context) error {
	ctx := c.Request().Context()
	screens := h.Service.Screens(ctx)
	logger.DebugLog(ctx, "listed %d screens", len(screens))
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Screens retrieved successfully", screens)
}

// ListColumnsHandler returns the effective list-table columns of one screen.
func (h *AdminHandler) ListColumnsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	screen := c.Param("type")

	columns, err := h.Service.Columns(ctx, screen)
	if err != nil {
		if errors.Is(err, cpt.ErrNotFound) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "Unknown post type", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to resolve columns", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Columns retrieved successfully", columns)
}

// ListEntriesHandler renders one list-table page. Sorting follows the
// screen's registered sortable columns via orderby/order parameters.
func (h *AdminHandler) ListEntriesHandler(c echo.Context) error {
	ctx := c.Request().Context()
	screen := c.Param("type")

	result, err := h.Service.ListEntries(ctx, screen, listParams(c))
	if err != nil {
		if errors.Is(err, cpt.ErrNotFound) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "Unknown post type", err)
		}
		logger.ErrorLog(ctx, "list entries for %s: %v", screen, err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list entries", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Entries retrieved successfully", result)
}

// ListTaxonomiesHandler returns every registered taxonomy.
func (h *AdminHandler) ListTaxonomiesHandler(c echo.Context) error {
	ctx := c.Request().Context()
	taxonomies := h.Service.TaxonomyScreens(ctx)
	logger.DebugLog(ctx, "listed %d taxonomies", len(taxonomies))
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Taxonomies retrieved successfully", taxonomies)
}

// ListTermsHandler renders the term list-table of one taxonomy.
func (h *AdminHandler) ListTermsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	taxonomy := c.Param("taxonomy")

	result, err := h.Service.ListTerms(ctx, taxonomy)
	if err != nil {
		if errors.Is(err, cpt.ErrNotFound) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "Unknown taxonomy", err)
		}
		logger.ErrorLog(ctx, "list terms for %s: %v", taxonomy, err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list terms", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Terms retrieved successfully", result)
}

// ExportEntriesHandler streams the current list-table view as a file
// download, xlsx by default or csv with ?format=csv.
func (h *AdminHandler) ExportEntriesHandler(c echo.Context) error {
	ctx := c.Request().Context()
	screen := c.Param("type")

	table, err := h.Service.ExportEntries(ctx, screen, listParams(c))
	if err != nil {
		if errors.Is(err, cpt.ErrNotFound) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "Unknown post type", err)
		}
		logger.ErrorLog(ctx, "export entries for %s: %v", screen, err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to export entries", err)
	}

	if c.QueryParam("format") == "csv" {
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s_entries.csv"`, screen))
		return table.WriteCSV(c.Response().Writer)
	}

	excelBytes, err := table.ToBytes()
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate Excel file", err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s_entries.xlsx"`, screen))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(excelBytes)))

	_, err = c.Response().Write(excelBytes)
	return err
}

func listParams(c echo.Context) service.ListParams {
	params := service.ListParams{
		OrderBy: c.QueryParam("orderby"),
		Desc:    c.QueryParam("order") == "desc",
		Search:  c.QueryParam("s"),
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		params.Limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		params.Offset = v
	}
	return params
}
