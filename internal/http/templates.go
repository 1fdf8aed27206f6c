package http

import (
	"net/http"
	"strconv"

	"github.com/amberhq/campaign-gateway/internal/repository"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

func listTemplatesHandler(templatesRepo repository.TemplatesRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		ts, err := templatesRepo.List(c.Request().Context(), limit, offset)
		if err != nil {
			log.Errorf("template list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(ts),
			"results": ts,
		})
	}
}

func getTemplateHandler(templatesRepo repository.TemplatesRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		tmpl, err := templatesRepo.GetByID(c.Request().Context(), c.Param("id"))
		if err != nil {
			log.Errorf("template get failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}
		if tmpl == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "WhatsApp template not found"})
		}

		return c.JSON(http.StatusOK, tmpl)
	}
}
