package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/amberhq/campaign-gateway/internal/model"
	"github.com/amberhq/campaign-gateway/internal/repository"
	echo "github.com/labstack/echo/v4"
)

func listDispatchesHandler(dispatchLogRepo repository.DispatchLogRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		var st model.DispatchState
		if raw := strings.TrimSpace(c.QueryParam("state")); raw != "" {
			tmp := model.DispatchState(raw)
			if tmp.Terminal() {
				st = tmp
			}
		}

		campaignID := strings.TrimSpace(c.QueryParam("campaign_id"))

		rows, err := dispatchLogRepo.List(
			c.Request().Context(),
			campaignID,
			st,
			limit,
			offset,
		)
		if err != nil {
			c.Logger().Errorf("clickhouse list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(rows),
			"results": rows,
		})
	}
}
