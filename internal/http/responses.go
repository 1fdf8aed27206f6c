package http

import (
	"net/http"
	"strconv"

	"github.com/amberhq/campaign-gateway/internal/repository"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// listResponsesHandler returns the tracking rows for one campaign, newest
// activity first.
func listResponsesHandler(responsesRepo repository.ResponsesRepository) echo.HandlerFunc {
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

		recs, err := responsesRepo.ListByCampaign(c.Request().Context(), c.Param("campaignID"), limit, offset)
		if err != nil {
			log.Errorf("response list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(recs),
			"results": recs,
		})
	}
}
