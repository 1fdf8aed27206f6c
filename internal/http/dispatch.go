package http

import (
	"net/http"

	apperrors "github.com/amberhq/campaign-gateway/internal/errors"
	"github.com/amberhq/campaign-gateway/internal/model"
	"github.com/amberhq/campaign-gateway/internal/service/dispatch"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// sendNotificationHandler runs the dispatch pipeline for one vendor. Request
// fields are deliberately not validated here: an absent template id or phone
// number fails at the stage that needs it and comes back through the uniform
// error shape. Every failure is a 500 with the human-readable cause.
func sendNotificationHandler(dispatchSvc *dispatch.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req model.NotificationRequest
		if err := c.Bind(&req); err != nil {
			return dispatchErrorJSON(c, apperrors.NewMalformedRequest(err))
		}

		res, err := dispatchSvc.Dispatch(c.Request().Context(), req)
		if err != nil {
			return dispatchErrorJSON(c, err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success":    true,
			"messageSid": res.MessageSID,
		})
	}
}

// dispatchErrorJSON writes the single failure shape the dashboard knows:
// {"error": "..."} with status 500.
func dispatchErrorJSON(c echo.Context, err error) error {
	msg := "internal error"
	if de, ok := apperrors.AsDispatchError(err); ok {
		msg = de.Message
	} else {
		log.Errorf("dispatch failed with untagged error: %v", err)
	}

	return c.JSON(http.StatusInternalServerError, map[string]string{"error": msg})
}
