package http

import (
	"net/http"

	"price-sr-bot/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupBroadcast(base *echo.Group) {
	v1 := base.Group("/v1/broadcasts")
	{
		v1.POST("/run", h.RunBroadcasts)
	}
}

// RunBroadcasts pushes every configured broadcast now instead of waiting for cron.
func (h *HttpAPIHandler) RunBroadcasts(c echo.Context) error {
	response := dto.NewBaseResponse(http.StatusOK, "Broadcasts sent", nil)
	if err := h.service.SchedulerService.Execute(c.Request().Context()); err != nil {
		response.Code = http.StatusInternalServerError
		response.Message = err.Error()
	}
	return c.JSON(response.Code, response)
}
