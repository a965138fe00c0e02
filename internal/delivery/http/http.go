package http

import (
	"context"
	"net/http"

	"price-sr-bot/internal/dto"
	"price-sr-bot/internal/service"
	"price-sr-bot/pkg/middleware"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/api/v1/health", h.Health)

	base := h.echo.Group("/api", middleware.NewRateLimiterMiddleware(10, 30))
	h.SetupMarket(base)
	h.SetupBroadcast(base)
}

func (h *HttpAPIHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
}
