package http

import (
	"errors"
	"net/http"

	"price-sr-bot/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupMarket(base *echo.Group) {
	v1 := base.Group("/v1/market")
	{
		v1.GET("/:coin/snapshot", h.GetSnapshot)
		v1.GET("/:coin/levels", h.GetLevels)
	}
}

func (h *HttpAPIHandler) bindMarketRequest(c echo.Context) (*dto.MarketRequest, error) {
	var req dto.MarketRequest
	if err := c.Bind(&req); err != nil {
		return nil, err
	}
	if err := h.validator.Struct(req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *HttpAPIHandler) GetSnapshot(c echo.Context) error {
	req, err := h.bindMarketRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	snapshot, err := h.service.MarketService.GetSnapshot(c.Request().Context(), req.Coin)
	if err != nil {
		return writeMarketError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", snapshot))
}

func (h *HttpAPIHandler) GetLevels(c echo.Context) error {
	req, err := h.bindMarketRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	levels, err := h.service.MarketService.GetLevels(c.Request().Context(), req.Coin)
	if err != nil {
		return writeMarketError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", levels))
}

func writeMarketError(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, dto.ErrDataUnavailable), errors.Is(err, dto.ErrZeroBaseline):
		code = http.StatusServiceUnavailable
	case errors.Is(err, dto.ErrInvalidInput):
		code = http.StatusUnprocessableEntity
	}
	return c.JSON(code, dto.NewBaseResponse(code, err.Error(), nil))
}
