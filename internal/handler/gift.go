package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"slip-payment-backend/internal/apperr"
	"slip-payment-backend/internal/dto"
	"slip-payment-backend/internal/service"
)

type GiftHandler struct {
	giftService service.GiftService
}

func NewGiftHandler(giftService service.GiftService) *GiftHandler {
	return &GiftHandler{
		giftService: giftService,
	}
}

func (h *GiftHandler) Settings(c echo.Context) error {
	ctx := c.Request().Context()

	settings, err := h.giftService.Settings(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.GiftSettingsResponse{Success: true, Settings: settings})
}

func (h *GiftHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.GiftOrderRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, service.MsgChooseItems)
	}

	order, err := h.giftService.CreateOrder(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.GiftOrderResponse{Success: true, Order: order})
}

func (h *GiftHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.giftService.GetOrder(ctx, c.Param("orderId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.GiftOrderResponse{Success: true, Order: order})
}

func (h *GiftHandler) ConfirmOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.giftService.Confirm(ctx, c.Param("orderId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.GiftOrderResponse{Success: true, Order: order})
}
