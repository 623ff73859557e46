package handler

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"slip-payment-backend/internal/apperr"
	"slip-payment-backend/internal/client"
	"slip-payment-backend/internal/dto"
	"slip-payment-backend/internal/service"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

type OTPHandler struct {
	otpClient   client.OTPClient
	userService service.UserService
}

func NewOTPHandler(otpClient client.OTPClient, userService service.UserService) *OTPHandler {
	return &OTPHandler{
		otpClient:   otpClient,
		userService: userService,
	}
}

func (h *OTPHandler) SendOTP(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "กรุณาระบุหมายเลขโทรศัพท์")
	}
	if req.Phone == "" {
		return apperr.New(apperr.Validation, "กรุณาระบุหมายเลขโทรศัพท์")
	}
	if !phonePattern.MatchString(req.Phone) {
		return apperr.New(apperr.Validation, "หมายเลขโทรศัพท์ไม่ถูกต้อง")
	}

	token, err := h.otpClient.Send(ctx, req.Phone)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "ไม่สามารถส่ง OTP ได้", err)
	}

	return c.JSON(http.StatusOK, &dto.SendOTPResponse{
		Success: true,
		Message: "OTP ส่งสำเร็จ",
		Token:   token,
	})
}

// VerifyOTP validates the code with the gateway (the source of truth), then
// registers the phone and issues the bearer token.
func (h *OTPHandler) VerifyOTP(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "กรุณาระบุ OTP และ token")
	}
	if req.OTP == "" || req.Token == "" {
		return apperr.New(apperr.Validation, "กรุณาระบุ OTP และ token")
	}

	if err := h.otpClient.Validate(ctx, req.OTP, req.Token); err != nil {
		return apperr.Wrap(apperr.Upstream, "ไม่สามารถตรวจสอบ OTP ได้", err)
	}

	user, token, err := h.userService.RegisterVerified(ctx, req.Phone, req.Birthday)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.VerifyOTPResponse{
		Success: true,
		Message: "OTP verified successfully",
		Token:   token,
		User:    user,
	})
}
