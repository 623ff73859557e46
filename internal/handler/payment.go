package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"slip-payment-backend/internal/apperr"
	"slip-payment-backend/internal/dto"
	"slip-payment-backend/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// VerifySlip checks a transfer-slip screenshot against the claimed amount.
// Recognition failures and amount mismatches are ordinary outcomes, reported
// as success=false with HTTP 200, never as server errors.
func (h *PaymentHandler) VerifySlip(c echo.Context) error {
	ctx := c.Request().Context()
	amountValue := c.FormValue("amount")

	fileHeader, err := c.FormFile("slip")
	if err != nil {
		h.paymentService.ReportMissingSlip(amountValue)
		return c.JSON(http.StatusOK, &dto.SimpleResponse{Success: false, Message: service.MsgMissingSlip})
	}

	amount, err := decimal.NewFromString(amountValue)
	if err != nil {
		return apperr.New(apperr.Validation, service.MsgAmountMismatch)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	image, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	if err := h.paymentService.VerifySlip(ctx, image, fileHeader.Filename, amount); err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) && (ae.Kind == apperr.RecognitionFailed || ae.Kind == apperr.AmountMismatch) {
			return c.JSON(http.StatusOK, &dto.SimpleResponse{Success: false, Message: ae.Message})
		}
		return err
	}
	return c.JSON(http.StatusOK, &dto.SimpleResponse{Success: true})
}

// ConfirmPayment forwards a pending upload to the admin system and reports
// the result.
func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "Missing uploadId")
	}
	if req.UploadID == "" {
		return apperr.New(apperr.Validation, "Missing uploadId")
	}

	if err := h.paymentService.ConfirmPayment(ctx, req.UploadID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.SimpleResponse{
		Success: true,
		Message: "Payment confirmed and data sent to admin",
	})
}

// VerifyPayment is the legacy fixed-amount promptpay check.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	var req dto.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "กรุณาระบุจำนวนเงินและวิธีการชำระเงิน")
	}
	if req.Amount == 0 || req.Method == "" {
		return apperr.New(apperr.Validation, "กรุณาระบุจำนวนเงินและวิธีการชำระเงิน")
	}

	ok := h.paymentService.VerifyFixedPayment(req.Amount, req.Method)
	return c.JSON(http.StatusOK, &dto.SimpleResponse{Success: ok})
}
