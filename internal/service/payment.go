package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"slip-payment-backend/internal/apperr"
	"slip-payment-backend/internal/client"
	"slip-payment-backend/internal/config"
	"slip-payment-backend/internal/slip"
	"slip-payment-backend/internal/store"
)

// User-facing messages for the ad-hoc payment flow.
const (
	MsgMissingSlip    = "ไม่พบไฟล์สลิป"
	MsgOCRFailed      = "OCR ผิดพลาด"
	MsgAmountMismatch = "ชำระเงินไม่ถูกต้อง หรือจำนวนเงินไม่ตรง"
	MsgWindowClosed   = "Upload not found or expired"
	MsgConfirmFailed  = "เกิดข้อผิดพลาดในการยืนยันการชำระเงิน"
)

const (
	statCategoryPayment = "payment"
	statAttempts        = 3
)

type PaymentService interface {
	// VerifySlip runs OCR over the slip image and checks the claimed amount
	// against the recognized text. A nil error means payment is proven.
	VerifySlip(ctx context.Context, image []byte, filename string, amount decimal.Decimal) error
	// ConfirmPayment forwards a pending upload to the admin system and removes
	// it from the registry on success.
	ConfirmPayment(ctx context.Context, uploadID string) error
	// VerifyFixedPayment is the legacy promptpay check against the configured
	// expected amount.
	VerifyFixedPayment(amount int64, method string) bool
	// ReportMissingSlip emits telemetry for a verification request that
	// carried no file at all.
	ReportMissingSlip(amount string)
}

type paymentServiceImpl struct {
	recognizer     client.Recognizer
	adminClient    client.AdminClient
	uploads        *store.PendingUploadStore
	languages      string
	expectedAmount int64
	statTimeout    time.Duration
}

func NewPaymentService(
	recognizer client.Recognizer,
	adminClient client.AdminClient,
	uploads *store.PendingUploadStore,
	ocrCfg *config.OCR,
	expectedAmount int64,
) PaymentService {
	return &paymentServiceImpl{
		recognizer:     recognizer,
		adminClient:    adminClient,
		uploads:        uploads,
		languages:      ocrCfg.Languages,
		expectedAmount: expectedAmount,
		statTimeout:    10 * time.Second,
	}
}

func (s *paymentServiceImpl) VerifySlip(ctx context.Context, image []byte, filename string, amount decimal.Decimal) error {
	text, err := s.recognizer.Recognize(ctx, image, filename, s.languages)
	if err != nil {
		s.reportStat(MsgOCRFailed, "failed", amount.String())
		return apperr.Wrap(apperr.RecognitionFailed, MsgOCRFailed, err)
	}

	matched, reason := slip.Match(text, amount)
	if !matched {
		log.Printf("slip mismatch: amount=%s candidates=%v", amount, reason.Candidates)
		s.reportStat(MsgAmountMismatch, "failed", amount.String())
		return apperr.New(apperr.AmountMismatch, MsgAmountMismatch)
	}

	s.reportStat(fmt.Sprintf("ชำระเงินสำเร็จ จำนวนเงิน: %s", amount), "success", amount.String())
	return nil
}

func (s *paymentServiceImpl) ConfirmPayment(ctx context.Context, uploadID string) error {
	upload, err := s.uploads.Get(uploadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Wrap(apperr.NotFound, MsgWindowClosed, err)
		}
		return err
	}

	if err := s.adminClient.ForwardUpload(ctx, &upload); err != nil {
		// entry stays so the user can retry within the payment window
		return apperr.Wrap(apperr.Upstream, MsgConfirmFailed, err)
	}

	if err := s.uploads.Delete(uploadID); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("delete pending upload %s after confirm: %v", uploadID, err)
	}
	return nil
}

func (s *paymentServiceImpl) VerifyFixedPayment(amount int64, method string) bool {
	return amount == s.expectedAmount && method == "promptpay"
}

func (s *paymentServiceImpl) ReportMissingSlip(amount string) {
	s.reportStat(MsgMissingSlip, "failed", amount)
}

// reportStat posts slip telemetry as a best-effort async task with bounded
// retry. A fresh context is used because the request context may already be
// done by the time retries run; failures are logged and never surface.
func (s *paymentServiceImpl) reportStat(detail, status, amount string) {
	stat := &client.SlipStat{
		Category: statCategoryPayment,
		Detail:   detail,
		Status:   status,
		Amount:   amount,
	}
	go func() {
		var err error
		for attempt := 1; attempt <= statAttempts; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), s.statTimeout)
			err = s.adminClient.ReportSlipStat(ctx, stat)
			cancel()
			if err == nil {
				return
			}
			time.Sleep(time.Duration(attempt) * time.Second)
		}
		log.Printf("stat-slip dropped after %d attempts: status=%s detail=%s err=%v", statAttempts, status, detail, err)
	}()
}
