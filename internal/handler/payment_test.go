package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slip-payment-backend/internal/apperr"
	"slip-payment-backend/internal/service"
)

type stubPaymentService struct {
	verifyErr       error
	confirmErr      error
	fixedOK         bool
	verifiedAmounts []decimal.Decimal
	missingReports  []string
	confirmedIDs    []string
}

func (s *stubPaymentService) VerifySlip(ctx context.Context, image []byte, filename string, amount decimal.Decimal) error {
	s.verifiedAmounts = append(s.verifiedAmounts, amount)
	return s.verifyErr
}

func (s *stubPaymentService) ConfirmPayment(ctx context.Context, uploadID string) error {
	s.confirmedIDs = append(s.confirmedIDs, uploadID)
	return s.confirmErr
}

func (s *stubPaymentService) VerifyFixedPayment(amount int64, method string) bool {
	return s.fixedOK
}

func (s *stubPaymentService) ReportMissingSlip(amount string) {
	s.missingReports = append(s.missingReports, amount)
}

func newSlipRequest(t *testing.T, amount string, withFile bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("amount", amount))
	if withFile {
		part, err := w.CreateFormFile("slip", "slip.png")
		require.NoError(t, err)
		part.Write([]byte("fake-image"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/verify-slip", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func doVerifySlip(t *testing.T, svc service.PaymentService, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	return rec, NewPaymentHandler(svc).VerifySlip(c)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestVerifySlipSuccess(t *testing.T) {
	svc := &stubPaymentService{}

	rec, err := doVerifySlip(t, svc, newSlipRequest(t, "150", true))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
	require.Len(t, svc.verifiedAmounts, 1)
	assert.True(t, svc.verifiedAmounts[0].Equal(decimal.NewFromInt(150)))
}

func TestVerifySlipMismatchIsOrdinaryOutcome(t *testing.T) {
	svc := &stubPaymentService{
		verifyErr: apperr.New(apperr.AmountMismatch, service.MsgAmountMismatch),
	}

	rec, err := doVerifySlip(t, svc, newSlipRequest(t, "150", true))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, service.MsgAmountMismatch, body["message"])
}

func TestVerifySlipRecognitionFailureIsOrdinaryOutcome(t *testing.T) {
	svc := &stubPaymentService{
		verifyErr: apperr.New(apperr.RecognitionFailed, service.MsgOCRFailed),
	}

	rec, err := doVerifySlip(t, svc, newSlipRequest(t, "150", true))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
}

func TestVerifySlipUpstreamErrorPropagates(t *testing.T) {
	svc := &stubPaymentService{
		verifyErr: apperr.New(apperr.Upstream, service.MsgConfirmFailed),
	}

	_, err := doVerifySlip(t, svc, newSlipRequest(t, "150", true))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Upstream))
}

func TestVerifySlipWithoutFileReportsMissing(t *testing.T) {
	svc := &stubPaymentService{}

	rec, err := doVerifySlip(t, svc, newSlipRequest(t, "150", false))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, service.MsgMissingSlip, body["message"])
	assert.Equal(t, []string{"150"}, svc.missingReports)
	assert.Empty(t, svc.verifiedAmounts)
}

func TestConfirmPaymentRequiresUploadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/confirm-payment", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	svc := &stubPaymentService{}
	err := NewPaymentHandler(svc).ConfirmPayment(c)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
	assert.Empty(t, svc.confirmedIDs)
}

func TestConfirmPayment(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/confirm-payment", strings.NewReader(`{"uploadId":"1712000000000"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	svc := &stubPaymentService{}
	require.NoError(t, NewPaymentHandler(svc).ConfirmPayment(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"1712000000000"}, svc.confirmedIDs)
}

func TestVerifyPayment(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/verify-payment", strings.NewReader(`{"amount":100,"method":"promptpay"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	svc := &stubPaymentService{fixedOK: true}
	require.NoError(t, NewPaymentHandler(svc).VerifyPayment(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}
