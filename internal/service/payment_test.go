package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"slip-payment-backend/internal/apperr"
	"slip-payment-backend/internal/config"
	"slip-payment-backend/internal/model"
	"slip-payment-backend/internal/store"
)

func newPaymentService(admin *fakeAdminClient, rec *fakeRecognizer, uploads *store.PendingUploadStore) PaymentService {
	return NewPaymentService(rec, admin, uploads, &config.OCR{Languages: "tha+eng"}, 100)
}

func waitForStat(t *testing.T, admin *fakeAdminClient, status string) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, stat := range admin.statSnapshot() {
			if stat.Status == status {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond, "expected a %q stat-slip record", status)
}

func TestVerifySlipMatch(t *testing.T) {
	admin := &fakeAdminClient{}
	rec := &fakeRecognizer{text: "ยอดเงิน150.00บาท"}
	svc := newPaymentService(admin, rec, nil)

	err := svc.VerifySlip(context.Background(), []byte("png"), "slip.png", decimal.NewFromInt(150))
	require.NoError(t, err)

	waitForStat(t, admin, "success")
}

func TestVerifySlipMismatch(t *testing.T) {
	admin := &fakeAdminClient{}
	rec := &fakeRecognizer{text: "ยอดเงิน99.00บาท"}
	svc := newPaymentService(admin, rec, nil)

	err := svc.VerifySlip(context.Background(), []byte("png"), "slip.png", decimal.NewFromInt(150))
	require.True(t, apperr.IsKind(err, apperr.AmountMismatch))

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, MsgAmountMismatch, ae.Message)

	waitForStat(t, admin, "failed")
}

func TestVerifySlipRecognitionFailure(t *testing.T) {
	admin := &fakeAdminClient{}
	rec := &fakeRecognizer{err: errors.New("ocr timeout")}
	svc := newPaymentService(admin, rec, nil)

	err := svc.VerifySlip(context.Background(), []byte("png"), "slip.png", decimal.NewFromInt(150))
	require.True(t, apperr.IsKind(err, apperr.RecognitionFailed))

	waitForStat(t, admin, "failed")
}

func TestConfirmPaymentForwardsAndDeletes(t *testing.T) {
	admin := &fakeAdminClient{}
	uploads := store.NewPendingUploadStore(time.Minute)
	defer uploads.Close()
	svc := newPaymentService(admin, &fakeRecognizer{}, uploads)

	id := uploads.Put(model.PendingUpload{
		Text:   "happy birthday",
		Sender: "somchai",
		Price:  decimal.NewFromInt(150),
	})

	require.NoError(t, svc.ConfirmPayment(context.Background(), id))

	require.Len(t, admin.forwardedUploads, 1)
	require.Equal(t, "happy birthday", admin.forwardedUploads[0].Text)

	_, err := uploads.Get(id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestConfirmPaymentUnknownUpload(t *testing.T) {
	admin := &fakeAdminClient{}
	uploads := store.NewPendingUploadStore(time.Minute)
	defer uploads.Close()
	svc := newPaymentService(admin, &fakeRecognizer{}, uploads)

	err := svc.ConfirmPayment(context.Background(), "424242")
	require.True(t, apperr.IsKind(err, apperr.NotFound))
	require.Empty(t, admin.forwardedUploads)
}

func TestConfirmPaymentKeepsEntryOnUpstreamFailure(t *testing.T) {
	admin := &fakeAdminClient{forwardErr: errors.New("status=500")}
	uploads := store.NewPendingUploadStore(time.Minute)
	defer uploads.Close()
	svc := newPaymentService(admin, &fakeRecognizer{}, uploads)

	id := uploads.Put(model.PendingUpload{Text: "retry me"})

	err := svc.ConfirmPayment(context.Background(), id)
	require.True(t, apperr.IsKind(err, apperr.Upstream))

	// entry survives so the user can retry within the window
	_, err = uploads.Get(id)
	require.NoError(t, err)
}

func TestVerifyFixedPayment(t *testing.T) {
	svc := newPaymentService(&fakeAdminClient{}, &fakeRecognizer{}, nil)

	require.True(t, svc.VerifyFixedPayment(100, "promptpay"))
	require.False(t, svc.VerifyFixedPayment(99, "promptpay"))
	require.False(t, svc.VerifyFixedPayment(100, "cash"))
}
