package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"slip-payment-backend/internal/apperr"
	"slip-payment-backend/internal/client"
	"slip-payment-backend/internal/dto"
	"slip-payment-backend/internal/ledger"
	"slip-payment-backend/internal/model"
)

// User-facing messages for the gift flow.
const (
	MsgChooseItems         = "กรุณาเลือกรายการสินค้า"
	MsgBadTable            = "เลขโต๊ะไม่ถูกต้อง"
	MsgNoValidItems        = "ไม่พบสินค้าที่เลือก"
	MsgBadTotal            = "ยอดรวมไม่ถูกต้อง"
	MsgOrderNotFound       = "ไม่พบคำสั่งซื้อ"
	MsgOrderNotConfirmable = "คำสั่งซื้ออยู่ในสถานะที่ไม่สามารถยืนยันได้"
	MsgHandOffFailed       = "ส่งข้อมูลไปยังฝั่งแอดมินไม่สำเร็จ"
	MsgSettingsUnavailable = "ไม่สามารถโหลดข้อมูลสินค้า"
)

const defaultSenderName = "Guest"

type GiftService interface {
	Settings(ctx context.Context) (*model.GiftSettings, error)
	// CreateOrder validates the request against a freshly fetched catalog and
	// persists a pending_payment order. Unit prices come from the catalog
	// only; client prices are never read.
	CreateOrder(ctx context.Context, req *dto.GiftOrderRequest) (*model.GiftOrder, error)
	GetOrder(ctx context.Context, id string) (*model.GiftOrder, error)
	// Confirm moves the order to awaiting_admin and hands it off. A failed
	// hand-off rolls the order back to pending_payment.
	Confirm(ctx context.Context, id string) (*model.GiftOrder, error)
}

type giftServiceImpl struct {
	adminClient client.AdminClient
	orders      *ledger.GiftOrderLedger
}

func NewGiftService(adminClient client.AdminClient, orders *ledger.GiftOrderLedger) GiftService {
	return &giftServiceImpl{
		adminClient: adminClient,
		orders:      orders,
	}
}

func (s *giftServiceImpl) Settings(ctx context.Context) (*model.GiftSettings, error) {
	settings, err := s.adminClient.FetchGiftSettings(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, MsgSettingsUnavailable, err)
	}
	return settings, nil
}

func (s *giftServiceImpl) CreateOrder(ctx context.Context, req *dto.GiftOrderRequest) (*model.GiftOrder, error) {
	if len(req.Items) == 0 {
		return nil, apperr.New(apperr.Validation, MsgChooseItems)
	}

	// fetched fresh per validation; staleness between validation and
	// confirmation is an accepted race
	settings, err := s.adminClient.FetchGiftSettings(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, MsgSettingsUnavailable, err)
	}

	if req.TableNumber < 1 || (settings.TableCount > 0 && req.TableNumber > settings.TableCount) {
		return nil, apperr.New(apperr.Validation, MsgBadTable)
	}

	catalog := make(map[string]model.GiftItem, len(settings.Items))
	for _, item := range settings.Items {
		catalog[item.ID] = item
	}

	// unknown items and non-positive quantities are dropped, not rejected
	valid := make([]model.GiftOrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, requested := range req.Items {
		found, ok := catalog[requested.ID]
		if !ok || requested.Quantity < 1 {
			continue
		}
		valid = append(valid, model.GiftOrderItem{
			ID:       found.ID,
			Name:     found.Name,
			Price:    found.Price,
			Quantity: requested.Quantity,
		})
		total = total.Add(found.Price.Mul(decimal.NewFromInt(int64(requested.Quantity))))
	}

	if len(valid) == 0 {
		return nil, apperr.New(apperr.Validation, MsgNoValidItems)
	}
	if !total.IsPositive() {
		return nil, apperr.New(apperr.Validation, MsgBadTotal)
	}

	sender := strings.TrimSpace(req.SenderName)
	if sender == "" {
		sender = defaultSenderName
	}

	order := &model.GiftOrder{
		ID:          "gift-" + uuid.NewString(),
		SenderName:  sender,
		TableNumber: req.TableNumber,
		Note:        strings.TrimSpace(req.Note),
		Items:       valid,
		TotalPrice:  total,
		Status:      model.OrderStatusPendingPayment,
		CreatedAt:   time.Now(),
	}

	if err := s.orders.Append(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *giftServiceImpl) GetOrder(ctx context.Context, id string) (*model.GiftOrder, error) {
	order, err := s.orders.Get(id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, MsgOrderNotFound, err)
		}
		return nil, err
	}
	return order, nil
}

func (s *giftServiceImpl) Confirm(ctx context.Context, id string) (*model.GiftOrder, error) {
	order, err := s.orders.BeginConfirm(id)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			return nil, apperr.Wrap(apperr.NotFound, MsgOrderNotFound, err)
		case errors.Is(err, ledger.ErrConflict):
			return nil, apperr.Wrap(apperr.Conflict, MsgOrderNotConfirmable, err)
		default:
			return nil, err
		}
	}

	handOff := &client.GiftOrderHandOff{
		OrderID:     order.ID,
		Sender:      order.SenderName,
		TableNumber: order.TableNumber,
		Note:        order.Note,
		Items:       order.Items,
		TotalPrice:  order.TotalPrice,
	}
	if err := s.adminClient.SubmitGiftOrder(ctx, handOff); err != nil {
		if rbErr := s.orders.Rollback(id); rbErr != nil {
			log.Printf("rollback order %s after failed hand-off: %v", id, rbErr)
		}
		return nil, apperr.Wrap(apperr.Upstream, MsgHandOffFailed, err)
	}

	return order, nil
}
