// Package ledger persists gift orders as a flat JSON list and owns the
// per-order state machine: pending_payment -> awaiting_admin, with a
// compensating rollback edge. Orders are never physically deleted.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"slip-payment-backend/internal/model"
)

var (
	ErrNotFound = errors.New("gift order not found")
	// ErrConflict means the order is not in pending_payment and cannot be
	// confirmed (again).
	ErrConflict = errors.New("gift order not awaiting payment")
)

// GiftOrderLedger rewrites the whole file on every mutation. Order volume is
// low, so the simplicity wins; the write goes through a temp file and rename
// so a crash mid-write cannot corrupt the list. One mutex serializes every
// read, state transition and file write.
type GiftOrderLedger struct {
	mu     sync.Mutex
	path   string
	orders []*model.GiftOrder
}

// Open loads the ledger file, starting fresh (with a warning) when the file
// is missing or unreadable.
func Open(path string) (*GiftOrderLedger, error) {
	l := &GiftOrderLedger{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := l.persistLocked(); err != nil {
			return nil, fmt.Errorf("initialize ledger file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("read ledger file: %w", err)
	default:
		if err := json.Unmarshal(data, &l.orders); err != nil {
			log.Printf("ledger %s unreadable, starting fresh: %v", path, err)
			l.orders = nil
		}
	}

	return l, nil
}

// Append persists a new order. The caller is expected to hand over an order
// in pending_payment.
func (l *GiftOrderLedger) Append(order *model.GiftOrder) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.orders = append(l.orders, cloneOrder(order))
	if err := l.persistLocked(); err != nil {
		l.orders = l.orders[:len(l.orders)-1]
		return err
	}
	return nil
}

// Get returns a snapshot copy of the order.
func (l *GiftOrderLedger) Get(id string) (*model.GiftOrder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o := l.findLocked(id)
	if o == nil {
		return nil, ErrNotFound
	}
	return cloneOrder(o), nil
}

// BeginConfirm atomically checks the order is in pending_payment and moves it
// to awaiting_admin, stamping paidAt. Of N concurrent confirms on the same
// order exactly one succeeds; the rest get ErrConflict. The winner must
// either complete the admin hand-off or call Rollback.
func (l *GiftOrderLedger) BeginConfirm(id string) (*model.GiftOrder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o := l.findLocked(id)
	if o == nil {
		return nil, ErrNotFound
	}
	if o.Status != model.OrderStatusPendingPayment {
		return nil, ErrConflict
	}

	now := time.Now()
	o.Status = model.OrderStatusAwaitingAdmin
	o.PaidAt = &now
	if err := l.persistLocked(); err != nil {
		o.Status = model.OrderStatusPendingPayment
		o.PaidAt = nil
		return nil, err
	}
	return cloneOrder(o), nil
}

// Rollback compensates a failed hand-off: back to pending_payment, paidAt
// cleared.
func (l *GiftOrderLedger) Rollback(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	o := l.findLocked(id)
	if o == nil {
		return ErrNotFound
	}
	prevStatus, prevPaidAt := o.Status, o.PaidAt
	o.Status = model.OrderStatusPendingPayment
	o.PaidAt = nil
	if err := l.persistLocked(); err != nil {
		o.Status = prevStatus
		o.PaidAt = prevPaidAt
		return err
	}
	return nil
}

func (l *GiftOrderLedger) findLocked(id string) *model.GiftOrder {
	for _, o := range l.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (l *GiftOrderLedger) persistLocked() error {
	orders := l.orders
	if orders == nil {
		orders = []*model.GiftOrder{}
	}
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger temp file: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("swap ledger file: %w", err)
	}
	return nil
}

func cloneOrder(o *model.GiftOrder) *model.GiftOrder {
	c := *o
	c.Items = append([]model.GiftOrderItem(nil), o.Items...)
	if o.PaidAt != nil {
		t := *o.PaidAt
		c.PaidAt = &t
	}
	return &c
}

// Path returns the backing file location, handy for logs.
func (l *GiftOrderLedger) Path() string { return filepath.Clean(l.path) }
