package memory

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"erents/internal/app/policies"
	"erents/internal/domain/shared/money"

	"github.com/google/uuid"
)

var ErrHoldNotFound = errors.New("memory: payment hold not found")

type holdState string

const (
	holdPlaced   holdState = "PLACED"
	holdCaptured holdState = "CAPTURED"
)

type paymentHold struct {
	ID        string
	BookingID string
	Amount    money.Money
	State     holdState
}

// PaymentsLedger is a stand-in payment provider: holds and refunds are
// tracked in memory and always succeed.
type PaymentsLedger struct {
	Logger *slog.Logger

	mu      sync.Mutex
	holds   map[string]*paymentHold
	refunds map[string]money.Money
}

func NewPaymentsLedger(logger *slog.Logger) *PaymentsLedger {
	return &PaymentsLedger{
		Logger:  logger,
		holds:   make(map[string]*paymentHold),
		refunds: make(map[string]money.Money),
	}
}

func (l *PaymentsLedger) PlaceHold(ctx context.Context, bookingID string, amount money.Money) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	hold := &paymentHold{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Amount:    amount,
		State:     holdPlaced,
	}
	l.holds[hold.ID] = hold
	if l.Logger != nil {
		l.Logger.Info("payment hold placed", "booking_id", bookingID, "hold_id", hold.ID, "amount", amount.Amount, "currency", amount.Currency)
	}
	return hold.ID, nil
}

func (l *PaymentsLedger) Capture(ctx context.Context, holdID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	hold, ok := l.holds[holdID]
	if !ok {
		return ErrHoldNotFound
	}
	hold.State = holdCaptured
	return nil
}

func (l *PaymentsLedger) Refund(ctx context.Context, bookingID string, amount money.Money) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refunds[bookingID] = amount
	if l.Logger != nil {
		l.Logger.Info("refund issued", "booking_id", bookingID, "amount", amount.Amount, "currency", amount.Currency)
	}
	return nil
}

// RefundFor reports the refund recorded against a booking, if any. Used by
// tests to assert refund amounts.
func (l *PaymentsLedger) RefundFor(bookingID string) (money.Money, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	amount, ok := l.refunds[bookingID]
	return amount, ok
}

var _ policies.PaymentsPort = (*PaymentsLedger)(nil)
