package gateway

import (
	"context"
	"sync"
)

// FakeGateway issues orders locally and verifies real signatures with its key.
type FakeGateway struct {
	ServerKey string

	mu     sync.Mutex
	Orders []OrderRequest
}

var _ Gateway = (*FakeGateway)(nil)

func NewFake(serverKey string) *FakeGateway {
	return &FakeGateway{ServerKey: serverKey}
}

func (f *FakeGateway) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	f.mu.Lock()
	f.Orders = append(f.Orders, req)
	f.mu.Unlock()
	return &Order{
		OrderID:     req.OrderID,
		Token:       "tok-" + req.OrderID,
		RedirectURL: "https://pay.local/" + req.OrderID,
		Amount:      req.Amount,
		Currency:    req.Currency,
	}, nil
}

func (f *FakeGateway) VerifySignature(n Notification) bool {
	return verify(n, f.ServerKey)
}

// Settle builds a correctly signed settlement notification.
func (f *FakeGateway) Settle(orderID, grossAmount, transactionID string) Notification {
	n := Notification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       grossAmount,
		TransactionStatus: "settlement",
		TransactionID:     transactionID,
		PaymentType:       "bank_transfer",
	}
	n.SignatureKey = Signature(n.OrderID, n.StatusCode, n.GrossAmount, f.ServerKey)
	return n
}
