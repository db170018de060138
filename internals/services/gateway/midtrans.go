package gateway

import (
	"context"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/pkg/errors"
)

/* =========================================================
   Midtrans Snap client
========================================================= */

type MidtransGateway struct {
	serverKey string
	client    snap.Client
}

var _ Gateway = (*MidtransGateway)(nil)

// NewMidtrans: useProduction=false targets the sandbox.
func NewMidtrans(serverKey string, useProduction bool) *MidtransGateway {
	g := &MidtransGateway{serverKey: serverKey}
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	g.client.New(serverKey, env)
	return g
}

func (g *MidtransGateway) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.New("invalid order amount")
	}
	if req.OrderID == "" {
		return nil, errors.New("order id is required")
	}
	gross := req.Amount.Round(0).IntPart()

	sreq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Customer.FirstName,
			LName: req.Customer.LastName,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    req.OrderID,
			Price: gross,
			Qty:   1,
			Name:  truncate(defaultString(req.ItemName, "EduQuest payment"), 50),
		}},
	}

	resp, mErr := g.client.CreateTransaction(sreq)
	if mErr != nil {
		return nil, errors.Wrap(mErr, "midtrans create transaction")
	}
	return &Order{
		OrderID:     req.OrderID,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		Amount:      req.Amount,
		Currency:    req.Currency,
	}, nil
}

func (g *MidtransGateway) VerifySignature(n Notification) bool {
	return verify(n, g.serverKey)
}

/* =========================================================
   Utils
========================================================= */

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
