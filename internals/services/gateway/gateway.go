package gateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

type OrderRequest struct {
	OrderID  string
	Amount   decimal.Decimal
	Currency string
	ItemName string
	Customer Customer
}

type Order struct {
	OrderID     string          `json:"order_id"`
	Token       string          `json:"token"`
	RedirectURL string          `json:"redirect_url"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

// Notification is the payload the client (or the gateway webhook) sends back
// after checkout.
type Notification struct {
	OrderID           string `json:"order_id" validate:"required"`
	StatusCode        string `json:"status_code" validate:"required"`
	GrossAmount       string `json:"gross_amount" validate:"required"`
	SignatureKey      string `json:"signature_key" validate:"required"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionTime   string `json:"transaction_time"`
}

// IsSettled: money captured (settlement, or card capture accepted by fraud check).
func (n Notification) IsSettled() bool {
	switch strings.ToLower(n.TransactionStatus) {
	case "settlement":
		return true
	case "capture":
		fs := strings.ToLower(n.FraudStatus)
		return fs == "" || fs == "accept"
	}
	return false
}

// IsFailed: terminal failure states.
func (n Notification) IsFailed() bool {
	switch strings.ToLower(n.TransactionStatus) {
	case "deny", "cancel", "expire", "failure":
		return true
	}
	return false
}

// Amount parses GrossAmount ("500.00").
func (n Notification) Amount() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(n.GrossAmount))
}

type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifySignature(n Notification) bool
}

// Signature = SHA512(order_id + status_code + gross_amount + server_key), hex.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

func verify(n Notification, serverKey string) bool {
	if serverKey == "" || n.SignatureKey == "" {
		return false
	}
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	got := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// FormatAmount renders the gross_amount the way the gateway echoes it.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// NewCustomer splits fullName into first and last name.
func NewCustomer(fullName, email string, phone *string) Customer {
	c := Customer{Email: email}
	parts := strings.Fields(fullName)
	if len(parts) > 0 {
		c.FirstName = parts[0]
		c.LastName = strings.Join(parts[1:], " ")
	}
	if phone != nil {
		c.Phone = *phone
	}
	return c
}
