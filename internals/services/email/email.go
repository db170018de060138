package email

import (
	"context"
	"fmt"
	"html"
	"net/mail"

	"go.uber.org/zap"
)

type Message struct {
	To      mail.Address
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Deliver sends msg and reports success. Failures are logged, never returned:
// mail is a notification, the request that triggered it has already succeeded.
func Deliver(ctx context.Context, s Sender, log *zap.Logger, msg Message) bool {
	if s == nil {
		return false
	}
	if err := s.Send(ctx, msg); err != nil {
		log.Warn("email delivery failed",
			zap.String("to", msg.To.Address),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return false
	}
	return true
}

/* =========================================================
   Messages
========================================================= */

func OTPMessage(appName, name, address, code string, ttlMinutes int) Message {
	text := fmt.Sprintf(
		"Hello %s,\n\nYour %s verification code is %s.\nIt expires in %d minutes.\n",
		name, appName, code, ttlMinutes,
	)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your %s verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>",
		html.EscapeString(name), html.EscapeString(appName), html.EscapeString(code), ttlMinutes,
	)
	return Message{
		To:      mail.Address{Name: name, Address: address},
		Subject: "Verify your email",
		Text:    text,
		HTML:    body,
	}
}

func CredentialsMessage(appName, role, name, address, password string) Message {
	text := fmt.Sprintf(
		"Hello %s,\n\nA %s account was created for you on %s.\nEmail: %s\nPassword: %s\n\nPlease change your password after the first login.\n",
		name, role, appName, address, password,
	)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>A %s account was created for you on %s.</p><p>Email: %s<br>Password: <code>%s</code></p><p>Please change your password after the first login.</p>",
		html.EscapeString(name), html.EscapeString(role), html.EscapeString(appName),
		html.EscapeString(address), html.EscapeString(password),
	)
	return Message{
		To:      mail.Address{Name: name, Address: address},
		Subject: "Your account credentials",
		Text:    text,
		HTML:    body,
	}
}

// Notifier bundles what handlers need to send mail.
type Notifier struct {
	Sender  Sender
	Log     *zap.Logger
	AppName string
}

func (n Notifier) Credentials(ctx context.Context, role, name, address, password string) bool {
	return Deliver(ctx, n.Sender, n.Log, CredentialsMessage(n.AppName, role, name, address, password))
}

func (n Notifier) OTP(ctx context.Context, name, address, code string, ttlMinutes int) bool {
	return Deliver(ctx, n.Sender, n.Log, OTPMessage(n.AppName, name, address, code, ttlMinutes))
}
