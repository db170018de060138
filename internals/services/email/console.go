package email

import (
	"context"

	"go.uber.org/zap"
)

// consoleSender logs messages instead of sending them (no API key configured).
type consoleSender struct {
	log *zap.Logger
}

func NewConsoleSender(log *zap.Logger) Sender {
	return &consoleSender{log: log}
}

func (s *consoleSender) Send(_ context.Context, msg Message) error {
	s.log.Info("📧 email (console)",
		zap.String("to", msg.To.String()),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	return nil
}

// New picks SendGrid when a key is configured.
func New(apiKey, appName, from string, log *zap.Logger) Sender {
	if apiKey == "" {
		return NewConsoleSender(log)
	}
	return NewSendgridSender(apiKey, appName, from)
}
