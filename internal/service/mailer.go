package service

import (
	"context"

	"go.uber.org/zap"
)

// LogDeliverer writes issued codes to the structured log instead of sending
// mail. The original demo displayed the code in a notification; this is the
// server-side equivalent, and the default until an SMTP deliverer is wired.
type LogDeliverer struct {
	logger *zap.Logger
}

// NewLogDeliverer creates a log-backed OTP deliverer.
func NewLogDeliverer(logger *zap.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

// Deliver logs the code for the operator to relay.
func (d *LogDeliverer) Deliver(_ context.Context, email, code string) error {
	d.logger.Info("otp_delivered",
		zap.String("email", email),
		zap.String("code", code))
	return nil
}
