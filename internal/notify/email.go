package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/ErDev77/pc-configurator-sub000/internal/config"
	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

// EmailSender delivers order confirmations through an SMTP relay.
type EmailSender struct {
	cfg    config.SMTP
	logger *logrus.Logger
}

func NewEmailSender(cfg config.SMTP, logger *logrus.Logger) *EmailSender {
	return &EmailSender{cfg: cfg, logger: logger}
}

// Send blocks until the message is relayed, the transport fails, or ctx
// expires. gomail has no context support, so the dial-and-send runs in a
// goroutine and a timeout abandons it.
func (s *EmailSender) Send(ctx context.Context, order *models.Order) error {
	if s.cfg.Host == "" || s.cfg.To == "" {
		return fmt.Errorf("smtp transport not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.To)
	m.SetHeader("Subject", FormatOrderSubject(order))
	m.SetBody("text/plain", FormatOrderMessage(order))

	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		s.logger.WithFields(logrus.Fields{
			"order_number": order.OrderNumber,
			"to":           s.cfg.To,
		}).Info("Order confirmation email sent")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("email send timed out: %w", ctx.Err())
	}
}
