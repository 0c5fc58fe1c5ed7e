package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

// Channel names a notification delivery path.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
)

// EffectiveDecision ANDs the global per-channel toggle with the
// per-submission preference. Either side saying no wins.
func EffectiveDecision(channel Channel, settings models.NotificationSettings, pref models.NotificationPreference) bool {
	switch channel {
	case ChannelEmail:
		return settings.Email && pref.Email
	case ChannelTelegram:
		return settings.Telegram && pref.Telegram
	default:
		return false
	}
}

// Sender attempts one delivery of an order confirmation.
type Sender interface {
	Send(ctx context.Context, order *models.Order) error
}

// SettingsSource provides the global notification toggles.
type SettingsSource interface {
	GetNotificationSettings(ctx context.Context) (models.NotificationSettings, error)
}

// Dispatcher fans an order confirmation out to the email and Telegram
// channels. The channels run in parallel, each under its own timeout; any
// failure is logged and reported as false, never returned to the caller.
type Dispatcher struct {
	settings SettingsSource
	email    Sender
	telegram Sender
	timeout  time.Duration
	logger   *logrus.Logger

	emailBreaker    *channelBreaker
	telegramBreaker *channelBreaker
}

func NewDispatcher(settings SettingsSource, email, telegram Sender, timeout time.Duration, logger *logrus.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		settings:        settings,
		email:           email,
		telegram:        telegram,
		timeout:         timeout,
		logger:          logger,
		emailBreaker:    newChannelBreaker(string(ChannelEmail), 5, time.Minute, logger),
		telegramBreaker: newChannelBreaker(string(ChannelTelegram), 5, time.Minute, logger),
	}
}

// Dispatch resolves the effective decision per channel and attempts delivery
// where it is true. A channel resolved to false is reported false without
// being attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, order *models.Order, pref models.NotificationPreference) models.NotificationOutcome {
	settings, err := d.settings.GetNotificationSettings(ctx)
	if err != nil {
		// Fail open: a broken settings read must not block dispatch.
		d.logger.WithError(err).Warn("Failed to read notification settings, using defaults")
		settings = models.NotificationSettings{Email: true, Telegram: true}
	}

	var outcome models.NotificationOutcome
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		outcome.Email = d.attempt(ctx, ChannelEmail, d.email, d.emailBreaker, settings, pref, order)
	}()
	go func() {
		defer wg.Done()
		outcome.Telegram = d.attempt(ctx, ChannelTelegram, d.telegram, d.telegramBreaker, settings, pref, order)
	}()
	wg.Wait()

	d.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"email":        outcome.Email,
		"telegram":     outcome.Telegram,
	}).Info("Notification dispatch completed")

	return outcome
}

func (d *Dispatcher) attempt(ctx context.Context, channel Channel, sender Sender, breaker *channelBreaker,
	settings models.NotificationSettings, pref models.NotificationPreference, order *models.Order) bool {

	if !EffectiveDecision(channel, settings, pref) {
		return false
	}
	if sender == nil {
		return false
	}
	if !breaker.allow() {
		d.logger.WithField("channel", channel).Warn("Notification channel skipped, breaker open")
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := sender.Send(sendCtx, order)
	breaker.record(err)
	if err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"channel":      channel,
			"order_number": order.OrderNumber,
		}).Error("Notification delivery failed")
		return false
	}
	return true
}
