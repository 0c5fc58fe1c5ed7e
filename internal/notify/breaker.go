package notify

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// channelBreaker keeps a persistently failing transport from being hammered
// on every checkout. After maxFailures consecutive errors the channel is
// skipped (reported as not delivered) until the cooldown passes.
type channelBreaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration
	logger      *logrus.Logger

	mu        sync.Mutex
	failures  int
	openUntil time.Time
}

func newChannelBreaker(name string, maxFailures int, cooldown time.Duration, logger *logrus.Logger) *channelBreaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &channelBreaker{
		name:        name,
		maxFailures: maxFailures,
		cooldown:    cooldown,
		logger:      logger,
	}
}

func (b *channelBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openUntil.IsZero() {
		return true
	}
	if time.Now().After(b.openUntil) {
		// Half-open: let one attempt through.
		b.openUntil = time.Time{}
		b.failures = b.maxFailures - 1
		return true
	}
	return false
}

func (b *channelBreaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		b.openUntil = time.Time{}
		return
	}

	b.failures++
	if b.failures >= b.maxFailures {
		b.openUntil = time.Now().Add(b.cooldown)
		b.logger.WithFields(logrus.Fields{
			"channel":  b.name,
			"failures": b.failures,
			"cooldown": b.cooldown.String(),
		}).Warn("Notification channel breaker opened")
	}
}
