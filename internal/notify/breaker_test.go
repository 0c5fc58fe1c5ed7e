package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	b := newChannelBreaker("email", 3, time.Minute, testLogger())
	failure := errors.New("boom")

	for i := 0; i < 3; i++ {
		assert.True(t, b.allow())
		b.record(failure)
	}

	assert.False(t, b.allow())
}

func TestBreakerResetsOnSuccess(t *testing.T) {
	b := newChannelBreaker("email", 3, time.Minute, testLogger())
	failure := errors.New("boom")

	b.record(failure)
	b.record(failure)
	b.record(nil)

	for i := 0; i < 2; i++ {
		assert.True(t, b.allow())
		b.record(failure)
	}
	// two failures since the success, still under the threshold
	assert.True(t, b.allow())
}

func TestBreakerHalfOpenAfterCooldown(t *testing.T) {
	b := newChannelBreaker("telegram", 2, 10*time.Millisecond, testLogger())
	failure := errors.New("boom")

	b.record(failure)
	b.record(failure)
	assert.False(t, b.allow())

	time.Sleep(20 * time.Millisecond)

	// one probe gets through; another failure reopens immediately
	assert.True(t, b.allow())
	b.record(failure)
	assert.False(t, b.allow())
}
