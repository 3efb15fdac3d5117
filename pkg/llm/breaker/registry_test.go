package breaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func TestIsAvailableDuringCooldown(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	reg := NewWithClock(5*time.Minute, clock.Now)

	assert.True(t, reg.IsAvailable("gemini"), "unseen provider should be available")

	reg.RecordFailure("gemini")
	assert.False(t, reg.IsAvailable("gemini"))

	clock.Advance(4 * time.Minute)
	assert.False(t, reg.IsAvailable("gemini"), "still inside cooldown window")

	clock.Advance(1 * time.Minute)
	assert.True(t, reg.IsAvailable("gemini"), "cooldown elapsed")
}

func TestRecordSuccessClearsCooldown(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	reg := NewWithClock(5*time.Minute, clock.Now)

	reg.RecordFailure("cohere")
	assert.False(t, reg.IsAvailable("cohere"))

	// Recovery must not wait out the window.
	reg.RecordSuccess("cohere")
	assert.True(t, reg.IsAvailable("cohere"))
}

func TestFailureIsPerProvider(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	reg := NewWithClock(5*time.Minute, clock.Now)

	reg.RecordFailure("anthropic")
	assert.False(t, reg.IsAvailable("anthropic"))
	assert.True(t, reg.IsAvailable("gemini"))
	assert.True(t, reg.IsAvailable("cohere"))
}

func TestRepeatedFailureExtendsCooldown(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	reg := NewWithClock(5*time.Minute, clock.Now)

	reg.RecordFailure("gemini")
	clock.Advance(4 * time.Minute)
	reg.RecordFailure("gemini")
	clock.Advance(4 * time.Minute)

	assert.False(t, reg.IsAvailable("gemini"), "second failure restarts the window")
}
