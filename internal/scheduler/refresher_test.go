// internal/scheduler/refresher_test.go
package scheduler_test

import (
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/minemaniauk/gamerooms/internal/scheduler"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRefresherTicks(t *testing.T) {
	r := scheduler.NewRefresher(testLogger())
	defer r.StopAll()

	var ticks int64
	r.Start("session-1", 5*time.Millisecond, func() {
		atomic.AddInt64(&ticks, 1)
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&ticks) >= 3
	}, time.Second, time.Millisecond)
}

func TestRefresherStopHaltsTicks(t *testing.T) {
	r := scheduler.NewRefresher(testLogger())

	var ticks int64
	r.Start("session-1", 5*time.Millisecond, func() {
		atomic.AddInt64(&ticks, 1)
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&ticks) >= 1
	}, time.Second, time.Millisecond)

	r.Stop("session-1")
	assert.False(t, r.Active("session-1"))

	stopped := atomic.LoadInt64(&ticks)
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt64(&ticks), stopped+1,
		"an in-flight tick may complete but no new ticks fire")
}

func TestRefresherRestartReplacesSession(t *testing.T) {
	r := scheduler.NewRefresher(testLogger())
	defer r.StopAll()

	var first, second int64
	r.Start("session-1", 5*time.Millisecond, func() {
		atomic.AddInt64(&first, 1)
	})
	r.Start("session-1", 5*time.Millisecond, func() {
		atomic.AddInt64(&second, 1)
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&second) >= 2
	}, time.Second, time.Millisecond)

	// The replaced session stops ticking almost immediately.
	firstCount := atomic.LoadInt64(&first)
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt64(&first), firstCount+1)
}

func TestRefresherIndependentKeys(t *testing.T) {
	r := scheduler.NewRefresher(testLogger())
	defer r.StopAll()

	var a, b int64
	r.Start("a", 5*time.Millisecond, func() { atomic.AddInt64(&a, 1) })
	r.Start("b", 5*time.Millisecond, func() { atomic.AddInt64(&b, 1) })

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&a) >= 1 && atomic.LoadInt64(&b) >= 1
	}, time.Second, time.Millisecond)

	r.Stop("a")
	assert.False(t, r.Active("a"))
	assert.True(t, r.Active("b"))
}
