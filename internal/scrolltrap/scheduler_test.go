package scrolltrap

import (
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerFires(t *testing.T) {
	sc := NewScheduler()
	sc.Start()

	done := make(chan struct{})
	sc.After(tagMoodTick, 5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
	assert.False(t, sc.Pending(tagMoodTick), "fired timer should no longer be pending")
}

func TestSchedulerRequiresStart(t *testing.T) {
	sc := NewScheduler()

	var fired atomic.Bool
	sc.After(tagMoodTick, time.Millisecond, func() { fired.Store(true) })

	assert.False(t, sc.Pending(tagMoodTick), "stopped scheduler must not arm timers")
	time.Sleep(30 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestSchedulerReplacesSameTag(t *testing.T) {
	sc := NewScheduler()
	sc.Start()

	var first, second atomic.Bool
	done := make(chan struct{})
	sc.After(tagNotification, 50*time.Millisecond, func() { first.Store(true) })
	sc.After(tagNotification, 5*time.Millisecond, func() {
		second.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement timer never fired")
	}
	time.Sleep(80 * time.Millisecond)
	assert.False(t, first.Load(), "replaced timer must not fire")
	assert.True(t, second.Load())
}

func TestSchedulerStopAllCancelsEverything(t *testing.T) {
	sc := NewScheduler()
	sc.Start()

	var fired atomic.Int32
	sc.After(tagMoodTick, 20*time.Millisecond, func() { fired.Add(1) })
	sc.After(tagLikeSpike, 20*time.Millisecond, func() { fired.Add(1) })
	sc.After(tagNotification, 20*time.Millisecond, func() { fired.Add(1) })
	require.True(t, sc.Pending(tagMoodTick))

	sc.StopAll()

	assert.False(t, sc.Pending(tagMoodTick))
	assert.False(t, sc.Pending(tagLikeSpike))
	assert.False(t, sc.Pending(tagNotification))
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load(), "no callback scheduled before StopAll may run its effect")
}

func TestSchedulerEpochDiscardsStaleCallbacks(t *testing.T) {
	sc := NewScheduler()
	sc.Start()

	var stale atomic.Bool
	sc.After(tagFeedLoad, 10*time.Millisecond, func() { stale.Store(true) })

	// Stop and immediately restart, as a session reset does. The old
	// callback belongs to the previous epoch and must discard itself.
	sc.StopAll()
	sc.Start()

	fresh := make(chan struct{})
	sc.After(tagFeedLoad, 20*time.Millisecond, func() { close(fresh) })

	select {
	case <-fresh:
	case <-time.After(2 * time.Second):
		t.Fatal("fresh timer never fired")
	}
	assert.False(t, stale.Load(), "pre-reset callback must not run after restart")
}

func TestSchedulerCancel(t *testing.T) {
	sc := NewScheduler()
	sc.Start()

	var fired atomic.Bool
	sc.After(tagStoryAdvance, 20*time.Millisecond, func() { fired.Store(true) })
	require.True(t, sc.Pending(tagStoryAdvance))

	sc.Cancel(tagStoryAdvance)

	assert.False(t, sc.Pending(tagStoryAdvance))
	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestRandDelayMs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		d := randDelayMs(rng, 100, 200)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.Less(t, d, 200*time.Millisecond)
	}

	assert.Equal(t, 100*time.Millisecond, randDelayMs(rng, 100, 100))
	assert.Equal(t, 100*time.Millisecond, randDelayMs(rng, 100, 50))
}
