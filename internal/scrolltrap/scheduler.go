// Package scrolltrap implements the engagement scheduler.
//
// This file provides the Scheduler: a set of cancellable timer handles, each
// tagged with the trigger process it belongs to. Timers replace earlier
// timers with the same tag, and StopAll cancels every outstanding handle
// atomically by bumping an epoch; a callback that fires after the epoch
// moved discards itself instead of running. The five-plus trigger processes
// (mood ticker, like spikes, typing indicator, notifications, the
// friend-request one-shot, story auto-advance, feed-load latency) all hang
// off this type; none of them may outlive the Playing phase.
package scrolltrap

import (
	"math/rand"
	"sync"
	"time"
)

// timerTag identifies which trigger process owns a timer handle.
type timerTag string

// Trigger process tags.
const (
	tagMoodTick         timerTag = "mood_tick"
	tagLikeSpike        timerTag = "like_spike"
	tagTyping           timerTag = "typing"
	tagTypingClear      timerTag = "typing_clear"
	tagNotification     timerTag = "notification"
	tagNotificationHide timerTag = "notification_hide"
	tagFriendRequest    timerTag = "friend_request"
	tagStoryAdvance     timerTag = "story_advance"
	tagFeedLoad         timerTag = "feed_load"
	tagDMOpen           timerTag = "dm_open"
	tagDMFollowUp       timerTag = "dm_follow_up"
)

// Scheduler owns every outstanding trigger timer for one session.
type Scheduler struct {
	mu      sync.Mutex
	timers  map[timerTag]*time.Timer
	epoch   uint64
	running bool
}

// NewScheduler creates a stopped scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[timerTag]*time.Timer)}
}

// Start arms the scheduler for a new Playing phase.
func (sc *Scheduler) Start() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.running = true
}

// After schedules fn to run after d, replacing any earlier timer with the
// same tag. The callback is discarded, not run, if StopAll intervened
// between scheduling and firing.
func (sc *Scheduler) After(tag timerTag, d time.Duration, fn func()) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !sc.running {
		return
	}
	if old, ok := sc.timers[tag]; ok {
		old.Stop()
	}
	epoch := sc.epoch
	sc.timers[tag] = time.AfterFunc(d, func() {
		sc.mu.Lock()
		if sc.epoch != epoch {
			sc.mu.Unlock()
			return
		}
		delete(sc.timers, tag)
		sc.mu.Unlock()
		fn()
	})
}

// Cancel stops the timer with the given tag, if one is outstanding.
func (sc *Scheduler) Cancel(tag timerTag) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if t, ok := sc.timers[tag]; ok {
		t.Stop()
		delete(sc.timers, tag)
	}
}

// StopAll cancels every outstanding timer and invalidates callbacks already
// in flight. Deterministic: after StopAll returns, no callback scheduled
// before it will run its effect.
func (sc *Scheduler) StopAll() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.epoch++
	sc.running = false
	for tag, t := range sc.timers {
		t.Stop()
		delete(sc.timers, tag)
	}
}

// Pending reports whether a timer with the given tag is outstanding.
func (sc *Scheduler) Pending(tag timerTag) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	_, ok := sc.timers[tag]
	return ok
}

// randDelayMs returns a random duration uniform in [minMs, maxMs) ms.
// The variable interval is the intermittent-reward mechanic; it must never
// collapse into a fixed period.
func randDelayMs(rng *rand.Rand, minMs, maxMs int) time.Duration {
	if maxMs <= minMs {
		return time.Duration(minMs) * time.Millisecond
	}
	return time.Duration(minMs+rng.Intn(maxMs-minMs)) * time.Millisecond
}
