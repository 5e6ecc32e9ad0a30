package scrolltrap

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source for elapsed-time tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestSession(t *testing.T, opts ...SessionOption) *Session {
	t.Helper()
	opts = append([]SessionOption{WithRandSeed(1)}, opts...)
	sess := NewSession(&SimulationConfig{}, opts...)
	t.Cleanup(sess.ResetToIntro)
	return sess
}

// injectNotification plants a notification in the log, bypassing the random
// ticker so click tests are deterministic.
func injectNotification(sess *Session, n Notification) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state.prependNotification(n, sess.trig.NotificationLogCap)
}

func TestNewSessionIntroDefaults(t *testing.T) {
	sess := newTestSession(t)
	snap := sess.Snapshot()

	assert.Equal(t, PhaseIntro, snap.Phase)
	assert.Equal(t, DefaultHandle, snap.AccountHandle)
	assert.Equal(t, 60, snap.EstimatedSeconds)
	assert.Nil(t, sess.Reveal())
}

func TestSanitizeHandle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mario", "mario"},
		{"@mario", "mario"},
		{"  @mario  ", "mario"},
		{"two words", "two_words"},
		{"", "you"},
		{"   ", "you"},
		{"@", "you"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeHandle(tt.in), "input %q", tt.in)
	}
}

func TestSetEstimatedTimeValidation(t *testing.T) {
	sess := newTestSession(t)

	sess.SetEstimatedTime(300)
	assert.Equal(t, 300, sess.Snapshot().EstimatedSeconds)

	sess.SetEstimatedTime(42)
	assert.Equal(t, 60, sess.Snapshot().EstimatedSeconds, "invalid choice falls back to 60")
}

func TestStartSessionSeedsState(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()
	snap := sess.Snapshot()

	assert.Equal(t, PhasePlaying, snap.Phase)
	assert.Len(t, snap.FeedItems, 8)
	assert.Equal(t, 70, snap.Mood)
	assert.Equal(t, 3, snap.Streak)
	assert.Len(t, snap.Stories, 3)
	assert.Len(t, snap.DMInbox, 2)
	assert.Len(t, snap.FriendRequestsPending, 3)
	assert.True(t, snap.Flags.IgnoredEmptyNotifications)
	assert.True(t, snap.Flags.RefusedAllSuspiciousRequests)
	for _, c := range AllCategories {
		assert.Equal(t, 1, snap.InterestWeights[c])
	}
}

func TestStartSessionWhilePlayingIsNoOp(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()
	sess.Like(1)

	sess.StartSession()

	assert.True(t, sess.Snapshot().LikedItemIDs[1], "restart while playing must not rebuild state")
}

func TestMoodTickDecayAndFloor(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	for i := 0; i < 60; i++ {
		sess.fireMoodTick()
	}
	snap := sess.Snapshot()

	assert.Equal(t, 15, snap.Mood, "tick decay stops at the floor")
	assert.Len(t, snap.MoodHistory, 45, "history is capped")
}

func TestEmptyNotificationPenaltyCanBreakFloor(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	for i := 0; i < 60; i++ {
		sess.fireMoodTick()
	}
	require.Equal(t, 15, sess.Snapshot().Mood)

	injectNotification(sess, Notification{ID: "e1", HasContent: false})
	sess.ClickNotification("e1")
	injectNotification(sess, Notification{ID: "e2", HasContent: false})
	sess.ClickNotification("e2")

	assert.Equal(t, 0, sess.Snapshot().Mood, "penalties clamp at zero, below the tick floor")
}

func TestEmptyNotificationClick(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()
	injectNotification(sess, Notification{ID: "empty-1", HasContent: false})

	sess.ClickNotification("empty-1")
	snap := sess.Snapshot()

	assert.Equal(t, 1, snap.Counters.EmptyNotificationClicks)
	assert.Equal(t, 0, snap.Counters.NotificationClicks)
	assert.False(t, snap.Flags.IgnoredEmptyNotifications)
	assert.Equal(t, 62, snap.Mood)
}

func TestContentNotificationClickOpensDM(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()
	injectNotification(sess, Notification{ID: "dm-note", HasContent: true, MoodDelta: 1, Action: ActionOpenDM})

	sess.ClickNotification("dm-note")
	snap := sess.Snapshot()

	assert.Equal(t, 1, snap.Counters.NotificationClicks)
	assert.Equal(t, 71, snap.Mood)
	assert.Equal(t, ModalDM, snap.BlockingModalKind)
	assert.Equal(t, "dm-bestie", snap.OpenDMThreadID)
}

func TestClickUnknownNotificationIsNoOp(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	sess.ClickNotification("nope")
	snap := sess.Snapshot()

	assert.Equal(t, 0, snap.Counters.NotificationClicks)
	assert.Equal(t, 0, snap.Counters.EmptyNotificationClicks)
	assert.Equal(t, 70, snap.Mood)
}

func TestNotificationLogCap(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	for i := 0; i < 50; i++ {
		injectNotification(sess, Notification{ID: fmt.Sprintf("n%d", i), HasContent: true})
	}
	snap := sess.Snapshot()

	require.Len(t, snap.NotificationLog, 40)
	assert.Equal(t, "n49", snap.NotificationLog[0].ID, "newest first")
	assert.Equal(t, "n10", snap.NotificationLog[39].ID, "oldest beyond the cap evicted")
}

func TestLikeIdempotentAndTeachesInterest(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()
	item := sess.Snapshot().FeedItems[0]

	sess.Like(item.ID)
	snap := sess.Snapshot()
	assert.True(t, snap.LikedItemIDs[item.ID])
	assert.Equal(t, 3, snap.InterestWeights[item.Category])
	assert.Equal(t, item.Likes+1, snap.EffectiveLikes(snap.findItem(item.ID)))

	sess.Like(item.ID)
	assert.Equal(t, 3, sess.Snapshot().InterestWeights[item.Category], "re-like must not double-teach")

	sess.Unlike(item.ID)
	snap = sess.Snapshot()
	assert.False(t, snap.LikedItemIDs[item.ID])
	assert.Equal(t, 3, snap.InterestWeights[item.Category], "unlike never lowers a weight")
	assert.Equal(t, item.Likes, snap.EffectiveLikes(snap.findItem(item.ID)))
}

func TestLikeUnknownItemIsNoOp(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	sess.Like(9999)

	assert.Empty(t, sess.Snapshot().LikedItemIDs)
}

func TestSaveAndUnsave(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	sess.Save(2)
	assert.True(t, sess.Snapshot().SavedItemIDs[2])
	sess.Unsave(2)
	assert.False(t, sess.Snapshot().SavedItemIDs[2])
}

func TestViewReelCountsAndTeaches(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	var reel *FeedItem
	snap := sess.Snapshot()
	for i := range snap.FeedItems {
		if snap.FeedItems[i].Kind == FeedKindReel {
			reel = &snap.FeedItems[i]
			break
		}
	}
	require.NotNil(t, reel)

	sess.ViewReel(reel.ID)
	got := sess.Snapshot()
	assert.Equal(t, 1, got.Counters.ReelsWatched)
	assert.Equal(t, 3, got.InterestWeights[reel.Category])

	sess.ViewReel(1) // Item 1 is a normal post
	assert.Equal(t, 1, sess.Snapshot().Counters.ReelsWatched)
}

func TestScrollPaginationDebounce(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	sess.ReportScroll(3000, 3800, 400) // remaining 400 < 420
	snap := sess.Snapshot()
	assert.Equal(t, 3000, snap.Counters.ScrollDistance)
	assert.True(t, sess.sched.Pending(tagFeedLoad))
	assert.True(t, sess.generator.LoadInFlight())

	sess.ReportScroll(3100, 3800, 400)
	assert.Equal(t, 3100, sess.Snapshot().Counters.ScrollDistance)

	sess.sched.Cancel(tagFeedLoad)
	sess.fireFeedLoadComplete()
	snap = sess.Snapshot()
	require.Len(t, snap.FeedItems, 12)
	assert.Equal(t, 1000, snap.FeedItems[8].ID)
	assert.Equal(t, 1003, snap.FeedItems[11].ID)
	assert.False(t, sess.generator.LoadInFlight())
}

func TestScrollUpwardDoesNotAccumulate(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	sess.ReportScroll(500, 5000, 400)
	sess.ReportScroll(200, 5000, 400)

	assert.Equal(t, 500, sess.Snapshot().Counters.ScrollDistance)
}

func TestModalSuppressesBackgroundTriggers(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()
	sess.OpenComments(1)
	require.Equal(t, ModalComments, sess.Snapshot().BlockingModalKind)

	for i := 0; i < 50; i++ {
		sess.fireTypingTick()
		sess.fireNotificationTick()
	}
	snap := sess.Snapshot()
	assert.Empty(t, snap.ActiveTypingUser)
	assert.Zero(t, snap.Counters.TypingIndicatorShownCount)
	assert.Empty(t, snap.NotificationLog)
	assert.Nil(t, snap.ActiveNotificationPopup)

	sess.CloseModal()
	for i := 0; i < 100 && len(sess.Snapshot().NotificationLog) == 0; i++ {
		sess.fireNotificationTick()
	}
	assert.NotEmpty(t, sess.Snapshot().NotificationLog, "ticker resumes once the modal closes")
}

func TestMoodAndSpikesRunDuringModal(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()
	sess.OpenComments(1)

	sess.fireMoodTick()
	snap := sess.Snapshot()
	assert.Equal(t, 69, snap.Mood, "mood ticker ignores modal state")
	assert.Len(t, snap.MoodHistory, 1)

	for i := 0; i < 30; i++ {
		sess.fireLikeSpike()
	}
	got := sess.Snapshot()
	assert.Greater(t, got.Counters.DopamineSpikeCount, 0, "like spikes ignore modal state")
	assert.GreaterOrEqual(t, got.Counters.LikesReceived, got.Counters.DopamineSpikeCount)
	assert.LessOrEqual(t, got.Counters.LikesReceived, got.Counters.DopamineSpikeCount*4)
}

func TestRareNotificationShownAtMostOnce(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	rareSeen := 0
	for i := 0; i < 500; i++ {
		sess.fireNotificationTick()
	}
	for _, n := range sess.Snapshot().NotificationLog {
		if n.Rare {
			rareSeen++
		}
	}
	// The log caps at 40; count rare across the whole session flag too.
	if sess.Snapshot().Flags.RareEventAlreadyShown {
		assert.LessOrEqual(t, rareSeen, 1)
	} else {
		assert.Zero(t, rareSeen)
	}
}

func TestFriendRequestTriggerOneShotAndSuspiciousFirst(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	sess.fireFriendRequest()
	snap := sess.Snapshot()
	require.NotNil(t, snap.ActiveFriendRequest)
	assert.True(t, snap.ActiveFriendRequest.Suspicious, "suspicious profiles are presented first")
	assert.Equal(t, ModalFriendRequest, snap.BlockingModalKind)

	sess.CloseModal()
	sess.fireFriendRequest()
	got := sess.Snapshot()
	assert.Nil(t, got.ActiveFriendRequest, "the trigger is one-shot per session")
	assert.Equal(t, ModalNone, got.BlockingModalKind)
}

func TestFriendRequestSuppressedByModalStillConsumesShot(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()
	sess.OpenComments(1)

	sess.fireFriendRequest()
	require.Nil(t, sess.Snapshot().ActiveFriendRequest)

	sess.CloseModal()
	sess.fireFriendRequest()
	assert.Nil(t, sess.Snapshot().ActiveFriendRequest, "a suppressed fire still spends the single shot")
}

func TestStoryViewAdvanceAndClose(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	sess.ViewStory("story-jake") // 3 frames
	snap := sess.Snapshot()
	assert.Equal(t, 1, snap.Counters.StoriesWatched)
	assert.Equal(t, ModalStory, snap.BlockingModalKind)
	require.NotNil(t, snap.ActiveStory)
	assert.Equal(t, 0, snap.ActiveStory.FrameIndex)
	assert.True(t, sess.sched.Pending(tagStoryAdvance))

	sess.AdvanceStoryAutomatically()
	assert.Equal(t, 1, sess.Snapshot().ActiveStory.FrameIndex)
	sess.AdvanceStoryAutomatically()
	assert.Equal(t, 2, sess.Snapshot().ActiveStory.FrameIndex)

	sess.AdvanceStoryAutomatically() // Past the last frame
	got := sess.Snapshot()
	assert.Nil(t, got.ActiveStory)
	assert.Equal(t, ModalNone, got.BlockingModalKind)
	assert.False(t, sess.sched.Pending(tagStoryAdvance))
}

func TestStoryPollClick(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	sess.ClickStoryPoll() // No story open
	assert.Zero(t, sess.Snapshot().Counters.StoryPollClicks)

	sess.ViewStory("story-emma")
	sess.ClickStoryPoll()
	snap := sess.Snapshot()
	assert.Equal(t, 1, snap.Counters.StoryPollClicks)
	assert.Equal(t, 72, snap.Mood)
}

func TestShareClickbaitCounted(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	sess.mu.Lock()
	sess.state.FeedItems = append(sess.state.FeedItems, FeedItem{ID: 900, Kind: FeedKindClickbait, Fake: true})
	sess.mu.Unlock()

	sess.ShareItem(900)
	sess.ShareItem(1) // Normal post
	assert.Equal(t, 1, sess.Snapshot().Counters.SharedClickbaitCount)
}

func TestClickAdOnlyCountsAds(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()
	snap := sess.Snapshot()

	var ad *FeedItem
	for i := range snap.FeedItems {
		if snap.FeedItems[i].Kind == FeedKindAd {
			ad = &snap.FeedItems[i]
			break
		}
	}
	require.NotNil(t, ad)

	sess.ClickAd(ad.ID)
	sess.ClickAd(1) // Normal post
	assert.Equal(t, 1, sess.Snapshot().Counters.AdsClicked)
}

func TestOverrunEstimateScenario(t *testing.T) {
	clock := newFakeClock()
	sess := newTestSession(t, WithClock(clock.Now))

	sess.SetAccountHandle("@mario")
	sess.SetEstimatedTime(60)
	sess.StartSession()

	clock.Advance(90 * time.Second)
	sess.EndSession()
	snap := sess.Snapshot()
	report := sess.Reveal()

	assert.Equal(t, PhaseReveal, snap.Phase)
	assert.Equal(t, 90, snap.ElapsedSeconds)
	assert.False(t, snap.Flags.ExitedOnTime)
	require.NotNil(t, report)
	assert.InDelta(t, 1.5, report.TimeRatio, 1e-9)
	assert.Equal(t, "mario", report.Certificate.Handle)
	assert.Equal(t, 90, report.Certificate.ElapsedSeconds)
	assert.Equal(t, 60, report.Certificate.EstimatedSeconds)

	for _, b := range report.Badges {
		if b.Key == "exited_on_time" {
			assert.False(t, b.Earned)
		}
	}
}

func TestEndSessionFreezesElapsedAndComputesRevealOnce(t *testing.T) {
	clock := newFakeClock()
	sess := newTestSession(t, WithClock(clock.Now))
	sess.StartSession()

	clock.Advance(30 * time.Second)
	sess.EndSession()
	first := sess.Reveal()

	clock.Advance(300 * time.Second)
	sess.EndSession()

	assert.Equal(t, 30, sess.Snapshot().ElapsedSeconds, "elapsed freezes at Reveal entry")
	assert.Same(t, first, sess.Reveal(), "the reveal report is computed exactly once")
	assert.True(t, sess.Snapshot().Flags.ExitedOnTime)
}

func TestEndSessionClearsTransientsAndStopsTriggers(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()
	sess.ViewStory("story-jake")

	sess.EndSession()
	snap := sess.Snapshot()

	assert.Nil(t, snap.ActiveStory)
	assert.Nil(t, snap.ActiveNotificationPopup)
	assert.Empty(t, snap.ActiveTypingUser)
	assert.Nil(t, snap.ActiveFriendRequest)
	assert.Equal(t, ModalNone, snap.BlockingModalKind)
	assert.False(t, sess.sched.Pending(tagMoodTick))
	assert.False(t, sess.sched.Pending(tagStoryAdvance))
}

func TestIntentsIgnoredAfterReveal(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()
	sess.EndSession()

	sess.Like(1)
	sess.ReportScroll(3000, 3800, 400)
	sess.fireMoodTick()
	snap := sess.Snapshot()

	assert.Empty(t, snap.LikedItemIDs)
	assert.Zero(t, snap.Counters.ScrollDistance)
	assert.Empty(t, snap.MoodHistory)
}

func TestResetToIntroKeepsHandleAndEstimate(t *testing.T) {
	sess := newTestSession(t)
	sess.SetAccountHandle("luna")
	sess.SetEstimatedTime(120)
	sess.StartSession()
	sess.EndSession()

	sess.ResetToIntro()
	snap := sess.Snapshot()

	assert.Equal(t, PhaseIntro, snap.Phase)
	assert.Equal(t, "luna", snap.AccountHandle)
	assert.Equal(t, 120, snap.EstimatedSeconds)
	assert.Empty(t, snap.FeedItems)
	assert.Nil(t, sess.Reveal())
}

func TestChangeListenerReceivesSnapshots(t *testing.T) {
	sess := newTestSession(t)

	var mu sync.Mutex
	var got []*SessionState
	sess.SetChangeListener(func(snap *SessionState) {
		mu.Lock()
		got = append(got, snap)
		mu.Unlock()
	})

	sess.SetAccountHandle("sam")
	sess.StartSession()

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, "sam", got[len(got)-1].AccountHandle)
	assert.Equal(t, PhasePlaying, got[len(got)-1].Phase)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	sess := newTestSession(t)
	sess.StartSession()

	snap := sess.Snapshot()
	snap.FeedItems[0].Caption = "tampered"
	snap.InterestWeights[CategoryPets] = 99
	snap.DMInbox[0].Messages[0].Text = "tampered"

	fresh := sess.Snapshot()
	assert.NotEqual(t, "tampered", fresh.FeedItems[0].Caption)
	assert.Equal(t, 1, fresh.InterestWeights[CategoryPets])
	assert.NotEqual(t, "tampered", fresh.DMInbox[0].Messages[0].Text)
}
