// Package scrolltrap owns the session state machine.
//
// This file provides the Session type: the sole owner and mutator of
// SessionState. It drives the Intro -> Playing -> Reveal transitions, runs
// the engagement trigger processes through the Scheduler, and accepts every
// user intent from the rendering layer as a synchronous command method.
// Every mutation is one atomic critical section under the session lock;
// timer callbacks re-check phase and modal state at fire time, never at
// schedule time. After each mutation the session publishes a full state
// snapshot to its change listener.
package scrolltrap

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the state machine owning one simulation session.
type Session struct {
	mu sync.Mutex

	feed *FeedConfig
	mood *MoodConfig
	trig *TriggerConfig
	feel *FeelConfig

	rng   *rand.Rand
	now   func() time.Time
	audio AudioCueSink
	sched *Scheduler

	state     *SessionState
	interest  *InterestModel
	generator *FeedGenerator
	startedAt time.Time
	reveal    *RevealReport

	onChange func(*SessionState)
}

// SessionOption customizes a Session at construction.
type SessionOption func(*Session)

// WithRandSeed injects a deterministic random source. Tests use this to
// assert distributional properties.
func WithRandSeed(seed int64) SessionOption {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithClock injects the time source used for elapsed-time accounting.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithAudioSink injects the audio cue sink.
func WithAudioSink(sink AudioCueSink) SessionOption {
	return func(s *Session) { s.audio = sink }
}

// NewSession creates a session in the Intro phase.
func NewSession(config *SimulationConfig, opts ...SessionOption) *Session {
	s := &Session{
		feed:  config.GetFeedConfig(),
		mood:  config.GetMoodConfig(),
		trig:  config.GetTriggerConfig(),
		feel:  config.GetFeelConfig(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
		audio: NoopAudioSink{},
		sched: NewScheduler(),
		state: &SessionState{
			Phase:            PhaseIntro,
			AccountHandle:    DefaultHandle,
			EstimatedSeconds: EstimatedTimeChoices[1],
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetChangeListener registers the callback invoked with a state snapshot
// after every mutation. The rendering layer adapter subscribes here.
func (s *Session) SetChangeListener(fn func(*SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// mutate runs fn as one atomic mutation and publishes the resulting
// snapshot to the change listener outside the lock.
func (s *Session) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.cloneStateLocked()
	listener := s.onChange
	s.mu.Unlock()
	if listener != nil {
		listener(snap)
	}
}

// sanitizeHandle strips a leading '@' and whitespace; empty input falls back
// to the default placeholder.
func sanitizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	handle = strings.TrimPrefix(handle, "@")
	handle = strings.ReplaceAll(handle, " ", "_")
	if handle == "" {
		return DefaultHandle
	}
	return handle
}

// SetAccountHandle records the user-supplied account handle.
func (s *Session) SetAccountHandle(handle string) {
	s.mutate(func() {
		s.state.AccountHandle = sanitizeHandle(handle)
	})
}

// SetEstimatedTime records the user's self-estimate of how long they will
// stay, one of the fixed choices. Invalid values fall back to 60.
func (s *Session) SetEstimatedTime(seconds int) {
	s.mutate(func() {
		for _, choice := range EstimatedTimeChoices {
			if seconds == choice {
				s.state.EstimatedSeconds = seconds
				return
			}
		}
		s.state.EstimatedSeconds = EstimatedTimeChoices[1]
	})
}

// StartSession transitions Intro -> Playing: builds the fresh session
// aggregate, seeds the feed, and arms every trigger process.
func (s *Session) StartSession() {
	s.mutate(func() {
		if s.state.Phase == PhasePlaying {
			return
		}
		handle := s.state.AccountHandle
		estimate := s.state.EstimatedSeconds
		s.state = newSessionState(handle, estimate)
		s.interest = NewInterestModel()
		s.generator = NewFeedGenerator(s.rng, s.feed, s.feel, s.interest)
		s.reveal = nil
		s.startedAt = s.now()

		s.state.FeedItems = s.generator.InitialBatch()
		s.state.Stories = append([]Story(nil), storyCatalog...)
		s.state.DMInbox = cloneThreads(seededDMThreads)
		s.state.FriendRequestsPending = append([]FriendRequestProfile(nil), friendRequestCatalog...)

		s.sched.Start()
		s.scheduleMoodTickLocked()
		s.scheduleLikeSpikeLocked()
		s.scheduleTypingLocked()
		s.scheduleNotificationLocked()
		s.scheduleFriendRequestLocked()
	})
}

// EndSession transitions Playing -> Reveal: cancels every trigger,
// freezes the elapsed time, evaluates the achievement flags, and computes
// the reveal report exactly once.
func (s *Session) EndSession() {
	s.sched.StopAll()
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		s.refreshElapsedLocked()
		s.state.Phase = PhaseReveal
		s.state.Flags.ExitedOnTime = s.state.ElapsedSeconds <= s.state.EstimatedSeconds
		s.state.BlockingModalKind = ModalNone
		s.state.ActiveNotificationPopup = nil
		s.state.ActiveTypingUser = ""
		s.state.ActiveFriendRequest = nil
		s.state.ActiveStory = nil
		s.reveal = buildRevealReport(s.state, s.interest)
	})
}

// ResetToIntro discards the session aggregate and returns to Intro. The
// chosen handle and time estimate survive for convenience; nothing else does.
func (s *Session) ResetToIntro() {
	s.sched.StopAll()
	s.mutate(func() {
		handle := s.state.AccountHandle
		estimate := s.state.EstimatedSeconds
		s.state = &SessionState{
			Phase:            PhaseIntro,
			AccountHandle:    handle,
			EstimatedSeconds: estimate,
		}
		s.interest = nil
		s.generator = nil
		s.reveal = nil
	})
}

// Snapshot returns a deep copy of the current session state.
func (s *Session) Snapshot() *SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshElapsedLocked()
	return s.cloneStateLocked()
}

// Reveal returns the reveal report, or nil before Reveal entry.
func (s *Session) Reveal() *RevealReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reveal
}

// refreshElapsedLocked recomputes the monotonic elapsed-seconds counter
// while Playing. Frozen once the phase leaves Playing.
func (s *Session) refreshElapsedLocked() {
	if s.state.Phase != PhasePlaying {
		return
	}
	elapsed := int(s.now().Sub(s.startedAt) / time.Second)
	if elapsed > s.state.ElapsedSeconds {
		s.state.ElapsedSeconds = elapsed
	}
}

// modalOpenLocked reports whether any blocking modal is open. This is the
// single mutual-exclusion rule: one non-none modal suppresses every
// modal-presenting and popup-presenting trigger.
func (s *Session) modalOpenLocked() bool {
	return s.state.BlockingModalKind != ModalNone
}

// --- Trigger processes -----------------------------------------------------

func (s *Session) scheduleMoodTickLocked() {
	s.sched.After(tagMoodTick, time.Duration(s.mood.TickMs)*time.Millisecond, s.fireMoodTick)
}

// fireMoodTick appends the current mood to the history and decays it toward
// the tick floor. Runs regardless of modal state.
func (s *Session) fireMoodTick() {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		s.refreshElapsedLocked()
		s.state.pushMoodSample(s.mood.HistoryCap)
		s.state.bumpMood(-s.mood.DecayPerTick, s.mood.TickFloor, s.mood.Ceiling)
		s.scheduleMoodTickLocked()
	})
}

func (s *Session) scheduleLikeSpikeLocked() {
	delay := randDelayMs(s.rng, s.trig.LikeSpikeMinMs, s.trig.LikeSpikeMaxMs)
	s.sched.After(tagLikeSpike, delay, s.fireLikeSpike)
}

// fireLikeSpike delivers an intermittent like reward. The interval is
// re-randomized after every fire; a fixed period would kill the mechanic.
// Runs regardless of modal state.
func (s *Session) fireLikeSpike() {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		if s.rng.Float64() < s.trig.LikeSpikeProbability {
			likes := s.trig.LikeSpikeLikesMin + s.rng.Intn(s.trig.LikeSpikeLikesMax-s.trig.LikeSpikeLikesMin+1)
			s.state.Counters.LikesReceived += likes
			s.state.bumpMood(s.mood.LikeSpikeBoost, 0, s.mood.Ceiling)
			s.state.Counters.DopamineSpikeCount++
			playCue(s.audio, CueLikeSpike)
		}
		s.scheduleLikeSpikeLocked()
	})
}

func (s *Session) scheduleTypingLocked() {
	s.sched.After(tagTyping, time.Duration(s.trig.TypingPeriodMs)*time.Millisecond, s.fireTypingTick)
}

// fireTypingTick sometimes shows a fake "someone is typing..." indicator.
// Gated by the modal check at fire time.
func (s *Session) fireTypingTick() {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		if !s.modalOpenLocked() && s.rng.Float64() < s.trig.TypingProbability {
			s.state.ActiveTypingUser = s.pickTypingPersonaLocked()
			s.state.Counters.TypingIndicatorShownCount++
			clear := randDelayMs(s.rng, s.trig.TypingClearMinMs, s.trig.TypingClearMaxMs)
			s.sched.After(tagTypingClear, clear, s.fireTypingClear)
		}
		s.scheduleTypingLocked()
	})
}

// pickTypingPersonaLocked borrows a feed author most of the time so the
// indicator looks like someone the user has "met".
func (s *Session) pickTypingPersonaLocked() string {
	if len(s.state.FeedItems) > 0 && s.rng.Float64() < s.feel.TypingKnownUserBias {
		return s.state.FeedItems[s.rng.Intn(len(s.state.FeedItems))].Author
	}
	return typingPersonas[s.rng.Intn(len(typingPersonas))]
}

func (s *Session) fireTypingClear() {
	s.mutate(func() {
		s.state.ActiveTypingUser = ""
	})
}

func (s *Session) scheduleNotificationLocked() {
	delay := randDelayMs(s.rng, s.trig.NotificationMinMs, s.trig.NotificationMaxMs)
	s.sched.After(tagNotification, delay, s.fireNotificationTick)
}

// fireNotificationTick emits a notification popup from the template catalog.
// Rare templates appear at most once per session. Gated by the modal check
// at fire time; always reschedules itself with a fresh random delay.
func (s *Session) fireNotificationTick() {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		if !s.modalOpenLocked() && s.rng.Float64() < s.trig.NotificationProb {
			tpl := pickNotificationTemplate(s.rng, s.state.shownRareTemplates, s.feel.EmptyNotificationBias)
			if tpl != nil {
				if tpl.Rare {
					s.state.shownRareTemplates[tpl.Key] = true
					s.state.Flags.RareEventAlreadyShown = true
				}
				n := Notification{
					ID:         uuid.NewString(),
					Timestamp:  s.now(),
					Text:       tpl.Text,
					HasContent: tpl.HasContent,
					MoodDelta:  tpl.MoodDelta,
					Action:     tpl.Action,
					Rare:       tpl.Rare,
				}
				s.state.ActiveNotificationPopup = &n
				s.state.prependNotification(n, s.trig.NotificationLogCap)
				playCue(s.audio, CueNotification)
				s.sched.After(tagNotificationHide, time.Duration(s.trig.NotificationHideMs)*time.Millisecond, s.fireNotificationHide)
			}
		}
		s.scheduleNotificationLocked()
	})
}

func (s *Session) fireNotificationHide() {
	s.mutate(func() {
		s.state.ActiveNotificationPopup = nil
	})
}

func (s *Session) scheduleFriendRequestLocked() {
	delay := randDelayMs(s.rng, s.trig.FriendRequestMinMs, s.trig.FriendRequestMaxMs)
	s.sched.After(tagFriendRequest, delay, s.fireFriendRequest)
}

// fireFriendRequest presents a pending friend request as a blocking modal,
// prioritizing suspicious profiles. One-shot: it never reschedules, and it
// fires at most once per Playing session even when suppressed by a modal.
func (s *Session) fireFriendRequest() {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying || s.state.friendRequestShown {
			return
		}
		s.state.friendRequestShown = true
		if s.modalOpenLocked() {
			return
		}
		var pick *FriendRequestProfile
		for i := range s.state.FriendRequestsPending {
			req := &s.state.FriendRequestsPending[i]
			if s.state.isAccepted(req.ID) {
				continue
			}
			if req.Suspicious {
				pick = req
				break
			}
			if pick == nil {
				pick = req
			}
		}
		if pick == nil {
			return
		}
		reqCopy := *pick
		s.state.ActiveFriendRequest = &reqCopy
		s.state.BlockingModalKind = ModalFriendRequest
	})
}

func (s *Session) scheduleStoryAdvanceLocked() {
	s.sched.After(tagStoryAdvance, time.Duration(s.trig.StoryAdvanceMs)*time.Millisecond, s.fireStoryAdvance)
}

// fireStoryAdvance moves the open story to its next frame, closing the
// viewer after the last one.
func (s *Session) fireStoryAdvance() {
	s.mutate(func() {
		s.advanceStoryLocked()
	})
}

func (s *Session) advanceStoryLocked() {
	if s.state.Phase != PhasePlaying || s.state.ActiveStory == nil {
		return
	}
	var story *Story
	for i := range s.state.Stories {
		if s.state.Stories[i].ID == s.state.ActiveStory.StoryID {
			story = &s.state.Stories[i]
			break
		}
	}
	if story == nil || s.state.ActiveStory.FrameIndex+1 >= len(story.Frames) {
		s.state.ActiveStory = nil
		if s.state.BlockingModalKind == ModalStory {
			s.state.BlockingModalKind = ModalNone
		}
		s.sched.Cancel(tagStoryAdvance)
		return
	}
	s.state.ActiveStory.FrameIndex++
	s.scheduleStoryAdvanceLocked()
}

// --- User intents ----------------------------------------------------------

// ReportScroll records scroll movement and triggers pagination when the
// remaining distance crosses the threshold. Loads debounce: a batch already
// in flight makes further requests no-ops until it lands.
func (s *Session) ReportScroll(scrollTop, scrollHeight, viewportHeight int) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		if delta := scrollTop - s.state.lastScrollTop; delta > 0 {
			s.state.Counters.ScrollDistance += delta
		}
		s.state.lastScrollTop = scrollTop
		if s.generator.ShouldLoadMore(scrollTop, scrollHeight, viewportHeight) && s.generator.BeginLoad() {
			s.sched.After(tagFeedLoad, time.Duration(s.feed.LoadLatencyMs)*time.Millisecond, s.fireFeedLoadComplete)
		}
	})
}

// fireFeedLoadComplete appends the next batch once the modeled latency
// elapses.
func (s *Session) fireFeedLoadComplete() {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		batch := s.generator.NextBatch(len(s.state.FeedItems))
		s.state.FeedItems = append(s.state.FeedItems, batch...)
		s.generator.FinishLoad()
	})
}

// Like marks an item liked and teaches the interest model. Liking an
// already-liked item is a no-op.
func (s *Session) Like(itemID int) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying || s.state.LikedItemIDs[itemID] {
			return
		}
		item := s.state.findItem(itemID)
		if item == nil {
			return
		}
		s.state.LikedItemIDs[itemID] = true
		s.interest.RecordPositiveSignal(item.Category, signalMagnitudeLike)
		s.state.InterestWeights = s.interest.WeightsCopy()
	})
}

// Unlike removes a like. Unliking an unliked item is a no-op; the interest
// weight it taught stays (weights never decrease).
func (s *Session) Unlike(itemID int) {
	s.mutate(func() {
		delete(s.state.LikedItemIDs, itemID)
	})
}

// Save bookmarks an item.
func (s *Session) Save(itemID int) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying || s.state.findItem(itemID) == nil {
			return
		}
		s.state.SavedItemIDs[itemID] = true
	})
}

// Unsave removes a bookmark.
func (s *Session) Unsave(itemID int) {
	s.mutate(func() {
		delete(s.state.SavedItemIDs, itemID)
	})
}

// ViewReel records a reel play and teaches the interest model.
func (s *Session) ViewReel(itemID int) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		item := s.state.findItem(itemID)
		if item == nil || item.Kind != FeedKindReel {
			return
		}
		s.state.Counters.ReelsWatched++
		s.interest.RecordPositiveSignal(item.Category, signalMagnitudeLike)
		s.state.InterestWeights = s.interest.WeightsCopy()
	})
}

// OpenComments opens the comments modal for an item.
func (s *Session) OpenComments(itemID int) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying || s.state.findItem(itemID) == nil {
			return
		}
		s.state.BlockingModalKind = ModalComments
	})
}

// OpenProfile opens an author profile modal and counts the visit.
func (s *Session) OpenProfile(itemID int) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		s.state.Counters.ProfileVisits++
		s.state.BlockingModalKind = ModalProfile
	})
}

// ShareItem records a share. Sharing a clickbait item counts against the
// manipulation score.
func (s *Session) ShareItem(itemID int) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		item := s.state.findItem(itemID)
		if item == nil {
			return
		}
		if item.Kind == FeedKindClickbait {
			s.state.Counters.SharedClickbaitCount++
		}
	})
}

// ClickAd records an ad click.
func (s *Session) ClickAd(itemID int) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		item := s.state.findItem(itemID)
		if item == nil || item.Kind != FeedKindAd {
			return
		}
		s.state.Counters.AdsClicked++
	})
}

// OpenNotificationsInbox opens the notification inbox modal and dismisses
// any active popup.
func (s *Session) OpenNotificationsInbox() {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		s.state.ActiveNotificationPopup = nil
		s.sched.Cancel(tagNotificationHide)
		s.state.BlockingModalKind = ModalNotifications
	})
}

// ClickNotification handles a click on a logged notification or the active
// popup. Empty notifications are the trap: the click is counted, mood
// drops, and the "ignored empty notifications" achievement is lost.
func (s *Session) ClickNotification(notificationID string) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		var n *Notification
		for i := range s.state.NotificationLog {
			if s.state.NotificationLog[i].ID == notificationID {
				n = &s.state.NotificationLog[i]
				break
			}
		}
		if n == nil {
			return
		}
		if s.state.ActiveNotificationPopup != nil && s.state.ActiveNotificationPopup.ID == notificationID {
			s.state.ActiveNotificationPopup = nil
			s.sched.Cancel(tagNotificationHide)
		}
		if !n.HasContent {
			s.state.Counters.EmptyNotificationClicks++
			s.state.Flags.IgnoredEmptyNotifications = false
			s.state.bumpMood(-s.mood.EmptyNotificationPenalty, 0, s.mood.Ceiling)
			return
		}
		s.state.Counters.NotificationClicks++
		s.state.bumpMood(n.MoodDelta, 0, s.mood.Ceiling)
		switch n.Action {
		case ActionOpenDM:
			if len(s.state.DMInbox) > 0 {
				s.state.OpenDMThreadID = s.state.DMInbox[0].ID
				s.state.BlockingModalKind = ModalDM
			}
		case ActionOpenFriendRequest:
			s.presentPendingFriendRequestLocked()
		}
	})
}

// presentPendingFriendRequestLocked shows the first pending request as a
// modal, suspicious ones first. Unlike the one-shot trigger this path can
// run any number of times.
func (s *Session) presentPendingFriendRequestLocked() {
	for i := range s.state.FriendRequestsPending {
		req := s.state.FriendRequestsPending[i]
		if req.Suspicious {
			s.state.ActiveFriendRequest = &req
			s.state.BlockingModalKind = ModalFriendRequest
			return
		}
	}
	if len(s.state.FriendRequestsPending) > 0 {
		req := s.state.FriendRequestsPending[0]
		s.state.ActiveFriendRequest = &req
		s.state.BlockingModalKind = ModalFriendRequest
	}
}

// OpenDMInbox opens the DM inbox modal.
func (s *Session) OpenDMInbox() {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		s.state.BlockingModalKind = ModalDMInbox
	})
}

// OpenDM opens a DM thread.
func (s *Session) OpenDM(threadID string) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying || s.state.findThreadByID(threadID) < 0 {
			return
		}
		s.state.OpenDMThreadID = threadID
		s.state.BlockingModalKind = ModalDM
	})
}

// ViewStory opens the story viewer and starts the auto-advance ticker.
func (s *Session) ViewStory(storyID string) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		for i := range s.state.Stories {
			if s.state.Stories[i].ID == storyID {
				s.state.Counters.StoriesWatched++
				s.state.ActiveStory = &ActiveStory{StoryID: storyID}
				s.state.BlockingModalKind = ModalStory
				s.scheduleStoryAdvanceLocked()
				return
			}
		}
	})
}

// AdvanceStoryAutomatically advances the open story one frame, exactly as
// the auto-advance ticker would.
func (s *Session) AdvanceStoryAutomatically() {
	s.mutate(func() {
		s.advanceStoryLocked()
	})
}

// ClickStoryPoll records a vote in the open story's poll.
func (s *Session) ClickStoryPoll() {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying || s.state.ActiveStory == nil {
			return
		}
		s.state.Counters.StoryPollClicks++
		s.state.bumpMood(s.mood.StoryPollBoost, 0, s.mood.Ceiling)
	})
}

// CloseModal closes whatever blocking modal is open, clearing the transient
// fields the modal owned.
func (s *Session) CloseModal() {
	s.mutate(func() {
		switch s.state.BlockingModalKind {
		case ModalStory:
			s.state.ActiveStory = nil
			s.sched.Cancel(tagStoryAdvance)
		case ModalFriendRequest:
			s.state.ActiveFriendRequest = nil
		case ModalDM:
			s.state.OpenDMThreadID = ""
		}
		s.state.BlockingModalKind = ModalNone
	})
}

// --- Snapshot --------------------------------------------------------------

// cloneStateLocked deep-copies the session state for publication.
func (s *Session) cloneStateLocked() *SessionState {
	st := *s.state
	st.MoodHistory = append([]int(nil), s.state.MoodHistory...)
	st.FeedItems = append([]FeedItem(nil), s.state.FeedItems...)
	st.NotificationLog = append([]Notification(nil), s.state.NotificationLog...)
	st.FriendRequestsPending = append([]FriendRequestProfile(nil), s.state.FriendRequestsPending...)
	st.FriendRequestsAccepted = append([]FriendRequestProfile(nil), s.state.FriendRequestsAccepted...)
	st.DMInbox = cloneThreads(s.state.DMInbox)
	st.Stories = append([]Story(nil), s.state.Stories...)
	st.LikedItemIDs = cloneIDSet(s.state.LikedItemIDs)
	st.SavedItemIDs = cloneIDSet(s.state.SavedItemIDs)
	st.InterestWeights = cloneWeights(s.state.InterestWeights)
	if s.state.ActiveStory != nil {
		a := *s.state.ActiveStory
		st.ActiveStory = &a
	}
	if s.state.ActiveNotificationPopup != nil {
		n := *s.state.ActiveNotificationPopup
		st.ActiveNotificationPopup = &n
	}
	if s.state.ActiveFriendRequest != nil {
		r := *s.state.ActiveFriendRequest
		st.ActiveFriendRequest = &r
	}
	st.shownRareTemplates = nil
	return &st
}

func cloneThreads(threads []DMThread) []DMThread {
	out := make([]DMThread, len(threads))
	for i, t := range threads {
		out[i] = t
		out[i].Messages = append([]DMMessage(nil), t.Messages...)
	}
	return out
}

func cloneIDSet(set map[int]bool) map[int]bool {
	if set == nil {
		return nil
	}
	out := make(map[int]bool, len(set))
	for k, v := range set {
		out[k] = v
	}
	return out
}

func cloneWeights(weights map[Category]int) map[Category]int {
	if weights == nil {
		return nil
	}
	out := make(map[Category]int, len(weights))
	for k, v := range weights {
		out[k] = v
	}
	return out
}
