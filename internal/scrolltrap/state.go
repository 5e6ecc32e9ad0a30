// Package scrolltrap manages the in-memory state of a simulation session.
//
// This file defines the SessionState type and all data structures (FeedItem,
// Notification, DMThread, FriendRequestProfile, etc.) that represent one
// session of the feed simulation. SessionState is a single mutable aggregate
// owned exclusively by the Session state machine: nothing outside the Session
// mutates it, and every mutation happens as one atomic step under the
// Session's lock. All entities are created during the Playing phase and
// discarded when the session returns to Intro.
package scrolltrap

import "time"

// Phase is the session's top-level state.
type Phase string

// Session phases.
const (
	PhaseIntro   Phase = "intro"
	PhasePlaying Phase = "playing"
	PhaseReveal  Phase = "reveal"
)

// Category is a feed content category. Exactly six categories exist and the
// interest weight map always contains all of them.
type Category string

// Feed content categories.
const (
	CategoryPets    Category = "pets"
	CategoryFood    Category = "food"
	CategoryTravel  Category = "travel"
	CategoryFitness Category = "fitness"
	CategoryMemes   Category = "memes"
	CategoryTech    Category = "tech"
)

// AllCategories lists every known category in canonical order. Weighted
// sampling iterates in this order, so it must stay stable.
var AllCategories = []Category{
	CategoryPets, CategoryFood, CategoryTravel, CategoryFitness, CategoryMemes, CategoryTech,
}

// DefaultCategory is substituted whenever a requested category is unknown
// or the interest weights are malformed. Never an error.
const DefaultCategory = CategoryPets

// FeedKind tags the variant of a feed item.
type FeedKind string

// Feed item kinds.
const (
	FeedKindNormal    FeedKind = "normal"
	FeedKindAd        FeedKind = "ad"
	FeedKindReel      FeedKind = "reel"
	FeedKindClickbait FeedKind = "clickbait"
	FeedKindFomo      FeedKind = "fomo"
)

// ModalKind identifies which full-screen overlay is currently open.
// At most one blocking modal is open at a time; while any is open,
// background triggers that present modals or popups are suppressed.
type ModalKind string

// Blocking modal kinds. ModalNone means no modal is open.
const (
	ModalNone          ModalKind = ""
	ModalComments      ModalKind = "comments"
	ModalProfile       ModalKind = "profile"
	ModalFriendRequest ModalKind = "friend_request"
	ModalDM            ModalKind = "dm"
	ModalDMInbox       ModalKind = "dm_inbox"
	ModalNotifications ModalKind = "notifications"
	ModalStory         ModalKind = "story"
)

// NotificationAction is the optional action attached to a notification.
type NotificationAction string

// Notification actions.
const (
	ActionNone              NotificationAction = ""
	ActionOpenDM            NotificationAction = "open_dm"
	ActionOpenFriendRequest NotificationAction = "open_friend_request"
)

// Comment is a seeded comment attached to a feed item at creation.
type Comment struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// FeedItem represents one item in the feed. Immutable after creation except
// for the derived effective like count (base + 1 if liked), which is
// computed, never stored.
type FeedItem struct {
	ID          int       `json:"id"`
	Author      string    `json:"author"`
	Verified    bool      `json:"verified"`
	Category    Category  `json:"category"`
	Kind        FeedKind  `json:"kind"`
	ImageURL    string    `json:"image_url,omitempty"`
	Overlay     string    `json:"overlay,omitempty"`
	VideoID     string    `json:"video_id,omitempty"` // Set for reels instead of ImageURL
	Caption     string    `json:"caption"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Shares      int       `json:"shares,omitempty"`
	TimeLabel   string    `json:"time_label"`
	AdLabel     string    `json:"ad_label,omitempty"`      // "Sponsored" or the disguised "Suggested for you"
	Fake        bool      `json:"fake,omitempty"`          // Marks clickbait items
	FomoCaption string    `json:"fomo_caption,omitempty"`  // "N of your friends interacted"
	SeededComments []Comment `json:"seeded_comments,omitempty"`
}

// FriendRequestProfile represents a synthetic profile behind a friend
// request. Static catalog entry; never mutated, only referenced.
type FriendRequestProfile struct {
	ID            string   `json:"id"`
	Handle        string   `json:"handle"`
	Avatar        string   `json:"avatar"`
	Bio           string   `json:"bio"`
	Followers     int      `json:"followers"`
	Following     int      `json:"following"`
	Posts         int      `json:"posts"`
	MutualFriends int      `json:"mutual_friends"`
	Suspicious    bool     `json:"suspicious"`
	RiskFlags     []string `json:"risk_flags,omitempty"`
}

// DMMessage is one message inside a DM thread.
type DMMessage struct {
	Sender    string `json:"sender"` // "me" or "them"
	Text      string `json:"text"`
	TimeLabel string `json:"time_label"`
}

// DMThread represents a direct-message conversation. New threads may be
// synthesized at runtime by the escalation generator.
type DMThread struct {
	ID                   string      `json:"id"`
	Handle               string      `json:"handle"`
	Avatar               string      `json:"avatar"`
	Preview              string      `json:"preview"`
	Messages             []DMMessage `json:"messages"`
	Scam                 bool        `json:"scam,omitempty"`
	TeenSafetyEscalation bool        `json:"teen_safety_escalation,omitempty"`
	EscalationStep       int         `json:"-"` // Next index into the escalation question list
}

// Notification is one entry in the notification log.
type Notification struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Text       string             `json:"text"`
	HasContent bool               `json:"has_content"` // false marks an "empty" notification
	MoodDelta  int                `json:"mood_delta"`
	Action     NotificationAction `json:"action,omitempty"`
	Rare       bool               `json:"rare,omitempty"`
}

// Story is a story reel from a synthetic account.
type Story struct {
	ID          string   `json:"id"`
	Handle      string   `json:"handle"`
	Avatar      string   `json:"avatar"`
	Frames      []string `json:"frames"` // Image URLs
	PollText    string   `json:"poll_text,omitempty"`
	PollOptions []string `json:"poll_options,omitempty"`
}

// ActiveStory tracks which story frame is currently shown.
type ActiveStory struct {
	StoryID    string `json:"story_id"`
	FrameIndex int    `json:"frame_index"`
}

// Counters holds every named interaction counter. All values are
// non-negative and monotonically non-decreasing for the session.
type Counters struct {
	LikesReceived             int `json:"likes_received"`
	NotificationClicks        int `json:"notification_clicks"`
	EmptyNotificationClicks   int `json:"empty_notification_clicks"`
	ScrollDistance            int `json:"scroll_distance"`
	AdsClicked                int `json:"ads_clicked"`
	DMReplies                 int `json:"dm_replies"`
	ProfileVisits             int `json:"profile_visits"`
	StoriesWatched            int `json:"stories_watched"`
	ReelsWatched              int `json:"reels_watched"`
	SharedClickbaitCount      int `json:"shared_clickbait_count"`
	StoryPollClicks           int `json:"story_poll_clicks"`
	TypingIndicatorShownCount int `json:"typing_indicator_shown_count"`
	DopamineSpikeCount        int `json:"dopamine_spike_count"`
}

// Flags captures reveal-time achievement predicates.
type Flags struct {
	ExitedOnTime                 bool `json:"exited_on_time"`
	IgnoredEmptyNotifications    bool `json:"ignored_empty_notifications"`    // Starts true, flips on first empty-notification click
	RefusedAllSuspiciousRequests bool `json:"refused_all_suspicious_requests"` // Starts true, flips on first suspicious acceptance
	RareEventAlreadyShown        bool `json:"rare_event_already_shown"`
}

// SessionState is the single mutable aggregate for one simulation session.
// Created on entering Playing, discarded on returning to Intro.
type SessionState struct {
	Phase            Phase            `json:"phase"`
	AccountHandle    string           `json:"account_handle"`
	EstimatedSeconds int              `json:"estimated_seconds"`
	ElapsedSeconds   int              `json:"elapsed_seconds"`
	InterestWeights  map[Category]int `json:"interest_weights"`
	Mood             int              `json:"mood"`
	MoodHistory      []int            `json:"mood_history"`
	FeedItems        []FeedItem       `json:"feed_items"`
	LikedItemIDs     map[int]bool     `json:"liked_item_ids"`
	SavedItemIDs     map[int]bool     `json:"saved_item_ids"`
	Counters         Counters         `json:"counters"`
	Streak           int              `json:"streak"`
	NotificationLog  []Notification   `json:"notification_log"` // Newest first, capped

	FriendRequestsPending  []FriendRequestProfile `json:"friend_requests_pending"`
	FriendRequestsAccepted []FriendRequestProfile `json:"friend_requests_accepted"`
	DMInbox                []DMThread             `json:"dm_inbox"`
	Stories                []Story                `json:"stories"`

	// Transient "currently shown" fields, each owned by whichever subsystem
	// last set it and cleared by the consuming UI action.
	ActiveStory             *ActiveStory  `json:"active_story,omitempty"`
	ActiveNotificationPopup *Notification `json:"active_notification_popup,omitempty"`
	ActiveTypingUser        string        `json:"active_typing_user,omitempty"`
	ActiveFriendRequest     *FriendRequestProfile `json:"active_friend_request,omitempty"`
	BlockingModalKind       ModalKind     `json:"blocking_modal_kind"`
	OpenDMThreadID          string        `json:"open_dm_thread_id,omitempty"`

	Flags Flags `json:"flags"`

	lastScrollTop      int  // For deriving scroll distance deltas
	friendRequestShown bool // One-shot friend-request trigger already fired
	shownRareTemplates map[string]bool
}

// DefaultHandle is used when the user supplies no usable account handle.
const DefaultHandle = "you"

// EstimatedTimeChoices are the selectable session length estimates, seconds.
var EstimatedTimeChoices = []int{30, 60, 120, 300}

// newSessionState builds the initial Playing-phase state.
func newSessionState(handle string, estimatedSeconds int) *SessionState {
	weights := make(map[Category]int, len(AllCategories))
	for _, c := range AllCategories {
		weights[c] = 1
	}
	return &SessionState{
		Phase:            PhasePlaying,
		AccountHandle:    handle,
		EstimatedSeconds: estimatedSeconds,
		InterestWeights:  weights,
		Mood:             70,
		Streak:           3,
		LikedItemIDs:     make(map[int]bool),
		SavedItemIDs:     make(map[int]bool),
		Flags: Flags{
			IgnoredEmptyNotifications:    true,
			RefusedAllSuspiciousRequests: true,
		},
		shownRareTemplates: make(map[string]bool),
	}
}

// bumpMood adjusts mood by delta and clamps it into [floor, ceiling].
func (s *SessionState) bumpMood(delta, floor, ceiling int) {
	s.Mood += delta
	if s.Mood < floor {
		s.Mood = floor
	}
	if s.Mood > ceiling {
		s.Mood = ceiling
	}
}

// pushMoodSample appends the current mood to the history, dropping the
// oldest sample once the cap is reached.
func (s *SessionState) pushMoodSample(limit int) {
	s.MoodHistory = append(s.MoodHistory, s.Mood)
	if len(s.MoodHistory) > limit {
		s.MoodHistory = s.MoodHistory[len(s.MoodHistory)-limit:]
	}
}

// prependNotification inserts a notification at the head of the log and
// evicts the oldest entries beyond the cap (FIFO from the tail).
func (s *SessionState) prependNotification(n Notification, limit int) {
	s.NotificationLog = append([]Notification{n}, s.NotificationLog...)
	if len(s.NotificationLog) > limit {
		s.NotificationLog = s.NotificationLog[:limit]
	}
}

// findThreadByHandle returns the index of the DM thread with the given
// counterpart handle, or -1.
func (s *SessionState) findThreadByHandle(handle string) int {
	for i := range s.DMInbox {
		if s.DMInbox[i].Handle == handle {
			return i
		}
	}
	return -1
}

// findThreadByID returns the index of the DM thread with the given ID, or -1.
func (s *SessionState) findThreadByID(id string) int {
	for i := range s.DMInbox {
		if s.DMInbox[i].ID == id {
			return i
		}
	}
	return -1
}

// findItem returns the feed item with the given ID, or nil.
func (s *SessionState) findItem(id int) *FeedItem {
	for i := range s.FeedItems {
		if s.FeedItems[i].ID == id {
			return &s.FeedItems[i]
		}
	}
	return nil
}

// isAccepted reports whether a friend request was already accepted.
func (s *SessionState) isAccepted(requestID string) bool {
	for i := range s.FriendRequestsAccepted {
		if s.FriendRequestsAccepted[i].ID == requestID {
			return true
		}
	}
	return false
}

// removePending drops a request from the pending set by ID.
func (s *SessionState) removePending(requestID string) {
	for i := range s.FriendRequestsPending {
		if s.FriendRequestsPending[i].ID == requestID {
			s.FriendRequestsPending = append(s.FriendRequestsPending[:i], s.FriendRequestsPending[i+1:]...)
			return
		}
	}
}

// EffectiveLikes returns the displayed like count for an item: the seeded
// base count plus one when the user has liked it.
func (s *SessionState) EffectiveLikes(item *FeedItem) int {
	if item == nil {
		return 0
	}
	if s.LikedItemIDs[item.ID] {
		return item.Likes + 1
	}
	return item.Likes
}
