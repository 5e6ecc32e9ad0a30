// Package scrolltrap computes the reveal-time scoring and narrative.
//
// This file reduces the accumulated session record into a bounded
// manipulation score, achievement badges, and the fixed-order trigger
// narrative. The score is a sum of independently capped terms so that no
// single behavior can saturate it: it is a lower bound on demonstrated
// susceptibility, not a probability.
package scrolltrap

import "fmt"

// Score term weights and caps. Each term clamps before summation; the total
// clamps to [0, 100].
const (
	scoreMax = 100

	notificationClickWeight = 3
	notificationClickCap    = 15
	emptyClickWeight        = 9
	emptyClickCap           = 28
	elapsedDivisor          = 15
	elapsedWeight           = 2
	elapsedCap              = 20
	scrollDivisor           = 650
	scrollWeight            = 2
	scrollCap               = 15
	suspiciousWeight        = 14
	suspiciousCap           = 30
	clickbaitWeight         = 12
	clickbaitCap            = 24
	adClickWeight           = 8
	adClickCap              = 20
	profileVisitWeight      = 2
	profileVisitCap         = 10
	storyPollWeight         = 2
	storyPollCap            = 10
)

// Badge is an achievement evaluated once at Reveal.
type Badge struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Earned bool   `json:"earned"`
}

// TriggerNarrative pairs one manipulation trigger with the statistic the
// session produced for it.
type TriggerNarrative struct {
	Trigger string `json:"trigger"`
	Stat    string `json:"stat"`
}

// CertificateData is the flat snapshot handed to the external certificate
// renderer. The core does not render images.
type CertificateData struct {
	Handle           string   `json:"handle"`
	Score            int      `json:"score"`
	ElapsedSeconds   int      `json:"elapsed_seconds"`
	EstimatedSeconds int      `json:"estimated_seconds"`
	Badges           []string `json:"badges"`
}

// RevealReport is the Scoring & Narrative Engine's full output, computed
// once at Reveal entry.
type RevealReport struct {
	Score       int                `json:"score"`
	TimeRatio   float64            `json:"time_ratio"`
	Badges      []Badge            `json:"badges"`
	Narrative   []TriggerNarrative `json:"narrative"`
	Certificate CertificateData    `json:"certificate"`
}

// cappedTerm multiplies count by weight and clamps the product to limit.
func cappedTerm(count, weight, limit int) int {
	v := count * weight
	if v > limit {
		return limit
	}
	if v < 0 {
		return 0
	}
	return v
}

// ComputeManipulationScore reduces the session record to a score in
// [0, 100]. Monotonically non-decreasing in every individual counter.
func ComputeManipulationScore(state *SessionState) int {
	c := state.Counters
	score := 0
	score += cappedTerm(c.NotificationClicks, notificationClickWeight, notificationClickCap)
	score += cappedTerm(c.EmptyNotificationClicks, emptyClickWeight, emptyClickCap)
	score += cappedTerm(state.ElapsedSeconds/elapsedDivisor, elapsedWeight, elapsedCap)
	score += cappedTerm(c.ScrollDistance/scrollDivisor, scrollWeight, scrollCap)
	score += cappedTerm(suspiciousAcceptedCount(state), suspiciousWeight, suspiciousCap)
	score += cappedTerm(c.SharedClickbaitCount, clickbaitWeight, clickbaitCap)
	score += cappedTerm(c.AdsClicked, adClickWeight, adClickCap)
	score += cappedTerm(c.ProfileVisits, profileVisitWeight, profileVisitCap)
	score += cappedTerm(c.StoryPollClicks, storyPollWeight, storyPollCap)
	if score > scoreMax {
		score = scoreMax
	}
	if score < 0 {
		score = 0
	}
	return score
}

// suspiciousAcceptedCount counts accepted requests flagged suspicious.
func suspiciousAcceptedCount(state *SessionState) int {
	n := 0
	for i := range state.FriendRequestsAccepted {
		if state.FriendRequestsAccepted[i].Suspicious {
			n++
		}
	}
	return n
}

// BuildNarrative produces the fixed-order, exhaustive trigger list. Every
// trigger appears even when its statistic is zero.
func BuildNarrative(state *SessionState, interest *InterestModel) []TriggerNarrative {
	c := state.Counters

	topCategory := DefaultCategory
	topShare := 0.0
	if interest != nil {
		topCategory = interest.TopCategory()
		topShare = interest.ShareOfTotal(topCategory)
	}

	adsSeen, clickbaitSeen, fomoSeen, reelsSeen := 0, 0, 0, 0
	for i := range state.FeedItems {
		switch state.FeedItems[i].Kind {
		case FeedKindAd:
			adsSeen++
		case FeedKindClickbait:
			clickbaitSeen++
		case FeedKindFomo:
			fomoSeen++
		case FeedKindReel:
			reelsSeen++
		}
	}

	return []TriggerNarrative{
		{
			Trigger: "feed personalization",
			Stat:    fmt.Sprintf("the feed learned you: %.0f%% of its weight sits on %q", topShare*100, topCategory),
		},
		{
			Trigger: "notifications",
			Stat:    fmt.Sprintf("%d notifications shown, %d clicked", len(state.NotificationLog), c.NotificationClicks+c.EmptyNotificationClicks),
		},
		{
			Trigger: "reels",
			Stat:    fmt.Sprintf("%d reels placed in your feed, %d watched", reelsSeen, c.ReelsWatched),
		},
		{
			Trigger: "typing indicator",
			Stat:    fmt.Sprintf("a fake \"typing...\" indicator appeared %d times — nobody was typing", c.TypingIndicatorShownCount),
		},
		{
			Trigger: "variable rewards",
			Stat:    fmt.Sprintf("%d unpredictable like bursts delivered %d likes", c.DopamineSpikeCount, c.LikesReceived),
		},
		{
			Trigger: "infinite scroll",
			Stat:    fmt.Sprintf("you scrolled %d px through %d items with no end in sight", c.ScrollDistance, len(state.FeedItems)),
		},
		{
			Trigger: "streak",
			Stat:    fmt.Sprintf("a %d-day streak you never started was already counting", state.Streak),
		},
		{
			Trigger: "stories",
			Stat:    fmt.Sprintf("%d stories watched, auto-advancing so you never had to decide", c.StoriesWatched),
		},
		{
			Trigger: "FOMO",
			Stat:    fmt.Sprintf("%d items claimed your friends had already interacted", fomoSeen),
		},
		{
			Trigger: "disguised ads",
			Stat:    fmt.Sprintf("%d ads blended into the feed, %d clicked", adsSeen, c.AdsClicked),
		},
		{
			Trigger: "clickbait",
			Stat:    fmt.Sprintf("%d fake viral items shown, %d shared onward", clickbaitSeen, c.SharedClickbaitCount),
		},
		{
			Trigger: "suspicious requests",
			Stat:    fmt.Sprintf("%d suspicious profiles accepted out of %d requests", suspiciousAcceptedCount(state), len(state.FriendRequestsAccepted)+len(state.FriendRequestsPending)),
		},
	}
}

// BuildBadges evaluates the three independent achievement badges.
func BuildBadges(state *SessionState) []Badge {
	return []Badge{
		{Key: "exited_on_time", Label: "Exited on or before your estimate", Earned: state.Flags.ExitedOnTime},
		{Key: "ignored_empty", Label: "Never clicked an empty notification", Earned: state.Flags.IgnoredEmptyNotifications},
		{Key: "refused_suspicious", Label: "Never accepted a suspicious request", Earned: state.Flags.RefusedAllSuspiciousRequests},
	}
}

// buildRevealReport assembles the complete reveal output.
func buildRevealReport(state *SessionState, interest *InterestModel) *RevealReport {
	score := ComputeManipulationScore(state)
	badges := BuildBadges(state)

	earned := make([]string, 0, len(badges))
	for _, b := range badges {
		if b.Earned {
			earned = append(earned, b.Label)
		}
	}

	ratio := 0.0
	if state.EstimatedSeconds > 0 {
		ratio = float64(state.ElapsedSeconds) / float64(state.EstimatedSeconds)
	}

	return &RevealReport{
		Score:     score,
		TimeRatio: ratio,
		Badges:    badges,
		Narrative: BuildNarrative(state, interest),
		Certificate: CertificateData{
			Handle:           state.AccountHandle,
			Score:            score,
			ElapsedSeconds:   state.ElapsedSeconds,
			EstimatedSeconds: state.EstimatedSeconds,
			Badges:           earned,
		},
	}
}
