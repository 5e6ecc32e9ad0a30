// Package scrolltrap defines configuration structures and loading logic.
//
// This file contains all configuration types (SimulationConfig, FeedConfig,
// TriggerConfig, etc.) and functions to load configuration from files or
// embedded defaults. Configuration holds the tuned "feel" constants of the
// simulation: trigger timings, probabilities, mood dynamics, and feed
// composition. These values were tuned empirically for the teaching effect
// and are treated as configuration, not derived quantities.
package scrolltrap

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

//go:embed configs/*.json
var embeddedConfigs embed.FS

// SimulationConfig represents the full simulation configuration
type SimulationConfig struct {
	Feed     *FeedConfig     `json:"feed,omitempty"`
	Mood     *MoodConfig     `json:"mood,omitempty"`
	Triggers *TriggerConfig  `json:"triggers,omitempty"`
	Feel     *FeelConfig     `json:"feel,omitempty"`
}

// FeedConfig controls feed composition and pagination behavior
type FeedConfig struct {
	InitialBatchSize     int     `json:"initial_batch_size,omitempty"`     // Items in the seed batch (default: 8)
	PageSize             int     `json:"page_size,omitempty"`              // Items per paginated batch (default: 4)
	PageIDSeed           int     `json:"page_id_seed,omitempty"`           // First ID assigned to paginated items (default: 1000)
	AdEvery              int     `json:"ad_every,omitempty"`               // Ad slot modulus (default: 7)
	ReelProbability      float64 `json:"reel_probability,omitempty"`       // Chance a slot becomes a reel (default: 0.30)
	ClickbaitProbability float64 `json:"clickbait_probability,omitempty"`  // Chance a memes slot becomes clickbait (default: 0.25)
	FomoProbability      float64 `json:"fomo_probability,omitempty"`       // Chance a slot gets a FOMO caption (default: 0.28)
	FomoFriendsMin       int     `json:"fomo_friends_min,omitempty"`       // Min N in "N of your friends interacted" (default: 10)
	FomoFriendsMax       int     `json:"fomo_friends_max,omitempty"`       // Max N, exclusive (default: 40)
	VerifiedProbability  float64 `json:"verified_probability,omitempty"`   // Chance a non-ad author is verified (default: 0.16)
	ScrollThresholdPx    int     `json:"scroll_threshold_px,omitempty"`    // Remaining distance that triggers pagination (default: 420)
	LoadLatencyMs        int     `json:"load_latency_ms,omitempty"`        // Modeled network latency before a batch lands (default: 900)
}

// MoodConfig controls the mood meter dynamics
type MoodConfig struct {
	TickMs                   int `json:"tick_ms,omitempty"`                    // Mood ticker period (default: 2000)
	HistoryCap               int `json:"history_cap,omitempty"`                // Mood history samples kept for charting (default: 45)
	TickFloor                int `json:"tick_floor,omitempty"`                 // Floor applied by decay ticking (default: 15)
	Ceiling                  int `json:"ceiling,omitempty"`                    // Hard ceiling (default: 100)
	DecayPerTick             int `json:"decay_per_tick,omitempty"`             // Mood lost per tick (default: 1)
	EmptyNotificationPenalty int `json:"empty_notification_penalty,omitempty"` // Mood lost on an empty-notification click (default: 8)
	FriendAcceptBoost        int `json:"friend_accept_boost,omitempty"`        // Mood gained accepting a non-suspicious request (default: 6)
	LikeSpikeBoost           int `json:"like_spike_boost,omitempty"`           // Mood gained per like spike (default: 3)
	StoryPollBoost           int `json:"story_poll_boost,omitempty"`           // Mood gained voting in a story poll (default: 2)
}

// TriggerConfig controls the engagement scheduler's timer windows.
// All durations are milliseconds; Min/Max pairs are half-open intervals.
type TriggerConfig struct {
	LikeSpikeMinMs        int     `json:"like_spike_min_ms,omitempty"`       // default: 5200
	LikeSpikeMaxMs        int     `json:"like_spike_max_ms,omitempty"`       // default: 7700
	LikeSpikeProbability  float64 `json:"like_spike_probability,omitempty"`  // default: 0.45
	LikeSpikeLikesMin     int     `json:"like_spike_likes_min,omitempty"`    // default: 1
	LikeSpikeLikesMax     int     `json:"like_spike_likes_max,omitempty"`    // default: 4 (inclusive)
	TypingPeriodMs        int     `json:"typing_period_ms,omitempty"`        // default: 11000
	TypingProbability     float64 `json:"typing_probability,omitempty"`      // default: 0.35
	TypingClearMinMs      int     `json:"typing_clear_min_ms,omitempty"`     // default: 2200
	TypingClearMaxMs      int     `json:"typing_clear_max_ms,omitempty"`     // default: 3800
	NotificationMinMs     int     `json:"notification_min_ms,omitempty"`     // default: 6000
	NotificationMaxMs     int     `json:"notification_max_ms,omitempty"`     // default: 10500
	NotificationProb      float64 `json:"notification_probability,omitempty"` // default: 0.55
	NotificationHideMs    int     `json:"notification_hide_ms,omitempty"`    // default: 4200
	NotificationLogCap    int     `json:"notification_log_cap,omitempty"`    // default: 40
	FriendRequestMinMs    int     `json:"friend_request_min_ms,omitempty"`   // default: 14000
	FriendRequestMaxMs    int     `json:"friend_request_max_ms,omitempty"`   // default: 21000
	StoryAdvanceMs        int     `json:"story_advance_ms,omitempty"`        // default: 5000
	EscalationOpenDelayMs int     `json:"escalation_open_delay_ms,omitempty"` // default: 2200
	DMFollowUpDelayMs     int     `json:"dm_follow_up_delay_ms,omitempty"`   // default: 2600
}

// FeelConfig holds empirically tuned probabilities with no documented
// derivation. Preserve the values; do not re-derive them.
type FeelConfig struct {
	EmptyNotificationBias float64 `json:"empty_notification_bias,omitempty"` // Chance the ticker draws an empty template (default: 0.65)
	OverlayProbability    float64 `json:"overlay_probability,omitempty"`     // Chance a standard post carries overlay text (default: 0.72)
	AdDisguiseProbability float64 `json:"ad_disguise_probability,omitempty"` // Chance an ad is labeled "Suggested for you" (default: 0.75)
	StoryPollProbability  float64 `json:"story_poll_probability,omitempty"`  // Chance a story frame carries a poll (default: 0.7)
	TypingKnownUserBias   float64 `json:"typing_known_user_bias,omitempty"`  // Chance the typing persona is a feed author (default: 0.84)
}

// LoadSimulationConfig loads the simulation configuration
// First tries to load from ~/.scrolltrap/config.json (user config)
// If that doesn't exist, loads the embedded default config
func LoadSimulationConfig() (*SimulationConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".scrolltrap", "config.json")

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read simulation config: %w", err)
		}

		var config SimulationConfig
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse simulation config: %w", err)
		}
		if err := validateConfig(&config); err != nil {
			return nil, fmt.Errorf("invalid simulation config: %w", err)
		}

		log.Printf("Loaded simulation configuration from %s", configPath)
		return &config, nil
	}

	return LoadDefaultSimulationConfig()
}

// LoadDefaultSimulationConfig loads the embedded default configuration
func LoadDefaultSimulationConfig() (*SimulationConfig, error) {
	data, err := embeddedConfigs.ReadFile("configs/default.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded default config: %w", err)
	}

	var config SimulationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse embedded default config: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values
func validateConfig(config *SimulationConfig) error {
	if config.Feed != nil {
		if config.Feed.PageSize < 0 {
			return fmt.Errorf("feed.page_size must be >= 0")
		}
		if config.Feed.AdEvery < 0 {
			return fmt.Errorf("feed.ad_every must be >= 0")
		}
		for name, p := range map[string]float64{
			"feed.reel_probability":      config.Feed.ReelProbability,
			"feed.clickbait_probability": config.Feed.ClickbaitProbability,
			"feed.fomo_probability":      config.Feed.FomoProbability,
			"feed.verified_probability":  config.Feed.VerifiedProbability,
		} {
			if p < 0 || p > 1 {
				return fmt.Errorf("%s must be between 0 and 1", name)
			}
		}
	}
	if config.Mood != nil {
		if config.Mood.Ceiling != 0 && config.Mood.TickFloor > config.Mood.Ceiling {
			return fmt.Errorf("mood.tick_floor must be <= mood.ceiling")
		}
	}
	if config.Triggers != nil {
		if config.Triggers.LikeSpikeMaxMs != 0 && config.Triggers.LikeSpikeMinMs > config.Triggers.LikeSpikeMaxMs {
			return fmt.Errorf("triggers.like_spike_min_ms must be <= triggers.like_spike_max_ms")
		}
		if config.Triggers.NotificationMaxMs != 0 && config.Triggers.NotificationMinMs > config.Triggers.NotificationMaxMs {
			return fmt.Errorf("triggers.notification_min_ms must be <= triggers.notification_max_ms")
		}
		if config.Triggers.FriendRequestMaxMs != 0 && config.Triggers.FriendRequestMinMs > config.Triggers.FriendRequestMaxMs {
			return fmt.Errorf("triggers.friend_request_min_ms must be <= triggers.friend_request_max_ms")
		}
	}
	return nil
}

// GetFeedConfig returns the feed configuration with defaults applied
func (c *SimulationConfig) GetFeedConfig() *FeedConfig {
	feed := &FeedConfig{}
	if c != nil && c.Feed != nil {
		*feed = *c.Feed
	}
	if feed.InitialBatchSize == 0 {
		feed.InitialBatchSize = 8
	}
	if feed.PageSize == 0 {
		feed.PageSize = 4
	}
	if feed.PageIDSeed == 0 {
		feed.PageIDSeed = 1000
	}
	if feed.AdEvery == 0 {
		feed.AdEvery = 7
	}
	if feed.ReelProbability == 0 {
		feed.ReelProbability = 0.30
	}
	if feed.ClickbaitProbability == 0 {
		feed.ClickbaitProbability = 0.25
	}
	if feed.FomoProbability == 0 {
		feed.FomoProbability = 0.28
	}
	if feed.FomoFriendsMin == 0 {
		feed.FomoFriendsMin = 10
	}
	if feed.FomoFriendsMax == 0 {
		feed.FomoFriendsMax = 40
	}
	if feed.VerifiedProbability == 0 {
		feed.VerifiedProbability = 0.16
	}
	if feed.ScrollThresholdPx == 0 {
		feed.ScrollThresholdPx = 420
	}
	if feed.LoadLatencyMs == 0 {
		feed.LoadLatencyMs = 900
	}
	return feed
}

// GetMoodConfig returns the mood configuration with defaults applied
func (c *SimulationConfig) GetMoodConfig() *MoodConfig {
	mood := &MoodConfig{}
	if c != nil && c.Mood != nil {
		*mood = *c.Mood
	}
	if mood.TickMs == 0 {
		mood.TickMs = 2000
	}
	if mood.HistoryCap == 0 {
		mood.HistoryCap = 45
	}
	if mood.TickFloor == 0 {
		mood.TickFloor = 15
	}
	if mood.Ceiling == 0 {
		mood.Ceiling = 100
	}
	if mood.DecayPerTick == 0 {
		mood.DecayPerTick = 1
	}
	if mood.EmptyNotificationPenalty == 0 {
		mood.EmptyNotificationPenalty = 8
	}
	if mood.FriendAcceptBoost == 0 {
		mood.FriendAcceptBoost = 6
	}
	if mood.LikeSpikeBoost == 0 {
		mood.LikeSpikeBoost = 3
	}
	if mood.StoryPollBoost == 0 {
		mood.StoryPollBoost = 2
	}
	return mood
}

// GetTriggerConfig returns the trigger configuration with defaults applied
func (c *SimulationConfig) GetTriggerConfig() *TriggerConfig {
	t := &TriggerConfig{}
	if c != nil && c.Triggers != nil {
		*t = *c.Triggers
	}
	if t.LikeSpikeMinMs == 0 {
		t.LikeSpikeMinMs = 5200
	}
	if t.LikeSpikeMaxMs == 0 {
		t.LikeSpikeMaxMs = 7700
	}
	if t.LikeSpikeProbability == 0 {
		t.LikeSpikeProbability = 0.45
	}
	if t.LikeSpikeLikesMin == 0 {
		t.LikeSpikeLikesMin = 1
	}
	if t.LikeSpikeLikesMax == 0 {
		t.LikeSpikeLikesMax = 4
	}
	if t.TypingPeriodMs == 0 {
		t.TypingPeriodMs = 11000
	}
	if t.TypingProbability == 0 {
		t.TypingProbability = 0.35
	}
	if t.TypingClearMinMs == 0 {
		t.TypingClearMinMs = 2200
	}
	if t.TypingClearMaxMs == 0 {
		t.TypingClearMaxMs = 3800
	}
	if t.NotificationMinMs == 0 {
		t.NotificationMinMs = 6000
	}
	if t.NotificationMaxMs == 0 {
		t.NotificationMaxMs = 10500
	}
	if t.NotificationProb == 0 {
		t.NotificationProb = 0.55
	}
	if t.NotificationHideMs == 0 {
		t.NotificationHideMs = 4200
	}
	if t.NotificationLogCap == 0 {
		t.NotificationLogCap = 40
	}
	if t.FriendRequestMinMs == 0 {
		t.FriendRequestMinMs = 14000
	}
	if t.FriendRequestMaxMs == 0 {
		t.FriendRequestMaxMs = 21000
	}
	if t.StoryAdvanceMs == 0 {
		t.StoryAdvanceMs = 5000
	}
	if t.EscalationOpenDelayMs == 0 {
		t.EscalationOpenDelayMs = 2200
	}
	if t.DMFollowUpDelayMs == 0 {
		t.DMFollowUpDelayMs = 2600
	}
	return t
}

// GetFeelConfig returns the tuned feel constants with defaults applied
func (c *SimulationConfig) GetFeelConfig() *FeelConfig {
	f := &FeelConfig{}
	if c != nil && c.Feel != nil {
		*f = *c.Feel
	}
	if f.EmptyNotificationBias == 0 {
		f.EmptyNotificationBias = 0.65
	}
	if f.OverlayProbability == 0 {
		f.OverlayProbability = 0.72
	}
	if f.AdDisguiseProbability == 0 {
		f.AdDisguiseProbability = 0.75
	}
	if f.StoryPollProbability == 0 {
		f.StoryPollProbability = 0.7
	}
	if f.TypingKnownUserBias == 0 {
		f.TypingKnownUserBias = 0.84
	}
	return f
}
