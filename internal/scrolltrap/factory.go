// Package scrolltrap builds fully-formed feed items.
//
// This file provides the PostFactory, which samples coherent image/caption
// pairs from the content catalogs and seeds engagement counts. Counts are
// seeded once at creation and never re-seeded; the displayed like count is
// derived (base + 1 when liked) rather than stored.
package scrolltrap

import (
	"fmt"
	"math/rand"
)

// PostOverrides allows callers to pin individual fields of a built post.
// Nil pointer fields fall through to sampled values.
type PostOverrides struct {
	Author  *string
	Caption *string
	Image   *string
	Overlay *string
	IsAd    bool
}

// PostFactory builds feed items from the content catalogs.
type PostFactory struct {
	rng  *rand.Rand
	feed *FeedConfig
	feel *FeelConfig
}

// NewPostFactory creates a post factory using the given random source and
// configuration.
func NewPostFactory(rng *rand.Rand, feed *FeedConfig, feel *FeelConfig) *PostFactory {
	return &PostFactory{rng: rng, feed: feed, feel: feel}
}

// BuildPost builds a standard (or ad) feed item for a category. A category
// missing from the catalogs silently substitutes the default category; the
// image and caption always come from the same pack.
func (f *PostFactory) BuildPost(id int, category Category, overrides PostOverrides) FeedItem {
	if _, ok := contentPacks[category]; !ok {
		category = DefaultCategory
	}
	pack := packFor(category)

	item := FeedItem{
		ID:        id,
		Author:    pickString(f.rng, feedUsernames),
		Category:  category,
		Kind:      FeedKindNormal,
		ImageURL:  pickString(f.rng, pack.Images),
		Caption:   pickString(f.rng, pack.Captions),
		Likes:     120 + f.rng.Intn(8000),
		Comments:  8 + f.rng.Intn(280),
		TimeLabel: pickString(f.rng, timeLabels),
	}
	if f.rng.Float64() < f.feel.OverlayProbability {
		item.Overlay = pickString(f.rng, pack.Overlays)
	}
	if f.rng.Float64() < 0.6 {
		item.SeededComments = seededCommentSample(f.rng)
	}

	if overrides.Author != nil {
		item.Author = *overrides.Author
	}
	if overrides.Caption != nil {
		item.Caption = *overrides.Caption
	}
	if overrides.Image != nil {
		item.ImageURL = *overrides.Image
	}
	if overrides.Overlay != nil {
		item.Overlay = *overrides.Overlay
	}

	if overrides.IsAd {
		item.Kind = FeedKindAd
		item.Verified = true
		// Disguised-ad mechanic: most ads hide behind a soft label.
		if f.rng.Float64() < f.feel.AdDisguiseProbability {
			item.AdLabel = "Suggested for you"
		} else {
			item.AdLabel = "Sponsored"
		}
	} else {
		item.Verified = f.rng.Float64() < f.feed.VerifiedProbability
	}

	return item
}

// BuildReel builds a reel item with a coherent (video, caption) pair.
func (f *PostFactory) BuildReel(id int, category Category) FeedItem {
	if _, ok := contentPacks[category]; !ok {
		category = DefaultCategory
	}
	tpl := pickReelTemplate(f.rng, category)

	return FeedItem{
		ID:        id,
		Author:    pickString(f.rng, feedUsernames),
		Category:  tpl.Category,
		Kind:      FeedKindReel,
		VideoID:   tpl.VideoID,
		Caption:   tpl.Caption,
		Likes:     1000 + f.rng.Intn(25000),
		Comments:  50 + f.rng.Intn(800),
		Shares:    20 + f.rng.Intn(500),
		TimeLabel: pickString(f.rng, timeLabels),
		Verified:  f.rng.Float64() < f.feed.VerifiedProbability,
	}
}

// BuildClickbait builds a fake viral item in the memes pack.
func (f *PostFactory) BuildClickbait(id int) FeedItem {
	item := f.BuildPost(id, CategoryMemes, PostOverrides{})
	item.Kind = FeedKindClickbait
	item.Fake = true
	item.Overlay = "you won't BELIEVE #3"
	return item
}

// FomoCaption renders the social-pressure caption attached to FOMO items.
func (f *PostFactory) FomoCaption() string {
	n := f.feed.FomoFriendsMin + f.rng.Intn(f.feed.FomoFriendsMax-f.feed.FomoFriendsMin)
	return fmt.Sprintf(fomoCaptionTemplate, n)
}

// seededCommentSample returns a small random slice of the fixed comment pool.
func seededCommentSample(rng *rand.Rand) []Comment {
	n := 1 + rng.Intn(3)
	if n > len(seededComments) {
		n = len(seededComments)
	}
	start := rng.Intn(len(seededComments) - n + 1)
	out := make([]Comment, n)
	copy(out, seededComments[start:start+n])
	return out
}
