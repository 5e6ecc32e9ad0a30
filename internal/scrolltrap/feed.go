// Package scrolltrap generates paginated feed batches.
//
// This file provides the FeedGenerator: it produces the deterministic seed
// batch shown at Playing start and on-demand 4-item batches whose categories
// follow the interest model's weights. Pagination models network latency
// with a single in-flight flag; requesting another batch while a load is in
// flight is a no-op. This is the infinite-scroll mechanic: there is always
// another batch.
package scrolltrap

import "math/rand"

// FeedGenerator produces feed batches using interest-weighted sampling.
type FeedGenerator struct {
	rng      *rand.Rand
	feed     *FeedConfig
	factory  *PostFactory
	interest *InterestModel

	nextID       int // Strictly increasing, seeded at feed.PageIDSeed
	loadInFlight bool
}

// NewFeedGenerator creates a feed generator. Paginated item IDs start at the
// configured seed (1000) and only ever increase within the session.
func NewFeedGenerator(rng *rand.Rand, feed *FeedConfig, feel *FeelConfig, interest *InterestModel) *FeedGenerator {
	return &FeedGenerator{
		rng:      rng,
		feed:     feed,
		factory:  NewPostFactory(rng, feed, feel),
		interest: interest,
		nextID:   feed.PageIDSeed,
	}
}

// initialComposition fixes the kind/category mix of the seed batch. The
// composition is deterministic; only the sampled content varies.
var initialComposition = []struct {
	kind     FeedKind
	category Category
}{
	{FeedKindNormal, CategoryPets},
	{FeedKindNormal, CategoryFood},
	{FeedKindReel, CategoryMemes},
	{FeedKindNormal, CategoryTravel},
	{FeedKindAd, CategoryTech},
	{FeedKindNormal, CategoryMemes},
	{FeedKindReel, CategoryFitness},
	{FeedKindNormal, CategoryTech},
}

// InitialBatch returns the fixed seed set shown at Playing start.
// Item IDs run 1..N; paginated batches continue from the configured seed.
func (g *FeedGenerator) InitialBatch() []FeedItem {
	size := g.feed.InitialBatchSize
	items := make([]FeedItem, 0, size)
	for i := 0; i < size; i++ {
		slot := initialComposition[i%len(initialComposition)]
		id := i + 1
		switch slot.kind {
		case FeedKindReel:
			items = append(items, g.factory.BuildReel(id, slot.category))
		case FeedKindAd:
			items = append(items, g.factory.BuildPost(id, slot.category, PostOverrides{IsAd: true}))
		default:
			items = append(items, g.factory.BuildPost(id, slot.category, PostOverrides{}))
		}
	}
	return items
}

// NextBatch returns the next page of items. Each slot is decided
// independently: ad on the configured modulus, else reel, else clickbait
// (memes only), else FOMO, else a normal post in an interest-sampled
// category.
func (g *FeedGenerator) NextBatch(currentItemCount int) []FeedItem {
	items := make([]FeedItem, 0, g.feed.PageSize)
	for slot := 0; slot < g.feed.PageSize; slot++ {
		id := g.nextID
		g.nextID++

		category := g.interest.SampleCategory(g.rng)

		switch {
		case slot > 0 && (currentItemCount+slot)%g.feed.AdEvery == 0:
			items = append(items, g.factory.BuildPost(id, category, PostOverrides{IsAd: true}))
		case g.rng.Float64() < g.feed.ReelProbability:
			items = append(items, g.factory.BuildReel(id, category))
		case category == CategoryMemes && g.rng.Float64() < g.feed.ClickbaitProbability:
			items = append(items, g.factory.BuildClickbait(id))
		case g.rng.Float64() < g.feed.FomoProbability:
			item := g.factory.BuildPost(id, category, PostOverrides{})
			item.Kind = FeedKindFomo
			item.FomoCaption = g.factory.FomoCaption()
			items = append(items, item)
		default:
			items = append(items, g.factory.BuildPost(id, category, PostOverrides{}))
		}
	}
	return items
}

// ShouldLoadMore reports whether the remaining scroll distance is inside the
// pagination threshold and no load is already in flight.
func (g *FeedGenerator) ShouldLoadMore(scrollTop, scrollHeight, viewportHeight int) bool {
	if g.loadInFlight {
		return false
	}
	remaining := scrollHeight - (scrollTop + viewportHeight)
	return remaining < g.feed.ScrollThresholdPx
}

// BeginLoad marks a load as in flight. Returns false if one already is,
// which callers must treat as a no-op (debounce).
func (g *FeedGenerator) BeginLoad() bool {
	if g.loadInFlight {
		return false
	}
	g.loadInFlight = true
	return true
}

// FinishLoad clears the in-flight flag once the batch has been appended.
func (g *FeedGenerator) FinishLoad() {
	g.loadInFlight = false
}

// LoadInFlight reports whether a page load is currently modeled as pending.
func (g *FeedGenerator) LoadInFlight() bool {
	return g.loadInFlight
}
