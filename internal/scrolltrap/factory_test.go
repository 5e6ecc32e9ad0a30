package scrolltrap

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFactory(seed int64) *PostFactory {
	config := &SimulationConfig{}
	return NewPostFactory(rand.New(rand.NewSource(seed)), config.GetFeedConfig(), config.GetFeelConfig())
}

func TestBuildPostRangesAndCoherence(t *testing.T) {
	f := newTestFactory(7)

	for i := 0; i < 200; i++ {
		item := f.BuildPost(i, CategoryFood, PostOverrides{})

		assert.Equal(t, FeedKindNormal, item.Kind)
		assert.Equal(t, CategoryFood, item.Category)
		assert.GreaterOrEqual(t, item.Likes, 120)
		assert.Less(t, item.Likes, 8120)
		assert.GreaterOrEqual(t, item.Comments, 8)
		assert.Less(t, item.Comments, 288)

		// Image and caption must come from the same category pack.
		pack := contentPacks[CategoryFood]
		assert.Contains(t, pack.Images, item.ImageURL)
		assert.Contains(t, pack.Captions, item.Caption)
		if item.Overlay != "" {
			assert.Contains(t, pack.Overlays, item.Overlay)
		}
	}
}

func TestBuildPostAdAlwaysVerified(t *testing.T) {
	f := newTestFactory(11)

	sawDisguised, sawSponsored := false, false
	for i := 0; i < 100; i++ {
		ad := f.BuildPost(i, CategoryTech, PostOverrides{IsAd: true})
		require.Equal(t, FeedKindAd, ad.Kind)
		require.True(t, ad.Verified, "ads are always verified")
		switch ad.AdLabel {
		case "Suggested for you":
			sawDisguised = true
		case "Sponsored":
			sawSponsored = true
		default:
			t.Fatalf("unexpected ad label %q", ad.AdLabel)
		}
	}
	assert.True(t, sawDisguised, "most ads should be disguised")
	assert.True(t, sawSponsored, "some ads should be plainly labeled")
}

func TestBuildPostMissingCategorySubstitutesDefault(t *testing.T) {
	f := newTestFactory(3)
	item := f.BuildPost(1, Category("numerology"), PostOverrides{})
	assert.Equal(t, DefaultCategory, item.Category, "missing category silently substitutes the default")
}

func TestBuildPostOverrides(t *testing.T) {
	f := newTestFactory(5)
	author := "brand.official"
	caption := "limited drop, act now"
	item := f.BuildPost(9, CategoryFitness, PostOverrides{Author: &author, Caption: &caption})
	assert.Equal(t, author, item.Author)
	assert.Equal(t, caption, item.Caption)
}

func TestBuildReelRangesAndCoherence(t *testing.T) {
	f := newTestFactory(13)

	for i := 0; i < 200; i++ {
		reel := f.BuildReel(i, CategoryPets)

		assert.Equal(t, FeedKindReel, reel.Kind)
		assert.GreaterOrEqual(t, reel.Likes, 1000)
		assert.Less(t, reel.Likes, 26000)
		assert.GreaterOrEqual(t, reel.Comments, 50)
		assert.Less(t, reel.Comments, 850)
		assert.GreaterOrEqual(t, reel.Shares, 20)
		assert.Less(t, reel.Shares, 520)
		assert.NotEmpty(t, reel.VideoID)

		// Video and caption must belong to the same template.
		found := false
		for _, tpl := range reelTemplates {
			if tpl.VideoID == reel.VideoID {
				assert.Equal(t, tpl.Caption, reel.Caption)
				assert.Equal(t, tpl.Category, reel.Category)
				found = true
			}
		}
		require.True(t, found, "reel must come from the template catalog")
	}
}

func TestBuildClickbaitIsFake(t *testing.T) {
	f := newTestFactory(17)
	item := f.BuildClickbait(44)
	assert.Equal(t, FeedKindClickbait, item.Kind)
	assert.True(t, item.Fake)
	assert.Equal(t, CategoryMemes, item.Category)
}

func TestFomoCaptionRange(t *testing.T) {
	f := newTestFactory(19)
	for i := 0; i < 100; i++ {
		caption := f.FomoCaption()
		assert.Regexp(t, `^\d+ of your friends interacted with this$`, caption)
		var n int
		_, err := fmt.Sscanf(caption, "%d of your friends interacted with this", &n)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 10)
		assert.Less(t, n, 40)
	}
}
