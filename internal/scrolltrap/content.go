// Package scrolltrap holds the static content catalogs.
//
// This file contains the fixed data every session draws from: per-category
// photo/caption packs, reel templates, overlay texts, synthetic usernames,
// stories, friend-request profiles, pre-seeded DM threads, notification
// templates, and the escalation question list. The catalogs are plain data;
// the only logic here is random-weighted lookup. Content never mismatches
// a photo with a caption from a different category.
package scrolltrap

import "math/rand"

// ContentPack is a coherent (image, caption) pair pool for one category.
type ContentPack struct {
	Images   []string
	Captions []string
	Overlays []string
}

// ReelTemplate is a coherent (video, caption) pair for reels.
type ReelTemplate struct {
	VideoID  string
	Caption  string
	Category Category
}

// NotificationTemplate is a catalog entry the notification ticker draws from.
type NotificationTemplate struct {
	Key        string // Stable key for rare-template bookkeeping
	Text       string
	HasContent bool
	MoodDelta  int
	Action     NotificationAction
	Rare       bool
}

// contentPacks maps each category to its coherent image/caption pool.
// Image URLs follow the picsum seed scheme so every entry stays resolvable
// offline-friendly and deterministic per seed.
var contentPacks = map[Category]ContentPack{
	CategoryPets: {
		Images: []string{
			"https://picsum.photos/seed/pup1/640/640",
			"https://picsum.photos/seed/cat2/640/640",
			"https://picsum.photos/seed/paws3/640/640",
			"https://picsum.photos/seed/bork4/640/640",
		},
		Captions: []string{
			"he has no idea he's about to get adopted 🥹",
			"POV: you said 'walk' out loud",
			"she sits like this every morning. every. morning.",
			"rescued 3 weeks ago, already runs the house",
		},
		Overlays: []string{"WAIT FOR IT", "SOUND ON 🔊", "new family member!!"},
	},
	CategoryFood: {
		Images: []string{
			"https://picsum.photos/seed/ramen1/640/640",
			"https://picsum.photos/seed/pasta2/640/640",
			"https://picsum.photos/seed/brunch3/640/640",
			"https://picsum.photos/seed/taco4/640/640",
		},
		Captions: []string{
			"15-minute ramen that slaps harder than the restaurant",
			"i will not gatekeep this pasta any longer",
			"brunch spot with NO line. saving this for you",
			"3 ingredients. that's it. recipe in comments",
		},
		Overlays: []string{"RECIPE BELOW ⬇️", "you NEED this", "viral for a reason"},
	},
	CategoryTravel: {
		Images: []string{
			"https://picsum.photos/seed/alps1/640/640",
			"https://picsum.photos/seed/bali2/640/640",
			"https://picsum.photos/seed/kyoto3/640/640",
			"https://picsum.photos/seed/coast4/640/640",
		},
		Captions: []string{
			"this place costs less than your monthly coffee budget",
			"nobody talks about this town and i'm keeping it that way",
			"woke up at 5am for this view. worth it",
			"flights were $89. EIGHTY NINE.",
		},
		Overlays: []string{"SAVE THIS SPOT 📍", "hidden gem", "no filter needed"},
	},
	CategoryFitness: {
		Images: []string{
			"https://picsum.photos/seed/lift1/640/640",
			"https://picsum.photos/seed/run2/640/640",
			"https://picsum.photos/seed/yoga3/640/640",
			"https://picsum.photos/seed/gym4/640/640",
		},
		Captions: []string{
			"day 47 of showing up even when i don't want to",
			"the only workout you need (trainers hate this)",
			"form check: am i doing this right? (serious replies only)",
			"30 days ago vs today. consistency > motivation",
		},
		Overlays: []string{"DAY 47 💪", "try this tomorrow", "no excuses"},
	},
	CategoryMemes: {
		Images: []string{
			"https://picsum.photos/seed/meme1/640/640",
			"https://picsum.photos/seed/meme2/640/640",
			"https://picsum.photos/seed/meme3/640/640",
			"https://picsum.photos/seed/meme4/640/640",
		},
		Captions: []string{
			"me explaining to my mom why i need both monitors",
			"nobody: / me at 3am:",
			"this is the funniest thing i've seen all week i'm crying",
			"tag someone who does this 💀",
		},
		Overlays: []string{"💀💀💀", "i'm deceased", "so real"},
	},
	CategoryTech: {
		Images: []string{
			"https://picsum.photos/seed/desk1/640/640",
			"https://picsum.photos/seed/code2/640/640",
			"https://picsum.photos/seed/setup3/640/640",
			"https://picsum.photos/seed/gadget4/640/640",
		},
		Captions: []string{
			"my desk setup after 2 years of tweaking. rate it",
			"this $12 gadget replaced three apps for me",
			"AI just did my entire week's work in 4 minutes",
			"the phone feature nobody knows about 🤯",
		},
		Overlays: []string{"SETUP TOUR", "mind blown 🤯", "link in bio"},
	},
}

// reelTemplates are coherent (video, caption) pairs for the reel builder.
var reelTemplates = []ReelTemplate{
	{VideoID: "reel-pup-zoomies", Caption: "zoomies at 6am. every day. send help", Category: CategoryPets},
	{VideoID: "reel-cat-box", Caption: "bought him a bed. he chose the box", Category: CategoryPets},
	{VideoID: "reel-pasta-pull", Caption: "the cheese pull you didn't know you needed", Category: CategoryFood},
	{VideoID: "reel-smash-burger", Caption: "smash burger ASMR, you're welcome", Category: CategoryFood},
	{VideoID: "reel-cliff-dive", Caption: "last day in paradise, did the thing 😱", Category: CategoryTravel},
	{VideoID: "reel-train-window", Caption: "9 hours on this train. zero regrets", Category: CategoryTravel},
	{VideoID: "reel-pr-deadlift", Caption: "hit a PR and forgot how to act", Category: CategoryFitness},
	{VideoID: "reel-morning-routine", Caption: "5am club morning routine (realistic version)", Category: CategoryFitness},
	{VideoID: "reel-expectation-reality", Caption: "expectation vs reality 💀", Category: CategoryMemes},
	{VideoID: "reel-npc-office", Caption: "POV: the office NPC at 4:59pm", Category: CategoryMemes},
	{VideoID: "reel-mech-keyboard", Caption: "thocky keyboard sounds for your soul", Category: CategoryTech},
	{VideoID: "reel-cable-management", Caption: "cable management speedrun, oddly satisfying", Category: CategoryTech},
}

// feedUsernames is the synthetic author pool for generated posts.
var feedUsernames = []string{
	"daily.dose.ofpets", "wanderlust_ella", "gym_rat_leo", "meme.archive.99",
	"chefs_kiss_kay", "techtonic_sam", "sunset.chaser_", "plantmom_vibes",
	"urban.explorer.jay", "coffee_first_amy", "midnight.coder", "trailrunner_max",
}

// typingPersonas are shown by the fake typing indicator when no feed author
// is borrowed.
var typingPersonas = []string{"emma_lifts", "jake.travels", "sofia.eats", "liam_codes"}

// seededComments is the fixed small comment pool attached to posts.
var seededComments = []Comment{
	{Author: "firstcomment_andy", Text: "first 🙌"},
	{Author: "so.relatable.rae", Text: "why is this literally me"},
	{Author: "hype.house.hugo", Text: "🔥🔥🔥"},
	{Author: "quietlurker_q", Text: "came from the fyp, staying for this"},
	{Author: "bestie_bee", Text: "ok but where did you get that??"},
}

// storyCatalog is the fixed set of stories shown in the story tray.
var storyCatalog = []Story{
	{
		ID: "story-emma", Handle: "emma_lifts", Avatar: "https://picsum.photos/seed/av-emma/96/96",
		Frames: []string{
			"https://picsum.photos/seed/st-emma1/480/854",
			"https://picsum.photos/seed/st-emma2/480/854",
		},
		PollText: "leg day or rest day?", PollOptions: []string{"leg day 🦵", "rest day 😴"},
	},
	{
		ID: "story-jake", Handle: "jake.travels", Avatar: "https://picsum.photos/seed/av-jake/96/96",
		Frames: []string{
			"https://picsum.photos/seed/st-jake1/480/854",
			"https://picsum.photos/seed/st-jake2/480/854",
			"https://picsum.photos/seed/st-jake3/480/854",
		},
		PollText: "should i stay another week?", PollOptions: []string{"YES", "obviously yes"},
	},
	{
		ID: "story-sofia", Handle: "sofia.eats", Avatar: "https://picsum.photos/seed/av-sofia/96/96",
		Frames: []string{
			"https://picsum.photos/seed/st-sofia1/480/854",
		},
	},
}

// friendRequestCatalog is the fixed pool of incoming friend requests.
// Suspicious entries carry human-readable risk flags surfaced at Reveal.
var friendRequestCatalog = []FriendRequestProfile{
	{
		ID: "fr-mia", Handle: "mia.from.class", Avatar: "https://picsum.photos/seed/av-mia/96/96",
		Bio: "just moved here! looking for friends 🌸", Followers: 412, Following: 389,
		Posts: 57, MutualFriends: 3,
	},
	{
		ID: "fr-alex19", Handle: "alex_cool19", Avatar: "https://picsum.photos/seed/av-alex/96/96",
		Bio: "hey i think we met at a party? add me back", Followers: 12, Following: 1840,
		Posts: 2, MutualFriends: 0, Suspicious: true,
		RiskFlags: []string{
			"account created 6 days ago",
			"follows 150x more people than follow back",
			"only 2 posts, both stock photos",
			"no mutual friends",
		},
	},
	{
		ID: "fr-coach", Handle: "coach.derek.fit", Avatar: "https://picsum.photos/seed/av-derek/96/96",
		Bio: "helped 500+ people transform 💪 DM me 'START'", Followers: 8400, Following: 77,
		Posts: 210, MutualFriends: 1,
	},
}

// escalationQuestions is the fixed list of increasingly personal questions
// a suspicious contact sends after being accepted. Order matters: replies
// walk the list forward.
var escalationQuestions = []string{
	"so what school do you go to?",
	"do you have snap? this app is lame lol",
	"are your parents usually home after school?",
	"can you send a pic so i know you're real?",
	"what's your address? i could send you something 🎁",
}

// escalationGreeting opens every synthesized escalation thread.
const escalationGreeting = "heyyy thanks for accepting!! 😊"

// seededDMThreads are pre-existing conversations in the inbox at session start.
var seededDMThreads = []DMThread{
	{
		ID: "dm-bestie", Handle: "bestie_bee", Avatar: "https://picsum.photos/seed/av-bee/96/96",
		Preview: "did you see what she posted??",
		Messages: []DMMessage{
			{Sender: "them", Text: "did you see what she posted??", TimeLabel: "2h"},
			{Sender: "me", Text: "WAIT no, sending it to me rn", TimeLabel: "2h"},
		},
	},
	{
		ID: "dm-crypto", Handle: "invest.with.ray", Avatar: "https://picsum.photos/seed/av-ray/96/96",
		Preview: "i turned $200 into $8k last week, want in?",
		Messages: []DMMessage{
			{Sender: "them", Text: "i turned $200 into $8k last week, want in?", TimeLabel: "1d"},
		},
		Scam: true,
	},
}

// notificationCatalog is the template pool for the notification ticker.
// Empty templates (HasContent=false) are the hook: there is nothing behind
// them. Rare templates appear at most once per session.
var notificationCatalog = []NotificationTemplate{
	{Key: "liked-photo", Text: "emma_lifts liked your photo", HasContent: true, MoodDelta: 2},
	{Key: "new-follower", Text: "you have a new follower!", HasContent: true, MoodDelta: 2},
	{Key: "mentioned", Text: "jake.travels mentioned you in a comment", HasContent: true, MoodDelta: 3},
	{Key: "dm-waiting", Text: "you have 1 unread message", HasContent: true, MoodDelta: 1, Action: ActionOpenDM},
	{Key: "request-waiting", Text: "someone wants to follow you", HasContent: true, MoodDelta: 1, Action: ActionOpenFriendRequest},
	{Key: "empty-activity", Text: "you have new activity", HasContent: false, MoodDelta: 0},
	{Key: "empty-missed", Text: "you missed something while you were away", HasContent: false, MoodDelta: 0},
	{Key: "empty-trending", Text: "3 things are trending in your network", HasContent: false, MoodDelta: 0},
	{Key: "rare-celeb", Text: "⭐ a verified account viewed your profile", HasContent: false, MoodDelta: 0, Rare: true},
}

// fomoCaptionTemplate phrases the FOMO caption attached to fomo items.
const fomoCaptionTemplate = "%d of your friends interacted with this"

// timeLabels are creation-relative display times assigned to feed items.
var timeLabels = []string{"just now", "2m", "14m", "41m", "1h", "3h", "7h", "12h", "1d"}

// packFor returns the content pack for a category, substituting the default
// pack when the category is unknown.
func packFor(category Category) ContentPack {
	if pack, ok := contentPacks[category]; ok {
		return pack
	}
	return contentPacks[DefaultCategory]
}

// AlternateImageSources returns fallback image URLs for a category, used by
// the rendering layer to retry failed image loads before a placeholder.
func AlternateImageSources(category Category) []string {
	pack := packFor(category)
	alts := make([]string, 0, len(pack.Images))
	alts = append(alts, pack.Images...)
	alts = append(alts, "https://picsum.photos/seed/fallback/640/640")
	return alts
}

// pickString returns a uniformly random element of pool.
func pickString(rng *rand.Rand, pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.Intn(len(pool))]
}

// pickReelTemplate returns a random reel template, preferring the given
// category when any templates match it.
func pickReelTemplate(rng *rand.Rand, category Category) ReelTemplate {
	matching := make([]ReelTemplate, 0, len(reelTemplates))
	for _, t := range reelTemplates {
		if t.Category == category {
			matching = append(matching, t)
		}
	}
	if len(matching) == 0 {
		matching = reelTemplates
	}
	return matching[rng.Intn(len(matching))]
}

// pickNotificationTemplate draws a notification template. Rare templates
// already shown this session are excluded; emptyBias is the tuned chance of
// drawing from the empty pool when both pools are available.
func pickNotificationTemplate(rng *rand.Rand, shownRare map[string]bool, emptyBias float64) *NotificationTemplate {
	var empty, content []NotificationTemplate
	for _, t := range notificationCatalog {
		if t.Rare && shownRare[t.Key] {
			continue
		}
		if t.HasContent {
			content = append(content, t)
		} else {
			empty = append(empty, t)
		}
	}
	pool := content
	if len(empty) > 0 && (len(content) == 0 || rng.Float64() < emptyBias) {
		pool = empty
	}
	if len(pool) == 0 {
		return nil
	}
	t := pool[rng.Intn(len(pool))]
	return &t
}
