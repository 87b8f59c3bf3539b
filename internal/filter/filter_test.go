package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/replyradar/internal/models"
)

var testNow = time.Unix(1_700_000_000, 0)

func newTestFilter() *ContentFilter {
	return NewContentFilter(2, 2).WithNow(func() time.Time { return testNow })
}

func freshPost(title, body string, numComments int) models.Post {
	return models.Post{
		ID:          "abc123",
		Title:       title,
		Body:        body,
		NumComments: numComments,
		CreatedUTC:  float64(testNow.Unix() - 3600),
	}
}

func TestPreFilter(t *testing.T) {
	tests := []struct {
		name           string
		post           models.Post
		wantPassed     bool
		wantReason     string
		wantAd         bool
		wantScoreShown bool
	}{
		{
			name:       "passes clean post",
			post:       freshPost("How should I structure my study plan?", "Looking for advice on pacing.", 5),
			wantPassed: true,
		},
		{
			name:       "too few comments",
			post:       freshPost("Totally irrelevant title", "", 1),
			wantPassed: false,
			wantReason: "too few comments (1 < 2)",
		},
		{
			name: "post too old",
			post: models.Post{
				Title:       "How should I prepare?",
				NumComments: 10,
				CreatedUTC:  float64(testNow.Unix() - 3*86400),
			},
			wantPassed: false,
			wantReason: "post too old (3.0 days > 2 days)",
		},
		{
			name:           "three digit score in title",
			post:           freshPost("Just got 105 on TOEFL!", "", 5),
			wantPassed:     false,
			wantReason:     "likely score-disclosure post",
			wantScoreShown: true,
		},
		{
			name:           "two digit score in body",
			post:           freshPost("My result", "Scored a 95 overall, ask me anything", 5),
			wantPassed:     false,
			wantScoreShown: true,
		},
		{
			name:       "ad keyword discount",
			post:       freshPost("Huge discount on prep courses", "", 5),
			wantPassed: false,
			wantReason: "contains ad keyword: discount",
			wantAd:     true,
		},
		{
			name:       "ad keyword percent off",
			post:       freshPost("Get 50%off this week", "", 5),
			wantPassed: false,
			wantReason: "contains ad keyword: %off",
			wantAd:     true,
		},
		{
			name:       "ad keyword case insensitive",
			post:       freshPost("LIMITED SALE on tutoring", "", 5),
			wantPassed: false,
			wantReason: "contains ad keyword: sale",
			wantAd:     true,
		},
		{
			// 124 is outside the 90-123 disclosure range
			name:       "number outside score range passes",
			post:       freshPost("I did 124 practice questions yesterday, was it worth it?", "", 5),
			wantPassed: true,
		},
	}

	f := newTestFilter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := f.PreFilter(tt.post)

			assert.Equal(t, tt.wantPassed, verdict.Passed)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, verdict.Reason)
			}
			assert.Equal(t, tt.wantAd, verdict.IsAd)
			assert.Equal(t, tt.wantScoreShown, verdict.IsScoreShowing)
		})
	}
}

func TestPreFilterCommentFloorWinsRegardlessOfContent(t *testing.T) {
	// Even a post that would trip every other rule is reported as a
	// comment-floor rejection first.
	f := newTestFilter()
	post := freshPost("Huge discount, I got 110!", "sale sale sale", 0)

	verdict := f.PreFilter(post)

	require.False(t, verdict.Passed)
	assert.Equal(t, "too few comments (0 < 2)", verdict.Reason)
	assert.False(t, verdict.IsAd)
}

func TestBuildClassificationPrompt(t *testing.T) {
	f := newTestFilter()

	t.Run("embeds title and comments", func(t *testing.T) {
		post := freshPost("How do I improve?", "Short body", 5)
		prompt := f.BuildClassificationPrompt(post, []string{"first", "second", "third", "fourth"})

		assert.Contains(t, prompt, "Title: How do I improve?")
		assert.Contains(t, prompt, "Body: Short body")
		assert.Contains(t, prompt, "first\n---\nsecond\n---\nthird")
		assert.NotContains(t, prompt, "fourth", "only 3 comments should be embedded")
		assert.Contains(t, prompt, `"replyWorthiness": number`)
	})

	t.Run("truncates long body with ellipsis", func(t *testing.T) {
		long := make([]byte, 600)
		for i := range long {
			long[i] = 'x'
		}
		post := freshPost("Title", string(long), 5)
		prompt := f.BuildClassificationPrompt(post, nil)

		assert.Contains(t, prompt, string(long[:500])+"...")
		assert.NotContains(t, prompt, string(long[:501]))
	})
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantPassed bool
		wantReason string
	}{
		{
			name:       "passes on clean verdict",
			response:   `{"isAd":false,"isScoreShowing":false,"hasSubstantiveQuestion":true,"discussionValue":7,"replyWorthiness":8}`,
			wantPassed: true,
		},
		{
			name:       "passes on fence wrapped verdict",
			response:   "```json\n{\"isAd\":false,\"isScoreShowing\":false,\"hasSubstantiveQuestion\":true,\"discussionValue\":7,\"replyWorthiness\":8}\n```",
			wantPassed: true,
		},
		{
			name:       "malformed response",
			response:   "sorry, I cannot help with that",
			wantPassed: false,
			wantReason: "classification failed",
		},
		{
			name:       "missing field",
			response:   `{"isAd":false,"isScoreShowing":false,"hasSubstantiveQuestion":true,"discussionValue":7}`,
			wantPassed: false,
			wantReason: "classification failed",
		},
		{
			name:       "score out of range",
			response:   `{"isAd":false,"isScoreShowing":false,"hasSubstantiveQuestion":true,"discussionValue":11,"replyWorthiness":8}`,
			wantPassed: false,
			wantReason: "classification failed",
		},
		{
			name:       "advertisement verdict",
			response:   `{"isAd":true,"isScoreShowing":false,"hasSubstantiveQuestion":true,"discussionValue":7,"replyWorthiness":8}`,
			wantPassed: false,
			wantReason: "classified as advertisement",
		},
		{
			name:       "score disclosure verdict",
			response:   `{"isAd":false,"isScoreShowing":true,"hasSubstantiveQuestion":true,"discussionValue":7,"replyWorthiness":8}`,
			wantPassed: false,
			wantReason: "classified as score-disclosure post",
		},
		{
			name:       "no substantive question",
			response:   `{"isAd":false,"isScoreShowing":false,"hasSubstantiveQuestion":false,"discussionValue":7,"replyWorthiness":8}`,
			wantPassed: false,
			wantReason: "no substantive question",
		},
		{
			name:       "reply worthiness below threshold",
			response:   `{"isAd":false,"isScoreShowing":false,"hasSubstantiveQuestion":true,"discussionValue":7,"replyWorthiness":3}`,
			wantPassed: false,
			wantReason: "reply worthiness too low (3/10)",
		},
	}

	f := newTestFilter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := f.ParseClassification(tt.response)

			assert.Equal(t, tt.wantPassed, verdict.Passed)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, verdict.Reason)
			}
		})
	}
}

func TestParseClassificationCarriesVerdictForward(t *testing.T) {
	f := newTestFilter()
	verdict := f.ParseClassification(`{"isAd":false,"isScoreShowing":false,"hasSubstantiveQuestion":true,"discussionValue":6,"replyWorthiness":9}`)

	require.True(t, verdict.Passed)
	assert.True(t, verdict.HasSubstantiveQuestion)
	assert.Equal(t, 6, verdict.DiscussionValue)
	assert.Equal(t, 9, verdict.ReplyWorthiness)
}
