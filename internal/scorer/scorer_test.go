package scorer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/replyradar/internal/models"
)

var testNow = time.Unix(1_700_000_000, 0)

func newTestScorer() *ContentScorer {
	return NewContentScorer().WithNow(func() time.Time { return testNow })
}

func postAgedHours(hours float64) models.Post {
	return models.Post{CreatedUTC: float64(testNow.Unix()) - hours*3600}
}

func TestRelevanceScore(t *testing.T) {
	tests := []struct {
		name  string
		title string
		body  string
		want  float64
	}{
		{
			name:  "no signal",
			title: "Random observations",
			body:  "Nothing in particular",
			want:  0,
		},
		{
			name:  "question word only",
			title: "How does this work",
			want:  10,
		},
		{
			name:  "single question word despite several",
			title: "How and why, any tips",
			want:  10,
		},
		{
			name:  "two core topics",
			title: "Improving my speaking and writing",
			want:  10, // 2 topics * 5
		},
		{
			name:  "topic cap at 20",
			title: "speaking writing reading listening",
			body:  "score preparation study practice exam",
			want:  20,
		},
		{
			name:  "question word plus topics hits 30 cap",
			title: "How to improve speaking, writing, reading and listening?",
			body:  "My score did not move after weeks of practice",
			want:  30,
		},
	}

	s := newTestScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.RelevanceScore(models.Post{Title: tt.title, Body: tt.body})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngagementScore(t *testing.T) {
	s := newTestScorer()

	t.Run("sums comment upvote and freshness parts", func(t *testing.T) {
		post := postAgedHours(2)
		post.NumComments = 10 // 5
		post.Upvotes = 20     // capped at 10
		// fresh tier <6h adds 5
		assert.Equal(t, 20.0, s.EngagementScore(post))
	})

	t.Run("fractional comment contribution", func(t *testing.T) {
		post := postAgedHours(100) // no freshness
		post.NumComments = 3
		assert.Equal(t, 1.5, s.EngagementScore(post))
	})

	t.Run("freshness tiers", func(t *testing.T) {
		for hours, want := range map[float64]float64{2: 5, 12: 3, 36: 1, 72: 0} {
			assert.Equal(t, want, s.EngagementScore(postAgedHours(hours)), "age %vh", hours)
		}
	})

	t.Run("clamped to zero for downvoted posts", func(t *testing.T) {
		post := postAgedHours(100)
		post.Upvotes = -20
		assert.Equal(t, 0.0, s.EngagementScore(post))
	})
}

func TestReplyValueScore(t *testing.T) {
	s := newTestScorer()
	verdict := models.FilterVerdict{Passed: true, DiscussionValue: 8, ReplyWorthiness: 8}

	t.Run("unanswered post scores highest", func(t *testing.T) {
		// 12 (discussion) + 15 (no comments) + 8 (worthiness)
		assert.Equal(t, 35.0, s.ReplyValueScore(models.Post{}, nil, verdict))
	})

	t.Run("weak existing discussion", func(t *testing.T) {
		comments := []models.Comment{{Upvotes: 3, Body: "short answer"}}
		// 12 + 10 + 8
		assert.Equal(t, 30.0, s.ReplyValueScore(models.Post{}, comments, verdict))
	})

	t.Run("strong existing answer reduces but does not zero", func(t *testing.T) {
		comments := []models.Comment{{Upvotes: 11, Body: strings.Repeat("a", 201)}}
		// 12 + 5 + 8
		assert.Equal(t, 25.0, s.ReplyValueScore(models.Post{}, comments, verdict))
	})

	t.Run("high upvotes alone are not a strong answer", func(t *testing.T) {
		comments := []models.Comment{{Upvotes: 50, Body: "lol"}}
		assert.Equal(t, 30.0, s.ReplyValueScore(models.Post{}, comments, verdict))
	})

	t.Run("absent verdict contributes nothing", func(t *testing.T) {
		assert.Equal(t, 15.0, s.ReplyValueScore(models.Post{}, nil, models.FilterVerdict{}))
	})

	t.Run("capped at 40", func(t *testing.T) {
		max := models.FilterVerdict{DiscussionValue: 10, ReplyWorthiness: 10}
		// 15 + 15 + 10 = 40 exactly
		assert.Equal(t, 40.0, s.ReplyValueScore(models.Post{}, nil, max))
	})
}

func TestScorePostRanges(t *testing.T) {
	s := newTestScorer()
	posts := []models.Post{
		{Title: "How to improve speaking writing reading listening score", Upvotes: 500, NumComments: 400, CreatedUTC: float64(testNow.Unix())},
		{Title: "meh", Upvotes: -5, NumComments: 0, CreatedUTC: 0},
		{Title: "Any advice on the exam?", Upvotes: 3, NumComments: 7, CreatedUTC: float64(testNow.Unix() - 7200)},
	}
	verdicts := []models.FilterVerdict{
		{DiscussionValue: 10, ReplyWorthiness: 10},
		{},
		{DiscussionValue: 5, ReplyWorthiness: 7},
	}

	for i, post := range posts {
		scored := s.ScorePost(post, nil, verdicts[i])

		assert.GreaterOrEqual(t, scored.Relevance, 0.0)
		assert.LessOrEqual(t, scored.Relevance, MaxRelevance)
		assert.GreaterOrEqual(t, scored.Engagement, 0.0)
		assert.LessOrEqual(t, scored.Engagement, MaxEngagement)
		assert.GreaterOrEqual(t, scored.ReplyValue, 0.0)
		assert.LessOrEqual(t, scored.ReplyValue, MaxReplyValue)
		assert.Equal(t, scored.Relevance+scored.Engagement+scored.ReplyValue, scored.Total)
		assert.LessOrEqual(t, scored.Total, 100.0)
	}
}

func TestRankPosts(t *testing.T) {
	s := newTestScorer()
	scored := []models.ScoredPost{
		{Post: models.Post{ID: "low"}, Total: 20},
		{Post: models.Post{ID: "tie-first"}, Total: 50},
		{Post: models.Post{ID: "high"}, Total: 80},
		{Post: models.Post{ID: "tie-second"}, Total: 50},
	}

	t.Run("strict descending with stable ties", func(t *testing.T) {
		ranked := s.RankPosts(scored, 10)

		require.Len(t, ranked, 4)
		assert.Equal(t, "high", ranked[0].Post.ID)
		// Ties keep input order; the sort is stable and there is no
		// other tie-break.
		assert.Equal(t, "tie-first", ranked[1].Post.ID)
		assert.Equal(t, "tie-second", ranked[2].Post.ID)
		assert.Equal(t, "low", ranked[3].Post.ID)
	})

	t.Run("idempotent", func(t *testing.T) {
		first := s.RankPosts(scored, 10)
		second := s.RankPosts(first, 10)
		assert.Equal(t, first, second)
	})

	t.Run("keeps top n", func(t *testing.T) {
		ranked := s.RankPosts(scored, 2)
		require.Len(t, ranked, 2)
		assert.Equal(t, "high", ranked[0].Post.ID)
		assert.Equal(t, "tie-first", ranked[1].Post.ID)
	})

	t.Run("non-positive n yields empty", func(t *testing.T) {
		assert.Empty(t, s.RankPosts(scored, 0))
		assert.Empty(t, s.RankPosts(scored, -1))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		before := append([]models.ScoredPost(nil), scored...)
		s.RankPosts(scored, 1)
		assert.Equal(t, before, scored)
	})
}
