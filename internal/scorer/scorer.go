package scorer

import (
	"sort"
	"strings"
	"time"

	"github.com/spacesedan/replyradar/internal/models"
)

// Sub-score ceilings. Total is only ever bounded by their sum (100).
const (
	MaxRelevance  = 30.0
	MaxEngagement = 30.0
	MaxReplyValue = 40.0
)

var questionWords = []string{"how", "why", "what", "tips", "advice", "help", "recommend"}

var coreTopics = []string{
	"speaking",
	"writing",
	"reading",
	"listening",
	"score",
	"preparation",
	"study",
	"practice",
	"exam",
	"test",
}

// ContentScorer computes the weighted quality score for posts that
// survived both filter stages. All methods are pure given the clock.
type ContentScorer struct {
	now func() time.Time
}

func NewContentScorer() *ContentScorer {
	return &ContentScorer{now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *ContentScorer) WithNow(now func() time.Time) *ContentScorer {
	s.now = now
	return s
}

// RelevanceScore scores topical fit: +10 for any question word, +5 per
// matched core-topic keyword capped at 20, clamped to [0,30].
func (s *ContentScorer) RelevanceScore(post models.Post) float64 {
	var score float64

	lowerTitle := strings.ToLower(post.Title)
	lowerBody := strings.ToLower(post.Body)

	for _, word := range questionWords {
		if strings.Contains(lowerTitle, word) || strings.Contains(lowerBody, word) {
			score += 10
			break
		}
	}

	var topicMatches float64
	for _, topic := range coreTopics {
		if strings.Contains(lowerTitle, topic) || strings.Contains(lowerBody, topic) {
			topicMatches++
		}
	}
	score += min(topicMatches*5, 20)

	return clamp(score, 0, MaxRelevance)
}

// EngagementScore scores activity: comment volume (0-15), upvotes (0-10)
// and a freshness tier (0-5), clamped to [0,30].
func (s *ContentScorer) EngagementScore(post models.Post) float64 {
	score := min(float64(post.NumComments)/2, 15)
	score += min(float64(post.Upvotes), 10)

	postAgeHours := (float64(s.now().Unix()) - post.CreatedUTC) / 3600
	switch {
	case postAgeHours < 6:
		score += 5
	case postAgeHours < 24:
		score += 3
	case postAgeHours < 48:
		score += 1
	}

	return clamp(score, 0, MaxEngagement)
}

// ReplyValueScore scores how much a reply would add: the classifier's
// discussion value (0-15), how well the thread is already answered
// (5/10/15) and the classifier's reply worthiness (0-10), clamped to
// [0,40]. A strong existing answer (upvotes > 10 and a long body)
// lowers the contribution rather than zeroing it.
func (s *ContentScorer) ReplyValueScore(post models.Post, comments []models.Comment, verdict models.FilterVerdict) float64 {
	var score float64

	if verdict.DiscussionValue > 0 {
		score += float64(verdict.DiscussionValue) / 10 * 15
	}

	hasStrongAnswer := false
	for _, c := range comments {
		if c.Upvotes > 10 && len(c.Body) > 200 {
			hasStrongAnswer = true
			break
		}
	}
	switch {
	case hasStrongAnswer:
		score += 5
	case len(comments) > 0:
		score += 10
	default:
		score += 15
	}

	if verdict.ReplyWorthiness > 0 {
		score += float64(verdict.ReplyWorthiness) / 10 * 10
	}

	return clamp(score, 0, MaxReplyValue)
}

// ScorePost computes all three sub-scores and their total.
func (s *ContentScorer) ScorePost(post models.Post, comments []models.Comment, verdict models.FilterVerdict) models.ScoredPost {
	relevance := s.RelevanceScore(post)
	engagement := s.EngagementScore(post)
	replyValue := s.ReplyValueScore(post, comments, verdict)

	return models.ScoredPost{
		Post:       post,
		Comments:   comments,
		Total:      relevance + engagement + replyValue,
		Relevance:  relevance,
		Engagement: engagement,
		ReplyValue: replyValue,
		Verdict:    verdict,
	}
}

// RankPosts sorts descending by total score and keeps the top n. The
// sort is stable, so equal totals keep their input order; there is no
// other tie-break.
func (s *ContentScorer) RankPosts(scored []models.ScoredPost, n int) []models.ScoredPost {
	if n <= 0 {
		return []models.ScoredPost{}
	}

	ranked := append([]models.ScoredPost(nil), scored...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
