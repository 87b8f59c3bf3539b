package filter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spacesedan/replyradar/internal/models"
	"github.com/spacesedan/replyradar/internal/textutil"
)

const classifyBodyPreviewLen = 500

// scorePattern matches a bare 90-123, the typical range of a self-reported
// TOEFL score. It will also hit unrelated numbers in that range; that
// over-trigger is accepted, score-disclosure posts are cheap to lose.
var scorePattern = regexp.MustCompile(`\b(11\d|12[0-3]|10\d|9\d)\b`)

var adKeywords = []string{
	"discount",
	"coupon",
	"promo",
	"sale",
	"buy",
	"purchase",
	"offer",
	"deal",
	"code",
	"%off",
}

// ContentFilter is the two-stage gate in front of scoring: a local
// keyword/metadata pre-filter, then an LLM classification pass whose
// prompt and parsing live here while the actual call is delegated.
type ContentFilter struct {
	minComments    int
	maxPostAgeDays float64
	now            func() time.Time
}

func NewContentFilter(minComments int, maxPostAgeDays float64) *ContentFilter {
	return &ContentFilter{
		minComments:    minComments,
		maxPostAgeDays: maxPostAgeDays,
		now:            time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (f *ContentFilter) WithNow(now func() time.Time) *ContentFilter {
	f.now = now
	return f
}

// PreFilter applies the deterministic first stage. No external calls.
func (f *ContentFilter) PreFilter(post models.Post) models.FilterVerdict {
	if post.NumComments < f.minComments {
		return models.FilterVerdict{
			Passed: false,
			Reason: fmt.Sprintf("too few comments (%d < %d)", post.NumComments, f.minComments),
		}
	}

	postAgeSeconds := float64(f.now().Unix()) - post.CreatedUTC
	postAgeDays := postAgeSeconds / 86400
	if postAgeDays > f.maxPostAgeDays {
		return models.FilterVerdict{
			Passed: false,
			Reason: fmt.Sprintf("post too old (%.1f days > %g days)", postAgeDays, f.maxPostAgeDays),
		}
	}

	if scorePattern.MatchString(post.Title) || scorePattern.MatchString(post.Body) {
		return models.FilterVerdict{
			Passed:         false,
			Reason:         "likely score-disclosure post",
			IsScoreShowing: true,
		}
	}

	lowerTitle := strings.ToLower(post.Title)
	lowerBody := strings.ToLower(post.Body)
	for _, keyword := range adKeywords {
		if strings.Contains(lowerTitle, keyword) || strings.Contains(lowerBody, keyword) {
			return models.FilterVerdict{
				Passed: false,
				Reason: fmt.Sprintf("contains ad keyword: %s", keyword),
				IsAd:   true,
			}
		}
	}

	return models.FilterVerdict{Passed: true}
}

// BuildClassificationPrompt builds the second-stage prompt embedding the
// post title, a truncated body and up to 3 comment bodies. Pure; the
// generation call itself is the caller's job.
func (f *ContentFilter) BuildClassificationPrompt(post models.Post, topComments []string) string {
	if len(topComments) > 3 {
		topComments = topComments[:3]
	}

	body := post.Body
	if len(body) > classifyBodyPreviewLen {
		body = body[:classifyBodyPreviewLen] + "..."
	}

	return fmt.Sprintf(`Analyze this Reddit post and decide whether it is worth replying to:

Title: %s

Body: %s

Top comments:
%s

Respond with a JSON object in exactly this shape:
{
  "isAd": boolean,
  "isScoreShowing": boolean,
  "hasSubstantiveQuestion": boolean,
  "discussionValue": number,
  "replyWorthiness": number
}

isAd: the post is an advertisement or promotion.
isScoreShowing: the post mainly announces the author's exam score.
hasSubstantiveQuestion: the post asks a real, answerable question.
discussionValue and replyWorthiness are integers from 1 to 10.

Return only the JSON object, no extra commentary.`,
		post.Title, body, strings.Join(topComments, "\n---\n"))
}

// ParseClassification validates the generation response against the
// fixed schema and turns it into the stage-two verdict. Anything that is
// not a complete, well-shaped object fails closed.
func (f *ContentFilter) ParseClassification(response string) models.FilterVerdict {
	failed := models.FilterVerdict{Passed: false, Reason: "classification failed"}

	var parsed models.ClassificationResponse
	if err := json.Unmarshal([]byte(textutil.CleanJSONResponse(response)), &parsed); err != nil {
		return failed
	}
	if parsed.IsAd == nil || parsed.IsScoreShowing == nil || parsed.HasSubstantiveQuestion == nil ||
		parsed.DiscussionValue == nil || parsed.ReplyWorthiness == nil {
		return failed
	}
	if *parsed.DiscussionValue < 1 || *parsed.DiscussionValue > 10 ||
		*parsed.ReplyWorthiness < 1 || *parsed.ReplyWorthiness > 10 {
		return failed
	}

	verdict := models.FilterVerdict{
		IsAd:                   *parsed.IsAd,
		IsScoreShowing:         *parsed.IsScoreShowing,
		HasSubstantiveQuestion: *parsed.HasSubstantiveQuestion,
		DiscussionValue:        *parsed.DiscussionValue,
		ReplyWorthiness:        *parsed.ReplyWorthiness,
	}

	switch {
	case verdict.IsAd:
		verdict.Reason = "classified as advertisement"
	case verdict.IsScoreShowing:
		verdict.Reason = "classified as score-disclosure post"
	case !verdict.HasSubstantiveQuestion:
		verdict.Reason = "no substantive question"
	case verdict.ReplyWorthiness < 5:
		verdict.Reason = fmt.Sprintf("reply worthiness too low (%d/10)", verdict.ReplyWorthiness)
	default:
		verdict.Passed = true
	}

	return verdict
}
