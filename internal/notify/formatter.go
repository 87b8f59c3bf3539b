package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/spacesedan/replyradar/internal/models"
	"github.com/spacesedan/replyradar/internal/textutil"
)

// Discord embed limits.
const (
	MaxFieldNameLen  = 200
	MaxFieldValueLen = 1024

	embedColor = 0x5865F2
)

var styleLabels = map[models.ReplyStyle]string{
	models.StyleProfessional: "professional",
	models.StyleFriendly:     "friendly",
	models.StylePractical:    "practical",
}

// Formatter renders ranked analysis results into a Discord embed card
// and a plain-text digest. Stateless and deterministic given runTime.
type Formatter struct {
	communities []string
}

func NewFormatter(communities []string) *Formatter {
	return &Formatter{communities: communities}
}

// FormatResults builds the embed card: one field per result, each capped
// at the Discord field limits.
func (f *Formatter) FormatResults(results []models.AnalysisResult, runTime time.Time) models.Embed {
	fields := make([]models.EmbedField, 0, len(results))

	for i, result := range results {
		post := result.Post

		postAgeHours := int((runTime.Unix() - int64(post.CreatedUTC)) / 3600)
		timeAgo := formatTimeAgo(postAgeHours)

		var replies []string
		for _, r := range result.Replies {
			replies = append(replies, fmt.Sprintf("**Reply candidate (%s)**:\n%s", styleLabels[r.Style], r.Content))
		}

		value := fmt.Sprintf(`Score: %.0f/100 | Comments: %d | %s
[View post](%s)

**Summary**: %s
**Tone**: %s (suggested style: %s)

%s`,
			result.Score, post.NumComments, timeAgo, post.PermalinkURL(),
			result.Summary, result.Tone, result.SuggestedStyle,
			strings.Join(replies, "\n\n"))

		fields = append(fields, models.EmbedField{
			Name:   textutil.Truncate(fmt.Sprintf("🔥 #%d: %s", i+1, post.Title), MaxFieldNameLen),
			Value:  textutil.Truncate(value, MaxFieldValueLen),
			Inline: false,
		})
	}

	return models.Embed{
		Title:       fmt.Sprintf("📊 Reddit TOEFL Daily Report - Top %d", len(results)),
		Description: fmt.Sprintf("Found %d high-value posts worth replying to", len(results)),
		Color:       embedColor,
		Fields:      fields,
		Footer: &models.EmbedFooter{
			Text: fmt.Sprintf("Scanned %s | next run: %s", f.scannedCommunities(), formatNextRun(runTime)),
		},
		Timestamp: runTime.UTC().Format(time.RFC3339),
	}
}

// FormatDigest renders the same data as a plain-text fallback for when
// the embed is too long or the sink cannot display cards.
func (f *Formatter) FormatDigest(results []models.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 **Reddit TOEFL Daily Report - Top %d**\n\n", len(results))

	for i, result := range results {
		post := result.Post
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, post.Title)
		fmt.Fprintf(&b, "Score: %.0f/100 | Comments: %d\n", result.Score, post.NumComments)
		fmt.Fprintf(&b, "%s\n", post.PermalinkURL())
		fmt.Fprintf(&b, "Summary: %s\n\n", result.Summary)
	}

	return b.String()
}

func (f *Formatter) scannedCommunities() string {
	prefixed := make([]string, 0, len(f.communities))
	for _, c := range f.communities {
		prefixed = append(prefixed, "r/"+c)
	}
	return strings.Join(prefixed, ", ")
}

func formatTimeAgo(hours int) string {
	if hours < 1 {
		return "< 1 hour ago"
	}
	if hours < 24 {
		return fmt.Sprintf("%d hours ago", hours)
	}
	return fmt.Sprintf("%d days ago", hours/24)
}

func formatNextRun(currentRun time.Time) string {
	nextRun := currentRun.Add(24 * time.Hour)
	return fmt.Sprintf("tomorrow %02d:%02d", nextRun.Hour(), nextRun.Minute())
}
