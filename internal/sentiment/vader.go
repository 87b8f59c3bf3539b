package sentiment

import (
	"github.com/jonreiter/govader"

	"github.com/spacesedan/replyradar/internal/models"
	"github.com/spacesedan/replyradar/internal/textutil"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

// AnalyzeTone runs VADER over the markdown-stripped text and maps the
// compound score to a coarse label.
func AnalyzeTone(text string) (float64, string) {
	plainText := textutil.MarkdownToText(text)

	polarity := analyzer.PolarityScores(plainText)
	score := polarity.Compound

	var label string
	if score >= 0.20 {
		label = "positive"
	} else if score <= -0.20 {
		label = "negative"
	} else {
		label = "neutral"
	}

	return score, label
}

// SuggestStyle picks which of the three reply styles fits a post's tone:
// frustrated posters get the friendly reply, upbeat ones the practical
// checklist, everyone else the professional breakdown.
func SuggestStyle(label string) models.ReplyStyle {
	switch label {
	case "negative":
		return models.StyleFriendly
	case "positive":
		return models.StylePractical
	default:
		return models.StyleProfessional
	}
}
