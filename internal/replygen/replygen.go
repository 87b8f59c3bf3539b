package replygen

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spacesedan/replyradar/internal/models"
	"github.com/spacesedan/replyradar/internal/textutil"
)

const (
	bodyPreviewLen    = 800
	commentExcerptLen = 200
	maxCommentPreview = 5
)

// Generator builds reply-generation prompts and validates the structured
// result. The generation call itself is delegated to the caller.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// BuildPrompt embeds the post, its comment count and up to 5 comment
// excerpts into a request for three styled reply candidates.
func (g *Generator) BuildPrompt(post models.Post, topComments []models.Comment) string {
	if len(topComments) > maxCommentPreview {
		topComments = topComments[:maxCommentPreview]
	}

	previews := make([]string, 0, len(topComments))
	for _, c := range topComments {
		previews = append(previews, fmt.Sprintf("- %s: %s", c.Author, textutil.Excerpt(c.Body, commentExcerptLen)))
	}

	body := post.Body
	if len(body) > bodyPreviewLen {
		body = body[:bodyPreviewLen] + "..."
	}

	return fmt.Sprintf(`Generate 3 reply candidates for this Reddit post.

# Post
Title: %s
Body: %s
Comment count: %d

# Existing top comments
%s

# Task
Write 3 reply candidates in different styles:

1. **professional**:
   - structured, authoritative advice
   - cites common methods and experience
   - formal register
   - length: 150-250 words

2. **friendly**:
   - opens with empathy
   - shares personal experience
   - encouraging, positive suggestions
   - length: 120-200 words

3. **practical**:
   - answers the core question directly
   - concrete steps or resources
   - no padding
   - length: 80-150 words

# Constraints
- do not mention any product or service
- focus on being genuinely helpful
- reply in English
- natural tone that fits the Reddit community

# Output format
Return a JSON array in exactly this shape:
[
  {"style": "professional", "content": "..."},
  {"style": "friendly", "content": "..."},
  {"style": "practical", "content": "..."}
]

Return only the JSON array, no extra commentary.`,
		post.Title, body, post.NumComments, strings.Join(previews, "\n"))
}

// ParseReplies validates the generation response: a JSON array of exactly
// 3 entries with known style tags and non-empty content. Any deviation
// yields the fixed fallback set so downstream always sees 3 candidates.
func (g *Generator) ParseReplies(response string) []models.ReplyCandidate {
	var replies []models.ReplyCandidate
	if err := json.Unmarshal([]byte(textutil.CleanJSONResponse(response)), &replies); err != nil {
		slog.Warn("[ReplyGenerator] Failed to parse generated replies, using fallback",
			slog.String("error", err.Error()))
		return FallbackReplies()
	}

	if len(replies) != len(models.ReplyStyles) {
		slog.Warn("[ReplyGenerator] Unexpected reply count, using fallback",
			slog.Int("count", len(replies)))
		return FallbackReplies()
	}
	for _, r := range replies {
		if !r.Style.Valid() || r.Content == "" {
			slog.Warn("[ReplyGenerator] Malformed reply entry, using fallback",
				slog.String("style", string(r.Style)))
			return FallbackReplies()
		}
	}

	return replies
}

// FallbackReplies returns the generic candidate set used whenever
// generation or parsing fails, one per required style.
func FallbackReplies() []models.ReplyCandidate {
	return []models.ReplyCandidate{
		{
			Style:   models.StyleProfessional,
			Content: "I'd be happy to help with your TOEFL preparation. Could you provide more details about your specific concerns?",
		},
		{
			Style:   models.StyleFriendly,
			Content: "Hey! I've been through the TOEFL prep journey too. What specific area are you struggling with?",
		},
		{
			Style:   models.StylePractical,
			Content: "Check out the official TOEFL practice materials and Khan Academy TOEFL prep. They're great starting points.",
		},
	}
}
