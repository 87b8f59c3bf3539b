package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/replyradar/config"
	"github.com/spacesedan/replyradar/internal/filter"
	"github.com/spacesedan/replyradar/internal/models"
	"github.com/spacesedan/replyradar/internal/notify"
	"github.com/spacesedan/replyradar/internal/replygen"
	"github.com/spacesedan/replyradar/internal/scorer"
	"github.com/spacesedan/replyradar/internal/sentiment"
)

// ForumClient fetches posts and comment listings. Implementations own
// the courtesy delay between community fetches, log transport failures
// and return empty slices; a failed community is indistinguishable from
// an empty one.
type ForumClient interface {
	FetchAllCommunities(ctx context.Context, communities []string, limit int) []models.Post
	FetchComments(ctx context.Context, community, postID string) []models.Comment
}

// TextGenerator is the synchronous generation collaborator.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Report is the output of one analyzer run.
type Report struct {
	Results []models.AnalysisResult
	Embed   models.Embed
	Digest  string
}

// Analyzer sequences the pipeline: fetch, pre-filter, classify, score,
// rank, generate replies, format. One goroutine, each stage consumes the
// previous stage's complete output.
type Analyzer struct {
	settings  *config.Settings
	client    ForumClient
	generator TextGenerator
	filter    *filter.ContentFilter
	scorer    *scorer.ContentScorer
	replyGen  *replygen.Generator
	formatter *notify.Formatter

	now func() time.Time
}

func New(settings *config.Settings, client ForumClient, generator TextGenerator) *Analyzer {
	return &Analyzer{
		settings:  settings,
		client:    client,
		generator: generator,
		filter:    filter.NewContentFilter(settings.MinComments, settings.MaxPostAgeDays),
		scorer:    scorer.NewContentScorer(),
		replyGen:  replygen.NewGenerator(),
		formatter: notify.NewFormatter(settings.Communities),
		now:       time.Now,
	}
}

// WithNow overrides the clock for the whole pipeline, for tests.
func (a *Analyzer) WithNow(now func() time.Time) *Analyzer {
	a.now = now
	a.filter.WithNow(now)
	a.scorer.WithNow(now)
	return a
}

// Run executes one full pass and returns the rendered report.
func (a *Analyzer) Run(ctx context.Context) (*Report, error) {
	slog.Info("[Analyzer] Starting run",
		slog.Any("communities", a.settings.Communities),
		slog.Int("top_count", a.settings.TopCount))

	allPosts := a.client.FetchAllCommunities(ctx, a.settings.Communities, a.settings.FetchLimit)
	slog.Info("[Analyzer] Fetched posts", slog.Int("count", len(allPosts)))

	preFiltered := a.preFilter(allPosts)
	slog.Info("[Analyzer] Pre-filter complete",
		slog.Int("remaining", len(preFiltered)),
		slog.Int("rejected", len(allPosts)-len(preFiltered)))

	analyzed := a.classifyAndScore(ctx, preFiltered)
	slog.Info("[Analyzer] Classification complete", slog.Int("scored", len(analyzed)))

	topPosts := a.scorer.RankPosts(analyzed, a.settings.TopCount)
	slog.Info("[Analyzer] Ranked finalists", slog.Int("count", len(topPosts)))

	results := a.generateReplies(ctx, topPosts)

	runTime := a.now()
	report := &Report{
		Results: results,
		Embed:   a.formatter.FormatResults(results, runTime),
		Digest:  a.formatter.FormatDigest(results),
	}

	slog.Info("[Analyzer] Run complete", slog.Int("results", len(results)))
	return report, nil
}

func (a *Analyzer) preFilter(posts []models.Post) []models.Post {
	var passed []models.Post
	for _, post := range posts {
		verdict := a.filter.PreFilter(post)
		if !verdict.Passed {
			slog.Debug("[Analyzer] Pre-filter rejected post",
				slog.String("post_id", post.ID),
				slog.String("reason", verdict.Reason))
			continue
		}
		passed = append(passed, post)
	}
	return passed
}

// classifyAndScore runs the classification gate and scorer over at most
// BatchLimit pre-filtered posts, one at a time. A failing post is logged
// and skipped; it never aborts the batch.
func (a *Analyzer) classifyAndScore(ctx context.Context, posts []models.Post) []models.ScoredPost {
	if len(posts) > a.settings.BatchLimit {
		posts = posts[:a.settings.BatchLimit]
	}

	var analyzed []models.ScoredPost
	for _, post := range posts {
		select {
		case <-ctx.Done():
			slog.Warn("[Analyzer] Context cancelled during classification")
			return analyzed
		default:
		}

		scored, err := a.analyzePost(ctx, post)
		if err != nil {
			slog.Warn("[Analyzer] Skipping post",
				slog.String("post_id", post.ID),
				slog.String("reason", err.Error()))
			continue
		}

		analyzed = append(analyzed, *scored)
		slog.Info("[Analyzer] Post scored",
			slog.String("post_id", post.ID),
			slog.Float64("score", scored.Total))
	}

	return analyzed
}

func (a *Analyzer) analyzePost(ctx context.Context, post models.Post) (*models.ScoredPost, error) {
	comments := a.client.FetchComments(ctx, post.Community, post.ID)

	topComments := comments
	if len(topComments) > 5 {
		topComments = topComments[:5]
	}
	commentBodies := make([]string, 0, len(topComments))
	for _, c := range topComments {
		commentBodies = append(commentBodies, c.Body)
	}

	prompt := a.filter.BuildClassificationPrompt(post, commentBodies)
	response, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("classification call failed: %w", err)
	}

	verdict := a.filter.ParseClassification(response)
	if !verdict.Passed {
		return nil, fmt.Errorf("classification gate: %s", verdict.Reason)
	}

	scored := a.scorer.ScorePost(post, comments, verdict)
	return &scored, nil
}

// generateReplies builds the final AnalysisResult for each finalist:
// three styled reply candidates, a tone tag and the sub-score summary.
func (a *Analyzer) generateReplies(ctx context.Context, topPosts []models.ScoredPost) []models.AnalysisResult {
	results := make([]models.AnalysisResult, 0, len(topPosts))

	for _, scored := range topPosts {
		select {
		case <-ctx.Done():
			slog.Warn("[Analyzer] Context cancelled during reply generation")
			return results
		default:
		}

		prompt := a.replyGen.BuildPrompt(scored.Post, scored.Comments)

		var replies []models.ReplyCandidate
		response, err := a.generator.Generate(ctx, prompt)
		if err != nil {
			slog.Warn("[Analyzer] Reply generation failed, using fallback",
				slog.String("post_id", scored.Post.ID),
				slog.String("error", err.Error()))
			replies = replygen.FallbackReplies()
		} else {
			replies = a.replyGen.ParseReplies(response)
		}

		_, tone := sentiment.AnalyzeTone(scored.Post.Title + " " + scored.Post.Body)

		topComments := scored.Comments
		if len(topComments) > 3 {
			topComments = topComments[:3]
		}

		results = append(results, models.AnalysisResult{
			Post:        scored.Post,
			TopComments: topComments,
			Score:       scored.Total,
			Summary: fmt.Sprintf("Relevance: %.0f/30, Engagement: %.0f/30, Reply value: %.0f/40",
				scored.Relevance, scored.Engagement, scored.ReplyValue),
			Tone:           tone,
			SuggestedStyle: sentiment.SuggestStyle(tone),
			Replies:        replies,
		})
	}

	return results
}
