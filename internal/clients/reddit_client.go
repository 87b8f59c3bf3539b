package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/spacesedan/replyradar/internal/models"
)

const (
	REDDIT_AUTH_URL = "https://www.reddit.com/api/v1/access_token"
	REDDIT_API_URL  = "https://oauth.reddit.com"
)

var (
	redditClientInstance *RedditClient
	redditClientOnce     sync.Once
)

// RedditClient fetches posts and comment listings from the Reddit read
// API. Transport or API failures are logged and surface as empty slices;
// the pipeline treats a failed community as one that had nothing to say.
type RedditClient struct {
	Config *clientcredentials.Config
	Client *http.Client
	mu     *sync.Mutex

	// baseURL and delay are fixed in production, overridable in tests
	baseURL string
	delay   time.Duration
}

func GetRedditClient() *RedditClient {
	redditClientOnce.Do(func() {
		oauthConf := &clientcredentials.Config{
			ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
			ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
			TokenURL:     REDDIT_AUTH_URL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}

		redditClientInstance = &RedditClient{
			Config:  oauthConf,
			Client:  oauthConf.Client(context.Background()),
			mu:      &sync.Mutex{},
			baseURL: REDDIT_API_URL,
			delay:   FETCH_DELAY,
		}
	})

	return redditClientInstance
}

func (rc *RedditClient) RefreshClient() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.Client = rc.Config.Client(context.Background())
}

// FetchPosts returns the newest posts of a community, up to limit.
func (rc *RedditClient) FetchPosts(ctx context.Context, community string, limit int) []models.Post {
	endpoint := fmt.Sprintf("%s/r/%s/new", rc.baseURL, community)

	body, err := rc.get(ctx, endpoint, url.Values{"limit": {strconv.Itoa(limit)}})
	if err != nil {
		slog.Error("[RedditClient] Failed to fetch posts",
			slog.String("community", community),
			slog.String("error", err.Error()))
		return []models.Post{}
	}

	var listing models.RedditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		slog.Error("[RedditClient] Failed to decode post listing",
			slog.String("community", community),
			slog.String("error", err.Error()))
		return []models.Post{}
	}

	posts := make([]models.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts
}

// FetchComments returns the flat top-level comments of a post. Reddit
// answers with a two-element array: [0] the post listing, [1] the
// comment listing; only kind "t1" children of [1] are comments.
func (rc *RedditClient) FetchComments(ctx context.Context, community, postID string) []models.Comment {
	endpoint := fmt.Sprintf("%s/r/%s/comments/%s", rc.baseURL, community, postID)

	body, err := rc.get(ctx, endpoint, nil)
	if err != nil {
		slog.Error("[RedditClient] Failed to fetch comments",
			slog.String("post_id", postID),
			slog.String("error", err.Error()))
		return []models.Comment{}
	}

	var listings []models.RedditCommentListing
	if err := json.Unmarshal(body, &listings); err != nil {
		slog.Error("[RedditClient] Failed to decode comment listing",
			slog.String("post_id", postID),
			slog.String("error", err.Error()))
		return []models.Comment{}
	}
	if len(listings) < 2 {
		return []models.Comment{}
	}

	comments := make([]models.Comment, 0, len(listings[1].Data.Children))
	for _, child := range listings[1].Data.Children {
		if child.Kind != "t1" || child.Data.Deleted() {
			continue
		}
		comments = append(comments, child.Data)
	}
	return comments
}

// FetchAllCommunities fetches each community in turn with a courtesy
// delay between requests. One failing community contributes an empty
// slice and does not abort the rest.
func (rc *RedditClient) FetchAllCommunities(ctx context.Context, communities []string, limit int) []models.Post {
	var allPosts []models.Post

	for i, community := range communities {
		if i > 0 {
			select {
			case <-ctx.Done():
				slog.Warn("[RedditClient] Context cancelled, stopping community fetch")
				return allPosts
			case <-time.After(rc.delay):
			}
		}

		posts := rc.FetchPosts(ctx, community, limit)
		slog.Info("[RedditClient] Fetched community",
			slog.String("community", community),
			slog.Int("posts", len(posts)))
		allPosts = append(allPosts, posts...)
	}

	return allPosts
}

func (rc *RedditClient) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to parse URL: %w", err)
	}
	if query != nil {
		parsedURL.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := rc.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		slog.Warn("[RedditClient] Token expired - Refreshing and Retrying...")
		rc.RefreshClient()

		retry, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
		if err != nil {
			return nil, err
		}
		retry.Header.Set("User-Agent", USER_AGENT)

		retryResp, err := rc.Client.Do(retry)
		if err != nil {
			return nil, err
		}
		defer retryResp.Body.Close()
		if retryResp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("[RedditClient] Unexpected status after token refresh: %d", retryResp.StatusCode)
		}
		return io.ReadAll(retryResp.Body)
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	}

	return nil, fmt.Errorf("[RedditClient] Unexpected status: %d", resp.StatusCode)
}
