package models

import (
	"fmt"
	"strings"
)

// Post is a single forum submission as fetched from the Reddit read API.
// Immutable once parsed.
type Post struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Body        string  `json:"selftext"`
	Upvotes     int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Community   string  `json:"subreddit"`
}

// PermalinkURL builds the canonical reddit.com link for the post,
// falling back to the community + id form when the API gave no permalink.
func (p Post) PermalinkURL() string {
	if p.Permalink != "" {
		return "https://www.reddit.com" + p.Permalink
	}
	return fmt.Sprintf("https://www.reddit.com/r/%s/comments/%s", p.Community, p.ID)
}

// Comment is a single top-level comment on a Post. Reply trees are not
// modeled; only a flat prefix of top-level comments is used.
type Comment struct {
	ID         string  `json:"id"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	Upvotes    int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	Permalink  string  `json:"permalink"`
}

// Deleted reports whether the comment body was removed by Reddit.
func (c Comment) Deleted() bool {
	return strings.TrimSpace(c.Body) == "[deleted]"
}

// RedditListing is the envelope Reddit wraps every listing response in.
type RedditListing struct {
	Kind string            `json:"kind"`
	Data RedditListingData `json:"data"`
}

type RedditListingData struct {
	After    string               `json:"after"`
	Children []RedditListingChild `json:"children"`
}

type RedditListingChild struct {
	Kind string `json:"kind"`
	Data Post   `json:"data"`
}

// RedditCommentListing mirrors RedditListing for the comments endpoint.
// Child kind "t1" marks a comment; anything else ("more" stubs) is skipped.
type RedditCommentListing struct {
	Kind string                   `json:"kind"`
	Data RedditCommentListingData `json:"data"`
}

type RedditCommentListingData struct {
	Children []RedditCommentChild `json:"children"`
}

type RedditCommentChild struct {
	Kind string  `json:"kind"`
	Data Comment `json:"data"`
}
