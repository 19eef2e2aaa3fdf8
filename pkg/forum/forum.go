// Package forum reads public discussion about a bill from Reddit.
package forum

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vartanbeno/go-reddit/v2/reddit"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/xhad/sanket/internal/logging"
	"github.com/xhad/sanket/internal/models"
)

type ForumConfig struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
	BaseURL      string // overrides the API host, for tests and proxies
	TokenURL     string
	Logger       *slog.Logger
}

// Query selects posts to read.
type Query struct {
	Communities     []string
	Text            string
	Sort            string // relevance, hot, top, new, comments
	TimeWindow      string // hour, day, week, month, year, all
	Limit           int
	CommentsPerPost int
}

// Post is a submission title with a handful of its top-level comments.
type Post struct {
	Title       string
	TopComments []string
}

// Client is a read-only Reddit search client.
type Client struct {
	config ForumConfig
	logger *slog.Logger

	searchPosts func(ctx context.Context, query, community string, opts *reddit.ListPostSearchOptions) ([]*reddit.Post, error)
	comments    func(ctx context.Context, postID string) ([]*reddit.Comment, error)
}

func NewWithConfig(config ForumConfig) (*Client, error) {
	if config.UserAgent == "" {
		config.UserAgent = "sanket:bill-sentiment:v1.0"
	}
	c := &Client{config: config, logger: logging.OrDefault(config.Logger)}
	if !c.Configured() {
		return c, nil
	}

	rc, err := newRedditClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create reddit client: %w", err)
	}

	c.searchPosts = func(ctx context.Context, query, community string, opts *reddit.ListPostSearchOptions) ([]*reddit.Post, error) {
		posts, _, err := rc.Subreddit.SearchPosts(ctx, query, community, opts)
		return posts, err
	}
	c.comments = func(ctx context.Context, postID string) ([]*reddit.Comment, error) {
		thread, _, err := rc.Post.Get(ctx, postID)
		if err != nil {
			return nil, err
		}
		return thread.Comments, nil
	}

	return c, nil
}

const (
	defaultBaseURL  = "https://oauth.reddit.com"
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"
)

// newRedditClient signs in as the script user when a username and password
// are set, and otherwise with an app-only client credentials token.
func newRedditClient(config ForumConfig) (*reddit.Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	tokenURL := config.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}

	opts := []reddit.Opt{
		reddit.WithUserAgent(config.UserAgent),
		reddit.WithBaseURL(baseURL),
		reddit.WithTokenURL(tokenURL),
	}

	if config.Username != "" && config.Password != "" {
		return reddit.NewClient(reddit.Credentials{
			ID:       config.ClientID,
			Secret:   config.ClientSecret,
			Username: config.Username,
			Password: config.Password,
		}, opts...)
	}

	// Token requests need the user agent too.
	tokenClient := &http.Client{Transport: &userAgentTransport{userAgent: config.UserAgent}}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, tokenClient)
	appOnly := clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return reddit.NewReadonlyClient(append(opts, reddit.WithHTTPClient(appOnly.Client(ctx)))...)
}

type userAgentTransport struct {
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return http.DefaultTransport.RoundTrip(req)
}

// Configured reports whether API credentials were supplied. A client ID and
// secret are enough; a username and password switch to the script grant.
func (c *Client) Configured() bool {
	return c.config.ClientID != "" && c.config.ClientSecret != ""
}

// SearchPosts searches the communities jointly and collects each post's
// title and first top-level comments. Comment fetch failures only drop that
// post's comments.
func (c *Client) SearchPosts(ctx context.Context, q Query) ([]Post, error) {
	const op = "search forum"
	if !c.Configured() || c.searchPosts == nil {
		return nil, models.NewError(models.KindConfiguration, op,
			"Discussion service is not configured.", nil)
	}
	if q.Sort == "" {
		q.Sort = "relevance"
	}
	if q.Limit <= 0 {
		q.Limit = 25
	}

	opts := &reddit.ListPostSearchOptions{
		ListPostOptions: reddit.ListPostOptions{
			ListOptions: reddit.ListOptions{Limit: q.Limit},
			Time:        q.TimeWindow,
		},
		Sort: q.Sort,
	}

	found, err := c.searchPosts(ctx, q.Text, strings.Join(q.Communities, "+"), opts)
	if err != nil {
		return nil, models.NewError(models.KindUpstream, op,
			"The discussion service is unavailable right now.", err)
	}

	posts := make([]Post, 0, len(found))
	for _, p := range found {
		if p == nil {
			continue
		}
		if len(posts) >= q.Limit {
			break
		}
		post := Post{Title: p.Title}
		if q.CommentsPerPost > 0 {
			post.TopComments = c.topComments(ctx, p.ID, q.CommentsPerPost)
		}
		posts = append(posts, post)
	}

	c.logger.Debug("forum search complete", "query", q.Text, "posts", len(posts))
	return posts, nil
}

func (c *Client) topComments(ctx context.Context, postID string, limit int) []string {
	comments, err := c.comments(ctx, postID)
	if err != nil {
		c.logger.Warn("failed to load comments", "post", postID, "error", err)
		return nil
	}

	var bodies []string
	for _, comment := range comments {
		if len(bodies) == limit {
			break
		}
		if comment == nil {
			continue
		}
		body := strings.TrimSpace(comment.Body)
		if body == "" || body == "[deleted]" || body == "[removed]" {
			continue
		}
		bodies = append(bodies, body)
	}
	return bodies
}
