// Package reddit implements the Reddit API client used to list and
// unsave the account's saved posts.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"reddit_actions/internal/model"
)

const (
	tokenURL = "https://www.reddit.com/api/v1/access_token"
	apiBase  = "https://oauth.reddit.com"

	// Reddit caps listing pages at 100 items.
	pageSize = 100
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credentials holds the script-app credentials for the password grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// Client talks to the Reddit API on behalf of a single account.
type Client struct {
	client    HTTPClient
	creds     Credentials
	userAgent string

	token       string
	tokenExpiry time.Time
	now         func() time.Time

	tokenBase string
	apiBase   string
}

// New creates a Client for the given account. Reddit requires a
// descriptive User-Agent on every request.
func New(client HTTPClient, creds Credentials, userAgent string) *Client {
	return &Client{
		client:    client,
		creds:     creds,
		userAgent: userAgent,
		now:       time.Now,
		tokenBase: tokenURL,
		apiBase:   apiBase,
	}
}

// SetBaseURLs overrides the token and API endpoints (useful for testing).
func (c *Client) SetBaseURLs(tokenBase, apiBase string) {
	c.tokenBase = tokenBase
	c.apiBase = apiBase
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

// accessToken returns a valid bearer token, requesting a new one via the
// password grant when the cached token is missing or about to expire.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.creds.Username)
	form.Set("password", c.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenBase, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.Error != "" {
		return "", fmt.Errorf("token endpoint error: %s", tok.Error)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}

	c.token = tok.AccessToken
	// Refresh one minute early to avoid racing the expiry.
	c.tokenExpiry = c.now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	return resp, nil
}

type listing struct {
	Kind string `json:"kind"`
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postData struct {
	Name       string  `json:"name"`
	Subreddit  string  `json:"subreddit"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	IsSelf     bool    `json:"is_self"`
	CreatedUTC float64 `json:"created_utc"`
	Permalink  string  `json:"permalink"`
}

// Saved returns the account's saved items, newest first, following the
// listing cursor until the end or until limit items have been collected.
// A limit of 0 means no limit.
func (c *Client) Saved(ctx context.Context, limit int) ([]model.SavedItem, error) {
	var items []model.SavedItem
	after := ""

	for {
		q := url.Values{}
		q.Set("raw_json", "1")
		page := pageSize
		if limit > 0 && limit-len(items) < page {
			page = limit - len(items)
		}
		q.Set("limit", strconv.Itoa(page))
		if after != "" {
			q.Set("after", after)
		}

		path := fmt.Sprintf("/user/%s/saved?%s", url.PathEscape(c.creds.Username), q.Encode())
		resp, err := c.do(ctx, http.MethodGet, path, nil, "")
		if err != nil {
			return nil, fmt.Errorf("list saved: %w", err)
		}

		var lst listing
		err = json.NewDecoder(resp.Body).Decode(&lst)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode saved listing: %w", err)
		}

		for _, child := range lst.Data.Children {
			item := model.SavedItem{Kind: child.Kind}
			if child.Kind == model.KindPost {
				var pd postData
				if err := json.Unmarshal(child.Data, &pd); err != nil {
					return nil, fmt.Errorf("decode post %s: %w", child.Kind, err)
				}
				item.Post = &model.Post{
					ID:        pd.Name,
					Subreddit: pd.Subreddit,
					Title:     pd.Title,
					URL:       pd.URL,
					IsSelf:    pd.IsSelf,
					CreatedAt: time.Unix(int64(pd.CreatedUTC), 0).UTC(),
					Permalink: pd.Permalink,
				}
			}
			items = append(items, item)
			if limit > 0 && len(items) >= limit {
				return items, nil
			}
		}

		if lst.Data.After == "" || len(lst.Data.Children) == 0 {
			return items, nil
		}
		after = lst.Data.After
	}
}

// Unsave removes the item with the given fullname from the account's
// saved list.
func (c *Client) Unsave(ctx context.Context, fullname string) error {
	form := url.Values{}
	form.Set("id", fullname)

	resp, err := c.do(ctx, http.MethodPost, "/api/unsave", strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded")
	if err != nil {
		return fmt.Errorf("unsave %s: %w", fullname, err)
	}
	_ = resp.Body.Close()
	return nil
}
