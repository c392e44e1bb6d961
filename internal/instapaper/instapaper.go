// Package instapaper is a minimal client for the Instapaper simple API.
package instapaper

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const addEndpoint = "https://www.instapaper.com/api/add"

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client adds URLs to an Instapaper account.
type Client struct {
	client    HTTPClient
	authValue string
	userAgent string
}

// New creates a Client authenticating as the given user. The basic-auth
// header value is computed once here.
func New(client HTTPClient, username, password, userAgent string) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return &Client{
		client:    client,
		authValue: "Basic " + creds,
		userAgent: userAgent,
	}
}

// Add saves a URL to the account's reading list. The selection text is
// stored alongside the URL as a human-readable annotation.
func (c *Client) Add(ctx context.Context, pageURL, selection string) error {
	q := url.Values{}
	q.Set("url", pageURL)
	if selection != "" {
		q.Set("selection", selection)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.authValue)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
