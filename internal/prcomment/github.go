// Package prcomment posts quality reports as pull request comments on GitHub.
package prcomment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/huangsam/qualitygate/internal/contract"
	"golang.org/x/oauth2"
)

// Marker is prepended to every posted report so later runs can find it.
const Marker = "<!-- qualitygate-report -->"

// DefaultTimeout bounds every request to the GitHub API.
const DefaultTimeout = 30 * time.Second

const userAgent = "qualitygate"

// maxCommentPages bounds how many pages of comments are scanned for Marker.
const maxCommentPages = 50

// APIError is a non-success response from the GitHub API.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github %s %s: HTTP status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github %s %s: HTTP status %d", e.Method, e.URL, e.StatusCode)
}

// Client implements contract.CommentPoster against the GitHub REST API.
type Client struct {
	baseURL string
	http    *http.Client
	update  bool
}

var _ contract.CommentPoster = &Client{} // Compile-time check

// Option customizes a Client.
type Option func(*Client)

// WithUpdate makes the client edit its previous report comment instead of
// adding a new one on every run.
func WithUpdate(update bool) Option {
	return func(c *Client) { c.update = update }
}

// WithHTTPClient replaces the authenticated HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client that authenticates with token against baseURL.
func NewClient(ctx context.Context, baseURL, token string, opts ...Option) *Client {
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	hc.Timeout = DefaultTimeout

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// issueComment is the subset of the GitHub comment resource the client uses.
type issueComment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// Post implements the CommentPoster interface.
func (c *Client) Post(ctx context.Context, target contract.CommentTarget, markdown string) error {
	body := Marker + "\n" + markdown

	if c.update {
		id, err := c.findReportComment(ctx, target)
		if err != nil {
			return err
		}
		if id != 0 {
			url := fmt.Sprintf("%s/repos/%s/issues/comments/%d", c.baseURL, target.Repo, id)
			return c.do(ctx, http.MethodPatch, url, issueComment{Body: body}, nil)
		}
	}

	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments", c.baseURL, target.Repo, target.Number)
	return c.do(ctx, http.MethodPost, url, issueComment{Body: body}, nil)
}

// findReportComment returns the id of the newest comment carrying Marker, or 0.
// GitHub lists comments oldest first, so every page is scanned.
func (c *Client) findReportComment(ctx context.Context, target contract.CommentTarget) (int64, error) {
	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments?per_page=100", c.baseURL, target.Repo, target.Number)
	var found int64
	for page := 0; url != "" && page < maxCommentPages; page++ {
		var comments []issueComment
		header, err := c.doRequest(ctx, http.MethodGet, url, nil, &comments)
		if err != nil {
			return 0, err
		}
		for _, comment := range comments {
			if strings.HasPrefix(comment.Body, Marker) {
				found = comment.ID
			}
		}
		url = nextPageURL(header)
	}
	return found, nil
}

// nextPageURL returns the rel="next" target of a Link header, or "".
func nextPageURL(header http.Header) string {
	for _, link := range strings.Split(header.Get("Link"), ",") {
		parts := strings.Split(link, ";")
		if len(parts) < 2 {
			continue
		}
		for _, param := range parts[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return strings.Trim(strings.TrimSpace(parts[0]), "<>")
			}
		}
	}
	return ""
}

// do sends one JSON request and decodes the JSON response into out when set.
func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	_, err := c.doRequest(ctx, method, url, in, out)
	return err
}

// doRequest is do but also returns the response headers.
func (c *Client) doRequest(ctx context.Context, method, url string, in, out any) (http.Header, error) {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github %s %s: %w", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Method: method, URL: url, StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return nil, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.Header, nil
}
