package prcomment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var target = contract.CommentTarget{Repo: "acme/docs", Number: 7}

// fakeGitHub records the requests it receives.
type fakeGitHub struct {
	mu       sync.Mutex
	requests []recordedRequest
	comments []issueComment
	pages    [][]issueComment // served instead of comments when set
	status   int
}

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

func (f *fakeGitHub) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var in issueComment
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&in)
		}
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
			Body:   in.Body,
		})

		if f.status != 0 {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			if f.pages == nil {
				_ = json.NewEncoder(w).Encode(f.comments)
				return
			}
			page, err := strconv.Atoi(r.URL.Query().Get("page"))
			if err != nil || page < 1 {
				page = 1
			}
			if page < len(f.pages) {
				next := "http://" + r.Host + r.URL.Path + "?per_page=100&page=" + strconv.Itoa(page+1)
				last := "http://" + r.Host + r.URL.Path + "?per_page=100&page=" + strconv.Itoa(len(f.pages))
				w.Header().Set("Link", "<"+next+`>; rel="next", <`+last+`>; rel="last"`)
			}
			_ = json.NewEncoder(w).Encode(f.pages[page-1])
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(issueComment{ID: 99, Body: in.Body})
		case http.MethodPatch:
			_ = json.NewEncoder(w).Encode(issueComment{ID: 1, Body: in.Body})
		}
	})
}

func newTestClient(t *testing.T, f *fakeGitHub, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)
	return NewClient(context.Background(), server.URL+"/", "s3cret", opts...)
}

func TestClient_PostCreatesComment(t *testing.T) {
	f := &fakeGitHub{}
	client := newTestClient(t, f)

	err := client.Post(context.Background(), target, "## report\n")
	require.NoError(t, err)

	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/repos/acme/docs/issues/7/comments", req.Path)
	assert.Equal(t, "Bearer s3cret", req.Auth)
	assert.Equal(t, Marker+"\n## report\n", req.Body)
}

func TestClient_PostUpdatesPreviousReport(t *testing.T) {
	f := &fakeGitHub{comments: []issueComment{
		{ID: 1, Body: Marker + "\nold report"},
		{ID: 2, Body: "looks good to me"},
		{ID: 3, Body: Marker + "\nnewer report"},
	}}
	client := newTestClient(t, f, WithUpdate(true))

	require.NoError(t, client.Post(context.Background(), target, "## report\n"))

	require.Len(t, f.requests, 2)
	assert.Equal(t, http.MethodGet, f.requests[0].Method)
	assert.Equal(t, "/repos/acme/docs/issues/7/comments", f.requests[0].Path)
	assert.Equal(t, http.MethodPatch, f.requests[1].Method)
	assert.Equal(t, "/repos/acme/docs/issues/comments/3", f.requests[1].Path)
	assert.Equal(t, Marker+"\n## report\n", f.requests[1].Body)
}

func TestClient_PostUpdateFallsBackToCreate(t *testing.T) {
	f := &fakeGitHub{comments: []issueComment{{ID: 2, Body: "looks good to me"}}}
	client := newTestClient(t, f, WithUpdate(true))

	require.NoError(t, client.Post(context.Background(), target, "## report\n"))

	require.Len(t, f.requests, 2)
	assert.Equal(t, http.MethodGet, f.requests[0].Method)
	assert.Equal(t, http.MethodPost, f.requests[1].Method)
}

func TestClient_PostUpdatesReportOnLaterPage(t *testing.T) {
	first := make([]issueComment, 100)
	for i := range first {
		first[i] = issueComment{ID: int64(i + 1), Body: "comment " + strconv.Itoa(i+1)}
	}
	f := &fakeGitHub{pages: [][]issueComment{
		first,
		{{ID: 101, Body: Marker + "\nold report"}, {ID: 102, Body: "thanks"}},
	}}
	client := newTestClient(t, f, WithUpdate(true))

	require.NoError(t, client.Post(context.Background(), target, "## report\n"))

	require.Len(t, f.requests, 3)
	assert.Equal(t, http.MethodGet, f.requests[0].Method)
	assert.Equal(t, http.MethodGet, f.requests[1].Method)
	assert.Equal(t, http.MethodPatch, f.requests[2].Method)
	assert.Equal(t, "/repos/acme/docs/issues/comments/101", f.requests[2].Path)
}

func TestClient_PostKeepsNewestReportAcrossPages(t *testing.T) {
	f := &fakeGitHub{pages: [][]issueComment{
		{{ID: 1, Body: Marker + "\nfirst report"}},
		{{ID: 2, Body: "lgtm"}},
		{{ID: 3, Body: Marker + "\nsecond report"}, {ID: 4, Body: "ship it"}},
	}}
	client := newTestClient(t, f, WithUpdate(true))

	require.NoError(t, client.Post(context.Background(), target, "## report\n"))

	require.Len(t, f.requests, 4)
	assert.Equal(t, http.MethodPatch, f.requests[3].Method)
	assert.Equal(t, "/repos/acme/docs/issues/comments/3", f.requests[3].Path)
}

func TestNextPageURL(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		expected string
	}{
		{name: "no header", link: "", expected: ""},
		{
			name:     "next and last",
			link:     `<https://api.github.com/x?page=2>; rel="next", <https://api.github.com/x?page=5>; rel="last"`,
			expected: "https://api.github.com/x?page=2",
		},
		{
			name:     "last page",
			link:     `<https://api.github.com/x?page=1>; rel="first", <https://api.github.com/x?page=4>; rel="prev"`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.link != "" {
				header.Set("Link", tt.link)
			}
			assert.Equal(t, tt.expected, nextPageURL(header))
		})
	}
}

func TestClient_PostReportsAPIError(t *testing.T) {
	f := &fakeGitHub{status: http.StatusUnauthorized}
	client := newTestClient(t, f)

	err := client.Post(context.Background(), target, "## report\n")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Bad credentials", apiErr.Message)
	assert.Contains(t, err.Error(), "HTTP status 401")
}

func TestClient_PostUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(context.Background(), url, "s3cret")
	err := client.Post(context.Background(), target, "## report\n")
	assert.Error(t, err)
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Method: "POST", URL: "https://api.github.com/x", StatusCode: 500}
	assert.Equal(t, "github POST https://api.github.com/x: HTTP status 500", err.Error())
}
