package archive

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"reddit_actions/internal/executor"
	"reddit_actions/internal/instapaper"
	"reddit_actions/internal/model"
	"reddit_actions/internal/rule"
)

type mockTransport struct {
	statusCode int
	requests   []*http.Request
}

func (m *mockTransport) Do(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEffect(transport *mockTransport) *Effect {
	client := instapaper.New(transport, "user", "pass", "reddit-actions/test")
	return New(client, testLogger())
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantErr   bool
		wantCalls int
	}{
		{
			name:      "excluded host fails without network call",
			url:       "https://i.redd.it/abcd.jpg",
			wantErr:   true,
			wantCalls: 0,
		},
		{
			name:      "excluded youtube shortener",
			url:       "https://youtu.be/dQw4w9WgXcQ",
			wantErr:   true,
			wantCalls: 0,
		},
		{
			name:      "unlisted subdomain of an excluded host is allowed",
			url:       "https://m.youtube.com/watch?v=abc",
			wantCalls: 1,
		},
		{
			name:      "regular host issues one call",
			url:       "https://www.example.com/article",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &mockTransport{statusCode: 200}
			effect := newEffect(transport)

			err := effect.Execute(context.Background(), model.Post{
				ID:        "t3_a",
				Subreddit: "news",
				Title:     "A title",
				URL:       tt.url,
			})

			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.wantCalls, len(transport.requests)); diff != "" {
				t.Errorf("request count mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecuteSelection(t *testing.T) {
	transport := &mockTransport{statusCode: 200}
	effect := newEffect(transport)

	err := effect.Execute(context.Background(), model.Post{
		Subreddit: "golang",
		Title:     "Generics in practice",
		URL:       "https://www.example.com/generics",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := transport.requests[0].URL.Query()
	if diff := cmp.Diff(`From r/golang: "Generics in practice"`, q.Get("selection")); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

type fakeSource struct {
	items   []model.SavedItem
	unsaved []string
}

func (f *fakeSource) Saved(_ context.Context, _ int) ([]model.SavedItem, error) {
	return f.items, nil
}

func (f *fakeSource) Unsave(_ context.Context, fullname string) error {
	f.unsaved = append(f.unsaved, fullname)
	return nil
}

// Scenario: a link post gets archived and unsaved, a self post in the
// same subreddit is ignored entirely.
func TestArchiveRuleEndToEnd(t *testing.T) {
	transport := &mockTransport{statusCode: 200}
	effect := newEffect(transport)
	r := NewRule(effect, nil, false, testLogger())

	source := &fakeSource{items: []model.SavedItem{
		{Kind: model.KindPost, Post: &model.Post{
			ID:        "t3_link",
			Subreddit: "news",
			Title:     "Link post",
			URL:       "https://www.example.com/article",
			IsSelf:    false,
		}},
		{Kind: model.KindPost, Post: &model.Post{
			ID:        "t3_self",
			Subreddit: "news",
			Title:     "Self post",
			URL:       "",
			IsSelf:    true,
		}},
	}}

	exec := executor.New([]*rule.Rule{r}, source, 0, false, testLogger())
	report, err := exec.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(1, len(transport.requests)); diff != "" {
		t.Errorf("archive call count mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"t3_link"}, source.unsaved); diff != "" {
		t.Errorf("unsaved posts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(1, report.Executed); diff != "" {
		t.Errorf("executed count mismatch (-want +got):\n%s", diff)
	}
}
