package enrich

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/ideaboard/internal/github"
	"github.com/ppiankov/ideaboard/internal/llm"
	"github.com/ppiankov/ideaboard/internal/model"
)

type fakeHistory map[string][]string

func (f fakeHistory) Contributors(ctx context.Context, path string) Result[[]string] {
	names, ok := f[path]
	if !ok {
		return Unavailable[[]string]("no history")
	}
	return Found(names)
}

type fakeDiscussions struct {
	calls []int
	data  map[int][]string
}

func (f *fakeDiscussions) Participants(ctx context.Context, number int) Result[[]string] {
	f.calls = append(f.calls, number)
	names, ok := f.data[number]
	if !ok {
		return Unavailable[[]string]("absent")
	}
	return Found(names)
}

type fakeProvider struct {
	summary string
	err     error
	calls   int
}

func (f *fakeProvider) Name() string                         { return "fake" }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }
func (f *fakeProvider) Summarize(ctx context.Context, req llm.SummarizeRequest) (*llm.SummarizeResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.SummarizeResponse{Summary: f.summary}, nil
}

func sampleIdeas() []*model.Idea {
	return []*model.Idea{
		{ID: "A", Filename: "Idea-A.md", Path: "Idea-A.md", OneLiner: "Alpha", Body: "# Idea A"},
		{ID: "B", Filename: "Idea-B.md", Path: "Idea-B.md", Discussion: &model.DiscussionRef{Number: 42}, Body: "# Idea B\nBody"},
		{ID: "C", Filename: "Idea-C.md", Path: "Idea-C.md", Discussion: &model.DiscussionRef{Number: 7}},
	}
}

func TestEnrich_MissingCredential(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := github.NewClient(github.Options{APIURL: server.URL})
	ideas := sampleIdeas()

	enricher := New(Options{
		History:      NewGitHistory(t.TempDir(), 5*time.Second, nil),
		Discussions:  NewDiscussions(client, "OWASP-BLT", 100, nil),
		PullRequests: NewPullRequests(client, "OWASP-BLT", "BLT-Ideas", 100, nil),
	})

	stats := enricher.Enrich(context.Background(), ideas)

	for _, idea := range ideas {
		if len(idea.Contributors) != 0 {
			t.Errorf("Expected no contributors for %s, got %v", idea.ID, idea.Contributors)
		}
	}
	if stats.Discussions != 0 || stats.PullRequests != 0 {
		t.Errorf("Expected no GitHub data, got %+v", stats)
	}
	if calls.Load() != 0 {
		t.Errorf("Expected no HTTP calls without a token, got %d", calls.Load())
	}
}

func TestEnrich_DiscussionOnlyWhenReferenced(t *testing.T) {
	discussions := &fakeDiscussions{data: map[int][]string{42: {"zoe", "adam"}}}
	ideas := sampleIdeas()

	New(Options{Discussions: discussions}).Enrich(context.Background(), ideas)

	if !reflect.DeepEqual(discussions.calls, []int{42, 7}) {
		t.Errorf("Expected lookups for threads 42 and 7 only, got %v", discussions.calls)
	}
	if !reflect.DeepEqual(ideas[1].DiscussionParticipants, []string{"zoe", "adam"}) {
		t.Errorf("Unexpected participants for B: %v", ideas[1].DiscussionParticipants)
	}
	if ideas[2].DiscussionParticipants != nil {
		t.Errorf("Expected absent thread to leave C empty, got %v", ideas[2].DiscussionParticipants)
	}
}

func TestEnrich_MergesSources(t *testing.T) {
	ideas := sampleIdeas()

	prs := []github.PullRequest{
		{Number: 1, Title: "Idea B: clarify scope", User: &github.User{Login: "pat"}},
	}

	enricher := New(Options{
		History:      fakeHistory{"Idea-B.md": {"Zed", "adam"}},
		Discussions:  &fakeDiscussions{data: map[int][]string{42: {"adam", "mia"}}},
		PullRequests: staticPulls(AttributePullRequests(prs, []string{"A", "B", "C"})),
	})

	stats := enricher.Enrich(context.Background(), ideas)

	want := []string{"Zed", "adam", "mia", "pat"}
	if !reflect.DeepEqual(ideas[1].Contributors, want) {
		t.Errorf("Contributors = %v, want %v", ideas[1].Contributors, want)
	}
	if stats.History != 1 || stats.Discussions != 1 || stats.PullRequests != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

type staticPulls map[string][]string

func (s staticPulls) AuthorsByIdea(ctx context.Context, ids []string) Result[map[string][]string] {
	return Found(map[string][]string(s))
}

func TestEnrich_Backfill(t *testing.T) {
	provider := &fakeProvider{summary: "Generated sentence."}
	ideas := sampleIdeas()

	stats := New(Options{Backfill: NewBackfill(provider, "", nil)}).Enrich(context.Background(), ideas)

	if ideas[0].OneLiner != "Alpha" || ideas[0].OneLinerGenerated {
		t.Errorf("Expected written one-liner to be kept, got %q (generated=%v)", ideas[0].OneLiner, ideas[0].OneLinerGenerated)
	}
	if ideas[1].OneLiner != "Generated sentence." || !ideas[1].OneLinerGenerated {
		t.Errorf("Expected generated one-liner for B, got %q", ideas[1].OneLiner)
	}
	if ideas[2].OneLiner != "" {
		t.Errorf("Expected empty body to be skipped, got %q", ideas[2].OneLiner)
	}
	if provider.calls != 1 || stats.Backfilled != 1 {
		t.Errorf("Expected one provider call, got %d (stats %+v)", provider.calls, stats)
	}
}

func TestEnrich_BackfillFailureLeavesEmpty(t *testing.T) {
	provider := &fakeProvider{err: errors.New("quota exceeded")}
	ideas := sampleIdeas()

	New(Options{Backfill: NewBackfill(provider, "", nil)}).Enrich(context.Background(), ideas)

	if ideas[1].OneLiner != "" || ideas[1].OneLinerGenerated {
		t.Errorf("Expected failed backfill to leave one-liner empty, got %q", ideas[1].OneLiner)
	}
}

func TestAttributePullRequests(t *testing.T) {
	user := func(login string) *github.User { return &github.User{Login: login} }

	prs := []github.PullRequest{
		{Title: "Idea B: tighten scope", User: user("ana")},
		{Title: "Update Idea B and Idea E", User: user("bob")},
		{Title: "Idea B typo", User: user("ana")},
		{Title: "Idea L follow-up", User: user("cy")},
		{Title: "README only", User: user("dee")},
		{Title: "Idea A", User: nil},
	}

	got := AttributePullRequests(prs, []string{"A", "B", "E.1", "E.2", "L2"})
	want := map[string][]string{
		"B":   {"ana", "bob"},
		"E.1": {"bob"},
		"E.2": {"bob"},
		"L2":  {"cy"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AttributePullRequests() = %v, want %v", got, want)
	}
}

func TestResult_ValueOr(t *testing.T) {
	if got := Found(3).ValueOr(9); got != 3 {
		t.Errorf("Expected found value 3, got %d", got)
	}
	if got := Unavailable[int]("x").ValueOr(9); got != 9 {
		t.Errorf("Expected default 9, got %d", got)
	}
}
