package model

import "sort"

// Idea represents one parsed idea document
type Idea struct {
	ID       string `json:"id"`                 // Short identifier (e.g., "A", "E.1", "RS")
	Filename string `json:"filename"`           // Source file name (e.g., "Idea-E.1.md")
	Path     string `json:"path,omitempty"`     // Path relative to the source root

	RawTitle string `json:"raw_title"`          // First heading as written
	Title    string `json:"title"`              // Heading with the "Idea X — " prefix removed

	OneLiner          string `json:"one_liner,omitempty"`
	OneLinerGenerated bool   `json:"one_liner_generated,omitempty"` // Filled by the LLM backfill, not the document

	Discussion *DiscussionRef `json:"discussion,omitempty"` // Linked discussion thread, nil if none
	Repo       string         `json:"repo"`                 // Associated repository as "org/name"
	Related    []string       `json:"related,omitempty"`    // Referenced idea IDs, sorted, never contains ID

	GitContributors        []string `json:"git_contributors,omitempty"`
	DiscussionParticipants []string `json:"discussion_participants,omitempty"`
	PullRequestAuthors     []string `json:"pull_request_authors,omitempty"`
	Contributors           []string `json:"contributors,omitempty"` // Sorted union of the three sources

	Body string `json:"-"` // Raw document text
}

// DiscussionRef points to an external discussion thread
type DiscussionRef struct {
	URL    string `json:"url"`
	Number int    `json:"number"`
}

// HasDiscussion reports whether the idea links a discussion thread
func (i *Idea) HasDiscussion() bool {
	return i.Discussion != nil && i.Discussion.Number > 0
}

// RepoName returns the repository name without its organization
func (i *Idea) RepoName() string {
	for j := len(i.Repo) - 1; j >= 0; j-- {
		if i.Repo[j] == '/' {
			return i.Repo[j+1:]
		}
	}
	return i.Repo
}

// MergeContributors recomputes Contributors as the sorted union of all sources
func (i *Idea) MergeContributors() {
	seen := make(map[string]bool)
	var merged []string

	for _, source := range [][]string{i.GitContributors, i.DiscussionParticipants, i.PullRequestAuthors} {
		for _, name := range source {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			merged = append(merged, name)
		}
	}

	sort.Strings(merged)
	i.Contributors = merged
}
