package github

import (
	"context"
	"fmt"
	"sort"
)

const discussionQuery = `query($org: String!, $number: Int!, $first: Int!) {
  organization(login: $org) {
    discussion(number: $number) {
      author { login }
      comments(first: $first) {
        nodes { author { login } }
      }
    }
  }
}`

type discussionData struct {
	Organization *struct {
		Discussion *struct {
			Author   *User `json:"author"`
			Comments struct {
				Nodes []struct {
					Author *User `json:"author"`
				} `json:"nodes"`
			} `json:"comments"`
		} `json:"discussion"`
	} `json:"organization"`
}

// DiscussionParticipants returns the sorted logins of a discussion's author
// and of the authors of its first limit comments. Deleted accounts are skipped.
func (c *Client) DiscussionParticipants(ctx context.Context, org string, number, limit int) ([]string, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var data discussionData
	err := c.Query(ctx, discussionQuery, map[string]any{
		"org":    org,
		"number": number,
		"first":  limit,
	}, &data)
	if err != nil {
		return nil, err
	}

	if data.Organization == nil {
		return nil, fmt.Errorf("organization %s: %w", org, ErrNotFound)
	}
	discussion := data.Organization.Discussion
	if discussion == nil {
		return nil, fmt.Errorf("discussion %s#%d: %w", org, number, ErrNotFound)
	}

	seen := make(map[string]bool)
	add := func(a *User) {
		if a != nil && a.Login != "" {
			seen[a.Login] = true
		}
	}

	add(discussion.Author)
	for _, node := range discussion.Comments.Nodes {
		add(node.Author)
	}

	participants := make([]string, 0, len(seen))
	for login := range seen {
		participants = append(participants, login)
	}
	sort.Strings(participants)

	return participants, nil
}
