package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// User is a GitHub account reference
type User struct {
	Login string `json:"login"`
}

// PullRequest is the subset of a pull request the dashboard uses
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"html_url"`
	State  string `json:"state"`
	User   *User  `json:"user"`
}

// Author returns the PR author's login, or "" for deleted accounts
func (p PullRequest) Author() string {
	if p.User == nil {
		return ""
	}
	return p.User.Login
}

// PullRequests lists up to limit pull requests of owner/name in any state
func (c *Client) PullRequests(ctx context.Context, owner, name string, limit int) ([]PullRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	query := url.Values{}
	query.Set("state", "all")
	query.Set("per_page", strconv.Itoa(limit))

	var prs []PullRequest
	path := fmt.Sprintf("/repos/%s/%s/pulls", url.PathEscape(owner), url.PathEscape(name))
	if err := c.Get(ctx, path, query, &prs); err != nil {
		return nil, err
	}

	return prs, nil
}
