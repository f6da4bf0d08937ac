package main

import (
	"context"
	"fmt"

	"github.com/google/go-github/v60/github"
)

// Client wraps the GitHub API client with the four operations the rules
// need. Labels on a pull request live on the underlying issue, so the label
// operations go through the Issues service.
type Client struct {
	gh *github.Client
}

// ListLabels fetches the names of the labels currently on a pull request.
func (c *Client) ListLabels(ctx context.Context, owner, repo string, number int) ([]string, error) {
	labels, _, err := c.gh.Issues.ListLabelsByIssue(ctx, owner, repo, number, nil)
	if err != nil {
		return nil, fmt.Errorf("github: failed to list labels: %w", err)
	}

	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.GetName())
	}
	return names, nil
}

// AddLabels adds labels to a pull request in a single call.
func (c *Client) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	_, _, err := c.gh.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels)
	if err != nil {
		return fmt.Errorf("github: failed to add labels %v: %w", labels, err)
	}
	return nil
}

// RemoveLabel removes one named label from a pull request.
func (c *Client) RemoveLabel(ctx context.Context, owner, repo string, number int, label string) error {
	_, err := c.gh.Issues.RemoveLabelForIssue(ctx, owner, repo, number, label)
	if err != nil {
		return fmt.Errorf("github: failed to remove label %q: %w", label, err)
	}
	return nil
}

// SetTitle rewrites a pull request's title.
func (c *Client) SetTitle(ctx context.Context, owner, repo string, number int, title string) error {
	_, _, err := c.gh.PullRequests.Edit(ctx, owner, repo, number, &github.PullRequest{
		Title: github.String(title),
	})
	if err != nil {
		return fmt.Errorf("github: failed to update title: %w", err)
	}
	return nil
}
