package main

// Repository represents the repository block of a webhook payload.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Owner    struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// PullRequest represents the pull_request block of a webhook payload.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// WebhookPayload is the subset of the GitHub webhook JSON the rules read.
// The label block is only present on labeled/unlabeled events, the review
// block only on pull_request_review events.
type WebhookPayload struct {
	Action       string      `json:"action"`
	PullRequest  PullRequest `json:"pull_request"`
	Repository   Repository  `json:"repository"`
	Installation struct {
		ID int64 `json:"id"`
	} `json:"installation"`
	Label struct {
		Name string `json:"name"`
	} `json:"label"`
	Review struct {
		State string `json:"state"`
	} `json:"review"`
}
