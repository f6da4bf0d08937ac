package main

import (
	"context"
	"log"
	"strings"
)

// Label and title-marker vocabulary. Comparisons are exact: the marker is a
// literal substring of the title, never a pattern or a case-folded match.
const (
	labelReviewRequired   = "review-required"
	labelChangesRequested = "changes-requested"
	labelWIP              = "WIP"

	wipMarker = "[WIP]"
	wipPrefix = "[WIP] "
)

func containsLabel(labels []string, name string) bool {
	for _, l := range labels {
		if l == name {
			return true
		}
	}
	return false
}

// handlePROpened labels a fresh pull request as awaiting review, and as WIP
// when the title carries the marker. Both labels go out in one call.
func (s *Server) handlePROpened(ctx context.Context, p *WebhookPayload) error {
	client, err := s.installationClient(ctx, p.Installation.ID)
	if err != nil {
		return err
	}

	labels := []string{labelReviewRequired}
	if strings.Contains(p.PullRequest.Title, wipMarker) {
		labels = append(labels, labelWIP)
	}

	log.Printf("[Rules] PR #%d opened in %s, adding labels %v\n",
		p.PullRequest.Number, p.Repository.FullName, labels)
	return client.AddLabels(ctx, p.Repository.Owner.Login, p.Repository.Name, p.PullRequest.Number, labels)
}

// handlePREdited reconciles the WIP label with the possibly-edited title.
// Exactly one of add, remove, or nothing happens, decided against the labels
// currently on the pull request.
func (s *Server) handlePREdited(ctx context.Context, p *WebhookPayload) error {
	client, err := s.installationClient(ctx, p.Installation.ID)
	if err != nil {
		return err
	}

	owner, repo, number := p.Repository.Owner.Login, p.Repository.Name, p.PullRequest.Number
	current, err := client.ListLabels(ctx, owner, repo, number)
	if err != nil {
		return err
	}

	marked := strings.Contains(p.PullRequest.Title, wipMarker)
	labeled := containsLabel(current, labelWIP)

	switch {
	case marked && !labeled:
		log.Printf("[Rules] PR #%d title gained %s, adding %s label\n", number, wipMarker, labelWIP)
		return client.AddLabels(ctx, owner, repo, number, []string{labelWIP})
	case labeled && !marked:
		log.Printf("[Rules] PR #%d title lost %s, removing %s label\n", number, wipMarker, labelWIP)
		return client.RemoveLabel(ctx, owner, repo, number, labelWIP)
	}
	return nil
}

// handlePRReopened re-applies the WIP label when the title carries the
// marker. The add is unconditional; GitHub treats re-adding a present label
// as a no-op.
func (s *Server) handlePRReopened(ctx context.Context, p *WebhookPayload) error {
	if !strings.Contains(p.PullRequest.Title, wipMarker) {
		return nil
	}

	client, err := s.installationClient(ctx, p.Installation.ID)
	if err != nil {
		return err
	}

	log.Printf("[Rules] PR #%d reopened with %s title, adding %s label\n",
		p.PullRequest.Number, wipMarker, labelWIP)
	return client.AddLabels(ctx, p.Repository.Owner.Login, p.Repository.Name, p.PullRequest.Number, []string{labelWIP})
}

// handlePRLabeled prefixes the title with the marker when the WIP label was
// just added and the title does not show it yet.
func (s *Server) handlePRLabeled(ctx context.Context, p *WebhookPayload) error {
	if p.Label.Name != labelWIP || strings.Contains(p.PullRequest.Title, wipMarker) {
		return nil
	}

	client, err := s.installationClient(ctx, p.Installation.ID)
	if err != nil {
		return err
	}

	title := wipPrefix + p.PullRequest.Title
	log.Printf("[Rules] PR #%d labeled %s, setting title to %q\n", p.PullRequest.Number, labelWIP, title)
	return client.SetTitle(ctx, p.Repository.Owner.Login, p.Repository.Name, p.PullRequest.Number, title)
}

// handlePRUnlabeled strips the first literal occurrence of "[WIP] " from the
// title when the WIP label was just removed. Literal-substring removal only:
// no trimming, no whitespace normalization.
func (s *Server) handlePRUnlabeled(ctx context.Context, p *WebhookPayload) error {
	if p.Label.Name != labelWIP || !strings.Contains(p.PullRequest.Title, wipPrefix) {
		return nil
	}

	client, err := s.installationClient(ctx, p.Installation.ID)
	if err != nil {
		return err
	}

	title := strings.Replace(p.PullRequest.Title, wipPrefix, "", 1)
	log.Printf("[Rules] PR #%d unlabeled %s, setting title to %q\n", p.PullRequest.Number, labelWIP, title)
	return client.SetTitle(ctx, p.Repository.Owner.Login, p.Repository.Name, p.PullRequest.Number, title)
}

// handleReviewSubmitted marks a pull request as needing changes. Reviews in
// any state but changes_requested are a strict no-op, checked before the
// installation client exists so nothing goes over the wire.
func (s *Server) handleReviewSubmitted(ctx context.Context, p *WebhookPayload) error {
	if p.Review.State != "changes_requested" {
		return nil
	}

	client, err := s.installationClient(ctx, p.Installation.ID)
	if err != nil {
		return err
	}

	owner, repo, number := p.Repository.Owner.Login, p.Repository.Name, p.PullRequest.Number
	current, err := client.ListLabels(ctx, owner, repo, number)
	if err != nil {
		return err
	}

	log.Printf("[Rules] PR #%d has changes requested, adding %s label\n", number, labelChangesRequested)
	if err := client.AddLabels(ctx, owner, repo, number, []string{labelChangesRequested}); err != nil {
		return err
	}

	if containsLabel(current, labelReviewRequired) {
		return client.RemoveLabel(ctx, owner, repo, number, labelReviewRequired)
	}
	return nil
}
