package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Server carries the per-process collaborators for the webhook endpoint.
// Everything per-request (payload, tokens, clients) is threaded through the
// call chain; nothing here mutates after startup.
type Server struct {
	cfg *Config
	bus *EventBus // nil when AMQP_URL is not configured
}

// verifyWebhookSignature validates a webhook signature header of the form
// "<algorithm>=<hexdigest>" against the raw request body. An absent header
// decomposes to an empty sha1 digest, which can never match a real one.
func verifyWebhookSignature(payload []byte, signature, secret string) bool {
	algorithm, digest, _ := strings.Cut(signature, "=")

	var newHash func() hash.Hash
	switch algorithm {
	case "", "sha1":
		newHash = sha1.New
	case "sha256":
		newHash = sha256.New
	default:
		return false
	}

	h := hmac.New(newHash, []byte(secret))
	h.Write(payload)
	expected := hex.EncodeToString(h.Sum(nil))

	// Constant time comparison of the hex strings.
	return hmac.Equal([]byte(expected), []byte(digest))
}

// WebhookHandler is the single inbound endpoint. The signature is verified
// over the raw body before the body is parsed; every delivery that passes
// verification is answered "ok" unless a rule's outbound call fails.
func (s *Server) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read body", http.StatusInternalServerError)
		return
	}

	signature := r.Header.Get("X-Hub-Signature-256")
	if signature == "" {
		signature = r.Header.Get("X-Hub-Signature")
	}
	if !verifyWebhookSignature(body, signature, s.cfg.WebhookSecret) {
		log.Println("[Webhook] rejected delivery: signature verification failed")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		// The signature checked out, so this is a legitimate but malformed
		// delivery. Proceed with an empty payload; the router ignores it.
		log.Printf("[Webhook] could not parse payload, treating as empty: %v\n", err)
		payload = WebhookPayload{}
	}

	handled, err := s.dispatchEvent(r.Context(), eventType, &payload)
	if err != nil {
		log.Printf("[Webhook] event %s action %q failed: %v\n", eventType, payload.Action, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if handled && s.bus != nil {
		if err := s.bus.Publish(ProcessedEvent{
			Repo:       payload.Repository.FullName,
			PRNumber:   payload.PullRequest.Number,
			EventType:  eventType,
			Action:     payload.Action,
			ReceivedAt: time.Now(),
		}); err != nil {
			log.Printf("[Webhook] Warning: could not publish to event feed: %v\n", err)
		}
	}

	w.Write([]byte("ok"))
}

// dispatchEvent routes a verified event to its rule and reports whether the
// event/action pair was recognized. Unrecognized pairs are ignored, not
// errors.
func (s *Server) dispatchEvent(ctx context.Context, eventType string, p *WebhookPayload) (bool, error) {
	switch eventType + ":" + p.Action {
	case "pull_request:opened":
		return true, s.handlePROpened(ctx, p)
	case "pull_request:edited":
		return true, s.handlePREdited(ctx, p)
	case "pull_request:reopened":
		return true, s.handlePRReopened(ctx, p)
	case "pull_request:labeled":
		return true, s.handlePRLabeled(ctx, p)
	case "pull_request:unlabeled":
		return true, s.handlePRUnlabeled(ctx, p)
	case "pull_request_review:submitted":
		return true, s.handleReviewSubmitted(ctx, p)
	default:
		log.Printf("[Webhook] ignoring event %s action %q\n", eventType, p.Action)
		return false, nil
	}
}
