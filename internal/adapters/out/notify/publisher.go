// Package notify delivers best-effort notifications to the finance and
// audit collaborators over HTTP. Delivery runs after the core transaction
// has committed; a failed delivery is reported to the caller for logging
// and never retried here.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"transferflow/internal/core/ports"
)

// defaultRequestTimeout bounds one delivery attempt when the caller's
// context carries no earlier deadline.
const defaultRequestTimeout = 5 * time.Second

// WebhookPublisher posts JSON notification payloads to a collaborator
// endpoint. One publisher instance serves both the workflow-level and
// action-level hooks; the payload's "event" field discriminates.
type WebhookPublisher struct {
	endpoint string
	client   *http.Client
}

// NewWebhookPublisher creates a publisher delivering to the given endpoint.
func NewWebhookPublisher(endpoint string) *WebhookPublisher {
	return &WebhookPublisher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultRequestTimeout},
	}
}

// PublishWorkflowPlanned delivers a workflow state-change notification.
func (p *WebhookPublisher) PublishWorkflowPlanned(ctx context.Context, n ports.WorkflowNotification) error {
	return p.post(ctx, "workflow_planned", n)
}

// PublishActionExecuted delivers an action state-change notification.
func (p *WebhookPublisher) PublishActionExecuted(ctx context.Context, n ports.ActionNotification) error {
	return p.post(ctx, actionEvent(n), n)
}

// actionEvent names the wire event after the state change the
// notification carries, so skips and rollbacks do not masquerade as
// executions in the audit stream.
func actionEvent(n ports.ActionNotification) string {
	switch n.Status {
	case "Skipped":
		return "action_skipped"
	case "Failed":
		return "action_failed"
	case "Pending":
		if n.PriorStatus == "Completed" {
			return "action_rolled_back"
		}
		return "action_retried"
	default:
		return "action_executed"
	}
}

func (p *WebhookPublisher) post(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(struct {
		Event   string `json:"event"`
		Payload any    `json:"payload"`
	}{Event: event, Payload: payload})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}

	return nil
}

// NopPublisher discards every notification. Used when no collaborator
// endpoint is configured, for example in local development.
type NopPublisher struct{}

// NewNopPublisher creates a publisher that drops all notifications.
func NewNopPublisher() NopPublisher {
	return NopPublisher{}
}

// PublishWorkflowPlanned discards the notification.
func (NopPublisher) PublishWorkflowPlanned(_ context.Context, _ ports.WorkflowNotification) error {
	return nil
}

// PublishActionExecuted discards the notification.
func (NopPublisher) PublishActionExecuted(_ context.Context, _ ports.ActionNotification) error {
	return nil
}
