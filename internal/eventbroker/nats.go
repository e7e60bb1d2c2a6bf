// Package eventbroker publishes post mutation events to NATS. Downstream
// consumers (other caches, feeds, audit) subscribe to post.* subjects
// instead of being called by the repository directly.
package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Abhijit47/blog-api/internal/model"
)

const (
	SubjectPostCreated = "post.created"
	SubjectPostUpdated = "post.updated"
	SubjectPostDeleted = "post.deleted"
)

// PostEvent is the wire contract shared with subscribers.
type PostEvent struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NatsPublisher publishes post events over a NATS connection.
type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

func (p *NatsPublisher) PostCreated(ctx context.Context, post model.Post) error {
	return p.publish(SubjectPostCreated, PostEvent{
		ID:         post.ID,
		AuthorID:   post.AuthorID,
		Title:      post.Title,
		OccurredAt: post.CreatedAt,
	})
}

func (p *NatsPublisher) PostUpdated(ctx context.Context, ownerID, id string) error {
	return p.publish(SubjectPostUpdated, PostEvent{
		ID:         id,
		AuthorID:   ownerID,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *NatsPublisher) PostDeleted(ctx context.Context, ownerID, id string) error {
	return p.publish(SubjectPostDeleted, PostEvent{
		ID:         id,
		AuthorID:   ownerID,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *NatsPublisher) publish(subject string, event PostEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}
	return p.nc.Publish(subject, data)
}
