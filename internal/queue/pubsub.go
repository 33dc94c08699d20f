package queue

import (
	"context"
	"encoding/json"
	"sync"

	"cloud.google.com/go/pubsub"
	"github.com/rotisserie/eris"
	"google.golang.org/api/option"
)

// PubSubPublisher implements Publisher on Google Cloud Pub/Sub. Topic
// handles are created lazily and cached for the life of the publisher.
type PubSubPublisher struct {
	client *pubsub.Client

	mu     sync.Mutex
	topics map[string]*pubsub.Topic
}

// NewPubSub creates a Pub/Sub backed publisher. It authenticates with
// Application Default Credentials unless explicit options are given.
func NewPubSub(ctx context.Context, projectID string, opts ...option.ClientOption) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "queue: create pubsub client")
	}
	return &PubSubPublisher{
		client: client,
		topics: make(map[string]*pubsub.Topic),
	}, nil
}

func (p *PubSubPublisher) topic(name string) *pubsub.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.topics[name]
	if !ok {
		t = p.client.Topic(name)
		p.topics[name] = t
	}
	return t
}

// Publish marshals the message as JSON and blocks until the server
// acknowledges it. Engines queue at most a handful of tasks per run, so
// the synchronous confirmation is cheap and keeps failures visible.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return eris.Wrap(err, "queue: marshal message")
	}

	result := p.topic(topic).Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return eris.Wrapf(err, "queue: publish to %s", topic)
	}
	return nil
}

// Close stops the cached topic publishers and closes the client.
func (p *PubSubPublisher) Close() error {
	p.mu.Lock()
	for _, t := range p.topics {
		t.Stop()
	}
	p.mu.Unlock()

	if err := p.client.Close(); err != nil {
		return eris.Wrap(err, "queue: close pubsub client")
	}
	return nil
}
