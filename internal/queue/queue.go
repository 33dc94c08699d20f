// Package queue hands work between engines through a message topic. The
// Publisher abstraction keeps the engines independent of the broker.
package queue

import "context"

// WebsiteTask asks the website-enrichment engine to scrape a company site.
type WebsiteTask struct {
	CompanyID string `json:"company_id"`
	Website   string `json:"website"`
}

// FederalTask asks the registry-lookup engine to fetch a CNPJ record.
type FederalTask struct {
	CompanyID string `json:"company_id"`
	CNPJ      string `json:"cnpj"`
}

// Publisher sends JSON task messages to a named topic.
type Publisher interface {
	// Publish marshals the message and sends it to the topic. Delivery is
	// confirmed before returning.
	Publish(ctx context.Context, topic string, message any) error

	// Close cleans up any client connections and resources.
	Close() error
}

// NoOpPublisher discards every message. Useful for local runs and tests
// that do not care about queue handoff.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(_ context.Context, _ string, _ any) error { return nil }

func (NoOpPublisher) Close() error { return nil }
