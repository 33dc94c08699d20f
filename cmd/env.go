package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/AurisAASI/backend-core/internal/model"
	"github.com/AurisAASI/backend-core/internal/queue"
	"github.com/AurisAASI/backend-core/internal/store"
)

// initStore connects to Postgres and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initQueue builds the configured task publisher.
func initQueue(ctx context.Context) (queue.Publisher, error) {
	switch cfg.Queue.Provider {
	case "pubsub":
		return queue.NewPubSub(ctx, cfg.Queue.ProjectID)
	case "noop", "":
		return queue.NoOpPublisher{}, nil
	default:
		return nil, eris.Errorf("unknown queue provider %q", cfg.Queue.Provider)
	}
}

// printOutcome writes the outcome JSON to stdout for the caller.
func printOutcome(outcome *model.Outcome) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}
