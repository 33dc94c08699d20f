// Package federal implements the registry-lookup engine: it fetches the
// official federal record for a CNPJ and merges it into the company record.
package federal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/AurisAASI/backend-core/internal/model"
	"github.com/AurisAASI/backend-core/internal/resilience"
	"github.com/AurisAASI/backend-core/internal/store"
	"github.com/AurisAASI/backend-core/pkg/brasilapi"
)

// Config holds the per-invocation parameters of the lookup engine.
type Config struct {
	CompanyID string
	CNPJ      string

	// MaxRetries is the number of extra attempts after the first one for
	// rate-limited or transient failures.
	MaxRetries int
}

// Engine is the registry-lookup engine. One instance serves one invocation.
type Engine struct {
	cfg    Config
	client brasilapi.Client
	store  store.Store
	log    *zap.Logger

	// Sleep is swapped out in tests to observe backoff delays.
	Sleep func(time.Duration)
	Now   func() time.Time
}

// New creates a lookup engine.
func New(cfg Config, client brasilapi.Client, st store.Store) *Engine {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Engine{
		cfg:    cfg,
		client: client,
		store:  st,
		log: zap.L().With(
			zap.String("component", "federal.engine"),
			zap.String("company_id", cfg.CompanyID),
			zap.String("cnpj", cfg.CNPJ),
		),
		Sleep: time.Sleep,
		Now:   time.Now,
	}
}

func (e *Engine) Name() string { return "federal" }

// Run executes one lookup: validate the CNPJ shape, fetch the registry
// record with retries, and persist the result onto the company record in
// every path.
func (e *Engine) Run(ctx context.Context) (*model.Outcome, error) {
	outcome := model.NewOutcome()

	if len(e.cfg.CNPJ) != 14 {
		outcome.Fail(model.StatusFailed,
			fmt.Sprintf("Invalid CNPJ: %s", e.cfg.CNPJ))
		return outcome, e.persist(ctx, outcome, nil)
	}

	data := e.fetch(ctx, outcome)
	if data != nil {
		outcome.DataFetched = true
		outcome.Complete("Successfully fetched federal data")
	}

	e.log.Info("registry lookup finished",
		zap.String("status", string(outcome.Status)),
		zap.Bool("data_fetched", outcome.DataFetched))
	return outcome, e.persist(ctx, outcome, data)
}

// fetch calls the registry with exponential backoff on rate limits and
// transient failures. A 404 is a definitive answer and is never retried.
func (e *Engine) fetch(ctx context.Context, outcome *model.Outcome) map[string]any {
	attempts := e.cfg.MaxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := time.Duration(1<<(attempt-1)) * time.Second
			e.log.Info("retrying registry lookup",
				zap.Int("attempt", attempt), zap.Duration("wait", wait))
			e.Sleep(wait)
		}

		data, err := e.client.Lookup(ctx, e.cfg.CNPJ)
		if err == nil {
			return data
		}

		switch {
		case errors.Is(err, brasilapi.ErrNotFound):
			e.log.Warn("CNPJ not found in registry")
			outcome.Complete("CNPJ not found in federal registry")
			return nil

		case errors.Is(err, brasilapi.ErrRateLimited):
			if attempt < attempts {
				e.log.Warn("registry rate limit hit, will retry", zap.Int("attempt", attempt))
				continue
			}
			outcome.Fail(model.StatusFailed, "API rate limit exceeded")
			return nil

		case resilience.IsTimeout(err):
			if attempt < attempts {
				e.log.Warn("registry request timed out, will retry",
					zap.Int("attempt", attempt), zap.Error(err))
				continue
			}
			outcome.Fail(model.StatusFailed,
				fmt.Sprintf("API request timeout (after %d attempts)", attempt))
			return nil

		case resilience.IsTransient(err):
			if attempt < attempts {
				e.log.Warn("transient registry failure, will retry",
					zap.Int("attempt", attempt), zap.Error(err))
				continue
			}
			outcome.Fail(model.StatusFailed, "API request failed - max retries exceeded")
			return nil

		default:
			var statusErr *brasilapi.StatusError
			if errors.As(err, &statusErr) {
				e.log.Error("registry returned unexpected status",
					zap.Int("status", statusErr.StatusCode))
				outcome.Fail(model.StatusFailed,
					fmt.Sprintf("API error: HTTP %d", statusErr.StatusCode))
				return nil
			}
			e.log.Error("registry request failed", zap.Error(err))
			outcome.Fail(model.StatusFailed, "API request failed: "+err.Error())
			return nil
		}
	}

	outcome.Fail(model.StatusFailed, "API request failed - max retries exceeded")
	return nil
}

// persist merges the lookup result into the company record.
func (e *Engine) persist(ctx context.Context, outcome *model.Outcome, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	patch := map[string]any{
		"federal_data":            data,
		"federal_scraping_status": string(outcome.Status),
		"federal_scraping_reason": outcome.Reason,
		"federal_scraped_at":      e.Now().UTC().Format(time.RFC3339),
	}
	if err := e.store.UpdateCompany(ctx, e.cfg.CompanyID, patch); err != nil {
		e.log.Error("save federal data failed", zap.Error(err))
		return eris.Wrap(err, "federal: save company")
	}
	return nil
}
