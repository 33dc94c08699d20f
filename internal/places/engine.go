// Package places implements the place-discovery engine: it runs the
// configured search terms for a niche against the Places API, deduplicates
// the candidates, persists them, and queues website-enrichment tasks.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AurisAASI/backend-core/internal/model"
	"github.com/AurisAASI/backend-core/internal/queue"
	"github.com/AurisAASI/backend-core/internal/store"
	"github.com/AurisAASI/backend-core/pkg/places"
)

// Config holds the per-invocation parameters of the discovery engine.
type Config struct {
	Niche string
	City  string
	State string

	QuotaLimit       int
	DuplicateRadiusM float64
	WebsiteTopic     string
	TermsPath        string
}

// Engine is the place-discovery engine. One instance serves one invocation.
type Engine struct {
	cfg    Config
	client places.Client
	store  store.Store
	queue  queue.Publisher
	ledger *QuotaLedger
	log    *zap.Logger

	// Sleep is swapped out in tests to observe politeness delays.
	Sleep func(time.Duration)
}

// New creates a discovery engine.
func New(cfg Config, client places.Client, st store.Store, pub queue.Publisher) *Engine {
	if cfg.DuplicateRadiusM <= 0 {
		cfg.DuplicateRadiusM = 50
	}
	return &Engine{
		cfg:    cfg,
		client: client,
		store:  st,
		queue:  pub,
		ledger: NewQuotaLedger(cfg.QuotaLimit),
		log: zap.L().With(
			zap.String("component", "places.engine"),
			zap.String("niche", cfg.Niche),
			zap.String("city", cfg.City),
		),
		Sleep: time.Sleep,
	}
}

func (e *Engine) Name() string { return "places" }

// Run executes one discovery pass: search every term with pagination,
// dedupe, enrich with details while quota allows, then persist.
func (e *Engine) Run(ctx context.Context) (*model.Outcome, error) {
	outcome := model.NewOutcome()

	terms, err := LoadTerms(e.cfg.TermsPath)
	if err != nil {
		// An unreadable mapping leaves the niche without terms.
		e.log.Error("loading search terms failed", zap.Error(err))
		terms = nil
	}
	nicheTerms := TermsFor(terms, e.cfg.Niche)
	if len(nicheTerms) == 0 {
		outcome.Fail(model.StatusFailedNoSearchTerm,
			fmt.Sprintf("No search terms configured for niche: %s", e.cfg.Niche))
		return outcome, nil
	}

	e.log.Info("starting place collection",
		zap.Int("terms", len(nicheTerms)),
		zap.Int("quota_limit", e.ledger.Limit()))

	seen := make(map[string]bool)
	var collected []model.Place

	for i, term := range nicheTerms {
		for _, candidate := range e.searchTerm(ctx, outcome, term) {
			if candidate.ID == "" {
				continue
			}
			if seen[candidate.ID] {
				outcome.Add("duplicates_by_id", 1)
				continue
			}
			if isDuplicateLocation(candidate.Latitude, candidate.Longitude, collected, e.cfg.DuplicateRadiusM) {
				outcome.Add("duplicates_by_location", 1)
				continue
			}
			seen[candidate.ID] = true

			merged := candidate
			if detail := e.fetchDetails(ctx, outcome, candidate.ID); detail != nil {
				merged = candidate.Merge(*detail)
			}
			collected = append(collected, merged)
		}

		if outcome.Status == model.StatusQuotaExceeded {
			e.log.Warn("stopping collection due to quota limit",
				zap.Int("term_index", i+1), zap.Int("terms", len(nicheTerms)))
			break
		}
		if i < len(nicheTerms)-1 {
			e.Sleep(time.Second)
		}
	}

	outcome.QuotaUsed = e.ledger.Used()
	e.log.Info("place collection finished",
		zap.Int("collected", len(collected)),
		zap.Int("quota_used", e.ledger.Used()))

	if len(collected) == 0 {
		outcome.CompleteNoResults("No places found for search terms")
		return outcome, nil
	}

	e.persist(ctx, outcome, collected)
	outcome.Complete("Collection completed successfully")
	return outcome, nil
}

// searchTerm pages through text-search results for one term. Quota is
// checked before every page; exhaustion halts the run.
func (e *Engine) searchTerm(ctx context.Context, outcome *model.Outcome, term string) []model.Place {
	query := fmt.Sprintf("%s em %s, %s, Brasil", term, e.cfg.City, e.cfg.State)
	var results []model.Place
	pageToken := ""

	for {
		if !e.ledger.CanSpend(TextSearchCost) {
			outcome.QuotaExceeded(fmt.Sprintf(
				"API quota limit reached at %d units out of %d",
				e.ledger.Used(), e.ledger.Limit()))
			return results
		}
		if pageToken != "" {
			// The API requires a 2 s delay before a page token is usable.
			e.Sleep(2 * time.Second)
		}

		resp, err := e.client.SearchText(ctx, query, pageToken)
		if err != nil {
			e.log.Error("text search request failed", zap.String("query", query), zap.Error(err))
			outcome.Fail(model.StatusFailedAPIError, "Text search API request failed: "+err.Error())
			return results
		}
		e.ledger.Spend(TextSearchCost)
		outcome.Add("text_searches", 1)

		if len(resp.Places) == 0 {
			return results
		}
		for _, p := range resp.Places {
			results = append(results, toModel(p))
		}
		if resp.NextPageToken == "" {
			return results
		}
		pageToken = resp.NextPageToken
	}
}

// fetchDetails enriches one candidate when quota allows. A request error
// keeps the search-only record.
func (e *Engine) fetchDetails(ctx context.Context, outcome *model.Outcome, placeID string) *model.Place {
	if !e.ledger.CanSpend(DetailsCost) {
		outcome.QuotaExceeded(fmt.Sprintf(
			"API quota limit reached at %d units out of %d",
			e.ledger.Used(), e.ledger.Limit()))
		return nil
	}

	detail, err := e.client.Details(ctx, placeID)
	if err != nil {
		e.log.Warn("place details request failed", zap.String("place_id", placeID), zap.Error(err))
		return nil
	}
	e.ledger.Spend(DetailsCost)
	outcome.Add("details_fetched", 1)

	m := toModel(*detail)
	return &m
}

// persist applies the insert/update/skip decision per candidate. Store
// errors mark the run failed_database_error but remaining candidates are
// still attempted.
func (e *Engine) persist(ctx context.Context, outcome *model.Outcome, collected []model.Place) {
	for _, place := range collected {
		existing, err := e.store.GetPlace(ctx, place.ID)
		if err != nil {
			e.log.Error("get place failed", zap.String("place_id", place.ID), zap.Error(err))
			outcome.Fail(model.StatusFailedDatabase, "Database save failed: "+err.Error())
			continue
		}

		if existing != nil {
			if existing.Place.Equal(place) {
				outcome.Add("skipped_places", 1)
				continue
			}
			if err := e.store.UpdatePlace(ctx, place.ID, placePatch(place)); err != nil {
				e.log.Error("update place failed", zap.String("place_id", place.ID), zap.Error(err))
				outcome.Fail(model.StatusFailedDatabase, "Database save failed: "+err.Error())
				continue
			}
			outcome.Add("updated_places", 1)
			continue
		}

		companyID := "company-" + uuid.New().String()
		company := model.Company{
			CompanyID:        companyID,
			Name:             place.Name,
			Niche:            e.cfg.Niche,
			City:             e.cfg.City,
			State:            e.cfg.State,
			Users:            []string{},
			CollectionStatus: string(outcome.Status),
			CollectionReason: outcome.Reason,
		}
		if err := e.store.InsertCompany(ctx, company); err != nil {
			e.log.Error("insert company failed", zap.String("place_id", place.ID), zap.Error(err))
			outcome.Fail(model.StatusFailedDatabase, "Database save failed: "+err.Error())
			continue
		}
		if err := e.store.InsertPlace(ctx, model.PlaceRecord{
			PlaceID:   place.ID,
			CompanyID: companyID,
			Place:     place,
		}); err != nil {
			e.log.Error("insert place failed", zap.String("place_id", place.ID), zap.Error(err))
			outcome.Fail(model.StatusFailedDatabase, "Database save failed: "+err.Error())
			continue
		}
		outcome.Add("new_places", 1)
		e.log.Info("inserted new place",
			zap.String("place_id", place.ID),
			zap.String("company_id", companyID),
			zap.String("name", place.Name))

		if place.Website != "" {
			task := queue.WebsiteTask{CompanyID: companyID, Website: place.Website}
			if err := e.queue.Publish(ctx, e.cfg.WebsiteTopic, task); err != nil {
				// Queue handoff is best effort; the record is already saved.
				e.log.Error("queue website task failed",
					zap.String("company_id", companyID), zap.Error(err))
				continue
			}
			outcome.Add("website_tasks_queued", 1)
		}
	}
}

// placePatch converts a candidate into a JSONB merge patch.
func placePatch(p model.Place) map[string]any {
	data, _ := json.Marshal(p)
	var patch map[string]any
	_ = json.Unmarshal(data, &patch)
	return patch
}

// toModel converts a wire place into the persisted shape.
func toModel(p places.Place) model.Place {
	m := model.Place{
		ID:                 p.ID,
		Name:               p.DisplayName.Text,
		FormattedAddress:   p.FormattedAddress,
		Latitude:           p.Location.Latitude,
		Longitude:          p.Location.Longitude,
		Rating:             p.Rating,
		UserRatingCount:    p.UserRatingCount,
		Phone:              p.NationalPhone,
		InternationalPhone: p.InternationalPhone,
		Website:            p.WebsiteURI,
		MapsURL:            p.GoogleMapsURI,
		BusinessStatus:     p.BusinessStatus,
		Types:              p.Types,
		PriceLevel:         p.PriceLevel,
	}
	switch {
	case p.CurrentOpeningHours != nil:
		m.OpeningHours = &model.OpeningHours{
			OpenNow:     p.CurrentOpeningHours.OpenNow,
			WeekdayText: p.CurrentOpeningHours.WeekdayDescriptions,
		}
	case p.RegularOpeningHours != nil:
		m.OpeningHours = &model.OpeningHours{
			WeekdayText: p.RegularOpeningHours.WeekdayDescriptions,
		}
	}
	return m
}
