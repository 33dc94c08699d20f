// Package website implements the website-enrichment engine: it crawls a
// company website politely, reduces the pages to text, runs schema-bound
// LLM extraction, and persists the result onto the company record.
package website

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/AurisAASI/backend-core/internal/cnpj"
	"github.com/AurisAASI/backend-core/internal/llm"
	"github.com/AurisAASI/backend-core/internal/model"
	"github.com/AurisAASI/backend-core/internal/queue"
	"github.com/AurisAASI/backend-core/internal/store"
)

//go:embed schema.json
var extractionSchema []byte

const defaultUserAgent = "AurisBot/1.0 (+https://auris.com.br/bot)"

// Config holds the per-invocation parameters of the enrichment engine.
type Config struct {
	CompanyID string
	Website   string

	MaxPages      int
	Timeout       time.Duration
	UserAgent     string
	MaxPageChars  int
	MaxTotalChars int
	FederalTopic  string
}

// Engine is the website-enrichment engine. One instance serves one
// invocation.
type Engine struct {
	cfg       Config
	http      *http.Client
	store     store.Store
	queue     queue.Publisher
	extractor llm.Extractor
	limiter   *rate.Limiter
	log       *zap.Logger

	// Sleep and Rand are swapped out in tests to observe politeness delays.
	Sleep func(time.Duration)
	Rand  func() float64
	Now   func() time.Time
}

// New creates an enrichment engine.
func New(cfg Config, st store.Store, pub queue.Publisher, ex llm.Extractor) *Engine {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 15
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxPageChars <= 0 {
		cfg.MaxPageChars = 20000
	}
	if cfg.MaxTotalChars <= 0 {
		cfg.MaxTotalChars = 300000
	}
	return &Engine{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		store:     st,
		queue:     pub,
		extractor: ex,
		limiter:   rate.NewLimiter(rate.Every(250*time.Millisecond), 5),
		log: zap.L().With(
			zap.String("component", "website.engine"),
			zap.String("company_id", cfg.CompanyID),
		),
		Sleep: time.Sleep,
		Rand:  rand.Float64,
		Now:   time.Now,
	}
}

func (e *Engine) Name() string { return "website" }

// Run executes one enrichment pass: robots check, page discovery, polite
// fetching, LLM extraction, persistence, and registry-task handoff. The
// outcome is persisted onto the company record in every path, including
// early failures.
func (e *Engine) Run(ctx context.Context) (*model.Outcome, error) {
	outcome := model.NewOutcome()

	site, err := NormalizeURL(e.cfg.Website)
	if err != nil {
		outcome.Fail(model.StatusFailed, "Invalid URL: "+err.Error())
		return outcome, e.persist(ctx, outcome, nil)
	}

	if !e.robotsAllowed(ctx, site) {
		e.log.Warn("scraping disallowed by robots.txt", zap.String("website", site))
		outcome.Complete("Scraping disallowed by robots.txt")
		return outcome, e.persist(ctx, outcome, nil)
	}

	pages := e.discoverPages(ctx, site)
	e.log.Info("page discovery finished",
		zap.String("website", site), zap.Int("pages", len(pages)))

	content := make(map[string]string, len(pages))
	var fetched []string
	for i, pageURL := range pages {
		if i > 0 {
			// 2-3 s randomized politeness delay between page fetches.
			e.Sleep(2*time.Second + time.Duration(e.Rand()*float64(time.Second)))
		}
		html, err := e.fetchPage(ctx, pageURL)
		if err != nil {
			e.log.Warn("page fetch failed", zap.String("url", pageURL), zap.Error(err))
			outcome.Add("pages_failed", 1)
			continue
		}
		outcome.Add("pages_fetched", 1)
		content[pageURL] = html
		fetched = append(fetched, pageURL)
	}

	if len(content) == 0 {
		outcome.Partial(fmt.Sprintf("Failed to fetch any pages (tried %d)", len(pages)))
		return outcome, e.persist(ctx, outcome, nil)
	}

	extraction := e.extract(ctx, fetched, content)

	switch {
	case extraction == nil || extraction.Empty():
		outcome.Fail(model.StatusFailed, "Failed to extract structured data from pages")
		extraction = &model.Extraction{}
	case outcome.Stats["pages_failed"] > 0:
		outcome.Partial(fmt.Sprintf("Data extracted from %d pages, %d pages failed",
			outcome.Stats["pages_fetched"], outcome.Stats["pages_failed"]))
	default:
		outcome.Complete(fmt.Sprintf("Successfully scraped %d pages",
			outcome.Stats["pages_fetched"]))
	}

	persistErr := e.persist(ctx, outcome, extraction)
	e.queueFederal(ctx, outcome, extraction)
	return outcome, persistErr
}

// fetchPage retrieves one page with the crawler identity headers. Any
// non-200 answer counts as a failed fetch.
func (e *Engine) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "website: build request")
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := e.http.Do(req)
	if err != nil {
		return "", eris.Wrapf(err, "website: fetch %s", pageURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("website: fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrapf(err, "website: read %s", pageURL)
	}
	return string(body), nil
}

// extract reduces the fetched pages to text and runs schema-bound LLM
// extraction. Any extraction error yields a nil result; the caller decides
// the outcome.
func (e *Engine) extract(ctx context.Context, order []string, content map[string]string) *model.Extraction {
	var parts []string
	for _, pageURL := range order {
		text := extractText(content[pageURL])
		if text == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("=== Page: %s ===\n%s",
			pageURL, truncate(text, e.cfg.MaxPageChars)))
	}
	combined := truncate(strings.Join(parts, "\n\n"), e.cfg.MaxTotalChars)
	if strings.TrimSpace(combined) == "" {
		e.log.Warn("no text content extracted from pages")
		return nil
	}

	e.log.Info("running structured extraction",
		zap.Int("pages", len(order)), zap.Int("chars", len(combined)))

	raw, err := e.extractor.Extract(ctx, buildPrompt(combined), extractionSchema)
	if err != nil {
		e.log.Error("structured extraction failed", zap.Error(err))
		return nil
	}

	var extraction model.Extraction
	if err := json.Unmarshal(raw, &extraction); err != nil {
		e.log.Error("could not parse extraction response", zap.Error(err))
		return nil
	}
	normalizePhones(&extraction)

	e.log.Info("structured data extracted",
		zap.Bool("brand_name", extraction.BrandName != nil),
		zap.Int("addresses", len(extraction.Addresses)),
		zap.Int("phones", len(extraction.Phones)),
		zap.Int("products", len(extraction.Products)),
		zap.Int("services", len(extraction.Services)),
		zap.Int("social_links", len(extraction.SocialLinks)),
		zap.Bool("cnpj", extraction.CNPJ != nil))
	return &extraction
}

// normalizePhones rewrites parseable Brazilian numbers into national
// format and upgrades untyped nine-digit numbers to mobile.
func normalizePhones(extraction *model.Extraction) {
	for i, phone := range extraction.Phones {
		num, err := phonenumbers.Parse(phone.Number, "BR")
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		extraction.Phones[i].Number = phonenumbers.Format(num, phonenumbers.NATIONAL)
		if phone.Type == "" || phone.Type == "other" {
			if phonenumbers.GetNumberType(num) == phonenumbers.MOBILE {
				extraction.Phones[i].Type = "mobile"
			}
		}
	}
}

// persist merges the enrichment result into the company record.
func (e *Engine) persist(ctx context.Context, outcome *model.Outcome, extraction *model.Extraction) error {
	if extraction == nil {
		extraction = &model.Extraction{}
	}
	patch := map[string]any{
		"website_data":            extraction,
		"website_scraping_status": string(outcome.Status),
		"website_scraping_reason": outcome.Reason,
		"website_scraped_at":      e.Now().UTC().Format(time.RFC3339),
	}
	if err := e.store.UpdateCompany(ctx, e.cfg.CompanyID, patch); err != nil {
		e.log.Error("save website data failed", zap.Error(err))
		return eris.Wrap(err, "website: save company")
	}
	return nil
}

// queueFederal hands a validated extracted CNPJ to the registry-lookup
// engine. Handoff is best effort.
func (e *Engine) queueFederal(ctx context.Context, outcome *model.Outcome, extraction *model.Extraction) {
	if extraction == nil || extraction.CNPJ == nil {
		return
	}
	clean := cnpj.Clean(*extraction.CNPJ)
	if !cnpj.Valid(clean) {
		e.log.Warn("invalid CNPJ extracted, skipping registry lookup",
			zap.String("cnpj", *extraction.CNPJ))
		return
	}

	task := queue.FederalTask{CompanyID: e.cfg.CompanyID, CNPJ: clean}
	if err := e.queue.Publish(ctx, e.cfg.FederalTopic, task); err != nil {
		e.log.Error("queue federal task failed", zap.Error(err))
		return
	}
	outcome.Add("federal_tasks_queued", 1)
	e.log.Info("queued registry lookup", zap.String("cnpj", clean))
}
