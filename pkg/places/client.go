// Package places provides a client for the Google Places API (New), covering
// the text-search and place-details operations.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const (
	searchFieldMask = "places.id,places.displayName,places.formattedAddress," +
		"places.location,places.rating,places.userRatingCount,places.businessStatus," +
		"places.types,places.currentOpeningHours,places.nationalPhoneNumber," +
		"places.internationalPhoneNumber,places.websiteUri,places.googleMapsUri," +
		"places.priceLevel,nextPageToken"
	detailsFieldMask = "id,displayName,formattedAddress,location,rating,userRatingCount," +
		"nationalPhoneNumber,internationalPhoneNumber,websiteUri,googleMapsUri," +
		"businessStatus,types,currentOpeningHours,regularOpeningHours,priceLevel"
)

// Client defines the Places API operations the discovery engine uses.
type Client interface {
	// SearchText runs a text search query. Pass the previous response's
	// NextPageToken to fetch a continuation page.
	SearchText(ctx context.Context, query, pageToken string) (*SearchResponse, error)
	// Details fetches the full record for a single place ID.
	Details(ctx context.Context, placeID string) (*Place, error)
}

// SearchResponse is the parsed text-search response.
type SearchResponse struct {
	Places        []Place `json:"places"`
	NextPageToken string  `json:"nextPageToken"`
}

// Place is a single place as returned on the wire.
type Place struct {
	ID                  string        `json:"id"`
	DisplayName         LocalizedText `json:"displayName"`
	FormattedAddress    string        `json:"formattedAddress"`
	Location            LatLng        `json:"location"`
	Rating              float64       `json:"rating"`
	UserRatingCount     int           `json:"userRatingCount"`
	NationalPhone       string        `json:"nationalPhoneNumber"`
	InternationalPhone  string        `json:"internationalPhoneNumber"`
	WebsiteURI          string        `json:"websiteUri"`
	GoogleMapsURI       string        `json:"googleMapsUri"`
	BusinessStatus      string        `json:"businessStatus"`
	Types               []string      `json:"types"`
	CurrentOpeningHours *OpeningHours `json:"currentOpeningHours"`
	RegularOpeningHours *OpeningHours `json:"regularOpeningHours"`
	PriceLevel          string        `json:"priceLevel"`
}

// LocalizedText is the API's wrapped string type.
type LocalizedText struct {
	Text string `json:"text"`
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OpeningHours carries the schedule fields the pipeline keeps.
type OpeningHours struct {
	OpenNow             bool     `json:"openNow"`
	WeekdayDescriptions []string `json:"weekdayDescriptions"`
}

// StatusError is returned for non-2xx API responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("places: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Option configures the places client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithLanguageCode overrides the default pt-BR language code.
func WithLanguageCode(code string) Option {
	return func(c *httpClient) {
		c.languageCode = code
	}
}

type httpClient struct {
	apiKey       string
	baseURL      string
	languageCode string
	http         *http.Client
}

// NewClient creates a Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:       apiKey,
		baseURL:      "https://places.googleapis.com",
		languageCode: "pt-BR",
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchTextRequest struct {
	TextQuery    string `json:"textQuery"`
	LanguageCode string `json:"languageCode"`
	PageToken    string `json:"pageToken,omitempty"`
}

func (c *httpClient) SearchText(ctx context.Context, query, pageToken string) (*SearchResponse, error) {
	body, err := json.Marshal(searchTextRequest{
		TextQuery:    query,
		LanguageCode: c.languageCode,
		PageToken:    pageToken,
	})
	if err != nil {
		return nil, eris.Wrap(err, "places: marshal search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "places: build search request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", searchFieldMask)

	var resp SearchResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/places/"+placeID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: build details request")
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", detailsFieldMask)

	var place Place
	if err := c.do(req, &place); err != nil {
		return nil, err
	}
	return &place, nil
}

func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "places: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return eris.Wrap(err, "places: read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "places: decode response")
	}
	return nil
}
