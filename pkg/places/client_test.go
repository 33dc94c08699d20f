package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchText(t *testing.T) {
	t.Parallel()

	var gotReq searchTextRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		mask := r.Header.Get("X-Goog-FieldMask")
		assert.Contains(t, mask, "places.id")
		assert.Contains(t, mask, "places.websiteUri")
		assert.Contains(t, mask, "places.nationalPhoneNumber")
		assert.Contains(t, mask, "places.internationalPhoneNumber")
		assert.Contains(t, mask, "places.googleMapsUri")
		assert.Contains(t, mask, "places.currentOpeningHours")
		assert.Contains(t, mask, "places.priceLevel")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"places": [
				{
					"id": "place-1",
					"displayName": {"text": "Centro Auditivo Campinas"},
					"formattedAddress": "Av. Brasil, 100 - Campinas, SP",
					"location": {"latitude": -22.90, "longitude": -47.06},
					"rating": 4.7,
					"userRatingCount": 120,
					"nationalPhoneNumber": "(19) 3232-1000",
					"websiteUri": "https://centroauditivo.example.com.br",
					"currentOpeningHours": {
						"openNow": true,
						"weekdayDescriptions": ["segunda-feira: 09:00 - 18:00"]
					}
				}
			],
			"nextPageToken": "token-2"
		}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := c.SearchText(context.Background(), "aparelhos auditivos em Campinas, SP, Brasil", "")
	require.NoError(t, err)

	assert.Equal(t, "aparelhos auditivos em Campinas, SP, Brasil", gotReq.TextQuery)
	assert.Equal(t, "pt-BR", gotReq.LanguageCode)
	assert.Empty(t, gotReq.PageToken)

	require.Len(t, resp.Places, 1)
	assert.Equal(t, "place-1", resp.Places[0].ID)
	assert.Equal(t, "Centro Auditivo Campinas", resp.Places[0].DisplayName.Text)
	assert.InDelta(t, -22.90, resp.Places[0].Location.Latitude, 0.0001)
	assert.Equal(t, "(19) 3232-1000", resp.Places[0].NationalPhone)
	assert.Equal(t, "https://centroauditivo.example.com.br", resp.Places[0].WebsiteURI)
	require.NotNil(t, resp.Places[0].CurrentOpeningHours)
	assert.True(t, resp.Places[0].CurrentOpeningHours.OpenNow)
	assert.Equal(t, "token-2", resp.NextPageToken)
}

func TestSearchTextSendsPageToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchTextRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "token-2", req.PageToken)
		w.Write([]byte(`{"places": []}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := c.SearchText(context.Background(), "q", "token-2")
	require.NoError(t, err)
	assert.Empty(t, resp.Places)
	assert.Empty(t, resp.NextPageToken)
}

func TestDetails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/places/place-1", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))

		w.Write([]byte(`{
			"id": "place-1",
			"displayName": {"text": "Centro Auditivo Campinas"},
			"nationalPhoneNumber": "(19) 3232-1000",
			"internationalPhoneNumber": "+55 19 3232-1000",
			"websiteUri": "https://centroauditivo.example.com.br",
			"googleMapsUri": "https://maps.google.com/?cid=123",
			"businessStatus": "OPERATIONAL",
			"types": ["hearing_aid_store"],
			"regularOpeningHours": {
				"openNow": true,
				"weekdayDescriptions": ["segunda-feira: 09:00 - 18:00"]
			},
			"priceLevel": "PRICE_LEVEL_MODERATE"
		}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key", WithBaseURL(srv.URL))
	place, err := c.Details(context.Background(), "place-1")
	require.NoError(t, err)

	assert.Equal(t, "(19) 3232-1000", place.NationalPhone)
	assert.Equal(t, "https://centroauditivo.example.com.br", place.WebsiteURI)
	require.NotNil(t, place.RegularOpeningHours)
	assert.True(t, place.RegularOpeningHours.OpenNow)
	assert.Equal(t, []string{"hearing_aid_store"}, place.Types)
}

func TestStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"message": "API key invalid"}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := c.SearchText(context.Background(), "q", "")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Contains(t, se.Body, "API key invalid")
}
