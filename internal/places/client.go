package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mehrdadh/hangout_bot/internal/config"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"github.com/mehrdadh/hangout_bot/pkg/geo"
)

// Place is a point of interest returned by the search API.
type Place struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	PriceTier   int     `json:"price_tier"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
}

// Searcher is the external place-search collaborator. It may be slow or
// unavailable; callers own the fallback.
type Searcher interface {
	Search(ctx context.Context, center geo.Point, radiusKm float64, categoryHints []string) ([]Place, error)
}

// Client talks to the place-search HTTP API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.GetPlaceSearchTimeout()},
		baseURL: strings.TrimRight(cfg.PlaceSearchBaseURL, "/"),
		apiKey:  cfg.PlaceSearchAPIKey,
	}
}

type searchResponse struct {
	Results []Place `json:"results"`
}

// Search queries points of interest around center within radiusKm. All
// transport and decoding failures surface as UpstreamUnavailable.
func (c *Client) Search(ctx context.Context, center geo.Point, radiusKm float64, categoryHints []string) ([]Place, error) {
	if c.baseURL == "" {
		return nil, errors.New(errors.ErrCodeUpstreamUnavailable, "place search is not configured")
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(center.Lat, 'f', 6, 64))
	params.Set("lng", strconv.FormatFloat(center.Lng, 'f', 6, 64))
	params.Set("radius_km", strconv.FormatFloat(radiusKm, 'f', 2, 64))
	if len(categoryHints) > 0 {
		params.Set("categories", strings.Join(categoryHints, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, "failed to build search request")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, "place search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("place search returned status %d", resp.StatusCode))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, "failed to decode search response")
	}

	return decoded.Results, nil
}
