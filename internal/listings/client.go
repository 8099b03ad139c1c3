package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const (
	// Upstream fixes nearby and postal-code searches to a page of 12.
	searchLimit = 12

	DefaultLimit = 12
)

// Client queries the external property-search API. The API answers with one
// of two schemas depending on endpoint generation, so result extraction
// tolerates both (see parseResults).
type Client struct {
	baseURL    string
	host       string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	host := ""
	if parsed, err := url.Parse(baseURL); err == nil {
		host = parsed.Host
	}
	return &Client{
		baseURL:    baseURL,
		host:       host,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

// SearchNearby fetches properties around a coordinate pair.
func (c *Client) SearchNearby(ctx context.Context, lat, lon string) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("lat", lat)
	query.Set("lon", lon)
	query.Set("limit", strconv.Itoa(searchLimit))
	return c.get(ctx, "/properties/v2/list-nearby", query)
}

// SearchByPostalCode fetches for-sale listings for a postal code, most
// relevant first.
func (c *Client) SearchByPostalCode(ctx context.Context, postalCode string) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("postal_code", postalCode)
	query.Set("sort", "relevance")
	query.Set("limit", strconv.Itoa(searchLimit))
	query.Set("offset", "0")
	return c.get(ctx, "/properties/v2/list-for-sale", query)
}

// Latest fetches the newest for-sale listings. This is the only query the
// cache sits in front of.
func (c *Client) Latest(ctx context.Context, limit int) ([]json.RawMessage, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := url.Values{}
	query.Set("sort", "newest")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", "0")
	return c.get(ctx, "/properties/v2/list-for-sale", query)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("listings api status %d: %s", res.StatusCode, string(body))
	}

	return parseResults(body)
}

// parseResults prefers the legacy top-level `properties` array and falls back
// to the newer `data.home_search.results` nesting. Neither present means an
// empty page, not an error.
func parseResults(body []byte) ([]json.RawMessage, error) {
	var payload struct {
		Properties []json.RawMessage `json:"properties"`
		Data       struct {
			HomeSearch struct {
				Results []json.RawMessage `json:"results"`
			} `json:"home_search"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if payload.Properties != nil {
		return payload.Properties, nil
	}
	if payload.Data.HomeSearch.Results != nil {
		return payload.Data.HomeSearch.Results, nil
	}
	return []json.RawMessage{}, nil
}
