// Package serpapi implementa o cliente do provedor externo de busca de preços.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sanjux-xx/pricescout/internal/core/domain"
	"github.com/sanjux-xx/pricescout/internal/core/ports"
)

const (
	defaultBaseURL = "https://serpapi.com/search.json"
	// webOrigin prefixes relative links and hosts the fallback search URL.
	webOrigin = "https://www.google.com"
)

type Config struct {
	APIKey   string
	BaseURL  string
	Location string
	Language string
	Country  string
	Timeout  time.Duration
}

// Client queries the google_shopping engine for a single fixed market and
// normalizes the loosely shaped payload into domain listings.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

var _ ports.Fetcher = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Location == "" {
		cfg.Location = "India"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Country == "" {
		cfg.Country = "in"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// response mirrors the subset of the provider payload we consume. Every field
// is optional; normalization fills the gaps.
type response struct {
	ShoppingResults []rawItem `json:"shopping_results"`
}

type rawItem struct {
	Title       string     `json:"title"`
	Price       string     `json:"price"`
	Rating      *float64   `json:"rating"`
	Reviews     *int       `json:"reviews"`
	Source      string     `json:"source"`
	Thumbnail   string     `json:"thumbnail"`
	Link        string     `json:"link"`
	ProductLink string     `json:"product_link"`
	Offers      []rawOffer `json:"offers"`
}

type rawOffer struct {
	Link string `json:"link"`
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.Listing, error) {
	params := url.Values{}
	params.Set("engine", "google_shopping")
	params.Set("q", query)
	params.Set("location", c.cfg.Location)
	params.Set("hl", c.cfg.Language)
	params.Set("gl", c.cfg.Country)
	params.Set("api_key", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build shopping search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopping search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopping search returned status %d", resp.StatusCode)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode shopping search response: %w", err)
	}

	listings := make([]domain.Listing, 0, len(payload.ShoppingResults))
	for _, item := range payload.ShoppingResults {
		listings = append(listings, normalize(item))
	}
	return listings, nil
}

func normalize(item rawItem) domain.Listing {
	return domain.Listing{
		Title:   item.Title,
		Price:   item.Price,
		Rating:  item.Rating,
		Reviews: item.Reviews,
		Store:   item.Source,
		Image:   item.Thumbnail,
		Link:    resolveLink(item),
	}
}

// resolveLink repairs the listing link. Fallback order: primary link, product
// link, first offer link. Relative links get the web origin prefixed; links
// that still are not absolute HTTP(S) URLs are replaced by a synthesized web
// search for the title.
func resolveLink(item rawItem) string {
	link := item.Link
	if link == "" {
		link = item.ProductLink
	}
	if link == "" && len(item.Offers) > 0 {
		link = item.Offers[0].Link
	}

	if strings.HasPrefix(link, "/") {
		return webOrigin + link
	}
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return searchURL(item.Title)
	}
	return link
}

// searchURL builds a generic web search for a title, whitespace collapsed to
// "+" separators.
func searchURL(title string) string {
	return webOrigin + "/search?q=" + strings.Join(strings.Fields(title), "+")
}
