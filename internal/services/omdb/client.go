// Package omdb wraps the third-party movie catalog API.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/amaumene/watchlistarr/internal/config"
	"github.com/amaumene/watchlistarr/internal/models"
)

const (
	detailCacheTTL   = 30 * time.Minute
	searchCacheSize  = 1000
	searchCacheTTL   = 10 * time.Minute
	lookupMaxRetries = 2
	requestTimeout   = 30 * time.Second
)

// Client handles communication with the catalog API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
	details    *gocache.Cache
	pages      *SearchCache[[]models.MovieSummary]
	group      singleflight.Group
}

// NewClient creates a new catalog client.
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.OMDbAPIKey == "" {
		return nil, fmt.Errorf("catalog API key is required")
	}

	return &Client{
		baseURL:    cfg.OMDbURL,
		apiKey:     cfg.OMDbAPIKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
		details:    gocache.New(detailCacheTTL, 2*detailCacheTTL),
		pages:      NewSearchCache[[]models.MovieSummary](searchCacheSize, searchCacheTTL),
	}, nil
}

// detailResponse is the catalog's lookup payload. An Error field marks a
// failed lookup even on HTTP 200.
type detailResponse struct {
	ImdbID     string `json:"imdbID"`
	Poster     string `json:"Poster"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	ImdbRating string `json:"imdbRating"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Error      string `json:"Error"`
}

// searchResponse is the catalog's paged search payload.
type searchResponse struct {
	Search []struct {
		ImdbID string `json:"imdbID"`
		Poster string `json:"Poster"`
		Title  string `json:"Title"`
		Year   string `json:"Year"`
	} `json:"Search"`
	Error string `json:"Error"`
}

// get performs a catalog request and decodes the JSON body into result.
// Only transport and decode problems are errors here; API-level Error
// fields are the caller's to interpret.
func (c *Client) get(ctx context.Context, params url.Values, result interface{}) error {
	apiURL, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid catalog URL: %w", err)
	}

	params.Set("apikey", c.apiKey)
	apiURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "watchlistarr/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}

// GetByID looks up full movie details. Lookups are cached, deduplicated
// across concurrent callers and retried on transient transport failures.
// A catalog-side error field maps to models.ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (*models.MovieDetail, error) {
	if cached, ok := c.details.Get(id); ok {
		return cached.(*models.MovieDetail), nil
	}

	val, err, _ := c.group.Do(id, func() (interface{}, error) {
		return c.fetchDetail(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return val.(*models.MovieDetail), nil
}

func (c *Client) fetchDetail(ctx context.Context, id string) (*models.MovieDetail, error) {
	var resp detailResponse

	op := func() error {
		return c.get(ctx, url.Values{"i": []string{id}}, &resp)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), lookupMaxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}

	if resp.Error != "" {
		c.logger.WithFields(logrus.Fields{
			"movie_id": id,
			"error":    resp.Error,
		}).Debug("Catalog lookup miss")
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, resp.Error)
	}

	detail := &models.MovieDetail{
		MovieSummary: models.MovieSummary{
			ID:     resp.ImdbID,
			Poster: resp.Poster,
			Title:  resp.Title,
			Year:   resp.Year,
		},
		Rating:   resp.ImdbRating,
		Released: resp.Released,
		Runtime:  resp.Runtime,
		Genre:    resp.Genre,
		Actors:   strings.Split(resp.Actors, ", "),
		Plot:     resp.Plot,
	}
	c.details.SetDefault(id, detail)
	return detail, nil
}

// Search returns one page of catalog matches. Transport failures degrade to
// an empty page; a catalog-side error field (no match, or a page past the
// last one) maps to models.ErrNotFound so callers can stop paginating.
func (c *Client) Search(ctx context.Context, query string, page int) ([]models.MovieSummary, error) {
	if page < 1 {
		page = 1
	}
	cacheKey := query + "|" + strconv.Itoa(page)
	if cached, ok := c.pages.Get(cacheKey); ok {
		return cached, nil
	}

	params := url.Values{
		"s":    []string{query},
		"page": []string{strconv.Itoa(page)},
	}

	var resp searchResponse
	if err := c.get(ctx, params, &resp); err != nil {
		c.logger.WithError(err).WithField("query", query).Warn("Catalog search unreachable")
		return []models.MovieSummary{}, nil
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, resp.Error)
	}

	movies := make([]models.MovieSummary, 0, len(resp.Search))
	for _, m := range resp.Search {
		movies = append(movies, models.MovieSummary{
			ID:     m.ImdbID,
			Poster: m.Poster,
			Title:  m.Title,
			Year:   m.Year,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"query": query,
		"page":  page,
		"count": len(movies),
	}).Debug("Catalog search completed")

	c.pages.Set(cacheKey, movies)
	return movies, nil
}
