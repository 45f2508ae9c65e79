package tvrage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/tvrage/internal/config"
)

// PathPrefix is the path under which all feeds live.
const PathPrefix = "/feeds/"

// MaxResponseBody caps how much of a feed response is read.
const MaxResponseBody = 2 << 20 // 2 MiB

// Endpoint is a feed script below PathPrefix.
type Endpoint string

const (
	EndpointSearch      Endpoint = "search.php"
	EndpointShowInfo    Endpoint = "showinfo.php"
	EndpointEpisodeList Endpoint = "episode_list.php"
	EndpointEpisodeInfo Endpoint = "episodeinfo.php"
)

var (
	ErrTransport       = errors.New("TVRage transport failure")
	ErrInvalidArgument = errors.New("invalid argument")
)

// TransportError reports a request that did not produce a 200 response.
// Either StatusCode is set or Err holds the network error.
type TransportError struct {
	Endpoint   Endpoint
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrTransport, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s: %s: status %d", ErrTransport, e.Endpoint, e.StatusCode)
}

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client is a TVRage feed client. It keeps no state between calls and is
// safe for concurrent use.
type Client struct {
	httpClient *http.Client
	config     config.TVRageConfig
	logger     zerolog.Logger
}

// NewClient creates a new TVRage client.
func NewClient(cfg config.TVRageConfig, logger zerolog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tvrage").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tvrage"
}

// IsConfigured returns true if a feed host is set.
func (c *Client) IsConfigured() bool {
	return c.config.BaseURL != ""
}

// String identifies the client and its version.
func (c *Client) String() string {
	return "TvRage API Client v." + config.Version
}

// Search looks up shows by name. Results keep the order of the feed.
func (c *Client) Search(ctx context.Context, name string) ([]Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: show name is required", ErrInvalidArgument)
	}

	params := url.Values{}
	params.Set("show", name)

	result, err := c.fetch(ctx, EndpointSearch, params)
	if err != nil {
		return nil, err
	}

	shows := result.Shows
	if shows == nil {
		shows = []Record{}
	}

	c.logger.Debug().
		Str("query", name).
		Int("results", len(shows)).
		Msg("Show search completed")

	return shows, nil
}

// ShowInfo gets the details of a show.
func (c *Client) ShowInfo(ctx context.Context, id int) (Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: show id must be positive", ErrInvalidArgument)
	}

	result, err := c.fetch(ctx, EndpointShowInfo, showParams(id))
	if err != nil {
		return nil, err
	}

	show := result.Show
	if show == nil {
		show = Record{}
	}

	c.logger.Debug().
		Int("id", id).
		Str("name", show.String("name")).
		Msg("Got show info")

	return show, nil
}

// EpisodeList gets all seasons and episodes of a show.
func (c *Client) EpisodeList(ctx context.Context, id int) (*EpisodeList, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: show id must be positive", ErrInvalidArgument)
	}

	result, err := c.fetch(ctx, EndpointEpisodeList, showParams(id))
	if err != nil {
		return nil, err
	}

	list := result.EpisodeList
	if list == nil {
		list = &EpisodeList{}
	}

	c.logger.Debug().
		Int("id", id).
		Int("seasons", len(list.Seasons)).
		Msg("Got episode list")

	return list, nil
}

// EpisodeInfo gets a single episode of a show.
func (c *Client) EpisodeInfo(ctx context.Context, id, season, episode int) (Record, error) {
	if id <= 0 || season <= 0 || episode <= 0 {
		return nil, fmt.Errorf("%w: show id, season and episode must be positive", ErrInvalidArgument)
	}

	params := showParams(id)
	params.Set("ep", strconv.Itoa(season)+"x"+strconv.Itoa(episode))

	result, err := c.fetch(ctx, EndpointEpisodeInfo, params)
	if err != nil {
		return nil, err
	}

	info := result.Episode
	if info == nil {
		info = Record{}
	}

	c.logger.Debug().
		Int("id", id).
		Int("season", season).
		Int("episode", episode).
		Str("title", info.String("title")).
		Msg("Got episode info")

	return info, nil
}

func showParams(id int) url.Values {
	params := url.Values{}
	params.Set("sid", strconv.Itoa(id))
	return params
}

// fetch performs one GET against endpoint and maps the body.
func (c *Client) fetch(ctx context.Context, endpoint Endpoint, params url.Values) (Result, error) {
	body, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return Result{}, err
	}
	return NewMapper(c.logger).Map(bytes.NewReader(body)), nil
}

// doRequest performs an HTTP GET request and returns the response body.
func (c *Client) doRequest(ctx context.Context, endpoint Endpoint, params url.Values) ([]byte, error) {
	reqURL := c.config.BaseURL + PathPrefix + string(endpoint)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml, text/xml")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", string(endpoint)).Msg("HTTP request failed")
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().
			Str("endpoint", string(endpoint)).
			Int("status", resp.StatusCode).
			Msg("Unexpected HTTP status")
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBody+1))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if len(body) > MaxResponseBody {
		c.logger.Warn().
			Str("endpoint", string(endpoint)).
			Int("limit", MaxResponseBody).
			Msg("Response body exceeds limit, mapping truncated document")
		body = body[:MaxResponseBody]
	}

	c.logger.Trace().
		Str("endpoint", string(endpoint)).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("Feed fetched")

	return body, nil
}
