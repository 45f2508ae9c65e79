package metadata

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/slipstream/tvrage/internal/metadata/tvrage"
)

// Handlers provides HTTP handlers for TVRage lookups.
type Handlers struct {
	service *Service
}

// NewHandlers creates new metadata handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the TVRage routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/shows/:id", h.ShowInfo)
	g.GET("/shows/:id/episodes", h.EpisodeList)
	g.GET("/shows/:id/episodes/:season/:episode", h.EpisodeInfo)
	g.GET("/status", h.GetStatus)
}

// Search searches shows by name.
// GET /api/v1/tvrage/search?query=...
func (h *Handlers) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter is required")
	}

	results, err := h.service.Search(c.Request().Context(), query)
	if err != nil {
		return lookupError(err)
	}

	return c.JSON(http.StatusOK, results)
}

// ShowInfo gets show details by TVRage ID.
// GET /api/v1/tvrage/shows/:id
func (h *Handlers) ShowInfo(c echo.Context) error {
	id, err := positiveParam(c, "id")
	if err != nil {
		return err
	}

	show, err := h.service.ShowInfo(c.Request().Context(), id)
	if err != nil {
		return lookupError(err)
	}
	if len(show) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "show not found")
	}

	return c.JSON(http.StatusOK, show)
}

// EpisodeList gets the seasons and episodes of a show.
// GET /api/v1/tvrage/shows/:id/episodes
func (h *Handlers) EpisodeList(c echo.Context) error {
	id, err := positiveParam(c, "id")
	if err != nil {
		return err
	}

	list, err := h.service.EpisodeList(c.Request().Context(), id)
	if err != nil {
		return lookupError(err)
	}

	return c.JSON(http.StatusOK, list)
}

// EpisodeInfo gets a single episode.
// GET /api/v1/tvrage/shows/:id/episodes/:season/:episode
func (h *Handlers) EpisodeInfo(c echo.Context) error {
	id, err := positiveParam(c, "id")
	if err != nil {
		return err
	}
	season, err := positiveParam(c, "season")
	if err != nil {
		return err
	}
	episode, err := positiveParam(c, "episode")
	if err != nil {
		return err
	}

	info, err := h.service.EpisodeInfo(c.Request().Context(), id, season, episode)
	if err != nil {
		return lookupError(err)
	}
	if len(info) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "episode not found")
	}

	return c.JSON(http.StatusOK, info)
}

// StatusResponse describes the configured client.
type StatusResponse struct {
	Provider   string `json:"provider"`
	Client     string `json:"client"`
	Configured bool   `json:"configured"`
}

// GetStatus reports which client serves lookups.
// GET /api/v1/tvrage/status
func (h *Handlers) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{
		Provider:   h.service.ProviderName(),
		Client:     h.service.String(),
		Configured: h.service.IsConfigured(),
	})
}

func positiveParam(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}

func lookupError(err error) error {
	switch {
	case errors.Is(err, tvrage.ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotConfigured):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "TVRage is not configured")
	case errors.Is(err, tvrage.ErrTransport):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
