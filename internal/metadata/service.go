package metadata

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/slipstream/tvrage/internal/config"
	"github.com/slipstream/tvrage/internal/metadata/mock"
	"github.com/slipstream/tvrage/internal/metadata/tvrage"
)

var (
	ErrNotConfigured = errors.New("TVRage feed host is not configured")
)

// Service is the entry point for TVRage lookups. Every operation is
// available as a blocking call and as an asynchronous one returning a
// Future. Calls share no mutable state.
type Service struct {
	client TVRageClient
	logger zerolog.Logger
}

// NewService creates a metadata service with the real feed client, or the
// canned mock client when cfg.Mock is set.
func NewService(cfg config.TVRageConfig, logger zerolog.Logger) *Service {
	var client TVRageClient
	if cfg.Mock {
		client = mock.NewTVRageClient()
	} else {
		client = tvrage.NewClient(cfg, logger)
	}
	return NewServiceWithClient(client, logger)
}

// NewServiceWithClient creates a metadata service with a custom client (for testing/mocking).
func NewServiceWithClient(client TVRageClient, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("component", "metadata").Logger(),
	}
}

// String identifies the underlying client.
func (s *Service) String() string {
	return s.client.String()
}

// ProviderName returns the name of the underlying client.
func (s *Service) ProviderName() string {
	return s.client.Name()
}

// IsConfigured reports whether the underlying client can issue requests.
func (s *Service) IsConfigured() bool {
	return s.client.IsConfigured()
}

// Search finds shows by name.
func (s *Service) Search(ctx context.Context, name string) ([]tvrage.Record, error) {
	log, finish := s.begin("search")
	log.Debug().Str("query", name).Msg("Searching shows")

	shows, err := call(s, func() ([]tvrage.Record, error) { return s.client.Search(ctx, name) })
	finish(err)
	return shows, err
}

// ShowInfo gets a show by TVRage ID.
func (s *Service) ShowInfo(ctx context.Context, id int) (tvrage.Record, error) {
	log, finish := s.begin("showinfo")
	log.Debug().Int("id", id).Msg("Fetching show info")

	show, err := call(s, func() (tvrage.Record, error) { return s.client.ShowInfo(ctx, id) })
	finish(err)
	return show, err
}

// EpisodeList gets the season table of a show.
func (s *Service) EpisodeList(ctx context.Context, id int) (*tvrage.EpisodeList, error) {
	log, finish := s.begin("episodelist")
	log.Debug().Int("id", id).Msg("Fetching episode list")

	list, err := call(s, func() (*tvrage.EpisodeList, error) { return s.client.EpisodeList(ctx, id) })
	finish(err)
	return list, err
}

// EpisodeInfo gets one episode of a show.
func (s *Service) EpisodeInfo(ctx context.Context, id, season, episode int) (tvrage.Record, error) {
	log, finish := s.begin("episodeinfo")
	log.Debug().Int("id", id).Int("season", season).Int("episode", episode).Msg("Fetching episode info")

	info, err := call(s, func() (tvrage.Record, error) { return s.client.EpisodeInfo(ctx, id, season, episode) })
	finish(err)
	return info, err
}

// SearchAsync is the asynchronous form of Search.
func (s *Service) SearchAsync(ctx context.Context, name string) *Future[[]tvrage.Record] {
	return Go(ctx, func(ctx context.Context) ([]tvrage.Record, error) {
		return s.Search(ctx, name)
	})
}

// ShowInfoAsync is the asynchronous form of ShowInfo.
func (s *Service) ShowInfoAsync(ctx context.Context, id int) *Future[tvrage.Record] {
	return Go(ctx, func(ctx context.Context) (tvrage.Record, error) {
		return s.ShowInfo(ctx, id)
	})
}

// EpisodeListAsync is the asynchronous form of EpisodeList.
func (s *Service) EpisodeListAsync(ctx context.Context, id int) *Future[*tvrage.EpisodeList] {
	return Go(ctx, func(ctx context.Context) (*tvrage.EpisodeList, error) {
		return s.EpisodeList(ctx, id)
	})
}

// EpisodeInfoAsync is the asynchronous form of EpisodeInfo.
func (s *Service) EpisodeInfoAsync(ctx context.Context, id, season, episode int) *Future[tvrage.Record] {
	return Go(ctx, func(ctx context.Context) (tvrage.Record, error) {
		return s.EpisodeInfo(ctx, id, season, episode)
	})
}

// begin tags a call with a request ID and returns a function that logs its outcome.
func (s *Service) begin(operation string) (zerolog.Logger, func(error)) {
	log := s.logger.With().
		Str("requestId", uuid.NewString()).
		Str("operation", operation).
		Logger()
	start := time.Now()

	return log, func(err error) {
		if err != nil {
			log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("TVRage lookup failed")
			return
		}
		log.Debug().Dur("elapsed", time.Since(start)).Msg("TVRage lookup completed")
	}
}

func call[T any](s *Service, fn func() (T, error)) (T, error) {
	if !s.client.IsConfigured() {
		var zero T
		return zero, ErrNotConfigured
	}
	return fn()
}
