package metadata

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/tvrage/internal/config"
	"github.com/slipstream/tvrage/internal/metadata/tvrage"
	"github.com/slipstream/tvrage/internal/testutil"
)

const searchFeed = `<?xml version="1.0" encoding="UTF-8" ?>
<Results>
	<show><showid>25703</showid><name>The Event</name><genres><genre>Drama</genre></genres></show>
	<show><showid>26843</showid><name>The Event (UK)</name></show>
</Results>`

const showInfoFeed = `<?xml version="1.0" encoding="UTF-8" ?>
<Showinfo><showid>25703</showid><showname>The Event</showname><network country="US">NBC</network></Showinfo>`

func newFeedService(t *testing.T, handler http.HandlerFunc) (*Service, *testutil.FeedServer) {
	t.Helper()
	server := testutil.NewFeedServer(t, handler)
	return NewService(server.Config(), testutil.Logger(t)), server
}

func TestService_SearchEndToEnd(t *testing.T) {
	service, server := newFeedService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feeds/search.php", r.URL.Path)
		assert.Equal(t, "The Event", r.URL.Query().Get("show"))
		w.Write([]byte(searchFeed))
	})

	shows, err := service.Search(context.Background(), "The Event")
	require.NoError(t, err)
	require.Len(t, shows, 2)
	assert.Equal(t, "25703", shows[0].String("showid"))
	assert.Equal(t, []string{"Drama"}, shows[0].Strings("genres"))
	assert.Equal(t, []string{"/feeds/search.php?show=The+Event"}, server.Requests())
}

func TestService_ShowInfoEndToEnd(t *testing.T) {
	service, _ := newFeedService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(showInfoFeed))
	})

	show, err := service.ShowInfo(context.Background(), 25703)
	require.NoError(t, err)
	assert.Equal(t, "The Event", show.String("name"))
	assert.Equal(t, map[string]string{"US": "NBC"}, show.Map("network"))
}

func TestService_TransportFailure(t *testing.T) {
	service, _ := newFeedService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	shows, err := service.Search(context.Background(), "The Event")
	assert.Nil(t, shows)
	assert.ErrorIs(t, err, tvrage.ErrTransport)

	list, err := service.EpisodeListAsync(context.Background(), 1).Await(context.Background())
	assert.Nil(t, list)
	assert.ErrorIs(t, err, tvrage.ErrTransport)
}

func TestService_NotConfigured(t *testing.T) {
	service := NewService(config.TVRageConfig{}, zerolog.Nop())

	assert.False(t, service.IsConfigured())
	_, err := service.ShowInfo(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestService_MockMode(t *testing.T) {
	service := NewService(config.TVRageConfig{Mock: true}, zerolog.Nop())

	assert.Equal(t, "tvrage-mock", service.ProviderName())
	shows, err := service.Search(context.Background(), "lost")
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, "4284", shows[0].String("showid"))
}

func TestService_String(t *testing.T) {
	service := NewService(config.TVRageConfig{BaseURL: config.DefaultTVRageBaseURL}, zerolog.Nop())
	assert.Equal(t, "TvRage API Client v."+config.Version, service.String())
}

// countingClient records calls and answers from fixed values.
type countingClient struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
	delay time.Duration
}

func (c *countingClient) record(op string) error {
	c.mu.Lock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[op]++
	c.mu.Unlock()
	time.Sleep(c.delay)
	return c.err
}

func (c *countingClient) count(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

func (c *countingClient) Name() string       { return "counting" }
func (c *countingClient) IsConfigured() bool { return true }
func (c *countingClient) String() string     { return "counting client" }

func (c *countingClient) Search(ctx context.Context, name string) ([]tvrage.Record, error) {
	if err := c.record("search"); err != nil {
		return nil, err
	}
	return []tvrage.Record{{"showid": "1", "name": name}}, nil
}

func (c *countingClient) ShowInfo(ctx context.Context, id int) (tvrage.Record, error) {
	if err := c.record("showinfo"); err != nil {
		return nil, err
	}
	return tvrage.Record{"showid": "1"}, nil
}

func (c *countingClient) EpisodeList(ctx context.Context, id int) (*tvrage.EpisodeList, error) {
	if err := c.record("episodelist"); err != nil {
		return nil, err
	}
	return &tvrage.EpisodeList{TotalSeasons: 1}, nil
}

func (c *countingClient) EpisodeInfo(ctx context.Context, id, season, episode int) (tvrage.Record, error) {
	if err := c.record("episodeinfo"); err != nil {
		return nil, err
	}
	return tvrage.Record{"title": "Pilot"}, nil
}

func TestService_AsyncDeliversExactlyOnce(t *testing.T) {
	client := &countingClient{}
	service := NewServiceWithClient(client, zerolog.Nop())
	ctx := context.Background()

	var mu sync.Mutex
	deliveries := 0
	done := service.SearchAsync(ctx, "Lost").Then(func(shows []tvrage.Record, err error) {
		mu.Lock()
		deliveries++
		mu.Unlock()
		assert.NoError(t, err)
		assert.Equal(t, "Lost", shows[0].String("name"))
	})
	<-done

	info, err := service.ShowInfoAsync(ctx, 1).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", info.String("showid"))

	ep, err := service.EpisodeInfoAsync(ctx, 1, 1, 1).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pilot", ep.String("title"))

	assert.Equal(t, 1, deliveries)
	assert.Equal(t, 1, client.count("search"))
	assert.Equal(t, 1, client.count("showinfo"))
	assert.Equal(t, 1, client.count("episodeinfo"))
}

func TestService_ConcurrentCallsAreIndependent(t *testing.T) {
	client := &countingClient{delay: 10 * time.Millisecond}
	service := NewServiceWithClient(client, zerolog.Nop())
	ctx := context.Background()

	futures := make([]*Future[*tvrage.EpisodeList], 8)
	for i := range futures {
		futures[i] = service.EpisodeListAsync(ctx, i+1)
	}
	for _, f := range futures {
		list, err := f.Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, list.TotalSeasons)
	}
	assert.Equal(t, len(futures), client.count("episodelist"))
}

func TestService_ErrorsArePassedThrough(t *testing.T) {
	boom := errors.New("boom")
	service := NewServiceWithClient(&countingClient{err: boom}, zerolog.Nop())

	_, err := service.EpisodeInfo(context.Background(), 1, 1, 1)
	assert.ErrorIs(t, err, boom)
}
