package mock

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/slipstream/tvrage/internal/metadata/tvrage"
)

// TVRageClient is a mock implementation of the TVRage client.
type TVRageClient struct{}

// NewTVRageClient creates a new mock TVRage client.
func NewTVRageClient() *TVRageClient {
	return &TVRageClient{}
}

func (c *TVRageClient) Name() string {
	return "tvrage-mock"
}

func (c *TVRageClient) IsConfigured() bool {
	return true
}

func (c *TVRageClient) String() string {
	return "TvRage API Client (mock)"
}

func (c *TVRageClient) Search(ctx context.Context, name string) ([]tvrage.Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: show name is required", tvrage.ErrInvalidArgument)
	}

	query := strings.ToLower(name)
	results := []tvrage.Record{}
	for _, show := range tvrageMockShows {
		if strings.Contains(strings.ToLower(show.String("name")), query) {
			results = append(results, searchRecord(show))
		}
	}
	return results, nil
}

func (c *TVRageClient) ShowInfo(ctx context.Context, id int) (tvrage.Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: show id must be positive", tvrage.ErrInvalidArgument)
	}
	for _, show := range tvrageMockShows {
		if show.Int("showid") == id {
			return copyRecord(show), nil
		}
	}
	return tvrage.Record{}, nil
}

func (c *TVRageClient) EpisodeList(ctx context.Context, id int) (*tvrage.EpisodeList, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: show id must be positive", tvrage.ErrInvalidArgument)
	}
	list, ok := tvrageMockEpisodes[id]
	if !ok {
		return &tvrage.EpisodeList{}, nil
	}

	seasons := tvrage.SeasonTable{}
	for no, season := range list.Seasons {
		seasons[no] = tvrage.Season{}
		for epnum, ep := range season {
			seasons[no][epnum] = copyRecord(ep)
		}
	}
	return &tvrage.EpisodeList{Name: list.Name, TotalSeasons: list.TotalSeasons, Seasons: seasons}, nil
}

func (c *TVRageClient) EpisodeInfo(ctx context.Context, id, season, episode int) (tvrage.Record, error) {
	if id <= 0 || season <= 0 || episode <= 0 {
		return nil, fmt.Errorf("%w: show id, season and episode must be positive", tvrage.ErrInvalidArgument)
	}
	list, ok := tvrageMockEpisodes[id]
	if !ok {
		return tvrage.Record{}, nil
	}
	ep, ok := list.Seasons.Episode(season, episode)
	if !ok {
		return tvrage.Record{}, nil
	}

	info := copyRecord(ep)
	info["number"] = fmt.Sprintf("%02dx%02d", season, episode)
	return info, nil
}

// searchRecord trims a show to the fields the search feed carries.
func searchRecord(show tvrage.Record) tvrage.Record {
	rec := tvrage.Record{}
	for k, v := range show {
		switch k {
		case "akas", "network", "runtime", "airday", "airtime":
			continue
		}
		rec[k] = v
	}
	rec["seasons"] = strconv.Itoa(tvrageMockEpisodes[show.Int("showid")].TotalSeasons)
	return rec
}

func copyRecord(r tvrage.Record) tvrage.Record {
	out := make(tvrage.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

var tvrageMockShows = []tvrage.Record{
	{
		"showid":         "25703",
		"name":           "The Event",
		"link":           "http://www.tvrage.com/The_Event",
		"country":        "US",
		"started":        "2010",
		"ended":          "2011",
		"status":         "Canceled/Ended",
		"classification": "Scripted",
		"genres":         []string{"Action", "Drama", "Sci-Fi"},
		"runtime":        "60",
		"airday":         "Monday",
		"airtime":        "21:00",
		"network":        map[string]string{"US": "NBC"},
		"akas":           map[string]string{"DE": "The Event - Fürchte die Zukunft"},
	},
	{
		"showid":         "4284",
		"name":           "Lost",
		"link":           "http://www.tvrage.com/Lost",
		"country":        "US",
		"started":        "2004",
		"ended":          "2010",
		"status":         "Ended",
		"classification": "Scripted",
		"genres":         []string{"Adventure", "Drama", "Mystery"},
		"runtime":        "60",
		"airday":         "Tuesday",
		"airtime":        "21:00",
		"network":        map[string]string{"US": "ABC"},
		"akas":           map[string]string{"FR": "Lost, les disparus", "0": "Perdidos"},
	},
}

var tvrageMockEpisodes = map[int]tvrage.EpisodeList{
	25703: {
		Name:         "The Event",
		TotalSeasons: 1,
		Seasons: tvrage.SeasonTable{
			1: {
				1: {"seasonnum": "01", "airdate": "2010-09-20", "title": "I Haven't Told You Everything"},
				2: {"seasonnum": "02", "airdate": "2010-09-27", "title": "To Keep Us Safe"},
				3: {"seasonnum": "03", "airdate": "2010-10-04", "title": "Protect Them from the Truth"},
			},
		},
	},
	4284: {
		Name:         "Lost",
		TotalSeasons: 6,
		Seasons: tvrage.SeasonTable{
			1: {
				1: {"seasonnum": "01", "airdate": "2004-09-22", "title": "Pilot (1)"},
				2: {"seasonnum": "02", "airdate": "2004-09-29", "title": "Pilot (2)"},
			},
			6: {
				18: {"seasonnum": "18", "airdate": "2010-05-23", "title": "The End"},
			},
		},
	},
}
