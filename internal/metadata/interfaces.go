package metadata

import (
	"context"

	"github.com/slipstream/tvrage/internal/metadata/tvrage"
)

// TVRageClient defines the interface for TVRage feed operations.
type TVRageClient interface {
	Name() string
	IsConfigured() bool
	String() string
	Search(ctx context.Context, name string) ([]tvrage.Record, error)
	ShowInfo(ctx context.Context, id int) (tvrage.Record, error)
	EpisodeList(ctx context.Context, id int) (*tvrage.EpisodeList, error)
	EpisodeInfo(ctx context.Context, id, season, episode int) (tvrage.Record, error)
}
