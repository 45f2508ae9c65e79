package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/tvrage/internal/metadata/tvrage"
)

func TestTVRageClient_Search(t *testing.T) {
	client := NewTVRageClient()

	shows, err := client.Search(context.Background(), "event")
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, "25703", shows[0].String("showid"))
	assert.Equal(t, "1", shows[0].String("seasons"))
	assert.NotContains(t, shows[0], "network")

	_, err = client.Search(context.Background(), "")
	assert.ErrorIs(t, err, tvrage.ErrInvalidArgument)
}

func TestTVRageClient_ReturnsCopies(t *testing.T) {
	client := NewTVRageClient()

	show, err := client.ShowInfo(context.Background(), 4284)
	require.NoError(t, err)
	show["name"] = "changed"

	again, err := client.ShowInfo(context.Background(), 4284)
	require.NoError(t, err)
	assert.Equal(t, "Lost", again.String("name"))
}

func TestTVRageClient_Episodes(t *testing.T) {
	client := NewTVRageClient()

	list, err := client.EpisodeList(context.Background(), 4284)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 6}, list.Seasons.Numbers())

	info, err := client.EpisodeInfo(context.Background(), 4284, 6, 18)
	require.NoError(t, err)
	assert.Equal(t, "The End", info.String("title"))
	assert.Equal(t, "06x18", info.String("number"))

	missing, err := client.EpisodeInfo(context.Background(), 4284, 9, 1)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
