package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/slipstream/tvrage/internal/config"
	"github.com/slipstream/tvrage/internal/metadata"
	"github.com/slipstream/tvrage/internal/metadata/tvrage"
)

func newTestApp(format string) (*app, *bytes.Buffer) {
	cfg := config.Default()
	cfg.TVRage.Mock = true

	var out bytes.Buffer
	return &app{
		cfg:     cfg,
		service: metadata.NewService(cfg.TVRage, zerolog.Nop()),
		logger:  zerolog.Nop(),
		out:     &out,
		format:  format,
	}, &out
}

func TestRun_Search(t *testing.T) {
	a, out := newTestApp("json")

	require.NoError(t, a.run(context.Background(), []string{"search", "lost"}))

	var shows []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &shows))
	require.Len(t, shows, 1)
	assert.Equal(t, "Lost", shows[0]["name"])
}

func TestRun_EpisodeYAML(t *testing.T) {
	a, out := newTestApp("yaml")

	require.NoError(t, a.run(context.Background(), []string{"episode", "4284", "6", "18"}))

	var ep map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &ep))
	assert.Equal(t, "The End", ep["title"])
	assert.Equal(t, "06x18", ep["number"])
}

func TestRun_EpisodeList(t *testing.T) {
	a, out := newTestApp("json")

	require.NoError(t, a.run(context.Background(), []string{"episodes", "4284"}))

	var list struct {
		Name         string                               `json:"name"`
		TotalSeasons int                                  `json:"totalseasons"`
		Seasons      map[string]map[string]map[string]any `json:"seasons"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &list))
	assert.Equal(t, "Lost", list.Name)
	assert.Equal(t, 6, list.TotalSeasons)
	assert.Equal(t, "Pilot (2)", list.Seasons["1"]["2"]["title"])
}

func TestRun_Lookup(t *testing.T) {
	a, out := newTestApp("json")

	require.NoError(t, a.run(context.Background(), []string{"lookup", "the", "event"}))

	var shows []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &shows))
	require.Len(t, shows, 1)
	assert.Equal(t, "The Event", shows[0]["name"])
	assert.Contains(t, shows[0], "akas", "lookup returns full show info")
}

func TestRun_Version(t *testing.T) {
	a, out := newTestApp("json")

	require.NoError(t, a.run(context.Background(), []string{"version"}))
	assert.Contains(t, out.String(), config.Version)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []string
		want   error
	}{
		{"no command", "json", nil, errUsage},
		{"unknown command", "json", []string{"frobnicate"}, errUsage},
		{"bad format", "xml", []string{"version"}, errUsage},
		{"missing id", "json", []string{"show"}, errUsage},
		{"non-numeric id", "json", []string{"show", "abc"}, errUsage},
		{"negative id", "json", []string{"show", "-1"}, tvrage.ErrInvalidArgument},
		{"episode arity", "json", []string{"episode", "1", "2"}, errUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestApp(tt.format)
			err := a.run(context.Background(), tt.args)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
