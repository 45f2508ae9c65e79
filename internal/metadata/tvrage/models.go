package tvrage

import (
	"slices"
	"strconv"
	"strings"
)

// Record is a show or episode as returned by the feeds. Keys are tag names,
// normalized through the rename table on single-show endpoints. Values are
// string, []string (genres) or map[string]string (network, akas).
type Record map[string]any

// String returns the scalar value stored under key.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Strings returns the list value stored under key.
func (r Record) Strings(key string) []string {
	s, _ := r[key].([]string)
	return s
}

// Map returns the mapping value stored under key.
func (r Record) Map(key string) map[string]string {
	m, _ := r[key].(map[string]string)
	return m
}

// Int parses the scalar value stored under key. It returns 0 when the key
// is missing or not numeric.
func (r Record) Int(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.String(key)))
	if err != nil {
		return 0
	}
	return n
}

// Season maps episode numbers to episodes.
type Season map[int]Record

// Numbers returns the episode numbers in ascending order.
func (s Season) Numbers() []int {
	return sortedKeys(s)
}

// SeasonTable maps season numbers to seasons.
type SeasonTable map[int]Season

// Numbers returns the season numbers in ascending order.
func (t SeasonTable) Numbers() []int {
	return sortedKeys(t)
}

// Episode returns the episode at [season][episode].
func (t SeasonTable) Episode(season, episode int) (Record, bool) {
	rec, ok := t[season][episode]
	return rec, ok
}

// EpisodeList is the mapped episode_list feed.
type EpisodeList struct {
	Name         string      `json:"name,omitempty" yaml:"name,omitempty"`
	TotalSeasons int         `json:"totalseasons,omitempty" yaml:"totalseasons,omitempty"` // 0 when absent
	Seasons      SeasonTable `json:"seasons,omitempty" yaml:"seasons,omitempty"`
}

// Kind identifies which feed shape a document contained.
type Kind int

const (
	KindNone Kind = iota
	KindSearch
	KindShowInfo
	KindEpisodeList
	KindEpisodeInfo
)

func (k Kind) String() string {
	switch k {
	case KindSearch:
		return "search"
	case KindShowInfo:
		return "showinfo"
	case KindEpisodeList:
		return "episodelist"
	case KindEpisodeInfo:
		return "episodeinfo"
	default:
		return "none"
	}
}

// Result is the mapped content of one feed document. Only the field that
// matches Kind is set.
type Result struct {
	Kind        Kind
	Shows       []Record
	Show        Record
	EpisodeList *EpisodeList
	Episode     Record
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
