package tvrage

import (
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Root tags of the four feed shapes. Note "Show" and "show" differ.
const (
	rootResults     = "Results"
	rootShowInfo    = "Showinfo"
	rootEpisodeList = "Show"
	rootEpisodeInfo = "show"
)

const (
	tagShow         = "show"
	tagName         = "name"
	tagGenres       = "genres"
	tagGenre        = "genre"
	tagNetwork      = "network"
	tagAkas         = "akas"
	tagAka          = "aka"
	tagTotalSeasons = "totalseasons"
	tagEpisodeList  = "Episodelist"
	tagSeason       = "Season"
	tagEpisode      = "episode"
	tagEpNum        = "epnum"

	attrCountry  = "country"
	attrSeasonNo = "no"

	unknownCountry = "unknown"
)

// renames normalizes tag names of the single-show feeds to the names used
// by search results.
var renames = map[string]string{
	"showname":       "name",
	"showlink":       "link",
	"origin_country": "country",
}

// Mapper converts feed documents into records. A Mapper holds no state
// between documents.
type Mapper struct {
	logger zerolog.Logger
}

// NewMapper creates a mapper.
func NewMapper(logger zerolog.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// Map parses the document read from r and maps it. Malformed documents are
// mapped as far as they could be read; Map never fails.
func (m *Mapper) Map(r io.Reader) Result {
	var result Result
	err := Parse(r, func(doc *Node) {
		result = m.MapTree(doc)
	})
	if err != nil {
		m.logger.Debug().Err(err).Str("kind", result.Kind.String()).Msg("Feed document is malformed, mapped partial tree")
	}
	return result
}

// MapTree maps a parsed document. A document without a known root tag
// yields a Result of KindNone.
func (m *Mapper) MapTree(doc *Node) Result {
	root := doc.Find(func(name string) bool {
		switch name {
		case rootResults, rootShowInfo, rootEpisodeList, rootEpisodeInfo:
			return true
		}
		return false
	})
	if root == nil {
		return Result{}
	}

	switch root.Name {
	case rootResults:
		return Result{Kind: KindSearch, Shows: mapResults(root)}
	case rootShowInfo:
		return Result{Kind: KindShowInfo, Show: mapProperties(root.Children, true)}
	case rootEpisodeList:
		return Result{Kind: KindEpisodeList, EpisodeList: m.mapEpisodeList(root)}
	default:
		return Result{Kind: KindEpisodeInfo, Episode: mapEpisodeInfo(root)}
	}
}

func mapResults(root *Node) []Record {
	shows := make([]Record, 0, len(root.Children))
	for _, show := range root.ChildrenNamed(tagShow) {
		shows = append(shows, mapProperties(show.Children, false))
	}
	return shows
}

func (m *Mapper) mapEpisodeList(root *Node) *EpisodeList {
	list := &EpisodeList{}

	if n := root.FirstChild(tagName); n != nil {
		list.Name, _ = n.SingleText()
	}

	if n := root.FirstChild(tagTotalSeasons); n != nil {
		if text, ok := n.SingleText(); ok {
			if count, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
				list.TotalSeasons = count
			}
		}
	}

	episodes := root.FirstChild(tagEpisodeList)
	if episodes == nil {
		return list
	}

	table := SeasonTable{}
	for _, seasonNode := range episodes.ChildrenNamed(tagSeason) {
		no, _ := seasonNode.Attr(attrSeasonNo)
		seasonNumber, ok := parseIndex(no)
		if !ok {
			m.logger.Debug().Str("no", no).Msg("Skipping season with invalid number")
			continue
		}

		season, exists := table[seasonNumber]
		if !exists {
			season = Season{}
			table[seasonNumber] = season
		}

		for _, episodeNode := range seasonNode.ChildrenNamed(tagEpisode) {
			episode := mapProperties(episodeNode.Children, false)
			episodeNumber, ok := parseIndex(episode.String(tagEpNum))
			if !ok {
				m.logger.Debug().
					Int("season", seasonNumber).
					Str("epnum", episode.String(tagEpNum)).
					Msg("Skipping episode with invalid number")
				continue
			}
			delete(episode, tagEpNum)
			season[episodeNumber] = episode
		}
	}

	if len(table) > 0 {
		list.Seasons = table
	}
	return list
}

func mapEpisodeInfo(root *Node) Record {
	episode := root.FindDescendant(tagEpisode)
	if episode == nil {
		return Record{}
	}
	return mapProperties(episode.Children, true)
}

// mapProperties converts a list of property elements into a record.
// genres, network and akas are aggregated; any other element is kept only
// when its sole content is text.
func mapProperties(props []*Node, rename bool) Record {
	rec := Record{}
	for _, prop := range props {
		if prop.IsText() {
			continue
		}

		key := prop.Name
		if rename {
			if to, ok := renames[key]; ok {
				key = to
			}
		}

		switch key {
		case tagGenres:
			if genres := collectGenres(prop); len(genres) > 0 {
				rec[key] = genres
			}
		case tagNetwork:
			country, _ := prop.Attr(attrCountry)
			if country == "" {
				country = unknownCountry
			}
			rec[key] = map[string]string{country: prop.FirstText()}
		case tagAkas:
			if akas := collectAkas(prop); len(akas) > 0 {
				rec[key] = akas
			}
		default:
			if value, ok := prop.SingleText(); ok {
				rec[key] = value
			}
		}
	}
	return rec
}

func collectGenres(genres *Node) []string {
	var out []string
	for _, genre := range genres.ChildrenNamed(tagGenre) {
		if text := genre.FirstText(); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// collectAkas keys each alternate name by its country attribute. Names
// without a country are keyed by their position among such names.
func collectAkas(akas *Node) map[string]string {
	out := make(map[string]string)
	unkeyed := 0
	for _, aka := range akas.ChildrenNamed(tagAka) {
		text := aka.FirstText()
		if text == "" {
			continue
		}
		if country, _ := aka.Attr(attrCountry); country != "" {
			out[country] = text
			continue
		}
		out[strconv.Itoa(unkeyed)] = text
		unkeyed++
	}
	return out
}

func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
