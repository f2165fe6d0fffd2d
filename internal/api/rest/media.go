package rest

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Akshay-Kumar/organizerr-client/internal/domain"
)

// MediaSearchQuery is one autocomplete lookup against /search_media.
type MediaSearchQuery struct {
	Query     string
	MediaType domain.MediaType
	Year      int
	Season    int
	Episode   int
}

type MediaSearchResult struct {
	ID           int64  `json:"id"`
	Title        string `json:"title,omitempty"`
	Name         string `json:"name,omitempty"`
	Year         int    `json:"year,omitempty"`
	Season       int    `json:"season,omitempty"`
	Episode      int    `json:"episode,omitempty"`
	EpisodeTitle string `json:"episode_title,omitempty"`
	Poster       string `json:"poster,omitempty"`
}

func (r MediaSearchResult) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

type mediaSearchResponse struct {
	Results []MediaSearchResult `json:"results"`
}

// SearchMedia queries the media autocomplete endpoint. Calls are throttled
// by the client's rate limiter; Wait blocks until a slot is available or the
// context is cancelled.
func (c *Client) SearchMedia(ctx context.Context, q MediaSearchQuery) ([]MediaSearchResult, error) {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		return nil, &domain.ValidationError{Field: "query", Err: errors.New("query is required")}
	}
	if !q.MediaType.SupportsSearch() {
		return nil, &domain.ValidationError{Field: "media_type", Err: errors.New("media type does not support search")}
	}
	if err := c.search.Wait(ctx); err != nil {
		return nil, &domain.TransportError{Op: "search_media", Err: err}
	}

	params := url.Values{
		"query":      []string{query},
		"media_type": []string{string(q.MediaType)},
	}
	if q.Year > 0 {
		params.Set("year", strconv.Itoa(q.Year))
	}
	if q.MediaType == domain.MediaTV || q.MediaType == domain.MediaEpisode {
		if q.Season > 0 {
			params.Set("season", strconv.Itoa(q.Season))
		}
		if q.Episode > 0 {
			params.Set("episode", strconv.Itoa(q.Episode))
		}
	}

	var out mediaSearchResponse
	if err := c.do(ctx, "search_media", http.MethodGet, "/search_media", params, nil, "", &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}
