package youtube

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/tubelens/tubelens/internal/core"
)

// ProgressFunc observes pagination progress after each page: the number of
// items accumulated so far and the server-reported total.
type ProgressFunc func(fetched, total int)

// page carries one decoded page of a cursor-paginated listing.
type page[T any] struct {
	items []T
	next  string
	total int
}

// fetchAll walks a cursor-paginated endpoint to exhaustion. The first page is
// requested without a cursor; every later page uses the cursor the previous
// response carried; the walk ends at a response with no cursor. Items keep
// server order. Any page failure rejects the whole fetch, so callers never
// see a partial accumulation.
func fetchAll[T any](ctx context.Context, onProgress ProgressFunc, fetch func(ctx context.Context, cursor string) (page[T], error)) ([]T, error) {
	var items []T
	cursor := ""
	for {
		p, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}

		items = append(items, p.items...)
		if onProgress != nil {
			onProgress(len(items), p.total)
		}

		if p.next == "" {
			return items, nil
		}
		cursor = p.next
	}
}

// FetchAllSubscriptions returns every subscription of the authenticated
// account, alphabetically, in server order.
func (c *Client) FetchAllSubscriptions(ctx context.Context, onProgress ProgressFunc) ([]core.Subscription, error) {
	return fetchAll(ctx, onProgress, func(ctx context.Context, cursor string) (page[core.Subscription], error) {
		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("mine", "true")
		params.Set("order", "alphabetical")
		params.Set("maxResults", strconv.Itoa(maxPageSize))
		if cursor != "" {
			params.Set("pageToken", cursor)
		}

		var list subscriptionList
		if err := c.call(ctx, EndpointSubscriptions, "subscriptions", params, &list); err != nil {
			return page[core.Subscription]{}, err
		}
		return page[core.Subscription]{
			items: list.subscriptions(),
			next:  list.NextPageToken,
			total: list.PageInfo.TotalResults,
		}, nil
	})
}

// FetchAllPlaylists returns every playlist owned by a channel.
func (c *Client) FetchAllPlaylists(ctx context.Context, channelID string, onProgress ProgressFunc) ([]core.Playlist, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, errors.New("channel id is required")
	}

	return fetchAll(ctx, onProgress, func(ctx context.Context, cursor string) (page[core.Playlist], error) {
		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("channelId", channelID)
		params.Set("maxResults", strconv.Itoa(maxPageSize))
		if cursor != "" {
			params.Set("pageToken", cursor)
		}

		var list playlistList
		if err := c.call(ctx, EndpointPlaylists, "playlists", params, &list); err != nil {
			return page[core.Playlist]{}, err
		}
		return page[core.Playlist]{
			items: list.playlists(),
			next:  list.NextPageToken,
			total: list.PageInfo.TotalResults,
		}, nil
	})
}

// FetchAllPlaylistItems returns every item of a playlist in playlist order.
func (c *Client) FetchAllPlaylistItems(ctx context.Context, playlistID string, onProgress ProgressFunc) ([]core.PlaylistItem, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return nil, errors.New("playlist id is required")
	}

	return fetchAll(ctx, onProgress, func(ctx context.Context, cursor string) (page[core.PlaylistItem], error) {
		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", strconv.Itoa(maxPageSize))
		if cursor != "" {
			params.Set("pageToken", cursor)
		}

		var list playlistItemList
		if err := c.call(ctx, EndpointPlaylistItems, "playlistItems", params, &list); err != nil {
			return page[core.PlaylistItem]{}, err
		}
		return page[core.PlaylistItem]{
			items: list.playlistItems(),
			next:  list.NextPageToken,
			total: list.PageInfo.TotalResults,
		}, nil
	})
}

// FetchChannels returns channel details for up to len(ids) channels. The
// provider answers id lookups in batches of at most 50, so the ids are
// chunked and fetched sequentially through the same throttle.
func (c *Client) FetchChannels(ctx context.Context, ids []string, onProgress ProgressFunc) ([]core.Channel, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		return nil, errors.New("at least one channel id is required")
	}

	var channels []core.Channel
	for start := 0; start < len(cleaned); start += maxPageSize {
		end := start + maxPageSize
		if end > len(cleaned) {
			end = len(cleaned)
		}

		params := url.Values{}
		params.Set("part", "snippet,statistics")
		params.Set("id", strings.Join(cleaned[start:end], ","))
		params.Set("maxResults", strconv.Itoa(maxPageSize))

		var list channelList
		if err := c.call(ctx, EndpointChannels, "channels", params, &list); err != nil {
			return nil, err
		}
		channels = append(channels, list.channels()...)
		if onProgress != nil {
			onProgress(len(channels), len(cleaned))
		}
	}
	return channels, nil
}

// Search walks the search endpoint until limit matches have accumulated or
// the results run out. Search pages are the provider's most expensive calls,
// so the limit also bounds quota spend.
func (c *Client) Search(ctx context.Context, query string, limit int, onProgress ProgressFunc) ([]core.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is required")
	}
	if limit <= 0 {
		limit = maxPageSize
	}

	fetched := 0
	results, err := fetchAll(ctx, onProgress, func(ctx context.Context, cursor string) (page[core.SearchResult], error) {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("q", query)
		params.Set("maxResults", strconv.Itoa(maxPageSize))
		if cursor != "" {
			params.Set("pageToken", cursor)
		}

		var list searchList
		if err := c.call(ctx, EndpointSearch, "search", params, &list); err != nil {
			return page[core.SearchResult]{}, err
		}

		p := page[core.SearchResult]{
			items: list.results(),
			next:  list.NextPageToken,
			total: list.PageInfo.TotalResults,
		}
		fetched += len(p.items)
		if fetched >= limit {
			p.next = ""
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
