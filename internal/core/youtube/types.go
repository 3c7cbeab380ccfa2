package youtube

import (
	"time"

	"github.com/tubelens/tubelens/internal/core"
)

// Wire shapes for the provider's list envelopes. Only the fields tubelens
// consumes are declared.

type pageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}

type thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type thumbnailSet struct {
	Default thumbnail `json:"default"`
	Medium  thumbnail `json:"medium"`
	High    thumbnail `json:"high"`
}

// bestURL prefers the largest declared variant.
func (t thumbnailSet) bestURL() string {
	switch {
	case t.High.URL != "":
		return t.High.URL
	case t.Medium.URL != "":
		return t.Medium.URL
	default:
		return t.Default.URL
	}
}

type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Domain  string `json:"domain"`
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

func (b errorBody) reasons() []string {
	if len(b.Error.Errors) == 0 {
		return nil
	}
	reasons := make([]string, 0, len(b.Error.Errors))
	for _, item := range b.Error.Errors {
		reasons = append(reasons, item.Reason)
	}
	return reasons
}

type subscriptionList struct {
	NextPageToken string                 `json:"nextPageToken"`
	PageInfo      pageInfo               `json:"pageInfo"`
	Items         []subscriptionResource `json:"items"`
}

type subscriptionResource struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		PublishedAt time.Time `json:"publishedAt"`
		ResourceID  struct {
			ChannelID string `json:"channelId"`
		} `json:"resourceId"`
		Thumbnails thumbnailSet `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		TotalItemCount int `json:"totalItemCount"`
	} `json:"contentDetails"`
}

func (l subscriptionList) subscriptions() []core.Subscription {
	out := make([]core.Subscription, 0, len(l.Items))
	for _, item := range l.Items {
		out = append(out, core.Subscription{
			ChannelID:    item.Snippet.ResourceID.ChannelID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			SubscribedAt: item.Snippet.PublishedAt,
			ItemCount:    item.ContentDetails.TotalItemCount,
			Thumbnail:    item.Snippet.Thumbnails.bestURL(),
		})
	}
	return out
}

type playlistList struct {
	NextPageToken string             `json:"nextPageToken"`
	PageInfo      pageInfo           `json:"pageInfo"`
	Items         []playlistResource `json:"items"`
}

type playlistResource struct {
	ID      string `json:"id"`
	Snippet struct {
		ChannelID   string       `json:"channelId"`
		Title       string       `json:"title"`
		Description string       `json:"description"`
		PublishedAt time.Time    `json:"publishedAt"`
		Thumbnails  thumbnailSet `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		ItemCount int `json:"itemCount"`
	} `json:"contentDetails"`
}

func (l playlistList) playlists() []core.Playlist {
	out := make([]core.Playlist, 0, len(l.Items))
	for _, item := range l.Items {
		out = append(out, core.Playlist{
			ID:          item.ID,
			ChannelID:   item.Snippet.ChannelID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			ItemCount:   item.ContentDetails.ItemCount,
			PublishedAt: item.Snippet.PublishedAt,
			Thumbnail:   item.Snippet.Thumbnails.bestURL(),
		})
	}
	return out
}

type playlistItemList struct {
	NextPageToken string                 `json:"nextPageToken"`
	PageInfo      pageInfo               `json:"pageInfo"`
	Items         []playlistItemResource `json:"items"`
}

type playlistItemResource struct {
	Snippet struct {
		Title                  string       `json:"title"`
		Position               int          `json:"position"`
		PublishedAt            time.Time    `json:"publishedAt"`
		VideoOwnerChannelTitle string       `json:"videoOwnerChannelTitle"`
		Thumbnails             thumbnailSet `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		VideoID          string    `json:"videoId"`
		VideoPublishedAt time.Time `json:"videoPublishedAt"`
	} `json:"contentDetails"`
}

func (l playlistItemList) playlistItems() []core.PlaylistItem {
	out := make([]core.PlaylistItem, 0, len(l.Items))
	for _, item := range l.Items {
		out = append(out, core.PlaylistItem{
			VideoID:      item.ContentDetails.VideoID,
			Title:        item.Snippet.Title,
			Position:     item.Snippet.Position,
			OwnerChannel: item.Snippet.VideoOwnerChannelTitle,
			AddedAt:      item.Snippet.PublishedAt,
			PublishedAt:  item.ContentDetails.VideoPublishedAt,
			Thumbnail:    item.Snippet.Thumbnails.bestURL(),
		})
	}
	return out
}

type channelList struct {
	NextPageToken string            `json:"nextPageToken"`
	PageInfo      pageInfo          `json:"pageInfo"`
	Items         []channelResource `json:"items"`
}

type channelResource struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string       `json:"title"`
		Description string       `json:"description"`
		CustomURL   string       `json:"customUrl"`
		PublishedAt time.Time    `json:"publishedAt"`
		Thumbnails  thumbnailSet `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount       uint64 `json:"viewCount,string"`
		SubscriberCount uint64 `json:"subscriberCount,string"`
		VideoCount      uint64 `json:"videoCount,string"`
	} `json:"statistics"`
}

func (l channelList) channels() []core.Channel {
	out := make([]core.Channel, 0, len(l.Items))
	for _, item := range l.Items {
		out = append(out, core.Channel{
			ID:          item.ID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Handle:      item.Snippet.CustomURL,
			Subscribers: item.Statistics.SubscriberCount,
			Videos:      item.Statistics.VideoCount,
			Views:       item.Statistics.ViewCount,
			PublishedAt: item.Snippet.PublishedAt,
			Thumbnail:   item.Snippet.Thumbnails.bestURL(),
		})
	}
	return out
}

type searchList struct {
	NextPageToken string           `json:"nextPageToken"`
	PageInfo      pageInfo         `json:"pageInfo"`
	Items         []searchResource `json:"items"`
}

type searchResource struct {
	ID struct {
		Kind       string `json:"kind"`
		VideoID    string `json:"videoId"`
		ChannelID  string `json:"channelId"`
		PlaylistID string `json:"playlistId"`
	} `json:"id"`
	Snippet struct {
		Title        string       `json:"title"`
		ChannelID    string       `json:"channelId"`
		ChannelTitle string       `json:"channelTitle"`
		PublishedAt  time.Time    `json:"publishedAt"`
		Thumbnails   thumbnailSet `json:"thumbnails"`
	} `json:"snippet"`
}

func (l searchList) results() []core.SearchResult {
	out := make([]core.SearchResult, 0, len(l.Items))
	for _, item := range l.Items {
		result := core.SearchResult{
			Title:        item.Snippet.Title,
			ChannelID:    item.Snippet.ChannelID,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			Thumbnail:    item.Snippet.Thumbnails.bestURL(),
		}
		switch item.ID.Kind {
		case "youtube#channel":
			result.Kind = core.MatchChannel
			result.ID = item.ID.ChannelID
		case "youtube#playlist":
			result.Kind = core.MatchPlaylist
			result.ID = item.ID.PlaylistID
		default:
			result.Kind = core.MatchVideo
			result.ID = item.ID.VideoID
		}
		out = append(out, result)
	}
	return out
}
