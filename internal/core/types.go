package core

import "time"

// ResourceKind identifies the kind of catalog resource a fetch targets.
type ResourceKind string

const (
	ResourceSubscriptions ResourceKind = "subscriptions"
	ResourcePlaylists     ResourceKind = "playlists"
	ResourcePlaylistItems ResourceKind = "playlist-items"
	ResourceChannels      ResourceKind = "channels"
	ResourceSearch        ResourceKind = "search"
)

// MatchKind identifies what a search result points at.
type MatchKind string

const (
	MatchVideo    MatchKind = "video"
	MatchChannel  MatchKind = "channel"
	MatchPlaylist MatchKind = "playlist"
)

// Subscription is one channel the authenticated account subscribes to.
type Subscription struct {
	ChannelID    string    `json:"channel_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	SubscribedAt time.Time `json:"subscribed_at"`
	ItemCount    int       `json:"item_count"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
}

// Playlist is one playlist owned by a channel.
type Playlist struct {
	ID          string    `json:"id"`
	ChannelID   string    `json:"channel_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ItemCount   int       `json:"item_count"`
	PublishedAt time.Time `json:"published_at"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// PlaylistItem is one video entry inside a playlist.
type PlaylistItem struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	Position     int       `json:"position"`
	OwnerChannel string    `json:"owner_channel,omitempty"`
	AddedAt      time.Time `json:"added_at"`
	PublishedAt  time.Time `json:"published_at"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
}

// Channel is the profile and statistics for one channel.
type Channel struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Handle      string    `json:"handle,omitempty"`
	Subscribers uint64    `json:"subscribers"`
	Videos      uint64    `json:"videos"`
	Views       uint64    `json:"views"`
	PublishedAt time.Time `json:"published_at"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// SearchResult is one hit from a catalog search.
type SearchResult struct {
	Kind         MatchKind `json:"kind"`
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ChannelID    string    `json:"channel_id,omitempty"`
	ChannelTitle string    `json:"channel_title,omitempty"`
	PublishedAt  time.Time `json:"published_at"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
}

// FetchReport captures one complete fetch run and its quota footprint.
// Exactly one of the resource slices is populated, matching Resource.
type FetchReport struct {
	ReportID    string       `json:"report_id"`
	Resource    ResourceKind `json:"resource"`
	Target      string       `json:"target,omitempty"`
	Count       int          `json:"count"`
	Total       int          `json:"total"`
	Pages       int          `json:"pages"`
	QuotaSpent  int          `json:"quota_spent"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	ToolVersion string       `json:"tool_version"`

	Subscriptions []Subscription `json:"subscriptions,omitempty"`
	Playlists     []Playlist     `json:"playlists,omitempty"`
	PlaylistItems []PlaylistItem `json:"playlist_items,omitempty"`
	Channels      []Channel      `json:"channels,omitempty"`
	Matches       []SearchResult `json:"matches,omitempty"`
}

// QuotaStatus is a point-in-time view of the sliding quota window.
type QuotaStatus struct {
	WindowUsed        int       `json:"window_used"`
	Threshold         int       `json:"threshold"`
	MaxQuotaPerMinute int       `json:"max_quota_per_minute"`
	Reserve           int       `json:"reserve"`
	Utilization       float64   `json:"utilization"`
	NextWaitMs        int64     `json:"next_wait_ms"`
	AsOf              time.Time `json:"as_of"`
}
