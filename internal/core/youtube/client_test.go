package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tubelens/tubelens/internal/core/quota"
)

// roomyThrottle admits everything without delay so client tests exercise the
// HTTP path, not the backoff curve.
func roomyThrottle() *quota.Throttle {
	return quota.NewThrottle(quota.ThrottleConfig{
		Threshold:         100000,
		MaxQuotaPerMinute: 200000,
		MaxWait:           time.Second,
	}, &quota.Tracker{})
}

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		HTTP:     server.Client(),
		BaseURL:  server.URL,
		Throttle: roomyThrottle(),
		Costs:    &quota.Costs{},
	}
}

func subscriptionsPage(start, count int, next string, total int) []byte {
	items := make([]any, 0, count)
	for i := 0; i < count; i++ {
		n := start + i
		items = append(items, map[string]any{
			"id": fmt.Sprintf("sub-%03d", n),
			"snippet": map[string]any{
				"title":       fmt.Sprintf("Channel %03d", n),
				"publishedAt": "2024-05-01T00:00:00Z",
				"resourceId":  map[string]any{"channelId": fmt.Sprintf("UC%03d", n)},
			},
			"contentDetails": map[string]any{"totalItemCount": n},
		})
	}

	payload := map[string]any{
		"pageInfo": map[string]any{"totalResults": total, "resultsPerPage": 50},
		"items":    items,
	}
	if next != "" {
		payload["nextPageToken"] = next
	}
	data, _ := json.Marshal(payload)
	return data
}

func searchPage(count int, next string, total int) []byte {
	items := make([]any, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, map[string]any{
			"id": map[string]any{"kind": "youtube#video", "videoId": fmt.Sprintf("vid-%03d", i)},
			"snippet": map[string]any{
				"title":        fmt.Sprintf("Video %03d", i),
				"channelTitle": "Some Channel",
				"publishedAt":  "2024-05-01T00:00:00Z",
			},
		})
	}

	payload := map[string]any{
		"pageInfo": map[string]any{"totalResults": total, "resultsPerPage": 50},
		"items":    items,
	}
	if next != "" {
		payload["nextPageToken"] = next
	}
	data, _ := json.Marshal(payload)
	return data
}

func channelsPayload(ids []string) []byte {
	items := make([]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, map[string]any{
			"id": id,
			"snippet": map[string]any{
				"title":       "Channel " + id,
				"customUrl":   "@" + strings.ToLower(id),
				"publishedAt": "2020-01-01T00:00:00Z",
			},
			"statistics": map[string]any{
				"viewCount":       "1000",
				"subscriberCount": "120",
				"videoCount":      "45",
			},
		})
	}

	payload := map[string]any{
		"pageInfo": map[string]any{"totalResults": len(ids), "resultsPerPage": 50},
		"items":    items,
	}
	data, _ := json.Marshal(payload)
	return data
}

func TestClientFetchAllSubscriptionsPaginates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("pageToken") {
		case "":
			_, _ = w.Write(subscriptionsPage(0, 50, "page-2", 130))
		case "page-2":
			_, _ = w.Write(subscriptionsPage(50, 50, "page-3", 130))
		case "page-3":
			_, _ = w.Write(subscriptionsPage(100, 30, "", 130))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	client := newTestClient(server)

	var progress [][2]int
	subs, err := client.FetchAllSubscriptions(context.Background(), func(fetched, total int) {
		progress = append(progress, [2]int{fetched, total})
	})

	require.NoError(t, err)
	require.Len(t, subs, 130)
	require.Equal(t, "Channel 000", subs[0].Title)
	require.Equal(t, "UC129", subs[129].ChannelID)
	require.Equal(t, [][2]int{{50, 130}, {100, 130}, {130, 130}}, progress)
}

func TestClientFetchFailureAbortsWhole(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(subscriptionsPage(0, 50, "page-2", 130))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"Backend Error","errors":[{"reason":"backendError"}]}}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	subs, err := client.FetchAllSubscriptions(context.Background(), nil)
	require.Error(t, err)
	require.Nil(t, subs)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	require.Equal(t, []string{"backendError"}, apiErr.Reasons)
}

func TestClientQuotaExhaustionClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The request cannot be completed because you have exceeded your quota.","errors":[{"domain":"youtube.quota","reason":"quotaExceeded"}]}}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.FetchAllSubscriptions(context.Background(), nil)
	require.Error(t, err)

	var quotaErr *QuotaError
	require.ErrorAs(t, err, &quotaErr)
	require.True(t, IsQuotaExceeded(err))
}

func TestClientOtherForbiddenIsNotQuota(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"Access forbidden","errors":[{"reason":"forbidden"}]}}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.FetchAllSubscriptions(context.Background(), nil)
	require.Error(t, err)
	require.False(t, IsQuotaExceeded(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, []string{"forbidden"}, apiErr.Reasons)
}

func TestClientUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials","errors":[{"reason":"authError"}]}}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.FetchAllSubscriptions(context.Background(), nil)
	require.Error(t, err)
	require.False(t, IsQuotaExceeded(err))

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
}

func TestClientMalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [`))
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.FetchAllSubscriptions(context.Background(), nil)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestClientSendsBearerAndUserAgent(t *testing.T) {
	var mu sync.Mutex
	var gotAuth, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(subscriptionsPage(0, 1, "", 1))
	}))
	defer server.Close()

	client := newTestClient(server)
	client.Token = "ya29.token"
	client.ToolVersion = "1.2.3"

	_, err := client.FetchAllSubscriptions(context.Background(), nil)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "Bearer ya29.token", gotAuth)
	require.Equal(t, "tubelens/1.2.3", gotAgent)
}

func TestClientChargesEndpointCosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "search") {
			_, _ = w.Write(searchPage(5, "", 5))
			return
		}
		_, _ = w.Write(subscriptionsPage(0, 1, "", 1))
	}))
	defer server.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := &quota.Tracker{Clock: func() time.Time { return now }}
	client := newTestClient(server)
	client.Throttle = quota.NewThrottle(quota.ThrottleConfig{
		Threshold:         100000,
		MaxQuotaPerMinute: 200000,
		MaxWait:           time.Second,
	}, tracker)

	var endpoints []string
	var costs []int
	client.OnCall = func(endpoint string, admission quota.Admission) {
		endpoints = append(endpoints, endpoint)
		costs = append(costs, admission.Cost)
	}

	_, err := client.FetchAllSubscriptions(context.Background(), nil)
	require.NoError(t, err)
	_, err = client.Search(context.Background(), "lofi beats", 5, nil)
	require.NoError(t, err)

	require.Equal(t, 101, tracker.CountWindow())
	require.Equal(t, []string{EndpointSubscriptions, EndpointSearch}, endpoints)
	require.Equal(t, []int{1, 100}, costs)
}

func TestClientFetchChannelsChunks(t *testing.T) {
	var mu sync.Mutex
	var batches []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("id"), ",")
		mu.Lock()
		batches = append(batches, len(ids))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(channelsPayload(ids))
	}))
	defer server.Close()

	client := newTestClient(server)

	ids := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		ids = append(ids, fmt.Sprintf("UC%03d", i))
	}

	var progress [][2]int
	channels, err := client.FetchChannels(context.Background(), ids, func(fetched, total int) {
		progress = append(progress, [2]int{fetched, total})
	})

	require.NoError(t, err)
	require.Len(t, channels, 120)
	require.Equal(t, "UC000", channels[0].ID)
	require.Equal(t, uint64(120), channels[0].Subscribers)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{50, 50, 20}, batches)
	require.Equal(t, [][2]int{{50, 120}, {100, 120}, {120, 120}}, progress)
}

func TestClientSearchHonorsLimit(t *testing.T) {
	var mu sync.Mutex
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(searchPage(50, "more", 100000))
	}))
	defer server.Close()

	client := newTestClient(server)

	results, err := client.Search(context.Background(), "synthwave", 75, nil)
	require.NoError(t, err)
	require.Len(t, results, 75)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, requests)
}

func TestClientRequiresConfiguration(t *testing.T) {
	var unconfigured *Client
	_, err := unconfigured.FetchAllSubscriptions(context.Background(), nil)
	require.Error(t, err)

	client := &Client{Throttle: roomyThrottle()}
	_, err = client.FetchAllPlaylists(context.Background(), "  ", nil)
	require.Error(t, err)
	_, err = client.FetchAllPlaylistItems(context.Background(), "", nil)
	require.Error(t, err)
	_, err = client.FetchChannels(context.Background(), []string{" ", ""}, nil)
	require.Error(t, err)
	_, err = client.Search(context.Background(), "", 10, nil)
	require.Error(t, err)
}
