package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tubelens/tubelens/internal/core/quota"
)

// DefaultBaseURL is the provider's API root.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// maxPageSize is the provider's per-page ceiling for list calls.
const maxPageSize = 50

// Endpoint identifiers, as priced in the provider's published quota table.
const (
	EndpointSubscriptions = "subscriptions.list"
	EndpointPlaylists     = "playlists.list"
	EndpointPlaylistItems = "playlistItems.list"
	EndpointChannels      = "channels.list"
	EndpointSearch        = "search.list"
)

// Client issues read-only calls against the provider. Every call goes through
// the admission throttle: its endpoint cost is reserved before dispatch and
// failures come back classified into the package's error taxonomy, with
// quota exhaustion collapsed into QuotaError.
type Client struct {
	HTTP        *http.Client
	BaseURL     string
	Token       string
	Throttle    *quota.Throttle
	Costs       *quota.Costs
	ToolVersion string

	// OnCall observes each committed admission, for logs and the
	// consumption audit. Called from the dispatching goroutine.
	OnCall func(endpoint string, admission quota.Admission)
}

// call admits one GET through the throttle and decodes a 2xx body into out.
func (c *Client) call(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if c == nil || c.Throttle == nil {
		return errors.New("youtube client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cost := c.costOf(endpoint)
	admission, err := c.Throttle.Execute(ctx, cost, func(ctx context.Context) error {
		return c.do(ctx, path, params, out)
	})

	if c.OnCall != nil && !admission.DecidedAt.IsZero() {
		c.OnCall(endpoint, admission)
	}

	if err != nil {
		return HandleQuotaError(err)
	}
	return nil
}

// do performs the HTTP exchange. Non-2xx responses and transport failures are
// mapped onto the error taxonomy here, at the boundary, and nowhere else.
func (c *Client) do(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := strings.TrimSuffix(c.baseURL(), "/") + "/" + strings.TrimPrefix(path, "/")
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if token := strings.TrimSpace(c.Token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if version := strings.TrimSpace(c.ToolVersion); version != "" {
		req.Header.Set("User-Agent", "tubelens/"+version)
	}

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return classifyResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// classifyResponse maps a failed provider response onto the error taxonomy.
// The body shape is {error: {code, message, errors: [{reason}]}}; a body that
// does not parse simply yields no reasons.
func classifyResponse(resp *http.Response) error {
	var body errorBody
	if resp.Body != nil {
		_ = json.NewDecoder(resp.Body).Decode(&body)
	}

	message := strings.TrimSpace(body.Error.Message)
	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{StatusCode: resp.StatusCode, Message: message}
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Reasons:    body.reasons(),
		Message:    message,
	}
}

func (c *Client) costOf(endpoint string) int {
	if c != nil && c.Costs != nil {
		return c.Costs.CostOf(endpoint)
	}
	return (&quota.Costs{}).CostOf(endpoint)
}

func (c *Client) baseURL() string {
	if c != nil && strings.TrimSpace(c.BaseURL) != "" {
		return strings.TrimSpace(c.BaseURL)
	}
	return DefaultBaseURL
}
