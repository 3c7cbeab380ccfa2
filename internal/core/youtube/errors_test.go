package youtube

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsQuotaExceeded(t *testing.T) {
	require.True(t, IsQuotaExceeded(&QuotaError{}))
	require.True(t, IsQuotaExceeded(&APIError{StatusCode: 403, Reasons: []string{"quotaExceeded"}}))
	require.True(t, IsQuotaExceeded(&APIError{StatusCode: 403, Reasons: []string{"quotaExceeded", "forbidden"}}))
	require.True(t, IsQuotaExceeded(errors.New("upstream said Quota Exceeded, slow down")))

	require.False(t, IsQuotaExceeded(nil))
	require.False(t, IsQuotaExceeded(&APIError{StatusCode: 403, Reasons: []string{"forbidden"}}))
	require.False(t, IsQuotaExceeded(&APIError{StatusCode: 403}))
	require.False(t, IsQuotaExceeded(&AuthError{StatusCode: 401}))
	require.False(t, IsQuotaExceeded(&NetworkError{Err: errors.New("connection refused")}))

	// Only the first reported reason decides.
	require.False(t, IsQuotaExceeded(&APIError{StatusCode: 403, Reasons: []string{"forbidden", "quotaExceeded"}}))

	// The quota reason on a non-403 status does not classify on its own.
	require.False(t, IsQuotaExceeded(&APIError{StatusCode: 400, Reasons: []string{"quotaExceeded"}}))
}

func TestIsQuotaExceededThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("fetch page 3: %w", &APIError{StatusCode: 403, Reasons: []string{"quotaExceeded"}})
	require.True(t, IsQuotaExceeded(wrapped))

	wrapped = fmt.Errorf("fetch page 3: %w", &AuthError{StatusCode: 401})
	require.False(t, IsQuotaExceeded(wrapped))
}

func TestHandleQuotaError(t *testing.T) {
	converted := HandleQuotaError(&APIError{StatusCode: 403, Reasons: []string{"quotaExceeded"}, Message: "Daily Limit Exceeded"})
	var quotaErr *QuotaError
	require.ErrorAs(t, converted, &quotaErr)

	var apiErr *APIError
	require.False(t, errors.As(converted, &apiErr))

	original := &AuthError{StatusCode: 401, Message: "Invalid Credentials"}
	require.Same(t, original, HandleQuotaError(original))

	network := &NetworkError{Err: errors.New("dial tcp: timeout")}
	require.Same(t, network, HandleQuotaError(network))

	require.NoError(t, HandleQuotaError(nil))
}
