package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// DecodeEnvelope reads the response body into the uniform envelope and
// unmarshals the payload into v when v is non-nil.
func DecodeEnvelope(t *testing.T, resp *http.Response, v interface{}) *Envelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var env Envelope
	err = json.Unmarshal(body, &env)
	require.NoError(t, err, "failed to unmarshal envelope: %s", string(body))

	if v != nil {
		err = json.Unmarshal(env.Payload, v)
		require.NoError(t, err, "failed to unmarshal payload: %s", string(env.Payload))
	}

	return &env
}

// AssertErrorResponse verifies the envelope carries the expected status
// and message with a null payload.
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env), "failed to unmarshal envelope: %s", string(body))

	assert.Equal(t, "null", string(env.Payload), "error payload should be null")
	if expectedMessage != "" {
		require.NotNil(t, env.Message, "expected an error message")
		assert.Contains(t, *env.Message, expectedMessage, "error message mismatch")
	}
}
