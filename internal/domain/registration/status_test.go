package registration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "approved", StatusApproved.String())
	assert.Equal(t, "rejected", StatusRejected.String())
	assert.Equal(t, "unknown", Status(99).String())
}

func TestStatusFromString(t *testing.T) {
	status, ok := StatusFromString("approved")
	require.True(t, ok)
	assert.Equal(t, StatusApproved, status)

	_, ok = StatusFromString("validated")
	assert.False(t, ok)

	_, ok = StatusFromString("")
	assert.False(t, ok)
}

func TestStatusJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, `"approved"`, string(data))

	var status Status
	require.NoError(t, json.Unmarshal([]byte(`"rejected"`), &status))
	assert.Equal(t, StatusRejected, status)

	assert.Error(t, json.Unmarshal([]byte(`"bogus"`), &status))
}

func TestStatusSQLValue(t *testing.T) {
	value, err := StatusPending.Value()
	require.NoError(t, err)
	assert.Equal(t, "pending", value)

	var status Status
	require.NoError(t, status.Scan("approved"))
	assert.Equal(t, StatusApproved, status)

	require.NoError(t, status.Scan([]byte("rejected")))
	assert.Equal(t, StatusRejected, status)

	assert.Error(t, status.Scan("bogus"))
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}
