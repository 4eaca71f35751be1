package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCloudEvent_RoundTripsThroughParse(t *testing.T) {
	type payload struct {
		RequestID string `json:"requestId"`
		Quantity  int    `json:"quantity"`
	}

	ce, err := NewCloudEvent("service-adoption", "adoption.request.created", "abc123", payload{RequestID: "abc123", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "1.0", ce.SpecVersion)
	assert.NotEmpty(t, ce.ID)
	assert.Equal(t, "abc123", ce.Subject)

	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, ce.ID, parsed.ID)
	assert.Equal(t, "adoption.request.created", parsed.Type)

	var got payload
	require.NoError(t, parsed.ParseData(&got))
	assert.Equal(t, 2, got.Quantity)
}

func TestParseCloudEvent_RejectsIncompleteEnvelope(t *testing.T) {
	_, err := ParseCloudEvent([]byte(`{"id":"x"}`))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`not json`))
	assert.Error(t, err)
}
