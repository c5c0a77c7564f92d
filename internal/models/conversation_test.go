package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageHistoryLast(t *testing.T) {
	h := MessageHistory{
		{Role: RoleUser, Content: "one"},
		{Role: RoleAssistant, Content: "two"},
		{Role: RoleUser, Content: "three"},
	}

	assert.Len(t, h.Last(2), 2)
	assert.Equal(t, "two", h.Last(2)[0].Content)
	assert.Equal(t, "three", h.Last(2)[1].Content)

	assert.Len(t, h.Last(10), 3)
	assert.Len(t, h.Last(0), 3)
}

func TestMessageHistoryRoundTrip(t *testing.T) {
	h := MessageHistory{{Role: RoleUser, Content: "hello"}}

	v, err := h.Value()
	require.NoError(t, err)

	var out MessageHistory
	require.NoError(t, out.Scan(v))
	require.Len(t, out, 1)
	assert.Equal(t, "hello", out[0].Content)
}

func TestMessageHistoryScanNil(t *testing.T) {
	var out MessageHistory
	require.NoError(t, out.Scan(nil))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
