package avatar

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	got := URL("Jane Doe")

	parsed, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "ui-avatars.com", parsed.Host)
	assert.Equal(t, "Jane Doe", parsed.Query().Get("name"))
	assert.Equal(t, "random", parsed.Query().Get("background"))
	assert.Equal(t, "fff", parsed.Query().Get("color"))
}

func TestURL_Deterministic(t *testing.T) {
	assert.Equal(t, URL("Jane Doe"), URL("Jane Doe"))
	assert.NotEqual(t, URL("Jane Doe"), URL("John Doe"))
}

func TestURL_TrimsWhitespace(t *testing.T) {
	assert.Equal(t, URL("Jane Doe"), URL("  Jane Doe  "))
}
