package post

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveExcerpt(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"shorter than limit", "hello", "hello"},
		{"exactly at limit", strings.Repeat("A", 150), strings.Repeat("A", 150)},
		{"truncated at limit", strings.Repeat("A", 200), strings.Repeat("A", 150)},
		{"multi-byte runes not split", strings.Repeat("é", 200), strings.Repeat("é", 150)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveExcerpt(tc.content))
		})
	}
}

func TestPostJSONHidesInternalIDs(t *testing.T) {
	p := Post{
		ID:       uuid.New(),
		Title:    "Hi",
		AuthorID: uuid.New(),
		Author:   AuthorSnapshot{ID: uuid.New(), Username: "alice"},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	// The raw author_id column never leaves the API; only the snapshot does
	assert.NotContains(t, decoded, "author_id")
	author, ok := decoded["author"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice", author["username"])
}
