package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListFeedSQLSorts(t *testing.T) {
	r := NewFeedRepository(nil)

	cases := []struct {
		sort    string
		orderBy string
	}{
		{"recent", "w.published_at DESC"},
		{"popular", "COALESCE(fs.score, 0) DESC"},
		{"most_voted", "w.likes_count DESC"},
		{"most_commented", "w.comments_count DESC"},
		// Anything off the whitelist falls back to recency.
		{"sideways", "w.published_at DESC"},
	}

	for _, tc := range cases {
		t.Run(tc.sort, func(t *testing.T) {
			sql, _, err := r.buildListFeedSQL(FeedQueryParams{Sort: tc.sort, Limit: 10})
			require.NoError(t, err)
			assert.Contains(t, sql, tc.orderBy)
			assert.Contains(t, sql, "w.created_at DESC")
		})
	}
}

func TestBuildListFeedSQLSearch(t *testing.T) {
	r := NewFeedRepository(nil)

	sql, args, err := r.buildListFeedSQL(FeedQueryParams{Sort: "recent", Search: "maria", Limit: 10})
	require.NoError(t, err)

	// Search spans title, category and the joined author's name and handle.
	assert.Contains(t, sql, "JOIN profiles p ON p.id = w.author_id")
	assert.Contains(t, sql, "w.title ILIKE")
	assert.Contains(t, sql, "w.category ILIKE")
	assert.Contains(t, sql, "p.full_name ILIKE")
	assert.Contains(t, sql, "p.username ILIKE")
	assert.NotContains(t, sql, "w.description ILIKE")
	assert.Contains(t, args, "%maria%")

	// Without a search term the profile join stays out of the query.
	sql, _, err = r.buildListFeedSQL(FeedQueryParams{Sort: "recent", Limit: 10})
	require.NoError(t, err)
	assert.NotContains(t, sql, "JOIN profiles")
}
