package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListCommentsSQLNewestFirst(t *testing.T) {
	r := NewCommentRepository(nil)

	sql, args, err := r.buildListCommentsSQL("work-1")
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY created_at DESC")
	assert.Contains(t, args, "work-1")
}
