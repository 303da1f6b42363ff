package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/pkg/helpers"
)

func newTestFeedService(feedStore *fakeFeedStore) *FeedService {
	author := &models.Profile{ID: "author-1", Username: "maria", FullName: "María", OnboardingCompleted: true}
	presenter := NewPresenter(newFakeProfileStore(author), newFakeLikeStore(), zerolog.Nop())
	return NewFeedService(feedStore, presenter, zerolog.Nop())
}

func feedWorks(n int) []*models.Work {
	works := make([]*models.Work, 0, n)
	for i := 0; i < n; i++ {
		works = append(works, &models.Work{
			ID:               fmt.Sprintf("work-%d", i),
			AuthorID:         "author-1",
			ModerationStatus: models.ModerationApproved,
		})
	}
	return works
}

func TestFeedSortNormalization(t *testing.T) {
	feedStore := &fakeFeedStore{}
	service := newTestFeedService(feedStore)
	ctx := context.Background()

	_, err := service.List(ctx, &dto.FeedQuery{Sort: "sideways"}, "")
	require.NoError(t, err)
	assert.Equal(t, dto.FeedSortRecent, feedStore.params.Sort)

	for _, sort := range []string{dto.FeedSortPopular, dto.FeedSortMostVoted, dto.FeedSortMostCommented} {
		_, err = service.List(ctx, &dto.FeedQuery{Sort: sort}, "")
		require.NoError(t, err)
		assert.Equal(t, sort, feedStore.params.Sort)
	}
}

func TestFeedCategoryNormalization(t *testing.T) {
	feedStore := &fakeFeedStore{}
	service := newTestFeedService(feedStore)
	ctx := context.Background()

	_, err := service.List(ctx, &dto.FeedQuery{Category: "Branding"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Branding", feedStore.params.Category)

	// Unknown categories fall back to no filter rather than an error.
	_, err = service.List(ctx, &dto.FeedQuery{Category: "Escultura"}, "")
	require.NoError(t, err)
	assert.Empty(t, feedStore.params.Category)
}

func TestFeedPagination(t *testing.T) {
	feedStore := &fakeFeedStore{works: feedWorks(helpers.DefaultPageSize)}
	service := newTestFeedService(feedStore)
	ctx := context.Background()

	resp, err := service.List(ctx, &dto.FeedQuery{Page: 2}, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(2*helpers.DefaultPageSize), feedStore.params.Offset)
	assert.Equal(t, 2, resp.Page)
	// A full page implies another one might exist.
	assert.True(t, resp.HasMore)
	assert.Len(t, resp.Works, helpers.DefaultPageSize)

	feedStore.works = feedWorks(3)
	resp, err = service.List(ctx, &dto.FeedQuery{}, "")
	require.NoError(t, err)
	assert.False(t, resp.HasMore)

	// Negative pages clamp to the first page.
	resp, err = service.List(ctx, &dto.FeedQuery{Page: -4}, "")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Page)
	assert.Equal(t, uint64(0), feedStore.params.Offset)
}

func TestFeedDecoratesAuthors(t *testing.T) {
	feedStore := &fakeFeedStore{works: feedWorks(2)}
	service := newTestFeedService(feedStore)

	resp, err := service.List(context.Background(), &dto.FeedQuery{}, "")
	require.NoError(t, err)
	require.Len(t, resp.Works, 2)
	require.NotNil(t, resp.Works[0].Author)
	assert.Equal(t, "maria", resp.Works[0].Author.Username)
}
