package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/app/repositories"
	"github.com/jhonnyduque/designfolio/internal/pkg/helpers"
)

// FeedService handles the public feed
type FeedService struct {
	feedRepo  FeedStore
	presenter *Presenter
	logger    zerolog.Logger
}

// NewFeedService creates a new FeedService
func NewFeedService(feedRepo FeedStore, presenter *Presenter, logger zerolog.Logger) *FeedService {
	return &FeedService{
		feedRepo:  feedRepo,
		presenter: presenter,
		logger:    logger,
	}
}

func normalizeSort(sort string) string {
	switch sort {
	case dto.FeedSortPopular, dto.FeedSortMostVoted, dto.FeedSortMostCommented:
		return sort
	default:
		return dto.FeedSortRecent
	}
}

func normalizeCategory(category string) string {
	for _, c := range models.WorkCategories {
		if c == category {
			return category
		}
	}
	return ""
}

// List returns one page of the feed. HasMore is inferred from the
// page being full, no count query is made.
func (s *FeedService) List(ctx context.Context, query *dto.FeedQuery, viewerID string) (*dto.FeedResponse, error) {
	page := query.Page
	if page < 0 {
		page = 0
	}
	offset, limit := helpers.CalculateOffsetLimit(page, helpers.DefaultPageSize)

	works, err := s.feedRepo.ListFeed(ctx, repositories.FeedQueryParams{
		Sort:     normalizeSort(query.Sort),
		Category: normalizeCategory(query.Category),
		Search:   strings.TrimSpace(query.Search),
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	return &dto.FeedResponse{
		Works:   s.presenter.WorkResponses(ctx, works, viewerID),
		Page:    page,
		HasMore: helpers.HasMore(len(works), limit),
	}, nil
}
