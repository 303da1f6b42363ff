package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
)

// Presenter assembles API response shapes that span aggregates:
// works with their author summaries and the viewer's like state.
type Presenter struct {
	profileRepo ProfileStore
	likeRepo    LikeStore
	logger      zerolog.Logger
}

// NewPresenter creates a new Presenter
func NewPresenter(profileRepo ProfileStore, likeRepo LikeStore, logger zerolog.Logger) *Presenter {
	return &Presenter{
		profileRepo: profileRepo,
		likeRepo:    likeRepo,
		logger:      logger,
	}
}

// ProfileToResponse maps a profile to its public response shape. The
// email is included only when the profile belongs to the viewer.
func ProfileToResponse(p *models.Profile, includeEmail bool) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:                  p.ID,
		Username:            p.Username,
		FullName:            p.FullName,
		AvatarURL:           p.AvatarURL,
		Bio:                 p.Bio,
		School:              p.School,
		CareerYear:          p.CareerYear,
		Categories:          p.Categories,
		ThemeColor:          p.ThemeColor,
		ReputationLevel:     p.ReputationLevel,
		IsFounder:           p.IsFounder,
		OnboardingCompleted: p.OnboardingCompleted,
		CreatedAt:           p.CreatedAt,
		LastLoginAt:         p.LastLoginAt,
	}
	if includeEmail {
		resp.Email = p.Email
	}
	return resp
}

func workImagesToResponse(images []models.WorkImage) []dto.WorkImageResponse {
	out := make([]dto.WorkImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, dto.WorkImageResponse{
			URL:    img.URL,
			Width:  img.Width,
			Height: img.Height,
			Type:   img.Type,
			Order:  img.Order,
		})
	}
	return out
}

func workToResponse(w *models.Work, author *models.Profile, likedByMe bool) *dto.WorkResponse {
	resp := &dto.WorkResponse{
		ID:               w.ID,
		Title:            w.Title,
		Description:      w.Description,
		Category:         w.Category,
		Tags:             w.Tags,
		Images:           workImagesToResponse(w.Images),
		ModerationStatus: w.ModerationStatus,
		Archived:         w.Archived,
		LikesCount:       w.LikesCount,
		CommentsCount:    w.CommentsCount,
		ViewsCount:       w.ViewsCount,
		LikedByMe:        likedByMe,
		CreatedAt:        w.CreatedAt,
		PublishedAt:      w.PublishedAt,
	}
	if author != nil {
		resp.Author = &dto.WorkAuthorResponse{
			ID:        author.ID,
			Username:  author.Username,
			FullName:  author.FullName,
			AvatarURL: author.AvatarURL,
		}
	}
	return resp
}

// WorkResponses decorates works with author summaries and, when a
// viewer is known, their like state. Decoration failures degrade to
// plain works rather than failing the listing.
func (p *Presenter) WorkResponses(ctx context.Context, works []*models.Work, viewerID string) []*dto.WorkResponse {
	if len(works) == 0 {
		return []*dto.WorkResponse{}
	}

	authorIDs := make([]string, 0, len(works))
	workIDs := make([]string, 0, len(works))
	for _, w := range works {
		authorIDs = append(authorIDs, w.AuthorID)
		workIDs = append(workIDs, w.ID)
	}

	authors, err := p.profileRepo.GetProfilesByIDs(ctx, authorIDs)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to load work authors")
		authors = map[string]*models.Profile{}
	}

	liked := map[string]bool{}
	if viewerID != "" {
		liked, err = p.likeRepo.LikedWorkIDs(ctx, viewerID, workIDs)
		if err != nil {
			p.logger.Warn().Err(err).Msg("Failed to load like state")
			liked = map[string]bool{}
		}
	}

	out := make([]*dto.WorkResponse, 0, len(works))
	for _, w := range works {
		out = append(out, workToResponse(w, authors[w.AuthorID], liked[w.ID]))
	}
	return out
}

// WorkResponse decorates a single work.
func (p *Presenter) WorkResponse(ctx context.Context, w *models.Work, viewerID string) *dto.WorkResponse {
	responses := p.WorkResponses(ctx, []*models.Work{w}, viewerID)
	return responses[0]
}

// CommentResponses decorates comments with their author summaries.
func (p *Presenter) CommentResponses(ctx context.Context, comments []*models.Comment) []*dto.CommentResponse {
	if len(comments) == 0 {
		return []*dto.CommentResponse{}
	}

	userIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}

	authors, err := p.profileRepo.GetProfilesByIDs(ctx, userIDs)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to load comment authors")
		authors = map[string]*models.Profile{}
	}

	out := make([]*dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp := &dto.CommentResponse{
			ID:         c.ID,
			WorkID:     c.WorkID,
			Content:    c.Content,
			Categories: c.Categories,
			CreatedAt:  c.CreatedAt,
		}
		if a, ok := authors[c.UserID]; ok {
			resp.Author = &dto.WorkAuthorResponse{
				ID:        a.ID,
				Username:  a.Username,
				FullName:  a.FullName,
				AvatarURL: a.AvatarURL,
			}
		}
		out = append(out, resp)
	}
	return out
}
