package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/storage"
)

var workImageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// UploadFile is one image file submitted with a work.
type UploadFile struct {
	Name string
	Mime string
	Data []byte
}

// WorkService handles work submission and lifecycle operations
type WorkService struct {
	workRepo    WorkStore
	profileRepo ProfileStore
	store       storage.Storage
	worksBucket string
	logger      zerolog.Logger
}

// NewWorkService creates a new WorkService
func NewWorkService(
	workRepo WorkStore,
	profileRepo ProfileStore,
	store storage.Storage,
	worksBucket string,
	logger zerolog.Logger,
) *WorkService {
	return &WorkService{
		workRepo:    workRepo,
		profileRepo: profileRepo,
		store:       store,
		worksBucket: worksBucket,
		logger:      logger,
	}
}

func (s *WorkService) validateSubmission(req *dto.CreateWorkRequest, files []*UploadFile) error {
	title := strings.TrimSpace(req.Title)
	if len(title) < models.TitleMin || len(title) > models.TitleMax {
		return apperrors.NewBadRequestError("title must be 1 to 150 characters")
	}
	if len(strings.TrimSpace(req.Description)) < models.DescriptionMin {
		return apperrors.NewBadRequestError("description must be at least 120 characters")
	}
	if err := validateCategories([]string{req.Category}, models.WorkCategories, 1, 1); err != nil {
		return apperrors.NewBadRequestError("unknown work category: " + req.Category)
	}
	if len(req.Tags) > models.TagsMax {
		return apperrors.NewBadRequestError("at most 8 tags allowed")
	}
	if len(files) < models.ImagesMin || len(files) > models.ImagesMax {
		return apperrors.NewBadRequestError("between 1 and 6 images required")
	}
	for _, f := range files {
		if len(f.Data) > models.ImageMaxBytes {
			return apperrors.NewBadRequestError(fmt.Sprintf("image %q exceeds the 5MB limit", f.Name))
		}
		if _, ok := workImageExtensions[f.Mime]; !ok {
			return apperrors.NewBadRequestError(fmt.Sprintf("image %q must be JPEG, PNG, WebP or GIF", f.Name))
		}
	}
	return nil
}

// imageDimensions reads the pixel size from the image header. WebP is
// not decodable here and reports zero; the dimensions are cosmetic
// metadata for layout hints, not a validation input.
func imageDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

type uploadResult struct {
	index int
	image models.WorkImage
	err   error
}

// uploadImages stores all files in parallel and returns the successes
// in their original submission order. Partial failure is tolerated:
// one stored image is enough to proceed. When nothing could be stored
// the first failure (by submission order) comes back.
func (s *WorkService) uploadImages(ctx context.Context, authorID, workID string, files []*UploadFile) ([]models.WorkImage, error) {
	results := make([]uploadResult, len(files))
	now := time.Now().UnixMilli()

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f *UploadFile) {
			defer wg.Done()

			width, height := imageDimensions(f.Data)
			key := fmt.Sprintf("%s/%s/%d-%d.%s", authorID, workID, i, now, workImageExtensions[f.Mime])

			resp, err := s.store.Upload(ctx, &storage.UploadObject{
				Bucket: s.worksBucket,
				Key:    key,
				Mime:   f.Mime,
				Data:   f.Data,
			})
			if err != nil {
				s.logger.Warn().Err(err).Str("workID", workID).Int("index", i).Msg("Image upload failed")
				results[i] = uploadResult{index: i, err: err}
				return
			}

			results[i] = uploadResult{
				index: i,
				image: models.WorkImage{
					URL:    resp.URL,
					Width:  width,
					Height: height,
					Type:   f.Mime,
					Order:  i,
				},
			}
		}(i, f)
	}
	wg.Wait()

	var images []models.WorkImage
	var firstErr error
	for _, res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		images = append(images, res.image)
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNoImagesUploaded, firstErr)
	}

	// Renumber after dropping failures so orders stay contiguous.
	for i := range images {
		images[i].Order = i
	}

	return images, nil
}

// CreateWork validates a submission, uploads its images in parallel
// and inserts the work in pending_review state. Only onboarded
// accounts may submit.
func (s *WorkService) CreateWork(ctx context.Context, authorID string, req *dto.CreateWorkRequest, files []*UploadFile) (*models.Work, error) {
	author, err := s.profileRepo.GetProfileByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !author.OnboardingCompleted {
		return nil, apperrors.NewForbiddenError("complete your profile before submitting work")
	}

	if err := s.validateSubmission(req, files); err != nil {
		return nil, err
	}

	workID := uuid.New().String()
	images, err := s.uploadImages(ctx, authorID, workID, files)
	if err != nil {
		return nil, err
	}
	if len(images) < len(files) {
		s.logger.Warn().Str("workID", workID).Int("uploaded", len(images)).Int("submitted", len(files)).Msg("Work submitted with partial image set")
	}

	work := &models.Work{
		ID:          workID,
		AuthorID:    authorID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Tags:        req.Tags,
		Images:      images,
	}

	created, err := s.workRepo.CreateWork(ctx, work)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("workID", created.ID).Str("authorID", authorID).Msg("Work submitted for review")
	return created, nil
}

// GetWork retrieves a work. Non-public works are visible only to
// their author and founders. Public views bump the view counter best
// effort.
func (s *WorkService) GetWork(ctx context.Context, workID string, viewerID string, viewerIsFounder bool) (*models.Work, error) {
	work, err := s.workRepo.GetWorkByID(ctx, workID)
	if err != nil {
		return nil, err
	}

	if !work.IsPubliclyVisible() && work.AuthorID != viewerID && !viewerIsFounder {
		return nil, apperrors.ErrWorkNotFound
	}

	if work.IsPubliclyVisible() && work.AuthorID != viewerID {
		if err := s.workRepo.IncrementViews(ctx, workID); err != nil {
			s.logger.Warn().Err(err).Str("workID", workID).Msg("Failed to bump view counter")
		}
	}

	return work, nil
}

// ListMyWorks returns every work of the caller, whatever the status.
func (s *WorkService) ListMyWorks(ctx context.Context, authorID string) ([]*models.Work, error) {
	return s.workRepo.ListWorksByAuthor(ctx, authorID, false)
}

// ListUserWorks returns the public portfolio of a user.
func (s *WorkService) ListUserWorks(ctx context.Context, authorID string) ([]*models.Work, error) {
	return s.workRepo.ListWorksByAuthor(ctx, authorID, true)
}

// UpdateWork edits a rejected work. Approved and pending works are
// immutable, edits would bypass review.
func (s *WorkService) UpdateWork(ctx context.Context, workID, authorID string, req *dto.UpdateWorkRequest) (*models.Work, error) {
	work, err := s.workRepo.GetWorkByID(ctx, workID)
	if err != nil {
		return nil, err
	}
	if work.AuthorID != authorID {
		return nil, apperrors.ErrWorkNotFound
	}
	if work.ModerationStatus != models.ModerationRejected {
		return nil, apperrors.NewConflictError("only rejected works can be edited")
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len(title) < models.TitleMin || len(title) > models.TitleMax {
			return nil, apperrors.NewBadRequestError("title must be 1 to 150 characters")
		}
		updates["title"] = title
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if len(desc) < models.DescriptionMin {
			return nil, apperrors.NewBadRequestError("description must be at least 120 characters")
		}
		updates["description"] = desc
	}
	if req.Category != nil {
		if err := validateCategories([]string{*req.Category}, models.WorkCategories, 1, 1); err != nil {
			return nil, apperrors.NewBadRequestError("unknown work category: " + *req.Category)
		}
		updates["category"] = *req.Category
	}
	if req.Tags != nil {
		if len(req.Tags) > models.TagsMax {
			return nil, apperrors.NewBadRequestError("at most 8 tags allowed")
		}
		updates["tags"] = req.Tags
	}

	if err := s.workRepo.UpdateWork(ctx, workID, authorID, updates); err != nil {
		return nil, err
	}

	return s.workRepo.GetWorkByID(ctx, workID)
}

// ResubmitWork sends an edited rejected work back to the queue.
func (s *WorkService) ResubmitWork(ctx context.Context, workID, authorID string) error {
	if err := s.workRepo.ResubmitWork(ctx, workID, authorID); err != nil {
		return err
	}
	s.logger.Info().Str("workID", workID).Msg("Work resubmitted for review")
	return nil
}

// SetArchived hides or restores a work on the author's page.
func (s *WorkService) SetArchived(ctx context.Context, workID, authorID string, archived bool) error {
	return s.workRepo.SetArchived(ctx, workID, authorID, archived)
}

// DeleteWork permanently removes a work and its dependents.
func (s *WorkService) DeleteWork(ctx context.Context, workID, authorID string) error {
	if err := s.workRepo.DeleteWork(ctx, workID, authorID); err != nil {
		return err
	}
	s.logger.Info().Str("workID", workID).Str("authorID", authorID).Msg("Work deleted")
	return nil
}

func normalizeWorksFilter(filter string) string {
	switch filter {
	case models.WorksFilterApproved, models.WorksFilterArchived:
		return filter
	default:
		return models.WorksFilterAll
	}
}

// ListAllWorks returns a page of every author's works for the founder
// manager. Unknown filters fall back to listing everything.
func (s *WorkService) ListAllWorks(ctx context.Context, filter string, offset uint64, limit int) ([]*models.Work, error) {
	return s.workRepo.ListAllWorks(ctx, normalizeWorksFilter(filter), offset, limit)
}

// ModerateArchive archives or restores any author's work.
func (s *WorkService) ModerateArchive(ctx context.Context, workID string, moderatorID string, archived bool) error {
	if err := s.workRepo.AdminSetArchived(ctx, workID, archived); err != nil {
		return err
	}
	s.logger.Info().Str("workID", workID).Str("moderatorID", moderatorID).Bool("archived", archived).Msg("Work archive state changed by founder")
	return nil
}

// ModerateDelete permanently removes any author's work.
func (s *WorkService) ModerateDelete(ctx context.Context, workID string, moderatorID string) error {
	if err := s.workRepo.AdminDeleteWork(ctx, workID); err != nil {
		return err
	}
	s.logger.Info().Str("workID", workID).Str("moderatorID", moderatorID).Msg("Work deleted by founder")
	return nil
}
