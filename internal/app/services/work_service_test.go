package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/models/dto"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
)

var validWorkDescription = strings.Repeat("d", 120)

func validWorkRequest() *dto.CreateWorkRequest {
	return &dto.CreateWorkRequest{
		Title:       "Identidad para una cafetería",
		Description: validWorkDescription,
		Category:    "Branding",
		Tags:        []string{"logo", "identidad"},
	}
}

func pngUpload(name string) *UploadFile {
	return &UploadFile{Name: name, Mime: "image/png", Data: []byte("png-bytes")}
}

func newTestWorkService(author *models.Profile, store *fakeStorage) (*WorkService, *fakeWorkStore) {
	works := newFakeWorkStore()
	profiles := newFakeProfileStore(author)
	if store == nil {
		store = &fakeStorage{}
	}
	return NewWorkService(works, profiles, store, "works", zerolog.Nop()), works
}

func onboardedAuthor() *models.Profile {
	return &models.Profile{ID: "author-1", Username: "maria", OnboardingCompleted: true, IsActive: true}
}

func TestCreateWorkValidation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(req *dto.CreateWorkRequest, files *[]*UploadFile)
		message string
	}{
		{
			name:    "title too long",
			mutate:  func(req *dto.CreateWorkRequest, _ *[]*UploadFile) { req.Title = strings.Repeat("t", 151) },
			message: "title",
		},
		{
			name:    "empty title",
			mutate:  func(req *dto.CreateWorkRequest, _ *[]*UploadFile) { req.Title = "   " },
			message: "title",
		},
		{
			name:    "description too short",
			mutate:  func(req *dto.CreateWorkRequest, _ *[]*UploadFile) { req.Description = strings.Repeat("d", 119) },
			message: "description",
		},
		{
			name:    "unknown category",
			mutate:  func(req *dto.CreateWorkRequest, _ *[]*UploadFile) { req.Category = "Cerámica" },
			message: "category",
		},
		{
			name: "too many tags",
			mutate: func(req *dto.CreateWorkRequest, _ *[]*UploadFile) {
				req.Tags = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
			},
			message: "tags",
		},
		{
			name:    "no images",
			mutate:  func(_ *dto.CreateWorkRequest, files *[]*UploadFile) { *files = nil },
			message: "images",
		},
		{
			name: "too many images",
			mutate: func(_ *dto.CreateWorkRequest, files *[]*UploadFile) {
				*files = make([]*UploadFile, 7)
				for i := range *files {
					(*files)[i] = pngUpload("x.png")
				}
			},
			message: "images",
		},
		{
			name: "oversized image",
			mutate: func(_ *dto.CreateWorkRequest, files *[]*UploadFile) {
				(*files)[0] = &UploadFile{Name: "big.png", Mime: "image/png", Data: make([]byte, models.ImageMaxBytes+1)}
			},
			message: "5MB",
		},
		{
			name: "unsupported mime",
			mutate: func(_ *dto.CreateWorkRequest, files *[]*UploadFile) {
				(*files)[0] = &UploadFile{Name: "doc.pdf", Mime: "application/pdf", Data: []byte("pdf")}
			},
			message: "JPEG",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service, _ := newTestWorkService(onboardedAuthor(), nil)
			req := validWorkRequest()
			files := []*UploadFile{pngUpload("a.png")}
			tc.mutate(req, &files)

			_, err := service.CreateWork(ctx, "author-1", req, files)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestCreateWorkRequiresOnboarding(t *testing.T) {
	author := onboardedAuthor()
	author.OnboardingCompleted = false
	service, _ := newTestWorkService(author, nil)

	_, err := service.CreateWork(context.Background(), "author-1", validWorkRequest(), []*UploadFile{pngUpload("a.png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile")
}

func TestCreateWorkKeepsImageOrderOnPartialFailure(t *testing.T) {
	store := &fakeStorage{fail: func(key string) error {
		if strings.Contains(key, "/1-") {
			return errors.New("storage unavailable")
		}
		return nil
	}}
	service, works := newTestWorkService(onboardedAuthor(), store)

	files := []*UploadFile{pngUpload("first.png"), pngUpload("second.png"), pngUpload("third.png")}
	work, err := service.CreateWork(context.Background(), "author-1", validWorkRequest(), files)
	require.NoError(t, err)

	// The middle upload failed; survivors keep their relative order and
	// get contiguous order values.
	require.Len(t, work.Images, 2)
	// Keys start at the author id; the bucket is not repeated inside them.
	for _, upload := range store.uploads {
		assert.True(t, strings.HasPrefix(upload.Key, "author-1/"))
	}
	assert.Contains(t, work.Images[0].URL, "/0-")
	assert.Contains(t, work.Images[1].URL, "/2-")
	assert.Equal(t, 0, work.Images[0].Order)
	assert.Equal(t, 1, work.Images[1].Order)

	stored, err := works.GetWorkByID(context.Background(), work.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ModerationPending, stored.ModerationStatus)
}

func TestCreateWorkFailsWhenNoImageStored(t *testing.T) {
	store := &fakeStorage{fail: func(string) error { return errors.New("storage unavailable") }}
	service, _ := newTestWorkService(onboardedAuthor(), store)

	_, err := service.CreateWork(context.Background(), "author-1", validWorkRequest(), []*UploadFile{pngUpload("a.png")})
	assert.ErrorIs(t, err, apperrors.ErrNoImagesUploaded)
}

func TestGetWorkVisibility(t *testing.T) {
	ctx := context.Background()
	pending := &models.Work{ID: "work-1", AuthorID: "author-1", ModerationStatus: models.ModerationPending}
	approved := &models.Work{ID: "work-2", AuthorID: "author-1", ModerationStatus: models.ModerationApproved}
	works := newFakeWorkStore(pending, approved)
	profiles := newFakeProfileStore(onboardedAuthor())
	service := NewWorkService(works, profiles, &fakeStorage{}, "works", zerolog.Nop())

	// Hidden works report not-found to strangers, not forbidden.
	_, err := service.GetWork(ctx, "work-1", "stranger", false)
	assert.ErrorIs(t, err, apperrors.ErrWorkNotFound)

	// The author and founders still see them.
	_, err = service.GetWork(ctx, "work-1", "author-1", false)
	assert.NoError(t, err)
	_, err = service.GetWork(ctx, "work-1", "stranger", true)
	assert.NoError(t, err)
	assert.Zero(t, works.views["work-1"])

	// A stranger's public view bumps the counter, the author's doesn't.
	_, err = service.GetWork(ctx, "work-2", "stranger", false)
	require.NoError(t, err)
	assert.Equal(t, 1, works.views["work-2"])
	_, err = service.GetWork(ctx, "work-2", "author-1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, works.views["work-2"])
}

func TestUpdateWorkOnlyRejected(t *testing.T) {
	ctx := context.Background()
	rejected := &models.Work{ID: "work-1", AuthorID: "author-1", ModerationStatus: models.ModerationRejected, Title: "Old"}
	approved := &models.Work{ID: "work-2", AuthorID: "author-1", ModerationStatus: models.ModerationApproved}
	works := newFakeWorkStore(rejected, approved)
	service := NewWorkService(works, newFakeProfileStore(onboardedAuthor()), &fakeStorage{}, "works", zerolog.Nop())

	newTitle := "Reworked identity"
	updated, err := service.UpdateWork(ctx, "work-1", "author-1", &dto.UpdateWorkRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)

	_, err = service.UpdateWork(ctx, "work-2", "author-1", &dto.UpdateWorkRequest{Title: &newTitle})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")

	// Someone else's work reads as not found.
	_, err = service.UpdateWork(ctx, "work-1", "intruder", &dto.UpdateWorkRequest{Title: &newTitle})
	assert.ErrorIs(t, err, apperrors.ErrWorkNotFound)
}

func TestListAllWorksFilters(t *testing.T) {
	ctx := context.Background()
	approved := &models.Work{ID: "work-1", AuthorID: "author-1", ModerationStatus: models.ModerationApproved}
	archived := &models.Work{ID: "work-2", AuthorID: "author-2", ModerationStatus: models.ModerationApproved, Archived: true}
	pending := &models.Work{ID: "work-3", AuthorID: "author-3", ModerationStatus: models.ModerationPending}
	works := newFakeWorkStore(approved, archived, pending)
	service := NewWorkService(works, newFakeProfileStore(onboardedAuthor()), &fakeStorage{}, "works", zerolog.Nop())

	all, err := service.ListAllWorks(ctx, "all", 0, 20)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	visible, err := service.ListAllWorks(ctx, "approved", 0, 20)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "work-1", visible[0].ID)

	hidden, err := service.ListAllWorks(ctx, "archived", 0, 20)
	require.NoError(t, err)
	require.Len(t, hidden, 1)
	assert.Equal(t, "work-2", hidden[0].ID)

	// Unknown filters degrade to the full listing.
	everything, err := service.ListAllWorks(ctx, "sideways", 0, 20)
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestModerateArchiveAndDelete(t *testing.T) {
	ctx := context.Background()
	work := &models.Work{ID: "work-1", AuthorID: "author-1", ModerationStatus: models.ModerationApproved}
	works := newFakeWorkStore(work)
	service := NewWorkService(works, newFakeProfileStore(onboardedAuthor()), &fakeStorage{}, "works", zerolog.Nop())

	// Founders act on any author's work, not just their own.
	require.NoError(t, service.ModerateArchive(ctx, "work-1", "founder-1", true))
	assert.True(t, works.works["work-1"].Archived)
	require.NoError(t, service.ModerateArchive(ctx, "work-1", "founder-1", false))
	assert.False(t, works.works["work-1"].Archived)

	require.NoError(t, service.ModerateDelete(ctx, "work-1", "founder-1"))
	_, err := works.GetWorkByID(ctx, "work-1")
	assert.ErrorIs(t, err, apperrors.ErrWorkNotFound)

	err = service.ModerateDelete(ctx, "work-1", "founder-1")
	assert.ErrorIs(t, err, apperrors.ErrWorkNotFound)
}

func TestResubmitWork(t *testing.T) {
	ctx := context.Background()
	rejected := &models.Work{ID: "work-1", AuthorID: "author-1", ModerationStatus: models.ModerationRejected}
	works := newFakeWorkStore(rejected)
	service := NewWorkService(works, newFakeProfileStore(onboardedAuthor()), &fakeStorage{}, "works", zerolog.Nop())

	require.NoError(t, service.ResubmitWork(ctx, "work-1", "author-1"))
	assert.Equal(t, models.ModerationPending, rejected.ModerationStatus)

	// Already pending again: a second resubmit is rejected.
	err := service.ResubmitWork(ctx, "work-1", "author-1")
	assert.ErrorIs(t, err, apperrors.ErrWorkNotPending)
}
