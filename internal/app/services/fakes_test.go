package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/app/repositories"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/storage"
)

// In-memory fakes for the store interfaces. The tx-taking methods
// ignore the tx; noopTx passes nil through.

func noopTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

type fakeProfileStore struct {
	profiles map[string]*models.Profile
	seq      int
}

func newFakeProfileStore(profiles ...*models.Profile) *fakeProfileStore {
	s := &fakeProfileStore{profiles: make(map[string]*models.Profile)}
	for _, p := range profiles {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *fakeProfileStore) CreateProfile(_ context.Context, p *models.Profile) (string, error) {
	for _, existing := range s.profiles {
		if existing.Email == p.Email {
			return "", apperrors.ErrEmailAlreadyExists
		}
		if existing.Username == p.Username {
			return "", apperrors.ErrUsernameAlreadyTaken
		}
	}
	s.seq++
	id := fmt.Sprintf("profile-%d", s.seq)
	cp := *p
	cp.ID = id
	cp.IsActive = true
	s.profiles[id] = &cp
	return id, nil
}

func (s *fakeProfileStore) GetProfileByID(_ context.Context, id string) (*models.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return p, nil
}

func (s *fakeProfileStore) GetProfileByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range s.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, apperrors.ErrProfileNotFound
}

func (s *fakeProfileStore) GetProfileByUsername(_ context.Context, username string) (*models.Profile, error) {
	for _, p := range s.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, apperrors.ErrProfileNotFound
}

func (s *fakeProfileStore) GetProfileByGoogleSub(_ context.Context, sub string) (*models.Profile, error) {
	for _, p := range s.profiles {
		if p.GoogleSub != nil && *p.GoogleSub == sub {
			return p, nil
		}
	}
	return nil, apperrors.ErrProfileNotFound
}

func (s *fakeProfileStore) GetProfilesByIDs(_ context.Context, ids []string) (map[string]*models.Profile, error) {
	out := make(map[string]*models.Profile)
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *fakeProfileStore) CompleteOnboarding(_ context.Context, id string, username, bio string, school, careerYear *string, categories []string, themeColor string) error {
	p, ok := s.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.Username = username
	p.Bio = &bio
	p.School = school
	p.CareerYear = careerYear
	p.Categories = categories
	p.ThemeColor = themeColor
	p.OnboardingCompleted = true
	return nil
}

func (s *fakeProfileStore) UpdateProfile(_ context.Context, id string, updates map[string]interface{}) error {
	p, ok := s.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	if v, ok := updates["username"].(string); ok {
		p.Username = v
	}
	if v, ok := updates["full_name"].(string); ok {
		p.FullName = v
	}
	if v, ok := updates["google_sub"].(string); ok {
		p.GoogleSub = &v
	}
	return nil
}

func (s *fakeProfileStore) UpdateAvatarURL(_ context.Context, id string, avatarURL string) error {
	p, ok := s.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.AvatarURL = &avatarURL
	return nil
}

func (s *fakeProfileStore) UpdatePasswordHash(_ context.Context, id string, passwordHash string) error {
	p, ok := s.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.Password = passwordHash
	return nil
}

func (s *fakeProfileStore) UpdateLastLogin(_ context.Context, id string) error {
	p, ok := s.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	now := time.Now()
	p.LastLoginAt = &now
	return nil
}

func (s *fakeProfileStore) SetActive(_ context.Context, id string, active bool) error {
	p, ok := s.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.IsActive = active
	return nil
}

func (s *fakeProfileStore) ListProfiles(_ context.Context, offset uint64, limit int) ([]*models.Profile, map[string]int, error) {
	var out []*models.Profile
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, map[string]int{}, nil
}

type fakeWorkStore struct {
	works map[string]*models.Work
	views map[string]int
}

func newFakeWorkStore(works ...*models.Work) *fakeWorkStore {
	s := &fakeWorkStore{works: make(map[string]*models.Work), views: make(map[string]int)}
	for _, w := range works {
		s.works[w.ID] = w
	}
	return s
}

func (s *fakeWorkStore) CreateWork(_ context.Context, w *models.Work) (*models.Work, error) {
	cp := *w
	cp.ModerationStatus = models.ModerationPending
	cp.CreatedAt = time.Now()
	s.works[cp.ID] = &cp
	return &cp, nil
}

func (s *fakeWorkStore) GetWorkByID(_ context.Context, id string) (*models.Work, error) {
	w, ok := s.works[id]
	if !ok {
		return nil, apperrors.ErrWorkNotFound
	}
	return w, nil
}

func (s *fakeWorkStore) ListWorksByAuthor(_ context.Context, authorID string, publicOnly bool) ([]*models.Work, error) {
	var out []*models.Work
	for _, w := range s.works {
		if w.AuthorID != authorID {
			continue
		}
		if publicOnly && !w.IsPubliclyVisible() {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *fakeWorkStore) UpdateWork(_ context.Context, id string, authorID string, updates map[string]interface{}) error {
	w, ok := s.works[id]
	if !ok || w.AuthorID != authorID {
		return apperrors.ErrWorkNotFound
	}
	if v, ok := updates["title"].(string); ok {
		w.Title = v
	}
	if v, ok := updates["description"].(string); ok {
		w.Description = v
	}
	if v, ok := updates["category"].(string); ok {
		w.Category = v
	}
	if v, ok := updates["tags"].([]string); ok {
		w.Tags = v
	}
	return nil
}

func (s *fakeWorkStore) SetArchived(_ context.Context, id string, authorID string, archived bool) error {
	w, ok := s.works[id]
	if !ok || w.AuthorID != authorID {
		return apperrors.ErrWorkNotFound
	}
	w.Archived = archived
	return nil
}

func (s *fakeWorkStore) AdminSetArchived(_ context.Context, id string, archived bool) error {
	w, ok := s.works[id]
	if !ok {
		return apperrors.ErrWorkNotFound
	}
	w.Archived = archived
	return nil
}

func (s *fakeWorkStore) DeleteWork(_ context.Context, id string, authorID string) error {
	w, ok := s.works[id]
	if !ok || w.AuthorID != authorID {
		return apperrors.ErrWorkNotFound
	}
	delete(s.works, id)
	return nil
}

func (s *fakeWorkStore) AdminDeleteWork(_ context.Context, id string) error {
	if _, ok := s.works[id]; !ok {
		return apperrors.ErrWorkNotFound
	}
	delete(s.works, id)
	return nil
}

func (s *fakeWorkStore) ListAllWorks(_ context.Context, filter string, offset uint64, limit int) ([]*models.Work, error) {
	var out []*models.Work
	for _, w := range s.works {
		switch filter {
		case models.WorksFilterApproved:
			if !w.IsPubliclyVisible() {
				continue
			}
		case models.WorksFilterArchived:
			if !w.Archived {
				continue
			}
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *fakeWorkStore) ResubmitWork(_ context.Context, id string, authorID string) error {
	w, ok := s.works[id]
	if !ok || w.AuthorID != authorID {
		return apperrors.ErrWorkNotFound
	}
	if w.ModerationStatus != models.ModerationRejected {
		return apperrors.ErrWorkNotPending
	}
	w.ModerationStatus = models.ModerationPending
	return nil
}

func (s *fakeWorkStore) IncrementViews(_ context.Context, id string) error {
	s.views[id]++
	return nil
}

func (s *fakeWorkStore) ApplyModeration(_ context.Context, _ pgx.Tx, workID string, action models.ModerationAction) error {
	w, ok := s.works[workID]
	if !ok {
		return apperrors.ErrWorkNotFound
	}
	if w.ModerationStatus != models.ModerationPending {
		return apperrors.ErrWorkNotPending
	}
	if action == models.ActionApprove {
		w.ModerationStatus = models.ModerationApproved
		now := time.Now()
		w.PublishedAt = &now
	} else {
		w.ModerationStatus = models.ModerationRejected
	}
	return nil
}

type fakeInviteStore struct {
	codes      map[string]*models.InvitationCode
	collisions int
	created    int
}

func newFakeInviteStore(codes ...*models.InvitationCode) *fakeInviteStore {
	s := &fakeInviteStore{codes: make(map[string]*models.InvitationCode)}
	for _, c := range codes {
		s.codes[c.Code] = c
	}
	return s
}

func (s *fakeInviteStore) CreateCode(_ context.Context, code string, role models.InviteRole, createdBy string, expiresAt *time.Time) (*models.InvitationCode, error) {
	if s.collisions > 0 {
		s.collisions--
		return nil, apperrors.ErrInviteCodeCollision
	}
	s.created++
	inv := &models.InvitationCode{
		ID:        fmt.Sprintf("invite-%d", s.created),
		Code:      code,
		Role:      role,
		CreatedBy: createdBy,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	s.codes[code] = inv
	return inv, nil
}

func (s *fakeInviteStore) GetByCode(_ context.Context, code string) (*models.InvitationCode, error) {
	inv, ok := s.codes[code]
	if !ok {
		return nil, apperrors.ErrInviteCodeNotFound
	}
	return inv, nil
}

func (s *fakeInviteStore) ClaimCode(_ context.Context, code string, userID string) error {
	inv, ok := s.codes[code]
	if !ok {
		return apperrors.ErrInviteCodeNotFound
	}
	if inv.ClaimedBy != nil {
		return apperrors.ErrInviteCodeClaimed
	}
	if inv.ExpiresAt != nil && inv.ExpiresAt.Before(time.Now()) {
		return apperrors.ErrInviteCodeClaimed
	}
	now := time.Now()
	inv.ClaimedBy = &userID
	inv.ClaimedAt = &now
	return nil
}

func (s *fakeInviteStore) ListCodes(_ context.Context, offset uint64, limit int) ([]*models.InvitationCode, error) {
	var out []*models.InvitationCode
	for _, inv := range s.codes {
		out = append(out, inv)
	}
	return out, nil
}

type fakeNotificationStore struct {
	notifications []*models.Notification
	markedIDs     []string
	markedAll     bool
	createErr     error
}

func (s *fakeNotificationStore) CreateNotification(_ context.Context, n *models.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	cp := *n
	cp.ID = fmt.Sprintf("notification-%d", len(s.notifications)+1)
	cp.CreatedAt = time.Now()
	s.notifications = append(s.notifications, &cp)
	return nil
}

func (s *fakeNotificationStore) ListLatest(_ context.Context, userID string, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeNotificationStore) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, userID string, ids []string) error {
	s.markedIDs = append(s.markedIDs, ids...)
	now := time.Now()
	for _, n := range s.notifications {
		for _, id := range ids {
			if n.ID == id && n.UserID == userID {
				n.ReadAt = &now
			}
		}
	}
	return nil
}

func (s *fakeNotificationStore) MarkAllRead(_ context.Context, userID string) error {
	s.markedAll = true
	now := time.Now()
	for _, n := range s.notifications {
		if n.UserID == userID {
			n.ReadAt = &now
		}
	}
	return nil
}

type fakeLikeStore struct {
	likes  map[string]bool
	counts map[string]int
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: make(map[string]bool), counts: make(map[string]int)}
}

func likeKey(userID, workID string) string {
	return userID + "|" + workID
}

func (s *fakeLikeStore) Toggle(_ context.Context, _ pgx.Tx, userID, workID string) (bool, int, error) {
	key := likeKey(userID, workID)
	if s.likes[key] {
		delete(s.likes, key)
		s.counts[workID]--
		return false, s.counts[workID], nil
	}
	s.likes[key] = true
	s.counts[workID]++
	return true, s.counts[workID], nil
}

func (s *fakeLikeStore) IsLiked(_ context.Context, userID, workID string) (bool, error) {
	return s.likes[likeKey(userID, workID)], nil
}

func (s *fakeLikeStore) LikedWorkIDs(_ context.Context, userID string, workIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, workID := range workIDs {
		if s.likes[likeKey(userID, workID)] {
			out[workID] = true
		}
	}
	return out, nil
}

type fakeCommentStore struct {
	comments map[string]*models.Comment
	seq      int
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[string]*models.Comment)}
}

func (s *fakeCommentStore) CreateComment(_ context.Context, _ pgx.Tx, c *models.Comment) (*models.Comment, error) {
	s.seq++
	cp := *c
	cp.ID = fmt.Sprintf("comment-%d", s.seq)
	cp.CreatedAt = time.Now()
	s.comments[cp.ID] = &cp
	return &cp, nil
}

func (s *fakeCommentStore) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return c, nil
}

func (s *fakeCommentStore) ListCommentsByWork(_ context.Context, workID string) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range s.comments {
		if c.WorkID == workID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCommentStore) DeleteComment(_ context.Context, _ pgx.Tx, id string, userID string) error {
	c, ok := s.comments[id]
	if !ok || c.UserID != userID {
		return apperrors.ErrResourceNotFound
	}
	delete(s.comments, id)
	return nil
}

type fakeModerationStore struct {
	queue      []*models.Work
	stats      repositories.ModerationStats
	decisions  []*models.Notification
	logs       []*repositories.ModerationLog
	refreshed  int
	refreshErr error
}

func (s *fakeModerationStore) ListQueue(_ context.Context, offset uint64, limit int) ([]*models.Work, error) {
	return s.queue, nil
}

func (s *fakeModerationStore) CountStatuses(_ context.Context) (*repositories.ModerationStats, error) {
	stats := s.stats
	stats.Pending = len(s.queue)
	return &stats, nil
}

func (s *fakeModerationStore) ListRecentDecisions(_ context.Context, limit int) ([]*models.Notification, error) {
	if len(s.decisions) > limit {
		return s.decisions[:limit], nil
	}
	return s.decisions, nil
}

func (s *fakeModerationStore) InsertLog(_ context.Context, _ pgx.Tx, workID, moderatorID string, action models.ModerationAction, note *string) error {
	s.logs = append(s.logs, &repositories.ModerationLog{
		ID:          fmt.Sprintf("log-%d", len(s.logs)+1),
		WorkID:      workID,
		ModeratorID: moderatorID,
		Action:      action,
		Note:        note,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (s *fakeModerationStore) ListLogs(_ context.Context, workID string) ([]*repositories.ModerationLog, error) {
	var out []*repositories.ModerationLog
	for _, l := range s.logs {
		if l.WorkID == workID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeModerationStore) RefreshFeedScores(_ context.Context) error {
	s.refreshed++
	return s.refreshErr
}

type fakeFeedStore struct {
	works  []*models.Work
	params repositories.FeedQueryParams
}

func (s *fakeFeedStore) ListFeed(_ context.Context, params repositories.FeedQueryParams) ([]*models.Work, error) {
	s.params = params
	return s.works, nil
}

type fakeTokenStore struct {
	tokens  map[string]string // token -> userID
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]string), revoked: make(map[string]bool)}
}

func (s *fakeTokenStore) CreateToken(_ context.Context, token string, userID string, expiryDate time.Time) error {
	s.tokens[token] = userID
	return nil
}

func (s *fakeTokenStore) GetTokenByValue(_ context.Context, token string) (string, time.Time, error) {
	userID, ok := s.tokens[token]
	if !ok {
		return "", time.Time{}, apperrors.ErrTokenNotFound
	}
	if s.revoked[token] {
		return "", time.Time{}, apperrors.ErrTokenRevoked
	}
	return userID, time.Now().Add(time.Hour), nil
}

func (s *fakeTokenStore) RevokeToken(_ context.Context, token string) error {
	s.revoked[token] = true
	return nil
}

func (s *fakeTokenStore) RevokeAllUserTokens(_ context.Context, userID string) error {
	for token, owner := range s.tokens {
		if owner == userID {
			s.revoked[token] = true
		}
	}
	return nil
}

type fakeResetTokenStore struct {
	tokens map[string]string // token -> userID
	used   map[string]bool
}

func newFakeResetTokenStore() *fakeResetTokenStore {
	return &fakeResetTokenStore{tokens: make(map[string]string), used: make(map[string]bool)}
}

func (s *fakeResetTokenStore) CreateToken(_ context.Context, token string, userID string, expiresAt time.Time) error {
	s.tokens[token] = userID
	return nil
}

func (s *fakeResetTokenStore) ConsumeToken(_ context.Context, token string) (string, error) {
	userID, ok := s.tokens[token]
	if !ok || s.used[token] {
		return "", apperrors.ErrTokenInvalid
	}
	s.used[token] = true
	return userID, nil
}

// fakeStorage records uploads and can fail selected keys. Uploads run
// concurrently, hence the mutex.
type fakeStorage struct {
	mu      sync.Mutex
	uploads []*storage.UploadObject
	fail    func(key string) error
}

func (s *fakeStorage) Upload(_ context.Context, object *storage.UploadObject) (*storage.UploadResponse, error) {
	if s.fail != nil {
		if err := s.fail(object.Key); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	s.uploads = append(s.uploads, object)
	s.mu.Unlock()
	return &storage.UploadResponse{
		URL: fmt.Sprintf("https://cdn.test/%s/%s", object.Bucket, object.Key),
		Key: object.Key,
	}, nil
}
