package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhonnyduque/designfolio/internal/app/models"
	"github.com/jhonnyduque/designfolio/internal/pkg/apperrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/dberrors"
	"github.com/jhonnyduque/designfolio/internal/pkg/logger"
)

var profileColumns = []string{
	"id", "email", "password_hash", "google_sub", "username", "full_name",
	"avatar_url", "bio", "school", "career_year", "categories", "theme_color",
	"reputation_level", "is_founder", "is_active", "onboarding_completed",
	"created_at", "updated_at", "last_login_at",
}

// ProfileRepository handles profile database operations
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	var passwordHash *string
	err := row.Scan(
		&p.ID, &p.Email, &passwordHash, &p.GoogleSub, &p.Username, &p.FullName,
		&p.AvatarURL, &p.Bio, &p.School, &p.CareerYear, &p.Categories, &p.ThemeColor,
		&p.ReputationLevel, &p.IsFounder, &p.IsActive, &p.OnboardingCompleted,
		&p.CreatedAt, &p.UpdatedAt, &p.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	if passwordHash != nil {
		p.Password = *passwordHash
	}
	return &p, nil
}

// CreateProfile inserts a new profile and returns its generated id.
func (r *ProfileRepository) CreateProfile(ctx context.Context, p *models.Profile) (string, error) {
	var passwordHash *string
	if p.Password != "" {
		passwordHash = &p.Password
	}

	sql, args, err := r.sb.Insert("profiles").
		Columns("email", "password_hash", "google_sub", "username", "full_name", "avatar_url", "is_founder").
		Values(p.Email, passwordHash, p.GoogleSub, p.Username, p.FullName, p.AvatarURL, p.IsFounder).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create profile SQL")
		return "", fmt.Errorf("failed to build create profile query: %w", err)
	}

	var id string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "profiles_email_key") {
			return "", apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "profiles_username_key") {
			return "", apperrors.ErrUsernameAlreadyTaken
		}
		logger.Error().Err(err).Str("email", p.Email).Msg("Error executing create profile query")
		return "", fmt.Errorf("error creating profile: %w", err)
	}

	return id, nil
}

// GetProfileByID retrieves a profile by id.
func (r *ProfileRepository) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.getProfileWhere(ctx, squirrel.Eq{"id": id})
}

// GetProfileByEmail retrieves a profile by email.
func (r *ProfileRepository) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.getProfileWhere(ctx, squirrel.Eq{"email": email})
}

// GetProfileByUsername retrieves a profile by username.
func (r *ProfileRepository) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return r.getProfileWhere(ctx, squirrel.Eq{"username": username})
}

// GetProfileByGoogleSub retrieves a profile by its Google subject id.
func (r *ProfileRepository) GetProfileByGoogleSub(ctx context.Context, sub string) (*models.Profile, error) {
	return r.getProfileWhere(ctx, squirrel.Eq{"google_sub": sub})
}

func (r *ProfileRepository) getProfileWhere(ctx context.Context, pred interface{}) (*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get profile SQL")
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	return profile, nil
}

// CompleteOnboarding fills in the onboarding fields and marks the
// profile onboarded.
func (r *ProfileRepository) CompleteOnboarding(ctx context.Context, id string, username, bio string, school, careerYear *string, categories []string, themeColor string) error {
	sql, args, err := r.sb.Update("profiles").
		Set("username", username).
		Set("bio", bio).
		Set("school", school).
		Set("career_year", careerYear).
		Set("categories", categories).
		Set("theme_color", themeColor).
		Set("onboarding_completed", true).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building complete onboarding SQL")
		return fmt.Errorf("failed to build complete onboarding query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "profiles_username_key") {
			return apperrors.ErrUsernameAlreadyTaken
		}
		logger.Error().Err(err).Str("profileID", id).Msg("Error executing complete onboarding query")
		return fmt.Errorf("error completing onboarding: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}

// UpdateProfile applies the given column updates to a profile.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	builder := r.sb.Update("profiles").
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	for col, val := range updates {
		builder = builder.Set(col, val)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "profiles_username_key") {
			return apperrors.ErrUsernameAlreadyTaken
		}
		logger.Error().Err(err).Str("profileID", id).Msg("Error executing update profile query")
		return fmt.Errorf("error updating profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}

// UpdateAvatarURL stores the uploaded avatar location.
func (r *ProfileRepository) UpdateAvatarURL(ctx context.Context, id string, avatarURL string) error {
	return r.UpdateProfile(ctx, id, map[string]interface{}{"avatar_url": avatarURL})
}

// UpdatePasswordHash replaces the stored password hash.
func (r *ProfileRepository) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	return r.UpdateProfile(ctx, id, map[string]interface{}{"password_hash": passwordHash})
}

// UpdateLastLogin records a successful login. Failures are not fatal
// for the login flow, so callers may ignore the error.
func (r *ProfileRepository) UpdateLastLogin(ctx context.Context, id string) error {
	sql, args, err := r.sb.Update("profiles").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Warn().Err(err).Str("profileID", id).Msg("Error updating last login timestamp")
		return fmt.Errorf("error updating last login: %w", err)
	}

	return nil
}

// SetActive toggles whether the account may log in.
func (r *ProfileRepository) SetActive(ctx context.Context, id string, active bool) error {
	sql, args, err := r.sb.Update("profiles").
		Set("is_active", active).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building set active SQL")
		return fmt.Errorf("failed to build set active query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("profileID", id).Msg("Error executing set active query")
		return fmt.Errorf("error setting account active state: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}

// ListProfiles returns a page of profiles with their work counts,
// newest first. Used by the founder's user manager.
func (r *ProfileRepository) ListProfiles(ctx context.Context, offset uint64, limit int) ([]*models.Profile, map[string]int, error) {
	cols := make([]string, 0, len(profileColumns)+1)
	for _, c := range profileColumns {
		cols = append(cols, "p."+c)
	}
	cols = append(cols, "(SELECT COUNT(*) FROM works w WHERE w.author_id = p.id) AS works_count")

	sql, args, err := r.sb.Select(cols...).
		From("profiles p").
		OrderBy("p.created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list profiles SQL")
		return nil, nil, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list profiles query")
		return nil, nil, fmt.Errorf("error listing profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	workCounts := make(map[string]int)
	for rows.Next() {
		var p models.Profile
		var passwordHash *string
		var worksCount int
		err := rows.Scan(
			&p.ID, &p.Email, &passwordHash, &p.GoogleSub, &p.Username, &p.FullName,
			&p.AvatarURL, &p.Bio, &p.School, &p.CareerYear, &p.Categories, &p.ThemeColor,
			&p.ReputationLevel, &p.IsFounder, &p.IsActive, &p.OnboardingCompleted,
			&p.CreatedAt, &p.UpdatedAt, &p.LastLoginAt,
			&worksCount,
		)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning profile list row")
			return nil, nil, fmt.Errorf("error scanning profile row: %w", err)
		}
		profiles = append(profiles, &p)
		workCounts[p.ID] = worksCount
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating profile rows: %w", err)
	}

	return profiles, workCounts, nil
}

// GetProfilesByIDs returns the profiles for the given ids, keyed by id.
// Missing ids are simply absent from the result.
func (r *ProfileRepository) GetProfilesByIDs(ctx context.Context, ids []string) (map[string]*models.Profile, error) {
	result := make(map[string]*models.Profile)
	if len(ids) == 0 {
		return result, nil
	}

	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get profiles by ids SQL")
		return nil, fmt.Errorf("failed to build get profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get profiles by ids query")
		return nil, fmt.Errorf("error retrieving profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning profile row: %w", err)
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}

	return result, nil
}
