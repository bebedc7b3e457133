package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kliksy/kliksy-be/internal/apperr"
	"github.com/kliksy/kliksy-be/internal/models"
	"github.com/kliksy/kliksy-be/internal/storage"
)

// FeedNotifier pushes feed changes to connected clients. Implementations must
// not block; a nil notifier disables pushes.
type FeedNotifier interface {
	MemeCreated(meme models.Meme)
	MemePrivacyChanged(memeID, oldPrivacy, newPrivacy string)
}

// UploadInput carries a decoded upload payload.
type UploadInput struct {
	Description string
	Privacy     string
	ContentType string
	Data        []byte
}

// PrivacyChange reports an applied visibility update.
type PrivacyChange struct {
	MemeID     string `json:"memeId"`
	OldPrivacy string `json:"oldPrivacy"`
	NewPrivacy string `json:"newPrivacy"`
}

// ProfileListResult is one page of an owner's memes plus aggregate counts.
type ProfileListResult struct {
	Items      []models.Meme    `json:"items"`
	Stats      models.MemeStats `json:"stats"`
	Pagination Pagination       `json:"pagination"`
}

// FeedResult is one page of the public feed.
type FeedResult struct {
	Items      []models.Meme `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// MemeServiceProvider defines the interface for meme services.
type MemeServiceProvider interface {
	Upload(ctx context.Context, owner models.User, in UploadInput) (models.Meme, error)
	ChangePrivacy(ctx context.Context, owner models.User, memeID, privacy string) (PrivacyChange, error)
	Delete(ctx context.Context, owner models.User, memeID string) (string, error)
	ProfileList(ctx context.Context, owner models.User, page, pageSize int) (ProfileListResult, error)
	PublicFeed(ctx context.Context, page, pageSize int) (FeedResult, error)
}

// MemeService performs the owner-scoped meme reads and writes.
type MemeService struct {
	db           *sql.DB
	store        storage.Store
	notifier     FeedNotifier
	pages        PagePolicy
	maxFileBytes int64
}

// NewMemeService creates a new MemeService.
func NewMemeService(db *sql.DB, store storage.Store, notifier FeedNotifier, pages PagePolicy, maxFileBytes int64) *MemeService {
	return &MemeService{
		db:           db,
		store:        store,
		notifier:     notifier,
		pages:        pages,
		maxFileBytes: maxFileBytes,
	}
}

// Upload stores the binary payload and inserts the meme row. The recorded
// size always comes from the decoded bytes, regardless of what the caller
// declared.
func (s *MemeService) Upload(ctx context.Context, owner models.User, in UploadInput) (models.Meme, error) {
	if int64(len(in.Data)) > s.maxFileBytes {
		return models.Meme{}, apperr.BadRequest("File exceeds maximum allowed size")
	}

	key := storage.ObjectKey(owner.ID, in.ContentType)
	if err := s.store.Put(ctx, key, in.Data, in.ContentType); err != nil {
		return models.Meme{}, fmt.Errorf("failed to store file: %w", err)
	}

	meme := models.Meme{
		ID:            uuid.New().String(),
		UserID:        owner.ID,
		Description:   in.Description,
		Privacy:       in.Privacy,
		S3Key:         key,
		FileURL:       s.store.FileURL(key),
		FileType:      in.ContentType,
		FileSizeBytes: int64(len(in.Data)),
		CreatedAt:     time.Now().UTC(),
		User:          owner.Ref(),
	}

	_, err := s.db.Exec(
		`INSERT INTO memes (id, user_id, s3_key, description, privacy, file_type, file_size_bytes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		meme.ID, meme.UserID, meme.S3Key, meme.Description, meme.Privacy,
		meme.FileType, meme.FileSizeBytes, meme.CreatedAt)
	if err != nil {
		// The row never existed, so the stored object is already an orphan.
		// Best effort here; the janitor catches anything that remains.
		if rmErr := s.store.Remove(ctx, key); rmErr != nil {
			log.Warn().Err(rmErr).Str("key", key).Msg("Failed to remove object after insert failure")
		}
		return models.Meme{}, fmt.Errorf("failed to insert meme: %w", err)
	}

	if s.notifier != nil && meme.Privacy == models.PrivacyPublic {
		s.notifier.MemeCreated(meme)
	}
	return meme, nil
}

// ChangePrivacy flips the visibility of a meme owned by the caller.
func (s *MemeService) ChangePrivacy(ctx context.Context, owner models.User, memeID, privacy string) (PrivacyChange, error) {
	meme, err := s.fetchOwned(ctx, owner.ID, memeID)
	if err != nil {
		return PrivacyChange{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE memes SET privacy = $1 WHERE id = $2 AND user_id = $3`,
		privacy, memeID, owner.ID)
	if err != nil {
		return PrivacyChange{}, fmt.Errorf("failed to update privacy: %w", err)
	}

	change := PrivacyChange{MemeID: memeID, OldPrivacy: meme.Privacy, NewPrivacy: privacy}
	if s.notifier != nil && change.OldPrivacy != change.NewPrivacy {
		s.notifier.MemePrivacyChanged(memeID, change.OldPrivacy, change.NewPrivacy)
	}
	return change, nil
}

// Delete removes a meme owned by the caller, then removes the stored object.
// Object removal is best effort: a failure is logged and the janitor sweeps
// whatever is left behind.
func (s *MemeService) Delete(ctx context.Context, owner models.User, memeID string) (string, error) {
	meme, err := s.fetchOwned(ctx, owner.ID, memeID)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM memes WHERE id = $1 AND user_id = $2`, memeID, owner.ID)
	if err != nil {
		return "", fmt.Errorf("failed to delete meme: %w", err)
	}

	if meme.S3Key != "" {
		if err := s.store.Remove(ctx, meme.S3Key); err != nil {
			log.Warn().Err(err).Str("key", meme.S3Key).Msg("Failed to remove stored object for deleted meme")
		}
	}
	return meme.S3Key, nil
}

// ProfileList returns one page of the owner's memes, newest first, plus
// counts computed over the full set.
func (s *MemeService) ProfileList(ctx context.Context, owner models.User, page, pageSize int) (ProfileListResult, error) {
	page, pageSize = s.pages.Normalize(page, pageSize)

	var stats models.MemeStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN privacy = 'public' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN privacy = 'private' THEN 1 ELSE 0 END), 0)
		 FROM memes WHERE user_id = $1`,
		owner.ID).Scan(&stats.Total, &stats.Public, &stats.Private)
	if err != nil {
		return ProfileListResult{}, fmt.Errorf("failed to compute meme stats: %w", err)
	}

	items, err := s.queryMemes(ctx,
		`SELECT m.id, m.user_id, COALESCE(m.description, ''), m.privacy,
		        COALESCE(m.s3_key, ''), COALESCE(m.file_type, ''),
		        COALESCE(m.file_size_bytes, 0), m.created_at,
		        u.username, u.email
		 FROM memes m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.user_id = $1
		 ORDER BY m.created_at DESC
		 LIMIT $2 OFFSET $3`,
		owner.ID, pageSize, Offset(page, pageSize))
	if err != nil {
		return ProfileListResult{}, err
	}

	return ProfileListResult{
		Items:      items,
		Stats:      stats,
		Pagination: NewPagination(page, pageSize, stats.Total),
	}, nil
}

// PublicFeed returns one page of public memes across all users, newest first.
func (s *MemeService) PublicFeed(ctx context.Context, page, pageSize int) (FeedResult, error) {
	page, pageSize = s.pages.Normalize(page, pageSize)

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memes WHERE privacy = $1`, models.PrivacyPublic).Scan(&total)
	if err != nil {
		return FeedResult{}, fmt.Errorf("failed to count public memes: %w", err)
	}

	items, err := s.queryMemes(ctx,
		`SELECT m.id, m.user_id, COALESCE(m.description, ''), m.privacy,
		        COALESCE(m.s3_key, ''), COALESCE(m.file_type, ''),
		        COALESCE(m.file_size_bytes, 0), m.created_at,
		        u.username, u.email
		 FROM memes m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.privacy = $1
		 ORDER BY m.created_at DESC
		 LIMIT $2 OFFSET $3`,
		models.PrivacyPublic, pageSize, Offset(page, pageSize))
	if err != nil {
		return FeedResult{}, err
	}

	return FeedResult{
		Items:      items,
		Pagination: NewPagination(page, pageSize, total),
	}, nil
}

// fetchOwned loads a meme scoped to its owner. Any other caller sees the
// same absence as a meme that does not exist.
func (s *MemeService) fetchOwned(ctx context.Context, userID, memeID string) (models.Meme, error) {
	var meme models.Meme
	row := s.db.QueryRowContext(ctx,
		`SELECT id, COALESCE(s3_key, ''), privacy FROM memes WHERE id = $1 AND user_id = $2 LIMIT 1`,
		memeID, userID)
	err := row.Scan(&meme.ID, &meme.S3Key, &meme.Privacy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Meme{}, apperr.NotFound("Meme not found for user")
		}
		return models.Meme{}, fmt.Errorf("failed to fetch meme: %w", err)
	}
	meme.UserID = userID
	return meme, nil
}

func (s *MemeService) queryMemes(ctx context.Context, query string, args ...any) ([]models.Meme, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memes: %w", err)
	}
	defer rows.Close()

	items := []models.Meme{}
	for rows.Next() {
		var m models.Meme
		err := rows.Scan(&m.ID, &m.UserID, &m.Description, &m.Privacy, &m.S3Key,
			&m.FileType, &m.FileSizeBytes, &m.CreatedAt, &m.User.Username, &m.User.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meme row: %w", err)
		}
		m.User.ID = m.UserID
		m.FileURL = s.store.FileURL(m.S3Key)
		items = append(items, m)
	}
	return items, rows.Err()
}
