// Package account persists the visitor-owned records: favorites, rage
// events, and submitted clips. Every read is scoped by visitor identity and
// returns newest-first, capped at a fixed page size.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PageSize caps every list read.
const PageSize = 50

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()

	// ErrMissingVisitor rejects an operation without a visitor identity.
	ErrMissingVisitor = errors.New("account: visitor identifier is required")
	// ErrInvalidIntensity rejects a rage event outside the 1..5 scale.
	ErrInvalidIntensity = errors.New("account: intensity must be between 1 and 5")
	// ErrMissingClipURL rejects a clip submission without a URL.
	ErrMissingClipURL = errors.New("account: clip url is required")
)

const (
	opStoreNew        = "account.store.new"
	opListFavorites   = "account.list_favorites"
	opIsFavorite      = "account.is_favorite"
	opListRageEvents  = "account.list_rage_events"
	opListClips       = "account.list_clips"
	opInsertFavorite  = "account.insert_favorite"
	opDeleteFavorite  = "account.delete_favorite"
	opInsertRageEvent = "account.insert_rage_event"
	opInsertClip      = "account.insert_clip"
)

// StoreError carries an operation.reason code alongside the cause.
type StoreError struct {
	code string
	err  error
}

func (e *StoreError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *StoreError) Unwrap() error {
	return e.err
}

// Code returns the machine-readable error code.
func (e *StoreError) Code() string {
	return e.code
}

func newStoreError(operation, reason string, cause error) error {
	return &StoreError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// StoreConfig describes the dependencies of the account store.
type StoreConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Store is the account record repository.
type Store struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
}

// NewStore constructs a Store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Database == nil {
		return nil, newStoreError(opStoreNew, "missing_database", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, newStoreError(opStoreNew, "missing_id_provider", errMissingIDProvider)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Store{
		db:         cfg.Database,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// ListFavorites returns the visitor's favorites, newest first.
func (s *Store) ListFavorites(ctx context.Context, visitorID string) ([]FavoriteRecord, error) {
	if strings.TrimSpace(visitorID) == "" {
		return nil, ErrMissingVisitor
	}
	var favorites []FavoriteRecord
	if err := s.db.WithContext(ctx).
		Where("visitor_id = ?", visitorID).
		Order("created_at DESC").
		Limit(PageSize).
		Find(&favorites).Error; err != nil {
		s.logError(opListFavorites, "query_failed", err, zap.String("visitor_id", visitorID))
		return nil, newStoreError(opListFavorites, "query_failed", err)
	}
	return favorites, nil
}

// IsFavorite reports whether the visitor has favorited the game.
func (s *Store) IsFavorite(ctx context.Context, visitorID string, gameID int64) (bool, error) {
	if strings.TrimSpace(visitorID) == "" {
		return false, ErrMissingVisitor
	}
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&FavoriteRecord{}).
		Where("visitor_id = ? AND game_id = ?", visitorID, gameID).
		Count(&count).Error; err != nil {
		s.logError(opIsFavorite, "query_failed", err,
			zap.String("visitor_id", visitorID),
			zap.Int64("game_id", gameID))
		return false, newStoreError(opIsFavorite, "query_failed", err)
	}
	return count > 0, nil
}

// ListRageEvents returns the visitor's rage events, newest first.
func (s *Store) ListRageEvents(ctx context.Context, visitorID string) ([]RageEventRecord, error) {
	if strings.TrimSpace(visitorID) == "" {
		return nil, ErrMissingVisitor
	}
	var events []RageEventRecord
	if err := s.db.WithContext(ctx).
		Where("visitor_id = ?", visitorID).
		Order("created_at DESC").
		Limit(PageSize).
		Find(&events).Error; err != nil {
		s.logError(opListRageEvents, "query_failed", err, zap.String("visitor_id", visitorID))
		return nil, newStoreError(opListRageEvents, "query_failed", err)
	}
	return events, nil
}

// ListClips returns every visitor's clips for a game, newest first.
func (s *Store) ListClips(ctx context.Context, gameID int64) ([]UserClipRecord, error) {
	var clips []UserClipRecord
	if err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("created_at DESC").
		Limit(PageSize).
		Find(&clips).Error; err != nil {
		s.logError(opListClips, "query_failed", err, zap.Int64("game_id", gameID))
		return nil, newStoreError(opListClips, "query_failed", err)
	}
	return clips, nil
}

// InsertFavorite records the favorite. Inserting an already favorited game
// is a no-op, preserving the one-row-per-(visitor, game) invariant.
func (s *Store) InsertFavorite(ctx context.Context, visitorID string, gameID int64) error {
	if strings.TrimSpace(visitorID) == "" {
		return ErrMissingVisitor
	}
	record := FavoriteRecord{
		VisitorID: visitorID,
		GameID:    gameID,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record).Error; err != nil {
		s.logError(opInsertFavorite, "insert_failed", err,
			zap.String("visitor_id", visitorID),
			zap.Int64("game_id", gameID))
		return newStoreError(opInsertFavorite, "insert_failed", err)
	}
	return nil
}

// DeleteFavorite removes the matching favorite if present.
func (s *Store) DeleteFavorite(ctx context.Context, visitorID string, gameID int64) error {
	if strings.TrimSpace(visitorID) == "" {
		return ErrMissingVisitor
	}
	if err := s.db.WithContext(ctx).
		Where("visitor_id = ? AND game_id = ?", visitorID, gameID).
		Delete(&FavoriteRecord{}).Error; err != nil {
		s.logError(opDeleteFavorite, "delete_failed", err,
			zap.String("visitor_id", visitorID),
			zap.Int64("game_id", gameID))
		return newStoreError(opDeleteFavorite, "delete_failed", err)
	}
	return nil
}

// InsertRageEvent appends one rage event and returns the stored record.
func (s *Store) InsertRageEvent(ctx context.Context, visitorID string, gameID int64, intensity int, note string) (RageEventRecord, error) {
	if strings.TrimSpace(visitorID) == "" {
		return RageEventRecord{}, ErrMissingVisitor
	}
	if intensity < 1 || intensity > 5 {
		return RageEventRecord{}, ErrInvalidIntensity
	}
	eventID, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opInsertRageEvent, "id_generation_failed", err, zap.String("visitor_id", visitorID))
		return RageEventRecord{}, newStoreError(opInsertRageEvent, "id_generation_failed", err)
	}
	record := RageEventRecord{
		EventID:   eventID,
		VisitorID: visitorID,
		GameID:    gameID,
		Intensity: intensity,
		Note:      strings.TrimSpace(note),
		CreatedAt: s.clock().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		s.logError(opInsertRageEvent, "insert_failed", err,
			zap.String("visitor_id", visitorID),
			zap.Int64("game_id", gameID))
		return RageEventRecord{}, newStoreError(opInsertRageEvent, "insert_failed", err)
	}
	return record, nil
}

// InsertClip appends one clip and returns the stored record including its
// generated id and timestamp.
func (s *Store) InsertClip(ctx context.Context, visitorID string, gameID int64, clipURL, title string) (UserClipRecord, error) {
	if strings.TrimSpace(visitorID) == "" {
		return UserClipRecord{}, ErrMissingVisitor
	}
	if strings.TrimSpace(clipURL) == "" {
		return UserClipRecord{}, ErrMissingClipURL
	}
	clipID, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opInsertClip, "id_generation_failed", err, zap.String("visitor_id", visitorID))
		return UserClipRecord{}, newStoreError(opInsertClip, "id_generation_failed", err)
	}
	record := UserClipRecord{
		ClipID:    clipID,
		VisitorID: visitorID,
		GameID:    gameID,
		URL:       strings.TrimSpace(clipURL),
		Title:     strings.TrimSpace(title),
		CreatedAt: s.clock().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		s.logError(opInsertClip, "insert_failed", err,
			zap.String("visitor_id", visitorID),
			zap.Int64("game_id", gameID))
		return UserClipRecord{}, newStoreError(opInsertClip, "insert_failed", err)
	}
	return record, nil
}

func (s *Store) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("account store error", attrs...)
}
