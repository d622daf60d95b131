// Package profile joins a visitor's account records with catalog metadata to
// produce display-ready rows.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ragequitlabs/ragewatch/internal/account"
	"github.com/ragequitlabs/ragewatch/internal/catalog"
	"github.com/ragequitlabs/ragewatch/internal/session"
)

var (
	errMissingSessions = errors.New("profile: session source is required")
	errMissingBriefs   = errors.New("profile: brief resolver is required")
	errMissingAccounts = errors.New("profile: account reader is required")
)

// BriefResolver resolves game ids to display briefs; unresolved ids are
// simply absent from the map.
type BriefResolver interface {
	ResolveBriefs(ctx context.Context, gameIDs []int64) map[int64]catalog.GameBrief
}

// AccountReader is the read side of the account store.
type AccountReader interface {
	ListFavorites(ctx context.Context, visitorID string) ([]account.FavoriteRecord, error)
	ListRageEvents(ctx context.Context, visitorID string) ([]account.RageEventRecord, error)
	IsFavorite(ctx context.Context, visitorID string, gameID int64) (bool, error)
	ListClips(ctx context.Context, gameID int64) ([]account.UserClipRecord, error)
}

// GameRef is the display identity attached to a personal record. When the
// catalog cannot resolve the id the record still renders, with a fallback
// label derived from the raw id: personal history never silently disappears.
type GameRef struct {
	ID       int64
	Label    string
	Slug     string
	Resolved bool
}

// FavoriteRow is one favorite joined against catalog metadata.
type FavoriteRow struct {
	Game      GameRef
	CreatedAt time.Time
}

// RageEventRow is one rage event joined against catalog metadata.
type RageEventRow struct {
	Game      GameRef
	Intensity int
	Note      string
	CreatedAt time.Time
}

// Overview is the visitor's full personal history view. Zero-valued (with
// Authenticated false) when no session is established.
type Overview struct {
	Authenticated bool
	Favorites     []FavoriteRow
	RageEvents    []RageEventRow
}

// GameContext is the visitor's relationship with one game.
type GameContext struct {
	Authenticated bool
	Favorite      bool
	Clips         []Clip
}

// ReconcilerConfig describes the reconciler dependencies.
type ReconcilerConfig struct {
	Sessions session.Source
	Briefs   BriefResolver
	Accounts AccountReader
	Logger   *zap.Logger
}

// Reconciler reads the signed-in visitor's records and joins them with
// catalog briefs. A missing session gates to empty results without error.
type Reconciler struct {
	sessions session.Source
	briefs   BriefResolver
	accounts AccountReader
	logger   *zap.Logger
}

// NewReconciler constructs a Reconciler.
func NewReconciler(cfg ReconcilerConfig) (*Reconciler, error) {
	if cfg.Sessions == nil {
		return nil, errMissingSessions
	}
	if cfg.Briefs == nil {
		return nil, errMissingBriefs
	}
	if cfg.Accounts == nil {
		return nil, errMissingAccounts
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		sessions: cfg.Sessions,
		briefs:   cfg.Briefs,
		accounts: cfg.Accounts,
		logger:   logger,
	}, nil
}

// Overview loads the visitor's favorites and rage events and resolves their
// game briefs in one batch.
func (r *Reconciler) Overview(ctx context.Context) (Overview, error) {
	snapshot := r.sessions.Current()
	if !snapshot.Authenticated() {
		return Overview{Favorites: []FavoriteRow{}, RageEvents: []RageEventRow{}}, nil
	}
	visitorID := snapshot.Visitor.ID

	favorites, err := r.accounts.ListFavorites(ctx, visitorID)
	if err != nil {
		return Overview{}, err
	}
	events, err := r.accounts.ListRageEvents(ctx, visitorID)
	if err != nil {
		return Overview{}, err
	}

	gameIDs := make([]int64, 0, len(favorites)+len(events))
	for _, favorite := range favorites {
		gameIDs = append(gameIDs, favorite.GameID)
	}
	for _, event := range events {
		gameIDs = append(gameIDs, event.GameID)
	}
	briefs := r.briefs.ResolveBriefs(ctx, gameIDs)
	if err := ctx.Err(); err != nil {
		return Overview{}, err
	}

	overview := Overview{
		Authenticated: true,
		Favorites:     make([]FavoriteRow, 0, len(favorites)),
		RageEvents:    make([]RageEventRow, 0, len(events)),
	}
	for _, favorite := range favorites {
		overview.Favorites = append(overview.Favorites, FavoriteRow{
			Game:      resolveRef(briefs, favorite.GameID),
			CreatedAt: favorite.CreatedAt,
		})
	}
	for _, event := range events {
		overview.RageEvents = append(overview.RageEvents, RageEventRow{
			Game:      resolveRef(briefs, event.GameID),
			Intensity: event.Intensity,
			Note:      event.Note,
			CreatedAt: event.CreatedAt,
		})
	}
	return overview, nil
}

// GameContext loads the visitor's favorite flag and the personal clips for
// one game. Clips from other visitors are included: the clip wall is shared.
func (r *Reconciler) GameContext(ctx context.Context, gameID int64) (GameContext, error) {
	snapshot := r.sessions.Current()

	clips, err := r.accounts.ListClips(ctx, gameID)
	if err != nil {
		r.logger.Warn("clip list unavailable",
			zap.Int64("game_id", gameID),
			zap.Error(err))
		clips = nil
	}

	gameContext := GameContext{Clips: FromPersonal(clips)}
	if !snapshot.Authenticated() {
		return gameContext, nil
	}
	gameContext.Authenticated = true

	favorite, err := r.accounts.IsFavorite(ctx, snapshot.Visitor.ID, gameID)
	if err != nil {
		return GameContext{}, err
	}
	gameContext.Favorite = favorite
	return gameContext, nil
}

func resolveRef(briefs map[int64]catalog.GameBrief, gameID int64) GameRef {
	if brief, ok := briefs[gameID]; ok {
		return GameRef{ID: gameID, Label: brief.Name, Slug: brief.Slug, Resolved: true}
	}
	return GameRef{ID: gameID, Label: fallbackLabel(gameID)}
}

func fallbackLabel(gameID int64) string {
	return fmt.Sprintf("Game #%d", gameID)
}
