package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ragequitlabs/ragewatch/internal/account"
	"github.com/ragequitlabs/ragewatch/internal/catalog"
	"github.com/ragequitlabs/ragewatch/internal/session"
)

type fakeBriefs struct {
	briefs map[int64]catalog.GameBrief
	calls  int
}

func (f *fakeBriefs) ResolveBriefs(_ context.Context, gameIDs []int64) map[int64]catalog.GameBrief {
	f.calls++
	resolved := make(map[int64]catalog.GameBrief, len(gameIDs))
	for _, id := range gameIDs {
		if brief, ok := f.briefs[id]; ok {
			resolved[id] = brief
		}
	}
	return resolved
}

type fakeAccounts struct {
	favorites []account.FavoriteRecord
	events    []account.RageEventRecord
	clips     []account.UserClipRecord
	favorited map[int64]bool

	listFavoritesErr error
	listClipsErr     error
	isFavoriteErr    error

	listFavoriteCalls int
	listEventCalls    int
}

func (f *fakeAccounts) ListFavorites(context.Context, string) ([]account.FavoriteRecord, error) {
	f.listFavoriteCalls++
	if f.listFavoritesErr != nil {
		return nil, f.listFavoritesErr
	}
	return f.favorites, nil
}

func (f *fakeAccounts) ListRageEvents(context.Context, string) ([]account.RageEventRecord, error) {
	f.listEventCalls++
	return f.events, nil
}

func (f *fakeAccounts) IsFavorite(_ context.Context, _ string, gameID int64) (bool, error) {
	if f.isFavoriteErr != nil {
		return false, f.isFavoriteErr
	}
	return f.favorited[gameID], nil
}

func (f *fakeAccounts) ListClips(context.Context, int64) ([]account.UserClipRecord, error) {
	if f.listClipsErr != nil {
		return nil, f.listClipsErr
	}
	return f.clips, nil
}

func newTestReconciler(t *testing.T, source session.Source, briefs *fakeBriefs, accounts *fakeAccounts) *Reconciler {
	t.Helper()
	reconciler, err := NewReconciler(ReconcilerConfig{
		Sessions: source,
		Briefs:   briefs,
		Accounts: accounts,
	})
	if err != nil {
		t.Fatalf("failed to create reconciler: %v", err)
	}
	return reconciler
}

func TestOverviewGatesToEmptyWhenUnauthenticated(t *testing.T) {
	accounts := &fakeAccounts{
		favorites: []account.FavoriteRecord{{VisitorID: "visitor-1", GameID: 7}},
	}
	for _, source := range []session.Source{
		session.Anonymous(),
		session.Static(session.Snapshot{State: session.StateUnknown}),
	} {
		reconciler := newTestReconciler(t, source, &fakeBriefs{}, accounts)
		overview, err := reconciler.Overview(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if overview.Authenticated {
			t.Fatalf("unauthenticated overview must not mark authenticated")
		}
		if len(overview.Favorites) != 0 || len(overview.RageEvents) != 0 {
			t.Fatalf("unauthenticated overview must be empty, got %+v", overview)
		}
	}
	if accounts.listFavoriteCalls != 0 || accounts.listEventCalls != 0 {
		t.Fatalf("unauthenticated overview must not read the account store")
	}
}

func TestOverviewJoinsBriefsAndKeepsUnresolvedRows(t *testing.T) {
	now := time.Unix(5000, 0).UTC()
	accounts := &fakeAccounts{
		favorites: []account.FavoriteRecord{
			{VisitorID: "visitor-1", GameID: 7, CreatedAt: now},
			{VisitorID: "visitor-1", GameID: 31, CreatedAt: now},
		},
		events: []account.RageEventRecord{
			{EventID: "event-1", VisitorID: "visitor-1", GameID: 7, Intensity: 4, Note: "boss fight", CreatedAt: now},
		},
	}
	briefs := &fakeBriefs{briefs: map[int64]catalog.GameBrief{
		7: {ID: 7, Name: "Cliffhanger", Slug: "cliffhanger"},
	}}
	reconciler := newTestReconciler(t, session.Authenticated(session.Visitor{ID: "visitor-1"}), briefs, accounts)

	overview, err := reconciler.Overview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !overview.Authenticated {
		t.Fatalf("expected authenticated overview")
	}
	if briefs.calls != 1 {
		t.Fatalf("expected one batched brief resolution, got %d", briefs.calls)
	}

	resolved := overview.Favorites[0].Game
	if !resolved.Resolved || resolved.Label != "Cliffhanger" || resolved.Slug != "cliffhanger" {
		t.Fatalf("unexpected resolved ref %+v", resolved)
	}
	unresolved := overview.Favorites[1].Game
	if unresolved.Resolved {
		t.Fatalf("expected unresolved ref for unknown game")
	}
	if unresolved.Label != "Game #31" {
		t.Fatalf("unresolved rows must keep a fallback label, got %q", unresolved.Label)
	}
	if overview.RageEvents[0].Intensity != 4 || overview.RageEvents[0].Note != "boss fight" {
		t.Fatalf("unexpected event row %+v", overview.RageEvents[0])
	}
}

func TestOverviewPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("store down")
	accounts := &fakeAccounts{listFavoritesErr: storeErr}
	reconciler := newTestReconciler(t, session.Authenticated(session.Visitor{ID: "visitor-1"}), &fakeBriefs{}, accounts)

	if _, err := reconciler.Overview(context.Background()); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
}

func TestGameContextForAnonymousVisitorStillListsClips(t *testing.T) {
	accounts := &fakeAccounts{
		clips: []account.UserClipRecord{{ClipID: "clip-1", GameID: 7, URL: "https://clips.example/1"}},
	}
	reconciler := newTestReconciler(t, session.Anonymous(), &fakeBriefs{}, accounts)

	gameContext, err := reconciler.GameContext(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gameContext.Authenticated || gameContext.Favorite {
		t.Fatalf("anonymous context must not carry visitor flags, got %+v", gameContext)
	}
	if len(gameContext.Clips) != 1 || gameContext.Clips[0].Kind != ClipKindPersonal {
		t.Fatalf("expected one personal clip, got %+v", gameContext.Clips)
	}
}

func TestGameContextDegradesWhenClipsUnavailable(t *testing.T) {
	accounts := &fakeAccounts{
		listClipsErr: errors.New("store down"),
		favorited:    map[int64]bool{7: true},
	}
	reconciler := newTestReconciler(t, session.Authenticated(session.Visitor{ID: "visitor-1"}), &fakeBriefs{}, accounts)

	gameContext, err := reconciler.GameContext(context.Background(), 7)
	if err != nil {
		t.Fatalf("clip failures must degrade, not fail: %v", err)
	}
	if len(gameContext.Clips) != 0 {
		t.Fatalf("expected empty clips on degradation, got %+v", gameContext.Clips)
	}
	if !gameContext.Favorite {
		t.Fatalf("favorite flag should still resolve")
	}
}

func TestFromCuratedMapsOptionalFields(t *testing.T) {
	source := "youtube"
	title := "rage compilation"
	thumb := "https://img.example/1.jpg"
	rows := FromCurated([]catalog.CuratedClip{
		{ID: 42, Source: &source, URL: "https://clips.example/42", Title: &title, ThumbnailURL: &thumb},
		{ID: 43, URL: "https://clips.example/43"},
	})
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(rows))
	}
	if rows[0].Kind != ClipKindCurated || rows[0].ID != "42" || rows[0].Source != "youtube" {
		t.Fatalf("unexpected curated row %+v", rows[0])
	}
	if rows[1].Title != "" || rows[1].ThumbnailURL != "" {
		t.Fatalf("absent optional fields must stay empty, got %+v", rows[1])
	}
}
