package account

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T, clock func() time.Time) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&FavoriteRecord{}, &RageEventRecord{}, &UserClipRecord{}); err != nil {
		t.Fatalf("failed to migrate account schema: %v", err)
	}
	store, err := NewStore(StoreConfig{
		Database:   db,
		Clock:      clock,
		IDProvider: NewUUIDProvider(),
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func steppingClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}

func TestInsertFavoriteIsIdempotent(t *testing.T) {
	store := newTestStore(t, steppingClock(time.Unix(1000, 0), time.Second))
	ctx := context.Background()

	if err := store.InsertFavorite(ctx, "visitor-1", 7); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if err := store.InsertFavorite(ctx, "visitor-1", 7); err != nil {
		t.Fatalf("duplicate insert must be a no-op, got: %v", err)
	}

	favorites, err := store.ListFavorites(ctx, "visitor-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(favorites) != 1 {
		t.Fatalf("expected one favorite row, got %d", len(favorites))
	}
}

func TestFavoriteRoundTrip(t *testing.T) {
	store := newTestStore(t, steppingClock(time.Unix(1000, 0), time.Second))
	ctx := context.Background()

	if err := store.InsertFavorite(ctx, "visitor-1", 7); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	flagged, err := store.IsFavorite(ctx, "visitor-1", 7)
	if err != nil {
		t.Fatalf("is-favorite failed: %v", err)
	}
	if !flagged {
		t.Fatalf("expected favorite after insert")
	}

	if err := store.DeleteFavorite(ctx, "visitor-1", 7); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	flagged, err = store.IsFavorite(ctx, "visitor-1", 7)
	if err != nil {
		t.Fatalf("is-favorite failed: %v", err)
	}
	if flagged {
		t.Fatalf("expected favorite cleared after delete")
	}
}

func TestFavoritesAreScopedByVisitor(t *testing.T) {
	store := newTestStore(t, steppingClock(time.Unix(1000, 0), time.Second))
	ctx := context.Background()

	if err := store.InsertFavorite(ctx, "visitor-1", 7); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	flagged, err := store.IsFavorite(ctx, "visitor-2", 7)
	if err != nil {
		t.Fatalf("is-favorite failed: %v", err)
	}
	if flagged {
		t.Fatalf("favorite must not leak across visitors")
	}
}

func TestListRageEventsNewestFirst(t *testing.T) {
	store := newTestStore(t, steppingClock(time.Unix(1000, 0), time.Minute))
	ctx := context.Background()

	for index := 1; index <= 3; index++ {
		if _, err := store.InsertRageEvent(ctx, "visitor-1", int64(index), index, ""); err != nil {
			t.Fatalf("insert %d failed: %v", index, err)
		}
	}

	events, err := store.ListRageEvents(ctx, "visitor-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected three events, got %d", len(events))
	}
	if events[0].GameID != 3 || events[2].GameID != 1 {
		t.Fatalf("expected newest-first ordering, got %v then %v", events[0].GameID, events[2].GameID)
	}
}

func TestInsertRageEventValidatesIntensity(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	for _, intensity := range []int{0, -1, 6} {
		if _, err := store.InsertRageEvent(ctx, "visitor-1", 7, intensity, ""); !errors.Is(err, ErrInvalidIntensity) {
			t.Fatalf("intensity %d: expected ErrInvalidIntensity, got %v", intensity, err)
		}
	}

	events, err := store.ListRageEvents(ctx, "visitor-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("rejected events must not persist, got %d", len(events))
	}
}

func TestInsertRageEventTrimsNoteAndAssignsID(t *testing.T) {
	store := newTestStore(t, func() time.Time { return time.Unix(2000, 0) })

	record, err := store.InsertRageEvent(context.Background(), "visitor-1", 7, 4, "  threw the controller  ")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if record.EventID == "" {
		t.Fatalf("expected generated event id")
	}
	if record.Note != "threw the controller" {
		t.Fatalf("expected trimmed note, got %q", record.Note)
	}
	if !record.CreatedAt.Equal(time.Unix(2000, 0).UTC()) {
		t.Fatalf("expected clock-driven timestamp, got %v", record.CreatedAt)
	}
}

func TestInsertClipRequiresURL(t *testing.T) {
	store := newTestStore(t, nil)
	if _, err := store.InsertClip(context.Background(), "visitor-1", 7, "   ", "title"); !errors.Is(err, ErrMissingClipURL) {
		t.Fatalf("expected ErrMissingClipURL, got %v", err)
	}
}

func TestListClipsReturnsAllVisitorsNewestFirst(t *testing.T) {
	store := newTestStore(t, steppingClock(time.Unix(1000, 0), time.Minute))
	ctx := context.Background()

	if _, err := store.InsertClip(ctx, "visitor-1", 7, "https://clips.example/a", "first"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := store.InsertClip(ctx, "visitor-2", 7, "https://clips.example/b", "second"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := store.InsertClip(ctx, "visitor-1", 8, "https://clips.example/c", "other game"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	clips, err := store.ListClips(ctx, 7)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("expected two clips for game 7, got %d", len(clips))
	}
	if clips[0].Title != "second" || clips[1].Title != "first" {
		t.Fatalf("expected newest-first clip ordering, got %q then %q", clips[0].Title, clips[1].Title)
	}
}

func TestVisitorScopedReadsRejectEmptyVisitor(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	if _, err := store.ListFavorites(ctx, " "); !errors.Is(err, ErrMissingVisitor) {
		t.Fatalf("expected ErrMissingVisitor from ListFavorites, got %v", err)
	}
	if _, err := store.ListRageEvents(ctx, ""); !errors.Is(err, ErrMissingVisitor) {
		t.Fatalf("expected ErrMissingVisitor from ListRageEvents, got %v", err)
	}
	if err := store.InsertFavorite(ctx, "", 7); !errors.Is(err, ErrMissingVisitor) {
		t.Fatalf("expected ErrMissingVisitor from InsertFavorite, got %v", err)
	}
}
