// Package mutate performs the visitor-initiated writes: favorite toggles,
// rage-event submissions, and clip submissions. Each mutation applies its
// local effect optimistically and carries a compensating action that
// restores the prior local state when the store rejects the write.
package mutate

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ragequitlabs/ragewatch/internal/account"
	"github.com/ragequitlabs/ragewatch/internal/session"
)

var (
	errMissingSessions = errors.New("mutate: session source is required")
	errMissingAccounts = errors.New("mutate: account writer is required")

	// ErrAuthenticationRequired gates mutations behind a signed-in session.
	// It is a gating condition, not a remote failure: it is raised before
	// any store call.
	ErrAuthenticationRequired = errors.New("mutate: authentication required")
	// ErrInvalidIntensity rejects a rage event outside the 1..5 scale
	// before any store call.
	ErrInvalidIntensity = errors.New("mutate: intensity must be between 1 and 5")
	// ErrMissingClipURL rejects an empty clip URL before any store call.
	ErrMissingClipURL = errors.New("mutate: clip url is required")
)

// AccountWriter is the write side of the account store.
type AccountWriter interface {
	InsertFavorite(ctx context.Context, visitorID string, gameID int64) error
	DeleteFavorite(ctx context.Context, visitorID string, gameID int64) error
	InsertRageEvent(ctx context.Context, visitorID string, gameID int64, intensity int, note string) (account.RageEventRecord, error)
	InsertClip(ctx context.Context, visitorID string, gameID int64, clipURL, title string) (account.UserClipRecord, error)
}

// FavoriteState is the view-local favorite flag for one game. Single-owner:
// only the view that loaded it mutates it.
type FavoriteState struct {
	Flagged bool
}

// RageEventForm is the view-local rage-event input. Cleared on successful
// submission, left intact on failure.
type RageEventForm struct {
	Intensity int
	Note      string
}

// ClipForm is the view-local clip input.
type ClipForm struct {
	URL   string
	Title string
}

// ClipList is the view-local list of personal clips, newest first.
type ClipList struct {
	Records []account.UserClipRecord
}

func (l *ClipList) prepend(record account.UserClipRecord) {
	l.Records = append([]account.UserClipRecord{record}, l.Records...)
}

// CoordinatorConfig describes the coordinator dependencies.
type CoordinatorConfig struct {
	Sessions session.Source
	Accounts AccountWriter
	Logger   *zap.Logger
}

// Coordinator executes mutations against the account store.
type Coordinator struct {
	sessions session.Source
	accounts AccountWriter
	logger   *zap.Logger
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	if cfg.Sessions == nil {
		return nil, errMissingSessions
	}
	if cfg.Accounts == nil {
		return nil, errMissingAccounts
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		sessions: cfg.Sessions,
		accounts: cfg.Accounts,
		logger:   logger,
	}, nil
}

// ToggleFavorite flips the local favorite flag immediately, then mirrors the
// flip to the store: insert on toggle-on, delete on toggle-off. A store
// failure rolls the flag back to its prior value before the error surfaces,
// so local and remote state never drift apart.
func (c *Coordinator) ToggleFavorite(ctx context.Context, state *FavoriteState, gameID int64) error {
	visitorID, err := c.requireVisitor()
	if err != nil {
		return err
	}

	prior := state.Flagged
	state.Flagged = !prior

	if state.Flagged {
		err = c.accounts.InsertFavorite(ctx, visitorID, gameID)
	} else {
		err = c.accounts.DeleteFavorite(ctx, visitorID, gameID)
	}
	if err != nil {
		state.Flagged = prior
		c.logger.Warn("favorite toggle rolled back",
			zap.String("visitor_id", visitorID),
			zap.Int64("game_id", gameID),
			zap.Bool("restored_flag", prior),
			zap.Error(err))
		return err
	}
	return nil
}

// SubmitRageEvent validates the form, inserts the event, and clears the form
// on success. No cached event list is touched either way: the submission
// only becomes visible on the next reconciled read.
func (c *Coordinator) SubmitRageEvent(ctx context.Context, form *RageEventForm, gameID int64) (account.RageEventRecord, error) {
	visitorID, err := c.requireVisitor()
	if err != nil {
		return account.RageEventRecord{}, err
	}
	if form.Intensity < 1 || form.Intensity > 5 {
		return account.RageEventRecord{}, ErrInvalidIntensity
	}

	record, err := c.accounts.InsertRageEvent(ctx, visitorID, gameID, form.Intensity, form.Note)
	if err != nil {
		return account.RageEventRecord{}, err
	}

	form.Intensity = 0
	form.Note = ""
	return record, nil
}

// SubmitClip validates the form and inserts the clip. On success the stored
// record, with its generated id and timestamp, is prepended to the local
// list and the form is cleared. On failure both are left untouched.
func (c *Coordinator) SubmitClip(ctx context.Context, list *ClipList, form *ClipForm, gameID int64) (account.UserClipRecord, error) {
	visitorID, err := c.requireVisitor()
	if err != nil {
		return account.UserClipRecord{}, err
	}
	if strings.TrimSpace(form.URL) == "" {
		return account.UserClipRecord{}, ErrMissingClipURL
	}

	record, err := c.accounts.InsertClip(ctx, visitorID, gameID, form.URL, form.Title)
	if err != nil {
		return account.UserClipRecord{}, err
	}

	list.prepend(record)
	form.URL = ""
	form.Title = ""
	return record, nil
}

func (c *Coordinator) requireVisitor() (string, error) {
	snapshot := c.sessions.Current()
	if !snapshot.Authenticated() {
		return "", ErrAuthenticationRequired
	}
	return snapshot.Visitor.ID, nil
}
