package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Per-game fetch limits, matching what the profile view renders.
const (
	reviewFetchLimit = 15
	redditFetchLimit = 15
	wordFetchLimit   = 40
)

// Sub-resource names used in Aggregate.Degraded and in log fields.
const (
	SubResourceReviews  = "reviews"
	SubResourceReddit   = "reddit"
	SubResourceWords    = "rage-words"
	SubResourceTimeline = "rage-timeline"
	SubResourceClips    = "clips"
)

// ErrGameNotFound is returned when the mandatory detail fetch fails for any
// reason. The optional sub-resources never produce this error.
var ErrGameNotFound = errors.New("catalog: game not found")

// Aggregate is the merged result of the six per-game fetches. Every slice is
// always non-nil: an optional sub-resource that failed degrades to its empty
// default and is listed in Degraded.
type Aggregate struct {
	Game     GameDetail
	Reviews  []SteamReview
	Reddit   []RedditPost
	Words    []RageWord
	Timeline []RagePoint
	Clips    []CuratedClip
	Degraded []string
}

type subOutcome struct {
	name string
	err  error
}

// AggregateGame issues the six per-game fetches concurrently and merges them.
// The detail fetch is mandatory: if it fails the whole aggregate resolves to
// ErrGameNotFound and no optional data is used. Each optional fetch that
// fails is absorbed locally and reported through Degraded. A cancelled
// context aborts the in-flight requests and surfaces ctx.Err so late
// responses never reach the caller.
func (c *Client) AggregateGame(ctx context.Context, gameID int64) (Aggregate, error) {
	aggregate := Aggregate{
		Reviews:  []SteamReview{},
		Reddit:   []RedditPost{},
		Words:    []RageWord{},
		Timeline: []RagePoint{},
		Clips:    []CuratedClip{},
	}

	var (
		waitGroup sync.WaitGroup
		detailErr error
		outcomes  = make([]subOutcome, 0, 5)
		mu        sync.Mutex
	)

	record := func(name string, err error) {
		mu.Lock()
		outcomes = append(outcomes, subOutcome{name: name, err: err})
		mu.Unlock()
	}

	waitGroup.Add(6)
	go func() {
		defer waitGroup.Done()
		detail, err := c.GameDetail(ctx, gameID)
		if err != nil {
			detailErr = err
			return
		}
		aggregate.Game = detail
	}()
	go func() {
		defer waitGroup.Done()
		reviews, err := c.Reviews(ctx, gameID, reviewFetchLimit)
		if err == nil {
			aggregate.Reviews = reviews
		}
		record(SubResourceReviews, err)
	}()
	go func() {
		defer waitGroup.Done()
		posts, err := c.RedditPosts(ctx, gameID, redditFetchLimit)
		if err == nil {
			aggregate.Reddit = posts
		}
		record(SubResourceReddit, err)
	}()
	go func() {
		defer waitGroup.Done()
		words, err := c.RageWords(ctx, gameID, wordFetchLimit)
		if err == nil {
			aggregate.Words = words
		}
		record(SubResourceWords, err)
	}()
	go func() {
		defer waitGroup.Done()
		points, err := c.RageTimeline(ctx, gameID)
		if err == nil {
			aggregate.Timeline = points
		}
		record(SubResourceTimeline, err)
	}()
	go func() {
		defer waitGroup.Done()
		clips, err := c.CuratedClips(ctx, gameID)
		if err == nil {
			aggregate.Clips = clips
		}
		record(SubResourceClips, err)
	}()
	waitGroup.Wait()

	if err := ctx.Err(); err != nil {
		return Aggregate{}, err
	}

	if detailErr != nil {
		c.logger.Info("game detail fetch failed",
			zap.Int64("game_id", gameID),
			zap.Error(detailErr))
		return Aggregate{}, fmt.Errorf("%w: game %d: %v", ErrGameNotFound, gameID, detailErr)
	}

	for _, outcome := range outcomes {
		if outcome.err == nil {
			continue
		}
		aggregate.Degraded = append(aggregate.Degraded, outcome.name)
		c.logger.Warn("optional sub-resource degraded to empty",
			zap.Int64("game_id", gameID),
			zap.String("sub_resource", outcome.name),
			zap.Error(outcome.err))
	}

	normalizeAggregate(&aggregate)
	return aggregate, nil
}

// normalizeAggregate guarantees non-nil slices even when the backend answered
// a success with a JSON null body.
func normalizeAggregate(aggregate *Aggregate) {
	if aggregate.Reviews == nil {
		aggregate.Reviews = []SteamReview{}
	}
	if aggregate.Reddit == nil {
		aggregate.Reddit = []RedditPost{}
	}
	if aggregate.Words == nil {
		aggregate.Words = []RageWord{}
	}
	if aggregate.Timeline == nil {
		aggregate.Timeline = []RagePoint{}
	}
	if aggregate.Clips == nil {
		aggregate.Clips = []CuratedClip{}
	}
}
