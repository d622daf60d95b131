package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ResolveBriefs resolves a set of game ids to display briefs. Lookups run
// independently and in parallel; an id the catalog cannot resolve is simply
// absent from the returned map. Duplicate ids are collapsed before fetching.
// The batch itself never fails: the worst case is an empty map.
func (c *Client) ResolveBriefs(ctx context.Context, gameIDs []int64) map[int64]GameBrief {
	unique := make([]int64, 0, len(gameIDs))
	seen := make(map[int64]struct{}, len(gameIDs))
	for _, id := range gameIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	briefs := make(map[int64]GameBrief, len(unique))
	if len(unique) == 0 {
		return briefs
	}

	var (
		waitGroup sync.WaitGroup
		mu        sync.Mutex
	)
	waitGroup.Add(len(unique))
	for _, id := range unique {
		go func(gameID int64) {
			defer waitGroup.Done()
			detail, err := c.GameDetail(ctx, gameID)
			if err != nil {
				c.logger.Debug("game brief unresolved",
					zap.Int64("game_id", gameID),
					zap.Error(err))
				return
			}
			mu.Lock()
			briefs[detail.ID] = detail.Brief()
			mu.Unlock()
		}(id)
	}
	waitGroup.Wait()

	if ctx.Err() != nil {
		return map[int64]GameBrief{}
	}
	return briefs
}
