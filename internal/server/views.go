package server

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ragequitlabs/ragewatch/internal/catalog"
	"github.com/ragequitlabs/ragewatch/internal/profile"
	"github.com/ragequitlabs/ragewatch/internal/ragestat"
)

const (
	gamesIndexLimit  = 50
	leaderboardLimit = 50
)

type gameRowPayload struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	RageScore float64 `json:"rage_score"`
}

func gameRows(games []catalog.GameSummary) []gameRowPayload {
	rows := make([]gameRowPayload, 0, len(games))
	for _, game := range games {
		rows = append(rows, gameRowPayload{
			ID:        game.ID,
			Name:      game.Name,
			Slug:      game.Slug,
			RageScore: ragestat.Clamp(game.RageScore),
		})
	}
	return rows
}

func (h *httpHandler) handleGamesIndex(c *gin.Context) {
	games, err := h.catalog.ListGames(c.Request.Context(), gamesIndexLimit)
	if err != nil {
		h.logger.Error("game listing failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog_unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": gameRows(games)})
}

// handleLeaderboards loads every board concurrently; a board whose fetch
// fails degrades to an empty list instead of failing the page.
func (h *httpHandler) handleLeaderboards(c *gin.Context) {
	ctx := c.Request.Context()
	boards := catalog.Boards()
	results := make(map[catalog.Board][]catalog.GameSummary, len(boards))

	var (
		waitGroup sync.WaitGroup
		mu        sync.Mutex
	)
	waitGroup.Add(len(boards))
	for _, board := range boards {
		go func(board catalog.Board) {
			defer waitGroup.Done()
			games, err := h.catalog.Leaderboard(ctx, board, leaderboardLimit)
			if err != nil {
				h.logger.Warn("leaderboard degraded to empty",
					zap.String("board", string(board)),
					zap.Error(err))
				games = nil
			}
			mu.Lock()
			results[board] = games
			mu.Unlock()
		}(board)
	}
	waitGroup.Wait()

	if ctx.Err() != nil {
		return
	}

	payload := make(map[string][]gameRowPayload, len(boards))
	for _, board := range boards {
		payload[string(board)] = gameRows(results[board])
	}
	c.JSON(http.StatusOK, gin.H{"boards": payload})
}

type duelRowPayload struct {
	Label      string  `json:"label"`
	Left       float64 `json:"left"`
	Right      float64 `json:"right"`
	LeftShare  float64 `json:"left_share"`
	RightShare float64 `json:"right_share"`
}

func duelRow(label string, left, right float64) duelRowPayload {
	leftShare, rightShare := ragestat.DuelShares(left, right)
	return duelRowPayload{
		Label:      label,
		Left:       ragestat.Clamp(left),
		Right:      ragestat.Clamp(right),
		LeftShare:  ragestat.Clamp(leftShare),
		RightShare: ragestat.Clamp(rightShare),
	}
}

func (h *httpHandler) handleDuel(c *gin.Context) {
	leftID, leftErr := strconv.ParseInt(c.Query("left"), 10, 64)
	rightID, rightErr := strconv.ParseInt(c.Query("right"), 10, 64)
	if leftErr != nil || rightErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	ctx := c.Request.Context()
	var (
		waitGroup           sync.WaitGroup
		left, right         catalog.GameDetail
		leftFail, rightFail error
	)
	waitGroup.Add(2)
	go func() {
		defer waitGroup.Done()
		left, leftFail = h.catalog.GameDetail(ctx, leftID)
	}()
	go func() {
		defer waitGroup.Done()
		right, rightFail = h.catalog.GameDetail(ctx, rightID)
	}()
	waitGroup.Wait()

	if ctx.Err() != nil {
		return
	}
	if leftFail != nil || rightFail != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game_not_found"})
		return
	}

	rows := []duelRowPayload{
		duelRow("RageScore", left.Rage.RageScore, right.Rage.RageScore),
		duelRow("Difficulty", left.Rage.DifficultyRage, right.Rage.DifficultyRage),
		duelRow("Technical", left.Rage.TechnicalRage, right.Rage.TechnicalRage),
		duelRow("Toxicity", left.Rage.SocialToxicityRage, right.Rage.SocialToxicityRage),
		duelRow("UI / Design", left.Rage.UIDesignRage, right.Rage.UIDesignRage),
	}

	c.JSON(http.StatusOK, gin.H{
		"left":  gin.H{"id": left.ID, "name": left.Name, "slug": left.Slug},
		"right": gin.H{"id": right.ID, "name": right.Name, "slug": right.Slug},
		"rows":  rows,
	})
}

type breakdownPayload struct {
	RageScore      float64 `json:"rage_score"`
	DifficultyRage float64 `json:"difficulty_rage"`
	TechnicalRage  float64 `json:"technical_rage"`
	ToxicityRage   float64 `json:"social_toxicity_rage"`
	UIDesignRage   float64 `json:"ui_design_rage"`
}

type chokePayload struct {
	Drop            float64 `json:"drop"`
	From            float64 `json:"from"`
	To              float64 `json:"to"`
	AchievementName string  `json:"achievement"`
}

type wordPayload struct {
	Word    string  `json:"word"`
	Weight  float64 `json:"weight"`
	Size    float64 `json:"size"`
	Opacity float64 `json:"opacity"`
}

type timelinePointPayload struct {
	Date      string  `json:"date"`
	RageScore float64 `json:"rage_score"`
	Positive  int64   `json:"positive"`
	Negative  int64   `json:"negative"`
	Total     int64   `json:"total"`
	BarHeight float64 `json:"bar_height"`
}

type clipPayload struct {
	Kind         string `json:"kind"`
	ID           string `json:"id"`
	Source       string `json:"source,omitempty"`
	URL          string `json:"url"`
	Title        string `json:"title,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

func clipPayloads(clips []profile.Clip) []clipPayload {
	rows := make([]clipPayload, 0, len(clips))
	for _, clip := range clips {
		row := clipPayload{
			Kind:         string(clip.Kind),
			ID:           clip.ID,
			Source:       clip.Source,
			URL:          clip.URL,
			Title:        clip.Title,
			ThumbnailURL: clip.ThumbnailURL,
		}
		if !clip.CreatedAt.IsZero() {
			row.CreatedAt = clip.CreatedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return rows
}

func (h *httpHandler) handleGameView(c *gin.Context) {
	gameID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	ctx := c.Request.Context()

	aggregate, err := h.catalog.AggregateGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, catalog.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game_not_found"})
			return
		}
		// Cancelled mid-flight; the client is gone.
		return
	}
	h.metrics.ObserveDegraded(aggregate.Degraded)

	reconciler, err := h.reconciler(c)
	if err != nil {
		h.logger.Error("reconciler construction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	gameContext, err := reconciler.GameContext(ctx, gameID)
	if err != nil {
		h.logger.Error("game context load failed", zap.Int64("game_id", gameID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_unavailable"})
		return
	}

	words := ragestat.WordCloud(aggregate.Words)
	wordRows := make([]wordPayload, 0, len(words))
	for _, word := range words {
		wordRows = append(wordRows, wordPayload{
			Word:    word.Word,
			Weight:  word.Weight,
			Size:    word.Size,
			Opacity: word.Opacity,
		})
	}

	heights := ragestat.TimelineHeights(aggregate.Timeline)
	timelineRows := make([]timelinePointPayload, 0, len(aggregate.Timeline))
	for i, point := range aggregate.Timeline {
		timelineRows = append(timelineRows, timelinePointPayload{
			Date:      point.Date,
			RageScore: point.RageScore,
			Positive:  point.Positive,
			Negative:  point.Negative,
			Total:     point.Total,
			BarHeight: heights[i],
		})
	}

	breakdown := breakdownPayload{
		RageScore:      ragestat.Clamp(aggregate.Game.Rage.RageScore),
		DifficultyRage: ragestat.Clamp(aggregate.Game.Rage.DifficultyRage),
		TechnicalRage:  ragestat.Clamp(aggregate.Game.Rage.TechnicalRage),
		ToxicityRage:   ragestat.Clamp(aggregate.Game.Rage.SocialToxicityRage),
		UIDesignRage:   ragestat.Clamp(aggregate.Game.Rage.UIDesignRage),
	}

	var choke *chokePayload
	if aggregate.Game.Rage.HasAchievementDrop() {
		choke = &chokePayload{
			Drop:            *aggregate.Game.Rage.MaxAchievementDrop,
			From:            *aggregate.Game.Rage.MaxDropFrom,
			To:              *aggregate.Game.Rage.MaxDropTo,
			AchievementName: *aggregate.Game.Rage.MaxDropAchievement,
		}
	}

	clips := append(gameContext.Clips, profile.FromCurated(aggregate.Clips)...)
	c.JSON(http.StatusOK, gin.H{
		"game": gin.H{
			"id":   aggregate.Game.ID,
			"name": aggregate.Game.Name,
			"slug": aggregate.Game.Slug,
		},
		"breakdown":  breakdown,
		"choke":      choke,
		"reviews":    aggregate.Reviews,
		"reddit":     aggregate.Reddit,
		"word_cloud": wordRows,
		"timeline":   timelineRows,
		"clips":      clipPayloads(clips),
		"visitor": gin.H{
			"authenticated": gameContext.Authenticated,
			"favorite":      gameContext.Favorite,
		},
		"degraded": aggregate.Degraded,
	})
}

type favoritePayload struct {
	GameID    int64  `json:"game_id"`
	Label     string `json:"label"`
	Slug      string `json:"slug,omitempty"`
	Resolved  bool   `json:"resolved"`
	CreatedAt string `json:"created_at"`
}

type rageEventPayload struct {
	GameID    int64  `json:"game_id"`
	Label     string `json:"label"`
	Slug      string `json:"slug,omitempty"`
	Resolved  bool   `json:"resolved"`
	Intensity int    `json:"intensity"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

type trophyPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

func (h *httpHandler) handleProfile(c *gin.Context) {
	reconciler, err := h.reconciler(c)
	if err != nil {
		h.logger.Error("reconciler construction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}

	overview, err := reconciler.Overview(c.Request.Context())
	if err != nil {
		h.logger.Error("profile overview failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_unavailable"})
		return
	}

	favorites := make([]favoritePayload, 0, len(overview.Favorites))
	for _, favorite := range overview.Favorites {
		favorites = append(favorites, favoritePayload{
			GameID:    favorite.Game.ID,
			Label:     favorite.Game.Label,
			Slug:      favorite.Game.Slug,
			Resolved:  favorite.Game.Resolved,
			CreatedAt: favorite.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	samples := make([]ragestat.EventSample, 0, len(overview.RageEvents))
	events := make([]rageEventPayload, 0, len(overview.RageEvents))
	for _, event := range overview.RageEvents {
		samples = append(samples, ragestat.EventSample{GameID: event.Game.ID, Intensity: event.Intensity})
		events = append(events, rageEventPayload{
			GameID:    event.Game.ID,
			Label:     event.Game.Label,
			Slug:      event.Game.Slug,
			Resolved:  event.Game.Resolved,
			Intensity: event.Intensity,
			Note:      event.Note,
			CreatedAt: event.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	history := ragestat.Summarize(samples, len(overview.Favorites))
	trophies := make([]trophyPayload, 0)
	for _, trophy := range ragestat.Trophies(history) {
		trophies = append(trophies, trophyPayload{
			Name:        trophy.Name,
			Description: trophy.Description,
			Unlocked:    trophy.Unlocked,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": overview.Authenticated,
		"favorites":     favorites,
		"rage_events":   events,
		"trophies":      trophies,
		"stats": gin.H{
			"total_rage_events":   history.EventCount,
			"distinct_rage_games": history.DistinctGames,
			"max_intensity":       history.MaxIntensity,
		},
	})
}
