package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultRequestTimeout = 10 * time.Second
	maxErrorBodyBytes     = 512
)

var (
	errMissingBaseURL = errors.New("catalog: base url is required")

	// ErrRemoteStatus marks a non-success response from the catalog backend.
	// Transport failures and remote failures are treated identically by
	// callers; this sentinel only aids tests and log messages.
	ErrRemoteStatus = errors.New("catalog: unexpected response status")
)

// Board identifies one ranked leaderboard dimension.
type Board string

const (
	BoardMostRage   Board = "most-rage"
	BoardDifficulty Board = "difficulty"
	BoardTechnical  Board = "technical"
	BoardToxicity   Board = "toxicity"
	BoardCozy       Board = "cozy"
)

// Boards lists every leaderboard dimension in display order.
func Boards() []Board {
	return []Board{BoardMostRage, BoardDifficulty, BoardTechnical, BoardToxicity, BoardCozy}
}

// ParseBoard validates a raw board name.
func ParseBoard(value string) (Board, error) {
	candidate := Board(strings.ToLower(strings.TrimSpace(value)))
	for _, board := range Boards() {
		if candidate == board {
			return board, nil
		}
	}
	return "", fmt.Errorf("catalog: unknown leaderboard %q", value)
}

// ClientConfig describes how to reach the catalog read API.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client is a typed reader over the catalog backend. All methods treat
// transport errors and non-2xx responses the same way: the returned error is
// terminal for that request and is never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient constructs a catalog client.
func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errMissingBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// ListGames returns up to limit game summaries for listing and picker views.
func (c *Client) ListGames(ctx context.Context, limit int) ([]GameSummary, error) {
	var games []GameSummary
	if err := c.getJSON(ctx, "/games", limitQuery(limit), &games); err != nil {
		return nil, err
	}
	return games, nil
}

// GameDetail fetches the mandatory per-game resource.
func (c *Client) GameDetail(ctx context.Context, gameID int64) (GameDetail, error) {
	var detail GameDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/games/%d", gameID), nil, &detail); err != nil {
		return GameDetail{}, err
	}
	return detail, nil
}

// Reviews fetches up to limit Steam reviews for a game.
func (c *Client) Reviews(ctx context.Context, gameID int64, limit int) ([]SteamReview, error) {
	var reviews []SteamReview
	if err := c.getJSON(ctx, fmt.Sprintf("/games/%d/reviews", gameID), limitQuery(limit), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// RedditPosts fetches up to limit social posts for a game.
func (c *Client) RedditPosts(ctx context.Context, gameID int64, limit int) ([]RedditPost, error) {
	var posts []RedditPost
	if err := c.getJSON(ctx, fmt.Sprintf("/games/%d/reddit", gameID), limitQuery(limit), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// RageWords fetches up to limit scored words for a game's word cloud.
func (c *Client) RageWords(ctx context.Context, gameID int64, limit int) ([]RageWord, error) {
	var words []RageWord
	if err := c.getJSON(ctx, fmt.Sprintf("/games/%d/rage-words", gameID), limitQuery(limit), &words); err != nil {
		return nil, err
	}
	return words, nil
}

// RageTimeline fetches the full score-over-time series for a game.
func (c *Client) RageTimeline(ctx context.Context, gameID int64) ([]RagePoint, error) {
	var points []RagePoint
	if err := c.getJSON(ctx, fmt.Sprintf("/games/%d/rage-timeline", gameID), nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// CuratedClips fetches the editorially curated clips for a game.
func (c *Client) CuratedClips(ctx context.Context, gameID int64) ([]CuratedClip, error) {
	var clips []CuratedClip
	if err := c.getJSON(ctx, fmt.Sprintf("/games/%d/clips", gameID), nil, &clips); err != nil {
		return nil, err
	}
	return clips, nil
}

// Leaderboard fetches one ranked board.
func (c *Client) Leaderboard(ctx context.Context, board Board, limit int) ([]GameSummary, error) {
	var games []GameSummary
	if err := c.getJSON(ctx, fmt.Sprintf("/leaderboards/%s", board), limitQuery(limit), &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("catalog: build request for %s: %w", path, err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("catalog: fetch %s: %w", path, err)
	}
	defer response.Body.Close() //nolint:errcheck

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		c.logger.Debug("catalog request rejected",
			zap.String("path", path),
			zap.Int("status", response.StatusCode),
			zap.ByteString("body", snippet))
		return fmt.Errorf("%w: %s returned %d", ErrRemoteStatus, path, response.StatusCode)
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", path, err)
	}
	return nil
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}
