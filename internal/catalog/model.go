package catalog

// GameBrief is the minimal display identity for a game. Absence of a brief
// for a known id means the catalog could not resolve it, not an error.
type GameBrief struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GameSummary is the listing/leaderboard row shape returned by the catalog.
// RageScore is nominally 0-100 but the catalog does not clamp it; display
// layers must.
type GameSummary struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	RageScore float64 `json:"rage_score"`
}

// RageBreakdown carries the per-dimension scores and the optional
// achievement drop-off data. The drop fields are either all present or all
// absent; partial presence is treated as insufficient data.
type RageBreakdown struct {
	RageScore          float64  `json:"rage_score"`
	DifficultyRage     float64  `json:"difficulty_rage"`
	TechnicalRage      float64  `json:"technical_rage"`
	SocialToxicityRage float64  `json:"social_toxicity_rage"`
	UIDesignRage       float64  `json:"ui_design_rage"`
	MaxAchievementDrop *float64 `json:"max_achievement_drop,omitempty"`
	MaxDropFrom        *float64 `json:"max_drop_from,omitempty"`
	MaxDropTo          *float64 `json:"max_drop_to,omitempty"`
	MaxDropAchievement *string  `json:"max_drop_achievement,omitempty"`
}

// HasAchievementDrop reports whether the drop-off fields form a complete set.
func (b RageBreakdown) HasAchievementDrop() bool {
	return b.MaxAchievementDrop != nil && b.MaxDropFrom != nil && b.MaxDropTo != nil && b.MaxDropAchievement != nil
}

// GameDetail is the mandatory per-game resource.
type GameDetail struct {
	ID   int64         `json:"id"`
	Name string        `json:"name"`
	Slug string        `json:"slug"`
	Rage RageBreakdown `json:"rage"`
}

// Brief projects the detail down to its display identity.
func (d GameDetail) Brief() GameBrief {
	return GameBrief{ID: d.ID, Name: d.Name, Slug: d.Slug}
}

// SteamReview is one review sourced from Steam, most relevant first.
type SteamReview struct {
	IsPositive     bool    `json:"is_positive"`
	Language       *string `json:"language,omitempty"`
	ReviewText     string  `json:"review_text"`
	CreatedAtSteam *string `json:"created_at_steam,omitempty"`
}

// RedditPost is one social post sourced from Reddit.
type RedditPost struct {
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	Upvotes     *int64  `json:"upvotes,omitempty"`
	NumComments *int64  `json:"num_comments,omitempty"`
	CreatedUTC  *string `json:"created_utc,omitempty"`
}

// RageWord is a scored vocabulary item for the word cloud.
type RageWord struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// RagePoint is one bucket of the score-over-time series.
type RagePoint struct {
	Date      string  `json:"date"`
	RageScore float64 `json:"rage_score"`
	Positive  int64   `json:"positive"`
	Negative  int64   `json:"negative"`
	Total     int64   `json:"total"`
}

// CuratedClip is an editorially sourced clip owned by the catalog.
type CuratedClip struct {
	ID           int64   `json:"id"`
	Source       *string `json:"source,omitempty"`
	URL          string  `json:"url"`
	Title        *string `json:"title,omitempty"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}
