package account

import "time"

// FavoriteRecord marks one game as a favorite of one visitor. At most one
// row exists per (visitor, game); the composite primary key enforces it.
type FavoriteRecord struct {
	VisitorID string    `gorm:"column:visitor_id;primaryKey;size:190;not null;index:idx_favorites_visitor_created,priority:1"`
	GameID    int64     `gorm:"column:game_id;primaryKey;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_favorites_visitor_created,priority:2"`
}

// TableName provides the explicit table binding for GORM.
func (FavoriteRecord) TableName() string {
	return "favorite_games"
}

// RageEventRecord is one visitor-submitted frustration incident. Rows are
// append-only: nothing in this layer edits or deletes them.
type RageEventRecord struct {
	EventID   string    `gorm:"column:event_id;primaryKey;size:190;not null"`
	VisitorID string    `gorm:"column:visitor_id;size:190;not null;index:idx_rage_events_visitor_created,priority:1"`
	GameID    int64     `gorm:"column:game_id;not null"`
	Intensity int       `gorm:"column:intensity;not null"`
	Note      string    `gorm:"column:note;type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_rage_events_visitor_created,priority:2"`
}

// TableName provides the explicit table binding for GORM.
func (RageEventRecord) TableName() string {
	return "rage_events"
}

// UserClipRecord is a clip link submitted by a visitor for a game.
// Append-only, owned by the submitting visitor.
type UserClipRecord struct {
	ClipID    string    `gorm:"column:clip_id;primaryKey;size:190;not null"`
	VisitorID string    `gorm:"column:visitor_id;size:190;not null"`
	GameID    int64     `gorm:"column:game_id;not null;index:idx_user_clips_game_created,priority:1"`
	URL       string    `gorm:"column:url;size:2048;not null"`
	Title     string    `gorm:"column:title;size:320;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_user_clips_game_created,priority:2"`
}

// TableName provides the explicit table binding for GORM.
func (UserClipRecord) TableName() string {
	return "user_clips"
}
