package profile

import (
	"strconv"
	"time"

	"github.com/ragequitlabs/ragewatch/internal/account"
	"github.com/ragequitlabs/ragewatch/internal/catalog"
)

// ClipKind tags the origin of a clip row.
type ClipKind string

const (
	// ClipKindCurated marks a clip sourced from the catalog's editorial feed.
	ClipKindCurated ClipKind = "curated"
	// ClipKindPersonal marks a clip submitted by a visitor.
	ClipKindPersonal ClipKind = "personal"
)

// Clip is the single row shape rendered for both curated and personal clips,
// replacing any structural guessing with an explicit tag.
type Clip struct {
	Kind         ClipKind
	ID           string
	Source       string
	URL          string
	Title        string
	ThumbnailURL string
	CreatedAt    time.Time
}

// FromCurated converts catalog clips into tagged rows.
func FromCurated(clips []catalog.CuratedClip) []Clip {
	rows := make([]Clip, 0, len(clips))
	for _, clip := range clips {
		row := Clip{
			Kind: ClipKindCurated,
			ID:   strconv.FormatInt(clip.ID, 10),
			URL:  clip.URL,
		}
		if clip.Source != nil {
			row.Source = *clip.Source
		}
		if clip.Title != nil {
			row.Title = *clip.Title
		}
		if clip.ThumbnailURL != nil {
			row.ThumbnailURL = *clip.ThumbnailURL
		}
		rows = append(rows, row)
	}
	return rows
}

// FromPersonal converts account clip records into tagged rows.
func FromPersonal(records []account.UserClipRecord) []Clip {
	rows := make([]Clip, 0, len(records))
	for _, record := range records {
		rows = append(rows, Clip{
			Kind:      ClipKindPersonal,
			ID:        record.ClipID,
			URL:       record.URL,
			Title:     record.Title,
			CreatedAt: record.CreatedAt,
		})
	}
	return rows
}
