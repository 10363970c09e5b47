package model

import "time"

// Video is a metadata record; the media itself lives on the CDN or an
// external host referenced by VideoURL.
type Video struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	VideoURL     string    `gorm:"size:1024;not null" json:"videoUrl"`
	ThumbnailURL string    `gorm:"size:1024" json:"thumbnailUrl,omitempty"`
	Controls     bool      `gorm:"not null" json:"controls"`
	OwnerID      string    `gorm:"size:36;index" json:"ownerId,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
