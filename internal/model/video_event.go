package model

import "time"

const (
	VideoEventCreated = "video.created"
	VideoEventDeleted = "video.deleted"
)

type VideoEvent struct {
	Type       string    `json:"type"`
	VideoID    string    `json:"videoId"`
	OccurredAt time.Time `json:"occurredAt"`
}
