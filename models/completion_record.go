package models

import "time"

// CompletionRecord marks that a participant performed the habit on a UTC day.
// Append-only; the composite unique index makes duplicate check-ins a no-op.
type CompletionRecord struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	ChallengeID   string    `gorm:"type:uuid;not null;uniqueIndex:ux_completion_day,priority:1" json:"challenge_id"`
	ParticipantID string    `gorm:"type:uuid;not null;uniqueIndex:ux_completion_day,priority:2" json:"participant_id"`
	Day           string    `gorm:"type:varchar(10);not null;uniqueIndex:ux_completion_day,priority:3;index" json:"day"` // YYYY-MM-DD, UTC
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}
