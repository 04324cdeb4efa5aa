package model

import (
	"time"
)

// TeamSession tracks one live login of a team principal. Admission counts
// these per user against the concurrency cap; idle ones are swept.
type TeamSession struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TeamUserID uint      `json:"team_user_id" gorm:"not null;index"`
	TeamUser   TeamUser  `json:"-" gorm:"foreignKey:TeamUserID"`
	SessionKey string    `json:"session_key" gorm:"size:40;not null;uniqueIndex"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at" gorm:"autoUpdateTime;index"`
}
