package model

import (
	"time"
)

type Zone struct {
	ID          uint          `gorm:"primarykey" json:"id"`
	Title       string        `json:"title" gorm:"not null"`
	Description string        `json:"description,omitempty" gorm:"type:text"`
	Contents    []ZoneContent `json:"contents,omitempty" gorm:"foreignKey:ZoneID"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ZoneContent is the role-specific material shown inside a zone. Content is an
// opaque blob (HTML / Markdown / plain text); ExitCode, when non-empty, must be
// echoed back verbatim to complete an attempt.
type ZoneContent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ZoneID    uint      `json:"zone_id" gorm:"not null;uniqueIndex:idx_zone_contents_zone_role"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;uniqueIndex:idx_zone_contents_zone_role"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	ExitCode  string    `json:"exit_code,omitempty" gorm:"size:50"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
