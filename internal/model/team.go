package model

import (
	"time"
)

type Team struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Name       string    `json:"name" gorm:"not null;uniqueIndex"`
	TeamUserID *uint     `json:"team_user_id,omitempty" gorm:"uniqueIndex"`
	TeamUser   *TeamUser `json:"-" gorm:"foreignKey:TeamUserID"`
	Players    []Player  `json:"players,omitempty" gorm:"foreignKey:TeamID"`
	Score      *Score    `json:"score,omitempty" gorm:"foreignKey:TeamID"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
