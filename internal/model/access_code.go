package model

import (
	"time"
)

// AccessCode is a single-use secret identifying one (zone, team, player)
// triple. Redemption creates the attempt and flips IsUsed; the flag is a
// one-way transition and a used code can never be redeemed again.
type AccessCode struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ZoneID    uint      `json:"zone_id" gorm:"not null;uniqueIndex:idx_access_codes_player_zone;index"`
	Zone      Zone      `json:"zone,omitempty" gorm:"foreignKey:ZoneID"`
	TeamID    uint      `json:"team_id" gorm:"not null;index"`
	Team      Team      `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	PlayerID  uint      `json:"player_id" gorm:"not null;uniqueIndex:idx_access_codes_player_zone"`
	Player    Player    `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
	Code      string    `json:"code" gorm:"size:20;not null;uniqueIndex"`
	IsUsed    bool      `json:"is_used" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}
