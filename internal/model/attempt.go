package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/minhngocbui/ctfzone/internal/apperr"
)

type AttemptStatus string

const (
	AttemptActive     AttemptStatus = "ACTIVE"
	AttemptCompleted  AttemptStatus = "COMPLETED"
	AttemptForcedExit AttemptStatus = "FORCED_EXIT"
)

// Terminal reports whether no further transitions are allowed.
func (s AttemptStatus) Terminal() bool {
	return s == AttemptCompleted || s == AttemptForcedExit
}

// Attempt is one player's single timed play-through of one zone on behalf of a
// team. It exclusively consumes the AccessCode that spawned it.
type Attempt struct {
	ID           uint          `gorm:"primarykey" json:"id"`
	TeamID       uint          `json:"team_id" gorm:"not null;index"`
	Team         Team          `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	ZoneID       uint          `json:"zone_id" gorm:"not null;uniqueIndex:idx_attempts_player_zone;index:idx_attempts_zone_status"`
	Zone         Zone          `json:"zone,omitempty" gorm:"foreignKey:ZoneID"`
	PlayerID     uint          `json:"player_id" gorm:"not null;uniqueIndex:idx_attempts_player_zone"`
	Player       Player        `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
	AccessCodeID uint          `json:"access_code_id" gorm:"not null;uniqueIndex"`
	AccessCode   AccessCode    `json:"-" gorm:"foreignKey:AccessCodeID"`
	EntryTime    time.Time     `json:"entry_time" gorm:"autoCreateTime;not null"`
	ExitTime     *time.Time    `json:"exit_time,omitempty"`
	Status       AttemptStatus `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE';index:idx_attempts_zone_status"`
}

// BeforeSave guards the cross-entity invariant: the attempt's team, zone and
// player must be exactly the ones its access code was minted for. This should
// be unreachable through the public operations; tripping it is a programming
// error, not user input.
func (a *Attempt) BeforeSave(tx *gorm.DB) error {
	access := a.AccessCode
	if access.ID == 0 {
		if err := tx.Session(&gorm.Session{NewDB: true}).First(&access, a.AccessCodeID).Error; err != nil {
			return err
		}
	}
	if access.PlayerID != a.PlayerID {
		return apperr.Invariant("access code does not belong to this player")
	}
	if access.ZoneID != a.ZoneID {
		return apperr.Invariant("access code does not belong to this zone")
	}
	if access.TeamID != a.TeamID {
		return apperr.Invariant("access code does not belong to this team")
	}
	return nil
}

// DurationSeconds is exit minus entry truncated to whole seconds, or nil while
// the attempt is still open.
func (a *Attempt) DurationSeconds() *int64 {
	if a.ExitTime == nil {
		return nil
	}
	secs := int64(a.ExitTime.Sub(a.EntryTime) / time.Second)
	return &secs
}
