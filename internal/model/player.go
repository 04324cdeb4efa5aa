package model

import (
	"time"
)

// Role is the fixed set of positions a team fields. Each team has at most one
// player per role, and role decides which zone content and exit code a player
// is shown.
type Role string

const (
	RoleIntern        Role = "INTERN"
	RoleJuniorAnalyst Role = "JUNIOR_ANALYST"
	RoleTeamLeader    Role = "TEAM_LEADER"
	RoleManager       Role = "MANAGER"
	RoleCEO           Role = "CEO"
)

// AllRoles in canonical order.
var AllRoles = []Role{RoleIntern, RoleJuniorAnalyst, RoleTeamLeader, RoleManager, RoleCEO}

func (r Role) Valid() bool {
	switch r {
	case RoleIntern, RoleJuniorAnalyst, RoleTeamLeader, RoleManager, RoleCEO:
		return true
	}
	return false
}

type Player struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `json:"name" gorm:"not null"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;uniqueIndex:idx_players_team_role"`
	TeamID    uint      `json:"team_id" gorm:"not null;uniqueIndex:idx_players_team_role;index"`
	Team      Team      `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
