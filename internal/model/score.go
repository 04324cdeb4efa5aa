package model

import (
	"time"
)

// Score holds a team's administratively assigned per-zone points plus a
// credit counter used only for tie-breaking. Points live in keyed entries
// rather than one column per zone.
type Score struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	TeamID    uint         `json:"team_id" gorm:"not null;uniqueIndex"`
	Team      Team         `json:"-" gorm:"foreignKey:TeamID"`
	Credit    int          `json:"credit" gorm:"not null;default:0;check:credit >= 0"`
	Entries   []ScoreEntry `json:"entries,omitempty" gorm:"foreignKey:ScoreID"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ScoreEntry is the points a team earned in one zone.
type ScoreEntry struct {
	ID      uint `gorm:"primarykey" json:"id"`
	ScoreID uint `json:"score_id" gorm:"not null;uniqueIndex:idx_score_entries_score_zone"`
	ZoneID  uint `json:"zone_id" gorm:"not null;uniqueIndex:idx_score_entries_score_zone"`
	Points  int  `json:"points" gorm:"not null;default:0"`
}

// Total is the sum of per-zone points. Credit is deliberately excluded.
func (s *Score) Total() int {
	total := 0
	for _, e := range s.Entries {
		total += e.Points
	}
	return total
}

// PointsForZone returns the zone's entry points, 0 when no entry exists.
func (s *Score) PointsForZone(zoneID uint) int {
	for _, e := range s.Entries {
		if e.ZoneID == zoneID {
			return e.Points
		}
	}
	return 0
}
