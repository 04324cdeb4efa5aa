package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type AttemptResponse struct {
	ID              uint       `json:"id"`
	TeamID          uint       `json:"team_id"`
	TeamName        string     `json:"team_name,omitempty"`
	ZoneID          uint       `json:"zone_id"`
	ZoneTitle       string     `json:"zone_title,omitempty"`
	PlayerID        uint       `json:"player_id"`
	PlayerName      string     `json:"player_name,omitempty"`
	PlayerRole      string     `json:"player_role,omitempty"`
	Status          string     `json:"status"`
	EntryTime       time.Time  `json:"entry_time"`
	ExitTime        *time.Time `json:"exit_time,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty"`
}

type SessionResponse struct {
	SessionKey string    `json:"session_key"`
	TeamID     uint      `json:"team_id"`
	TeamName   string    `json:"team_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type LeaderboardEntry struct {
	Rank             int    `json:"rank"`
	TeamID           uint   `json:"team_id"`
	TeamName         string `json:"team_name"`
	TotalScore       int    `json:"total_score"`
	Credit           int    `json:"credit"`
	TotalTimeSeconds int64  `json:"total_time_seconds"`
}

type TimelinePoint struct {
	Timestamp       time.Time `json:"timestamp"`
	CumulativeScore int       `json:"cumulative_score"`
}

type TeamTimeline struct {
	TeamID   uint            `json:"team_id"`
	TeamName string          `json:"team_name"`
	Points   []TimelinePoint `json:"points"`
}

// ZoneStatus is one row of a team's zone board.
type ZoneStatus struct {
	ZoneID       uint   `json:"zone_id"`
	Title        string `json:"title"`
	HasActive    bool   `json:"has_active"`
	HasCompleted bool   `json:"has_completed"`
	HasAccess    bool   `json:"has_access"`
	CanEnter     bool   `json:"can_enter"`
	Points       int    `json:"points"`
}

// ZonePlayResponse is what an admitted player sees inside a zone.
type ZonePlayResponse struct {
	AttemptID   uint   `json:"attempt_id"`
	ZoneID      uint   `json:"zone_id"`
	ZoneTitle   string `json:"zone_title"`
	PlayerName  string `json:"player_name"`
	PlayerRole  string `json:"player_role"`
	Content     string `json:"content"`
	HasExitCode bool   `json:"has_exit_code"`
}

type TeamCredentials struct {
	TeamName string `json:"team_name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type TeamResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Players   []PlayerResponse `json:"players,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type PlayerResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type AccessCodeResponse struct {
	ID         uint      `json:"id"`
	Code       string    `json:"code"`
	ZoneID     uint      `json:"zone_id"`
	ZoneTitle  string    `json:"zone_title,omitempty"`
	PlayerID   uint      `json:"player_id"`
	PlayerName string    `json:"player_name,omitempty"`
	PlayerRole string    `json:"player_role,omitempty"`
	IsUsed     bool      `json:"is_used"`
	CreatedAt  time.Time `json:"created_at"`
}

type RosterImportResult struct {
	TeamsCreated   int               `json:"teams_created"`
	PlayersCreated int               `json:"players_created"`
	Credentials    []TeamCredentials `json:"credentials"`
}

type ZoneResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}
