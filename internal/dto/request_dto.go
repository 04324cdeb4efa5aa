package dto

// RedeemCodeRequest carries a player's one-time access code. Whitespace is
// trimmed before validation.
type RedeemCodeRequest struct {
	Code string `json:"code"`
}

type CompleteAttemptRequest struct {
	ExitCode string `json:"exit_code"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateTeamRequest struct {
	Name    string                 `json:"name" binding:"required"`
	Players []PlayerForTeamRequest `json:"players" binding:"omitempty,dive"`
}

type PlayerForTeamRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required,oneof=INTERN JUNIOR_ANALYST TEAM_LEADER MANAGER CEO"`
}

type RenameTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateZoneRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpsertZoneContentRequest struct {
	Role     string `json:"role" binding:"required,oneof=INTERN JUNIOR_ANALYST TEAM_LEADER MANAGER CEO"`
	Content  string `json:"content" binding:"required"`
	ExitCode string `json:"exit_code"`
}

// MintCodesRequest asks for one access code per (player, zone) for the team.
type MintCodesRequest struct {
	TeamID uint `json:"team_id" binding:"required"`
	ZoneID uint `json:"zone_id" binding:"required"`
}

type SetZonePointsRequest struct {
	ZoneID uint `json:"zone_id" binding:"required"`
	Points int  `json:"points"`
}

type SetCreditRequest struct {
	Credit int `json:"credit" binding:"min=0"`
}
