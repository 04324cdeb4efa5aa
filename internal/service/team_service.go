package service

import (
	"crypto/rand"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/minhngocbui/ctfzone/internal/apperr"
	"github.com/minhngocbui/ctfzone/internal/dto"
	"github.com/minhngocbui/ctfzone/internal/model"
	"github.com/minhngocbui/ctfzone/internal/repository"
)

// TeamService provisions teams. Creating a team also creates its login
// principal, its score record and its players in one explicit transaction;
// renaming a team keeps the login username in sync. These are deliberate
// synchronous steps, not side effects.
type TeamService interface {
	CreateTeam(req dto.CreateTeamRequest) (*dto.TeamCredentials, error)
	RenameTeam(teamID uint, newName string) (*dto.TeamResponse, error)
	ImportRoster(r io.Reader) (*dto.RosterImportResult, error)
	ListTeams() ([]dto.TeamResponse, error)
}

type teamService struct {
	teamRepo repository.TeamRepository
	db       *gorm.DB
}

func NewTeamService(teamRepo repository.TeamRepository, db *gorm.DB) TeamService {
	return &teamService{teamRepo: teamRepo, db: db}
}

var usernameUnsafe = regexp.MustCompile(`[^a-z0-9_]+`)

func normalizeUsername(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	return usernameUnsafe.ReplaceAllString(s, "_")
}

const passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

func randomPassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordChars)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordChars[n.Int64()]
	}
	return string(out), nil
}

func (s *teamService) CreateTeam(req dto.CreateTeamRequest) (*dto.TeamCredentials, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("team name required")
	}

	seenRoles := make(map[model.Role]bool)
	for _, p := range req.Players {
		role := model.Role(p.Role)
		if !role.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("invalid role %q", p.Role))
		}
		if seenRoles[role] {
			return nil, apperr.Conflict(fmt.Sprintf("role %s already assigned in this team", role))
		}
		seenRoles[role] = true
	}

	password, err := randomPassword(12)
	if err != nil {
		return nil, fmt.Errorf("generating password: %w", err)
	}
	username := normalizeUsername(name)

	var creds *dto.TeamCredentials
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.createTeamTx(tx, name, username, password, req.Players, &creds)
	})
	if err != nil {
		if _, ok := apperr.KindOf(err); !ok {
			log.Error().Err(err).Str("team", name).Msg("CreateTeam: transaction failed")
		}
		return nil, err
	}

	log.Info().Str("team", name).Str("username", username).Msg("Team created")
	return creds, nil
}

func (s *teamService) createTeamTx(
	tx *gorm.DB,
	name, username, password string,
	players []dto.PlayerForTeamRequest,
	creds **dto.TeamCredentials,
) error {
	var existing int64
	if err := tx.Model(&model.Team{}).Where("name = ?", name).Count(&existing).Error; err != nil {
		return fmt.Errorf("checking team name: %w", err)
	}
	if existing > 0 {
		return apperr.Conflict("team name already taken")
	}

	user := model.TeamUser{Username: username, Password: password}
	if err := tx.Create(&user).Error; err != nil {
		return fmt.Errorf("creating team user: %w", err)
	}

	team := model.Team{Name: name, TeamUserID: &user.ID}
	if err := tx.Create(&team).Error; err != nil {
		return fmt.Errorf("creating team: %w", err)
	}

	for _, p := range players {
		player := model.Player{
			Name:   strings.TrimSpace(p.Name),
			Role:   model.Role(p.Role),
			TeamID: team.ID,
		}
		if err := tx.Create(&player).Error; err != nil {
			return fmt.Errorf("creating player %q: %w", p.Name, err)
		}
	}

	// Score record exists from the moment the team does.
	score := model.Score{TeamID: team.ID}
	if err := tx.Create(&score).Error; err != nil {
		return fmt.Errorf("creating score record: %w", err)
	}

	*creds = &dto.TeamCredentials{TeamName: name, Username: username, Password: password}
	return nil
}

// RenameTeam renames and re-derives the login username from the new name,
// synchronously, so a stale username can never outlive a rename.
func (s *teamService) RenameTeam(teamID uint, newName string) (*dto.TeamResponse, error) {
	name := strings.TrimSpace(newName)
	if name == "" {
		return nil, apperr.Validation("team name required")
	}

	team, err := s.teamRepo.FindByIDWithPlayers(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("team not found")
		}
		return nil, fmt.Errorf("loading team: %w", err)
	}

	if team.Name != name {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&model.Team{}).Where("id = ?", team.ID).Update("name", name).Error; err != nil {
				return fmt.Errorf("renaming team: %w", err)
			}
			if team.TeamUserID != nil {
				username := normalizeUsername(name)
				err := tx.Model(&model.TeamUser{}).
					Where("id = ?", *team.TeamUserID).
					Update("username", username).Error
				if err != nil {
					return fmt.Errorf("syncing username: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			log.Error().Err(err).Uint("teamID", teamID).Msg("RenameTeam: transaction failed")
			return nil, err
		}
		team.Name = name
		log.Info().Uint("teamID", teamID).Str("name", name).Msg("Team renamed")
	}

	return teamToDTO(team), nil
}

// ImportRoster reads team_name,player_name,role rows and provisions every team
// it has not seen before, returning the generated credentials. The whole file
// imports atomically.
func (s *teamService) ImportRoster(r io.Reader) (*dto.RosterImportResult, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, apperr.Validation("roster file is empty or missing header row")
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"team_name", "player_name", "role"} {
		if _, ok := col[required]; !ok {
			return nil, apperr.Validation(fmt.Sprintf("roster must contain column %q", required))
		}
	}

	type rosterPlayer struct {
		name string
		role model.Role
	}
	teamOrder := []string{}
	roster := make(map[string][]rosterPlayer)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("malformed roster row: %v", err))
		}
		teamName := strings.TrimSpace(row[col["team_name"]])
		playerName := strings.TrimSpace(row[col["player_name"]])
		role := model.Role(strings.TrimSpace(row[col["role"]]))
		if teamName == "" || playerName == "" {
			continue
		}
		if !role.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("invalid role %q for player %q in team %q", role, playerName, teamName))
		}
		if _, seen := roster[teamName]; !seen {
			teamOrder = append(teamOrder, teamName)
		}
		for _, existing := range roster[teamName] {
			if existing.role == role {
				return nil, apperr.Conflict(fmt.Sprintf("role %s already exists in team %q", role, teamName))
			}
		}
		roster[teamName] = append(roster[teamName], rosterPlayer{name: playerName, role: role})
	}

	result := &dto.RosterImportResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, teamName := range teamOrder {
			password, err := randomPassword(12)
			if err != nil {
				return fmt.Errorf("generating password: %w", err)
			}
			username := normalizeUsername(teamName)

			players := make([]dto.PlayerForTeamRequest, 0, len(roster[teamName]))
			for _, p := range roster[teamName] {
				players = append(players, dto.PlayerForTeamRequest{Name: p.name, Role: string(p.role)})
			}

			var creds *dto.TeamCredentials
			if err := s.createTeamTx(tx, teamName, username, password, players, &creds); err != nil {
				return err
			}
			result.TeamsCreated++
			result.PlayersCreated += len(players)
			result.Credentials = append(result.Credentials, *creds)
		}
		return nil
	})
	if err != nil {
		if _, ok := apperr.KindOf(err); !ok {
			log.Error().Err(err).Msg("ImportRoster: transaction failed")
		}
		return nil, err
	}

	log.Info().Int("teams", result.TeamsCreated).Int("players", result.PlayersCreated).Msg("Roster imported")
	return result, nil
}

func (s *teamService) ListTeams() ([]dto.TeamResponse, error) {
	teams, err := s.teamRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	out := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		out = append(out, *teamToDTO(&teams[i]))
	}
	return out, nil
}

func teamToDTO(team *model.Team) *dto.TeamResponse {
	resp := &dto.TeamResponse{
		ID:        team.ID,
		Name:      team.Name,
		CreatedAt: team.CreatedAt,
	}
	for _, p := range team.Players {
		resp.Players = append(resp.Players, dto.PlayerResponse{
			ID:   p.ID,
			Name: p.Name,
			Role: string(p.Role),
		})
	}
	return resp
}
