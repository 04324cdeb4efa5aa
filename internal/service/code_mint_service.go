package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/minhngocbui/ctfzone/internal/apperr"
	"github.com/minhngocbui/ctfzone/internal/dto"
	"github.com/minhngocbui/ctfzone/internal/model"
	"github.com/minhngocbui/ctfzone/internal/repository"
)

// CodeMintService mints the single-use access codes, one per (player, zone).
// Minting is administrative; redemption lives in ZoneAccessService.
type CodeMintService interface {
	MintForTeamZone(teamID, zoneID uint) ([]dto.AccessCodeResponse, error)
	ListForTeam(teamID uint) ([]dto.AccessCodeResponse, error)
}

type codeMintService struct {
	codeRepo   repository.AccessCodeRepository
	playerRepo repository.PlayerRepository
	zoneRepo   repository.ZoneRepository
	teamRepo   repository.TeamRepository
}

func NewCodeMintService(
	codeRepo repository.AccessCodeRepository,
	playerRepo repository.PlayerRepository,
	zoneRepo repository.ZoneRepository,
	teamRepo repository.TeamRepository,
) CodeMintService {
	return &codeMintService{codeRepo: codeRepo, playerRepo: playerRepo, zoneRepo: zoneRepo, teamRepo: teamRepo}
}

const codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 12

func randomCode() (string, error) {
	out := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeChars)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = codeChars[n.Int64()]
	}
	return string(out), nil
}

// MintForTeamZone creates a code for every player on the team that does not
// already hold one for the zone. Existing pairs are skipped, not replaced: a
// player's one code per zone is permanent once minted.
func (s *codeMintService) MintForTeamZone(teamID, zoneID uint) ([]dto.AccessCodeResponse, error) {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("team not found")
		}
		return nil, fmt.Errorf("loading team: %w", err)
	}
	zone, err := s.zoneRepo.FindByID(zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("zone not found")
		}
		return nil, fmt.Errorf("loading zone: %w", err)
	}

	players, err := s.playerRepo.FindByTeam(teamID)
	if err != nil {
		return nil, fmt.Errorf("loading players: %w", err)
	}
	if len(players) == 0 {
		return nil, apperr.Validation("team has no players to mint codes for")
	}

	minted := make([]dto.AccessCodeResponse, 0, len(players))
	for _, player := range players {
		exists, err := s.codeRepo.ExistsForPlayerAndZone(player.ID, zoneID)
		if err != nil {
			return minted, fmt.Errorf("checking existing code: %w", err)
		}
		if exists {
			continue
		}

		codeStr, err := randomCode()
		if err != nil {
			return minted, fmt.Errorf("generating code: %w", err)
		}
		code := model.AccessCode{
			ZoneID:   zoneID,
			TeamID:   teamID,
			PlayerID: player.ID,
			Code:     codeStr,
		}
		if err := s.codeRepo.Create(&code); err != nil {
			return minted, fmt.Errorf("creating access code for player %d: %w", player.ID, err)
		}
		minted = append(minted, dto.AccessCodeResponse{
			ID:         code.ID,
			Code:       code.Code,
			ZoneID:     zoneID,
			ZoneTitle:  zone.Title,
			PlayerID:   player.ID,
			PlayerName: player.Name,
			PlayerRole: string(player.Role),
			IsUsed:     false,
			CreatedAt:  code.CreatedAt,
		})
	}

	log.Info().Uint("teamID", teamID).Uint("zoneID", zoneID).Int("minted", len(minted)).Msg("Access codes minted")
	return minted, nil
}

func (s *codeMintService) ListForTeam(teamID uint) ([]dto.AccessCodeResponse, error) {
	codes, err := s.codeRepo.FindByTeam(teamID)
	if err != nil {
		return nil, fmt.Errorf("listing access codes: %w", err)
	}
	out := make([]dto.AccessCodeResponse, 0, len(codes))
	for _, code := range codes {
		out = append(out, dto.AccessCodeResponse{
			ID:         code.ID,
			Code:       code.Code,
			ZoneID:     code.ZoneID,
			ZoneTitle:  code.Zone.Title,
			PlayerID:   code.PlayerID,
			PlayerName: code.Player.Name,
			PlayerRole: string(code.Player.Role),
			IsUsed:     code.IsUsed,
			CreatedAt:  code.CreatedAt,
		})
	}
	return out, nil
}
