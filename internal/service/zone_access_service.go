package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/minhngocbui/ctfzone/internal/apperr"
	"github.com/minhngocbui/ctfzone/internal/dto"
	"github.com/minhngocbui/ctfzone/internal/model"
)

// ZoneAccessService owns the one-time-code redemption protocol: validate the
// code, atomically burn it and create the attempt it pays for.
type ZoneAccessService interface {
	Redeem(code string) (*dto.AttemptResponse, error)
}

type zoneAccessService struct {
	db *gorm.DB
}

func NewZoneAccessService(db *gorm.DB) ZoneAccessService {
	return &zoneAccessService{db: db}
}

// Redeem exchanges an unused access code for a new active attempt. The lookup,
// the attempt insert and the used-flag flip happen in one transaction under a
// row lock, so of any number of concurrent redeemers of the same code exactly
// one succeeds and the rest observe an already-used code.
func (s *zoneAccessService) Redeem(code string) (*dto.AttemptResponse, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, apperr.Validation("code required")
	}

	var access model.AccessCode
	var attempt model.Attempt

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// A used code is reported exactly like a nonexistent one, so callers
		// cannot probe which codes are valid but burned.
		err := lockForUpdate(tx).
			Where("code = ? AND is_used = ?", trimmed, false).
			First(&access).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("invalid or already used code")
			}
			return fmt.Errorf("looking up access code: %w", err)
		}

		var existing int64
		err = tx.Model(&model.Attempt{}).
			Where("player_id = ? AND zone_id = ?", access.PlayerID, access.ZoneID).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("checking prior attempts: %w", err)
		}
		if existing > 0 {
			return apperr.Conflict("player has already attempted this zone")
		}

		attempt = model.Attempt{
			TeamID:       access.TeamID,
			ZoneID:       access.ZoneID,
			PlayerID:     access.PlayerID,
			AccessCodeID: access.ID,
			AccessCode:   access,
			Status:       model.AttemptActive,
		}
		if err := tx.Omit(clause.Associations).Create(&attempt).Error; err != nil {
			return fmt.Errorf("creating attempt: %w", err)
		}

		if err := tx.Model(&access).Update("is_used", true).Error; err != nil {
			return fmt.Errorf("burning access code: %w", err)
		}
		return nil
	})
	if err != nil {
		// Domain outcomes go back to the caller quietly; anything else is an
		// anomaly worth a log line.
		if _, ok := apperr.KindOf(err); !ok || apperr.IsKind(err, apperr.KindInvariant) {
			log.Error().Err(err).Msg("Redeem: transaction failed")
		}
		return nil, err
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("zoneID", attempt.ZoneID).
		Uint("playerID", attempt.PlayerID).Msg("Access code redeemed")

	detailed, err := s.loadDetails(attempt.ID)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attempt.ID).Msg("Redeem: reload for response failed, returning bare attempt")
		return attemptToDTO(&attempt), nil
	}
	return detailed, nil
}

func (s *zoneAccessService) loadDetails(attemptID uint) (*dto.AttemptResponse, error) {
	var attempt model.Attempt
	err := s.db.
		Preload("Team").
		Preload("Zone").
		Preload("Player").
		First(&attempt, attemptID).Error
	if err != nil {
		return nil, err
	}
	return attemptToDTO(&attempt), nil
}

func attemptToDTO(attempt *model.Attempt) *dto.AttemptResponse {
	resp := &dto.AttemptResponse{
		ID:              attempt.ID,
		TeamID:          attempt.TeamID,
		ZoneID:          attempt.ZoneID,
		PlayerID:        attempt.PlayerID,
		Status:          string(attempt.Status),
		EntryTime:       attempt.EntryTime,
		ExitTime:        attempt.ExitTime,
		DurationSeconds: attempt.DurationSeconds(),
	}
	if attempt.Team.ID != 0 {
		resp.TeamName = attempt.Team.Name
	}
	if attempt.Zone.ID != 0 {
		resp.ZoneTitle = attempt.Zone.Title
	}
	if attempt.Player.ID != 0 {
		resp.PlayerName = attempt.Player.Name
		resp.PlayerRole = string(attempt.Player.Role)
	}
	return resp
}
