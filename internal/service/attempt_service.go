package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/minhngocbui/ctfzone/internal/apperr"
	"github.com/minhngocbui/ctfzone/internal/dto"
	"github.com/minhngocbui/ctfzone/internal/model"
	"github.com/minhngocbui/ctfzone/internal/repository"
)

// AttemptService owns the lifecycle after redemption: ACTIVE to COMPLETED or
// FORCED_EXIT, both terminal. Terminating an already-terminal attempt is a
// no-op by design so retried termination calls are always safe.
type AttemptService interface {
	Complete(attemptID uint, submittedExitCode string) (*dto.AttemptResponse, error)
	ForceExit(attemptID uint) (*dto.AttemptResponse, error)
	ForceExitAllActive(teamID uint) (int, error)
}

type attemptService struct {
	attemptRepo repository.AttemptRepository
	zoneRepo    repository.ZoneRepository
}

func NewAttemptService(attemptRepo repository.AttemptRepository, zoneRepo repository.ZoneRepository) AttemptService {
	return &attemptService{attemptRepo: attemptRepo, zoneRepo: zoneRepo}
}

// Complete finishes an active attempt. When the zone's content for the
// player's role declares an exit code, the submitted code must match it
// exactly, case included; a mismatch leaves the attempt active.
func (s *attemptService) Complete(attemptID uint, submittedExitCode string) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("attempt not found")
		}
		return nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}

	if attempt.Status.Terminal() {
		return attemptToDTO(attempt), nil
	}

	content, err := s.zoneRepo.FindContent(attempt.ZoneID, attempt.Player.Role)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading zone content: %w", err)
	}
	if content != nil && content.ExitCode != "" && submittedExitCode != content.ExitCode {
		return nil, apperr.Validation("incorrect exit code")
	}

	if err := s.terminate(attempt, model.AttemptCompleted); err != nil {
		return nil, err
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("zoneID", attempt.ZoneID).
		Msg("Attempt completed")
	return attemptToDTO(attempt), nil
}

func (s *attemptService) ForceExit(attemptID uint) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("attempt not found")
		}
		return nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}

	if attempt.Status.Terminal() {
		return attemptToDTO(attempt), nil
	}
	if err := s.terminate(attempt, model.AttemptForcedExit); err != nil {
		return nil, err
	}

	log.Info().Uint("attemptID", attempt.ID).Msg("Attempt force-exited")
	return attemptToDTO(attempt), nil
}

// ForceExitAllActive terminates every active attempt a team owns. Triggered on
// logout and by administrative intervention. Returns how many were terminated.
func (s *attemptService) ForceExitAllActive(teamID uint) (int, error) {
	attempts, err := s.attemptRepo.FindActiveByTeam(teamID)
	if err != nil {
		return 0, fmt.Errorf("loading active attempts for team %d: %w", teamID, err)
	}

	ended := 0
	for i := range attempts {
		if err := s.terminate(&attempts[i], model.AttemptForcedExit); err != nil {
			return ended, err
		}
		ended++
	}
	if ended > 0 {
		log.Info().Uint("teamID", teamID).Int("count", ended).Msg("Force-exited active attempts")
	}
	return ended, nil
}

func (s *attemptService) terminate(attempt *model.Attempt, status model.AttemptStatus) error {
	now := time.Now()
	attempt.Status = status
	attempt.ExitTime = &now

	if err := s.attemptRepo.UpdateTermination(attempt); err != nil {
		// The consistency guard on the write path is the only expected source
		// of an invariant error here; it must never be silently swallowed.
		if apperr.IsKind(err, apperr.KindInvariant) {
			log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("Attempt invariant violated on termination")
			return err
		}
		return fmt.Errorf("terminating attempt %d: %w", attempt.ID, err)
	}
	return nil
}
