package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/minhngocbui/ctfzone/config"
	"github.com/minhngocbui/ctfzone/internal/apperr"
	"github.com/minhngocbui/ctfzone/internal/dto"
	"github.com/minhngocbui/ctfzone/internal/model"
	"github.com/minhngocbui/ctfzone/internal/repository"
)

// SessionService gates team logins: at most a fixed number of concurrent
// sessions per principal, with idle sessions swept on every admission.
type SessionService interface {
	Admit(username, password string) (*dto.SessionResponse, error)
	Heartbeat(sessionKey string) error
	Revoke(sessionKey string) error
	Resolve(sessionKey string) (*model.TeamSession, *model.Team, error)
}

type sessionService struct {
	userRepo    repository.TeamUserRepository
	teamRepo    repository.TeamRepository
	sessionRepo repository.SessionRepository
	attemptSvc  AttemptService
	maxSessions int
	idleTimeout time.Duration
	db          *gorm.DB
}

func NewSessionService(
	cfg *config.Config,
	userRepo repository.TeamUserRepository,
	teamRepo repository.TeamRepository,
	sessionRepo repository.SessionRepository,
	attemptSvc AttemptService,
	db *gorm.DB,
) SessionService {
	return &sessionService{
		userRepo:    userRepo,
		teamRepo:    teamRepo,
		sessionRepo: sessionRepo,
		attemptSvc:  attemptSvc,
		maxSessions: cfg.Session.MaxPerTeam,
		idleTimeout: cfg.Session.IdleTimeout,
		db:          db,
	}
}

// Admit authenticates the principal, sweeps stale sessions, then counts and
// creates inside one transaction that locks the principal's row, so two
// simultaneous logins cannot both squeeze under the cap.
func (s *sessionService) Admit(username, password string) (*dto.SessionResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Auth("invalid credentials")
		}
		return nil, fmt.Errorf("looking up principal: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, apperr.Auth("invalid credentials")
	}

	// Housekeeping sweep on every admission attempt, not a background job.
	cutoff := time.Now().Add(-s.idleTimeout)
	if swept, err := s.sessionRepo.DeleteIdleBefore(cutoff); err != nil {
		log.Warn().Err(err).Msg("Admit: stale session sweep failed")
	} else if swept > 0 {
		log.Info().Int64("count", swept).Msg("Admit: swept idle sessions")
	}

	session := model.TeamSession{
		TeamUserID: user.ID,
		SessionKey: uuid.NewString(),
		LastSeenAt: time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var locked model.TeamUser
		if err := lockForUpdate(tx).First(&locked, user.ID).Error; err != nil {
			return fmt.Errorf("locking principal row: %w", err)
		}

		var live int64
		err := tx.Model(&model.TeamSession{}).
			Where("team_user_id = ?", user.ID).
			Count(&live).Error
		if err != nil {
			return fmt.Errorf("counting sessions: %w", err)
		}
		if live >= int64(s.maxSessions) {
			return apperr.Capacity("maximum concurrent sessions reached")
		}

		return tx.Create(&session).Error
	})
	if err != nil {
		if _, ok := apperr.KindOf(err); !ok {
			log.Error().Err(err).Str("username", username).Msg("Admit: admission transaction failed")
		}
		return nil, err
	}

	resp := &dto.SessionResponse{
		SessionKey: session.SessionKey,
		CreatedAt:  session.CreatedAt,
	}
	team, err := s.teamRepo.FindByUserID(user.ID)
	if err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Admit: principal has no team")
	} else {
		resp.TeamID = team.ID
		resp.TeamName = team.Name
	}

	log.Info().Str("username", username).Str("sessionKey", session.SessionKey).Msg("Session admitted")
	return resp, nil
}

// Heartbeat refreshes last-seen. A session that no longer exists is a silent
// no-op: the next gated request will fail admission instead.
func (s *sessionService) Heartbeat(sessionKey string) error {
	if err := s.sessionRepo.Touch(sessionKey); err != nil {
		log.Warn().Err(err).Msg("Heartbeat failed")
		return err
	}
	return nil
}

// Revoke ends the session and force-exits every active attempt owned by the
// session's team, mirroring a player walking away at logout.
func (s *sessionService) Revoke(sessionKey string) error {
	session, err := s.sessionRepo.FindByKey(sessionKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("looking up session: %w", err)
	}

	if err := s.sessionRepo.DeleteByKey(sessionKey); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	team, err := s.teamRepo.FindByUserID(session.TeamUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("resolving team for revoked session: %w", err)
	}
	if _, err := s.attemptSvc.ForceExitAllActive(team.ID); err != nil {
		return fmt.Errorf("force-exiting attempts on logout: %w", err)
	}

	log.Info().Str("sessionKey", sessionKey).Uint("teamID", team.ID).Msg("Session revoked")
	return nil
}

// Resolve returns the live session and its team, for request middleware.
func (s *sessionService) Resolve(sessionKey string) (*model.TeamSession, *model.Team, error) {
	session, err := s.sessionRepo.FindByKey(sessionKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.Auth("invalid session")
		}
		return nil, nil, fmt.Errorf("looking up session: %w", err)
	}
	team, err := s.teamRepo.FindByUserID(session.TeamUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.Auth("invalid session")
		}
		return nil, nil, fmt.Errorf("resolving team: %w", err)
	}
	return session, team, nil
}
