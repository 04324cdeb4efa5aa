package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/minhngocbui/ctfzone/internal/apperr"
	"github.com/minhngocbui/ctfzone/internal/dto"
	"github.com/minhngocbui/ctfzone/internal/model"
	"github.com/minhngocbui/ctfzone/internal/repository"
)

// ZoneBoardService builds read-only views of the game: a team's per-zone
// progress board and the role-keyed content an admitted player sees. It never
// mutates gameplay state.
type ZoneBoardService interface {
	Board(teamID uint) ([]dto.ZoneStatus, error)
	Play(attemptID uint) (*dto.ZonePlayResponse, error)
	ListZones() ([]dto.ZoneResponse, error)
	CreateZone(req dto.CreateZoneRequest) (*dto.ZoneResponse, error)
	UpsertContent(zoneID uint, req dto.UpsertZoneContentRequest) error
}

type zoneBoardService struct {
	zoneRepo    repository.ZoneRepository
	attemptRepo repository.AttemptRepository
	codeRepo    repository.AccessCodeRepository
	scoreRepo   repository.ScoreRepository
}

func NewZoneBoardService(
	zoneRepo repository.ZoneRepository,
	attemptRepo repository.AttemptRepository,
	codeRepo repository.AccessCodeRepository,
	scoreRepo repository.ScoreRepository,
) ZoneBoardService {
	return &zoneBoardService{zoneRepo: zoneRepo, attemptRepo: attemptRepo, codeRepo: codeRepo, scoreRepo: scoreRepo}
}

// Board reports, per zone, whether the team has an active or completed
// attempt, whether an unused code is still available, and whether entry is
// currently possible.
func (s *zoneBoardService) Board(teamID uint) ([]dto.ZoneStatus, error) {
	zones, err := s.zoneRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("loading zones: %w", err)
	}
	attempts, err := s.attemptRepo.FindByTeam(teamID)
	if err != nil {
		return nil, fmt.Errorf("loading attempts: %w", err)
	}
	unusedZoneIDs, err := s.codeRepo.UnusedZoneIDsByTeam(teamID)
	if err != nil {
		return nil, fmt.Errorf("loading unused codes: %w", err)
	}

	byZone := make(map[uint][]model.Attempt)
	for _, attempt := range attempts {
		byZone[attempt.ZoneID] = append(byZone[attempt.ZoneID], attempt)
	}
	hasAccess := make(map[uint]bool, len(unusedZoneIDs))
	for _, id := range unusedZoneIDs {
		hasAccess[id] = true
	}

	var score *model.Score
	if sc, err := s.scoreRepo.FindByTeam(teamID); err == nil {
		score = sc
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading score: %w", err)
	}

	board := make([]dto.ZoneStatus, 0, len(zones))
	for _, zone := range zones {
		status := dto.ZoneStatus{
			ZoneID:    zone.ID,
			Title:     zone.Title,
			HasAccess: hasAccess[zone.ID],
		}
		for _, attempt := range byZone[zone.ID] {
			switch attempt.Status {
			case model.AttemptActive:
				status.HasActive = true
			case model.AttemptCompleted:
				status.HasCompleted = true
			}
		}
		// An ongoing attempt keeps the door open; otherwise entry needs an
		// unspent code, whether or not someone else already completed it.
		status.CanEnter = status.HasActive || status.HasAccess
		if score != nil {
			status.Points = score.PointsForZone(zone.ID)
		}
		board = append(board, status)
	}
	return board, nil
}

// Play resolves what an admitted player should be shown: the zone content for
// their role, looked up off their still-active attempt.
func (s *zoneBoardService) Play(attemptID uint) (*dto.ZonePlayResponse, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("attempt not found")
		}
		return nil, fmt.Errorf("loading attempt: %w", err)
	}
	if attempt.Status != model.AttemptActive {
		return nil, apperr.NotFound("no active attempt")
	}

	content, err := s.zoneRepo.FindContent(attempt.ZoneID, attempt.Player.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no content for this zone and role")
		}
		return nil, fmt.Errorf("loading zone content: %w", err)
	}

	return &dto.ZonePlayResponse{
		AttemptID:   attempt.ID,
		ZoneID:      attempt.ZoneID,
		ZoneTitle:   attempt.Zone.Title,
		PlayerName:  attempt.Player.Name,
		PlayerRole:  string(attempt.Player.Role),
		Content:     content.Content,
		HasExitCode: content.ExitCode != "",
	}, nil
}

func (s *zoneBoardService) ListZones() ([]dto.ZoneResponse, error) {
	zones, err := s.zoneRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	var out []dto.ZoneResponse
	if err := copier.Copy(&out, &zones); err != nil {
		return nil, fmt.Errorf("preparing zone list: %w", err)
	}
	return out, nil
}

func (s *zoneBoardService) CreateZone(req dto.CreateZoneRequest) (*dto.ZoneResponse, error) {
	zone := model.Zone{Title: req.Title, Description: req.Description}
	if err := s.zoneRepo.Create(&zone); err != nil {
		return nil, fmt.Errorf("creating zone: %w", err)
	}
	log.Info().Uint("zoneID", zone.ID).Str("title", zone.Title).Msg("Zone created")

	var resp dto.ZoneResponse
	if err := copier.Copy(&resp, &zone); err != nil {
		return nil, fmt.Errorf("preparing zone response: %w", err)
	}
	return &resp, nil
}

func (s *zoneBoardService) UpsertContent(zoneID uint, req dto.UpsertZoneContentRequest) error {
	if _, err := s.zoneRepo.FindByID(zoneID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("zone not found")
		}
		return fmt.Errorf("loading zone: %w", err)
	}
	content := model.ZoneContent{
		ZoneID:   zoneID,
		Role:     model.Role(req.Role),
		Content:  req.Content,
		ExitCode: req.ExitCode,
	}
	if err := s.zoneRepo.UpsertContent(&content); err != nil {
		return fmt.Errorf("saving zone content: %w", err)
	}
	return nil
}
