package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/minhngocbui/ctfzone/internal/apperr"
	"github.com/minhngocbui/ctfzone/internal/dto"
	"github.com/minhngocbui/ctfzone/internal/model"
	"github.com/minhngocbui/ctfzone/internal/repository"
)

// ScoreboardService aggregates per-zone points and attempt durations into the
// leaderboard and the progress-over-time series. Reads tolerate slight
// staleness; nothing here gates gameplay.
type ScoreboardService interface {
	Leaderboard() ([]dto.LeaderboardEntry, error)
	Timeline() ([]dto.TeamTimeline, error)
	TotalScore(teamID uint) (int, error)
	TotalTime(teamID uint) (int64, error)
	AssignZonePoints(teamID, zoneID uint, points int) error
	AssignCredit(teamID uint, credit int) error
}

type scoreboardService struct {
	scoreRepo   repository.ScoreRepository
	attemptRepo repository.AttemptRepository
}

func NewScoreboardService(scoreRepo repository.ScoreRepository, attemptRepo repository.AttemptRepository) ScoreboardService {
	return &scoreboardService{scoreRepo: scoreRepo, attemptRepo: attemptRepo}
}

// Leaderboard ranks teams by (total score desc, credit desc). Total time is
// carried for display only; it does not participate in the ordering. The sort
// is stable so repeated calls over unchanged input return the same order.
func (s *scoreboardService) Leaderboard() ([]dto.LeaderboardEntry, error) {
	scores, err := s.scoreRepo.FindAllWithTeams()
	if err != nil {
		log.Error().Err(err).Msg("Leaderboard: failed to load scores")
		return nil, fmt.Errorf("loading scores: %w", err)
	}

	timeByTeam, err := s.completedSecondsByTeam()
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(scores))
	for _, score := range scores {
		entries = append(entries, dto.LeaderboardEntry{
			TeamID:           score.TeamID,
			TeamName:         score.Team.Name,
			TotalScore:       score.Total(),
			Credit:           score.Credit,
			TotalTimeSeconds: timeByTeam[score.TeamID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].Credit > entries[j].Credit
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Timeline walks completed attempts in exit-time order, accumulating each
// zone's assigned points into a running per-team total.
func (s *scoreboardService) Timeline() ([]dto.TeamTimeline, error) {
	attempts, err := s.attemptRepo.FindCompletedByExitAscending()
	if err != nil {
		return nil, fmt.Errorf("loading completed attempts: %w", err)
	}
	scores, err := s.scoreRepo.FindAllWithTeams()
	if err != nil {
		return nil, fmt.Errorf("loading scores: %w", err)
	}
	scoreByTeam := make(map[uint]*model.Score, len(scores))
	for i := range scores {
		scoreByTeam[scores[i].TeamID] = &scores[i]
	}

	running := make(map[uint]int)
	series := make(map[uint]*dto.TeamTimeline)
	for _, attempt := range attempts {
		if attempt.ExitTime == nil {
			// Completed attempts always carry an exit time by invariant.
			log.Warn().Uint("attemptID", attempt.ID).Msg("Timeline: completed attempt without exit time, skipping")
			continue
		}
		score := scoreByTeam[attempt.TeamID]
		if score == nil {
			continue
		}
		running[attempt.TeamID] += score.PointsForZone(attempt.ZoneID)

		line := series[attempt.TeamID]
		if line == nil {
			line = &dto.TeamTimeline{TeamID: attempt.TeamID, TeamName: attempt.Team.Name}
			series[attempt.TeamID] = line
		}
		line.Points = append(line.Points, dto.TimelinePoint{
			Timestamp:       *attempt.ExitTime,
			CumulativeScore: running[attempt.TeamID],
		})
	}

	out := make([]dto.TeamTimeline, 0, len(series))
	for _, line := range series {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamName < out[j].TeamName })
	return out, nil
}

func (s *scoreboardService) TotalScore(teamID uint) (int, error) {
	score, err := s.scoreRepo.FindByTeam(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperr.NotFound("score not found for team")
		}
		return 0, fmt.Errorf("loading score: %w", err)
	}
	return score.Total(), nil
}

// TotalTime sums completed-attempt durations; an attempt with no recorded
// exit contributes nothing.
func (s *scoreboardService) TotalTime(teamID uint) (int64, error) {
	attempts, err := s.attemptRepo.FindCompletedByTeam(teamID)
	if err != nil {
		return 0, fmt.Errorf("loading completed attempts: %w", err)
	}
	var total int64
	for i := range attempts {
		if secs := attempts[i].DurationSeconds(); secs != nil {
			total += *secs
		}
	}
	return total, nil
}

func (s *scoreboardService) completedSecondsByTeam() (map[uint]int64, error) {
	attempts, err := s.attemptRepo.FindCompletedByExitAscending()
	if err != nil {
		return nil, fmt.Errorf("loading completed attempts: %w", err)
	}
	byTeam := make(map[uint]int64)
	for i := range attempts {
		if secs := attempts[i].DurationSeconds(); secs != nil {
			byTeam[attempts[i].TeamID] += *secs
		}
	}
	return byTeam, nil
}

// AssignZonePoints is the administrative scoring hook; the engine itself never
// decides point values.
func (s *scoreboardService) AssignZonePoints(teamID, zoneID uint, points int) error {
	score, err := s.scoreRepo.FindByTeam(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("score not found for team")
		}
		return fmt.Errorf("loading score: %w", err)
	}
	entry := model.ScoreEntry{ScoreID: score.ID, ZoneID: zoneID, Points: points}
	if err := s.scoreRepo.UpsertEntry(&entry); err != nil {
		return fmt.Errorf("assigning zone points: %w", err)
	}
	log.Info().Uint("teamID", teamID).Uint("zoneID", zoneID).Int("points", points).Msg("Zone points assigned")
	return nil
}

func (s *scoreboardService) AssignCredit(teamID uint, credit int) error {
	if credit < 0 {
		return apperr.Validation("credit must be non-negative")
	}
	score, err := s.scoreRepo.FindByTeam(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("score not found for team")
		}
		return fmt.Errorf("loading score: %w", err)
	}
	return s.scoreRepo.UpdateCredit(score.ID, credit)
}
