package repository

import (
	"github.com/minhngocbui/ctfzone/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	FindByID(id uint) (*model.Attempt, error)
	FindByIDWithDetails(id uint) (*model.Attempt, error)
	FindActiveByTeam(teamID uint) ([]model.Attempt, error)
	FindByTeam(teamID uint) ([]model.Attempt, error)
	FindCompletedByExitAscending() ([]model.Attempt, error)
	FindCompletedByTeam(teamID uint) ([]model.Attempt, error)
	UpdateTermination(attempt *model.Attempt) error
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithDetails(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.
		Preload("Team").
		Preload("Zone").
		Preload("Player").
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindActiveByTeam(teamID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Where("team_id = ? AND status = ?", teamID, model.AttemptActive).
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FindByTeam(teamID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Preload("Zone").
		Preload("Player").
		Where("team_id = ?", teamID).
		Order("entry_time DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FindCompletedByExitAscending() ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Preload("Team").
		Where("status = ?", model.AttemptCompleted).
		Order("exit_time ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FindCompletedByTeam(teamID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Where("team_id = ? AND status = ?", teamID, model.AttemptCompleted).
		Find(&attempts).Error
	return attempts, err
}

// UpdateTermination persists only the terminal transition. Updating through
// Model(attempt) keeps the BeforeSave consistency guard on the write path,
// and the status predicate makes the transition a single one-way write even
// when two terminators race.
func (r *attemptRepository) UpdateTermination(attempt *model.Attempt) error {
	return r.db.Model(attempt).
		Where("status = ?", model.AttemptActive).
		Select("status", "exit_time").
		Updates(map[string]interface{}{
			"status":    attempt.Status,
			"exit_time": attempt.ExitTime,
		}).Error
}
