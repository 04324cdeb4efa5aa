package repository

import (
	"github.com/minhngocbui/ctfzone/internal/model"
	"gorm.io/gorm"
)

type TeamRepository interface {
	Create(team *model.Team) error
	Update(team *model.Team) error
	FindByID(id uint) (*model.Team, error)
	FindByIDWithPlayers(id uint) (*model.Team, error)
	FindByName(name string) (*model.Team, error)
	FindByUserID(userID uint) (*model.Team, error)
	FindAll() ([]model.Team, error)
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(team *model.Team) error {
	return r.db.Create(team).Error
}

func (r *teamRepository) Update(team *model.Team) error {
	return r.db.Save(team).Error
}

func (r *teamRepository) FindByID(id uint) (*model.Team, error) {
	var team model.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) FindByIDWithPlayers(id uint) (*model.Team, error) {
	var team model.Team
	err := r.db.
		Preload("Players").
		Preload("Score.Entries").
		First(&team, id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) FindByName(name string) (*model.Team, error) {
	var team model.Team
	if err := r.db.Where("name = ?", name).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) FindByUserID(userID uint) (*model.Team, error) {
	var team model.Team
	if err := r.db.Where("team_user_id = ?", userID).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) FindAll() ([]model.Team, error) {
	var teams []model.Team
	err := r.db.Preload("Players").Order("name ASC").Find(&teams).Error
	return teams, err
}
