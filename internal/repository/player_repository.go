package repository

import (
	"github.com/minhngocbui/ctfzone/internal/model"
	"gorm.io/gorm"
)

type PlayerRepository interface {
	Create(player *model.Player) error
	FindByID(id uint) (*model.Player, error)
	FindByTeam(teamID uint) ([]model.Player, error)
}

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(player *model.Player) error {
	return r.db.Create(player).Error
}

func (r *playerRepository) FindByID(id uint) (*model.Player, error) {
	var player model.Player
	if err := r.db.First(&player, id).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) FindByTeam(teamID uint) ([]model.Player, error) {
	var players []model.Player
	err := r.db.Where("team_id = ?", teamID).Order("role ASC").Find(&players).Error
	return players, err
}
