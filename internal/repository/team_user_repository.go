package repository

import (
	"github.com/minhngocbui/ctfzone/internal/model"
	"gorm.io/gorm"
)

type TeamUserRepository interface {
	Create(user *model.TeamUser) error
	FindByID(id uint) (*model.TeamUser, error)
	FindByUsername(username string) (*model.TeamUser, error)
	UpdateUsername(id uint, username string) error
}

type teamUserRepository struct {
	db *gorm.DB
}

func NewTeamUserRepository(db *gorm.DB) TeamUserRepository {
	return &teamUserRepository{db: db}
}

func (r *teamUserRepository) Create(user *model.TeamUser) error {
	return r.db.Create(user).Error
}

func (r *teamUserRepository) FindByID(id uint) (*model.TeamUser, error) {
	var user model.TeamUser
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *teamUserRepository) FindByUsername(username string) (*model.TeamUser, error) {
	var user model.TeamUser
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *teamUserRepository) UpdateUsername(id uint, username string) error {
	return r.db.Model(&model.TeamUser{}).Where("id = ?", id).Update("username", username).Error
}
