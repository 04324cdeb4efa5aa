package repository

import (
	"github.com/minhngocbui/ctfzone/internal/model"
	"gorm.io/gorm"
)

type AccessCodeRepository interface {
	Create(code *model.AccessCode) error
	FindByTeam(teamID uint) ([]model.AccessCode, error)
	ExistsForPlayerAndZone(playerID, zoneID uint) (bool, error)
	UnusedZoneIDsByTeam(teamID uint) ([]uint, error)
}

type accessCodeRepository struct {
	db *gorm.DB
}

func NewAccessCodeRepository(db *gorm.DB) AccessCodeRepository {
	return &accessCodeRepository{db: db}
}

func (r *accessCodeRepository) Create(code *model.AccessCode) error {
	return r.db.Create(code).Error
}

func (r *accessCodeRepository) FindByTeam(teamID uint) ([]model.AccessCode, error) {
	var codes []model.AccessCode
	err := r.db.
		Preload("Zone").
		Preload("Player").
		Where("team_id = ?", teamID).
		Order("zone_id ASC, player_id ASC").
		Find(&codes).Error
	return codes, err
}

func (r *accessCodeRepository) ExistsForPlayerAndZone(playerID, zoneID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.AccessCode{}).
		Where("player_id = ? AND zone_id = ?", playerID, zoneID).
		Count(&count).Error
	return count > 0, err
}

func (r *accessCodeRepository) UnusedZoneIDsByTeam(teamID uint) ([]uint, error) {
	var zoneIDs []uint
	err := r.db.Model(&model.AccessCode{}).
		Where("team_id = ? AND is_used = ?", teamID, false).
		Distinct().
		Pluck("zone_id", &zoneIDs).Error
	return zoneIDs, err
}
