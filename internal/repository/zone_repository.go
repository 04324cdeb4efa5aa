package repository

import (
	"github.com/minhngocbui/ctfzone/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ZoneRepository interface {
	Create(zone *model.Zone) error
	FindByID(id uint) (*model.Zone, error)
	FindAll() ([]model.Zone, error)
	FindContent(zoneID uint, role model.Role) (*model.ZoneContent, error)
	UpsertContent(content *model.ZoneContent) error
}

type zoneRepository struct {
	db *gorm.DB
}

func NewZoneRepository(db *gorm.DB) ZoneRepository {
	return &zoneRepository{db: db}
}

func (r *zoneRepository) Create(zone *model.Zone) error {
	return r.db.Create(zone).Error
}

func (r *zoneRepository) FindByID(id uint) (*model.Zone, error) {
	var zone model.Zone
	if err := r.db.First(&zone, id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *zoneRepository) FindAll() ([]model.Zone, error) {
	var zones []model.Zone
	err := r.db.Order("id ASC").Find(&zones).Error
	return zones, err
}

func (r *zoneRepository) FindContent(zoneID uint, role model.Role) (*model.ZoneContent, error) {
	var content model.ZoneContent
	err := r.db.Where("zone_id = ? AND role = ?", zoneID, role).First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *zoneRepository) UpsertContent(content *model.ZoneContent) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "zone_id"}, {Name: "role"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "exit_code", "updated_at"}),
	}).Create(content).Error
}
