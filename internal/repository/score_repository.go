package repository

import (
	"github.com/minhngocbui/ctfzone/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoreRepository interface {
	Create(score *model.Score) error
	FindByTeam(teamID uint) (*model.Score, error)
	FindAllWithTeams() ([]model.Score, error)
	UpsertEntry(entry *model.ScoreEntry) error
	UpdateCredit(scoreID uint, credit int) error
}

type scoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) Create(score *model.Score) error {
	return r.db.Create(score).Error
}

func (r *scoreRepository) FindByTeam(teamID uint) (*model.Score, error) {
	var score model.Score
	err := r.db.Preload("Entries").Where("team_id = ?", teamID).First(&score).Error
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *scoreRepository) FindAllWithTeams() ([]model.Score, error) {
	var scores []model.Score
	err := r.db.Preload("Entries").Preload("Team").Find(&scores).Error
	return scores, err
}

func (r *scoreRepository) UpsertEntry(entry *model.ScoreEntry) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "score_id"}, {Name: "zone_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"points"}),
	}).Create(entry).Error
}

func (r *scoreRepository) UpdateCredit(scoreID uint, credit int) error {
	return r.db.Model(&model.Score{}).Where("id = ?", scoreID).Update("credit", credit).Error
}
