package repository

import (
	"time"

	"github.com/minhngocbui/ctfzone/internal/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	FindByKey(key string) (*model.TeamSession, error)
	Touch(key string) error
	DeleteByKey(key string) error
	DeleteIdleBefore(cutoff time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) FindByKey(key string) (*model.TeamSession, error) {
	var session model.TeamSession
	if err := r.db.Where("session_key = ?", key).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Touch(key string) error {
	return r.db.Model(&model.TeamSession{}).
		Where("session_key = ?", key).
		Update("last_seen_at", time.Now()).Error
}

func (r *sessionRepository) DeleteByKey(key string) error {
	return r.db.Where("session_key = ?", key).Delete(&model.TeamSession{}).Error
}

func (r *sessionRepository) DeleteIdleBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("last_seen_at < ?", cutoff).Delete(&model.TeamSession{})
	return res.RowsAffected, res.Error
}
