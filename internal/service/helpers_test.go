package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/minhngocbui/ctfzone/config"
	"github.com/minhngocbui/ctfzone/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// In-memory sqlite is per-connection; keep the pool at one.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.TeamUser{},
		&model.Team{},
		&model.Player{},
		&model.TeamSession{},
		&model.Zone{},
		&model.ZoneContent{},
		&model.AccessCode{},
		&model.Attempt{},
		&model.Score{},
		&model.ScoreEntry{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Session: config.Session{
			MaxPerTeam:    5,
			IdleTimeout:   30 * time.Minute,
			SweepInterval: 5 * time.Minute,
		},
	}
}

func seedTeam(t *testing.T, db *gorm.DB, name, password string) (*model.Team, *model.TeamUser) {
	t.Helper()

	user := model.TeamUser{Username: normalizeUsername(name), Password: password}
	require.NoError(t, db.Create(&user).Error)

	team := model.Team{Name: name, TeamUserID: &user.ID}
	require.NoError(t, db.Create(&team).Error)

	score := model.Score{TeamID: team.ID}
	require.NoError(t, db.Create(&score).Error)

	return &team, &user
}

func seedPlayer(t *testing.T, db *gorm.DB, teamID uint, name string, role model.Role) *model.Player {
	t.Helper()
	player := model.Player{Name: name, Role: role, TeamID: teamID}
	require.NoError(t, db.Create(&player).Error)
	return &player
}

func seedZone(t *testing.T, db *gorm.DB, title string) *model.Zone {
	t.Helper()
	zone := model.Zone{Title: title}
	require.NoError(t, db.Create(&zone).Error)
	return &zone
}

func seedCode(t *testing.T, db *gorm.DB, teamID, zoneID, playerID uint, code string) *model.AccessCode {
	t.Helper()
	access := model.AccessCode{TeamID: teamID, ZoneID: zoneID, PlayerID: playerID, Code: code}
	require.NoError(t, db.Create(&access).Error)
	return &access
}

// seedCompletedAttempt inserts a terminal attempt directly, with an access
// code to satisfy the consistency guard and explicit entry and exit times.
func seedCompletedAttempt(t *testing.T, db *gorm.DB, teamID, zoneID, playerID uint, entry, exit time.Time) *model.Attempt {
	t.Helper()

	access := seedCode(t, db, teamID, zoneID, playerID, fmt.Sprintf("SEED%04d%04d", zoneID, playerID))
	require.NoError(t, db.Model(access).Update("is_used", true).Error)

	attempt := model.Attempt{
		TeamID:       teamID,
		ZoneID:       zoneID,
		PlayerID:     playerID,
		AccessCodeID: access.ID,
		AccessCode:   *access,
		EntryTime:    entry,
		ExitTime:     &exit,
		Status:       model.AttemptCompleted,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(&attempt).Error)
	return &attempt
}
