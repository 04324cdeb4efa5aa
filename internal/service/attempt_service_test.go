package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/minhngocbui/ctfzone/internal/apperr"
	"github.com/minhngocbui/ctfzone/internal/model"
	"github.com/minhngocbui/ctfzone/internal/repository"
)

func newAttemptService(db *gorm.DB) AttemptService {
	return NewAttemptService(repository.NewAttemptRepository(db), repository.NewZoneRepository(db))
}

func TestCompleteUnknownAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)

	_, err := svc.Complete(999, "")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCompleteWithoutExitCode(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Vault")
	player := seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)
	seedCode(t, db, team.ID, zone.ID, player.ID, "CODE00000001")

	redeemed, err := NewZoneAccessService(db).Redeem("CODE00000001")
	require.NoError(t, err)

	resp, err := svc.Complete(redeemed.ID, "")
	require.NoError(t, err)
	assert.Equal(t, string(model.AttemptCompleted), resp.Status)
	require.NotNil(t, resp.ExitTime)
	require.NotNil(t, resp.DurationSeconds)
	assert.GreaterOrEqual(t, *resp.DurationSeconds, int64(0))
}

func TestCompleteExitCodeMatchIsCaseSensitive(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Vault")
	player := seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)
	require.NoError(t, db.Create(&model.ZoneContent{
		ZoneID:   zone.ID,
		Role:     model.RoleIntern,
		Content:  "find the exit code on the whiteboard",
		ExitCode: "ALPHA7",
	}).Error)
	seedCode(t, db, team.ID, zone.ID, player.ID, "CODE00000002")

	redeemed, err := NewZoneAccessService(db).Redeem("CODE00000002")
	require.NoError(t, err)

	_, err = svc.Complete(redeemed.ID, "alpha7")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	var stored model.Attempt
	require.NoError(t, db.First(&stored, redeemed.ID).Error)
	assert.Equal(t, model.AttemptActive, stored.Status, "failed completion must leave the attempt active")

	resp, err := svc.Complete(redeemed.ID, "ALPHA7")
	require.NoError(t, err)
	assert.Equal(t, string(model.AttemptCompleted), resp.Status)
}

func TestCompleteIsIdempotentOnTerminalAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Vault")
	player := seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)
	seedCode(t, db, team.ID, zone.ID, player.ID, "CODE00000003")

	redeemed, err := NewZoneAccessService(db).Redeem("CODE00000003")
	require.NoError(t, err)

	first, err := svc.Complete(redeemed.ID, "")
	require.NoError(t, err)
	require.NotNil(t, first.ExitTime)

	again, err := svc.Complete(redeemed.ID, "whatever")
	require.NoError(t, err)
	assert.Equal(t, string(model.AttemptCompleted), again.Status)
	assert.WithinDuration(t, *first.ExitTime, *again.ExitTime, time.Second,
		"repeat completion must not move the exit time")
}

func TestForceExitDoesNotOverrideCompletion(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Vault")
	player := seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)
	seedCode(t, db, team.ID, zone.ID, player.ID, "CODE00000004")

	redeemed, err := NewZoneAccessService(db).Redeem("CODE00000004")
	require.NoError(t, err)

	_, err = svc.Complete(redeemed.ID, "")
	require.NoError(t, err)

	resp, err := svc.ForceExit(redeemed.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.AttemptCompleted), resp.Status)
}

func TestForceExitActiveAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Vault")
	player := seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)
	seedCode(t, db, team.ID, zone.ID, player.ID, "CODE00000005")

	redeemed, err := NewZoneAccessService(db).Redeem("CODE00000005")
	require.NoError(t, err)

	resp, err := svc.ForceExit(redeemed.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.AttemptForcedExit), resp.Status)
	assert.NotNil(t, resp.ExitTime)
}

func TestForceExitAllActiveScopedToTeam(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	redeemer := NewZoneAccessService(db)

	teamA, _ := seedTeam(t, db, "Team A", "pw")
	teamB, _ := seedTeam(t, db, "Team B", "pw")
	zone1 := seedZone(t, db, "Zone 1")
	zone2 := seedZone(t, db, "Zone 2")

	a1 := seedPlayer(t, db, teamA.ID, "A1", model.RoleIntern)
	a2 := seedPlayer(t, db, teamA.ID, "A2", model.RoleManager)
	b1 := seedPlayer(t, db, teamB.ID, "B1", model.RoleIntern)

	seedCode(t, db, teamA.ID, zone1.ID, a1.ID, "TEAMA0000001")
	seedCode(t, db, teamA.ID, zone2.ID, a2.ID, "TEAMA0000002")
	seedCode(t, db, teamB.ID, zone1.ID, b1.ID, "TEAMB0000001")

	for _, code := range []string{"TEAMA0000001", "TEAMA0000002", "TEAMB0000001"} {
		_, err := redeemer.Redeem(code)
		require.NoError(t, err)
	}

	ended, err := svc.ForceExitAllActive(teamA.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, ended)

	var activeA, activeB int64
	require.NoError(t, db.Model(&model.Attempt{}).
		Where("team_id = ? AND status = ?", teamA.ID, model.AttemptActive).Count(&activeA).Error)
	require.NoError(t, db.Model(&model.Attempt{}).
		Where("team_id = ? AND status = ?", teamB.ID, model.AttemptActive).Count(&activeB).Error)
	assert.EqualValues(t, 0, activeA)
	assert.EqualValues(t, 1, activeB, "other teams' attempts must stay untouched")
}

func TestDurationReflectsEntryAndExit(t *testing.T) {
	db := newTestDB(t)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Vault")
	player := seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)

	entry := time.Now().Add(-10 * time.Minute).Truncate(time.Second)
	exit := entry.Add(90 * time.Second)
	attempt := seedCompletedAttempt(t, db, team.ID, zone.ID, player.ID, entry, exit)

	secs := attempt.DurationSeconds()
	require.NotNil(t, secs)
	assert.EqualValues(t, 90, *secs)
}
