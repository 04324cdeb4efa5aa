package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/minhngocbui/ctfzone/internal/apperr"
	"github.com/minhngocbui/ctfzone/internal/model"
	"github.com/minhngocbui/ctfzone/internal/repository"
)

func newSessionService(db *gorm.DB) SessionService {
	return NewSessionService(
		testConfig(),
		repository.NewTeamUserRepository(db),
		repository.NewTeamRepository(db),
		repository.NewSessionRepository(db),
		newAttemptService(db),
		db,
	)
}

func TestAdmitRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	seedTeam(t, db, "Red Team", "correct-password")

	_, err := svc.Admit("red_team", "wrong-password")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))

	_, err = svc.Admit("no_such_user", "anything")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
}

func TestAdmitReturnsSessionWithTeam(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	team, _ := seedTeam(t, db, "Red Team", "secret")

	resp, err := svc.Admit("red_team", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionKey)
	assert.Equal(t, team.ID, resp.TeamID)
	assert.Equal(t, "Red Team", resp.TeamName)
}

func TestAdmitEnforcesSessionCap(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	seedTeam(t, db, "Red Team", "secret")

	for i := 0; i < 5; i++ {
		_, err := svc.Admit("red_team", "secret")
		require.NoError(t, err, "admission %d should fit under the cap", i+1)
	}

	_, err := svc.Admit("red_team", "secret")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindCapacity))
}

func TestAdmitCapIsPerPrincipal(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	seedTeam(t, db, "Red Team", "secret")
	seedTeam(t, db, "Blue Team", "hunter2")

	for i := 0; i < 5; i++ {
		_, err := svc.Admit("red_team", "secret")
		require.NoError(t, err)
	}

	_, err := svc.Admit("blue_team", "hunter2")
	require.NoError(t, err, "one team at the cap must not block another")
}

func TestAdmitSweepsIdleSessions(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	seedTeam(t, db, "Red Team", "secret")

	keys := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		resp, err := svc.Admit("red_team", "secret")
		require.NoError(t, err)
		keys = append(keys, resp.SessionKey)
	}

	// Age one session past the idle window.
	stale := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&model.TeamSession{}).
		Where("session_key = ?", keys[0]).
		UpdateColumn("last_seen_at", stale).Error)

	resp, err := svc.Admit("red_team", "secret")
	require.NoError(t, err, "sweeping the idle session should free a slot")
	assert.NotEmpty(t, resp.SessionKey)

	var gone int64
	require.NoError(t, db.Model(&model.TeamSession{}).
		Where("session_key = ?", keys[0]).Count(&gone).Error)
	assert.EqualValues(t, 0, gone)
}

func TestHeartbeatUnknownSessionIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	assert.NoError(t, svc.Heartbeat("no-such-key"))
}

func TestRevokeDeletesSessionAndForceExitsAttempts(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	team, _ := seedTeam(t, db, "Red Team", "secret")
	zone := seedZone(t, db, "Vault")
	player := seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)
	seedCode(t, db, team.ID, zone.ID, player.ID, "LOGOUT000001")

	_, err := NewZoneAccessService(db).Redeem("LOGOUT000001")
	require.NoError(t, err)

	resp, err := svc.Admit("red_team", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(resp.SessionKey))

	_, _, err = svc.Resolve(resp.SessionKey)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))

	var active int64
	require.NoError(t, db.Model(&model.Attempt{}).
		Where("team_id = ? AND status = ?", team.ID, model.AttemptActive).Count(&active).Error)
	assert.EqualValues(t, 0, active, "logout must force-exit the team's active attempts")
}

func TestRevokeUnknownSessionIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	assert.NoError(t, svc.Revoke("no-such-key"))
}

func TestResolveReturnsSessionAndTeam(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	team, _ := seedTeam(t, db, "Red Team", "secret")

	resp, err := svc.Admit("red_team", "secret")
	require.NoError(t, err)

	session, resolved, err := svc.Resolve(resp.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, resp.SessionKey, session.SessionKey)
	assert.Equal(t, team.ID, resolved.ID)
}

func TestSessionKeysAreUnique(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	seedTeam(t, db, "Red Team", "secret")

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		resp, err := svc.Admit("red_team", "secret")
		require.NoError(t, err)
		require.False(t, seen[resp.SessionKey], fmt.Sprintf("duplicate session key on admission %d", i+1))
		seen[resp.SessionKey] = true
	}
}
