package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/minhngocbui/ctfzone/internal/apperr"
	"github.com/minhngocbui/ctfzone/internal/dto"
	"github.com/minhngocbui/ctfzone/internal/model"
	"github.com/minhngocbui/ctfzone/internal/repository"
)

func newZoneBoardService(db *gorm.DB) ZoneBoardService {
	return NewZoneBoardService(
		repository.NewZoneRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewAccessCodeRepository(db),
		repository.NewScoreRepository(db),
	)
}

func TestBoardReflectsCodesAndAttempts(t *testing.T) {
	db := newTestDB(t)
	svc := newZoneBoardService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone1 := seedZone(t, db, "Zone 1")
	zone2 := seedZone(t, db, "Zone 2")
	zone3 := seedZone(t, db, "Zone 3")
	p1 := seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)
	p2 := seedPlayer(t, db, team.ID, "Bob", model.RoleManager)

	// Zone 1: active attempt. Zone 2: unused code. Zone 3: nothing.
	seedCode(t, db, team.ID, zone1.ID, p1.ID, "BOARD0000001")
	_, err := NewZoneAccessService(db).Redeem("BOARD0000001")
	require.NoError(t, err)
	seedCode(t, db, team.ID, zone2.ID, p2.ID, "BOARD0000002")

	board, err := svc.Board(team.ID)
	require.NoError(t, err)
	require.Len(t, board, 3)

	byZone := make(map[uint]dto.ZoneStatus, len(board))
	for _, row := range board {
		byZone[row.ZoneID] = row
	}

	assert.True(t, byZone[zone1.ID].HasActive)
	assert.False(t, byZone[zone1.ID].HasAccess, "a redeemed code is no longer an access")
	assert.True(t, byZone[zone1.ID].CanEnter)

	assert.False(t, byZone[zone2.ID].HasActive)
	assert.True(t, byZone[zone2.ID].HasAccess)
	assert.True(t, byZone[zone2.ID].CanEnter)

	assert.False(t, byZone[zone3.ID].CanEnter)
}

func TestBoardShowsAssignedPoints(t *testing.T) {
	db := newTestDB(t)
	svc := newZoneBoardService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Zone 1")

	require.NoError(t, newScoreboardService(db).AssignZonePoints(team.ID, zone.ID, 150))

	board, err := svc.Board(team.ID)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, 150, board[0].Points)
}

func TestPlayReturnsRoleContent(t *testing.T) {
	db := newTestDB(t)
	svc := newZoneBoardService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Vault")
	intern := seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)
	seedPlayer(t, db, team.ID, "Bob", model.RoleCEO)

	require.NoError(t, db.Create(&model.ZoneContent{
		ZoneID: zone.ID, Role: model.RoleIntern, Content: "intern briefing", ExitCode: "X1",
	}).Error)
	require.NoError(t, db.Create(&model.ZoneContent{
		ZoneID: zone.ID, Role: model.RoleCEO, Content: "ceo briefing",
	}).Error)

	seedCode(t, db, team.ID, zone.ID, intern.ID, "PLAY00000001")
	redeemed, err := NewZoneAccessService(db).Redeem("PLAY00000001")
	require.NoError(t, err)

	resp, err := svc.Play(redeemed.ID)
	require.NoError(t, err)
	assert.Equal(t, "intern briefing", resp.Content, "content must be keyed by the player's role")
	assert.Equal(t, string(model.RoleIntern), resp.PlayerRole)
	assert.True(t, resp.HasExitCode)
}

func TestPlayRejectsTerminalAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newZoneBoardService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Vault")
	player := seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)
	seedCode(t, db, team.ID, zone.ID, player.ID, "PLAY00000002")

	redeemed, err := NewZoneAccessService(db).Redeem("PLAY00000002")
	require.NoError(t, err)
	_, err = newAttemptService(db).ForceExit(redeemed.ID)
	require.NoError(t, err)

	_, err = svc.Play(redeemed.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpsertContentReplacesRoleEntry(t *testing.T) {
	db := newTestDB(t)
	svc := newZoneBoardService(db)

	zone := seedZone(t, db, "Vault")

	require.NoError(t, svc.UpsertContent(zone.ID, dto.UpsertZoneContentRequest{
		Role: string(model.RoleIntern), Content: "v1", ExitCode: "OLD",
	}))
	require.NoError(t, svc.UpsertContent(zone.ID, dto.UpsertZoneContentRequest{
		Role: string(model.RoleIntern), Content: "v2", ExitCode: "NEW",
	}))

	var contents []model.ZoneContent
	require.NoError(t, db.Where("zone_id = ?", zone.ID).Find(&contents).Error)
	require.Len(t, contents, 1, "same zone and role must upsert, not append")
	assert.Equal(t, "v2", contents[0].Content)
	assert.Equal(t, "NEW", contents[0].ExitCode)
}

func TestUpsertContentUnknownZone(t *testing.T) {
	db := newTestDB(t)
	svc := newZoneBoardService(db)

	err := svc.UpsertContent(999, dto.UpsertZoneContentRequest{
		Role: string(model.RoleIntern), Content: "x",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCreateAndListZones(t *testing.T) {
	db := newTestDB(t)
	svc := newZoneBoardService(db)

	created, err := svc.CreateZone(dto.CreateZoneRequest{Title: "Vault", Description: "the vault"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	zones, err := svc.ListZones()
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Vault", zones[0].Title)
}
