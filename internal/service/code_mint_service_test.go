package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/minhngocbui/ctfzone/internal/apperr"
	"github.com/minhngocbui/ctfzone/internal/model"
	"github.com/minhngocbui/ctfzone/internal/repository"
)

func newCodeMintService(db *gorm.DB) CodeMintService {
	return NewCodeMintService(
		repository.NewAccessCodeRepository(db),
		repository.NewPlayerRepository(db),
		repository.NewZoneRepository(db),
		repository.NewTeamRepository(db),
	)
}

var codeFormat = regexp.MustCompile(`^[A-Z0-9]{12}$`)

func TestMintForTeamZoneCoversEveryPlayer(t *testing.T) {
	db := newTestDB(t)
	svc := newCodeMintService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Vault")
	seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)
	seedPlayer(t, db, team.ID, "Bob", model.RoleCEO)

	minted, err := svc.MintForTeamZone(team.ID, zone.ID)
	require.NoError(t, err)
	require.Len(t, minted, 2)
	for _, code := range minted {
		assert.Regexp(t, codeFormat, code.Code)
		assert.False(t, code.IsUsed)
		assert.Equal(t, zone.ID, code.ZoneID)
	}
	assert.NotEqual(t, minted[0].Code, minted[1].Code)
}

func TestMintForTeamZoneSkipsExistingPairs(t *testing.T) {
	db := newTestDB(t)
	svc := newCodeMintService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Vault")
	seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)

	first, err := svc.MintForTeamZone(team.ID, zone.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// New player joins; re-minting covers only them.
	seedPlayer(t, db, team.ID, "Bob", model.RoleCEO)
	second, err := svc.MintForTeamZone(team.ID, zone.ID)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Bob", second[0].PlayerName)

	var total int64
	require.NoError(t, db.Model(&model.AccessCode{}).Count(&total).Error)
	assert.EqualValues(t, 2, total)
}

func TestMintForTeamZoneValidatesTargets(t *testing.T) {
	db := newTestDB(t)
	svc := newCodeMintService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Vault")

	_, err := svc.MintForTeamZone(999, zone.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = svc.MintForTeamZone(team.ID, 999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = svc.MintForTeamZone(team.ID, zone.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "a team without players has nothing to mint")
}

func TestListForTeamIncludesUsedFlag(t *testing.T) {
	db := newTestDB(t)
	svc := newCodeMintService(db)

	team, _ := seedTeam(t, db, "Red Team", "pw")
	zone := seedZone(t, db, "Vault")
	seedPlayer(t, db, team.ID, "Alice", model.RoleIntern)

	minted, err := svc.MintForTeamZone(team.ID, zone.ID)
	require.NoError(t, err)
	require.Len(t, minted, 1)

	_, err = NewZoneAccessService(db).Redeem(minted[0].Code)
	require.NoError(t, err)

	listed, err := svc.ListForTeam(team.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsUsed)
	assert.Equal(t, "Vault", listed[0].ZoneTitle)
	assert.Equal(t, "Alice", listed[0].PlayerName)
}
