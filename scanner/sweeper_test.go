package scanner_test

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivebot/errs"
	"hivebot/hive"
	"hivebot/model"
	"hivebot/scanner"
	"hivebot/state"
	"hivebot/utils/database"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type noopSession struct{}

func (noopSession) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	return &discordgo.Member{User: &discordgo.User{ID: userID}}, nil
}

func (noopSession) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	return nil
}

func (noopSession) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	return nil
}

func (noopSession) GuildMemberNickname(guildID, userID, nickname string, options ...discordgo.RequestOption) error {
	return nil
}

func (noopSession) GuildMemberEdit(guildID, userID string, data *discordgo.GuildMemberParams, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	return &discordgo.Member{}, nil
}

func newTestSweeper(t *testing.T) (*scanner.Sweeper, *hive.Hive) {
	t.Helper()

	db, err := database.Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &model.Config{GuildID: "guild", Hive: model.HiveConfig{DroneRoleID: "role-drone"}}
	h := hive.New(db, noopSession{}, nil, cfg, zerolog.Nop())
	h.Now = func() time.Time { return testNow }

	s := scanner.New(h, state.NewRuntime(), nil, zerolog.Nop())
	s.Now = h.Now
	return s, h
}

func insertDrone(t *testing.T, h *hive.Hive, d *model.DroneRecord) {
	t.Helper()
	if d.BatteryTypeID == 0 {
		d.BatteryTypeID = 2
	}
	require.NoError(t, database.InsertDrone(h.DB, d))
}

func TestSweepRevertsExpiredFlag(t *testing.T) {
	s, h := newTestSweeper(t)
	insertDrone(t, h, &model.DroneRecord{
		DiscordID: "user1", DroneID: "1234", CanSelfConfigure: true, BatteryMinutes: 480,
	})

	_, err := h.ToggleFlag(hive.Actor{ID: "user1"}, "user1", model.FlagOptimized, 30)
	require.NoError(t, err)

	// Before the deadline nothing happens.
	s.ProcessDueTimers(testNow.Add(29 * time.Minute))
	d, err := database.GetDrone(h.DB, "user1")
	require.NoError(t, err)
	assert.True(t, d.Optimized)

	s.ProcessDueTimers(testNow.Add(31 * time.Minute))
	d, err = database.GetDrone(h.DB, "user1")
	require.NoError(t, err)
	assert.False(t, d.Optimized)
	assert.True(t, d.CanSelfConfigure)

	timers, err := database.TimersFor(h.DB, "user1")
	require.NoError(t, err)
	assert.Empty(t, timers)
}

func TestSweepDropsOrphanedTimer(t *testing.T) {
	s, h := newTestSweeper(t)

	_, err := database.ReplaceTimer(h.DB, "ghost", model.FlagOptimized, testNow)
	require.NoError(t, err)

	s.ProcessDueTimers(testNow.Add(time.Minute))

	timers, err := database.DueTimers(h.DB, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, timers)
}

func TestSweepReleasesDueStorage(t *testing.T) {
	s, h := newTestSweeper(t)
	insertDrone(t, h, &model.DroneRecord{
		DiscordID: "user1", DroneID: "1234", CanSelfConfigure: true, BatteryMinutes: 480,
	})
	require.NoError(t, database.InsertStorage(h.DB, &model.StorageRecord{
		TargetID: "user1", Purpose: "maintenance", Roles: "RoleA|RoleB",
		ReleaseAt: testNow.Add(time.Hour),
	}))

	s.ProcessDueStorage(testNow.Add(30 * time.Minute))
	_, err := database.ActiveStorage(h.DB, "user1")
	require.NoError(t, err)

	s.ProcessDueStorage(testNow.Add(2 * time.Hour))
	_, err = database.ActiveStorage(h.DB, "user1")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSweepReleasesExpiredTemporaryAssignment(t *testing.T) {
	s, h := newTestSweeper(t)
	until := testNow.Add(time.Hour)
	insertDrone(t, h, &model.DroneRecord{
		DiscordID: "user1", DroneID: "1234", CanSelfConfigure: true,
		BatteryMinutes: 480, TemporaryUntil: &until,
	})

	s.ProcessTemporaryAssignments(testNow.Add(30 * time.Minute))
	_, err := database.GetDrone(h.DB, "user1")
	require.NoError(t, err)

	s.ProcessTemporaryAssignments(testNow.Add(2 * time.Hour))
	_, err = database.GetDrone(h.DB, "user1")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBatteryTickDrainsActiveDrone(t *testing.T) {
	s, h := newTestSweeper(t)
	insertDrone(t, h, &model.DroneRecord{
		DiscordID: "user1", DroneID: "1234", CanSelfConfigure: true,
		BatteryPowered: true, BatteryMinutes: 100,
	})

	s.State.MarkActive("user1", testNow)
	s.ProcessBatteryTick(testNow.Add(time.Minute))

	d, err := database.GetDrone(h.DB, "user1")
	require.NoError(t, err)
	assert.Equal(t, 99, d.BatteryMinutes)
}

func TestBatteryTickLeavesIdleDroneAlone(t *testing.T) {
	s, h := newTestSweeper(t)
	insertDrone(t, h, &model.DroneRecord{
		DiscordID: "user1", DroneID: "1234", CanSelfConfigure: true,
		BatteryPowered: true, BatteryMinutes: 100,
	})

	s.ProcessBatteryTick(testNow)

	d, err := database.GetDrone(h.DB, "user1")
	require.NoError(t, err)
	assert.Equal(t, 100, d.BatteryMinutes)
}

func TestBatteryTickRechargesStoredDrone(t *testing.T) {
	s, h := newTestSweeper(t)
	insertDrone(t, h, &model.DroneRecord{
		DiscordID: "user1", DroneID: "1234", CanSelfConfigure: true,
		BatteryPowered: true, BatteryMinutes: 100, BatteryTypeID: 2,
	})
	require.NoError(t, database.InsertStorage(h.DB, &model.StorageRecord{
		TargetID: "user1", Purpose: "recharging", ReleaseAt: testNow.Add(time.Hour),
	}))

	s.ProcessBatteryTick(testNow)

	// Medium capacity recharges 480 minutes over 120, so 4 per tick.
	d, err := database.GetDrone(h.DB, "user1")
	require.NoError(t, err)
	assert.Equal(t, 104, d.BatteryMinutes)
}

func TestBatteryTickCapsAtCapacity(t *testing.T) {
	s, h := newTestSweeper(t)
	insertDrone(t, h, &model.DroneRecord{
		DiscordID: "user1", DroneID: "1234", CanSelfConfigure: true,
		BatteryPowered: true, BatteryMinutes: 479, BatteryTypeID: 2,
	})
	require.NoError(t, database.InsertStorage(h.DB, &model.StorageRecord{
		TargetID: "user1", Purpose: "recharging", ReleaseAt: testNow.Add(time.Hour),
	}))

	s.ProcessBatteryTick(testNow)

	d, err := database.GetDrone(h.DB, "user1")
	require.NoError(t, err)
	assert.Equal(t, 480, d.BatteryMinutes)
}

func TestBatteryTickFloorsAtZero(t *testing.T) {
	s, h := newTestSweeper(t)
	insertDrone(t, h, &model.DroneRecord{
		DiscordID: "user1", DroneID: "1234", CanSelfConfigure: true,
		BatteryPowered: true, BatteryMinutes: 0,
	})

	s.State.MarkActive("user1", testNow)
	s.ProcessBatteryTick(testNow)

	d, err := database.GetDrone(h.DB, "user1")
	require.NoError(t, err)
	assert.Equal(t, 0, d.BatteryMinutes)
}
