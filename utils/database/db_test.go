package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivebot/errs"
	"hivebot/model"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testDrone(discordID, droneID string) *model.DroneRecord {
	return &model.DroneRecord{
		DiscordID: discordID, DroneID: droneID,
		BatteryMinutes: 480, BatteryTypeID: 2, CanSelfConfigure: true,
	}
}

func TestInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hive.db")

	db, err := Init(path)
	require.NoError(t, err)
	require.NoError(t, InsertDrone(db, testDrone("user1", "1234")))
	require.NoError(t, db.Close())

	db, err = Init(path)
	require.NoError(t, err)
	defer db.Close()

	d, err := GetDrone(db, "user1")
	require.NoError(t, err)
	assert.Equal(t, "1234", d.DroneID)
}

func TestBatteryTypesSeeded(t *testing.T) {
	db := testDB(t)

	types, err := ListBatteryTypes(db)
	require.NoError(t, err)
	require.Len(t, types, 3)

	medium, err := GetBatteryType(db, 2)
	require.NoError(t, err)
	assert.Equal(t, 480, medium.CapacityMinutes)
	assert.Equal(t, 120, medium.RechargeMinutes)
}

func TestGetDroneNotFound(t *testing.T) {
	db := testDB(t)

	_, err := GetDrone(db, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = GetDroneByDroneID(db, "0001")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdateDroneFlagRejectsUnknownFlag(t *testing.T) {
	db := testDB(t)
	require.NoError(t, InsertDrone(db, testDrone("user1", "1234")))

	err := UpdateDroneFlag(db, "user1", model.Flag("nonsense"), true)
	assert.Error(t, err)
}

func TestReplaceTimerKeepsOneRowPerPair(t *testing.T) {
	db := testDB(t)

	_, err := ReplaceTimer(db, "user1", model.FlagOptimized, testNow.Add(time.Hour))
	require.NoError(t, err)
	_, err = ReplaceTimer(db, "user1", model.FlagOptimized, testNow.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = ReplaceTimer(db, "user1", model.FlagGlitched, testNow.Add(time.Hour))
	require.NoError(t, err)

	timers, err := TimersFor(db, "user1")
	require.NoError(t, err)
	assert.Len(t, timers, 2)
}

func TestDeleteTimerMissingRowIsFine(t *testing.T) {
	db := testDB(t)

	assert.NoError(t, DeleteTimer(db, "user1", model.FlagOptimized))
	assert.NoError(t, DeleteTimerByID(db, "no-such-id"))
}

func TestDueTimers(t *testing.T) {
	db := testDB(t)

	_, err := ReplaceTimer(db, "user1", model.FlagOptimized, testNow.Add(time.Minute))
	require.NoError(t, err)
	_, err = ReplaceTimer(db, "user2", model.FlagOptimized, testNow.Add(time.Hour))
	require.NoError(t, err)

	due, err := DueTimers(db, testNow.Add(30*time.Minute))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "user1", due[0].DiscordID)
}

func TestStorageUniquePerTarget(t *testing.T) {
	db := testDB(t)

	r := &model.StorageRecord{TargetID: "user1", Purpose: "maintenance", ReleaseAt: testNow}
	require.NoError(t, InsertStorage(db, r))
	assert.NotZero(t, r.ID)

	err := InsertStorage(db, &model.StorageRecord{TargetID: "user1", Purpose: "again", ReleaseAt: testNow})
	assert.Error(t, err)
}

func TestTemporaryDrones(t *testing.T) {
	db := testDB(t)

	until := testNow.Add(time.Hour)
	temp := testDrone("user1", "1234")
	temp.TemporaryUntil = &until
	require.NoError(t, InsertDrone(db, temp))
	require.NoError(t, InsertDrone(db, testDrone("user2", "5678")))

	expired, err := TemporaryDrones(db, testNow.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "user1", expired[0].DiscordID)

	expired, err = TemporaryDrones(db, testNow)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestWithSavepointRollsBackInnerFailure(t *testing.T) {
	db := testDB(t)

	err := WithTx(db, func(tx *sqlx.Tx) error {
		if err := InsertDrone(tx, testDrone("user1", "1234")); err != nil {
			return err
		}
		// The inner failure is undone without aborting the outer write.
		_ = WithSavepoint(tx, "sp_test", func() error {
			if err := InsertDrone(tx, testDrone("user2", "5678")); err != nil {
				return err
			}
			return assert.AnError
		})
		return nil
	})
	require.NoError(t, err)

	_, err = GetDrone(db, "user1")
	assert.NoError(t, err)
	_, err = GetDrone(db, "user2")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
