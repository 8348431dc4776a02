package hive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"hivebot/errs"
	"hivebot/model"
	"hivebot/utils/database"
)

// ParseStorageRequest parses the slash-delimited request format used in the
// storage channel and in DMs: "<drone id> / <hours> / <purpose>".
func ParseStorageRequest(content string) (droneID string, hours int, purpose string, err error) {
	parts := strings.SplitN(content, "/", 3)
	if len(parts) != 3 {
		return "", 0, "", errs.Validationf("storage requests use the format `drone ID / hours / purpose`")
	}

	droneID = strings.TrimSpace(parts[0])
	purpose = strings.TrimSpace(parts[2])
	hours, convErr := strconv.Atoi(strings.TrimSpace(parts[1]))

	if len(droneID) != 4 || convErr != nil || purpose == "" {
		return "", 0, "", errs.Validationf("storage requests use the format `drone ID / hours / purpose`")
	}
	return droneID, hours, purpose, nil
}

// Store places a drone into temporary storage: the roles held right now are
// snapshotted, replaced with the stored role, and restored verbatim at
// release. initiator nil denotes the Hive Mxtress.
func (h *Hive) Store(actor Actor, targetID string, hours int, purpose string) (*model.StorageRecord, error) {
	maxHours := h.Cfg.Hive.MaxStorageHours
	if maxHours <= 0 {
		maxHours = 24
	}
	if hours < 1 || hours > maxHours {
		return nil, errs.Validationf("storage duration must be between 1 and %d hours", maxHours)
	}

	member, err := h.Session.GuildMember(h.Cfg.GuildID, targetID)
	if err != nil {
		return nil, errs.Platform("GuildMember", err)
	}

	var record *model.StorageRecord
	err = database.WithTxRetry(h.DB, func(tx *sqlx.Tx) error {
		d, err := database.GetDrone(tx, targetID)
		if err != nil {
			return err
		}
		if !actor.Privileged && !d.FreeStorage && !d.Trusts(actor.ID) && actor.ID != targetID {
			return errs.ErrNotAuthorized
		}

		if _, err := database.ActiveStorage(tx, targetID); err == nil {
			return errs.Validationf("drone #%s is already in storage", d.DroneID)
		} else if !errors.Is(err, errs.ErrNotFound) {
			return err
		}

		record = &model.StorageRecord{
			TargetID:  targetID,
			Purpose:   purpose,
			ReleaseAt: h.Now().Add(time.Duration(hours) * time.Hour),
		}
		if !actor.Privileged {
			initiator := actor.ID
			record.InitiatorID = &initiator
		}
		record.SetRoleList(member.Roles)

		return database.InsertStorage(tx, record)
	})
	if err != nil {
		return nil, err
	}

	stored := []string{h.Cfg.Hive.StoredRoleID}
	if _, err := h.Session.GuildMemberEdit(h.Cfg.GuildID, targetID, &discordgo.GuildMemberParams{Roles: &stored}); err != nil {
		h.Log.Error().Err(err).Str("target", targetID).Msg("failed to apply stored role set")
	}
	h.notify(h.Cfg.Hive.StorageChannelID,
		fmt.Sprintf("Drone stored for %d hours :: %s", hours, purpose))

	return record, nil
}

// ReleaseFromStorage restores the snapshotted roles verbatim and removes the
// record. The role restore happens first; a platform failure leaves the
// record in place so the next sweep retries it.
func (h *Hive) ReleaseFromStorage(r *model.StorageRecord) error {
	roles := r.RoleList()
	if _, err := h.Session.GuildMemberEdit(h.Cfg.GuildID, r.TargetID, &discordgo.GuildMemberParams{Roles: &roles}); err != nil {
		return errs.Platform("GuildMemberEdit", err)
	}

	err := database.WithTxRetry(h.DB, func(tx *sqlx.Tx) error {
		return database.DeleteStorage(tx, r.ID)
	})
	if err != nil {
		return err
	}

	h.notify(h.Cfg.Hive.StorageChannelID, "Drone released from storage.")
	return nil
}

// Release ends a storage hold early. Allowed for the privileged actor, the
// initiator, and the stored drone's trusted users.
func (h *Hive) Release(actor Actor, targetID string) error {
	var record *model.StorageRecord
	err := database.WithTxRetry(h.DB, func(tx *sqlx.Tx) error {
		var err error
		record, err = database.ActiveStorage(tx, targetID)
		if err != nil {
			return err
		}

		d, err := database.GetDrone(tx, targetID)
		if err != nil {
			return err
		}

		initiator := record.InitiatorID != nil && *record.InitiatorID == actor.ID
		if !actor.Privileged && !initiator && !d.Trusts(actor.ID) {
			return errs.ErrNotAuthorized
		}
		return nil
	})
	if err != nil {
		return err
	}

	return h.ReleaseFromStorage(record)
}
