package model

import "time"

// StorageRecord represents a drone held in temporary storage. A user has at
// most one active record; releasing it restores the snapshotted roles
// verbatim. Table: storage.
type StorageRecord struct {
	ID          int64     `db:"id"`
	InitiatorID *string   `db:"initiator_id"` // nil denotes the Hive Mxtress
	TargetID    string    `db:"target_id"`
	Purpose     string    `db:"purpose"`
	Roles       string    `db:"roles"` // "|"-separated role IDs held before storage
	ReleaseAt   time.Time `db:"release_at"`
}

// RoleList returns the snapshotted role IDs as a slice.
func (r *StorageRecord) RoleList() []string {
	return splitList(r.Roles)
}

// SetRoleList stores the role snapshot.
func (r *StorageRecord) SetRoleList(roles []string) {
	r.Roles = joinList(roles)
}
