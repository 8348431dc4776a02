package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hivebot/model"
)

func TestCheckPermission(t *testing.T) {
	cfg := &model.Config{
		HiveMxtressID: "mxtress",
		Hive: model.HiveConfig{
			ModerationRoleIDs: []string{"role-mod"},
		},
	}

	assert.Equal(t, MxtressPermission, CheckPermission(nil, "mxtress", cfg))
	assert.Equal(t, ModerationPermission, CheckPermission([]string{"role-x", "role-mod"}, "someone", cfg))
	assert.Equal(t, MemberPermission, CheckPermission([]string{"role-x"}, "someone", cfg))
	assert.Equal(t, MemberPermission, CheckPermission(nil, "", cfg))
}

func TestPrivileged(t *testing.T) {
	assert.True(t, Privileged(MxtressPermission))
	assert.True(t, Privileged(ModerationPermission))
	assert.False(t, Privileged(MemberPermission))
}
