package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeekerPermissions(t *testing.T) {
	assert.True(t, HasPermission(RoleSeeker, PermApplyJobs))
	assert.True(t, HasPermission(RoleSeeker, PermPostReferrals))
	assert.True(t, HasPermission(RoleSeeker, PermClaimReferrals))
	assert.True(t, HasPermission(RoleSeeker, PermWithdraw))
	assert.False(t, HasPermission(RoleSeeker, PermPostJobs))
	assert.False(t, HasPermission(RoleSeeker, PermManageWithdrawal))
}

func TestEmployerPermissions(t *testing.T) {
	assert.True(t, HasPermission(RoleEmployer, PermPostJobs))
	assert.True(t, HasPermission(RoleEmployer, PermClaimReferrals))
	assert.False(t, HasPermission(RoleEmployer, PermApplyJobs))
	assert.False(t, HasPermission(RoleEmployer, PermPostReferrals))
	assert.False(t, HasPermission(RoleEmployer, PermManageSettings))
}

func TestAdminPermissions(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermManageWithdrawal))
	assert.True(t, HasPermission(RoleAdmin, PermManageSettings))
	assert.False(t, HasPermission(RoleAdmin, PermPostJobs))
}

func TestUnknownRoleHasNoPermissions(t *testing.T) {
	assert.Empty(t, PermissionsForRole("GUEST"))
	assert.False(t, HasPermission("", PermUseWallet))
}
