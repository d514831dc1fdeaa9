package domain

// Capabilities checked by handlers beyond the coarse role gates.
const (
	PermPostJobs         = "jobs:post"
	PermApplyJobs        = "jobs:apply"
	PermPostReferrals    = "referrals:post"
	PermClaimReferrals   = "referrals:claim"
	PermUseWallet        = "wallet:use"
	PermWithdraw         = "wallet:withdraw"
	PermMessage          = "messages:send"
	PermManageWithdrawal = "admin:withdrawals"
	PermManageSettings   = "admin:settings"
)

// PermissionsForRole maps a role to its capability set.
func PermissionsForRole(role string) map[string]bool {
	switch role {
	case RoleSeeker:
		return set(PermApplyJobs, PermPostReferrals, PermClaimReferrals, PermUseWallet, PermWithdraw, PermMessage)
	case RoleEmployer:
		return set(PermPostJobs, PermClaimReferrals, PermUseWallet, PermWithdraw, PermMessage)
	case RoleAdmin:
		return set(PermUseWallet, PermMessage, PermManageWithdrawal, PermManageSettings)
	default:
		return map[string]bool{}
	}
}

func set(perms ...string) map[string]bool {
	m := make(map[string]bool, len(perms))
	for _, p := range perms {
		m[p] = true
	}
	return m
}

// HasPermission reports whether the role grants the capability.
func HasPermission(role, perm string) bool {
	return PermissionsForRole(role)[perm]
}
