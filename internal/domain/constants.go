package domain

const (
	RoleSeeker   = "SEEKER"
	RoleEmployer = "EMPLOYER"
	RoleAdmin    = "ADMIN"
)

const (
	WalletStatusActive    = "ACTIVE"
	WalletStatusSuspended = "SUSPENDED"
)

const (
	HoldStatusActive    = "ACTIVE"
	HoldStatusConverted = "CONVERTED"
	HoldStatusReleased  = "RELEASED"
)

const (
	TxTypeCredit = "CREDIT"
	TxTypeDebit  = "DEBIT"
)

// Source tags on wallet transactions.
const (
	TxSourceRecharge       = "RECHARGE"
	TxSourceHoldConversion = "HOLD_CONVERSION"
	TxSourceReferralPayout = "REFERRAL_PAYOUT"
	TxSourceWithdrawal     = "WITHDRAWAL"
	TxSourceRefund         = "REFUND"
	TxSourceManualDebit    = "DEBIT"
)

const (
	ReferralStatusOpen      = "OPEN"
	ReferralStatusClaimed   = "CLAIMED"
	ReferralStatusCompleted = "COMPLETED"
	ReferralStatusCancelled = "CANCELLED"
)

const (
	JobStatusOpen   = "OPEN"
	JobStatusClosed = "CLOSED"
)

const (
	ApplicationStatusApplied   = "APPLIED"
	ApplicationStatusReviewing = "REVIEWING"
	ApplicationStatusOffered   = "OFFERED"
	ApplicationStatusRejected  = "REJECTED"
)

const (
	RechargeStatusPending   = "PENDING"
	RechargeStatusCompleted = "COMPLETED"
	RechargeStatusFailed    = "FAILED"
)

const (
	WithdrawalStatusPending  = "PENDING"
	WithdrawalStatusPaid     = "PAID"
	WithdrawalStatusRejected = "REJECTED"
)

// Admin-configurable setting keys.
const (
	SettingMinRewardCents     = "referral_min_reward_cents"
	SettingMaxRewardCents     = "referral_max_reward_cents"
	SettingMinWithdrawalCents = "min_withdrawal_cents"
)

const DefaultCurrency = "INR"
