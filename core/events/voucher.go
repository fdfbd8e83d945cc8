package events

import "math/big"

const (
	TypeCollectionCreated     = "voucher.collection_created"
	TypeVoucherMinted         = "voucher.minted"
	TypeVoucherRedeemed       = "voucher.redeemed"
	TypeVoucherCancelled      = "voucher.cancelled"
	TypeVoucherExpiryExtended = "voucher.expiry_extended"
	TypeVoucherXPReduced      = "voucher.xp_reward_reduced"
)

// CollectionCreated is emitted when a voucher collection record is written.
type CollectionCreated struct {
	ID       [32]byte
	Merchant string
	Name     string
}

func (CollectionCreated) EventType() string { return TypeCollectionCreated }

// VoucherMinted is emitted when a voucher record is written for the first
// time.
type VoucherMinted struct {
	ID       [32]byte
	Merchant string
	Kind     string
	MaxUses  uint32
}

func (VoucherMinted) EventType() string { return TypeVoucherMinted }

// VoucherRedeemed is emitted after a successful redemption.
type VoucherRedeemed struct {
	ID          [32]byte
	Merchant    string
	Value       *big.Int
	CurrentUses uint32
	FullyUsed   bool
}

func (VoucherRedeemed) EventType() string { return TypeVoucherRedeemed }

// VoucherCancelled is emitted when an authority cancels an active voucher.
type VoucherCancelled struct {
	ID       [32]byte
	Merchant string
}

func (VoucherCancelled) EventType() string { return TypeVoucherCancelled }

// VoucherExpiryExtended is emitted after an expiry extension, including the
// expired-to-active reactivation case.
type VoucherExpiryExtended struct {
	ID          [32]byte
	NewExpiry   int64
	Reactivated bool
}

func (VoucherExpiryExtended) EventType() string { return TypeVoucherExpiryExtended }

// VoucherXPReduced is emitted when a voucher's pending XP reward is reduced.
type VoucherXPReduced struct {
	ID        [32]byte
	Reduced   int64
	Remaining int64
}

func (VoucherXPReduced) EventType() string { return TypeVoucherXPReduced }
