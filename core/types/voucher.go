package types

import (
	"fmt"
	"math/big"
	"strings"
)

// VoucherStatus represents the lifecycle states of a voucher record.
type VoucherStatus uint8

const (
	VoucherActive VoucherStatus = iota
	VoucherUsed
	VoucherExpired
	VoucherCancelled
)

// Valid reports whether the status value is within the supported range.
func (s VoucherStatus) Valid() bool {
	switch s {
	case VoucherActive, VoucherUsed, VoucherExpired, VoucherCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status permits no further transitions. Expired
// vouchers are not terminal: an authority may extend the expiry and
// reactivate them.
func (s VoucherStatus) Terminal() bool {
	return s == VoucherUsed || s == VoucherCancelled
}

func (s VoucherStatus) String() string {
	switch s {
	case VoucherActive:
		return "active"
	case VoucherUsed:
		return "used"
	case VoucherExpired:
		return "expired"
	case VoucherCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// ConditionType names a redemption rule understood by the conditions
// evaluator. Unknown types are rejected at validation time.
type ConditionType string

const (
	ConditionMinimumPurchase ConditionType = "minimum_purchase"
	ConditionSpecificItems   ConditionType = "specific_items"
	ConditionTimeRestriction ConditionType = "time_restriction"
	ConditionUserTier        ConditionType = "user_tier"
)

// Condition is one typed rule attached to a voucher. Which value field is
// meaningful depends on Type; Operator refines the comparison.
type Condition struct {
	Type      ConditionType `json:"type"`
	Operator  string        `json:"operator,omitempty"`
	Amount    *big.Int      `json:"amount,omitempty"`
	Items     []string      `json:"items,omitempty"`
	Timestamp int64         `json:"timestamp,omitempty"`
	Tier      string        `json:"tier,omitempty"`
}

// Clone returns a deep copy of the condition.
func (c Condition) Clone() Condition {
	clone := c
	if c.Amount != nil {
		clone.Amount = new(big.Int).Set(c.Amount)
	}
	if len(c.Items) > 0 {
		clone.Items = append([]string(nil), c.Items...)
	}
	return clone
}

// RedemptionRecord is one entry of a voucher's append-only redemption
// history, holding the computed value and the caller-supplied context.
type RedemptionRecord struct {
	ID             string   `json:"id"`
	Timestamp      int64    `json:"timestamp"`
	Value          *big.Int `json:"value"`
	Merchant       string   `json:"merchant"`
	TransactionID  string   `json:"transactionId,omitempty"`
	Items          []string `json:"items,omitempty"`
	PurchaseAmount *big.Int `json:"purchaseAmount,omitempty"`
}

// Clone returns a deep copy of the redemption record.
func (r RedemptionRecord) Clone() RedemptionRecord {
	clone := r
	if r.Value != nil {
		clone.Value = new(big.Int).Set(r.Value)
	}
	if r.PurchaseAmount != nil {
		clone.PurchaseAmount = new(big.Int).Set(r.PurchaseAmount)
	}
	if len(r.Items) > 0 {
		clone.Items = append([]string(nil), r.Items...)
	}
	return clone
}

// Voucher is a single merchant-issued redemption right. Kind is the semantic
// type interpreted by the value calculator ("percentage_off",
// "fixed_credits", "free_item", ...); Value's meaning depends on it. The
// record is never deleted so the redemption history survives as an audit
// trail.
type Voucher struct {
	ID            [32]byte           `json:"id"`
	Collection    [32]byte           `json:"collection"`
	Owner         [20]byte           `json:"owner"`
	Authority     [20]byte           `json:"authority"`
	Merchant      string             `json:"merchantId"`
	Kind          string             `json:"type"`
	Value         *big.Int           `json:"value"`
	Description   string             `json:"description,omitempty"`
	Status        VoucherStatus      `json:"status"`
	IssuedAt      int64              `json:"issuedAt"`
	ExpiresAt     int64              `json:"expiryDate"`
	UsedAt        int64              `json:"usedAt,omitempty"`
	MaxUses       uint32             `json:"maxUses"`
	CurrentUses   uint32             `json:"currentUses"`
	Transferable  bool               `json:"transferable"`
	XPReward      int64              `json:"xpReward,omitempty"`
	Conditions    []Condition        `json:"conditions,omitempty"`
	Redemptions   []RedemptionRecord `json:"redemptionHistory,omitempty"`
	SchemaVersion uint16             `json:"schemaVersion"`
	Version       uint64             `json:"version"`
}

// Clone returns a deep copy of the voucher so callers can safely mutate the
// copy without affecting the stored instance.
func (v *Voucher) Clone() *Voucher {
	if v == nil {
		return nil
	}
	clone := *v
	if v.Value != nil {
		clone.Value = new(big.Int).Set(v.Value)
	}
	if len(v.Conditions) > 0 {
		clone.Conditions = make([]Condition, 0, len(v.Conditions))
		for _, cond := range v.Conditions {
			clone.Conditions = append(clone.Conditions, cond.Clone())
		}
	}
	if len(v.Redemptions) > 0 {
		clone.Redemptions = make([]RedemptionRecord, 0, len(v.Redemptions))
		for _, rec := range v.Redemptions {
			clone.Redemptions = append(clone.Redemptions, rec.Clone())
		}
	}
	return &clone
}

// SanitizeVoucher validates and normalises the supplied voucher definition,
// returning a cloned instance with a canonical lowercase kind and a non-nil
// value. The function does not mutate the original value.
func SanitizeVoucher(v *Voucher) (*Voucher, error) {
	if v == nil {
		return nil, fmt.Errorf("nil voucher")
	}
	clone := v.Clone()
	clone.Kind = strings.ToLower(strings.TrimSpace(clone.Kind))
	if clone.Kind == "" {
		return nil, fmt.Errorf("voucher type must not be empty")
	}
	clone.Merchant = strings.TrimSpace(clone.Merchant)
	if clone.Merchant == "" {
		return nil, fmt.Errorf("voucher merchant id must not be empty")
	}
	if clone.Value == nil {
		clone.Value = big.NewInt(0)
	}
	if clone.Value.Sign() < 0 {
		return nil, fmt.Errorf("voucher value must not be negative")
	}
	if clone.MaxUses == 0 {
		return nil, fmt.Errorf("voucher maxUses must be at least 1")
	}
	if clone.CurrentUses > clone.MaxUses {
		return nil, fmt.Errorf("voucher currentUses %d exceeds maxUses %d", clone.CurrentUses, clone.MaxUses)
	}
	if !clone.Status.Valid() {
		return nil, fmt.Errorf("invalid voucher status: %d", clone.Status)
	}
	if clone.XPReward < 0 {
		return nil, fmt.Errorf("voucher xp reward must not be negative")
	}
	if clone.SchemaVersion == 0 {
		clone.SchemaVersion = VoucherSchemaVersion
	}
	return clone, nil
}

// RecordKind implements the Record interface.
func (v *Voucher) RecordKind() RecordKind { return KindVoucher }

// RecordKey implements the Record interface.
func (v *Voucher) RecordKey() [32]byte { return v.ID }

// RecordVersion implements the Record interface.
func (v *Voucher) RecordVersion() uint64 { return v.Version }

// SetRecordVersion implements the Record interface.
func (v *Voucher) SetRecordVersion(ver uint64) { v.Version = ver }

// RecordAuthority implements the Record interface.
func (v *Voucher) RecordAuthority() [20]byte { return v.Authority }
