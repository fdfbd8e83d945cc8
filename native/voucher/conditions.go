package voucher

import (
	"math/big"
	"strings"

	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

// Operators recognised by the conditions evaluator.
const (
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
	OpEquals      = "equals"
	OpContains    = "contains"
)

// equalsWindowSeconds is the tolerance applied when a time restriction uses
// the equals operator.
const equalsWindowSeconds = 3600

// expiryWarningWindow is how close to expiry a voucher may be before the
// evaluator emits a non-blocking warning, in seconds.
const expiryWarningWindow = 24 * 3600

// RedemptionContext carries the caller-supplied facts a redemption is
// evaluated against. Timestamp zero means "now".
type RedemptionContext struct {
	PurchaseAmount *big.Int
	Items          []string
	Timestamp      int64
	UserTier       string
	TransactionID  string
}

// Validate runs every redemption precondition against the voucher and
// returns all violations at once: the record's status, the merchant scope,
// expiry, the usage cap and each attached condition. A voucher without
// conditions needs no context at all.
func (e *Engine) Validate(v *types.Voucher, merchant string, rctx *RedemptionContext) Result {
	res := Result{}
	if v == nil {
		res.fail("voucher not found")
		res.finish()
		return res
	}
	now := e.now()

	if v.Status != types.VoucherActive {
		res.fail("voucher is not active (status: %s)", v.Status)
	}
	if strings.TrimSpace(merchant) != v.Merchant {
		res.fail("voucher can only be redeemed at merchant %q", v.Merchant)
	}
	if v.ExpiresAt <= now {
		res.fail("voucher has expired")
	} else if v.ExpiresAt-now < expiryWarningWindow {
		res.warn("voucher expires within 24 hours")
	}
	if v.CurrentUses >= v.MaxUses {
		res.fail("voucher has reached its maximum usage limit")
	}

	for _, cond := range v.Conditions {
		e.checkCondition(&res, cond, rctx, now)
	}

	res.finish()
	return res
}

func (e *Engine) checkCondition(res *Result, cond types.Condition, rctx *RedemptionContext, now int64) {
	switch cond.Type {
	case types.ConditionMinimumPurchase:
		required := cond.Amount
		if required == nil {
			required = big.NewInt(0)
		}
		if rctx == nil || rctx.PurchaseAmount == nil {
			res.fail("Minimum purchase amount of %s required", required)
			return
		}
		cmp := rctx.PurchaseAmount.Cmp(required)
		if cond.Operator == OpGreaterThan {
			if cmp <= 0 {
				res.fail("Minimum purchase amount of %s required", required)
			}
			return
		}
		if cmp < 0 {
			res.fail("Minimum purchase amount of %s required", required)
		}

	case types.ConditionSpecificItems:
		if rctx == nil || len(rctx.Items) == 0 {
			res.fail("purchase must include required item(s): %s", strings.Join(cond.Items, ", "))
			return
		}
		present := make(map[string]struct{}, len(rctx.Items))
		for _, item := range rctx.Items {
			present[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
		}
		if cond.Operator == OpContains {
			for _, item := range cond.Items {
				if _, ok := present[strings.ToLower(strings.TrimSpace(item))]; ok {
					return
				}
			}
			res.fail("purchase must include at least one of: %s", strings.Join(cond.Items, ", "))
			return
		}
		for _, item := range cond.Items {
			if _, ok := present[strings.ToLower(strings.TrimSpace(item))]; !ok {
				res.fail("purchase must include required item(s): %s", strings.Join(cond.Items, ", "))
				return
			}
		}

	case types.ConditionTimeRestriction:
		ts := now
		if rctx != nil && rctx.Timestamp != 0 {
			ts = rctx.Timestamp
		}
		switch cond.Operator {
		case OpGreaterThan:
			if ts <= cond.Timestamp {
				res.fail("voucher cannot be redeemed before the allowed time")
			}
		case OpLessThan:
			if ts >= cond.Timestamp {
				res.fail("voucher cannot be redeemed after the allowed time")
			}
		case OpEquals:
			diff := ts - cond.Timestamp
			if diff < 0 {
				diff = -diff
			}
			if diff > equalsWindowSeconds {
				res.fail("voucher must be redeemed within the allowed time window")
			}
		default:
			res.fail("unknown time restriction operator: %s", cond.Operator)
		}

	case types.ConditionUserTier:
		if rctx == nil || strings.TrimSpace(rctx.UserTier) == "" {
			res.fail("user tier required to redeem this voucher")
			return
		}
		userTier := strings.ToLower(strings.TrimSpace(rctx.UserTier))
		wantTier := strings.ToLower(strings.TrimSpace(cond.Tier))
		if cond.Operator == OpEquals {
			if userTier != wantTier {
				res.fail("voucher requires tier %q", cond.Tier)
			}
			return
		}
		if !strings.Contains(userTier, wantTier) {
			res.fail("voucher requires tier %q", cond.Tier)
		}

	default:
		res.fail("unknown condition type: %s", cond.Type)
	}
}
