package voucher

import (
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

// Engine is the voucher lifecycle state machine. Every method computes the
// next record state from the value it is given and never mutates its input;
// failed validation returns the accumulated diagnostics with no new state.
type Engine struct {
	nowFn func() int64
}

// NewEngine creates a lifecycle engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{nowFn: func() int64 { return time.Now().Unix() }}
}

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// RedeemOutcome is the accumulated result of a redemption attempt. On
// success Voucher holds the next record state, RedemptionValue the computed
// value and Record the history entry that was appended.
type RedeemOutcome struct {
	Result
	Voucher         *types.Voucher
	RedemptionValue *big.Int
	Record          *types.RedemptionRecord
}

// Redeem consumes one use of the voucher. All preconditions are evaluated
// first; any violation leaves the voucher untouched and surfaces every error
// at once. A successful redemption increments the usage counter, appends a
// redemption record with the computed value and flips the status to used
// exactly when the cap is reached.
func (e *Engine) Redeem(v *types.Voucher, merchant string, rctx *RedemptionContext) *RedeemOutcome {
	out := &RedeemOutcome{}
	out.Result = e.Validate(v, merchant, rctx)
	if !out.Result.Success {
		return out
	}

	var contextAmount *big.Int
	if rctx != nil {
		contextAmount = rctx.PurchaseAmount
	}
	value, err := ComputeValue(v, contextAmount)
	if err != nil {
		out.fail("%s", err)
		out.finish()
		return out
	}

	now := e.now()
	next := v.Clone()
	next.CurrentUses++
	next.UsedAt = now
	if next.CurrentUses >= next.MaxUses {
		next.Status = types.VoucherUsed
	}
	record := types.RedemptionRecord{
		ID:        uuid.NewString(),
		Timestamp: now,
		Value:     new(big.Int).Set(value),
		Merchant:  v.Merchant,
	}
	if rctx != nil {
		record.TransactionID = rctx.TransactionID
		if len(rctx.Items) > 0 {
			record.Items = append([]string(nil), rctx.Items...)
		}
		if rctx.PurchaseAmount != nil {
			record.PurchaseAmount = new(big.Int).Set(rctx.PurchaseAmount)
		}
	}
	next.Redemptions = append(next.Redemptions, record)

	out.Voucher = next
	out.RedemptionValue = value
	out.Record = &record
	return out
}

// CancelOutcome is the result of a cancellation attempt.
type CancelOutcome struct {
	Result
	Voucher *types.Voucher
}

// Cancel transitions the voucher to its terminal cancelled state. Cancelling
// an already cancelled or fully used voucher fails; an expired voucher may
// still be cancelled.
func (e *Engine) Cancel(v *types.Voucher) *CancelOutcome {
	out := &CancelOutcome{}
	if v == nil {
		out.fail("voucher not found")
		out.finish()
		return out
	}
	if v.Status == types.VoucherCancelled {
		out.fail("voucher is already cancelled")
	}
	if v.Status == types.VoucherUsed {
		out.fail("cannot cancel a fully used voucher")
	}
	out.finish()
	if !out.Success {
		return out
	}

	next := v.Clone()
	next.Status = types.VoucherCancelled
	next.UsedAt = e.now()
	out.Voucher = next
	return out
}

// ExtendOutcome is the result of an expiry extension attempt. Reactivated is
// set when the extension flipped an expired voucher back to active.
type ExtendOutcome struct {
	Result
	Voucher     *types.Voucher
	Reactivated bool
}

// ExtendExpiry moves the voucher's expiry date forward. The new date must be
// in the future and strictly after the current expiry. Extending an expired
// voucher reactivates it; used and cancelled vouchers are terminal.
func (e *Engine) ExtendExpiry(v *types.Voucher, newExpiry int64) *ExtendOutcome {
	out := &ExtendOutcome{}
	if v == nil {
		out.fail("voucher not found")
		out.finish()
		return out
	}
	now := e.now()
	if v.Status == types.VoucherCancelled {
		out.fail("cannot extend a cancelled voucher")
	}
	if v.Status == types.VoucherUsed {
		out.fail("cannot extend a fully used voucher")
	}
	if newExpiry <= now {
		out.fail("new expiry date must be in the future")
	}
	if newExpiry <= v.ExpiresAt {
		out.fail("new expiry date must be after the current expiry date")
	}
	out.finish()
	if !out.Success {
		return out
	}

	next := v.Clone()
	next.ExpiresAt = newExpiry
	if v.Status == types.VoucherExpired {
		next.Status = types.VoucherActive
		out.Reactivated = true
	}
	out.Voucher = next
	return out
}

// ReduceXPOutcome is the result of an XP reward reduction attempt.
type ReduceXPOutcome struct {
	Result
	Voucher   *types.Voucher
	Remaining int64
}

// ReduceXPReward lowers the bonus points the voucher grants on redemption.
// The status is untouched; the reward can never go below zero and the
// reduction may not exceed the remaining reward.
func (e *Engine) ReduceXPReward(v *types.Voucher, xpToReduce int64) *ReduceXPOutcome {
	out := &ReduceXPOutcome{}
	if v == nil {
		out.fail("voucher not found")
		out.finish()
		return out
	}
	if v.XPReward <= 0 {
		out.fail("voucher has no XP reward to reduce")
	}
	if v.Status == types.VoucherCancelled {
		out.fail("cannot reduce the XP reward of a cancelled voucher")
	}
	if xpToReduce <= 0 {
		out.fail("XP to reduce must be positive")
	} else if xpToReduce > v.XPReward {
		out.fail("Cannot reduce %d XP: voucher only has %d XP available", xpToReduce, v.XPReward)
	}
	out.finish()
	if !out.Success {
		return out
	}

	next := v.Clone()
	next.XPReward -= xpToReduce
	if next.XPReward < 0 {
		next.XPReward = 0
	}
	out.Voucher = next
	out.Remaining = next.XPReward
	return out
}
