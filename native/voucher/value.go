package voucher

import (
	"fmt"
	"math/big"
	"strings"

	protoerr "github.com/Axio-Lab/verxioprotocol-sub000/core/errors"
	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

// kindClass groups the merchant-defined voucher type strings into the value
// semantics the calculator understands. Matching is by common naming pattern
// rather than an exact list so merchant-specific spellings
// ("percentage_off", "pct_discount", "store_credit") keep working.
type kindClass uint8

const (
	classPercentage kindClass = iota
	classFixed
	classOther
)

func classifyKind(kind string) kindClass {
	k := strings.ToLower(strings.TrimSpace(kind))
	switch {
	case strings.Contains(k, "percent") || strings.Contains(k, "pct"):
		return classPercentage
	case strings.Contains(k, "fixed") || strings.Contains(k, "credit"):
		return classFixed
	default:
		return classOther
	}
}

// ComputeValue interprets the voucher's semantic type and returns the
// monetary or credit value one redemption applies.
//
// Percentage-style vouchers require the purchase amount from the redemption
// context and yield amount*value/100. Fixed-credit vouchers yield their value
// unchanged on every use; multi-use vouchers do not deplete it. All remaining
// kinds (free item, buy-one-get-one, custom rewards) also return the stored
// value as-is and leave interpretation to the caller.
func ComputeValue(v *types.Voucher, contextAmount *big.Int) (*big.Int, error) {
	if v == nil {
		return nil, ErrNilVoucher
	}
	value := v.Value
	if value == nil {
		value = big.NewInt(0)
	}
	switch classifyKind(v.Kind) {
	case classPercentage:
		if contextAmount == nil {
			return nil, fmt.Errorf("%w: redemption amount required for percentage voucher type %q", protoerr.ErrValidation, v.Kind)
		}
		result := new(big.Int).Mul(contextAmount, value)
		return result.Quo(result, big.NewInt(100)), nil
	case classFixed:
		return new(big.Int).Set(value), nil
	default:
		return new(big.Int).Set(value), nil
	}
}
