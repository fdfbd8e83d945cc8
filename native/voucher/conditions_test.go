package voucher

import (
	"math/big"
	"strings"
	"testing"

	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

const testNow int64 = 1_700_000_000

func testLifecycleEngine() *Engine {
	e := NewEngine()
	e.SetNowFunc(func() int64 { return testNow })
	return e
}

func activeVoucher() *types.Voucher {
	return &types.Voucher{
		Merchant:  "m1",
		Kind:      "fixed_credits",
		Value:     big.NewInt(100),
		Status:    types.VoucherActive,
		IssuedAt:  testNow - 1000,
		ExpiresAt: testNow + 30*24*3600,
		MaxUses:   3,
	}
}

func hasError(res Result, substr string) bool {
	for _, e := range res.Errors {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestValidateCleanVoucher(t *testing.T) {
	e := testLifecycleEngine()
	res := e.Validate(activeVoucher(), "m1", nil)
	if !res.Success || len(res.Errors) != 0 {
		t.Fatalf("expected clean validation, got %+v", res)
	}
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	e := testLifecycleEngine()
	v := activeVoucher()
	v.Status = types.VoucherCancelled
	v.ExpiresAt = testNow - 10
	v.CurrentUses = 3

	res := e.Validate(v, "other-merchant", nil)
	if res.Success {
		t.Fatalf("expected failure")
	}
	if len(res.Errors) != 4 {
		t.Fatalf("expected 4 accumulated errors, got %d: %v", len(res.Errors), res.Errors)
	}
	if !hasError(res, "not active") || !hasError(res, "merchant") || !hasError(res, "expired") || !hasError(res, "maximum usage") {
		t.Fatalf("missing expected errors: %v", res.Errors)
	}
}

func TestValidateMerchantMatchIsExact(t *testing.T) {
	e := testLifecycleEngine()

	// Merchant identifiers are opaque; only surrounding whitespace is
	// forgiven, never case.
	if res := e.Validate(activeVoucher(), " m1 ", nil); !res.Success {
		t.Fatalf("trimmed merchant must match: %v", res.Errors)
	}
	res := e.Validate(activeVoucher(), "M1", nil)
	if res.Success || !hasError(res, "merchant") {
		t.Fatalf("case-variant merchant must be rejected, got %+v", res)
	}
}

func TestValidateExpiryWarning(t *testing.T) {
	e := testLifecycleEngine()
	v := activeVoucher()
	v.ExpiresAt = testNow + 3600

	res := e.Validate(v, "m1", nil)
	if !res.Success {
		t.Fatalf("warning must not block: %v", res.Errors)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "24 hours") {
		t.Fatalf("expected 24h warning, got %v", res.Warnings)
	}
}

func TestValidateMinimumPurchase(t *testing.T) {
	e := testLifecycleEngine()
	v := activeVoucher()
	v.Conditions = []types.Condition{{
		Type:     types.ConditionMinimumPurchase,
		Operator: OpGreaterThan,
		Amount:   big.NewInt(50),
	}}

	res := e.Validate(v, "m1", &RedemptionContext{PurchaseAmount: big.NewInt(25)})
	if res.Success {
		t.Fatalf("expected failure")
	}
	if !hasError(res, "Minimum purchase amount of 50 required") {
		t.Fatalf("expected minimum purchase error, got %v", res.Errors)
	}

	// greater_than is strict: exactly 50 still fails, 51 passes.
	if res := e.Validate(v, "m1", &RedemptionContext{PurchaseAmount: big.NewInt(50)}); res.Success {
		t.Fatalf("greater_than must be strict")
	}
	if res := e.Validate(v, "m1", &RedemptionContext{PurchaseAmount: big.NewInt(51)}); !res.Success {
		t.Fatalf("51 should pass: %v", res.Errors)
	}

	// Default operator allows equality.
	v.Conditions[0].Operator = ""
	if res := e.Validate(v, "m1", &RedemptionContext{PurchaseAmount: big.NewInt(50)}); !res.Success {
		t.Fatalf("default operator should allow equality: %v", res.Errors)
	}

	// Missing context amount fails too.
	if res := e.Validate(v, "m1", nil); res.Success {
		t.Fatalf("missing purchase amount must fail")
	}
}

func TestValidateSpecificItems(t *testing.T) {
	e := testLifecycleEngine()
	v := activeVoucher()
	v.Conditions = []types.Condition{{
		Type:  types.ConditionSpecificItems,
		Items: []string{"latte", "espresso"},
	}}

	// Default: every required item must be present.
	if res := e.Validate(v, "m1", &RedemptionContext{Items: []string{"latte"}}); res.Success {
		t.Fatalf("missing espresso must fail")
	}
	if res := e.Validate(v, "m1", &RedemptionContext{Items: []string{"Espresso", "LATTE", "muffin"}}); !res.Success {
		t.Fatalf("case-insensitive full match should pass: %v", res.Errors)
	}

	// contains: any required item satisfies.
	v.Conditions[0].Operator = OpContains
	if res := e.Validate(v, "m1", &RedemptionContext{Items: []string{"espresso"}}); !res.Success {
		t.Fatalf("contains should accept any required item: %v", res.Errors)
	}
	if res := e.Validate(v, "m1", &RedemptionContext{Items: []string{"muffin"}}); res.Success {
		t.Fatalf("no required item present must fail")
	}
	if res := e.Validate(v, "m1", nil); res.Success {
		t.Fatalf("empty item context must fail")
	}
}

func TestValidateTimeRestriction(t *testing.T) {
	e := testLifecycleEngine()
	v := activeVoucher()

	cases := []struct {
		name     string
		operator string
		ts       int64
		ctxTime  int64
		ok       bool
	}{
		{"after threshold passes", OpGreaterThan, testNow - 100, 0, true},
		{"before threshold fails", OpGreaterThan, testNow + 100, 0, false},
		{"before cutoff passes", OpLessThan, testNow + 100, 0, true},
		{"after cutoff fails", OpLessThan, testNow - 100, 0, false},
		{"within equals window", OpEquals, testNow + 1800, 0, true},
		{"outside equals window", OpEquals, testNow + 7200, 0, false},
		{"explicit context timestamp", OpGreaterThan, testNow + 100, testNow + 200, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v.Conditions = []types.Condition{{Type: types.ConditionTimeRestriction, Operator: tc.operator, Timestamp: tc.ts}}
			var rctx *RedemptionContext
			if tc.ctxTime != 0 {
				rctx = &RedemptionContext{Timestamp: tc.ctxTime}
			}
			res := e.Validate(v, "m1", rctx)
			if res.Success != tc.ok {
				t.Fatalf("success = %v, want %v (errors: %v)", res.Success, tc.ok, res.Errors)
			}
		})
	}
}

func TestValidateUserTier(t *testing.T) {
	e := testLifecycleEngine()
	v := activeVoucher()
	v.Conditions = []types.Condition{{Type: types.ConditionUserTier, Operator: OpEquals, Tier: "gold"}}

	if res := e.Validate(v, "m1", &RedemptionContext{UserTier: "gold"}); !res.Success {
		t.Fatalf("exact tier should pass: %v", res.Errors)
	}
	if res := e.Validate(v, "m1", &RedemptionContext{UserTier: "silver"}); res.Success {
		t.Fatalf("wrong tier must fail")
	}
	if res := e.Validate(v, "m1", nil); res.Success {
		t.Fatalf("missing tier context must fail")
	}

	// Default operator is substring containment.
	v.Conditions[0].Operator = ""
	if res := e.Validate(v, "m1", &RedemptionContext{UserTier: "gold-elite"}); !res.Success {
		t.Fatalf("containment should pass: %v", res.Errors)
	}
}

func TestValidateUnknownConditionType(t *testing.T) {
	e := testLifecycleEngine()
	v := activeVoucher()
	v.Conditions = []types.Condition{{Type: "moon_phase"}}

	res := e.Validate(v, "m1", nil)
	if res.Success || !hasError(res, "unknown condition type") {
		t.Fatalf("unknown condition type must fail: %+v", res)
	}
}

func TestValidateNoConditionsNeedsNoContext(t *testing.T) {
	e := testLifecycleEngine()
	res := e.Validate(activeVoucher(), "m1", nil)
	if !res.Success {
		t.Fatalf("condition-free voucher must validate without context: %v", res.Errors)
	}
}
