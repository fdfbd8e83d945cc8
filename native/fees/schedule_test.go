package fees

import (
	"math/big"
	"testing"
)

func TestDefaultScheduleAmounts(t *testing.T) {
	s := DefaultSchedule()
	cases := []struct {
		category Category
		want     int64
	}{
		{CategoryCreateProgram, 2_000_000},
		{CategoryCreateCollection, 1_500_000},
		{CategoryOperation, 500_000},
		{CategoryInteraction, 100_000},
		{Category("something_else"), 100_000},
	}
	for _, tc := range cases {
		if got := s.Amount(tc.category); got.Cmp(big.NewInt(tc.want)) != 0 {
			t.Fatalf("Amount(%s) = %s, want %d", tc.category, got, tc.want)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	if NormalizeCategory("  Create_Program ") != CategoryCreateProgram {
		t.Fatalf("category not normalised")
	}
}

func TestOverride(t *testing.T) {
	s := DefaultSchedule()
	s.Override(CategoryOperation, big.NewInt(750_000))
	if got := s.Amount(CategoryOperation); got.Cmp(big.NewInt(750_000)) != 0 {
		t.Fatalf("override not applied: %s", got)
	}

	// Negative and nil overrides are ignored.
	s.Override(CategoryOperation, big.NewInt(-1))
	s.Override(CategoryOperation, nil)
	if got := s.Amount(CategoryOperation); got.Cmp(big.NewInt(750_000)) != 0 {
		t.Fatalf("invalid override mutated the schedule: %s", got)
	}

	// New categories may be introduced by configuration.
	s.Override(Category("premium_mint"), big.NewInt(5_000_000))
	if got := s.Amount(Category("premium_mint")); got.Cmp(big.NewInt(5_000_000)) != 0 {
		t.Fatalf("custom category not applied: %s", got)
	}
}

func TestAmountReturnsCopy(t *testing.T) {
	s := DefaultSchedule()
	got := s.Amount(CategoryOperation)
	got.SetInt64(1)
	if again := s.Amount(CategoryOperation); again.Cmp(big.NewInt(500_000)) != 0 {
		t.Fatalf("schedule aliased the returned amount: %s", again)
	}
}

func TestScheduleClone(t *testing.T) {
	s := DefaultSchedule()
	clone := s.Clone()
	clone.Override(CategoryOperation, big.NewInt(1))
	if got := s.Amount(CategoryOperation); got.Cmp(big.NewInt(500_000)) != 0 {
		t.Fatalf("clone shares state with the original: %s", got)
	}
}

func TestComposerCompose(t *testing.T) {
	treasury := [20]byte{0xAA}
	payer := [20]byte{0xBB}
	c := NewComposer(nil, treasury)

	inst := c.Compose(CategoryCreateProgram, payer)
	if inst.Payer != payer || inst.Treasury != treasury {
		t.Fatalf("unexpected parties: %+v", inst)
	}
	if inst.Amount.Cmp(big.NewInt(2_000_000)) != 0 {
		t.Fatalf("amount = %s, want 2000000", inst.Amount)
	}
	if inst.Category != CategoryCreateProgram {
		t.Fatalf("category = %s", inst.Category)
	}
}

func TestComposerIsolatedFromSchedule(t *testing.T) {
	s := DefaultSchedule()
	c := NewComposer(s, [20]byte{1})
	s.Override(CategoryOperation, big.NewInt(1))
	if inst := c.Compose(CategoryOperation, [20]byte{2}); inst.Amount.Cmp(big.NewInt(500_000)) != 0 {
		t.Fatalf("composer shares the caller's schedule: %s", inst.Amount)
	}
}
