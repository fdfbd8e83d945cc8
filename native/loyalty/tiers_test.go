package loyalty

import (
	"testing"

	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

func testTiers() []types.Tier {
	return []types.Tier{
		{Name: "base", XPRequired: 0, Rewards: []string{"welcome"}},
		{Name: "bronze", XPRequired: 100, Rewards: []string{"5% off"}},
		{Name: "silver", XPRequired: 500, Rewards: []string{"10% off"}},
		{Name: "gold", XPRequired: 1000, Rewards: []string{"20% off", "free shipping"}},
	}
}

func TestResolveTier(t *testing.T) {
	tiers := testTiers()
	cases := []struct {
		name string
		xp   int64
		want string
	}{
		{"zero xp stays base", 0, "base"},
		{"below first threshold", 99, "base"},
		{"exact threshold qualifies", 100, "bronze"},
		{"between tiers", 750, "silver"},
		{"top tier", 1000, "gold"},
		{"far beyond top tier", 100000, "gold"},
		{"negative xp falls back to base", -5, "base"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveTier(tiers, tc.xp)
			if got.Name != tc.want {
				t.Fatalf("ResolveTier(%d) = %q, want %q", tc.xp, got.Name, tc.want)
			}
		})
	}
}

func TestResolveTierEmptyTable(t *testing.T) {
	got := ResolveTier(nil, 500)
	if got.Name != types.BaseTierName || got.XPRequired != 0 {
		t.Fatalf("empty table should fall back to base tier, got %+v", got)
	}
}

func TestResolveTierTieLaterWins(t *testing.T) {
	tiers := []types.Tier{
		{Name: "base", XPRequired: 0},
		{Name: "member", XPRequired: 100, Rewards: []string{"old"}},
		{Name: "member-v2", XPRequired: 100, Rewards: []string{"new"}},
	}
	got := ResolveTier(tiers, 250)
	if got.Name != "member-v2" {
		t.Fatalf("later tier should win a threshold tie, got %q", got.Name)
	}
}

func TestResolveTierSelectsGreatestQualifying(t *testing.T) {
	tiers := testTiers()
	for xp := int64(0); xp <= 1200; xp += 37 {
		got := ResolveTier(tiers, xp)
		if got.XPRequired > xp {
			t.Fatalf("xp=%d resolved tier %q requires %d", xp, got.Name, got.XPRequired)
		}
		for _, tier := range tiers {
			if tier.XPRequired <= xp && tier.XPRequired > got.XPRequired {
				t.Fatalf("xp=%d resolved %q but %q also qualifies with higher threshold", xp, got.Name, tier.Name)
			}
		}
	}
}
