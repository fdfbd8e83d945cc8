package loyalty

import "github.com/Axio-Lab/verxioprotocol-sub000/core/types"

// ResolveTier selects, among all tiers whose threshold the balance meets, the
// one with the greatest XPRequired. Ties are broken by table order with the
// later entry winning. The function is pure and never fails: an empty table
// or a negative balance falls back to the program's base tier.
func ResolveTier(tiers []types.Tier, xp int64) types.Tier {
	if len(tiers) == 0 {
		return types.Tier{Name: types.BaseTierName, XPRequired: 0}
	}
	best := tiers[0].Clone()
	if xp < 0 {
		return best
	}
	for _, tier := range tiers[1:] {
		if tier.XPRequired <= xp && tier.XPRequired >= best.XPRequired {
			best = tier.Clone()
		}
	}
	return best
}
