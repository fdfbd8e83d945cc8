package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validTiers() []Tier {
	return []Tier{
		{Name: "Grind", XPRequired: 0},
		{Name: "Bronze", XPRequired: 100, Rewards: []string{"free shot"}},
		{Name: "Silver", XPRequired: 500},
	}
}

func TestValidateTierTable(t *testing.T) {
	require.NoError(t, ValidateTierTable(validTiers()))

	cases := []struct {
		name  string
		tiers []Tier
	}{
		{"empty table", nil},
		{"base tier above zero", []Tier{{Name: "Bronze", XPRequired: 100}}},
		{"unnamed base tier", []Tier{{Name: "  ", XPRequired: 0}}},
		{"unnamed tier", []Tier{{Name: "Grind"}, {Name: "", XPRequired: 50}}},
		{"negative threshold", []Tier{{Name: "Grind"}, {Name: "Bronze", XPRequired: -1}}},
		{"duplicate names", []Tier{{Name: "Grind"}, {Name: "Grind", XPRequired: 100}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, ValidateTierTable(tc.tiers))
		})
	}
}

func TestSanitizeProgram(t *testing.T) {
	program := &Program{
		Name:            "  Coffee Rewards  ",
		Tiers:           validTiers(),
		PointsPerAction: map[string]int64{"purchase": 100},
	}
	sanitized, err := SanitizeProgram(program)
	require.NoError(t, err)
	require.Equal(t, "Coffee Rewards", sanitized.Name)
	require.Equal(t, uint16(ProgramSchemaVersion), sanitized.SchemaVersion)

	// The input is untouched and the clone is independent.
	require.Equal(t, "  Coffee Rewards  ", program.Name)
	sanitized.PointsPerAction["purchase"] = 1
	require.Equal(t, int64(100), program.PointsPerAction["purchase"])

	_, err = SanitizeProgram(&Program{Name: "x", Tiers: validTiers(), PointsPerAction: map[string]int64{"purchase": -1}})
	require.Error(t, err)
	_, err = SanitizeProgram(&Program{Name: " ", Tiers: validTiers()})
	require.Error(t, err)
}

func TestProgramBaseTier(t *testing.T) {
	program := &Program{Tiers: validTiers()}
	base := program.BaseTier()
	require.Equal(t, "Grind", base.Name)
	require.Zero(t, base.XPRequired)

	empty := &Program{}
	require.Equal(t, BaseTierName, empty.BaseTier().Name)
}

func TestProgramCloneIsDeep(t *testing.T) {
	program := &Program{
		Name:            "Coffee Rewards",
		Tiers:           validTiers(),
		PointsPerAction: map[string]int64{"purchase": 100},
		Metadata:        map[string]string{"city": "Lagos"},
		Broadcasts:      []Message{{ID: "b1", Content: "hello"}},
	}
	clone := program.Clone()
	clone.Tiers[1].Rewards[0] = "changed"
	clone.PointsPerAction["purchase"] = 1
	clone.Metadata["city"] = "Accra"
	clone.Broadcasts[0].Read = true

	require.Equal(t, "free shot", program.Tiers[1].Rewards[0])
	require.Equal(t, int64(100), program.PointsPerAction["purchase"])
	require.Equal(t, "Lagos", program.Metadata["city"])
	require.False(t, program.Broadcasts[0].Read)
}
