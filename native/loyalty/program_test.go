package loyalty

import (
	"bytes"
	"errors"
	"testing"

	protoerr "github.com/Axio-Lab/verxioprotocol-sub000/core/errors"
	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

func testAuthority(fill byte) [20]byte {
	var addr [20]byte
	copy(addr[:], bytes.Repeat([]byte{fill}, 20))
	return addr
}

func TestNewProgram(t *testing.T) {
	program, err := NewProgram(ProgramConfig{
		Name:            "coffee-club",
		Authority:       testAuthority(0xAA),
		Tiers:           testTiers(),
		PointsPerAction: map[string]int64{"purchase": 50},
	}, testNow)
	if err != nil {
		t.Fatalf("new program: %v", err)
	}
	if program.ID == ([32]byte{}) {
		t.Fatalf("program id must be derived")
	}
	if program.Tiers[0].Name != "base" || program.Tiers[0].XPRequired != 0 {
		t.Fatalf("base tier must lead the table")
	}
	if program.SchemaVersion != types.ProgramSchemaVersion {
		t.Fatalf("schema version not stamped")
	}
}

func TestNewProgramDefaultsBaseTier(t *testing.T) {
	program, err := NewProgram(ProgramConfig{Name: "bare", Authority: testAuthority(0x01)}, testNow)
	if err != nil {
		t.Fatalf("new program: %v", err)
	}
	if len(program.Tiers) != 1 || program.Tiers[0].Name != types.BaseTierName {
		t.Fatalf("missing default base tier: %+v", program.Tiers)
	}
}

func TestNewProgramRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  ProgramConfig
	}{
		{"missing name", ProgramConfig{Authority: testAuthority(1)}},
		{"missing authority", ProgramConfig{Name: "x"}},
		{"base tier not first", ProgramConfig{
			Name:      "x",
			Authority: testAuthority(1),
			Tiers:     []types.Tier{{Name: "gold", XPRequired: 100}},
		}},
		{"negative points", ProgramConfig{
			Name:            "x",
			Authority:       testAuthority(1),
			PointsPerAction: map[string]int64{"purchase": -5},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewProgram(tc.cfg, testNow); !errors.Is(err, protoerr.ErrConfiguration) {
				t.Fatalf("want configuration error, got %v", err)
			}
		})
	}
}

func TestUpdateProgramTiers(t *testing.T) {
	program, err := NewProgram(ProgramConfig{Name: "x", Authority: testAuthority(1), Tiers: testTiers()}, testNow)
	if err != nil {
		t.Fatalf("new program: %v", err)
	}

	next, err := UpdateProgramTiers(program, []types.Tier{
		{Name: "base", XPRequired: 0},
		{Name: "platinum", XPRequired: 2000, Rewards: []string{"vip"}},
	})
	if err != nil {
		t.Fatalf("update tiers: %v", err)
	}
	if len(next.Tiers) != 2 || next.Tiers[1].Name != "platinum" {
		t.Fatalf("tier table not replaced: %+v", next.Tiers)
	}
	if len(program.Tiers) != 4 {
		t.Fatalf("input program mutated")
	}

	// Base tier must remain first after any update.
	if _, err := UpdateProgramTiers(program, []types.Tier{{Name: "gold", XPRequired: 500}}); !errors.Is(err, protoerr.ErrConfiguration) {
		t.Fatalf("update without leading base tier must fail, got %v", err)
	}
	if _, err := UpdateProgramTiers(program, nil); !errors.Is(err, protoerr.ErrConfiguration) {
		t.Fatalf("empty tier table must fail, got %v", err)
	}
}

func TestUpdateProgramPointsTable(t *testing.T) {
	program, err := NewProgram(ProgramConfig{Name: "x", Authority: testAuthority(1)}, testNow)
	if err != nil {
		t.Fatalf("new program: %v", err)
	}
	next, err := UpdateProgramPointsTable(program, map[string]int64{"checkin": 5})
	if err != nil {
		t.Fatalf("update points table: %v", err)
	}
	if next.PointsPerAction["checkin"] != 5 {
		t.Fatalf("table not replaced: %+v", next.PointsPerAction)
	}
	if _, err := UpdateProgramPointsTable(program, map[string]int64{"bad": -1}); !errors.Is(err, protoerr.ErrConfiguration) {
		t.Fatalf("negative points must fail, got %v", err)
	}
}

func TestIssuePass(t *testing.T) {
	program, err := NewProgram(ProgramConfig{Name: "x", Authority: testAuthority(1), Tiers: testTiers()}, testNow)
	if err != nil {
		t.Fatalf("new program: %v", err)
	}
	pass, err := IssuePass(program, testAuthority(0x42), testNow)
	if err != nil {
		t.Fatalf("issue pass: %v", err)
	}
	if pass.XP != 0 || pass.CurrentTier != "base" {
		t.Fatalf("pass must start at base with zero xp: %+v", pass)
	}
	if pass.Program != program.ID || pass.Authority != program.Authority {
		t.Fatalf("pass not linked to program")
	}
	if len(pass.Rewards) != 1 || pass.Rewards[0] != "welcome" {
		t.Fatalf("base rewards not snapshotted: %v", pass.Rewards)
	}

	if _, err := IssuePass(program, [20]byte{}, testNow); !errors.Is(err, protoerr.ErrConfiguration) {
		t.Fatalf("zero owner must fail, got %v", err)
	}
}
