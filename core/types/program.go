package types

import (
	"fmt"
	"strings"
)

// BaseTierName is the reserved name of the default tier every program must
// keep as the first entry of its tier table.
const BaseTierName = "base"

// Tier is a named threshold in a program's points table. Members whose
// accumulated XP reaches XPRequired qualify for the tier and its rewards.
type Tier struct {
	Name       string   `json:"name"`
	XPRequired int64    `json:"xpRequired"`
	Rewards    []string `json:"rewards"`
}

// Clone returns a deep copy of the tier.
func (t Tier) Clone() Tier {
	clone := Tier{Name: t.Name, XPRequired: t.XPRequired}
	if len(t.Rewards) > 0 {
		clone.Rewards = append([]string(nil), t.Rewards...)
	}
	return clone
}

// Program captures one merchant's loyalty configuration: the ordered tier
// table, the points granted per named action and the broadcast history shared
// by every pass holder. Programs are created once and only ever mutated
// through controlled tier or points-table updates.
type Program struct {
	ID              [32]byte          `json:"id"`
	Name            string            `json:"name"`
	Authority       [20]byte          `json:"authority"`
	Tiers           []Tier            `json:"tiers"`
	PointsPerAction map[string]int64  `json:"pointsPerAction"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Broadcasts      []Message         `json:"broadcasts,omitempty"`
	TotalBroadcasts uint64            `json:"totalBroadcasts"`
	CreatedAt       int64             `json:"createdAt"`
	SchemaVersion   uint16            `json:"schemaVersion"`
	Version         uint64            `json:"version"`
}

// Clone returns a deep copy of the program so callers can safely mutate the
// copy without affecting the stored instance.
func (p *Program) Clone() *Program {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Tiers = make([]Tier, 0, len(p.Tiers))
	for _, tier := range p.Tiers {
		clone.Tiers = append(clone.Tiers, tier.Clone())
	}
	if p.PointsPerAction != nil {
		clone.PointsPerAction = make(map[string]int64, len(p.PointsPerAction))
		for action, points := range p.PointsPerAction {
			clone.PointsPerAction[action] = points
		}
	}
	if p.Metadata != nil {
		clone.Metadata = make(map[string]string, len(p.Metadata))
		for k, v := range p.Metadata {
			clone.Metadata[k] = v
		}
	}
	if len(p.Broadcasts) > 0 {
		clone.Broadcasts = make([]Message, 0, len(p.Broadcasts))
		for _, msg := range p.Broadcasts {
			clone.Broadcasts = append(clone.Broadcasts, msg.Clone())
		}
	}
	return &clone
}

// BaseTier returns the program's default tier. The sanitized form guarantees
// the base tier is the first table entry.
func (p *Program) BaseTier() Tier {
	if p == nil || len(p.Tiers) == 0 {
		return Tier{Name: BaseTierName, XPRequired: 0}
	}
	return p.Tiers[0].Clone()
}

// SanitizeProgram validates and normalises the supplied program definition,
// returning a cloned instance. The tier table must open with a base tier at
// XPRequired 0 and the points table may not contain negative values.
func SanitizeProgram(p *Program) (*Program, error) {
	if p == nil {
		return nil, fmt.Errorf("nil program")
	}
	clone := p.Clone()
	clone.Name = strings.TrimSpace(clone.Name)
	if clone.Name == "" {
		return nil, fmt.Errorf("program name must not be empty")
	}
	if err := ValidateTierTable(clone.Tiers); err != nil {
		return nil, err
	}
	for action, points := range clone.PointsPerAction {
		if strings.TrimSpace(action) == "" {
			return nil, fmt.Errorf("points table contains an unnamed action")
		}
		if points < 0 {
			return nil, fmt.Errorf("points for action %q must not be negative", action)
		}
	}
	if clone.SchemaVersion == 0 {
		clone.SchemaVersion = ProgramSchemaVersion
	}
	return clone, nil
}

// ValidateTierTable enforces the tier-table invariants: non-empty, a base
// tier with XPRequired 0 in first position, no negative thresholds and no
// duplicate tier names.
func ValidateTierTable(tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("tier table must not be empty")
	}
	if tiers[0].XPRequired != 0 {
		return fmt.Errorf("first tier must be the base tier with xpRequired 0, got %d", tiers[0].XPRequired)
	}
	if strings.TrimSpace(tiers[0].Name) == "" {
		return fmt.Errorf("base tier must be named")
	}
	seen := make(map[string]struct{}, len(tiers))
	for _, tier := range tiers {
		name := strings.TrimSpace(tier.Name)
		if name == "" {
			return fmt.Errorf("tier table contains an unnamed tier")
		}
		if tier.XPRequired < 0 {
			return fmt.Errorf("tier %q has a negative xp threshold", tier.Name)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("duplicate tier name %q", tier.Name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// RecordKind implements the Record interface.
func (p *Program) RecordKind() RecordKind { return KindProgram }

// RecordKey implements the Record interface.
func (p *Program) RecordKey() [32]byte { return p.ID }

// RecordVersion implements the Record interface.
func (p *Program) RecordVersion() uint64 { return p.Version }

// SetRecordVersion implements the Record interface.
func (p *Program) SetRecordVersion(v uint64) { p.Version = v }

// RecordAuthority implements the Record interface.
func (p *Program) RecordAuthority() [20]byte { return p.Authority }
