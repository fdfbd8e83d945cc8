package types

// ActionEntry records a single points mutation applied to a pass.
type ActionEntry struct {
	Action    string `json:"action"`
	Points    int64  `json:"points"`
	Timestamp int64  `json:"timestamp"`
	NewTotal  int64  `json:"newTotal"`
}

// Pass is the per-user loyalty record for one program. The XP balance, the
// resolved tier and both histories live in the record's mutable payload and
// are rewritten wholesale on every mutation.
type Pass struct {
	ID            [32]byte      `json:"id"`
	Program       [32]byte      `json:"program"`
	Owner         [20]byte      `json:"owner"`
	Authority     [20]byte      `json:"authority"`
	XP            int64         `json:"xp"`
	CurrentTier   string        `json:"currentTier"`
	TierUpdatedAt int64         `json:"tierUpdatedAt"`
	LastAction    string        `json:"lastAction,omitempty"`
	Actions       []ActionEntry `json:"actionHistory,omitempty"`
	Messages      []Message     `json:"messageHistory,omitempty"`
	Rewards       []string      `json:"rewards,omitempty"`
	IssuedAt      int64         `json:"issuedAt"`
	SchemaVersion uint16        `json:"schemaVersion"`
	Version       uint64        `json:"version"`
}

// Clone returns a deep copy of the pass.
func (p *Pass) Clone() *Pass {
	if p == nil {
		return nil
	}
	clone := *p
	if len(p.Actions) > 0 {
		clone.Actions = append([]ActionEntry(nil), p.Actions...)
	}
	if len(p.Messages) > 0 {
		clone.Messages = make([]Message, 0, len(p.Messages))
		for _, msg := range p.Messages {
			clone.Messages = append(clone.Messages, msg.Clone())
		}
	}
	if len(p.Rewards) > 0 {
		clone.Rewards = append([]string(nil), p.Rewards...)
	}
	return &clone
}

// RecordKind implements the Record interface.
func (p *Pass) RecordKind() RecordKind { return KindPass }

// RecordKey implements the Record interface.
func (p *Pass) RecordKey() [32]byte { return p.ID }

// RecordVersion implements the Record interface.
func (p *Pass) RecordVersion() uint64 { return p.Version }

// SetRecordVersion implements the Record interface.
func (p *Pass) SetRecordVersion(v uint64) { p.Version = v }

// RecordAuthority implements the Record interface.
func (p *Pass) RecordAuthority() [20]byte { return p.Authority }
