package events

const (
	TypeProgramCreated  = "loyalty.program.created"
	TypeProgramUpdated  = "loyalty.program.updated"
	TypePassIssued      = "loyalty.pass.issued"
	TypePointsAwarded   = "loyalty.points.awarded"
	TypePointsRevoked   = "loyalty.points.revoked"
	TypePointsGifted    = "loyalty.points.gifted"
	TypePassTierChanged = "loyalty.pass.tier_changed"
	TypeMessageSent     = "loyalty.message.sent"
	TypeMessageRead     = "loyalty.message.read"
	TypeBroadcastSent   = "loyalty.broadcast.sent"
	TypeBroadcastRead   = "loyalty.broadcast.read"
)

// ProgramCreated is emitted when a merchant loyalty program is written to the
// ledger for the first time.
type ProgramCreated struct {
	ID        [32]byte
	Name      string
	Authority [20]byte
	TierCount int
}

func (ProgramCreated) EventType() string { return TypeProgramCreated }

// ProgramUpdated is emitted after a controlled tier-table or points-table
// update.
type ProgramUpdated struct {
	ID        [32]byte
	Authority [20]byte
	Field     string
}

func (ProgramUpdated) EventType() string { return TypeProgramUpdated }

// PassIssued is emitted when a pass record is created for an end user.
type PassIssued struct {
	ID      [32]byte
	Program [32]byte
	Owner   [20]byte
	Tier    string
}

func (PassIssued) EventType() string { return TypePassIssued }

// PointsAwarded is emitted after a successful award operation.
type PointsAwarded struct {
	Pass    [32]byte
	Action  string
	Points  int64
	NewXP   int64
	NewTier string
}

func (PointsAwarded) EventType() string { return TypePointsAwarded }

// PointsRevoked is emitted after a successful revoke operation.
type PointsRevoked struct {
	Pass    [32]byte
	Points  int64
	NewXP   int64
	NewTier string
}

func (PointsRevoked) EventType() string { return TypePointsRevoked }

// PointsGifted is emitted after a successful gift operation.
type PointsGifted struct {
	Pass    [32]byte
	Reason  string
	Points  int64
	NewXP   int64
	NewTier string
}

func (PointsGifted) EventType() string { return TypePointsGifted }

// PassTierChanged is emitted whenever a points mutation moves a pass into a
// different tier.
type PassTierChanged struct {
	Pass         [32]byte
	PreviousTier string
	NewTier      string
	XP           int64
}

func (PassTierChanged) EventType() string { return TypePassTierChanged }

// MessageSent is emitted when a message is appended to a pass history.
type MessageSent struct {
	Pass      [32]byte
	MessageID string
	Sender    string
}

func (MessageSent) EventType() string { return TypeMessageSent }

// MessageRead is emitted when a pass message is marked read.
type MessageRead struct {
	Pass      [32]byte
	MessageID string
}

func (MessageRead) EventType() string { return TypeMessageRead }

// BroadcastSent is emitted when a broadcast is appended to a program.
type BroadcastSent struct {
	Program   [32]byte
	MessageID string
	Sender    string
}

func (BroadcastSent) EventType() string { return TypeBroadcastSent }

// BroadcastRead is emitted when a program broadcast is marked read.
type BroadcastRead struct {
	Program   [32]byte
	MessageID string
}

func (BroadcastRead) EventType() string { return TypeBroadcastRead }
