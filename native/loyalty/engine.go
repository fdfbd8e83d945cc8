package loyalty

import (
	"fmt"
	"time"

	protoerr "github.com/Axio-Lab/verxioprotocol-sub000/core/errors"
	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

// Engine computes the next pass state for the points operations. It holds no
// state of its own; every method takes the current records and returns fresh
// copies, leaving the inputs untouched.
type Engine struct {
	nowFn func() int64
}

// NewEngine creates a points engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{nowFn: func() int64 { return time.Now().Unix() }}
}

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// AwardResult carries the next pass state produced by Award together with the
// tier movement observed.
type AwardResult struct {
	Pass          *types.Pass
	PointsAwarded int64
	PreviousTier  string
	NewTier       string
	TierChanged   bool
}

// RevokeResult carries the next pass state produced by Revoke. PointsRevoked
// is the amount actually removed, capped at the pass's balance.
type RevokeResult struct {
	Pass          *types.Pass
	PointsRevoked int64
	PreviousTier  string
	NewTier       string
	TierChanged   bool
}

// GiftResult carries the next pass state produced by Gift.
type GiftResult struct {
	Pass          *types.Pass
	PointsGifted  int64
	PreviousTier  string
	NewTier       string
	TierChanged   bool
}

// Award looks up the program's points value for the named action, multiplies
// it and credits the pass. The action must be configured with a positive
// value and the table itself must carry at least one positive entry.
func (e *Engine) Award(program *types.Program, pass *types.Pass, action string, multiplier int64) (*AwardResult, error) {
	if program == nil {
		return nil, ErrNilProgram
	}
	if pass == nil {
		return nil, ErrNilPass
	}
	if len(program.PointsPerAction) == 0 {
		return nil, fmt.Errorf("%w: %w", protoerr.ErrConfiguration, ErrNoPointsTable)
	}
	tableHasPositive := false
	for _, points := range program.PointsPerAction {
		if points > 0 {
			tableHasPositive = true
			break
		}
	}
	if !tableHasPositive {
		return nil, fmt.Errorf("%w: %w", protoerr.ErrConfiguration, ErrZeroPointsTable)
	}
	points, ok := program.PointsPerAction[action]
	if !ok || points <= 0 {
		return nil, fmt.Errorf("%w: action %q is not configured with a positive points value", protoerr.ErrConfiguration, action)
	}
	if multiplier <= 0 {
		multiplier = 1
	}

	awarded := points * multiplier
	next, previousTier, newTier := e.applyPoints(program, pass, pass.XP+awarded, action, awarded)
	return &AwardResult{
		Pass:          next,
		PointsAwarded: awarded,
		PreviousTier:  previousTier,
		NewTier:       newTier,
		TierChanged:   previousTier != newTier,
	}, nil
}

// Revoke removes up to points XP from the pass, never dropping the balance
// below zero. The amount actually revoked is capped at the current balance.
func (e *Engine) Revoke(program *types.Program, pass *types.Pass, points int64) (*RevokeResult, error) {
	if program == nil {
		return nil, ErrNilProgram
	}
	if pass == nil {
		return nil, ErrNilPass
	}
	if points <= 0 {
		return nil, fmt.Errorf("%w: points to revoke must be positive, got %d", protoerr.ErrValidation, points)
	}

	newXP := pass.XP - points
	if newXP < 0 {
		newXP = 0
	}
	revoked := pass.XP - newXP
	next, previousTier, newTier := e.applyPoints(program, pass, newXP, "revoke", -revoked)
	return &RevokeResult{
		Pass:          next,
		PointsRevoked: revoked,
		PreviousTier:  previousTier,
		NewTier:       newTier,
		TierChanged:   previousTier != newTier,
	}, nil
}

// Gift credits points to the pass outside the points-per-action table, e.g.
// goodwill grants or voucher redemption bonuses. The reason is recorded as
// the action name.
func (e *Engine) Gift(program *types.Program, pass *types.Pass, points int64, reason string) (*GiftResult, error) {
	if program == nil {
		return nil, ErrNilProgram
	}
	if pass == nil {
		return nil, ErrNilPass
	}
	if points <= 0 {
		return nil, fmt.Errorf("%w: points to gift must be positive, got %d", protoerr.ErrValidation, points)
	}
	if reason == "" {
		reason = "gift"
	}

	next, previousTier, newTier := e.applyPoints(program, pass, pass.XP+points, reason, points)
	return &GiftResult{
		Pass:          next,
		PointsGifted:  points,
		PreviousTier:  previousTier,
		NewTier:       newTier,
		TierChanged:   previousTier != newTier,
	}, nil
}

// applyPoints produces the next pass state for a points mutation: the new
// balance, the re-resolved tier, the tier-driven rewards snapshot and one
// appended history entry. TierUpdatedAt moves only when the tier name
// changes.
func (e *Engine) applyPoints(program *types.Program, pass *types.Pass, newXP int64, action string, delta int64) (next *types.Pass, previousTier, newTier string) {
	now := e.now()
	next = pass.Clone()
	previousTier = pass.CurrentTier

	next.XP = newXP
	resolved := ResolveTier(program.Tiers, newXP)
	newTier = resolved.Name
	next.CurrentTier = resolved.Name
	if previousTier != resolved.Name {
		next.TierUpdatedAt = now
	}
	next.Rewards = append([]string(nil), resolved.Rewards...)
	next.LastAction = action
	next.Actions = append(next.Actions, types.ActionEntry{
		Action:    action,
		Points:    delta,
		Timestamp: now,
		NewTotal:  newXP,
	})
	return next, previousTier, newTier
}
